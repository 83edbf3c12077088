package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/medcards-api/internal/api"
	apiMiddleware "github.com/phrazzld/medcards-api/internal/api/middleware"
)

// setupRouter creates the router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	r.Use(middleware.Recoverer)

	authHandler := api.NewAuthHandler(app.userService, app.jwtService, app.logger)
	categoryHandler := api.NewCategoryHandler(app.categoryService, app.logger)
	cardHandler := api.NewCardHandler(app.cardService, app.logger)
	studyHandler := api.NewStudyHandler(app.reviewService, app.logger)
	goalHandler := api.NewGoalHandler(app.goalService, app.logger)
	reportHandler := api.NewReportHandler(app.reportService, app.logger)
	listHandler := api.NewQuestionListHandler(app.questionListService, app.logger)

	var pinger api.Pinger
	if app.db != nil {
		pinger = app.db
	}
	healthHandler := api.NewHealthHandler(pinger, app.logger)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService, app.userService, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.Health)

		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/me", authHandler.Me)

			r.Get("/categories", categoryHandler.ListCategories)
			r.Post("/categories", categoryHandler.CreateCategory)
			r.Put("/categories/{id}", categoryHandler.UpdateCategory)
			r.Delete("/categories/{id}", categoryHandler.DeleteCategory)

			r.Get("/themes", categoryHandler.ListThemes)
			r.Post("/themes", categoryHandler.CreateTheme)
			r.Put("/themes/{id}", categoryHandler.UpdateTheme)
			r.Delete("/themes/{id}", categoryHandler.DeleteTheme)

			r.Get("/cards", cardHandler.ListCards)
			r.Post("/cards", cardHandler.CreateCard)
			r.Get("/cards/study", cardHandler.DueCards)
			r.Post("/cards/suggest-answer", cardHandler.SuggestAnswer)
			r.Get("/cards/{id}", cardHandler.GetCard)
			r.Put("/cards/{id}", cardHandler.UpdateCard)
			r.Delete("/cards/{id}", cardHandler.DeleteCard)

			r.Post("/study/start", studyHandler.StartSession)
			r.Post("/study/answer", studyHandler.SubmitAnswer)
			r.Post("/study/end", studyHandler.EndSession)
			r.Get("/study/history", studyHandler.History)

			r.Get("/goals", goalHandler.ListGoals)
			r.Post("/goals", goalHandler.CreateGoal)
			r.Get("/goals/{id}", goalHandler.GetGoal)
			r.Put("/goals/{id}", goalHandler.UpdateGoal)
			r.Delete("/goals/{id}", goalHandler.DeleteGoal)

			r.Get("/reports/performance", reportHandler.Performance)
			r.Get("/reports/progress", reportHandler.Progress)

			r.Get("/question-lists", listHandler.ListLists)
			r.Get("/question-lists/{id}/questions", listHandler.GetQuestions)

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.RequireAdmin)
				r.Post("/question-lists", listHandler.CreateList)
				r.Post("/question-lists/upload-text", listHandler.CreateFromText)
				r.Post("/question-lists/{id}/upload", listHandler.ReplaceFromText)
				r.Post("/question-lists/{id}/import", listHandler.ImportSpreadsheet)
				r.Delete("/question-lists/{id}", listHandler.DeactivateList)
			})
		})
	})

	return r
}
