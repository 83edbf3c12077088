// Package seed fills an empty database with a demo user, an administrator,
// sample categories and cards, and a sample question list. Running it again
// skips whatever already exists.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/medcards-api/internal/domain"
	"github.com/phrazzld/medcards-api/internal/service"
	"github.com/phrazzld/medcards-api/internal/store"
)

const (
	DemoUsername  = "demo"
	AdminUsername = "admin"

	SampleListName = "Trauma and Emergencies"
)

// UserFinder looks up existing accounts by username.
type UserFinder interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// Options holds the passwords of the seeded accounts.
type Options struct {
	DemoPassword  string
	AdminPassword string
}

// Result summarizes what a run created.
type Result struct {
	DemoCreated  bool
	AdminCreated bool
	Categories   int
	Cards        int
	ListCreated  bool
}

// Seeder creates the sample data through the regular services so every
// validation rule applies.
type Seeder struct {
	users      service.UserService
	finder     UserFinder
	categories service.CategoryService
	cards      service.CardService
	lists      service.QuestionListService
	logger     *slog.Logger
}

// NewSeeder creates a Seeder.
func NewSeeder(
	users service.UserService,
	finder UserFinder,
	categories service.CategoryService,
	cards service.CardService,
	lists service.QuestionListService,
	logger *slog.Logger,
) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{
		users:      users,
		finder:     finder,
		categories: categories,
		cards:      cards,
		lists:      lists,
		logger:     logger.With(slog.String("component", "seed")),
	}
}

type sampleCategory struct {
	name, color, icon string
}

var sampleCategories = []sampleCategory{
	{"Anatomy", "#2E86AB", "🫀"},
	{"Physiology", "#06D6A0", "⚡"},
	{"Pathology", "#F18F01", "🔬"},
	{"Pharmacology", "#C73E1D", "💊"},
	{"Internal Medicine", "#8E44AD", "🩺"},
}

var anatomyCards = []service.CardInput{
	{
		Question:   "What is the largest bone in the human body?",
		Answer:     "The femur, located in the thigh.",
		Difficulty: domain.DifficultyEasy,
	},
	{
		Question:   "How many chambers does the human heart have?",
		Answer:     "Four: two atria (right and left) and two ventricles (right and left).",
		Difficulty: domain.DifficultyMedium,
	},
	{
		Question:   "What is the main function of the pulmonary alveoli?",
		Answer:     "Gas exchange between air and blood: oxygen enters the blood and carbon dioxide leaves it.",
		Difficulty: domain.DifficultyMedium,
	},
}

var sampleQuestions = []string{
	"What is a fracture?",
	"Types of fracture",
	"Which kind of trauma is not a fracture?",
	"Gustilo-Anderson classification of open fractures",
	"What does the secondary survey consist of?",
	"Which adjuncts support the secondary survey?",
	"Preventable causes of death in trauma",
	"The lethal triad of the polytrauma patient",
	"Composition of Ringer's, lactated Ringer's and normal saline",
	"Types of chest trauma",
	"Classification of chest trauma",
	"Which chest injury is the most dangerous?",
	"From what volume is a pleural effusion visible on a chest X-ray?",
	"Simple pneumothorax",
	"Tension pneumothorax",
	"Radiological classification of pneumothorax",
	"Open pneumothorax: presentation and treatment",
	"Hemothorax: clinical classification and treatment",
	"Abdominal quadrants and their organs",
	"Abdominal examination: how to palpate",
}

// Run seeds the database. The sample categories and cards are only created
// together with the demo user.
func (s *Seeder) Run(ctx context.Context, opts Options) (*Result, error) {
	res := &Result{}

	demo, created, err := s.ensureUser(ctx, service.RegisterParams{
		Username: DemoUsername,
		Email:    "demo@medcards.example",
		Password: opts.DemoPassword,
	})
	if err != nil {
		return res, err
	}
	res.DemoCreated = created
	if created {
		if err := s.seedDeck(ctx, demo.ID, res); err != nil {
			return res, err
		}
	}

	admin, created, err := s.ensureUser(ctx, service.RegisterParams{
		Username: AdminUsername,
		Email:    "admin@medcards.example",
		Password: opts.AdminPassword,
		IsAdmin:  true,
	})
	if err != nil {
		return res, err
	}
	res.AdminCreated = created

	if res.ListCreated, err = s.ensureSampleList(ctx, admin.ID); err != nil {
		return res, err
	}

	s.logger.Info("seed completed",
		slog.Bool("demo_created", res.DemoCreated),
		slog.Bool("admin_created", res.AdminCreated),
		slog.Int("categories", res.Categories),
		slog.Int("cards", res.Cards),
		slog.Bool("list_created", res.ListCreated))
	return res, nil
}

func (s *Seeder) ensureUser(ctx context.Context, params service.RegisterParams) (*domain.User, bool, error) {
	existing, err := s.finder.GetByUsername(ctx, params.Username)
	if err == nil {
		s.logger.Debug("user already exists", slog.String("username", params.Username))
		return existing, false, nil
	}
	if !errors.Is(err, store.ErrUserNotFound) {
		return nil, false, fmt.Errorf("looking up %s: %w", params.Username, err)
	}

	user, err := s.users.Register(ctx, params)
	if err != nil {
		return nil, false, fmt.Errorf("creating %s: %w", params.Username, err)
	}
	return user, true, nil
}

func (s *Seeder) seedDeck(ctx context.Context, userID uuid.UUID, res *Result) error {
	var anatomy uuid.UUID
	for _, c := range sampleCategories {
		category, err := s.categories.CreateCategory(ctx, userID, service.CategoryInput{
			Name:  c.name,
			Color: c.color,
			Icon:  c.icon,
		})
		if err != nil {
			return fmt.Errorf("creating category %s: %w", c.name, err)
		}
		res.Categories++
		if c.name == "Anatomy" {
			anatomy = category.ID
		}
	}

	for _, in := range anatomyCards {
		in.CategoryID = anatomy
		if _, err := s.cards.CreateCard(ctx, userID, in); err != nil {
			return fmt.Errorf("creating card: %w", err)
		}
		res.Cards++
	}
	return nil
}

func (s *Seeder) ensureSampleList(ctx context.Context, adminID uuid.UUID) (bool, error) {
	lists, err := s.lists.ListLists(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("listing question lists: %w", err)
	}
	for _, l := range lists {
		if l.Name == SampleListName {
			return false, nil
		}
	}

	_, err = s.lists.CreateFromText(ctx, adminID, service.QuestionListInput{
		Name:        SampleListName,
		Description: "Trauma, medical emergencies and urgent procedures",
	}, strings.Join(sampleQuestions, "\n"))
	if err != nil {
		return false, fmt.Errorf("creating sample question list: %w", err)
	}
	return true, nil
}
