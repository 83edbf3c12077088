package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/phrazzld/medcards-api/internal/config"
	"github.com/phrazzld/medcards-api/internal/generation"
	"github.com/phrazzld/medcards-api/internal/platform/logger"
	"github.com/phrazzld/medcards-api/internal/redact"
	"google.golang.org/genai"
)

const (
	defaultMaxRetries        = 2
	defaultRetryDelaySeconds = 1
	temperature              = 0.2
)

// contentGenerator is the subset of *genai.Models the generator calls.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// GeminiGenerator implements generation.Generator using the Gemini API.
type GeminiGenerator struct {
	logger *slog.Logger
	config config.LLMConfig
	models contentGenerator
	model  string

	mu  sync.Mutex
	rng *rand.Rand

	// sleep waits between retries; tests replace it.
	sleep func(ctx context.Context, d time.Duration) error
}

var _ generation.Generator = (*GeminiGenerator)(nil)

// NewGeminiGenerator creates a generator backed by a Gemini API client.
func NewGeminiGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*GeminiGenerator, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return newGenerator(client.Models, cfg, logger), nil
}

func newGenerator(models contentGenerator, cfg config.LLMConfig, log *slog.Logger) *GeminiGenerator {
	if log == nil {
		log = slog.Default()
	}
	return &GeminiGenerator{
		logger: log.With(slog.String("component", "gemini_generator")),
		config: cfg,
		models: models,
		model:  cfg.ModelName,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		sleep:  sleepContext,
	}
}

func validateConfig(cfg config.LLMConfig) error {
	if cfg.GeminiAPIKey == "" {
		return fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}
	return nil
}

// SuggestAnswer implements generation.Generator.
func (g *GeminiGenerator) SuggestAnswer(ctx context.Context, req generation.AnswerRequest) (string, error) {
	prompt, err := buildPrompt(req)
	if err != nil {
		return "", err
	}

	if timeout := g.config.Timeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	return g.callWithRetry(ctx, prompt)
}

// callWithRetry calls the API until it succeeds, a permanent error occurs or
// the retry budget is spent. Only API call failures are retried.
func (g *GeminiGenerator) callWithRetry(ctx context.Context, prompt string) (string, error) {
	log := logger.FromContextOrDefault(ctx, g.logger)

	maxRetries := g.config.MaxRetries
	if maxRetries < 0 {
		maxRetries = defaultMaxRetries
	}
	baseDelay := g.config.RetryDelaySeconds
	if baseDelay < 1 {
		baseDelay = defaultRetryDelaySeconds
	}

	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: prompt}},
	}}
	genConfig := &genai.GenerateContentConfig{Temperature: genai.Ptr[float32](temperature)}

	for attempt := 0; ; attempt++ {
		resp, err := g.models.GenerateContent(ctx, g.model, contents, genConfig)
		if err == nil {
			answer, parseErr := answerText(resp)
			if parseErr != nil {
				log.WarnContext(ctx, "unusable Gemini response",
					slog.Int("attempt", attempt+1),
					redact.Attr(parseErr))
				return "", parseErr
			}
			log.DebugContext(ctx, "Gemini call succeeded",
				slog.Int("attempt", attempt+1),
				slog.Int("answer_length", len(answer)))
			return answer, nil
		}

		log.ErrorContext(ctx, "Gemini API call failed",
			slog.Int("attempt", attempt+1),
			redact.Attr(err))

		if ctx.Err() != nil {
			return "", fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctx.Err())
		}
		if attempt >= maxRetries {
			return "", fmt.Errorf("%w: exceeded maximum retry attempts (%d): %v",
				generation.ErrTransientFailure, maxRetries, err)
		}

		delay := g.backoff(baseDelay, attempt)
		log.InfoContext(ctx, "retrying Gemini call",
			slog.Int("attempt", attempt+1),
			slog.Duration("delay", delay))
		if err := g.sleep(ctx, delay); err != nil {
			return "", fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
		}
	}
}

// backoff is baseDelay * 2^attempt scaled by a jitter factor in [0.5, 1.0).
func (g *GeminiGenerator) backoff(baseDelaySeconds, attempt int) time.Duration {
	g.mu.Lock()
	jitter := 0.5 + g.rng.Float64()*0.5
	g.mu.Unlock()

	seconds := float64(baseDelaySeconds) * math.Pow(2, float64(attempt)) * jitter
	return time.Duration(seconds * float64(time.Second))
}

// answerText extracts the text of the first candidate.
func answerText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: nil response", generation.ErrInvalidResponse)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: prompt blocked (%s)", generation.ErrContentBlocked, resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	switch candidate.FinishReason {
	case genai.FinishReasonSafety, genai.FinishReasonProhibitedContent, genai.FinishReasonBlocklist:
		return "", fmt.Errorf("%w: finish reason %s", generation.ErrContentBlocked, candidate.FinishReason)
	}
	if candidate.Content == nil {
		return "", fmt.Errorf("%w: empty content", generation.ErrInvalidResponse)
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}
	answer := strings.TrimSpace(b.String())
	if answer == "" {
		return "", fmt.Errorf("%w: empty answer", generation.ErrInvalidResponse)
	}
	return answer, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
