// Package optimize sends a resolved prompt to the configured backend and
// returns the rewritten prompt.
package optimize

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/HartBrook/sharpen/internal/config"
	"github.com/HartBrook/sharpen/internal/errors"
	"github.com/HartBrook/sharpen/internal/instruction"
	"github.com/HartBrook/sharpen/internal/settings"
)

// UserMessage wraps the prompt in the fixed phrase sent to every backend.
func UserMessage(prompt string) string {
	return `Here is the original prompt to optimize: "` + prompt + `"`
}

// Dispatcher routes an optimization to the backend named by the settings.
// It holds no mutable state and never touches history or settings.
type Dispatcher struct {
	httpClient  *http.Client
	generator   Generator
	geminiModel string
	envKey      func() string
	logger      *slog.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithHTTPClient sets the HTTP client used by both backends.
func WithHTTPClient(client *http.Client) Option {
	return func(d *Dispatcher) {
		d.httpClient = client
	}
}

// WithGenerator replaces the managed-call implementation.
func WithGenerator(g Generator) Option {
	return func(d *Dispatcher) {
		d.generator = g
	}
}

// WithGeminiModel sets the model for managed calls.
func WithGeminiModel(model string) Option {
	return func(d *Dispatcher) {
		d.geminiModel = model
	}
}

// WithEnvKey sets the lookup for the ambient Gemini key.
func WithEnvKey(fn func() string) Option {
	return func(d *Dispatcher) {
		d.envKey = fn
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// NewDispatcher creates a dispatcher with the given options.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		geminiModel: config.DefaultGeminiModel,
		envKey:      config.GeminiAPIKeyFromEnv,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(d)
	}

	if d.httpClient == nil {
		d.httpClient = &http.Client{Timeout: 120 * time.Second}
	}
	if d.generator == nil {
		d.generator = NewGenAIGenerator("", d.httpClient)
	}

	return d
}

// FromConfig creates a dispatcher using the model, endpoint and timeout
// from cfg.
func FromConfig(cfg *config.Config, logger *slog.Logger) *Dispatcher {
	httpClient := &http.Client{Timeout: cfg.HTTP.TimeoutDuration()}
	return NewDispatcher(
		WithHTTPClient(httpClient),
		WithGenerator(NewGenAIGenerator(cfg.Gemini.BaseURL, httpClient)),
		WithGeminiModel(cfg.Gemini.Model),
		WithLogger(logger),
	)
}

// Optimize rewrites prompt for target using the backend selected by s.
func (d *Dispatcher) Optimize(ctx context.Context, prompt string, target instruction.Target, s settings.Settings) (string, error) {
	system := instruction.Build(target)
	logger := d.logger.With("request_id", uuid.NewString(), "provider", s.Provider, "target", target)

	start := time.Now()
	var (
		out string
		err error
	)
	switch s.Provider {
	case settings.ProviderOpenAI:
		out, err = d.optimizeOpenAI(ctx, system, prompt, s)
	default:
		out, err = d.optimizeGemini(ctx, system, prompt, s)
	}

	if err != nil {
		logger.Debug("optimization failed", "error", err, "elapsed", time.Since(start))
		return "", err
	}
	logger.Debug("optimization complete", "chars", len(out), "elapsed", time.Since(start))
	return out, nil
}

func (d *Dispatcher) optimizeOpenAI(ctx context.Context, system, prompt string, s settings.Settings) (string, error) {
	if missing := s.MissingFields(); len(missing) > 0 {
		return "", errors.OpenAISettingsIncomplete(missing)
	}

	client := NewClient(s.APIKey, s.BaseURL, s.Model, WithClientHTTP(d.httpClient))
	return client.Complete(ctx, system, UserMessage(prompt), s.Temperature)
}

func (d *Dispatcher) optimizeGemini(ctx context.Context, system, prompt string, s settings.Settings) (string, error) {
	apiKey := s.APIKey
	if apiKey == "" {
		apiKey = d.envKey()
	}
	if apiKey == "" {
		return "", errors.GeminiKeyMissing()
	}

	out, err := d.generator.Generate(ctx, GenerateRequest{
		APIKey:            apiKey,
		Model:             d.geminiModel,
		SystemInstruction: system,
		Content:           UserMessage(prompt),
		Temperature:       s.Temperature,
	})
	if err != nil {
		return "", errors.OptimizationFailed(err)
	}
	return strings.TrimSpace(out), nil
}
