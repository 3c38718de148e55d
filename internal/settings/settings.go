// Package settings holds the provider configuration used for optimization calls.
package settings

import (
	"math"
	"strings"

	"github.com/HartBrook/sharpen/internal/errors"
)

// Provider identifies which backend protocol performs the optimization.
type Provider string

const (
	// ProviderGemini uses the managed Gemini SDK call.
	ProviderGemini Provider = "gemini"
	// ProviderOpenAI uses an OpenAI-compatible chat-completions endpoint.
	ProviderOpenAI Provider = "openai"
)

// Field names accepted by UpdateField.
const (
	FieldAPIKey  = "apiKey"
	FieldBaseURL = "baseUrl"
	FieldModel   = "model"
)

// Defaults for a fresh settings value.
const (
	DefaultTemperature   = 0.7
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	DefaultOpenAIModel   = "gpt-4o"
)

// Settings is a tagged union keyed by Provider. Gemini uses Temperature and
// an optional APIKey; OpenAI requires APIKey, BaseURL and Model.
type Settings struct {
	Provider    Provider `json:"provider"`
	Temperature float64  `json:"temperature"`
	APIKey      string   `json:"apiKey,omitempty"`
	BaseURL     string   `json:"baseUrl,omitempty"`
	Model       string   `json:"model,omitempty"`
}

// Default returns the default settings: Gemini at temperature 0.7.
func Default() Settings {
	return ForProvider(ProviderGemini, DefaultTemperature)
}

// ForProvider returns freshly defaulted settings for p with the given
// temperature.
func ForProvider(p Provider, temperature float64) Settings {
	if p == ProviderOpenAI {
		return Settings{
			Provider:    ProviderOpenAI,
			Temperature: temperature,
			BaseURL:     DefaultOpenAIBaseURL,
			Model:       DefaultOpenAIModel,
		}
	}
	return Settings{Provider: ProviderGemini, Temperature: temperature}
}

// ParseProvider validates a provider name.
func ParseProvider(s string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gemini":
		return ProviderGemini, nil
	case "openai", "openai-compatible":
		return ProviderOpenAI, nil
	}
	return "", errors.Invalid("unknown provider %q (use gemini or openai)", s)
}

// Fields returns the string fields that belong to the variant.
func (s Settings) Fields() []string {
	if s.Provider == ProviderOpenAI {
		return []string{FieldAPIKey, FieldBaseURL, FieldModel}
	}
	return []string{FieldAPIKey}
}

// RequiredFields returns the fields that must be non-empty before dispatch.
func (s Settings) RequiredFields() []string {
	if s.Provider == ProviderOpenAI {
		return []string{FieldAPIKey, FieldBaseURL, FieldModel}
	}
	return nil
}

// MissingFields returns the required fields that are empty.
func (s Settings) MissingFields() []string {
	var missing []string
	for _, f := range s.RequiredFields() {
		if strings.TrimSpace(s.field(f)) == "" {
			missing = append(missing, f)
		}
	}
	return missing
}

// HasField reports whether name belongs to the active variant.
func (s Settings) HasField(name string) bool {
	for _, f := range s.Fields() {
		if f == name {
			return true
		}
	}
	return false
}

// Get returns the value of a variant field.
func (s Settings) Get(name string) string {
	return s.field(name)
}

// Redacted returns a copy with the API key masked for display.
func (s Settings) Redacted() Settings {
	if s.APIKey == "" {
		return s
	}
	key := s.APIKey
	if len(key) > 4 {
		s.APIKey = strings.Repeat("*", len(key)-4) + key[len(key)-4:]
	} else {
		s.APIKey = strings.Repeat("*", len(key))
	}
	return s
}

func (s Settings) field(name string) string {
	switch name {
	case FieldAPIKey:
		return s.APIKey
	case FieldBaseURL:
		return s.BaseURL
	case FieldModel:
		return s.Model
	}
	return ""
}

func (s *Settings) setField(name, value string) {
	switch name {
	case FieldAPIKey:
		s.APIKey = value
	case FieldBaseURL:
		s.BaseURL = value
	case FieldModel:
		s.Model = value
	}
}

// normalize drops fields that do not belong to the variant and clamps the
// temperature into [0,1].
func (s Settings) normalize() Settings {
	out := ForProvider(s.Provider, clampTemperature(s.Temperature))
	for _, f := range out.Fields() {
		out.setField(f, s.field(f))
	}
	return out
}

// CanonicalField maps user spellings (api_key, base-url, ...) to field names.
func CanonicalField(name string) (string, bool) {
	key := strings.ToLower(strings.NewReplacer("_", "", "-", "").Replace(name))
	switch key {
	case "apikey", "key":
		return FieldAPIKey, true
	case "baseurl", "url":
		return FieldBaseURL, true
	case "model":
		return FieldModel, true
	}
	return "", false
}

// ValidateTemperature rejects NaN and values outside [0,1].
func ValidateTemperature(v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return errors.Invalid("temperature must be between 0 and 1, got %v", v)
	}
	return nil
}

func clampTemperature(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return DefaultTemperature
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
