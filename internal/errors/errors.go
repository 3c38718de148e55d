// Package errors provides typed errors for sharpen.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode identifies the type of error.
type ErrorCode string

const (
	ErrValidation       ErrorCode = "VALIDATION"
	ErrConfiguration    ErrorCode = "CONFIGURATION"
	ErrTransport        ErrorCode = "TRANSPORT"
	ErrUnknown          ErrorCode = "UNKNOWN"
	ErrConfigInvalid    ErrorCode = "CONFIG_INVALID"
	ErrStorage          ErrorCode = "STORAGE"
	ErrNotFound         ErrorCode = "NOT_FOUND"
	ErrGitHubAuthFailed ErrorCode = "GITHUB_AUTH_FAILED"
)

// optimizationFailed is the generic message surfaced for transport and
// unclassified failures.
const optimizationFailed = "optimization failed"

// SharpenError represents a typed error with user-friendly hints.
type SharpenError struct {
	Code    ErrorCode
	Message string
	Hint    string
	Cause   error
}

func (e *SharpenError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *SharpenError) Unwrap() error {
	return e.Cause
}

// HintText returns the hint for display. The CLI looks for this method.
func (e *SharpenError) HintText() string {
	return e.Hint
}

// New creates a new SharpenError.
func New(code ErrorCode, message, hint string) *SharpenError {
	return &SharpenError{
		Code:    code,
		Message: message,
		Hint:    hint,
	}
}

// Wrap creates a new SharpenError wrapping an existing error.
func Wrap(code ErrorCode, message, hint string, cause error) *SharpenError {
	return &SharpenError{
		Code:    code,
		Message: message,
		Hint:    hint,
		Cause:   cause,
	}
}

// KindOf returns the code of the first SharpenError in err's chain,
// or the empty code if there is none.
func KindOf(err error) ErrorCode {
	var se *SharpenError
	if stderrors.As(err, &se) {
		return se.Code
	}
	return ""
}

// Is reports whether err carries the given code.
func Is(err error, code ErrorCode) bool {
	return err != nil && KindOf(err) == code
}

// EmptyPrompt returns the validation error for a blank resolved prompt.
func EmptyPrompt() *SharpenError {
	return &SharpenError{
		Code:    ErrValidation,
		Message: "Please enter a prompt.",
		Hint:    "Pass the prompt as an argument, with --file, or pick one with --template",
	}
}

// Invalid returns a generic validation error.
func Invalid(format string, args ...any) *SharpenError {
	return &SharpenError{
		Code:    ErrValidation,
		Message: fmt.Sprintf(format, args...),
	}
}

// OpenAISettingsIncomplete returns the configuration error raised before an
// OpenAI-compatible dispatch with missing fields.
func OpenAISettingsIncomplete(missing []string) *SharpenError {
	msg := "OpenAI settings (API Key, Base URL, Model) are incomplete."
	if len(missing) > 0 {
		msg = fmt.Sprintf("%s Missing: %v", msg, missing)
	}
	return &SharpenError{
		Code:    ErrConfiguration,
		Message: msg,
		Hint:    "Run `sharpen settings set <field> <value>` for apiKey, baseUrl and model",
	}
}

// GeminiKeyMissing returns the configuration error raised when no Gemini key
// can be resolved.
func GeminiKeyMissing() *SharpenError {
	return &SharpenError{
		Code:    ErrConfiguration,
		Message: "Gemini API key not found. Please provide one in the settings or ensure it's configured in the app's environment.",
		Hint:    "Run `sharpen settings set apiKey <key>` or set GEMINI_API_KEY",
	}
}

// APIStatus returns the transport error for a non-success HTTP response.
func APIStatus(status int, statusText, body string) *SharpenError {
	return &SharpenError{
		Code:    ErrTransport,
		Message: fmt.Sprintf("%s: API returned status %d %s - %s", optimizationFailed, status, statusText, body),
		Hint:    "Check the API key, base URL and model in `sharpen settings show`",
	}
}

// OptimizationFailed returns the generic transport failure.
func OptimizationFailed(cause error) *SharpenError {
	return &SharpenError{
		Code:    ErrTransport,
		Message: optimizationFailed,
		Hint:    "The API call returned an error. Run with --verbose for details",
		Cause:   cause,
	}
}

// Unknown returns an unclassified failure, collapsed to the generic message.
func Unknown(reason string, cause error) *SharpenError {
	msg := optimizationFailed
	if reason != "" {
		msg = fmt.Sprintf("%s: %s", optimizationFailed, reason)
	}
	return &SharpenError{
		Code:    ErrUnknown,
		Message: msg,
		Cause:   cause,
	}
}

// ConfigInvalid returns an error for invalid config.
func ConfigInvalid(reason string) *SharpenError {
	return &SharpenError{
		Code:    ErrConfigInvalid,
		Message: fmt.Sprintf("invalid config: %s", reason),
		Hint:    "Check your config file at ~/.config/sharpen/config.yaml",
	}
}

// StorageFailed returns an error for local state that could not be written.
func StorageFailed(record string, cause error) *SharpenError {
	return &SharpenError{
		Code:    ErrStorage,
		Message: fmt.Sprintf("failed to save %s", record),
		Hint:    "Check that ~/.local/state/sharpen is writable",
		Cause:   cause,
	}
}

// EntryNotFound returns an error for an unknown history id.
func EntryNotFound(id int64) *SharpenError {
	return &SharpenError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("no history entry with id %d", id),
		Hint:    "Run `sharpen history` to list entry ids",
	}
}

// GitHubAuthFailed returns an error for authentication failures.
func GitHubAuthFailed(cause error) *SharpenError {
	return &SharpenError{
		Code:    ErrGitHubAuthFailed,
		Message: "GitHub authentication failed",
		Hint:    "Run `gh auth login` or set GH_TOKEN environment variable",
		Cause:   cause,
	}
}
