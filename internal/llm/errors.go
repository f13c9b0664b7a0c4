package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrMissingCredential indicates no API key is configured for the
// selected provider.
type ErrMissingCredential struct {
	Provider string
}

func (e *ErrMissingCredential) Error() string {
	return fmt.Sprintf("no API key configured for provider %q", e.Provider)
}

// ErrInvalidCredential indicates the provider rejected the API key (401).
type ErrInvalidCredential struct {
	Err error
}

func (e *ErrInvalidCredential) Error() string {
	return fmt.Sprintf("API key rejected: %v", e.Err)
}

func (e *ErrInvalidCredential) Unwrap() error { return e.Err }

// ErrQuota indicates the provider denied the request for quota or
// permission reasons (403).
type ErrQuota struct {
	Err error
}

func (e *ErrQuota) Error() string {
	return fmt.Sprintf("quota or permission denied: %v", e.Err)
}

func (e *ErrQuota) Unwrap() error { return e.Err }

// ErrRateLimit indicates the provider returned a rate limit error (429).
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates the LLM returned content that could not be
// used: malformed JSON, schema violation, or an empty reply.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid LLM response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable indicates the provider is down or unreachable.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
	}
	return "LLM provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded indicates the response was truncated because it
// hit the MaxTokens limit.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "LLM response truncated: max tokens exceeded"
}

// UserMessage maps an LLM error to a short human-readable reason suitable
// for a transient notification.
func UserMessage(err error) string {
	var missing *ErrMissingCredential
	if errors.As(err, &missing) {
		return "No API key configured. Set one with `leettrack profile` or the provider's env var."
	}
	var invalid *ErrInvalidCredential
	if errors.As(err, &invalid) {
		return "The configured API key was rejected. Check your credentials."
	}
	var quota *ErrQuota
	if errors.As(err, &quota) {
		return "The provider denied the request (quota or permissions)."
	}
	var rl *ErrRateLimit
	if errors.As(err, &rl) {
		return "Rate limited by the provider. Try again shortly."
	}
	var inv *ErrInvalidResponse
	if errors.As(err, &inv) {
		return "The model returned an unusable response. Try again."
	}
	var unavail *ErrProviderUnavailable
	if errors.As(err, &unavail) {
		return "Could not reach the model provider. Check your connection."
	}
	return "The mentor failed to respond. Try again."
}
