package service

import (
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"
)

// QuotaExceededMessage is surfaced when the paid provider rejects a request
// for quota or billing reasons and no fallback could serve it.
const QuotaExceededMessage = "Your OpenAI account has run out of quota or has no billing set up. " +
	"Set GEMINI_API_KEY in .env for free usage (get a key at https://aistudio.google.com/apikey)."

// Configuration errors: fatal to the request, reported verbatim.
var (
	ErrNoProviderConfigured = errors.New(
		"no AI provider configured: set OPENAI_API_KEY or GEMINI_API_KEY (free at https://aistudio.google.com/apikey) in .env")
	ErrNoEmbeddingProvider = errors.New(
		"no embedding provider configured and local embedding fallback is disabled: " +
			"set OPENAI_API_KEY, GEMINI_API_KEY or EMBEDDING_FALLBACK_TO_LOCAL=true")
)

// Input errors: request rejections, never retried.
var (
	ErrNoChunks           = errors.New("no chunks generated from content")
	ErrEmptyQuery         = errors.New("query is empty")
	ErrLastMessageNotUser = errors.New("Last message must be from user")
)

// IsConfigurationError reports whether err is a missing-provider or
// missing-credential failure that the caller cannot work around per request.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrNoProviderConfigured) || errors.Is(err, ErrNoEmbeddingProvider)
}

// isQuotaError matches quota, rate-limit and billing failures from either
// hosted provider by status code and message shape.
func isQuotaError(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == 429 {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "insufficient_quota") ||
		strings.Contains(msg, "quota") ||
		strings.Contains(msg, "billing") ||
		strings.Contains(msg, "rate limit")
}

// isAuthError matches credential failures.
func isAuthError(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && (apiErr.HTTPStatusCode == 401 || apiErr.HTTPStatusCode == 403) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "401") ||
		strings.Contains(msg, "invalid api key") ||
		strings.Contains(msg, "api key not valid") ||
		strings.Contains(msg, "unauthorized") ||
		strings.Contains(msg, "permission denied")
}

// logProviderFailure records one provider attempt failing before the chain
// moves on, with the classification that justified falling through.
func logProviderFailure(op, provider string, err error) {
	evt := log.Warn().Str("op", op).Str("provider", provider).Err(err)
	switch {
	case isQuotaError(err):
		evt.Msg("provider quota/rate limit hit, falling back")
	case isAuthError(err):
		evt.Msg("provider auth failed, falling back")
	default:
		evt.Msg("provider failed, falling back")
	}
}
