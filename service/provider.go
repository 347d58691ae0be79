package service

import (
	"context"
	"errors"

	"github.com/SaiVinayBathoju/SaiV/types"
)

// Provider preference values matching the ai_provider setting.
const (
	ProviderAuto   = "auto"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// GenerationProvider is one text-generation backend. Generate returns the
// whole completion; GenerateStream delivers fragments to onFragment in
// emission order and stops when onFragment or the context errors.
type GenerationProvider interface {
	Name() string
	Generate(ctx context.Context, system, prompt string, maxTokens int) (string, error)
	GenerateStream(ctx context.Context, system string, messages []types.Message, onFragment func(string) error) error
}

// EmbeddingProvider turns a batch of strings into vectors, index-aligned with
// the input. Vectors keep the provider's native dimensionality; the embedding
// service reconciles them to the target dimension.
type EmbeddingProvider interface {
	Name() string
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// chainStep is one provider attempt in a fallback chain.
type chainStep struct {
	name string
	run  func(ctx context.Context) error
}

// abortError marks a step failure that must not fall through to the next
// provider (partial stream output, cancelled consumer).
type abortError struct{ err error }

func (e *abortError) Error() string { return e.err.Error() }
func (e *abortError) Unwrap() error { return e.err }

func abort(err error) error { return &abortError{err: err} }

// runFallbackChain tries steps in priority order until one succeeds. Step
// errors fall through to the next provider unless the step aborted or the
// context is done; the last error is returned when the chain is exhausted.
func runFallbackChain(ctx context.Context, op string, steps []chainStep) error {
	if len(steps) == 0 {
		return ErrNoProviderConfigured
	}
	var lastErr error
	for _, step := range steps {
		err := step.run(ctx)
		if err == nil {
			return nil
		}
		var ab *abortError
		if errors.As(err, &ab) {
			return ab.err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logProviderFailure(op, step.name, err)
		lastErr = err
	}
	return lastErr
}

// providerOrder is the one canonical provider-priority policy shared by the
// embedding and generation chains: an explicit preference names exactly one
// provider (no fallback); in auto mode the paid provider goes first unless it
// has no credential, and the free-tier provider backs it up.
func providerOrder(preference string, paidConfigured, freeConfigured bool) ([]string, error) {
	switch preference {
	case ProviderOpenAI:
		if !paidConfigured {
			return nil, ErrNoProviderConfigured
		}
		return []string{ProviderOpenAI}, nil
	case ProviderGemini:
		if !freeConfigured {
			return nil, ErrNoProviderConfigured
		}
		return []string{ProviderGemini}, nil
	default:
		var order []string
		if paidConfigured {
			order = append(order, ProviderOpenAI)
		}
		if freeConfigured {
			order = append(order, ProviderGemini)
		}
		if len(order) == 0 {
			return nil, ErrNoProviderConfigured
		}
		return order, nil
	}
}
