package service

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
)

// Hosted providers limit request size; inputs are embedded in fixed batches.
const embeddingBatchSize = 100

// EmbeddingService turns chunk text into fixed-dimension vectors. Providers
// are tried in priority order (paid, free tier, local) and every vector is
// reconciled to targetDim and L2-normalized, so cosine similarity stays
// comparable across providers over the lifetime of a deployment.
type EmbeddingService struct {
	paid            EmbeddingProvider // nil when no credential configured
	free            EmbeddingProvider
	local           EmbeddingProvider
	preference      string
	targetDim       int
	fallbackToLocal bool
}

func NewEmbeddingService(paid, free, local EmbeddingProvider, preference string, targetDim int, fallbackToLocal bool) *EmbeddingService {
	return &EmbeddingService{
		paid:            paid,
		free:            free,
		local:           local,
		preference:      preference,
		targetDim:       targetDim,
		fallbackToLocal: fallbackToLocal,
	}
}

// Embed returns one vector per input text, index-aligned, each exactly
// targetDim long with unit norm. Empty input returns an empty result without
// touching any provider.
func (s *EmbeddingService) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	providers, err := s.providerChain()
	if err != nil {
		return nil, err
	}

	var vectors [][]float32
	steps := make([]chainStep, 0, len(providers))
	for _, p := range providers {
		p := p
		steps = append(steps, chainStep{name: p.Name(), run: func(ctx context.Context) error {
			out, err := s.embedWith(ctx, p, texts)
			if err != nil {
				return err
			}
			vectors = out
			return nil
		}})
	}
	if err := runFallbackChain(ctx, "embed", steps); err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}
	return vectors, nil
}

func (s *EmbeddingService) providerChain() ([]EmbeddingProvider, error) {
	providers := make([]EmbeddingProvider, 0, 3)
	order, err := providerOrder(s.preference, s.paid != nil, s.free != nil)
	if err == nil {
		for _, name := range order {
			if name == ProviderOpenAI {
				providers = append(providers, s.paid)
			} else {
				providers = append(providers, s.free)
			}
		}
	}
	if s.fallbackToLocal && s.local != nil {
		providers = append(providers, s.local)
	}
	if len(providers) == 0 {
		return nil, ErrNoEmbeddingProvider
	}
	return providers, nil
}

// embedWith runs the full input through one provider in fixed-size batches
// and reconciles the output to the target dimension.
func (s *EmbeddingService) embedWith(ctx context.Context, p EmbeddingProvider, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += embeddingBatchSize {
		end := start + embeddingBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch, err := p.Embed(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, batch...)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("provider %s returned %d vectors for %d inputs", p.Name(), len(vectors), len(texts))
	}
	for i, vec := range vectors {
		vectors[i] = NormalizeVector(vec, s.targetDim)
	}
	log.Debug().Str("provider", p.Name()).Int("count", len(vectors)).Int("dim", s.targetDim).Msg("embeddings generated")
	return vectors, nil
}

// NormalizeVector truncates or zero-pads v to dim, then scales it to unit
// Euclidean norm. A zero vector is left as-is rather than dividing by zero.
func NormalizeVector(v []float32, dim int) []float32 {
	out := make([]float32, dim)
	copy(out, v)
	var sum float64
	for _, x := range out {
		sum += float64(x) * float64(x)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		norm = 1
	}
	for i := range out {
		out[i] = float32(float64(out[i]) / norm)
	}
	return out
}
