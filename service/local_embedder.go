package service

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// Native output dimension of the local embedder.
const LocalEmbeddingDim = 384

// LocalEmbedder is the last-resort embedding backend: a deterministic
// feature-hashing embedder that runs in-process, needs no credentials and
// never fails. Tokens and token bigrams are hashed into a fixed number of
// buckets with log-scaled term frequency weights. Lexical rather than
// semantic, but it keeps retrieval functional when no hosted provider is
// usable.
type LocalEmbedder struct {
	dim int
}

func NewLocalEmbedder() *LocalEmbedder {
	return &LocalEmbedder{dim: LocalEmbeddingDim}
}

func (e *LocalEmbedder) Name() string { return "local" }

func (e *LocalEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		vectors[i] = e.embedOne(text)
	}
	return vectors, nil
}

func (e *LocalEmbedder) embedOne(text string) []float32 {
	tokens := tokenize(text)

	counts := make(map[string]int, len(tokens)*2)
	for i, tok := range tokens {
		counts[tok]++
		if i+1 < len(tokens) {
			counts[tok+" "+tokens[i+1]]++
		}
	}

	vec := make([]float32, e.dim)
	for feature, count := range counts {
		bucket, sign := hashFeature(feature, e.dim)
		vec[bucket] += sign * float32(1+math.Log(float64(count)))
	}
	return vec
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// hashFeature maps a feature to a bucket and a +-1 sign. The sign bit keeps
// hash collisions from systematically inflating bucket magnitudes.
func hashFeature(feature string, dim int) (int, float32) {
	h := fnv.New64a()
	h.Write([]byte(feature))
	sum := h.Sum64()
	bucket := int(sum % uint64(dim))
	if sum&(1<<63) != 0 {
		return bucket, -1
	}
	return bucket, 1
}
