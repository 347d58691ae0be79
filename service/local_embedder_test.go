package service

import (
	"context"
	"testing"
)

func TestLocalEmbedderDeterministic(t *testing.T) {
	e := NewLocalEmbedder()

	a, err := e.Embed(context.Background(), []string{"the quick brown fox"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := e.Embed(context.Background(), []string{"the quick brown fox"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(a[0]) != LocalEmbeddingDim {
		t.Fatalf("dim = %d, want %d", len(a[0]), LocalEmbeddingDim)
	}
	for i := range a[0] {
		if a[0][i] != b[0][i] {
			t.Fatalf("embedding not deterministic at index %d", i)
		}
	}
}

func TestLocalEmbedderDistinguishesTexts(t *testing.T) {
	e := NewLocalEmbedder()

	vecs, err := e.Embed(context.Background(), []string{"databases and indexing", "french cooking recipes"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	same := true
	for i := range vecs[0] {
		if vecs[0][i] != vecs[1][i] {
			same = false
			break
		}
	}
	if same {
		t.Error("unrelated texts produced identical embeddings")
	}
}

func TestTitleFromFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"intro_to_go.pdf", "intro to go"},
		{"/tmp/uploads/machine-learning.pdf", "machine learning"},
		{"notes.pdf", "notes"},
		{".pdf", "Untitled Document"},
	}
	for _, tt := range tests {
		if got := TitleFromFilename(tt.in); got != tt.want {
			t.Errorf("TitleFromFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
