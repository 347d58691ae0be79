package utils

import (
	"strings"
	"testing"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "collapses spaces and tabs",
			input: "hello   world\tfoo",
			want:  "hello world foo",
		},
		{
			name:  "keeps paragraph breaks",
			input: "first paragraph\n\n\n\nsecond   paragraph",
			want:  "first paragraph\n\nsecond paragraph",
		},
		{
			name:  "blank input",
			input: "   \n\t  ",
			want:  "",
		},
		{
			name:  "trims edges",
			input: "  text  ",
			want:  "text",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.input); got != tt.want {
				t.Errorf("CleanText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStripCaptionMarkup(t *testing.T) {
	input := "<c.colorCCCCCC>hello</c> world [Music] and [applause] more"
	got := StripCaptionMarkup(input)
	if strings.Contains(got, "<") || strings.Contains(got, "[") {
		t.Errorf("markup left in output: %q", got)
	}
	if !strings.Contains(got, "hello") || !strings.Contains(got, "world") {
		t.Errorf("caption text lost: %q", got)
	}
}

func TestSplitSentences(t *testing.T) {
	got := SplitSentences("First one. Second one! Third?\nFourth on a new line")
	want := []string{"First one.", "Second one!", "Third?", "Fourth on a new line"}
	if len(got) != len(want) {
		t.Fatalf("got %d sentences %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sentence %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSplitSentencesNoSplitInsideNumbers(t *testing.T) {
	got := SplitSentences("Version 3.5 shipped today. It works.")
	if len(got) != 2 {
		t.Fatalf("got %v, want 2 sentences", got)
	}
	if got[0] != "Version 3.5 shipped today." {
		t.Errorf("first sentence = %q", got[0])
	}
}

func TestChunkText(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 50; i++ {
		b.WriteString("This is a reasonably long test sentence for chunking. ")
	}
	chunks := ChunkText(b.String(), 512, 50)

	if len(chunks) < 3 {
		t.Fatalf("expected several chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if len(c) > 512 {
			t.Errorf("chunk %d is %d chars, over size", i, len(c))
		}
		if strings.TrimSpace(c) == "" {
			t.Errorf("chunk %d is blank", i)
		}
	}
}

func TestChunkTextOverlap(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 40; i++ {
		b.WriteString("Sentence number content goes right here. ")
	}
	chunks := ChunkText(b.String(), 200, 60)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i := 1; i < len(chunks); i++ {
		prevTail := chunks[i-1][len(chunks[i-1])-20:]
		if !strings.Contains(chunks[i], strings.TrimSpace(prevTail)) {
			t.Errorf("chunk %d does not overlap with previous chunk tail %q", i, prevTail)
		}
	}
}

func TestChunkTextOversizedSentence(t *testing.T) {
	long := strings.Repeat("word ", 200) // one 1000-char "sentence", no punctuation
	chunks := ChunkText(long, 512, 50)
	if len(chunks) != 1 {
		t.Fatalf("oversized sentence should become one chunk, got %d", len(chunks))
	}
}

func TestChunkTextEmpty(t *testing.T) {
	if chunks := ChunkText("   ", 512, 50); chunks != nil {
		t.Errorf("expected nil for blank input, got %v", chunks)
	}
}
