package utils

import (
	"regexp"
	"strings"
)

var (
	newlineRunRE  = regexp.MustCompile(`\n{3,}`)
	whitespaceRE  = regexp.MustCompile(`\s+`)
	cueTagRE      = regexp.MustCompile(`<[^>]+>`)
	bracketNoteRE = regexp.MustCompile(`\[[^\]]*\]`)
)

// CleanText normalizes extracted text: runs of three or more newlines become a
// paragraph break, every other whitespace run collapses to a single space.
// Returns "" for blank input.
func CleanText(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	text = newlineRunRE.ReplaceAllString(text, "\n\n")
	paragraphs := strings.Split(text, "\n\n")
	cleaned := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		p = strings.TrimSpace(whitespaceRE.ReplaceAllString(p, " "))
		if p != "" {
			cleaned = append(cleaned, p)
		}
	}
	return strings.Join(cleaned, "\n\n")
}

// StripCaptionMarkup removes subtitle cue tags and bracketed sound-effect
// notes from caption text.
func StripCaptionMarkup(text string) string {
	text = cueTagRE.ReplaceAllString(text, "")
	return bracketNoteRE.ReplaceAllString(text, "")
}

// ChunkText splits text into overlapping chunks sized for embedding. Sentences
// are accumulated greedily; when the next sentence would push the chunk past
// chunkSize the chunk is closed and the next one is seeded with the trailing
// sentences that fit within overlap. A single sentence longer than chunkSize
// is still placed whole.
func ChunkText(text string, chunkSize, overlap int) []string {
	text = CleanText(text)
	if text == "" {
		return nil
	}

	sentences := SplitSentences(text)

	var chunks []string
	var current []string
	currentLen := 0

	for _, sentence := range sentences {
		sentenceLen := len(sentence) + 1
		if currentLen+sentenceLen > chunkSize && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, " "))
			if seed := overlapTail(current, overlap); seed != "" {
				current = []string{seed}
				currentLen = len(seed)
			} else {
				current = current[:0]
				currentLen = 0
			}
		}
		current = append(current, sentence)
		currentLen += sentenceLen
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}
	return chunks
}

// SplitSentences breaks text at sentence-ending punctuation followed by
// whitespace, and at newline runs. Single forward scan.
func SplitSentences(text string) []string {
	var sentences []string
	flush := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			sentences = append(sentences, s)
		}
	}
	start := 0
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '\n':
			flush(text[start:i])
			for i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			start = i + 1
		case (c == '.' || c == '!' || c == '?') && i+1 < len(text) && isSpace(text[i+1]):
			flush(text[start : i+1])
			start = i + 1
		}
	}
	flush(text[start:])
	return sentences
}

// overlapTail walks backward through the sentences of a closed chunk and keeps
// the most recent ones whose cumulative length stays within overlap, in
// original order.
func overlapTail(sentences []string, overlap int) string {
	tail := ""
	for i := len(sentences) - 1; i >= 0; i-- {
		s := sentences[i]
		if len(tail)+len(s)+1 > overlap {
			break
		}
		if tail == "" {
			tail = s
		} else {
			tail = s + " " + tail
		}
	}
	return tail
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
