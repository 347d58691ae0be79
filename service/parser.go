package service

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/SaiVinayBathoju/SaiV/types"
)

var fencedBlockRE = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// Option letters a quiz answer key may use, matching 2-6 options per question.
const answerLetters = "ABCDEF"

// ParseJSONArray extracts a JSON array of objects from raw model output that
// may be wrapped in markdown fences, truncated, or surrounded by prose. It
// never fails: irrecoverably malformed output yields an empty result, which
// is a data-quality problem for the caller to handle, not an error.
func ParseJSONArray(raw string, label string) []map[string]interface{} {
	text := strings.TrimSpace(raw)
	if strings.Contains(text, "```") {
		text = stripCodeFence(text)
	}

	if items, ok := unmarshalArray(text); ok {
		return items
	}

	// Model output often wraps the array in prose; take the outermost brackets.
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start != -1 && end > start {
		if items, ok := unmarshalArray(text[start : end+1]); ok {
			return items
		}
	}

	log.Warn().Str("label", label).Str("raw", truncateForLog(raw, 200)).Msg("failed to parse JSON array from model output")
	return nil
}

// stripCodeFence removes a surrounding markdown code fence. A lone, unclosed
// fence (truncated output) is tolerated by stripping whichever side exists.
func stripCodeFence(text string) string {
	if m := fencedBlockRE.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	if rest, ok := strings.CutPrefix(text, "```json"); ok {
		text = rest
	} else if rest, ok := strings.CutPrefix(text, "```"); ok {
		text = rest
	}
	if rest, ok := strings.CutSuffix(strings.TrimSpace(text), "```"); ok {
		text = rest
	}
	return strings.TrimSpace(text)
}

func unmarshalArray(text string) ([]map[string]interface{}, bool) {
	var items []map[string]interface{}
	if err := json.Unmarshal([]byte(text), &items); err != nil {
		return nil, false
	}
	return items, true
}

// FlashcardsFromJSON parses raw model output into typed flashcards, dropping
// items with a blank question or answer.
func FlashcardsFromJSON(raw string) []types.Flashcard {
	items := ParseJSONArray(raw, "flashcards")
	cards := make([]types.Flashcard, 0, len(items))
	for _, item := range items {
		question := strings.TrimSpace(stringField(item, "question"))
		answer := strings.TrimSpace(stringField(item, "answer"))
		if question == "" || answer == "" {
			continue
		}
		cards = append(cards, types.Flashcard{Question: question, Answer: answer})
	}
	return cards
}

// QuizFromJSON parses raw model output into typed quiz questions. Providers
// emit the answer key under varying casing ("correctAnswer"); it is
// canonicalized, upper-cased and clamped to a recognized option letter.
// Missing options or explanation default to empty rather than rejecting the
// item; the caller filters unusable questions.
func QuizFromJSON(raw string) []types.QuizQuestion {
	items := ParseJSONArray(raw, "quiz")
	questions := make([]types.QuizQuestion, 0, len(items))
	for _, item := range items {
		question := strings.TrimSpace(stringField(item, "question"))
		if question == "" {
			continue
		}
		answer := stringField(item, "correctAnswer")
		if answer == "" {
			answer = stringField(item, "correct_answer")
		}
		questions = append(questions, types.QuizQuestion{
			Question:      question,
			Options:       stringSliceField(item, "options"),
			CorrectAnswer: clampAnswerLetter(answer),
			Explanation:   strings.TrimSpace(stringField(item, "explanation")),
		})
	}
	return questions
}

// clampAnswerLetter normalizes an answer key to one of the recognized option
// letters, defaulting to the first letter when unrecognized.
func clampAnswerLetter(answer string) string {
	answer = strings.ToUpper(strings.TrimSpace(answer))
	if len(answer) == 1 && strings.Contains(answerLetters, answer) {
		return answer
	}
	return answerLetters[:1]
}

func stringField(item map[string]interface{}, key string) string {
	v, ok := item[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func stringSliceField(item map[string]interface{}, key string) []string {
	raw, ok := item[key].([]interface{})
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		out = append(out, fmt.Sprint(v))
	}
	return out
}

func truncateForLog(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
