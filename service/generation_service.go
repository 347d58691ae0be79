package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/SaiVinayBathoju/SaiV/types"
)

// Source content longer than this is cut before prompting so requests stay
// within provider limits.
const maxSourceChars = 12000

const flashcardSystemPrompt = `You are an expert educational content designer. Generate high-quality flashcards from the given learning material.
Rules: Generate 10-15 flashcards. Each question targets a key concept; answers are concise (1-3 sentences). No duplicates.
Return ONLY a valid JSON array, no markdown: [{"question": "...", "answer": "..."}, ...]`

const quizSystemPrompt = `You are an expert quiz designer. Create multiple-choice questions from the given material.
Rules: 5-10 MCQs, 4 options each, correctAnswer must be exactly A, B, C, or D, include brief explanation.
Return ONLY a raw JSON array, no markdown: [{"question": "...", "options": ["option1", "option2", "option3", "option4"], "correctAnswer": "B", "explanation": "..."}, ...]`

const chatSystemPrompt = `You are SaiV, a helpful AI learning assistant. Answer based ONLY on this context. If the answer is not in the context, say you're not sure. Be concise and educational.

Context:
%s`

// GenerationService runs flashcard synthesis, quiz synthesis and chat
// streaming through the shared provider fallback chain.
type GenerationService struct {
	paid       GenerationProvider // nil when no credential configured
	free       GenerationProvider
	preference string
}

func NewGenerationService(paid, free GenerationProvider, preference string) *GenerationService {
	return &GenerationService{paid: paid, free: free, preference: preference}
}

func (s *GenerationService) providerChain() ([]GenerationProvider, error) {
	order, err := providerOrder(s.preference, s.paid != nil, s.free != nil)
	if err != nil {
		return nil, err
	}
	providers := make([]GenerationProvider, 0, len(order))
	for _, name := range order {
		if name == ProviderOpenAI {
			providers = append(providers, s.paid)
		} else {
			providers = append(providers, s.free)
		}
	}
	return providers, nil
}

// GenerateFlashcards synthesizes flashcards from document content. When the
// first pass parses to zero usable cards the whole provider chain is retried
// once before the empty result is returned; malformed model output is a
// data-quality failure, not an error.
func (s *GenerationService) GenerateFlashcards(ctx context.Context, content string) ([]types.Flashcard, error) {
	prompt := fmt.Sprintf("Create flashcards from this content:\n\n%s\n\nReturn a JSON array of flashcards.", truncateContent(content))

	text, err := s.generate(ctx, "flashcards", flashcardSystemPrompt, prompt, 2000)
	if err != nil {
		return nil, err
	}
	cards := FlashcardsFromJSON(text)
	if len(cards) == 0 {
		log.Info().Msg("flashcard parse returned empty, retrying once")
		text, err = s.generate(ctx, "flashcards", flashcardSystemPrompt, prompt, 2000)
		if err != nil {
			return nil, err
		}
		cards = FlashcardsFromJSON(text)
	}
	return cards, nil
}

// GenerateQuiz synthesizes multiple-choice questions from document content,
// with the same single retry on an empty parse as flashcards.
func (s *GenerationService) GenerateQuiz(ctx context.Context, content string) ([]types.QuizQuestion, error) {
	prompt := fmt.Sprintf("Create MCQ quiz from this content:\n\n%s\n\nReturn a JSON array of quiz questions.", truncateContent(content))

	text, err := s.generate(ctx, "quiz", quizSystemPrompt, prompt, 2500)
	if err != nil {
		return nil, err
	}
	questions := QuizFromJSON(text)
	if len(questions) == 0 {
		log.Info().Msg("quiz parse returned empty, retrying once")
		text, err = s.generate(ctx, "quiz", quizSystemPrompt, prompt, 2500)
		if err != nil {
			return nil, err
		}
		questions = QuizFromJSON(text)
	}
	return questions, nil
}

func (s *GenerationService) generate(ctx context.Context, op, system, prompt string, maxTokens int) (string, error) {
	providers, err := s.providerChain()
	if err != nil {
		return "", err
	}

	var text string
	var failedProvider string
	steps := make([]chainStep, 0, len(providers))
	for _, p := range providers {
		p := p
		steps = append(steps, chainStep{name: p.Name(), run: func(ctx context.Context) error {
			out, err := p.Generate(ctx, system, prompt, maxTokens)
			if err != nil {
				failedProvider = p.Name()
				return err
			}
			text = out
			return nil
		}})
	}
	if err := runFallbackChain(ctx, op, steps); err != nil {
		return "", wrapGenerationError(err, failedProvider == ProviderOpenAI)
	}
	return text, nil
}

// ChatStream produces the assistant's reply as a live sequence of text
// fragments delivered to onFragment. Fallback to the next provider happens
// only before the first fragment: once output has been emitted there is no
// retroactive correction, so a mid-stream failure is surfaced to the caller,
// which owns the terminal error marker in its transport. Cancelling ctx or
// returning an error from onFragment stops fragment production promptly.
func (s *GenerationService) ChatStream(ctx context.Context, messages []types.Message, contextText string, onFragment func(string) error) error {
	providers, err := s.providerChain()
	if err != nil {
		return err
	}
	system := fmt.Sprintf(chatSystemPrompt, contextText)

	emitted := false
	deliver := func(fragment string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		emitted = true
		return onFragment(fragment)
	}

	var failedProvider string
	steps := make([]chainStep, 0, len(providers))
	for _, p := range providers {
		p := p
		steps = append(steps, chainStep{name: p.Name(), run: func(ctx context.Context) error {
			err := p.GenerateStream(ctx, system, messages, deliver)
			if err != nil {
				failedProvider = p.Name()
				if emitted {
					return abort(fmt.Errorf("chat stream failed after partial response: %w", err))
				}
			}
			return err
		}})
	}
	if err := runFallbackChain(ctx, "chat", steps); err != nil {
		return wrapGenerationError(err, failedProvider == ProviderOpenAI)
	}
	return nil
}

// ChatQuery validates that the conversation ends with a non-empty user
// message and returns its content as the retrieval query.
func ChatQuery(messages []types.Message) (string, error) {
	if len(messages) == 0 {
		return "", ErrLastMessageNotUser
	}
	last := messages[len(messages)-1]
	query := strings.TrimSpace(last.Content)
	if last.Role != types.RoleUser || query == "" {
		return "", ErrLastMessageNotUser
	}
	return query, nil
}

// wrapGenerationError rewrites paid-provider quota/billing failures into the
// actionable remediation message; anything else surfaces as a generic
// generation error. The rewrite is gated on the paid provider because the
// message names the OpenAI account and its Gemini remedy.
func wrapGenerationError(err error, paidFailed bool) error {
	if IsConfigurationError(err) {
		return err
	}
	if paidFailed && isQuotaError(err) {
		return fmt.Errorf("%s: %w", QuotaExceededMessage, err)
	}
	return fmt.Errorf("generation failed: %w", err)
}

func truncateContent(content string) string {
	if len(content) <= maxSourceChars {
		return content
	}
	return content[:maxSourceChars] + "..."
}
