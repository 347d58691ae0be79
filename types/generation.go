package types

// Flashcard is one question/answer pair synthesized from document content.
// Generated per request, never persisted.
type Flashcard struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// QuizQuestion is one multiple-choice question. CorrectAnswer is an option
// letter (A, B, C, ...) matching the position in Options.
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

type GenerateRequest struct {
	DocumentID string `json:"document_id"`
}

type FlashcardsResponse struct {
	Flashcards []Flashcard `json:"flashcards"`
	DocumentID string      `json:"document_id"`
	Count      int         `json:"count"`
}

type QuizResponse struct {
	Quiz       []QuizQuestion `json:"quiz"`
	DocumentID string         `json:"document_id"`
	Count      int            `json:"count"`
}
