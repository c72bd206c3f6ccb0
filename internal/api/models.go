package api

import (
	"github.com/phrazzld/flashgen/internal/domain"
	"github.com/phrazzld/flashgen/internal/session"
)

// GenerateRequest is the body of POST /api/flashcards.
type GenerateRequest struct {
	Content  string `json:"content"`
	Subject  string `json:"subject"`
	NumCards int    `json:"num_cards" validate:"omitempty,gte=5,lte=25"`
}

// UploadForm holds the non-file fields of POST /api/flashcards/upload.
type UploadForm struct {
	Subject  string `form:"subject"`
	NumCards int    `form:"num_cards" validate:"omitempty,gte=5,lte=25"`
}

// SessionActionRequest is the body of POST /api/session/actions.
type SessionActionRequest struct {
	Action string `json:"action" validate:"required,oneof=next previous toggle_answer"`
}

// FlashcardsResponse is returned after a successful generation.
type FlashcardsResponse struct {
	TotalCards          int                `json:"total_cards"`
	Flashcards          []domain.Flashcard `json:"flashcards"`
	ExtractedCharacters int                `json:"extracted_characters,omitempty"`
}

// SessionResponse describes the viewer state. Card is null when the batch
// is empty.
type SessionResponse struct {
	TotalCards   int               `json:"total_cards"`
	CurrentIndex int               `json:"current_index"`
	ShowAnswer   bool              `json:"show_answer"`
	CanPrevious  bool              `json:"can_previous"`
	CanNext      bool              `json:"can_next"`
	Card         *domain.Flashcard `json:"card"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status            string `json:"status"`
	GenerationEnabled bool   `json:"generation_enabled"`
}

func flashcardsToResponse(state session.State) FlashcardsResponse {
	cards := state.Cards
	if cards == nil {
		cards = []domain.Flashcard{}
	}
	return FlashcardsResponse{
		TotalCards: len(cards),
		Flashcards: cards,
	}
}

func stateToResponse(state session.State) SessionResponse {
	resp := SessionResponse{
		TotalCards:   state.Total(),
		CurrentIndex: state.Index,
		ShowAnswer:   state.ShowAnswer,
		CanPrevious:  state.CanPrevious(),
		CanNext:      state.CanNext(),
	}
	if card, ok := state.Current(); ok {
		resp.Card = &card
	}
	return resp
}
