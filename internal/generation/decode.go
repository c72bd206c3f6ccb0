package generation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/phrazzld/flashgen/internal/domain"
)

const fence = "```"

// StripCodeFence removes a markdown code fence wrapped around text, such as
// ```json ... ```. Text without a leading fence is returned trimmed.
func StripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, fence) {
		return text
	}

	body := strings.TrimPrefix(text, fence)
	// Drop the info string (e.g. "json") on the opening line.
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		if info := strings.TrimSpace(body[:nl]); !strings.ContainsAny(info, "{[") {
			body = body[nl+1:]
		}
	} else {
		body = strings.TrimPrefix(strings.TrimLeft(body, " \t"), "json")
	}

	body = strings.TrimSpace(body)
	body = strings.TrimSuffix(body, fence)
	return strings.TrimSpace(body)
}

// response is the envelope the prompt asks the model to return.
type response struct {
	Flashcards []domain.Flashcard `json:"flashcards"`
}

// DecodeResponse parses model output into flashcards.
//
// A surrounding code fence is tolerated. The top level must be a JSON object;
// a missing "flashcards" key yields an empty slice. Every card must carry a
// question and an answer, and any difficulty must be Easy, Medium or Hard.
// Failures wrap ErrInvalidResponse.
func DecodeResponse(text string) ([]domain.Flashcard, error) {
	body := StripCodeFence(text)
	if body == "" {
		return nil, fmt.Errorf("%w: empty response", ErrInvalidResponse)
	}
	if body[0] != '{' {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrInvalidResponse)
	}

	var parsed response
	dec := json.NewDecoder(bytes.NewReader([]byte(body)))
	if err := dec.Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON response: %v", ErrInvalidResponse, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after JSON object", ErrInvalidResponse)
	}

	cards := parsed.Flashcards
	if cards == nil {
		cards = []domain.Flashcard{}
	}
	for i, card := range cards {
		if err := card.Validate(); err != nil {
			return nil, fmt.Errorf("%w: card %d: %v", ErrInvalidResponse, i, err)
		}
	}
	return cards, nil
}
