package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Difficulty grades how hard a flashcard is to recall.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// DefaultTopic is used when a generated card names no topic.
const DefaultTopic = "General"

// Keys of the standard flashcard record, in export order.
const (
	FieldQuestion   = "question"
	FieldAnswer     = "answer"
	FieldDifficulty = "difficulty"
	FieldTopic      = "topic"
)

// StandardFields lists the record keys every flashcard carries.
var StandardFields = []string{FieldQuestion, FieldAnswer, FieldDifficulty, FieldTopic}

// ParseDifficulty maps a label onto a Difficulty, ignoring case and
// surrounding whitespace. An empty label yields DifficultyMedium.
func ParseDifficulty(label string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "":
		return DifficultyMedium, nil
	case "easy":
		return DifficultyEasy, nil
	case "medium":
		return DifficultyMedium, nil
	case "hard":
		return DifficultyHard, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDifficulty, label)
	}
}

// Marker returns the colour marker shown next to the difficulty in the viewer.
func (d Difficulty) Marker() string {
	switch d {
	case DifficultyEasy:
		return "🟢"
	case DifficultyHard:
		return "🔴"
	default:
		return "🟡"
	}
}

// Field is an additional key/value pair returned by the model beyond the
// standard record. Value holds the raw JSON.
type Field struct {
	Key   string
	Value json.RawMessage
}

// Flashcard is one question/answer unit with its metadata.
//
// Cards are created in batches from model output and never edited
// individually. Extra preserves non-standard keys in first-seen order so
// exports can reproduce them.
type Flashcard struct {
	Question   string
	Answer     string
	Difficulty Difficulty
	Topic      string
	Extra      []Field
}

// NewFlashcard creates a Flashcard, applying the default difficulty and topic,
// and validates it.
func NewFlashcard(question, answer string, difficulty Difficulty, topic string) (Flashcard, error) {
	card := Flashcard{
		Question:   question,
		Answer:     answer,
		Difficulty: difficulty,
		Topic:      topic,
	}
	card.applyDefaults()

	if err := card.Validate(); err != nil {
		return Flashcard{}, err
	}
	return card, nil
}

func (f *Flashcard) applyDefaults() {
	if f.Difficulty == "" {
		f.Difficulty = DifficultyMedium
	}
	if strings.TrimSpace(f.Topic) == "" {
		f.Topic = DefaultTopic
	}
}

// Validate checks that the card has a question, an answer, and a known difficulty.
func (f Flashcard) Validate() error {
	if strings.TrimSpace(f.Question) == "" {
		return NewValidationError(FieldQuestion, "is required", ErrEmptyQuestion)
	}
	if strings.TrimSpace(f.Answer) == "" {
		return NewValidationError(FieldAnswer, "is required", ErrEmptyAnswer)
	}
	if _, err := ParseDifficulty(string(f.Difficulty)); err != nil {
		return NewValidationError(FieldDifficulty, "must be Easy, Medium or Hard", err)
	}
	return nil
}

// Value returns the card's value for key as display text. Standard keys
// always resolve; extra keys resolve when present. JSON strings are unquoted,
// any other JSON value is returned in its compact encoding.
func (f Flashcard) Value(key string) (string, bool) {
	switch key {
	case FieldQuestion:
		return f.Question, true
	case FieldAnswer:
		return f.Answer, true
	case FieldDifficulty:
		return string(f.Difficulty), true
	case FieldTopic:
		return f.Topic, true
	}

	for _, field := range f.Extra {
		if field.Key != key {
			continue
		}
		var s string
		if err := json.Unmarshal(field.Value, &s); err == nil {
			return s, true
		}
		var compact bytes.Buffer
		if err := json.Compact(&compact, field.Value); err != nil {
			return string(field.Value), true
		}
		if compact.String() == "null" {
			return "", true
		}
		return compact.String(), true
	}
	return "", false
}

// MarshalJSON writes the standard keys first, then extras in their original order.
func (f Flashcard) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	write := func(key string, value any) error {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return err
		}
		v, err := json.Marshal(value)
		if err != nil {
			return err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
		return nil
	}

	standard := []struct {
		key   string
		value any
	}{
		{FieldQuestion, f.Question},
		{FieldAnswer, f.Answer},
		{FieldDifficulty, f.Difficulty},
		{FieldTopic, f.Topic},
	}
	for _, kv := range standard {
		if err := write(kv.key, kv.value); err != nil {
			return nil, err
		}
	}
	for _, field := range f.Extra {
		if err := write(field.Key, field.Value); err != nil {
			return nil, fmt.Errorf("marshal field %q: %w", field.Key, err)
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a card object, keeping key order for extras and
// applying the default difficulty and topic. Standard keys must hold strings.
func (f *Flashcard) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("%w: flashcard must be a JSON object", ErrValidation)
	}

	var card Flashcard
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
		key, _ := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("%w: field %q: %v", ErrValidation, key, err)
		}

		switch key {
		case FieldQuestion, FieldAnswer, FieldDifficulty, FieldTopic:
			var s *string
			if err := json.Unmarshal(raw, &s); err != nil {
				return NewValidationError(key, "must be a string", ErrValidation)
			}
			value := ""
			if s != nil {
				value = *s
			}
			switch key {
			case FieldQuestion:
				card.Question = value
			case FieldAnswer:
				card.Answer = value
			case FieldDifficulty:
				d, err := ParseDifficulty(value)
				if err != nil {
					return NewValidationError(key, "must be Easy, Medium or Hard", err)
				}
				card.Difficulty = d
			case FieldTopic:
				card.Topic = value
			}
		default:
			card.setExtra(key, raw)
		}
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	card.applyDefaults()
	*f = card
	return nil
}

func (f *Flashcard) setExtra(key string, value json.RawMessage) {
	for i := range f.Extra {
		if f.Extra[i].Key == key {
			f.Extra[i].Value = value
			return
		}
	}
	f.Extra = append(f.Extra, Field{Key: key, Value: value})
}
