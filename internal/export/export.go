// Package export renders a flashcard batch as a downloadable CSV or JSON
// document.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/phrazzld/flashgen/internal/domain"
)

var (
	// ErrNoCards is returned when there is nothing to export.
	ErrNoCards = errors.New("no flashcards to export")
	// ErrUnknownFormat is returned for a format other than csv or json.
	ErrUnknownFormat = errors.New("unknown export format")
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat maps a format name onto a Format.
func ParseFormat(name string) (Format, error) {
	switch f := Format(name); f {
	case FormatCSV, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// MIMEType returns the Content-Type for f.
func (f Format) MIMEType() string {
	if f == FormatJSON {
		return "application/json"
	}
	return "text/csv"
}

// Filename returns the download name for a file generated at now.
func Filename(f Format, now time.Time) string {
	return fmt.Sprintf("flashcards_%s.%s", now.Format("20060102_150405"), f)
}

// Columns returns the standard field keys followed by every extra key in
// the order it first appears across cards.
func Columns(cards []domain.Flashcard) []string {
	cols := append([]string(nil), domain.StandardFields...)
	seen := make(map[string]bool, len(cols))
	for _, c := range cols {
		seen[c] = true
	}
	for _, card := range cards {
		for _, f := range card.Extra {
			if !seen[f.Key] {
				seen[f.Key] = true
				cols = append(cols, f.Key)
			}
		}
	}
	return cols
}

// CSV renders cards with a header row and one row per card.
func CSV(cards []domain.Flashcard) ([]byte, error) {
	if len(cards) == 0 {
		return nil, ErrNoCards
	}

	cols := Columns(cards)
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(cols); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	row := make([]string, len(cols))
	for i, card := range cards {
		for j, key := range cols {
			row[j], _ = card.Value(key)
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write csv row %d: %w", i, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// Document is the JSON export envelope.
type Document struct {
	GeneratedOn string             `json:"generated_on"`
	TotalCards  int                `json:"total_cards"`
	Flashcards  []domain.Flashcard `json:"flashcards"`
}

// JSON renders cards in a Document stamped with now, indented by two spaces.
func JSON(cards []domain.Flashcard, now time.Time) ([]byte, error) {
	if len(cards) == 0 {
		return nil, ErrNoCards
	}

	doc := Document{
		GeneratedOn: now.Format(time.RFC3339),
		TotalCards:  len(cards),
		Flashcards:  cards,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode json export: %w", err)
	}
	return data, nil
}

// Render dispatches to CSV or JSON.
func Render(f Format, cards []domain.Flashcard, now time.Time) ([]byte, error) {
	switch f {
	case FormatCSV:
		return CSV(cards)
	case FormatJSON:
		return JSON(cards, now)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}
