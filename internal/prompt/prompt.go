// Package prompt builds the instruction sent to the language model from the
// cleaned content, the chosen subject, and the requested number of cards.
package prompt

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"os"
	"text/template"

	"github.com/phrazzld/flashgen/internal/domain"
)

//go:embed templates/flashcards.tmpl
var templatesFS embed.FS

// ErrEmptyContent is returned when there is no content to build a prompt from.
var ErrEmptyContent = errors.New("prompt content cannot be empty")

var guidance = map[domain.Subject]string{
	domain.SubjectBiology:         "Focus on biological processes, terminology, classifications, and scientific concepts.",
	domain.SubjectHistory:         "Focus on dates, events, key figures, causes and effects, and historical significance.",
	domain.SubjectComputerScience: "Focus on algorithms, data structures, programming concepts, and technical definitions.",
	domain.SubjectMathematics:     "Focus on formulas, theorems, problem-solving steps, and mathematical concepts.",
	domain.SubjectChemistry:       "Focus on chemical reactions, formulas, periodic table elements, and chemical processes.",
	domain.SubjectPhysics:         "Focus on laws, formulas, physical phenomena, and scientific principles.",
	domain.SubjectLiterature:      "Focus on themes, character analysis, literary devices, and plot elements.",
	domain.SubjectGeneral:         "Create diverse flashcards covering key concepts, definitions, and important facts.",
}

// Guidance returns the one-sentence focus instruction for subject. Unknown
// subjects get the General guidance.
func Guidance(subject domain.Subject) string {
	if g, ok := guidance[subject]; ok {
		return g
	}
	return guidance[domain.SubjectGeneral]
}

// data is passed to the prompt template.
type data struct {
	Content  string
	Subject  domain.Subject
	Guidance string
	Count    int
}

// Builder renders prompts from a parsed template.
type Builder struct {
	tmpl *template.Template
}

// NewBuilder parses the prompt template at path, or the built-in template
// when path is empty.
func NewBuilder(path string) (*Builder, error) {
	var (
		raw []byte
		err error
	)
	if path == "" {
		raw, err = templatesFS.ReadFile("templates/flashcards.tmpl")
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt template: %w", err)
	}

	tmpl, err := template.New("flashcards").Option("missingkey=error").Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse prompt template: %w", err)
	}
	return &Builder{tmpl: tmpl}, nil
}

// Build renders the prompt. The subject is normalized, so an unrecognized
// label is rendered as General. Count is not range checked here.
func (b *Builder) Build(content string, subject domain.Subject, count int) (string, error) {
	if content == "" {
		return "", ErrEmptyContent
	}

	subject = domain.NormalizeSubject(string(subject))
	var buf bytes.Buffer
	err := b.tmpl.Execute(&buf, data{
		Content:  content,
		Subject:  subject,
		Guidance: Guidance(subject),
		Count:    count,
	})
	if err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}
