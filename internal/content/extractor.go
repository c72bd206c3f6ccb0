package content

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// Media types accepted for upload.
const (
	MediaTypeText = "text/plain"
	MediaTypePDF  = "application/pdf"
)

// Upload is a file received from the user.
type Upload struct {
	Filename  string
	MediaType string
	Data      []byte
}

// ResolveMediaType returns the upload's media type, falling back to the file
// extension when the declared type is missing or generic.
func (u Upload) ResolveMediaType() string {
	declared := strings.ToLower(strings.TrimSpace(u.MediaType))
	if i := strings.Index(declared, ";"); i >= 0 {
		declared = strings.TrimSpace(declared[:i])
	}

	switch declared {
	case MediaTypeText, MediaTypePDF:
		return declared
	case "", "application/octet-stream":
		switch strings.ToLower(filepath.Ext(u.Filename)) {
		case ".txt":
			return MediaTypeText
		case ".pdf":
			return MediaTypePDF
		}
	}
	return declared
}

// Extract returns the plain text of an upload.
func Extract(u Upload) (string, error) {
	switch mediaType := u.ResolveMediaType(); mediaType {
	case MediaTypeText:
		if !utf8.Valid(u.Data) {
			return "", ErrInvalidEncoding
		}
		return string(u.Data), nil
	case MediaTypePDF:
		return ExtractPDF(u.Data)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, mediaType)
	}
}

// ExtractPDF concatenates the text of every page, each followed by a newline,
// and trims the result.
func ExtractPDF(data []byte) (text string, err error) {
	// The parser panics on some malformed documents.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%w: %v", ErrExtractionFailed, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("%w: page %d: %v", ErrExtractionFailed, i, err)
		}
		b.WriteString(pageText)
		b.WriteString("\n")
	}

	return strings.TrimSpace(b.String()), nil
}
