package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/flashgen/internal/content"
)

var (
	// ErrUploadTooLarge indicates an upload above the configured limit.
	ErrUploadTooLarge = errors.New("upload too large")

	// ErrMissingUpload indicates a multipart request without a file.
	ErrMissingUpload = errors.New("no file uploaded")

	// ErrMalformedRequest indicates a body that could not be decoded.
	ErrMalformedRequest = errors.New("malformed request")
)

// multipartOverhead is allowed on top of the upload limit for the other
// form fields and part headers.
const multipartOverhead = 1 << 20

var validate = newValidator()

// newValidator reports fields by their JSON or form name.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
	return v
}

// DecodeJSON decodes a request body of at most maxBytes into v.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return ErrUploadTooLarge
		}
		return fmt.Errorf("%w: %v", ErrMalformedRequest, err)
	}
	return nil
}

// ValidateRequest validates v using its validate struct tags.
func ValidateRequest(v interface{}) error {
	return validate.Struct(v)
}

// ParseMultipart parses a multipart form whose file parts may total at
// most maxBytes.
func ParseMultipart(w http.ResponseWriter, r *http.Request, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return ErrUploadTooLarge
		}
		return fmt.Errorf("%w: %v", ErrMalformedRequest, err)
	}
	return nil
}

// ReadUpload reads the file in form field name of an already parsed
// multipart request.
func ReadUpload(r *http.Request, name string, maxBytes int64) (content.Upload, error) {
	file, header, err := r.FormFile(name)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return content.Upload{}, ErrMissingUpload
		}
		return content.Upload{}, fmt.Errorf("%w: %v", ErrMalformedRequest, err)
	}
	defer func() { _ = file.Close() }()

	if header.Size > maxBytes {
		return content.Upload{}, ErrUploadTooLarge
	}
	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return content.Upload{}, fmt.Errorf("%w: %v", ErrMalformedRequest, err)
	}
	if int64(len(data)) > maxBytes {
		return content.Upload{}, ErrUploadTooLarge
	}

	return content.Upload{
		Filename:  header.Filename,
		MediaType: header.Header.Get("Content-Type"),
		Data:      data,
	}, nil
}

// CleanupMultipart removes temporary files left by ParseMultipart.
func CleanupMultipart(r *http.Request) {
	if r.MultipartForm != nil {
		_ = r.MultipartForm.RemoveAll()
	}
}
