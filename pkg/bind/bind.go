// Package bind decodes and validates HTTP request bodies.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/farmermarket/backend/config"
	"github.com/farmermarket/backend/pkg/validate"
)

// ErrNoFile is returned by File when the form field is absent.
var ErrNoFile = errors.New("bind: no file")

// JSON decodes r.Body as JSON into dest and runs validation.
// Returns (errs, nil) when there are validation failures and (nil, err) when
// the body is malformed or larger than MAX_BODY_BYTES.
func JSON(r *http.Request, dest interface{}) (errs map[string]string, err error) {
	r.Body = http.MaxBytesReader(nil, r.Body, config.MaxBodyBytes())

	if err = json.NewDecoder(r.Body).Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("request body too large (max %d bytes)", maxErr.Limit)
		}
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	errs = validate.Struct(dest)
	if validate.HasErrors(errs) {
		return errs, nil
	}

	return nil, nil
}

// FilePart is an uploaded file read fully into memory.
type FilePart struct {
	Filename    string
	ContentType string // as declared by the client
	Data        []byte
}

// SniffedType detects the content type from the file bytes.
func (f *FilePart) SniffedType() string {
	return mimetype.Detect(f.Data).String()
}

// EffectiveType is the declared type, or the sniffed one when the client sent
// none or a generic octet-stream.
func (f *FilePart) EffectiveType() string {
	ct := strings.TrimSpace(f.ContentType)
	if ct == "" || strings.HasPrefix(ct, "application/octet-stream") {
		return f.SniffedType()
	}
	return ct
}

// BaseName strips any directory components the client put in the filename.
func (f *FilePart) BaseName() string {
	name := filepath.Base(strings.ReplaceAll(f.Filename, "\\", "/"))
	if name == "." || name == "/" {
		return ""
	}
	return name
}

// Multipart parses a multipart/form-data body capped at MAX_UPLOAD_BYTES.
func Multipart(w http.ResponseWriter, r *http.Request) error {
	limit := config.MaxUploadBytes()
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if err := r.ParseMultipartForm(limit); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("upload too large (max %d bytes)", maxErr.Limit)
		}
		return fmt.Errorf("invalid multipart form: %w", err)
	}
	return nil
}

// File reads the named form file. Multipart must have been called first.
// A missing or empty part yields ErrNoFile.
func File(r *http.Request, field string) (*FilePart, error) {
	if r.MultipartForm == nil || len(r.MultipartForm.File[field]) == 0 {
		return nil, ErrNoFile
	}
	return readPart(r.MultipartForm.File[field][0])
}

func readPart(fh *multipart.FileHeader) (*FilePart, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("bind: open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("bind: read %s: %w", fh.Filename, err)
	}
	if len(data) == 0 {
		return nil, ErrNoFile
	}

	return &FilePart{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// Form returns the trimmed value of a multipart or urlencoded field.
func Form(r *http.Request, field string) string {
	return strings.TrimSpace(r.FormValue(field))
}
