package testkit

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
)

// Envelope mirrors the JSON body written by pkg/response.
type Envelope struct {
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

// DoJSON fires method url with body marshalled as JSON (nil for no body).
func DoJSON(t *testing.T, h http.Handler, method, url string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("testkit: marshal body: %v", err)
		}
		r = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, url, r)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// FormFile is one file part of a multipart request.
type FormFile struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

// DoMultipart fires a multipart/form-data request with fields and files.
func DoMultipart(t *testing.T, h http.Handler, method, url string, fields map[string]string, files ...FormFile) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("testkit: write field %s: %v", k, err)
		}
	}
	for _, f := range files {
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition", `form-data; name="`+f.Field+`"; filename="`+f.Filename+`"`)
		if f.ContentType != "" {
			hdr.Set("Content-Type", f.ContentType)
		}
		part, err := mw.CreatePart(hdr)
		if err != nil {
			t.Fatalf("testkit: create part: %v", err)
		}
		if _, err := part.Write(f.Data); err != nil {
			t.Fatalf("testkit: write part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("testkit: close multipart: %v", err)
	}

	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// Decode parses the envelope and, when dest is non-nil, its data field.
func Decode(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) Envelope {
	t.Helper()

	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("testkit: decode envelope: %v\nbody: %s", err, rec.Body.String())
	}
	if dest != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, dest); err != nil {
			t.Fatalf("testkit: decode data: %v\ndata: %s", err, string(env.Data))
		}
	}
	return env
}
