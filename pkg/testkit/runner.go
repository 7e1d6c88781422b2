package testkit

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
)

// Run executes every scenario in the file, in order, as subtests of t.
// A failing step stops the remaining steps of that file.
func Run(t *testing.T, handler http.Handler, path string) {
	t.Helper()

	scenarios, err := LoadScenarios(path)
	if err != nil {
		t.Fatalf("testkit: %v", err)
	}

	for _, s := range scenarios {
		if !t.Run(s.Name, func(t *testing.T) { runScenario(t, handler, s) }) {
			return
		}
	}
}

// RunDir runs every *.json file in dir, each against a fresh handler from
// newHandler so files do not share state.
func RunDir(t *testing.T, newHandler func(t *testing.T) http.Handler, dir string) {
	t.Helper()

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil || len(files) == 0 {
		t.Fatalf("testkit: no scenario files found in %q", dir)
	}

	for _, f := range files {
		name := strings.TrimSuffix(filepath.Base(f), ".json")
		t.Run(name, func(t *testing.T) {
			Run(t, newHandler(t), f)
		})
	}
}

func runScenario(t *testing.T, handler http.Handler, s *Scenario) {
	t.Helper()

	data, err := s.body()
	if err != nil {
		t.Fatalf("[%s] read request body: %v", s.Name, err)
	}
	var body io.Reader
	if len(data) > 0 {
		body = bytes.NewReader(data)
	}

	req := httptest.NewRequest(strings.ToUpper(s.RequestMethod), s.RequestURL, body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range s.Headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	AssertStatusCode(t, s, rec.Code, rec.Body.Bytes())

	expected, err := s.expected()
	if err != nil {
		t.Fatalf("[%s] read expected body: %v", s.Name, err)
	}
	AssertJSONSubset(t, s.Name, expected, rec.Body.Bytes())
}
