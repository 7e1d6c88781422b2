// Package testkit drives REST API tests from JSON scenario files and provides
// the shared fixtures (temp SQLite database, request helpers) the package
// tests use.
//
// A scenario file holds one step or an ordered array of steps that run
// against the same handler, so later steps observe earlier writes:
//
//	[
//	  {"name": "place", "requestMethod": "POST", "requestUrl": "/api/orders",
//	   "requestBody": {"orderId": "ORD-1"}, "expectedCode": 200},
//	  {"name": "fetch", "requestUrl": "/api/orders/ORD-1", "expectedCode": 200,
//	   "expectedBody": {"data": {"status": "Pending"}}}
//	]
//
// expectedBody is a subset match: every key it names must be present with an
// equal value; arrays must have the same length.
package testkit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Scenario describes one HTTP request and what to assert about the response.
type Scenario struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	RequestMethod   string            `json:"requestMethod"`
	RequestURL      string            `json:"requestUrl"`
	RequestBody     json.RawMessage   `json:"requestBody"`
	RequestFileName string            `json:"requestFileName"`
	Headers         map[string]string `json:"headers"`

	ExpectedCode     int             `json:"expectedCode"`
	ExpectedBody     json.RawMessage `json:"expectedBody"`
	ResponseFileName string          `json:"responseFileName"`

	dir string
}

// LoadScenarios reads a file holding either one scenario object or an array.
func LoadScenarios(path string) ([]*Scenario, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("testkit: resolve path %q: %w", path, err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("testkit: read %q: %w", abs, err)
	}

	var scenarios []*Scenario
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		err = json.Unmarshal(trimmed, &scenarios)
	} else {
		var s Scenario
		err = json.Unmarshal(trimmed, &s)
		scenarios = []*Scenario{&s}
	}
	if err != nil {
		return nil, fmt.Errorf("testkit: parse %q: %w", abs, err)
	}

	for i, s := range scenarios {
		s.dir = filepath.Dir(abs)
		if err := s.validate(); err != nil {
			return nil, fmt.Errorf("testkit: invalid scenario %d in %q: %w", i, abs, err)
		}
	}
	return scenarios, nil
}

func (s *Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.RequestURL == "" {
		return fmt.Errorf("requestUrl is required")
	}
	if s.ExpectedCode == 0 {
		return fmt.Errorf("expectedCode is required")
	}
	if s.RequestMethod == "" {
		s.RequestMethod = "GET"
	}
	return nil
}

// body returns the request body: inline requestBody wins over requestFileName.
func (s *Scenario) body() ([]byte, error) {
	if len(s.RequestBody) > 0 {
		return s.RequestBody, nil
	}
	if s.RequestFileName == "" {
		return nil, nil
	}
	return os.ReadFile(s.resolve(s.RequestFileName))
}

// expected returns the expected body subset: inline expectedBody wins over
// responseFileName.
func (s *Scenario) expected() ([]byte, error) {
	if len(s.ExpectedBody) > 0 {
		return s.ExpectedBody, nil
	}
	if s.ResponseFileName == "" {
		return nil, nil
	}
	return os.ReadFile(s.resolve(s.ResponseFileName))
}

func (s *Scenario) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.dir, name)
}
