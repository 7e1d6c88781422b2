package testkit

import (
	"encoding/json"
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertStatusCode checks the response code and prints the body on mismatch.
func AssertStatusCode(t *testing.T, s *Scenario, got int, body []byte) {
	t.Helper()
	assert.Equal(t, s.ExpectedCode, got,
		"[%s] HTTP status code mismatch\nbody: %s", s.Name, string(body))
}

// AssertJSONSubset fails when expected is not a subset of actual. Both are
// normalised through json.Unmarshal so key order and number formatting never
// matter. An empty expected always passes.
func AssertJSONSubset(t *testing.T, name string, expected, actual []byte) {
	t.Helper()
	if len(expected) == 0 {
		return
	}

	var expVal, actVal interface{}
	require.NoError(t, json.Unmarshal(expected, &expVal),
		"[%s] expected body is not valid JSON", name)

	if !assert.NoError(t, json.Unmarshal(actual, &actVal),
		"[%s] actual response is not valid JSON\nbody: %s", name, string(actual)) {
		return
	}

	if path, ok := subset(expVal, actVal, "$"); !ok {
		assert.Fail(t, fmt.Sprintf("[%s] response body mismatch at %s", name, path),
			"expected subset: %s\nactual: %s", string(expected), string(actual))
	}
}

// subset reports whether exp is contained in act, with the first differing path.
func subset(exp, act interface{}, path string) (string, bool) {
	switch e := exp.(type) {
	case map[string]interface{}:
		a, ok := act.(map[string]interface{})
		if !ok {
			return path, false
		}
		for k, ev := range e {
			av, present := a[k]
			if !present {
				return path + "." + k, false
			}
			if p, ok := subset(ev, av, path+"."+k); !ok {
				return p, false
			}
		}
		return "", true
	case []interface{}:
		a, ok := act.([]interface{})
		if !ok || len(a) != len(e) {
			return path, false
		}
		for i := range e {
			if p, ok := subset(e[i], a[i], fmt.Sprintf("%s[%d]", path, i)); !ok {
				return p, false
			}
		}
		return "", true
	default:
		return path, reflect.DeepEqual(exp, act)
	}
}
