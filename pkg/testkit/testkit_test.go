package testkit

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestSubset(t *testing.T) {
	var exp, act interface{}
	require.NoError(t, json.Unmarshal([]byte(`{"data":{"status":"Pending","items":[{"quantity":2}]}}`), &exp))
	require.NoError(t, json.Unmarshal([]byte(`{"status":200,"data":{"id":1,"status":"Pending","items":[{"id":3,"quantity":2}]}}`), &act))

	_, ok := subset(exp, act, "$")
	assert.True(t, ok)

	var wrong interface{}
	require.NoError(t, json.Unmarshal([]byte(`{"data":{"status":"confirmed"}}`), &wrong))
	path, ok := subset(wrong, act, "$")
	assert.False(t, ok)
	assert.Equal(t, "$.data.status", path)

	var short interface{}
	require.NoError(t, json.Unmarshal([]byte(`{"data":{"items":[]}}`), &short))
	path, ok = subset(short, act, "$")
	assert.False(t, ok)
	assert.Equal(t, "$.data.items", path)
}

func TestLoadScenariosSingleAndArray(t *testing.T) {
	dir := t.TempDir()

	one := writeFile(t, dir, "one.json", `{"name":"ping","requestUrl":"/ping","expectedCode":200}`)
	got, err := LoadScenarios(one)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "GET", got[0].RequestMethod)

	many := writeFile(t, dir, "many.json", `[
		{"name":"a","requestMethod":"POST","requestUrl":"/a","expectedCode":201},
		{"name":"b","requestUrl":"/b","expectedCode":404}
	]`)
	got, err = LoadScenarios(many)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "POST", got[0].RequestMethod)

	bad := writeFile(t, dir, "bad.json", `{"name":"no url","expectedCode":200}`)
	_, err = LoadScenarios(bad)
	assert.Error(t, err)
}

func TestScenarioBodiesFromFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "req.json", `{"name":"Asha"}`)
	writeFile(t, dir, "resp.json", `{"message":"Success"}`)
	p := writeFile(t, dir, "s.json", `{"name":"files","requestMethod":"POST","requestUrl":"/x",
		"requestFileName":"req.json","responseFileName":"resp.json","expectedCode":200}`)

	got, err := LoadScenarios(p)
	require.NoError(t, err)

	body, err := got[0].body()
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Asha"}`, string(body))

	exp, err := got[0].expected()
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"Success"}`, string(exp))
}

func TestRunSharesHandlerAcrossSteps(t *testing.T) {
	var stored string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodPost {
			raw, _ := io.ReadAll(r.Body)
			stored = string(raw)
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"status":201}`))
			return
		}
		_, _ = w.Write([]byte(`{"status":200,"data":` + stored + `}`))
	})

	p := writeFile(t, t.TempDir(), "flow.json", `[
		{"name":"store","requestMethod":"POST","requestUrl":"/v","requestBody":{"v":1},"expectedCode":201},
		{"name":"read","requestUrl":"/v","expectedCode":200,"expectedBody":{"data":{"v":1}}}
	]`)
	Run(t, h, p)
}

func TestDoMultipart(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		f, hdr, err := r.FormFile("image")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  200,
			"message": r.FormValue("name"),
			"data":    map[string]string{"file": hdr.Filename, "type": hdr.Header.Get("Content-Type"), "body": string(data)},
		})
	})

	rec := DoMultipart(t, h, http.MethodPost, "/upload", map[string]string{"name": "Mango"},
		FormFile{Field: "image", Filename: "m.png", ContentType: "image/png", Data: []byte("png")})

	var data map[string]string
	env := Decode(t, rec, &data)
	assert.Equal(t, "Mango", env.Message)
	assert.Equal(t, map[string]string{"file": "m.png", "type": "image/png", "body": "png"}, data)
}
