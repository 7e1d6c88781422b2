package reqid_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/farmermarket/backend/pkg/reqid"
)

func serve(req *http.Request) (string, *httptest.ResponseRecorder) {
	var seen string
	h := reqid.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = reqid.FromCtx(r.Context())
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return seen, rec
}

func TestGeneratesID(t *testing.T) {
	seen, rec := serve(httptest.NewRequest(http.MethodGet, "/", nil))

	_, err := uuid.Parse(seen)
	assert.NoError(t, err)
	assert.Equal(t, seen, rec.Header().Get(reqid.Header))
}

func TestReusesInboundID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(reqid.Header, "gateway-42")

	seen, rec := serve(req)
	assert.Equal(t, "gateway-42", seen)
	assert.Equal(t, "gateway-42", rec.Header().Get(reqid.Header))
}

func TestRejectsOversizedInboundID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(reqid.Header, strings.Repeat("x", 500))

	seen, _ := serve(req)
	assert.NotEqual(t, strings.Repeat("x", 500), seen)
	assert.Len(t, seen, 36)
}
