package kernel

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmermarket/backend/app/models"
	"github.com/farmermarket/backend/pkg/cache"
	"github.com/farmermarket/backend/pkg/storage"
	"github.com/farmermarket/backend/pkg/testkit"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func newKernel(t *testing.T) *HTTPKernel {
	t.Helper()
	disks := storage.NewManager("local")
	disks.Register("local", storage.NewLocalDisk(t.TempDir(), "/uploads"))

	k, err := NewHTTPKernel(Deps{
		DB:      testkit.NewDB(t, models.All()...),
		Cache:   cache.NewMemory(),
		Storage: disks,
	})
	require.NoError(t, err)
	return k
}

func TestScenarios(t *testing.T) {
	testkit.RunDir(t, func(t *testing.T) http.Handler { return newKernel(t).Handler() }, "testdata")
}

func TestNewHTTPKernelRequiresDB(t *testing.T) {
	_, err := NewHTTPKernel(Deps{})
	assert.Error(t, err)
}

func TestRoutesAreNamed(t *testing.T) {
	names := map[string]string{}
	for _, r := range newKernel(t).Routes() {
		names[r.Name] = r.Method + " " + r.Path
	}

	assert.Equal(t, "POST /api/orders", names["orders.place"])
	assert.Equal(t, "GET /api/products/{id}/image", names["products.image"])
	assert.Equal(t, "POST /api/messages/send", names["messages.send"])
	assert.Equal(t, "DELETE /api/address/{buyerEmail}", names["address.destroy"])
	assert.Equal(t, "POST /api/add-name", names["names.store"])
	assert.Equal(t, "GET /metrics", names["metrics"])
	assert.Equal(t, "POST /graphql", names["graphql"])
}

func createProduct(t *testing.T, h http.Handler, fields map[string]string, files ...testkit.FormFile) map[string]interface{} {
	t.Helper()
	rec := testkit.DoMultipart(t, h, http.MethodPost, "/api/products", fields, files...)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var view map[string]interface{}
	testkit.Decode(t, rec, &view)
	return view
}

func TestProductLifecycle(t *testing.T) {
	h := newKernel(t).Handler()

	view := createProduct(t, h,
		map[string]string{"name": "Mangoes", "category": "fruit", "price": "350.00", "description": "Karthakolomban"},
		testkit.FormFile{Field: "image", Filename: "mango.png", ContentType: "image/png", Data: pngBytes},
	)
	id := int(view["id"].(float64))
	assert.Equal(t, "FRUIT", view["category"])
	assert.EqualValues(t, 350, view["price"])
	assert.Equal(t, fmt.Sprintf("/api/products/%d/image", id), view["imageUrl"])

	img := testkit.DoJSON(t, h, http.MethodGet, fmt.Sprintf("/api/products/%d/image", id), nil)
	require.Equal(t, http.StatusOK, img.Code)
	assert.Equal(t, "image/png", img.Header().Get("Content-Type"))
	assert.Equal(t, pngBytes, img.Body.Bytes())

	// update without an image keeps the stored one
	rec := testkit.DoMultipart(t, h, http.MethodPut, fmt.Sprintf("/api/products/%d", id),
		map[string]string{"name": "Mangoes", "category": "FRUIT", "price": "300"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated map[string]interface{}
	testkit.Decode(t, rec, &updated)
	assert.EqualValues(t, 300, updated["price"])
	assert.NotNil(t, updated["imageUrl"])

	list := testkit.DoJSON(t, h, http.MethodGet, "/api/products", nil)
	var all []map[string]interface{}
	testkit.Decode(t, list, &all)
	require.Len(t, all, 1)

	del := testkit.DoJSON(t, h, http.MethodDelete, fmt.Sprintf("/api/products/%d", id), nil)
	assert.Equal(t, http.StatusNoContent, del.Code)

	show := testkit.DoJSON(t, h, http.MethodGet, fmt.Sprintf("/api/products/%d", id), nil)
	assert.Equal(t, http.StatusNotFound, show.Code)

	again := testkit.DoJSON(t, h, http.MethodDelete, fmt.Sprintf("/api/products/%d", id), nil)
	assert.Equal(t, http.StatusNoContent, again.Code)
}

func TestProductWithoutImage(t *testing.T) {
	h := newKernel(t).Handler()

	view := createProduct(t, h, map[string]string{"name": "Beans", "category": "VEGETABLE", "price": "120"})
	assert.Nil(t, view["imageUrl"])

	rec := testkit.DoJSON(t, h, http.MethodGet, fmt.Sprintf("/api/products/%d/image", int(view["id"].(float64))), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Product has no image", testkit.Decode(t, rec, nil).Message)
}

func TestProductValidation(t *testing.T) {
	h := newKernel(t).Handler()

	rec := testkit.DoMultipart(t, h, http.MethodPost, "/api/products",
		map[string]string{"name": "Rice", "category": "GRAIN", "price": "100"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, testkit.Decode(t, rec, nil).Errors, "category")

	rec = testkit.DoMultipart(t, h, http.MethodPost, "/api/products",
		map[string]string{"name": "Rice", "category": "FRUIT", "price": "cheap"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "The price must be a number.", testkit.Decode(t, rec, nil).Errors["price"])

	rec = testkit.DoJSON(t, h, http.MethodGet, "/api/products/abc", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMessageWithImageIsServed(t *testing.T) {
	h := newKernel(t).Handler()

	rec := testkit.DoMultipart(t, h, http.MethodPost, "/api/messages/send",
		map[string]string{
			"buyerName":  "Nimal",
			"buyerEmail": "nimal@example.com",
			"subject":    "Late delivery",
			"message":    "Where is my order?",
		},
		testkit.FormFile{Field: "image", Filename: "receipt.png", ContentType: "image/png", Data: pngBytes},
	)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var msg models.Message
	testkit.Decode(t, rec, &msg)
	assert.Equal(t, models.SenderBuyer, msg.SenderRole)
	assert.Equal(t, models.MessageUnread, msg.Status)
	require.True(t, strings.HasPrefix(msg.ImagePath, "/uploads/messages/"), msg.ImagePath)
	assert.True(t, strings.HasSuffix(msg.ImagePath, "_receipt.png"), msg.ImagePath)

	file := httptest.NewRecorder()
	h.ServeHTTP(file, httptest.NewRequest(http.MethodGet, msg.ImagePath, nil))
	require.Equal(t, http.StatusOK, file.Code)
	assert.Equal(t, pngBytes, file.Body.Bytes())

	reply := testkit.DoMultipart(t, h, http.MethodPost, "/api/messages/send",
		map[string]string{"buyerEmail": "nimal@example.com", "senderRole": "ADMIN", "message": "On its way"})
	require.Equal(t, http.StatusOK, reply.Code, reply.Body.String())

	var thread []models.Message
	testkit.Decode(t, testkit.DoJSON(t, h, http.MethodGet, "/api/messages/buyer/nimal@example.com", nil), &thread)
	require.Len(t, thread, 2)
	assert.Equal(t, models.SenderBuyer, thread[0].SenderRole)
	assert.Equal(t, models.SenderAdmin, thread[1].SenderRole)

	var inbox []models.Message
	testkit.Decode(t, testkit.DoJSON(t, h, http.MethodGet, "/api/messages/admin", nil), &inbox)
	assert.Len(t, inbox, 2)
}

func TestMessageRejectsNonImage(t *testing.T) {
	h := newKernel(t).Handler()

	rec := testkit.DoMultipart(t, h, http.MethodPost, "/api/messages/send",
		map[string]string{"buyerEmail": "nimal@example.com", "message": "see attached"},
		testkit.FormFile{Field: "image", Filename: "notes.txt", ContentType: "text/plain", Data: []byte("hello")},
	)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Only image files are allowed.", testkit.Decode(t, rec, nil).Message)

	rec = testkit.DoMultipart(t, h, http.MethodPost, "/api/messages/send",
		map[string]string{"buyerEmail": "nimal@example.com", "senderRole": "farmer"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, testkit.Decode(t, rec, nil).Errors, "senderRole")
}

func TestGraphQLOverHTTP(t *testing.T) {
	h := newKernel(t).Handler()
	createProduct(t, h, map[string]string{"name": "Pumpkin", "category": "VEGETABLE", "price": "95.50"})

	rec := testkit.DoJSON(t, h, http.MethodPost, "/graphql", map[string]string{
		"query": `{ products { name category price } }`,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"products":[{"name":"Pumpkin","category":"VEGETABLE","price":95.5}]}}`, rec.Body.String())

	get := httptest.NewRecorder()
	h.ServeHTTP(get, httptest.NewRequest(http.MethodGet, "/graphql?query=%7B%20pendingOrders%20%7B%20orderId%20%7D%20%7D", nil))
	require.Equal(t, http.StatusOK, get.Code)
	assert.Contains(t, get.Body.String(), `"pendingOrders"`)
	assert.NotContains(t, get.Body.String(), `"errors"`)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newKernel(t).Handler()
	testkit.DoJSON(t, h, http.MethodGet, "/api/orders", nil)

	rec := testkit.DoJSON(t, h, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "farmermarket_http_requests_total")
}

func TestCORSPreflight(t *testing.T) {
	h := newKernel(t).Handler()

	req := httptest.NewRequest(http.MethodOptions, "/api/orders", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	h := newKernel(t).Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/orders", bytes.NewReader(nil))
	req.Header.Set("X-Request-ID", "req-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))
}
