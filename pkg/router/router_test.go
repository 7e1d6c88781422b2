package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmermarket/backend/pkg/router"
)

func TestGroupRoutesAndParams(t *testing.T) {
	r := router.New()
	api := r.Group("/api")
	orders := api.Group("orders")

	orders.Get("/{orderId}", "orders.show", func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte(chi.URLParam(req, "orderId")))
	})
	orders.Put("/status/{orderId}", "orders.status", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})
	orders.Delete("/cancel/{orderId}", "orders.cancel", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orders/ORD-7", nil))
	assert.Equal(t, "ORD-7", rec.Body.String())

	rec = httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/orders/status/ORD-7", nil))
	assert.Equal(t, http.StatusAccepted, rec.Code)

	rec = httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/orders/cancel/ORD-7", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestURLBuildsNamedRoute(t *testing.T) {
	r := router.New()
	r.Group("/api/products").Get("/{id}/image", "products.image", func(http.ResponseWriter, *http.Request) {})

	url, err := r.URL("products.image", map[string]string{"id": "12"})
	require.NoError(t, err)
	assert.Equal(t, "/api/products/12/image", url)

	_, err = r.URL("products.image", nil)
	assert.Error(t, err)

	_, err = r.URL("missing", nil)
	assert.Error(t, err)
}

func TestGroupMiddlewareOrder(t *testing.T) {
	var trail []string
	mw := func(tag string) router.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				trail = append(trail, tag)
				next.ServeHTTP(w, r)
			})
		}
	}

	r := router.New()
	g := r.Group("/a", mw("outer")).Group("/b", mw("inner"))
	g.Post("/c", "", func(http.ResponseWriter, *http.Request) { trail = append(trail, "handler") }, mw("route"))

	r.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/a/b/c", nil))
	assert.Equal(t, []string{"outer", "inner", "route", "handler"}, trail)
}

func TestRoutesListing(t *testing.T) {
	r := router.New()
	noop := func(http.ResponseWriter, *http.Request) {}
	r.Post("/api/orders", "orders.store", noop)
	r.Get("/api/orders", "orders.index", noop)
	r.Static("/uploads", "uploads", http.NotFoundHandler())

	routes := r.Routes()
	require.Len(t, routes, 3)
	assert.Equal(t, router.Route{Method: http.MethodGet, Path: "/api/orders", Name: "orders.index"}, routes[0])
	assert.Equal(t, http.MethodPost, routes[1].Method)
	assert.Equal(t, "/uploads/*", routes[2].Path)
}

func TestStaticStripsPrefix(t *testing.T) {
	r := router.New()
	r.Static("/uploads", "uploads", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte(req.URL.Path))
	}))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/uploads/messages/a.png", nil))
	assert.Equal(t, "/messages/a.png", rec.Body.String())
}
