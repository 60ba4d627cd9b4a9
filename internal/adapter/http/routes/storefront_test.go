package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"cervejaria_storefront/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

func TestAddStorefrontRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	v1 := r.Group("/v1")
	addPingRoutes(v1)
	addStorefrontRoutes(v1, handlers.NewCheckoutHandler(nil, nil), handlers.NewPixSessionHandler(nil))

	want := map[string]bool{
		"POST /v1/checkout":                                   false,
		"POST /v1/pix/sessions":                               false,
		"GET /v1/pix/sessions/:order_id":                      false,
		"GET /v1/pix/sessions/:order_id/events":               false,
		"DELETE /v1/pix/sessions/:order_id":                   false,
		"POST /v1/pix/sessions/:order_id/confirmation":        false,
		"DELETE /v1/pix/sessions/:order_id/confirmation":      false,
		"POST /v1/pix/sessions/:order_id/confirmation/accept": false,
		"GET /v1/pix/sessions/:order_id/attempts":             false,
		"GET /v1/ping":                                        false,
	}
	for _, route := range r.Routes() {
		key := route.Method + " " + route.Path
		if _, ok := want[key]; ok {
			want[key] = true
		}
	}
	for key, found := range want {
		if !found {
			t.Fatalf("route not registered: %s", key)
		}
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/ping", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}
