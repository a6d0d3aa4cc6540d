package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"assembly-directory.backend/internal/interfaces/http/handlers"
)

func TestRegisterAPIRoutes_RegistersKeyRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	registerAPIRoutes(r, routeDeps{
		authHandler:   &handlers.AuthHandler{},
		memberHandler: &handlers.MemberHandler{},
		authMiddleware: func(c *gin.Context) {
			c.Next()
		},
	})

	registered := map[string]bool{}
	for _, route := range r.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	for _, want := range []string{
		"GET /api/members",
		"GET /api/members/filters",
		"GET /api/members/:id",
		"POST /api/members",
		"PUT /api/members/:id",
		"DELETE /api/members/:id",
		"POST /api/admin/login",
		"GET /api/admin/me",
	} {
		if !registered[want] {
			t.Fatalf("route %s not registered", want)
		}
	}
}

func TestRegisterAPIRoutes_MutationsGoThroughAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	registerAPIRoutes(r, routeDeps{
		authHandler:   &handlers.AuthHandler{},
		memberHandler: &handlers.MemberHandler{},
		authMiddleware: func(c *gin.Context) {
			c.AbortWithStatus(http.StatusUnauthorized)
		},
	})

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/members"},
		{http.MethodPut, "/api/members/x"},
		{http.MethodDelete, "/api/members/x"},
		{http.MethodGet, "/api/admin/me"},
	} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", tc.method, tc.path, rec.Code)
		}
	}
}
