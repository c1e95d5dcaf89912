package users

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"smartnotes-backend/internal/shared/server/middleware"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc, issuer := newTestService()
	h := NewHandler(svc)

	router := gin.New()
	api := router.Group("/api")
	h.RegisterPublicRoutes(api)
	protected := api.Group("")
	protected.Use(middleware.Auth(issuer))
	h.RegisterRoutes(protected)
	return router
}

func doJSON(router *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestSignupLoginMeFlow(t *testing.T) {
	router := newTestRouter(t)

	resp := doJSON(router, http.MethodPost, "/api/auth/signup", `{"name":"Ada","email":"ada@example.com","password":"secret-pw"}`, "")
	if resp.Code != http.StatusCreated {
		t.Fatalf("signup: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	resp = doJSON(router, http.MethodPost, "/api/auth/login", `{"email":"ada@example.com","password":"secret-pw"}`, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", resp.Code)
	}
	var session sessionResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &session); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if session.Token == "" || session.User.Email != "ada@example.com" {
		t.Fatalf("unexpected session: %+v", session)
	}

	resp = doJSON(router, http.MethodGet, "/api/me", "", session.Token)
	if resp.Code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d", resp.Code)
	}
	var me userResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &me); err != nil {
		t.Fatalf("decode me: %v", err)
	}
	if me.ID != session.User.ID || me.Name != "Ada" {
		t.Fatalf("unexpected me: %+v", me)
	}
}

func TestAuthErrorStatuses(t *testing.T) {
	router := newTestRouter(t)

	if resp := doJSON(router, http.MethodPost, "/api/auth/signup", `{"email":"x@example.com","password":"secret-pw"}`, ""); resp.Code != http.StatusCreated {
		t.Fatalf("signup: expected 201, got %d", resp.Code)
	}

	cases := []struct {
		name string
		path string
		body string
		want int
	}{
		{name: "duplicate", path: "/api/auth/signup", body: `{"email":"X@example.com","password":"secret-pw"}`, want: http.StatusConflict},
		{name: "invalid signup", path: "/api/auth/signup", body: `{"email":"","password":"secret-pw"}`, want: http.StatusBadRequest},
		{name: "malformed", path: "/api/auth/login", body: `{`, want: http.StatusBadRequest},
		{name: "wrong password", path: "/api/auth/login", body: `{"email":"x@example.com","password":"nope-nope"}`, want: http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doJSON(router, http.MethodPost, tc.path, tc.body, "")
			if resp.Code != tc.want {
				t.Fatalf("expected %d, got %d: %s", tc.want, resp.Code, resp.Body.String())
			}
		})
	}

	if resp := doJSON(router, http.MethodGet, "/api/me", "", ""); resp.Code != http.StatusUnauthorized {
		t.Fatalf("me without token: expected 401, got %d", resp.Code)
	}
}
