package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	auth "github.com/phillip/edubridge-go/auth"
	config "github.com/phillip/edubridge-go/config"
)

func newTestRouter(t *testing.T) (*gin.Engine, *auth.TokenIssuer) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	tokens, err := auth.NewTokenIssuer("test-secret", time.Hour, 24*time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	cfg := &config.Config{Tokens: tokens}

	r := gin.New()
	whoami := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("user_id"), "role": c.GetString("role")})
	}
	r.GET("/private", AuthMiddleware(cfg), whoami)
	r.POST("/refresh", RefreshMiddleware(cfg), whoami)
	return r, tokens
}

func TestTokenMiddleware(t *testing.T) {
	r, tokens := newTestRouter(t)
	pair, err := tokens.IssuePair("64b7f0c2e4b0a1a2b3c4d5e6", "mentor")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		method string
		path   string
		header string
		want   int
	}{
		{"access ok", http.MethodGet, "/private", "Bearer " + pair.AccessToken, http.StatusOK},
		{"no header", http.MethodGet, "/private", "", http.StatusUnauthorized},
		{"wrong scheme", http.MethodGet, "/private", "Token " + pair.AccessToken, http.StatusUnauthorized},
		{"refresh on private", http.MethodGet, "/private", "Bearer " + pair.RefreshToken, http.StatusUnauthorized},
		{"refresh ok", http.MethodPost, "/refresh", "Bearer " + pair.RefreshToken, http.StatusOK},
		{"access on refresh", http.MethodPost, "/refresh", "Bearer " + pair.AccessToken, http.StatusUnauthorized},
		{"garbage", http.MethodGet, "/private", "Bearer abc.def.ghi", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestAuthMiddlewareSetsContext(t *testing.T) {
	r, tokens := newTestRouter(t)
	token, err := tokens.Issue("64b7f0c2e4b0a1a2b3c4d5e6", "mentor", auth.AccessToken)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	want := `{"role":"mentor","user_id":"64b7f0c2e4b0a1a2b3c4d5e6"}`
	if w.Body.String() != want {
		t.Fatalf("body = %s, want %s", w.Body.String(), want)
	}
}
