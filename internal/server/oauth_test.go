package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"golang.org/x/oauth2"
)

// newTokenBackend fakes the token endpoint for code exchange.
func newTokenBackend(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "exchanged_token",
			"refresh_token": "refresh_token",
			"token_type":    "Bearer",
			"expires_in":    3600,
		})
	}))
}

func newOAuthConfig(tokenURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     "test_client",
		ClientSecret: "test_secret",
		RedirectURL:  "http://localhost:8080/callback",
		Endpoint: oauth2.Endpoint{
			AuthURL:  "http://localhost/authorize",
			TokenURL: tokenURL,
		},
	}
}

func TestOAuthHandler(t *testing.T) {
	t.Run("Routes", func(t *testing.T) {
		handler := NewOAuthHandler(newOAuthConfig(""), "state123")
		routes := handler.Routes()
		if len(routes) != 1 || routes[0] != "/callback" {
			t.Errorf("expected /callback route, got %v", routes)
		}
	})

	t.Run("Successful Callback", func(t *testing.T) {
		backend := newTokenBackend(t)
		defer backend.Close()

		handler := NewOAuthHandler(newOAuthConfig(backend.URL), "state123")

		req := httptest.NewRequest(http.MethodGet, "/callback?state=state123&code=auth_code", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		result := <-handler.Result()
		if result.Error() != nil {
			t.Fatalf("expected no error, got %v", result.Error())
		}
		if result.Token == nil || result.Token.AccessToken != "exchanged_token" {
			t.Errorf("expected exchanged token, got %+v", result.Token)
		}
	})

	t.Run("Invalid State", func(t *testing.T) {
		handler := NewOAuthHandler(newOAuthConfig(""), "expected_state")

		req := httptest.NewRequest(http.MethodGet, "/callback?state=wrong&code=auth_code", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}

		result := <-handler.Result()
		if result.Error() == nil {
			t.Error("expected state validation error")
		}
	})

	t.Run("Authorization Denied", func(t *testing.T) {
		handler := NewOAuthHandler(newOAuthConfig(""), "state123")

		query := url.Values{}
		query.Set("state", "state123")
		query.Set("error", "access_denied")
		query.Set("error_description", "user declined")

		req := httptest.NewRequest(http.MethodGet, "/callback?"+query.Encode(), nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}

		result := <-handler.Result()
		if result.Error() == nil {
			t.Error("expected authorization error")
		}
	})

	t.Run("Replay Rejected", func(t *testing.T) {
		backend := newTokenBackend(t)
		defer backend.Close()

		handler := NewOAuthHandler(newOAuthConfig(backend.URL), "state123")

		req := httptest.NewRequest(http.MethodGet, "/callback?state=state123&code=auth_code", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		<-handler.Result()

		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400 on replay, got %d", rec.Code)
		}
	})
}

func TestBasicRouter(t *testing.T) {
	t.Run("Routes And Middleware Order", func(t *testing.T) {
		router := NewBasicRouter()

		var order []string
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, "first")
				next.ServeHTTP(w, r)
			})
		})
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, "second")
				next.ServeHTTP(w, r)
			})
		})

		handler := NewOAuthHandler(newOAuthConfig(""), "state")
		router.Handler(handler)

		req := httptest.NewRequest(http.MethodGet, "/callback?state=state&code=", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if len(order) != 2 || order[0] != "first" || order[1] != "second" {
			t.Errorf("unexpected middleware order: %v", order)
		}
	})

	t.Run("Unknown Route", func(t *testing.T) {
		router := NewBasicRouter()
		req := httptest.NewRequest(http.MethodGet, "/nope", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})
}
