package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/portfolio-site/core/internal/pkg/limiter"
	"go.uber.org/zap"
)

func limitedRouter() *gin.Engine {
	r := gin.New()
	r.Use(RateLimit(limiter.NewMemoryStore(), RateLimitOptions{
		Name:    "contact",
		Max:     5,
		Window:  time.Hour,
		Message: "Too many contact form submissions, please try again later.",
		Match:   MethodPath(http.MethodPost, "/api/contact"),
	}, zap.NewNop()))
	r.POST("/api/contact", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/contact", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func send(r http.Handler, method, path, ip, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.RemoteAddr = ip + ":12345"
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRateLimitSixthContactPostIsRejected(t *testing.T) {
	r := limitedRouter()

	for i := 1; i <= 5; i++ {
		if rec := send(r, http.MethodPost, "/api/contact", "10.0.0.1", ""); rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}
	rec := send(r, http.MethodPost, "/api/contact", "10.0.0.1", "")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 on 6th request, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}

	if rec := send(r, http.MethodPost, "/api/contact", "10.0.0.2", ""); rec.Code != http.StatusOK {
		t.Fatalf("other ip should not be limited, got %d", rec.Code)
	}
	if rec := send(r, http.MethodGet, "/api/contact", "10.0.0.1", ""); rec.Code != http.StatusOK {
		t.Fatalf("GET is outside the contact limiter, got %d", rec.Code)
	}
}

func TestRateLimitBypassedWithAuthorizationHeader(t *testing.T) {
	r := limitedRouter()

	for i := 1; i <= 10; i++ {
		rec := send(r, http.MethodPost, "/api/contact", "10.0.0.3", "Bearer anything")
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d with Authorization header: expected 200, got %d", i, rec.Code)
		}
	}
}
