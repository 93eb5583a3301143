package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/portfolio-site/core/internal/pkg/apperror"
	"github.com/portfolio-site/core/internal/pkg/response"
	"go.uber.org/zap"
)

func errorRouter(expose bool) *gin.Engine {
	r := gin.New()
	r.Use(ErrorHandler(zap.NewNop(), expose))
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	r.GET("/fail", func(c *gin.Context) {
		response.Error(c, errors.New("db down"), "Error fetching things")
	})
	r.GET("/missing", func(c *gin.Context) {
		response.Error(c, apperror.NotFound("Project"), "")
	})
	r.GET("/raw", func(c *gin.Context) {
		_ = c.Error(errors.New("unrendered"))
	})
	return r
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestErrorHandlerHidesDetailInProduction(t *testing.T) {
	r := errorRouter(false)

	for _, path := range []string{"/panic", "/fail", "/raw"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("%s: expected 500, got %d", path, rec.Code)
		}
		body := decode(t, rec)
		if _, ok := body["stack"]; ok {
			t.Fatalf("%s: stack leaked in production: %v", path, body)
		}
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fail", nil))
	if msg := decode(t, rec)["message"]; msg != "Error fetching things" {
		t.Fatalf("expected fallback message, got %v", msg)
	}
}

func TestErrorHandlerExposesDetailOutsideProduction(t *testing.T) {
	r := errorRouter(true)

	tests := []struct {
		path      string
		detail    string
		wantStack bool
	}{
		{"/panic", "boom", true},
		{"/fail", "db down", false},
		{"/raw", "unrendered", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			body := decode(t, rec)
			if body["error"] != tt.detail {
				t.Fatalf("error %v, want %q", body["error"], tt.detail)
			}
			if _, ok := body["stack"]; ok != tt.wantStack {
				t.Fatalf("stack present = %v, want %v: %v", ok, tt.wantStack, body)
			}
		})
	}
}

func TestErrorHandlerKnownKinds(t *testing.T) {
	rec := httptest.NewRecorder()
	errorRouter(true).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if msg := decode(t, rec)["message"]; msg != "Project not found" {
		t.Fatalf("unexpected message %v", msg)
	}
}
