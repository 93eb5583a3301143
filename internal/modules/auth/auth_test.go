package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/portfolio-site/core/internal/middleware"
	"github.com/portfolio-site/core/internal/models"
	"github.com/portfolio-site/core/internal/pkg/apperror"
	jwtpkg "github.com/portfolio-site/core/internal/pkg/jwt"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memUsers struct {
	byID map[string]*models.User
}

func (m *memUsers) FindUserByID(_ context.Context, id string) (*models.User, error) {
	if u, ok := m.byID[id]; ok {
		return u, nil
	}
	return nil, apperror.NotFound("User")
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperror.NotFound("User")
}

func (m *memUsers) TouchLogin(_ context.Context, id primitive.ObjectID, at time.Time) error {
	m.byID[id.Hex()].LastLoginAt = &at
	return nil
}

func (m *memUsers) Upsert(_ context.Context, u *models.User) (*models.User, error) {
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			u.ID = existing.ID
		}
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	m.byID[u.ID.Hex()] = u
	return u, nil
}

func addUser(t *testing.T, m *memUsers, email, password string, active bool) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := &models.User{Email: email, PasswordHash: string(hash), Role: models.RoleAdmin, IsActive: active}
	u.ID = primitive.NewObjectID()
	m.byID[u.ID.Hex()] = u
	return u
}

func setup(t *testing.T) (*gin.Engine, *memUsers) {
	t.Helper()
	signer, err := jwtpkg.NewSigner("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("signer: %v", err)
	}
	users := &memUsers{byID: map[string]*models.User{}}
	r := gin.New()
	NewHandler(NewService(users, signer)).RegisterRoutes(r.Group("/api"), middleware.NewGuards(signer, users))
	return r, users
}

func login(r *gin.Engine, email, password string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLogin(t *testing.T) {
	r, users := setup(t)
	admin := addUser(t, users, "admin@example.com", "correct horse", true)
	addUser(t, users, "gone@example.com", "correct horse", false)

	tests := []struct {
		name     string
		email    string
		password string
		status   int
		message  string
	}{
		{"unknown email", "nobody@example.com", "correct horse", http.StatusUnauthorized, "Invalid email or password"},
		{"wrong password", "admin@example.com", "battery staple", http.StatusUnauthorized, "Invalid email or password"},
		{"inactive", "gone@example.com", "correct horse", http.StatusUnauthorized, "Your account has been deactivated"},
		{"missing password", "admin@example.com", "", http.StatusBadRequest, ""},
		{"success with mixed case email", " Admin@Example.com ", "correct horse", http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := login(r, tt.email, tt.password)
			if w.Code != tt.status {
				t.Fatalf("status %d, want %d: %s", w.Code, tt.status, w.Body.String())
			}
			if tt.message == "" {
				return
			}
			var body map[string]interface{}
			_ = json.Unmarshal(w.Body.Bytes(), &body)
			if body["message"] != tt.message {
				t.Fatalf("message %v, want %q", body["message"], tt.message)
			}
		})
	}
	if admin.LastLoginAt == nil {
		t.Fatalf("lastLoginAt not stamped")
	}
}

func TestMe(t *testing.T) {
	r, users := setup(t)
	addUser(t, users, "admin@example.com", "correct horse", true)

	w := login(r, "admin@example.com", "correct horse")
	var out struct {
		Token string `json:"token"`
		User  struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		} `json:"user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil || out.Token == "" {
		t.Fatalf("login body %s", w.Body.String())
	}
	if out.User.Password != "" {
		t.Fatalf("password hash leaked")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+out.Token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("me status %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous me status %d", w.Code)
	}
}

func TestEnsureUser(t *testing.T) {
	users := &memUsers{byID: map[string]*models.User{}}
	signer, _ := jwtpkg.NewSigner("test-secret", time.Hour)
	svc := NewService(users, signer)
	ctx := context.Background()

	first, err := svc.EnsureUser(ctx, "Owner@Example.com", "Owner", "pw-one", models.RoleAdmin)
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	second, err := svc.EnsureUser(ctx, "owner@example.com", "Owner", "pw-two", models.RoleAdmin)
	if err != nil {
		t.Fatalf("ensure again: %v", err)
	}
	if first.ID != second.ID || len(users.byID) != 1 {
		t.Fatalf("expected one account, got %d", len(users.byID))
	}
	if bcrypt.CompareHashAndPassword([]byte(second.PasswordHash), []byte("pw-two")) != nil {
		t.Fatalf("password not updated")
	}
	if _, err := svc.EnsureUser(ctx, "x@example.com", "", "pw", "root"); err == nil {
		t.Fatalf("unknown role accepted")
	}
}
