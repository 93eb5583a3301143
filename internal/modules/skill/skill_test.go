package skill

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/portfolio-site/core/internal/database/dbtest"
	"github.com/portfolio-site/core/internal/middleware"
	"github.com/portfolio-site/core/internal/models"
	"github.com/portfolio-site/core/internal/pkg/apperror"
	"github.com/portfolio-site/core/internal/pkg/jwt"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeStore struct {
	skills   []models.Skill
	replaced int
}

func (f *fakeStore) List(_ context.Context, category string) ([]models.Skill, error) {
	out := []models.Skill{}
	for _, s := range f.skills {
		if category == "" || s.Category == category {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStore) ReplaceAll(_ context.Context, skills []models.Skill) ([]models.Skill, error) {
	f.replaced++
	f.skills = skills
	return skills, nil
}

type fakeUsers map[string]*models.User

func (f fakeUsers) FindUserByID(_ context.Context, id string) (*models.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, apperror.NotFound("User")
}

func setup(t *testing.T, store Store) (*gin.Engine, string) {
	t.Helper()
	signer, _ := jwt.NewSigner("test-secret", time.Hour)
	u := &models.User{Role: models.RoleAdmin, IsActive: true}
	u.ID = primitive.NewObjectID()
	token, err := signer.Sign(u.ID.Hex(), u.Role)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	r := gin.New()
	NewHandler(NewService(store)).RegisterRoutes(r.Group("/api"), middleware.NewGuards(signer, fakeUsers{u.ID.Hex(): u}))
	return r, "Bearer " + token
}

func put(r *gin.Engine, auth, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPut, "/api/skills", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", auth)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestReplaceValidatesEverything(t *testing.T) {
	store := &fakeStore{skills: []models.Skill{{Name: "Liquid", Category: "Shopify", Percentage: 90}}}
	r, auth := setup(t, store)

	w := put(r, auth, `{"skills":[
		{"name":"Liquid","category":"Shopify","percentage":95},
		{"name":"","category":"Cooking","percentage":140}
	]}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	var body struct {
		Errors []apperror.FieldError `json:"errors"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	got := map[string]bool{}
	for _, e := range body.Errors {
		got[e.Field] = true
	}
	for _, f := range []string{"skills[1].name", "skills[1].category", "skills[1].percentage"} {
		if !got[f] {
			t.Fatalf("missing %s in %+v", f, body.Errors)
		}
	}
	if store.replaced != 0 || len(store.skills) != 1 {
		t.Fatalf("store touched after failed validation")
	}
}

func TestReplace(t *testing.T) {
	store := &fakeStore{}
	r, auth := setup(t, store)

	tests := []struct {
		name   string
		body   string
		status int
		count  int
	}{
		{"missing array", `{}`, http.StatusBadRequest, 0},
		{"not json", `{"skills":`, http.StatusBadRequest, 0},
		{"empty set", `{"skills":[]}`, http.StatusOK, 0},
		{"two skills", `{"skills":[{"name":"Liquid","category":"Shopify","percentage":95},{"name":"Go","category":"Backend","percentage":0,"order":2}]}`, http.StatusOK, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := put(r, auth, tt.body)
			if w.Code != tt.status {
				t.Fatalf("status %d, want %d: %s", w.Code, tt.status, w.Body.String())
			}
			if tt.status == http.StatusOK && len(store.skills) != tt.count {
				t.Fatalf("stored %d skills, want %d", len(store.skills), tt.count)
			}
		})
	}
}

func TestListFiltersCategory(t *testing.T) {
	store := &fakeStore{skills: []models.Skill{
		{Name: "Liquid", Category: "Shopify"},
		{Name: "Go", Category: "Backend"},
	}}
	r, _ := setup(t, store)

	req := httptest.NewRequest(http.MethodGet, "/api/skills?category=Backend", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body struct {
		Count int            `json:"count"`
		Data  []models.Skill `json:"data"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body.Count != 1 || body.Data[0].Name != "Go" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestMongoReplaceAll(t *testing.T) {
	db := dbtest.MakeTestDB(t)
	s := NewMongoStore(db)
	ctx := context.Background()

	first := []models.Skill{
		{Name: "Node", Category: "Backend", Order: 2},
		{Name: "Go", Category: "Backend", Order: 1},
		{Name: "Liquid", Category: "Shopify", Order: 1},
	}
	if _, err := s.ReplaceAll(ctx, first); err != nil {
		t.Fatalf("replace: %v", err)
	}
	got, err := s.ReplaceAll(ctx, first[:2])
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if len(got) != 2 || got[0].Name != "Go" || got[1].Name != "Node" {
		t.Fatalf("unexpected order %+v", got)
	}
}
