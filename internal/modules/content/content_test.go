package content

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
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

// memStore keeps sections in a map and applies the same upsert rules as the mongo store.
type memStore struct {
	sections map[string]models.Content
}

func newMemStore() *memStore { return &memStore{sections: map[string]models.Content{}} }

func (m *memStore) ListActive(context.Context) ([]models.Content, error) {
	out := []models.Content{}
	for _, name := range models.ContentSections {
		if c, ok := m.sections[name]; ok && c.IsActive {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memStore) FindActive(_ context.Context, section string) (*models.Content, error) {
	c, ok := m.sections[section]
	if !ok || !c.IsActive {
		return nil, apperror.NotFound(resource)
	}
	return &c, nil
}

func (m *memStore) Insert(_ context.Context, c *models.Content) error {
	if _, ok := m.sections[c.Section]; ok {
		return apperror.Conflict("content section %q", c.Section)
	}
	c.ID = primitive.NewObjectID()
	m.sections[c.Section] = *c
	return nil
}

func (m *memStore) Upsert(_ context.Context, section string, p Patch, now time.Time) (*models.Content, error) {
	c, ok := m.sections[section]
	if !ok {
		in := Input{Section: section, Patch: p}
		c = *in.document(now)
	} else {
		if p.Title != nil {
			c.Title = *p.Title
		}
		if p.IsActive != nil {
			c.IsActive = *p.IsActive
		}
		c.Touch(now)
	}
	m.sections[section] = c
	return &c, nil
}

func (m *memStore) Deactivate(_ context.Context, section string, now time.Time) error {
	c, ok := m.sections[section]
	if !ok {
		return apperror.NotFound(resource)
	}
	c.IsActive = false
	c.Touch(now)
	m.sections[section] = c
	return nil
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
	u := &models.User{Role: models.RoleEditor, IsActive: true}
	u.ID = primitive.NewObjectID()
	token, err := signer.Sign(u.ID.Hex(), u.Role)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	r := gin.New()
	NewHandler(NewService(store)).RegisterRoutes(r.Group("/api"), middleware.NewGuards(signer, fakeUsers{u.ID.Hex(): u}))
	return r, "Bearer " + token
}

func send(r *gin.Engine, method, path, auth, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUnknownSection(t *testing.T) {
	r, auth := setup(t, newMemStore())

	tests := []struct {
		method string
		status int
	}{
		{http.MethodGet, http.StatusNotFound},
		{http.MethodPut, http.StatusBadRequest},
		{http.MethodDelete, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			w := send(r, tt.method, "/api/content/sidebar", auth, `{"title":"x"}`)
			if w.Code != tt.status {
				t.Fatalf("status %d, want %d", w.Code, tt.status)
			}
		})
	}
}

func TestCreate(t *testing.T) {
	r, auth := setup(t, newMemStore())

	if w := send(r, http.MethodPost, "/api/content", auth, `{"title":"Hi"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("missing section: status %d", w.Code)
	}
	body := `{"section":"hero","title":"Hello","content":{"cta":"Hire me","links":[1,2]}}`
	w := send(r, http.MethodPost, "/api/content", auth, body)
	if w.Code != http.StatusCreated {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	var out struct {
		Data struct {
			IsActive bool                   `json:"isActive"`
			Content  map[string]interface{} `json:"content"`
		} `json:"data"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if !out.Data.IsActive || out.Data.Content["cta"] != "Hire me" {
		t.Fatalf("unexpected document %+v", out.Data)
	}

	if w := send(r, http.MethodPost, "/api/content", auth, body); w.Code != http.StatusConflict {
		t.Fatalf("duplicate: status %d", w.Code)
	}
}

func TestSoftDeleteAndRevive(t *testing.T) {
	store := newMemStore()
	r, auth := setup(t, store)

	if w := send(r, http.MethodDelete, "/api/content/about", auth, ""); w.Code != http.StatusNotFound {
		t.Fatalf("delete missing: status %d", w.Code)
	}
	if w := send(r, http.MethodPut, "/api/content/about", auth, `{"title":"About me"}`); w.Code != http.StatusOK {
		t.Fatalf("upsert: status %d", w.Code)
	}
	if w := send(r, http.MethodDelete, "/api/content/about", auth, ""); w.Code != http.StatusOK {
		t.Fatalf("delete: status %d", w.Code)
	}
	if w := send(r, http.MethodGet, "/api/content/about", "", ""); w.Code != http.StatusNotFound {
		t.Fatalf("deleted section still readable: status %d", w.Code)
	}
	if _, ok := store.sections["about"]; !ok {
		t.Fatalf("soft delete removed the document")
	}

	if w := send(r, http.MethodPut, "/api/content/about", auth, `{"isActive":true}`); w.Code != http.StatusOK {
		t.Fatalf("revive: status %d", w.Code)
	}
	w := send(r, http.MethodGet, "/api/content/about", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("revived section: status %d", w.Code)
	}
}

func TestMongoUpsert(t *testing.T) {
	db := dbtest.MakeTestDB(t)
	s := NewMongoStore(db)
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	title := "Services"
	payload := models.NewPayload(map[string]interface{}{"items": []interface{}{"themes", "apps"}})
	created, err := s.Upsert(ctx, "services", Patch{Title: &title, Content: &payload}, now)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if !created.IsActive || !created.CreatedAt.Equal(now) {
		t.Fatalf("insert defaults missing: %+v", created)
	}
	items := created.Content.Value.(map[string]interface{})["items"].([]interface{})
	if len(items) != 2 || items[0] != "themes" {
		t.Fatalf("payload round trip: %#v", created.Content.Value)
	}

	if err := s.Deactivate(ctx, "services", now); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := s.FindActive(ctx, "services"); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("inactive section visible: %v", err)
	}

	active := true
	later := now.Add(time.Hour)
	revived, err := s.Upsert(ctx, "services", Patch{IsActive: &active}, later)
	if err != nil {
		t.Fatalf("revive: %v", err)
	}
	if !revived.IsActive || revived.Title != title || !revived.CreatedAt.Equal(now) {
		t.Fatalf("revive lost fields: %+v", revived)
	}

	dup := &models.Content{Section: "services", IsActive: true}
	if err := s.Insert(ctx, dup); !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}
