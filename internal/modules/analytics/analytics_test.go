package analytics

import (
	"bytes"
	"context"
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
	events []models.AnalyticsEvent
	since  time.Time
}

func (f *fakeStore) Insert(_ context.Context, ev *models.AnalyticsEvent) error {
	f.events = append(f.events, *ev)
	return nil
}

func (f *fakeStore) Stats(_ context.Context, since time.Time, _ int) (*Stats, error) {
	f.since = since
	return &Stats{TotalViews: int64(len(f.events)), ViewsByPage: []Bucket{}, ViewsByDay: []Bucket{}, TopReferrers: []Bucket{}}, nil
}

type fakeUsers map[string]*models.User

func (f fakeUsers) FindUserByID(_ context.Context, id string) (*models.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, apperror.NotFound("User")
}

var fixedNow = time.Date(2024, 7, 31, 12, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*gin.Engine, *fakeStore, map[string]string) {
	t.Helper()
	signer, _ := jwt.NewSigner("test-secret", time.Hour)
	users := fakeUsers{}
	tokens := map[string]string{}
	for _, role := range []string{models.RoleAdmin, models.RoleEditor} {
		u := &models.User{Role: role, IsActive: true}
		u.ID = primitive.NewObjectID()
		users[u.ID.Hex()] = u
		tok, _ := signer.Sign(u.ID.Hex(), role)
		tokens[role] = "Bearer " + tok
	}

	store := &fakeStore{}
	svc := NewService(store)
	svc.now = func() time.Time { return fixedNow }
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api"), middleware.NewGuards(signer, users))
	return r, store, tokens
}

func request(r *gin.Engine, method, path, auth, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	req.Header.Set("User-Agent", "beacon/1.0")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPageviewDefaults(t *testing.T) {
	r, store, _ := setup(t)

	if w := request(r, http.MethodPost, "/api/analytics/pageview", "", ""); w.Code != http.StatusCreated {
		t.Fatalf("empty beacon: status %d", w.Code)
	}
	body := `{"page":"/blog/liquid?utm_source=x","referrer":"https://news.ycombinator.com","sessionId":"s1","metadata":{"w":1280}}`
	if w := request(r, http.MethodPost, "/api/analytics/pageview", "", body); w.Code != http.StatusCreated {
		t.Fatalf("status %d", w.Code)
	}

	if len(store.events) != 2 {
		t.Fatalf("stored %d events", len(store.events))
	}
	first, second := store.events[0], store.events[1]
	if first.Type != models.EventPageview || first.Page != "/" || first.Referrer != models.DirectReferrer {
		t.Fatalf("defaults not applied: %+v", first)
	}
	if first.UserAgent != "beacon/1.0" || first.IPAddress == "" {
		t.Fatalf("caller not stamped: %+v", first)
	}
	if second.Page != "/blog/liquid" || second.SessionID != "s1" {
		t.Fatalf("unexpected event %+v", second)
	}
	if m, ok := second.Metadata.Value.(map[string]interface{}); !ok || m["w"] != float64(1280) {
		t.Fatalf("metadata %#v", second.Metadata.Value)
	}
}

func TestPageviewBodyFraming(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		contentLength int64
		status        int
	}{
		{"chunked empty body", "", -1, http.StatusCreated},
		{"zero length body", "", 0, http.StatusCreated},
		{"truncated json", `{"page":`, -1, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, store, _ := setup(t)
			req := httptest.NewRequest(http.MethodPost, "/api/analytics/pageview", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			req.ContentLength = tt.contentLength
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.status {
				t.Fatalf("status %d, want %d: %s", w.Code, tt.status, w.Body.String())
			}
			if tt.status == http.StatusCreated && (len(store.events) != 1 || store.events[0].Page != "/") {
				t.Fatalf("events %+v", store.events)
			}
		})
	}
}

func TestEventType(t *testing.T) {
	r, store, _ := setup(t)

	if w := request(r, http.MethodPost, "/api/analytics/event", "", `{"type":"scroll"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("unknown type: status %d", w.Code)
	}
	if w := request(r, http.MethodPost, "/api/analytics/event", "", `{"type":"download","page":"/cv.pdf"}`); w.Code != http.StatusCreated {
		t.Fatalf("status %d", w.Code)
	}
	if len(store.events) != 1 || store.events[0].Type != models.EventDownload {
		t.Fatalf("events %+v", store.events)
	}
}

func TestStatsWindow(t *testing.T) {
	r, store, tokens := setup(t)
	admin := tokens[models.RoleAdmin]

	tests := []struct {
		name   string
		query  string
		auth   string
		status int
	}{
		{"anonymous", "", "", http.StatusUnauthorized},
		{"editor", "", tokens[models.RoleEditor], http.StatusForbidden},
		{"zero days", "?days=0", admin, http.StatusBadRequest},
		{"too many days", "?days=366", admin, http.StatusBadRequest},
		{"not a number", "?days=week", admin, http.StatusBadRequest},
		{"one year", "?days=365", admin, http.StatusOK},
		{"default", "", admin, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := request(r, http.MethodGet, "/api/analytics/stats"+tt.query, tt.auth, "")
			if w.Code != tt.status {
				t.Fatalf("status %d, want %d", w.Code, tt.status)
			}
		})
	}
	if want := fixedNow.AddDate(0, 0, -30); !store.since.Equal(want) {
		t.Fatalf("since %v, want %v", store.since, want)
	}
}

func TestMongoStats(t *testing.T) {
	db := dbtest.MakeTestDB(t)
	s := NewMongoStore(db)
	ctx := context.Background()
	now := time.Now().UTC()

	add := func(page, referrer string, at time.Time, typ string) {
		ev := &models.AnalyticsEvent{Type: typ, Page: page, Referrer: referrer}
		ev.Touch(at)
		if err := s.Insert(ctx, ev); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	add("/", models.DirectReferrer, now, models.EventPageview)
	add("/", "https://google.com", now, models.EventPageview)
	add("/blog", "https://google.com", now.Add(-24*time.Hour), models.EventPageview)
	add("/blog", "https://google.com", now, models.EventClick)
	add("/old", models.DirectReferrer, now.AddDate(0, 0, -60), models.EventPageview)

	st, err := s.Stats(ctx, now.AddDate(0, 0, -30), 10)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.TotalViews != 3 {
		t.Fatalf("total %d", st.TotalViews)
	}
	if len(st.ViewsByPage) != 2 || st.ViewsByPage[0] != (Bucket{Key: "/", Count: 2}) {
		t.Fatalf("by page %+v", st.ViewsByPage)
	}
	if len(st.ViewsByDay) != 2 || st.ViewsByDay[0].Key >= st.ViewsByDay[1].Key {
		t.Fatalf("by day %+v", st.ViewsByDay)
	}
	if len(st.TopReferrers) != 1 || st.TopReferrers[0] != (Bucket{Key: "https://google.com", Count: 2}) {
		t.Fatalf("referrers %+v", st.TopReferrers)
	}
}
