package cli

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/depwalk/depwalk/pkg/cache"
	"github.com/depwalk/depwalk/pkg/report"
	"github.com/depwalk/depwalk/pkg/store"
)

func testServer(t *testing.T, cfg Config) (*server, *chi.Mux) {
	t.Helper()
	s := &server{
		logger: log.New(io.Discard),
		cfg:    cfg,
		cache:  cache.NewNullCache(),
		store:  store.NewMemoryStore(),
	}
	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealth)
	r.Get("/api/walk", s.handleWalk)
	r.Get("/api/reports", s.handleListReports)
	r.Get("/api/reports/{id}", s.handleGetReport)
	return s, r
}

func TestHandleHealth(t *testing.T) {
	_, router := testServer(t, defaultConfig())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestHandleWalk(t *testing.T) {
	const pom = `<project>
  <groupId>org.example</groupId>
  <artifactId>app</artifactId>
  <version>1.0</version>
  <dependencies>
    <dependency>
      <groupId>org.example</groupId>
      <artifactId>core</artifactId>
      <version>2.0</version>
    </dependency>
  </dependencies>
</project>`

	repo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/org/example/app/1.0/app-1.0.pom" {
			_, _ = w.Write([]byte(pom))
			return
		}
		http.NotFound(w, r)
	}))
	defer repo.Close()

	cfg := defaultConfig()
	cfg.Repository = repo.URL
	cfg.CacheTTLHours = 0 // no POM disk cache in tests
	s, router := testServer(t, cfg)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/walk?package=org.example:app:1.0", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var rep report.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &rep); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if rep.Package != "org.example:app:1.0" {
		t.Errorf("Package = %q", rep.Package)
	}
	if len(rep.Edges) != 1 || rep.Edges[0].To != "org.example:core:2.0" {
		t.Errorf("Edges = %v", rep.Edges)
	}

	// The report was persisted.
	stored, err := s.store.List(context.Background(), "org.example:app:1.0", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 1 {
		t.Errorf("stored %d reports, want 1", len(stored))
	}
}

func TestHandleWalk_ReportCache(t *testing.T) {
	pomFor := func(dep string) string {
		return `<project>
  <groupId>org.example</groupId>
  <artifactId>app</artifactId>
  <dependencies>
    <dependency>
      <groupId>org.example</groupId>
      <artifactId>` + dep + `</artifactId>
      <version>1.0</version>
    </dependency>
  </dependencies>
</project>`
	}

	repo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/org/example/app/1.0/app-1.0.pom":
			_, _ = w.Write([]byte(pomFor("dep-for-v1")))
		case "/org/example/app/2.0/app-2.0.pom":
			_, _ = w.Write([]byte(pomFor("dep-for-v2")))
		default:
			http.NotFound(w, r)
		}
	}))
	defer repo.Close()

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer fc.Close()

	cfg := defaultConfig()
	cfg.Repository = repo.URL
	cfg.CacheTTLHours = 0 // no POM disk cache in tests
	s := &server{
		logger: log.New(io.Discard),
		cfg:    cfg,
		cache:  fc,
		store:  store.NewMemoryStore(),
	}
	router := chi.NewRouter()
	router.Get("/api/walk", s.handleWalk)

	get := func(t *testing.T, url string) *httptest.ResponseRecorder {
		t.Helper()
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		return rec
	}

	first := get(t, "/api/walk?package=org.example:app&version=1.0")
	if got := first.Header().Get("X-Cache"); got != "miss" {
		t.Errorf("first request X-Cache = %q, want miss", got)
	}
	if !strings.Contains(first.Body.String(), "dep-for-v1") {
		t.Errorf("first response missing dep-for-v1: %s", first.Body.String())
	}

	// Identical request is served from the cache.
	second := get(t, "/api/walk?package=org.example:app&version=1.0")
	if got := second.Header().Get("X-Cache"); got != "hit" {
		t.Errorf("repeat request X-Cache = %q, want hit", got)
	}
	if second.Body.String() != first.Body.String() {
		t.Error("cached response differs from original")
	}

	// A different default version is a different walk, never the cached one.
	third := get(t, "/api/walk?package=org.example:app&version=2.0")
	if got := third.Header().Get("X-Cache"); got != "miss" {
		t.Errorf("version 2.0 request X-Cache = %q, want miss", got)
	}
	if strings.Contains(third.Body.String(), "dep-for-v1") {
		t.Errorf("version 2.0 response contains version 1.0 graph: %s", third.Body.String())
	}
	if !strings.Contains(third.Body.String(), "dep-for-v2") {
		t.Errorf("version 2.0 response missing dep-for-v2: %s", third.Body.String())
	}
}

func TestHandleWalk_InvalidPackage(t *testing.T) {
	_, router := testServer(t, defaultConfig())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/walk?package=bad", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["code"] != "INVALID_COORDINATE" {
		t.Errorf("code = %q, want INVALID_COORDINATE", body["code"])
	}
}

func TestHandleGetReport(t *testing.T) {
	s, router := testServer(t, defaultConfig())

	rep := report.Report{ID: "abc", Package: "org.example:app:1.0", CreatedAt: time.Now().UTC()}
	if err := s.store.Save(context.Background(), rep); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/reports/abc", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got report.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.ID != "abc" {
		t.Errorf("ID = %q, want abc", got.ID)
	}
}

func TestHandleGetReport_NotFound(t *testing.T) {
	_, router := testServer(t, defaultConfig())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/reports/missing", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandleListReports(t *testing.T) {
	s, router := testServer(t, defaultConfig())
	ctx := context.Background()

	_ = s.store.Save(ctx, report.Report{ID: "r1", Package: "app", CreatedAt: time.Now()})
	_ = s.store.Save(ctx, report.Report{ID: "r2", Package: "other", CreatedAt: time.Now()})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/reports?package=app", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got []report.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "r1" {
		t.Errorf("reports = %v, want [r1]", got)
	}
}

func TestHandleListReports_BadLimit(t *testing.T) {
	_, router := testServer(t, defaultConfig())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/reports?limit=zero", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestBuildCache(t *testing.T) {
	cfg := defaultConfig()
	cfg.Cache.Backend = "none"
	c, err := buildCache(cfg)
	if err != nil {
		t.Fatalf("buildCache() error = %v", err)
	}
	defer c.Close()

	cfg.Cache.Backend = "bogus"
	if _, err := buildCache(cfg); err == nil {
		t.Error("buildCache() error = nil for unknown backend")
	}

	cfg.Cache.Backend = "file"
	cfg.Cache.Dir = t.TempDir()
	fc, err := buildCache(cfg)
	if err != nil {
		t.Fatalf("buildCache(file) error = %v", err)
	}
	defer fc.Close()
}
