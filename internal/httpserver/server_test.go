package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/homescreen/homescreen/internal/config"
	"github.com/homescreen/homescreen/internal/domain"
	"github.com/homescreen/homescreen/internal/httpserver/deps"
	"github.com/homescreen/homescreen/internal/logger"
	"github.com/homescreen/homescreen/internal/store/memory"
)

var errBackend = errors.New("connection refused")

// failingStore fails every operation like an unreachable database.
type failingStore struct{}

func (failingStore) BySection(_ context.Context, s domain.Section) ([]domain.Website, error) {
	return nil, domain.RetrievalFailed(s, errBackend)
}

func (f failingStore) All(ctx context.Context) (map[domain.Section][]domain.Website, error) {
	return domain.CollectAll(ctx, f)
}

func (failingStore) Upsert(context.Context, domain.Website) error {
	return domain.InsertFailed(errBackend)
}

func (failingStore) DeleteByName(context.Context, string) error {
	return domain.DeleteFailed(errBackend)
}

func (failingStore) Ping(context.Context) error { return errBackend }

// slowPinger answers after delay unless ctx ends first.
type slowPinger struct{ delay time.Duration }

func (p slowPinger) Ping(ctx context.Context) error {
	select {
	case <-time.After(p.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func testDeps(store domain.WebsiteStore) deps.Deps {
	return deps.Deps{
		Logger:    logger.NewNop(),
		Store:     store,
		StartTime: time.Now(),
		Version:   "test",
		RateLimit: deps.RateLimit{Burst: 1000, RefillPerMin: 60},
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Port:           8888,
		ListenHost:     "127.0.0.1",
		RequestTimeout: 5 * time.Second,
		AllowedOrigins: []string{"*"},
	}
}

func newRouter(d deps.Deps) http.Handler {
	return NewRouter(testConfig(), logger.NewNop(), d)
}

func do(t *testing.T, h http.Handler, method, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.RemoteAddr = "127.0.0.1:5555"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func websiteForm(name, link, section string) url.Values {
	return url.Values{"website_name": {name}, "website_link": {link}, "section": {section}}
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) []map[string]string {
	t.Helper()
	var out []map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode list %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestGetAllWebsitesHasEverySection(t *testing.T) {
	h := newRouter(testDeps(memory.New()))

	rec := do(t, h, http.MethodGet, "/websites", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q", got)
	}
	if got := rec.Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("Cache-Control = %q", got)
	}

	var body map[string][]map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body) != 3 {
		t.Fatalf("got %d keys, want 3: %v", len(body), body)
	}
	for _, key := range []string{"Code", "Fun", "Editing"} {
		list, ok := body[key]
		if !ok {
			t.Errorf("missing key %q", key)
			continue
		}
		if list == nil || len(list) != 0 {
			t.Errorf("%s = %v, want empty list", key, list)
		}
	}
}

func TestPutWebsite(t *testing.T) {
	tests := []struct {
		name string
		form url.Values
		want int
	}{
		{"valid", websiteForm("github", "github.com", "code"), http.StatusCreated},
		{"short aliases", url.Values{"name": {"lichess"}, "link": {"lichess.org"}, "section": {"fun"}}, http.StatusCreated},
		{"http link", websiteForm("evil", "http://evil.com", "fun"), http.StatusBadRequest},
		{"https link", websiteForm("evil", "https://evil.com", "fun"), http.StatusBadRequest},
		{"display form section", websiteForm("x", "x.com", "Code"), http.StatusBadRequest},
		{"unknown section", websiteForm("x", "x.com", "music"), http.StatusBadRequest},
		{"missing section", url.Values{"website_name": {"x"}, "website_link": {"x.com"}}, http.StatusBadRequest},
		{"missing link", url.Values{"website_name": {"x"}, "section": {"code"}}, http.StatusBadRequest},
		{"empty body", url.Values{}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.New()
			rec := do(t, newRouter(testDeps(store)), http.MethodPut, "/websites", tt.form)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (body %q)", rec.Code, tt.want, rec.Body.String())
			}

			all, err := store.All(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			stored := len(all[domain.SectionCode]) + len(all[domain.SectionFun]) + len(all[domain.SectionEditing])
			if tt.want == http.StatusCreated && stored != 1 {
				t.Errorf("stored %d websites, want 1", stored)
			}
			if tt.want != http.StatusCreated && stored != 0 {
				t.Errorf("rejected form persisted %d websites", stored)
			}
		})
	}
}

func TestPutWebsiteErrorBody(t *testing.T) {
	rec := do(t, newRouter(testDeps(memory.New())), http.MethodPut, "/websites", websiteForm("evil", "https://evil.com", "fun"))

	if got := rec.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/plain") {
		t.Errorf("Content-Type = %q, want text/plain", got)
	}
	if !strings.Contains(rec.Body.String(), domain.ErrLinkHasTransferProtocol.Error()) {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestPutWebsiteOverwrites(t *testing.T) {
	store := memory.New()
	h := newRouter(testDeps(store))

	do(t, h, http.MethodPut, "/websites", websiteForm("docs", "old.example.com", "code"))
	rec := do(t, h, http.MethodPut, "/websites", websiteForm("docs", "new.example.com", "editing"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	if got := decodeList(t, do(t, h, http.MethodGet, "/websites/coding", nil)); len(got) != 0 {
		t.Errorf("coding = %v, want empty", got)
	}
	got := decodeList(t, do(t, h, http.MethodGet, "/websites/editing", nil))
	if len(got) != 1 || got[0]["website_link"] != "new.example.com" || got[0]["section"] != "Editing" {
		t.Errorf("editing = %v", got)
	}
}

func TestSectionRoutes(t *testing.T) {
	store := memory.New()
	h := newRouter(testDeps(store))
	do(t, h, http.MethodPut, "/websites", websiteForm("github", "github.com", "code"))
	do(t, h, http.MethodPut, "/websites", websiteForm("lichess", "lichess.org", "fun"))
	do(t, h, http.MethodPut, "/websites", websiteForm("figma", "figma.com", "editing"))

	tests := []struct {
		path    string
		name    string
		section string
	}{
		{"/websites/coding", "github", "Code"},
		{"/websites/fun", "lichess", "Fun"},
		{"/websites/editing", "figma", "Editing"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, tt.path, nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			got := decodeList(t, rec)
			if len(got) != 1 || got[0]["website_name"] != tt.name || got[0]["section"] != tt.section {
				t.Errorf("got %v, want one %s in %s", got, tt.name, tt.section)
			}
		})
	}
}

func TestDeleteWebsite(t *testing.T) {
	store := memory.New()
	h := newRouter(testDeps(store))
	do(t, h, http.MethodPut, "/websites", websiteForm("github", "github.com", "code"))
	do(t, h, http.MethodPut, "/websites", websiteForm("my site", "me.example.com", "fun"))

	tests := []struct {
		name   string
		target string
		want   int
	}{
		{"existing", "/websites/github", http.StatusOK},
		{"already deleted", "/websites/github", http.StatusNotFound},
		{"never inserted", "/websites/nope", http.StatusNotFound},
		{"escaped name", "/websites/my%20site", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodDelete, tt.target, nil)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (body %q)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestStorageFailures(t *testing.T) {
	h := newRouter(testDeps(failingStore{}))

	tests := []struct {
		name   string
		method string
		target string
		form   url.Values
		body   string
	}{
		{"get all", http.MethodGet, "/websites", nil, "cannot retrieve code websites"},
		{"get section", http.MethodGet, "/websites/fun", nil, "cannot retrieve fun websites"},
		{"put", http.MethodPut, "/websites", websiteForm("a", "a.com", "code"), "cannot insert website"},
		{"delete", http.MethodDelete, "/websites/a", nil, "cannot delete website"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.target, tt.form)
			if rec.Code != http.StatusInternalServerError {
				t.Fatalf("status = %d, want 500", rec.Code)
			}
			body := rec.Body.String()
			if !strings.Contains(body, tt.body) {
				t.Errorf("body = %q, want %q", body, tt.body)
			}
			if strings.Contains(body, errBackend.Error()) {
				t.Errorf("body leaks storage cause: %q", body)
			}
		})
	}
}

func TestInvalidFormNeverReachesStore(t *testing.T) {
	// A failing store would answer 500; validation must answer first.
	h := newRouter(testDeps(failingStore{}))
	rec := do(t, h, http.MethodPut, "/websites", websiteForm("ide2", "https://evil.com", "fun"))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestWebsiteLifecycleScenario(t *testing.T) {
	h := newRouter(testDeps(memory.New()))

	if rec := do(t, h, http.MethodPut, "/websites", websiteForm("ide", "github.com/org/ide", "code")); rec.Code != http.StatusCreated {
		t.Fatalf("put ide: status = %d", rec.Code)
	}
	got := decodeList(t, do(t, h, http.MethodGet, "/websites/coding", nil))
	if len(got) != 1 || got[0]["website_name"] != "ide" || got[0]["website_link"] != "github.com/org/ide" {
		t.Fatalf("coding after put = %v", got)
	}

	if rec := do(t, h, http.MethodPut, "/websites", websiteForm("ide2", "https://evil.com", "fun")); rec.Code != http.StatusBadRequest {
		t.Fatalf("put ide2: status = %d, want 400", rec.Code)
	}
	if got := decodeList(t, do(t, h, http.MethodGet, "/websites/fun", nil)); len(got) != 0 {
		t.Fatalf("fun after rejected put = %v", got)
	}

	if rec := do(t, h, http.MethodDelete, "/websites/ide", nil); rec.Code != http.StatusOK {
		t.Fatalf("delete ide: status = %d", rec.Code)
	}
	if got := decodeList(t, do(t, h, http.MethodGet, "/websites/coding", nil)); len(got) != 0 {
		t.Fatalf("coding after delete = %v", got)
	}
	if rec := do(t, h, http.MethodDelete, "/websites/ide", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("second delete: status = %d, want 404", rec.Code)
	}
}

func TestProbes(t *testing.T) {
	t.Run("healthz", func(t *testing.T) {
		d := testDeps(failingStore{})
		d.Backend = "sqlite"
		rec := do(t, newRouter(d), http.MethodGet, "/healthz", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var body struct {
			Status string `json:"status"`
			Store  string `json:"store"`
			Uptime string `json:"uptime"`
			Build  struct {
				Version string `json:"version"`
			} `json:"build"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatal(err)
		}
		if body.Status != "ok" || body.Store != "sqlite" || body.Build.Version != "test" || body.Uptime == "" {
			t.Errorf("body = %+v", body)
		}
	})

	t.Run("readyz ok", func(t *testing.T) {
		store := memory.New()
		d := testDeps(store)
		d.Pinger = store
		if rec := do(t, newRouter(d), http.MethodGet, "/readyz", nil); rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("readyz ping exceeds timeout", func(t *testing.T) {
		d := testDeps(memory.New())
		d.Pinger = slowPinger{delay: time.Second}
		d.ReadyTimeout = 20 * time.Millisecond
		if rec := do(t, newRouter(d), http.MethodGet, "/readyz", nil); rec.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want 503", rec.Code)
		}
	})

	t.Run("readyz store down", func(t *testing.T) {
		d := testDeps(failingStore{})
		d.Pinger = failingStore{}
		if rec := do(t, newRouter(d), http.MethodGet, "/readyz", nil); rec.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want 503", rec.Code)
		}
	})
}

func TestImportEndpoint(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		if rec := do(t, newRouter(testDeps(memory.New())), http.MethodPost, "/import", nil); rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("queued then busy", func(t *testing.T) {
		d := testDeps(memory.New())
		d.ImportTrigger = make(chan struct{}, 1)
		h := newRouter(d)

		if rec := do(t, h, http.MethodPost, "/import", nil); rec.Code != http.StatusAccepted {
			t.Errorf("first: status = %d, want 202", rec.Code)
		}
		if rec := do(t, h, http.MethodPost, "/import", nil); rec.Code != http.StatusTooManyRequests {
			t.Errorf("second: status = %d, want 429", rec.Code)
		}
		<-d.ImportTrigger
		if rec := do(t, h, http.MethodPost, "/import", nil); rec.Code != http.StatusAccepted {
			t.Errorf("after drain: status = %d, want 202", rec.Code)
		}
	})
}

func TestAccessRestrictions(t *testing.T) {
	d := testDeps(memory.New())
	d.AllowedCIDRS = []string{"10.0.0.0/8"}
	h := newRouter(d)

	for _, target := range []string{"/websites", "/websites/fun", "/healthz", "/readyz"} {
		if rec := do(t, h, http.MethodGet, target, nil); rec.Code != http.StatusForbidden {
			t.Errorf("GET %s from outside cidr: status = %d, want 403", target, rec.Code)
		}
	}
}

func TestWriteRoutesAreRateLimited(t *testing.T) {
	d := testDeps(memory.New())
	d.RateLimit = deps.RateLimit{Burst: 2, RefillPerMin: 1}
	h := newRouter(d)

	for i := 0; i < 2; i++ {
		if rec := do(t, h, http.MethodPut, "/websites", websiteForm("a", "a.com", "code")); rec.Code != http.StatusCreated {
			t.Fatalf("put %d: status = %d", i+1, rec.Code)
		}
	}
	if rec := do(t, h, http.MethodDelete, "/websites/a", nil); rec.Code != http.StatusTooManyRequests {
		t.Errorf("third write: status = %d, want 429", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/websites", nil); rec.Code != http.StatusOK {
		t.Errorf("read after limit: status = %d, want 200", rec.Code)
	}
}

func TestWriteRoutesShareOneLimiter(t *testing.T) {
	d := testDeps(memory.New())
	d.RateLimit = deps.RateLimit{Burst: 1, RefillPerMin: 1}
	d.ImportTrigger = make(chan struct{}, 1)
	h := newRouter(d)

	if rec := do(t, h, http.MethodPut, "/websites", websiteForm("a", "a.com", "code")); rec.Code != http.StatusCreated {
		t.Fatalf("put: status = %d, want 201", rec.Code)
	}
	rec := do(t, h, http.MethodPost, "/import", nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("import after put: status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("limited response has no Retry-After header")
	}
	if len(d.ImportTrigger) != 0 {
		t.Error("limited import must not be queued")
	}
}

func TestZeroBurstDisablesWriteLimit(t *testing.T) {
	d := testDeps(memory.New())
	d.RateLimit = deps.RateLimit{}
	h := newRouter(d)

	for i := 0; i < 25; i++ {
		rec := do(t, h, http.MethodPut, "/websites", websiteForm("a", "a.com", "code"))
		if rec.Code != http.StatusCreated {
			t.Fatalf("put %d: status = %d, want 201", i+1, rec.Code)
		}
		if rec.Header().Get("X-RateLimit-Limit") != "" {
			t.Fatalf("put %d: unexpected rate limit headers", i+1)
		}
	}
}

func TestCORSUsesDepsOrigins(t *testing.T) {
	d := testDeps(memory.New())
	d.AllowedOrigins = []string{"https://home.example"}
	h := newRouter(d)

	for origin, want := range map[string]string{
		"https://home.example": "https://home.example",
		"https://evil.example": "",
	} {
		req := httptest.NewRequest(http.MethodGet, "/websites", nil)
		req.RemoteAddr = "127.0.0.1:5555"
		req.Header.Set("Origin", origin)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != want {
			t.Errorf("origin %s: Allow-Origin = %q, want %q", origin, got, want)
		}
	}
}
