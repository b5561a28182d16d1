package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"jobview-engine/internal/config"
	"jobview-engine/internal/events"
	"jobview-engine/internal/record"
	"jobview-engine/internal/store"
)

const testDataset = `[
  {"Title": "Backend Engineer", "Posted": "2 hours ago", "Type": "Full-time",
   "Level": "Senior", "Skill": "Go", "Detail": "Build services.",
   "Job Page Link": "https://example.com/jobs/1"},
  {"Title": "Android Developer", "Posted": "45 minutes ago", "Type": "Contract",
   "Level": "Junior", "Skill": "Kotlin"},
  {"Title": "Data Analyst", "Posted": "1 day ago", "Type": "Full-time",
   "Level": "Junior", "Skill": "SQL"}
]`

func testConfig() config.Config {
	var cfg config.Config
	cfg.App.Port = 39114
	cfg.Dataset.MaxUploadBytes = 1 << 20
	cfg.View.Locale = "en"
	return cfg
}

func newTestMux(t *testing.T) (http.Handler, Deps) {
	t.Helper()

	db, err := store.Open()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := store.Migrate(db.Pool); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	var cfgVal atomic.Value
	cfgVal.Store(testConfig())

	var loadStatus atomic.Value
	loadStatus.Store(LoadStatus{Source: "none"})

	d := Deps{
		Catalog:       store.NewCatalog(db.Pool),
		Hub:           events.NewHub(),
		CfgVal:        &cfgVal,
		LoadStatus:    &loadStatus,
		ReloadLimiter: rate.NewLimiter(rate.Every(time.Hour), 1),
	}
	return Chain(NewMux(d), RequestID, Recover), d
}

func doJSON(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func uploadDataset(t *testing.T, h http.Handler, body string) {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/dataset", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("upload: status %d, body %s", rec.Code, rec.Body)
	}
}

func decodeJobs(t *testing.T, rec *httptest.ResponseRecorder) []record.JobRecord {
	t.Helper()
	var out []record.JobRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode jobs: %v (%s)", err, rec.Body)
	}
	return out
}

func TestUploadThenList(t *testing.T) {
	h, _ := newTestMux(t)
	uploadDataset(t, h, testDataset)

	rec := doJSON(t, h, http.MethodGet, "/jobs", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list: status %d", rec.Code)
	}
	jobs := decodeJobs(t, rec)
	if len(jobs) != 3 {
		t.Fatalf("got %d jobs, want 3", len(jobs))
	}
	if jobs[0].Title != "Backend Engineer" || jobs[0].PostedMinutes != 120 {
		t.Fatalf("first job: %+v", jobs[0])
	}
	// Missing fields came back defaulted.
	if jobs[1].Detail != record.DefaultDetail || jobs[1].Link != record.DefaultLink {
		t.Fatalf("second job not defaulted: %+v", jobs[1])
	}
}

func TestListFilterAndSort(t *testing.T) {
	h, _ := newTestMux(t)
	uploadDataset(t, h, testDataset)

	jobs := decodeJobs(t, doJSON(t, h, http.MethodGet, "/jobs?level=Junior", ""))
	if len(jobs) != 2 {
		t.Fatalf("level=Junior: got %d jobs", len(jobs))
	}

	jobs = decodeJobs(t, doJSON(t, h, http.MethodGet, "/jobs?level=Junior&type=Full-time", ""))
	if len(jobs) != 1 || jobs[0].Title != "Data Analyst" {
		t.Fatalf("ANDed filters: %+v", jobs)
	}

	jobs = decodeJobs(t, doJSON(t, h, http.MethodGet, "/jobs?sort=title-desc", ""))
	if jobs[0].Title != "Data Analyst" || jobs[2].Title != "Android Developer" {
		t.Fatalf("title-desc order: %+v", jobs)
	}

	jobs = decodeJobs(t, doJSON(t, h, http.MethodGet, "/jobs?sort=posted-asc", ""))
	if jobs[0].Title != "Android Developer" || jobs[2].Title != "Data Analyst" {
		t.Fatalf("posted-asc order: %+v", jobs)
	}

	// "All" behaves like no selection.
	jobs = decodeJobs(t, doJSON(t, h, http.MethodGet, "/jobs?level=All&type=All&skill=All", ""))
	if len(jobs) != 3 {
		t.Fatalf("All filters: got %d jobs", len(jobs))
	}
}

func TestListEmptyCatalogIsJSONArray(t *testing.T) {
	h, _ := newTestMux(t)

	rec := doJSON(t, h, http.MethodGet, "/jobs", "")
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Fatalf("empty catalog body = %q, want []", got)
	}
}

func TestUploadMalformedLeavesStateUntouched(t *testing.T) {
	h, _ := newTestMux(t)
	uploadDataset(t, h, testDataset)

	// Non-array top levels must be rejected; `null` in particular decodes
	// without error and would otherwise wipe the set with zero records.
	for _, bad := range []string{`{"not": "an array"}`, `null`, `[{"Title": "truncated"`} {
		rec := doJSON(t, h, http.MethodPost, "/dataset", bad)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("upload %q: status %d", bad, rec.Code)
		}
		var apiErr APIError
		if err := json.Unmarshal(rec.Body.Bytes(), &apiErr); err != nil || apiErr.Error.Code != "invalid_dataset" {
			t.Fatalf("upload %q: error envelope: %s", bad, rec.Body)
		}
	}

	// Previous record set still displayed.
	jobs := decodeJobs(t, doJSON(t, h, http.MethodGet, "/jobs", ""))
	if len(jobs) != 3 {
		t.Fatalf("previous set lost: got %d jobs", len(jobs))
	}

	// And the failure is visible in status.
	rec := doJSON(t, h, http.MethodGet, "/dataset/status", "")
	var st LoadStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatal(err)
	}
	if st.LastError == "" || st.Records != 3 {
		t.Fatalf("status after failed upload: %+v", st)
	}
}

func TestUploadReplacesWholesale(t *testing.T) {
	h, _ := newTestMux(t)
	uploadDataset(t, h, testDataset)
	uploadDataset(t, h, `[{"Title": "Only One"}]`)

	jobs := decodeJobs(t, doJSON(t, h, http.MethodGet, "/jobs", ""))
	if len(jobs) != 1 || jobs[0].Title != "Only One" {
		t.Fatalf("expected full replacement, got %+v", jobs)
	}
}

func TestFiltersEndpoint(t *testing.T) {
	h, _ := newTestMux(t)
	uploadDataset(t, h, testDataset)

	rec := doJSON(t, h, http.MethodGet, "/filters", "")
	var out map[string][]string
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode filters: %v", err)
	}
	if got := out["levels"]; len(got) != 2 || got[0] != "Junior" || got[1] != "Senior" {
		t.Fatalf("levels = %v", got)
	}
	if got := out["skills"]; len(got) != 3 {
		t.Fatalf("skills = %v", got)
	}
	if got := out["types"]; len(got) != 2 {
		t.Fatalf("types = %v", got)
	}
}

func TestCardsEndpoint(t *testing.T) {
	h, _ := newTestMux(t)
	uploadDataset(t, h, testDataset)

	rec := doJSON(t, h, http.MethodGet, "/jobs/cards?skill=Go", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("cards: status %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("content type = %q", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "job-card") || !strings.Contains(body, "Backend Engineer") {
		t.Fatalf("unexpected cards body: %s", body)
	}
	if strings.Contains(body, "Android Developer") {
		t.Fatal("filter not applied to cards")
	}
}

func TestDatasetMethodGuards(t *testing.T) {
	h, _ := newTestMux(t)

	if rec := doJSON(t, h, http.MethodGet, "/dataset", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET /dataset: status %d", rec.Code)
	}
	if rec := doJSON(t, h, http.MethodPost, "/jobs", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST /jobs: status %d", rec.Code)
	}
}

func TestReloadWithoutPath(t *testing.T) {
	h, _ := newTestMux(t)

	rec := doJSON(t, h, http.MethodPost, "/dataset/reload", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("reload without path: status %d, body %s", rec.Code, rec.Body)
	}
}

func TestUploadTooLarge(t *testing.T) {
	h, d := newTestMux(t)

	cfg := testConfig()
	cfg.Dataset.MaxUploadBytes = 16
	d.CfgVal.Store(cfg)

	rec := doJSON(t, h, http.MethodPost, "/dataset", testDataset)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("oversized upload: status %d", rec.Code)
	}
}

func TestHealthReportsDataset(t *testing.T) {
	h, _ := newTestMux(t)

	var st struct {
		OK      bool   `json:"ok"`
		Dataset string `json:"dataset"`
		Records int    `json:"records"`
	}
	rec := doJSON(t, h, http.MethodGet, "/health", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatal(err)
	}
	if !st.OK || st.Dataset != "none" || st.Records != 0 {
		t.Fatalf("health before load: %+v", st)
	}

	uploadDataset(t, h, testDataset)

	rec = doJSON(t, h, http.MethodGet, "/health", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatal(err)
	}
	if !st.OK || st.Dataset != "upload" || st.Records != 3 {
		t.Fatalf("health after load: %+v", st)
	}
}

func TestDatasetLoadedEventPublished(t *testing.T) {
	h, d := newTestMux(t)

	ch := d.Hub.Subscribe()
	defer d.Hub.Unsubscribe(ch)

	uploadDataset(t, h, `[{"Title": "A"}]`)

	select {
	case evt := <-ch:
		if evt.Type != events.TypeDatasetLoaded {
			t.Fatalf("event type = %q", evt.Type)
		}
	default:
		t.Fatal("no event published on upload")
	}
}
