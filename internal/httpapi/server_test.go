package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/baliomega/nextflix/internal/config"
	"github.com/baliomega/nextflix/internal/engine"
	"github.com/baliomega/nextflix/internal/httpapi"
	"github.com/baliomega/nextflix/internal/media"
	"github.com/baliomega/nextflix/internal/services"
	"github.com/baliomega/nextflix/internal/testsupport"
	"github.com/baliomega/nextflix/internal/view"
)

type harness struct {
	t       *testing.T
	cfg     *config.Config
	engine  *engine.Engine
	handler http.Handler
}

func newHarness(t *testing.T, cfg *config.Config, opts ...engine.Option) *harness {
	t.Helper()
	if cfg == nil {
		cfg = testsupport.NewConfig(t)
	}
	all := append([]engine.Option{
		engine.WithClock(testsupport.FixedClock()),
		engine.WithIDGenerator(testsupport.SequentialIDs()),
	}, opts...)
	eng, err := engine.Open(context.Background(), cfg, nil, all...)
	if err != nil {
		t.Fatalf("engine.Open: %v", err)
	}
	t.Cleanup(func() { _ = eng.Close() })
	return &harness{t: t, cfg: cfg, engine: eng, handler: httpapi.New(cfg, eng, nil).Handler()}
}

func (h *harness) do(method, target string, body any, headers ...string) *httptest.ResponseRecorder {
	h.t.Helper()
	var reader io.Reader
	switch v := body.(type) {
	case nil:
	case []byte:
		reader = bytes.NewReader(v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			h.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	h.handler.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return out
}

func TestHealth(t *testing.T) {
	h := newHarness(t, nil)
	w := h.do(http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	resp := decode[httpapi.HealthResponse](t, w)
	if resp.Status != "ok" || resp.Provider != "offline" || !resp.Offline {
		t.Fatalf("unexpected health %+v", resp)
	}
	if resp.Stats.Total != 0 || resp.Stats.Unrated != 0 {
		t.Fatalf("expected empty stats, got %+v", resp.Stats)
	}
	if w.Header().Get(httpapi.RequestIDHeader) == "" {
		t.Fatal("expected a request id header")
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	h := newHarness(t, nil)
	w := h.do(http.MethodGet, "/health", nil, httpapi.RequestIDHeader, "abc-123")
	if got := w.Header().Get(httpapi.RequestIDHeader); got != "abc-123" {
		t.Fatalf("expected echoed request id, got %q", got)
	}
}

func TestSearch(t *testing.T) {
	h := newHarness(t, nil)

	w := h.do(http.MethodGet, "/api/search?q=inception", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := decode[httpapi.SearchResponse](t, w)
	if len(resp.Results) != 1 || resp.Results[0].ProviderID != 27205 || resp.Notice != "" {
		t.Fatalf("unexpected search response %+v", resp)
	}

	w = h.do(http.MethodGet, "/api/search?q=", nil)
	resp = decode[httpapi.SearchResponse](t, w)
	if resp.Results == nil || len(resp.Results) != 0 {
		t.Fatalf("expected empty results for empty query, got %+v", resp)
	}
}

func TestSearchUnavailableReturnsNotice(t *testing.T) {
	fake := testsupport.NewFakeProvider()
	fake.PageErrors[1] = services.Wrap(services.ErrProviderUnavailable, "fake", "search", "down", nil)
	h := newHarness(t, nil, engine.WithProvider(fake))

	w := h.do(http.MethodGet, "/api/search?q=anything", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	resp := decode[httpapi.SearchResponse](t, w)
	if resp.Notice == "" || len(resp.Results) != 0 {
		t.Fatalf("expected a notice and no results, got %+v", resp)
	}
}

func TestSearchDebouncedPerSession(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Search.DebounceMillis = 150
	h := newHarness(t, cfg)

	var (
		wg    sync.WaitGroup
		first *httptest.ResponseRecorder
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		first = h.do(http.MethodGet, "/api/search?q=dun", nil, httpapi.SessionHeader, "tab-1")
	}()
	time.Sleep(20 * time.Millisecond)
	second := h.do(http.MethodGet, "/api/search?q=dune", nil, httpapi.SessionHeader, "tab-1")
	wg.Wait()

	if first.Code != http.StatusConflict {
		t.Fatalf("expected the older search to be superseded, got %d", first.Code)
	}
	if second.Code != http.StatusOK {
		t.Fatalf("expected the latest search to succeed, got %d", second.Code)
	}
	resp := decode[httpapi.SearchResponse](t, second)
	if resp.Query != "dune" || len(resp.Results) == 0 {
		t.Fatalf("unexpected latest response %+v", resp)
	}
}

func TestCollectionLifecycle(t *testing.T) {
	h := newHarness(t, nil)
	movie := testsupport.Result(27205, "Inception", media.KindMovie)
	series := testsupport.Result(66732, "Stranger Things", media.KindSeries)

	w := h.do(http.MethodPost, "/api/collection", httpapi.AddRequest{Result: movie, Rating: "love"})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	added := decode[httpapi.EntryResponse](t, w)
	if !added.Created || added.Entry.Rating != media.RatingLove {
		t.Fatalf("unexpected add response %+v", added)
	}

	w = h.do(http.MethodPost, "/api/collection", httpapi.AddRequest{Result: movie, Rating: "down"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on re-add, got %d", w.Code)
	}
	rerated := decode[httpapi.EntryResponse](t, w)
	if rerated.Created || rerated.Entry.LocalID != added.Entry.LocalID || rerated.Entry.Rating != media.RatingDown {
		t.Fatalf("expected the existing entry to be rated, got %+v", rerated)
	}

	if w = h.do(http.MethodPost, "/api/collection", httpapi.AddRequest{Result: series}); w.Code != http.StatusCreated {
		t.Fatalf("expected 201 for series, got %d", w.Code)
	}

	w = h.do(http.MethodPost, "/api/collection", httpapi.AddRequest{Result: movie})
	if kept := decode[httpapi.EntryResponse](t, w); w.Code != http.StatusOK || kept.Entry.Rating != media.RatingDown {
		t.Fatalf("expected a re-add without rating to keep the rating, got %d %+v", w.Code, kept)
	}

	health := decode[httpapi.HealthResponse](t, h.do(http.MethodGet, "/health", nil))
	if want := (view.Stats{Total: 2, Movies: 1, Series: 1, NotForMe: 1, Unrated: 1}); health.Stats != want {
		t.Fatalf("health stats = %+v, want %+v", health.Stats, want)
	}

	w = h.do(http.MethodGet, "/api/collection?type=series", nil)
	list := decode[httpapi.CollectionResponse](t, w)
	if list.Count != 1 || list.Total != 2 || list.Entries[0].Title != "Stranger Things" {
		t.Fatalf("unexpected filtered list %+v", list)
	}

	if w = h.do(http.MethodGet, "/api/collection?rating=none", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for rating=none, got %d", w.Code)
	}

	target := "/api/collection/" + added.Entry.LocalID
	w = h.do(http.MethodPatch, target, httpapi.RatingRequest{Rating: "down", Toggle: true})
	toggled := decode[httpapi.EntryResponse](t, w)
	if w.Code != http.StatusOK || toggled.Entry.Rating != media.RatingNone {
		t.Fatalf("expected toggle to clear the rating, got %d %+v", w.Code, toggled)
	}

	if w = h.do(http.MethodPatch, "/api/collection/missing", httpapi.RatingRequest{Rating: "up"}); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown entry, got %d", w.Code)
	}
	if w = h.do(http.MethodPatch, target, httpapi.RatingRequest{Rating: "great"}); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad rating, got %d", w.Code)
	}

	if w = h.do(http.MethodDelete, target, nil); w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if w = h.do(http.MethodDelete, target, nil); w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for repeat delete, got %d", w.Code)
	}
	if w = h.do(http.MethodGet, target, nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected deleted entry to be gone, got %d", w.Code)
	}
}

func TestExportAndImport(t *testing.T) {
	source := newHarness(t, nil)
	source.do(http.MethodPost, "/api/collection", httpapi.AddRequest{Result: testsupport.Result(1, "Heat", media.KindMovie), Rating: "up"})

	w := source.do(http.MethodGet, "/api/export/csv", nil)
	if w.Code != http.StatusOK || !strings.HasPrefix(w.Header().Get("Content-Type"), "text/csv") {
		t.Fatalf("unexpected csv export %d %q", w.Code, w.Header().Get("Content-Type"))
	}
	if !strings.Contains(w.Header().Get("Content-Disposition"), "nextflix-collection-2024-03-15.csv") {
		t.Fatalf("unexpected disposition %q", w.Header().Get("Content-Disposition"))
	}

	if w = source.do(http.MethodGet, "/api/export/xml", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown format, got %d", w.Code)
	}

	w = source.do(http.MethodGet, "/api/export/json", nil)
	payload := w.Body.Bytes()

	target := newHarness(t, nil)
	w = target.do(http.MethodPost, "/api/import", payload)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on import, got %d: %s", w.Code, w.Body.String())
	}
	if report := decode[httpapi.ImportResponse](t, w); report.Added != 1 {
		t.Fatalf("unexpected import report %+v", report)
	}
	if w = target.do(http.MethodPost, "/api/import", []byte("nope")); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed import, got %d", w.Code)
	}
}

func TestContentFilterSetting(t *testing.T) {
	h := newHarness(t, nil)
	w := h.do(http.MethodGet, "/api/settings/content-filter", nil)
	if got := decode[httpapi.ContentFilterPayload](t, w); !got.Enabled {
		t.Fatal("expected the filter to default on")
	}
	w = h.do(http.MethodPut, "/api/settings/content-filter", httpapi.ContentFilterPayload{Enabled: false})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if h.engine.ContentFilterEnabled() {
		t.Fatal("expected the engine filter to be off")
	}
	if w = h.do(http.MethodPut, "/api/settings/content-filter", []byte(`{"on":true}`)); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d", w.Code)
	}
}

func TestBearerTokenGuardsAPI(t *testing.T) {
	h := newHarness(t, testsupport.NewConfig(t, testsupport.WithAPIToken("s3cret")))

	if w := h.do(http.MethodGet, "/api/collection", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}
	if w := h.do(http.MethodGet, "/api/collection", nil, "Authorization", "Bearer wrong"); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with wrong token, got %d", w.Code)
	}
	if w := h.do(http.MethodGet, "/api/collection", nil, "Authorization", "Bearer s3cret"); w.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", w.Code)
	}
	if w := h.do(http.MethodGet, "/health", nil); w.Code != http.StatusOK {
		t.Fatalf("expected health to stay open, got %d", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := newHarness(t, nil)
	h.do(http.MethodGet, "/health", nil)
	w := h.do(http.MethodGet, "/metrics", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "nextflix_") {
		t.Fatalf("unexpected metrics response %d", w.Code)
	}
}

func TestServerStartAndStop(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	eng, err := engine.Open(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("engine.Open: %v", err)
	}
	defer eng.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	srv := httpapi.New(cfg, eng, nil)
	if err := srv.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	resp, err := http.Get("http://" + srv.Addr() + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	srv.Stop()
}
