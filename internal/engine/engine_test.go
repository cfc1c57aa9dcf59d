package engine_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/baliomega/nextflix/internal/engine"
	"github.com/baliomega/nextflix/internal/export"
	"github.com/baliomega/nextflix/internal/kvstore"
	"github.com/baliomega/nextflix/internal/media"
	"github.com/baliomega/nextflix/internal/services"
	"github.com/baliomega/nextflix/internal/testsupport"
	"github.com/baliomega/nextflix/internal/view"
)

func openEngine(t *testing.T, opts ...engine.Option) *engine.Engine {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	all := append([]engine.Option{
		engine.WithClock(testsupport.FixedClock()),
		engine.WithIDGenerator(testsupport.SequentialIDs()),
	}, opts...)
	e, err := engine.Open(context.Background(), cfg, nil, all...)
	if err != nil {
		t.Fatalf("engine.Open: %v", err)
	}
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func TestOfflineSearchAndAddOrRate(t *testing.T) {
	e := openEngine(t)
	ctx := context.Background()

	results, err := e.Search(ctx, "inception")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].ProviderID != 27205 {
		t.Fatalf("unexpected results %+v", results)
	}
	if results[0].Director != "Christopher Nolan" {
		t.Fatalf("expected enriched director, got %q", results[0].Director)
	}

	entry, created, err := e.AddOrRate(ctx, results[0], media.RatingUp)
	if err != nil || !created {
		t.Fatalf("first AddOrRate created=%v err=%v", created, err)
	}
	again, created, err := e.AddOrRate(ctx, results[0], media.RatingLove)
	if err != nil {
		t.Fatalf("second AddOrRate: %v", err)
	}
	if created {
		t.Fatal("expected the second call to rate the existing entry")
	}
	if again.LocalID != entry.LocalID || again.Rating != media.RatingLove {
		t.Fatalf("unexpected entry %+v", again)
	}
	if got := len(e.Entries()); got != 1 {
		t.Fatalf("expected one entry, got %d", got)
	}
	if _, ok := e.FindExisting(results[0]); !ok {
		t.Fatal("expected FindExisting to match the stored entry")
	}
}

func TestAddOrRateWithoutRatingKeepsExistingRating(t *testing.T) {
	e := openEngine(t)
	ctx := context.Background()
	heat := testsupport.Result(949, "Heat", media.KindMovie)

	first, _, err := e.AddOrRate(ctx, heat, media.RatingLove)
	if err != nil {
		t.Fatalf("AddOrRate love: %v", err)
	}
	again, created, err := e.AddOrRate(ctx, heat, media.RatingNone)
	if err != nil {
		t.Fatalf("AddOrRate none: %v", err)
	}
	if created {
		t.Fatal("expected the stored entry to be reused")
	}
	if again.LocalID != first.LocalID || again.Rating != media.RatingLove {
		t.Fatalf("expected Heat to stay loved, got %+v", again)
	}
	stored, ok := e.Entry(first.LocalID)
	if !ok || stored.Rating != media.RatingLove {
		t.Fatalf("expected stored rating love, got %+v (found=%v)", stored, ok)
	}

	cleared, _, err := e.UpdateRating(ctx, first.LocalID, media.RatingNone)
	if err != nil || cleared.Rating != media.RatingNone {
		t.Fatalf("UpdateRating none = %+v, %v", cleared, err)
	}
}

func TestSearchUnavailableReturnsEmptyList(t *testing.T) {
	fake := testsupport.NewFakeProvider()
	fake.PageErrors[1] = services.Wrap(services.ErrProviderUnavailable, "fake", "search", "down", nil)
	e := openEngine(t, engine.WithProvider(fake))

	results, err := e.Search(context.Background(), "anything")
	if !engine.IsUnavailable(err) {
		t.Fatalf("expected provider unavailable, got %v", err)
	}
	if results == nil || len(results) != 0 {
		t.Fatalf("expected empty non-nil results, got %#v", results)
	}
}

func TestRatingAndDeleteOnUnknownIDAreNoOps(t *testing.T) {
	e := openEngine(t)
	ctx := context.Background()

	if _, found, err := e.UpdateRating(ctx, "missing", media.RatingUp); err != nil || found {
		t.Fatalf("UpdateRating found=%v err=%v", found, err)
	}
	if _, found, err := e.ToggleRating(ctx, "missing", media.RatingUp); err != nil || found {
		t.Fatalf("ToggleRating found=%v err=%v", found, err)
	}
	if removed, err := e.Delete(ctx, "missing"); err != nil || removed {
		t.Fatalf("Delete removed=%v err=%v", removed, err)
	}
}

func TestToggleRatingClearsSameRating(t *testing.T) {
	e := openEngine(t)
	ctx := context.Background()

	entry, err := e.Add(ctx, testsupport.Result(1, "Heat", media.KindMovie), media.RatingLove)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	toggled, found, err := e.ToggleRating(ctx, entry.LocalID, media.RatingLove)
	if err != nil || !found {
		t.Fatalf("ToggleRating found=%v err=%v", found, err)
	}
	if toggled.Rating != media.RatingNone {
		t.Fatalf("expected cleared rating, got %q", toggled.Rating)
	}
}

func TestProjectUsesConfiguredDefaults(t *testing.T) {
	e := openEngine(t)
	ctx := context.Background()
	for i, title := range []string{"Zodiac", "Arrival", "Memento"} {
		if _, err := e.Add(ctx, testsupport.Result(int64(i+1), title, media.KindMovie), media.RatingNone); err != nil {
			t.Fatalf("Add %s: %v", title, err)
		}
	}

	opts, err := e.ParseView("", "", "", "title")
	if err != nil {
		t.Fatalf("ParseView: %v", err)
	}
	got := e.Project(opts)
	if len(got) != 3 || got[0].Title != "Arrival" || got[2].Title != "Zodiac" {
		t.Fatalf("unexpected order %+v", got)
	}

	opts, err = e.ParseView("", "", "", "")
	if err != nil {
		t.Fatalf("ParseView default: %v", err)
	}
	if opts.Sort != view.SortDateWatched {
		t.Fatalf("expected default sort, got %q", opts.Sort)
	}
	if _, err := e.ParseView("", "none", "", ""); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestWriteExportsAndImportRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	source := openEngine(t, engine.WithFs(fs))
	ctx := context.Background()

	if _, err := source.Add(ctx, testsupport.Result(10, "Arrival", media.KindMovie), media.RatingLove); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := source.Add(ctx, testsupport.Result(20, "Severance", media.KindSeries), media.RatingNone); err != nil {
		t.Fatalf("Add: %v", err)
	}

	paths, err := source.WriteExports()
	if err != nil {
		t.Fatalf("WriteExports: %v", err)
	}
	if len(paths) != len(export.Formats) {
		t.Fatalf("expected %d files, got %v", len(export.Formats), paths)
	}
	var jsonPath string
	for _, p := range paths {
		if !strings.HasPrefix(filepath.Base(p), "nextflix-collection-2024-03-15.") {
			t.Fatalf("unexpected file name %s", p)
		}
		if filepath.Ext(p) == ".json" {
			jsonPath = p
		}
	}

	target := openEngine(t, engine.WithFs(fs))
	report, err := target.ImportFile(ctx, jsonPath)
	if err != nil {
		t.Fatalf("ImportFile: %v", err)
	}
	if report.Added != 2 {
		t.Fatalf("expected two added entries, got %+v", report)
	}
	got := target.Entries()
	if len(got) != 2 || got[0].Title != "Severance" || got[1].Rating != media.RatingLove {
		t.Fatalf("unexpected imported entries %+v", got)
	}

	if _, err := target.Import(ctx, []byte("{not json")); !errors.Is(err, services.ErrMalformedData) {
		t.Fatalf("expected malformed data, got %v", err)
	}
	if _, err := target.ImportFile(ctx, "/nowhere.json"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestExportRenderers(t *testing.T) {
	e := openEngine(t)
	if _, err := e.Add(context.Background(), testsupport.Result(1, "Heat", media.KindMovie), media.RatingUp); err != nil {
		t.Fatalf("Add: %v", err)
	}
	csv, err := e.ExportCSV()
	if err != nil || !strings.Contains(string(csv), "Heat") {
		t.Fatalf("ExportCSV err=%v payload=%s", err, csv)
	}
	doc, err := e.ExportJSON()
	if err != nil || !strings.Contains(string(doc), `"count": 1`) {
		t.Fatalf("ExportJSON err=%v payload=%s", err, doc)
	}
	if text := e.ExportTXT(); !strings.Contains(string(text), "[MOVIE] Heat") {
		t.Fatalf("ExportTXT payload=%s", text)
	}
}

func TestContentFilterPersists(t *testing.T) {
	store := kvstore.NewMemory()
	cfg := testsupport.NewConfig(t)
	ctx := context.Background()

	first, err := engine.Open(ctx, cfg, nil, engine.WithStore(store))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !first.ContentFilterEnabled() {
		t.Fatal("expected the filter to default on")
	}
	if err := first.SetContentFilter(ctx, false); err != nil {
		t.Fatalf("SetContentFilter: %v", err)
	}

	second, err := engine.Open(ctx, cfg, nil, engine.WithStore(store))
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if second.ContentFilterEnabled() {
		t.Fatal("expected the persisted filter state to be off")
	}
}

func TestPersistentBackendTakesDirectoryLock(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithBackend(kvstore.BackendFile))
	ctx := context.Background()

	first, err := engine.Open(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := engine.Open(ctx, cfg, nil); !errors.Is(err, services.ErrStorage) {
		t.Fatalf("expected the second open to fail on the lock, got %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	second, err := engine.Open(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("Open after close: %v", err)
	}
	_ = second.Close()
}

func TestStatus(t *testing.T) {
	e := openEngine(t)
	if _, err := e.Add(context.Background(), testsupport.Result(1, "Heat", media.KindMovie), media.RatingNone); err != nil {
		t.Fatalf("Add: %v", err)
	}
	st, err := e.Status(context.Background())
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st.Provider != "offline" || !st.Offline {
		t.Fatalf("expected offline provider, got %+v", st)
	}
	if st.Entries != 1 || st.LastAdded.IsZero() {
		t.Fatalf("unexpected status %+v", st)
	}
	if want := (view.Stats{Total: 1, Movies: 1, Unrated: 1}); st.Stats != want {
		t.Fatalf("stats = %+v, want %+v", st.Stats, want)
	}
	if st.Breaker != "closed" {
		t.Fatalf("expected closed breaker, got %q", st.Breaker)
	}
	if len(st.Keys) == 0 {
		t.Fatal("expected the memory store to describe its keys")
	}
}
