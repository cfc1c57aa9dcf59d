package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/baliomega/nextflix/internal/engine"
	"github.com/baliomega/nextflix/internal/export"
	"github.com/baliomega/nextflix/internal/logging"
	"github.com/baliomega/nextflix/internal/media"
	"github.com/baliomega/nextflix/internal/search"
	"github.com/baliomega/nextflix/internal/services"
)

const maxImportBytes = 16 << 20

const unavailableNotice = "Search is unavailable right now; try again shortly."

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	st, err := s.engine.Status(r.Context())
	if err != nil {
		s.writeFailure(w, r, "health", err)
		return
	}
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:        "ok",
		Provider:      st.Provider,
		Offline:       st.Offline,
		Breaker:       st.Breaker,
		Storage:       st.Storage,
		Entries:       st.Entries,
		Stats:         st.Stats,
		ContentFilter: st.ContentFilter,
		LastAdded:     st.LastAdded,
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	resp := SearchResponse{Query: query, Results: []media.Result{}}
	if query == "" {
		s.writeJSON(w, http.StatusOK, resp)
		return
	}

	session := strings.TrimSpace(r.Header.Get(SessionHeader))
	var (
		results []media.Result
		err     error
	)
	if s.debouncer != nil && session != "" {
		results, err = s.debouncer.Do(r.Context(), session, query, s.engine.Search)
	} else {
		results, err = s.engine.Search(r.Context(), query)
	}

	switch {
	case errors.Is(err, search.ErrSuperseded):
		// 409 tells the client a newer query from the same session won.
		s.writeError(w, http.StatusConflict, "superseded by a newer search", "")
		return
	case engine.IsUnavailable(err):
		resp.Notice = unavailableNotice
	case err != nil:
		s.writeFailure(w, r, "search", err)
		return
	default:
		resp.Results = results
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListCollection(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts, err := s.engine.ParseView(q.Get("type"), q.Get("rating"), q.Get("search"), q.Get("sort"))
	if err != nil {
		s.writeFailure(w, r, "list collection", err)
		return
	}
	entries := s.engine.Project(opts)
	s.writeJSON(w, http.StatusOK, CollectionResponse{
		Entries: entries,
		Count:   len(entries),
		Total:   len(s.engine.Entries()),
	})
}

func (s *Server) handleAddEntry(w http.ResponseWriter, r *http.Request) {
	var req AddRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeFailure(w, r, "add entry", err)
		return
	}
	rating, err := engine.ResolveRating(req.Rating)
	if err != nil {
		s.writeFailure(w, r, "add entry", err)
		return
	}
	entry, created, err := s.engine.AddOrRate(r.Context(), req.Result, rating)
	if err != nil {
		s.writeFailure(w, r, "add entry", err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	s.writeJSON(w, status, EntryResponse{Entry: entry, Created: created})
}

func (s *Server) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	entry, ok := s.engine.Entry(id)
	if !ok {
		s.writeError(w, http.StatusNotFound, "entry not found", "")
		return
	}
	s.writeJSON(w, http.StatusOK, EntryResponse{Entry: entry})
}

func (s *Server) handleRateEntry(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	ctx := services.WithEntryID(r.Context(), id)

	var req RatingRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeFailure(w, r, "rate entry", err)
		return
	}
	rating, err := engine.ResolveRating(req.Rating)
	if err != nil {
		s.writeFailure(w, r, "rate entry", err)
		return
	}

	rate := s.engine.UpdateRating
	if req.Toggle {
		rate = s.engine.ToggleRating
	}
	entry, found, err := rate(ctx, id, rating)
	if err != nil {
		s.writeFailure(w, r, "rate entry", err)
		return
	}
	if !found {
		s.writeError(w, http.StatusNotFound, "entry not found", "")
		return
	}
	s.writeJSON(w, http.StatusOK, EntryResponse{Entry: entry})
}

// handleDeleteEntry answers 204 whether or not the entry existed.
func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	ctx := services.WithEntryID(r.Context(), id)
	removed, err := s.engine.Delete(ctx, id)
	if err != nil {
		s.writeFailure(w, r, "delete entry", err)
		return
	}
	if !removed {
		logging.WithContext(ctx, s.logger).Debug("delete ignored for unknown entry")
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(mux.Vars(r)["format"])
	if err != nil {
		s.writeFailure(w, r, "export", err)
		return
	}
	payload, err := s.engine.Export(format)
	if err != nil {
		s.writeFailure(w, r, "export", err)
		return
	}
	name := export.FileName(format, s.engine.Now())
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(payload); err != nil {
		s.logger.Warn("export response truncated", logging.Error(err))
	}
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		s.writeFailure(w, r, "import", services.Wrap(services.ErrValidation, "api-server", "import", "read body", err))
		return
	}
	report, err := s.engine.Import(r.Context(), data)
	if err != nil {
		if errors.Is(err, services.ErrMalformedData) {
			err = services.Wrap(services.ErrValidation, "api-server", "import", "body is not a NextFlix export", err)
		}
		s.writeFailure(w, r, "import", err)
		return
	}
	s.writeJSON(w, http.StatusOK, ImportResponse{
		Added:     report.Added,
		Updated:   report.Updated,
		Unchanged: report.Unchanged,
		Skipped:   report.Skipped,
	})
}

func (s *Server) handleGetContentFilter(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, ContentFilterPayload{Enabled: s.engine.ContentFilterEnabled()})
}

func (s *Server) handlePutContentFilter(w http.ResponseWriter, r *http.Request) {
	var req ContentFilterPayload
	if err := decodeBody(r, &req); err != nil {
		s.writeFailure(w, r, "content filter", err)
		return
	}
	if err := s.engine.SetContentFilter(r.Context(), req.Enabled); err != nil {
		s.writeFailure(w, r, "content filter", err)
		return
	}
	s.writeJSON(w, http.StatusOK, ContentFilterPayload{Enabled: s.engine.ContentFilterEnabled()})
}
