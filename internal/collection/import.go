package collection

import (
	"context"
	"slices"
	"strings"

	"github.com/baliomega/nextflix/internal/identity"
	"github.com/baliomega/nextflix/internal/logging"
	"github.com/baliomega/nextflix/internal/media"
)

// ImportReport summarizes an Import.
type ImportReport struct {
	Added     int
	Updated   int
	Unchanged int
	Skipped   int
}

// Import merges entries, typically read back from a structured export.
//
// Each imported entry is matched by identity first (provider id, else local
// id). Failing that, an existing entry without a provider id may match by
// title and kind. A matched entry keeps its local id and date added, adopts
// the imported rating when one is set, and gains the imported provider id if
// it had none. Unmatched entries are appended in import order.
func (s *Store) Import(ctx context.Context, imported []Entry) (ImportReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var report ImportReport
	today := s.now().Format(DateLayout)
	merged := slices.Clone(s.entries)
	var appended []Entry

	for _, in := range imported {
		in = in.Clone()
		in.Title = strings.TrimSpace(in.Title)
		if in.Title == "" {
			report.Skipped++
			continue
		}
		kind, err := media.ParseKind(string(in.Kind))
		if err != nil {
			report.Skipped++
			continue
		}
		in.Kind = kind
		if !in.Rating.Valid() {
			in.Rating = media.RatingNone
		}

		candidate := identity.Candidate{ProviderID: in.ProviderID, LocalID: in.LocalID}
		idx := identity.FindExisting(merged, candidate)
		if idx < 0 {
			idx = identity.FindLegacy(merged, in.Title, in.Kind)
		}
		if idx >= 0 {
			if mergeInto(&merged[idx], in) {
				report.Updated++
			} else {
				report.Unchanged++
			}
			continue
		}
		// Repeated rows within one import collapse onto the first.
		if in.ProviderID > 0 {
			if j := identity.FindExisting(appended, identity.Candidate{ProviderID: in.ProviderID}); j >= 0 {
				mergeInto(&appended[j], in)
				report.Skipped++
				continue
			}
		}

		if in.LocalID == "" || s.hasLocalIDLocked(in.LocalID) || containsLocalID(appended, in.LocalID) {
			in.LocalID = s.newID()
		}
		if in.DateAdded == "" {
			in.DateAdded = today
		}
		if in.Cast == nil {
			in.Cast = []string{}
		}
		appended = append(appended, in)
		report.Added++
	}

	if err := s.commitLocked(ctx, append(merged, appended...)); err != nil {
		return ImportReport{}, err
	}
	s.metrics.CountMutation("import")
	s.logger.Info("import merged",
		logging.Int("added", report.Added),
		logging.Int("updated", report.Updated),
		logging.Int("unchanged", report.Unchanged),
		logging.Int("skipped", report.Skipped),
	)
	return report, nil
}

func mergeInto(existing *Entry, in Entry) bool {
	changed := false
	if in.Rating != media.RatingNone && existing.Rating != in.Rating {
		existing.Rating = in.Rating
		changed = true
	}
	if existing.ProviderID == 0 && in.ProviderID > 0 {
		existing.ProviderID = in.ProviderID
		changed = true
	}
	return changed
}

func (s *Store) hasLocalIDLocked(id string) bool {
	return identity.FindExisting(s.entries, identity.Candidate{LocalID: id}) >= 0
}

func containsLocalID(entries []Entry, id string) bool {
	return identity.FindExisting(entries, identity.Candidate{LocalID: id}) >= 0
}
