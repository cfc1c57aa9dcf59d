package collection

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/baliomega/nextflix/internal/kvstore"
	"github.com/baliomega/nextflix/internal/logging"
	"github.com/baliomega/nextflix/internal/media"
	"github.com/baliomega/nextflix/internal/services"
)

// corruptKeyPrefix names the key that keeps an unreadable payload.
const corruptKeyPrefix = kvstore.KeyCollection + ".corrupt."

// LoadReport describes what Load found and repaired.
type LoadReport struct {
	Entries int
	// Malformed is set when the stored payload could not be decoded. The
	// collection then starts empty and the raw payload is kept under
	// PreservedKey.
	Malformed      bool
	PreservedKey   string
	ClearedRatings int
	RepairedKinds  int
	AssignedIDs    int
	Dropped        int
}

// Repaired reports whether Load changed any stored entry.
func (r LoadReport) Repaired() bool {
	return r.ClearedRatings+r.RepairedKinds+r.AssignedIDs+r.Dropped > 0
}

// Load reads the persisted collection, content-filter flag, and last-added
// marker, then marks the store loaded so later mutations persist.
//
// An undecodable collection payload is not fatal: it is copied to a
// timestamped recovery key, logged, and replaced by an empty collection.
func (s *Store) Load(ctx context.Context) (LoadReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var report LoadReport
	raw, ok, err := s.kv.Get(ctx, kvstore.KeyCollection)
	if err != nil {
		return report, services.Wrap(services.ErrStorage, "collection", "load", "read collection", err)
	}

	entries := []Entry{}
	if ok && strings.TrimSpace(raw) != "" {
		decoded, decodeErr := decodeEntries(raw)
		if decodeErr != nil {
			key := corruptKeyPrefix + strconv.FormatInt(s.now().Unix(), 10)
			if err := s.kv.Set(ctx, key, raw); err != nil {
				return report, services.Wrap(services.ErrStorage, "collection", "load", "preserve malformed payload", err)
			}
			report.Malformed = true
			report.PreservedKey = key
			logging.WarnWithContext(s.logger, "stored collection is unreadable; starting empty", "collection_malformed",
				logging.String("preserved_key", key),
				logging.Int("bytes", len(raw)),
				logging.Error(decodeErr),
				logging.String(logging.FieldErrorHint, "inspect the preserved payload and re-import it with nextflix import"),
				logging.String(logging.FieldImpact, "collection shown empty until restored"),
			)
		} else {
			entries = s.repair(decoded, &report)
		}
	}

	if value, ok, err := s.kv.Get(ctx, kvstore.KeyContentFilter); err != nil {
		return report, services.Wrap(services.ErrStorage, "collection", "load", "read content filter flag", err)
	} else if ok {
		if enabled, parseErr := strconv.ParseBool(strings.TrimSpace(value)); parseErr == nil {
			s.filterEnabled = enabled
		}
	}

	if value, ok, err := s.kv.Get(ctx, kvstore.KeyLastAdded); err != nil {
		return report, services.Wrap(services.ErrStorage, "collection", "load", "read last-added marker", err)
	} else if ok {
		if ts, parseErr := time.Parse(time.RFC3339, strings.TrimSpace(value)); parseErr == nil {
			s.lastAdded = ts
		}
	}

	s.entries = entries
	s.loaded = true
	report.Entries = len(entries)
	s.metrics.SetCollectionSize(len(entries))

	if report.Repaired() {
		logging.WarnWithContext(s.logger, "repaired stored entries", "collection_repaired",
			logging.Int("cleared_ratings", report.ClearedRatings),
			logging.Int("repaired_kinds", report.RepairedKinds),
			logging.Int("assigned_ids", report.AssignedIDs),
			logging.Int("dropped", report.Dropped),
			logging.String(logging.FieldErrorHint, "repairs are saved with the next change"),
			logging.String(logging.FieldImpact, "some ratings or kinds were reset"),
		)
	}
	s.logger.Debug("collection loaded",
		logging.Int("entries", len(entries)),
		logging.Bool("content_filter", s.filterEnabled),
	)
	return report, nil
}

func decodeEntries(raw string) ([]Entry, error) {
	var entries []Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("decode collection: %w", err)
	}
	return entries, nil
}

// repair enforces entry invariants on loaded data: a non-empty title, a known
// kind, a valid or absent rating, and unique local ids.
func (s *Store) repair(entries []Entry, report *LoadReport) []Entry {
	out := make([]Entry, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		e.Title = strings.TrimSpace(e.Title)
		if e.Title == "" {
			report.Dropped++
			continue
		}
		if kind, err := media.ParseKind(string(e.Kind)); err != nil {
			e.Kind = media.KindMovie
			report.RepairedKinds++
		} else if kind != e.Kind {
			e.Kind = kind
			report.RepairedKinds++
		}
		if !e.Rating.Valid() {
			logging.WarnWithContext(s.logger, "cleared unknown rating", "collection_rating_cleared",
				logging.EntryID(e.LocalID),
				logging.String("rating", string(e.Rating)),
				logging.String(logging.FieldImpact, "entry shown as unrated"),
			)
			e.Rating = media.RatingNone
			report.ClearedRatings++
		}
		if _, dup := seen[e.LocalID]; dup || e.LocalID == "" {
			e.LocalID = s.newID()
			report.AssignedIDs++
		}
		seen[e.LocalID] = struct{}{}
		out = append(out, e)
	}
	return out
}
