// Package identity decides whether a search result or an opened detail view
// already exists in the collection.
//
// Provider ids are authoritative and never combined with title matching, so
// two works that share a title cannot be confused. Local ids re-resolve an
// entry the caller already holds. Title matching survives only as FindLegacy,
// used when merging imported data that predates provider ids.
package identity

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/baliomega/nextflix/internal/media"
)

// Key is the identity-relevant view of a collection entry.
type Key struct {
	ProviderID int64
	LocalID    string
	Title      string
	Kind       media.Kind
}

// Keyed is implemented by collection entries.
type Keyed interface {
	IdentityKey() Key
}

// Candidate describes what the caller is looking for. Zero fields are absent.
type Candidate struct {
	ProviderID int64
	LocalID    string
	Title      string
	Kind       media.Kind
}

// FindExisting returns the index of the matching entry, or -1.
//
// A present ProviderID is the only key consulted. Otherwise a present LocalID
// is matched. Otherwise nothing matches.
func FindExisting[E Keyed](entries []E, candidate Candidate) int {
	switch {
	case candidate.ProviderID > 0:
		for i, e := range entries {
			if e.IdentityKey().ProviderID == candidate.ProviderID {
				return i
			}
		}
	case strings.TrimSpace(candidate.LocalID) != "":
		id := strings.TrimSpace(candidate.LocalID)
		for i, e := range entries {
			if e.IdentityKey().LocalID == id {
				return i
			}
		}
	}
	return -1
}

// FindLegacy matches a case-insensitive title and kind among entries that lack
// a provider id. It returns -1 when nothing matches.
func FindLegacy[E Keyed](entries []E, title string, kind media.Kind) int {
	want := fold(title)
	if want == "" {
		return -1
	}
	for i, e := range entries {
		key := e.IdentityKey()
		if key.ProviderID > 0 || key.Kind != kind {
			continue
		}
		if fold(key.Title) == want {
			return i
		}
	}
	return -1
}

func fold(value string) string {
	return cases.Fold().String(strings.TrimSpace(value))
}
