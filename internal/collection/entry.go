package collection

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/baliomega/nextflix/internal/identity"
	"github.com/baliomega/nextflix/internal/media"
)

// DateLayout is the format of Entry.DateAdded.
const DateLayout = "2006-01-02"

// Entry is one watched title.
type Entry struct {
	LocalID        string       `json:"id"`
	ProviderID     int64        `json:"tmdb_id,omitempty"`
	Title          string       `json:"title"`
	Kind           media.Kind   `json:"type"`
	PosterPath     string       `json:"poster"`
	BackdropPath   string       `json:"backdrop"`
	Overview       string       `json:"overview"`
	ReleaseDate    string       `json:"releaseDate"`
	Rating         media.Rating `json:"rating"`
	DateAdded      string       `json:"dateWatched"`
	ProviderRating float64      `json:"tmdbRating"`
	Cast           []string     `json:"cast"`
	Director       string       `json:"director"`
	Genres         []string     `json:"genres"`
}

// IdentityKey exposes the fields the identity resolver matches on.
func (e Entry) IdentityKey() identity.Key {
	return identity.Key{
		ProviderID: e.ProviderID,
		LocalID:    e.LocalID,
		Title:      e.Title,
		Kind:       e.Kind,
	}
}

// Year returns the release year or an empty string.
func (e Entry) Year() string {
	return media.Year(e.ReleaseDate)
}

// Clone returns a copy that shares no slices with e.
func (e Entry) Clone() Entry {
	e.Cast = slices.Clone(e.Cast)
	e.Genres = slices.Clone(e.Genres)
	return e
}

// UnmarshalJSON accepts legacy numeric ids.
func (e *Entry) UnmarshalJSON(data []byte) error {
	type plain Entry
	var raw struct {
		plain
		ID         json.RawMessage `json:"id"`
		ProviderID json.RawMessage `json:"tmdb_id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	id, err := decodeID(raw.ID)
	if err != nil {
		return fmt.Errorf("entry id: %w", err)
	}
	providerID, err := decodeProviderID(raw.ProviderID)
	if err != nil {
		return fmt.Errorf("entry tmdb_id: %w", err)
	}
	*e = Entry(raw.plain)
	e.LocalID = id
	e.ProviderID = providerID
	return nil
}

func decodeID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return strings.TrimSpace(s), nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}

// maxExactFloatID bounds the integers a float64 spelling can carry unambiguously.
const maxExactFloatID = 1 << 53

// decodeProviderID accepts a positive integer written as a number or string.
// Legacy float spellings ("27205.0") pass only when integral and exact.
func decodeProviderID(raw json.RawMessage) (int64, error) {
	id, err := decodeID(raw)
	if err != nil || id == "" {
		return 0, err
	}
	value, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(id, 64)
		if ferr != nil || f != math.Trunc(f) || math.Abs(f) >= maxExactFloatID {
			return 0, fmt.Errorf("%q is not an integer id", id)
		}
		value = int64(f)
	}
	if value < 0 {
		return 0, fmt.Errorf("%q is negative", id)
	}
	return value, nil
}
