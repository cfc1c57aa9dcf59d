package media

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Kind identifies whether a title is a feature film or an episodic series.
type Kind string

const (
	KindMovie  Kind = "movie"
	KindSeries Kind = "series"
)

// ParseKind maps user input onto a Kind. Provider spellings ("tv") are accepted.
func ParseKind(value string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "movie", "movies", "film":
		return KindMovie, nil
	case "series", "tv", "show", "shows":
		return KindSeries, nil
	default:
		return "", fmt.Errorf("unknown media kind %q", value)
	}
}

// KindFromProvider converts a TMDB media_type into a Kind. Person and other
// result types report ok=false.
func KindFromProvider(mediaType string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(mediaType)) {
	case "movie":
		return KindMovie, true
	case "tv":
		return KindSeries, true
	default:
		return "", false
	}
}

// ProviderType returns the TMDB path segment for the kind.
func (k Kind) ProviderType() string {
	if k == KindSeries {
		return "tv"
	}
	return "movie"
}

// Label returns the upper-case badge used in listings.
func (k Kind) Label() string {
	if k == KindSeries {
		return "SERIES"
	}
	return "MOVIE"
}

// Valid reports whether k is one of the supported kinds.
func (k Kind) Valid() bool {
	return k == KindMovie || k == KindSeries
}

// Rating is the user's verdict on an entry. The zero value means unrated.
type Rating string

const (
	RatingNone Rating = ""
	RatingLove Rating = "love"
	RatingUp   Rating = "up"
	RatingDown Rating = "down"
)

// ParseRating maps user input onto a Rating. "none", "clear" and the empty
// string yield RatingNone.
func ParseRating(value string) (Rating, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "none", "clear", "null":
		return RatingNone, nil
	case "love", "loved":
		return RatingLove, nil
	case "up", "like", "liked":
		return RatingUp, nil
	case "down", "meh", "dislike":
		return RatingDown, nil
	default:
		return RatingNone, fmt.Errorf("unknown rating %q (want love, up, down or none)", value)
	}
}

// Valid reports whether r is unrated or one of the three verdicts.
func (r Rating) Valid() bool {
	switch r {
	case RatingNone, RatingLove, RatingUp, RatingDown:
		return true
	default:
		return false
	}
}

// Label returns a human readable form of the rating.
func (r Rating) Label() string {
	switch r {
	case RatingLove:
		return "Loved"
	case RatingUp:
		return "Liked"
	case RatingDown:
		return "Not for me"
	default:
		return "Unrated"
	}
}

// MarshalJSON writes null for an unrated entry.
func (r Rating) MarshalJSON() ([]byte, error) {
	if r == RatingNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(r))
}

// UnmarshalJSON accepts null or a string. Values outside the enum are kept
// verbatim so the collection loader can report and clear them.
func (r *Rating) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*r = RatingNone
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("rating: %w", err)
	}
	*r = Rating(raw)
	return nil
}

// Result is a single provider search hit after normalization. It is never
// persisted; adding it to the collection copies its fields into an entry.
type Result struct {
	ProviderID     int64    `json:"providerId"`
	Title          string   `json:"title"`
	Kind           Kind     `json:"kind"`
	PosterPath     string   `json:"posterPath,omitempty"`
	BackdropPath   string   `json:"backdropPath,omitempty"`
	Overview       string   `json:"overview"`
	ReleaseDate    string   `json:"releaseDate,omitempty"`
	ProviderRating float64  `json:"providerRating"`
	GenreIDs       []int    `json:"genreIds,omitempty"`
	Genres         []string `json:"genres"`
	Cast           []string `json:"cast"`
	Director       string   `json:"director,omitempty"`
	Enriched       bool     `json:"enriched"`
}

// HasImage reports whether the result carries at least one artwork reference.
func (r Result) HasImage() bool {
	return strings.TrimSpace(r.PosterPath) != "" || strings.TrimSpace(r.BackdropPath) != ""
}

// Year returns the four digit release year or an empty string.
func Year(date string) string {
	date = strings.TrimSpace(date)
	if len(date) < 4 {
		return ""
	}
	return date[:4]
}
