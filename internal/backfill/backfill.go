// Package backfill derives best-effort genres, cast, and director for entries
// saved before those fields existed.
//
// Everything here is a pure function of an entry's title and overview over
// fixed tables. The package never calls the provider; the collection store
// reaches it only through the Backfiller interface so a smarter source can
// replace the heuristic later.
package backfill

import (
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"

	"github.com/baliomega/nextflix/internal/media"
)

// Fields is the text a heuristic may inspect.
type Fields struct {
	Title    string
	Overview string
	Kind     media.Kind
}

// Suggestion holds derived values. Empty fields mean "nothing known".
type Suggestion struct {
	Genres   []string
	Cast     []string
	Director string
}

// Backfiller suggests values for missing entry fields. Implementations must
// be deterministic so repeated passes converge.
type Backfiller interface {
	Suggest(Fields) Suggestion
}

// Heuristic is the table-driven Backfiller.
type Heuristic struct{}

var _ Backfiller = Heuristic{}

// New returns the table-driven backfiller.
func New() Heuristic {
	return Heuristic{}
}

// Suggest looks the title up in the known-titles table and scans the title
// and overview for genre keywords. Known-title genres come first; keyword
// genres follow in table order without duplicates.
func (Heuristic) Suggest(f Fields) Suggestion {
	var s Suggestion
	if known, ok := knownTitles[normalizeText(f.Title)]; ok && (known.kind == "" || known.kind == f.Kind) {
		s.Cast = append([]string{}, known.cast...)
		s.Director = known.director
		s.Genres = append(s.Genres, known.genres...)
	}

	text := " " + normalizeText(f.Title+" "+f.Overview) + " "
	for _, rule := range genreRules {
		if !rule.matches(text) {
			continue
		}
		name := rule.movie
		if f.Kind == media.KindSeries && rule.series != "" {
			name = rule.series
		}
		if !contains(s.Genres, name) {
			s.Genres = append(s.Genres, name)
		}
	}
	return s
}

var nonWord = regexp.MustCompile(`[^a-z0-9]+`)

// normalizeText folds accents and case and collapses punctuation to spaces.
func normalizeText(value string) string {
	folded := strings.ToLower(unidecode.Unidecode(value))
	return strings.TrimSpace(nonWord.ReplaceAllString(folded, " "))
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
