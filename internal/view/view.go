// Package view derives the filtered, searched, and sorted projection of the
// collection shown to the user.
package view

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/baliomega/nextflix/internal/collection"
	"github.com/baliomega/nextflix/internal/contentfilter"
	"github.com/baliomega/nextflix/internal/media"
	"github.com/baliomega/nextflix/internal/services"
)

// Sort keys.
const (
	SortDateWatched = "dateWatched"
	SortTitle       = "title"
	SortYear        = "year"
	SortRating      = "rating"
)

// FilterAll disables the type or rating filter.
const FilterAll = "all"

// Options selects a projection. Zero values mean "no filter" and the
// default dateWatched sort.
type Options struct {
	Type   string
	Rating string
	Search string
	Sort   string
	// Language tags the collation used by the title sort. Empty means English.
	Language string
	// Classifier overrides the default content classifier.
	Classifier contentfilter.Classifier
}

// ParseOptions validates user-supplied filter strings.
func ParseOptions(typeFilter, ratingFilter, search, sortKey string) (Options, error) {
	opts := Options{Search: strings.TrimSpace(search)}

	switch t := strings.TrimSpace(typeFilter); t {
	case "", FilterAll:
		opts.Type = FilterAll
	default:
		kind, err := media.ParseKind(t)
		if err != nil {
			return Options{}, services.Wrap(services.ErrValidation, "view", "parse options", err.Error(), nil)
		}
		opts.Type = string(kind)
	}

	switch r := strings.ToLower(strings.TrimSpace(ratingFilter)); r {
	case "", FilterAll:
		opts.Rating = FilterAll
	default:
		rating, err := media.ParseRating(r)
		if err != nil || rating == media.RatingNone {
			return Options{}, services.Wrap(services.ErrValidation, "view", "parse options",
				fmt.Sprintf("unknown rating filter %q (want all, love, up or down)", ratingFilter), nil)
		}
		opts.Rating = string(rating)
	}

	key, err := ParseSort(sortKey)
	if err != nil {
		return Options{}, err
	}
	opts.Sort = key
	return opts, nil
}

// ParseSort validates a sort key. Empty selects dateWatched.
func ParseSort(value string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "datewatched", "date", "added":
		return SortDateWatched, nil
	case "title", "name":
		return SortTitle, nil
	case "year", "released":
		return SortYear, nil
	case "rating", "score":
		return SortRating, nil
	default:
		return "", services.Wrap(services.ErrValidation, "view", "parse sort",
			fmt.Sprintf("unknown sort %q (want dateWatched, title, year or rating)", value), nil)
	}
}

// Project returns the entries passing every filter, sorted stably.
func Project(entries []collection.Entry, opts Options) []collection.Entry {
	classifier := opts.Classifier
	if classifier == nil {
		classifier = contentfilter.Default()
	}
	needle := fold(strings.TrimSpace(opts.Search))

	out := make([]collection.Entry, 0, len(entries))
	for _, e := range entries {
		if opts.Type != "" && opts.Type != FilterAll && string(e.Kind) != opts.Type {
			continue
		}
		if opts.Rating != "" && opts.Rating != FilterAll && string(e.Rating) != opts.Rating {
			continue
		}
		if needle != "" && !matchesSearch(e, needle) {
			continue
		}
		if !contentfilter.IsAppropriate(classifier, contentfilter.Candidate{Title: e.Title, Overview: e.Overview}, true) {
			continue
		}
		out = append(out, e)
	}

	sortEntries(out, opts.Sort, opts.Language)
	return out
}

func matchesSearch(e collection.Entry, needle string) bool {
	if strings.Contains(fold(e.Title), needle) || strings.Contains(fold(e.Overview), needle) {
		return true
	}
	for _, name := range e.Cast {
		if strings.Contains(fold(name), needle) {
			return true
		}
	}
	for _, genre := range e.Genres {
		if strings.Contains(fold(genre), needle) {
			return true
		}
	}
	return false
}

func sortEntries(entries []collection.Entry, key, lang string) {
	switch key {
	case SortTitle:
		tag := language.English
		if lang != "" {
			if parsed, err := language.Parse(lang); err == nil {
				tag = parsed
			}
		}
		c := collate.New(tag, collate.IgnoreCase)
		slices.SortStableFunc(entries, func(a, b collection.Entry) int {
			return c.CompareString(a.Title, b.Title)
		})
	case SortYear:
		// Absent dates sort as the empty string, which is earliest.
		slices.SortStableFunc(entries, func(a, b collection.Entry) int {
			return cmp.Compare(strings.TrimSpace(b.ReleaseDate), strings.TrimSpace(a.ReleaseDate))
		})
	case SortRating:
		slices.SortStableFunc(entries, func(a, b collection.Entry) int {
			return cmp.Compare(b.ProviderRating, a.ProviderRating)
		})
	default:
		slices.SortStableFunc(entries, func(a, b collection.Entry) int {
			return cmp.Compare(b.DateAdded, a.DateAdded)
		})
	}
}

func fold(value string) string {
	return cases.Fold().String(value)
}
