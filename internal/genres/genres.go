// Package genres maps TMDB genre codes onto display names. Movies and series
// use separate tables because TMDB assigns different codes per media kind.
package genres

import "github.com/baliomega/nextflix/internal/media"

var movieGenres = map[int]string{
	28:    "Action",
	12:    "Adventure",
	16:    "Animation",
	35:    "Comedy",
	80:    "Crime",
	99:    "Documentary",
	18:    "Drama",
	10751: "Family",
	14:    "Fantasy",
	36:    "History",
	27:    "Horror",
	10402: "Music",
	9648:  "Mystery",
	10749: "Romance",
	878:   "Science Fiction",
	10770: "TV Movie",
	53:    "Thriller",
	10752: "War",
	37:    "Western",
}

var seriesGenres = map[int]string{
	10759: "Action & Adventure",
	16:    "Animation",
	35:    "Comedy",
	80:    "Crime",
	99:    "Documentary",
	18:    "Drama",
	10751: "Family",
	10762: "Kids",
	9648:  "Mystery",
	10763: "News",
	10764: "Reality",
	10765: "Sci-Fi & Fantasy",
	10766: "Soap",
	10767: "Talk",
	10768: "War & Politics",
	37:    "Western",
}

// Resolve returns display names for codes in input order. Unknown codes and
// repeated names are dropped.
func Resolve(codes []int, kind media.Kind) []string {
	table := movieGenres
	if kind == media.KindSeries {
		table = seriesGenres
	}
	names := make([]string, 0, len(codes))
	seen := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		name, ok := table[code]
		if !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// Name returns the display name for a single code.
func Name(code int, kind media.Kind) (string, bool) {
	if kind == media.KindSeries {
		name, ok := seriesGenres[code]
		return name, ok
	}
	name, ok := movieGenres[code]
	return name, ok
}
