package view

import (
	"github.com/baliomega/nextflix/internal/collection"
	"github.com/baliomega/nextflix/internal/media"
)

// Stats counts the whole collection by kind and by rating. No filters or
// classifier apply.
type Stats struct {
	Total    int `json:"total"`
	Movies   int `json:"movies"`
	Series   int `json:"series"`
	Loved    int `json:"loved"`
	Liked    int `json:"liked"`
	NotForMe int `json:"notForMe"`
	Unrated  int `json:"unrated"`
}

// CountStats tallies entries.
func CountStats(entries []collection.Entry) Stats {
	st := Stats{Total: len(entries)}
	for _, e := range entries {
		switch e.Kind {
		case media.KindMovie:
			st.Movies++
		case media.KindSeries:
			st.Series++
		}
		switch e.Rating {
		case media.RatingLove:
			st.Loved++
		case media.RatingUp:
			st.Liked++
		case media.RatingDown:
			st.NotForMe++
		default:
			st.Unrated++
		}
	}
	return st
}
