package httpapi

import (
	"time"

	"github.com/baliomega/nextflix/internal/collection"
	"github.com/baliomega/nextflix/internal/media"
	"github.com/baliomega/nextflix/internal/view"
)

// SearchResponse is returned by GET /api/search. Notice is set when the
// provider could not be reached and Results is empty.
type SearchResponse struct {
	Query   string         `json:"query"`
	Results []media.Result `json:"results"`
	Notice  string         `json:"notice,omitempty"`
}

// CollectionResponse is returned by GET /api/collection.
type CollectionResponse struct {
	Entries []collection.Entry `json:"entries"`
	Count   int                `json:"count"`
	Total   int                `json:"total"`
}

// AddRequest is the body of POST /api/collection.
type AddRequest struct {
	Result media.Result `json:"result"`
	Rating string       `json:"rating"`
}

// EntryResponse wraps a single entry. Created is set when a POST added a new
// entry instead of rating an existing one.
type EntryResponse struct {
	Entry   collection.Entry `json:"entry"`
	Created bool             `json:"created"`
}

// RatingRequest is the body of PATCH /api/collection/{id}. Toggle clears the
// rating when the entry already carries it.
type RatingRequest struct {
	Rating string `json:"rating"`
	Toggle bool   `json:"toggle"`
}

// ContentFilterPayload is used by GET and PUT /api/settings/content-filter.
type ContentFilterPayload struct {
	Enabled bool `json:"enabled"`
}

// ImportResponse is returned by POST /api/import.
type ImportResponse struct {
	Added     int `json:"added"`
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
	Skipped   int `json:"skipped"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status        string     `json:"status"`
	Provider      string     `json:"provider"`
	Offline       bool       `json:"offline"`
	Breaker       string     `json:"breaker,omitempty"`
	Storage       string     `json:"storage"`
	Entries       int        `json:"entries"`
	Stats         view.Stats `json:"stats"`
	ContentFilter bool       `json:"contentFilter"`
	LastAdded     time.Time  `json:"lastAdded,omitzero"`
}

type errorResponse struct {
	Error string `json:"error"`
	Hint  string `json:"hint,omitempty"`
}
