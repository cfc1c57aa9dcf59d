// Package httpapi exposes the engine over HTTP for the web front end.
//
// Routes are served by a gorilla/mux router. Every request is stamped with a
// request id that flows into logs as correlation_id, and /api routes require
// a bearer token when server.api_token is set. Searches carrying an
// X-Session-ID header are debounced per session so a client typing quickly
// only receives results for its latest query.
package httpapi
