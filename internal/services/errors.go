package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrProviderUnavailable = errors.New("provider unavailable")
	ErrMalformedData       = errors.New("malformed persisted data")
	ErrValidation          = errors.New("validation error")
	ErrConfiguration       = errors.New("configuration error")
	ErrNotFound            = errors.New("not found")
	ErrTimeout             = errors.New("timeout")
	ErrStorage             = errors.New("storage failure")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrStorage
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// HTTPStatus maps an engine error to the status code the API reports.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, ErrProviderUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Hint returns a short operator-facing remediation for the marker carried by err.
func Hint(err error) string {
	switch {
	case errors.Is(err, ErrProviderUnavailable):
		return "check network access and the TMDB API key"
	case errors.Is(err, ErrTimeout):
		return "raise search.request_timeout_seconds or retry the search"
	case errors.Is(err, ErrMalformedData):
		return "inspect the preserved .corrupt payload in the data store"
	case errors.Is(err, ErrConfiguration):
		return "run nextflix config validate"
	case errors.Is(err, ErrStorage):
		return "check storage backend availability and data directory permissions"
	default:
		return ""
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "engine failure"
	}
	return strings.Join(parts, ": ")
}
