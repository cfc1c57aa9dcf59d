package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/baliomega/nextflix/internal/collection"
	"github.com/baliomega/nextflix/internal/services"
)

// Format names an export payload.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatText Format = "txt"
)

// Formats lists every export format in a stable order.
var Formats = []Format{FormatCSV, FormatJSON, FormatText}

// ParseFormat accepts csv, json, txt, or text.
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "txt", "text":
		return FormatText, nil
	default:
		return "", services.Wrap(services.ErrValidation, "export", "parse format",
			fmt.Sprintf("unknown export format %q (want csv, json or txt)", value), nil)
	}
}

// ContentType returns the MIME type served for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatJSON:
		return "application/json"
	default:
		return "text/plain; charset=utf-8"
	}
}

// FileName returns nextflix-collection-YYYY-MM-DD.<ext> for now's local date.
func FileName(format Format, now time.Time) string {
	return fmt.Sprintf("nextflix-collection-%s.%s", now.Format(collection.DateLayout), format)
}

// Document is the structured export.
type Document struct {
	ExportedAt time.Time          `json:"exportedAt"`
	Count      int                `json:"count"`
	Collection []collection.Entry `json:"collection"`
}

var csvHeader = []string{
	"Title", "Type", "Release Date", "Your Rating", "Date Added",
	"TMDB Rating", "Director", "Cast", "Genres", "TMDB ID",
}

// CSV renders one row per entry under a header row.
func CSV(entries []collection.Entry) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range entries {
		providerID := ""
		if e.ProviderID > 0 {
			providerID = strconv.FormatInt(e.ProviderID, 10)
		}
		score := ""
		if e.ProviderRating > 0 {
			score = strconv.FormatFloat(e.ProviderRating, 'f', 1, 64)
		}
		row := []string{
			e.Title,
			string(e.Kind),
			e.ReleaseDate,
			string(e.Rating),
			e.DateAdded,
			score,
			e.Director,
			strings.Join(e.Cast, "; "),
			strings.Join(e.Genres, "; "),
			providerID,
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// JSON renders the structured document stamped with now.
func JSON(entries []collection.Entry, now time.Time) ([]byte, error) {
	if entries == nil {
		entries = []collection.Entry{}
	}
	doc := Document{
		ExportedAt: now.UTC().Truncate(time.Second),
		Count:      len(entries),
		Collection: entries,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}
	return append(data, '\n'), nil
}

// ParseJSON reads a structured export. A bare entry array is accepted too,
// which is how the collection itself is stored.
func ParseJSON(data []byte) (Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var entries []collection.Entry
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return Document{}, services.Wrap(services.ErrMalformedData, "export", "parse json", "decode entry array", err)
		}
		return Document{Count: len(entries), Collection: entries}, nil
	}
	var doc Document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return Document{}, services.Wrap(services.ErrMalformedData, "export", "parse json", "decode document", err)
	}
	if doc.Collection == nil {
		return Document{}, services.Wrap(services.ErrMalformedData, "export", "parse json", "document has no collection", nil)
	}
	return doc, nil
}

// Text renders a human readable summary, one line per entry.
func Text(entries []collection.Entry, now time.Time) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "NextFlix collection: %d %s\n", len(entries), plural(len(entries), "title", "titles"))
	fmt.Fprintf(&b, "Exported %s\n\n", now.Format(collection.DateLayout))
	for i, e := range entries {
		fmt.Fprintf(&b, "%d. [%s] %s", i+1, e.Kind.Label(), e.Title)
		if year := e.Year(); year != "" {
			fmt.Fprintf(&b, " (%s)", year)
		}
		fmt.Fprintf(&b, " - %s", e.Rating.Label())
		if e.ProviderRating > 0 {
			fmt.Fprintf(&b, " - TMDB %.1f", e.ProviderRating)
		}
		if e.Director != "" {
			fmt.Fprintf(&b, " - %s", e.Director)
		}
		if e.DateAdded != "" {
			fmt.Fprintf(&b, " - added %s", e.DateAdded)
		}
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// Render produces the payload for format.
func Render(format Format, entries []collection.Entry, now time.Time) ([]byte, error) {
	switch format {
	case FormatCSV:
		return CSV(entries)
	case FormatJSON:
		return JSON(entries, now)
	case FormatText:
		return Text(entries, now), nil
	default:
		return nil, services.Wrap(services.ErrValidation, "export", "render", fmt.Sprintf("unknown format %q", format), nil)
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
