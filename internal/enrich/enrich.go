// Package enrich adds cast and principal-director credits to search results
// with one provider call per title.
//
// Enrichment is best effort. Any provider failure degrades to "absent" and is
// logged at WARN; callers proceed without the credits.
package enrich

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/baliomega/nextflix/internal/logging"
	"github.com/baliomega/nextflix/internal/media"
	"github.com/baliomega/nextflix/internal/metrics"
	"github.com/baliomega/nextflix/internal/provider"
	"github.com/baliomega/nextflix/internal/services"
)

const (
	// MaxCast bounds the billed names kept per title.
	MaxCast = 10
	// MaxCreators bounds the series creators joined into Director.
	MaxCreators = 2

	creatorSeparator = ", "
)

// Credits is the enrichment payload for one title.
type Credits struct {
	Cast     []string
	Director string
}

// Enricher resolves credits for a title. ok=false means enrichment is
// unavailable and the caller should continue without it.
type Enricher interface {
	Enrich(ctx context.Context, providerID int64, kind media.Kind) (Credits, bool)
}

// ProviderEnricher enriches through a provider credits lookup.
type ProviderEnricher struct {
	provider provider.Provider
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

var _ Enricher = (*ProviderEnricher)(nil)

// New constructs a provider-backed enricher. m may be nil.
func New(p provider.Provider, logger *slog.Logger, m *metrics.Metrics) *ProviderEnricher {
	return &ProviderEnricher{
		provider: p,
		logger:   logging.NewComponentLogger(logger, "enrich"),
		metrics:  m,
	}
}

// Enrich fetches credits for providerID. It never returns an error.
func (e *ProviderEnricher) Enrich(ctx context.Context, providerID int64, kind media.Kind) (Credits, bool) {
	if e == nil || e.provider == nil || providerID <= 0 {
		return Credits{}, false
	}
	started := time.Now()
	raw, err := e.provider.Credits(ctx, providerID, kind)
	if err != nil {
		e.metrics.CountEnrichment(false)
		logging.WarnWithContext(
			logging.WithContext(ctx, e.logger),
			"credits lookup failed; continuing without cast",
			"enrich_failed",
			logging.ProviderID(providerID),
			logging.String("kind", string(kind)),
			logging.Duration("latency", time.Since(started)),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, services.Hint(err)),
			logging.String(logging.FieldImpact, "result shown without cast or director"),
		)
		return Credits{}, false
	}
	e.metrics.CountEnrichment(true)
	return FromProvider(raw, kind), true
}

// FromProvider reduces raw provider credits to the enrichment payload.
func FromProvider(raw provider.Credits, kind media.Kind) Credits {
	cast := make([]string, 0, min(len(raw.Cast), MaxCast))
	for _, name := range raw.Cast {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		cast = append(cast, name)
		if len(cast) == MaxCast {
			break
		}
	}
	return Credits{Cast: cast, Director: director(raw.Crew, kind)}
}

func director(crew []provider.CrewMember, kind media.Kind) string {
	if kind != media.KindSeries {
		for _, member := range crew {
			if member.Job == "Director" && strings.TrimSpace(member.Name) != "" {
				return strings.TrimSpace(member.Name)
			}
		}
		return ""
	}
	var names []string
	seen := make(map[string]struct{})
	for _, member := range crew {
		if member.Job != "Creator" && member.Job != "Executive Producer" {
			continue
		}
		name := strings.TrimSpace(member.Name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
		if len(names) == MaxCreators {
			break
		}
	}
	return strings.Join(names, creatorSeparator)
}
