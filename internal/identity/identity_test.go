package identity_test

import (
	"testing"

	"github.com/baliomega/nextflix/internal/identity"
	"github.com/baliomega/nextflix/internal/media"
)

type row identity.Key

func (r row) IdentityKey() identity.Key { return identity.Key(r) }

var rows = []row{
	{ProviderID: 42, LocalID: "a", Title: "Heat", Kind: media.KindMovie},
	{ProviderID: 0, LocalID: "b", Title: "Heat", Kind: media.KindMovie},
	{ProviderID: 7, LocalID: "c", Title: "Severance", Kind: media.KindSeries},
	{ProviderID: 0, LocalID: "d", Title: "Severance", Kind: media.KindSeries},
}

func TestFindExisting(t *testing.T) {
	tests := []struct {
		name      string
		candidate identity.Candidate
		want      int
	}{
		{"provider id ignores title", identity.Candidate{ProviderID: 42, Title: "X"}, 0},
		{"different provider id never matches by title", identity.Candidate{ProviderID: 43, Title: "Heat", Kind: media.KindMovie}, -1},
		{"provider id wins over local id", identity.Candidate{ProviderID: 7, LocalID: "a"}, 2},
		{"local id when provider id absent", identity.Candidate{LocalID: "b"}, 1},
		{"title alone never matches", identity.Candidate{Title: "Heat", Kind: media.KindMovie}, -1},
		{"unknown local id", identity.Candidate{LocalID: "zz"}, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := identity.FindExisting(rows, tt.candidate); got != tt.want {
				t.Fatalf("FindExisting = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFindLegacy(t *testing.T) {
	if got := identity.FindLegacy(rows, "  HEAT ", media.KindMovie); got != 1 {
		t.Fatalf("expected legacy entry without provider id, got %d", got)
	}
	if got := identity.FindLegacy(rows, "severance", media.KindMovie); got != -1 {
		t.Fatalf("kind must match, got %d", got)
	}
	if got := identity.FindLegacy(rows, "", media.KindMovie); got != -1 {
		t.Fatalf("empty title must not match, got %d", got)
	}
}
