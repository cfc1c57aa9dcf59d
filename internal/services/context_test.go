package services_test

import (
	"context"
	"testing"

	"github.com/baliomega/nextflix/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithEntryID(ctx, "entry-1")
	ctx = services.WithQuery(ctx, "inception")
	ctx = services.WithSessionID(ctx, "tab-7")
	ctx = services.WithRequestID(ctx, "req-123")

	if id, ok := services.EntryIDFromContext(ctx); !ok || id != "entry-1" {
		t.Fatalf("unexpected entry id: %v %v", id, ok)
	}
	if query, ok := services.QueryFromContext(ctx); !ok || query != "inception" {
		t.Fatalf("unexpected query: %v %v", query, ok)
	}
	if session, ok := services.SessionIDFromContext(ctx); !ok || session != "tab-7" {
		t.Fatalf("unexpected session: %v %v", session, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithQuery(ctx, "")
	ctx = services.WithEntryID(ctx, "")
	if _, ok := services.QueryFromContext(ctx); ok {
		t.Fatal("expected no query value")
	}
	if _, ok := services.EntryIDFromContext(ctx); ok {
		t.Fatal("expected no entry value")
	}
}
