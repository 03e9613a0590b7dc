package services

import (
	"context"
	"testing"
)

func TestContextAnnotations(t *testing.T) {
	ctx := context.Background()
	ctx = WithSessionID(ctx, "abc")
	ctx = WithCatalog(ctx, "SSC")
	ctx = WithStep(ctx, "ingest")
	ctx = WithTrackIndex(ctx, 2)

	if id, ok := SessionIDFromContext(ctx); !ok || id != "abc" {
		t.Fatalf("unexpected session id %q (ok=%v)", id, ok)
	}
	if catalog, ok := CatalogFromContext(ctx); !ok || catalog != "SSC" {
		t.Fatalf("unexpected catalog %q (ok=%v)", catalog, ok)
	}
	if step, ok := StepFromContext(ctx); !ok || step != "ingest" {
		t.Fatalf("unexpected step %q (ok=%v)", step, ok)
	}
	if index, ok := TrackIndexFromContext(ctx); !ok || index != 2 {
		t.Fatalf("unexpected track index %d (ok=%v)", index, ok)
	}
}

func TestContextAnnotationsIgnoreEmptyValues(t *testing.T) {
	ctx := context.Background()
	ctx = WithSessionID(ctx, "")
	ctx = WithCatalog(ctx, "")
	ctx = WithStep(ctx, "")
	ctx = WithTrackIndex(ctx, 0)

	if _, ok := SessionIDFromContext(ctx); ok {
		t.Fatal("expected no session id")
	}
	if _, ok := CatalogFromContext(ctx); ok {
		t.Fatal("expected no catalog")
	}
	if _, ok := StepFromContext(ctx); ok {
		t.Fatal("expected no step")
	}
	if _, ok := TrackIndexFromContext(ctx); ok {
		t.Fatal("expected no track index")
	}
}
