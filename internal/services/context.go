package services

import "context"

type contextKey string

const (
	sessionIDKey  contextKey = "session_id"
	catalogKey    contextKey = "catalog"
	stepKey       contextKey = "step"
	trackIndexKey contextKey = "track_index"
)

// WithSessionID annotates context with the operator session identifier.
func WithSessionID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionIDKey, id)
}

// SessionIDFromContext extracts the session identifier if present.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(sessionIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithCatalog annotates context with the active catalog name.
func WithCatalog(ctx context.Context, catalog string) context.Context {
	if catalog == "" {
		return ctx
	}
	return context.WithValue(ctx, catalogKey, catalog)
}

// CatalogFromContext returns the catalog name if present.
func CatalogFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(catalogKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithStep annotates context with the pipeline step name.
func WithStep(ctx context.Context, step string) context.Context {
	if step == "" {
		return ctx
	}
	return context.WithValue(ctx, stepKey, step)
}

// StepFromContext returns the pipeline step name if present.
func StepFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(stepKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithTrackIndex annotates context with the 1-based track position being processed.
func WithTrackIndex(ctx context.Context, index int) context.Context {
	if index <= 0 {
		return ctx
	}
	return context.WithValue(ctx, trackIndexKey, index)
}

// TrackIndexFromContext extracts the 1-based track position if present.
func TrackIndexFromContext(ctx context.Context) (int, bool) {
	v, ok := ctx.Value(trackIndexKey).(int)
	if !ok || v <= 0 {
		return 0, false
	}
	return v, true
}
