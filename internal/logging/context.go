package logging

import (
	"context"
	"log/slog"

	"delivery/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldSessionID is the standardized key for the operator session identifier.
	FieldSessionID = "session_id"
	// FieldCatalog is the standardized key for the active catalog.
	FieldCatalog = "catalog"
	// FieldStep is the standardized key for pipeline step names.
	FieldStep = "step"
	// FieldTrackIndex is the standardized key for 1-based track positions.
	FieldTrackIndex = "track_index"
	// FieldEventType classifies a log line for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint suggests the next step an operator should take.
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized key for user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldDecisionType names the decision recorded by DecisionAttrs.
	FieldDecisionType = "decision_type"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 4)
	if id, ok := services.SessionIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldSessionID, id))
	}
	if catalog, ok := services.CatalogFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldCatalog, catalog))
	}
	if step, ok := services.StepFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldStep, step))
	}
	if index, ok := services.TrackIndexFromContext(ctx); ok {
		fields = append(fields, slog.Int(FieldTrackIndex, index))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
