package logging

import (
	"context"
	"maps"
)

type contextKey string

const contextFieldsKey contextKey = "gallery.logging.fields"

// ContextWithFields returns a context carrying structured logging fields.
// Fields already on the context are kept, with new values winning on key
// collisions, so middleware layers can annotate incrementally (admin first,
// folder later) without clobbering each other.
func ContextWithFields(ctx context.Context, fields map[string]any) context.Context {
	if ctx == nil || len(fields) == 0 {
		return ctx
	}

	merged := ContextFields(ctx)
	if merged == nil {
		merged = make(map[string]any, len(fields))
	}
	maps.Copy(merged, fields)
	return context.WithValue(ctx, contextFieldsKey, merged)
}

// ContextFields extracts annotated logging fields from the context. The map is
// a copy; mutating it does not affect future log entries.
func ContextFields(ctx context.Context) map[string]any {
	if ctx == nil {
		return nil
	}
	fields, ok := ctx.Value(contextFieldsKey).(map[string]any)
	if !ok || len(fields) == 0 {
		return nil
	}
	return maps.Clone(fields)
}
