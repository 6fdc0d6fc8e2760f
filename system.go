package prismarest

import (
	"context"
	"errors"
	"fmt"
)

// A SystemResolver supplies the values of system fields, the fields
// whose values the serving environment injects on every operation
// instead of accepting them from clients.
type SystemResolver interface {
	// SystemValue returns the value of the named system field for the
	// operation carried by ctx.
	SystemValue(ctx context.Context, field string) (any, error)
}

// SystemValues resolves system fields from a fixed map. It serves static
// setups and tests.
type SystemValues map[string]any

// SystemValue implements SystemResolver.
func (v SystemValues) SystemValue(_ context.Context, field string) (any, error) {
	val, ok := v[field]
	if !ok {
		return nil, fmt.Errorf("no value for %q", field)
	}
	return val, nil
}

type systemCtxKey struct{}

// NewSystemContext returns a context carrying the given system values.
// Request middleware stores per-request values with it and
// ContextResolver reads them back inside the services.
func NewSystemContext(ctx context.Context, vals SystemValues) context.Context {
	return context.WithValue(ctx, systemCtxKey{}, vals)
}

// SystemFromContext returns the system values carried by ctx, if any.
func SystemFromContext(ctx context.Context) (SystemValues, bool) {
	vals, ok := ctx.Value(systemCtxKey{}).(SystemValues)
	return vals, ok
}

// ContextResolver resolves system fields from the values carried by the
// operation context.
type ContextResolver struct{}

// SystemValue implements SystemResolver.
func (ContextResolver) SystemValue(ctx context.Context, field string) (any, error) {
	vals, ok := SystemFromContext(ctx)
	if !ok {
		return nil, errors.New("context carries no system values")
	}
	return vals.SystemValue(ctx, field)
}
