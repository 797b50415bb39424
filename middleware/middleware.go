// Package middleware provides framework-agnostic helpers for validating an
// HTTP request body against a compiled schema. The echo and gin subpackages
// wrap these helpers for their respective router types.
package middleware

import (
	"context"

	goskema "github.com/reoring/jsonschema"
)

// ctxKeyInstance is a typed context key for storing the decoded+validated
// request body.
type ctxKeyInstance struct{}

// ContextWithInstance attaches a decoded instance to the context.
func ContextWithInstance(ctx context.Context, instance any) context.Context {
	return context.WithValue(ctx, ctxKeyInstance{}, instance)
}

// InstanceFromContext retrieves the decoded instance stored by ValidateJSON.
func InstanceFromContext(ctx context.Context) (any, bool) {
	v := ctx.Value(ctxKeyInstance{})
	return v, v != nil
}

// ErrorPayload shapes Issues for JSON error responses.
func ErrorPayload(issues goskema.Issues) map[string]any {
	return map[string]any{"issues": issues}
}

// DecodeAndValidate reads one JSON document from src and validates it
// against schema, returning the decoded instance on success.
func DecodeAndValidate(schema *goskema.CompiledSchema, src goskema.Source) (any, error) {
	instance, err := goskema.DecodeDocument(src)
	if err != nil {
		return nil, err
	}
	iss, verr := schema.Validate(instance)
	if verr != nil {
		return nil, verr
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return instance, nil
}
