// Package kubeopenapi compiles a Kubernetes CustomResourceDefinition's
// structural OpenAPI v3 schema (spec.versions[].schema.openAPIV3Schema) into
// a *jsonschema.CompiledSchema, so CRD-shaped resources can be validated with
// the same engine used for plain JSON Schema documents.
package kubeopenapi

import (
	"fmt"

	jsonschema "github.com/reoring/jsonschema"
)

// Profile selects which Kubernetes structural-schema constraints to enforce
// while converting an openAPIV3Schema document.
type Profile int

const (
	// ProfileNone performs a plain OpenAPI-to-JSON-Schema conversion.
	ProfileNone Profile = iota
	// ProfileStructuralV1 additionally requires the document to be a
	// "structural schema" per the Kubernetes API machinery rules this
	// package enforces (type required on every node, no bare
	// additionalProperties:true beside properties, etc).
	ProfileStructuralV1
)

// UnknownFieldPolicy controls how object schemas without an explicit
// additionalProperties are treated.
type UnknownFieldPolicy int

const (
	// UnknownPassthrough leaves additionalProperties unspecified (defaults
	// to allowed), matching raw OpenAPI semantics.
	UnknownPassthrough UnknownFieldPolicy = iota
	// UnknownStrict sets additionalProperties: false on every object schema
	// that doesn't already specify one, matching Kubernetes' pruning
	// behavior for structural schemas.
	UnknownStrict
)

// Options configures Import.
type Options struct {
	Profile Profile
	Unknown UnknownFieldPolicy
}

// Diag collects non-fatal warnings surfaced during conversion.
type Diag interface {
	HasWarnings() bool
	Warnings() []string
}

type simpleDiag struct{ warnings []string }

func (d *simpleDiag) HasWarnings() bool    { return len(d.warnings) > 0 }
func (d *simpleDiag) Warnings() []string   { return d.warnings }
func (d *simpleDiag) warnf(f string, a ...any) { d.warnings = append(d.warnings, fmt.Sprintf(f, a...)) }

// Import converts a single CustomResourceDefinition object (already decoded
// from YAML/JSON into map[string]any) into a compiled schema for its first
// served version.
func Import(crd map[string]any, opts Options) (*jsonschema.CompiledSchema, Diag, error) {
	d := &simpleDiag{}
	schemaDoc, err := extractOpenAPIV3Schema(crd, d)
	if err != nil {
		return nil, d, err
	}
	doc := convertSchema(schemaDoc, opts, d)
	if opts.Profile == ProfileStructuralV1 {
		checkStructural(doc, d, "")
	}
	doc["$schema"] = "https://json-schema.org/draft/2020-12/schema"
	cs, err := jsonschema.CompileSchema(doc)
	if err != nil {
		return nil, d, fmt.Errorf("kubeopenapi: compile: %w", err)
	}
	return cs, d, nil
}

// extractOpenAPIV3Schema finds spec.versions[].schema.openAPIV3Schema,
// preferring the first version marked served:true, falling back to the
// first version present.
func extractOpenAPIV3Schema(crd map[string]any, d *simpleDiag) (map[string]any, error) {
	spec, ok := crd["spec"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("kubeopenapi: CRD has no spec")
	}
	versions, ok := spec["versions"].([]any)
	if !ok || len(versions) == 0 {
		return nil, fmt.Errorf("kubeopenapi: CRD spec.versions is empty")
	}
	var fallback map[string]any
	for _, raw := range versions {
		v, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		schema, ok := v["schema"].(map[string]any)
		if !ok {
			continue
		}
		oas, ok := schema["openAPIV3Schema"].(map[string]any)
		if !ok {
			continue
		}
		if fallback == nil {
			fallback = oas
		}
		if served, _ := v["served"].(bool); served {
			return oas, nil
		}
	}
	if fallback != nil {
		d.warnf("no served:true version found, using first version with a schema")
		return fallback, nil
	}
	return nil, fmt.Errorf("kubeopenapi: no version carries an openAPIV3Schema")
}

// convertSchema recursively rewrites an OpenAPI v3 schema node into a JSON
// Schema (2020-12) node: nullable becomes a type union, x-kubernetes-*
// extensions are dropped with a warning, and additionalProperties is pinned
// to false for object nodes per opts.Unknown.
func convertSchema(node map[string]any, opts Options, d *simpleDiag) map[string]any {
	if node == nil {
		return nil
	}
	out := make(map[string]any, len(node))
	for k, v := range node {
		switch k {
		case "nullable":
			// handled below via out["type"]
		default:
			out[k] = v
		}
	}

	if t, ok := out["type"]; ok {
		if nullable, _ := node["nullable"].(bool); nullable {
			if ts, ok := t.(string); ok {
				out["type"] = []any{ts, "null"}
			}
		}
	}

	if props, ok := out["properties"].(map[string]any); ok {
		converted := make(map[string]any, len(props))
		for name, raw := range props {
			if sub, ok := raw.(map[string]any); ok {
				converted[name] = convertSchema(sub, opts, d)
			} else {
				converted[name] = raw
			}
		}
		out["properties"] = converted
		if _, has := out["additionalProperties"]; !has && opts.Unknown == UnknownStrict {
			out["additionalProperties"] = false
		}
	}

	if items, ok := out["items"].(map[string]any); ok {
		out["items"] = convertSchema(items, opts, d)
	}

	for _, key := range []string{"allOf", "anyOf", "oneOf"} {
		if list, ok := out[key].([]any); ok {
			conv := make([]any, len(list))
			for i, raw := range list {
				if sub, ok := raw.(map[string]any); ok {
					conv[i] = convertSchema(sub, opts, d)
				} else {
					conv[i] = raw
				}
			}
			out[key] = conv
		}
	}

	for k := range node {
		if len(k) > 2 && k[:2] == "x-" {
			d.warnf("dropping Kubernetes extension field %q", k)
			delete(out, k)
		}
	}

	return out
}

// checkStructural enforces the subset of Kubernetes' structural-schema rules
// that matter for validation correctness: every non-$ref node names a type,
// and object nodes don't leave additionalProperties unset.
func checkStructural(node map[string]any, d *simpleDiag, path string) {
	if node == nil {
		return
	}
	if _, hasType := node["type"]; !hasType {
		if _, hasAllOf := node["allOf"]; !hasAllOf {
			d.warnf("structural schema violation at %s: missing type", orRoot(path))
		}
	}
	if props, ok := node["properties"].(map[string]any); ok {
		for name, raw := range props {
			if sub, ok := raw.(map[string]any); ok {
				checkStructural(sub, d, path+"/"+name)
			}
		}
	}
	if items, ok := node["items"].(map[string]any); ok {
		checkStructural(items, d, path+"/items")
	}
}

func orRoot(p string) string {
	if p == "" {
		return "(root)"
	}
	return p
}
