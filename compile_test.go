package jsonschema_test

import (
	"testing"

	jsonschema "github.com/reoring/jsonschema"
)

func mustCompileDoc(t *testing.T, doc map[string]any, opts ...jsonschema.CompileOption) *jsonschema.CompiledSchema {
	t.Helper()
	cs, err := jsonschema.CompileSchema(doc, opts...)
	if err != nil {
		t.Fatalf("CompileSchema: %v", err)
	}
	return cs
}

func TestCompileSchema_BasicObject(t *testing.T) {
	doc := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id":   map[string]any{"type": "string"},
			"age":  map[string]any{"type": "integer", "minimum": 0},
			"tags": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
		"required":             []any{"id"},
		"additionalProperties": false,
	}
	cs := mustCompileDoc(t, doc)

	cases := []struct {
		name    string
		in      any
		wantErr bool
	}{
		{"valid", map[string]any{"id": "u1", "age": 5.0, "tags": []any{"a", "b"}}, false},
		{"missing required", map[string]any{"age": 5.0}, true},
		{"wrong type", map[string]any{"id": 1.0}, true},
		{"unknown property", map[string]any{"id": "u1", "extra": true}, true},
		{"negative age", map[string]any{"id": "u1", "age": -1.0}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			issues, err := cs.Validate(tc.in)
			if err != nil {
				t.Fatalf("Validate returned error: %v", err)
			}
			if (len(issues) > 0) != tc.wantErr {
				t.Fatalf("got issues=%v, wantErr=%v", issues, tc.wantErr)
			}
		})
	}
}

func TestCompiledSchema_IsValid(t *testing.T) {
	cs := mustCompileDoc(t, map[string]any{"type": "string", "minLength": 3})
	if !cs.IsValid("abcd") {
		t.Fatal("expected \"abcd\" to be valid")
	}
	if cs.IsValid("ab") {
		t.Fatal("expected \"ab\" to be invalid")
	}
}

func TestCompiledSchema_ValidateFailFast(t *testing.T) {
	doc := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"a": map[string]any{"type": "string"},
			"b": map[string]any{"type": "string"},
		},
		"required": []any{"a", "b"},
	}
	cs := mustCompileDoc(t, doc)
	issues, err := cs.ValidateFailFast(map[string]any{})
	if err != nil {
		t.Fatalf("ValidateFailFast returned error: %v", err)
	}
	if len(issues) != 1 {
		t.Fatalf("expected fail-fast to stop after one issue, got %d: %v", len(issues), issues)
	}

	all, err := cs.Validate(map[string]any{})
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if len(all) < len(issues) {
		t.Fatalf("expected Validate to find at least as many issues as ValidateFailFast, got %d vs %d", len(all), len(issues))
	}
}

func TestCompileSchema_Enum(t *testing.T) {
	cs := mustCompileDoc(t, map[string]any{"enum": []any{"red", "green", "blue"}})
	if !cs.IsValid("red") {
		t.Fatal("expected \"red\" to be valid")
	}
	if cs.IsValid("purple") {
		t.Fatal("expected \"purple\" to be invalid")
	}
}

func TestCompileSchema_RefWithinDocument(t *testing.T) {
	doc := map[string]any{
		"$defs": map[string]any{
			"positiveInt": map[string]any{"type": "integer", "exclusiveMinimum": 0},
		},
		"type":  "array",
		"items": map[string]any{"$ref": "#/$defs/positiveInt"},
	}
	cs := mustCompileDoc(t, doc)
	if !cs.IsValid([]any{1.0, 2.0, 3.0}) {
		t.Fatal("expected all-positive array to be valid")
	}
	if cs.IsValid([]any{1.0, -2.0}) {
		t.Fatal("expected array containing a non-positive value to be invalid")
	}
}

func TestCompiler_AddResourceAndCompile(t *testing.T) {
	c := jsonschema.NewCompiler()
	c.AddResource("mem://defs.json", map[string]any{
		"$id":         "mem://defs.json",
		"type":        "string",
		"minLength":   1,
	})
	c.AddResource("mem://main.json", map[string]any{
		"$id":   "mem://main.json",
		"$ref":  "mem://defs.json",
	})
	cs, err := c.Compile("mem://main.json")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !cs.IsValid("hello") {
		t.Fatal("expected \"hello\" to satisfy the referenced schema")
	}
	if cs.IsValid("") {
		t.Fatal("expected empty string to violate minLength")
	}
}

func TestCompileSchema_DefaultsInjection(t *testing.T) {
	doc := map[string]any{
		"properties": map[string]any{
			"bar": map[string]any{"default": "bad", "minLength": 4},
		},
	}
	cs := mustCompileDoc(t, doc, jsonschema.WithDefaultsInjection(true))

	issues, patch, err := cs.ValidateWithDefaults(map[string]any{})
	if err != nil {
		t.Fatalf("ValidateWithDefaults: %v", err)
	}
	if len(patch) != 1 || patch[0].Op != "add" || patch[0].Path != "/bar" || patch[0].Value != "bad" {
		t.Fatalf("unexpected patch: %#v", patch)
	}
	if len(issues) != 0 {
		t.Fatalf("expected {} itself to be valid (bar is absent, not \"bad\"), got %v", issues)
	}

	patched := map[string]any{"bar": "bad"}
	issues, err = cs.Validate(patched)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(issues) == 0 {
		t.Fatal("expected the patched instance to fail minLength, since \"bad\" has length 3")
	}
}

func TestCompileSchema_DefaultsInjectionRequiresOption(t *testing.T) {
	doc := map[string]any{
		"properties": map[string]any{
			"bar": map[string]any{"default": "bad"},
		},
	}
	cs := mustCompileDoc(t, doc)
	_, patch, err := cs.ValidateWithDefaults(map[string]any{})
	if err != nil {
		t.Fatalf("ValidateWithDefaults: %v", err)
	}
	if len(patch) != 0 {
		t.Fatalf("expected no patch ops when defaults injection was never enabled, got %v", patch)
	}
}

func TestCompileSchema_DynamicRefBookending(t *testing.T) {
	doc := map[string]any{
		"$schema":       "https://json-schema.org/draft/2020-12/schema",
		"$dynamicAnchor": "items",
		"items":         map[string]any{"$dynamicRef": "#items"},
	}
	cs := mustCompileDoc(t, doc)
	if !cs.IsValid([]any{"a", "b"}) {
		t.Fatal("expected a list of strings to satisfy the self-referential $dynamicRef")
	}
}

func TestCompileSchema_DynamicRefWithoutBookendingFails(t *testing.T) {
	_, err := jsonschema.CompileSchema(map[string]any{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"items":   map[string]any{"$dynamicRef": "#items"},
	})
	if err == nil {
		t.Fatal("expected a $dynamicRef with no enclosing $dynamicAnchor to fail compilation")
	}
	se, ok := err.(*jsonschema.SchemaError)
	if !ok {
		t.Fatalf("expected a *SchemaError, got %T: %v", err, err)
	}
	if se.Kind != jsonschema.ErrBookending {
		t.Fatalf("expected ErrBookending, got %v", se.Kind)
	}
}

func TestCompileSchema_WithDefaultBaseURI(t *testing.T) {
	cs := mustCompileDoc(t, map[string]any{"type": "string"}, jsonschema.WithDefaultBaseURI("mem://custom-base.json"))
	if !cs.IsValid("hello") {
		t.Fatal("expected \"hello\" to satisfy a bare string schema regardless of its retrieval base")
	}
}

func TestCompileSchema_InvalidSchemaFails(t *testing.T) {
	_, err := jsonschema.CompileSchema(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"a": map[string]any{"$ref": "#/$defs/missing"},
		},
	})
	if err == nil {
		t.Fatal("expected compiling a schema with an unresolved $ref to fail")
	}
}
