package jsonschema_test

import (
	"testing"

	jsonschema "github.com/reoring/jsonschema"
)

func TestDetectJSONDuplicateKeysBytes(t *testing.T) {
	data := []byte(`{"a":1,"b":2,"a":3}`)

	issues, err := jsonschema.DetectJSONDuplicateKeysBytes(data, jsonschema.DuplicateKeyIgnore, -1)
	if err != nil {
		t.Fatalf("DuplicateKeyIgnore: %v", err)
	}
	if len(issues) != 0 {
		t.Fatalf("expected no issues under DuplicateKeyIgnore, got %v", issues)
	}

	issues, err = jsonschema.DetectJSONDuplicateKeysBytes(data, jsonschema.DuplicateKeyWarn, -1)
	if err != nil {
		t.Fatalf("DuplicateKeyWarn: %v", err)
	}
	if len(issues) == 0 {
		t.Fatal("expected a warning issue for the duplicate key \"a\"")
	}

	_, err = jsonschema.DetectJSONDuplicateKeysBytes(data, jsonschema.DuplicateKeyError, -1)
	if err == nil {
		t.Fatal("expected an error under DuplicateKeyError")
	}
}

func TestEnforceSource_MaxDepth(t *testing.T) {
	data := []byte(`{"a":{"b":{"c":1}}}`)
	src := jsonschema.EnforceSource(jsonschema.JSONBytes(data), jsonschema.EnforceOptions{
		MaxDepth: 2,
	})
	if _, err := jsonschema.DecodeDocument(src); err == nil {
		t.Fatal("expected decoding to fail once nesting exceeds MaxDepth")
	}
}

func TestEnforceSource_WithinLimitsSucceeds(t *testing.T) {
	data := []byte(`{"a":{"b":1}}`)
	src := jsonschema.EnforceSource(jsonschema.JSONBytes(data), jsonschema.EnforceOptions{
		MaxDepth: 10,
	})
	instance, err := jsonschema.DecodeDocument(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	obj, ok := instance.(map[string]any)
	if !ok || obj["a"] == nil {
		t.Fatalf("unexpected decoded instance: %#v", instance)
	}
}
