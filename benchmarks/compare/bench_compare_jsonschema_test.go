package compare_test

import (
	"encoding/json"
	"testing"

	jsonschema "github.com/reoring/jsonschema"
	jschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// Minimal schema that requires id:string; unknowns allowed. Both validators
// compile the same document so the benchmark compares evaluator overhead,
// not schema-shape differences.
const jsonSchemaUser = `{
  "type": "object",
  "properties": {"id": {"type": "string"}},
  "required": ["id"],
  "additionalProperties": true
}`

func Benchmark_Validate_santhosh_tekuri_v5_Small(b *testing.B) {
	comp := jschema.MustCompileString("mem:user", jsonSchemaUser)
	data := []byte(`{"id":"u_1","name":"alice"}`)
	instance := bytesToAny(data)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := comp.Validate(instance); err != nil {
			b.Fatal(err)
		}
	}
}

// Same schema, same input, validated with this module's compiler.
func Benchmark_Validate_jsonschema_Small(b *testing.B) {
	var doc map[string]any
	if err := json.Unmarshal([]byte(jsonSchemaUser), &doc); err != nil {
		b.Fatal(err)
	}
	cs, err := jsonschema.CompileSchema(doc)
	if err != nil {
		b.Fatal(err)
	}
	data := []byte(`{"id":"u_1","name":"alice"}`)
	instance := bytesToAny(data)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := cs.Validate(instance); err != nil {
			b.Fatal(err)
		}
	}
}

// bytesToAny decodes JSON into any using the stdlib, matching the input
// shape both validators' Validate methods expect.
func bytesToAny(b []byte) any {
	var v any
	_ = json.Unmarshal(b, &v)
	return v
}
