package jsonschema_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"testing"

	jsonschema "github.com/reoring/jsonschema"
)

// ---- Helpers ----

func smallUserSchemaDoc() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id":   map[string]any{"type": "string"},
			"name": map[string]any{"type": "string"},
		},
		"required":             []any{"id"},
		"additionalProperties": false,
	}
}

func mustCompile(tb testing.TB, doc map[string]any) *jsonschema.CompiledSchema {
	tb.Helper()
	cs, err := jsonschema.CompileSchema(doc)
	if err != nil {
		tb.Fatalf("compile schema: %v", err)
	}
	return cs
}

func smallUserJSON() []byte {
	return []byte(`{"id":"u_1","name":"alice"}`)
}

// generateHugeJSONArray returns a JSON array of objects of the form:
// [{"id":"obj_0","name":"n0","age":0,"active":true,"meta":{"score":0},"k0":"v0",...}, ...]
func generateHugeJSONArray(numObjects int, extraFields int) []byte {
	var buf bytes.Buffer
	buf.Grow(numObjects * (64 + extraFields*16))
	buf.WriteByte('[')
	for i := 0; i < numObjects; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		fmt.Fprintf(&buf, "\"id\":\"obj_%d\",", i)
		fmt.Fprintf(&buf, "\"name\":\"n%d\",", i)
		fmt.Fprintf(&buf, "\"age\":%d,", i)
		if i%2 == 0 {
			buf.WriteString("\"active\":true,")
		} else {
			buf.WriteString("\"active\":false,")
		}
		fmt.Fprintf(&buf, "\"meta\":{\"score\":%d}", i)
		for k := 0; k < extraFields; k++ {
			buf.WriteByte(',')
			buf.WriteByte('"')
			buf.WriteString("k")
			buf.WriteString(strconv.Itoa(k))
			buf.WriteString("\":\"v")
			buf.WriteString(strconv.Itoa(i))
			buf.WriteString("_")
			buf.WriteString(strconv.Itoa(k))
			buf.WriteString("\"")
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.Bytes()
}

func hugeArraySchemaDoc() map[string]any {
	return map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"id": map[string]any{"type": "string"},
			},
			"required": []any{"id"},
		},
	}
}

// ---- Micro benchmarks (small inputs) ----

func Benchmark_Validate_Object_Small_JSONBytes(b *testing.B) {
	s := mustCompile(b, smallUserSchemaDoc())
	data := smallUserJSON()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		instance, err := jsonschema.DecodeJSONBytes(data)
		if err != nil {
			b.Fatal(err)
		}
		if _, err := s.Validate(instance); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_Validate_Object_Small_JSONReader(b *testing.B) {
	s := mustCompile(b, smallUserSchemaDoc())
	data := smallUserJSON()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r := bytes.NewReader(data)
		instance, err := jsonschema.DecodeJSONReader(r)
		if err != nil {
			b.Fatal(err)
		}
		if _, err := s.Validate(instance); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_ValidateFailFast_Object_Small(b *testing.B) {
	s := mustCompile(b, smallUserSchemaDoc())
	data := smallUserJSON()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		instance, err := jsonschema.DecodeJSONBytes(data)
		if err != nil {
			b.Fatal(err)
		}
		if _, err := s.ValidateFailFast(instance); err != nil {
			b.Fatal(err)
		}
	}
}

// Array micro: ["a","b","c"]
func Benchmark_Validate_Array_String_Small(b *testing.B) {
	s := mustCompile(b, map[string]any{"type": "array", "items": map[string]any{"type": "string"}})
	data := []byte(`["a","b","c"]`)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		instance, err := jsonschema.DecodeJSONBytes(data)
		if err != nil {
			b.Fatal(err)
		}
		if _, err := s.Validate(instance); err != nil {
			b.Fatal(err)
		}
	}
}

// ---- Macro benchmarks (huge JSON) ----

const (
	hugeObjects   = 10000
	hugeExtraKeys = 8
)

func Benchmark_Validate_HugeArray_Objects_JSONBytes(b *testing.B) {
	s := mustCompile(b, hugeArraySchemaDoc())
	data := generateHugeJSONArray(hugeObjects, hugeExtraKeys)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		instance, err := jsonschema.DecodeJSONBytes(data)
		if err != nil {
			b.Fatal(err)
		}
		if _, err := s.Validate(instance); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_Validate_HugeArray_Objects_FailFast(b *testing.B) {
	s := mustCompile(b, hugeArraySchemaDoc())
	data := generateHugeJSONArray(hugeObjects, hugeExtraKeys)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		instance, err := jsonschema.DecodeJSONBytes(data)
		if err != nil {
			b.Fatal(err)
		}
		if _, err := s.ValidateFailFast(instance); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_DecodeOnly_HugeArray_Objects(b *testing.B) {
	data := generateHugeJSONArray(hugeObjects, hugeExtraKeys)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := jsonschema.DecodeJSONBytes(data); err != nil {
			b.Fatal(err)
		}
	}
}

// ---- Baseline: encoding/json ----

func Benchmark_encodingJSON_Unmarshal_SmallObject(b *testing.B) {
	data := smallUserJSON()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var v map[string]any
		if err := json.Unmarshal(data, &v); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_encodingJSON_Unmarshal_HugeArray(b *testing.B) {
	data := generateHugeJSONArray(hugeObjects, hugeExtraKeys)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var v []map[string]any
		if err := json.Unmarshal(data, &v); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_encodingJSON_Decoder_HugeArray(b *testing.B) {
	data := generateHugeJSONArray(hugeObjects, hugeExtraKeys)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var v []map[string]any
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&v); err != nil && err != io.EOF {
			b.Fatal(err)
		}
	}
}
