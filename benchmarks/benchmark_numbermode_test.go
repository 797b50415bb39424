package jsonschema_test

import (
	"bytes"
	"strconv"
	"testing"

	jsonschema "github.com/reoring/jsonschema"
)

func numberModeSmallSchemaDoc() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"a": map[string]any{"type": "number"},
			"b": map[string]any{"type": "number"},
			"c": map[string]any{"type": "number"},
		},
	}
}

func Benchmark_NumberMode_Small_JSONNumber(b *testing.B) {
	s := mustCompile(b, numberModeSmallSchemaDoc())
	data := []byte(`{"a":1,"b":2.5,"c":-3.75}`)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		src := jsonschema.JSONBytes(data)
		instance, err := jsonschema.DecodeDocument(src)
		if err != nil {
			b.Fatal(err)
		}
		if _, err := s.Validate(instance); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_NumberMode_Small_Float64(b *testing.B) {
	s := mustCompile(b, numberModeSmallSchemaDoc())
	data := []byte(`{"a":1,"b":2.5,"c":-3.75}`)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		src := &float64Source{Source: jsonschema.JSONBytes(data)}
		instance, err := jsonschema.DecodeDocument(src)
		if err != nil {
			b.Fatal(err)
		}
		if _, err := s.Validate(instance); err != nil {
			b.Fatal(err)
		}
	}
}

// float64Source overrides NumberMode() to force DecodeDocument down the
// float64 conversion path, without needing a second decoder instance.
type float64Source struct{ jsonschema.Source }

func (float64Source) NumberMode() jsonschema.NumberMode { return jsonschema.NumberFloat64 }

func numberModeHugeItemSchemaDoc() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"x": map[string]any{"type": "number"},
			"y": map[string]any{"type": "number"},
			"z": map[string]any{"type": "number"},
		},
	}
}

func generateNumericJSONArray(num int) []byte {
	var buf bytes.Buffer
	buf.Grow(num * 48)
	buf.WriteByte('[')
	for i := 0; i < num; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(`{"x":`)
		buf.WriteString(strconv.Itoa(i))
		buf.WriteString(`,"y":`)
		if i%2 == 0 {
			buf.WriteString("1.5")
		} else {
			buf.WriteString("2.5")
		}
		buf.WriteString(`,"z":-3.75}`)
	}
	buf.WriteByte(']')
	return buf.Bytes()
}

const numberModeHugeN = 50000

func Benchmark_NumberMode_HugeArray_JSONNumber(b *testing.B) {
	s := mustCompile(b, map[string]any{"type": "array", "items": numberModeHugeItemSchemaDoc()})
	data := generateNumericJSONArray(numberModeHugeN)
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

func Benchmark_NumberMode_HugeArray_Float64(b *testing.B) {
	s := mustCompile(b, map[string]any{"type": "array", "items": numberModeHugeItemSchemaDoc()})
	data := generateNumericJSONArray(numberModeHugeN)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		src := &float64Source{Source: jsonschema.JSONBytes(data)}
		instance, err := jsonschema.DecodeDocument(src)
		if err != nil {
			b.Fatal(err)
		}
		if _, err := s.Validate(instance); err != nil {
			b.Fatal(err)
		}
	}
}
