package jsonschema_test

import (
	"testing"

	jsonschema "github.com/reoring/jsonschema"
)

// These benchmarks compare validating against a schema compiled once
// (the intended usage) versus recompiling the same schema document on every
// call, which is the mistake CompileSchema's doc comment warns against.

func Benchmark_Validate_PrecompiledSchema_Small(b *testing.B) {
	doc := smallUserSchemaDoc()
	s := mustCompile(b, doc)
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

func Benchmark_Validate_RecompiledEveryCall_Small(b *testing.B) {
	doc := smallUserSchemaDoc()
	data := smallUserJSON()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s, err := jsonschema.CompileSchema(doc)
		if err != nil {
			b.Fatal(err)
		}
		instance, err := jsonschema.DecodeJSONBytes(data)
		if err != nil {
			b.Fatal(err)
		}
		if _, err := s.Validate(instance); err != nil {
			b.Fatal(err)
		}
	}
}
