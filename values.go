package jsonschema

import (
	"encoding/json"
	"math"
	"math/big"
	"sort"
)

// jsonKind classifies a decoded instance value the way JSON Schema's
// "type" keyword does: object, array, string, number, integer (a subset of
// number), boolean, or null. Numbers decoded as json.Number (via
// UseNumber, per _examples/reoring-goskema/source/json/json.go) and plain
// float64 are both accepted, since callers may hand in either.
func jsonKind(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case json.Number:
		if isIntegerNumber(string(t)) {
			return "integer"
		}
		return "number"
	case float64:
		if t == math.Trunc(t) && !math.IsInf(t, 0) {
			return "integer"
		}
		return "number"
	case int, int32, int64:
		return "integer"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	default:
		return "unknown"
	}
}

// isIntegerNumber reports whether a JSON number's literal text denotes an
// integer: no fractional part, and any exponent is non-negative and large
// enough to absorb the fraction.
func isIntegerNumber(lit string) bool {
	f, ok := new(big.Float).SetString(lit)
	if !ok {
		return false
	}
	return f.IsInt()
}

// toBigFloat converts a decoded number value (json.Number, float64, or a Go
// integer type) to a *big.Float for exact-as-possible comparison. ok is
// false if v is not a number at all.
func toBigFloat(v any) (*big.Float, bool) {
	switch t := v.(type) {
	case json.Number:
		f, ok := new(big.Float).SetString(string(t))
		return f, ok
	case float64:
		return new(big.Float).SetFloat64(t), true
	case int:
		return new(big.Float).SetInt64(int64(t)), true
	case int64:
		return new(big.Float).SetInt64(t), true
	default:
		return nil, false
	}
}

// deepEqualJSON compares two decoded JSON values for equality under
// JSON Schema's const/enum semantics: numbers compare by mathematical
// value regardless of representation (1 == 1.0 == 1e0), objects compare
// key-set and recursively (order-independent), arrays compare
// element-wise and order-sensitively.
func deepEqualJSON(a, b any) bool {
	ak, bk := jsonKindLoose(a), jsonKindLoose(b)
	if ak != bk {
		return false
	}
	switch ak {
	case "null":
		return true
	case "boolean":
		return a.(bool) == b.(bool)
	case "string":
		return a.(string) == b.(string)
	case "number":
		fa, ok1 := toBigFloat(a)
		fb, ok2 := toBigFloat(b)
		return ok1 && ok2 && fa.Cmp(fb) == 0
	case "array":
		aa, bb := a.([]any), b.([]any)
		if len(aa) != len(bb) {
			return false
		}
		for i := range aa {
			if !deepEqualJSON(aa[i], bb[i]) {
				return false
			}
		}
		return true
	case "object":
		am, bm := a.(map[string]any), b.(map[string]any)
		if len(am) != len(bm) {
			return false
		}
		for k, av := range am {
			bv, ok := bm[k]
			if !ok || !deepEqualJSON(av, bv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// jsonKindLoose is jsonKind but collapses integer into number, for value
// comparison where the distinction is irrelevant.
func jsonKindLoose(v any) string {
	k := jsonKind(v)
	if k == "integer" {
		return "number"
	}
	return k
}

// sortedKeys returns an object's keys in sorted order, for deterministic
// iteration during compilation and evaluation (grounded on
// _examples/reoring-goskema/dsl/object_core.go's sortedKnownKeys, which
// keeps output ordering reproducible regardless of Go map iteration).
func sortedKeys[V any](m map[string]V) []string {
	ks := make([]string, 0, len(m))
	for k := range m {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}

// asString type-asserts v as a string schema value (e.g. a keyword's raw
// argument), returning ok=false for anything else.
func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// asArray type-asserts v as a JSON array.
func asArray(v any) ([]any, bool) {
	a, ok := v.([]any)
	return a, ok
}

// asObject type-asserts v as a JSON object.
func asObject(v any) (map[string]any, bool) {
	o, ok := v.(map[string]any)
	return o, ok
}
