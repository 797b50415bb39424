package jsonschema

import "fmt"

// typeKeyword implements "type": a single type name or a list of names,
// any one of which the instance's jsonKind must match.
type typeKeyword struct {
	baseKeyword
	types []string
}

func (k *typeKeyword) evaluate(ec *evalCtx, instance any) bool {
	kind := jsonKind(instance)
	for _, t := range k.types {
		if t == kind {
			return true
		}
		// "integer" is a refinement of "number": a schema asking for
		// "number" accepts an integer-valued instance.
		if t == "number" && kind == "integer" {
			return true
		}
	}
	ec.report(Issue{
		InstanceLocation: ec.loc,
		SchemaLocation:   k.loc.String(),
		Keyword:          "type",
		Message:          fmt.Sprintf("value is %s, want %s", kind, joinOr(k.types)),
		Params:           map[string]any{"want": k.types, "got": kind},
	})
	return false
}

func joinOr(ss []string) string {
	switch len(ss) {
	case 0:
		return ""
	case 1:
		return ss[0]
	default:
		out := ss[0]
		for _, s := range ss[1 : len(ss)-1] {
			out += ", " + s
		}
		out += " or " + ss[len(ss)-1]
		return out
	}
}

// constKeyword implements "const".
type constKeyword struct {
	baseKeyword
	value any
}

func (k *constKeyword) evaluate(ec *evalCtx, instance any) bool {
	if deepEqualJSON(instance, k.value) {
		return true
	}
	ec.report(Issue{
		InstanceLocation: ec.loc,
		SchemaLocation:   k.loc.String(),
		Keyword:          "const",
		Message:          "value does not match the required constant",
	})
	return false
}

// enumKeyword implements "enum".
type enumKeyword struct {
	baseKeyword
	values []any
}

func (k *enumKeyword) evaluate(ec *evalCtx, instance any) bool {
	for _, v := range k.values {
		if deepEqualJSON(instance, v) {
			return true
		}
	}
	ec.report(Issue{
		InstanceLocation: ec.loc,
		SchemaLocation:   k.loc.String(),
		Keyword:          "enum",
		Message:          "value is not one of the enumerated values",
	})
	return false
}
