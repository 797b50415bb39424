package jsonschema

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

// stringLengthKeyword implements minLength/maxLength, counting Unicode
// code points as required by the JSON Schema spec (not bytes, not UTF-16
// code units).
type stringLengthKeyword struct {
	baseKeyword
	limit int
	isMax bool
}

func (k *stringLengthKeyword) evaluate(ec *evalCtx, instance any) bool {
	s, ok := instance.(string)
	if !ok {
		return true
	}
	n := utf8.RuneCountInString(s)
	ok2 := n >= k.limit
	if k.isMax {
		ok2 = n <= k.limit
	}
	if ok2 {
		return true
	}
	rel := "at least"
	if k.isMax {
		rel = "at most"
	}
	ec.report(Issue{
		InstanceLocation: ec.loc,
		SchemaLocation:   k.loc.String(),
		Keyword:          k.name,
		Message:          fmt.Sprintf("string length must be %s %d", rel, k.limit),
		Params:           map[string]any{"limit": k.limit, "length": n},
	})
	return false
}

// patternKeyword implements "pattern". JSON Schema mandates ECMA-262
// regex semantics; Go's regexp is RE2. Like every pure-Go implementation
// in the pack (no PCRE/ECMA engine appears anywhere in the retrieval
// corpus), unsupported ECMA constructs (lookaround, backreferences) are
// rejected at compile time rather than silently mismatched at evaluation
// time.
type patternKeyword struct {
	baseKeyword
	re *regexp.Regexp
}

func (k *patternKeyword) evaluate(ec *evalCtx, instance any) bool {
	s, ok := instance.(string)
	if !ok {
		return true
	}
	if k.re.MatchString(s) {
		return true
	}
	ec.report(Issue{
		InstanceLocation: ec.loc,
		SchemaLocation:   k.loc.String(),
		Keyword:          "pattern",
		Message:          fmt.Sprintf("value does not match pattern %q", k.re.String()),
	})
	return false
}

// formatKeyword implements "format" as an annotation-by-default keyword
// that becomes assertive when the compiler is configured with
// AssertFormat (spec.md §9's format Open Question — resolved to: validate
// recognized formats, silently accept unrecognized ones, matching the
// 2019-09+ vocabulary split where "format-assertion" is opt-in).
type formatKeyword struct {
	baseKeyword
	name_    string
	fn       FormatFunc
	assert   bool
}

func (k *formatKeyword) evaluate(ec *evalCtx, instance any) bool {
	if k.fn == nil || !k.assert {
		return true
	}
	s, ok := instance.(string)
	if !ok {
		return true
	}
	if k.fn(s) {
		return true
	}
	ec.report(Issue{
		InstanceLocation: ec.loc,
		SchemaLocation:   k.loc.String(),
		Keyword:          "format",
		Message:          fmt.Sprintf("value does not satisfy format %q", k.name_),
		Params:           map[string]any{"format": k.name_},
	})
	return false
}
