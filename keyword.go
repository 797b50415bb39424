package jsonschema

// keywordValidator is a compiled, evaluable representation of one keyword
// site (spec.md §3/§4.3). Each concrete type carries its own compiled
// parameters (MaxLength(n), Pattern(re), Items(node), ...) and an absolute
// source location for diagnostics.
//
// evaluate runs the keyword against instance at the location recorded in
// ec, reporting any failure through ec.report, and returns whether the
// keyword was satisfied. Keywords that apply sub-schemas to the complement
// of evaluated keys (unevaluatedProperties/unevaluatedItems) or that need to
// union evaluated-keys across branches (anyOf under unevaluatedProperties)
// read and write ec.scope directly — annotation state is threaded by
// mutable reference through the call graph, never via package-level state
// (spec.md §9, "Annotation state during evaluation").
type keywordValidator interface {
	// keyword returns the keyword name, used for deterministic ordering
	// and diagnostics.
	keyword() string
	// location is the absolute URI of this keyword's source site.
	location() URI
	// evaluate applies the keyword to instance at ec's current location.
	evaluate(ec *evalCtx, instance any) bool
}

// baseKeyword is embedded by every concrete keyword validator to supply the
// keyword name and source location without repeating boilerplate accessors.
type baseKeyword struct {
	name string
	loc  URI
}

func (b baseKeyword) keyword() string { return b.name }
func (b baseKeyword) location() URI   { return b.loc }

// keywordOrder assigns a tie-break rank used when the dialect does not
// mandate an evaluation order (spec.md §3: "where the spec is
// order-insensitive, tie-break by keyword name"). Keywords whose relative
// order is semantically significant (properties before
// additionalProperties before unevaluatedProperties; items/prefixItems
// before additionalItems/unevaluatedItems; if before then/else) are pinned
// to explicit ranks; everything else sorts alphabetically after them.
//
// Grounded on the explicit SetKeywordOrder calls observed in
// other_examples/TykTechnologies-tyk__draft2019_09_keywords.go ($ref first;
// properties/additionalProperties/unevaluatedProperties in that order;
// maxContains/minContains before additionalItems before
// unevaluatedItems; then/else after if).
var keywordRank = map[string]int{
	"$ref":                  0,
	"$dynamicRef":           0,
	"$recursiveRef":         0,
	"if":                    1,
	"properties":            2,
	"patternProperties":     2,
	"then":                  2,
	"else":                  2,
	"maxContains":           2,
	"minContains":           2,
	"allOf":                 2,
	"anyOf":                 2,
	"oneOf":                 2,
	"not":                   2,
	"dependentSchemas":      2,
	"dependentRequired":     2,
	"additionalProperties":  3,
	"additionalItems":       3,
	"unevaluatedProperties": 4,
	"unevaluatedItems":      4,
}

func rankOf(name string) int {
	if r, ok := keywordRank[name]; ok {
		return r
	}
	return 10
}
