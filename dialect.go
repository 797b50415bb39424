package jsonschema

import "strings"

// dialectTag names one of the five supported JSON Schema drafts (spec.md
// §2, "Dialect"). It gates which keywords a schema node recognizes and how
// $recursiveRef/$dynamicRef, $id, and boolean-schema handling behave.
type dialectTag int

const (
	dialectUnknown dialectTag = iota
	Draft4
	Draft6
	Draft7
	Draft2019
	Draft2020
)

func (d dialectTag) String() string {
	switch d {
	case Draft4:
		return "draft4"
	case Draft6:
		return "draft6"
	case Draft7:
		return "draft7"
	case Draft2019:
		return "2019-09"
	case Draft2020:
		return "2020-12"
	default:
		return "unknown"
	}
}

// metaSchemaID is the canonical $schema URI for each dialect, used both to
// detect a document's dialect from its own $schema keyword and to seed the
// embedded meta-schema resolver (meta/).
var metaSchemaID = map[dialectTag]string{
	Draft4:    "http://json-schema.org/draft-04/schema#",
	Draft6:    "http://json-schema.org/draft-06/schema#",
	Draft7:    "http://json-schema.org/draft-07/schema#",
	Draft2019: "https://json-schema.org/draft/2019-09/schema",
	Draft2020: "https://json-schema.org/draft/2020-12/schema",
}

var idBySchemaID map[string]dialectTag

func init() {
	idBySchemaID = make(map[string]dialectTag, len(metaSchemaID))
	for tag, id := range metaSchemaID {
		idBySchemaID[id] = tag
		idBySchemaID[strings.TrimSuffix(id, "#")] = tag
	}
}

// dialectFromSchemaID maps a $schema URI (with or without trailing '#') to
// a dialectTag, per spec.md §4.1's dialect-detection rule. ok is false for
// an unrecognized URI.
func dialectFromSchemaID(id string) (dialectTag, bool) {
	id = strings.TrimSuffix(strings.TrimSpace(id), "#")
	tag, ok := idBySchemaID[id]
	return tag, ok
}

// idKeyword returns the identifier keyword this dialect uses for schema
// resource boundaries: "id" pre-draft-6, "$id" from draft-6 onward.
func (d dialectTag) idKeyword() string {
	if d == Draft4 {
		return "id"
	}
	return "$id"
}

// supportsDynamicRef reports whether $dynamicRef/$dynamicAnchor (rather
// than the 2019-09 $recursiveRef/$recursiveAnchor) are in play.
func (d dialectTag) supportsDynamicRef() bool { return d == Draft2020 }

// supportsRecursiveRef reports whether $recursiveRef/$recursiveAnchor
// (2019-09 only) are in play.
func (d dialectTag) supportsRecursiveRef() bool { return d == Draft2019 }

// booleanSchemasAllowed reports whether `true`/`false` are valid schemas.
// Draft 4 predates boolean schemas; every later dialect allows them.
func (d dialectTag) booleanSchemasAllowed() bool { return d != Draft4 }

// itemsIsTupleArray reports whether this dialect's "items" keyword, when
// given a JSON array, means positional (tuple) validation (draft4..2019-09)
// as opposed to 2020-12's split into prefixItems + items.
func (d dialectTag) itemsIsTupleArray() bool { return d != Draft2020 }

// dependenciesSplit reports whether "dependencies" has already been split
// into dependentRequired/dependentSchemas (draft2019 onward) or is still
// the single overloaded "dependencies" keyword (draft4..7).
func (d dialectTag) dependenciesSplit() bool { return d == Draft2019 || d == Draft2020 }

// exclusiveBoundsAreNumeric reports whether exclusiveMinimum/exclusiveMaximum
// take a numeric bound directly (draft6+) as opposed to draft4's boolean
// modifier paired with minimum/maximum.
func (d dialectTag) exclusiveBoundsAreNumeric() bool { return d != Draft4 }

// hasUnevaluated reports whether unevaluatedProperties/unevaluatedItems
// are recognized keywords in this dialect.
func (d dialectTag) hasUnevaluated() bool { return d == Draft2019 || d == Draft2020 }

// contentSchemaKeyword reports whether "contentSchema" (2019-09+) is
// recognized, versus only contentMediaType/contentEncoding (draft7).
func (d dialectTag) hasContentSchema() bool { return d == Draft2019 || d == Draft2020 }
