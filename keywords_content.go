package jsonschema

import "encoding/base64"

// contentEncodingKeyword implements "contentEncoding". Per the JSON Schema
// core spec these are annotation keywords, not assertions, unless a
// compiler opts into AssertContent (mirroring the format/AssertFormat
// Open Question resolution in format.go): most schemas use them purely to
// document structure, and none of the reference implementations in the
// retrieval pack validate them by default.
type contentEncodingKeyword struct {
	baseKeyword
	encoding string
	assert   bool
}

func (k *contentEncodingKeyword) evaluate(ec *evalCtx, instance any) bool {
	if !k.assert {
		return true
	}
	s, ok := instance.(string)
	if !ok {
		return true
	}
	switch k.encoding {
	case "base64":
		if _, err := base64.StdEncoding.DecodeString(s); err != nil {
			ec.report(Issue{
				InstanceLocation: ec.loc,
				SchemaLocation:   k.loc.String(),
				Keyword:          "contentEncoding",
				Message:          "value is not valid base64",
			})
			return false
		}
	}
	return true
}

// contentSchemaKeyword implements "contentSchema" (2019-09+): an
// annotation-only keyword describing the schema of the decoded content. It
// never applies to the (still string-encoded) instance directly, so it is
// never assertive; it is kept as a compiled node purely so tooling that
// walks the validator graph can find it.
type contentSchemaKeyword struct {
	baseKeyword
	schema *schemaNode
}

func (k *contentSchemaKeyword) evaluate(ec *evalCtx, instance any) bool {
	return true
}
