package jsonschema

import "github.com/reoring/jsonschema/meta"

// metaSchemaDocument serves one of the five bundled meta-schemas as a
// resource document, letting $ref/$schema targets pointing at
// json-schema.org resolve without a configured ResourceLoader.
func metaSchemaDocument(uri string) (any, bool) {
	return meta.Document(uri)
}
