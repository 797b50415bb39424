//go:build gojson

package jsonschema_test

import (
	jsonschema "github.com/reoring/jsonschema"
	drv "github.com/reoring/jsonschema/source/gojson"
)

func init() {
	jsonschema.SetJSONDriver(drv.Driver())
}
