//go:build jsonv2

package jsonschema_test

import (
	jsonschema "github.com/reoring/jsonschema"
	drv "github.com/reoring/jsonschema/source/jsonv2"
)

func init() {
	jsonschema.SetJSONDriver(drv.Driver())
}
