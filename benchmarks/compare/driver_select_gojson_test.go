//go:build gojson

package compare_test

import (
	goskema "github.com/reoring/jsonschema"
	drv "github.com/reoring/jsonschema/source/gojson"
)

func init() { goskema.SetJSONDriver(drv.Driver()) }
