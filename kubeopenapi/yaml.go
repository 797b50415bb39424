package kubeopenapi

import (
	"bytes"
	"errors"
	"io"

	jsonschema "github.com/reoring/jsonschema"
	"gopkg.in/yaml.v3"
)

// ImportYAMLForCRDKind scans a multi-document YAML (e.g., a CRD bundle) and
// imports the first CustomResourceDefinition whose spec.names.kind matches
// kind.
func ImportYAMLForCRDKind(data []byte, kind string, opts Options) (*jsonschema.CompiledSchema, Diag, error) {
	return scanYAMLForCRD(data, opts, func(m map[string]any) bool {
		spec, ok := m["spec"].(map[string]any)
		if !ok {
			return false
		}
		names, ok := spec["names"].(map[string]any)
		if !ok {
			return false
		}
		k, _ := names["kind"].(string)
		return k == kind
	})
}

// ImportYAMLForCRDName scans a multi-document YAML and imports the CRD with
// the given metadata.name.
func ImportYAMLForCRDName(data []byte, name string, opts Options) (*jsonschema.CompiledSchema, Diag, error) {
	return scanYAMLForCRD(data, opts, func(m map[string]any) bool {
		meta, ok := m["metadata"].(map[string]any)
		if !ok {
			return false
		}
		n, _ := meta["name"].(string)
		return n == name
	})
}

func scanYAMLForCRD(data []byte, opts Options, match func(map[string]any) bool) (*jsonschema.CompiledSchema, Diag, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	for {
		var node any
		if err := dec.Decode(&node); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, &simpleDiag{}, err
		}
		m := yamlAnyToStringMap(node)
		if m == nil {
			continue
		}
		if k, _ := m["kind"].(string); k != "CustomResourceDefinition" {
			continue
		}
		if match(m) {
			return Import(m, opts)
		}
	}
	return nil, &simpleDiag{}, errors.New("kubeopenapi: matching CustomResourceDefinition not found in YAML bundle")
}

// yamlAnyToStringMap normalizes a gopkg.in/yaml.v3-decoded value (which may
// use map[string]any, unlike v2's map[interface{}]interface{}) into the
// map[string]any tree the rest of this package and the compiler expect.
// Non-map roots return nil.
func yamlAnyToStringMap(v any) map[string]any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = yamlNormalizeValue(vv)
		}
		return out
	default:
		return nil
	}
}

func yamlNormalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return yamlAnyToStringMap(t)
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = yamlNormalizeValue(t[i])
		}
		return arr
	default:
		return v
	}
}
