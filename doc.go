// Package jsonschema compiles JSON Schema documents (draft 4, 6, 7,
// 2019-09 and 2020-12) into an evaluable validator graph and evaluates
// instances against it.
//
// Design policy:
//   - Keep only public APIs in the root package; put detailed implementations
//     under internal/.
//   - Place JSON/YAML document sources under source/ and yamlsrc/, the CLI
//     under cmd/jsonschema-validate, embedded meta-schemas under meta/.
//   - Compilation (Compile/CompileSchema) is fatal-on-error and produces no
//     partial result; evaluation (Validate) never returns outside the
//     reporter/error-return channel described by its signature.
//
// Typical usage:
//
//	c := jsonschema.NewCompiler()
//	c.AddResource("https://example.com/schema.json", schemaDoc)
//	cs, err := c.Compile("https://example.com/schema.json")
//	violations, err := cs.Validate(instance)
package jsonschema
