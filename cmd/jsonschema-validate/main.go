// Command jsonschema-validate compiles a JSON Schema document and validates
// a JSON instance against it, in the spirit of the reference jsonschema
// CLIs: two positional arguments, a small set of flags, exit code signals
// pass/fail.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	jsonschema "github.com/reoring/jsonschema"
)

func main() {
	fs := flag.NewFlagSet("jsonschema-validate", flag.ExitOnError)
	draft := fs.String("draft", "", "assume this draft when the schema has no $schema (4, 6, 7, 2019, 2020)")
	output := fs.String("output", "flag", "result format: flag (exit code only) or standard (JSON Schema output format)")
	verbose := fs.Bool("v", false, "enable verbose logs")
	fs.Usage = usage
	_ = fs.Parse(os.Args[1:])

	args := fs.Args()
	if len(args) != 2 {
		usage()
		os.Exit(2)
	}
	schemaPath, instancePath := args[0], args[1]

	logf := func(format string, a ...any) {
		if *verbose {
			fmt.Fprintf(os.Stderr, format+"\n", a...)
		}
	}

	var opts []jsonschema.CompileOption
	if *draft != "" {
		dialect, ok := dialectFromFlag(*draft)
		if !ok {
			fatalf("unknown -draft %q (want one of 4, 6, 7, 2019, 2020)", *draft)
		}
		opts = append(opts, dialect)
	}

	schemaData, err := os.ReadFile(schemaPath)
	if err != nil {
		fatalf("reading schema: %v", err)
	}
	var schemaDoc any
	if err := json.Unmarshal(schemaData, &schemaDoc); err != nil {
		fatalf("parsing schema %s: %v", schemaPath, err)
	}
	logf("compiling schema: %s", schemaPath)

	cs, err := jsonschema.CompileSchema(schemaDoc, opts...)
	if err != nil {
		fmt.Fprintln(os.Stderr, "schema is invalid. reason:")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logf("compiled schema ok")

	f, err := os.Open(instancePath)
	if err != nil {
		fatalf("opening %s: %v", instancePath, err)
	}
	defer f.Close()

	instance, err := jsonschema.DecodeJSONReader(f)
	if err != nil {
		fatalf("parsing instance %s: %v", instancePath, err)
	}
	logf("decoded instance: %s", instancePath)

	issues, err := cs.Validate(instance)
	if err != nil {
		fatalf("validate: %v", err)
	}

	switch *output {
	case "standard":
		printStandardOutput(issues)
	default:
		printFlagOutput(issues, instancePath)
	}

	if len(issues) > 0 {
		os.Exit(1)
	}
}

func dialectFromFlag(s string) (jsonschema.CompileOption, bool) {
	switch s {
	case "4":
		return jsonschema.WithDefaultDialect(jsonschema.Draft4), true
	case "6":
		return jsonschema.WithDefaultDialect(jsonschema.Draft6), true
	case "7":
		return jsonschema.WithDefaultDialect(jsonschema.Draft7), true
	case "2019":
		return jsonschema.WithDefaultDialect(jsonschema.Draft2019), true
	case "2020":
		return jsonschema.WithDefaultDialect(jsonschema.Draft2020), true
	default:
		return nil, false
	}
}

func printFlagOutput(issues jsonschema.Issues, instancePath string) {
	if len(issues) == 0 {
		fmt.Printf("%s: valid\n", instancePath)
		return
	}
	fmt.Printf("%s: invalid\n", instancePath)
	for _, iss := range issues {
		fmt.Printf("  %s: %s (%s)\n", iss.InstanceLocation, iss.Message, iss.Keyword)
	}
}

// printStandardOutput renders issues using the shape described by the JSON
// Schema "Standard" output format (valid/errors with instanceLocation,
// keywordLocation and error).
func printStandardOutput(issues jsonschema.Issues) {
	type entry struct {
		InstanceLocation string `json:"instanceLocation"`
		KeywordLocation  string `json:"keywordLocation"`
		Error            string `json:"error"`
	}
	out := struct {
		Valid  bool    `json:"valid"`
		Errors []entry `json:"errors,omitempty"`
	}{Valid: len(issues) == 0}
	for _, iss := range issues {
		out.Errors = append(out.Errors, entry{
			InstanceLocation: iss.InstanceLocation,
			KeywordLocation:  iss.SchemaLocation,
			Error:            iss.Message,
		})
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(out)
}

func usage() {
	fmt.Fprintln(os.Stderr, `jsonschema-validate: validate a JSON instance against a JSON Schema document

Usage:
  jsonschema-validate [-draft 4|6|7|2019|2020] [-output flag|standard] [-v] <schema.json> <instance.json>

Flags:`)
	flag.CommandLine.SetOutput(os.Stderr)
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
