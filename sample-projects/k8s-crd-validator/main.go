package main

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"

	jsonschema "github.com/reoring/jsonschema"
	"github.com/reoring/jsonschema/kubeopenapi"
	"gopkg.in/yaml.v3"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	switch command {
	case "validate":
		if len(os.Args) < 3 {
			fmt.Fprintf(os.Stderr, "Usage: %s validate <file|->", os.Args[0])
			os.Exit(1)
		}
		filename := os.Args[2]
		if err := validateWidget(filename); err != nil {
			fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Validation passed!")

	case "schema":
		if err := showSchema(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to show schema: %v\n", err)
			os.Exit(1)
		}

	case "demo":
		if err := runDemo(); err != nil {
			fmt.Fprintf(os.Stderr, "Demo failed: %v\n", err)
			os.Exit(1)
		}

	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`Kubernetes CRD Validator Sample

Usage: %s <command> [args...]

Commands:
  validate <file|->     Validate a Widget resource from file or stdin
  schema                Show the source openAPIV3Schema for Widget
  demo                  Run validation demo with sample files

Examples:
  %s validate valid-widget.yaml
  %s validate invalid-widget.yaml
  kubectl get widgets my-widget -o yaml | %s validate -
  %s demo

`, os.Args[0], os.Args[0], os.Args[0], os.Args[0], os.Args[0])
}

func loadCRDSchema() (*jsonschema.CompiledSchema, error) {
	crdData, err := os.ReadFile("widget-crd.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read CRD file: %w", err)
	}

	schema, diag, err := kubeopenapi.ImportYAMLForCRDKind(
		crdData,
		"Widget",
		kubeopenapi.Options{
			Profile: kubeopenapi.ProfileStructuralV1,
			Unknown: kubeopenapi.UnknownStrict,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to import CRD schema: %w", err)
	}

	if diag.HasWarnings() {
		for _, warning := range diag.Warnings() {
			fmt.Fprintf(os.Stderr, "warning: %s\n", warning)
		}
	}

	return schema, nil
}

func validateWidget(filename string) error {
	schema, err := loadCRDSchema()
	if err != nil {
		return err
	}

	var reader io.Reader
	if filename == "-" {
		reader = os.Stdin
		fmt.Fprintf(os.Stderr, "Reading from stdin...\n")
	} else {
		file, err := os.Open(filename)
		if err != nil {
			return fmt.Errorf("failed to open file %s: %w", filename, err)
		}
		defer file.Close()
		reader = file
		fmt.Fprintf(os.Stderr, "Validating %s...\n", filename)
	}

	yamlData, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	var instance any
	if err := yaml.Unmarshal(yamlData, &instance); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	instance = normalizeYAML(instance)

	issues, err := schema.Validate(instance)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if len(issues) > 0 {
		return handleValidationIssues(issues)
	}

	fmt.Fprintf(os.Stderr, "Resource is valid!\n")

	if m, ok := instance.(map[string]any); ok {
		if metadata, ok := m["metadata"].(map[string]any); ok {
			if name, ok := metadata["name"].(string); ok {
				fmt.Fprintf(os.Stderr, "  Name: %s\n", name)
			}
		}
		if spec, ok := m["spec"].(map[string]any); ok {
			if size, ok := spec["size"].(string); ok {
				fmt.Fprintf(os.Stderr, "  Size: %s\n", size)
			}
			if replicas, ok := spec["replicas"]; ok {
				fmt.Fprintf(os.Stderr, "  Replicas: %v\n", replicas)
			}
		}
	}

	return nil
}

func handleValidationIssues(issues jsonschema.Issues) error {
	fmt.Fprintf(os.Stderr, "Validation failed with %d issue(s):\n\n", len(issues))
	for i, issue := range issues {
		fmt.Fprintf(os.Stderr, "  %d. %s at %s\n", i+1, issue.Message, issue.InstanceLocation)
		fmt.Fprintf(os.Stderr, "     Keyword: %s\n", issue.Keyword)
		fmt.Fprintf(os.Stderr, "\n")
	}
	return fmt.Errorf("validation failed with %d issue(s)", len(issues))
}

// normalizeYAML converts yaml.v3's map[string]interface{} tree (already
// string-keyed, unlike yaml.v2) into the plain map[string]any/[]any shape
// expected by the schema evaluator, recursing through nested containers.
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = normalizeYAML(vv)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = normalizeYAML(t[i])
		}
		return out
	default:
		return v
	}
}

func showSchema() error {
	crdData, err := os.ReadFile("widget-crd.yaml")
	if err != nil {
		return fmt.Errorf("failed to read CRD file: %w", err)
	}
	var crd map[string]any
	dec := yaml.NewDecoder(bytes.NewReader(crdData))
	if err := dec.Decode(&crd); err != nil {
		return fmt.Errorf("failed to parse CRD file: %w", err)
	}

	fmt.Println("CRD document (openAPIV3Schema is compiled directly, not re-rendered):")
	fmt.Println()
	data, err := yaml.Marshal(crd)
	if err != nil {
		return fmt.Errorf("failed to marshal CRD: %w", err)
	}
	fmt.Print(string(data))
	return nil
}

func runDemo() error {
	fmt.Println("Running CRD Validation Demo")
	fmt.Println("===========================")
	fmt.Println()

	fmt.Println("1. Testing valid Widget resource:")
	fmt.Println("----------------------------------")
	if err := validateWidget("valid-widget.yaml"); err != nil {
		return fmt.Errorf("valid widget test failed: %w", err)
	}
	fmt.Println()

	fmt.Println("2. Testing invalid Widget resource:")
	fmt.Println("------------------------------------")
	if err := validateWidget("invalid-widget.yaml"); err != nil {
		fmt.Fprintf(os.Stderr, "Expected validation failure: %v\n", err)
	}
	fmt.Println()

	fmt.Println("3. CRD document:")
	fmt.Println("--------------------------")
	if err := showSchema(); err != nil {
		return fmt.Errorf("schema display failed: %w", err)
	}

	fmt.Println()
	fmt.Println("Demo completed!")
	return nil
}

func init() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}
