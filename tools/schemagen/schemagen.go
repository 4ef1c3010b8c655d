// Package main generates JSON schemas for the summary structs emitted by
// csvfang --format json.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"github.com/Sumatoshi-tech/csvfang/internal/report"
)

// Schema is the subset of JSON Schema draft-07 the summaries need.
type Schema struct {
	Schema      string             `json:"$schema,omitempty"`
	Title       string             `json:"title,omitempty"`
	Description string             `json:"description,omitempty"`
	Type        string             `json:"type,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

func main() {
	outputDir := flag.String("o", "docs/schemas", "Output directory for schemas")
	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	summaries := []struct {
		name  string
		title string
		value any
	}{
		{"split_summary", "Split Summary", report.Summary{}},
		{"count_summary", "Count Summary", report.CountSummary{}},
	}

	for _, s := range summaries {
		if err := writeSchema(*outputDir, s.name, schemaFor(s.title, s.value)); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing schema for %s: %v\n", s.name, err)
			os.Exit(1)
		}

		fmt.Printf("Generated schema for %s\n", s.name)
	}
}

func schemaFor(title string, v any) *Schema {
	props, required := structProperties(reflect.TypeOf(v))

	return &Schema{
		Schema:      "https://json-schema.org/draft-07/schema#",
		Title:       title,
		Description: fmt.Sprintf("%s emitted by csvfang in JSON format", title),
		Type:        "object",
		Properties:  props,
		Required:    required,
	}
}

func structProperties(t reflect.Type) (map[string]*Schema, []string) {
	props := make(map[string]*Schema)

	var required []string

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		jsonTag := field.Tag.Get("json")
		if jsonTag == "" || jsonTag == "-" {
			continue
		}

		parts := strings.Split(jsonTag, ",")
		name := parts[0]
		props[name] = fieldSchema(field.Type)

		if !slices.Contains(parts[1:], "omitempty") {
			required = append(required, name)
		}
	}

	return props, required
}

func fieldSchema(t reflect.Type) *Schema {
	switch t.Kind() {
	case reflect.String:
		return &Schema{Type: "string"}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Schema{Type: "integer"}

	case reflect.Float32, reflect.Float64:
		return &Schema{Type: "number"}

	case reflect.Bool:
		return &Schema{Type: "boolean"}

	case reflect.Slice:
		return &Schema{Type: "array", Items: fieldSchema(t.Elem())}

	default:
		return &Schema{Type: "object"}
	}
}

func writeSchema(dir, name string, schema *Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	return os.WriteFile(filepath.Join(dir, name+".json"), data, 0o644)
}
