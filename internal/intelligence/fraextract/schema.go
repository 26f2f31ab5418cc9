// Package fraextract turns scanned FRA progress reports into records by asking
// a Gemini model for structured output, validating that output locally, and
// normalising it into fra.Record values.
package fraextract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// numericFields are the per-state columns the model reports.  Each may be
// null when the source table says NA or NR.
var numericFields = []string{
	"individualClaimsReceived",
	"communityClaimsReceived",
	"totalClaimsReceived",
	"individualTitlesDistributed",
	"communityTitlesDistributed",
	"totalTitlesDistributed",
	"areaHaIndividual",
	"areaHaCommunity",
	"areaHaTotal",
}

// ModelSchema is the response_schema sent to Gemini.  It uses the OpenAPI
// subset the API accepts, where nullability is a flag rather than a type list.
func ModelSchema() map[string]any {
	rowProps := map[string]any{
		"state": map[string]any{
			"type":        "string",
			"description": "State name in proper case. Never the TOTAL row.",
		},
	}
	for _, f := range numericFields {
		rowProps[f] = map[string]any{"type": "number", "nullable": true}
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"reportInfo": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"date":  map[string]any{"type": "string", "description": "Report date in DD.MM.YYYY format"},
					"year":  map[string]any{"type": "integer"},
					"month": map[string]any{"type": "string", "description": "Month name or number"},
				},
			},
			"statesData": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "object", "properties": rowProps, "required": []string{"state"}},
			},
		},
		"required": []string{"statesData"},
	}
}

// validationSchema is the draft 2020-12 equivalent of ModelSchema used to
// check the raw model output before decoding.
func validationSchema() map[string]any {
	rowProps := map[string]any{
		"state": map[string]any{"type": "string"},
	}
	for _, f := range numericFields {
		rowProps[f] = map[string]any{"type": []string{"number", "null"}}
	}
	return map[string]any{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type":    "object",
		"properties": map[string]any{
			"reportInfo": map[string]any{
				"type": []string{"object", "null"},
				"properties": map[string]any{
					"date":  map[string]any{"type": []string{"string", "null"}},
					"year":  map[string]any{"type": []string{"number", "null"}},
					"month": map[string]any{"type": []string{"string", "number", "null"}},
				},
			},
			"statesData": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "object", "properties": rowProps, "required": []string{"state"}},
			},
		},
		"required": []string{"statesData"},
	}
}

var (
	compiledOnce   sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func compiled() (*jsonschema.Schema, error) {
	compiledOnce.Do(func() {
		b, err := json.Marshal(validationSchema())
		if err != nil {
			compileErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("fra-extraction.json", bytes.NewReader(b)); err != nil {
			compileErr = fmt.Errorf("add schema: %w", err)
			return
		}
		compiledSchema, compileErr = compiler.Compile("fra-extraction.json")
	})
	return compiledSchema, compileErr
}

// ValidateResponse checks raw model output against the extraction schema.
func ValidateResponse(data []byte) error {
	schema, err := compiled()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal model output: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("model output does not match schema: %w", err)
	}
	return nil
}

//Personal.AI order the ending
