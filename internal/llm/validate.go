package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}

// ParseExtraction validates raw model output against the extraction schema
// and decodes it. The date must be a calendar date; anything the model
// returned that cannot be coerced fails the whole extraction.
func ParseExtraction(raw json.RawMessage) (Extraction, time.Time, error) {
	if err := ValidateJSONAgainstSchema(ExtractionSchema(), raw); err != nil {
		return Extraction{}, time.Time{}, err
	}
	var out Extraction
	if err := json.Unmarshal(raw, &out); err != nil {
		return Extraction{}, time.Time{}, fmt.Errorf("decode extraction: %w", err)
	}
	date, err := parseDate(out.Date)
	if err != nil {
		return Extraction{}, time.Time{}, err
	}
	return out, date, nil
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006/01/02",
	"02.01.2006",
}

func parseDate(raw string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if date, err := time.Parse(layout, raw); err == nil {
			return date.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("date %q is not a calendar date", raw)
}
