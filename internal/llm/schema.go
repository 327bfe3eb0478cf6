package llm

// ExtractionSchema is the JSON Schema every extraction output must satisfy.
// Marker fields other than name and value may be null; an empty markers array
// is valid (a document with no extractable markers).
func ExtractionSchema() map[string]any {
	stringOrNull := map[string]any{"type": []string{"string", "null"}}
	return map[string]any{
		"type":     "object",
		"required": []string{"date", "markers"},
		"properties": map[string]any{
			"date":  map[string]any{"type": "string", "minLength": 1},
			"title": stringOrNull,
			"notes": stringOrNull,
			"markers": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []string{"name", "value"},
					"properties": map[string]any{
						"name":         map[string]any{"type": "string", "minLength": 1},
						"value":        map[string]any{"type": "string", "minLength": 1},
						"unit":         stringOrNull,
						"category":     stringOrNull,
						"referenceMin": stringOrNull,
						"referenceMax": stringOrNull,
					},
				},
			},
		},
	}
}
