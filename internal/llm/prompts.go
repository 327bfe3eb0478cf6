package llm

import (
	"encoding/json"
	"strings"
)

// BuildExtractionPrompt assembles the extraction prompt: the task rules, the
// document text and the user's existing marker vocabulary.
func BuildExtractionPrompt(documentText string, existingMarkers []string) string {
	if existingMarkers == nil {
		existingMarkers = []string{}
	}
	names, _ := json.Marshal(existingMarkers)

	var b strings.Builder
	b.WriteString(`You are a medical data extraction assistant. Your task is to extract markers and related information from medical documents.

Task: Extract structured data from the provided medical document content.

Guidelines:
1. Extract the test date, a short document title, any notes, and all markers.
2. Translate all content to English if in another language.
3. For marker names, check the existing marker names first and use a matching one if similar.
4. Only create new marker names when no similar marker exists in the provided list.
5. Ensure all numeric values are properly extracted with their units when possible, if no unit try and infer it from the context.
6. Include reference ranges (min/max) when available.

Document Content:
`)
	b.WriteString(documentText)
	b.WriteString(`

Expected Output Format:
{
  "date": "YYYY-MM-DD",
  "title": "Short document title",
  "notes": "Any notes about the document",
  "markers": [
    {
      "name": "Marker Name",
      "value": "Numeric value as string",
      "unit": "Unit of measurement",
      "category": "Category (e.g., Blood, Urine, etc.)",
      "referenceMin": "Minimum reference value if available",
      "referenceMax": "Maximum reference value if available"
    }
  ]
}

Existing Marker Names (use these when possible):
`)
	b.Write(names)
	return b.String()
}

// BuildFixJSONPrompt asks the model to repair a previous non-JSON response.
func BuildFixJSONPrompt(raw []byte) string {
	var b strings.Builder
	b.WriteString("The following text was supposed to be a single valid JSON object but is not. ")
	b.WriteString("Return the same content as one valid JSON object. Respond with JSON only, no prose.\n\n")
	b.Write(raw)
	return b.String()
}
