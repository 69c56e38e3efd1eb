package vision

// SchemaName identifies the response schema in structured-output requests.
const SchemaName = "visual_test_result"

// ResponseSchema returns the JSON schema the provider enforces in
// structured-output mode. Every field is required and no extra properties
// are allowed, matching the strict schema rules of the OpenAI responses API.
func ResponseSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"success": map[string]any{
				"type":        "boolean",
				"description": "Whether the asserted visual condition holds.",
			},
			"reason": map[string]any{
				"type":        "string",
				"description": "Human-readable justification for the verdict.",
			},
			"locators": map[string]any{
				"type":        "array",
				"description": "Playwright locator expressions for the elements supporting the verdict.",
				"items":       map[string]any{"type": "string"},
			},
		},
		"required":             []any{"success", "reason", "locators"},
		"additionalProperties": false,
	}
}
