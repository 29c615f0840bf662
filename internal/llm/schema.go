package llm

// Schemas are JSON-Schema (draft 2020-12 subset) maps. They are embedded in the
// prompt and also used locally to validate what comes back.

func SummarySchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"summary":   map[string]any{"type": "string", "minLength": 1},
			"keyPoints": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
		"required": []string{"summary", "keyPoints"},
	}
}

func RiskReportSchema() map[string]any {
	clause := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"clause":   map[string]any{"type": "string", "minLength": 1},
			"location": map[string]any{"type": "string"},
			"suggestions": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string", "minLength": 1},
				"minItems": SuggestionsPerClause,
				"maxItems": SuggestionsPerClause,
			},
		},
		"required": []string{"clause", "location", "suggestions"},
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"riskyClauses": map[string]any{"type": "array", "items": clause},
		},
		"required": []string{"riskyClauses"},
	}
}

func QuerySchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"answer": map[string]any{"type": "string", "minLength": 1},
			"source": map[string]any{"type": "string"},
		},
		"required": []string{"answer"},
	}
}

func ExplanationSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"explanation": map[string]any{"type": "string", "minLength": 1},
		},
		"required": []string{"explanation"},
	}
}

// SchemaFor returns the response schema of op, or nil for unknown operations.
func SchemaFor(op Operation) map[string]any {
	switch op {
	case OpSummarize:
		return SummarySchema()
	case OpIdentifyRisks:
		return RiskReportSchema()
	case OpAnswerQuery:
		return QuerySchema()
	case OpExplainClause:
		return ExplanationSchema()
	}
	return nil
}
