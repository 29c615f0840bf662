package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
)

// StripCodeFence removes a surrounding ```json ... ``` block some models emit
// even in JSON mode.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// NormalizeAndSanitizeJSON repairs near-miss responses for op so they can pass
// schema validation. It
//   - renames snake_case synonyms to the expected camelCase keys
//   - drops null and empty optional fields
//   - trims surplus suggestions down to three
//   - removes unknown keys
//
// It returns the cleaned document and a list of the changes it made.
func NormalizeAndSanitizeJSON(op Operation, raw []byte, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}

	var changed []string
	rename := func(obj map[string]any, from, to string) {
		if v, ok := obj[from]; ok {
			if _, exists := obj[to]; !exists {
				obj[to] = v
			}
			delete(obj, from)
			changed = append(changed, from+"->"+to)
		}
	}
	keep := func(obj map[string]any, allowed ...string) {
		for k := range obj {
			found := false
			for _, a := range allowed {
				if k == a {
					found = true
					break
				}
			}
			if !found {
				delete(obj, k)
				changed = append(changed, k+"(unknown)")
			}
		}
	}

	switch op {
	case OpSummarize:
		rename(m, "key_points", "keyPoints")
		if m["keyPoints"] == nil {
			m["keyPoints"] = []any{}
			changed = append(changed, "keyPoints(null)")
		}
		keep(m, "summary", "keyPoints")

	case OpIdentifyRisks:
		rename(m, "risky_clauses", "riskyClauses")
		rename(m, "risks", "riskyClauses")
		clauses, _ := m["riskyClauses"].([]any)
		if m["riskyClauses"] == nil {
			clauses = []any{}
			changed = append(changed, "riskyClauses(null)")
		}
		for _, c := range clauses {
			obj, ok := c.(map[string]any)
			if !ok {
				continue
			}
			rename(obj, "text", "clause")
			rename(obj, "section", "location")
			if obj["location"] == nil {
				obj["location"] = ""
			}
			if s, ok := obj["suggestions"].([]any); ok && len(s) > SuggestionsPerClause {
				obj["suggestions"] = s[:SuggestionsPerClause]
				changed = append(changed, "suggestions(trimmed)")
			}
			keep(obj, "clause", "location", "suggestions")
		}
		m["riskyClauses"] = clauses
		keep(m, "riskyClauses")

	case OpAnswerQuery:
		if v, ok := m["source"]; ok {
			if s, isStr := v.(string); !isStr || strings.TrimSpace(s) == "" {
				delete(m, "source")
				changed = append(changed, "source(empty)")
			}
		}
		keep(m, "answer", "source")

	case OpExplainClause:
		keep(m, "explanation")
	}

	b, err := json.Marshal(m)
	if err != nil {
		return nil, nil, fmt.Errorf("sanitize: encode: %w", err)
	}
	if len(changed) > 0 {
		logger.Debug("llm.sanitize.applied", "op", string(op), "changes", changed)
	}
	return b, changed, nil
}
