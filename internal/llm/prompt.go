package llm

import (
	"encoding/json"
	"strings"
)

const jsonOnly = "Return ONLY a JSON object that matches the provided JSON Schema. Never output null; omit optional fields instead."

func SummarizePrompt(documentText string) Prompt {
	sys := strings.Join([]string{
		"You are a legal expert who summarizes legal documents for non-lawyers.",
		"Write a short plain-language summary of what the document does and who it binds.",
		"Then list the key points a signer should know (obligations, durations, governing law, remedies).",
		jsonOnly,
	}, " ")
	return Prompt{
		Operation: OpSummarize,
		System:    sys,
		User:      "Document Text:\n" + documentText,
		Schema:    SummarySchema(),
	}
}

func IdentifyRisksPrompt(documentText string) Prompt {
	sys := strings.Join([]string{
		"You are an expert legal analyst. Your task is to identify potentially risky or ambiguous clauses within a given legal document.",
		"For each risky clause you identify, you must:",
		"1. Extract the exact text of the clause.",
		`2. Specify its location within the document (e.g., "Section 3" or "Paragraph 2").`,
		"3. Provide exactly three distinct and actionable suggestions for how to rephrase or improve the clause to mitigate the risk.",
		`Each entry in "riskyClauses" has "clause", "location" and "suggestions" (an array of three strings).`,
		"If no risky clauses are found, return an empty array.",
		jsonOnly,
	}, "\n")
	return Prompt{
		Operation: OpIdentifyRisks,
		System:    sys,
		User:      "Document Text:\n" + documentText,
		Schema:    RiskReportSchema(),
	}
}

func AnswerQueryPrompt(documentText, question string) Prompt {
	sys := strings.Join([]string{
		"You are a legal expert who can answer questions about legal documents.",
		"If the answer is explicitly present in the document, cite the source by including the specific sentence or phrase in \"source\".",
		"If the answer cannot be found in the document, respond that you cannot find the answer in the document.",
		jsonOnly,
	}, " ")
	var b strings.Builder
	b.WriteString("Given the following legal document:\n")
	b.WriteString(documentText)
	b.WriteString("\n\nAnswer the following question:\n")
	b.WriteString(question)
	return Prompt{
		Operation: OpAnswerQuery,
		System:    sys,
		User:      b.String(),
		Schema:    QuerySchema(),
	}
}

func ExplainClausePrompt(clause, documentContext string) Prompt {
	sys := strings.Join([]string{
		"You are a legal expert who specializes in explaining complex legal jargon in plain language.",
		"Given a clause and its surrounding context from a legal document, provide a clear and concise explanation of the clause's meaning.",
		jsonOnly,
	}, " ")
	var b strings.Builder
	b.WriteString("Clause: ")
	b.WriteString(clause)
	b.WriteString("\n\nContext: ")
	b.WriteString(documentContext)
	return Prompt{
		Operation: OpExplainClause,
		System:    sys,
		User:      b.String(),
		Schema:    ExplanationSchema(),
	}
}

// SchemaInstruction renders the schema block appended to prompts for
// providers that take the schema as text.
func SchemaInstruction(schema map[string]any) string {
	return "JSON Schema:\n" + mustJSON(schema)
}

func mustJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
