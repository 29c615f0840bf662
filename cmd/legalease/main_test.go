package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/legalease/constants"
	"github.com/joseph-ayodele/legalease/internal/analysis"
)

// fakeOpenAI answers each analysis operation with a canned JSON object,
// keyed on the system prompt.
func fakeOpenAI(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		system := req.Messages[0].Content

		var content string
		switch {
		case strings.Contains(system, "summarizes legal documents"):
			content = `{"summary":"A mutual NDA between two companies.","keyPoints":["Five year confidentiality","California law"]}`
		case strings.Contains(system, "risky or ambiguous clauses"):
			content = `{"riskyClauses":[{"clause":"shall survive for a period of five (5) years","location":"Section 6","suggestions":["Shorten the term.","Carve out trade secrets.","Allow early termination."]}]}`
		case strings.Contains(system, "answer questions"):
			content = `{"answer":"Five years.","source":"Section 6"}`
		case strings.Contains(system, "plain language"):
			content = `{"explanation":"Both sides must keep secrets for five years."}`
		default:
			t.Errorf("unexpected prompt: %s", system)
		}
		b, _ := json.Marshal(map[string]any{
			"choices": []map[string]any{{"message": map[string]any{"role": "assistant", "content": content}}},
		})
		_, _ = w.Write(b)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAnalyzeCommand(t *testing.T) {
	srv := fakeOpenAI(t)
	dir := t.TempDir()
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("LLM_API_KEY", "sk-test")
	t.Setenv("LLM_BASE_URL", srv.URL)
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("VIEW_STORE", "memory")
	t.Setenv("DB_URL", "sqlite://"+filepath.Join(dir, "ledger.db"))

	report := filepath.Join(dir, "nda.xlsx")
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{
		"analyze", "--sample", "--json",
		"-q", "How long does confidentiality last?",
		"--explain", "shall survive for a period of five (5) years",
		"-o", report,
	})
	require.NoError(t, rootCmd.Execute())

	var sess analysis.Session
	require.NoError(t, json.Unmarshal(out.Bytes(), &sess))
	assert.Equal(t, constants.ViewAnalyzed, sess.ViewState)
	assert.Equal(t, analysis.SampleDocument, sess.Document.Text)
	assert.Equal(t, "A mutual NDA between two companies.", sess.Summary.Summary)
	require.Len(t, sess.RiskReport.RiskyClauses, 1)
	assert.Equal(t, "Five years.", sess.Query.Answer)
	assert.Equal(t, "Both sides must keep secrets for five years.", sess.Explanation.Explanation)

	info, err := os.Stat(report)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	out.Reset()
	rootCmd.SetArgs([]string{"db", "check"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "DB health: OK (sqlite3)")
	assert.Contains(t, out.String(), "ANALYZED: 1")
}

func TestBatchCommand(t *testing.T) {
	srv := fakeOpenAI(t)
	dir := t.TempDir()
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("LLM_API_KEY", "sk-test")
	t.Setenv("LLM_BASE_URL", srv.URL)
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("DB_URL", "")

	docs := filepath.Join(dir, "docs")
	require.NoError(t, os.MkdirAll(docs, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(docs, "nda.txt"), []byte("The parties agree to keep all information confidential."), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(docs, "same.md"), []byte("The parties agree to keep all information confidential."), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(docs, "notes.docx"), []byte("ignored"), 0o644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"batch", "--workers", "1", docs})
	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, out.String(), "- Documents found: 2")
	assert.Contains(t, out.String(), "- Analyzed: 1")
	assert.Contains(t, out.String(), "- Duplicates: 1")
	_, err := os.Stat(filepath.Join(docs, "nda.txt.analysis.xlsx"))
	assert.NoError(t, err)
}
