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

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newOpenAIStub serves a fixed chat completion and records request bodies.
func newOpenAIStub(t *testing.T, content string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":    "chatcmpl-test",
			"model": "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]string{"role": "assistant", "content": content},
			}},
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func runCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("HOME", t.TempDir())

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--log-level", "error"}, args...))

	err := root.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := runCommand(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "formsiq dev\n", out)
}

func TestFieldsCommand(t *testing.T) {
	out, err := runCommand(t, "", "fields")
	require.NoError(t, err)

	for _, name := range []string{"Borrower Name", "Co-Borrower Name", "Loan Amount", "Loan Purpose", "Property Address", "Annual Income", "Employer Name"} {
		assert.Contains(t, out, name)
	}
}

func TestExtractCommand(t *testing.T) {
	stub := newOpenAIStub(t, "Borrower Name: John Doe\nLoan Amount: $250,000\nEmployer Name: Not specified")
	t.Setenv("FORMSIQ_LLM_BASE_URL", stub.URL)
	t.Setenv("OPENAI_API_KEY", "test-key")

	transcript := "My name is John Doe and I need a loan of $250,000"

	tests := []struct {
		name  string
		stdin string
		args  []string
	}{
		{name: "text flag", args: []string{"extract", "--provider", "openai", "--format", "json", "--text", transcript}},
		{name: "stdin", stdin: transcript, args: []string{"extract", "--provider", "openai", "--format", "json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCommand(t, tt.stdin, tt.args...)
			require.NoError(t, err)

			var resp struct {
				Fields []struct {
					FieldName  string  `json:"field_name"`
					FieldValue string  `json:"field_value"`
					Confidence float64 `json:"confidence_score"`
				} `json:"fields"`
			}
			require.NoError(t, json.Unmarshal([]byte(out), &resp))
			require.Len(t, resp.Fields, 2)
			assert.Equal(t, "Borrower Name", resp.Fields[0].FieldName)
			assert.Equal(t, "John Doe", resp.Fields[0].FieldValue)
			assert.Equal(t, "Loan Amount", resp.Fields[1].FieldName)
			assert.Equal(t, "$250,000", resp.Fields[1].FieldValue)
			for _, f := range resp.Fields {
				assert.GreaterOrEqual(t, f.Confidence, 0.0)
				assert.LessOrEqual(t, f.Confidence, 1.0)
			}
		})
	}
}

func TestExtractCommand_PlainFormat(t *testing.T) {
	stub := newOpenAIStub(t, "Loan Purpose: Refinance")
	t.Setenv("FORMSIQ_LLM_BASE_URL", stub.URL)
	t.Setenv("OPENAI_API_KEY", "test-key")

	out, err := runCommand(t, "", "extract", "--provider", "openai", "--format", "plain",
		"--text", "I want to Refinance my home")
	require.NoError(t, err)
	assert.Equal(t, "Loan Purpose: Refinance (Confidence: 1.00)\n", out)
}

func TestExtractCommand_Errors(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "blank transcript",
			args:    []string{"extract", "--provider", "openai", "--text", "   "},
			wantErr: "Please enter a transcript.",
		},
		{
			name:    "unknown format",
			args:    []string{"extract", "--format", "xml", "--text", "hello"},
			wantErr: `Unknown output format "xml"`,
		},
		{
			name:    "missing api key",
			args:    []string{"extract", "--provider", "openai", "--text", "hello"},
			wantErr: "No API key for openai",
		},
		{
			name:    "unknown provider",
			args:    []string{"extract", "--provider", "cohere", "--text", "hello"},
			wantErr: "Invalid configuration",
		},
		{
			name:    "missing file",
			args:    []string{"extract", filepath.Join(os.TempDir(), "formsiq-missing.txt")},
			wantErr: "Could not read transcript file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCommand(t, "", tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCollectTranscripts(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.txt", "a.TXT", "notes.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.txt"), 0o750))
	single := filepath.Join(dir, "notes.md")

	files, err := collectTranscripts([]string{dir, single, filepath.Join(dir, "b.txt")}, ".txt")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.TXT"),
		filepath.Join(dir, "b.txt"),
		single,
	}, files)

	_, err = collectTranscripts([]string{filepath.Join(dir, "missing")}, ".txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Cannot read")
}

func TestBatchCommand(t *testing.T) {
	stub := newOpenAIStub(t, "Borrower Name: Jane Smith")
	t.Setenv("FORMSIQ_LLM_BASE_URL", stub.URL)
	t.Setenv("OPENAI_API_KEY", "test-key")

	in := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "results")
	require.NoError(t, os.WriteFile(filepath.Join(in, "call1.txt"), []byte("This is Jane Smith calling."), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(in, "call2.txt"), []byte("My name is Jane Smith."), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(in, "blank.txt"), []byte("  \n"), 0o600))

	out, err := runCommand(t, "", "batch", "--provider", "openai", "--out", outDir, "-c", "2", in)
	require.NoError(t, err)
	assert.Contains(t, out, "Batch Complete")
	assert.Contains(t, out, "Transcripts processed: 2 of 3")
	assert.Contains(t, out, "Skipped (empty): 1")

	for _, name := range []string{"call1.json", "call2.json"} {
		data, err := os.ReadFile(filepath.Join(outDir, name))
		require.NoError(t, err)

		var result batchResult
		require.NoError(t, json.Unmarshal(data, &result))
		assert.NotEmpty(t, result.RunID)
		assert.Equal(t, filepath.Join(in, strings.TrimSuffix(name, ".json")+".txt"), result.Source)
		require.Len(t, result.Fields, 1)
		assert.Equal(t, "Jane Smith", result.Fields[0].Value)
	}

	_, err = os.Stat(filepath.Join(outDir, "blank.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestBatchCommand_NoFiles(t *testing.T) {
	_, err := runCommand(t, "", "batch", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No transcript files found")
}

func TestResultNames(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		want  []string
	}{
		{
			name:  "distinct",
			files: []string{"/a/call1.txt", "/a/call2.txt"},
			want:  []string{"call1.json", "call2.json"},
		},
		{
			name:  "same base name in different directories",
			files: []string{"/a/call.txt", "/b/call.txt", "/c/call.txt"},
			want:  []string{"call.json", "call-2.json", "call-3.json"},
		},
		{
			name:  "suffix already taken",
			files: []string{"/a/call.txt", "/a/call-2.txt", "/b/call.txt"},
			want:  []string{"call.json", "call-2.json", "call-3.json"},
		},
		{
			name:  "differs only by case",
			files: []string{"/a/Call.txt", "/b/call.TXT"},
			want:  []string{"Call.json", "call-2.json"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resultNames(tt.files))
		})
	}
}

func TestBatchCommand_SameBaseName(t *testing.T) {
	stub := newOpenAIStub(t, "Borrower Name: Jane Smith")
	t.Setenv("FORMSIQ_LLM_BASE_URL", stub.URL)
	t.Setenv("OPENAI_API_KEY", "test-key")

	root := t.TempDir()
	dirs := []string{filepath.Join(root, "monday"), filepath.Join(root, "tuesday")}
	for _, dir := range dirs {
		require.NoError(t, os.Mkdir(dir, 0o750))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "call.txt"), []byte("This is Jane Smith calling."), 0o600))
	}
	outDir := filepath.Join(t.TempDir(), "results")

	_, err := runCommand(t, "", "batch", "--provider", "openai", "--out", outDir, "-c", "2", dirs[0], dirs[1])
	require.NoError(t, err)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	sources := make(map[string]string)
	for _, name := range []string{"call.json", "call-2.json"} {
		data, err := os.ReadFile(filepath.Join(outDir, name))
		require.NoError(t, err)

		var result batchResult
		require.NoError(t, json.Unmarshal(data, &result))
		sources[name] = result.Source
	}
	assert.Equal(t, map[string]string{
		"call.json":   filepath.Join(dirs[0], "call.txt"),
		"call-2.json": filepath.Join(dirs[1], "call.txt"),
	}, sources)
}
