package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/ndpa"
	main "github.com/fwojciec/ndpa/cmd/ndpa"
	"github.com/fwojciec/ndpa/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

const structuredAct = `[
  {
    "part": "PART I - OBJECTIVE AND APPLICATION",
    "sections": [
      {"section_number": "1", "content": "The objective of this Act is to safeguard the fundamental rights and freedoms of data subjects."}
    ]
  },
  {
    "part": "PART V - PRINCIPLES AND LAWFUL BASIS",
    "sections": [
      {"section_number": "25", "content": "Processing is lawful where the data subject has given consent."}
    ]
  }
]`

// writeAct writes the structured act to a temp dir and returns its path.
func writeAct(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ndpa_structured.json")
	require.NoError(t, os.WriteFile(path, []byte(structuredAct), 0644))
	return path
}

func TestMain_Run_Find(t *testing.T) {
	t.Parallel()

	t.Run("prints matching section as JSON", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		stdout := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"--document", writeAct(t), "find", "What does Part V section 25 say?"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		var got map[string]string
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &got))
		assert.Equal(t, "PART V - PRINCIPLES AND LAWFUL BASIS", got["part"])
		assert.Equal(t, "25", got["section_number"])
	})

	t.Run("returns error for missing document", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		stderr := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"--document", filepath.Join(t.TempDir(), "missing.json"), "find", "consent"}, &bytes.Buffer{}, stderr)

		require.Error(t, err)
		assert.Equal(t, ndpa.ENOTFOUND, ndpa.ErrorCode(err))
		assert.Contains(t, stderr.String(), "ndpa prepare")
	})
}

func TestMain_Run_Explain(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	m.Models = &mock.ContentGenerator{
		GenerateContentFn: func(_ context.Context, _ string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			assert.Contains(t, contents[0].Parts[0].Text, "Section: 25")
			return mock.TextResponse("You need a lawful basis such as consent."), nil
		},
	}
	stdout := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{"--document", writeAct(t), "explain", "section 25"}, stdout, &bytes.Buffer{})

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "PART V - PRINCIPLES AND LAWFUL BASIS, Section 25")
	assert.Contains(t, stdout.String(), "You need a lawful basis such as consent.")
}

func TestMain_Run_AskRecordsScores(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	agentCalls := 0
	models := &mock.ContentGenerator{
		GenerateContentFn: func(_ context.Context, _ string, _ []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			if config.ResponseMIMEType == "application/json" {
				return mock.TextResponse(`{"relevant": true, "confidence": 0.8, "explanation": "cites section 25"}`), nil
			}
			mu.Lock()
			defer mu.Unlock()
			agentCalls++
			if agentCalls == 1 {
				return mock.FunctionCallResponse("call-1", ndpa.ToolID, map[string]any{"question": "lawful basis consent"}), nil
			}
			return mock.TextResponse("Section 25 makes processing lawful where the data subject has given consent."), nil
		},
	}

	act := writeAct(t)
	dbPath := filepath.Join(t.TempDir(), "ndpa.db")

	m := main.NewMain()
	m.Models = models
	stdout := &bytes.Buffer{}
	err := m.Run(context.Background(), []string{"--document", act, "--db", dbPath, "ask", "--tools", "Is consent a lawful basis?"}, stdout, &bytes.Buffer{})

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "Section 25 makes processing lawful")
	assert.Contains(t, stdout.String(), "[search-ndpa]")

	// Scores are written before Run returns.
	scoresOut := &bytes.Buffer{}
	err = main.NewMain().Run(context.Background(), []string{"--db", dbPath, "scores"}, scoresOut, &bytes.Buffer{})

	require.NoError(t, err)
	output := scoresOut.String()
	assert.Contains(t, output, "ndpa-tool-call-accuracy")
	assert.Contains(t, output, "completeness")
	assert.Contains(t, output, "ndpa-relevance")
}

func TestMain_Run_AskWithoutScoring(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	m.DBPath = filepath.Join(t.TempDir(), "unused", "ndpa.db")
	m.Models = &mock.ContentGenerator{
		GenerateContentFn: func(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			return mock.TextResponse("Hello."), nil
		},
	}
	stdout := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{"--document", writeAct(t), "ask", "--no-score", "hi"}, stdout, &bytes.Buffer{})

	require.NoError(t, err)
	assert.Equal(t, "Hello.\n", stdout.String())
	assert.Nil(t, m.DB)
	assert.NoFileExists(t, m.DBPath)
}

func TestMain_Run_Prepare(t *testing.T) {
	t.Parallel()

	t.Run("structures a text file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		src := filepath.Join(dir, "ndpa.txt")
		out := filepath.Join(dir, "ndpa_structured.json")
		text := "NIGERIA DATA PROTECTION ACT, 2023\n" +
			"PART I - OBJECTIVE AND APPLICATION\n" +
			"1. - (1) The objective of this Act is to safeguard rights.\n" +
			"2. - This Act applies to processing.\n" +
			"PART II - COMMISSION\n" +
			"4. - (1) There is established the Commission.\n"
		require.NoError(t, os.WriteFile(src, []byte(text), 0644))

		m := main.NewMain()
		stdout := &bytes.Buffer{}
		err := m.Run(context.Background(), []string{"prepare", src, "-o", out}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Wrote 2 parts, 3 sections")

		// The prepared document is immediately usable by find.
		findOut := &bytes.Buffer{}
		err = main.NewMain().Run(context.Background(), []string{"--document", out, "find", "part ii section 4"}, findOut, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Contains(t, findOut.String(), `"section_number": "4"`)
	})

	t.Run("fetches and extracts HTML from a URL", func(t *testing.T) {
		t.Parallel()

		out := filepath.Join(t.TempDir(), "act.json")
		m := main.NewMain()
		m.Fetcher = &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) {
				assert.Equal(t, "https://example.com/ndpa", url)
				return `<!DOCTYPE html><html><body><h2>PART I - OBJECTIVE</h2><p>1. - The objective.</p></body></html>`, nil
			},
			CloseFn: func() error { return nil },
		}
		stdout := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"prepare", "--url", "https://example.com/ndpa", "-o", out}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Wrote 1 parts, 1 sections")
		data, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"part": "PART I - OBJECTIVE"`)
	})

	t.Run("extracts text from an HTML file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		src := filepath.Join(dir, "ndpa.html")
		require.NoError(t, os.WriteFile(src, []byte("<p>ignored</p>"), 0644))

		m := main.NewMain()
		m.Extractor = &mock.TextExtractor{
			ExtractTextFn: func(html string) (string, error) {
				assert.Equal(t, "<p>ignored</p>", html)
				return "PART III - COMMISSION\n5. - The Commission shall regulate.", nil
			},
		}
		stdout := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"prepare", src, "-o", filepath.Join(dir, "out.json")}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Wrote 1 parts, 1 sections")
	})

	t.Run("rejects source without sections", func(t *testing.T) {
		t.Parallel()

		src := filepath.Join(t.TempDir(), "empty.txt")
		require.NoError(t, os.WriteFile(src, []byte("nothing here"), 0644))

		err := main.NewMain().Run(context.Background(), []string{"prepare", src, "-o", filepath.Join(t.TempDir(), "out.json")}, &bytes.Buffer{}, &bytes.Buffer{})

		require.Error(t, err)
		assert.Equal(t, ndpa.EINVALID, ndpa.ErrorCode(err))
	})

	t.Run("requires exactly one source", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		err := main.NewMain().Run(context.Background(), []string{"prepare"}, &bytes.Buffer{}, stderr)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "usage:")
	})
}

func TestMain_Run_ServeStopsOnCancel(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	m.Models = &mock.ContentGenerator{
		GenerateContentFn: func(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			return mock.TextResponse("ok"), nil
		},
	}
	ctx, cancel := context.WithCancel(context.Background())
	stdout := &bytes.Buffer{}
	done := make(chan error, 1)
	args := []string{
		"--document", writeAct(t),
		"--db", filepath.Join(t.TempDir(), "ndpa.db"),
		"serve", "--addr", "127.0.0.1:0",
	}

	go func() {
		done <- m.Run(ctx, args, stdout, &bytes.Buffer{})
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop after cancel")
	}
	assert.Contains(t, stdout.String(), "Serving ndpaAgent")
}

func TestMain_Run_ScoresEmpty(t *testing.T) {
	t.Parallel()

	stdout := &bytes.Buffer{}
	err := main.NewMain().Run(context.Background(), []string{"--db", filepath.Join(t.TempDir(), "ndpa.db"), "scores", "--scorer", "completeness"}, stdout, &bytes.Buffer{})

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "No scores found")
}
