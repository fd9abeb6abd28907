package gemini

import (
	"context"
	"errors"
	"sync"
	"testing"

	"google.golang.org/genai"
)

type fakeModels struct {
	mu    sync.Mutex
	calls []modelCall
	resp  *genai.GenerateContentResponse
	err   error
}

type modelCall struct {
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, modelCall{model: model, contents: contents, config: config})
	return f.resp, f.err
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{}
	for _, p := range parts {
		content.Parts = append(content.Parts, &genai.Part{Text: p})
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: content}}}
}

func TestGeneratorJoinsTextParts(t *testing.T) {
	t.Parallel()

	models := &fakeModels{resp: textResponse("  Strong Go overlap.  ", "", "Tokyo fits.")}
	g := newGenerator(models, "")

	output, err := g.GenerateContent(context.Background(), "  why?  ")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if output != "Strong Go overlap.\nTokyo fits." {
		t.Fatalf("unexpected output: %q", output)
	}

	if len(models.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(models.calls))
	}

	call := models.calls[0]
	if call.model != DefaultModel {
		t.Fatalf("expected default model, got %q", call.model)
	}
	if got := call.contents[0].Parts[0].Text; got != "why?" {
		t.Fatalf("expected trimmed prompt, got %q", got)
	}
	if call.config == nil || call.config.Temperature == nil {
		t.Fatalf("expected temperature to be set")
	}
}

func TestGeneratorErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		models *fakeModels
		prompt string
		calls  int
	}{
		{name: "empty prompt", models: &fakeModels{resp: textResponse("x")}, prompt: "   ", calls: 0},
		{name: "api failure", models: &fakeModels{err: errors.New("boom")}, prompt: "p", calls: 1},
		{name: "empty response", models: &fakeModels{resp: textResponse("  ")}, prompt: "p", calls: 1},
		{name: "nil response", models: &fakeModels{}, prompt: "p", calls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g := newGenerator(tt.models, "gemini-pro")
			if _, err := g.GenerateContent(context.Background(), tt.prompt); err == nil {
				t.Fatal("expected error")
			}
			if len(tt.models.calls) != tt.calls {
				t.Fatalf("expected %d calls, got %d", tt.calls, len(tt.models.calls))
			}
		})
	}
}

func TestNilGenerator(t *testing.T) {
	t.Parallel()

	var g *Generator
	if _, err := g.GenerateContent(context.Background(), "p"); err == nil {
		t.Fatal("expected error from nil generator")
	}
	if g.Model() != "" {
		t.Fatalf("expected empty model, got %q", g.Model())
	}

	if _, err := NewGenerator(context.Background(), "  ", ""); err == nil {
		t.Fatal("expected error without api key")
	}
}
