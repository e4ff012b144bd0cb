package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dd0wney/journeygraph/pkg/logging"
)

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(Options{}, logging.NopLogger{}); err == nil {
		t.Error("expected error without API key")
	}
}

func TestDisabledReturnsContext(t *testing.T) {
	g := Disabled{}
	if g.Enabled() {
		t.Error("disabled generator reports enabled")
	}
	out, err := g.Generate(context.Background(), "why do users churn?", "## Context block")
	if err != nil {
		t.Fatal(err)
	}
	if out != "## Context block" {
		t.Errorf("out = %q", out)
	}
}

func TestGenerateSendsPromptAndContext(t *testing.T) {
	var captured struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Buyers click more."}}]}`))
	}))
	defer srv.Close()

	c, err := NewClient(Options{APIKey: "test", BaseURL: srv.URL, Model: "test-model"}, logging.NopLogger{})
	if err != nil {
		t.Fatal(err)
	}

	out, err := c.Generate(context.Background(), "what drives conversion?", "## Cohort Comparison")
	if err != nil {
		t.Fatal(err)
	}
	if out != "Buyers click more." {
		t.Errorf("out = %q", out)
	}

	if captured.Model != "test-model" {
		t.Errorf("model = %s", captured.Model)
	}
	if len(captured.Messages) != 2 || captured.Messages[0].Role != "system" {
		t.Fatalf("messages = %+v", captured.Messages)
	}
	user := captured.Messages[1].Content
	if !strings.Contains(user, "## Cohort Comparison") || !strings.Contains(user, "what drives conversion?") {
		t.Errorf("user message = %q", user)
	}
}
