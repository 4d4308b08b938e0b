package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newOllamaTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/generate":
			var req ollamaGenerateRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			_ = json.NewEncoder(w).Encode(ollamaGenerateResponse{
				Model:     req.Model,
				Response:  "claim one\nclaim two",
				Done:      true,
				EvalCount: 12,
			})
		case "/api/embeddings":
			_ = json.NewEncoder(w).Encode(ollamaEmbeddingResponse{
				Embedding: []float64{0.1, 0.2, 0.3},
			})
		case "/api/tags":
			w.WriteHeader(http.StatusOK)
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestOllamaProvider_Complete(t *testing.T) {
	server := newOllamaTestServer(t)
	defer server.Close()

	p, err := NewOllamaProvider(Config{Provider: "ollama", Model: "llama3", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	resp, err := p.Complete(context.Background(), CompletionRequest{Prompt: "decompose this"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if resp.Text != "claim one\nclaim two" {
		t.Errorf("Unexpected response text: %q", resp.Text)
	}
	if resp.Model != "llama3" {
		t.Errorf("Expected model llama3, got %s", resp.Model)
	}
	if resp.TokensUsed != 12 {
		t.Errorf("Expected 12 tokens, got %d", resp.TokensUsed)
	}
}

func TestOllamaProvider_Embed(t *testing.T) {
	server := newOllamaTestServer(t)
	defer server.Close()

	p, err := NewOllamaProvider(Config{Provider: "ollama", Model: "llama3", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	vecs, err := p.Embed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(vecs) != 2 {
		t.Fatalf("Expected 2 vectors, got %d", len(vecs))
	}
	if len(vecs[0]) != 3 || vecs[0][1] != float32(0.2) {
		t.Errorf("Unexpected vector: %v", vecs[0])
	}
}

func TestOllamaProvider_IsAvailable(t *testing.T) {
	server := newOllamaTestServer(t)
	defer server.Close()

	p, _ := NewOllamaProvider(Config{Provider: "ollama", BaseURL: server.URL})
	if !p.IsAvailable(context.Background()) {
		t.Error("Expected provider to be available")
	}

	server.Close()
	if p.IsAvailable(context.Background()) {
		t.Error("Expected provider to be unavailable after server close")
	}
}

func TestOllamaProvider_RequiresModel(t *testing.T) {
	p, _ := NewOllamaProvider(Config{Provider: "ollama"})
	if _, err := p.Complete(context.Background(), CompletionRequest{Prompt: "x"}); err == nil {
		t.Error("Expected error without model name")
	}
	if _, err := p.Embed(context.Background(), []string{"x"}); err == nil {
		t.Error("Expected error without model name")
	}
}
