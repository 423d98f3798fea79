package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"devpulse/internal/bootstrap/config"
)

func TestCompleteRequiresAPIKey(t *testing.T) {
	client := NewClient(config.LLMConfig{Model: "llama-3.3-70b-versatile"})

	_, err := client.Complete(context.Background(), "system", "user")
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("Complete() error = %v, want ErrMissingAPIKey", err)
	}
}

func TestCompleteReturnsFirstChoiceContent(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1,
			"model": "llama-3.3-70b-versatile",
			"choices": [{
				"index": 0,
				"finish_reason": "stop",
				"message": {"role": "assistant", "content": "{\"qualityScore\": 85}"}
			}]
		}`))
	}))
	defer server.Close()

	client := NewClient(config.LLMConfig{
		APIKey:      "test-key",
		BaseURL:     server.URL + "/",
		Model:       "llama-3.3-70b-versatile",
		Temperature: 0.2,
		MaxTokens:   2000,
	})

	content, err := client.Complete(context.Background(), "Respond ONLY with valid JSON.", "Analyze this PR")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if content != `{"qualityScore": 85}` {
		t.Fatalf("content = %q", content)
	}

	if gotBody["model"] != "llama-3.3-70b-versatile" {
		t.Fatalf("request model = %v", gotBody["model"])
	}
	if gotBody["temperature"] != 0.2 {
		t.Fatalf("request temperature = %v", gotBody["temperature"])
	}
	if gotBody["max_tokens"] != float64(2000) {
		t.Fatalf("request max_tokens = %v", gotBody["max_tokens"])
	}
}
