package analysis

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/craftwise/craftwise-backend/config"
)

func newTestClient(baseURL string) *OpenAIClient {
	return NewOpenAIClient(config.OpenAIConfig{
		APIKey:  "test-key",
		BaseURL: baseURL,
		Model:   "gpt-4o",
	})
}

func TestOpenAIClient_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", got)
		}

		body, _ := io.ReadAll(r.Body)
		var req map[string]any
		if err := json.Unmarshal(body, &req); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		if req["model"] != "gpt-4o" {
			t.Errorf("unexpected model: %v", req["model"])
		}
		if _, ok := req["response_format"]; !ok {
			t.Error("expected response_format in json mode")
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices": [{"message": {"content": "{\"DifficultyLevel\": 2}"}}]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	content, err := client.Complete(context.Background(), []ChatMessage{
		{Role: "user", Content: "Build a shelf"},
	}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if content != `{"DifficultyLevel": 2}` {
		t.Errorf("unexpected content: %s", content)
	}
}

func TestOpenAIClient_NoResponseFormatWithoutJSONMode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req map[string]any
		if err := json.Unmarshal(body, &req); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		if _, ok := req["response_format"]; ok {
			t.Error("response_format should be omitted outside json mode")
		}
		w.Write([]byte(`{"choices": [{"message": {"content": "a description"}}]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	content, err := client.Complete(context.Background(), []ChatMessage{
		{Role: "user", Content: "describe"},
	}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if content != "a description" {
		t.Errorf("unexpected content: %s", content)
	}
}

func TestOpenAIClient_APIErrorSurfaced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"message": "Incorrect API key provided"}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Complete(context.Background(), []ChatMessage{{Role: "user", Content: "x"}}, true)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestOpenAIClient_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Complete(context.Background(), []ChatMessage{{Role: "user", Content: "x"}}, true)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestOpenAIClient_NetworkFailure(t *testing.T) {
	client := newTestClient("http://127.0.0.1:1")
	_, err := client.Complete(context.Background(), []ChatMessage{{Role: "user", Content: "x"}}, true)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}
