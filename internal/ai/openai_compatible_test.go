package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestResolveChatURL(t *testing.T) {
	cases := []struct {
		base string
		want string
	}{
		{"https://api.example.com", "https://api.example.com/v1/chat/completions"},
		{"https://api.example.com/", "https://api.example.com/v1/chat/completions"},
		{"https://api.example.com/v1", "https://api.example.com/v1/chat/completions"},
		{"https://api.example.com/v1/", "https://api.example.com/v1/chat/completions"},
		{"https://api.example.com/v1/chat", "https://api.example.com/v1/chat/completions"},
		{"https://api.example.com/v1/chat/completions", "https://api.example.com/v1/chat/completions"},
	}
	for _, tc := range cases {
		if got := ResolveChatURL(tc.base); got != tc.want {
			t.Errorf("ResolveChatURL(%q) = %q, want %q", tc.base, got, tc.want)
		}
	}
}

func TestComplete_Success(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "  欢迎。  "}},
			},
		})
	}))
	defer server.Close()

	client := NewOpenAICompatibleClient()
	cfg := ChatConfig{BaseURL: server.URL, APIKey: "secret", Model: "test-model", Temperature: 0.7, MaxTokens: 180}
	reply, err := client.Complete(context.Background(), cfg, []ChatMessage{{Role: "user", Content: "hi"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "欢迎。" {
		t.Fatalf("expected trimmed content, got %q", reply)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("bad authorization header: %q", gotAuth)
	}
	if gotBody["model"] != "test-model" || gotBody["stream"] != false {
		t.Fatalf("request body wrong: %v", gotBody)
	}
	if gotBody["max_tokens"] != float64(180) {
		t.Fatalf("max_tokens wrong: %v", gotBody["max_tokens"])
	}
}

func TestComplete_ErrorStatusTruncatesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(strings.Repeat("x", 5000)))
	}))
	defer server.Close()

	client := NewOpenAICompatibleClient()
	cfg := ChatConfig{BaseURL: server.URL, APIKey: "k", Model: "m"}
	_, err := client.Complete(context.Background(), cfg, nil)
	if err == nil {
		t.Fatal("expected error on non-2xx status")
	}
	if !strings.Contains(err.Error(), "status 502") {
		t.Fatalf("missing status in error: %v", err)
	}
	if len(err.Error()) > 300 {
		t.Fatalf("error body not truncated, %d bytes", len(err.Error()))
	}
}

func TestComplete_EmptyContentIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "   "}},
			},
		})
	}))
	defer server.Close()

	client := NewOpenAICompatibleClient()
	cfg := ChatConfig{BaseURL: server.URL, APIKey: "k", Model: "m"}
	if _, err := client.Complete(context.Background(), cfg, nil); err == nil {
		t.Fatal("expected error on blank content")
	}
}

func TestComplete_NoChoicesIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer server.Close()

	client := NewOpenAICompatibleClient()
	cfg := ChatConfig{BaseURL: server.URL, APIKey: "k", Model: "m"}
	if _, err := client.Complete(context.Background(), cfg, nil); err == nil {
		t.Fatal("expected error on empty choices")
	}
}
