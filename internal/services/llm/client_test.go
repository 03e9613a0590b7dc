package llm

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func chatReply(t *testing.T, w http.ResponseWriter, content string) {
	t.Helper()
	payload := map[string]any{
		"choices": []any{
			map[string]any{
				"message": map[string]any{
					"content": content,
				},
			},
		},
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		t.Fatalf("encode response: %v", err)
	}
}

type capturedRequest struct {
	Model          string            `json:"model"`
	Temperature    *float64          `json:"temperature"`
	ResponseFormat map[string]string `json:"response_format"`
	Messages       []struct {
		Role    string          `json:"role"`
		Content json.RawMessage `json:"content"`
	} `json:"messages"`
}

func TestClientHealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		chatReply(t, w, `{"ok":true}`)
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"})
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck returned error: %v", err)
	}
}

func TestClientHealthCheckCodeFence(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chatReply(t, w, "```json\n{\"ok\":true}\n```")
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"})
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck returned error: %v", err)
	}
}

func TestClientHealthCheckFailureIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "overloaded"})
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "bad", BaseURL: server.URL, Model: "demo"})
	err := client.HealthCheck(context.Background())
	if err == nil {
		t.Fatal("expected health check to fail")
	}
	if StatusCode(err) != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 status, got %d (%v)", StatusCode(err), err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected a single request, got %d", got)
	}
}

func TestClientRequiresAPIKey(t *testing.T) {
	client := NewClient(Config{Model: "demo"})
	if _, err := client.Generate(context.Background(), "sys", "task"); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("Generate: expected ErrMissingAPIKey, got %v", err)
	}
	if _, err := client.CompleteJSON(context.Background(), "sys", "task"); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("CompleteJSON: expected ErrMissingAPIKey, got %v", err)
	}
	if _, err := client.AnalyzeAudio(context.Background(), "sys", []byte{1}, "mp3"); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("AnalyzeAudio: expected ErrMissingAPIKey, got %v", err)
	}
	if err := client.HealthCheck(context.Background()); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("HealthCheck: expected ErrMissingAPIKey, got %v", err)
	}
}

func TestClientGenerateSendsSystemAndTask(t *testing.T) {
	var captured capturedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer key" {
			t.Fatalf("unexpected auth header %q", got)
		}
		if got := r.Header.Get("X-Title"); got != "Delivery" {
			t.Fatalf("unexpected title header %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		chatReply(t, w, "  Neon Roads \n")
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "key", BaseURL: server.URL, Model: "text-model", Title: "Delivery"})
	got, err := client.WithModel("fast-model").Generate(context.Background(), "You are the Arbitrator.", "Name the album.")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if got != "Neon Roads" {
		t.Fatalf("unexpected reply %q", got)
	}
	if captured.Model != "fast-model" {
		t.Fatalf("expected per-call model, got %q", captured.Model)
	}
	if client.Model() != "text-model" {
		t.Fatalf("WithModel mutated the original client: %q", client.Model())
	}
	if captured.Temperature != nil || captured.ResponseFormat != nil {
		t.Fatalf("plain generation must not force temperature or json: %+v", captured)
	}
	if len(captured.Messages) != 2 || captured.Messages[0].Role != "system" || captured.Messages[1].Role != "user" {
		t.Fatalf("unexpected messages %+v", captured.Messages)
	}
	var task string
	if err := json.Unmarshal(captured.Messages[1].Content, &task); err != nil || task != "Name the album." {
		t.Fatalf("unexpected task content %s", captured.Messages[1].Content)
	}
}

func TestClientGenerateWithoutSystemSendsTaskOnly(t *testing.T) {
	var captured capturedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&captured)
		chatReply(t, w, "End Of World")
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "key", BaseURL: server.URL, Model: "m"})
	if _, err := client.Generate(context.Background(), "", "Rephrase."); err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if len(captured.Messages) != 1 || captured.Messages[0].Role != "user" {
		t.Fatalf("unexpected messages %+v", captured.Messages)
	}
}

func TestClientAnalyzeAudioSendsInputAudioPart(t *testing.T) {
	var captured capturedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		chatReply(t, w, "```json\n{\"Title\":\"Night Drive\"}\n```")
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "key", BaseURL: server.URL, Model: "audio-model"})
	content, err := client.AnalyzeAudio(context.Background(), "Analyze.", []byte("ID3data"), ".MP3")
	if err != nil {
		t.Fatalf("AnalyzeAudio returned error: %v", err)
	}
	var decoded struct{ Title string }
	if err := DecodeLLMJSON(content, &decoded); err != nil || decoded.Title != "Night Drive" {
		t.Fatalf("unexpected decoded payload %+v (%v)", decoded, err)
	}

	if len(captured.Messages) != 1 {
		t.Fatalf("expected one message, got %d", len(captured.Messages))
	}
	var parts []contentPart
	if err := json.Unmarshal(captured.Messages[0].Content, &parts); err != nil {
		t.Fatalf("decode parts: %v", err)
	}
	if len(parts) != 2 || parts[0].Type != "text" || parts[1].Type != "input_audio" {
		t.Fatalf("unexpected parts %+v", parts)
	}
	if parts[1].InputAudio.Format != "mp3" {
		t.Fatalf("unexpected format %q", parts[1].InputAudio.Format)
	}
	if parts[1].InputAudio.Data != base64.StdEncoding.EncodeToString([]byte("ID3data")) {
		t.Fatalf("unexpected audio payload %q", parts[1].InputAudio.Data)
	}
}

func TestClientEmptyContentError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]any{
			"choices": []any{
				map[string]any{
					"finish_reason": "content_filter",
					"message":       map[string]any{"content": "", "refusal": "no"},
				},
			},
		}
		_ = json.NewEncoder(w).Encode(payload)
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "key", BaseURL: server.URL, Model: "m"})
	_, err := client.Generate(context.Background(), "sys", "task")
	var emptyErr *emptyContentError
	if !errors.As(err, &emptyErr) {
		t.Fatalf("expected emptyContentError, got %v", err)
	}
	if emptyErr.FinishReason != "content_filter" || emptyErr.Refusal != "no" {
		t.Fatalf("unexpected details %+v", emptyErr)
	}
}

func TestClientAPIErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"message": "quota exceeded"}})
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "key", BaseURL: server.URL, Model: "m"})
	_, err := client.Generate(context.Background(), "sys", "task")
	if err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("expected api error, got %v", err)
	}
}

func TestNewClientTimeout(t *testing.T) {
	if got := NewClient(Config{}).httpClient.Timeout; got != 0 {
		t.Fatalf("expected no timeout by default, got %s", got)
	}
	if got := NewClient(Config{TimeoutSeconds: 7}).httpClient.Timeout.Seconds(); got != 7 {
		t.Fatalf("expected 7s timeout, got %v", got)
	}
	if got := NewClient(Config{}).cfg.BaseURL; got != defaultBaseURL {
		t.Fatalf("unexpected default base url %q", got)
	}
}

func TestDecodeLLMJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"plain", `{"Title":"A"}`, false},
		{"fenced", "```json\n{\"Title\":\"A\"}\n```", false},
		{"fenced uppercase", "```JSON {\"Title\":\"A\"} ```", false},
		{"prose around", "Here you go: {\"Title\":\"A\"} enjoy", false},
		{"empty", "   ", true},
		{"not json", "I cannot analyze this audio.", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var out struct{ Title string }
			err := DecodeLLMJSON(tc.content, &out)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeLLMJSON returned error: %v", err)
			}
			if out.Title != "A" {
				t.Fatalf("unexpected title %q", out.Title)
			}
		})
	}
}

func TestSummarizePayloadSnippetTruncates(t *testing.T) {
	long := strings.Repeat("a", 200)
	got := summarizePayloadSnippet(long)
	if len([]rune(got)) != 163 || !strings.HasSuffix(got, "...") {
		t.Fatalf("unexpected snippet length %d", len([]rune(got)))
	}
	if summarizePayloadSnippet(" \n ") != "<empty>" {
		t.Fatal("expected <empty> placeholder")
	}
}
