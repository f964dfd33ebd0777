package chatgpt

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"genstudio/internal/generation"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewService("gpt-4.1", srv.URL+"/v1")
}

func TestGenerateTextMapsRoles(t *testing.T) {
	var body struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
		MaxTokens int `json:"max_tokens"`
	}
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-user" {
			t.Errorf("Authorization = %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"Sure."},"finish_reason":"stop"}]}`)
	})

	messages := []generation.Message{
		{Role: generation.RoleModel, Text: "system prompt"},
		{Role: generation.RoleUser, Text: "q1"},
		{Role: generation.RoleModel, Text: "a1"},
		{Role: generation.RoleUser, Text: "q2"},
	}
	text, err := svc.GenerateText(context.Background(), "sk-user", messages, generation.DefaultParams)
	if err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
	if text != "Sure." {
		t.Errorf("text = %q", text)
	}

	wantRoles := []string{"system", "user", "assistant", "user"}
	if len(body.Messages) != len(wantRoles) {
		t.Fatalf("messages = %+v", body.Messages)
	}
	for i, role := range wantRoles {
		if body.Messages[i].Role != role {
			t.Errorf("message %d role = %s, want %s", i, body.Messages[i].Role, role)
		}
	}
	if body.Model != "gpt-4.1" || body.MaxTokens != 1024 {
		t.Errorf("model = %s, max_tokens = %d", body.Model, body.MaxTokens)
	}
}

func TestGenerateTextAPIError(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		io.WriteString(w, `{"error":{"message":"rate limited","type":"requests","code":"rate_limit_exceeded"}}`)
	})

	_, err := svc.GenerateText(context.Background(), "sk", []generation.Message{{Role: generation.RoleUser, Text: "hi"}}, generation.DefaultParams)

	var upstream *generation.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("err = %v, want *UpstreamError", err)
	}
	if upstream.StatusCode != http.StatusTooManyRequests {
		t.Errorf("status = %d", upstream.StatusCode)
	}
	if got := generation.UserMessage(err); got != "rate limited" {
		t.Errorf("UserMessage = %q", got)
	}
}

func TestGenerateTextNoChoices(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"c1","object":"chat.completion","choices":[]}`)
	})

	_, err := svc.GenerateText(context.Background(), "sk", []generation.Message{{Role: generation.RoleUser, Text: "hi"}}, generation.DefaultParams)
	if !errors.Is(err, generation.ErrNoText) {
		t.Errorf("err = %v, want ErrNoText", err)
	}
}
