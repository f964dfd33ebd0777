package generation

import (
	"errors"
	"fmt"
	"testing"
)

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"empty prompt", ErrEmptyPrompt, "Please enter a prompt"},
		{"missing key", ErrMissingCredential, "Please save your Gemini API key first"},
		{"no text", ErrNoText, "No text was generated"},
		{"server detail", &UpstreamError{StatusCode: 429, Message: "rate limited"}, "rate limited"},
		{"wrapped detail", fmt.Errorf("call: %w", &UpstreamError{StatusCode: 400, Message: "API key not valid"}), "API key not valid"},
		{"no detail", &UpstreamError{StatusCode: 502}, "API request failed"},
		{"network", &UpstreamError{Err: errors.New("connection refused")}, "API request failed"},
		{"other", errors.New("boom"), "API request failed"},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUpstreamErrorUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: timeout")
	err := &UpstreamError{Err: cause}
	if !errors.Is(err, cause) {
		t.Error("UpstreamError does not unwrap its cause")
	}
}
