package chatgpt

import (
	"context"
	"errors"
	"strings"

	"genstudio/internal/generation"

	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

// Service generates text through the OpenAI chat completions API. The API
// key comes from the request, so a client is built per call.
type Service struct {
	model   string
	baseURL string
}

// NewService returns a generator for model. baseURL may be empty to use the
// public endpoint.
func NewService(model, baseURL string) *Service {
	return &Service{
		model:   model,
		baseURL: baseURL,
	}
}

func (s *Service) client(credential string) *openai.Client {
	cfg := openai.DefaultConfig(credential)
	if s.baseURL != "" {
		cfg.BaseURL = strings.TrimRight(s.baseURL, "/")
	}
	return openai.NewClientWithConfig(cfg)
}

func toChatMessages(messages []generation.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for i, m := range messages {
		role := openai.ChatMessageRoleUser
		if m.Role == generation.RoleModel {
			role = openai.ChatMessageRoleAssistant
			if i == 0 {
				role = openai.ChatMessageRoleSystem
			}
		}
		out = append(out, openai.ChatCompletionMessage{
			Role:    role,
			Content: m.Text,
		})
	}
	return out
}

func (s *Service) GenerateText(ctx context.Context, credential string, messages []generation.Message, params generation.Params) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       s.model,
		Messages:    toChatMessages(messages),
		Temperature: float32(params.Temperature),
		TopP:        float32(params.TopP),
		MaxTokens:   params.MaxOutputTokens,
	}

	resp, err := s.client(credential).CreateChatCompletion(ctx, req)
	if err != nil {
		logrus.Errorf("OpenAI chat completion failed: %v", err)
		return "", toUpstreamError(err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", generation.ErrNoText
	}
	return resp.Choices[0].Message.Content, nil
}

func toUpstreamError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &generation.UpstreamError{StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message, Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &generation.UpstreamError{StatusCode: reqErr.HTTPStatusCode, Err: err}
	}
	return &generation.UpstreamError{Err: err}
}
