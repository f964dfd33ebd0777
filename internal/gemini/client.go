// Package gemini calls the Generative Language generateContent endpoint.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"genstudio/internal/generation"

	"google.golang.org/api/googleapi"
)

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content *content `json:"content"`
	} `json:"candidates"`
}

type Client struct {
	http    *http.Client
	baseURL string
	model   string
}

// NewClient returns a client for model. A nil httpClient uses http.DefaultClient.
func NewClient(baseURL, model string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
	}
}

func (c *Client) endpoint(credential string) string {
	return fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		c.baseURL, url.PathEscape(c.model), url.QueryEscape(credential))
}

// GenerateText sends messages in one call and returns the first candidate's
// first text part.
func (c *Client) GenerateText(ctx context.Context, credential string, messages []generation.Message, params generation.Params) (string, error) {
	body := generateRequest{
		Contents: make([]content, 0, len(messages)),
		GenerationConfig: generationConfig{
			Temperature:     params.Temperature,
			TopK:            params.TopK,
			TopP:            params.TopP,
			MaxOutputTokens: params.MaxOutputTokens,
		},
	}
	for _, m := range messages {
		body.Contents = append(body.Contents, content{Role: string(m.Role), Parts: []part{{Text: m.Text}}})
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("encode generateContent request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(credential), bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build generateContent request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		// url.Error repeats the request URL, which carries the key.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return "", &generation.UpstreamError{Err: err}
	}
	defer resp.Body.Close()

	if err := googleapi.CheckResponse(resp); err != nil {
		upstream := &generation.UpstreamError{StatusCode: resp.StatusCode, Err: err}
		var gerr *googleapi.Error
		if errors.As(err, &gerr) {
			upstream.Message = gerr.Message
		}
		return "", upstream
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &generation.UpstreamError{StatusCode: resp.StatusCode, Err: fmt.Errorf("decode generateContent response: %w", err)}
	}

	if len(out.Candidates) == 0 || out.Candidates[0].Content == nil ||
		len(out.Candidates[0].Content.Parts) == 0 || out.Candidates[0].Content.Parts[0].Text == "" {
		return "", generation.ErrNoText
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}
