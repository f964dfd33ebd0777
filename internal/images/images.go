// Package images generates images through the Pollinations prompt URL API.
package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"genstudio/internal/history"
	"genstudio/internal/metrics"

	"github.com/sirupsen/logrus"
)

var (
	ErrEmptyPrompt      = errors.New("image prompt is empty")
	ErrUnknownModel     = errors.New("unknown image model")
	ErrGenerationFailed = errors.New("failed to generate image")
)

type Model struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

var models = []Model{
	{ID: "prompthero-openjourney", Name: "OpenJourney (Midjourney Style)"},
	{ID: "stable-diffusion", Name: "Stable Diffusion"},
	{ID: "midjourney", Name: "Midjourney Style"},
}

func Models() []Model {
	out := make([]Model, len(models))
	copy(out, models)
	return out
}

func knownModel(id string) bool {
	for _, m := range models {
		if m.ID == id {
			return true
		}
	}
	return false
}

// Dimensions maps an aspect ratio to pixel size; unknown ratios are square.
func Dimensions(ratio string) (width, height int) {
	switch ratio {
	case "16:9":
		return 1024, 576
	case "9:16":
		return 576, 1024
	case "4:3":
		return 1024, 768
	default:
		return 1024, 1024
	}
}

type Request struct {
	Prompt    string   `json:"prompt"`
	Model     string   `json:"model"`
	Ratio     string   `json:"ratio"`
	StyleTags []string `json:"style_tags"`
}

type Image struct {
	URL    string `json:"url"`
	Prompt string `json:"prompt"`
	Model  string `json:"model"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type ResultWriter interface {
	Record(ctx context.Context, userID string, r history.Result) error
}

type Service struct {
	http    *http.Client
	baseURL string
	results ResultWriter
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewService returns an image generator. results and m may be nil.
func NewService(baseURL string, httpClient *http.Client, results ResultWriter, m *metrics.Metrics) *Service {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Service{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		results: results,
		metrics: m,
		now:     time.Now,
	}
}

func (s *Service) imageURL(prompt, model string, width, height int) string {
	q := url.Values{}
	q.Set("model", model)
	q.Set("width", fmt.Sprint(width))
	q.Set("height", fmt.Sprint(height))
	q.Set("nologo", "true")
	return s.baseURL + "/prompt/" + url.PathEscape(prompt) + "?" + q.Encode()
}

// Generate builds the image URL, checks that it renders and records it in
// the user's history. An empty userID skips the history write.
func (s *Service) Generate(ctx context.Context, userID string, req Request) (Image, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		s.metrics.ObserveGeneration(string(history.TypeImage), metrics.OutcomeRejected, 0)
		return Image{}, ErrEmptyPrompt
	}
	model := req.Model
	if model == "" {
		model = models[0].ID
	}
	if !knownModel(model) {
		s.metrics.ObserveGeneration(string(history.TypeImage), metrics.OutcomeRejected, 0)
		return Image{}, ErrUnknownModel
	}
	if len(req.StyleTags) > 0 {
		prompt += ", " + strings.Join(req.StyleTags, ", ")
	}

	width, height := Dimensions(req.Ratio)
	img := Image{
		URL:    s.imageURL(prompt, model, width, height),
		Prompt: prompt,
		Model:  model,
		Width:  width,
		Height: height,
	}

	started := s.now()
	err := s.probe(ctx, img.URL)
	elapsed := s.now().Sub(started)
	if err != nil {
		s.metrics.ObserveGeneration(string(history.TypeImage), metrics.OutcomeFailed, elapsed)
		logrus.Errorf("Image generation failed for model %s: %v", model, err)
		return Image{}, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	s.metrics.ObserveGeneration(string(history.TypeImage), metrics.OutcomeSuccess, elapsed)

	if userID != "" && s.results != nil {
		err := s.results.Record(ctx, userID, history.Result{
			Type:       history.TypeImage,
			Prompt:     prompt,
			Result:     img.URL,
			Model:      model,
			OccurredAt: s.now(),
		})
		if err != nil {
			logrus.Warnf("Image for user %s generated but not fully saved: %v", userID, err)
		}
	}
	return img, nil
}

func (s *Service) probe(ctx context.Context, imageURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return err
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("image endpoint returned %d", resp.StatusCode)
	}
	return nil
}
