package images

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"genstudio/internal/history"
)

type recordingWriter struct {
	mu      sync.Mutex
	results []history.Result
}

func (w *recordingWriter) Record(_ context.Context, _ string, r history.Result) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.results = append(w.results, r)
	return nil
}

func TestDimensions(t *testing.T) {
	tests := []struct {
		ratio         string
		width, height int
	}{
		{"16:9", 1024, 576},
		{"9:16", 576, 1024},
		{"4:3", 1024, 768},
		{"1:1", 1024, 1024},
		{"", 1024, 1024},
	}
	for _, tt := range tests {
		w, h := Dimensions(tt.ratio)
		if w != tt.width || h != tt.height {
			t.Errorf("Dimensions(%q) = %dx%d, want %dx%d", tt.ratio, w, h, tt.width, tt.height)
		}
	}
}

func TestGenerateBuildsURLAndRecords(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte{0xff, 0xd8})
	}))
	defer srv.Close()

	writer := &recordingWriter{}
	svc := NewService(srv.URL, srv.Client(), writer, nil)

	img, err := svc.Generate(context.Background(), "u1", Request{
		Prompt:    "a red fox",
		Model:     "stable-diffusion",
		Ratio:     "16:9",
		StyleTags: []string{"watercolor", "soft light"},
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if img.Prompt != "a red fox, watercolor, soft light" {
		t.Errorf("prompt = %q", img.Prompt)
	}
	if gotPath != "/prompt/a red fox, watercolor, soft light" {
		t.Errorf("path = %q", gotPath)
	}
	if gotQuery != "height=576&model=stable-diffusion&nologo=true&width=1024" {
		t.Errorf("query = %q", gotQuery)
	}
	if img.Width != 1024 || img.Height != 576 {
		t.Errorf("size = %dx%d", img.Width, img.Height)
	}

	if len(writer.results) != 1 {
		t.Fatalf("recorded %d results, want 1", len(writer.results))
	}
	rec := writer.results[0]
	if rec.Type != history.TypeImage || rec.Result != img.URL || rec.Model != "stable-diffusion" {
		t.Errorf("recorded %+v", rec)
	}
}

func TestGenerateDefaultsModel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	img, err := NewService(srv.URL, srv.Client(), nil, nil).Generate(context.Background(), "", Request{Prompt: "x"})
	if err != nil {
		t.Fatal(err)
	}
	if img.Model != "prompthero-openjourney" {
		t.Errorf("model = %q", img.Model)
	}
}

func TestGenerateRejectsBadInput(t *testing.T) {
	svc := NewService("http://127.0.0.1:0", nil, nil, nil)
	ctx := context.Background()

	if _, err := svc.Generate(ctx, "u1", Request{Prompt: "  "}); !errors.Is(err, ErrEmptyPrompt) {
		t.Errorf("err = %v, want ErrEmptyPrompt", err)
	}
	if _, err := svc.Generate(ctx, "u1", Request{Prompt: "x", Model: "dall-e"}); !errors.Is(err, ErrUnknownModel) {
		t.Errorf("err = %v, want ErrUnknownModel", err)
	}
}

func TestGenerateProbeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	writer := &recordingWriter{}
	_, err := NewService(srv.URL, srv.Client(), writer, nil).Generate(context.Background(), "u1", Request{Prompt: "x"})
	if !errors.Is(err, ErrGenerationFailed) {
		t.Errorf("err = %v, want ErrGenerationFailed", err)
	}
	if len(writer.results) != 0 {
		t.Error("failed image was recorded")
	}
}
