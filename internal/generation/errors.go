package generation

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyPrompt       = errors.New("prompt is empty")
	ErrMissingCredential = errors.New("api credential is missing")
	ErrNoText            = errors.New("no text was generated")
)

// UpstreamError is a failed call to the generation API: transport error,
// non-2xx status or an undecodable body.
type UpstreamError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.Message != "" && e.StatusCode != 0:
		return fmt.Sprintf("upstream returned %d: %s", e.StatusCode, e.Message)
	case e.Message != "":
		return "upstream: " + e.Message
	case e.Err != nil:
		return "upstream: " + e.Err.Error()
	default:
		return fmt.Sprintf("upstream returned %d", e.StatusCode)
	}
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// UserMessage maps a generation error to the text shown to the user.
func UserMessage(err error) string {
	var upstream *UpstreamError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyPrompt):
		return "Please enter a prompt"
	case errors.Is(err, ErrMissingCredential):
		return "Please save your Gemini API key first"
	case errors.Is(err, ErrNoText):
		return "No text was generated"
	case errors.As(err, &upstream) && upstream.Message != "":
		return upstream.Message
	default:
		return "API request failed"
	}
}
