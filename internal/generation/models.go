package generation

import (
	"genstudio/internal/prompts"
)

// Session identifies who is generating and with which API credential.
// An empty UserID is an anonymous session: no history is read or written.
type Session struct {
	UserID     string
	Credential string
}

type Request struct {
	Prompt string         `json:"prompt"`
	Length prompts.Length `json:"length"`
	Tone   prompts.Tone   `json:"tone"`
}

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

type Message struct {
	Role Role
	Text string
}

type Params struct {
	Temperature     float64
	TopK            int
	TopP            float64
	MaxOutputTokens int
}

// DefaultParams are sent with every generation call.
var DefaultParams = Params{
	Temperature:     0.7,
	TopK:            40,
	TopP:            0.95,
	MaxOutputTokens: 1024,
}

type State string

const (
	StateIdle             State = "idle"
	StateComposingContext State = "composing-context"
	StateAwaitingResponse State = "awaiting-response"
	StateSucceeded        State = "succeeded"
	StateFailed           State = "failed"
)

// Outcome is returned to the caller of a successful generation.
type Outcome struct {
	Text   string `json:"text"`
	Prompt string `json:"prompt"`
}
