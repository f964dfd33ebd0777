package instructions

import (
	"errors"
	"strings"
	"time"
)

// DefaultPersona is used whenever no instructions document is available.
const DefaultPersona = "You are Pulasthi 2.0, an advanced AI assistant. You are helpful, friendly, and knowledgeable."

var (
	ErrNotFound         = errors.New("system instructions not found")
	ErrRevisionNotFound = errors.New("instructions revision not found")
)

type Instructions struct {
	MainInstructions string    `db:"main_instructions" json:"main_instructions" firestore:"mainInstructions"`
	Personality      string    `db:"personality" json:"personality" firestore:"personality"`
	Capabilities     string    `db:"capabilities" json:"capabilities" firestore:"capabilities"`
	Limitations      string    `db:"limitations" json:"limitations" firestore:"limitations"`
	UpdatedBy        string    `db:"updated_by" json:"updated_by,omitempty" firestore:"updatedBy"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at" firestore:"updatedAt"`
}

// Combine renders the instructions as one system prompt with fixed section headers.
func (i Instructions) Combine() string {
	var b strings.Builder
	b.WriteString(i.MainInstructions)
	b.WriteString("\nPERSONALITY:\n")
	b.WriteString(i.Personality)
	b.WriteString("\nCAPABILITIES:\n")
	b.WriteString(i.Capabilities)
	b.WriteString("\nLIMITATIONS:\n")
	b.WriteString(i.Limitations)
	return strings.TrimSpace(b.String())
}

// Revision is an immutable snapshot written on every save.
type Revision struct {
	ID               string    `db:"id" json:"id" firestore:"-"`
	MainInstructions string    `db:"main_instructions" json:"main_instructions" firestore:"mainInstructions"`
	Personality      string    `db:"personality" json:"personality" firestore:"personality"`
	Capabilities     string    `db:"capabilities" json:"capabilities" firestore:"capabilities"`
	Limitations      string    `db:"limitations" json:"limitations" firestore:"limitations"`
	UpdatedBy        string    `db:"updated_by" json:"updated_by,omitempty" firestore:"updatedBy"`
	CreatedAt        time.Time `db:"created_at" json:"created_at" firestore:"createdAt"`
}

func (r Revision) Instructions() Instructions {
	return Instructions{
		MainInstructions: r.MainInstructions,
		Personality:      r.Personality,
		Capabilities:     r.Capabilities,
		Limitations:      r.Limitations,
		UpdatedBy:        r.UpdatedBy,
		UpdatedAt:        r.CreatedAt,
	}
}
