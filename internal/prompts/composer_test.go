package prompts

import (
	"strings"
	"testing"
)

func TestEnhance(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
		length Length
		tone   Tone
		want   string
	}{
		{
			name:   "short casual",
			prompt: "Write a haiku about rain",
			length: LengthShort,
			tone:   ToneCasual,
			want:   "Write a haiku about rain Keep the response concise and brief, around 100-200 words. Use a casual and conversational tone.",
		},
		{
			name:   "long formal",
			prompt: "Explain TCP",
			length: LengthLong,
			tone:   ToneFormal,
			want:   "Explain TCP Provide a detailed and comprehensive response, around 700-1000 words. Use a very formal and academic tone.",
		},
		{
			name:   "no selectors",
			prompt: "Hello",
			want:   "Hello",
		},
		{
			name:   "unknown length keeps tone",
			prompt: "Hello",
			length: "enormous",
			tone:   ToneFriendly,
			want:   "Hello Use a friendly and approachable tone.",
		},
		{
			name:   "unknown tone keeps length",
			prompt: "Hello",
			length: LengthMedium,
			tone:   "sarcastic",
			want:   "Hello Provide a moderate-length response, around 300-500 words.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Enhance(tt.prompt, tt.length, tt.tone); got != tt.want {
				t.Errorf("Enhance() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEnhanceAllSelectorsAppendInOrder(t *testing.T) {
	const prompt = "p"
	for length, lc := range lengthClauses {
		for tone, tc := range toneClauses {
			got := Enhance(prompt, length, tone)
			if got != prompt+lc+tc {
				t.Errorf("Enhance(%s, %s) = %q", length, tone, got)
			}
			if !strings.HasPrefix(got, prompt) {
				t.Errorf("original prompt not preserved: %q", got)
			}
		}
	}
}

func TestSelectorValidity(t *testing.T) {
	if !LengthLong.Valid() || Length("huge").Valid() {
		t.Error("Length.Valid mismatch")
	}
	if !ToneHumorous.Valid() || Tone("").Valid() {
		t.Error("Tone.Valid mismatch")
	}
}
