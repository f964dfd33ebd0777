// Package prompts turns raw user input into the prompt text sent to the
// text-generation API: length/tone modifiers and the built-in templates.
package prompts

type Length string

const (
	LengthShort  Length = "short"
	LengthMedium Length = "medium"
	LengthLong   Length = "long"
)

type Tone string

const (
	ToneProfessional Tone = "professional"
	ToneCasual       Tone = "casual"
	ToneFriendly     Tone = "friendly"
	ToneHumorous     Tone = "humorous"
	ToneFormal       Tone = "formal"
)

var lengthClauses = map[Length]string{
	LengthShort:  " Keep the response concise and brief, around 100-200 words.",
	LengthMedium: " Provide a moderate-length response, around 300-500 words.",
	LengthLong:   " Provide a detailed and comprehensive response, around 700-1000 words.",
}

var toneClauses = map[Tone]string{
	ToneProfessional: " Use a professional and formal tone.",
	ToneCasual:       " Use a casual and conversational tone.",
	ToneFriendly:     " Use a friendly and approachable tone.",
	ToneHumorous:     " Use a humorous and light-hearted tone.",
	ToneFormal:       " Use a very formal and academic tone.",
}

// Enhance appends the length clause and then the tone clause to prompt.
// Selectors outside the tables add nothing.
func Enhance(prompt string, length Length, tone Tone) string {
	return prompt + lengthClauses[length] + toneClauses[tone]
}

func (l Length) Valid() bool {
	_, ok := lengthClauses[l]
	return ok
}

func (t Tone) Valid() bool {
	_, ok := toneClauses[t]
	return ok
}
