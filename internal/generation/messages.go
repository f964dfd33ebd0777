package generation

import (
	"sort"

	"genstudio/internal/conversations"
)

// BuildMessages lays out one generation call: the system prompt as a model
// entry, prior turns oldest first as user/model pairs, then the prompt.
// turns may arrive in any order; the slice passed in is not modified.
func BuildMessages(system string, turns []conversations.Turn, prompt string) []Message {
	ordered := make([]conversations.Turn, len(turns))
	copy(ordered, turns)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].OccurredAt.Before(ordered[j].OccurredAt)
	})

	messages := make([]Message, 0, 2+2*len(ordered))
	messages = append(messages, Message{Role: RoleModel, Text: system})
	for _, turn := range ordered {
		messages = append(messages,
			Message{Role: RoleUser, Text: turn.UserMessage},
			Message{Role: RoleModel, Text: turn.AIResponse},
		)
	}
	return append(messages, Message{Role: RoleUser, Text: prompt})
}
