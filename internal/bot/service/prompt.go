package service

import (
	"fmt"
	"strings"

	"github.com/fundedhub/backend/internal/bot/domain"
)

// BuildPrompt renders the persona template with the retrieved document
// context and the rolling conversation history.
func BuildPrompt(persona domain.Persona, contextChunks []string, history []domain.Exchange, question string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are %s, %s.\n", persona.Name, persona.Description)
	fmt.Fprintf(&b, "Your personality is %s, and your tone is %s.\n", persona.Personality, persona.Tone)

	if len(contextChunks) > 0 {
		b.WriteString("\nUse the following context to answer:\n")
		for _, chunk := range contextChunks {
			b.WriteString(chunk)
			b.WriteString("\n---\n")
		}
	}

	if len(history) > 0 {
		b.WriteString("\nConversation so far:\n")
		for _, ex := range history {
			fmt.Fprintf(&b, "User: %s\n", ex.Question)
			fmt.Fprintf(&b, "%s: %s\n", persona.Name, ex.Answer)
		}
	}

	b.WriteString("\nRespond to the user query below:\n\n")
	fmt.Fprintf(&b, "User: %s\n", question)

	return b.String()
}
