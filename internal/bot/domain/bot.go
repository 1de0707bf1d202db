package domain

import (
	"time"

	userdomain "github.com/fundedhub/backend/internal/user/domain"
)

type ID string

// Bot is a persona-driven chatbot. Document holds the raw knowledge text
// the bot answers from.
type Bot struct {
	ID          ID
	OwnerID     userdomain.ID
	Name        string
	Description string
	Tone        string
	Personality string
	Document    string
	CreatedAt   time.Time
}

type Persona struct {
	Name        string
	Description string
	Tone        string
	Personality string
}

func (b Bot) Persona() Persona {
	return Persona{
		Name:        b.Name,
		Description: b.Description,
		Tone:        b.Tone,
		Personality: b.Personality,
	}
}

// Exchange is one question/answer turn kept in a chat session's rolling
// memory window.
type Exchange struct {
	Question string
	Answer   string
}
