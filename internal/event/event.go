package event

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeSessionLoaded     Type = "session.loaded"
	TypeQuestionDisplayed Type = "question.displayed"
	TypeAnswerSubmitted   Type = "answer.submitted"
	TypeAnswerFailed      Type = "answer.failed"
	TypeSessionExpired    Type = "session.expired"
	TypeSessionEnded      Type = "session.ended"
	TypeSessionRedirected Type = "session.redirected"
	TypeTick              Type = "tick"
)

type Event struct {
	ID          string `json:"id"`
	Type        Type   `json:"type"`
	InterviewID int64  `json:"interview_id"`
	Payload     any    `json:"payload,omitempty"`
	Timestamp   string `json:"timestamp"`
}

func New(typ Type, interviewID int64, payload any) Event {
	return Event{
		ID:          uuid.NewString(),
		Type:        typ,
		InterviewID: interviewID,
		Payload:     payload,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}
}

type Bus interface {
	Publish(e Event)
	Subscribe() (<-chan Event, func()) // channel and unsubscribe
}

// Nop drops every event. Used when nothing mirrors the session.
type Nop struct{}

func (Nop) Publish(Event) {}

func (Nop) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event)
	close(ch)
	return ch, func() {}
}
