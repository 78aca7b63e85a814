package app

import "squirrelstash/internal/domain"

// EventKind identifies emitted app events for transport dispatch.
type EventKind string

const (
	EventSessionStarted   EventKind = "session_started"
	EventSessionRestarted EventKind = "session_restarted"
	EventActionResolved   EventKind = "action_resolved"
	EventCardStolen       EventKind = "card_stolen"
)

// Event is an app event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user IDs; empty means the acting player only
}

type SessionStartedPayload struct {
	UserID    string
	SessionID string
	GuildID   string
}

type SessionRestartedPayload struct {
	UserID    string
	SessionID string
	Highscore int
}

type ActionResolvedPayload struct {
	UserID  string
	Action  ActionKind
	Outcome domain.Event
}

type CardStolenPayload struct {
	ThiefID  string
	VictimID string
	Card     domain.Card
}
