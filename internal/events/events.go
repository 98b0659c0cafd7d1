package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

type Type string

const (
	TypeUserRegistered   Type = "user.registered"
	TypeProfileSubmitted Type = "profile.submitted"
	TypeProfilePublished Type = "profile.published"
)

// AllTypes lists every event type the service emits.
var AllTypes = []Type{TypeUserRegistered, TypeProfileSubmitted, TypeProfilePublished}

// Event is the JSON payload of every lifecycle message.
type Event struct {
	EventID     string    `json:"event_id"`
	Type        Type      `json:"type"`
	UserID      uint      `json:"user_id"`
	Username    string    `json:"username"`
	IsCompleted bool      `json:"is_completed"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func New(t Type, userID uint, username string, completed bool) Event {
	return Event{
		EventID:     watermill.NewUUID(),
		Type:        t,
		UserID:      userID,
		Username:    username,
		IsCompleted: completed,
		OccurredAt:  time.Now().UTC(),
	}
}

// Publisher hands lifecycle events to the message bus.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
	Close() error
}

func toMessage(ctx context.Context, evt Event) (*message.Message, error) {
	payload, err := json.Marshal(evt)
	if err != nil {
		return nil, fmt.Errorf("failed to encode event: %w", err)
	}
	msg := message.NewMessage(evt.EventID, payload)
	msg.Metadata.Set("type", string(evt.Type))
	msg.SetContext(ctx)
	return msg, nil
}

// Decode parses a message produced by Publish.
func Decode(msg *message.Message) (Event, error) {
	var evt Event
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		return Event{}, fmt.Errorf("failed to decode event %s: %w", msg.UUID, err)
	}
	return evt, nil
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }
