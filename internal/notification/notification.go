package notification

import (
	"context"
	"log"

	"github.com/google/uuid"
)

// Priority ranks how urgently a notification should be surfaced.
type Priority string

const (
	PriorityNormal Priority = "NORMAL"
	PriorityHigh   Priority = "HIGH"
)

// Notification is an event emitted to the loan or account owner. Dispatch is
// fire-and-forget from the caller's perspective; delivery is the notification
// subsystem's concern.
type Notification struct {
	UserID   uuid.UUID         `json:"user_id"`
	Title    string            `json:"title"`
	Message  string            `json:"message"`
	Type     string            `json:"type"`
	Priority Priority          `json:"priority"`
	Metadata map[string]string `json:"metadata,omitempty"`

	// DedupKey suppresses duplicate sends of the same logical event.
	// Empty means no deduplication.
	DedupKey string `json:"-"`
}

// Dispatcher delivers notifications.
type Dispatcher interface {
	Dispatch(ctx context.Context, n Notification) error
}

// LogDispatcher writes notifications to the process log. Used in development
// and as the delivery target behind the deduplicating dispatcher.
type LogDispatcher struct{}

func NewLogDispatcher() *LogDispatcher {
	return &LogDispatcher{}
}

func (d *LogDispatcher) Dispatch(ctx context.Context, n Notification) error {
	log.Printf("notification [%s] user=%s type=%s title=%q message=%q", n.Priority, n.UserID, n.Type, n.Title, n.Message)
	return nil
}
