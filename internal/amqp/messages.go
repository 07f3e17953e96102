package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// Action describes what happened to an expense record.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// IsValid reports whether the action is one the worker knows.
func (a Action) IsValid() bool {
	switch a {
	case ActionCreated, ActionUpdated, ActionDeleted:
		return true
	default:
		return false
	}
}

// ExpenseEvent is the message published for every write. It carries only
// the record id and action; the worker fetches current state from the
// store, so stale messages never overwrite fresher data.
type ExpenseEvent struct {
	ID         int64     `json:"id"`
	Action     Action    `json:"action"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewExpenseEvent creates an event for the given record and action.
func NewExpenseEvent(id int64, action Action) *ExpenseEvent {
	return &ExpenseEvent{
		ID:         id,
		Action:     action,
		OccurredAt: time.Now().UTC(),
	}
}

// ToJSON converts the event to JSON bytes
func (e *ExpenseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// ExpenseEventFromJSON parses an event, rejecting unknown actions so bad
// messages get dropped instead of requeued forever.
func ExpenseEventFromJSON(data []byte) (*ExpenseEvent, error) {
	var event ExpenseEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, err
	}
	if !event.Action.IsValid() {
		return nil, fmt.Errorf("unknown action %q", event.Action)
	}
	return &event, nil
}
