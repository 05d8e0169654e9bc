// AngelaMos | 2026
// status.go

package account

import (
	"errors"
	"fmt"
	"slices"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusBanned   Status = "banned"
)

var AllStatuses = []Status{
	StatusPending,
	StatusApproved,
	StatusRejected,
	StatusBanned,
}

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUnknownStatus     = errors.New("unknown account status")
)

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !slices.Contains(AllStatuses, st) {
		return "", fmt.Errorf("parse status %q: %w", s, ErrUnknownStatus)
	}
	return st, nil
}

func (s Status) Valid() bool {
	return slices.Contains(AllStatuses, s)
}

type Event string

const (
	EventApprove  Event = "approve"
	EventReject   Event = "reject"
	EventBan      Event = "ban"
	EventResubmit Event = "resubmit"
)

type transition struct {
	from []Status
	to   Status
}

// Registration is not an event here: a new row is inserted directly as
// pending and there is no prior state to leave.
var transitions = map[Event]transition{
	EventApprove:  {from: []Status{StatusPending}, to: StatusApproved},
	EventReject:   {from: []Status{StatusPending}, to: StatusRejected},
	EventBan:      {from: []Status{StatusApproved, StatusRejected}, to: StatusBanned},
	EventResubmit: {from: []Status{StatusPending, StatusApproved, StatusRejected}, to: StatusPending},
}

// Next returns the status that event moves from into.
func Next(from Status, event Event) (Status, error) {
	t, ok := transitions[event]
	if !ok {
		return "", fmt.Errorf("unknown event %q: %w", event, ErrInvalidTransition)
	}
	if !slices.Contains(t.from, from) {
		return "", fmt.Errorf(
			"%s from %s: %w",
			event,
			from,
			ErrInvalidTransition,
		)
	}
	return t.to, nil
}

// Sources lists the statuses event may leave. The repository uses it as the
// guard in the conditional UPDATE.
func Sources(event Event) []Status {
	t, ok := transitions[event]
	if !ok {
		return nil
	}
	return slices.Clone(t.from)
}

func Target(event Event) (Status, bool) {
	t, ok := transitions[event]
	return t.to, ok
}
