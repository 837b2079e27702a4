package payment

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusInProcess Status = "in_process"
	StatusCancelled Status = "cancelled"
	StatusRefunded  Status = "refunded"
	StatusUnknown   Status = "unknown"
)

func (s Status) Terminal() bool {
	switch s {
	case StatusApproved, StatusRejected, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

type Record struct {
	ExternalID  string
	Status      Status
	Amount      decimal.Decimal
	PayerEmail  string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// processor vocabulary -> canonical set
var normalization = map[string]Status{
	"pending":      StatusPending,
	"approved":     StatusApproved,
	"authorized":   StatusInProcess,
	"in_process":   StatusInProcess,
	"in_mediation": StatusInProcess,
	"rejected":     StatusRejected,
	"cancelled":    StatusCancelled,
	"refunded":     StatusRefunded,
	"charged_back": StatusRefunded,
}

// Normalize maps a raw processor status onto the canonical set. Unmapped
// values come back as StatusUnknown with ok = false so callers can log them.
func Normalize(raw string) (Status, bool) {
	s, ok := normalization[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return StatusUnknown, false
	}
	return s, true
}

// transitions enumerates every (current, incoming) pair allowed to change a
// record's status. Pairs absent from the table are rejected. Identical
// statuses never appear here; redelivery of the same status is a touch-only
// no-op handled by the caller.
var transitions = map[Status]map[Status]bool{
	StatusPending: {
		StatusApproved:  true,
		StatusRejected:  true,
		StatusInProcess: true,
		StatusCancelled: true,
		StatusRefunded:  true,
	},
	StatusInProcess: {
		StatusApproved:  true,
		StatusRejected:  true,
		StatusCancelled: true,
		StatusRefunded:  true,
	},
	StatusApproved: {
		StatusRefunded: true,
	},
	StatusRejected:  {},
	StatusCancelled: {},
	StatusRefunded:  {},
	StatusUnknown: {
		StatusPending:   true,
		StatusApproved:  true,
		StatusRejected:  true,
		StatusInProcess: true,
		StatusCancelled: true,
		StatusRefunded:  true,
	},
}

// CanTransition reports whether a record currently at current may move to
// incoming. StatusUnknown is never applied over an existing record.
func CanTransition(current, incoming Status) bool {
	if incoming == StatusUnknown || incoming == current {
		return false
	}
	return transitions[current][incoming]
}
