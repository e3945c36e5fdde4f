package amqp

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"moneymanager/internal/core"
)

type EventKind string

const (
	TransactionCreated EventKind = "transaction.created"
	TransactionUpdated EventKind = "transaction.updated"
	TransactionDeleted EventKind = "transaction.deleted"
)

// LedgerEvent announces a committed transaction mutation and the balance
// deltas it applied. For updates Deltas holds the reversal of the old values
// followed by the new ones.
type LedgerEvent struct {
	EventID       string       `json:"eventId"`
	Kind          EventKind    `json:"kind"`
	TransactionID int64        `json:"transactionId"`
	Deltas        []core.Delta `json:"deltas"`
	OccurredAt    time.Time    `json:"occurredAt"`
}

func NewLedgerEvent(kind EventKind, transactionID int64, deltas []core.Delta, occurredAt time.Time) *LedgerEvent {
	if deltas == nil {
		deltas = []core.Delta{}
	}
	return &LedgerEvent{
		EventID:       uuid.NewString(),
		Kind:          kind,
		TransactionID: transactionID,
		Deltas:        deltas,
		OccurredAt:    occurredAt.UTC(),
	}
}

// Accounts returns the distinct account names the event touched, in first-seen order.
func (e *LedgerEvent) Accounts() []string {
	seen := make(map[string]bool, len(e.Deltas))
	var names []string
	for _, d := range e.Deltas {
		if !seen[d.Account] {
			seen[d.Account] = true
			names = append(names, d.Account)
		}
	}
	return names
}

func (e *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var e LedgerEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(e.EventID); err != nil {
		return nil, fmt.Errorf("invalid event id %q: %w", e.EventID, err)
	}
	switch e.Kind {
	case TransactionCreated, TransactionUpdated, TransactionDeleted:
	default:
		return nil, errors.New("unknown event kind: " + string(e.Kind))
	}
	return &e, nil
}
