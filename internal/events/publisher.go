package events

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EntryCreated = "entry_created"
	EntryUpdated = "entry_updated"
	EntryDeleted = "entry_deleted"
)

// EntryMutation is emitted after an entry write has been committed. AccountIDs
// lists every account whose balance the mutation touched.
type EntryMutation struct {
	Kind       string          `json:"kind"`
	EntryID    string          `json:"entry_id"`
	UserID     string          `json:"user_id"`
	AccountIDs []string        `json:"account_ids"`
	Amount     decimal.Decimal `json:"amount"`
	EntryType  string          `json:"entry_type"`
	OccurredAt time.Time       `json:"occurred_at"`
}

type Publisher interface {
	Publish(topic string, event any) error
}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(topic string, event any) error { return nil }
