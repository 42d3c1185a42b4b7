// Package ledgerrepo persists the processed-message ledger backing idempotent
// event consumption. Each row records one bus message that has been fully
// applied; the primary key on the message identifier is the idempotency
// guarantee.
package ledgerrepo

import (
	"time"
)

// ProcessedMessageDTO represents one applied bus message.
type ProcessedMessageDTO struct {
	MessageID   string `gorm:"primaryKey"`
	EventType   string
	ProcessedAt time.Time
}

// TableName specifies the database table name for ledger entries.
func (ProcessedMessageDTO) TableName() string {
	return "processed_messages"
}
