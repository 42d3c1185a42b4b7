package ledgerrepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/patrickmn/go-cache"
	"gorm.io/gorm"

	"orderflow/internal/pkg/errs"
)

const uniqueViolationCode = "23505"

// GormMessageLedger implements MessageLedger using GORM with an in-process
// read-through cache in front. Redeliveries usually arrive seconds after the
// original, so most duplicate checks never reach the database.
type GormMessageLedger struct {
	db   *gorm.DB
	seen *cache.Cache
}

// NewGormMessageLedger creates a ledger bound to a database handle. The seen
// cache is shared across transactions; see NewSeenCache.
func NewGormMessageLedger(db *gorm.DB, seen *cache.Cache) *GormMessageLedger {
	return &GormMessageLedger{
		db:   db,
		seen: seen,
	}
}

// NewSeenCache creates the cache shared by all ledger instances of a process.
// Entries expire after the window in which redeliveries realistically occur.
func NewSeenCache(window time.Duration) *cache.Cache {
	return cache.New(window, 2*window)
}

// IsProcessed reports whether a message identifier has been recorded. Only
// positive database answers are cached: a miss must always be re-checked
// because another instance may record the message at any time.
func (l *GormMessageLedger) IsProcessed(ctx context.Context, messageID string) (bool, error) {
	if _, hit := l.seen.Get(messageID); hit {
		return true, nil
	}

	var count int64
	err := l.db.WithContext(ctx).
		Model(&ProcessedMessageDTO{}).
		Where("message_id = ?", messageID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	if count > 0 {
		l.seen.SetDefault(messageID, struct{}{})
		return true, nil
	}

	return false, nil
}

// MarkProcessed records a message identifier. An identifier already present
// surfaces as errs.DuplicateResourceError. The cache is not written here: the
// surrounding transaction may still roll back.
func (l *GormMessageLedger) MarkProcessed(ctx context.Context, messageID, eventType string) error {
	dto := ProcessedMessageDTO{
		MessageID:   messageID,
		EventType:   eventType,
		ProcessedAt: time.Now().UTC(),
	}

	if err := l.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if isUniqueViolation(err) {
			return errs.NewDuplicateResourceErrorWithCause("messageId", messageID, err)
		}
		return err
	}

	return nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
