package ledger

import (
	"errors"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrAlreadyRecorded means a transfer for this payment intent exists;
// the payout scan treats it as already paid out.
var ErrAlreadyRecorded = errors.New("transfer already recorded for payment intent")

// Transfer is one executed owner payout. The unique payment-intent index
// is what makes the payout scan idempotent: even if the CMS status write
// fails after a transfer, a re-run cannot move the money twice.
type Transfer struct {
	ID              uint   `gorm:"primaryKey"`
	PaymentIntentID string `gorm:"uniqueIndex;size:255;not null"`
	ReservationID   int    `gorm:"index;not null"`
	TransferID      string `gorm:"size:255;not null"`
	AmountMinor     int64  `gorm:"not null"`
	CreatedAt       time.Time
}

// Ledger is the local SQLite store of executed transfers.
type Ledger struct {
	db *gorm.DB
}

func Open(path string) (*Ledger, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Transfer{}); err != nil {
		return nil, err
	}
	return &Ledger{db: db}, nil
}

// Recorded reports whether a transfer exists for the payment intent.
func (l *Ledger) Recorded(paymentIntentID string) (bool, error) {
	var count int64
	err := l.db.Model(&Transfer{}).
		Where("payment_intent_id = ?", paymentIntentID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Record persists an executed transfer. A replay of the same payment
// intent returns ErrAlreadyRecorded.
func (l *Ledger) Record(t *Transfer) error {
	if err := l.db.Create(t).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyRecorded
		}
		return err
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique")
}
