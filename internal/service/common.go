package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// formatTime renders response timestamps in UTC so the trailing Z is honest
// regardless of the server's local zone.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

const orderNumberAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// newOrderNumber builds the human-readable order number:
// {storeSequence:03d}-{YYYYMMDD}-{8-char random base36 suffix}.
func newOrderNumber(storeSeq int, now time.Time) string {
	u := uuid.New()
	suffix := make([]byte, 8)
	for i := range suffix {
		suffix[i] = orderNumberAlphabet[int(u[i])%len(orderNumberAlphabet)]
	}
	return fmt.Sprintf("%03d-%s-%s", storeSeq, now.Format("20060102"), string(suffix))
}
