package payments

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mvalderrama/pixelmart-backend/pkg/db/models"
)

// recordCompletedSessionSQL merges a completed checkout into the buyer's
// payment record in one statement. The array append is guarded so replays of
// the same event never duplicate an entry, and unrelated fields on an
// existing record survive the merge.
const recordCompletedSessionSQL = `
INSERT INTO payment_records (user_id, has_paid, paid_images, last_session_id, paid_at, created_at, updated_at)
VALUES (?, TRUE, ARRAY[?]::text[], ?, ?, NOW(), NOW())
ON CONFLICT (user_id) DO UPDATE SET
  has_paid = TRUE,
  paid_images = CASE
    WHEN ? = ANY (payment_records.paid_images) THEN payment_records.paid_images
    ELSE array_append(payment_records.paid_images, ?)
  END,
  last_session_id = EXCLUDED.last_session_id,
  paid_at = EXCLUDED.paid_at,
  updated_at = NOW()`

// Repository is the exclusive writer of payment records.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a payments repository bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// RecordCompletedSession upserts the buyer's payment record for a completed
// checkout session. The statement is atomic under concurrent deliveries.
func (r *Repository) RecordCompletedSession(ctx context.Context, userID uuid.UUID, imageName, sessionID string, at time.Time) error {
	if userID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	if imageName == "" {
		return gorm.ErrInvalidValue
	}
	return r.db.WithContext(ctx).
		Exec(recordCompletedSessionSQL, userID, imageName, sessionID, at, imageName, imageName).
		Error
}

// FindByUserID returns the buyer's payment record, or nil when none exists.
func (r *Repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.PaymentRecord, error) {
	var record models.PaymentRecord
	err := r.db.WithContext(ctx).First(&record, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}
