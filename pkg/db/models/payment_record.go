package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// PaymentRecord is the per-user purchase ledger. PaidImages is an
// append-only set; rows are written exclusively by the webhook reconciler.
type PaymentRecord struct {
	UserID        uuid.UUID      `gorm:"column:user_id;type:uuid;primaryKey"`
	HasPaid       bool           `gorm:"column:has_paid;not null;default:false"`
	PaidImages    pq.StringArray `gorm:"column:paid_images;type:text[];not null;default:ARRAY[]::text[]"`
	LastSessionID string         `gorm:"column:last_session_id"`
	PaidAt        *time.Time     `gorm:"column:paid_at"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// Owns reports whether the record covers the named image.
func (p *PaymentRecord) Owns(imageName string) bool {
	if p == nil {
		return false
	}
	for _, name := range p.PaidImages {
		if name == imageName {
			return true
		}
	}
	return false
}
