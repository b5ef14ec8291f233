package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/mvalderrama/pixelmart-backend/pkg/enums"
)

// Image represents an uploaded marketplace asset. The Name column doubles
// as the item identifier carried in checkout metadata and download requests.
type Image struct {
	ID        uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string               `gorm:"column:name;type:text;not null;uniqueIndex"`
	GCSKey    string               `gorm:"column:gcs_key;not null"`
	OwnerID   uuid.UUID            `gorm:"column:owner_id;type:uuid;not null"`
	Status    enums.ApprovalStatus `gorm:"column:status;type:approval_status;not null;default:'pending'"`
	Tags      pq.StringArray       `gorm:"column:tags;type:text[];not null;default:ARRAY[]::text[]"`
	MimeType  string               `gorm:"column:mime_type;not null"`
	SizeBytes int64                `gorm:"column:size_bytes;not null"`
	CreatedAt time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
