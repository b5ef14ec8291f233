package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/mvalderrama/pixelmart-backend/pkg/db/models"
	"github.com/mvalderrama/pixelmart-backend/pkg/enums"
)

// ImageDTO is the catalog projection returned to clients.
type ImageDTO struct {
	ID        uuid.UUID            `json:"id"`
	Name      string               `json:"name"`
	Status    enums.ApprovalStatus `json:"status"`
	Tags      []string             `json:"tags"`
	MimeType  string               `json:"mime_type"`
	SizeBytes int64                `json:"size_bytes"`
	CreatedAt time.Time            `json:"created_at"`
}

// PresignRequest models the payload required to request an upload URL.
type PresignRequest struct {
	FileName  string   `json:"file_name" validate:"required"`
	MimeType  string   `json:"mime_type" validate:"required"`
	SizeBytes int64    `json:"size_bytes" validate:"required,gt=0"`
	Tags      []string `json:"tags" validate:"omitempty,dive,max=64"`
}

// PresignResponse contains the data returned after creating an image record.
type PresignResponse struct {
	ImageID      uuid.UUID `json:"image_id"`
	Name         string    `json:"name"`
	GCSKey       string    `json:"gcs_key"`
	SignedPUTURL string    `json:"signed_put_url"`
	ContentType  string    `json:"content_type"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// ToImageDTO projects an image row into its client-facing shape.
func ToImageDTO(img *models.Image) ImageDTO {
	tags := make([]string, len(img.Tags))
	copy(tags, img.Tags)
	return ImageDTO{
		ID:        img.ID,
		Name:      img.Name,
		Status:    img.Status,
		Tags:      tags,
		MimeType:  img.MimeType,
		SizeBytes: img.SizeBytes,
		CreatedAt: img.CreatedAt,
	}
}

func imagesToDTOs(imgs []models.Image) []ImageDTO {
	out := make([]ImageDTO, 0, len(imgs))
	for i := range imgs {
		out = append(out, ToImageDTO(&imgs[i]))
	}
	return out
}
