package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mvalderrama/pixelmart-backend/pkg/db/models"
	"github.com/mvalderrama/pixelmart-backend/pkg/enums"
)

// Repository exposes image metadata persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a catalog repository bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists an image record.
func (r *Repository) Create(ctx context.Context, image *models.Image) (*models.Image, error) {
	if err := r.db.WithContext(ctx).Create(image).Error; err != nil {
		return nil, err
	}
	return image, nil
}

// FindByID retrieves an image record by ID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Image, error) {
	var img models.Image
	if err := r.db.WithContext(ctx).First(&img, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &img, nil
}

// FindByName retrieves an image record by its unique name.
func (r *Repository) FindByName(ctx context.Context, name string) (*models.Image, error) {
	var img models.Image
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&img).Error; err != nil {
		return nil, err
	}
	return &img, nil
}

// ListByStatus returns images in the given moderation state, newest first.
func (r *Repository) ListByStatus(ctx context.Context, status enums.ApprovalStatus) ([]models.Image, error) {
	var imgs []models.Image
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&imgs).Error
	if err != nil {
		return nil, err
	}
	return imgs, nil
}

// ListByOwner returns every image uploaded by the given user, newest first.
func (r *Repository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Image, error) {
	var imgs []models.Image
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&imgs).Error
	if err != nil {
		return nil, err
	}
	return imgs, nil
}

// UpdateStatus moves an image into the given moderation state.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ApprovalStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Image{}).
		Where("id = ?", id).
		UpdateColumn("status", status).Error
}

// Delete removes an image record.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Image{}).Error
}
