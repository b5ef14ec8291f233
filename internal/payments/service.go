package payments

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mvalderrama/pixelmart-backend/pkg/db/models"
	pkgerrors "github.com/mvalderrama/pixelmart-backend/pkg/errors"
)

type recordReader interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.PaymentRecord, error)
}

// StatusDTO reports what the buyer has paid for.
type StatusDTO struct {
	HasPaid    bool       `json:"has_paid"`
	PaidImages []string   `json:"paid_images"`
	PaidAt     *time.Time `json:"paid_at,omitempty"`
}

// Service answers payment-status queries.
type Service interface {
	Status(ctx context.Context, userID uuid.UUID) (*StatusDTO, error)
}

type service struct {
	records recordReader
}

// NewService constructs a payments service over the given record reader.
func NewService(records recordReader) (Service, error) {
	if records == nil {
		return nil, fmt.Errorf("payment record reader is required")
	}
	return &service{records: records}, nil
}

// Status returns the buyer's payment standing. A missing record is not an
// error; it maps to the all-empty defaults.
func (s *service) Status(ctx context.Context, userID uuid.UUID) (*StatusDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	record, err := s.records.FindByUserID(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment record")
	}
	if record == nil {
		return &StatusDTO{PaidImages: []string{}}, nil
	}
	images := make([]string, len(record.PaidImages))
	copy(images, record.PaidImages)
	return &StatusDTO{
		HasPaid:    record.HasPaid,
		PaidImages: images,
		PaidAt:     record.PaidAt,
	}, nil
}
