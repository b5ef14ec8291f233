package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mvalderrama/pixelmart-backend/internal/catalog"
	"github.com/mvalderrama/pixelmart-backend/internal/users"
	"github.com/mvalderrama/pixelmart-backend/pkg/db/models"
	"github.com/mvalderrama/pixelmart-backend/pkg/enums"
	pkgerrors "github.com/mvalderrama/pixelmart-backend/pkg/errors"
)

type userRepository interface {
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	SetAdmin(ctx context.Context, id uuid.UUID, isAdmin bool) error
}

type imageRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Image, error)
	ListByStatus(ctx context.Context, status enums.ApprovalStatus) ([]models.Image, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ApprovalStatus) error
}

// GrantAdminResult reports the outcome of an admin grant.
type GrantAdminResult struct {
	IsAdmin bool   `json:"is_admin"`
	Message string `json:"message"`
}

// Service holds the moderation and ownership operations.
type Service interface {
	GrantAdmin(ctx context.Context, userID uuid.UUID, email string) (*GrantAdminResult, error)
	ListPending(ctx context.Context) ([]catalog.ImageDTO, error)
	SetApproval(ctx context.Context, imageID uuid.UUID, approved bool) (*catalog.ImageDTO, error)
}

// ServiceParams bundles the dependencies required to build the admin service.
type ServiceParams struct {
	Users  userRepository
	Images imageRepository
}

type service struct {
	users  userRepository
	images imageRepository
}

// NewService constructs an admin service with the provided repositories.
func NewService(params ServiceParams) (Service, error) {
	if params.Users == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.Images == nil {
		return nil, fmt.Errorf("image repository is required")
	}
	return &service{users: params.Users, images: params.Images}, nil
}

// GrantAdmin promotes the caller to admin. The operation is idempotent: an
// existing admin is acknowledged without mutation, and a missing user record
// is created with the capability and the claimed email.
func (s *service) GrantAdmin(ctx context.Context, userID uuid.UUID, email string) (*GrantAdminResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
		}
		claimed := strings.ToLower(strings.TrimSpace(email))
		if claimed == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
		}
		if _, err := s.users.Create(ctx, users.CreateUserDTO{Email: claimed, IsAdmin: true}); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create admin user")
		}
		return &GrantAdminResult{IsAdmin: true, Message: "admin user created"}, nil
	}

	if user.IsAdmin {
		return &GrantAdminResult{IsAdmin: true, Message: "already admin"}, nil
	}
	if err := s.users.SetAdmin(ctx, user.ID, true); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "grant admin flag")
	}
	return &GrantAdminResult{IsAdmin: true, Message: "admin access granted"}, nil
}

// ListPending returns images awaiting moderation.
func (s *service) ListPending(ctx context.Context) ([]catalog.ImageDTO, error) {
	imgs, err := s.images.ListByStatus(ctx, enums.ApprovalStatusPending)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pending images")
	}
	out := make([]catalog.ImageDTO, 0, len(imgs))
	for i := range imgs {
		out = append(out, catalog.ToImageDTO(&imgs[i]))
	}
	return out, nil
}

// SetApproval moves a pending image to approved or rejected. Repeating the
// same terminal decision is a no-op; any other transition is refused.
func (s *service) SetApproval(ctx context.Context, imageID uuid.UUID, approved bool) (*catalog.ImageDTO, error) {
	if imageID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image id is required")
	}
	target := enums.ApprovalStatusRejected
	if approved {
		target = enums.ApprovalStatusApproved
	}

	image, err := s.images.FindByID(ctx, imageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "image not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup image")
	}

	switch {
	case image.Status == target:
		// Terminal decisions are idempotent.
	case image.Status == enums.ApprovalStatusPending:
		if err := s.images.UpdateStatus(ctx, imageID, target); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update image status")
		}
		image.Status = target
	default:
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move image from %s to %s", image.Status, target))
	}

	dto := catalog.ToImageDTO(image)
	return &dto, nil
}
