package catalog

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/mvalderrama/pixelmart-backend/pkg/config"
	"github.com/mvalderrama/pixelmart-backend/pkg/db"
	"github.com/mvalderrama/pixelmart-backend/pkg/db/models"
	"github.com/mvalderrama/pixelmart-backend/pkg/enums"
	pkgerrors "github.com/mvalderrama/pixelmart-backend/pkg/errors"
)

var allowedImageMimeTypes = []string{
	"image/png",
	"image/jpeg",
	"image/webp",
	"image/gif",
}

type imageRepository interface {
	Create(ctx context.Context, image *models.Image) (*models.Image, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByStatus(ctx context.Context, status enums.ApprovalStatus) ([]models.Image, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Image, error)
}

type uploadSigner interface {
	SignedURL(bucket, object, contentType string, expires time.Duration) (string, error)
}

// Service exposes the image catalog: upload presigning and listings.
type Service interface {
	PresignUpload(ctx context.Context, userID uuid.UUID, req PresignRequest) (*PresignResponse, error)
	ListApproved(ctx context.Context) ([]ImageDTO, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]ImageDTO, error)
}

// ServiceParams bundles the dependencies required to build a catalog service.
type ServiceParams struct {
	Repo            imageRepository
	Signer          uploadSigner
	Bucket          string
	UploadTTL       time.Duration
	ProtectedPrefix string
	Media           config.MediaConfig
}

type service struct {
	repo           imageRepository
	signer         uploadSigner
	bucket         string
	uploadTTL      time.Duration
	objectPrefix   string
	maxUploadBytes int64
}

// NewService constructs a catalog service backed by the provided repository and signer.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("image repository is required")
	}
	if params.Signer == nil {
		return nil, fmt.Errorf("upload signer is required")
	}
	if params.Bucket == "" {
		return nil, fmt.Errorf("gcs bucket is required")
	}
	if params.UploadTTL <= 0 {
		return nil, fmt.Errorf("upload ttl must be positive")
	}
	prefix := strings.Trim(strings.TrimSpace(params.ProtectedPrefix), "/")
	if prefix == "" {
		return nil, fmt.Errorf("protected object prefix is required")
	}
	maxMB := params.Media.MaxUploadMB
	if maxMB <= 0 {
		maxMB = 20
	}
	return &service{
		repo:           params.Repo,
		signer:         params.Signer,
		bucket:         params.Bucket,
		uploadTTL:      params.UploadTTL,
		objectPrefix:   prefix,
		maxUploadBytes: int64(maxMB) * 1024 * 1024,
	}, nil
}

func (s *service) PresignUpload(ctx context.Context, userID uuid.UUID, req PresignRequest) (*PresignResponse, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	name := sanitizeImageName(req.FileName)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file_name is required")
	}
	if req.SizeBytes <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "size_bytes must be positive")
	}
	if req.SizeBytes > s.maxUploadBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("size_bytes must not exceed %d bytes", s.maxUploadBytes))
	}
	mimeType := strings.TrimSpace(req.MimeType)
	if !isAllowedImageMime(mimeType) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "mime_type not allowed")
	}

	imageID := uuid.New()
	gcsKey := s.objectPrefix + "/" + name

	row := &models.Image{
		ID:        imageID,
		Name:      name,
		GCSKey:    gcsKey,
		OwnerID:   userID,
		Status:    enums.ApprovalStatusPending,
		Tags:      pq.StringArray(req.Tags),
		MimeType:  mimeType,
		SizeBytes: req.SizeBytes,
	}
	if _, err := s.repo.Create(ctx, row); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "an image with this name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist image row")
	}

	expiresAt := time.Now().Add(s.uploadTTL)
	signedURL, err := s.signer.SignedURL(s.bucket, gcsKey, mimeType, s.uploadTTL)
	if err != nil {
		_ = s.repo.Delete(ctx, imageID)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sign upload url")
	}

	return &PresignResponse{
		ImageID:      imageID,
		Name:         name,
		GCSKey:       gcsKey,
		SignedPUTURL: signedURL,
		ContentType:  mimeType,
		ExpiresAt:    expiresAt,
	}, nil
}

func (s *service) ListApproved(ctx context.Context) ([]ImageDTO, error) {
	imgs, err := s.repo.ListByStatus(ctx, enums.ApprovalStatusApproved)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list approved images")
	}
	return imagesToDTOs(imgs), nil
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID) ([]ImageDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	imgs, err := s.repo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list owned images")
	}
	return imagesToDTOs(imgs), nil
}

func isAllowedImageMime(mimeType string) bool {
	for _, candidate := range allowedImageMimeTypes {
		if strings.EqualFold(candidate, mimeType) {
			return true
		}
	}
	return false
}

// sanitizeImageName reduces a client file name to a safe object name. The
// result doubles as the image's unique catalog name.
func sanitizeImageName(name string) string {
	clean := path.Base(strings.TrimSpace(name))
	if clean == "." || clean == ".." || clean == "/" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(clean))
	for _, r := range clean {
		switch {
		case r == '/' || r == '\\' || unicode.IsControl(r):
			continue
		case unicode.IsSpace(r):
			b.WriteRune('-')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "-_.")
}
