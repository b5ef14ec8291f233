package access

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mvalderrama/pixelmart-backend/pkg/db/models"
	pkgerrors "github.com/mvalderrama/pixelmart-backend/pkg/errors"
)

type recordReader interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.PaymentRecord, error)
}

type objectStore interface {
	ObjectExists(ctx context.Context, bucket, object string) (bool, error)
	SignedReadURL(bucket, object string, expires time.Duration) (string, error)
}

// Service gates downloads behind the buyer's payment record.
type Service interface {
	AuthorizeDownload(ctx context.Context, userID uuid.UUID, imageName string) (string, error)
}

// ServiceParams bundles the dependencies required to build the access gate.
type ServiceParams struct {
	Payments    recordReader
	Storage     objectStore
	Bucket      string
	DownloadTTL time.Duration
	// ObjectPrefixes is probed in order; the first prefix holding the
	// object wins.
	ObjectPrefixes []string
}

type service struct {
	payments    recordReader
	storage     objectStore
	bucket      string
	downloadTTL time.Duration
	prefixes    []string
}

// NewService constructs the access gate with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Payments == nil {
		return nil, fmt.Errorf("payment record reader is required")
	}
	if params.Storage == nil {
		return nil, fmt.Errorf("object store is required")
	}
	if params.Bucket == "" {
		return nil, fmt.Errorf("gcs bucket is required")
	}
	ttl := params.DownloadTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	prefixes := make([]string, 0, len(params.ObjectPrefixes))
	for _, prefix := range params.ObjectPrefixes {
		if p := strings.Trim(strings.TrimSpace(prefix), "/"); p != "" {
			prefixes = append(prefixes, p)
		}
	}
	if len(prefixes) == 0 {
		return nil, fmt.Errorf("at least one object prefix is required")
	}
	return &service{
		payments:    params.Payments,
		storage:     params.Storage,
		bucket:      params.Bucket,
		downloadTTL: ttl,
		prefixes:    prefixes,
	}, nil
}

// AuthorizeDownload returns a fresh signed read URL for an image the user has
// paid for. URLs are minted per request and never cached.
func (s *service) AuthorizeDownload(ctx context.Context, userID uuid.UUID, imageName string) (string, error) {
	if userID == uuid.Nil {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	name := strings.TrimSpace(imageName)
	if name == "" || strings.Contains(name, "/") || strings.Contains(name, "..") {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "invalid image name")
	}

	record, err := s.payments.FindByUserID(ctx, userID)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment record")
	}
	if record == nil {
		return "", pkgerrors.New(pkgerrors.CodeForbidden, "no payment record")
	}
	if !record.HasPaid {
		return "", pkgerrors.New(pkgerrors.CodeForbidden, "payment required")
	}
	if !record.Owns(name) {
		return "", pkgerrors.New(pkgerrors.CodeForbidden, "image not purchased")
	}

	object, err := s.resolveObject(ctx, name)
	if err != nil {
		return "", err
	}

	signedURL, err := s.storage.SignedReadURL(s.bucket, object, s.downloadTTL)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sign download url")
	}
	return signedURL, nil
}

func (s *service) resolveObject(ctx context.Context, name string) (string, error) {
	for _, prefix := range s.prefixes {
		candidate := prefix + "/" + name
		exists, err := s.storage.ObjectExists(ctx, s.bucket, candidate)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "probe object")
		}
		if exists {
			return candidate, nil
		}
	}
	return "", pkgerrors.New(pkgerrors.CodeNotFound, "image object not found")
}
