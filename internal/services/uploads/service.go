// Package uploads handles the target photos attached to an investigation.
package uploads

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"whohub/internal/domain"
	"whohub/internal/ports"
)

const (
	maxImageBytes = 10 << 20
	maxImages     = 5
)

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

type Service struct {
	investigations ports.InvestigationRepository
	blobs          ports.BlobStore
	log            *zap.Logger
}

func New(investigations ports.InvestigationRepository, blobs ports.BlobStore, log *zap.Logger) *Service {
	return &Service{investigations: investigations, blobs: blobs, log: log}
}

// SaveImage validates and stores one photo, then records its URL on the
// investigation. The stored key embeds a fresh UUID so uploads never collide.
func (s *Service) SaveImage(ctx context.Context, investigationID int64, filename, contentType string, data []byte) (string, error) {
	ext, ok := allowedTypes[contentType]
	if !ok {
		return "", domain.NewValidationError("image", "content type must be image/jpeg, image/png or image/webp")
	}
	if len(data) == 0 {
		return "", domain.NewValidationError("image", "empty upload")
	}
	if len(data) > maxImageBytes {
		return "", domain.NewValidationError("image", "image exceeds 10MB limit")
	}

	inv, err := s.investigations.Get(ctx, investigationID)
	if err != nil {
		return "", err
	}
	if len(inv.SubmittedImages) >= maxImages {
		return "", domain.NewValidationError("image", fmt.Sprintf("at most %d images per investigation", maxImages))
	}

	key := fmt.Sprintf("investigations/%d/image_%s%s", investigationID, uuid.NewString(), ext)
	if err := s.blobs.Put(ctx, key, contentType, data); err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	if err := s.investigations.AppendImage(ctx, investigationID, key); err != nil {
		return "", err
	}

	s.log.Info("image uploaded",
		zap.Int64("investigation_id", investigationID),
		zap.String("key", key),
		zap.Int("bytes", len(data)),
	)
	return key, nil
}

func (s *Service) GetImage(ctx context.Context, investigationID int64, filename string) ([]byte, string, error) {
	key, err := s.resolveKey(ctx, investigationID, filename)
	if err != nil {
		return nil, "", err
	}
	return s.blobs.Get(ctx, key)
}

func (s *Service) DeleteImage(ctx context.Context, investigationID int64, filename string) error {
	key, err := s.resolveKey(ctx, investigationID, filename)
	if err != nil {
		return err
	}
	if err := s.blobs.Delete(ctx, key); err != nil {
		return err
	}
	return s.investigations.RemoveImage(ctx, investigationID, key)
}

// resolveKey matches the requested filename against the investigation's
// recorded images, so callers cannot reach blobs outside their
// investigation.
func (s *Service) resolveKey(ctx context.Context, investigationID int64, filename string) (string, error) {
	inv, err := s.investigations.Get(ctx, investigationID)
	if err != nil {
		return "", err
	}
	for _, key := range inv.SubmittedImages {
		if strings.HasSuffix(key, "/"+filename) || key == filename {
			return key, nil
		}
	}
	return "", fmt.Errorf("%w: image %s", domain.ErrNotFound, filename)
}
