package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"beadstock/internal/models"
	"beadstock/internal/repositories"

	"github.com/google/uuid"
)

const presignedURLExpiry = 15 * time.Minute

// PhotoURL pairs a stored photo record with a short-lived download URL.
type PhotoURL struct {
	Photo *models.BatchPhoto `json:"photo"`
	URL   string             `json:"url"`
}

type PhotoService interface {
	Upload(ctx context.Context, batchID uuid.UUID, filename, contentType string, reader io.Reader, size int64) (*models.BatchPhoto, error)
	ListForBatch(ctx context.Context, batchID uuid.UUID) ([]PhotoURL, error)
	Delete(ctx context.Context, photoID uuid.UUID) error
	DeleteAllForBatch(ctx context.Context, batchID uuid.UUID) error
}

type photoService struct {
	photoRepo repositories.BatchPhotoRepository
	batchRepo repositories.BatchRepository
	minio     MinioService
	bucket    string
}

func NewPhotoService(photoRepo repositories.BatchPhotoRepository, batchRepo repositories.BatchRepository, minio MinioService, bucket string) PhotoService {
	return &photoService{
		photoRepo: photoRepo,
		batchRepo: batchRepo,
		minio:     minio,
		bucket:    bucket,
	}
}

func (s *photoService) Upload(ctx context.Context, batchID uuid.UUID, filename, contentType string, reader io.Reader, size int64) (*models.BatchPhoto, error) {
	if size <= 0 {
		return nil, errors.New("photo payload is empty")
	}

	// Reject uploads for batches that do not exist
	if _, err := s.batchRepo.GetByID(ctx, batchID); err != nil {
		return nil, fmt.Errorf("batch lookup failed: %w", err)
	}

	photoID := uuid.New()
	objectKey := fmt.Sprintf("batches/%s/%s%s", batchID.String(), photoID.String(), path.Ext(filename))

	if err := s.minio.UploadPhoto(ctx, s.bucket, objectKey, contentType, reader, size); err != nil {
		return nil, fmt.Errorf("photo upload failed: %w", err)
	}

	photo := &models.BatchPhoto{
		ID:          photoID,
		BatchID:     batchID,
		ObjectKey:   objectKey,
		ContentType: contentType,
		SizeBytes:   size,
	}
	if err := s.photoRepo.Create(ctx, photo); err != nil {
		// Best effort: do not leave an orphaned object behind
		_ = s.minio.DeletePhoto(ctx, s.bucket, objectKey)
		return nil, err
	}
	return photo, nil
}

func (s *photoService) ListForBatch(ctx context.Context, batchID uuid.UUID) ([]PhotoURL, error) {
	photos, err := s.photoRepo.GetByBatchID(ctx, batchID)
	if err != nil {
		return nil, err
	}

	urls := make([]PhotoURL, 0, len(photos))
	for _, photo := range photos {
		url, err := s.minio.GetPresignedURL(s.bucket, photo.ObjectKey, presignedURLExpiry)
		if err != nil {
			return nil, fmt.Errorf("presigning %s failed: %w", photo.ObjectKey, err)
		}
		urls = append(urls, PhotoURL{Photo: photo, URL: url})
	}
	return urls, nil
}

func (s *photoService) Delete(ctx context.Context, photoID uuid.UUID) error {
	photo, err := s.photoRepo.GetByID(ctx, photoID)
	if err != nil {
		return err
	}
	if err := s.minio.DeletePhoto(ctx, s.bucket, photo.ObjectKey); err != nil {
		return err
	}
	return s.photoRepo.Delete(ctx, photoID)
}

func (s *photoService) DeleteAllForBatch(ctx context.Context, batchID uuid.UUID) error {
	photos, err := s.photoRepo.GetByBatchID(ctx, batchID)
	if err != nil {
		return err
	}
	for _, photo := range photos {
		if err := s.minio.DeletePhoto(ctx, s.bucket, photo.ObjectKey); err != nil {
			return err
		}
	}
	return s.photoRepo.DeleteAllByBatchID(ctx, batchID)
}
