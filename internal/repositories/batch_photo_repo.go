package repositories

import (
	"context"

	"beadstock/internal/models"

	"github.com/google/uuid"
)

type BatchPhotoRepository interface {
	Create(ctx context.Context, photo *models.BatchPhoto) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.BatchPhoto, error)
	GetByBatchID(ctx context.Context, batchID uuid.UUID) ([]*models.BatchPhoto, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAllByBatchID(ctx context.Context, batchID uuid.UUID) error
}

type batchPhotoRepo struct {
	db Database
}

func NewBatchPhotoRepo(db Database) BatchPhotoRepository {
	return &batchPhotoRepo{db: db}
}

func (r *batchPhotoRepo) Create(ctx context.Context, photo *models.BatchPhoto) error {
	query := `
		INSERT INTO batch_photos (id, batch_id, object_key, content_type, size_bytes, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	_, err := r.db.Exec(ctx, query, photo.ID, photo.BatchID, photo.ObjectKey, photo.ContentType, photo.SizeBytes)
	return err
}

func (r *batchPhotoRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.BatchPhoto, error) {
	photo := &models.BatchPhoto{}
	query := `
		SELECT id, batch_id, object_key, content_type, size_bytes, created_at
		FROM batch_photos
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&photo.ID, &photo.BatchID, &photo.ObjectKey, &photo.ContentType, &photo.SizeBytes, &photo.CreatedAt)
	if err != nil {
		return nil, err
	}
	return photo, nil
}

func (r *batchPhotoRepo) GetByBatchID(ctx context.Context, batchID uuid.UUID) ([]*models.BatchPhoto, error) {
	query := `
		SELECT id, batch_id, object_key, content_type, size_bytes, created_at
		FROM batch_photos
		WHERE batch_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var photos []*models.BatchPhoto
	for rows.Next() {
		photo := &models.BatchPhoto{}
		if err := rows.Scan(&photo.ID, &photo.BatchID, &photo.ObjectKey, &photo.ContentType, &photo.SizeBytes, &photo.CreatedAt); err != nil {
			return nil, err
		}
		photos = append(photos, photo)
	}
	return photos, rows.Err()
}

func (r *batchPhotoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM batch_photos WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *batchPhotoRepo) DeleteAllByBatchID(ctx context.Context, batchID uuid.UUID) error {
	query := `DELETE FROM batch_photos WHERE batch_id = $1`
	_, err := r.db.Exec(ctx, query, batchID)
	return err
}
