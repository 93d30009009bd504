package models

import (
	"time"

	"github.com/google/uuid"
)

// BatchPhoto is stored metadata for a photo object kept in MinIO.
type BatchPhoto struct {
	ID          uuid.UUID `json:"id" db:"id"`
	BatchID     uuid.UUID `json:"batch_id" db:"batch_id"`
	ObjectKey   string    `json:"object_key" db:"object_key"`
	ContentType string    `json:"content_type" db:"content_type"`
	SizeBytes   int64     `json:"size_bytes" db:"size_bytes"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
