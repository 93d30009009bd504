package handlers

import (
	"net/http"

	"beadstock/internal/common"
	"beadstock/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const maxPhotoSizeBytes = 10 << 20 // 10 MiB

// PhotoHandlers handles batch photo uploads and listings
type PhotoHandlers struct {
	photoService services.PhotoService
}

func NewPhotoHandlers(photoService services.PhotoService) *PhotoHandlers {
	return &PhotoHandlers{photoService: photoService}
}

// UploadPhoto handles multipart photo upload for a batch
func (h *PhotoHandlers) UploadPhoto(c echo.Context) error {
	ctx := c.Request().Context()

	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendClientError(c, "Invalid batch ID format")
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return common.SendClientError(c, "Photo file is required")
	}
	if fileHeader.Size > maxPhotoSizeBytes {
		return common.SendClientError(c, "Photo exceeds the 10 MiB limit")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return common.SendServerError(c, "Failed to read uploaded photo")
	}
	defer file.Close()

	photo, err := h.photoService.Upload(ctx, batchID, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), file, fileHeader.Size)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusCreated, photo)
}

// ListPhotos returns all photos of a batch with presigned download URLs
func (h *PhotoHandlers) ListPhotos(c echo.Context) error {
	ctx := c.Request().Context()

	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendClientError(c, "Invalid batch ID format")
	}

	photos, err := h.photoService.ListForBatch(ctx, batchID)
	if err != nil {
		return common.SendServerError(c, "Failed to list photos")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"photos": photos,
		"count":  len(photos),
	})
}

// DeletePhoto removes one photo
func (h *PhotoHandlers) DeletePhoto(c echo.Context) error {
	ctx := c.Request().Context()

	photoID, err := uuid.Parse(c.Param("photoId"))
	if err != nil {
		return common.SendClientError(c, "Invalid photo ID format")
	}

	if err := h.photoService.Delete(ctx, photoID); err != nil {
		return common.SendNotFoundError(c, "Photo")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Photo deleted successfully",
	})
}
