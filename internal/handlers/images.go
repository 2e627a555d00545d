package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/apperr"
	"storefront_back_end/internal/storage"
)

// 🖼️ POST /api/products/:id/images (admin, multipart champ "image")
func (h *Handler) UploadProductImage(c *gin.Context) {
	id, err := objectID(c, "id", msgProductNotFound)
	if err != nil {
		h.fail(c, err)
		return
	}
	if _, off := h.images.(storage.Disabled); off {
		h.fail(c, apperr.Unavailable("Image storage is not configured"))
		return
	}
	ctx := c.Request.Context()
	if _, err := h.store.GetProduct(ctx, id); err != nil {
		h.fail(c, storeErr(err, msgProductNotFound, "Failed to upload image"))
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		h.fail(c, apperr.Validation("No image file provided"))
		return
	}
	if fileHeader.Size > storage.MaxImageSize {
		h.fail(c, apperr.Validation("Image must be 5MB or smaller"))
		return
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if !storage.AllowedType(contentType) {
		h.fail(c, apperr.Validation("Only JPEG, PNG, WebP or GIF images are allowed"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.fail(c, apperr.Internal("Failed to upload image", err))
		return
	}
	defer file.Close()

	url, err := h.images.Upload(ctx, id, fileHeader.Filename, contentType, file, fileHeader.Size)
	if errors.Is(err, storage.ErrDisabled) {
		h.fail(c, apperr.Unavailable("Image storage is not configured"))
		return
	}
	if err != nil {
		h.fail(c, apperr.Internal("Failed to upload image", err))
		return
	}

	p, err := h.store.AddProductImage(ctx, id, url)
	if err != nil {
		h.fail(c, storeErr(err, msgProductNotFound, "Failed to upload image"))
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "Image uploaded successfully", "url": url, "product": p})
}
