package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/koverin/shopstore/internal/domain"
	"github.com/koverin/shopstore/internal/service"
)

// ImageHandler serves stored product images.
type ImageHandler struct {
	products *service.ProductService
}

// NewImageHandler creates a new ImageHandler.
func NewImageHandler(products *service.ProductService) *ImageHandler {
	return &ImageHandler{products: products}
}

// HandleGet serves a product image blob by its ID.
// GET /api/images/{id}
func (h *ImageHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	data, err := h.products.ImageFile(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		slog.Error("serve image", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.Write(data)
}
