package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/koverin/shopstore/internal/catalog"
	"github.com/koverin/shopstore/internal/domain"
	"github.com/koverin/shopstore/internal/service"
)

// maxUploadBytes caps the whole multipart request body. The image limit
// itself is enforced by validation; this just keeps oversized bodies from
// being buffered.
const maxUploadBytes = 12 << 20

// ProductHandler handles product catalog HTTP requests.
type ProductHandler struct {
	products *service.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(products *service.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// HandleList returns one page of the filtered, sorted catalog.
// GET /api/products?search=&category=&brand=&status=&minPrice=&maxPrice=&sort=&page=
func (h *ProductHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	c := criteriaFromQuery(r)

	page := h.products.List(c)
	// The query engine reports out-of-range pages as empty; the HTTP surface
	// snaps the request back to the last page that has content.
	if c.Page > page.TotalPages {
		c.Page = page.TotalPages
		page = h.products.List(c)
	}

	writeJSON(w, http.StatusOK, toPageDTO(page))
}

// HandleCreate adds a product from a multipart form, optionally with an
// image attachment under the "image" field.
// POST /api/products
func (h *ProductHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid form data.")
		return
	}

	in := catalog.ProductInput{
		Name:     r.FormValue("name"),
		Price:    r.FormValue("price"),
		Quantity: r.FormValue("quantity"),
		SKU:      r.FormValue("sku"),
		Category: r.FormValue("category"),
		Brand:    r.FormValue("brand"),
		Color:    r.FormValue("color"),
		Status:   r.FormValue("status"),
		InStock:  r.FormValue("inStock") == "true",
	}

	file, header, err := r.FormFile("image")
	if err == nil {
		defer file.Close()
		data, readErr := io.ReadAll(file)
		if readErr != nil {
			writeError(w, http.StatusBadRequest, "Could not read uploaded image.")
			return
		}
		in.Image = &catalog.ImageAttachment{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        int64(len(data)),
			Data:        data,
		}
	} else if !errors.Is(err, http.ErrMissingFile) {
		writeError(w, http.StatusBadRequest, "Invalid image upload.")
		return
	}

	product, err := h.products.Create(r.Context(), in)
	if err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"errors": ve.Fields,
			})
			return
		}
		if errors.Is(err, domain.ErrDuplicateSKU) {
			writeJSON(w, http.StatusConflict, map[string]any{
				"errors": map[string]string{"sku": "SKU already exists"},
			})
			return
		}
		var ue *domain.UploadError
		if errors.As(err, &ue) {
			slog.Error("image upload", "error", err)
			writeError(w, http.StatusBadGateway, "Image upload failed. Please try again.")
			return
		}
		slog.Error("create product", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusCreated, toProductDTO(product))
}

// HandleGet returns a single product by SKU.
// GET /api/products/{sku}
func (h *ProductHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.GetBySKU(r.PathValue("sku"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Product not found.")
			return
		}
		slog.Error("get product", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, toProductDTO(product))
}

// HandleFacets returns the distinct categories and brands in the catalog.
// GET /api/products/facets
func (h *ProductHandler) HandleFacets(w http.ResponseWriter, r *http.Request) {
	facets := h.products.Facets()
	writeJSON(w, http.StatusOK, map[string]any{
		"categories": facets.Categories,
		"brands":     facets.Brands,
	})
}

func criteriaFromQuery(r *http.Request) catalog.Criteria {
	q := r.URL.Query()

	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	return catalog.Criteria{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Brand:    q.Get("brand"),
		Status:   q.Get("status"),
		MinPrice: q.Get("minPrice"),
		MaxPrice: q.Get("maxPrice"),
		Sort:     q.Get("sort"),
		Page:     page,
	}
}
