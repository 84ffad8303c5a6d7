package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/koverin/shopstore/internal/catalog"
	"github.com/koverin/shopstore/internal/domain"
)

const imageKeyPrefix = "product-images/"

// ProductService orchestrates product creation and catalog queries. Creation
// runs validate, then the SKU-uniqueness precheck, and only then the image
// upload, so a duplicate SKU can never leave an orphaned blob behind. The
// repository re-checks uniqueness atomically inside Add; the precheck here
// only moves the common rejection ahead of the upload.
type ProductService struct {
	repo  domain.ProductRepository
	files domain.FileStore
}

// NewProductService creates a new ProductService.
func NewProductService(repo domain.ProductRepository, files domain.FileStore) *ProductService {
	return &ProductService{repo: repo, files: files}
}

// Create validates the input and inserts the product, uploading the
// optional image first. Returns *domain.ValidationError for malformed
// input, domain.ErrDuplicateSKU for a SKU collision, and
// *domain.UploadError when blob storage fails (in which case the product is
// not inserted).
func (s *ProductService) Create(ctx context.Context, in catalog.ProductInput) (domain.Product, error) {
	validated, fieldErrs := catalog.Validate(in)
	if fieldErrs != nil {
		return domain.Product{}, &domain.ValidationError{Fields: fieldErrs}
	}

	if _, exists := s.repo.GetBySKU(validated.SKU); exists {
		return domain.Product{}, domain.ErrDuplicateSKU
	}

	var storageKey string
	if in.Image != nil {
		imageID := uuid.NewString()
		storageKey = imageKeyPrefix + imageID
		if err := s.files.Save(ctx, storageKey, in.Image.Data); err != nil {
			return domain.Product{}, &domain.UploadError{Err: err}
		}
		validated.Image = "/api/images/" + imageID
	}

	p, err := s.repo.Add(validated)
	if err != nil {
		if storageKey != "" {
			// Lost a concurrent race on the SKU; best-effort cleanup of the
			// uploaded blob.
			s.files.Delete(ctx, storageKey)
		}
		return domain.Product{}, err
	}

	return p, nil
}

// List derives one page of the catalog for the given criteria.
func (s *ProductService) List(c catalog.Criteria) catalog.Page {
	return catalog.Query(s.repo.List(), c)
}

// Facets returns the distinct categories and brands currently in the
// catalog.
func (s *ProductService) Facets() catalog.Facets {
	return catalog.CollectFacets(s.repo.List())
}

// GetBySKU looks a product up by SKU, case-insensitively.
func (s *ProductService) GetBySKU(sku string) (domain.Product, error) {
	p, ok := s.repo.GetBySKU(sku)
	if !ok {
		return domain.Product{}, fmt.Errorf("product %q: %w", sku, domain.ErrNotFound)
	}
	return p, nil
}

// ImageFile returns the stored image bytes for an image ID issued by Create.
func (s *ProductService) ImageFile(ctx context.Context, imageID string) ([]byte, error) {
	data, err := s.files.Get(ctx, imageKeyPrefix+imageID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get image: %w", err)
	}
	return data, nil
}
