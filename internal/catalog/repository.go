// Package catalog holds the in-memory product collection and the pure
// query pipeline that derives filtered, sorted, paginated views of it.
package catalog

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/koverin/shopstore/internal/domain"
)

// Repository is an in-memory, insertion-ordered product store that enforces
// SKU uniqueness. It is safe for concurrent use: the uniqueness check and
// the insertion happen under one lock, so two concurrent Add calls with the
// same SKU cannot both succeed.
//
// Subscribers are notified once per successful Add, in registration order,
// while the lock is held. Listeners must not call back into the repository.
type Repository struct {
	mu       sync.RWMutex
	products []domain.Product
	bySKU    map[string]int // normalized SKU -> index into products

	nextSubID int
	subs      []subscriber
}

type subscriber struct {
	id int
	fn func(domain.Product)
}

// NewRepository creates an empty product repository.
func NewRepository() *Repository {
	return &Repository{bySKU: make(map[string]int)}
}

// NormalizeSKU maps a SKU to its canonical upper-case form used for
// uniqueness and lookup.
func NormalizeSKU(sku string) string {
	return strings.ToUpper(strings.TrimSpace(sku))
}

// Add assigns a fresh ID, inserts the product at the end of the snapshot,
// and notifies subscribers. It fails with domain.ErrDuplicateSKU if any
// existing product has the same normalized SKU, leaving the store unchanged.
func (r *Repository) Add(v domain.ValidatedProduct) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sku := NormalizeSKU(v.SKU)
	if _, exists := r.bySKU[sku]; exists {
		return domain.Product{}, domain.ErrDuplicateSKU
	}

	p := domain.Product{
		ID:       uuid.NewString(),
		SKU:      sku,
		Name:     v.Name,
		Price:    v.Price,
		Quantity: v.Quantity,
		Category: v.Category,
		Brand:    v.Brand,
		Color:    v.Color,
		Status:   v.Status,
		Rating:   v.Rating,
		Image:    v.Image,
		InStock:  v.InStock,
		AddedAt:  time.Now().UTC(),
	}

	r.bySKU[sku] = len(r.products)
	r.products = append(r.products, p)

	for _, s := range r.subs {
		s.fn(p)
	}

	return p, nil
}

// GetBySKU looks a product up by its SKU, case-insensitively.
func (r *Repository) GetBySKU(sku string) (domain.Product, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.bySKU[NormalizeSKU(sku)]
	if !ok {
		return domain.Product{}, false
	}
	return r.products[i], true
}

// List returns a copy of the full snapshot in insertion order.
func (r *Repository) List() []domain.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Product, len(r.products))
	copy(out, r.products)
	return out
}

// Count returns the number of products in the store.
func (r *Repository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.products)
}

// Subscribe registers a listener invoked once per successful Add.
// The returned function removes the listener; removal is idempotent.
func (r *Repository) Subscribe(fn func(domain.Product)) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextSubID
	r.nextSubID++
	r.subs = append(r.subs, subscriber{id: id, fn: fn})

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		for i, s := range r.subs {
			if s.id == id {
				r.subs = append(r.subs[:i], r.subs[i+1:]...)
				return
			}
		}
	}
}

var _ domain.ProductRepository = (*Repository)(nil)
