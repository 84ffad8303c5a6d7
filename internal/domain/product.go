package domain

import "time"

// Product is a single sellable item in the catalog.
type Product struct {
	ID       string
	SKU      string // Normalized to upper case; unique across the catalog
	Name     string
	Price    float64
	Quantity int
	Category string
	Brand    string
	Color    string
	Status   string
	Rating   float64
	Image    string // Optional URL
	InStock  bool   // Independent of Status; the two may diverge
	AddedAt  time.Time
}

// Product status values. This is a closed set; free-form values are rejected
// by validation.
const (
	StatusAvailable  = "Available"
	StatusOutOfStock = "Out of Stock"
	StatusComingSoon = "Coming Soon"
)

// ValidatedProduct is product input that has passed the validation gate.
// The repository assigns the ID; the Image URL is filled in by the creation
// flow after a successful upload.
type ValidatedProduct struct {
	SKU      string
	Name     string
	Price    float64
	Quantity int
	Category string
	Brand    string
	Color    string
	Status   string
	Rating   float64
	Image    string
	InStock  bool
}

// ProductRepository is the authoritative in-memory store of products.
// List returns the snapshot in insertion order, which is the catalog's
// natural order and the tie-break for rating sorts.
type ProductRepository interface {
	Add(v ValidatedProduct) (Product, error)
	GetBySKU(sku string) (Product, bool)
	List() []Product
	Count() int
	Subscribe(fn func(Product)) (unsubscribe func())
}
