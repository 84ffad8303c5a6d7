package catalog

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/koverin/shopstore/internal/domain"
)

const (
	maxNameLength = 100
	maxImageSize  = 5 * 1024 * 1024 // 5 MiB
	defaultRating = 4.0             // New products start at a neutral rating
)

var nameRe = regexp.MustCompile(`^[a-zA-Z0-9\s\-']+$`)

// ProductInput is raw product-creation input before validation. Price and
// Quantity arrive as strings straight from the form; the validator owns the
// coercion.
type ProductInput struct {
	Name     string
	Price    string
	Quantity string
	SKU      string
	Category string
	Brand    string
	Color    string
	Status   string
	InStock  bool
	Image    *ImageAttachment
}

// ImageAttachment is an optional image upload accompanying product creation.
type ImageAttachment struct {
	Filename    string
	ContentType string
	Size        int64
	Data        []byte
}

// Validate gates product input before it can reach the repository. It is a
// pure check: no I/O, no repository access. On failure it returns the
// per-field messages, keeping only the first violation for each field.
func Validate(in ProductInput) (domain.ValidatedProduct, domain.FieldErrors) {
	errs := make(domain.FieldErrors)

	name := strings.TrimSpace(in.Name)
	switch {
	case name == "":
		errs["name"] = "Name is required"
	case len(name) > maxNameLength:
		errs["name"] = "Name must be less than 100 characters"
	case !nameRe.MatchString(name):
		errs["name"] = "Name can only contain letters, numbers, spaces, hyphens, and apostrophes"
	}

	// ParseFloat accepts "NaN" and "Inf", neither of which is a price. NaN
	// in particular compares false against everything and would sail past
	// both the positivity rule and the query engine's price bounds.
	price, err := strconv.ParseFloat(strings.TrimSpace(in.Price), 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		errs["price"] = "Price must be a number"
	} else if price <= 0 {
		errs["price"] = "Price must be positive"
	}

	quantity, err := strconv.Atoi(strings.TrimSpace(in.Quantity))
	if err != nil || quantity < 0 {
		errs["quantity"] = "Quantity must be a non-negative integer"
	}

	sku := NormalizeSKU(in.SKU)
	if sku == "" {
		errs["sku"] = "SKU is required"
	}

	if strings.TrimSpace(in.Category) == "" {
		errs["category"] = "Category is required"
	}
	if strings.TrimSpace(in.Brand) == "" {
		errs["brand"] = "Brand is required"
	}

	color := strings.TrimSpace(in.Color)
	if color == "" {
		errs["color"] = "Color is required"
	}

	switch in.Status {
	case domain.StatusAvailable, domain.StatusOutOfStock, domain.StatusComingSoon:
	default:
		errs["status"] = "Status must be Available, Out of Stock, or Coming Soon"
	}

	if in.Image != nil {
		if !strings.HasPrefix(in.Image.ContentType, "image/") {
			errs["image"] = "Only image files are allowed."
		} else if in.Image.Size > maxImageSize {
			errs["image"] = "Image size must be less than 5MB."
		}
	}

	if len(errs) > 0 {
		return domain.ValidatedProduct{}, errs
	}

	return domain.ValidatedProduct{
		SKU:      sku,
		Name:     name,
		Price:    price,
		Quantity: quantity,
		Category: strings.TrimSpace(in.Category),
		Brand:    strings.TrimSpace(in.Brand),
		Color:    color,
		Status:   in.Status,
		Rating:   defaultRating,
		InStock:  in.InStock,
	}, nil
}
