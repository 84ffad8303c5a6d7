package handler

import (
	"time"

	"github.com/koverin/shopstore/internal/catalog"
	"github.com/koverin/shopstore/internal/domain"
)

// AccountDTO is the JSON representation of a signed-in account.
type AccountDTO struct {
	ID        int64  `json:"id"`
	UID       string `json:"uid"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
}

func toAccountDTO(a *domain.Account) AccountDTO {
	return AccountDTO{
		ID:        a.ID,
		UID:       a.UID,
		Email:     a.Email,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
	}
}

// ProductDTO is the JSON representation of a product.
type ProductDTO struct {
	ID       string  `json:"id"`
	SKU      string  `json:"sku"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Category string  `json:"category"`
	Brand    string  `json:"brand"`
	Color    string  `json:"color"`
	Status   string  `json:"status"`
	Rating   float64 `json:"rating"`
	Image    string  `json:"image,omitempty"`
	InStock  bool    `json:"inStock"`
	AddedAt  string  `json:"addedAt"`
}

func toProductDTO(p domain.Product) ProductDTO {
	return ProductDTO{
		ID:       p.ID,
		SKU:      p.SKU,
		Name:     p.Name,
		Price:    p.Price,
		Quantity: p.Quantity,
		Category: p.Category,
		Brand:    p.Brand,
		Color:    p.Color,
		Status:   p.Status,
		Rating:   p.Rating,
		Image:    p.Image,
		InStock:  p.InStock,
		AddedAt:  p.AddedAt.Format(time.RFC3339),
	}
}

func toProductDTOs(products []domain.Product) []ProductDTO {
	dtos := make([]ProductDTO, len(products))
	for i, p := range products {
		dtos[i] = toProductDTO(p)
	}
	return dtos
}

// PageDTO is the JSON representation of one query page.
type PageDTO struct {
	Products      []ProductDTO `json:"products"`
	FilteredCount int          `json:"filteredCount"`
	TotalPages    int          `json:"totalPages"`
	Page          int          `json:"page"`
}

func toPageDTO(page catalog.Page) PageDTO {
	return PageDTO{
		Products:      toProductDTOs(page.Items),
		FilteredCount: page.FilteredCount,
		TotalPages:    page.TotalPages,
		Page:          page.Page,
	}
}

// SessionDTO is the JSON representation of the process session snapshot.
type SessionDTO struct {
	Phase string       `json:"phase"`
	User  *IdentityDTO `json:"user"`
}

// IdentityDTO is the JSON representation of a provider identity.
type IdentityDTO struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

func toSessionDTO(s domain.Session) SessionDTO {
	dto := SessionDTO{Phase: s.Phase}
	if s.User != nil {
		dto.User = &IdentityDTO{UID: s.User.UID, Email: s.User.Email}
	}
	return dto
}
