package catalog_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/koverin/shopstore/internal/catalog"
	"github.com/koverin/shopstore/internal/domain"
)

func validProduct(sku string) domain.ValidatedProduct {
	return domain.ValidatedProduct{
		SKU:      sku,
		Name:     "Wireless Headphones",
		Price:    59.99,
		Quantity: 10,
		Category: "Electronics",
		Brand:    "Soundline",
		Color:    "Black",
		Status:   domain.StatusAvailable,
		Rating:   4.0,
		InStock:  true,
	}
}

func TestRepository_Add_AssignsIDAndNormalizesSKU(t *testing.T) {
	repo := catalog.NewRepository()

	p, err := repo.Add(validProduct("prod-001"))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	if p.ID == "" {
		t.Fatal("expected product ID to be assigned")
	}
	if p.SKU != "PROD-001" {
		t.Fatalf("expected SKU normalized to PROD-001, got %s", p.SKU)
	}
	if repo.Count() != 1 {
		t.Fatalf("expected 1 product, got %d", repo.Count())
	}
}

func TestRepository_Add_DuplicateSKU(t *testing.T) {
	repo := catalog.NewRepository()

	for _, sku := range []string{"A1", "A2", "A3"} {
		if _, err := repo.Add(validProduct(sku)); err != nil {
			t.Fatalf("Add %s: %v", sku, err)
		}
	}

	// Case-insensitive collision.
	_, err := repo.Add(validProduct("a1"))
	if !errors.Is(err, domain.ErrDuplicateSKU) {
		t.Fatalf("expected ErrDuplicateSKU, got %v", err)
	}

	if repo.Count() != 3 {
		t.Fatalf("expected repository unchanged with 3 products, got %d", repo.Count())
	}
}

func TestRepository_List_InsertionOrder(t *testing.T) {
	repo := catalog.NewRepository()

	skus := []string{"C3", "A1", "B2"}
	for _, sku := range skus {
		if _, err := repo.Add(validProduct(sku)); err != nil {
			t.Fatalf("Add %s: %v", sku, err)
		}
	}

	list := repo.List()
	if len(list) != 3 {
		t.Fatalf("expected 3 products, got %d", len(list))
	}
	for i, sku := range skus {
		if list[i].SKU != sku {
			t.Fatalf("position %d: expected %s, got %s", i, sku, list[i].SKU)
		}
	}
}

func TestRepository_GetBySKU_CaseInsensitive(t *testing.T) {
	repo := catalog.NewRepository()

	if _, err := repo.Add(validProduct("PROD-001")); err != nil {
		t.Fatalf("Add: %v", err)
	}

	p, ok := repo.GetBySKU("prod-001")
	if !ok {
		t.Fatal("expected lookup with lower-case sku to succeed")
	}
	if p.SKU != "PROD-001" {
		t.Fatalf("expected PROD-001, got %s", p.SKU)
	}

	if _, ok := repo.GetBySKU("missing"); ok {
		t.Fatal("expected lookup of unknown sku to fail")
	}
}

func TestRepository_Subscribe_RegistrationOrder(t *testing.T) {
	repo := catalog.NewRepository()

	var calls []string
	repo.Subscribe(func(p domain.Product) { calls = append(calls, "first:"+p.SKU) })
	repo.Subscribe(func(p domain.Product) { calls = append(calls, "second:"+p.SKU) })

	if _, err := repo.Add(validProduct("A1")); err != nil {
		t.Fatalf("Add: %v", err)
	}

	want := []string{"first:A1", "second:A1"}
	if len(calls) != len(want) {
		t.Fatalf("expected %d notifications, got %d", len(want), len(calls))
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("notification %d: expected %s, got %s", i, want[i], calls[i])
		}
	}
}

func TestRepository_Subscribe_NotNotifiedOnFailedAdd(t *testing.T) {
	repo := catalog.NewRepository()

	notified := 0
	repo.Subscribe(func(domain.Product) { notified++ })

	if _, err := repo.Add(validProduct("A1")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := repo.Add(validProduct("A1")); !errors.Is(err, domain.ErrDuplicateSKU) {
		t.Fatalf("expected ErrDuplicateSKU, got %v", err)
	}

	if notified != 1 {
		t.Fatalf("expected exactly one notification, got %d", notified)
	}
}

func TestRepository_Unsubscribe(t *testing.T) {
	repo := catalog.NewRepository()

	notified := 0
	unsubscribe := repo.Subscribe(func(domain.Product) { notified++ })

	if _, err := repo.Add(validProduct("A1")); err != nil {
		t.Fatalf("Add: %v", err)
	}

	unsubscribe()
	unsubscribe() // removal is idempotent

	if _, err := repo.Add(validProduct("A2")); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if notified != 1 {
		t.Fatalf("expected 1 notification before unsubscribe, got %d", notified)
	}
}

func TestRepository_ConcurrentAdd_SameSKU(t *testing.T) {
	repo := catalog.NewRepository()

	const attempts = 32
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Add(validProduct("RACE-1"))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else if !errors.Is(err, domain.ErrDuplicateSKU) {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if succeeded != 1 {
		t.Fatalf("expected exactly one Add to succeed, got %d", succeeded)
	}
	if repo.Count() != 1 {
		t.Fatalf("expected 1 product, got %d", repo.Count())
	}
}

func TestRepository_ConcurrentAdd_DistinctSKUs(t *testing.T) {
	repo := catalog.NewRepository()

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := repo.Add(validProduct(fmt.Sprintf("SKU-%03d", i))); err != nil {
				t.Errorf("Add SKU-%03d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	if repo.Count() != n {
		t.Fatalf("expected %d products, got %d", n, repo.Count())
	}
}
