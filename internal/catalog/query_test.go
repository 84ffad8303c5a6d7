package catalog_test

import (
	"fmt"
	"testing"

	"github.com/koverin/shopstore/internal/catalog"
	"github.com/koverin/shopstore/internal/domain"
)

func snapshotOf(ps ...domain.Product) []domain.Product { return ps }

func product(sku, name, category, brand, status string, price, rating float64) domain.Product {
	return domain.Product{
		ID:       "id-" + sku,
		SKU:      sku,
		Name:     name,
		Price:    price,
		Quantity: 5,
		Category: category,
		Brand:    brand,
		Color:    "Black",
		Status:   status,
		Rating:   rating,
		InStock:  true,
	}
}

func TestQuery_NoFilters_SortDescending_Paginates(t *testing.T) {
	// 25 products with uniformly distinct ratings.
	var snapshot []domain.Product
	for i := 0; i < 25; i++ {
		p := product(fmt.Sprintf("S%02d", i), fmt.Sprintf("Item %02d", i),
			"Electronics", "Acme", domain.StatusAvailable, 10, float64(i))
		snapshot = append(snapshot, p)
	}

	page1 := catalog.Query(snapshot, catalog.Criteria{Sort: catalog.SortRatingHigh, Page: 1})
	if page1.FilteredCount != 25 {
		t.Fatalf("expected filtered count 25, got %d", page1.FilteredCount)
	}
	if page1.TotalPages != 2 {
		t.Fatalf("expected 2 total pages, got %d", page1.TotalPages)
	}
	if len(page1.Items) != 20 {
		t.Fatalf("expected 20 items on page 1, got %d", len(page1.Items))
	}
	if page1.Items[0].Rating != 24 {
		t.Fatalf("expected highest-rated first, got rating %v", page1.Items[0].Rating)
	}

	page2 := catalog.Query(snapshot, catalog.Criteria{Sort: catalog.SortRatingHigh, Page: 2})
	if len(page2.Items) != 5 {
		t.Fatalf("expected 5 items on page 2, got %d", len(page2.Items))
	}

	page3 := catalog.Query(snapshot, catalog.Criteria{Sort: catalog.SortRatingHigh, Page: 3})
	if len(page3.Items) != 0 {
		t.Fatalf("expected empty slice beyond last page, got %d items", len(page3.Items))
	}
	if page3.TotalPages != 2 {
		t.Fatalf("expected TotalPages 2 on out-of-range request, got %d", page3.TotalPages)
	}
	if page3.FilteredCount != 25 {
		t.Fatalf("expected FilteredCount 25 on out-of-range request, got %d", page3.FilteredCount)
	}
}

func TestQuery_PagesConcatenateWithoutGaps(t *testing.T) {
	var snapshot []domain.Product
	for i := 0; i < 47; i++ {
		snapshot = append(snapshot, product(fmt.Sprintf("S%02d", i), "Item",
			"Electronics", "Acme", domain.StatusAvailable, 10, float64(i%7)))
	}

	first := catalog.Query(snapshot, catalog.Criteria{Page: 1})
	if first.TotalPages != 3 {
		t.Fatalf("expected 3 pages for 47 items, got %d", first.TotalPages)
	}

	seen := make(map[string]bool)
	total := 0
	for page := 1; page <= first.TotalPages; page++ {
		result := catalog.Query(snapshot, catalog.Criteria{Page: page})
		for _, p := range result.Items {
			if seen[p.SKU] {
				t.Fatalf("product %s appeared on more than one page", p.SKU)
			}
			seen[p.SKU] = true
			total++
		}
	}

	if total != 47 {
		t.Fatalf("expected pages to cover all 47 products, got %d", total)
	}
}

func TestQuery_FilterCombination(t *testing.T) {
	snapshot := snapshotOf(
		product("E1", "Phone", "Electronics", "Acme", domain.StatusAvailable, 25, 4.5),
		product("E2", "Laptop", "Electronics", "Acme", domain.StatusAvailable, 900, 4.8),
		product("E3", "Cable", "Electronics", "Volt", domain.StatusAvailable, 5, 3.1),
		product("C1", "Shirt", "Clothing", "Loom", domain.StatusAvailable, 20, 4.0),
		product("E4", "Charger", "Electronics", "Volt", domain.StatusOutOfStock, 15, 4.2),
	)

	result := catalog.Query(snapshot, catalog.Criteria{
		Category: "Electronics",
		MinPrice: "10",
		MaxPrice: "50",
		Page:     1,
	})

	if result.FilteredCount != 2 {
		t.Fatalf("expected 2 matches, got %d", result.FilteredCount)
	}
	for _, p := range result.Items {
		if p.Category != "Electronics" {
			t.Fatalf("product %s is not Electronics", p.SKU)
		}
		if p.Price < 10 || p.Price > 50 {
			t.Fatalf("product %s price %v outside [10,50]", p.SKU, p.Price)
		}
	}
}

func TestQuery_SearchIsCaseInsensitiveSubstring(t *testing.T) {
	snapshot := snapshotOf(
		product("S1", "Wireless Headphones", "Electronics", "Acme", domain.StatusAvailable, 50, 4.0),
		product("S2", "Wired Earbuds", "Electronics", "Acme", domain.StatusAvailable, 20, 4.0),
		product("S3", "Desk Lamp", "Furniture", "Lumen", domain.StatusAvailable, 30, 4.0),
	)

	result := catalog.Query(snapshot, catalog.Criteria{Search: "WIRE", Page: 1})
	if result.FilteredCount != 2 {
		t.Fatalf("expected 2 matches for substring search, got %d", result.FilteredCount)
	}
}

func TestQuery_InactivePredicates(t *testing.T) {
	snapshot := snapshotOf(
		product("S1", "Phone", "Electronics", "Acme", domain.StatusAvailable, 25, 4.5),
		product("S2", "Shirt", "Clothing", "Loom", domain.StatusComingSoon, 20, 4.0),
	)

	tests := []struct {
		name     string
		criteria catalog.Criteria
	}{
		{"all empty", catalog.Criteria{Page: 1}},
		{"all sentinels", catalog.Criteria{Category: catalog.FilterAll, Brand: catalog.FilterAll, Status: catalog.FilterAll, Page: 1}},
		{"unparseable min price", catalog.Criteria{MinPrice: "abc", Page: 1}},
		{"unparseable max price", catalog.Criteria{MaxPrice: "12,50", Page: 1}},
		{"blank search", catalog.Criteria{Search: "   ", Page: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := catalog.Query(snapshot, tt.criteria)
			if result.FilteredCount != len(snapshot) {
				t.Fatalf("inactive predicate excluded items: got %d of %d",
					result.FilteredCount, len(snapshot))
			}
		})
	}
}

func TestQuery_UnparseablePriceDeactivatesOnlyThatBound(t *testing.T) {
	snapshot := snapshotOf(
		product("S1", "Phone", "Electronics", "Acme", domain.StatusAvailable, 25, 4.5),
		product("S2", "Laptop", "Electronics", "Acme", domain.StatusAvailable, 900, 4.8),
	)

	result := catalog.Query(snapshot, catalog.Criteria{MinPrice: "oops", MaxPrice: "100", Page: 1})
	if result.FilteredCount != 1 {
		t.Fatalf("expected max-price bound to stay active, got %d matches", result.FilteredCount)
	}
	if result.Items[0].SKU != "S1" {
		t.Fatalf("expected S1, got %s", result.Items[0].SKU)
	}
}

func TestQuery_SortStability(t *testing.T) {
	// B and C tie on rating; their relative order must match insertion order
	// in both directions.
	snapshot := snapshotOf(
		product("A", "First", "Electronics", "Acme", domain.StatusAvailable, 10, 5.0),
		product("B", "Second", "Electronics", "Acme", domain.StatusAvailable, 10, 3.0),
		product("C", "Third", "Electronics", "Acme", domain.StatusAvailable, 10, 3.0),
		product("D", "Fourth", "Electronics", "Acme", domain.StatusAvailable, 10, 1.0),
	)

	desc := catalog.Query(snapshot, catalog.Criteria{Sort: catalog.SortRatingHigh, Page: 1})
	wantDesc := []string{"A", "B", "C", "D"}
	for i, sku := range wantDesc {
		if desc.Items[i].SKU != sku {
			t.Fatalf("descending position %d: expected %s, got %s", i, sku, desc.Items[i].SKU)
		}
	}

	asc := catalog.Query(snapshot, catalog.Criteria{Sort: catalog.SortRatingLow, Page: 1})
	wantAsc := []string{"D", "B", "C", "A"}
	for i, sku := range wantAsc {
		if asc.Items[i].SKU != sku {
			t.Fatalf("ascending position %d: expected %s, got %s", i, sku, asc.Items[i].SKU)
		}
	}
}

func TestQuery_EmptySnapshot(t *testing.T) {
	result := catalog.Query(nil, catalog.Criteria{Page: 1})
	if result.FilteredCount != 0 {
		t.Fatalf("expected 0 matches, got %d", result.FilteredCount)
	}
	if result.TotalPages != 1 {
		t.Fatalf("expected minimum of 1 page, got %d", result.TotalPages)
	}
	if len(result.Items) != 0 {
		t.Fatalf("expected no items, got %d", len(result.Items))
	}
}

func TestQuery_DoesNotMutateSnapshot(t *testing.T) {
	snapshot := snapshotOf(
		product("A", "First", "Electronics", "Acme", domain.StatusAvailable, 10, 1.0),
		product("B", "Second", "Electronics", "Acme", domain.StatusAvailable, 10, 5.0),
	)

	catalog.Query(snapshot, catalog.Criteria{Sort: catalog.SortRatingHigh, Page: 1})

	if snapshot[0].SKU != "A" || snapshot[1].SKU != "B" {
		t.Fatal("query reordered the caller's snapshot")
	}
}

func TestCollectFacets(t *testing.T) {
	snapshot := snapshotOf(
		product("S1", "Phone", "Electronics", "Volt", domain.StatusAvailable, 25, 4.5),
		product("S2", "Shirt", "Clothing", "Loom", domain.StatusAvailable, 20, 4.0),
		product("S3", "Cable", "Electronics", "Acme", domain.StatusAvailable, 5, 3.1),
	)

	facets := catalog.CollectFacets(snapshot)

	wantCategories := []string{"Clothing", "Electronics"}
	if len(facets.Categories) != len(wantCategories) {
		t.Fatalf("expected %d categories, got %d", len(wantCategories), len(facets.Categories))
	}
	for i, c := range wantCategories {
		if facets.Categories[i] != c {
			t.Fatalf("category %d: expected %s, got %s", i, c, facets.Categories[i])
		}
	}

	wantBrands := []string{"Acme", "Loom", "Volt"}
	for i, b := range wantBrands {
		if facets.Brands[i] != b {
			t.Fatalf("brand %d: expected %s, got %s", i, b, facets.Brands[i])
		}
	}
}
