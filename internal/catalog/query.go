package catalog

import (
	"sort"
	"strconv"
	"strings"

	"github.com/koverin/shopstore/internal/domain"
)

// PageSize is the fixed number of products per page.
const PageSize = 20

// FilterAll is the sentinel criterion value meaning "no constraint" for the
// category, brand, and status filters.
const FilterAll = "all"

// Sort keys. Ratings sort is stable: products with equal rating keep the
// relative order they have in the repository snapshot.
const (
	SortRatingHigh = "rating-high"
	SortRatingLow  = "rating-low"
)

// Criteria is the caller-owned set of filter, sort, and page parameters for
// one query. Numeric bounds are carried as strings; a value that does not
// parse deactivates only that predicate, never the whole query.
type Criteria struct {
	Search   string
	Category string
	Brand    string
	Status   string
	MinPrice string
	MaxPrice string
	Sort     string
	Page     int
}

// Page is one materialized page of query results.
type Page struct {
	Items         []domain.Product
	FilteredCount int
	TotalPages    int
	Page          int
}

// Query derives a page from the given snapshot: filter (AND over all active
// predicates), stable sort by rating, then paginate. It is a pure function
// of its inputs and never mutates the snapshot.
//
// The requested page is not clamped here: a page beyond TotalPages yields an
// empty Items slice with FilteredCount still populated, so callers can tell
// "no results on this page" apart from "no results at all".
func Query(snapshot []domain.Product, c Criteria) Page {
	filtered := filter(snapshot, c)

	switch c.Sort {
	case SortRatingLow:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].Rating < filtered[j].Rating
		})
	default:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].Rating > filtered[j].Rating
		})
	}

	n := len(filtered)
	totalPages := (n + PageSize - 1) / PageSize
	if totalPages < 1 {
		totalPages = 1
	}

	start := (c.Page - 1) * PageSize
	var items []domain.Product
	if c.Page >= 1 && start < n {
		end := start + PageSize
		if end > n {
			end = n
		}
		items = filtered[start:end]
	} else {
		items = []domain.Product{}
	}

	return Page{
		Items:         items,
		FilteredCount: n,
		TotalPages:    totalPages,
		Page:          c.Page,
	}
}

func filter(snapshot []domain.Product, c Criteria) []domain.Product {
	search := strings.ToLower(strings.TrimSpace(c.Search))
	minPrice, minOK := parsePrice(c.MinPrice)
	maxPrice, maxOK := parsePrice(c.MaxPrice)

	out := make([]domain.Product, 0, len(snapshot))
	for _, p := range snapshot {
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		if active(c.Category) && p.Category != c.Category {
			continue
		}
		if active(c.Brand) && p.Brand != c.Brand {
			continue
		}
		if active(c.Status) && p.Status != c.Status {
			continue
		}
		if minOK && p.Price < minPrice {
			continue
		}
		if maxOK && p.Price > maxPrice {
			continue
		}
		out = append(out, p)
	}
	return out
}

func active(criterion string) bool {
	return criterion != "" && criterion != FilterAll
}

func parsePrice(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Facets are the distinct taxonomy values present in a snapshot, sorted
// alphabetically. The filter UI offers these as options.
type Facets struct {
	Categories []string
	Brands     []string
}

// CollectFacets derives the facets from a snapshot.
func CollectFacets(snapshot []domain.Product) Facets {
	return Facets{
		Categories: distinct(snapshot, func(p domain.Product) string { return p.Category }),
		Brands:     distinct(snapshot, func(p domain.Product) string { return p.Brand }),
	}
}

func distinct(snapshot []domain.Product, key func(domain.Product) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range snapshot {
		k := key(p)
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
