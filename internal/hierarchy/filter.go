package hierarchy

import (
	"strings"

	"beadstock/internal/models"
)

// SortKey selects the top-level ordering of the built tree.
type SortKey string

const (
	SortNone     SortKey = ""
	SortQuantity SortKey = "quantity"
	SortName     SortKey = "name"
	SortType     SortKey = "type"
)

// Filters is the full filter set for one tree build. Every criterion is
// optional; criteria combine with logical AND across categories, and the
// product-type set is OR within itself.
type Filters struct {
	Quality      *models.QualityGrade `json:"quality,omitempty"`
	ProductTypes []models.ProductType `json:"product_types,omitempty"`
	Search       string               `json:"search,omitempty"`
	SpecMin      *float64             `json:"spec_min,omitempty"`
	SpecMax      *float64             `json:"spec_max,omitempty"`
	LowStockOnly bool                 `json:"low_stock_only,omitempty"`
	SortBy       SortKey              `json:"sort_by,omitempty"`
	SortDesc     bool                 `json:"sort_desc,omitempty"`
}

// matchProductType keeps a type node only when it is in the selected set.
// An empty set selects everything.
func matchProductType(productType models.ProductType, filters Filters) bool {
	if len(filters.ProductTypes) == 0 {
		return true
	}
	for _, t := range filters.ProductTypes {
		if t == productType {
			return true
		}
	}
	return false
}

// matchSpec applies the inclusive numeric range to a specification bucket.
// The unspecified bucket has no value to compare, so any active range
// excludes it.
func matchSpec(spec SpecKey, filters Filters) bool {
	if filters.SpecMin == nil && filters.SpecMax == nil {
		return true
	}
	if spec.Unspecified {
		return false
	}
	if filters.SpecMin != nil && spec.Value < *filters.SpecMin {
		return false
	}
	if filters.SpecMax != nil && spec.Value > *filters.SpecMax {
		return false
	}
	return true
}

// matchQuality evaluates the leaf-level criteria: quality equality, search
// text over member batch names, and the low-stock-only flag. Search only adds
// a criterion; it never overrides the others.
func matchQuality(group *QualityGroup, filters Filters) bool {
	if filters.Quality != nil && group.Quality != *filters.Quality {
		return false
	}
	if filters.LowStockOnly && !group.IsLowStock {
		return false
	}
	if filters.Search != "" && !anyBatchNameContains(group.Batches, filters.Search) {
		return false
	}
	return true
}

func anyBatchNameContains(batches []*models.Batch, search string) bool {
	needle := strings.ToLower(search)
	for _, batch := range batches {
		if strings.Contains(strings.ToLower(batch.Name), needle) {
			return true
		}
	}
	return false
}
