package hierarchy

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"beadstock/internal/models"
)

// SpecKey identifies a specification bucket within a product type. Batches
// without a specification value fall into the Unspecified bucket instead of
// being dropped.
type SpecKey struct {
	Value       float64 `json:"value"`
	Unit        string  `json:"unit"`
	Unspecified bool    `json:"unspecified,omitempty"`
}

func specKeyOf(b *models.Batch) SpecKey {
	if b.SpecValue == nil {
		return SpecKey{Unspecified: true}
	}
	key := SpecKey{Value: *b.SpecValue}
	if b.SpecUnit != nil {
		key.Unit = *b.SpecUnit
	}
	return key
}

// Label renders the bucket for display, e.g. "8mm" or "unspecified".
func (k SpecKey) Label() string {
	if k.Unspecified {
		return "unspecified"
	}
	value := strconv.FormatFloat(k.Value, 'f', -1, 64)
	return value + k.Unit
}

// Node is the common surface of every aggregate level in the inventory tree.
type Node interface {
	Label() string
	TotalRemaining() float64
	LowStock() bool
}

// QualityGroup aggregates all batches sharing (product type, spec, quality).
type QualityGroup struct {
	ProductType       models.ProductType `json:"product_type"`
	Spec              SpecKey            `json:"spec"`
	Quality           models.QualityGrade `json:"quality"`
	Batches           []*models.Batch    `json:"batches"`
	RemainingQuantity float64            `json:"remaining_quantity"`
	IsLowStock        bool               `json:"is_low_stock"`
	// PricePerUnit is the quantity-weighted average unit price across member
	// batches, nil when every member has zero remaining quantity.
	PricePerUnit *float64 `json:"price_per_unit"`
}

func (g *QualityGroup) Label() string          { return string(g.Quality) }
func (g *QualityGroup) TotalRemaining() float64 { return g.RemainingQuantity }
func (g *QualityGroup) LowStock() bool          { return g.IsLowStock }

// SpecificationGroup aggregates the quality groups of one specification.
type SpecificationGroup struct {
	ProductType       models.ProductType `json:"product_type"`
	Spec              SpecKey            `json:"spec"`
	Qualities         []*QualityGroup    `json:"qualities"`
	RemainingQuantity float64            `json:"remaining_quantity"`
	VariantCount      int                `json:"variant_count"`
	HasLowStock       bool               `json:"has_low_stock"`

	qualityIndex map[models.QualityGrade]*QualityGroup
}

func (g *SpecificationGroup) Label() string          { return g.Spec.Label() }
func (g *SpecificationGroup) TotalRemaining() float64 { return g.RemainingQuantity }
func (g *SpecificationGroup) LowStock() bool          { return g.HasLowStock }

// ProductTypeGroup is the top level of the tree, one per product type present
// in the filtered batch set.
type ProductTypeGroup struct {
	ProductType       models.ProductType    `json:"product_type"`
	QuantityUnit      string                `json:"quantity_unit"`
	Specs             []*SpecificationGroup `json:"specs"`
	RemainingQuantity float64               `json:"remaining_quantity"`
	VariantCount      int                   `json:"variant_count"`
	HasLowStock       bool                  `json:"has_low_stock"`

	specIndex map[SpecKey]*SpecificationGroup
}

func (g *ProductTypeGroup) Label() string          { return string(g.ProductType) }
func (g *ProductTypeGroup) TotalRemaining() float64 { return g.RemainingQuantity }
func (g *ProductTypeGroup) LowStock() bool          { return g.HasLowStock }

// Build transforms a flat batch list into the four-level inventory tree,
// applying filters bottom-up and recomputing every aggregate from the pruned
// leaf set. Grouping preserves discovery order of first occurrence; an
// optional sort instruction reorders the top level only.
//
// Build is a pure function: it never mutates its inputs and is total over any
// batch slice, including batches with missing specifications or unparseable
// quality grades.
func Build(batches []*models.Batch, filters Filters) []*ProductTypeGroup {
	var types []*ProductTypeGroup
	typeIndex := make(map[models.ProductType]*ProductTypeGroup)

	for _, batch := range batches {
		if batch == nil {
			continue
		}
		typeGroup, ok := typeIndex[batch.ProductType]
		if !ok {
			typeGroup = &ProductTypeGroup{
				ProductType:  batch.ProductType,
				QuantityUnit: batch.ProductType.QuantityUnit(),
				specIndex:    make(map[SpecKey]*SpecificationGroup),
			}
			typeIndex[batch.ProductType] = typeGroup
			types = append(types, typeGroup)
		}

		spec := specKeyOf(batch)
		specGroup, ok := typeGroup.specIndex[spec]
		if !ok {
			specGroup = &SpecificationGroup{
				ProductType:  batch.ProductType,
				Spec:         spec,
				qualityIndex: make(map[models.QualityGrade]*QualityGroup),
			}
			typeGroup.specIndex[spec] = specGroup
			typeGroup.Specs = append(typeGroup.Specs, specGroup)
		}

		quality := models.NormalizeQuality(batch.Quality)
		qualityGroup, ok := specGroup.qualityIndex[quality]
		if !ok {
			qualityGroup = &QualityGroup{
				ProductType: batch.ProductType,
				Spec:        spec,
				Quality:     quality,
			}
			specGroup.qualityIndex[quality] = qualityGroup
			specGroup.Qualities = append(specGroup.Qualities, qualityGroup)
		}
		qualityGroup.Batches = append(qualityGroup.Batches, batch)
	}

	// Leaf aggregates must exist before filtering: the low-stock-only filter
	// inspects them.
	for _, typeGroup := range types {
		for _, specGroup := range typeGroup.Specs {
			for _, qualityGroup := range specGroup.Qualities {
				finalizeQualityGroup(qualityGroup)
			}
		}
	}

	pruned := prune(types, filters)
	for _, typeGroup := range pruned {
		recomputeAggregates(typeGroup)
	}

	sortTopLevel(pruned, filters)
	return pruned
}

// finalizeQualityGroup computes the leaf aggregates from member batches.
func finalizeQualityGroup(g *QualityGroup) {
	var totalRemaining, weightedPrice float64
	low := false
	for _, batch := range g.Batches {
		remaining := batch.RemainingQuantity()
		totalRemaining += remaining
		weightedPrice += batch.UnitPrice * remaining
		if batch.IsLowStock() {
			low = true
		}
	}
	g.RemainingQuantity = totalRemaining
	g.IsLowStock = low

	switch {
	case len(g.Batches) == 1:
		price := g.Batches[0].UnitPrice
		g.PricePerUnit = &price
	case totalRemaining > 0:
		price := weightedPrice / totalRemaining
		g.PricePerUnit = &price
	default:
		// All member batches exhausted: a weighted average is undefined.
		g.PricePerUnit = nil
	}
}

// prune applies the filter predicates bottom-up, removing whole subtrees.
// Empty branches never survive, so aggregate sums stay exact.
func prune(types []*ProductTypeGroup, filters Filters) []*ProductTypeGroup {
	var kept []*ProductTypeGroup
	for _, typeGroup := range types {
		if !matchProductType(typeGroup.ProductType, filters) {
			continue
		}
		var keptSpecs []*SpecificationGroup
		for _, specGroup := range typeGroup.Specs {
			if !matchSpec(specGroup.Spec, filters) {
				continue
			}
			var keptQualities []*QualityGroup
			for _, qualityGroup := range specGroup.Qualities {
				if matchQuality(qualityGroup, filters) {
					keptQualities = append(keptQualities, qualityGroup)
				}
			}
			if len(keptQualities) == 0 {
				continue
			}
			keptSpec := *specGroup
			keptSpec.Qualities = keptQualities
			keptSpecs = append(keptSpecs, &keptSpec)
		}
		if len(keptSpecs) == 0 {
			continue
		}
		keptType := *typeGroup
		keptType.Specs = keptSpecs
		kept = append(kept, &keptType)
	}
	return kept
}

// recomputeAggregates rebuilds every non-leaf aggregate from the pruned
// leaves. Pre-prune aggregates are never reused.
func recomputeAggregates(typeGroup *ProductTypeGroup) {
	typeGroup.RemainingQuantity = 0
	typeGroup.VariantCount = 0
	typeGroup.HasLowStock = false
	for _, specGroup := range typeGroup.Specs {
		specGroup.RemainingQuantity = 0
		specGroup.VariantCount = len(specGroup.Qualities)
		specGroup.HasLowStock = false
		for _, qualityGroup := range specGroup.Qualities {
			specGroup.RemainingQuantity += qualityGroup.RemainingQuantity
			if qualityGroup.IsLowStock {
				specGroup.HasLowStock = true
			}
		}
		typeGroup.RemainingQuantity += specGroup.RemainingQuantity
		typeGroup.VariantCount += specGroup.VariantCount
		if specGroup.HasLowStock {
			typeGroup.HasLowStock = true
		}
	}
}

var productTypeOrder = map[models.ProductType]int{
	models.ProductTypeLooseBeads:  0,
	models.ProductTypeBracelet:    1,
	models.ProductTypeAccessories: 2,
	models.ProductTypeFinished:    3,
}

// sortTopLevel reorders product-type groups when a sort instruction is
// supplied. Sub-levels always retain natural grouping order.
func sortTopLevel(types []*ProductTypeGroup, filters Filters) {
	if filters.SortBy == SortNone || len(types) <= 1 {
		return
	}
	less := func(a, b *ProductTypeGroup) bool {
		switch filters.SortBy {
		case SortQuantity:
			return a.RemainingQuantity < b.RemainingQuantity
		case SortName:
			return strings.ToLower(a.Label()) < strings.ToLower(b.Label())
		case SortType:
			return productTypeOrder[a.ProductType] < productTypeOrder[b.ProductType]
		}
		return false
	}
	sort.SliceStable(types, func(i, j int) bool {
		if filters.SortDesc {
			return less(types[j], types[i])
		}
		return less(types[i], types[j])
	})
}

// FindQualityGroup walks the tree to a leaf, used by jobs and tests.
func FindQualityGroup(tree []*ProductTypeGroup, productType models.ProductType, spec SpecKey, quality models.QualityGrade) (*QualityGroup, error) {
	for _, typeGroup := range tree {
		if typeGroup.ProductType != productType {
			continue
		}
		for _, specGroup := range typeGroup.Specs {
			if specGroup.Spec != spec {
				continue
			}
			for _, qualityGroup := range specGroup.Qualities {
				if qualityGroup.Quality == quality {
					return qualityGroup, nil
				}
			}
		}
	}
	return nil, fmt.Errorf("quality group %s/%s/%s not in tree", productType, spec.Label(), quality)
}
