package hierarchy

import "beadstock/internal/models"

// RowLevel names the tree level a flattened row came from.
type RowLevel string

const (
	LevelProductType   RowLevel = "product_type"
	LevelSpecification RowLevel = "specification"
	LevelQuality       RowLevel = "quality"
)

// Row is one renderable line of the inventory screen. Rows for collapsed
// subtrees are omitted entirely.
type Row struct {
	Level             RowLevel            `json:"level"`
	ProductType       models.ProductType  `json:"product_type"`
	Spec              *SpecKey            `json:"spec,omitempty"`
	Quality           models.QualityGrade `json:"quality,omitempty"`
	Label             string              `json:"label"`
	RemainingQuantity float64             `json:"remaining_quantity"`
	HasLowStock       bool                `json:"has_low_stock"`
	VariantCount      int                 `json:"variant_count,omitempty"`
	PricePerUnit      *float64            `json:"price_per_unit,omitempty"`
	Expanded          bool                `json:"expanded"`
}

// Flatten projects the tree plus expansion state into the ordered row list a
// view renders. Only children of expanded nodes are emitted.
func Flatten(tree []*ProductTypeGroup, state *ExpansionState) []Row {
	var rows []Row
	for _, typeGroup := range tree {
		typeExpanded := state != nil && state.IsTypeExpanded(typeGroup.ProductType)
		rows = append(rows, Row{
			Level:             LevelProductType,
			ProductType:       typeGroup.ProductType,
			Label:             typeGroup.Label(),
			RemainingQuantity: typeGroup.RemainingQuantity,
			HasLowStock:       typeGroup.HasLowStock,
			VariantCount:      typeGroup.VariantCount,
			Expanded:          typeExpanded,
		})
		if !typeExpanded {
			continue
		}
		for _, specGroup := range typeGroup.Specs {
			spec := specGroup.Spec
			specExpanded := state.IsSpecExpanded(SpecNodeKey{ProductType: typeGroup.ProductType, Spec: spec})
			rows = append(rows, Row{
				Level:             LevelSpecification,
				ProductType:       typeGroup.ProductType,
				Spec:              &spec,
				Label:             specGroup.Label(),
				RemainingQuantity: specGroup.RemainingQuantity,
				HasLowStock:       specGroup.HasLowStock,
				VariantCount:      specGroup.VariantCount,
				Expanded:          specExpanded,
			})
			if !specExpanded {
				continue
			}
			for _, qualityGroup := range specGroup.Qualities {
				rows = append(rows, Row{
					Level:             LevelQuality,
					ProductType:       typeGroup.ProductType,
					Spec:              &spec,
					Quality:           qualityGroup.Quality,
					Label:             qualityGroup.Label(),
					RemainingQuantity: qualityGroup.RemainingQuantity,
					HasLowStock:       qualityGroup.IsLowStock,
					PricePerUnit:      qualityGroup.PricePerUnit,
					Expanded: state.IsQualityExpanded(QualityNodeKey{
						ProductType: typeGroup.ProductType,
						Spec:        spec,
						Quality:     qualityGroup.Quality,
					}),
				})
			}
		}
	}
	return rows
}
