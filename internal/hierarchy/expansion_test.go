package hierarchy

import (
	"testing"

	"beadstock/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpansionState_ToggleFlipsEachLevel(t *testing.T) {
	state := NewExpansionState()
	specKey := SpecNodeKey{ProductType: models.ProductTypeLooseBeads, Spec: SpecKey{Value: 8, Unit: "mm"}}
	qualityKey := QualityNodeKey{ProductType: models.ProductTypeLooseBeads, Spec: specKey.Spec, Quality: models.QualityAA}

	state.ToggleType(models.ProductTypeLooseBeads)
	state.ToggleSpec(specKey)
	state.ToggleQuality(qualityKey)

	assert.True(t, state.IsTypeExpanded(models.ProductTypeLooseBeads))
	assert.True(t, state.IsSpecExpanded(specKey))
	assert.True(t, state.IsQualityExpanded(qualityKey))

	state.ToggleType(models.ProductTypeLooseBeads)
	state.ToggleSpec(specKey)
	state.ToggleQuality(qualityKey)

	assert.False(t, state.IsTypeExpanded(models.ProductTypeLooseBeads))
	assert.False(t, state.IsSpecExpanded(specKey))
	assert.False(t, state.IsQualityExpanded(qualityKey))
}

func TestExpansionState_LevelsAreIndependent(t *testing.T) {
	state := NewExpansionState()
	specKey := SpecNodeKey{ProductType: models.ProductTypeLooseBeads, Spec: SpecKey{Value: 8, Unit: "mm"}}

	state.ToggleType(models.ProductTypeLooseBeads)
	state.ToggleSpec(specKey)

	// Collapsing the parent leaves the child's remembered state alone.
	state.ToggleType(models.ProductTypeLooseBeads)
	assert.False(t, state.IsTypeExpanded(models.ProductTypeLooseBeads))
	assert.True(t, state.IsSpecExpanded(specKey))
}

func TestExpansionState_ExpandAllAndCollapseAll(t *testing.T) {
	tree := Build(sampleBatches(), Filters{})
	state := NewExpansionState()

	state.ExpandAll(tree)
	types, specs, qualities := state.ExpandedCount()
	assert.Equal(t, 2, types)
	assert.Equal(t, 3, specs)
	assert.Equal(t, 4, qualities)

	state.CollapseAll()
	types, specs, qualities = state.ExpandedCount()
	assert.Zero(t, types)
	assert.Zero(t, specs)
	assert.Zero(t, qualities)
}

func TestExpansionState_SyncDropsFilteredOutNodes(t *testing.T) {
	full := Build(sampleBatches(), Filters{})
	state := NewExpansionState()
	state.ExpandAll(full)

	filtered := Build(sampleBatches(), Filters{
		ProductTypes: []models.ProductType{models.ProductTypeLooseBeads},
	})
	state.Sync(filtered)

	assert.True(t, state.IsTypeExpanded(models.ProductTypeLooseBeads))
	assert.False(t, state.IsTypeExpanded(models.ProductTypeBracelet))

	braceletSpec := SpecNodeKey{ProductType: models.ProductTypeBracelet, Spec: SpecKey{Value: 10, Unit: "mm"}}
	assert.False(t, state.IsSpecExpanded(braceletSpec))

	looseSpec := SpecNodeKey{ProductType: models.ProductTypeLooseBeads, Spec: SpecKey{Value: 8, Unit: "mm"}}
	assert.True(t, state.IsSpecExpanded(looseSpec))
}

func TestFlatten_CollapsedTreeEmitsTopLevelOnly(t *testing.T) {
	tree := Build(sampleBatches(), Filters{})

	rows := Flatten(tree, NewExpansionState())

	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, LevelProductType, row.Level)
		assert.False(t, row.Expanded)
		assert.Nil(t, row.Spec)
	}
}

func TestFlatten_ExpandedNodesEmitChildren(t *testing.T) {
	tree := Build(sampleBatches(), Filters{})
	state := NewExpansionState()
	state.ToggleType(models.ProductTypeLooseBeads)
	state.ToggleSpec(SpecNodeKey{ProductType: models.ProductTypeLooseBeads, Spec: SpecKey{Value: 8, Unit: "mm"}})

	rows := Flatten(tree, state)

	// loose beads (expanded), 8mm (expanded), its two qualities, 6mm
	// (collapsed), bracelet (collapsed)
	require.Len(t, rows, 6)
	assert.Equal(t, LevelProductType, rows[0].Level)
	assert.True(t, rows[0].Expanded)
	assert.Equal(t, LevelSpecification, rows[1].Level)
	assert.Equal(t, "8mm", rows[1].Label)
	assert.True(t, rows[1].Expanded)
	assert.Equal(t, LevelQuality, rows[2].Level)
	assert.Equal(t, "AA", rows[2].Label)
	assert.Equal(t, LevelQuality, rows[3].Level)
	assert.Equal(t, "A", rows[3].Label)
	assert.Equal(t, LevelSpecification, rows[4].Level)
	assert.Equal(t, "6mm", rows[4].Label)
	assert.False(t, rows[4].Expanded)
	assert.Equal(t, LevelProductType, rows[5].Level)
}

func TestFlatten_QualityRowsCarryLeafFields(t *testing.T) {
	tree := Build(sampleBatches(), Filters{})
	state := NewExpansionState()
	state.ExpandAll(tree)

	rows := Flatten(tree, state)

	var qualityRow *Row
	for i := range rows {
		if rows[i].Level == LevelQuality && rows[i].Quality == models.QualityAA && rows[i].Spec != nil && rows[i].Spec.Value == 8 {
			qualityRow = &rows[i]
			break
		}
	}
	require.NotNil(t, qualityRow)
	assert.InDelta(t, 380, qualityRow.RemainingQuantity, 1e-9)
	require.NotNil(t, qualityRow.PricePerUnit)
	assert.InDelta(t, 0.3, *qualityRow.PricePerUnit, 1e-9)
}

func TestFlatten_NilStateRendersCollapsed(t *testing.T) {
	tree := Build(sampleBatches(), Filters{})
	rows := Flatten(tree, nil)
	assert.Len(t, rows, 2)
}
