package hierarchy

import "beadstock/internal/models"

// SpecNodeKey identifies a specification node for expansion tracking.
// Structured tuple keys avoid the delimiter-collision bugs of concatenated
// string keys.
type SpecNodeKey struct {
	ProductType models.ProductType
	Spec        SpecKey
}

// QualityNodeKey identifies a quality node for expansion tracking.
type QualityNodeKey struct {
	ProductType models.ProductType
	Spec        SpecKey
	Quality     models.QualityGrade
}

// ExpansionState tracks which tree nodes are expanded, independently per
// level. Collapsing a parent does not touch descendants' remembered state;
// only CollapseAll or a node leaving the filtered tree (see Sync) clears it.
type ExpansionState struct {
	types     map[models.ProductType]struct{}
	specs     map[SpecNodeKey]struct{}
	qualities map[QualityNodeKey]struct{}
}

func NewExpansionState() *ExpansionState {
	return &ExpansionState{
		types:     make(map[models.ProductType]struct{}),
		specs:     make(map[SpecNodeKey]struct{}),
		qualities: make(map[QualityNodeKey]struct{}),
	}
}

// ToggleType flips the expanded state of a product-type node.
func (s *ExpansionState) ToggleType(productType models.ProductType) {
	if _, ok := s.types[productType]; ok {
		delete(s.types, productType)
	} else {
		s.types[productType] = struct{}{}
	}
}

// ToggleSpec flips the expanded state of a specification node.
func (s *ExpansionState) ToggleSpec(key SpecNodeKey) {
	if _, ok := s.specs[key]; ok {
		delete(s.specs, key)
	} else {
		s.specs[key] = struct{}{}
	}
}

// ToggleQuality flips the expanded state of a quality node.
func (s *ExpansionState) ToggleQuality(key QualityNodeKey) {
	if _, ok := s.qualities[key]; ok {
		delete(s.qualities, key)
	} else {
		s.qualities[key] = struct{}{}
	}
}

func (s *ExpansionState) IsTypeExpanded(productType models.ProductType) bool {
	_, ok := s.types[productType]
	return ok
}

func (s *ExpansionState) IsSpecExpanded(key SpecNodeKey) bool {
	_, ok := s.specs[key]
	return ok
}

func (s *ExpansionState) IsQualityExpanded(key QualityNodeKey) bool {
	_, ok := s.qualities[key]
	return ok
}

// ExpandAll marks every node of the currently visible tree as expanded.
func (s *ExpansionState) ExpandAll(tree []*ProductTypeGroup) {
	for _, typeGroup := range tree {
		s.types[typeGroup.ProductType] = struct{}{}
		for _, specGroup := range typeGroup.Specs {
			s.specs[SpecNodeKey{ProductType: typeGroup.ProductType, Spec: specGroup.Spec}] = struct{}{}
			for _, qualityGroup := range specGroup.Qualities {
				s.qualities[QualityNodeKey{
					ProductType: typeGroup.ProductType,
					Spec:        specGroup.Spec,
					Quality:     qualityGroup.Quality,
				}] = struct{}{}
			}
		}
	}
}

// CollapseAll clears all three levels.
func (s *ExpansionState) CollapseAll() {
	s.types = make(map[models.ProductType]struct{})
	s.specs = make(map[SpecNodeKey]struct{})
	s.qualities = make(map[QualityNodeKey]struct{})
}

// Sync drops remembered keys for nodes that are no longer present in the
// filtered tree. Nodes that survive keep their state.
func (s *ExpansionState) Sync(tree []*ProductTypeGroup) {
	liveTypes := make(map[models.ProductType]struct{})
	liveSpecs := make(map[SpecNodeKey]struct{})
	liveQualities := make(map[QualityNodeKey]struct{})
	for _, typeGroup := range tree {
		liveTypes[typeGroup.ProductType] = struct{}{}
		for _, specGroup := range typeGroup.Specs {
			liveSpecs[SpecNodeKey{ProductType: typeGroup.ProductType, Spec: specGroup.Spec}] = struct{}{}
			for _, qualityGroup := range specGroup.Qualities {
				liveQualities[QualityNodeKey{
					ProductType: typeGroup.ProductType,
					Spec:        specGroup.Spec,
					Quality:     qualityGroup.Quality,
				}] = struct{}{}
			}
		}
	}
	for key := range s.types {
		if _, ok := liveTypes[key]; !ok {
			delete(s.types, key)
		}
	}
	for key := range s.specs {
		if _, ok := liveSpecs[key]; !ok {
			delete(s.specs, key)
		}
	}
	for key := range s.qualities {
		if _, ok := liveQualities[key]; !ok {
			delete(s.qualities, key)
		}
	}
}

// ExpandedCount returns the number of expanded keys per level, used by
// handlers to report state without serializing the sets.
func (s *ExpansionState) ExpandedCount() (types, specs, qualities int) {
	return len(s.types), len(s.specs), len(s.qualities)
}
