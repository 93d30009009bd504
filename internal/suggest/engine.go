// Package suggest derives and cross-checks the numeric fields of an
// in-progress purchase edit. ComputeSuggestions is a pure function of the
// edit buffer and the last persisted snapshot; nothing here mutates state or
// performs I/O, and suggestions are offered to the operator, never applied.
package suggest

import (
	"fmt"
	"math"

	"beadstock/internal/models"
)

const (
	// tolerance is the absolute difference under which two numeric values
	// are considered equal. Business assumption inherited from the shop's
	// existing workflow; change with the domain owner's sign-off.
	tolerance = 0.1

	// wristCircumferenceMM is the assumed standard wrist circumference used
	// to derive beads-per-string from bead diameter.
	wristCircumferenceMM = 160.0
)

// Attributes is one snapshot of a purchase record's editable numeric fields.
// Bracelets count quantity in strings, everything else in pieces.
type Attributes struct {
	ProductType    models.ProductType `json:"product_type"`
	StringCount    float64            `json:"string_count"`
	PieceCount     float64            `json:"piece_count"`
	BeadsPerString float64            `json:"beads_per_string"`
	TotalBeads     float64            `json:"total_beads"`
	BeadDiameter   float64            `json:"bead_diameter"`
	TotalPrice     float64            `json:"total_price"`
	Weight         float64            `json:"weight"`
	PricePerGram   float64            `json:"price_per_gram"`
}

// Field names a suggested value in the Suggestions map.
type Field string

const (
	FieldBeadsPerString Field = "beads_per_string"
	FieldTotalBeads     Field = "total_beads"
	FieldPricePerBead   Field = "price_per_bead"
	FieldPricePerPiece  Field = "price_per_piece"
	FieldTotalPrice     Field = "total_price"
	FieldWeight         Field = "weight"
	FieldPricePerGram   Field = "price_per_gram"
)

// Candidates carries the three corrected values of an inconsistent
// {price, weight, price-per-gram} triple. The operator chooses which field to
// trust; none is applied automatically.
type Candidates struct {
	TotalPrice   float64 `json:"total_price"`
	PricePerGram float64 `json:"price_per_gram"`
	Weight       float64 `json:"weight"`
}

// Warning is a non-blocking notice attached to the suggestion result.
type Warning struct {
	Message    string      `json:"message"`
	Candidates *Candidates `json:"candidates,omitempty"`
}

// Suggestions is the engine output: candidate field values plus warnings.
type Suggestions struct {
	Fields   map[Field]float64 `json:"fields"`
	Warnings []Warning         `json:"warnings,omitempty"`
}

// Empty reports whether the engine found nothing to say.
func (s Suggestions) Empty() bool {
	return len(s.Fields) == 0 && len(s.Warnings) == 0
}

// set records a suggestion unless an earlier (higher-precedence) rule already
// suggested the same field.
func (s *Suggestions) set(field Field, value float64) {
	if _, ok := s.Fields[field]; !ok {
		s.Fields[field] = value
	}
}

// ComputeSuggestions runs the consistency rules in precedence order over the
// current edit buffer and the last persisted snapshot. It is total: negative
// or non-finite inputs are treated as absent, divisions by zero omit the
// derived value, and the result is possibly empty but never an error.
func ComputeSuggestions(current, original Attributes) Suggestions {
	current = sanitize(current)
	original = sanitize(original)

	result := Suggestions{Fields: make(map[Field]float64)}

	isBracelet := current.ProductType == models.ProductTypeBracelet
	currentQty := quantity(current, isBracelet)
	originalQty := quantity(original, isBracelet)
	quantityChanged := math.Abs(currentQty-originalQty) > tolerance
	totalBeadsChanged := math.Abs(current.TotalBeads-original.TotalBeads) > tolerance

	// Rule 1: beads-per-string from bead diameter.
	if current.BeadDiameter > 0 {
		suggested := math.Round(wristCircumferenceMM / current.BeadDiameter)
		if math.Abs(suggested-current.BeadsPerString) > tolerance {
			result.set(FieldBeadsPerString, suggested)
		}
	}

	// Rule 2: quantity-change cascade.
	if quantityChanged {
		if isBracelet {
			if current.BeadsPerString > 0 && !totalBeadsChanged {
				totalBeads := currentQty * current.BeadsPerString
				result.set(FieldTotalBeads, totalBeads)
				if current.TotalPrice > 0 && totalBeads > 0 {
					result.set(FieldPricePerBead, current.TotalPrice/totalBeads)
				}
			}
		} else if current.TotalPrice > 0 && currentQty > 0 {
			result.set(FieldPricePerPiece, current.TotalPrice/currentQty)
		}
	}

	// Rule 3: total-beads verification, bracelets only.
	if isBracelet && !quantityChanged && currentQty > 0 && current.BeadsPerString > 0 {
		expected := currentQty * current.BeadsPerString
		if !totalBeadsChanged {
			if math.Abs(expected-current.TotalBeads) > tolerance {
				result.set(FieldTotalBeads, expected)
			}
		} else if math.Abs(current.TotalBeads-expected) > tolerance {
			// The operator edited total beads to a conflicting value. This is
			// a reminder citing the calculated figure, not a correction.
			result.Warnings = append(result.Warnings, Warning{
				Message: fmt.Sprintf(
					"total beads %s differs from calculated %s (%s strings x %s beads per string)",
					formatNumber(current.TotalBeads), formatNumber(expected),
					formatNumber(currentQty), formatNumber(current.BeadsPerString)),
			})
		}
	}

	// Rule 4: per-unit price when quantity is unchanged.
	if !quantityChanged && current.TotalPrice > 0 {
		if isBracelet {
			if current.TotalBeads > 0 {
				result.set(FieldPricePerBead, current.TotalPrice/current.TotalBeads)
			}
		} else if currentQty > 0 {
			result.set(FieldPricePerPiece, current.TotalPrice/currentQty)
		}
	}

	// Rule 5: triangular reconciliation of price, weight and price-per-gram.
	reconcileTriangle(&result, current)

	return result
}

// reconcileTriangle derives the single absent member of the
// {total price, weight, price-per-gram} triple, or flags the triple as
// inconsistent when all three are present and disagree.
func reconcileTriangle(result *Suggestions, current Attributes) {
	pricePresent := current.TotalPrice > 0
	weightPresent := current.Weight > 0
	ratePresent := current.PricePerGram > 0

	switch {
	case pricePresent && weightPresent && ratePresent:
		recomputed := current.PricePerGram * current.Weight
		if math.Abs(recomputed-current.TotalPrice) > tolerance {
			result.Warnings = append(result.Warnings, Warning{
				Message: fmt.Sprintf(
					"total price %s does not match price per gram x weight (%s); choose which field to trust",
					formatNumber(current.TotalPrice), formatNumber(recomputed)),
				Candidates: &Candidates{
					TotalPrice:   recomputed,
					PricePerGram: current.TotalPrice / current.Weight,
					Weight:       current.TotalPrice / current.PricePerGram,
				},
			})
		}
	case pricePresent && ratePresent:
		result.set(FieldWeight, current.TotalPrice/current.PricePerGram)
	case pricePresent && weightPresent:
		result.set(FieldPricePerGram, current.TotalPrice/current.Weight)
	case ratePresent && weightPresent:
		result.set(FieldTotalPrice, current.PricePerGram*current.Weight)
	}
}

func quantity(a Attributes, isBracelet bool) float64 {
	if isBracelet {
		return a.StringCount
	}
	return a.PieceCount
}

// sanitize treats negative and non-finite values as absent.
func sanitize(a Attributes) Attributes {
	a.StringCount = clean(a.StringCount)
	a.PieceCount = clean(a.PieceCount)
	a.BeadsPerString = clean(a.BeadsPerString)
	a.TotalBeads = clean(a.TotalBeads)
	a.BeadDiameter = clean(a.BeadDiameter)
	a.TotalPrice = clean(a.TotalPrice)
	a.Weight = clean(a.Weight)
	a.PricePerGram = clean(a.PricePerGram)
	return a
}

func clean(v float64) float64 {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func formatNumber(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}
