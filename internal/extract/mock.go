package extract

import (
	"context"
	"sync/atomic"
)

// MockLabels are the ingredient lists returned by Mock, in rotation order.
var MockLabels = []string{
	"Water, Glycerin, Phenoxyethanol, Fragrance, Tocopherol",
	"Aqua, Sodium Lauryl Sulfate, Fragrance, Parabens, Glycerin",
	"Water, Aloe Vera, Hyaluronic Acid, Niacinamide, Glycerin",
	"Water, Dimethicone, Titanium Dioxide, Zinc Oxide, Fragrance",
	"Aqua, Retinol, Glycerin, Hyaluronic Acid, Tocopherol",
}

// Mock ignores the document and cycles through MockLabels. It is used for
// local development and tests.
type Mock struct {
	next atomic.Uint64
}

// NewMock returns a Mock starting at the first label.
func NewMock() *Mock {
	return &Mock{}
}

// ExtractText implements Extractor.
func (m *Mock) ExtractText(context.Context, Document) (string, error) {
	idx := m.next.Add(1) - 1
	return MockLabels[idx%uint64(len(MockLabels))], nil
}
