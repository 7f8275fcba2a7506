package negotiation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateDiscountZeroOrNegative(t *testing.T) {
	for _, pct := range []float64{0, -1, -100} {
		out := EvaluateDiscount(pct, 500, 20)
		assert.Equal(t, Accept, out.Decision)
		assert.Equal(t, 0.0, out.ApprovedPct)
		assert.Equal(t, out.OriginalTotal, out.NewTotal)
		assert.Equal(t, 0.0, out.Savings)
	}
}

func TestEvaluateDiscountComfortable(t *testing.T) {
	// Anything in (0, max/2] is accepted at exactly the requested rate.
	for _, pct := range []float64{0.5, 5, 10} {
		out := EvaluateDiscount(pct, 1000, 20)
		assert.Equal(t, Accept, out.Decision)
		assert.Equal(t, pct, out.ApprovedPct)
		assert.InDelta(t, 1000*(1-pct/100), out.NewTotal, 0.01)
	}
}

func TestEvaluateDiscountCounterMidrange(t *testing.T) {
	out := EvaluateDiscount(15, 1000, 20)
	assert.Equal(t, Counter, out.Decision)
	// avg(15, 10) = 12.5
	assert.Equal(t, 12.5, out.ApprovedPct)
	assert.Equal(t, 875.0, out.NewTotal)
	assert.Equal(t, 125.0, out.Savings)

	for _, pct := range []float64{10.1, 14, 19.9, 20} {
		out := EvaluateDiscount(pct, 1000, 20)
		assert.Equal(t, Counter, out.Decision)
		assert.GreaterOrEqual(t, out.ApprovedPct, 0.0)
		assert.LessOrEqual(t, out.ApprovedPct, 20.0)
	}
}

func TestEvaluateDiscountAboveMax(t *testing.T) {
	for _, pct := range []float64{20.1, 25, 90, 250} {
		out := EvaluateDiscount(pct, 1000, 20)
		assert.Equal(t, Counter, out.Decision)
		assert.Equal(t, 20.0, out.ApprovedPct)
		assert.Equal(t, 800.0, out.NewTotal)
	}
}

func TestEvaluateDiscountRounding(t *testing.T) {
	out := EvaluateDiscount(17, 333.33, 20)
	// avg(17, 10) = 13.5, one decimal
	assert.Equal(t, 13.5, out.ApprovedPct)
	assert.Equal(t, 288.33, out.NewTotal)
	assert.Equal(t, 45.0, out.Savings)
}

func TestEvaluateDiscountTotalFunction(t *testing.T) {
	// Degenerate inputs still produce a decision.
	out := EvaluateDiscount(10, 0, 0)
	assert.Equal(t, Counter, out.Decision)
	assert.Equal(t, 0.0, out.ApprovedPct)

	out = EvaluateDiscount(-5, -100, -10)
	assert.Equal(t, Accept, out.Decision)
}
