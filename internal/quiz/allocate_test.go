package quiz

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sum(xs []int) int {
	n := 0
	for _, x := range xs {
		n += x
	}
	return n
}

func TestAllocate(t *testing.T) {
	tests := []struct {
		name    string
		weights []float64
		total   int
		want    []int
	}{
		{"exam weights", []float64{24, 30, 21, 16, 9}, 90, []int{22, 27, 19, 14, 8}},
		{"exact split", []float64{1, 1}, 10, []int{5, 5}},
		{"remainder to first on tie", []float64{1, 1, 1}, 10, []int{4, 3, 3}},
		{"zero weights split evenly", []float64{0, 0}, 3, []int{2, 1}},
		{"negative weight ignored", []float64{-5, 1}, 4, []int{0, 4}},
		{"infinite weight ignored", []float64{math.Inf(1), 1}, 90, []int{0, 90}},
		{"NaN weight ignored", []float64{math.NaN(), 1}, 90, []int{0, 90}},
		{"only non-finite weights split evenly", []float64{math.Inf(-1), math.NaN()}, 3, []int{2, 1}},
		{"zero total", []float64{1, 2}, 0, []int{0, 0}},
		{"no weights", nil, 5, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Allocate(tt.weights, tt.total))
		})
	}
}

func TestAllocateWithinOneOfExactShare(t *testing.T) {
	weights := []float64{24, 30, 21, 16, 9}
	for total := 1; total <= 200; total++ {
		shares := Allocate(weights, total)
		assert.Equal(t, total, sum(shares), "total %d", total)
		for i, w := range weights {
			exact := w / 100 * float64(total)
			assert.LessOrEqual(t, math.Abs(float64(shares[i])-exact), 1.0, "total %d section %d", total, i)
		}
	}
}

func TestCatalogWithWeightsKeepsDefaultsForBadValues(t *testing.T) {
	c := DefaultCatalog().WithWeights(map[int]float64{1: math.Inf(1), 2: math.NaN(), 3: -1, 4: 40})

	want := map[int]float64{1: 24, 2: 30, 3: 21, 4: 40, 5: 9}
	for n, w := range want {
		s, ok := c.Section(n)
		assert.True(t, ok)
		assert.Equal(t, w, s.Weight, "section %d", n)
	}
}
