package quiz

import (
	"math"
	"sort"
)

// Allocate splits total into integer shares proportional to weights using
// the largest-remainder method: every share is floored, then the leftover
// units go one at a time to the shares with the biggest fractional parts.
// Ties keep input order. The shares always sum to total.
func Allocate(weights []float64, total int) []int {
	shares := make([]int, len(weights))
	if len(weights) == 0 || total <= 0 {
		return shares
	}

	// negative and non-finite weights count as zero
	clean := make([]float64, len(weights))
	sum := 0.0
	for i, w := range weights {
		if w > 0 && !math.IsInf(w, 0) && !math.IsNaN(w) {
			clean[i] = w
			sum += w
		}
	}
	weights = clean
	if sum == 0 {
		// nothing to go on, split evenly
		weights = make([]float64, len(shares))
		for i := range weights {
			weights[i] = 1
		}
		sum = float64(len(weights))
	}

	type remainder struct {
		idx  int
		frac float64
	}
	rems := make([]remainder, len(weights))
	assigned := 0
	for i, w := range weights {
		desired := w / sum * float64(total)
		floor := math.Floor(desired)
		shares[i] = int(floor)
		assigned += shares[i]
		rems[i] = remainder{idx: i, frac: desired - floor}
	}

	sort.SliceStable(rems, func(a, b int) bool {
		return rems[a].frac > rems[b].frac
	})

	left := total - assigned
	for i := 0; left > 0; i++ {
		shares[rems[i%len(rems)].idx]++
		left--
	}
	return shares
}
