// Package breaks implements Fisher-Jenks natural-breaks classification of a
// one-dimensional sample.
package breaks

import (
	"fmt"
	"math"
	"sort"
)

// Classifier bins values into the contiguous intervals found by Jenks. The
// lowest interval is closed on the left at the sample minimum; every other
// interval is left-open, right-closed.
type Classifier struct {
	// Breaks are the interval bounds, strictly increasing, len = bins+1.
	Breaks []float64
	// Labels name each interval by its bounds to two decimals.
	Labels []string
}

// Jenks partitions the sample into at most k intervals minimizing
// within-interval variance. NaN values are ignored. Degenerate samples with
// fewer than k distinct values collapse to fewer intervals; duplicate
// breakpoints are always deduplicated.
func Jenks(values []float64, k int) (*Classifier, error) {
	if k < 1 {
		return nil, fmt.Errorf("jenks: need at least 1 class, got %d", k)
	}

	data := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			data = append(data, v)
		}
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("jenks: no usable values")
	}

	sort.Float64s(data)

	if distinct(data) < k {
		k = distinct(data)
	}

	breaks := optimalBreaks(data, k)
	breaks = dedup(breaks)

	c := &Classifier{Breaks: breaks}
	for ind := 0; ind < len(breaks)-1; ind++ {
		c.Labels = append(c.Labels, fmt.Sprintf("%.2f-%.2f", breaks[ind], breaks[ind+1]))
	}

	if len(c.Labels) == 0 {
		// single distinct value
		c.Breaks = []float64{data[0], data[0]}
		c.Labels = []string{fmt.Sprintf("%.2f-%.2f", data[0], data[0])}
	}

	return c, nil
}

// Bins is the number of intervals after deduplication.
func (c *Classifier) Bins() int {
	return len(c.Labels)
}

// Assign returns the index of the interval containing v. Values at or below
// the lowest break fall in bin 0; values above the highest break clamp to the
// top bin.
func (c *Classifier) Assign(v float64) int {
	for ind := len(c.Breaks) - 2; ind > 0; ind-- {
		if v > c.Breaks[ind] {
			return ind
		}
	}

	return 0
}

// Label returns the display label of the interval containing v.
func (c *Classifier) Label(v float64) string {
	return c.Labels[c.Assign(v)]
}

func distinct(sorted []float64) int {
	n := 0
	for ind, v := range sorted {
		if ind == 0 || v != sorted[ind-1] {
			n++
		}
	}

	return n
}

func dedup(breaks []float64) []float64 {
	out := breaks[:1]
	for _, b := range breaks[1:] {
		if b > out[len(out)-1] {
			out = append(out, b)
		}
	}

	return out
}

// optimalBreaks runs the standard Fisher-Jenks dynamic program over the
// sorted sample and walks the class-limit matrix back into k+1 bounds.
func optimalBreaks(data []float64, k int) []float64 {
	n := len(data)
	if k >= n {
		k = n
	}

	lower := make([][]int, n+1)
	variance := make([][]float64, n+1)
	for ind := 0; ind <= n; ind++ {
		lower[ind] = make([]int, k+1)
		variance[ind] = make([]float64, k+1)
	}

	for j := 1; j <= k; j++ {
		lower[1][j] = 1
		for i := 2; i <= n; i++ {
			variance[i][j] = math.Inf(1)
		}
	}

	for l := 2; l <= n; l++ {
		var sum, sumSq, w, v float64
		for m := 1; m <= l; m++ {
			i3 := l - m + 1
			val := data[i3-1]

			w++
			sum += val
			sumSq += val * val
			v = sumSq - sum*sum/w

			if i4 := i3 - 1; i4 != 0 {
				for j := 2; j <= k; j++ {
					if variance[l][j] >= v+variance[i4][j-1] {
						lower[l][j] = i3
						variance[l][j] = v + variance[i4][j-1]
					}
				}
			}
		}

		lower[l][1] = 1
		variance[l][1] = v
	}

	breaks := make([]float64, k+1)
	breaks[0] = data[0]
	breaks[k] = data[n-1]

	count := n
	for j := k; j >= 2; j-- {
		id := lower[count][j] - 2
		if id < 0 {
			id = 0
		}

		breaks[j-1] = data[id]
		count = lower[count][j] - 1
		if count < 1 {
			count = 1
		}
	}

	return breaks
}
