package delays

import (
	"slices"

	"gonum.org/v1/gonum/stat"
)

// Summary describes the spread of a set of delay percentages.
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Summarize computes summary statistics over percentages. Empty input gives
// the zero Summary.
func Summarize(percents []float64) Summary {
	if len(percents) == 0 {
		return Summary{}
	}

	xs := slices.Clone(percents)
	slices.Sort(xs)

	s := Summary{
		Count:  len(xs),
		Mean:   stat.Mean(xs, nil),
		Median: stat.Quantile(0.5, stat.Empirical, xs, nil),
		Min:    xs[0],
		Max:    xs[len(xs)-1],
	}
	if len(xs) > 1 {
		s.StdDev = stat.StdDev(xs, nil)
	}
	return s
}

// SummarizeRatios summarizes the percentages of a ratio sequence.
func SummarizeRatios[K comparable](rs []Ratio[K]) Summary {
	return Summarize(Percents(rs))
}
