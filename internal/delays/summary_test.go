package delays

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{40, 10, 20, 30, 50})
	assert.Equal(t, 5, s.Count)
	assert.InDelta(t, 30, s.Mean, 1e-9)
	assert.InDelta(t, 30, s.Median, 1e-9)
	assert.InDelta(t, 15.811388, s.StdDev, 1e-6)
	assert.Equal(t, 10.0, s.Min)
	assert.Equal(t, 50.0, s.Max)
}

func TestSummarizeEdgeCases(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))

	one := Summarize([]float64{12.5})
	assert.Equal(t, Summary{Count: 1, Mean: 12.5, Median: 12.5, Min: 12.5, Max: 12.5}, one)
}

func TestSummarizeDoesNotReorderInput(t *testing.T) {
	in := []float64{3, 1, 2}
	Summarize(in)
	assert.Equal(t, []float64{3, 1, 2}, in)
}

func TestSummarizeRatios(t *testing.T) {
	s := SummarizeRatios([]Ratio[int]{
		{Key: 0, Tally: Tally{Total: 2, Delayed: 1}},
		{Key: 1, Tally: Tally{Total: 0}},
		{Key: 2, Tally: Tally{Total: 1, Delayed: 1}},
	})
	assert.Equal(t, 3, s.Count)
	assert.InDelta(t, 50, s.Mean, 1e-9)
	assert.Equal(t, 0.0, s.Min)
	assert.Equal(t, 100.0, s.Max)
}
