// Package render turns delay aggregations into chart, map and table artifacts.
package render

import (
	"fmt"
	"math"
)

type rgb struct{ R, G, B int }

func (c rgb) hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Colour stops approximating the matplotlib coolwarm and Reds colormaps.
var (
	coolwarm = []rgb{{59, 76, 192}, {221, 221, 221}, {180, 4, 38}}
	reds     = []rgb{{255, 245, 240}, {252, 146, 114}, {203, 24, 29}, {103, 0, 13}}

	barBlue = rgb{31, 119, 180}
	gridInk = rgb{200, 200, 200}
)

// gradient samples a piecewise-linear colour scale at t in [0,1].
func gradient(stops []rgb, t float64) rgb {
	if math.IsNaN(t) || t <= 0 {
		return stops[0]
	}
	if t >= 1 {
		return stops[len(stops)-1]
	}
	pos := t * float64(len(stops)-1)
	i := int(pos)
	f := pos - float64(i)
	a, b := stops[i], stops[i+1]
	return rgb{
		R: a.R + int(math.Round(f*float64(b.R-a.R))),
		G: a.G + int(math.Round(f*float64(b.G-a.G))),
		B: a.B + int(math.Round(f*float64(b.B-a.B))),
	}
}

// hourColor colours an hour bar on the cool-warm scale.
func hourColor(hour int) rgb {
	return gradient(coolwarm, float64(hour)/23)
}

// niceMax rounds a percentage axis maximum up to a multiple of 10.
func niceMax(v float64) float64 {
	if v <= 0 {
		return 10
	}
	return math.Ceil(v/10) * 10
}
