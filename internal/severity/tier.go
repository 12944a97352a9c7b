// Package severity classifies delay ratios into three tiers and groups routes
// into per-tier map layers.
package severity

import "fmt"

// Tier is a delay severity class.
type Tier int

// Delay severity tiers, ordered from least to most delayed.
const (
	Low    Tier = iota // ratio below MediumThreshold
	Medium             // ratio from MediumThreshold up to HighThreshold
	High               // ratio at or above HighThreshold
)

// Tier boundaries; each is the inclusive lower bound of its tier.
const (
	MediumThreshold = 0.20
	HighThreshold   = 0.40
)

// Tiers lists every tier in ascending severity.
var Tiers = [...]Tier{Low, Medium, High}

// Classify maps a delay ratio in [0,1] to its tier.
func Classify(ratio float64) Tier {
	switch {
	case ratio < MediumThreshold:
		return Low
	case ratio < HighThreshold:
		return Medium
	default:
		return High
	}
}

// String returns the lower-case tier name, as used in JSON and map layer
// properties.
func (t Tier) String() string {
	switch t {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	}
	return "unknown"
}

// Label is the display name of the tier's map layer.
func (t Tier) Label() string {
	switch t {
	case Low:
		return "Low Delay (<20%)"
	case Medium:
		return "Medium Delay (20-40%)"
	default:
		return "High Delay (>40%)"
	}
}

// Color is the CSS colour used for routes in this tier.
func (t Tier) Color() string {
	switch t {
	case Low:
		return "green"
	case Medium:
		return "yellow"
	default:
		return "red"
	}
}

// RGB returns the tier colour as 0–255 components.
func (t Tier) RGB() (r, g, b int) {
	switch t {
	case Low:
		return 0, 128, 0
	case Medium:
		return 255, 255, 0
	default:
		return 255, 0, 0
	}
}

// KMLColor returns the tier colour in KML aabbggrr notation.
func (t Tier) KMLColor() string {
	switch t {
	case Low:
		return "ff008000"
	case Medium:
		return "ff00ffff"
	default:
		return "ff0000ff"
	}
}

// MarshalText encodes the tier by name.
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes a tier name produced by MarshalText.
func (t *Tier) UnmarshalText(text []byte) error {
	for _, c := range Tiers {
		if c.String() == string(text) {
			*t = c
			return nil
		}
	}
	return fmt.Errorf("unknown severity tier %q", text)
}
