package severity

import (
	"flightdelays/internal/airports"
	"flightdelays/internal/delays"
)

// Segment is one mappable route.
type Segment struct {
	Route      delays.Route
	Tally      delays.Tally
	Tier       Tier
	From       airports.Location
	To         airports.Location
	DistanceKm float64
}

// Layers holds mappable routes grouped by tier.
type Layers struct {
	ByTier [len(Tiers)][]Segment
	// Dropped counts routes with an endpoint missing from the airport index.
	Dropped int
}

// Layer returns the segments of one tier.
func (l *Layers) Layer(t Tier) []Segment {
	if t < Low || t > High {
		return nil
	}
	return l.ByTier[t]
}

// Len returns the number of mapped segments across all tiers.
func (l *Layers) Len() int {
	n := 0
	for _, segs := range l.ByTier {
		n += len(segs)
	}
	return n
}

// Partition resolves route endpoints against idx and groups the mappable
// routes by tier. Routes with an unknown endpoint are skipped and counted in
// Dropped. routes is not modified.
func Partition(routes []delays.Ratio[delays.Route], idx *airports.Index) Layers {
	var l Layers
	for _, r := range routes {
		from, ok := idx.Lookup(r.Key.Origin)
		if !ok {
			l.Dropped++
			continue
		}
		to, ok := idx.Lookup(r.Key.Destination)
		if !ok {
			l.Dropped++
			continue
		}

		tier := Classify(r.Ratio())
		l.ByTier[tier] = append(l.ByTier[tier], Segment{
			Route:      r.Key,
			Tally:      r.Tally,
			Tier:       tier,
			From:       from,
			To:         to,
			DistanceKm: airports.DistanceKm(from, to),
		})
	}
	return l
}
