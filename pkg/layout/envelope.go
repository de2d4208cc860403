package layout

import "math"

// MaxHeightAt computes the tallest building allowed at a given distance from
// the city center.
//
// Inside a ring, returns that ring's max height.
// Between ring boundaries, linearly interpolates.
// Beyond all rings, returns the outermost ring's max height.
func MaxHeightAt(distFromCenter float64, rings []Ring) float64 {
	if len(rings) == 0 {
		return 0
	}

	for _, ring := range rings {
		if distFromCenter >= ring.RadiusFrom && distFromCenter <= ring.RadiusTo {
			return ring.MaxHeight
		}
	}

	for i := 0; i < len(rings)-1; i++ {
		if distFromCenter > rings[i].RadiusTo && distFromCenter < rings[i+1].RadiusFrom {
			t := (distFromCenter - rings[i].RadiusTo) / (rings[i+1].RadiusFrom - rings[i].RadiusTo)
			return rings[i].MaxHeight + t*(rings[i+1].MaxHeight-rings[i].MaxHeight)
		}
	}

	if distFromCenter < rings[0].RadiusFrom {
		return rings[0].MaxHeight
	}
	return rings[len(rings)-1].MaxHeight
}

// RingAt returns the index of the ring whose band is nearest to the distance.
// Gaps between rings go to the closer boundary.
func RingAt(distFromCenter float64, rings []Ring) int {
	best, bestGap := 0, math.MaxFloat64
	for i, ring := range rings {
		gap := 0.0
		switch {
		case distFromCenter < ring.RadiusFrom:
			gap = ring.RadiusFrom - distFromCenter
		case distFromCenter > ring.RadiusTo:
			gap = distFromCenter - ring.RadiusTo
		}
		if gap < bestGap {
			best, bestGap = i, gap
		}
	}
	return best
}
