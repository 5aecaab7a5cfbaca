package physics

import "slices"

// sweepAndPrune finds candidate pairs by sorting bounding boxes along X and
// sweeping for overlapping intervals. Infinite shapes (planes) are paired with
// every finite body instead.
type sweepAndPrune struct {
	finite   []*Body
	infinite []*Body
	pairs    [][2]*Body
}

func (s *sweepAndPrune) collectPairs(bodies []*Body) [][2]*Body {
	s.finite = s.finite[:0]
	s.infinite = s.infinite[:0]
	s.pairs = s.pairs[:0]
	for _, b := range bodies {
		if b.Shape == nil {
			continue
		}
		if b.Shape.Kind() == KindPlane {
			s.infinite = append(s.infinite, b)
		} else {
			s.finite = append(s.finite, b)
		}
	}
	slices.SortStableFunc(s.finite, func(a, b *Body) int {
		aLo, _ := a.bounds()
		bLo, _ := b.bounds()
		switch {
		case aLo.X < bLo.X:
			return -1
		case aLo.X > bLo.X:
			return 1
		}
		return 0
	})
	for i, a := range s.finite {
		aLo, aHi := a.bounds()
		for _, b := range s.finite[i+1:] {
			bLo, bHi := b.bounds()
			if bLo.X > aHi.X {
				break
			}
			if !needsTest(a, b) {
				continue
			}
			if aLo.Y > bHi.Y || bLo.Y > aHi.Y || aLo.Z > bHi.Z || bLo.Z > aHi.Z {
				continue
			}
			s.pairs = append(s.pairs, [2]*Body{a, b})
		}
	}
	for _, p := range s.infinite {
		for _, b := range s.finite {
			if needsTest(b, p) {
				s.pairs = append(s.pairs, [2]*Body{b, p})
			}
		}
	}
	return s.pairs
}

// needsTest reports whether at least one of the bodies is simulated.
func needsTest(a, b *Body) bool {
	return a.IsActive() || b.IsActive()
}
