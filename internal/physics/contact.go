package physics

import "github.com/chewxy/math32"

// contact is one touching point between two bodies. The normal points from a to b.
type contact struct {
	a, b   *Body
	normal Vec3
	depth  float32
	ra, rb Vec3 // contact point relative to the body centers

	impact   float32
	material ContactMaterial
	t1, t2   Vec3
	massN    float32
	massT1   float32
	massT2   float32
	bias     float32
	accN     float32
	accT1    float32
	accT2    float32
}

var planeNormal = Vec3{Z: 1}

// collide runs the narrowphase for a and b. The returned contact keeps the
// caller's order: c.a is a, c.b is b and the normal points from a to b.
func collide(a, b *Body) (contact, bool) {
	ka, kb := a.Shape.Kind(), b.Shape.Kind()
	if ka == KindPlane && kb == KindPlane {
		return contact{}, false
	}
	if ka == KindPlane || (ka == KindBox && kb == KindSphere) {
		c, ok := collide(b, a)
		if ok {
			c.a, c.b = c.b, c.a
			c.ra, c.rb = c.rb, c.ra
			c.normal = c.normal.Neg()
		}
		return c, ok
	}
	switch {
	case ka == KindSphere && kb == KindPlane:
		return spherePlane(a, b)
	case ka == KindBox && kb == KindPlane:
		return boxPlane(a, b)
	case ka == KindSphere && kb == KindSphere:
		return sphereSphere(a, b)
	case ka == KindSphere && kb == KindBox:
		return sphereBox(a, b)
	case ka == KindBox && kb == KindBox:
		return boxBox(a, b)
	}
	return contact{}, false
}

func spherePlane(s, p *Body) (contact, bool) {
	r := s.Shape.(Sphere).Radius
	n := p.Quaternion.Rotate(planeNormal)
	d := s.Position.Sub(p.Position).Dot(n) - r
	if d >= 0 {
		return contact{}, false
	}
	point := s.Position.Sub(n.Scale(r))
	return contact{
		a:      s,
		b:      p,
		normal: n.Neg(),
		depth:  -d,
		ra:     point.Sub(s.Position),
		rb:     point.Sub(p.Position),
	}, true
}

func boxPlane(bx, p *Body) (contact, bool) {
	h := bx.Shape.(Box).Half
	n := p.Quaternion.Rotate(planeNormal)
	deepest := float32(0)
	var point Vec3
	for i := 0; i < 8; i++ {
		corner := Vec3{h.X, h.Y, h.Z}
		if i&1 != 0 {
			corner.X = -corner.X
		}
		if i&2 != 0 {
			corner.Y = -corner.Y
		}
		if i&4 != 0 {
			corner.Z = -corner.Z
		}
		c := bx.Position.Add(corner)
		if d := c.Sub(p.Position).Dot(n); d < deepest {
			deepest = d
			point = c
		}
	}
	if deepest >= 0 {
		return contact{}, false
	}
	return contact{
		a:      bx,
		b:      p,
		normal: n.Neg(),
		depth:  -deepest,
		ra:     point.Sub(bx.Position),
		rb:     point.Sub(p.Position),
	}, true
}

func sphereSphere(a, b *Body) (contact, bool) {
	ra, rb := a.Shape.(Sphere).Radius, b.Shape.(Sphere).Radius
	d := b.Position.Sub(a.Position)
	dist := d.Len()
	if dist >= ra+rb {
		return contact{}, false
	}
	n := Vec3{Y: 1}
	if dist > 0 {
		n = d.Scale(1 / dist)
	}
	return contact{
		a:      a,
		b:      b,
		normal: n,
		depth:  ra + rb - dist,
		ra:     n.Scale(ra),
		rb:     n.Scale(-rb),
	}, true
}

func sphereBox(s, bx *Body) (contact, bool) {
	r := s.Shape.(Sphere).Radius
	lo, hi := bx.bounds()
	closest := Vec3{
		X: clamp(s.Position.X, lo.X, hi.X),
		Y: clamp(s.Position.Y, lo.Y, hi.Y),
		Z: clamp(s.Position.Z, lo.Z, hi.Z),
	}
	delta := s.Position.Sub(closest)
	distSq := delta.LenSq()
	if distSq >= r*r {
		return contact{}, false
	}
	if distSq > 0 {
		dist := math32.Sqrt(distSq)
		return contact{
			a:      s,
			b:      bx,
			normal: delta.Scale(-1 / dist),
			depth:  r - dist,
			ra:     closest.Sub(s.Position),
			rb:     closest.Sub(bx.Position),
		}, true
	}
	// Center inside the box: leave through the nearest face.
	best := math32.Inf(1)
	var face Vec3
	for axis := 0; axis < 3; axis++ {
		p := s.Position.Component(axis)
		if d := hi.Component(axis) - p; d < best {
			best = d
			face = unitAxis(axis, 1)
		}
		if d := p - lo.Component(axis); d < best {
			best = d
			face = unitAxis(axis, -1)
		}
	}
	n := face.Neg()
	return contact{
		a:      s,
		b:      bx,
		normal: n,
		depth:  best + r,
		ra:     n.Scale(r),
		rb:     s.Position.Sub(bx.Position),
	}, true
}

// boxBox separates two axis-aligned boxes along the axis of minimum penetration.
func boxBox(a, b *Body) (contact, bool) {
	aLo, aHi := a.bounds()
	bLo, bHi := b.bounds()
	depth, axis := penetrationAxis(aLo, aHi, bLo, bHi)
	if axis < 0 {
		return contact{}, false
	}
	sign := float32(1)
	if b.Position.Component(axis) < a.Position.Component(axis) {
		sign = -1
	}
	mid := Vec3{
		X: (max(aLo.X, bLo.X) + min(aHi.X, bHi.X)) / 2,
		Y: (max(aLo.Y, bLo.Y) + min(aHi.Y, bHi.Y)) / 2,
		Z: (max(aLo.Z, bLo.Z) + min(aHi.Z, bHi.Z)) / 2,
	}
	return contact{
		a:      a,
		b:      b,
		normal: unitAxis(axis, sign),
		depth:  depth,
		ra:     mid.Sub(a.Position),
		rb:     mid.Sub(b.Position),
	}, true
}

// penetrationAxis returns the overlap amount and axis index (0=X, 1=Y, 2=Z) for the minimum penetration.
// If there is no overlap, returns (0, -1).
func penetrationAxis(aLo, aHi, bLo, bHi Vec3) (depth float32, axis int) {
	overlapX := min(aHi.X, bHi.X) - max(aLo.X, bLo.X)
	overlapY := min(aHi.Y, bHi.Y) - max(aLo.Y, bLo.Y)
	overlapZ := min(aHi.Z, bHi.Z) - max(aLo.Z, bLo.Z)
	if overlapX <= 0 || overlapY <= 0 || overlapZ <= 0 {
		return 0, -1
	}
	depth = overlapX
	axis = 0
	if overlapY < depth {
		depth = overlapY
		axis = 1
	}
	if overlapZ < depth {
		depth = overlapZ
		axis = 2
	}
	return depth, axis
}

func unitAxis(axis int, sign float32) Vec3 {
	switch axis {
	case 0:
		return Vec3{X: sign}
	case 1:
		return Vec3{Y: sign}
	default:
		return Vec3{Z: sign}
	}
}

func clamp(v, lo, hi float32) float32 {
	return max(lo, min(v, hi))
}
