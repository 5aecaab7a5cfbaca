package physics

import "github.com/chewxy/math32"

// Vec3 is a 3D vector in world units (Y up).
type Vec3 struct {
	X, Y, Z float32
}

// V returns the vector (x, y, z).
func V(x, y, z float32) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) Neg() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

func (v Vec3) Dot(o Vec3) float32 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) LenSq() float32 {
	return v.Dot(v)
}

func (v Vec3) Len() float32 {
	return math32.Sqrt(v.LenSq())
}

// Normalize returns v scaled to unit length. The zero vector is returned unchanged.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// Component returns the axis-th component (0=X, 1=Y, 2=Z).
func (v Vec3) Component(axis int) float32 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// Tangents returns two unit vectors that are orthogonal to the unit vector v and to each other.
func (v Vec3) Tangents() (Vec3, Vec3) {
	var t1 Vec3
	if math32.Abs(v.X) < 0.9 {
		t1 = v.Cross(Vec3{X: 1}).Normalize()
	} else {
		t1 = v.Cross(Vec3{Y: 1}).Normalize()
	}
	return t1, v.Cross(t1)
}

// Quat is a rotation quaternion (X, Y, Z imaginary, W real).
type Quat struct {
	X, Y, Z, W float32
}

// IdentityQuat returns the quaternion for "no rotation".
func IdentityQuat() Quat {
	return Quat{W: 1}
}

// QuatFromEuler builds a rotation from Euler angles in radians, applied in XYZ order.
func QuatFromEuler(x, y, z float32) Quat {
	c1, s1 := math32.Cos(x/2), math32.Sin(x/2)
	c2, s2 := math32.Cos(y/2), math32.Sin(y/2)
	c3, s3 := math32.Cos(z/2), math32.Sin(z/2)
	return Quat{
		X: s1*c2*c3 + c1*s2*s3,
		Y: c1*s2*c3 - s1*c2*s3,
		Z: c1*c2*s3 + s1*s2*c3,
		W: c1*c2*c3 - s1*s2*s3,
	}
}

// Mul returns the Hamilton product q*o (rotate by o, then by q).
func (q Quat) Mul(o Quat) Quat {
	return Quat{
		X: q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		Y: q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		Z: q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
		W: q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
	}
}

// Normalize returns q with unit length. A zero quaternion becomes the identity.
func (q Quat) Normalize() Quat {
	l := math32.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
	if l == 0 {
		return IdentityQuat()
	}
	return Quat{q.X / l, q.Y / l, q.Z / l, q.W / l}
}

// Rotate applies the rotation q to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	u := Vec3{q.X, q.Y, q.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}

// Integrate advances q by the angular velocity w (radians per second) over dt seconds.
func (q Quat) Integrate(w Vec3, dt float32) Quat {
	spin := Quat{X: w.X, Y: w.Y, Z: w.Z}.Mul(q)
	h := dt / 2
	return Quat{
		X: q.X + spin.X*h,
		Y: q.Y + spin.Y*h,
		Z: q.Z + spin.Z*h,
		W: q.W + spin.W*h,
	}.Normalize()
}
