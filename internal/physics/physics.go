// Package physics provides vectors, toroidal wrapping and collision utilities.
package physics

import "math"

// Vector is a 2D position, velocity or size.
type Vector struct {
	X, Y float64
}

// Vec is shorthand for constructing a Vector.
func Vec(x, y float64) Vector {
	return Vector{X: x, Y: y}
}

// Add returns v + o.
func (v Vector) Add(o Vector) Vector {
	return Vector{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vector) Sub(o Vector) Vector {
	return Vector{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v multiplied by factor.
func (v Vector) Scale(factor float64) Vector {
	return Vector{X: v.X * factor, Y: v.Y * factor}
}

// Length returns the magnitude of v.
func (v Vector) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// FromAngle returns the unit vector pointing along angle (radians).
func FromAngle(angle float64) Vector {
	return Vector{X: math.Cos(angle), Y: math.Sin(angle)}
}

// Distance calculates the Euclidean distance between two points.
func Distance(p, q Vector) float64 {
	return math.Sqrt(DistanceSquared(p, q))
}

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(p, q Vector) float64 {
	dx := q.X - p.X
	dy := q.Y - p.Y
	return dx*dx + dy*dy
}

// CirclesOverlap checks if two circles overlap. Touching circles do not overlap.
func CirclesOverlap(p Vector, r1 float64, q Vector, r2 float64) bool {
	minDist := r1 + r2
	return DistanceSquared(p, q) < minDist*minDist
}

// Field is the toroidal play area. Positions outside it wrap around.
type Field struct {
	Width  float64
	Height float64
}

// Center returns the middle of the field.
func (f Field) Center() Vector {
	return Vector{X: f.Width / 2, Y: f.Height / 2}
}

// Wrap maps p into [0,Width)x[0,Height) (Asteroids-style).
func (f Field) Wrap(p Vector) Vector {
	return Vector{X: wrap(p.X, f.Width), Y: wrap(p.Y, f.Height)}
}

func wrap(v, size float64) float64 {
	if size <= 0 {
		return v
	}
	v = math.Mod(v, size)
	if v < 0 {
		v += size
	}
	return v
}

// WrappedDistance is the Euclidean distance between the wrapped positions of p and q.
// Shifting either point by whole field sizes never changes the result.
func (f Field) WrappedDistance(p, q Vector) float64 {
	return Distance(f.Wrap(p), f.Wrap(q))
}

// Contains reports whether p lies inside the field bounds.
func (f Field) Contains(p Vector) bool {
	return p.X >= 0 && p.X < f.Width && p.Y >= 0 && p.Y < f.Height
}

// Copies holds up to 4 draw positions for a wrapped object.
// Using a fixed array avoids allocations in the hot rendering path.
type Copies struct {
	Positions [4]Vector
	Count     int
}

// WrappedCopies returns the positions where an object of the given half extent
// must be drawn so that it appears on both sides of any field edge it straddles.
// The first position is always the wrapped position itself.
func (f Field) WrappedCopies(p Vector, half Vector) Copies {
	var result Copies
	base := f.Wrap(p)

	xs := [2]float64{base.X, base.X}
	nx := 1
	switch {
	case base.X-half.X < 0:
		xs[1] = base.X + f.Width
		nx = 2
	case base.X+half.X > f.Width:
		xs[1] = base.X - f.Width
		nx = 2
	}

	ys := [2]float64{base.Y, base.Y}
	ny := 1
	switch {
	case base.Y-half.Y < 0:
		ys[1] = base.Y + f.Height
		ny = 2
	case base.Y+half.Y > f.Height:
		ys[1] = base.Y - f.Height
		ny = 2
	}

	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			result.Positions[result.Count] = Vector{X: xs[i], Y: ys[j]}
			result.Count++
		}
	}
	return result
}
