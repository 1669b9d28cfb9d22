package datastructure

import (
	"math"

	"github.com/lintang-b-s/overtakestats/pkg/util"
)

const (
	EPS = 1e-6
)

// Point in a local planar frame (meter)
type Point struct {
	x, y float64
}

func NewPoint(x, y float64) Point {
	return Point{x, y}
}

// less than or equal operator
func Le(a, b float64) bool {
	return a <= b+EPS
}

type Vector struct {
	x, y float64
}

func NewVector(x, y float64) Vector {
	return Vector{x, y}
}

func toVec(a, b Point) Vector {
	return NewVector(b.x-a.x, b.y-a.y)
}

func (p Point) add(v Vector) Point {
	return NewPoint(p.x+v.x, p.y+v.y)
}

func (v Vector) scale(q float64) Vector {
	return NewVector(v.x*q, v.y*q)
}

func (v Vector) plus(w Vector) Vector {
	return NewVector(v.x+w.x, v.y+w.y)
}

// return dot product of two vectors a and b
func dot(a, b Vector) float64 {
	return a.x*b.x + a.y*b.y
}

func norm(v Vector) float64 {
	return math.Hypot(v.x, v.y)
}

// leftNormal. unit vector perpendicular to v, pointing to the left of v. ok is false for a zero vector.
func leftNormal(v Vector) (Vector, bool) {
	l := norm(v)
	if l == 0 || !util.IsFinite(l) {
		return Vector{}, false
	}
	return NewVector(-v.y/l, v.x/l), true
}

// closestPointOnSegment. nearest point to x on the finite segment [p0, p0+d] and its distance.
// a zero-length segment degenerates to p0.
func closestPointOnSegment(p0 Point, d Vector, x Point) (float64, Point) {
	c := toVec(p0, x)

	xStar := p0
	dd := dot(d, d)
	if dd > 0 {
		lambdaStar := util.Clamp(dot(d, c)/dd, 0.0, 1.0)
		xStar = p0.add(d.scale(lambdaStar))
	}

	return norm(toVec(xStar, x)), xStar
}
