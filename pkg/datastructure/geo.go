package datastructure

import "math"

type BoundingBox struct {
	minLat, minLon float64
	maxLat, maxLon float64
}

func NewBoundingBox(minLat, minLon, maxLat, maxLon float64) *BoundingBox {
	return &BoundingBox{minLat: minLat,
		minLon: minLon,
		maxLat: maxLat,
		maxLon: maxLon}
}

func newBoundingBoxFromCoords(lat, lon []float64) *BoundingBox {
	bb := NewBoundingBox(math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1))
	for i := range lat {
		bb.minLat = math.Min(bb.minLat, lat[i])
		bb.minLon = math.Min(bb.minLon, lon[i])
		bb.maxLat = math.Max(bb.maxLat, lat[i])
		bb.maxLon = math.Max(bb.maxLon, lon[i])
	}
	return bb
}

func (b *BoundingBox) GetMinLat() float64 {
	return b.minLat
}

func (b *BoundingBox) GetMinLon() float64 {
	return b.minLon
}

func (b *BoundingBox) GetMaxLat() float64 {
	return b.maxLat
}

func (b *BoundingBox) GetMaxLon() float64 {
	return b.maxLon
}

func (b *BoundingBox) Center() (float64, float64) {
	return (b.minLat + b.maxLat) * 0.5, (b.minLon + b.maxLon) * 0.5
}

// Overlaps. closed-interval overlap test, touching boxes overlap.
func (b *BoundingBox) Overlaps(o *BoundingBox) bool {
	return b.minLat <= o.maxLat && o.minLat <= b.maxLat &&
		b.minLon <= o.maxLon && o.minLon <= b.maxLon
}
