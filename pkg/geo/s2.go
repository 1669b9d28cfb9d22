package geo

import (
	"math"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// CoverageRect returns the lat/lon rectangle covering all finite points, grown by extend meters on every side.
// ok is false if no point was finite.
func CoverageRect(lats, lons []float64, extend float64) (Coordinate, Coordinate, bool) {
	rect := s2.EmptyRect()
	for i := range lats {
		if i >= len(lons) {
			break
		}
		c := NewCoordinate(lats[i], lons[i])
		if !c.IsFinite() {
			continue
		}
		rect = rect.AddPoint(c.LatLng())
	}
	if rect.IsEmpty() {
		return Coordinate{}, Coordinate{}, false
	}
	if extend > 0 {
		// longitude margin grows with latitude, take the worst case of the two borders
		lo, hi := rect.Lo(), rect.Hi()
		lonMargin := 0.0
		for _, lat := range []float64{lo.Lat.Degrees(), hi.Lat.Degrees()} {
			_, sLon := ScaleAt(lat, 0)
			if m := sLon * extend; m > lonMargin {
				lonMargin = m
			}
		}
		margin := s2.LatLng{
			Lat: s1.Angle(extend / earthRadiusM),
			Lng: s1.Angle(lonMargin) * s1.Degree,
		}
		rect = s2.Rect{
			Lat: rect.Lat.Expanded(float64(margin.Lat)).Intersection(r1.Interval{Lo: -math.Pi / 2, Hi: math.Pi / 2}),
			Lng: rect.Lng.Expanded(float64(margin.Lng)),
		}
	}
	lo, hi := rect.Lo(), rect.Hi()
	return NewCoordinate(lo.Lat.Degrees(), lo.Lng.Degrees()), NewCoordinate(hi.Lat.Degrees(), hi.Lng.Degrees()), true
}
