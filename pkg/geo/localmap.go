package geo

import (
	"math"

	"github.com/lintang-b-s/overtakestats/pkg/util"
)

// LocalMap is an equirectangular projection around an origin (lat0, lon0). x points east, y points north,
// both in meters. accurate for the few kilometers a single road segment or a track step spans.
type LocalMap struct {
	lat0, lon0 float64
	cosLat0    float64
}

func NewLocalMap(lat0, lon0 float64) *LocalMap {
	return &LocalMap{
		lat0:    lat0,
		lon0:    lon0,
		cosLat0: math.Cos(util.DegreeToRadians(lat0)),
	}
}

// TransferTo. lat/lon (degree) to local planar x/y (meter)
func (lm *LocalMap) TransferTo(lat, lon float64) (float64, float64) {
	x := earthRadiusM * lm.cosLat0 * util.DegreeToRadians(lon-lm.lon0)
	y := earthRadiusM * util.DegreeToRadians(lat-lm.lat0)
	return x, y
}

// TransferFrom. local planar x/y (meter) back to lat/lon (degree)
func (lm *LocalMap) TransferFrom(x, y float64) (float64, float64) {
	lat := lm.lat0 + util.RadiansToDegree(y/earthRadiusM)
	lon := lm.lon0 + util.RadiansToDegree(x/(earthRadiusM*lm.cosLat0))
	return lat, lon
}

// DistanceLatLon. planar distance in meter between two lat/lon pairs
func (lm *LocalMap) DistanceLatLon(latOne, lonOne, latTwo, lonTwo float64) float64 {
	x1, y1 := lm.TransferTo(latOne, lonOne)
	x2, y2 := lm.TransferTo(latTwo, lonTwo)
	return math.Hypot(x2-x1, y2-y1)
}

// Heading. planar direction angle (radian, counter-clockwise from east) of the step from one point to another
func (lm *LocalMap) Heading(latFrom, lonFrom, latTo, lonTo float64) float64 {
	x1, y1 := lm.TransferTo(latFrom, lonFrom)
	x2, y2 := lm.TransferTo(latTo, lonTo)
	return math.Atan2(y2-y1, x2-x1)
}

// ScaleAt returns degrees of latitude and of longitude per meter at the given position.
func ScaleAt(lat, lon float64) (float64, float64) {
	sLat := util.RadiansToDegree(1.0 / earthRadiusM)
	sLon := util.RadiansToDegree(1.0 / (earthRadiusM * math.Cos(util.DegreeToRadians(lat))))
	return sLat, sLon
}

// PeriodicDistance. smallest absolute difference of two angles (radian) on the circle, in [0, pi]
func PeriodicDistance(a, b float64) float64 {
	const p = 2 * math.Pi
	d := math.Mod(a-b+math.Pi, p)
	if d < 0 {
		d += p
	}
	return math.Abs(d - math.Pi)
}
