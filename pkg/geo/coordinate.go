package geo

import (
	"math"

	"github.com/golang/geo/s2"
	"github.com/lintang-b-s/overtakestats/pkg/util"
)

const earthRadiusM = 6371000.0

// Coordinate is a WGS84 position in degree.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func NewCoordinate(lat, lon float64) Coordinate {
	return Coordinate{Lat: lat, Lon: lon}
}

func (c Coordinate) IsFinite() bool {
	return util.IsFinite(c.Lat) && util.IsFinite(c.Lon)
}

func (c Coordinate) LatLng() s2.LatLng {
	return s2.LatLngFromDegrees(c.Lat, c.Lon)
}

// Destination. point reached from c after dist meter along the great circle with initial bearing
// (degree, clockwise from north)
func Destination(c Coordinate, bearing, dist float64) Coordinate {
	delta := dist / earthRadiusM
	theta := util.DegreeToRadians(bearing)
	phi1 := util.DegreeToRadians(c.Lat)
	lambda1 := util.DegreeToRadians(c.Lon)

	sinPhi2 := math.Sin(phi1)*math.Cos(delta) + math.Cos(phi1)*math.Sin(delta)*math.Cos(theta)
	phi2 := math.Asin(sinPhi2)
	lambda2 := lambda1 + math.Atan2(math.Sin(theta)*math.Sin(delta)*math.Cos(phi1), math.Cos(delta)-math.Sin(phi1)*sinPhi2)

	return NewCoordinate(util.RadiansToDegree(phi2), normalizeLongitude(util.RadiansToDegree(lambda2)))
}

// normalizeLongitude. into [-180, 180)
func normalizeLongitude(lon float64) float64 {
	return math.Mod(lon+540, 360) - 180.0
}
