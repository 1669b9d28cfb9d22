package datastructure

import (
	"fmt"
	"math"

	"github.com/lintang-b-s/overtakestats/pkg/geo"
	"github.com/lintang-b-s/overtakestats/pkg/util"
)

// RoadSegment is the immutable geometry and tag set of one osm way, or of a length-bounded piece of one.
// every planar quantity lives in a local map centered at the bounding box center.
type RoadSegment struct {
	id   string
	tags map[string]string

	coords []geo.Coordinate
	bb     *BoundingBox

	localMap  *geo.LocalMap
	points    []Point
	segLength []float64 // len(points)-1
	direction []float64 // edge bearing, radian ccw from east. len(points)-1

	directionalityBicycle   Directionality
	directionalityMotorized Directionality
}

// PointMatch is the answer of a nearest-point query against one segment.
type PointMatch struct {
	Distance         float64 // lateral distance in meter
	Projected        geo.Coordinate
	HeadingDeviation float64 // radian, in [0, pi]
	Orientation      int     // +1 along the vertex order, -1 against it
	EdgeIndex        int
}

func NewRoadSegment(id string, coords []geo.Coordinate, tags map[string]string) (*RoadSegment, error) {
	if len(coords) == 0 {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "road segment %s has no vertices", id)
	}
	lat := make([]float64, len(coords))
	lon := make([]float64, len(coords))
	for i, c := range coords {
		if !c.IsFinite() {
			return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "road segment %s: vertex %d is not finite", id, i)
		}
		lat[i], lon[i] = c.Lat, c.Lon
	}
	if tags == nil {
		tags = make(map[string]string)
	}

	rs := &RoadSegment{
		id:     id,
		tags:   tags,
		coords: append([]geo.Coordinate(nil), coords...),
		bb:     newBoundingBoxFromCoords(lat, lon),
	}

	lat0, lon0 := rs.bb.Center()
	rs.localMap = geo.NewLocalMap(lat0, lon0)

	rs.points = make([]Point, len(coords))
	for i, c := range coords {
		x, y := rs.localMap.TransferTo(c.Lat, c.Lon)
		rs.points[i] = NewPoint(x, y)
	}

	n := len(rs.points) - 1
	rs.segLength = make([]float64, n)
	rs.direction = make([]float64, n)
	for i := 0; i < n; i++ {
		d := toVec(rs.points[i], rs.points[i+1])
		rs.segLength[i] = norm(d)
		rs.direction[i] = math.Atan2(d.y, d.x)
	}

	rs.directionalityBicycle, rs.directionalityMotorized = ParseDirectionality(tags)
	return rs, nil
}

// SplitWay cuts a long way into pieces of roughly maxLength meters. a piece ends at the first vertex where the
// running length exceeds maxLength and is keyed "<wayID>.<vertex index>"; the remainder is keyed "<wayID>".
// maxLength <= 0 disables splitting.
func SplitWay(wayID string, coords []geo.Coordinate, tags map[string]string, maxLength float64) (map[string]*RoadSegment, error) {
	if len(coords) == 0 {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "way %s has no vertices", wayID)
	}
	pieces := make(map[string]*RoadSegment)

	first := 0
	if maxLength > 0 && len(coords) > 1 {
		lat := make([]float64, len(coords))
		lon := make([]float64, len(coords))
		for i, c := range coords {
			lat[i], lon[i] = c.Lat, c.Lon
		}
		lat0, lon0 := newBoundingBoxFromCoords(lat, lon).Center()
		lm := geo.NewLocalMap(lat0, lon0)

		slen := 0.0
		for i := 0; i < len(coords)-1; i++ {
			slen += lm.DistanceLatLon(coords[i].Lat, coords[i].Lon, coords[i+1].Lat, coords[i+1].Lon)
			// never cut at the last vertex, the remainder keeps at least one edge
			if slen > maxLength && i+2 < len(coords) {
				// piece covers vertices first..i+1, the next one starts at the cut vertex
				id := fmt.Sprintf("%s.%d", wayID, i+1)
				rs, err := NewRoadSegment(id, coords[first:i+2], tags)
				if err != nil {
					return nil, err
				}
				pieces[id] = rs
				first = i + 1
				slen = 0
			}
		}
	}

	rs, err := NewRoadSegment(wayID, coords[first:], tags)
	if err != nil {
		return nil, err
	}
	pieces[wayID] = rs
	return pieces, nil
}

func (rs *RoadSegment) ID() string {
	return rs.id
}

func (rs *RoadSegment) Tags() map[string]string {
	return rs.tags
}

func (rs *RoadSegment) Tag(key string) (string, bool) {
	v, ok := rs.tags[key]
	return v, ok
}

func (rs *RoadSegment) GetBoundingBox() *BoundingBox {
	return rs.bb
}

func (rs *RoadSegment) GetLocalMap() *geo.LocalMap {
	return rs.localMap
}

func (rs *RoadSegment) NumberOfVertices() int {
	return len(rs.points)
}

func (rs *RoadSegment) EdgeBearing(i int) float64 {
	return rs.direction[i]
}

func (rs *RoadSegment) DirectionalityBicycle() Directionality {
	return rs.directionalityBicycle
}

func (rs *RoadSegment) DirectionalityMotorized() Directionality {
	return rs.directionalityMotorized
}

// Length. planar length in meter
func (rs *RoadSegment) Length() float64 {
	total := 0.0
	for _, l := range rs.segLength {
		total += l
	}
	return total
}

// DistanceOfPoint finds the point of the segment closest to (lat, lon) and resolves the travel orientation for
// a bicycle heading in direction heading (radian, ccw from east, same frame as the edge bearings).
// the first edge reaching the minimal distance wins.
func (rs *RoadSegment) DistanceOfPoint(lat, lon, heading float64) PointMatch {
	x, y := rs.localMap.TransferTo(lat, lon)
	q := NewPoint(x, y)

	distBest := math.Inf(1)
	projectedBest := rs.points[0]
	iBest := 0
	if len(rs.points) == 1 {
		distBest = norm(toVec(rs.points[0], q))
	}
	for i := 0; i+1 < len(rs.points); i++ {
		d := toVec(rs.points[i], rs.points[i+1])
		dist, projected := closestPointOnSegment(rs.points[i], d, q)
		if dist < distBest {
			distBest = dist
			projectedBest = projected
			iBest = i
		}
	}

	pLat, pLon := rs.localMap.TransferFrom(projectedBest.x, projectedBest.y)

	bearing := 0.0
	if len(rs.direction) > 0 {
		bearing = rs.direction[iBest]
	}
	deviation, orientation := rs.resolveOrientation(heading, bearing)

	return PointMatch{
		Distance:         distBest,
		Projected:        geo.NewCoordinate(pLat, pLon),
		HeadingDeviation: deviation,
		Orientation:      orientation,
		EdgeIndex:        iBest,
	}
}

func (rs *RoadSegment) resolveOrientation(heading, bearing float64) (float64, int) {
	switch rs.directionalityBicycle {
	case FORWARD_ONLY:
		return geo.PeriodicDistance(heading, bearing), +1
	case REVERSE_ONLY:
		return geo.PeriodicDistance(heading, bearing+math.Pi), -1
	default:
		d0 := geo.PeriodicDistance(heading, bearing)
		d180 := geo.PeriodicDistance(heading, math.Mod(bearing+math.Pi, 2*math.Pi))
		// ties, up to rounding, go along the vertex order
		if Le(d0, d180) {
			return d0, +1
		}
		return d180, -1
	}
}

// GetWayCoordinates returns the vertices, optionally shifted sideways by lateralOffset meters (positive to the
// left of the vertex order) and optionally reversed.
func (rs *RoadSegment) GetWayCoordinates(reverse bool, lateralOffset float64) []geo.Coordinate {
	var coords []geo.Coordinate
	if lateralOffset == 0 || len(rs.points) < 2 {
		coords = append([]geo.Coordinate(nil), rs.coords...)
	} else {
		coords = rs.offsetCoordinates(lateralOffset)
	}
	if reverse {
		return util.ReverseG(coords)
	}
	return coords
}

func (rs *RoadSegment) offsetCoordinates(lateralOffset float64) []geo.Coordinate {
	n := len(rs.points) - 1
	normals := make([]Vector, n)
	valid := make([]bool, n)
	anyValid := false
	for i := 0; i < n; i++ {
		normals[i], valid[i] = leftNormal(toVec(rs.points[i], rs.points[i+1]))
		anyValid = anyValid || valid[i]
	}
	if !anyValid {
		return append([]geo.Coordinate(nil), rs.coords...)
	}

	// zero-length edges borrow the normal of the closest valid edge
	for i := 0; i < n; i++ {
		if valid[i] {
			continue
		}
		for k := 1; k < n; k++ {
			if i-k >= 0 && valid[i-k] {
				normals[i] = normals[i-k]
				break
			}
			if i+k < n && valid[i+k] {
				normals[i] = normals[i+k]
				break
			}
		}
	}

	coords := make([]geo.Coordinate, len(rs.points))
	for i, p := range rs.points {
		nPrev := normals[max(0, i-1)]
		nNext := normals[min(n-1, i)]
		nI, ok := unit(nPrev.plus(nNext).scale(0.5))
		if !ok {
			// opposite normals at a hairpin
			nI = nPrev
		}
		shifted := p.add(nI.scale(lateralOffset))
		lat, lon := rs.localMap.TransferFrom(shifted.x, shifted.y)
		coords[i] = geo.NewCoordinate(lat, lon)
	}
	return coords
}

func unit(v Vector) (Vector, bool) {
	l := norm(v)
	if l < EPS {
		return Vector{}, false
	}
	return v.scale(1 / l), true
}
