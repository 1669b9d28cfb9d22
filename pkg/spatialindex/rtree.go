package spatialindex

import (
	"math"

	"github.com/lintang-b-s/overtakestats/pkg/datastructure"
	"github.com/lintang-b-s/overtakestats/pkg/geo"
	"github.com/tidwall/rtree"
	"go.uber.org/zap"
)

// longitude scale is evaluated no closer to the pole than this (degree)
const maxFrameLat = 89.0

// Rtree indexes road segment bounding boxes by segment id. geometry stays in the caller's registry.
type Rtree struct {
	tr *rtree.RTreeG[string]
	// largest latitude extent (degree) of any inserted box
	maxLatSpan float64
}

func NewRtree() *Rtree {
	var tr rtree.RTreeG[string]
	return &Rtree{
		tr: &tr,
	}
}

// Insert. add the (lon, lat) bounding box of rs under its id
func (rt *Rtree) Insert(rs *datastructure.RoadSegment) {
	bb := rs.GetBoundingBox()
	rt.maxLatSpan = math.Max(rt.maxLatSpan, bb.GetMaxLat()-bb.GetMinLat())
	rt.tr.Insert([2]float64{bb.GetMinLon(), bb.GetMinLat()}, [2]float64{bb.GetMaxLon(), bb.GetMaxLat()}, rs.ID())
}

// Build. insert every segment, logging progress every 10%
func (rt *Rtree) Build(segments []*datastructure.RoadSegment, log *zap.Logger) {
	log.Info("Building R-tree spatial index...", zap.Int("segments", len(segments)))
	step := len(segments) / 10
	for i, rs := range segments {
		if step > 0 && (i+1)%step == 0 {
			log.Info("Building R-tree spatial index...", zap.Float64("progress", float64(i+1)/float64(len(segments))*100))
		}
		rt.Insert(rs)
	}
	log.Info("R-tree spatial index built.")
}

func (rt *Rtree) Len() int {
	return rt.tr.Len()
}

// FindNearCandidates returns the ids of all segments whose bounding box overlaps the square of half-width radius
// (meter) around (qLat, qLon). may contain segments farther away than radius, never misses a closer one.
func (rt *Rtree) FindNearCandidates(qLat, qLon, radius float64) []string {
	q := geo.NewCoordinate(qLat, qLon)
	if !q.IsFinite() || math.IsNaN(radius) {
		return []string{}
	}
	// padded by 0.1% so the box edge never falls short of radius on the sphere
	radius = math.Max(radius, 0) * 1.001

	northLat := geo.Destination(q, 0, radius).Lat
	southLat := geo.Destination(q, 180, radius).Lat
	// segments measure east-west distances at the latitude of their own box center, which for a long
	// segment can lie up to half its latitude extent poleward of the query box
	frameLat := math.Min(math.Max(math.Abs(northLat), math.Abs(southLat))+rt.maxLatSpan/2, maxFrameLat)
	_, sLon := geo.ScaleAt(frameLat, qLon)
	dLon := sLon * radius

	return rt.Search(datastructure.NewBoundingBox(southLat, qLon-dLon, northLat, qLon+dLon))
}

// Search. ids of all segments whose bounding box overlaps bb
func (rt *Rtree) Search(bb *datastructure.BoundingBox) []string {
	results := make([]string, 0, 10)
	rt.tr.Search([2]float64{bb.GetMinLon(), bb.GetMinLat()}, [2]float64{bb.GetMaxLon(), bb.GetMaxLat()},
		func(min, max [2]float64, data string) bool {
			results = append(results, data)
			return true
		})
	return results
}
