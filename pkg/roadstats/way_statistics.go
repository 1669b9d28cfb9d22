package roadstats

import (
	"sort"

	"github.com/lintang-b-s/overtakestats/pkg/datastructure"
	"github.com/lintang-b-s/overtakestats/pkg/util"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	ZONE_URBAN    = "urban"
	ZONE_RURAL    = "rural"
	ZONE_MOTORWAY = "motorway"
	ZONE_UNKNOWN  = "unknown"

	DISTANCE_LIMIT_URBAN = 1.5
	DISTANCE_LIMIT_RURAL = 2.0
)

// ZoneLabeler predicts the zone:traffic value of ways that are not tagged with one.
type ZoneLabeler interface {
	Predict(rs *datastructure.RoadSegment) (string, bool)
}

// DirectionStatistics accumulates one travel direction of a way.
type DirectionStatistics struct {
	Samples            []float64
	UsageTimeTotal     float64 // second
	UsageDistanceTotal float64 // meter

	N               int
	Mean            float64
	Median          float64
	Minimum         float64
	NBelowLimit     int
	NAtOrAboveLimit int
	Valid           bool
}

type WayStatistics struct {
	wayID      string
	directions [2]DirectionStatistics

	zone          string
	oneway        bool
	name          string
	length        float64
	distanceLimit float64
}

// DirectionIndex. 1 for orientation -1, 0 otherwise
func DirectionIndex(orientation int) int {
	if orientation == -1 {
		return 1
	}
	return 0
}

func NewWayStatistics(rs *datastructure.RoadSegment, labeler ZoneLabeler) *WayStatistics {
	ws := &WayStatistics{
		wayID:  rs.ID(),
		length: rs.Length(),
		zone:   ZONE_UNKNOWN,
		name:   "unknown",
	}

	zone, ok := rs.Tag("zone:traffic")
	if !ok && labeler != nil {
		zone, ok = labeler.Predict(rs)
	}
	if ok {
		ws.zone = normalizeZone(zone)
	}

	if v, ok := rs.Tag("oneway"); ok {
		ws.oneway = v == "yes"
	}
	if v, ok := rs.Tag("name"); ok {
		ws.name = v
	}

	ws.distanceLimit = DistanceLimit(ws.zone)
	return ws
}

// normalizeZone. DE:urban -> urban etc., other values are kept as they are
func normalizeZone(zone string) string {
	switch zone {
	case "DE:urban":
		return ZONE_URBAN
	case "DE:rural":
		return ZONE_RURAL
	case "DE:motorway":
		return ZONE_MOTORWAY
	default:
		return zone
	}
}

// DistanceLimit. legal minimum passing distance in meter for a zone
func DistanceLimit(zone string) float64 {
	if zone == ZONE_RURAL {
		return DISTANCE_LIMIT_RURAL
	}
	return DISTANCE_LIMIT_URBAN
}

func (ws *WayStatistics) WayID() string {
	return ws.wayID
}

func (ws *WayStatistics) Zone() string {
	return ws.zone
}

func (ws *WayStatistics) Oneway() bool {
	return ws.oneway
}

func (ws *WayStatistics) Name() string {
	return ws.name
}

func (ws *WayStatistics) Length() float64 {
	return ws.length
}

func (ws *WayStatistics) DistanceLimit() float64 {
	return ws.distanceLimit
}

func (ws *WayStatistics) Direction(i int) *DirectionStatistics {
	return &ws.directions[i]
}

// AddOvertakeSample. non-finite distances are dropped
func (ws *WayStatistics) AddOvertakeSample(distance float64, orientation int) {
	if !util.IsFinite(distance) {
		return
	}
	d := &ws.directions[DirectionIndex(orientation)]
	d.Samples = append(d.Samples, distance)
}

func (ws *WayStatistics) AddUsage(deltaT, deltaD float64, orientation int) {
	d := &ws.directions[DirectionIndex(orientation)]
	d.UsageTimeTotal += deltaT
	d.UsageDistanceTotal += deltaD
}

// Merge adds the samples and usage of other (same way) to ws. Finalize has to run afterwards.
func (ws *WayStatistics) Merge(other *WayStatistics) {
	for i := range ws.directions {
		ws.directions[i].Samples = append(ws.directions[i].Samples, other.directions[i].Samples...)
		ws.directions[i].UsageTimeTotal += other.directions[i].UsageTimeTotal
		ws.directions[i].UsageDistanceTotal += other.directions[i].UsageDistanceTotal
	}
}

func (ws *WayStatistics) Finalize() {
	for i := range ws.directions {
		ws.directions[i].finalize(ws.distanceLimit)
	}
}

// AnyValid. at least one direction received a passing distance sample
func (ws *WayStatistics) AnyValid() bool {
	return ws.directions[0].Valid || ws.directions[1].Valid
}

func (d *DirectionStatistics) finalize(limit float64) {
	d.N, d.Mean, d.Median, d.Minimum = 0, 0, 0, 0
	d.NBelowLimit, d.NAtOrAboveLimit, d.Valid = 0, 0, false
	if len(d.Samples) == 0 {
		return
	}

	d.N = len(d.Samples)
	d.Mean = stat.Mean(d.Samples, nil)
	d.Minimum = floats.Min(d.Samples)
	d.Median = median(d.Samples)
	for _, v := range d.Samples {
		if v < limit {
			d.NBelowLimit++
		} else {
			d.NAtOrAboveLimit++
		}
	}
	d.Valid = true
}

// median. mean of the two middle values for an even count
func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
