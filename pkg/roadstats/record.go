package roadstats

import (
	"github.com/lintang-b-s/overtakestats/pkg/datastructure"
	"github.com/lintang-b-s/overtakestats/pkg/geo"
)

// lateral distance (meter) between the rendered polylines of the two directions and the way center line
const renderLaneOffset = 2.0

// Record is the per way, per direction output row.
type Record struct {
	WayID                         string           `json:"way_id"`
	Direction                     int              `json:"direction"`
	Zone                          string           `json:"zone"`
	Name                          string           `json:"name"`
	WayLength                     float64          `json:"way_length"`
	DistanceOvertakerMean         *float64         `json:"distance_overtaker_mean"`
	DistanceOvertakerMedian       *float64         `json:"distance_overtaker_median"`
	DistanceOvertakerMinimum      *float64         `json:"distance_overtaker_minimum"`
	DistanceOvertakerN            int              `json:"distance_overtaker_n"`
	DistanceOvertakerNBelowLimit  int              `json:"distance_overtaker_n_below_limit"`
	DistanceOvertakerNAboveLimit  int              `json:"distance_overtaker_n_above_limit"`
	DistanceOvertakerLimit        float64          `json:"distance_overtaker_limit"`
	DistanceOvertakerMeasurements []float64        `json:"distance_overtaker_measurements"`
	UsageDistanceTotal            float64          `json:"usage_distance_total"`
	UsageTimeTotal                float64          `json:"usage_time_total"`
	Valid                         bool             `json:"valid"`
	Coordinates                   []geo.Coordinate `json:"-"`
}

type WayLookup interface {
	GetWayByID(wayID string) (*datastructure.RoadSegment, bool)
}

// BuildRecords turns finalized statistics into output rows: one for a oneway way (direction 0), two otherwise
// (+1 along the vertex order, -1 against it, with reversed geometry). the polyline of each direction is shifted
// to its side of the road.
func BuildRecords(stats []*WayStatistics, ways WayLookup, rightHandTraffic bool) []Record {
	records := make([]Record, 0, 2*len(stats))
	for _, ws := range stats {
		n := 2
		if ws.oneway {
			n = 1
		}
		way, hasWay := ways.GetWayByID(ws.wayID)
		for i := 0; i < n; i++ {
			direction := 0
			if !ws.oneway {
				direction = 1 - 2*i
			}

			var coords []geo.Coordinate
			if hasWay {
				side := 1.0
				if rightHandTraffic {
					side = -1.0
				}
				lateralOffset := renderLaneOffset * float64(direction) * side
				coords = way.GetWayCoordinates(i == 1, lateralOffset)
			}

			records = append(records, newRecord(ws, i, direction, coords))
		}
	}
	return records
}

func newRecord(ws *WayStatistics, i, direction int, coords []geo.Coordinate) Record {
	d := ws.directions[i]
	r := Record{
		WayID:                         ws.wayID,
		Direction:                     direction,
		Zone:                          ws.zone,
		Name:                          ws.name,
		WayLength:                     ws.length,
		DistanceOvertakerN:            d.N,
		DistanceOvertakerNBelowLimit:  d.NBelowLimit,
		DistanceOvertakerNAboveLimit:  d.NAtOrAboveLimit,
		DistanceOvertakerLimit:        ws.distanceLimit,
		DistanceOvertakerMeasurements: append([]float64{}, d.Samples...),
		UsageDistanceTotal:            d.UsageDistanceTotal,
		UsageTimeTotal:                d.UsageTimeTotal,
		Valid:                         d.Valid,
		Coordinates:                   coords,
	}
	if d.Valid {
		mean, med, minimum := d.Mean, d.Median, d.Minimum
		r.DistanceOvertakerMean = &mean
		r.DistanceOvertakerMedian = &med
		r.DistanceOvertakerMinimum = &minimum
	}
	return r
}
