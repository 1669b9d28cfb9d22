package roadstats

import (
	"testing"
	"time"

	"github.com/lintang-b-s/overtakestats/pkg/datastructure"
	"github.com/lintang-b-s/overtakestats/pkg/geo"
	"github.com/lintang-b-s/overtakestats/pkg/mapsource"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	testMap = geo.NewLocalMap(52.52, 13.405)
	t0      = time.Date(2023, 5, 1, 8, 0, 0, 0, time.UTC)
)

func latLonXY(x, y float64) (float64, float64) {
	return testMap.TransferFrom(x, y)
}

func segmentXY(t *testing.T, id string, tags map[string]string, pts ...[2]float64) *datastructure.RoadSegment {
	t.Helper()
	coords := make([]geo.Coordinate, len(pts))
	for i, p := range pts {
		lat, lon := latLonXY(p[0], p[1])
		coords[i] = geo.NewCoordinate(lat, lon)
	}
	rs, err := datastructure.NewRoadSegment(id, coords, tags)
	require.NoError(t, err)
	return rs
}

// testSource. way "A" from x=0 to x=300 and way "B" from x=300 to x=600, both along y=0
func testSource(t *testing.T) *mapsource.MapSource {
	t.Helper()
	ms := mapsource.NewMapSource(nil, 14, zap.NewNop())
	ms.Add(
		segmentXY(t, "A", map[string]string{"name": "Hauptstraße", "zone:traffic": "DE:urban"},
			[2]float64{0, 0}, [2]float64{300, 0}),
		segmentXY(t, "B", map[string]string{"oneway": "yes"},
			[2]float64{300, 0}, [2]float64{600, 0}),
	)
	return ms
}

// sampleAt. annotated sample at planar position x (y=0), sec seconds after t0
func sampleAt(sec, x float64, wayID string, orientation int) *datastructure.Sample {
	lat, lon := latLonXY(x, 0)
	s := datastructure.NewSample(t0.Add(time.Duration(sec*float64(time.Second))), lat, lon)
	s.Annotate(wayID, orientation)
	return s
}

type fixedLabeler struct {
	zone string
}

func (l fixedLabeler) Predict(rs *datastructure.RoadSegment) (string, bool) {
	return l.zone, l.zone != ""
}
