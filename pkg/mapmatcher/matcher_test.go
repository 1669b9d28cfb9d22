package mapmatcher

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/lintang-b-s/overtakestats/pkg/datastructure"
	"github.com/lintang-b-s/overtakestats/pkg/geo"
	"github.com/lintang-b-s/overtakestats/pkg/mapsource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testMap = geo.NewLocalMap(52.52, 13.405)

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

func newTestMatcher(t *testing.T, segments ...*datastructure.RoadSegment) *MapMatcher {
	t.Helper()
	ms := mapsource.NewMapSource(nil, 14, zap.NewNop())
	ms.Add(segments...)
	return NewMapMatcher(ms, zap.NewNop())
}

func TestMatchNearestOfParallelRoads(t *testing.T) {
	mm := newTestMatcher(t,
		segmentXY(t, "a", nil, [2]float64{0, 0}, [2]float64{200, 0}),
		segmentXY(t, "b", nil, [2]float64{0, 30}, [2]float64{200, 30}),
	)

	lat, lon := latLonXY(100, 10)
	m, ok := mm.Match(lat, lon, 0, 40)
	require.True(t, ok)
	assert.Equal(t, "a", m.WayID)
	assert.InDelta(t, 10, m.Distance, 1e-3)
	assert.Equal(t, 1, m.Orientation)

	lat, lon = latLonXY(100, 22)
	m, ok = mm.Match(lat, lon, math.Pi, 40)
	require.True(t, ok)
	assert.Equal(t, "b", m.WayID)
	assert.Equal(t, -1, m.Orientation)
}

func TestMatchOutsideTolerance(t *testing.T) {
	mm := newTestMatcher(t,
		segmentXY(t, "L", nil, [2]float64{0, 0}, [2]float64{200, 0}, [2]float64{200, 200}),
	)

	// no bounding box in range
	lat, lon := latLonXY(100, -60)
	_, ok := mm.Match(lat, lon, 0, 40)
	assert.False(t, ok)

	// inside the bounding box but 150 meter from the polyline
	lat, lon = latLonXY(20, 150)
	_, ok = mm.Match(lat, lon, 0, 40)
	assert.False(t, ok)
}

func TestMatchEqualDistancePrefersHeading(t *testing.T) {
	mm := newTestMatcher(t,
		segmentXY(t, "fwd", map[string]string{"oneway": "yes"}, [2]float64{0, 0}, [2]float64{200, 0}),
		segmentXY(t, "rev", map[string]string{"oneway": "-1"}, [2]float64{0, 0}, [2]float64{200, 0}),
	)

	lat, lon := latLonXY(100, 5)

	m, ok := mm.Match(lat, lon, math.Pi, 40)
	require.True(t, ok)
	assert.Equal(t, "rev", m.WayID)
	assert.Equal(t, -1, m.Orientation)
	assert.InDelta(t, 0, m.HeadingDeviation, 1e-9)

	m, ok = mm.Match(lat, lon, 0, 40)
	require.True(t, ok)
	assert.Equal(t, "fwd", m.WayID)
	assert.Equal(t, 1, m.Orientation)
}

func TestAnnotateTrack(t *testing.T) {
	mm := newTestMatcher(t,
		segmentXY(t, "a", nil, [2]float64{0, 0}, [2]float64{200, 0}),
	)

	t0 := time.Date(2023, 5, 1, 8, 0, 0, 0, time.UTC)
	samples := make([]*datastructure.Sample, 0)

	farLat, farLon := latLonXY(200, 300)
	samples = append(samples, datastructure.NewSample(t0, farLat, farLon))
	samples = append(samples, &datastructure.Sample{Time: &t0})
	for i, x := range []float64{180, 140, 100, 60, 20} {
		lat, lon := latLonXY(x, 2)
		samples = append(samples, datastructure.NewSample(t0.Add(time.Duration(i+1)*time.Second), lat, lon))
	}
	samples[4].Annotate("manual", 1)

	n, err := mm.AnnotateTrack(context.Background(), samples, 40)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	assert.False(t, samples[0].HasAnnotation)
	assert.False(t, samples[1].HasAnnotation)
	assert.Equal(t, "manual", samples[4].GetWayID())
	for _, i := range []int{2, 3, 5, 6} {
		assert.True(t, samples[i].HasAnnotation, "sample %d", i)
		assert.Equal(t, "a", samples[i].GetWayID(), "sample %d", i)
		assert.Equal(t, -1, samples[i].GetOrientation(), "sample %d", i)
	}
}

func TestHeadingAt(t *testing.T) {
	lat0, lon0 := latLonXY(0, 0)
	lat1, lon1 := latLonXY(0, 10)
	lats := []float64{lat0, lat1, lat1}
	lons := []float64{lon0, lon1, lon1}

	assert.InDelta(t, math.Pi/2, headingAt(lats, lons, 0), 1e-6)
	// repeated position falls back to the previous step
	assert.InDelta(t, math.Pi/2, headingAt(lats, lons, 1), 1e-6)
	assert.InDelta(t, math.Pi/2, headingAt(lats, lons, 2), 1e-6)
	assert.Equal(t, 0.0, headingAt(lats[:1], lons[:1], 0))
}
