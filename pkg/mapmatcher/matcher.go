package mapmatcher

import (
	"context"
	"sort"

	"github.com/lintang-b-s/overtakestats/pkg/datastructure"
	"github.com/lintang-b-s/overtakestats/pkg/geo"
	"go.uber.org/zap"
)

// minimum step length (meter) for deriving a heading from two consecutive positions
const minHeadingStep = 0.5

type MapSource interface {
	FindNearCandidates(lat, lon, radius float64) []*datastructure.RoadSegment
	EnsureCoverage(ctx context.Context, lats, lons []float64, extend float64) error
}

type Match struct {
	WayID string
	datastructure.PointMatch
}

type MapMatcher struct {
	source MapSource
	log    *zap.Logger
}

func NewMapMatcher(source MapSource, log *zap.Logger) *MapMatcher {
	return &MapMatcher{
		source: source,
		log:    log,
	}
}

// Match. nearest segment to (lat, lon) within tolerance meter, with the travel orientation resolved for heading
// (radian, ccw from east). equal distances are broken by the smaller heading deviation, then by segment id.
func (mm *MapMatcher) Match(lat, lon, heading, tolerance float64) (Match, bool) {
	candidates := mm.source.FindNearCandidates(lat, lon, tolerance)
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].ID() < candidates[j].ID()
	})

	var best Match
	found := false
	for _, rs := range candidates {
		pm := rs.DistanceOfPoint(lat, lon, heading)
		if !found || pm.Distance < best.Distance ||
			(pm.Distance == best.Distance && pm.HeadingDeviation < best.HeadingDeviation) {
			best = Match{WayID: rs.ID(), PointMatch: pm}
			found = true
		}
	}

	if !found || best.Distance > tolerance {
		return Match{}, false
	}
	return best, true
}

// AnnotateTrack matches every sample that has a position but no annotation yet. the heading of a sample is taken
// from the step to the next distinct position (or from the previous one at the end of the track).
// returns the number of samples annotated.
func (mm *MapMatcher) AnnotateTrack(ctx context.Context, samples []*datastructure.Sample, tolerance float64) (int, error) {
	lats := make([]float64, 0, len(samples))
	lons := make([]float64, 0, len(samples))
	positioned := make([]int, 0, len(samples))
	for i, s := range samples {
		if !s.HasPosition() {
			continue
		}
		lats = append(lats, *s.Latitude)
		lons = append(lons, *s.Longitude)
		positioned = append(positioned, i)
	}
	if err := mm.source.EnsureCoverage(ctx, lats, lons, tolerance); err != nil {
		return 0, err
	}

	annotated := 0
	for k, i := range positioned {
		s := samples[i]
		if s.HasAnnotation {
			continue
		}
		heading := headingAt(lats, lons, k)
		m, ok := mm.Match(lats[k], lons[k], heading, tolerance)
		if !ok {
			mm.log.Debug("no way within tolerance", zap.Int("sample", i), zap.Float64("lat", lats[k]),
				zap.Float64("lon", lons[k]))
			continue
		}
		s.Annotate(m.WayID, m.Orientation)
		annotated++
	}
	mm.log.Info("track annotated", zap.Int("samples", len(samples)), zap.Int("annotated", annotated))
	return annotated, nil
}

func headingAt(lats, lons []float64, k int) float64 {
	lm := geo.NewLocalMap(lats[k], lons[k])
	for j := k + 1; j < len(lats); j++ {
		if lm.DistanceLatLon(lats[k], lons[k], lats[j], lons[j]) >= minHeadingStep {
			return lm.Heading(lats[k], lons[k], lats[j], lons[j])
		}
	}
	for j := k - 1; j >= 0; j-- {
		if lm.DistanceLatLon(lats[j], lons[j], lats[k], lons[k]) >= minHeadingStep {
			return lm.Heading(lats[j], lons[j], lats[k], lons[k])
		}
	}
	return 0
}
