package roadstats

import (
	"context"
	"sort"

	"github.com/lintang-b-s/overtakestats/pkg/datastructure"
	"go.uber.org/zap"
)

// WaySource is the map collaborator the aggregator resolves way ids with.
type WaySource interface {
	GetWayByID(wayID string) (*datastructure.RoadSegment, bool)
	EnsureCoverage(ctx context.Context, lats, lons []float64, extend float64) error
}

type Options struct {
	PointWayTolerance          float64 // meter of map data loaded around each valid sample
	OnlyWaysWithOvertakeEvents bool
	RightHandTraffic           bool
}

func DefaultOptions() Options {
	return Options{
		PointWayTolerance:          40.0,
		OnlyWaysWithOvertakeEvents: true,
		RightHandTraffic:           true,
	}
}

// Aggregator collects usage and passing distance statistics per way and direction from ordered sample streams.
// not safe for concurrent use; run one aggregator per track and Merge them.
type Aggregator struct {
	log     *zap.Logger
	source  WaySource
	labeler ZoneLabeler
	opts    Options

	wayStatistics map[string]*WayStatistics

	nSamples   int
	nValid     int
	nConfirmed int
}

func NewAggregator(source WaySource, labeler ZoneLabeler, opts Options, log *zap.Logger) *Aggregator {
	return &Aggregator{
		log:           log,
		source:        source,
		labeler:       labeler,
		opts:          opts,
		wayStatistics: make(map[string]*WayStatistics),
	}
}

// annotated. time, position, map annotation and way id are all present
func annotated(s *datastructure.Sample) bool {
	return s.HasPosition() && s.HasAnnotation && s.WayID != nil
}

// AddMeasurements consumes one track in chronological order. usage of the segment still open at the end of the
// track is committed before returning.
func (a *Aggregator) AddMeasurements(ctx context.Context, samples []*datastructure.Sample) {
	lats := make([]float64, 0, len(samples))
	lons := make([]float64, 0, len(samples))
	for _, s := range samples {
		if annotated(s) {
			lats = append(lats, *s.Latitude)
			lons = append(lons, *s.Longitude)
		}
	}
	if len(lats) > 0 {
		if err := a.source.EnsureCoverage(ctx, lats, lons, a.opts.PointWayTolerance); err != nil {
			a.log.Warn("could not ensure map coverage", zap.Error(err))
		}
	}

	var (
		state    State
		flush    *Flush
		wayStats *WayStatistics
	)
	for _, s := range samples {
		a.nSamples++

		obs := Observation{Valid: annotated(s)}
		if obs.Valid {
			obs.WayID, obs.Orientation = *s.WayID, s.GetOrientation()
			obs.Time, obs.Lat, obs.Lon = *s.Time, *s.Latitude, *s.Longitude
			// counted before way resolution, samples on unknown ways still count as valid
			a.nValid++
		}

		// get or create way statistics when a new segment starts
		if obs.Valid && !state.Continuous(obs) {
			way, ok := a.source.GetWayByID(obs.WayID)
			if ok {
				wayStats = a.getOrCreate(way)
				obs.LocalMap = way.GetLocalMap()
			} else {
				a.log.Warn("way not found in map", zap.String("way_id", obs.WayID))
				wayStats = nil
				obs.Valid = false
			}
		}

		if obs.Valid && s.Confirmed {
			a.nConfirmed++
			if s.DistanceOvertaker != nil {
				wayStats.AddOvertakeSample(*s.DistanceOvertaker, obs.Orientation)
			}
		}

		state, flush = Transition(state, obs)
		a.apply(flush)
	}

	_, flush = Close(state)
	a.apply(flush)
}

func (a *Aggregator) getOrCreate(way *datastructure.RoadSegment) *WayStatistics {
	ws, ok := a.wayStatistics[way.ID()]
	if !ok {
		ws = NewWayStatistics(way, a.labeler)
		a.wayStatistics[way.ID()] = ws
	}
	return ws
}

func (a *Aggregator) apply(flush *Flush) {
	if flush == nil {
		return
	}
	a.wayStatistics[flush.WayID].AddUsage(flush.Time, flush.Distance, flush.Orientation)
}

// Merge folds the statistics and counters of other into a. other must not be used afterwards.
func (a *Aggregator) Merge(other *Aggregator) {
	for id, ws := range other.wayStatistics {
		if mine, ok := a.wayStatistics[id]; ok {
			mine.Merge(ws)
		} else {
			a.wayStatistics[id] = ws
		}
	}
	a.nSamples += other.nSamples
	a.nValid += other.nValid
	a.nConfirmed += other.nConfirmed
}

func (a *Aggregator) Counters() (nSamples, nValid, nConfirmed int) {
	return a.nSamples, a.nValid, a.nConfirmed
}

func (a *Aggregator) WayStatistics(wayID string) (*WayStatistics, bool) {
	ws, ok := a.wayStatistics[wayID]
	return ws, ok
}

// Finalize computes the summary statistics of every way and returns them sorted by way id. with
// OnlyWaysWithOvertakeEvents, ways without any passing distance sample are left out.
func (a *Aggregator) Finalize() []*WayStatistics {
	a.log.Info("aggregation finished", zap.Int("samples", a.nSamples), zap.Int("valid", a.nValid),
		zap.Int("confirmed", a.nConfirmed))

	ids := make([]string, 0, len(a.wayStatistics))
	for id := range a.wayStatistics {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	result := make([]*WayStatistics, 0, len(ids))
	for _, id := range ids {
		ws := a.wayStatistics[id]
		ws.Finalize()
		if a.opts.OnlyWaysWithOvertakeEvents && !ws.AnyValid() {
			continue
		}
		result = append(result, ws)
	}
	return result
}
