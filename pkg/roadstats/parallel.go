package roadstats

import (
	"context"

	"github.com/lintang-b-s/overtakestats/pkg/concurrent"
	"github.com/lintang-b-s/overtakestats/pkg/datastructure"
	"go.uber.org/zap"
)

// AggregateTracks runs one aggregator per track on a pool of workers and merges them in track order.
// tracks are independent, only the map source is shared.
func AggregateTracks(ctx context.Context, tracks [][]*datastructure.Sample, source WaySource, labeler ZoneLabeler,
	opts Options, workers int, log *zap.Logger) *Aggregator {
	wp := concurrent.NewWorkerPool[[]*datastructure.Sample, *Aggregator](workers, len(tracks))
	wp.Start(func(track []*datastructure.Sample) *Aggregator {
		agg := NewAggregator(source, labeler, opts, log)
		agg.AddMeasurements(ctx, track)
		return agg
	})
	for i, track := range tracks {
		wp.AddJob(i, track)
	}
	wp.Close()
	wp.Wait()

	merged := NewAggregator(source, labeler, opts, log)
	for _, part := range wp.Ordered(len(tracks)) {
		merged.Merge(part)
	}
	log.Info("tracks aggregated", zap.Int("tracks", len(tracks)), zap.Int("ways", len(merged.wayStatistics)))
	return merged
}
