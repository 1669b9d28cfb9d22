package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/lintang-b-s/overtakestats/pkg/datastructure"
	"github.com/lintang-b-s/overtakestats/pkg/export"
	"github.com/lintang-b-s/overtakestats/pkg/logger"
	"github.com/lintang-b-s/overtakestats/pkg/mapmatcher"
	"github.com/lintang-b-s/overtakestats/pkg/mapsource"
	"github.com/lintang-b-s/overtakestats/pkg/roadstats"
	"github.com/lintang-b-s/overtakestats/pkg/track"
	"github.com/lintang-b-s/overtakestats/pkg/util"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	configPath = flag.String("config", "./data/", "directory containing config.yaml")
	mapFile    = flag.String("map", "", "osm extract (.osm, .osm.bz2, .osm.pbf), overrides map_file")
	outputFile = flag.String("out", "", "geojson output file, overrides output_file")
	annotate   = flag.Bool("annotate", true, "map match samples that carry no way annotation")
)

func main() {
	flag.Parse()

	cfg, err := util.ReadConfig(*configPath)
	if err != nil {
		panic(err)
	}
	if *mapFile != "" {
		cfg.MapFile = *mapFile
	}
	if *outputFile != "" {
		cfg.OutputFile = *outputFile
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, flag.Args(), log); err != nil {
		log.Fatal("road annotation failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *util.Config, trackFiles []string, log *zap.Logger) error {
	if cfg.MapFile == "" {
		return util.WrapErrorf(nil, util.ErrBadParamInput, "no map file configured")
	}

	loader, err := mapsource.NewOSMFileLoader(ctx, cfg.MapFile, cfg.HighwayFilter, cfg.MaxWayLength, log)
	if err != nil {
		return err
	}
	source := mapsource.NewMapSource(loader, cfg.TileZoom, log)

	tracks := make([][]*datastructure.Sample, len(trackFiles))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i, fn := range trackFiles {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			samples, err := track.ReadFile(fn)
			if err != nil {
				return err
			}
			tracks[i] = samples
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("tracks loaded", zap.Int("tracks", len(tracks)))

	if *annotate {
		matcher := mapmatcher.NewMapMatcher(source, log)
		for i, samples := range tracks {
			if _, err := matcher.AnnotateTrack(ctx, samples, cfg.PointWayTolerance); err != nil {
				return util.WrapErrorf(err, util.ErrInternalServerError, "annotate track %s", trackFiles[i])
			}
		}
	}

	opts := roadstats.Options{
		PointWayTolerance:          cfg.PointWayTolerance,
		OnlyWaysWithOvertakeEvents: cfg.OnlyWaysWithOvertakeEvents,
		RightHandTraffic:           cfg.RightHandTraffic,
	}
	agg := roadstats.AggregateTracks(ctx, tracks, source, nil, opts, cfg.Workers, log)
	records := roadstats.BuildRecords(agg.Finalize(), source, cfg.RightHandTraffic)

	if err := export.WriteGeoJSON(cfg.OutputFile, records); err != nil {
		return err
	}
	log.Info("road annotations written", zap.String("file", cfg.OutputFile), zap.Int("features", len(records)))
	return nil
}
