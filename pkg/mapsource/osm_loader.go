package mapsource

import (
	"context"
	"io"
	"os"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"github.com/lintang-b-s/overtakestats/pkg/datastructure"
	"github.com/lintang-b-s/overtakestats/pkg/geo"
	"github.com/lintang-b-s/overtakestats/pkg/spatialindex"
	"github.com/lintang-b-s/overtakestats/pkg/util"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
	"go.uber.org/zap"
)

type osmWay struct {
	id    osm.WayID
	nodes []osm.NodeID
	tags  map[string]string
}

// OSMFileLoader serves tiles out of a local osm extract (.osm, .osm.bz2 or .osm.pbf).
// the extract is read once, ways not matching the highway filter are dropped.
type OSMFileLoader struct {
	segments map[string]*datastructure.RoadSegment
	rt       *spatialindex.Rtree
}

func NewOSMFileLoader(ctx context.Context, mapFile string, highwayFilter []string, maxWayLength float64,
	log *zap.Logger) (*OSMFileLoader, error) {
	f, err := os.Open(mapFile)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrNotFound, "open map file %s", mapFile)
	}
	defer f.Close()

	var scanner osm.Scanner
	switch {
	case strings.HasSuffix(mapFile, ".pbf"):
		scanner = osmpbf.New(ctx, f, runtime.GOMAXPROCS(-1))
	case strings.HasSuffix(mapFile, ".bz2"):
		bz, err := bzip2.NewReader(f, nil)
		if err != nil {
			return nil, util.WrapErrorf(err, util.ErrBadParamInput, "open bzip2 stream %s", mapFile)
		}
		defer bz.Close()
		scanner = osmxml.New(ctx, bz)
	default:
		scanner = osmxml.New(ctx, f)
	}

	return readOSM(scanner, highwayFilter, maxWayLength, log)
}

// NewOSMReaderLoader. like NewOSMFileLoader for an uncompressed osm xml stream
func NewOSMReaderLoader(ctx context.Context, r io.Reader, highwayFilter []string, maxWayLength float64,
	log *zap.Logger) (*OSMFileLoader, error) {
	return readOSM(osmxml.New(ctx, r), highwayFilter, maxWayLength, log)
}

func readOSM(scanner osm.Scanner, highwayFilter []string, maxWayLength float64, log *zap.Logger) (*OSMFileLoader, error) {
	defer scanner.Close()

	accepted := make(map[string]struct{}, len(highwayFilter))
	for _, hw := range highwayFilter {
		accepted[hw] = struct{}{}
	}

	nodeCoords := make(map[osm.NodeID]geo.Coordinate)
	ways := make([]osmWay, 0)
	for scanner.Scan() {
		switch o := scanner.Object().(type) {
		case *osm.Node:
			nodeCoords[o.ID] = geo.NewCoordinate(o.Lat, o.Lon)
		case *osm.Way:
			if len(o.Nodes) < 2 {
				continue
			}
			if _, ok := accepted[o.Tags.Find("highway")]; !ok {
				continue
			}
			if (len(ways)+1)%50000 == 0 {
				log.Sugar().Infof("scanning openstreetmap ways: %d...", len(ways)+1)
			}
			ways = append(ways, osmWay{id: o.ID, nodes: o.Nodes.NodeIDs(), tags: o.Tags.Map()})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "scan osm data")
	}

	loader := &OSMFileLoader{
		segments: make(map[string]*datastructure.RoadSegment),
		rt:       spatialindex.NewRtree(),
	}
	for _, w := range ways {
		coords := make([]geo.Coordinate, 0, len(w.nodes))
		for _, nID := range w.nodes {
			c, ok := nodeCoords[nID]
			if !ok {
				continue
			}
			coords = append(coords, c)
		}
		if len(coords) < 2 {
			log.Warn("way without resolvable nodes skipped", zap.Int64("way_id", int64(w.id)))
			continue
		}
		pieces, err := datastructure.SplitWay(strconv.FormatInt(int64(w.id), 10), coords, w.tags, maxWayLength)
		if err != nil {
			log.Warn("invalid way skipped", zap.Int64("way_id", int64(w.id)), zap.Error(err))
			continue
		}
		for id, rs := range pieces {
			loader.segments[id] = rs
		}
	}
	log.Info("osm extract loaded", zap.Int("ways", len(ways)), zap.Int("segments", len(loader.segments)))
	loader.rt.Build(loader.Segments(), log)
	return loader, nil
}

func (l *OSMFileLoader) LoadTile(ctx context.Context, tile Tile) ([]*datastructure.RoadSegment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ids := l.rt.Search(tile.BoundingBox())
	sort.Strings(ids)
	segments := make([]*datastructure.RoadSegment, 0, len(ids))
	for _, id := range ids {
		segments = append(segments, l.segments[id])
	}
	return segments, nil
}

// Segments. every segment of the extract, sorted by id
func (l *OSMFileLoader) Segments() []*datastructure.RoadSegment {
	ids := make([]string, 0, len(l.segments))
	for id := range l.segments {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	segments := make([]*datastructure.RoadSegment, 0, len(ids))
	for _, id := range ids {
		segments = append(segments, l.segments[id])
	}
	return segments
}
