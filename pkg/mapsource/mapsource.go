package mapsource

import (
	"context"
	"sync"

	"github.com/lintang-b-s/overtakestats/pkg/datastructure"
	"github.com/lintang-b-s/overtakestats/pkg/spatialindex"
	"github.com/lintang-b-s/overtakestats/pkg/util"
	"go.uber.org/zap"
)

// TileLoader supplies the road segments intersecting a tile.
type TileLoader interface {
	LoadTile(ctx context.Context, tile Tile) ([]*datastructure.RoadSegment, error)
}

// MapSource owns every loaded RoadSegment (keyed by id) and the spatial index over them.
// loading only happens in EnsureCoverage and Add; lookups are safe for concurrent use.
type MapSource struct {
	log    *zap.Logger
	loader TileLoader
	zoom   int

	mu          sync.RWMutex
	segments    map[string]*datastructure.RoadSegment
	rt          *spatialindex.Rtree
	loadedTiles map[Tile]struct{}
}

// NewMapSource. loader may be nil for a registry filled only through Add.
func NewMapSource(loader TileLoader, zoom int, log *zap.Logger) *MapSource {
	return &MapSource{
		log:         log,
		loader:      loader,
		zoom:        zoom,
		segments:    make(map[string]*datastructure.RoadSegment),
		rt:          spatialindex.NewRtree(),
		loadedTiles: make(map[Tile]struct{}),
	}
}

// Add registers segments, ignoring ids that are already known.
func (ms *MapSource) Add(segments ...*datastructure.RoadSegment) int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.addLocked(segments)
}

func (ms *MapSource) addLocked(segments []*datastructure.RoadSegment) int {
	added := 0
	for _, rs := range segments {
		if _, ok := ms.segments[rs.ID()]; ok {
			continue
		}
		ms.segments[rs.ID()] = rs
		ms.rt.Insert(rs)
		added++
	}
	return added
}

func (ms *MapSource) GetWayByID(wayID string) (*datastructure.RoadSegment, bool) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	rs, ok := ms.segments[wayID]
	return rs, ok
}

func (ms *MapSource) NumberOfSegments() int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return len(ms.segments)
}

// FindNearCandidates. segments whose bounding box lies within radius meter of (lat, lon)
func (ms *MapSource) FindNearCandidates(lat, lon, radius float64) []*datastructure.RoadSegment {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	ids := ms.rt.FindNearCandidates(lat, lon, radius)
	candidates := make([]*datastructure.RoadSegment, 0, len(ids))
	for _, id := range ids {
		candidates = append(candidates, ms.segments[id])
	}
	return candidates
}

// EnsureCoverage loads every tile within extend meters of the given points that is not loaded yet.
// without a loader it is a no-op.
func (ms *MapSource) EnsureCoverage(ctx context.Context, lats, lons []float64, extend float64) error {
	if ms.loader == nil {
		return nil
	}
	tiles := requiredTiles(ms.zoom, lats, lons, extend)

	ms.mu.Lock()
	defer ms.mu.Unlock()
	for _, tile := range tiles {
		if _, ok := ms.loadedTiles[tile]; ok {
			continue
		}
		segments, err := ms.loader.LoadTile(ctx, tile)
		if err != nil {
			return util.WrapErrorf(err, util.ErrInternalServerError, "load tile zoom=%d x=%d y=%d", tile.Zoom, tile.X, tile.Y)
		}
		added := ms.addLocked(segments)
		ms.loadedTiles[tile] = struct{}{}
		ms.log.Debug("tile loaded", zap.Int("zoom", tile.Zoom), zap.Int("x", tile.X), zap.Int("y", tile.Y),
			zap.Int("segments", added))
	}
	return nil
}
