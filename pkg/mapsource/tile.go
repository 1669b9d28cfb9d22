package mapsource

import (
	"math"

	"github.com/lintang-b-s/overtakestats/pkg/datastructure"
	"github.com/lintang-b-s/overtakestats/pkg/geo"
	"github.com/lintang-b-s/overtakestats/pkg/util"
)

// Tile is a slippy map tile, https://wiki.openstreetmap.org/wiki/Slippy_map_tilenames
type Tile struct {
	Zoom, X, Y int
}

func LatLonToTile(zoom int, lat, lon float64) Tile {
	latRad := util.DegreeToRadians(lat)
	n := math.Exp2(float64(zoom))
	x := int((lon + 180.0) / 360.0 * n)
	y := int((1.0 - math.Asinh(math.Tan(latRad))/math.Pi) / 2.0 * n)
	maxIdx := int(n) - 1
	return Tile{Zoom: zoom, X: util.Clamp(x, 0, maxIdx), Y: util.Clamp(y, 0, maxIdx)}
}

// NorthWest. lat/lon of the upper left tile corner
func (t Tile) NorthWest() (float64, float64) {
	n := math.Exp2(float64(t.Zoom))
	lon := float64(t.X)/n*360.0 - 180.0
	lat := util.RadiansToDegree(math.Atan(math.Sinh(math.Pi * (1 - 2*float64(t.Y)/n))))
	return lat, lon
}

func (t Tile) BoundingBox() *datastructure.BoundingBox {
	north, west := t.NorthWest()
	south, east := Tile{Zoom: t.Zoom, X: t.X + 1, Y: t.Y + 1}.NorthWest()
	return datastructure.NewBoundingBox(south, west, north, east)
}

// requiredTiles. all tiles touched by the boxes of extend meters around each finite point
func requiredTiles(zoom int, lats, lons []float64, extend float64) []Tile {
	n := 1 << zoom
	seen := make(map[Tile]struct{})
	tiles := make([]Tile, 0)
	for i := range lats {
		if i >= len(lons) {
			break
		}
		lo, hi, ok := geo.CoverageRect(lats[i:i+1], lons[i:i+1], extend)
		if !ok {
			continue
		}
		tMin := LatLonToTile(zoom, hi.Lat, lo.Lon) // north west
		tMax := LatLonToTile(zoom, lo.Lat, hi.Lon) // south east
		// a box crossing the antimeridian has its western column east of its eastern one
		width := tMax.X - tMin.X
		if width < 0 {
			width += n
		}
		for dx := 0; dx <= width; dx++ {
			x := (tMin.X + dx) % n
			for y := tMin.Y; y <= tMax.Y; y++ {
				t := Tile{Zoom: zoom, X: x, Y: y}
				if _, ok := seen[t]; ok {
					continue
				}
				seen[t] = struct{}{}
				tiles = append(tiles, t)
			}
		}
	}
	return tiles
}
