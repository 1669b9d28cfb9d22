package export

import (
	"os"
	"path/filepath"

	"github.com/lintang-b-s/overtakestats/pkg/geo"
	"github.com/lintang-b-s/overtakestats/pkg/roadstats"
	"github.com/lintang-b-s/overtakestats/pkg/util"
	geojson "github.com/paulmach/go.geojson"
	"github.com/twpayne/go-polyline"
)

// NewFeatureCollection. one LineString feature per record, properties named like the record's json fields plus
// geometry_polyline (google encoded polyline of the same geometry)
func NewFeatureCollection(records []roadstats.Record) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, r := range records {
		fc.AddFeature(newFeature(r))
	}
	return fc
}

func newFeature(r roadstats.Record) *geojson.Feature {
	f := geojson.NewLineStringFeature(lonLat(r.Coordinates))

	f.SetProperty("way_id", r.WayID)
	f.SetProperty("direction", r.Direction)
	f.SetProperty("zone", r.Zone)
	f.SetProperty("name", r.Name)
	f.SetProperty("way_length", r.WayLength)
	f.SetProperty("distance_overtaker_mean", r.DistanceOvertakerMean)
	f.SetProperty("distance_overtaker_median", r.DistanceOvertakerMedian)
	f.SetProperty("distance_overtaker_minimum", r.DistanceOvertakerMinimum)
	f.SetProperty("distance_overtaker_n", r.DistanceOvertakerN)
	f.SetProperty("distance_overtaker_n_below_limit", r.DistanceOvertakerNBelowLimit)
	f.SetProperty("distance_overtaker_n_above_limit", r.DistanceOvertakerNAboveLimit)
	f.SetProperty("distance_overtaker_limit", r.DistanceOvertakerLimit)
	f.SetProperty("distance_overtaker_measurements", r.DistanceOvertakerMeasurements)
	f.SetProperty("usage_distance_total", r.UsageDistanceTotal)
	f.SetProperty("usage_time_total", r.UsageTimeTotal)
	f.SetProperty("valid", r.Valid)
	f.SetProperty("geometry_polyline", EncodePolyline(r.Coordinates))
	return f
}

// geojson positions are (lon, lat)
func lonLat(coords []geo.Coordinate) [][]float64 {
	out := make([][]float64, len(coords))
	for i, c := range coords {
		out[i] = []float64{c.Lon, c.Lat}
	}
	return out
}

func EncodePolyline(coords []geo.Coordinate) string {
	latLon := make([][]float64, len(coords))
	for i, c := range coords {
		latLon[i] = []float64{c.Lat, c.Lon}
	}
	return string(polyline.EncodeCoords(latLon))
}

// WriteGeoJSON writes the feature collection of records to filename, creating parent directories.
func WriteGeoJSON(filename string, records []roadstats.Record) error {
	b, err := NewFeatureCollection(records).MarshalJSON()
	if err != nil {
		return util.WrapErrorf(err, util.ErrInternalServerError, "encode geojson")
	}
	if dir := filepath.Dir(filename); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return util.WrapErrorf(err, util.ErrInternalServerError, "create output directory %s", dir)
		}
	}
	if err := os.WriteFile(filename, b, 0o644); err != nil {
		return util.WrapErrorf(err, util.ErrInternalServerError, "write %s", filename)
	}
	return nil
}
