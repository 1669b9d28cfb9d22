package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadConfigDefaults(t *testing.T) {
	cfg, err := ReadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "./data/road_annotations.json", cfg.OutputFile)
	assert.Equal(t, 40.0, cfg.PointWayTolerance)
	assert.True(t, cfg.RightHandTraffic)
	assert.True(t, cfg.OnlyWaysWithOvertakeEvents)
	assert.Equal(t, 0.0, cfg.MaxWayLength)
	assert.Equal(t, 14, cfg.TileZoom)
	assert.Equal(t, 4, cfg.Workers)
	assert.Contains(t, cfg.HighwayFilter, "residential")
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestReadConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := `map_file: ./data/berlin.osm.pbf
output_file: ./out/annotations.json
point_way_tolerance: 25
right_hand_traffic: false
only_ways_with_overtake_events: false
max_way_length: 500
workers: 8
highway_filter:
  - primary
  - secondary
log_level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))

	cfg, err := ReadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "./data/berlin.osm.pbf", cfg.MapFile)
	assert.Equal(t, "./out/annotations.json", cfg.OutputFile)
	assert.Equal(t, 25.0, cfg.PointWayTolerance)
	assert.False(t, cfg.RightHandTraffic)
	assert.False(t, cfg.OnlyWaysWithOvertakeEvents)
	assert.Equal(t, 500.0, cfg.MaxWayLength)
	assert.Equal(t, 14, cfg.TileZoom)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, []string{"primary", "secondary"}, cfg.HighwayFilter)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestReadConfigEnv(t *testing.T) {
	t.Setenv("OVERTAKE_POINT_WAY_TOLERANCE", "12.5")
	t.Setenv("OVERTAKE_WORKERS", "2")

	cfg, err := ReadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 12.5, cfg.PointWayTolerance)
	assert.Equal(t, 2, cfg.Workers)
}

func TestReadConfigInvalid(t *testing.T) {
	dir := t.TempDir()
	content := `point_way_tolerance: -1
log_level: verbose
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))

	_, err := ReadConfig(dir)
	require.Error(t, err)
	assert.True(t, IsCode(err, ErrBadParamInput))
	assert.Contains(t, err.Error(), "PointWayTolerance")
	assert.Contains(t, err.Error(), "LogLevel")
}

func TestValidate(t *testing.T) {
	cfg := Config{
		OutputFile:        "out.json",
		PointWayTolerance: 40,
		TileZoom:          14,
		Workers:           1,
		LogLevel:          "warn",
	}
	assert.NoError(t, cfg.Validate())

	cfg.Workers = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Workers")

	cfg.Workers = 1
	cfg.HighwayFilter = []string{"primary", ""}
	assert.Error(t, cfg.Validate())
}
