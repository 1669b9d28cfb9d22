package track

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dsnet/compress/bzip2"
	"github.com/lintang-b-s/overtakestats/pkg/datastructure"
	"github.com/lintang-b-s/overtakestats/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTrack = `{"time":"2023-05-01T08:00:00Z","latitude":52.52,"longitude":13.405,"has_OSM_annotations":true,"OSM_way_id":"4711","OSM_way_orientation":-1,"confirmed":false,"distance_overtaker":null}

{"time":"2023-05-01T08:00:01Z","latitude":52.5201,"longitude":13.4051,"has_OSM_annotations":true,"OSM_way_id":"4711","OSM_way_orientation":-1,"confirmed":true,"distance_overtaker":1.23}
{"time":"2023-05-01T08:00:02Z","latitude":null,"longitude":null,"has_OSM_annotations":false}
`

func TestReadSamples(t *testing.T) {
	samples, err := ReadSamples(strings.NewReader(testTrack))
	require.NoError(t, err)
	require.Len(t, samples, 3)

	s := samples[0]
	require.True(t, s.HasPosition())
	assert.Equal(t, time.Date(2023, 5, 1, 8, 0, 0, 0, time.UTC), s.Time.UTC())
	assert.Equal(t, 52.52, *s.Latitude)
	assert.True(t, s.HasAnnotation)
	assert.Equal(t, "4711", s.GetWayID())
	assert.Equal(t, -1, s.GetOrientation())
	assert.Nil(t, s.DistanceOvertaker)

	assert.True(t, samples[1].Confirmed)
	require.NotNil(t, samples[1].DistanceOvertaker)
	assert.Equal(t, 1.23, *samples[1].DistanceOvertaker)

	assert.False(t, samples[2].HasPosition())
	assert.Nil(t, samples[2].WayID)
	assert.Equal(t, 0, samples[2].GetOrientation())
}

func TestReadSamplesInvalidLine(t *testing.T) {
	_, err := ReadSamples(strings.NewReader("{\"latitude\":52.5}\nnot json\n"))
	require.Error(t, err)
	assert.True(t, util.IsCode(err, util.ErrBadParamInput))
	assert.Contains(t, err.Error(), "line 2")
}

func TestWriteSamplesRoundTrip(t *testing.T) {
	t0 := time.Date(2023, 5, 1, 8, 0, 0, 0, time.UTC)
	in := []*datastructure.Sample{
		datastructure.NewSample(t0, 52.52, 13.405),
		datastructure.NewSample(t0.Add(time.Second), 52.5201, 13.4051).WithOvertake(1.7),
	}
	in[1].Annotate("4711.2", 1)

	var buf bytes.Buffer
	require.NoError(t, WriteSamples(&buf, in))
	assert.Equal(t, 2, strings.Count(buf.String(), "\n"))

	out, err := ReadSamples(&buf)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.False(t, out[0].HasAnnotation)
	assert.Equal(t, "4711.2", out[1].GetWayID())
	assert.Equal(t, 1.7, *out[1].DistanceOvertaker)
	assert.True(t, out[1].Confirmed)
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()

	plain := filepath.Join(dir, "track.jsonl")
	require.NoError(t, os.WriteFile(plain, []byte(testTrack), 0o644))
	samples, err := ReadFile(plain)
	require.NoError(t, err)
	assert.Len(t, samples, 3)

	var buf bytes.Buffer
	bz, err := bzip2.NewWriter(&buf, nil)
	require.NoError(t, err)
	_, err = bz.Write([]byte(testTrack))
	require.NoError(t, err)
	require.NoError(t, bz.Close())

	compressed := filepath.Join(dir, "track.jsonl.bz2")
	require.NoError(t, os.WriteFile(compressed, buf.Bytes(), 0o644))
	samples, err = ReadFile(compressed)
	require.NoError(t, err)
	assert.Len(t, samples, 3)

	_, err = ReadFile(filepath.Join(dir, "missing.jsonl"))
	require.Error(t, err)
	assert.True(t, util.IsCode(err, util.ErrNotFound))
}
