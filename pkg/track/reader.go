package track

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"github.com/lintang-b-s/overtakestats/pkg/datastructure"
	"github.com/lintang-b-s/overtakestats/pkg/util"
)

const maxLineSize = 1 << 20

// ReadSamples parses one json encoded sample per line. blank lines are skipped.
func ReadSamples(r io.Reader) ([]*datastructure.Sample, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineSize)

	samples := make([]*datastructure.Sample, 0)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var s datastructure.Sample
		if err := json.Unmarshal([]byte(line), &s); err != nil {
			return nil, util.WrapErrorf(err, util.ErrBadParamInput, "line %d: invalid sample", lineNo)
		}
		samples = append(samples, &s)
	}
	if err := sc.Err(); err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "read samples")
	}
	return samples, nil
}

// ReadFile reads a track file, bzip2 compressed when it ends with .bz2.
func ReadFile(filename string) ([]*datastructure.Sample, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrNotFound, "open track %s", filename)
	}
	defer f.Close()

	if strings.HasSuffix(filename, ".bz2") {
		bz, err := bzip2.NewReader(f, nil)
		if err != nil {
			return nil, util.WrapErrorf(err, util.ErrBadParamInput, "open bzip2 stream %s", filename)
		}
		defer bz.Close()
		return ReadSamples(bz)
	}
	return ReadSamples(f)
}

// WriteSamples. inverse of ReadSamples
func WriteSamples(w io.Writer, samples []*datastructure.Sample) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for _, s := range samples {
		if err := enc.Encode(s); err != nil {
			return err
		}
	}
	return bw.Flush()
}
