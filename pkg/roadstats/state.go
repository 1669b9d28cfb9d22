package roadstats

import (
	"time"

	"github.com/lintang-b-s/overtakestats/pkg/geo"
)

// Observation is what the state machine needs to know about one sample after way resolution.
type Observation struct {
	Valid       bool
	WayID       string
	Orientation int
	Time        time.Time
	Lat, Lon    float64
	// projection of the resolved way, only read when the sample opens a new segment
	LocalMap *geo.LocalMap
}

// State is carried from one sample to the next.
type State struct {
	ValidPrev       bool
	WayIDPrev       string
	OrientationPrev int
	LatPrev         float64
	LonPrev         float64
	TimePrev        time.Time

	// currently open segment
	SegmentTime     float64
	SegmentDistance float64
	SegmentActive   bool
	localMap        *geo.LocalMap
}

// Flush commits accumulated usage to a way and direction.
type Flush struct {
	WayID       string
	Orientation int
	Time        float64
	Distance    float64
}

// Continuous reports whether obs continues the segment of the previous sample.
func (s State) Continuous(obs Observation) bool {
	return obs.Valid && s.ValidPrev && obs.WayID == s.WayIDPrev
}

// Transition consumes one observation. a non-nil flush carries the usage of the segment closed by obs.
func Transition(s State, obs Observation) (State, *Flush) {
	var flush *Flush

	continuous := s.Continuous(obs)
	if continuous {
		s.SegmentTime += obs.Time.Sub(s.TimePrev).Seconds()
		s.SegmentDistance += distance(s.localMap, obs.Lat, obs.Lon, s.LatPrev, s.LonPrev)
		s.SegmentActive = true
	} else {
		flush = s.flush()
		s.SegmentTime, s.SegmentDistance, s.SegmentActive = 0, 0, false
	}

	if obs.Valid {
		if !continuous {
			s.localMap = obs.LocalMap
		}
		s.LatPrev, s.LonPrev, s.TimePrev = obs.Lat, obs.Lon, obs.Time
		s.WayIDPrev, s.OrientationPrev = obs.WayID, obs.Orientation
	}
	s.ValidPrev = obs.Valid

	return s, flush
}

// Close ends the stream, flushing the open segment if it accumulated anything.
func Close(s State) (State, *Flush) {
	flush := s.flush()
	s.SegmentTime, s.SegmentDistance, s.SegmentActive = 0, 0, false
	s.ValidPrev = false
	return s, flush
}

func (s State) flush() *Flush {
	if !s.SegmentActive {
		return nil
	}
	return &Flush{
		WayID:       s.WayIDPrev,
		Orientation: s.OrientationPrev,
		Time:        s.SegmentTime,
		Distance:    s.SegmentDistance,
	}
}

func distance(lm *geo.LocalMap, latOne, lonOne, latTwo, lonTwo float64) float64 {
	if lm == nil {
		lm = geo.NewLocalMap(latTwo, lonTwo)
	}
	return lm.DistanceLatLon(latOne, lonOne, latTwo, lonTwo)
}
