package datastructure

import "time"

// Sample is one record of a bicycle sensor track. nil pointers mark missing values.
type Sample struct {
	Time              *time.Time `json:"time"`
	Latitude          *float64   `json:"latitude"`
	Longitude         *float64   `json:"longitude"`
	HasAnnotation     bool       `json:"has_OSM_annotations"`
	WayID             *string    `json:"OSM_way_id"`
	Orientation       *int       `json:"OSM_way_orientation"`
	Confirmed         bool       `json:"confirmed"`
	DistanceOvertaker *float64   `json:"distance_overtaker"`
}

func NewSample(t time.Time, lat, lon float64) *Sample {
	return &Sample{
		Time:      &t,
		Latitude:  &lat,
		Longitude: &lon,
	}
}

// HasPosition. time, latitude and longitude are all present
func (s *Sample) HasPosition() bool {
	return s.Time != nil && s.Latitude != nil && s.Longitude != nil
}

// Annotate sets the matched way and orientation.
func (s *Sample) Annotate(wayID string, orientation int) {
	s.WayID = &wayID
	s.Orientation = &orientation
	s.HasAnnotation = true
}

// WithOvertake marks the sample as a confirmed overtaking event with the measured distance in meter.
func (s *Sample) WithOvertake(distance float64) *Sample {
	s.DistanceOvertaker = &distance
	s.Confirmed = true
	return s
}

func (s *Sample) GetWayID() string {
	if s.WayID == nil {
		return ""
	}
	return *s.WayID
}

func (s *Sample) GetOrientation() int {
	if s.Orientation == nil {
		return 0
	}
	return *s.Orientation
}
