package datastructure

// Directionality of a way relative to its vertex order.
type Directionality int8

const (
	REVERSE_ONLY  Directionality = -1 // only traversable from last vertex to first
	BIDIRECTIONAL Directionality = 0
	FORWARD_ONLY  Directionality = 1 // only traversable from first vertex to last
)

// parseOnewayValue. second return is false for values that do not state a direction (e.g. "alternating").
func parseOnewayValue(v string) (Directionality, bool) {
	switch v {
	case "yes", "true", "1":
		return FORWARD_ONLY, true
	case "no", "false", "0":
		return BIDIRECTIONAL, true
	case "-1", "reverse":
		return REVERSE_ONLY, true
	default:
		return BIDIRECTIONAL, false
	}
}

// ParseDirectionality derives bicycle and motorized directionality from osm tags.
// https://wiki.openstreetmap.org/wiki/Key:oneway
func ParseDirectionality(tags map[string]string) (bicycle Directionality, motorized Directionality) {
	motorized = BIDIRECTIONAL

	// roundabouts imply a one-way street
	if tags["junction"] == "roundabout" {
		motorized = FORWARD_ONLY
	}

	if v, ok := tags["oneway"]; ok {
		if d, known := parseOnewayValue(v); known {
			motorized = d
		}
	}

	bicycle = motorized
	if v, ok := tags["oneway:bicycle"]; ok {
		if d, known := parseOnewayValue(v); known {
			bicycle = d
		}
	}

	return bicycle, motorized
}
