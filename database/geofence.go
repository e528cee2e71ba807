package database

import (
	"math"
)

// Fixed service-area bounding box. Not configurable.
const (
	ServiceAreaLatMin = 43.58
	ServiceAreaLatMax = 43.86
	ServiceAreaLngMin = -79.64
	ServiceAreaLngMax = -79.11
)

// Duplicate window: a submission matching an existing report's type within
// this radius is rejected.
const DuplicateRadiusMeters = 200.0

// degreesToMeters is the planar degrees-to-meters approximation used by the
// duplicate check. The check is a flat-plane distance, not great-circle;
// clients rely on this exact formula, so it must not be replaced with a
// spherical one.
const degreesToMeters = 111000.0

// InServiceArea reports whether the coordinates fall inside the fixed
// service-area bounding box.
func InServiceArea(lat, lng float64) bool {
	return lat >= ServiceAreaLatMin && lat <= ServiceAreaLatMax &&
		lng >= ServiceAreaLngMin && lng <= ServiceAreaLngMax
}

// PlanarDistanceMeters returns the planar-approximation distance in meters
// between two coordinate pairs.
func PlanarDistanceMeters(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := lat1 - lat2
	dLng := lng1 - lng2
	return math.Sqrt(dLat*dLat+dLng*dLng) * degreesToMeters
}
