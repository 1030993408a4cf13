// Package geo provides the great-circle distance used to derive trip
// lengths from raw GPS endpoints.
package geo

import "math"

// earthRadiusM is the mean Earth radius in meters (spherical model).
const earthRadiusM = 6371000

// HaversineDistance returns the great-circle distance in meters between
// two points given in decimal degrees. Identical endpoints yield 0.
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	phi1, phi2 := lat1*math.Pi/180, lat2*math.Pi/180
	dPhi, dLambda := (lat2-lat1)*math.Pi/180, (lon2-lon1)*math.Pi/180
	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) + math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	return 2 * earthRadiusM * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
