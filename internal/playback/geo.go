package playback

import "math"

const earthRadiusKm = 6371

// haversineKm returns the great-circle distance between two points in km.
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	rad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := rad(lat2 - lat1)
	dLng := rad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}

// scoreDistanceKm is the distance beyond which a practice answer scores zero.
const scoreDistanceKm = 2000

// scoreFor awards up to 1000 points linearly by distance. Deliberately naive;
// the production server owns real scoring.
func scoreFor(distanceKm float64) int {
	if distanceKm >= scoreDistanceKm {
		return 0
	}
	return int(math.Round((1 - distanceKm/scoreDistanceKm) * 1000))
}
