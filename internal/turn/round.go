package turn

import (
	"math"
	"strconv"
)

// Round2 rounds to two decimals, half-up on the scaled value, so that
// 0.125 -> 0.13 rather than banker's 0.12. Transmitted coordinates are never
// rounded; this is display-only.
func Round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

// formatKm renders a distance the way it is shown to the player: rounded to
// two decimals, without trailing zeros.
func formatKm(v float64) string {
	return strconv.FormatFloat(Round2(v), 'f', -1, 64)
}
