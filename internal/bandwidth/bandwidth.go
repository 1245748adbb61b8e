// Package bandwidth implements the pure downlink-to-resolution-ceiling
// policy described in spec.md §4.D.
package bandwidth

import (
	"math"

	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/format"
)

// Ceiling returns the maximum resolution permitted for a measured downlink
// of mbps megabits/second. Negative or NaN values fall back to the safe
// default of 480p, per spec.md §4.D.
func Ceiling(mbps float64) format.Resolution {
	switch {
	case mbps < 0 || math.IsNaN(mbps):
		return format.Res480p
	case mbps < 2:
		return format.Res240p
	case mbps < 5:
		return format.Res360p
	case mbps < 8:
		return format.Res480p
	case mbps < 12:
		return format.Res720p
	default:
		return format.Res1080p
	}
}
