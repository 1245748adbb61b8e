package bandwidth

import (
	"testing"

	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/format"
	"github.com/stretchr/testify/assert"
)

func TestCeilingTable(t *testing.T) {
	cases := []struct {
		mbps float64
		want format.Resolution
	}{
		{-1, format.Res480p},
		{0, format.Res240p},
		{1.99, format.Res240p},
		{2.0, format.Res360p}, // boundary uses the >= side
		{4.99, format.Res360p},
		{5.0, format.Res480p},
		{7.99, format.Res480p},
		{8.0, format.Res720p},
		{11.99, format.Res720p},
		{12.0, format.Res1080p},
		{100, format.Res1080p},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Ceiling(tc.mbps), "mbps=%v", tc.mbps)
	}
}

func TestCeilingMonotonic(t *testing.T) {
	prev := Ceiling(-5)
	for _, mbps := range []float64{0, 1, 2, 3, 5, 7, 8, 10, 12, 50} {
		cur := Ceiling(mbps)
		assert.GreaterOrEqual(t, format.Height(cur), format.Height(prev))
		prev = cur
	}
}
