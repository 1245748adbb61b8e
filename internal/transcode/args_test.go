package transcode

import (
	"testing"

	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/format"
	"github.com/stretchr/testify/assert"
)

func TestBuildArgsMp4UsesH264(t *testing.T) {
	args := BuildArgs("/in/Heat-1080p.mkv", format.Res480p, format.MP4, "/out/Heat-480p.mp4")
	assert.Contains(t, args, "libx264")
	assert.Contains(t, args, "scale=-2:480")
	assert.Contains(t, args, "-y")
	assert.Equal(t, "/out/Heat-480p.mp4", args[len(args)-1])
}

func TestBuildArgsAviUsesMpeg4QualityFlag(t *testing.T) {
	args := BuildArgs("/in/Heat-1080p.mkv", format.Res240p, format.AVI, "/out/Heat-240p.avi")
	assert.Contains(t, args, "mpeg4")
	assert.Contains(t, args, "-q:v")
	assert.Contains(t, args, "scale=-2:240")
}
