// Package transcode implements the missing-variant planner and the bounded
// worker pool executor from spec.md §4.C, grounded on the teacher's
// sdk/transcoding/ffmpeg argument builder (for the named-argument-group
// idiom) and sdk/transcoding/process registry (for PID tracking and
// signal-escalation shutdown).
package transcode

import (
	"fmt"

	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/format"
)

// InputArgs and the flag variables below name the argument groups used by
// BuildArgs, mirroring the teacher's practice of grouping related FFmpeg
// flags behind named slices instead of scattering string literals.
var (
	InputArgs  = struct{ Flag []string }{Flag: []string{"-i"}}
	ScaleFlag  = "-vf"
	CodecVideo = "-c:v"
	CodecAudio = "-c:a"
	CRFFlag    = "-crf"
	PresetFlag = "-preset"
	QualityV   = "-q:v"
	Overwrite  = "-y"
)

// BuildArgs builds the ffmpeg invocation described in spec.md §6: scale to
// the target resolution preserving aspect ratio (scale=-2:<height>), codec
// parameters selected by target container, AAC audio, and unconditional
// overwrite of the output path.
func BuildArgs(sourcePath string, targetRes format.Resolution, targetContainer format.Container, targetPath string) []string {
	height := format.Height(targetRes)
	args := []string{Overwrite}
	args = append(args, InputArgs.Flag...)
	args = append(args, sourcePath)
	args = append(args, ScaleFlag, fmt.Sprintf("scale=-2:%d", height))
	args = append(args, codecArgsFor(targetContainer)...)
	args = append(args, CodecAudio, "aac")
	args = append(args, targetPath)
	return args
}

// codecArgsFor returns the container-specific video codec arguments from
// spec.md §6: H.264/CRF23/medium for mp4 and mkv, MPEG-4/q:v 6 for avi.
func codecArgsFor(container format.Container) []string {
	switch container {
	case format.MP4, format.MKV:
		return []string{CodecVideo, "libx264", CRFFlag, "23", PresetFlag, "medium"}
	case format.AVI:
		return []string{CodecVideo, "mpeg4", QualityV, "6"}
	default:
		return []string{CodecVideo, "libx264", CRFFlag, "23", PresetFlag, "medium"}
	}
}
