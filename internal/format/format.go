// Package format implements the static format registry described in
// spec.md §4.A: the supported containers and resolutions, filename
// parsing/composition, and resolution comparison.
package format

import (
	"fmt"
	"strings"

	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/streamerr"
)

// Resolution is one of the five supported named resolutions.
type Resolution string

const (
	Res240p  Resolution = "240p"
	Res360p  Resolution = "360p"
	Res480p  Resolution = "480p"
	Res720p  Resolution = "720p"
	Res1080p Resolution = "1080p"
)

// Container is one of the three supported multiplex formats.
type Container string

const (
	MP4 Container = "mp4"
	MKV Container = "mkv"
	AVI Container = "avi"
)

// Containers lists the supported containers in registry order.
var Containers = []Container{MP4, MKV, AVI}

// resolutionOrder lists the supported resolutions ascending, with their
// integer pixel heights, matching spec.md §4.A exactly.
var resolutionOrder = []struct {
	Res    Resolution
	Height int
}{
	{Res240p, 240},
	{Res360p, 360},
	{Res480p, 480},
	{Res720p, 720},
	{Res1080p, 1080},
}

// Resolutions lists the supported resolutions in ascending order.
func Resolutions() []Resolution {
	out := make([]Resolution, len(resolutionOrder))
	for i, r := range resolutionOrder {
		out[i] = r.Res
	}
	return out
}

// Height returns the integer pixel height for a resolution, or 0 if r is not
// a supported resolution.
func Height(r Resolution) int {
	for _, e := range resolutionOrder {
		if e.Res == r {
			return e.Height
		}
	}
	return 0
}

func indexOf(r Resolution) int {
	for i, e := range resolutionOrder {
		if e.Res == r {
			return i
		}
	}
	return -1
}

// CompareResolution returns -1, 0, or 1 as a is lower than, equal to, or
// higher than b, ordered by pixel height. Unknown resolutions sort lowest.
func CompareResolution(a, b Resolution) int {
	ia, ib := indexOf(a), indexOf(b)
	switch {
	case ia < ib:
		return -1
	case ia > ib:
		return 1
	default:
		return 0
	}
}

// ResolutionsUpTo returns every supported resolution with height <= the
// height of max, ascending, per spec.md §4.C's candidate-tuple computation.
func ResolutionsUpTo(max Resolution) []Resolution {
	limit := indexOf(max)
	if limit < 0 {
		return nil
	}
	out := make([]Resolution, 0, limit+1)
	for i := 0; i <= limit; i++ {
		out = append(out, resolutionOrder[i].Res)
	}
	return out
}

func isContainer(ext string) (Container, bool) {
	ext = strings.ToLower(ext)
	for _, c := range Containers {
		if string(c) == ext {
			return c, true
		}
	}
	return "", false
}

func isResolution(tok string) (Resolution, bool) {
	tok = strings.ToLower(tok)
	for _, r := range resolutionOrder {
		if strings.ToLower(string(r.Res)) == tok {
			return r.Res, true
		}
	}
	return "", false
}

// ParseFilename parses a basename of the form "<title>-<resolution>.<ext>"
// per spec.md §6's filename grammar: split at the LAST hyphen before the
// extension, so titles containing hyphens are handled correctly. Extension
// matching is case-insensitive; the title is returned exactly as it
// appears (case-sensitive).
func ParseFilename(name string) (title string, res Resolution, container Container, err error) {
	dot := strings.LastIndex(name, ".")
	if dot < 0 || dot == len(name)-1 {
		return "", "", "", streamerr.Wrap("parse_filename", name, streamerr.ErrMalformedName)
	}
	stem, ext := name[:dot], name[dot+1:]

	c, ok := isContainer(ext)
	if !ok {
		return "", "", "", streamerr.Wrap("parse_filename", name, streamerr.ErrMalformedName)
	}

	dash := strings.LastIndex(stem, "-")
	if dash <= 0 || dash == len(stem)-1 {
		return "", "", "", streamerr.Wrap("parse_filename", name, streamerr.ErrMalformedName)
	}
	titlePart, resPart := stem[:dash], stem[dash+1:]

	r, ok := isResolution(resPart)
	if !ok {
		return "", "", "", streamerr.Wrap("parse_filename", name, streamerr.ErrMalformedName)
	}
	if titlePart == "" {
		return "", "", "", streamerr.Wrap("parse_filename", name, streamerr.ErrMalformedName)
	}

	return titlePart, r, c, nil
}

// ComposeFilename builds the basename for (title, resolution, container),
// the inverse of ParseFilename.
func ComposeFilename(title string, res Resolution, container Container) string {
	return fmt.Sprintf("%s-%s.%s", title, res, container)
}
