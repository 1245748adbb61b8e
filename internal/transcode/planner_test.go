package transcode

import (
	"fmt"
	"testing"

	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/catalog"
	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/format"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func composeFor(title string, res format.Resolution, container format.Container) string {
	return fmt.Sprintf("/videos/%s", format.ComposeFilename(title, res, container))
}

func TestPlanMissingVariantSynthesis(t *testing.T) {
	cat := catalog.New()
	cat.Put(catalog.Entry{Title: "Forrest_Gump", Resolution: format.Res720p, Container: format.MKV, AbsolutePath: "/videos/Forrest_Gump-720p.mkv"})
	cat.Put(catalog.Entry{Title: "Forrest_Gump", Resolution: format.Res480p, Container: format.MKV, AbsolutePath: "/videos/Forrest_Gump-480p.mkv"})

	jobs := Plan(cat, func(string) string { return "/videos" }, composeFor)

	// candidate set: {mp4,mkv,avi} x {240,360,480,720} minus {480 mkv, 720 mkv} = 10 jobs
	require.Len(t, jobs, 10)
	for _, j := range jobs {
		assert.Equal(t, "Forrest_Gump", j.Title)
		assert.NotEqual(t, format.Res1080p, j.TargetResolution)
		assert.Equal(t, "/videos/Forrest_Gump-720p.mkv", j.SourcePath)
	}
}

func TestPlanSourceAt480pNeverSchedules720pOr1080p(t *testing.T) {
	cat := catalog.New()
	cat.Put(catalog.Entry{Title: "Heat", Resolution: format.Res480p, Container: format.MP4, AbsolutePath: "/videos/Heat-480p.mp4"})

	jobs := Plan(cat, func(string) string { return "/videos" }, composeFor)
	for _, j := range jobs {
		assert.NotEqual(t, format.Res720p, j.TargetResolution)
		assert.NotEqual(t, format.Res1080p, j.TargetResolution)
	}
}

func TestPlanIsIdempotentOnceSatisfied(t *testing.T) {
	cat := catalog.New()
	for _, container := range format.Containers {
		for _, res := range format.ResolutionsUpTo(format.Res480p) {
			cat.Put(catalog.Entry{Title: "Heat", Resolution: res, Container: container, AbsolutePath: composeFor("Heat", res, container)})
		}
	}
	jobs := Plan(cat, func(string) string { return "/videos" }, composeFor)
	assert.Empty(t, jobs)
}

func TestPlanSourceTieBrokenByContainerOrder(t *testing.T) {
	cat := catalog.New()
	cat.Put(catalog.Entry{Title: "Heat", Resolution: format.Res720p, Container: format.AVI, AbsolutePath: "/videos/Heat-720p.avi"})
	cat.Put(catalog.Entry{Title: "Heat", Resolution: format.Res720p, Container: format.MP4, AbsolutePath: "/videos/Heat-720p.mp4"})

	jobs := Plan(cat, func(string) string { return "/videos" }, composeFor)
	for _, j := range jobs {
		if j.TargetContainer == format.MKV && j.TargetResolution == format.Res720p {
			assert.Equal(t, "/videos/Heat-720p.mp4", j.SourcePath) // mp4 precedes avi in container order
		}
	}
}
