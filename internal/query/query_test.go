package query

import (
	"testing"

	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/catalog"
	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/format"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListVideosFiltersByContainer(t *testing.T) {
	c := catalog.New()
	c.Put(catalog.Entry{Title: "Heat", Resolution: format.Res480p, Container: format.MKV, AbsolutePath: "/x"})
	c.Put(catalog.Entry{Title: "Heat", Resolution: format.Res480p, Container: format.MP4, AbsolutePath: "/x"})

	svc := New(c)
	got := svc.ListVideos(format.MP4, 12)
	require.Len(t, got, 1)
	assert.Equal(t, format.MP4, got[0].Container)
}

func TestListVideosExactScenario(t *testing.T) {
	c := catalog.New()
	for _, r := range []format.Resolution{format.Res240p, format.Res360p, format.Res480p, format.Res720p} {
		c.Put(catalog.Entry{Title: "Forrest_Gump", Resolution: r, Container: format.MKV, AbsolutePath: "/x"})
		c.Put(catalog.Entry{Title: "The_Godfather", Resolution: r, Container: format.MKV, AbsolutePath: "/x"})
	}

	svc := New(c)
	got := svc.ListVideos(format.MKV, 5.0) // 5 Mbps: 480p ceiling, 720p excluded
	require.Len(t, got, 6)
	want := []struct {
		title string
		res   format.Resolution
	}{
		{"Forrest_Gump", format.Res480p},
		{"Forrest_Gump", format.Res360p},
		{"Forrest_Gump", format.Res240p},
		{"The_Godfather", format.Res480p},
		{"The_Godfather", format.Res360p},
		{"The_Godfather", format.Res240p},
	}
	for i, w := range want {
		assert.Equal(t, w.title, got[i].Title, "index %d", i)
		assert.Equal(t, w.res, got[i].Resolution, "index %d", i)
	}
}

func TestListContainersFallsBackToStatic(t *testing.T) {
	c := catalog.New()
	svc := New(c)
	assert.Equal(t, format.Containers, svc.ListContainers())

	c.Put(catalog.Entry{Title: "Heat", Resolution: format.Res720p, Container: format.AVI, AbsolutePath: "/x"})
	assert.Equal(t, []format.Container{format.AVI}, svc.ListContainers())
}
