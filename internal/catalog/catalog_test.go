package catalog

import (
	"testing"

	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/format"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutGetRemove(t *testing.T) {
	c := New()
	e := Entry{Title: "Heat", Resolution: format.Res720p, Container: format.MKV, AbsolutePath: "/videos/Heat-720p.mkv"}

	assert.True(t, c.Put(e))
	assert.False(t, c.Put(e)) // identical re-insert is a no-op

	got, ok := c.Get("Heat", format.Res720p, format.MKV)
	require.True(t, ok)
	assert.Equal(t, e, got)

	assert.True(t, c.Remove("Heat", format.Res720p, format.MKV))
	_, ok = c.Get("Heat", format.Res720p, format.MKV)
	assert.False(t, ok)
}

func TestSnapshotOrdering(t *testing.T) {
	c := New()
	c.Put(Entry{Title: "A", Resolution: format.Res240p, Container: format.MP4})
	c.Put(Entry{Title: "A", Resolution: format.Res720p, Container: format.MP4})
	c.Put(Entry{Title: "A", Resolution: format.Res480p, Container: format.MKV})

	snap := c.Snapshot()
	require.Len(t, snap, 3)
	// same title, so container ascending (mkv < mp4), then resolution descending within container
	assert.Equal(t, format.MKV, snap[0].Container)
	assert.Equal(t, format.MP4, snap[1].Container)
	assert.Equal(t, format.Res720p, snap[1].Resolution)
	assert.Equal(t, format.Res240p, snap[2].Resolution)
}

func TestByTitleAndTitles(t *testing.T) {
	c := New()
	c.Put(Entry{Title: "Heat", Resolution: format.Res480p, Container: format.MP4})
	c.Put(Entry{Title: "Heat", Resolution: format.Res720p, Container: format.MKV})
	c.Put(Entry{Title: "Se7en", Resolution: format.Res480p, Container: format.MP4})

	assert.ElementsMatch(t, []string{"Heat", "Se7en"}, c.Titles())
	assert.Len(t, c.ByTitle("Heat"), 2)
}
