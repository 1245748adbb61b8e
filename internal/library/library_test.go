package library

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/catalog"
	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/format"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	return p
}

func TestScanSkipsMalformedAndInsertsValid(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "Forrest_Gump-720p.mkv")
	touch(t, dir, "Forrest_Gump-480p.mkv")
	touch(t, dir, "not-a-video.txt")
	touch(t, dir, "Heat-9000p.mkv") // malformed resolution

	lib := New(dir, nil, nil)
	require.NoError(t, lib.Scan())

	snap := lib.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "Forrest_Gump", snap[0].Title)
}

func TestScanIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "Heat-720p.mkv")

	lib := New(dir, nil, nil)
	require.NoError(t, lib.Scan())
	require.NoError(t, lib.Scan())
	assert.Equal(t, 1, lib.Catalog().Len())
}

func TestAddVerifiesExistence(t *testing.T) {
	dir := t.TempDir()
	lib := New(dir, nil, nil)

	err := lib.Add(catalog.Entry{Title: "Heat", Resolution: format.Res720p, Container: format.MKV, AbsolutePath: filepath.Join(dir, "Heat-720p.mkv")})
	assert.Error(t, err)

	path := touch(t, dir, "Heat-720p.mkv")
	err = lib.Add(catalog.Entry{Title: "Heat", Resolution: format.Res720p, Container: format.MKV, AbsolutePath: path})
	assert.NoError(t, err)
	assert.Equal(t, 1, lib.Catalog().Len())
}

func TestVerifyDropsMissingFiles(t *testing.T) {
	dir := t.TempDir()
	path := touch(t, dir, "Heat-720p.mkv")
	lib := New(dir, nil, nil)
	require.NoError(t, lib.Scan())
	require.Equal(t, 1, lib.Catalog().Len())

	require.NoError(t, os.Remove(path))
	dropped := lib.Verify()
	assert.Equal(t, 1, dropped)
	assert.Equal(t, 0, lib.Catalog().Len())
}
