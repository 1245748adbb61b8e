package adminapi

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/library"
	"github.com/klodi2203/Streaming-Video-Player-sub000/internal/session"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Heat-480p.mkv"), []byte("x"), 0o644))

	lib := library.New(dir, nil, nil)
	require.NoError(t, lib.Scan())
	regs := session.NewRegistry(nil, time.Hour)
	t.Cleanup(regs.Close)

	h := New(lib, nil, regs, nil)
	r := gin.New()
	h.RegisterRoutes(r)
	return r
}

func TestHealthzReportsCatalogSize(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"catalog_size":1`)
}

func TestCatalogEndpointListsEntries(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/catalog", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Heat")
}

func TestJobsEndpointEmptyWithoutLedger(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/jobs", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}
