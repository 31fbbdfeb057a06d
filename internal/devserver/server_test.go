package devserver

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mdwlog "github.com/msto63/posttext/foundation/core/log"
	"github.com/msto63/posttext/internal/build"
	"github.com/msto63/posttext/pkg/core/config"
	"github.com/msto63/posttext/pkg/core/health"
	"github.com/msto63/posttext/pkg/core/logging"
)

func quiet() *logging.Logger {
	return logging.Wrap("test", mdwlog.Discard())
}

func newTestServer(t *testing.T, src string, liveReload bool) (*Server, *config.Config) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Input.File = filepath.Join(dir, "index.pt")
	cfg.Output.Dir = filepath.Join(dir, "dist")
	cfg.Serve.LiveReload = &liveReload
	require.NoError(t, os.WriteFile(cfg.Input.File, []byte(src), 0644))

	b, err := build.New(cfg, quiet())
	require.NoError(t, err)

	s := New(cfg, b, quiet())
	t.Cleanup(s.hub.Close)
	return s, cfg
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestServeInjectsLiveReload(t *testing.T) {
	s, _ := newTestServer(t, `\title{Hello}`, true)
	built, err := s.Rebuild(context.Background())
	require.NoError(t, err)
	require.True(t, built)

	for _, target := range []string{"/", "/index.html"} {
		rec := get(t, s.Handler(), target)
		require.Equal(t, http.StatusOK, rec.Code, target)
		body := rec.Body.String()
		assert.Contains(t, body, "<h1>Hello</h1>")
		assert.Contains(t, body, LiveReloadPath)
		assert.Less(t, strings.Index(body, LiveReloadPath), strings.LastIndex(body, "</body>"))
		assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	}
}

func TestServeNonHTMLUnchanged(t *testing.T) {
	s, cfg := newTestServer(t, `x`, true)
	_, err := s.Rebuild(context.Background())
	require.NoError(t, err)

	rec := get(t, s.Handler(), "/deps.yaml")
	require.Equal(t, http.StatusOK, rec.Code)

	raw, err := os.ReadFile(filepath.Join(cfg.Output.Dir, "deps.yaml"))
	require.NoError(t, err)
	assert.Equal(t, string(raw), rec.Body.String())
}

func TestServeWithoutLiveReload(t *testing.T) {
	s, _ := newTestServer(t, `\bold{x}`, false)
	_, err := s.Rebuild(context.Background())
	require.NoError(t, err)

	rec := get(t, s.Handler(), "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<b>x</b>")
	assert.NotContains(t, rec.Body.String(), LiveReloadPath)
}

func TestServeMissingFile(t *testing.T) {
	s, _ := newTestServer(t, `x`, true)
	_, err := s.Rebuild(context.Background())
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, get(t, s.Handler(), "/missing.html").Code)
}

func TestRebuildSkipsUnchangedSource(t *testing.T) {
	s, cfg := newTestServer(t, `first`, true)

	built, err := s.Rebuild(context.Background())
	require.NoError(t, err)
	assert.True(t, built)

	built, err = s.Rebuild(context.Background())
	require.NoError(t, err)
	assert.False(t, built, "unchanged source")

	require.NoError(t, os.WriteFile(cfg.Input.File, []byte(`second`), 0644))
	built, err = s.Rebuild(context.Background())
	require.NoError(t, err)
	assert.True(t, built)
}

func TestRebuildFailureReportedByHealth(t *testing.T) {
	s, cfg := newTestServer(t, `\unknowntag{x}`, true)

	_, err := s.Rebuild(context.Background())
	require.Error(t, err)

	rec := get(t, s.Handler(), HealthPath)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	require.NoError(t, os.WriteFile(cfg.Input.File, []byte(`fixed`), 0644))
	_, err = s.Rebuild(context.Background())
	require.NoError(t, err)

	rec = get(t, s.Handler(), HealthPath)
	require.Equal(t, http.StatusOK, rec.Code)
	var report health.Report
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&report))
	assert.Equal(t, health.StatusHealthy, report.Status)
}

func TestRebuildAfterFailureRevert(t *testing.T) {
	s, cfg := newTestServer(t, `good`, true)

	built, err := s.Rebuild(context.Background())
	require.NoError(t, err)
	require.True(t, built)

	require.NoError(t, os.WriteFile(cfg.Input.File, []byte(`\unknowntag{x}`), 0644))
	_, err = s.Rebuild(context.Background())
	require.Error(t, err)

	// back to the content of the last successful build
	require.NoError(t, os.WriteFile(cfg.Input.File, []byte(`good`), 0644))
	built, err = s.Rebuild(context.Background())
	require.NoError(t, err)
	assert.True(t, built, "a failed build must not leave the cache claiming the source is built")

	rec := get(t, s.Handler(), HealthPath)
	require.Equal(t, http.StatusOK, rec.Code)

	var report health.Report
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&report))
	var buildCheck *health.CheckResult
	for i := range report.Checks {
		if report.Checks[i].Name == "build" {
			buildCheck = &report.Checks[i]
		}
	}
	require.NotNil(t, buildCheck)
	assert.Contains(t, buildCheck.Details, "cache")
	assert.NotEmpty(t, buildCheck.Details["render_id"])
}

func TestRebuildCanceled(t *testing.T) {
	s, _ := newTestServer(t, `page`, true)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Rebuild(ctx)
	require.ErrorIs(t, err, context.Canceled)

	built, err := s.Rebuild(context.Background())
	require.NoError(t, err)
	assert.True(t, built)
}

func TestLiveReloadBroadcast(t *testing.T) {
	s, cfg := newTestServer(t, `one`, true)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + LiveReloadPath
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	require.Eventually(t, func() bool { return s.Hub().Count() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, os.WriteFile(cfg.Input.File, []byte(`two`), 0644))
	_, err = s.Rebuild(context.Background())
	require.NoError(t, err)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	kind, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.TextMessage, kind)
	assert.Equal(t, ReloadMessage, string(msg))

	page, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer page.Body.Close()
	body, err := io.ReadAll(page.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "two")
}

func TestInjectScript(t *testing.T) {
	assert.Equal(t, "<body>x"+liveReloadScript+"</body>", injectScript("<body>x</body>"))
	assert.Equal(t, "fragment"+liveReloadScript, injectScript("fragment"))
}
