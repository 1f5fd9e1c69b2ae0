package server

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-clock/internal/config"
)

// -----------------------------------------------------------------------------
// Unit Tests (White-Box Testing of Handler Logic)
// -----------------------------------------------------------------------------

func testImage(c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func get(srv *SnapshotServer, path string, headers map[string]string) *http.Response {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w.Result()
}

// TestHandler_ServingSnapshot verifies headers and a decodable PNG body.
func TestHandler_ServingSnapshot(t *testing.T) {
	srv := NewSnapshotServer("0", nil)

	size, err := srv.Publish(testImage(color.RGBA{B: 255, A: 255}))
	require.NoError(t, err)
	assert.Positive(t, size)

	resp := get(srv, "/", nil)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, config.MimeImagePNG, resp.Header.Get(config.HeaderContentType))
	assert.Equal(t, config.MimeNoSniff, resp.Header.Get(config.HeaderXContentType))
	assert.Contains(t, resp.Header.Get(config.HeaderCacheControl), "no-cache")
	assert.NotEmpty(t, resp.Header.Get(config.HeaderETag))
	assert.NotEmpty(t, resp.Header.Get(config.HeaderLastModified))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Len(t, body, size)

	img, err := png.Decode(bytes.NewReader(body))
	require.NoError(t, err)
	_, _, b, _ := img.At(1, 1).RGBA()
	assert.Equal(t, uint32(0xffff), b)
}

// TestHandler_Caching verifies If-None-Match and If-Modified-Since handling.
func TestHandler_Caching(t *testing.T) {
	srv := NewSnapshotServer("0", nil)
	srv.Update([]byte("FRAME_1"))

	first := get(srv, "/", nil)
	etag := first.Header.Get(config.HeaderETag)
	lastMod := first.Header.Get(config.HeaderLastModified)
	_ = first.Body.Close()
	require.NotEmpty(t, etag, "Server must provide an ETag")

	byETag := get(srv, "/", map[string]string{config.HeaderIfNoneMatch: etag})
	defer func() { _ = byETag.Body.Close() }()
	assert.Equal(t, http.StatusNotModified, byETag.StatusCode)
	body, _ := io.ReadAll(byETag.Body)
	assert.Empty(t, body, "Body must be empty on 304 Not Modified")

	byDate := get(srv, "/", map[string]string{config.HeaderIfModifiedSince: lastMod})
	_ = byDate.Body.Close()
	assert.Equal(t, http.StatusNotModified, byDate.StatusCode)

	stale := get(srv, "/", map[string]string{config.HeaderIfNoneMatch: `"other"`})
	_ = stale.Body.Close()
	assert.Equal(t, http.StatusOK, stale.StatusCode)
}

// TestUpdate_SameFrameKeepsValidators checks that republishing an identical
// frame does not move Last-Modified.
func TestUpdate_SameFrameKeepsValidators(t *testing.T) {
	srv := NewSnapshotServer("0", nil)
	srv.Update([]byte("FRAME"))
	before := srv.cache.Load()

	srv.Update([]byte("FRAME"))
	assert.Same(t, before, srv.cache.Load())

	srv.Update([]byte("FRAME_2"))
	assert.NotEqual(t, before.etag, srv.cache.Load().etag)
}

// TestHandler_MethodNotAllowed ensures strictly GET and HEAD are accepted.
func TestHandler_MethodNotAllowed(t *testing.T) {
	srv := NewSnapshotServer("0", nil)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	w := httptest.NewRecorder()
	srv.handleSnapshotRequest(w, req)

	resp := w.Result()
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, config.AllowedMethods, resp.Header.Get(config.HeaderAllow))
}

// TestHandler_Head returns headers without a body.
func TestHandler_Head(t *testing.T) {
	srv := NewSnapshotServer("0", nil)
	srv.Update([]byte("FRAME"))

	req := httptest.NewRequest(http.MethodHead, "/", nil)
	w := httptest.NewRecorder()
	srv.handleSnapshotRequest(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(config.HeaderETag))
	assert.Zero(t, w.Body.Len())
}

// TestHandler_Initializing verifies the 503 behavior before the first frame.
func TestHandler_Initializing(t *testing.T) {
	srv := NewSnapshotServer("0", nil)

	resp := get(srv, "/", nil)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, config.RetryAfterSeconds, resp.Header.Get(config.HeaderRetryAfter))
}

// TestHandler_MetricsRoute checks that the metrics handler is mounted only
// when provided.
func TestHandler_MetricsRoute(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "goclock_attached 1\n")
	})

	withMetrics := NewSnapshotServer("0", metrics)
	resp := get(withMetrics, config.RouteMetrics, nil)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "goclock_attached 1\n", string(body))

	// Without metrics the path falls through to the snapshot route.
	without := NewSnapshotServer("0", nil)
	resp = get(without, config.RouteMetrics, nil)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

// -----------------------------------------------------------------------------
// Concurrency Tests (Race Detection)
// -----------------------------------------------------------------------------

// TestServer_RaceCondition runs writers and readers concurrently.
// Run this with `go test -race`.
func TestServer_RaceCondition(t *testing.T) {
	srv := NewSnapshotServer("0", nil)
	var wg sync.WaitGroup

	end := time.Now().Add(500 * time.Millisecond)

	for w := 0; w < 5; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; time.Now().Before(end); i++ {
				srv.Update([]byte(fmt.Sprintf("FRAME:%d-%d", id, i)))
				time.Sleep(time.Microsecond)
			}
		}(w)
	}

	for r := 0; r < 20; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) {
				req := httptest.NewRequest(http.MethodGet, "/", nil)
				w := httptest.NewRecorder()
				srv.handleSnapshotRequest(w, req)

				if code := w.Code; code != http.StatusOK && code != http.StatusServiceUnavailable {
					t.Errorf("Unexpected status code during race test: %d", code)
				}
			}
		}()
	}

	wg.Wait()
}

// -----------------------------------------------------------------------------
// Integration Tests (Real TCP Lifecycle)
// -----------------------------------------------------------------------------

// TestServer_Lifecycle spins up the actual TCP listener to verify network
// binding and graceful shutdown.
func TestServer_Lifecycle(t *testing.T) {
	const port = "18099"

	srv := NewSnapshotServer(port, nil)
	ctx, cancel := context.WithCancel(context.Background())
	errChan := make(chan error, 1)

	go func() {
		errChan <- srv.Start(ctx)
	}()

	url := fmt.Sprintf(config.SnapshotURLFormat, config.LocalhostBindAddr, config.AddrSeparator, port)

	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return true
	}, 2*time.Second, 50*time.Millisecond, "Server failed to bind/listen in time")

	// 1. Initial State (503)
	resp, err := http.Get(url)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	_ = resp.Body.Close()

	// 2. Publish a frame
	_, err = srv.Publish(testImage(color.White))
	require.NoError(t, err)

	// 3. Served Content (200)
	resp, err = http.Get(url)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, config.MimeImagePNG, resp.Header.Get(config.HeaderContentType))

	_, err = png.Decode(resp.Body)
	assert.NoError(t, err)

	// 4. Shutdown
	cancel()

	select {
	case err := <-errChan:
		assert.NoError(t, err, "Server should shutdown gracefully without error")
	case <-time.After(5 * time.Second):
		t.Fatal("Server shutdown timed out")
	}
}

func TestServer_StartRequiresPort(t *testing.T) {
	err := NewSnapshotServer("", nil).Start(context.Background())
	require.Error(t, err)
	assert.Equal(t, config.ErrPortRequired, err.Error())
}
