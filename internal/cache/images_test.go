package cache

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	img.SetGray(0, 0, color.Gray{Y: 77})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestCache(t *testing.T) *ImageCache {
	ic, err := NewImageCache(zaptest.NewLogger(t), filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)
	return ic
}

func TestLoadLocalFile(t *testing.T) {
	ic := newTestCache(t)
	path := filepath.Join(t.TempDir(), "slice.png")
	require.NoError(t, os.WriteFile(path, pngBytes(t, 3, 2), 0o644))

	require.False(t, ic.Loaded(path))
	img, err := ic.Load(path)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 3, 2), img.Bounds())
	require.True(t, ic.Loaded(path))
	require.Same(t, img, ic.Get(path))

	img, err = ic.Load("file://" + path)
	require.NoError(t, err)
	require.Equal(t, 3, img.Bounds().Dx())
}

func TestLoadErrors(t *testing.T) {
	ic := newTestCache(t)

	_, err := ic.Load(filepath.Join(t.TempDir(), "missing.png"))
	require.Error(t, err)
	require.True(t, Error.Has(err))
	require.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(t.TempDir(), "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("nope"), 0o644))
	_, err = ic.Load(bad)
	require.Error(t, err)
	require.ErrorIs(t, err, image.ErrFormat)

	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	_, err = ic.Load(srv.URL + "/img.png")
	require.Error(t, err)
	require.True(t, Error.Has(err))
}

func TestLoadURLUsesDiskCache(t *testing.T) {
	var hits atomic.Int32
	data := pngBytes(t, 4, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	ic := newTestCache(t)
	url := srv.URL + "/Items/1/Images/Primary"

	img, err := ic.Load(url)
	require.NoError(t, err)
	require.Equal(t, 4, img.Bounds().Dx())
	require.EqualValues(t, 1, hits.Load())

	_, err = os.Stat(ic.diskPath(url))
	require.NoError(t, err)

	// a fresh cache on the same directory starts cold in memory but warm on disk
	warm, err := NewImageCache(zaptest.NewLogger(t), ic.CacheDir())
	require.NoError(t, err)
	require.False(t, warm.Loaded(url))
	_, err = warm.Load(url)
	require.NoError(t, err)
	require.EqualValues(t, 1, hits.Load())

	require.NoError(t, ic.ClearDisk())
	_, err = os.Stat(ic.CacheDir())
	require.True(t, os.IsNotExist(err))
}

func TestLoadAsyncNotifiesEveryWaiter(t *testing.T) {
	release := make(chan struct{})
	data := pngBytes(t, 2, 2)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	ic := newTestCache(t)
	url := srv.URL + "/a.png"

	var wg sync.WaitGroup
	wg.Add(2)
	ic.LoadAsync(url, func(image.Image) { wg.Done() })
	ic.LoadAsync(url, func(image.Image) { wg.Done() })
	ic.Request(url)
	close(release)
	wg.Wait()

	require.True(t, ic.Loaded(url))

	called := false
	ic.LoadAsync(url, func(image.Image) { called = true })
	require.True(t, called, "cached images call back synchronously")
}

func TestRequestLoadsInBackground(t *testing.T) {
	ic := newTestCache(t)
	path := filepath.Join(t.TempDir(), "slice.png")
	require.NoError(t, os.WriteFile(path, pngBytes(t, 1, 1), 0o644))

	ic.Request(path)
	require.Eventually(t, func() bool { return ic.Loaded(path) }, time.Second, time.Millisecond)
}

func TestFailedLoadIsNotRetriedEveryFrame(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("not an image"))
	}))
	defer srv.Close()

	ic := newTestCache(t)
	now := time.Unix(1000, 0)
	var mu sync.Mutex
	ic.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	url := srv.URL + "/Items/broken/Images/Primary"

	ic.Request(url)
	require.Eventually(t, func() bool { return ic.failedRecently(url) }, time.Second, time.Millisecond)

	// a draw loop asks again every frame
	for range 60 {
		require.Nil(t, ic.Get(url))
		ic.Request(url)
	}
	require.EqualValues(t, 1, hits.Load())
	require.False(t, ic.Loaded(url))

	// after the retry delay one more attempt is made
	mu.Lock()
	now = now.Add(DefaultRetryAfter + time.Second)
	mu.Unlock()
	require.False(t, ic.failedRecently(url))
	require.Eventually(t, func() bool {
		ic.Request(url)
		return hits.Load() == 2 && ic.failedRecently(url)
	}, time.Second, time.Millisecond)
}

func TestSuccessfulLoadClearsFailure(t *testing.T) {
	ic := newTestCache(t)
	path := filepath.Join(t.TempDir(), "late.png")

	ic.Request(path)
	require.Eventually(t, func() bool { return ic.failedRecently(path) }, time.Second, time.Millisecond)

	require.NoError(t, os.WriteFile(path, pngBytes(t, 1, 1), 0o644))
	ic.retryAfter = 0
	require.Eventually(t, func() bool {
		ic.Request(path)
		return ic.Loaded(path)
	}, time.Second, time.Millisecond)
	require.Eventually(t, func() bool {
		_, failed := ic.failed.Load(path)
		return !failed
	}, time.Second, time.Millisecond)
}
