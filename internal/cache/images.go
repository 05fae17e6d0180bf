package cache

import (
	"crypto/sha256"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spacemonkeygo/monkit/v3"
	"github.com/zeebo/errs"
	"go.uber.org/zap"
)

var (
	mon = monkit.Package()

	// Error is the error class for image loading failures.
	Error = errs.Class("cache")
)

var httpClient = &http.Client{Timeout: 10 * time.Second}

// DefaultRetryAfter is how long a key that failed to load is left alone
// before a background load is attempted again.
const DefaultRetryAfter = 30 * time.Second

// ImageCache provides disk + memory caching for stack images. Keys are
// either local file paths or http(s) URLs; only URLs are cached on disk.
type ImageCache struct {
	log      *zap.Logger
	cacheDir string
	client   *http.Client
	memory   sync.Map // key -> image.Image
	loading  sync.Map // key -> *loadEntry (in-flight dedup with waiters)
	failed   sync.Map // key -> time.Time after which a retry is allowed
	sem      chan struct{}

	retryAfter time.Duration
	now        func() time.Time
}

// loadEntry tracks in-flight loads and their waiters.
type loadEntry struct {
	mu        sync.Mutex
	callbacks []func(image.Image)
}

// NewImageCache creates a new image cache with the given disk directory.
func NewImageCache(log *zap.Logger, cacheDir string) (*ImageCache, error) {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, Error.Wrap(err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ImageCache{
		log:      log,
		cacheDir: cacheDir,
		client:   httpClient,
		sem:      make(chan struct{}, 6),

		retryAfter: DefaultRetryAfter,
		now:        time.Now,
	}, nil
}

// Get returns a cached image if available, or nil.
func (ic *ImageCache) Get(key string) image.Image {
	if v, ok := ic.memory.Load(key); ok {
		return v.(image.Image)
	}
	return nil
}

// Loaded reports whether key is decoded and in memory.
func (ic *ImageCache) Loaded(key string) bool {
	_, ok := ic.memory.Load(key)
	return ok
}

// Request starts loading key in the background without waiting for it.
func (ic *ImageCache) Request(key string) {
	ic.LoadAsync(key, nil)
}

// LoadAsync starts loading an image in the background.
// The callback, if any, is called with the image when ready (may be called from a goroutine).
func (ic *ImageCache) LoadAsync(key string, callback func(image.Image)) {
	// Already in memory?
	if v, ok := ic.memory.Load(key); ok {
		mon.Counter("image_cache_hit").Inc(1)
		if callback != nil {
			callback(v.(image.Image))
		}
		return
	}
	if ic.failedRecently(key) {
		mon.Counter("image_cache_failed_skip").Inc(1)
		return
	}
	mon.Counter("image_cache_miss").Inc(1)

	// Dedup in-flight requests: join the existing entry or create a new one
	entry := &loadEntry{}
	if callback != nil {
		entry.callbacks = append(entry.callbacks, callback)
	}

	if existing, loaded := ic.loading.LoadOrStore(key, entry); loaded {
		if callback == nil {
			return
		}
		existingEntry := existing.(*loadEntry)
		existingEntry.mu.Lock()
		existingEntry.callbacks = append(existingEntry.callbacks, callback)
		existingEntry.mu.Unlock()
		return
	}

	go func() {
		defer ic.loading.Delete(key)

		// Acquire semaphore to limit concurrent loads
		ic.sem <- struct{}{}
		defer func() { <-ic.sem }()

		img, err := ic.Load(key)
		if err != nil {
			ic.log.Warn("image load failed", zap.String("key", key), zap.Error(err))
			ic.failed.Store(key, ic.now().Add(ic.retryAfter))
			return
		}
		ic.failed.Delete(key)

		// Notify all waiters
		entry.mu.Lock()
		cbs := make([]func(image.Image), len(entry.callbacks))
		copy(cbs, entry.callbacks)
		entry.mu.Unlock()

		for _, cb := range cbs {
			cb(img)
		}
	}()
}

// Load decodes key synchronously and stores it in memory.
func (ic *ImageCache) Load(key string) (image.Image, error) {
	if img := ic.Get(key); img != nil {
		return img, nil
	}

	var (
		img image.Image
		err error
	)
	if isURL(key) {
		img, err = ic.loadURL(key)
	} else {
		img, err = loadFile(strings.TrimPrefix(key, "file://"))
	}
	if err != nil {
		return nil, err
	}
	ic.memory.Store(key, img)
	return img, nil
}

// failedRecently reports whether the last background load of key failed less
// than the retry delay ago.
func (ic *ImageCache) failedRecently(key string) bool {
	v, ok := ic.failed.Load(key)
	if !ok {
		return false
	}
	return ic.now().Before(v.(time.Time))
}

func isURL(key string) bool {
	return strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://")
}

func loadFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Error.Wrap(err)
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, Error.New("decode %s: %w", path, err)
	}
	return img, nil
}

func (ic *ImageCache) loadURL(url string) (image.Image, error) {
	diskPath := ic.diskPath(url)

	// Try disk cache first
	if f, err := os.Open(diskPath); err == nil {
		img, _, err := image.Decode(f)
		_ = f.Close()
		if err == nil {
			return img, nil
		}
		// Corrupt cache file, remove and re-download
		_ = os.Remove(diskPath)
	}

	resp, err := ic.client.Get(url)
	if err != nil {
		return nil, Error.Wrap(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, Error.New("image download failed: %s", resp.Status)
	}

	if err := os.MkdirAll(filepath.Dir(diskPath), 0o755); err != nil {
		return nil, Error.Wrap(err)
	}
	f, err := os.Create(diskPath)
	if err != nil {
		return nil, Error.Wrap(err)
	}

	// Tee to disk while decoding
	tee := io.TeeReader(resp.Body, f)
	img, _, err := image.Decode(tee)
	_ = f.Close()
	if err != nil {
		_ = os.Remove(diskPath)
		return nil, Error.New("decode %s: %w", url, err)
	}

	return img, nil
}

func (ic *ImageCache) diskPath(url string) string {
	h := sha256.Sum256([]byte(url))
	name := fmt.Sprintf("%x", h[:16])
	return filepath.Join(ic.cacheDir, name[:2], name)
}

// CacheDir returns the disk cache directory path.
func (ic *ImageCache) CacheDir() string {
	return ic.cacheDir
}

// ClearDisk removes all cached images from disk.
func (ic *ImageCache) ClearDisk() error {
	return Error.Wrap(os.RemoveAll(ic.cacheDir))
}
