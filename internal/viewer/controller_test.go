package viewer

import (
	"context"
	"image"
	"testing"
	"time"

	"kingview/internal/config"
	"kingview/internal/errors"
	"kingview/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDisplay records every sink call for assertions.
type fakeDisplay struct {
	images     []string
	previews   []string
	thumbnails []string
	files      []string
	index      int
	status     string
	cleared    int
}

func (d *fakeDisplay) ShowImage(path string, _ image.Image, _ types.ImageInfo, _ types.Metadata) {
	d.images = append(d.images, path)
}

func (d *fakeDisplay) ShowPreview(path string, _ image.Image, _ types.ImageInfo) {
	d.previews = append(d.previews, path)
}

func (d *fakeDisplay) ShowThumbnail(path string, _ image.Image) {
	d.thumbnails = append(d.thumbnails, path)
}

func (d *fakeDisplay) SetFiles(files []string, index int) {
	d.files = files
	d.index = index
}

func (d *fakeDisplay) SetStatus(status string) { d.status = status }
func (d *fakeDisplay) Clear()                  { d.cleared++ }

func (d *fakeDisplay) lastImage() string {
	if len(d.images) == 0 {
		return ""
	}
	return d.images[len(d.images)-1]
}

type loadRequest struct {
	path string
	role types.Role
}

// fakeLoader is a synchronous Loader that records requests and never sheds.
type fakeLoader struct {
	requests []loadRequest
	inflight map[string]struct{}
	nextID   uint64
}

func newFakeLoader() *fakeLoader {
	return &fakeLoader{inflight: make(map[string]struct{})}
}

func (l *fakeLoader) Request(path string, role types.Role) (uint64, bool) {
	if _, ok := l.inflight[path]; ok {
		return 0, false
	}
	l.nextID++
	l.inflight[path] = struct{}{}
	l.requests = append(l.requests, loadRequest{path: path, role: role})
	return l.nextID, true
}

func (l *fakeLoader) Settle(path string)        { delete(l.inflight, path) }
func (l *fakeLoader) InFlight(path string) bool { _, ok := l.inflight[path]; return ok }

func (l *fakeLoader) pathsByRole(role types.Role) []string {
	var out []string
	for _, r := range l.requests {
		if r.role == role {
			out = append(out, r.path)
		}
	}
	return out
}

// newTestController builds a controller whose handlers are driven directly,
// bypassing Run, so every test is synchronous and deterministic.
func newTestController() (*Controller, *fakeDisplay, *fakeLoader) {
	display := &fakeDisplay{index: -1}
	c := New(config.NewTestConfig(), display)
	c.ctx = context.Background()
	loader := newFakeLoader()
	c.loader = loader
	return c, display, loader
}

// scanTo seeds the controller's navigation state through the normal scan
// event path.
func scanTo(c *Controller, index int, files ...string) {
	token := c.tokens.BeginScan()
	c.handleScanResult(ScanResult{Token: token, Folder: "/pics", Files: files, Index: index})
}

func loaded(path string, role types.Role) ImageLoaded {
	return ImageLoaded{
		Path:   path,
		Role:   role,
		Bitmap: image.NewRGBA(image.Rect(0, 0, 1, 1)),
		Info:   types.NewImageInfo(path, 1, 1, "RGBA"),
		Meta:   types.NewMetadata(),
	}
}

func failed(path string, role types.Role) ImageLoaded {
	return ImageLoaded{
		Path: path,
		Role: role,
		Err:  errors.NewDecodeError("broken header", path, errors.DecodeFailed, nil),
	}
}

func TestScanResultSelectsAndRequests(t *testing.T) {
	c, display, loader := newTestController()
	scanTo(c, 0, "/pics/a.png", "/pics/b.png", "/pics/c.png")

	assert.Equal(t, 0, c.index)
	assert.Equal(t, []string{"/pics/a.png", "/pics/b.png", "/pics/c.png"}, display.files)
	assert.Equal(t, StatusLoading, display.status)

	assert.Equal(t, []string{"/pics/a.png"}, loader.pathsByRole(types.RoleMain))
	assert.ElementsMatch(t, []string{"/pics/b.png", "/pics/c.png"}, loader.pathsByRole(types.RolePreload))
}

func TestStaleScanResultDropped(t *testing.T) {
	c, display, _ := newTestController()
	scanTo(c, 0, "/pics/a.png")

	stale := c.tokens.BeginScan() - 1 // superseded generation
	c.handleScanResult(ScanResult{Token: stale, Folder: "/old", Files: []string{"/old/x.png"}, Index: 0})

	assert.Equal(t, []string{"/pics/a.png"}, c.files, "stale scan must not replace the file list")
	assert.Equal(t, []string{"/pics/a.png"}, display.files)
}

func TestEmptyScanClearsDisplay(t *testing.T) {
	c, display, _ := newTestController()
	scanTo(c, 0)

	assert.Equal(t, -1, c.index)
	assert.Equal(t, 1, display.cleared)
	assert.Equal(t, StatusNoImages, display.status)
}

func TestNavigationWraparound(t *testing.T) {
	c, _, _ := newTestController()
	scanTo(c, 0, "/pics/a.png", "/pics/b.png", "/pics/c.png")

	start := c.index
	for i := 0; i < 3; i++ {
		c.next()
	}
	assert.Equal(t, start, c.index, "next() N times returns to the start")

	c.prev()
	assert.Equal(t, 2, c.index, "prev() from index 0 wraps to N-1")
}

func TestNavigationNoopWhenEmpty(t *testing.T) {
	c, _, loader := newTestController()
	c.next()
	c.prev()
	c.jumpTo(0)
	assert.Equal(t, -1, c.index)
	assert.Empty(t, loader.requests)
}

func TestJumpToIgnoresOutOfRange(t *testing.T) {
	c, _, _ := newTestController()
	scanTo(c, 0, "/pics/a.png", "/pics/b.png")

	c.jumpTo(5)
	assert.Equal(t, 0, c.index)
	c.jumpTo(-1)
	assert.Equal(t, 0, c.index)
	c.jumpTo(1)
	assert.Equal(t, 1, c.index)
}

func TestMoveSelectionDoesNotLoad(t *testing.T) {
	c, display, loader := newTestController()
	scanTo(c, 0, "/pics/a.png", "/pics/b.png", "/pics/c.png")
	loader.requests = nil
	loader.inflight = make(map[string]struct{})

	c.moveSelection(1)
	assert.Equal(t, 1, c.index)
	assert.Equal(t, 1, display.index)
	assert.Empty(t, loader.requests, "selection moves must not dispatch decodes")
	assert.Contains(t, display.status, "Selected 2/3: b.png")

	c.moveSelection(-2) // wraps backwards
	assert.Equal(t, 2, c.index)

	// Opening the selection loads it.
	c.loadCurrent()
	assert.Equal(t, []string{"/pics/c.png"}, loader.pathsByRole(types.RoleMain))
}

func TestCacheHitDisplaysWithoutRequest(t *testing.T) {
	c, display, loader := newTestController()
	scanTo(c, 0, "/pics/a.png", "/pics/b.png", "/pics/c.png")

	// Complete the main decode and the preload of b.
	c.handleImageLoaded(loaded("/pics/a.png", types.RoleMain))
	c.handleImageLoaded(loaded("/pics/b.png", types.RolePreload))
	require.Equal(t, "/pics/a.png", display.lastImage())

	before := len(loader.pathsByRole(types.RoleMain))
	c.next() // b is cached
	assert.Equal(t, "/pics/b.png", display.lastImage())
	assert.Len(t, loader.pathsByRole(types.RoleMain), before, "cache hit must not dispatch a decode")
	assert.Equal(t, "", display.status)
}

func TestPreloadSkipsCachedNeighbors(t *testing.T) {
	c, _, loader := newTestController()
	scanTo(c, 0, "/pics/a.png", "/pics/b.png", "/pics/c.png")
	c.handleImageLoaded(loaded("/pics/a.png", types.RoleMain))
	c.handleImageLoaded(loaded("/pics/b.png", types.RolePreload))
	c.handleImageLoaded(loaded("/pics/c.png", types.RolePreload))

	loader.requests = nil
	c.next() // current b; neighbors a, c are both cached
	assert.Empty(t, loader.requests)
}

func TestStaleMainResultNotDisplayed(t *testing.T) {
	c, display, _ := newTestController()
	scanTo(c, 0, "/pics/a.png", "/pics/b.png", "/pics/c.png")

	c.jumpTo(2) // user navigated away before a finished decoding

	c.handleImageLoaded(loaded("/pics/a.png", types.RoleMain))
	assert.NotEqual(t, "/pics/a.png", display.lastImage(), "result for a deselected path must not be displayed")
	assert.True(t, c.cache.Contains("/pics/a.png"), "the decoded image is still cached for later")

	// Navigating back serves it from cache immediately.
	c.jumpTo(0)
	assert.Equal(t, "/pics/a.png", display.lastImage())
}

func TestCorruptedFileSkipped(t *testing.T) {
	c, display, loader := newTestController()
	scanTo(c, 1, "/pics/a.png", "/pics/b.png", "/pics/c.png")

	c.handleImageLoaded(failed("/pics/b.png", types.RoleMain))

	assert.Equal(t, []string{"/pics/a.png", "/pics/c.png"}, c.files)
	assert.Equal(t, 1, c.index, "index clamps onto the next file")
	assert.Equal(t, "Skipped corrupted file: b.png", display.status)
	assert.True(t, loader.InFlight("/pics/c.png"), "the replacement file is being loaded")
	assert.False(t, loader.InFlight("/pics/b.png"), "the failed path must be settled")
}

func TestCorruptedLastFileClampsIndex(t *testing.T) {
	c, _, _ := newTestController()
	scanTo(c, 2, "/pics/a.png", "/pics/b.png", "/pics/c.png")

	c.handleImageLoaded(failed("/pics/c.png", types.RoleMain))

	assert.Equal(t, []string{"/pics/a.png", "/pics/b.png"}, c.files)
	assert.Equal(t, 1, c.index)
}

func TestSingleFileCorruptionClearsDisplay(t *testing.T) {
	c, display, _ := newTestController()
	scanTo(c, 0, "/pics/only.png")

	c.handleImageLoaded(failed("/pics/only.png", types.RoleMain))

	assert.Empty(t, c.files)
	assert.Equal(t, -1, c.index)
	assert.GreaterOrEqual(t, display.cleared, 1)
	assert.Equal(t, "Skipped corrupted file: only.png", display.status)
}

func TestFailedPreloadIgnored(t *testing.T) {
	c, display, _ := newTestController()
	scanTo(c, 0, "/pics/a.png", "/pics/b.png", "/pics/c.png")

	files := append([]string(nil), c.files...)
	c.handleImageLoaded(failed("/pics/b.png", types.RolePreload))

	assert.Equal(t, files, c.files, "a failed preload must not mutate the file list")
	assert.Equal(t, 0, c.index)
	assert.NotContains(t, display.status, "Skipped")
}

func TestThumbnailUpgradesPendingDisplay(t *testing.T) {
	c, display, _ := newTestController()
	scanTo(c, 0, "/pics/a.png", "/pics/b.png")

	thumb := image.NewRGBA(image.Rect(0, 0, 2, 2))
	token := c.tokens.BeginThumbBatch()

	c.handleThumbnailReady(ThumbnailReady{Token: token, Path: "/pics/a.png", Image: thumb})
	assert.Equal(t, []string{"/pics/a.png"}, display.thumbnails)
	assert.Equal(t, []string{"/pics/a.png"}, display.previews, "pending current image gets a provisional preview")

	// Once the full image is cached, thumbnails stop upgrading the display.
	c.handleImageLoaded(loaded("/pics/a.png", types.RoleMain))
	c.handleThumbnailReady(ThumbnailReady{Token: token, Path: "/pics/a.png", Image: thumb})
	assert.Equal(t, []string{"/pics/a.png"}, display.previews)
}

func TestStaleThumbnailDropped(t *testing.T) {
	c, display, _ := newTestController()
	scanTo(c, 0, "/pics/a.png")

	old := c.tokens.BeginThumbBatch()
	c.tokens.BeginThumbBatch()

	c.handleThumbnailReady(ThumbnailReady{Token: old, Path: "/pics/a.png", Image: image.NewRGBA(image.Rect(0, 0, 2, 2))})
	assert.Empty(t, display.thumbnails)
	assert.Empty(t, c.previews)
}

func TestProvisionalPreviewOnNavigation(t *testing.T) {
	c, display, _ := newTestController()
	scanTo(c, 0, "/pics/a.png", "/pics/b.png")

	token := c.tokens.BeginThumbBatch()
	c.handleThumbnailReady(ThumbnailReady{Token: token, Path: "/pics/b.png", Image: image.NewRGBA(image.Rect(0, 0, 2, 2))})

	c.next() // b is uncached but has a preview
	assert.Equal(t, []string{"/pics/b.png"}, display.previews[len(display.previews)-1:])
	assert.Equal(t, StatusLoading, display.status)
}

func TestOpenFolderRoundTrip(t *testing.T) {
	// End to end through Run: real dispatcher, stubbed decode.
	display := &fakeDisplay{index: -1}
	cfg := config.NewTestConfig()
	cfg.Thumbnails.Enabled = false
	c := New(cfg, display)

	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()

	c.OpenFolder(dir)

	// The scan of an empty folder must settle into the no-images state.
	assert.Eventually(t, func() bool {
		probe := make(chan string, 1)
		c.do(func() { probe <- display.status })
		return <-probe == StatusNoImages
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	<-done
}
