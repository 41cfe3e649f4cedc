package viewer

import (
	"context"
	"fmt"
	"image"
	"path/filepath"

	"kingview/internal/cache"
	"kingview/internal/config"
	"kingview/internal/log"
	"kingview/internal/scan"
	"kingview/pkg/types"
)

// Status messages surfaced through the display sink.
const (
	StatusScanning = "Scanning folder..."
	StatusLoading  = "Loading image..."
	StatusNoImages = "No supported images found in this folder."
)

const (
	eventBuffer  = 32
	actionBuffer = 16
)

// Display is the frontend sink the controller drives. Implementations must
// tolerate calls from the control goroutine and marshal to their own UI
// thread as needed.
type Display interface {
	// ShowImage renders the fully decoded image for path.
	ShowImage(path string, img image.Image, info types.ImageInfo, meta types.Metadata)

	// ShowPreview renders a provisional low-resolution preview for path
	// while the full decode is still in flight. info carries placeholder
	// fields; metadata is not yet available.
	ShowPreview(path string, img image.Image, info types.ImageInfo)

	// ShowThumbnail delivers one folder thumbnail as the batch progresses.
	ShowThumbnail(path string, img image.Image)

	// SetFiles replaces the file listing and selection shown to the user.
	SetFiles(files []string, index int)

	// SetStatus updates the transient status line. Empty clears it.
	SetStatus(status string)

	// Clear empties the image area, listing, and metadata panel.
	Clear()
}

// Controller owns the viewer's shared state: the ordered file list, the
// current index, the bitmap cache, the in-flight set, and the generation
// tokens. All of it is mutated exclusively by the control goroutine inside
// Run; frontends reach it through the exported navigation methods, which
// enqueue closures onto the control goroutine.
type Controller struct {
	cfg     *config.Config
	cache   *cache.Cache
	display Display
	scanner *scan.Scanner
	loader  Loader
	thumbs  *BatchLoader
	watcher *scan.FolderWatcher

	events  chan Event
	actions chan func()

	ctx         context.Context
	tokens      TokenState
	folder      string
	files       []string
	index       int
	previews    map[string]image.Image
	thumbCancel context.CancelFunc
}

// New creates a controller. The decode dispatcher and thumbnail loader are
// wired up when Run starts.
func New(cfg *config.Config, display Display) *Controller {
	return &Controller{
		cfg:      cfg,
		cache:    cache.New(cfg.Viewer.CacheCapacity),
		display:  display,
		scanner:  scan.New(cfg.IncludeGlobs()),
		events:   make(chan Event, eventBuffer),
		actions:  make(chan func(), actionBuffer),
		index:    -1,
		previews: make(map[string]image.Image),
	}
}

// Run is the control goroutine. It owns every piece of shared state and is
// the single consumer of worker events. It returns when ctx is cancelled.
func (c *Controller) Run(ctx context.Context) {
	c.ctx = ctx

	if c.loader == nil {
		c.loader = NewDispatcher(ctx, c.events, c.cfg.Viewer.MaxDecodeWorkers)
	}
	if c.thumbs == nil && c.cfg.Thumbnails.Enabled {
		c.thumbs = NewBatchLoader(c.events, c.cfg.Thumbnails.Width, c.cfg.Thumbnails.Height)
	}

	var changes <-chan string
	if c.cfg.Scan.WatchFolder {
		watcher, err := scan.NewFolderWatcher()
		if err != nil {
			log.LogWithError(err).Warn("Folder watching disabled")
		} else {
			c.watcher = watcher
			changes = watcher.Changes()
			defer watcher.Stop()
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-c.actions:
			fn()
		case ev := <-c.events:
			c.handle(ev)
		case folder := <-changes:
			c.handle(FolderChanged{Folder: folder})
		}
	}
}

// OpenFolder scans folder and displays its first image.
func (c *Controller) OpenFolder(folder string) {
	c.do(func() { c.openFolder(folder, "") })
}

// OpenFile scans the file's folder and displays that file.
func (c *Controller) OpenFile(path string) {
	c.do(func() { c.openFolder(filepath.Dir(path), path) })
}

// Next advances to the following image, wrapping at the end of the list.
func (c *Controller) Next() { c.do(c.next) }

// Prev moves to the preceding image, wrapping at the start of the list.
func (c *Controller) Prev() { c.do(c.prev) }

// JumpTo selects the image at the given list index.
func (c *Controller) JumpTo(index int) {
	c.do(func() { c.jumpTo(index) })
}

// MoveSelection shifts the selection by step (with wraparound) without
// loading anything. OpenSelected displays the selection.
func (c *Controller) MoveSelection(step int) {
	c.do(func() { c.moveSelection(step) })
}

// OpenSelected loads and displays the currently selected entry.
func (c *Controller) OpenSelected() {
	c.do(func() { c.loadCurrent() })
}

// do hands a closure to the control goroutine.
func (c *Controller) do(fn func()) {
	c.actions <- fn
}

func (c *Controller) handle(ev Event) {
	switch ev := ev.(type) {
	case ScanResult:
		c.handleScanResult(ev)
	case ImageLoaded:
		c.handleImageLoaded(ev)
	case ThumbnailReady:
		c.handleThumbnailReady(ev)
	case FolderChanged:
		log.LogWithFields(log.F("folder", ev.Folder)).Debug("Folder changed on disk, rescanning")
		c.openFolder(ev.Folder, c.currentPath())
	}
}

// openFolder starts a new scan generation and spawns the scan worker.
// Scan failures surface as an empty file list, never as an error event.
func (c *Controller) openFolder(folder, selected string) {
	token := c.tokens.BeginScan()
	c.display.SetStatus(StatusScanning)

	go func() {
		ev := ScanResult{Token: token, Folder: folder}
		res, err := c.scanner.Scan(folder, selected)
		if err != nil {
			log.LogWithError(err).Warn("Folder scan failed")
		} else {
			ev.Folder = res.Folder
			ev.Files = res.Files
			ev.Index = res.Index
		}
		select {
		case c.events <- ev:
		case <-c.ctx.Done():
		}
	}()
}

func (c *Controller) handleScanResult(ev ScanResult) {
	if !c.tokens.IsCurrentScan(ev.Token) {
		log.LogWithFields(log.F("token", ev.Token)).Debug("Stale scan result dropped")
		return
	}

	c.folder = ev.Folder
	c.files = ev.Files
	c.stopThumbBatch()
	c.previews = make(map[string]image.Image)

	if c.watcher != nil {
		if err := c.watcher.Watch(ev.Folder); err != nil {
			log.LogWithError(err).Warn("Could not watch folder")
		}
	}

	if len(c.files) == 0 {
		c.index = -1
		c.display.SetFiles(nil, -1)
		c.display.Clear()
		c.display.SetStatus(StatusNoImages)
		return
	}

	c.index = ev.Index
	if c.index < 0 || c.index >= len(c.files) {
		c.index = 0
	}
	c.display.SetFiles(c.files, c.index)
	c.startThumbBatch()
	c.loadCurrent()
}

func (c *Controller) handleImageLoaded(ev ImageLoaded) {
	c.loader.Settle(ev.Path)

	if ev.Err != nil {
		if ev.Path == c.currentPath() {
			log.LogWithError(ev.Err).Warn("Failed to load current image")
			c.display.SetStatus(fmt.Sprintf("Failed to load: %s", filepath.Base(ev.Path)))
			c.skipCorrupted(ev.Path)
		} else {
			// Failed preload or stale request: the user never asked for it.
			log.LogWithError(ev.Err).Debug("Background decode failed")
		}
		return
	}

	c.cache.Put(ev.Path, &cache.CachedImage{Bitmap: ev.Bitmap, Info: ev.Info, Meta: ev.Meta})

	// Staleness is a path comparison: the user may have navigated away and
	// back, and the result is valid exactly when it matches what is selected
	// now.
	if ev.Path == c.currentPath() {
		c.display.ShowImage(ev.Path, ev.Bitmap, ev.Info, ev.Meta)
		c.display.SetStatus("")
	}
}

func (c *Controller) handleThumbnailReady(ev ThumbnailReady) {
	if !c.tokens.IsCurrentThumbBatch(ev.Token) {
		return
	}
	c.previews[ev.Path] = ev.Image
	c.display.ShowThumbnail(ev.Path, ev.Image)

	// A preview arriving for the still-pending current image upgrades the
	// blank display to something provisional.
	if ev.Path == c.currentPath() && !c.cache.Contains(ev.Path) {
		c.display.ShowPreview(ev.Path, ev.Image, types.PreviewInfo(ev.Path))
	}
}

// skipCorrupted removes the unreadable path from the session's file list,
// clamps the index, and moves on. Removal is session-local: the folder is
// not rescanned and the file stays on disk.
func (c *Controller) skipCorrupted(path string) {
	for i, f := range c.files {
		if f == path {
			c.files = append(c.files[:i], c.files[i+1:]...)
			break
		}
	}

	if len(c.files) == 0 {
		c.index = -1
		c.display.SetFiles(nil, -1)
		c.display.Clear()
		c.display.SetStatus(fmt.Sprintf("Skipped corrupted file: %s", filepath.Base(path)))
		return
	}

	if c.index > len(c.files)-1 {
		c.index = len(c.files) - 1
	}
	c.display.SetFiles(c.files, c.index)
	c.loadCurrent()
	c.display.SetStatus(fmt.Sprintf("Skipped corrupted file: %s", filepath.Base(path)))
}

func (c *Controller) next() {
	if len(c.files) == 0 {
		return
	}
	c.index = (c.index + 1) % len(c.files)
	c.display.SetFiles(c.files, c.index)
	c.loadCurrent()
}

func (c *Controller) prev() {
	if len(c.files) == 0 {
		return
	}
	c.index = (c.index - 1 + len(c.files)) % len(c.files)
	c.display.SetFiles(c.files, c.index)
	c.loadCurrent()
}

func (c *Controller) moveSelection(step int) {
	if len(c.files) == 0 {
		return
	}
	n := len(c.files)
	c.index = ((c.index+step)%n + n) % n
	c.display.SetFiles(c.files, c.index)
	c.display.SetStatus(fmt.Sprintf("Selected %d/%d: %s (press Enter to display)",
		c.index+1, n, filepath.Base(c.files[c.index])))
}

func (c *Controller) jumpTo(index int) {
	if index < 0 || index >= len(c.files) {
		return
	}
	c.index = index
	c.display.SetFiles(c.files, c.index)
	c.loadCurrent()
}

// loadCurrent resolves the selected path: display from cache on a hit, or
// show a provisional preview and request a main-role decode on a miss. It
// then schedules preloads for both neighbors.
func (c *Controller) loadCurrent() {
	path := c.currentPath()
	if path == "" {
		c.display.Clear()
		return
	}

	if img, ok := c.cache.Get(path); ok {
		c.display.ShowImage(path, img.Bitmap, img.Info, img.Meta)
		c.display.SetStatus("")
	} else {
		if prev, ok := c.previews[path]; ok {
			c.display.ShowPreview(path, prev, types.PreviewInfo(path))
		}
		c.display.SetStatus(StatusLoading)
		c.loader.Request(path, types.RoleMain)
	}

	c.preloadNeighbors()
}

// preloadNeighbors requests speculative decodes of index +/- 1, bounded to
// paths not already cached or in flight.
func (c *Controller) preloadNeighbors() {
	if !c.cfg.Viewer.PreloadNeighbors || len(c.files) < 2 {
		return
	}

	n := len(c.files)
	seen := map[int]bool{c.index: true}
	for _, i := range []int{(c.index + 1) % n, (c.index - 1 + n) % n} {
		if seen[i] {
			continue
		}
		seen[i] = true
		path := c.files[i]
		if c.cache.Contains(path) || c.loader.InFlight(path) {
			continue
		}
		c.loader.Request(path, types.RolePreload)
	}
}

func (c *Controller) currentPath() string {
	if c.index < 0 || c.index >= len(c.files) {
		return ""
	}
	return c.files[c.index]
}

func (c *Controller) startThumbBatch() {
	if c.thumbs == nil {
		return
	}
	token := c.tokens.BeginThumbBatch()
	ctx, cancel := context.WithCancel(c.ctx)
	c.thumbCancel = cancel

	// Snapshot: the batch must not observe later in-place list mutations.
	files := make([]string, len(c.files))
	copy(files, c.files)
	c.thumbs.Start(ctx, token, files)
}

func (c *Controller) stopThumbBatch() {
	if c.thumbCancel != nil {
		c.thumbCancel()
		c.thumbCancel = nil
	}
}
