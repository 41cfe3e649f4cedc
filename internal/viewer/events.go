// Package viewer implements the asynchronous decode and caching core of the
// image viewer: a generation-token guard, a deduplicating decode dispatcher
// backed by a bounded worker pool, a sequential thumbnail batch loader, and
// the navigation controller that ties them to a display frontend.
//
// All shared state (navigation, cache, in-flight set, tokens) is owned by a
// single control goroutine running Controller.Run. Workers never touch it;
// they post exactly one event each on the controller's event channel.
package viewer

import (
	"image"

	"kingview/pkg/types"
)

// Event is a terminal message posted by a worker goroutine and consumed by
// the control goroutine. Every worker produces exactly one event per unit of
// work; errors travel as event fields, never across goroutine boundaries.
type Event interface {
	isEvent()
}

// ScanResult reports a completed folder scan. A failed scan carries an empty
// Files slice so consumers treat it as "no images found".
type ScanResult struct {
	Token  uint64
	Folder string
	Files  []string
	Index  int
}

// ImageLoaded is the single terminal event of one decode request. Exactly
// one of (Bitmap, Err) is set.
type ImageLoaded struct {
	RequestID uint64
	Path      string
	Role      types.Role
	Bitmap    image.Image
	Info      types.ImageInfo
	Meta      types.Metadata
	Err       error
}

// ThumbnailReady delivers one decoded preview from a thumbnail batch.
// Failed files are skipped inside the batch and never produce an event.
type ThumbnailReady struct {
	Token uint64
	Path  string
	Image image.Image
}

// FolderChanged signals that the watched folder's contents changed on disk
// and a rescan is due.
type FolderChanged struct {
	Folder string
}

func (ScanResult) isEvent()     {}
func (ImageLoaded) isEvent()    {}
func (ThumbnailReady) isEvent() {}
func (FolderChanged) isEvent()  {}
