package viewer

import (
	"context"
	"image"

	"kingview/internal/codec"
	"kingview/internal/log"
)

// ThumbFunc decodes a low-resolution preview of path fitting a width x
// height box.
type ThumbFunc func(path string, width, height int) (image.Image, error)

// BatchLoader decodes previews for a whole folder sequentially, in list
// order, posting one ThumbnailReady per file that decodes. Files that fail
// are skipped and the batch continues; a batch never aborts.
//
// Each Start spawns one goroutine that works through its own snapshot of the
// file list. The caller cancels a superseded batch through ctx; its token
// additionally protects against events already buffered when the
// cancellation lands.
type BatchLoader struct {
	events chan<- Event
	thumb  ThumbFunc
	width  int
	height int
}

// NewBatchLoader creates a batch loader producing previews that fit a
// width x height box.
func NewBatchLoader(events chan<- Event, width, height int) *BatchLoader {
	return &BatchLoader{
		events: events,
		thumb:  codec.Thumbnail,
		width:  width,
		height: height,
	}
}

// Start begins decoding previews for files under the given batch token.
func (l *BatchLoader) Start(ctx context.Context, token uint64, files []string) {
	go func() {
		for _, path := range files {
			select {
			case <-ctx.Done():
				return
			default:
			}

			img, err := l.thumb(path, l.width, l.height)
			if err != nil {
				log.LogWithError(err).Debug("Thumbnail skipped")
				continue
			}

			select {
			case l.events <- ThumbnailReady{Token: token, Path: path, Image: img}:
			case <-ctx.Done():
				return
			}
		}
	}()
}
