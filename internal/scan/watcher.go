package scan

import (
	"fmt"
	"os"
	"sync"
	"time"

	"kingview/internal/codec"
	"kingview/internal/log"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay is how long the watcher waits after the last filesystem
// event before reporting the folder as changed. Bulk copies into a folder
// produce one notification instead of hundreds.
const debounceDelay = 500 * time.Millisecond

// FolderWatcher monitors a single folder for image files appearing,
// disappearing, or being renamed. It delivers the folder path on Changes
// after activity settles.
type FolderWatcher struct {
	fsWatcher *fsnotify.Watcher
	changes   chan string
	stopChan  chan struct{}

	mutex   sync.Mutex
	folder  string
	running bool
}

// NewFolderWatcher creates a watcher. Call Watch to point it at a folder.
func NewFolderWatcher() (*FolderWatcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &FolderWatcher{
		fsWatcher: fsWatcher,
		changes:   make(chan string, 1),
		stopChan:  make(chan struct{}),
	}, nil
}

// Changes returns the channel that delivers the watched folder path after a
// debounced burst of filesystem activity.
func (w *FolderWatcher) Changes() <-chan string {
	return w.changes
}

// Watch replaces the watched folder. The previous folder, if any, stops
// being monitored. The event loop is started on first use.
func (w *FolderWatcher) Watch(folder string) error {
	info, err := os.Stat(folder)
	if err != nil {
		return fmt.Errorf("error accessing directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", folder)
	}

	w.mutex.Lock()
	previous := w.folder
	w.folder = folder
	startLoop := !w.running
	if startLoop {
		w.running = true
	}
	w.mutex.Unlock()

	if previous != "" && previous != folder {
		// Best effort: the directory may already be gone.
		_ = w.fsWatcher.Remove(previous)
	}

	if err := w.fsWatcher.Add(folder); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", folder, err)
	}

	if startLoop {
		go w.loop()
	}

	log.LogWithFields(log.F("directory", folder)).Info("Watching folder")
	return nil
}

func (w *FolderWatcher) loop() {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounceDelay)
				fire = timer.C
			} else {
				if !timer.Stop() {
					<-fire
				}
				timer.Reset(debounceDelay)
			}

		case <-fire:
			timer = nil
			fire = nil
			w.mutex.Lock()
			folder := w.folder
			w.mutex.Unlock()
			select {
			case w.changes <- folder:
			default:
				// A pending notification already covers this change.
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.LogWithError(err).Warn("Watcher error")

		case <-w.stopChan:
			return
		}
	}
}

// relevant reports whether an event affects the image listing: only create,
// remove, and rename of supported image files trigger a rescan.
func (w *FolderWatcher) relevant(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return false
	}
	return codec.IsSupported(event.Name)
}

// Stop terminates the event loop and releases the underlying watcher.
func (w *FolderWatcher) Stop() {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if !w.running {
		return
	}
	w.running = false
	close(w.stopChan)
	_ = w.fsWatcher.Close()
}
