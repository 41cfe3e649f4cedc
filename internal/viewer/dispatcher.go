package viewer

import (
	"context"

	"kingview/internal/codec"
	"kingview/internal/log"
	"kingview/pkg/types"

	"golang.org/x/sync/semaphore"
)

// Loader is the controller's view of the decode dispatcher. It exists so
// controller tests can substitute a synchronous fake.
type Loader interface {
	// Request schedules an asynchronous decode of path. It returns the
	// request id and true when a worker was (or will be) started, or
	// (0, false) when the request was dropped: either path is already in
	// flight, or a preload found no free worker slot.
	Request(path string, role types.Role) (uint64, bool)

	// Settle removes path from the in-flight set. The controller calls it
	// for every terminal decode event it consumes, success or failure.
	Settle(path string)

	// InFlight reports whether a decode for path is outstanding.
	InFlight(path string) bool
}

// Dispatcher turns decode requests into single-shot worker goroutines. Each
// worker emits exactly one ImageLoaded event. Duplicate requests for a path
// already in flight are dropped; the outstanding decode serves all waiters
// through the cache.
//
// Worker concurrency is bounded by a weighted semaphore. Main-role requests
// always run: their workers block until a slot frees up. Preload requests
// are speculative and are shed instead, so a burst of preloads can never
// delay the image the user is actually waiting for.
//
// Request, Settle, and InFlight must only be called from the control
// goroutine; the in-flight set is not locked.
type Dispatcher struct {
	ctx    context.Context
	events chan<- Event
	decode codec.DecodeFunc
	slots  *semaphore.Weighted

	inflight map[string]struct{}
	nextID   uint64
}

// NewDispatcher creates a dispatcher posting events on events, running at
// most workers decodes concurrently. ctx bounds the lifetime of every
// worker it spawns.
func NewDispatcher(ctx context.Context, events chan<- Event, workers int) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	return &Dispatcher{
		ctx:      ctx,
		events:   events,
		decode:   codec.Decode,
		slots:    semaphore.NewWeighted(int64(workers)),
		inflight: make(map[string]struct{}),
	}
}

// Request implements Loader.
func (d *Dispatcher) Request(path string, role types.Role) (uint64, bool) {
	if _, ok := d.inflight[path]; ok {
		return 0, false
	}

	acquired := false
	if role == types.RolePreload {
		if !d.slots.TryAcquire(1) {
			log.LogWithFields(log.F("path", path)).Debug("Preload shed, no free worker slot")
			return 0, false
		}
		acquired = true
	}

	d.nextID++
	id := d.nextID
	d.inflight[path] = struct{}{}

	go d.work(id, path, role, acquired)
	return id, true
}

// Settle implements Loader.
func (d *Dispatcher) Settle(path string) {
	delete(d.inflight, path)
}

// InFlight implements Loader.
func (d *Dispatcher) InFlight(path string) bool {
	_, ok := d.inflight[path]
	return ok
}

// work runs one decode and posts its single terminal event. acquired is
// true when the caller already holds a worker slot (preload path).
func (d *Dispatcher) work(id uint64, path string, role types.Role, acquired bool) {
	ev := ImageLoaded{RequestID: id, Path: path, Role: role}

	if !acquired {
		if err := d.slots.Acquire(d.ctx, 1); err != nil {
			ev.Err = err
			d.post(ev)
			return
		}
	}

	res, err := d.decode(path)
	d.slots.Release(1)

	if err != nil {
		ev.Err = err
	} else {
		ev.Bitmap = res.Bitmap
		ev.Info = res.Info
		ev.Meta = res.Meta
	}
	d.post(ev)
}

// post delivers the terminal event unless the dispatcher's context is done,
// in which case the consumer is gone and the event is dropped.
func (d *Dispatcher) post(ev ImageLoaded) {
	select {
	case d.events <- ev:
	case <-d.ctx.Done():
	}
}
