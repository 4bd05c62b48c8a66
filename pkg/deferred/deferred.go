package deferred

import (
	"context"
	"sort"
	"sync"
)

// Pending is the sentinel Data returns for keys that have not settled
// yet.
var Pending any = pendingValue{}

type pendingValue struct{}

// SettleFunc observes one settlement. Exactly one of value and err is
// meaningful.
type SettleFunc func(key string, value any, err error)

type settlement struct {
	key   string
	value any
	err   error
}

// Deferred owns a keyed set of immediate values and pending
// computations. The key set is expected to be complete before encoding
// or resolving begins; settlements may arrive in any order afterwards.
// All methods are safe for concurrent use.
type Deferred struct {
	mu sync.Mutex
	// deliverMu serializes settlement delivery: recording a settlement
	// and fanning it out hold it together, as does Subscribe's replay,
	// so every subscriber observes settlements in settlement order.
	deliverMu sync.Mutex

	immediate map[string]any
	async     map[string]bool
	values    map[string]any
	errs      map[string]error
	order     []string
	subs      map[int]SettleFunc
	nextSub   int
	notify    chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates an empty Deferred.
func New() *Deferred {
	ctx, cancel := context.WithCancel(context.Background())
	return &Deferred{
		immediate: make(map[string]any),
		async:     make(map[string]bool),
		values:    make(map[string]any),
		errs:      make(map[string]error),
		subs:      make(map[int]SettleFunc),
		notify:    make(chan struct{}),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Set stores an immediate value for key.
func (d *Deferred) Set(key string, value any) {
	d.mu.Lock()
	d.immediate[key] = value
	d.mu.Unlock()
}

// SetAsync registers key as pending and starts fn in its own goroutine.
// The context passed to fn is cancelled by Cancel.
func (d *Deferred) SetAsync(key string, fn func(ctx context.Context) (any, error)) {
	d.mu.Lock()
	d.async[key] = true
	d.mu.Unlock()

	go func() {
		value, err := fn(d.ctx)
		d.settle(key, value, err)
	}()
}

// settle records one settlement and fans it out to subscribers.
func (d *Deferred) settle(key string, value any, err error) {
	d.deliverMu.Lock()
	defer d.deliverMu.Unlock()

	d.mu.Lock()
	if !d.async[key] {
		d.mu.Unlock()
		return
	}
	if _, ok := d.values[key]; ok {
		d.mu.Unlock()
		return
	}
	if _, ok := d.errs[key]; ok {
		d.mu.Unlock()
		return
	}

	if err != nil {
		d.errs[key] = err
	} else {
		d.values[key] = value
	}
	d.order = append(d.order, key)

	close(d.notify)
	d.notify = make(chan struct{})

	ids := make([]int, 0, len(d.subs))
	for id := range d.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]SettleFunc, 0, len(ids))
	for _, id := range ids {
		fns = append(fns, d.subs[id])
	}
	d.mu.Unlock()

	for _, fn := range fns {
		fn(key, value, err)
	}
}

// Data returns a snapshot of the value map: immediate values, settled
// async values, and the Pending sentinel for keys still in flight. Keys
// that settled with an error are reported as Pending-free absences.
func (d *Deferred) Data() map[string]any {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make(map[string]any, len(d.immediate)+len(d.async))
	for k, v := range d.immediate {
		out[k] = v
	}
	for k := range d.async {
		if v, ok := d.values[k]; ok {
			out[k] = v
			continue
		}
		if _, ok := d.errs[k]; ok {
			continue
		}
		out[k] = Pending
	}
	return out
}

// AsyncKeys returns all pending-capable keys, sorted, settled or not.
func (d *Deferred) AsyncKeys() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	keys := make([]string, 0, len(d.async))
	for k := range d.async {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Subscribe registers fn for settlements. Settlements that already
// happened are replayed synchronously, in settlement order, before
// Subscribe returns; later ones arrive as they occur, never earlier
// than the replay. fn must not call Subscribe or settle a key. The
// returned function unsubscribes.
func (d *Deferred) Subscribe(fn SettleFunc) (unsubscribe func()) {
	d.deliverMu.Lock()

	d.mu.Lock()
	id := d.nextSub
	d.nextSub++
	d.subs[id] = fn

	replay := make([]settlement, 0, len(d.order))
	for _, key := range d.order {
		replay = append(replay, settlement{key: key, value: d.values[key], err: d.errs[key]})
	}
	d.mu.Unlock()

	for _, s := range replay {
		fn(s.key, s.value, s.err)
	}
	d.deliverMu.Unlock()

	return func() {
		d.mu.Lock()
		delete(d.subs, id)
		d.mu.Unlock()
	}
}

// ResolveData blocks until every pending key has settled, or either
// context ends.
func (d *Deferred) ResolveData(ctx context.Context) error {
	for {
		d.mu.Lock()
		remaining := len(d.async) - len(d.order)
		notify := d.notify
		d.mu.Unlock()

		if remaining == 0 {
			return nil
		}

		select {
		case <-notify:
		case <-ctx.Done():
			return ctx.Err()
		case <-d.ctx.Done():
			return d.ctx.Err()
		}
	}
}

// Cancel aborts outstanding computations by cancelling the context they
// were started with.
func (d *Deferred) Cancel() {
	d.cancel()
}
