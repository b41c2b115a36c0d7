package store

import (
	"context"
	"sync"

	"github.com/petpractice/vet-scheduler/internal/logging"
)

// Snapshotter persists the whole state tree as one document under the fixed
// application key. Load returns (nil, nil) when no document exists yet.
type Snapshotter interface {
	Load(ctx context.Context) (*AppState, error)
	Save(ctx context.Context, state AppState) error
}

// Store is the single source of truth. Dispatches are serialized reducer
// applications; persistence runs behind a coalescing writer so a slow or
// failing backend never blocks or rolls back the in-memory state.
type Store struct {
	mu    sync.Mutex
	state AppState

	snapshots Snapshotter
	logger    *logging.Logger

	subMu   sync.Mutex
	subs    map[int]func(AppState)
	nextSub int

	persistCh chan AppState
	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

// Open builds a store from the last persisted snapshot. An absent, failing,
// or malformed snapshot degrades to the empty initial state; loading also
// collapses time slots that share a semantic key, a one-time cleanup for
// documents written before slot ids carried a uniqueness token.
func Open(ctx context.Context, snapshots Snapshotter, logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.Default()
	}

	s := &Store{
		state:     emptyState(),
		snapshots: snapshots,
		logger:    logger,
		subs:      make(map[int]func(AppState)),
		persistCh: make(chan AppState, 1),
		done:      make(chan struct{}),
		stopped:   make(chan struct{}),
	}

	if snapshots != nil {
		saved, err := snapshots.Load(ctx)
		switch {
		case err != nil:
			logger.Warn("snapshot load failed, starting empty", "error", err)
		case saved != nil:
			saved.TimeSlots = dedupeBySemanticKey(saved.TimeSlots)
			s.state = Reduce(s.state, LoadState{State: *saved})
		}
		go s.persistLoop()
	} else {
		close(s.stopped)
	}

	return s
}

// Dispatch applies one action and hands the resulting state to the persist
// writer and to subscribers. It never fails: invalid actions reduce to the
// unchanged state.
func (s *Store) Dispatch(action Action) AppState {
	s.mu.Lock()
	s.state = Reduce(s.state, action)
	next := s.state
	s.mu.Unlock()

	s.enqueuePersist(next)

	out := next.clone()
	s.notify(out)
	return out
}

// State returns a copy of the current state tree. The copy shares no slice
// backing arrays with the tree, so callers cannot reach into it.
func (s *Store) State() AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Subscribe registers fn to run after every transition and returns its
// cancel func. Subscriptions are explicit per-store state, not a process
// wide registry.
func (s *Store) Subscribe(fn func(AppState)) (cancel func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// Close stops the persist writer after flushing any pending snapshot and
// waits for it to finish.
func (s *Store) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
	<-s.stopped
}

func (s *Store) notify(state AppState) {
	s.subMu.Lock()
	fns := make([]func(AppState), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(state)
	}
}

// enqueuePersist replaces any not-yet-written snapshot with the newer one.
// Only the latest state matters since the document is written wholesale.
func (s *Store) enqueuePersist(state AppState) {
	if s.snapshots == nil {
		return
	}
	for {
		select {
		case s.persistCh <- state:
			return
		default:
			select {
			case <-s.persistCh:
			default:
			}
		}
	}
}

func (s *Store) persistLoop() {
	defer close(s.stopped)
	for {
		select {
		case state := <-s.persistCh:
			if err := s.snapshots.Save(context.Background(), state); err != nil {
				s.logger.Warn("snapshot write failed", "error", err)
			}
		case <-s.done:
			// Flush the last pending snapshot before exiting.
			select {
			case state := <-s.persistCh:
				if err := s.snapshots.Save(context.Background(), state); err != nil {
					s.logger.Warn("final snapshot write failed", "error", err)
				}
			default:
			}
			return
		}
	}
}

// dedupeBySemanticKey keeps the first slot for each doctor+date+start+spec
// combination. Persisted documents predating unique slot ids can contain
// semantic duplicates.
func dedupeBySemanticKey(slots []TimeSlot) []TimeSlot {
	seen := make(map[string]struct{}, len(slots))
	out := make([]TimeSlot, 0, len(slots))
	for _, s := range slots {
		key := s.SemanticKey()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}
