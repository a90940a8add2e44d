package recent

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/folio/internal/domain"
	domrecent "github.com/kailas-cloud/folio/internal/domain/recent"
	"github.com/kailas-cloud/folio/internal/usecase/search"
)

// DefaultSettle is how long a query must stay unchanged before it is remembered.
const DefaultSettle = time.Second

const writeTimeout = 5 * time.Second

var sessionRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,128}$`)

// Recorder remembers the queries a session settles on.
type Recorder struct {
	store  Store
	settle time.Duration
	logger *zap.Logger

	mu      sync.Mutex
	pending map[string]*search.Debouncer
	closed  bool
	wg      sync.WaitGroup
}

// New creates a recorder. A non-positive settle uses DefaultSettle.
func New(store Store, settle time.Duration, logger *zap.Logger) *Recorder {
	if settle <= 0 {
		settle = DefaultSettle
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{
		store:   store,
		settle:  settle,
		logger:  logger,
		pending: make(map[string]*search.Debouncer),
	}
}

// ValidateSession checks a client-supplied session ID.
func ValidateSession(session string) error {
	if !sessionRegex.MatchString(session) {
		return fmt.Errorf("%w: must be 1-128 alphanumeric, underscore or hyphen characters", domain.ErrInvalidSession)
	}
	return nil
}

// Observe schedules q to be added to the session's log once the session
// stops typing for the settle window. Superseded queries are never written.
func (r *Recorder) Observe(session, q string) error {
	if err := ValidateSession(session); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	d, ok := r.pending[session]
	if !ok {
		d = search.NewDebouncer(r.settle)
		r.pending[session] = d
	}

	// Submitting under r.mu keeps release from dropping d before the new run is queued.
	d.Submit(func(seq uint64) {
		r.mu.Lock()
		if r.closed {
			r.mu.Unlock()
			return
		}
		r.wg.Add(1)
		r.mu.Unlock()
		defer r.wg.Done()
		r.commit(session, q)
		r.release(session, d, seq)
	})
	return nil
}

func (r *Recorder) commit(session, q string) {
	if !domrecent.Worth(q) {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	log, changed := r.store.Load(ctx, session).Add(q)
	if !changed {
		return
	}
	if err := r.store.Save(ctx, session, log); err != nil {
		r.logger.Warn("Failed to save recent search", zap.String("session", session), zap.Error(err))
	}
}

// release drops the session's debouncer unless a newer query arrived meanwhile.
func (r *Recorder) release(session string, d *search.Debouncer, seq uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pending[session] == d && d.IsCurrent(seq) {
		delete(r.pending, session)
	}
}

// Record adds q to the session's log immediately.
func (r *Recorder) Record(ctx context.Context, session, q string) ([]string, error) {
	if err := ValidateSession(session); err != nil {
		return nil, err
	}
	log := r.store.Load(ctx, session)
	next, changed := log.Add(q)
	if !changed {
		return log.Terms(), nil
	}
	if err := r.store.Save(ctx, session, next); err != nil {
		return nil, fmt.Errorf("save recent searches: %w", err)
	}
	return next.Terms(), nil
}

// List returns the session's recent queries, newest first.
func (r *Recorder) List(ctx context.Context, session string) ([]string, error) {
	if err := ValidateSession(session); err != nil {
		return nil, err
	}
	return r.store.Load(ctx, session).Terms(), nil
}

// Clear cancels any pending write and deletes the session's log.
func (r *Recorder) Clear(ctx context.Context, session string) error {
	if err := ValidateSession(session); err != nil {
		return err
	}
	r.mu.Lock()
	if d, ok := r.pending[session]; ok {
		d.Stop()
		delete(r.pending, session)
	}
	r.mu.Unlock()

	if err := r.store.Clear(ctx, session); err != nil {
		return fmt.Errorf("clear recent searches: %w", err)
	}
	return nil
}

// Close cancels pending writes and waits for running ones.
func (r *Recorder) Close() {
	r.mu.Lock()
	r.closed = true
	for session, d := range r.pending {
		d.Stop()
		delete(r.pending, session)
	}
	r.mu.Unlock()
	r.wg.Wait()
}
