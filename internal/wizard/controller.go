package wizard

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"muscledynamics/workout-builder/internal/domain"
)

// Fetcher runs exercise queries. *client.Client satisfies it.
type Fetcher interface {
	ListExercises(ctx context.Context, filter domain.ExerciseFilter, page, limit int) (*domain.ExercisePage, error)
}

// Request is a query issued by Dispatch and run by Execute.
type Request struct {
	Seq    uint64
	Filter domain.ExerciseFilter

	ctx    context.Context
	cancel context.CancelFunc
}

// Controller owns the current State and the query sequence. Only one query is
// live at a time: issuing a new one cancels its predecessor, and Reduce drops
// any answer that is not for the latest sequence number.
type Controller struct {
	fetcher Fetcher
	limit   int
	logger  *zap.Logger

	mu       sync.Mutex
	state    State
	seq      uint64
	inflight context.CancelFunc
}

// NewController starts a flow at Initial. limit is the page size asked of the
// API; non-positive uses the server default.
func NewController(fetcher Fetcher, limit int, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		fetcher: fetcher,
		limit:   limit,
		logger:  logger,
		state:   Initial(),
	}
}

// State returns the current snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Dispatch applies a. When the transition changes a complete selection pair it
// cancels the in-flight query and returns a new Request for the caller to
// Execute; otherwise the Request is nil.
func (c *Controller) Dispatch(a Action) (State, *Request) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prev := c.state
	next := Reduce(prev, a)

	if _, ok := a.(Reset); ok {
		c.cancelInflight()
	}

	var req *Request
	if NeedsQuery(prev, next) {
		next, req = c.issue(next)
	}

	c.state = next
	return next, req
}

// Retry re-issues the query for the current selections. It returns a nil
// Request when the selections are incomplete.
func (c *Controller) Retry() (State, *Request) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.state.Ready() {
		return c.state, nil
	}
	var req *Request
	c.state, req = c.issue(c.state)
	return c.state, req
}

func (c *Controller) issue(s State) (State, *Request) {
	c.cancelInflight()
	c.seq++
	ctx, cancel := context.WithCancel(context.Background())
	c.inflight = cancel
	c.logger.Debug("Exercise query issued",
		zap.Uint64("seq", c.seq),
		zap.Strings("equipment", s.Equipment),
		zap.Strings("muscles", s.Muscles))
	req := &Request{Seq: c.seq, Filter: s.Filter(), ctx: ctx, cancel: cancel}
	return Reduce(s, QueryStarted{Seq: c.seq}), req
}

// Execute runs r and returns the action carrying its outcome, to be passed
// back to Dispatch. It blocks until the fetch returns or r is cancelled.
func (c *Controller) Execute(r *Request) Action {
	defer r.cancel()
	page, err := c.fetcher.ListExercises(r.ctx, r.Filter, domain.DefaultPage, c.limit)
	if err != nil {
		c.logger.Debug("Exercise query failed", zap.Uint64("seq", r.Seq), zap.Error(err))
		return QueryFailed{Seq: r.Seq, Err: err}
	}
	return QueryLoaded{Seq: r.Seq, Exercises: page.Exercises}
}

// Close cancels the in-flight query, if any.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelInflight()
}

func (c *Controller) cancelInflight() {
	if c.inflight != nil {
		c.inflight()
		c.inflight = nil
	}
}
