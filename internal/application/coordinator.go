package application

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/wrenlabs/notewire/internal/domain"
	"github.com/wrenlabs/notewire/internal/ports"
)

const (
	// Re-read triggers after a confirmed write. The list view lags confirmed
	// state, so one immediate read is usually too early; two staggered reads
	// absorb most of the propagation window.
	DefaultShortRefreshDelay = 2 * time.Second
	DefaultLongRefreshDelay  = 6 * time.Second
)

// Outcome is the final result of one mutating operation. NoteID is only set
// for creates whose confirmation carried a recoverable NoteCreated event.
type Outcome struct {
	Operation domain.WriteOperation
	TargetID  int64
	NoteID    *uint64
	Receipt   ports.Receipt
	Err       error
}

// WriteHandle lets a caller await confirmation of a dispatched write without
// blocking anything else. The outcome is delivered exactly once.
type WriteHandle struct {
	hash common.Hash
	done chan Outcome
}

func (h *WriteHandle) Hash() common.Hash    { return h.hash }
func (h *WriteHandle) Done() <-chan Outcome { return h.done }

// Coordinator drives mutating calls through an authenticated session, waits
// for confirmations, and reconciles the eventually-consistent list view
// against outstanding writes.
type Coordinator struct {
	sessions *SessionService
	contract ports.NotesContract
	clock    ports.Clock
	logger   *slog.Logger

	shortDelay time.Duration
	longDelay  time.Duration

	mu         sync.Mutex
	pending    map[int64]domain.PendingWrite
	cache      []domain.NoteSummary
	fetchSeq   uint64
	appliedSeq uint64
	awaiting   map[uint64]struct{}
	notVisible []uint64
	refreshCh  chan struct{}
}

func NewCoordinator(sessions *SessionService, contract ports.NotesContract, clock ports.Clock) *Coordinator {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &Coordinator{
		sessions:   sessions,
		contract:   contract,
		clock:      clock,
		logger:     slog.Default(),
		shortDelay: DefaultShortRefreshDelay,
		longDelay:  DefaultLongRefreshDelay,
		pending:    map[int64]domain.PendingWrite{},
		awaiting:   map[uint64]struct{}{},
		refreshCh:  make(chan struct{}, 4),
	}
}

// SetRefreshDelays overrides the staggered re-read schedule.
func (c *Coordinator) SetRefreshDelays(short, long time.Duration) {
	c.shortDelay = short
	c.longDelay = long
}

// Refreshes signals each time the cached list has been re-read after a
// confirmed write. Consumers re-render from Notes on each signal.
func (c *Coordinator) Refreshes() <-chan struct{} {
	return c.refreshCh
}

func (c *Coordinator) SubmitCreate(ctx context.Context, title, content string) (*WriteHandle, error) {
	return c.submit(ctx, domain.WriteCreate, domain.PendingTargetNew, title, content)
}

func (c *Coordinator) SubmitUpdate(ctx context.Context, id uint64, title, content string) (*WriteHandle, error) {
	target, err := targetForID(id)
	if err != nil {
		return nil, err
	}
	return c.submit(ctx, domain.WriteUpdate, target, title, content)
}

func (c *Coordinator) SubmitDelete(ctx context.Context, id uint64) (*WriteHandle, error) {
	target, err := targetForID(id)
	if err != nil {
		return nil, err
	}
	return c.submit(ctx, domain.WriteDelete, target, "", "")
}

// targetForID keeps contract note ids clear of the negative reservation
// keys, in particular the create slot at PendingTargetNew.
func targetForID(id uint64) (int64, error) {
	if id > math.MaxInt64 {
		return 0, fmt.Errorf("note id %d out of range", id)
	}
	return int64(id), nil
}

func (c *Coordinator) submit(ctx context.Context, op domain.WriteOperation, target int64, title, content string) (*WriteHandle, error) {
	session, ok := c.sessions.Current()
	if !ok {
		return nil, domain.ErrUnauthenticated
	}

	if err := c.reserve(op, target); err != nil {
		return nil, err
	}

	var (
		tx  ports.PendingTx
		err error
	)
	switch op {
	case domain.WriteCreate:
		tx, err = c.contract.CreateNote(ctx, session.Account, title, content)
	case domain.WriteUpdate:
		tx, err = c.contract.UpdateNote(ctx, session.Account, uint64(target), title, content)
	case domain.WriteDelete:
		tx, err = c.contract.DeleteNote(ctx, session.Account, uint64(target))
	default:
		err = fmt.Errorf("unsupported operation %q", op)
	}
	if err != nil {
		c.release(target)
		return nil, ClassifyDispatch(err)
	}

	handle := &WriteHandle{hash: tx.Hash(), done: make(chan Outcome, 1)}
	go c.await(op, target, tx, handle)
	return handle, nil
}

// await watches one dispatched write to its confirmation. The write cannot
// be cancelled once accepted, so waiting is detached from the caller's
// context.
func (c *Coordinator) await(op domain.WriteOperation, target int64, tx ports.PendingTx, handle *WriteHandle) {
	receipt, err := tx.Wait(context.Background())
	c.release(target)

	outcome := Outcome{Operation: op, TargetID: target, Receipt: receipt}
	if classified := ClassifyConfirmation(receipt, err); classified != nil {
		outcome.Err = classified
		c.logger.Debug("write failed", "op", string(op), "target", target, "error", classified)
		handle.done <- outcome
		return
	}

	if op == domain.WriteCreate {
		outcome.NoteID = receipt.CreatedID
		if receipt.CreatedID != nil {
			c.expectVisible(*receipt.CreatedID)
		}
	}
	c.logger.Debug("write confirmed", "op", string(op), "target", target, "tx", receipt.TxHash.Hex())

	c.scheduleRefreshes()
	handle.done <- outcome
}

func (c *Coordinator) reserve(op domain.WriteOperation, target int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.pending[target]; ok {
		return fmt.Errorf("%s submitted at %s: %w", existing.Operation, existing.SubmittedAt.Format(time.RFC3339), domain.ErrWritePending)
	}
	c.pending[target] = domain.PendingWrite{
		Operation:   op,
		TargetID:    target,
		SubmittedAt: c.clock.Now(),
	}
	return nil
}

func (c *Coordinator) release(target int64) {
	c.mu.Lock()
	delete(c.pending, target)
	c.mu.Unlock()
}

// PendingWrites snapshots the writes still awaiting confirmation.
func (c *Coordinator) PendingWrites() []domain.PendingWrite {
	c.mu.Lock()
	defer c.mu.Unlock()

	writes := make([]domain.PendingWrite, 0, len(c.pending))
	for _, w := range c.pending {
		writes = append(writes, w)
	}
	return writes
}

// scheduleRefreshes arms the two staggered re-reads. Each trigger re-reads
// the list and emits a refresh signal; after the second, any confirmed
// create still missing from the list is recorded as not-yet-visible.
func (c *Coordinator) scheduleRefreshes() {
	time.AfterFunc(c.shortDelay, func() {
		c.refreshAndSignal(false)
	})
	time.AfterFunc(c.longDelay, func() {
		c.refreshAndSignal(true)
	})
}

func (c *Coordinator) refreshAndSignal(final bool) {
	if _, err := c.RefreshList(context.Background()); err != nil {
		c.logger.Debug("scheduled list refresh failed", "error", err)
	}
	if final {
		c.recordInvisible()
	}
	select {
	case c.refreshCh <- struct{}{}:
	default:
	}
}

// RefreshList fetches the caller-scoped list and installs it in the cache.
// Concurrent fetches race benignly: the most recently completed read wins
// whole, never merged.
func (c *Coordinator) RefreshList(ctx context.Context) ([]domain.NoteSummary, error) {
	session, ok := c.sessions.Current()
	if !ok {
		return nil, domain.ErrUnauthenticated
	}

	c.mu.Lock()
	c.fetchSeq++
	seq := c.fetchSeq
	c.mu.Unlock()

	summaries, err := c.contract.GetNotesList(ctx, session.Account)
	if err != nil {
		return nil, fmt.Errorf("fetch notes list: %w", err)
	}
	domain.SortSummaries(summaries)

	c.mu.Lock()
	if seq > c.appliedSeq {
		c.appliedSeq = seq
		c.cache = summaries
		for _, s := range summaries {
			delete(c.awaiting, s.ID)
		}
	}
	result := append([]domain.NoteSummary(nil), c.cache...)
	c.mu.Unlock()

	return result, nil
}

// Notes returns the cached list snapshot without touching the network.
func (c *Coordinator) Notes() []domain.NoteSummary {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.NoteSummary(nil), c.cache...)
}

// FetchNote reads one note, caller-scoped to the active session.
func (c *Coordinator) FetchNote(ctx context.Context, id uint64) (domain.Note, error) {
	session, ok := c.sessions.Current()
	if !ok {
		return domain.Note{}, domain.ErrUnauthenticated
	}

	note, err := c.contract.GetNote(ctx, session.Account, id)
	if err != nil {
		return domain.Note{}, fmt.Errorf("fetch note %d: %w", id, err)
	}
	return note, nil
}

func (c *Coordinator) expectVisible(id uint64) {
	c.mu.Lock()
	c.awaiting[id] = struct{}{}
	c.mu.Unlock()
}

func (c *Coordinator) recordInvisible() {
	c.mu.Lock()
	for id := range c.awaiting {
		c.notVisible = append(c.notVisible, id)
		delete(c.awaiting, id)
	}
	c.mu.Unlock()
}

// NotYetVisible drains the ids of confirmed creates that both scheduled
// re-reads failed to surface. This is expected propagation lag, not an
// error; callers show it as a recommendation.
func (c *Coordinator) NotYetVisible() []uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids := c.notVisible
	c.notVisible = nil
	return ids
}
