package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/fastprodman/moneyd/internal/repos/accounts"
)

// Writer persists account snapshots in the background, in the order they were
// enqueued. Failed writes are logged and dropped; the next mutation of the
// same account writes its full state again.
type Writer struct {
	repo    accounts.Accounts
	observe func(backend string, err error)

	mu    sync.Mutex
	queue []accounts.Record
	wake  chan struct{}

	drainMu sync.Mutex
}

type WriterOption func(*Writer)

// WithObserver registers a callback invoked after every write attempt.
func WithObserver(fn func(backend string, err error)) WriterOption {
	return func(w *Writer) {
		w.observe = fn
	}
}

func NewWriter(repo accounts.Accounts, opts ...WriterOption) *Writer {
	w := &Writer{
		repo: repo,
		wake: make(chan struct{}, 1),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Enqueue implements Sink.
func (w *Writer) Enqueue(rec accounts.Record) {
	w.mu.Lock()
	w.queue = append(w.queue, rec)
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// Depth is the number of snapshots waiting to be written.
func (w *Writer) Depth() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	return len(w.queue)
}

// Run writes queued snapshots until ctx is done. Snapshots still queued at
// that point are left for Flush.
func (w *Writer) Run(ctx context.Context) error {
	slog.Info("persistence writer started", "backend", w.repo.Name())

	for {
		select {
		case <-ctx.Done():
			slog.Info("persistence writer stopped", "pending", w.Depth())

			return nil
		case <-w.wake:
			// a write already popped must not be cut short by shutdown
			w.drain(context.WithoutCancel(ctx))
		}
	}
}

// Flush writes everything queued so far. It returns an error only when ctx
// ends before the queue is empty.
func (w *Writer) Flush(ctx context.Context) error {
	w.drain(ctx)

	err := ctx.Err()
	if err != nil {
		return fmt.Errorf("flush: %d snapshots not written: %w", w.Depth(), err)
	}

	return nil
}

func (w *Writer) drain(ctx context.Context) {
	w.drainMu.Lock()
	defer w.drainMu.Unlock()

	for ctx.Err() == nil {
		rec, ok := w.pop()
		if !ok {
			return
		}

		err := w.repo.Store(ctx, rec)
		if err != nil {
			slog.Error("persist account", "account_id", rec.ID, "backend", w.repo.Name(), "error", err)
		}

		if w.observe != nil {
			w.observe(w.repo.Name(), err)
		}
	}
}

func (w *Writer) pop() (accounts.Record, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.queue) == 0 {
		return accounts.Record{}, false
	}

	rec := w.queue[0]
	w.queue[0] = accounts.Record{}
	w.queue = w.queue[1:]

	return rec, true
}
