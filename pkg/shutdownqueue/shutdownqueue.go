// Package shutdownqueue runs cleanup tasks in reverse order of registration.
//
//	q := shutdownqueue.New()
//	q.Add("close db", func(ctx context.Context) error { return db.Close() })
//	...
//	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
//	defer cancel()
//	err := q.Shutdown(ctx)
//
// Tasks run once. Panics are recovered and reported as errors. Shutdown is
// idempotent and returns an aggregated error via errors.Join.
package shutdownqueue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Task is a shutdown function. It should honor ctx and return an error
// if it can't finish (or ctx is canceled).
type Task func(ctx context.Context) error

type namedTask struct {
	name string
	run  Task
}

type Queue struct {
	mu     sync.Mutex
	tasks  []namedTask
	closed bool
}

func New() *Queue {
	return &Queue{tasks: make([]namedTask, 0, 8)}
}

// Add registers a task to be run on Shutdown, in LIFO order. The name is
// used in logs and errors. If t is nil or shutdown has already started, Add
// does nothing.
func (q *Queue) Add(name string, t Task) {
	if t == nil {
		return
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	q.tasks = append(q.tasks, namedTask{name: name, run: t})
}

// Shutdown drains all registered tasks in LIFO order. Calls after the first
// are no-ops.
//
// If ctx is canceled or times out mid-drain, Shutdown stops early and returns
// an error that includes both the context error and any task errors so far.
func (q *Queue) Shutdown(ctx context.Context) error {
	q.mu.Lock()

	if q.closed {
		q.mu.Unlock()

		return nil
	}

	q.closed = true
	tasks := q.tasks
	q.tasks = nil

	q.mu.Unlock()

	var errs []error

	for i := len(tasks) - 1; i >= 0; i-- {
		select {
		case <-ctx.Done():
			errs = append(errs, fmt.Errorf("shutdown canceled before %q: %w", tasks[i].name, ctx.Err()))

			return errors.Join(errs...)
		default:
		}

		err := runTask(ctx, tasks[i])
		if err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func runTask(ctx context.Context, t namedTask) (err error) {
	defer func() {
		r := recover()
		if r != nil {
			err = fmt.Errorf("panic in shutdown task %q: %v", t.name, r)
		}
	}()

	slog.Info("shutdown task", "task", t.name)

	err = t.run(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", t.name, err)
	}

	return nil
}
