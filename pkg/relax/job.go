package relax

import (
	"context"
	"sync"
)

// Job is a relaxation run executing on its own goroutine.
//
// Snapshots arrive on C in round order. C is closed when the run ends,
// after which Wait returns the run's error.
type Job struct {
	C <-chan Snapshot

	done   chan struct{}
	cancel context.CancelFunc

	mu     sync.Mutex
	result []float64
	err    error
}

// Start runs e on a new goroutine.
//
// The consumer must drain C or cancel ctx; a blocked send is abandoned
// when ctx is done. The engine must not be used elsewhere until the job
// finishes.
func Start(ctx context.Context, e *Engine) *Job {
	ctx, cancel := context.WithCancel(ctx)
	ch := make(chan Snapshot, 1)
	j := &Job{
		C:      ch,
		done:   make(chan struct{}),
		cancel: cancel,
	}

	go func() {
		defer close(j.done)
		defer close(ch)
		defer cancel()

		result, err := e.Run(ctx, func(s Snapshot) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			select {
			case ch <- s:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})

		j.mu.Lock()
		j.result, j.err = result, err
		j.mu.Unlock()
	}()
	return j
}

// Cancel stops the job after the current round.
func (j *Job) Cancel() { j.cancel() }

// Done is closed when the job has finished.
func (j *Job) Done() <-chan struct{} { return j.done }

// Wait blocks until the job finishes and returns its error.
func (j *Job) Wait() error {
	<-j.done
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.err
}

// Result waits for the job and returns the final positions.
func (j *Job) Result() ([]float64, error) {
	<-j.done
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result, j.err
}
