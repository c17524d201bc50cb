package relax

import (
	"context"
	stderrors "errors"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/stipple/pkg/observability"
)

func TestStartDeliversAllRounds(t *testing.T) {
	field := randomField(t, rand.New(rand.NewPCG(1, 2)), 15, 15)
	e, err := New(field, Params{Points: 12, Iterations: 7}, WithSeed(3))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	j := Start(context.Background(), e)
	var rounds []int
	var last Snapshot
	for s := range j.C {
		rounds = append(rounds, s.Round)
		last = s
	}
	if err := j.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if len(rounds) != 7 {
		t.Fatalf("received %d snapshots, want 7", len(rounds))
	}
	for i, r := range rounds {
		if r != i+1 {
			t.Errorf("snapshot %d has round %d", i, r)
		}
	}

	final, err := j.Result()
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	if !equalPositions(final, last.Positions) {
		t.Error("Result() should equal the last snapshot")
	}
	select {
	case <-j.Done():
	default:
		t.Error("Done() should be closed after Wait")
	}
}

func TestJobCancel(t *testing.T) {
	field := randomField(t, rand.New(rand.NewPCG(3, 4)), 30, 30)
	e, err := New(field, Params{Points: 20, Iterations: 1000}, WithSeed(1))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	j := Start(context.Background(), e)
	first, ok := <-j.C
	if !ok || first.Round != 1 {
		t.Fatalf("first snapshot = %+v, %v", first.Round, ok)
	}
	j.Cancel()

	received := 1
	for range j.C {
		received++
	}
	if !stderrors.Is(j.Wait(), context.Canceled) {
		t.Errorf("Wait() = %v, want context.Canceled", j.Wait())
	}
	if received >= 1000 {
		t.Error("cancelled job delivered every round")
	}
}

func TestJobAbandonedConsumer(t *testing.T) {
	field := randomField(t, rand.New(rand.NewPCG(5, 6)), 10, 10)
	e, err := New(field, Params{Points: 5, Iterations: 100}, WithSeed(1))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	j := Start(ctx, e)
	cancel() // never read C

	done := make(chan error, 1)
	go func() { done <- j.Wait() }()
	select {
	case err := <-done:
		if !stderrors.Is(err, context.Canceled) {
			t.Errorf("Wait() = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("job did not stop after its context was cancelled")
	}
}

type recordingHooks struct {
	observability.NoopRelaxHooks
	mu        sync.Mutex
	starts    int
	rounds    []int
	completed int
	err       error
}

func (h *recordingHooks) OnRunStart(context.Context, int, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.starts++
}

func (h *recordingHooks) OnRound(_ context.Context, round, _ int, _ float64, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rounds = append(h.rounds, round)
}

func (h *recordingHooks) OnRunComplete(_ context.Context, completed int, _ time.Duration, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.completed = completed
	h.err = err
}

func TestRunReportsHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetRelaxHooks(hooks)
	t.Cleanup(observability.Reset)

	field := randomField(t, rand.New(rand.NewPCG(9, 9)), 8, 8)
	e, err := New(field, Params{Points: 4, Iterations: 6}, WithSeed(2))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := e.Run(context.Background(), nil); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if hooks.starts != 1 {
		t.Errorf("OnRunStart called %d times, want 1", hooks.starts)
	}
	if len(hooks.rounds) != 6 {
		t.Errorf("OnRound called %d times, want 6", len(hooks.rounds))
	}
	if hooks.completed != 6 || hooks.err != nil {
		t.Errorf("OnRunComplete(%d, %v), want (6, nil)", hooks.completed, hooks.err)
	}
}
