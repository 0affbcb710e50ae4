package lookup

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/fundbench/fundbench-backend/internal/domain"
)

// Runner serializes lookups and guards their visible state with a
// per-lookup generation token. Starting a new lookup replaces the
// generation and resets the state; a still-running earlier lookup is
// orphaned, and any status updates or results it delivers under its stale
// generation are discarded instead of clobbering the new lookup.
type Runner struct {
	service *Service

	mu         sync.Mutex
	generation uuid.UUID
	steps      []domain.StepStatus
	result     *Result
	loading    bool
}

// NewRunner creates a new Runner instance
func NewRunner(service *Service) *Runner {
	return &Runner{service: service}
}

// Lookup resets state, runs one lookup to completion, and returns its
// result. The loading flag is cleared on every exit path; if a newer
// lookup started meanwhile, this one's state is discarded but its result
// is still returned to the direct caller.
func (r *Runner) Lookup(ctx context.Context, input Input) *Result {
	gen := r.reset()

	sink := domain.StatusSinkFunc(func(step string, state domain.StepState, detail string) {
		r.apply(gen, step, state, detail)
	})

	result := r.service.Run(ctx, input, sink)
	r.finish(gen, result)
	return result
}

// Snapshot returns the current step statuses, the completed result if any,
// and whether a lookup is in flight.
func (r *Runner) Snapshot() ([]domain.StepStatus, *Result, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	steps := make([]domain.StepStatus, len(r.steps))
	copy(steps, r.steps)
	return steps, r.result, r.loading
}

func (r *Runner) reset() uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.generation = uuid.New()
	r.steps = nil
	r.result = nil
	r.loading = true
	return r.generation
}

// apply upserts a step status: a later update for an already-reported step
// replaces it in place, so a key never appears twice.
func (r *Runner) apply(gen uuid.UUID, step string, state domain.StepState, detail string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if gen != r.generation {
		return // stale lookup
	}
	for i := range r.steps {
		if r.steps[i].Step == step {
			r.steps[i] = domain.StepStatus{Step: step, State: state, Detail: detail}
			return
		}
	}
	r.steps = append(r.steps, domain.StepStatus{Step: step, State: state, Detail: detail})
}

func (r *Runner) finish(gen uuid.UUID, result *Result) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if gen != r.generation {
		return
	}
	r.result = result
	r.loading = false
}
