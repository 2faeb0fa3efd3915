package storage

import (
	"context"
	"sync"

	"github.com/nemanja-m/amstatus/internal/appmaster/core"
	"github.com/nemanja-m/amstatus/internal/shared/logging"
)

// InMemoryJobRegistry keeps jobs in registration order. A job can be known
// only by its partial view until AddJob registers the full one.
type InMemoryJobRegistry struct {
	mu       sync.RWMutex
	order    []core.JobID
	partials map[core.JobID]core.PartialJob
	jobs     map[core.JobID]*Job

	dispatcher *Dispatcher
}

var (
	_ core.JobRegistry        = (*InMemoryJobRegistry)(nil)
	_ core.MutableJobRegistry = (*InMemoryJobRegistry)(nil)
)

func NewInMemoryJobRegistry(logger logging.Logger) *InMemoryJobRegistry {
	r := &InMemoryJobRegistry{
		partials: make(map[core.JobID]core.PartialJob),
		jobs:     make(map[core.JobID]*Job),
	}
	r.dispatcher = NewDispatcher(r.job, logger)
	return r
}

// AddJob registers the full view of a job and wires it to the dispatcher.
func (r *InMemoryJobRegistry) AddJob(job *Job) {
	job.attach(r.dispatcher)
	id := job.ID()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.track(id)
	delete(r.partials, id)
	r.jobs[id] = job
}

// AddPartialJob registers a job that is listed but has no full view yet.
func (r *InMemoryJobRegistry) AddPartialJob(partial core.PartialJob) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.jobs[partial.ID]; exists {
		return
	}
	r.track(partial.ID)
	r.partials[partial.ID] = partial
}

func (r *InMemoryJobRegistry) RemoveJob(id core.JobID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.jobs, id)
	delete(r.partials, id)
	for i, tracked := range r.order {
		if tracked == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

func (r *InMemoryJobRegistry) ListPartial() []core.PartialJob {
	r.mu.RLock()
	defer r.mu.RUnlock()

	partials := make([]core.PartialJob, 0, len(r.order))
	for _, id := range r.order {
		if job, ok := r.jobs[id]; ok {
			partials = append(partials, core.PartialJob{
				ID:    id,
				Name:  job.Name(),
				User:  job.User(),
				State: job.State(),
			})
			continue
		}
		partials = append(partials, r.partials[id])
	}
	return partials
}

func (r *InMemoryJobRegistry) GetFull(id core.JobID) core.Job {
	if job := r.job(id); job != nil {
		return job
	}
	return nil
}

func (r *InMemoryJobRegistry) GetMutable(id core.JobID) core.MutableJob {
	if job := r.job(id); job != nil {
		return job
	}
	return nil
}

func (r *InMemoryJobRegistry) Dispatcher() *Dispatcher {
	return r.dispatcher
}

// RunDispatcher applies dispatched events until ctx is done.
func (r *InMemoryJobRegistry) RunDispatcher(ctx context.Context) {
	r.dispatcher.Run(ctx)
}

func (r *InMemoryJobRegistry) job(id core.JobID) *Job {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.jobs[id]
}

func (r *InMemoryJobRegistry) track(id core.JobID) {
	if _, ok := r.jobs[id]; ok {
		return
	}
	if _, ok := r.partials[id]; ok {
		return
	}
	r.order = append(r.order, id)
}
