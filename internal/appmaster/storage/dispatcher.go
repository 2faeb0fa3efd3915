package storage

import (
	"container/heap"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nemanja-m/amstatus/internal/appmaster/core"
	"github.com/nemanja-m/amstatus/internal/shared/logging"
)

// eventPriority orders pending events (lower value means higher priority).
type eventPriority int

const (
	eventPriorityHigh eventPriority = 0
	eventPriorityLow  eventPriority = 2
)

const fetchFailureDiagnostic = "Too many fetch failures. Failing the attempt"

// Dispatcher stands in for the scheduler's event loop. Handle only queues the
// event; Run (or Drain) applies queued events to the model. Attempt events
// are applied before job events, FIFO within the same priority.
type Dispatcher struct {
	mu       sync.Mutex
	pq       eventQueue
	sequence uint64
	signal   chan struct{}

	lookup func(core.JobID) *Job
	now    func() time.Time
	logger logging.Logger
}

var _ core.EventHandler = (*Dispatcher)(nil)

func NewDispatcher(lookup func(core.JobID) *Job, logger logging.Logger) *Dispatcher {
	pq := make(eventQueue, 0)
	heap.Init(&pq)
	return &Dispatcher{
		pq:     pq,
		signal: make(chan struct{}, 1),
		lookup: lookup,
		now:    time.Now,
		logger: logger,
	}
}

func (d *Dispatcher) Handle(ev core.Event) error {
	var priority eventPriority
	switch e := ev.(type) {
	case core.JobSetNumReducesEvent:
		priority = eventPriorityLow
	case core.TaskAttemptEvent:
		if e.Kind != core.EventAttemptTooManyFetchFailure {
			return fmt.Errorf("unsupported attempt event %q", e.Kind)
		}
		priority = eventPriorityHigh
	case nil:
		return errors.New("cannot dispatch nil event")
	default:
		return fmt.Errorf("unsupported event type %q", ev.Type())
	}

	d.mu.Lock()
	heap.Push(&d.pq, &eventItem{event: ev, priority: priority, sequence: d.sequence})
	d.sequence++
	d.mu.Unlock()

	select {
	case d.signal <- struct{}{}:
	default:
	}
	return nil
}

// Pending returns the number of queued events.
func (d *Dispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pq.Len()
}

// Run applies events as they arrive until ctx is done.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-d.signal:
			d.Drain()
		}
	}
}

// Drain applies every queued event and returns how many were applied.
func (d *Dispatcher) Drain() int {
	applied := 0
	for {
		ev, ok := d.pop()
		if !ok {
			return applied
		}
		if err := d.apply(ev); err != nil {
			d.logger.Warn("Dropping event", "type", string(ev.Type()), "error", err)
			continue
		}
		applied++
	}
}

func (d *Dispatcher) pop() (core.Event, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pq.Len() == 0 {
		return nil, false
	}
	it := heap.Pop(&d.pq).(*eventItem)
	return it.event, true
}

func (d *Dispatcher) apply(ev core.Event) error {
	switch e := ev.(type) {
	case core.JobSetNumReducesEvent:
		job := d.lookup(e.JobID)
		if job == nil {
			return fmt.Errorf("job %s not found", e.JobID)
		}
		added := job.setNumReduces(e.NumReduces)
		d.logger.Debug("Applied reduce count change",
			"job_id", e.JobID.String(),
			"num_reduces", e.NumReduces,
			"added_tasks", added,
		)
	case core.TaskAttemptEvent:
		job := d.lookup(e.AttemptID.TaskID.JobID)
		if job == nil {
			return fmt.Errorf("job %s not found", e.AttemptID.TaskID.JobID)
		}
		task := job.task(e.AttemptID.TaskID)
		if task == nil {
			return fmt.Errorf("task %s not found", e.AttemptID.TaskID)
		}
		attempt := task.attempt(e.AttemptID)
		if attempt == nil {
			return fmt.Errorf("attempt %s not found", e.AttemptID)
		}
		attempt.fail(fetchFailureDiagnostic, d.now())
		next := task.reschedule()
		d.logger.Debug("Rescheduled task after fetch failures",
			"attempt_id", e.AttemptID.String(),
			"next_attempt_id", next.String(),
		)
	}
	return nil
}

// eventItem wraps an event with its priority and insertion order.
type eventItem struct {
	event    core.Event
	priority eventPriority
	sequence uint64 // Insertion order for FIFO within same priority
	index    int    // Required by heap.Interface
}

// eventQueue satisfies heap.Interface.
type eventQueue []*eventItem

func (pq eventQueue) Len() int {
	return len(pq)
}

func (pq eventQueue) Less(i, j int) bool {
	if pq[i].priority != pq[j].priority {
		return pq[i].priority < pq[j].priority
	}
	return pq[i].sequence < pq[j].sequence
}

func (pq eventQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *eventQueue) Push(x any) {
	n := len(*pq)
	it := x.(*eventItem)
	it.index = n
	*pq = append(*pq, it)
}

func (pq *eventQueue) Pop() any {
	old := *pq
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	it.index = -1
	*pq = old[0 : n-1]
	return it
}
