package storage

import (
	"sort"
	"sync"
	"time"

	"github.com/nemanja-m/amstatus/internal/appmaster/core"
)

type TaskSpec struct {
	ID         core.TaskID
	State      core.TaskState
	Progress   float32
	StartTime  time.Time
	FinishTime time.Time
}

type Task struct {
	mu       sync.RWMutex
	spec     TaskSpec
	attempts map[core.AttemptID]*Attempt
	job      *Job
}

var _ core.MutableTask = (*Task)(nil)

func NewTask(spec TaskSpec) *Task {
	if spec.State == "" {
		spec.State = core.TaskStateNew
	}
	return &Task{
		spec:     spec,
		attempts: make(map[core.AttemptID]*Attempt),
	}
}

// AddAttempt attaches an attempt to the task, replacing any attempt with the same id.
func (t *Task) AddAttempt(attempt *Attempt) *Task {
	attempt.attach(t)
	t.mu.Lock()
	defer t.mu.Unlock()
	t.attempts[attempt.ID()] = attempt
	return t
}

func (t *Task) ID() core.TaskID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.spec.ID
}

func (t *Task) Type() core.TaskType {
	return t.ID().Type
}

func (t *Task) State() core.TaskState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.spec.State
}

func (t *Task) Progress() float32 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.spec.Progress
}

func (t *Task) StartTime() time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.spec.StartTime
}

func (t *Task) FinishTime() time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.spec.FinishTime
}

func (t *Task) SuccessfulAttempt() (core.AttemptID, bool) {
	for _, a := range t.sortedAttempts() {
		if a.State() == core.AttemptStateSucceeded {
			return a.ID(), true
		}
	}
	return core.AttemptID{}, false
}

// Counters reports the successful attempt's counters, or those of the most
// recent attempt while the task has not succeeded.
func (t *Task) Counters() core.Counters {
	attempts := t.sortedAttempts()
	if len(attempts) == 0 {
		return core.Counters{}
	}
	for _, a := range attempts {
		if a.State() == core.AttemptStateSucceeded {
			return a.Counters()
		}
	}
	return attempts[len(attempts)-1].Counters()
}

func (t *Task) Attempts() []core.Attempt {
	sorted := t.sortedAttempts()
	attempts := make([]core.Attempt, 0, len(sorted))
	for _, a := range sorted {
		attempts = append(attempts, a)
	}
	return attempts
}

func (t *Task) Attempt(id core.AttemptID) core.Attempt {
	if a := t.attempt(id); a != nil {
		return a
	}
	return nil
}

func (t *Task) MutableAttempt(id core.AttemptID) core.MutableAttempt {
	if a := t.attempt(id); a != nil {
		return a
	}
	return nil
}

func (t *Task) attach(job *Job) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.job = job
}

func (t *Task) eventHandler() core.EventHandler {
	t.mu.RLock()
	job := t.job
	t.mu.RUnlock()
	if job == nil {
		return detachedHandler{}
	}
	return job.EventHandler()
}

// reschedule moves the task back to SCHEDULED and adds a fresh attempt.
func (t *Task) reschedule() core.AttemptID {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := 0
	for id := range t.attempts {
		if id.ID >= next {
			next = id.ID + 1
		}
	}
	attempt := NewAttempt(AttemptSpec{
		ID:    core.AttemptID{TaskID: t.spec.ID, ID: next},
		State: core.AttemptStateNew,
	})
	attempt.attach(t)
	t.attempts[attempt.ID()] = attempt

	t.spec.State = core.TaskStateScheduled
	t.spec.FinishTime = time.Time{}
	return attempt.ID()
}

func (t *Task) attempt(id core.AttemptID) *Attempt {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.attempts[id]
}

func (t *Task) sortedAttempts() []*Attempt {
	t.mu.RLock()
	attempts := make([]*Attempt, 0, len(t.attempts))
	for _, a := range t.attempts {
		attempts = append(attempts, a)
	}
	t.mu.RUnlock()

	sort.Slice(attempts, func(i, j int) bool {
		return attempts[i].ID().ID < attempts[j].ID().ID
	})
	return attempts
}
