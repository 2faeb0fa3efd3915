package storage

import (
	"fmt"
	"sync"
	"time"

	"github.com/nemanja-m/amstatus/internal/appmaster/core"
)

type AttemptSpec struct {
	ID                core.AttemptID
	State             core.AttemptState
	Progress          float32
	Rack              string
	NodeHTTPAddress   string
	ContainerID       string
	Diagnostics       []string
	LaunchTime        time.Time
	FinishTime        time.Time
	ShuffleFinishTime time.Time
	SortFinishTime    time.Time
	Counters          core.Counters
}

type Attempt struct {
	mu   sync.RWMutex
	spec AttemptSpec
	task *Task
}

var _ core.MutableAttempt = (*Attempt)(nil)

func NewAttempt(spec AttemptSpec) *Attempt {
	if spec.State == "" {
		spec.State = core.AttemptStateNew
	}
	return &Attempt{spec: spec}
}

func (a *Attempt) ID() core.AttemptID {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.spec.ID
}

func (a *Attempt) State() core.AttemptState {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.spec.State
}

func (a *Attempt) Progress() float32 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.spec.Progress
}

func (a *Attempt) Rack() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.spec.Rack
}

func (a *Attempt) NodeHTTPAddress() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.spec.NodeHTTPAddress
}

func (a *Attempt) AssignedContainerID() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.spec.ContainerID
}

func (a *Attempt) Diagnostics() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]string(nil), a.spec.Diagnostics...)
}

func (a *Attempt) LaunchTime() time.Time {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.spec.LaunchTime
}

func (a *Attempt) FinishTime() time.Time {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.spec.FinishTime
}

func (a *Attempt) ShuffleFinishTime() time.Time {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.spec.ShuffleFinishTime
}

func (a *Attempt) SortFinishTime() time.Time {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.spec.SortFinishTime
}

func (a *Attempt) Counters() core.Counters {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.spec.Counters.Clone()
}

// Handle forwards an attempt event to the job's dispatcher.
func (a *Attempt) Handle(ev core.TaskAttemptEvent) error {
	if id := a.ID(); ev.AttemptID != id {
		return fmt.Errorf("event for %s delivered to %s", ev.AttemptID, id)
	}
	a.mu.RLock()
	task := a.task
	a.mu.RUnlock()
	if task == nil {
		return errDetached
	}
	return task.eventHandler().Handle(ev)
}

func (a *Attempt) attach(task *Task) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.task = task
}

func (a *Attempt) fail(diagnostic string, at time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.spec.State = core.AttemptStateFailed
	a.spec.FinishTime = at
	a.spec.Diagnostics = append(a.spec.Diagnostics, diagnostic)
}
