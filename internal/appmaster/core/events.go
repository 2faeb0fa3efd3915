package core

type EventType string

const (
	EventJobSetNumReduces           EventType = "JOB_SET_NUM_REDUCES"
	EventAttemptTooManyFetchFailure EventType = "TA_TOO_MANY_FETCH_FAILURE"
)

// Event is a command for the scheduler that owns the job model.
type Event interface {
	Type() EventType
}

type JobSetNumReducesEvent struct {
	JobID      JobID
	NumReduces int
}

func (JobSetNumReducesEvent) Type() EventType {
	return EventJobSetNumReduces
}

type TaskAttemptEvent struct {
	AttemptID AttemptID
	Kind      EventType
}

func (e TaskAttemptEvent) Type() EventType {
	return e.Kind
}

// EventHandler accepts events for asynchronous processing. A nil error means
// the event was accepted, not that it has taken effect.
type EventHandler interface {
	Handle(ev Event) error
}

// MutableJob is the capability handed to mutation handlers only. The read
// path works on Job and never sees these methods.
type MutableJob interface {
	Job

	EventHandler() EventHandler
	SetCallbackPort(port int)
	CallbackPort() int

	// MutableTask returns nil when the job has no such task.
	MutableTask(id TaskID) MutableTask
}

type MutableTask interface {
	Task

	// MutableAttempt returns nil when the task has no such attempt.
	MutableAttempt(id AttemptID) MutableAttempt
}

type MutableAttempt interface {
	Attempt

	Handle(ev TaskAttemptEvent) error
}
