package core

// Resolver turns identifiers into live handles. Each step fails with
// ErrNotFound when the target is absent and never mutates the registry.
type Resolver interface {
	// Jobs returns the full view of every listed job, skipping jobs whose
	// full view is not available.
	Jobs() []Job
	ResolveJob(id JobID) (Job, error)
	ResolveTask(job Job, id TaskID) (Task, error)
	ResolveAttempt(task Task, id AttemptID) (Attempt, error)
}

// AccessGuard decides view permission on resolved jobs.
type AccessGuard interface {
	CanView(job Job, caller Caller) bool
	// EnforceView fails with ErrUnauthorized when CanView is false.
	EnforceView(job Job, caller Caller) error
}

// MutationService executes administrative commands against a job.
type MutationService interface {
	SetNumReducers(jobID string, count int) (CommandResult, error)
	SetCallbackPort(jobID string, port int) (CommandResult, error)

	// RerunMapTask reports every failure other than an out of range index as
	// a status token. Dispatch failures and internal faults collapse into
	// RetryFailed.
	RerunMapTask(jobID string, mapIndex int) (RetryStatus, error)
	// RerunMapTaskStrict runs the same command and returns failures as errors.
	RerunMapTaskStrict(jobID string, mapIndex int) (CommandResult, error)
}

// AckMode tells how far a command had progressed when it returned.
type AckMode string

const (
	// AckSync means the effect was applied before returning.
	AckSync AckMode = "sync"
	// AckAsync means an event was accepted; the effect lands later.
	AckAsync AckMode = "async"
)

type CommandResult struct {
	Command string
	JobID   JobID
	Ack     AckMode
}

type RetryStatus string

const (
	RetrySucceeded RetryStatus = "SUCCEEDED"
	RetryNotFound  RetryStatus = "NOTFOUND"
	RetryFailed    RetryStatus = "FAILED"
)
