package service

import (
	"fmt"

	"github.com/nemanja-m/amstatus/internal/appmaster/core"
	"github.com/nemanja-m/amstatus/internal/shared/logging"
)

// Command is a mutation on a single job. Validate checks preconditions
// against the resolved job and Execute applies or dispatches the change.
type Command interface {
	Name() string
	Ack() core.AckMode
	Validate(job core.MutableJob) error
	Execute(job core.MutableJob) error
}

type SetReduceCount struct {
	Count int
}

func (c SetReduceCount) Name() string {
	return "setnumreducers"
}

func (c SetReduceCount) Ack() core.AckMode {
	return core.AckAsync
}

func (c SetReduceCount) Validate(job core.MutableJob) error {
	if running := job.TotalReduces(); c.Count < running {
		return core.ErrBadRequest.New("fewer reduces than running: requested %d, running %d", c.Count, running)
	}
	return nil
}

func (c SetReduceCount) Execute(job core.MutableJob) error {
	return job.EventHandler().Handle(core.JobSetNumReducesEvent{JobID: job.ID(), NumReduces: c.Count})
}

// RerunMapTask fails the zeroth attempt of a map task with a fetch failure
// so the scheduler launches a new attempt.
type RerunMapTask struct {
	MapIndex int
}

func (c RerunMapTask) Name() string {
	return "rerunmaptask"
}

func (c RerunMapTask) Ack() core.AckMode {
	return core.AckAsync
}

func (c RerunMapTask) Validate(job core.MutableJob) error {
	if c.MapIndex < 0 || c.MapIndex >= job.TotalMaps() {
		return core.ErrBadRequest.New("map index %d out of range, job has %d maps", c.MapIndex, job.TotalMaps())
	}
	return nil
}

func (c RerunMapTask) Execute(job core.MutableJob) error {
	taskID := core.TaskID{JobID: job.ID(), Type: core.TaskTypeMap, ID: c.MapIndex}
	task := job.MutableTask(taskID)
	if task == nil {
		return core.ErrNotFound.New("task, %s, is not found", taskID)
	}
	attemptID := core.AttemptID{TaskID: taskID, ID: 0}
	attempt := task.MutableAttempt(attemptID)
	if attempt == nil {
		return core.ErrNotFound.New("attempt, %s, is not found", attemptID)
	}
	return attempt.Handle(core.TaskAttemptEvent{
		AttemptID: attemptID,
		Kind:      core.EventAttemptTooManyFetchFailure,
	})
}

// SetCallbackPort writes the port on the job directly instead of going
// through the scheduler, so it is acknowledged synchronously.
type SetCallbackPort struct {
	Port int
}

func (c SetCallbackPort) Name() string {
	return "workbuilderport"
}

func (c SetCallbackPort) Ack() core.AckMode {
	return core.AckSync
}

func (c SetCallbackPort) Validate(core.MutableJob) error {
	return nil
}

func (c SetCallbackPort) Execute(job core.MutableJob) error {
	job.SetCallbackPort(c.Port)
	return nil
}

type mutationService struct {
	registry core.MutableJobRegistry
	logger   logging.Logger
}

func NewMutationService(registry core.MutableJobRegistry, logger logging.Logger) core.MutationService {
	return &mutationService{
		registry: registry,
		logger:   logger,
	}
}

func (s *mutationService) SetNumReducers(jobID string, count int) (core.CommandResult, error) {
	return s.execute(jobID, SetReduceCount{Count: count})
}

func (s *mutationService) SetCallbackPort(jobID string, port int) (core.CommandResult, error) {
	return s.execute(jobID, SetCallbackPort{Port: port})
}

func (s *mutationService) RerunMapTaskStrict(jobID string, mapIndex int) (core.CommandResult, error) {
	return s.execute(jobID, RerunMapTask{MapIndex: mapIndex})
}

func (s *mutationService) RerunMapTask(jobID string, mapIndex int) (status core.RetryStatus, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("Rerun map task failed", "job_id", jobID, "map_index", mapIndex, "panic", fmt.Sprint(r))
			status, err = core.RetryFailed, nil
		}
	}()

	_, err = s.execute(jobID, RerunMapTask{MapIndex: mapIndex})
	switch {
	case err == nil:
		return core.RetrySucceeded, nil
	case core.ErrBadRequest.Has(err):
		return "", err
	case core.ErrNotFound.Has(err), core.ErrMalformed.Has(err):
		return core.RetryNotFound, nil
	default:
		s.logger.Warn("Rerun map task failed", "job_id", jobID, "map_index", mapIndex, "error", err)
		return core.RetryFailed, nil
	}
}

func (s *mutationService) execute(jobID string, cmd Command) (core.CommandResult, error) {
	id, err := core.ParseJobID(jobID)
	if err != nil {
		return core.CommandResult{}, err
	}
	job := s.registry.GetMutable(id)
	if job == nil {
		return core.CommandResult{}, core.ErrNotFound.New("job, %s, is not found", jobID)
	}

	if err := cmd.Validate(job); err != nil {
		return core.CommandResult{}, err
	}
	if err := cmd.Execute(job); err != nil {
		return core.CommandResult{}, err
	}

	s.logger.Info("Executed job command", "command", cmd.Name(), "job_id", jobID, "ack", string(cmd.Ack()))
	return core.CommandResult{Command: cmd.Name(), JobID: id, Ack: cmd.Ack()}, nil
}
