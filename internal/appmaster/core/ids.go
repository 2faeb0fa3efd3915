package core

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	jobPrefix     = "job"
	taskPrefix    = "task"
	attemptPrefix = "attempt"
	idSeparator   = "_"
)

type TaskType string

const (
	TaskTypeMap    TaskType = "MAP"
	TaskTypeReduce TaskType = "REDUCE"
)

// Symbol returns the single letter used for the type inside identifiers.
func (t TaskType) Symbol() string {
	switch t {
	case TaskTypeMap:
		return "m"
	case TaskTypeReduce:
		return "r"
	}
	return ""
}

// ParseTaskType converts "m" or "r" (case-insensitive) into a TaskType.
func ParseTaskType(symbol string) (TaskType, error) {
	switch strings.ToLower(symbol) {
	case "m":
		return TaskTypeMap, nil
	case "r":
		return TaskTypeReduce, nil
	}
	return "", ErrMalformed.New("unknown task type symbol %q", symbol)
}

// JobID identifies a job within a cluster instance. Its textual form is
// job_<clusterTimestamp>_<id>, with id zero-padded to four digits.
type JobID struct {
	ClusterTimestamp int64
	ID               int
}

func (id JobID) String() string {
	return fmt.Sprintf("%s_%s", jobPrefix, id.suffix())
}

func (id JobID) suffix() string {
	return fmt.Sprintf("%d_%04d", id.ClusterTimestamp, id.ID)
}

// TaskID identifies a task relative to its job.
// Textual form: task_<clusterTimestamp>_<jobId>_<m|r>_<id>, id padded to six digits.
type TaskID struct {
	JobID JobID
	Type  TaskType
	ID    int
}

func (id TaskID) String() string {
	return fmt.Sprintf("%s_%s", taskPrefix, id.suffix())
}

func (id TaskID) suffix() string {
	return fmt.Sprintf("%s_%s_%06d", id.JobID.suffix(), id.Type.Symbol(), id.ID)
}

// AttemptID identifies one execution of a task.
// Textual form: attempt_<clusterTimestamp>_<jobId>_<m|r>_<taskId>_<id>.
type AttemptID struct {
	TaskID TaskID
	ID     int
}

func (id AttemptID) String() string {
	return fmt.Sprintf("%s_%s_%d", attemptPrefix, id.TaskID.suffix(), id.ID)
}

// ParseJobID parses the canonical textual form of a job identifier.
func ParseJobID(s string) (JobID, error) {
	parts := strings.Split(s, idSeparator)
	if len(parts) != 3 || parts[0] != jobPrefix {
		return JobID{}, ErrMalformed.New("invalid job id %q", s)
	}
	id, err := parseJobParts(parts[1:])
	if err != nil {
		return JobID{}, ErrMalformed.New("invalid job id %q: %v", s, err)
	}
	if id.String() != s {
		return JobID{}, ErrMalformed.New("job id %q is not in canonical form", s)
	}
	return id, nil
}

// ParseTaskID parses the canonical textual form of a task identifier.
func ParseTaskID(s string) (TaskID, error) {
	parts := strings.Split(s, idSeparator)
	if len(parts) != 5 || parts[0] != taskPrefix {
		return TaskID{}, ErrMalformed.New("invalid task id %q", s)
	}
	id, err := parseTaskParts(parts[1:])
	if err != nil {
		return TaskID{}, ErrMalformed.New("invalid task id %q: %v", s, err)
	}
	if id.String() != s {
		return TaskID{}, ErrMalformed.New("task id %q is not in canonical form", s)
	}
	return id, nil
}

// ParseAttemptID parses the canonical textual form of a task attempt identifier.
func ParseAttemptID(s string) (AttemptID, error) {
	parts := strings.Split(s, idSeparator)
	if len(parts) != 6 || parts[0] != attemptPrefix {
		return AttemptID{}, ErrMalformed.New("invalid task attempt id %q", s)
	}
	taskID, err := parseTaskParts(parts[1:5])
	if err != nil {
		return AttemptID{}, ErrMalformed.New("invalid task attempt id %q: %v", s, err)
	}
	seq, err := parseSequence(parts[5])
	if err != nil {
		return AttemptID{}, ErrMalformed.New("invalid task attempt id %q: %v", s, err)
	}
	id := AttemptID{TaskID: taskID, ID: seq}
	if id.String() != s {
		return AttemptID{}, ErrMalformed.New("task attempt id %q is not in canonical form", s)
	}
	return id, nil
}

func parseJobParts(parts []string) (JobID, error) {
	ts, err := strconv.ParseUint(parts[0], 10, 63)
	if err != nil {
		return JobID{}, err
	}
	seq, err := parseSequence(parts[1])
	if err != nil {
		return JobID{}, err
	}
	return JobID{ClusterTimestamp: int64(ts), ID: seq}, nil
}

func parseTaskParts(parts []string) (TaskID, error) {
	jobID, err := parseJobParts(parts[0:2])
	if err != nil {
		return TaskID{}, err
	}
	taskType, err := ParseTaskType(parts[2])
	if err != nil {
		return TaskID{}, err
	}
	seq, err := parseSequence(parts[3])
	if err != nil {
		return TaskID{}, err
	}
	return TaskID{JobID: jobID, Type: taskType, ID: seq}, nil
}

// parseSequence accepts unsigned decimal numbers that fit in an int32.
func parseSequence(s string) (int, error) {
	n, err := strconv.ParseUint(s, 10, 31)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
