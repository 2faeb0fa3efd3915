package core

import (
	"strings"
	"time"
)

type JobState string

const (
	JobStateNew       JobState = "NEW"
	JobStateInited    JobState = "INITED"
	JobStateRunning   JobState = "RUNNING"
	JobStateSucceeded JobState = "SUCCEEDED"
	JobStateFailed    JobState = "FAILED"
	JobStateKillWait  JobState = "KILL_WAIT"
	JobStateKilled    JobState = "KILLED"
	JobStateError     JobState = "ERROR"
)

type TaskState string

const (
	TaskStateNew       TaskState = "NEW"
	TaskStateScheduled TaskState = "SCHEDULED"
	TaskStateRunning   TaskState = "RUNNING"
	TaskStateSucceeded TaskState = "SUCCEEDED"
	TaskStateFailed    TaskState = "FAILED"
	TaskStateKillWait  TaskState = "KILL_WAIT"
	TaskStateKilled    TaskState = "KILLED"
)

type AttemptState string

const (
	AttemptStateNew           AttemptState = "NEW"
	AttemptStateStarting      AttemptState = "STARTING"
	AttemptStateRunning       AttemptState = "RUNNING"
	AttemptStateCommitPending AttemptState = "COMMIT_PENDING"
	AttemptStateSucceeded     AttemptState = "SUCCEEDED"
	AttemptStateFailed        AttemptState = "FAILED"
	AttemptStateKilled        AttemptState = "KILLED"
)

// JobACL names an operation guarded by a job access-control list.
type JobACL string

const (
	JobACLViewJob   JobACL = "mapreduce.job.acl-view-job"
	JobACLModifyJob JobACL = "mapreduce.job.acl-modify-job"
)

// AccessControlList is the set of users granted an operation on a job.
type AccessControlList struct {
	AllAllowed bool
	Users      []string
}

// ParseAccessControlList reads the comma separated form; "*" allows everyone.
func ParseAccessControlList(s string) AccessControlList {
	s = strings.TrimSpace(s)
	if s == "*" {
		return AccessControlList{AllAllowed: true}
	}
	var users []string
	for _, u := range strings.Split(s, ",") {
		if u = strings.TrimSpace(u); u != "" {
			users = append(users, u)
		}
	}
	return AccessControlList{Users: users}
}

func (acl AccessControlList) IsUserAllowed(user string) bool {
	if acl.AllAllowed {
		return true
	}
	for _, u := range acl.Users {
		if u == user {
			return true
		}
	}
	return false
}

func (acl AccessControlList) String() string {
	if acl.AllAllowed {
		return "*"
	}
	return strings.Join(acl.Users, ",")
}

// Caller is the identity supplied by the transport. An empty User means the
// request is unauthenticated.
type Caller struct {
	User string
}

func (c Caller) Anonymous() bool {
	return c.User == ""
}

type Counter struct {
	Name        string
	DisplayName string
	Value       int64
}

type CounterGroup struct {
	Name        string
	DisplayName string
	Counters    []Counter
}

type Counters struct {
	Groups []CounterGroup
}

// AMInfo records one historical attempt of the job's application master.
type AMInfo struct {
	AttemptID           int
	StartTime           time.Time
	ContainerID         string
	NodeManagerHost     string
	NodeManagerPort     int
	NodeManagerHTTPPort int
}

// PartialJob is the cheap listing view of a job kept by the registry.
type PartialJob struct {
	ID    JobID
	Name  string
	User  string
	State JobState
}

// Job is the read-only view of a job. Each accessor is individually
// consistent; consecutive calls may observe different model revisions.
type Job interface {
	ID() JobID
	Name() string
	User() string
	State() JobState
	Diagnostics() []string
	ACL(op JobACL) AccessControlList
	AMInfos() []AMInfo

	TotalMaps() int
	TotalReduces() int
	CompletedMaps() int
	CompletedReduces() int
	MapProgress() float32
	ReduceProgress() float32

	StartTime() time.Time
	FinishTime() time.Time
	Uberized() bool
	ConfFile() string
	Counters() Counters

	// Tasks returns the job's tasks ordered by identifier.
	Tasks() []Task
	// Task returns nil when the job has no such task.
	Task(id TaskID) Task
}

type Task interface {
	ID() TaskID
	Type() TaskType
	State() TaskState
	Progress() float32
	StartTime() time.Time
	FinishTime() time.Time
	SuccessfulAttempt() (AttemptID, bool)
	Counters() Counters

	// Attempts returns the task's attempts ordered by identifier.
	Attempts() []Attempt
	// Attempt returns nil when the task has no such attempt.
	Attempt(id AttemptID) Attempt
}

type Attempt interface {
	ID() AttemptID
	State() AttemptState
	Progress() float32
	Rack() string
	NodeHTTPAddress() string
	AssignedContainerID() string
	Diagnostics() []string

	LaunchTime() time.Time
	FinishTime() time.Time
	// ShuffleFinishTime and SortFinishTime are only meaningful for reduce attempts.
	ShuffleFinishTime() time.Time
	SortFinishTime() time.Time

	Counters() Counters
}
