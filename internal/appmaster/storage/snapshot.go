package storage

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/nemanja-m/amstatus/internal/appmaster/core"
)

// Snapshot files describe a job model to serve when the status API runs
// without a live scheduler. Times are epoch milliseconds.
type snapshot struct {
	Jobs        []jobSnapshot     `mapstructure:"jobs"`
	PartialJobs []partialSnapshot `mapstructure:"partial_jobs"`
}

type partialSnapshot struct {
	ID    string `mapstructure:"id"`
	Name  string `mapstructure:"name"`
	User  string `mapstructure:"user"`
	State string `mapstructure:"state"`
}

type jobSnapshot struct {
	ID          string            `mapstructure:"id"`
	Name        string            `mapstructure:"name"`
	User        string            `mapstructure:"user"`
	State       string            `mapstructure:"state"`
	ViewACL     string            `mapstructure:"view_acl"`
	ModifyACL   string            `mapstructure:"modify_acl"`
	Uberized    bool              `mapstructure:"uberized"`
	ConfFile    string            `mapstructure:"conf_file"`
	StartTime   int64             `mapstructure:"start_time"`
	FinishTime  int64             `mapstructure:"finish_time"`
	Diagnostics []string          `mapstructure:"diagnostics"`
	AMAttempts  []amSnapshot      `mapstructure:"am_attempts"`
	Counters    []counterSnapshot `mapstructure:"counters"`
	Tasks       []taskSnapshot    `mapstructure:"tasks"`
}

type amSnapshot struct {
	AttemptID    int    `mapstructure:"attempt_id"`
	StartTime    int64  `mapstructure:"start_time"`
	ContainerID  string `mapstructure:"container_id"`
	NodeHost     string `mapstructure:"node_host"`
	NodePort     int    `mapstructure:"node_port"`
	NodeHTTPPort int    `mapstructure:"node_http_port"`
}

type taskSnapshot struct {
	ID         string            `mapstructure:"id"`
	State      string            `mapstructure:"state"`
	Progress   float32           `mapstructure:"progress"`
	StartTime  int64             `mapstructure:"start_time"`
	FinishTime int64             `mapstructure:"finish_time"`
	Attempts   []attemptSnapshot `mapstructure:"attempts"`
}

type attemptSnapshot struct {
	ID                string            `mapstructure:"id"`
	State             string            `mapstructure:"state"`
	Progress          float32           `mapstructure:"progress"`
	Rack              string            `mapstructure:"rack"`
	NodeHTTPAddress   string            `mapstructure:"node_http_address"`
	ContainerID       string            `mapstructure:"container_id"`
	Diagnostics       []string          `mapstructure:"diagnostics"`
	LaunchTime        int64             `mapstructure:"launch_time"`
	FinishTime        int64             `mapstructure:"finish_time"`
	ShuffleFinishTime int64             `mapstructure:"shuffle_finish_time"`
	SortFinishTime    int64             `mapstructure:"sort_finish_time"`
	Counters          []counterSnapshot `mapstructure:"counters"`
}

type counterSnapshot struct {
	Group string `mapstructure:"group"`
	Name  string `mapstructure:"name"`
	Value int64  `mapstructure:"value"`
}

// LoadSnapshot reads a snapshot file and registers its jobs. It returns the
// number of jobs registered with a full view.
func LoadSnapshot(path string, registry *InMemoryJobRegistry) (int, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return 0, fmt.Errorf("error reading snapshot file: %w", err)
	}

	var snap snapshot
	if err := v.Unmarshal(&snap); err != nil {
		return 0, fmt.Errorf("error unmarshaling snapshot: %w", err)
	}

	jobs := make([]*Job, 0, len(snap.Jobs))
	for _, js := range snap.Jobs {
		job, err := js.build()
		if err != nil {
			return 0, err
		}
		jobs = append(jobs, job)
	}
	partials := make([]core.PartialJob, 0, len(snap.PartialJobs))
	for _, ps := range snap.PartialJobs {
		id, err := core.ParseJobID(ps.ID)
		if err != nil {
			return 0, err
		}
		partials = append(partials, core.PartialJob{ID: id, Name: ps.Name, User: ps.User, State: core.JobState(ps.State)})
	}

	for _, job := range jobs {
		registry.AddJob(job)
	}
	for _, partial := range partials {
		registry.AddPartialJob(partial)
	}
	return len(jobs), nil
}

func (js jobSnapshot) build() (*Job, error) {
	id, err := core.ParseJobID(js.ID)
	if err != nil {
		return nil, err
	}

	amInfos := make([]core.AMInfo, 0, len(js.AMAttempts))
	for _, am := range js.AMAttempts {
		amInfos = append(amInfos, core.AMInfo{
			AttemptID:           am.AttemptID,
			StartTime:           fromMillis(am.StartTime),
			ContainerID:         am.ContainerID,
			NodeManagerHost:     am.NodeHost,
			NodeManagerPort:     am.NodePort,
			NodeManagerHTTPPort: am.NodeHTTPPort,
		})
	}

	job := NewJob(JobSpec{
		ID:          id,
		Name:        js.Name,
		User:        js.User,
		State:       core.JobState(js.State),
		ViewACL:     core.ParseAccessControlList(js.ViewACL),
		ModifyACL:   core.ParseAccessControlList(js.ModifyACL),
		Uberized:    js.Uberized,
		ConfFile:    js.ConfFile,
		StartTime:   fromMillis(js.StartTime),
		FinishTime:  fromMillis(js.FinishTime),
		Diagnostics: js.Diagnostics,
		AMInfos:     amInfos,
		Counters:    buildCounters(js.Counters),
	})

	for _, ts := range js.Tasks {
		task, err := ts.build(id)
		if err != nil {
			return nil, err
		}
		job.AddTask(task)
	}
	return job, nil
}

func (ts taskSnapshot) build(jobID core.JobID) (*Task, error) {
	id, err := core.ParseTaskID(ts.ID)
	if err != nil {
		return nil, err
	}
	if id.JobID != jobID {
		return nil, fmt.Errorf("task %s does not belong to job %s", id, jobID)
	}

	task := NewTask(TaskSpec{
		ID:         id,
		State:      core.TaskState(ts.State),
		Progress:   ts.Progress,
		StartTime:  fromMillis(ts.StartTime),
		FinishTime: fromMillis(ts.FinishTime),
	})
	for _, as := range ts.Attempts {
		attemptID, err := core.ParseAttemptID(as.ID)
		if err != nil {
			return nil, err
		}
		if attemptID.TaskID != id {
			return nil, fmt.Errorf("attempt %s does not belong to task %s", attemptID, id)
		}
		task.AddAttempt(NewAttempt(AttemptSpec{
			ID:                attemptID,
			State:             core.AttemptState(as.State),
			Progress:          as.Progress,
			Rack:              as.Rack,
			NodeHTTPAddress:   as.NodeHTTPAddress,
			ContainerID:       as.ContainerID,
			Diagnostics:       as.Diagnostics,
			LaunchTime:        fromMillis(as.LaunchTime),
			FinishTime:        fromMillis(as.FinishTime),
			ShuffleFinishTime: fromMillis(as.ShuffleFinishTime),
			SortFinishTime:    fromMillis(as.SortFinishTime),
			Counters:          buildCounters(as.Counters),
		}))
	}
	return task, nil
}

func buildCounters(snaps []counterSnapshot) core.Counters {
	var counters core.Counters
	for _, cs := range snaps {
		counters = core.SumCounters(counters, core.Counters{Groups: []core.CounterGroup{{
			Name:     cs.Group,
			Counters: []core.Counter{{Name: cs.Name, Value: cs.Value}},
		}}})
	}
	return counters
}

func fromMillis(ms int64) time.Time {
	if ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}
