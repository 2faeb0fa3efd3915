package rest

import (
	"fmt"
	"strings"
	"time"

	"github.com/nemanja-m/amstatus/internal/appmaster/core"
)

// AppDescriptor identifies the application whose jobs are served.
type AppDescriptor struct {
	ID        string
	Name      string
	User      string
	StartedOn time.Time
}

func ToAppInfo(app AppDescriptor, now time.Time) AppInfo {
	return AppInfo{
		AppID:       app.ID,
		Name:        app.Name,
		User:        app.User,
		StartedOn:   millis(app.StartedOn),
		ElapsedTime: elapsed(app.StartedOn, time.Time{}, now),
	}
}

func ToJobInfo(job core.Job, hasAccess bool, now time.Time) JobInfo {
	info := JobInfo{
		ID:               job.ID().String(),
		Name:             job.Name(),
		User:             job.User(),
		State:            string(job.State()),
		StartTime:        millis(job.StartTime()),
		FinishTime:       millis(job.FinishTime()),
		ElapsedTime:      elapsed(job.StartTime(), job.FinishTime(), now),
		MapsTotal:        job.TotalMaps(),
		MapsCompleted:    job.CompletedMaps(),
		ReducesTotal:     job.TotalReduces(),
		ReducesCompleted: job.CompletedReduces(),
		MapProgress:      percent(job.MapProgress()),
		ReduceProgress:   percent(job.ReduceProgress()),
		Uberized:         job.Uberized(),
		Diagnostics:      job.Diagnostics(),
	}
	countTasksAndAttempts(job, &info)

	if hasAccess {
		for _, op := range []core.JobACL{core.JobACLViewJob, core.JobACLModifyJob} {
			info.ACLs = append(info.ACLs, ConfEntry{Name: string(op), Value: job.ACL(op).String()})
		}
	}
	return info
}

func countTasksAndAttempts(job core.Job, info *JobInfo) {
	for _, task := range job.Tasks() {
		isMap := task.Type() == core.TaskTypeMap
		switch task.State() {
		case core.TaskStateNew, core.TaskStateScheduled:
			if isMap {
				info.MapsPending++
			} else {
				info.ReducesPending++
			}
		case core.TaskStateRunning:
			if isMap {
				info.MapsRunning++
			} else {
				info.ReducesRunning++
			}
		}

		for _, attempt := range task.Attempts() {
			var counter *int
			switch attempt.State() {
			case core.AttemptStateNew, core.AttemptStateStarting:
				counter = pick(isMap, &info.NewMapAttempts, &info.NewReduceAttempts)
			case core.AttemptStateRunning, core.AttemptStateCommitPending:
				counter = pick(isMap, &info.RunningMapAttempts, &info.RunningReduceAttempts)
			case core.AttemptStateSucceeded:
				counter = pick(isMap, &info.SuccessfulMapAttempts, &info.SuccessfulReduceAttempts)
			case core.AttemptStateFailed:
				counter = pick(isMap, &info.FailedMapAttempts, &info.FailedReduceAttempts)
			case core.AttemptStateKilled:
				counter = pick(isMap, &info.KilledMapAttempts, &info.KilledReduceAttempts)
			}
			if counter != nil {
				*counter++
			}
		}
	}
}

func pick(isMap bool, m, r *int) *int {
	if isMap {
		return m
	}
	return r
}

func ToAMAttemptsInfo(job core.Job) AMAttemptsInfo {
	amInfos := job.AMInfos()
	resp := AMAttemptsInfo{Attempts: make([]AMAttemptInfo, 0, len(amInfos))}
	for _, am := range amInfos {
		nodeHTTPAddress := fmt.Sprintf("%s:%d", am.NodeManagerHost, am.NodeManagerHTTPPort)
		resp.Attempts = append(resp.Attempts, AMAttemptInfo{
			ID:              am.AttemptID,
			StartTime:       millis(am.StartTime),
			ContainerID:     am.ContainerID,
			NodeHTTPAddress: nodeHTTPAddress,
			NodeID:          fmt.Sprintf("%s:%d", am.NodeManagerHost, am.NodeManagerPort),
			LogsLink:        fmt.Sprintf("http://%s/node/containerlogs/%s/%s", nodeHTTPAddress, am.ContainerID, job.User()),
		})
	}
	return resp
}

// ToJobCounterInfo reports every job counter with the share contributed by
// map and reduce tasks.
func ToJobCounterInfo(job core.Job) JobCounterInfo {
	var mapCounters, reduceCounters core.Counters
	for _, task := range job.Tasks() {
		if task.Type() == core.TaskTypeMap {
			mapCounters = core.SumCounters(mapCounters, task.Counters())
		} else {
			reduceCounters = core.SumCounters(reduceCounters, task.Counters())
		}
	}

	total := job.Counters()
	resp := JobCounterInfo{
		ID:     job.ID().String(),
		Groups: make([]JobCounterGroupInfo, 0, len(total.Groups)),
	}
	for _, group := range total.Groups {
		groupInfo := JobCounterGroupInfo{
			Name:     group.Name,
			Counters: make([]JobCounterValue, 0, len(group.Counters)),
		}
		for _, c := range group.Counters {
			mapValue, _ := mapCounters.Value(group.Name, c.Name)
			reduceValue, _ := reduceCounters.Value(group.Name, c.Name)
			groupInfo.Counters = append(groupInfo.Counters, JobCounterValue{
				Name:        c.Name,
				TotalValue:  c.Value,
				MapValue:    mapValue,
				ReduceValue: reduceValue,
			})
		}
		resp.Groups = append(resp.Groups, groupInfo)
	}
	return resp
}

func ToTaskCounterInfo(task core.Task) TaskCounterInfo {
	return TaskCounterInfo{
		ID:     task.ID().String(),
		Groups: toCounterGroups(task.Counters()),
	}
}

func ToAttemptCounterInfo(attempt core.Attempt) AttemptCounterInfo {
	return AttemptCounterInfo{
		ID:     attempt.ID().String(),
		Groups: toCounterGroups(attempt.Counters()),
	}
}

func toCounterGroups(counters core.Counters) []CounterGroupInfo {
	groups := make([]CounterGroupInfo, 0, len(counters.Groups))
	for _, group := range counters.Groups {
		groupInfo := CounterGroupInfo{
			Name:     group.Name,
			Counters: make([]CounterValue, 0, len(group.Counters)),
		}
		for _, c := range group.Counters {
			groupInfo.Counters = append(groupInfo.Counters, CounterValue{Name: c.Name, Value: c.Value})
		}
		groups = append(groups, groupInfo)
	}
	return groups
}

func ToConfInfo(conf *core.JobConf) ConfInfo {
	resp := ConfInfo{
		Path:       conf.Path,
		Properties: make([]ConfEntry, 0, len(conf.Properties)),
	}
	for _, p := range conf.Properties {
		resp.Properties = append(resp.Properties, ConfEntry{Name: p.Name, Value: p.Value})
	}
	return resp
}

func ToTaskInfo(task core.Task, now time.Time) TaskInfo {
	info := TaskInfo{
		ID:          task.ID().String(),
		State:       string(task.State()),
		Type:        string(task.Type()),
		Progress:    percent(task.Progress()),
		StartTime:   millis(task.StartTime()),
		FinishTime:  millis(task.FinishTime()),
		ElapsedTime: elapsed(task.StartTime(), task.FinishTime(), now),
	}
	if id, ok := task.SuccessfulAttempt(); ok {
		info.SuccessfulAttempt = id.String()
	}
	return info
}

// ToAttemptInfo returns *ReduceTaskAttemptInfo for reduce attempts and
// *TaskAttemptInfo otherwise.
func ToAttemptInfo(attempt core.Attempt, taskType core.TaskType, now time.Time) any {
	launch, finish := attempt.LaunchTime(), attempt.FinishTime()
	info := TaskAttemptInfo{
		ID:                  attempt.ID().String(),
		State:               string(attempt.State()),
		Type:                string(taskType),
		Rack:                attempt.Rack(),
		NodeHTTPAddress:     attempt.NodeHTTPAddress(),
		Diagnostics:         strings.Join(attempt.Diagnostics(), "\n"),
		AssignedContainerID: attempt.AssignedContainerID(),
		StartTime:           millis(launch),
		FinishTime:          millis(finish),
		ElapsedTime:         elapsed(launch, finish, now),
		Progress:            percent(attempt.Progress()),
	}
	if taskType != core.TaskTypeReduce {
		return &info
	}

	shuffle, merge := attempt.ShuffleFinishTime(), attempt.SortFinishTime()
	return &ReduceTaskAttemptInfo{
		TaskAttemptInfo:    info,
		ShuffleFinishTime:  millis(shuffle),
		MergeFinishTime:    millis(merge),
		ElapsedShuffleTime: span(launch, shuffle),
		ElapsedMergeTime:   span(shuffle, merge),
		ElapsedReduceTime:  span(merge, finish),
	}
}

func ToTaskAttemptsInfo(task core.Task, now time.Time) TaskAttemptsInfo {
	attempts := task.Attempts()
	resp := TaskAttemptsInfo{Attempts: make([]any, 0, len(attempts))}
	for _, attempt := range attempts {
		resp.Attempts = append(resp.Attempts, ToAttemptInfo(attempt, task.Type(), now))
	}
	return resp
}

func millis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

// elapsed measures up to now while finish is unset.
func elapsed(start, finish, now time.Time) int64 {
	if start.IsZero() {
		return 0
	}
	if finish.IsZero() {
		finish = now
	}
	return max(finish.Sub(start).Milliseconds(), 0)
}

// span is 0 unless both ends are set.
func span(from, to time.Time) int64 {
	if from.IsZero() || to.IsZero() {
		return 0
	}
	return max(to.Sub(from).Milliseconds(), 0)
}

func percent(progress float32) float32 {
	return progress * 100
}
