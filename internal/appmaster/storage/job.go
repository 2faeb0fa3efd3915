package storage

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/nemanja-m/amstatus/internal/appmaster/core"
)

// JobSpec holds the initial state of an in-memory job.
type JobSpec struct {
	ID          core.JobID
	Name        string
	User        string
	State       core.JobState
	ViewACL     core.AccessControlList
	ModifyACL   core.AccessControlList
	Uberized    bool
	ConfFile    string
	StartTime   time.Time
	FinishTime  time.Time
	Diagnostics []string
	AMInfos     []core.AMInfo
	Counters    core.Counters
}

// Job is the in-memory job handle. Every accessor takes the lock on its own,
// so a reader sees each field consistently but not the job as a whole.
type Job struct {
	mu           sync.RWMutex
	spec         JobSpec
	tasks        map[core.TaskID]*Task
	callbackPort int
	events       core.EventHandler
}

var _ core.MutableJob = (*Job)(nil)

func NewJob(spec JobSpec) *Job {
	if spec.State == "" {
		spec.State = core.JobStateNew
	}
	return &Job{
		spec:  spec,
		tasks: make(map[core.TaskID]*Task),
	}
}

// AddTask attaches a task to the job, replacing any task with the same id.
func (j *Job) AddTask(task *Task) *Job {
	task.attach(j)
	j.mu.Lock()
	defer j.mu.Unlock()
	j.tasks[task.ID()] = task
	return j
}

func (j *Job) ID() core.JobID {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.spec.ID
}

func (j *Job) Name() string {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.spec.Name
}

func (j *Job) User() string {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.spec.User
}

func (j *Job) State() core.JobState {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.spec.State
}

func (j *Job) SetState(state core.JobState) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.spec.State = state
}

func (j *Job) Diagnostics() []string {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return append([]string(nil), j.spec.Diagnostics...)
}

// ACL returns the list for op. The job owner is always part of it.
func (j *Job) ACL(op core.JobACL) core.AccessControlList {
	j.mu.RLock()
	defer j.mu.RUnlock()

	var acl core.AccessControlList
	switch op {
	case core.JobACLViewJob:
		acl = j.spec.ViewACL
	case core.JobACLModifyJob:
		acl = j.spec.ModifyACL
	}
	if acl.AllAllowed {
		return acl
	}
	users := append([]string(nil), acl.Users...)
	if j.spec.User != "" && !acl.IsUserAllowed(j.spec.User) {
		users = append([]string{j.spec.User}, users...)
	}
	return core.AccessControlList{Users: users}
}

func (j *Job) AMInfos() []core.AMInfo {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return append([]core.AMInfo(nil), j.spec.AMInfos...)
}

func (j *Job) TotalMaps() int {
	return len(j.tasksOfType(core.TaskTypeMap))
}

func (j *Job) TotalReduces() int {
	return len(j.tasksOfType(core.TaskTypeReduce))
}

func (j *Job) CompletedMaps() int {
	return countSucceeded(j.tasksOfType(core.TaskTypeMap))
}

func (j *Job) CompletedReduces() int {
	return countSucceeded(j.tasksOfType(core.TaskTypeReduce))
}

func (j *Job) MapProgress() float32 {
	return averageProgress(j.tasksOfType(core.TaskTypeMap))
}

func (j *Job) ReduceProgress() float32 {
	return averageProgress(j.tasksOfType(core.TaskTypeReduce))
}

func (j *Job) StartTime() time.Time {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.spec.StartTime
}

func (j *Job) FinishTime() time.Time {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.spec.FinishTime
}

func (j *Job) Uberized() bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.spec.Uberized
}

func (j *Job) ConfFile() string {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.spec.ConfFile
}

// Counters returns the job-level counters plus the sum of all task counters.
func (j *Job) Counters() core.Counters {
	j.mu.RLock()
	own := j.spec.Counters.Clone()
	j.mu.RUnlock()

	all := []core.Counters{own}
	for _, t := range j.sortedTasks() {
		all = append(all, t.Counters())
	}
	return core.SumCounters(all...)
}

func (j *Job) Tasks() []core.Task {
	sorted := j.sortedTasks()
	tasks := make([]core.Task, 0, len(sorted))
	for _, t := range sorted {
		tasks = append(tasks, t)
	}
	return tasks
}

func (j *Job) Task(id core.TaskID) core.Task {
	if t := j.task(id); t != nil {
		return t
	}
	return nil
}

func (j *Job) MutableTask(id core.TaskID) core.MutableTask {
	if t := j.task(id); t != nil {
		return t
	}
	return nil
}

func (j *Job) EventHandler() core.EventHandler {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.events == nil {
		return detachedHandler{}
	}
	return j.events
}

func (j *Job) SetCallbackPort(port int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.callbackPort = port
}

func (j *Job) CallbackPort() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.callbackPort
}

func (j *Job) attach(events core.EventHandler) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.events = events
}

// setNumReduces grows the reduce task set to n tasks and returns how many
// tasks were added. New ids continue after the highest existing reduce id
// and the reduce set never shrinks.
func (j *Job) setNumReduces(n int) int {
	j.mu.Lock()
	defer j.mu.Unlock()

	existing, next := 0, 0
	for id := range j.tasks {
		if id.Type == core.TaskTypeReduce {
			existing++
			if id.ID >= next {
				next = id.ID + 1
			}
		}
	}

	added := 0
	for ; existing+added < n; next++ {
		id := core.TaskID{JobID: j.spec.ID, Type: core.TaskTypeReduce, ID: next}
		if _, ok := j.tasks[id]; ok {
			continue
		}
		task := NewTask(TaskSpec{ID: id, State: core.TaskStateNew})
		task.attach(j)
		j.tasks[id] = task
		added++
	}
	return added
}

func (j *Job) task(id core.TaskID) *Task {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.tasks[id]
}

func (j *Job) sortedTasks() []*Task {
	j.mu.RLock()
	tasks := make([]*Task, 0, len(j.tasks))
	for _, t := range j.tasks {
		tasks = append(tasks, t)
	}
	j.mu.RUnlock()

	sort.Slice(tasks, func(a, b int) bool {
		return lessTaskID(tasks[a].ID(), tasks[b].ID())
	})
	return tasks
}

func (j *Job) tasksOfType(taskType core.TaskType) []*Task {
	var out []*Task
	for _, t := range j.sortedTasks() {
		if t.Type() == taskType {
			out = append(out, t)
		}
	}
	return out
}

func lessTaskID(a, b core.TaskID) bool {
	if a.Type != b.Type {
		return a.Type == core.TaskTypeMap
	}
	return a.ID < b.ID
}

func countSucceeded(tasks []*Task) int {
	n := 0
	for _, t := range tasks {
		if t.State() == core.TaskStateSucceeded {
			n++
		}
	}
	return n
}

func averageProgress(tasks []*Task) float32 {
	if len(tasks) == 0 {
		return 0
	}
	var sum float32
	for _, t := range tasks {
		sum += t.Progress()
	}
	return sum / float32(len(tasks))
}

var errDetached = errors.New("job is not attached to a dispatcher")

type detachedHandler struct{}

func (detachedHandler) Handle(core.Event) error {
	return errDetached
}
