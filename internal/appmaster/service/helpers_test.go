package service

import (
	"sync"

	"github.com/nemanja-m/amstatus/internal/appmaster/core"
	"github.com/nemanja-m/amstatus/internal/appmaster/storage"
)

// mockLogger records warnings for assertions
type mockLogger struct {
	mu       sync.Mutex
	warnings []string
}

func (m *mockLogger) Debug(msg string, args ...any) {}
func (m *mockLogger) Info(msg string, args ...any)  {}
func (m *mockLogger) Error(msg string, args ...any) {}
func (m *mockLogger) Fatal(msg string, args ...any) {}

func (m *mockLogger) Warn(msg string, args ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warnings = append(m.warnings, msg)
}

func (m *mockLogger) getWarnings() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.warnings...)
}

var testJobID = core.JobID{ClusterTimestamp: 1326232085508, ID: 4}

func mapTaskID(n int) core.TaskID {
	return core.TaskID{JobID: testJobID, Type: core.TaskTypeMap, ID: n}
}

func reduceTaskID(n int) core.TaskID {
	return core.TaskID{JobID: testJobID, Type: core.TaskTypeReduce, ID: n}
}

// newTestJob builds a running job owned by alice and viewable by bob, with
// one zeroth attempt per task.
func newTestJob(maps, reduces int) *storage.Job {
	job := storage.NewJob(storage.JobSpec{
		ID:      testJobID,
		Name:    "wordcount",
		User:    "alice",
		State:   core.JobStateRunning,
		ViewACL: core.ParseAccessControlList("bob"),
	})
	for i := 0; i < maps; i++ {
		job.AddTask(newTestTask(mapTaskID(i)))
	}
	for i := 0; i < reduces; i++ {
		job.AddTask(newTestTask(reduceTaskID(i)))
	}
	return job
}

func newTestTask(id core.TaskID) *storage.Task {
	task := storage.NewTask(storage.TaskSpec{ID: id, State: core.TaskStateRunning})
	return task.AddAttempt(storage.NewAttempt(storage.AttemptSpec{
		ID:    core.AttemptID{TaskID: id, ID: 0},
		State: core.AttemptStateRunning,
	}))
}

func newTestRegistry(jobs ...*storage.Job) *storage.InMemoryJobRegistry {
	registry := storage.NewInMemoryJobRegistry(&mockLogger{})
	for _, job := range jobs {
		registry.AddJob(job)
	}
	return registry
}
