package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nemanja-m/amstatus/internal/appmaster/core"
)

const snapshotYAML = `
jobs:
  - id: job_1326232085508_0004
    name: wordcount
    user: alice
    state: RUNNING
    view_acl: bob,carol
    start_time: 1326232085508
    am_attempts:
      - attempt_id: 1
        start_time: 1326232085000
        container_id: container_1326232085508_0004_01_000001
        node_host: node1.example.com
        node_port: 45454
        node_http_port: 8042
    counters:
      - group: job
        name: TOTAL_LAUNCHED_MAPS
        value: 1
    tasks:
      - id: task_1326232085508_0004_m_000000
        state: SUCCEEDED
        progress: 1
        attempts:
          - id: attempt_1326232085508_0004_m_000000_0
            state: SUCCEEDED
            node_http_address: node1.example.com:8042
            launch_time: 1326232086000
            finish_time: 1326232090000
            counters:
              - group: task
                name: MAP_INPUT_RECORDS
                value: 12
      - id: task_1326232085508_0004_r_000000
        state: RUNNING
        attempts:
          - id: attempt_1326232085508_0004_r_000000_0
            state: RUNNING
            shuffle_finish_time: 1326232092000
partial_jobs:
  - id: job_1326232085508_0005
    name: pending
    state: NEW
`

func TestLoadSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	writeFile(t, path, snapshotYAML)

	registry := NewInMemoryJobRegistry(&mockLogger{})
	n, err := LoadSnapshot(path, registry)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	partials := registry.ListPartial()
	require.Len(t, partials, 2)
	assert.Equal(t, "pending", partials[1].Name)
	assert.Nil(t, registry.GetFull(partials[1].ID))

	job := registry.GetFull(testJobID)
	require.NotNil(t, job)
	assert.Equal(t, "wordcount", job.Name())
	assert.Equal(t, core.JobStateRunning, job.State())
	assert.True(t, job.ACL(core.JobACLViewJob).IsUserAllowed("carol"))
	assert.Equal(t, time.UnixMilli(1326232085508), job.StartTime())
	assert.Equal(t, 1, job.TotalMaps())
	assert.Equal(t, 1, job.TotalReduces())

	amInfos := job.AMInfos()
	require.Len(t, amInfos, 1)
	assert.Equal(t, 8042, amInfos[0].NodeManagerHTTPPort)

	v, _ := job.Counters().Value("task", "MAP_INPUT_RECORDS")
	assert.Equal(t, int64(12), v)
	v, _ = job.Counters().Value("job", "TOTAL_LAUNCHED_MAPS")
	assert.Equal(t, int64(1), v)

	reduce := job.Task(reduceTaskID(testJobID, 0))
	require.NotNil(t, reduce)
	attempt := reduce.Attempt(core.AttemptID{TaskID: reduceTaskID(testJobID, 0), ID: 0})
	require.NotNil(t, attempt)
	assert.Equal(t, time.UnixMilli(1326232092000), attempt.ShuffleFinishTime())
	assert.True(t, attempt.FinishTime().IsZero())

	// Loaded jobs are wired to the dispatcher.
	require.NoError(t, registry.GetMutable(testJobID).EventHandler().Handle(
		core.JobSetNumReducesEvent{JobID: testJobID, NumReduces: 2}))
	assert.Equal(t, 1, registry.Dispatcher().Pending())
}

func TestLoadSnapshotRejectsForeignTask(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	writeFile(t, path, `
jobs:
  - id: job_1326232085508_0004
    tasks:
      - id: task_1326232085508_0009_m_000000
`)
	registry := NewInMemoryJobRegistry(&mockLogger{})
	_, err := LoadSnapshot(path, registry)
	assert.Error(t, err)
	assert.Empty(t, registry.ListPartial())
}

func TestLoadSnapshotRejectsMalformedIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	writeFile(t, path, `
jobs:
  - id: job_1326232085508_4
`)
	_, err := LoadSnapshot(path, NewInMemoryJobRegistry(&mockLogger{}))
	assert.True(t, core.ErrMalformed.Has(err))
}

func TestLoadSnapshotMissingFile(t *testing.T) {
	_, err := LoadSnapshot(filepath.Join(t.TempDir(), "missing.yaml"), NewInMemoryJobRegistry(&mockLogger{}))
	assert.Error(t, err)
}
