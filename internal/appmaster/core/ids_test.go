package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobIDRoundTrip(t *testing.T) {
	ids := []JobID{
		{ClusterTimestamp: 1326232085508, ID: 4},
		{ClusterTimestamp: 0, ID: 0},
		{ClusterTimestamp: 1, ID: 12345},
	}
	for _, id := range ids {
		t.Run(id.String(), func(t *testing.T) {
			parsed, err := ParseJobID(id.String())
			require.NoError(t, err)
			assert.Equal(t, id, parsed)
		})
	}
}

func TestTaskIDRoundTrip(t *testing.T) {
	job := JobID{ClusterTimestamp: 1326232085508, ID: 4}
	ids := []TaskID{
		{JobID: job, Type: TaskTypeMap, ID: 0},
		{JobID: job, Type: TaskTypeReduce, ID: 7},
		{JobID: job, Type: TaskTypeMap, ID: 1234567},
	}
	for _, id := range ids {
		t.Run(id.String(), func(t *testing.T) {
			parsed, err := ParseTaskID(id.String())
			require.NoError(t, err)
			assert.Equal(t, id, parsed)
		})
	}
}

func TestAttemptIDRoundTrip(t *testing.T) {
	task := TaskID{JobID: JobID{ClusterTimestamp: 1326232085508, ID: 4}, Type: TaskTypeReduce, ID: 3}
	for _, seq := range []int{0, 1, 42} {
		id := AttemptID{TaskID: task, ID: seq}
		parsed, err := ParseAttemptID(id.String())
		require.NoError(t, err)
		assert.Equal(t, id, parsed)
	}
}

func TestFormat(t *testing.T) {
	job := JobID{ClusterTimestamp: 1326232085508, ID: 4}
	task := TaskID{JobID: job, Type: TaskTypeMap, ID: 2}
	attempt := AttemptID{TaskID: task, ID: 1}

	assert.Equal(t, "job_1326232085508_0004", job.String())
	assert.Equal(t, "task_1326232085508_0004_m_000002", task.String())
	assert.Equal(t, "attempt_1326232085508_0004_m_000002_1", attempt.String())
}

func TestParseCanonicalStrings(t *testing.T) {
	for _, s := range []string{"job_1326232085508_0004", "job_1_12345"} {
		id, err := ParseJobID(s)
		require.NoError(t, err)
		assert.Equal(t, s, id.String())
	}
	for _, s := range []string{"task_1326232085508_0004_m_000000", "task_1_0001_r_1000000"} {
		id, err := ParseTaskID(s)
		require.NoError(t, err)
		assert.Equal(t, s, id.String())
	}
	s := "attempt_1326232085508_0004_r_000003_12"
	id, err := ParseAttemptID(s)
	require.NoError(t, err)
	assert.Equal(t, s, id.String())
}

func TestParseJobIDMalformed(t *testing.T) {
	tests := []string{
		"",
		"job",
		"job_",
		"job_123",
		"job_123_0001_x",
		"jib_123_0001",
		"job_abc_0001",
		"job_123_abcd",
		"job_-1_0001",
		"job_123_-001",
		"job_+123_0001",
		"job_123_1",
		"job_0123_0001",
		"job_123_00001",
		"job_99999999999999999999_0001",
		"job_123_9999999999",
		"task_123_0001_m_000000",
	}
	for _, s := range tests {
		t.Run(s, func(t *testing.T) {
			id, err := ParseJobID(s)
			require.Error(t, err)
			assert.True(t, ErrMalformed.Has(err), "expected malformed, got %v", err)
			assert.Equal(t, JobID{}, id)
		})
	}
}

func TestParseTaskIDMalformed(t *testing.T) {
	tests := []string{
		"",
		"task_123_0001_m",
		"task_123_0001_x_000000",
		"task_123_0001_M_000000",
		"task_123_0001_m_0",
		"task_123_0001_m_abcdef",
		"task_123_0001_m_000000_0",
		"job_123_0001_m_000000",
		"task_123_1_m_000000",
	}
	for _, s := range tests {
		t.Run(s, func(t *testing.T) {
			id, err := ParseTaskID(s)
			require.Error(t, err)
			assert.True(t, ErrMalformed.Has(err), "expected malformed, got %v", err)
			assert.Equal(t, TaskID{}, id)
		})
	}
}

func TestParseAttemptIDMalformed(t *testing.T) {
	tests := []string{
		"",
		"attempt_123_0001_m_000000",
		"attempt_123_0001_m_000000_",
		"attempt_123_0001_m_000000_x",
		"attempt_123_0001_m_000000_01",
		"attempt_123_0001_q_000000_0",
		"task_123_0001_m_000000_0",
	}
	for _, s := range tests {
		t.Run(s, func(t *testing.T) {
			id, err := ParseAttemptID(s)
			require.Error(t, err)
			assert.True(t, ErrMalformed.Has(err), "expected malformed, got %v", err)
			assert.Equal(t, AttemptID{}, id)
		})
	}
}

func TestParseTaskType(t *testing.T) {
	for symbol, want := range map[string]TaskType{"m": TaskTypeMap, "M": TaskTypeMap, "r": TaskTypeReduce, "R": TaskTypeReduce} {
		got, err := ParseTaskType(symbol)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseTaskType("x")
	assert.True(t, ErrMalformed.Has(err))
}

func TestAccessControlList(t *testing.T) {
	acl := ParseAccessControlList(" alice, bob ,,")
	assert.Equal(t, []string{"alice", "bob"}, acl.Users)
	assert.True(t, acl.IsUserAllowed("alice"))
	assert.False(t, acl.IsUserAllowed("carol"))
	assert.Equal(t, "alice,bob", acl.String())

	all := ParseAccessControlList("*")
	assert.True(t, all.IsUserAllowed("anyone"))
	assert.Equal(t, "*", all.String())

	assert.False(t, ParseAccessControlList("").IsUserAllowed("alice"))
}
