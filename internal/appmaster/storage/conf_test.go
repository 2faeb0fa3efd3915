package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nemanja-m/amstatus/internal/appmaster/core"
)

const jobConfYAML = `
mapreduce:
  job:
    reduces: 4
    name: wordcount
  input:
    paths:
      - /data/a
      - /data/b
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestFileConfLoaderFindsFileInStagingDir(t *testing.T) {
	stagingDir := t.TempDir()
	path := filepath.Join(stagingDir, "alice", ".staging", testJobID.String(), "job.yaml")
	writeFile(t, path, jobConfYAML)

	conf, err := NewFileConfLoader(stagingDir).LoadConf(newTestJob(testJobID))
	require.NoError(t, err)

	assert.Equal(t, path, conf.Path)
	assert.Equal(t, []core.ConfProperty{
		{Name: "mapreduce.input.paths", Value: "/data/a,/data/b"},
		{Name: "mapreduce.job.name", Value: "wordcount"},
		{Name: "mapreduce.job.reduces", Value: "4"},
	}, conf.Properties)
}

func TestFileConfLoaderPrefersExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.json")
	writeFile(t, path, `{"mapreduce": {"job": {"queuename": "default"}}}`)

	job := NewJob(JobSpec{ID: testJobID, ConfFile: path})
	conf, err := NewFileConfLoader("").LoadConf(job)
	require.NoError(t, err)
	assert.Equal(t, path, conf.Path)
	assert.Equal(t, []core.ConfProperty{{Name: "mapreduce.job.queuename", Value: "default"}}, conf.Properties)
}

func TestFileConfLoaderErrors(t *testing.T) {
	t.Run("no staging dir", func(t *testing.T) {
		_, err := NewFileConfLoader("").LoadConf(newTestJob(testJobID))
		assert.Error(t, err)
	})

	t.Run("no matching file", func(t *testing.T) {
		stagingDir := t.TempDir()
		writeFile(t, filepath.Join(stagingDir, "job_1_0001", "job.yaml"), jobConfYAML)
		_, err := NewFileConfLoader(stagingDir).LoadConf(newTestJob(testJobID))
		assert.Error(t, err)
	})

	t.Run("explicit file missing", func(t *testing.T) {
		job := NewJob(JobSpec{ID: testJobID, ConfFile: filepath.Join(t.TempDir(), "missing.yaml")})
		_, err := NewFileConfLoader("").LoadConf(job)
		assert.Error(t, err)
	})

	t.Run("unparseable file", func(t *testing.T) {
		stagingDir := t.TempDir()
		writeFile(t, filepath.Join(stagingDir, testJobID.String(), "job.json"), "{not json")
		_, err := NewFileConfLoader(stagingDir).LoadConf(newTestJob(testJobID))
		assert.Error(t, err)
	})
}
