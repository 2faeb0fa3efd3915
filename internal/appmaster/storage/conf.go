package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/viper"

	"github.com/nemanja-m/amstatus/internal/appmaster/core"
)

// confFilePattern matches a job's configuration file below the staging dir.
const confFilePattern = "**/%s/job.{yaml,yml,json,toml}"

// FileConfLoader reads job configuration files. A job that does not name its
// file explicitly is looked up below the staging directory.
type FileConfLoader struct {
	stagingDir string
}

var _ core.ConfLoader = (*FileConfLoader)(nil)

func NewFileConfLoader(stagingDir string) *FileConfLoader {
	return &FileConfLoader{stagingDir: stagingDir}
}

func (l *FileConfLoader) LoadConf(job core.Job) (*core.JobConf, error) {
	path, err := l.locate(job)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading job configuration %s: %w", path, err)
	}

	keys := v.AllKeys()
	sort.Strings(keys)
	props := make([]core.ConfProperty, 0, len(keys))
	for _, key := range keys {
		props = append(props, core.ConfProperty{Name: key, Value: formatConfValue(v.Get(key))})
	}

	return &core.JobConf{Path: path, Properties: props}, nil
}

func (l *FileConfLoader) locate(job core.Job) (string, error) {
	if path := job.ConfFile(); path != "" {
		return path, nil
	}
	if l.stagingDir == "" {
		return "", errors.New("no staging directory configured")
	}

	matches, err := doublestar.Glob(os.DirFS(l.stagingDir), fmt.Sprintf(confFilePattern, job.ID()))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no configuration file for job %s under %s", job.ID(), l.stagingDir)
	}
	sort.Strings(matches)
	return filepath.Join(l.stagingDir, filepath.FromSlash(matches[0])), nil
}

func formatConfValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, formatConfValue(item))
		}
		return strings.Join(parts, ",")
	case []string:
		return strings.Join(v, ",")
	default:
		return fmt.Sprint(v)
	}
}
