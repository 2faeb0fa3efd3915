package core

// JobRegistry is maintained by the scheduler. ListPartial is cheap and may
// include jobs whose full view is not available yet.
type JobRegistry interface {
	ListPartial() []PartialJob
	// GetFull returns nil when no full view exists for id.
	GetFull(id JobID) Job
}

// MutableJobRegistry hands out the mutation capability of a job.
type MutableJobRegistry interface {
	// GetMutable returns nil when no full view exists for id.
	GetMutable(id JobID) MutableJob
}

type ConfProperty struct {
	Name  string
	Value string
}

// JobConf is the configuration a job was submitted with.
type JobConf struct {
	Path       string
	Properties []ConfProperty
}

type ConfLoader interface {
	LoadConf(job Job) (*JobConf, error)
}
