package service

import "github.com/nemanja-m/amstatus/internal/appmaster/core"

type accessGuard struct {
	requireAuthentication bool
}

// NewAccessGuard returns a guard that checks callers against the job's view
// ACL. Anonymous callers are allowed unless requireAuthentication is set.
func NewAccessGuard(requireAuthentication bool) core.AccessGuard {
	return &accessGuard{requireAuthentication: requireAuthentication}
}

func (g *accessGuard) CanView(job core.Job, caller core.Caller) bool {
	if caller.Anonymous() {
		return !g.requireAuthentication
	}
	return job.ACL(core.JobACLViewJob).IsUserAllowed(caller.User)
}

func (g *accessGuard) EnforceView(job core.Job, caller core.Caller) error {
	if g.CanView(job, caller) {
		return nil
	}
	if caller.Anonymous() {
		return core.ErrUnauthorized.New("authentication is required to view job %s", job.ID())
	}
	return core.ErrUnauthorized.New("user %s is not authorized to view job %s", caller.User, job.ID())
}
