package rest

import (
	"net/http"
	"time"

	"github.com/nemanja-m/amstatus/internal/appmaster/core"
	"github.com/nemanja-m/amstatus/internal/shared/config"
	"github.com/nemanja-m/amstatus/internal/shared/logging"
)

const basePath = "/ws/v1/mapreduce"

type API struct {
	resolver  core.Resolver
	guard     core.AccessGuard
	mutations core.MutationService
	confs     core.ConfLoader
	app       AppDescriptor
	now       func() time.Time
	logger    logging.Logger
}

func NewAPI(
	resolver core.Resolver,
	guard core.AccessGuard,
	mutations core.MutationService,
	confs core.ConfLoader,
	app AppDescriptor,
	logger logging.Logger,
) *API {
	return &API{
		resolver:  resolver,
		guard:     guard,
		mutations: mutations,
		confs:     confs,
		app:       app,
		now:       time.Now,
		logger:    logger,
	}
}

func (a *API) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET "+basePath, a.getAppInfo)
	mux.HandleFunc("GET "+basePath+"/{$}", a.getAppInfo)
	mux.HandleFunc("GET "+basePath+"/info", a.getAppInfo)

	mux.HandleFunc("GET "+basePath+"/jobs", a.listJobs)
	mux.HandleFunc("GET "+basePath+"/jobs/{jobid}", a.getJob)
	mux.HandleFunc("GET "+basePath+"/jobs/{jobid}/status", a.getJobStatus)
	mux.HandleFunc("GET "+basePath+"/jobs/{jobid}/numunfinishedmaps", a.getUnfinishedMaps)
	mux.HandleFunc("GET "+basePath+"/jobs/{jobid}/jobattempts", a.getJobAttempts)
	mux.HandleFunc("GET "+basePath+"/jobs/{jobid}/counters", a.getJobCounters)
	mux.HandleFunc("GET "+basePath+"/jobs/{jobid}/conf", a.getJobConf)
	mux.HandleFunc("GET "+basePath+"/jobs/{jobid}/tasks", a.getJobTasks)
	mux.HandleFunc("GET "+basePath+"/jobs/{jobid}/tasks/{taskid}", a.getJobTask)
	mux.HandleFunc("GET "+basePath+"/jobs/{jobid}/tasks/{taskid}/counters", a.getTaskCounters)
	mux.HandleFunc("GET "+basePath+"/jobs/{jobid}/tasks/{taskid}/attempts", a.getTaskAttempts)
	mux.HandleFunc("GET "+basePath+"/jobs/{jobid}/tasks/{taskid}/attempts/{attemptid}", a.getTaskAttempt)
	mux.HandleFunc("GET "+basePath+"/jobs/{jobid}/tasks/{taskid}/attempts/{attemptid}/counters", a.getAttemptCounters)

	mux.HandleFunc("GET "+basePath+"/jobs/{jobid}/setnumreducers", a.setNumReducers)
	mux.HandleFunc("GET "+basePath+"/jobs/{jobid}/rerunmaptask", a.rerunMapTask)
	mux.HandleFunc("GET "+basePath+"/jobs/{jobid}/rerunmaptask/strict", a.rerunMapTaskStrict)
	mux.HandleFunc("GET "+basePath+"/jobs/{jobid}/workbuilderport", a.setWorkBuilderPort)
}

func (a *API) getAppInfo(w http.ResponseWriter, r *http.Request) {
	a.respond(w, r, http.StatusOK, "info", ToAppInfo(a.app, a.now()))
}

// listJobs handles GET /jobs. Jobs the caller cannot view are still listed.
func (a *API) listJobs(w http.ResponseWriter, r *http.Request) {
	caller := CallerFromContext(r.Context())
	now := a.now()

	jobs := a.resolver.Jobs()
	resp := JobsInfo{Jobs: make([]JobInfo, 0, len(jobs))}
	for _, job := range jobs {
		resp.Jobs = append(resp.Jobs, ToJobInfo(job, a.guard.CanView(job, caller), now))
	}
	a.respond(w, r, http.StatusOK, "jobs", resp)
}

// getJob handles GET /jobs/{jobid}
func (a *API) getJob(w http.ResponseWriter, r *http.Request) {
	job, err := a.viewableJob(r)
	if err != nil {
		a.respondError(w, r, err)
		return
	}
	a.respond(w, r, http.StatusOK, "job", ToJobInfo(job, true, a.now()))
}

func (a *API) getJobAttempts(w http.ResponseWriter, r *http.Request) {
	job, err := a.resolveJob(r)
	if err != nil {
		a.respondError(w, r, err)
		return
	}
	a.respond(w, r, http.StatusOK, "jobAttempts", ToAMAttemptsInfo(job))
}

func (a *API) getJobCounters(w http.ResponseWriter, r *http.Request) {
	job, err := a.viewableJob(r)
	if err != nil {
		a.respondError(w, r, err)
		return
	}
	a.respond(w, r, http.StatusOK, "jobCounters", ToJobCounterInfo(job))
}

func (a *API) getJobConf(w http.ResponseWriter, r *http.Request) {
	job, err := a.viewableJob(r)
	if err != nil {
		a.respondError(w, r, err)
		return
	}
	conf, err := a.confs.LoadConf(job)
	if err != nil {
		a.logger.Debug("Failed to load job configuration", "job_id", job.ID().String(), "error", err)
		a.respondError(w, r, core.ErrNotFound.New("unable to load configuration for job: %s", job.ID()))
		return
	}
	a.respond(w, r, http.StatusOK, "conf", ToConfInfo(conf))
}

// getJobTasks handles GET /jobs/{jobid}/tasks with an optional type filter
func (a *API) getJobTasks(w http.ResponseWriter, r *http.Request) {
	job, err := a.viewableJob(r)
	if err != nil {
		a.respondError(w, r, err)
		return
	}

	var filter core.TaskType
	if typeParam := r.URL.Query().Get("type"); typeParam != "" {
		filter, err = core.ParseTaskType(typeParam)
		if err != nil {
			a.respondError(w, r, core.ErrBadRequest.New("tasktype must be either m or r"))
			return
		}
	}

	now := a.now()
	tasks := job.Tasks()
	resp := TasksInfo{Tasks: make([]TaskInfo, 0, len(tasks))}
	for _, task := range tasks {
		if filter != "" && task.Type() != filter {
			continue
		}
		resp.Tasks = append(resp.Tasks, ToTaskInfo(task, now))
	}
	a.respond(w, r, http.StatusOK, "tasks", resp)
}

func (a *API) getJobTask(w http.ResponseWriter, r *http.Request) {
	task, err := a.viewableTask(r)
	if err != nil {
		a.respondError(w, r, err)
		return
	}
	a.respond(w, r, http.StatusOK, "task", ToTaskInfo(task, a.now()))
}

func (a *API) getTaskCounters(w http.ResponseWriter, r *http.Request) {
	task, err := a.viewableTask(r)
	if err != nil {
		a.respondError(w, r, err)
		return
	}
	a.respond(w, r, http.StatusOK, "jobTaskCounters", ToTaskCounterInfo(task))
}

func (a *API) getTaskAttempts(w http.ResponseWriter, r *http.Request) {
	task, err := a.viewableTask(r)
	if err != nil {
		a.respondError(w, r, err)
		return
	}
	a.respond(w, r, http.StatusOK, "taskAttempts", ToTaskAttemptsInfo(task, a.now()))
}

func (a *API) getTaskAttempt(w http.ResponseWriter, r *http.Request) {
	task, attempt, err := a.viewableAttempt(r)
	if err != nil {
		a.respondError(w, r, err)
		return
	}
	a.respond(w, r, http.StatusOK, "taskAttempt", ToAttemptInfo(attempt, task.Type(), a.now()))
}

func (a *API) getAttemptCounters(w http.ResponseWriter, r *http.Request) {
	_, attempt, err := a.viewableAttempt(r)
	if err != nil {
		a.respondError(w, r, err)
		return
	}
	a.respond(w, r, http.StatusOK, "jobTaskAttemptCounters", ToAttemptCounterInfo(attempt))
}

func (a *API) resolveJob(r *http.Request) (core.Job, error) {
	id, err := core.ParseJobID(r.PathValue("jobid"))
	if err != nil {
		return nil, err
	}
	return a.resolver.ResolveJob(id)
}

// viewableJob resolves the job before checking access, so existence is
// observable without view permission.
func (a *API) viewableJob(r *http.Request) (core.Job, error) {
	job, err := a.resolveJob(r)
	if err != nil {
		return nil, err
	}
	if err := a.guard.EnforceView(job, CallerFromContext(r.Context())); err != nil {
		return nil, err
	}
	return job, nil
}

func (a *API) viewableTask(r *http.Request) (core.Task, error) {
	job, err := a.viewableJob(r)
	if err != nil {
		return nil, err
	}
	id, err := core.ParseTaskID(r.PathValue("taskid"))
	if err != nil {
		return nil, err
	}
	return a.resolver.ResolveTask(job, id)
}

func (a *API) viewableAttempt(r *http.Request) (core.Task, core.Attempt, error) {
	task, err := a.viewableTask(r)
	if err != nil {
		return nil, nil, err
	}
	id, err := core.ParseAttemptID(r.PathValue("attemptid"))
	if err != nil {
		return nil, nil, err
	}
	attempt, err := a.resolver.ResolveAttempt(task, id)
	if err != nil {
		return nil, nil, err
	}
	return task, attempt, nil
}

// newHandler wraps h so that every request, including one that panics, gets
// a request id, a caller and an access log line.
func newHandler(h http.Handler, auth config.AuthConfig, logger logging.Logger) http.Handler {
	return ChainMiddleware(
		h,
		RequestIDMiddleware,
		CallerMiddleware(auth.UserHeader, auth.AllowQueryUser),
		LoggingMiddleware(logger),
		RecoveryMiddleware(logger),
	)
}

func NewServer(cfg config.RESTConfig, auth config.AuthConfig, api *API, logger logging.Logger) *http.Server {
	mux := http.NewServeMux()
	api.RegisterRoutes(mux)

	return &http.Server{
		Addr:         cfg.Addr,
		Handler:      newHandler(mux, auth, logger),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}
