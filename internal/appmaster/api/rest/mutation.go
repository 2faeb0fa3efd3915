package rest

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/nemanja-m/amstatus/internal/appmaster/core"
)

const succeeded = "SUCCEEDED"

// getJobStatus handles GET /jobs/{jobid}/status
func (a *API) getJobStatus(w http.ResponseWriter, r *http.Request) {
	job, err := a.resolveJob(r)
	if err != nil {
		a.respondError(w, r, err)
		return
	}
	a.respondText(w, http.StatusOK, fmt.Sprintf("%s : %s", job.ID(), job.State()))
}

// getUnfinishedMaps handles GET /jobs/{jobid}/numunfinishedmaps
func (a *API) getUnfinishedMaps(w http.ResponseWriter, r *http.Request) {
	job, err := a.resolveJob(r)
	if err != nil {
		a.respondError(w, r, err)
		return
	}
	a.respondText(w, http.StatusOK, fmt.Sprintf("%s:%d", job.ID(), job.TotalMaps()-job.CompletedMaps()))
}

// setNumReducers handles GET /jobs/{jobid}/setnumreducers?nreducers=N
func (a *API) setNumReducers(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("jobid")
	count, err := intParam(r, "nreducers")
	if err != nil {
		a.respondError(w, r, err)
		return
	}
	a.logger.Info("Set number of reducers requested", "job_id", jobID, "nreducers", count)

	if _, err := a.mutations.SetNumReducers(jobID, count); err != nil {
		a.respondError(w, r, err)
		return
	}
	a.respondText(w, http.StatusOK, succeeded)
}

// rerunMapTask handles GET /jobs/{jobid}/rerunmaptask?id=N. Failures other
// than an out of range index are reported in the status token.
func (a *API) rerunMapTask(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("jobid")
	mapIndex, err := intParam(r, "id")
	if err != nil {
		a.respondError(w, r, err)
		return
	}
	a.logger.Info("Rerun map task requested", "job_id", jobID, "map_index", mapIndex)

	status, err := a.mutations.RerunMapTask(jobID, mapIndex)
	if err != nil {
		a.respondError(w, r, err)
		return
	}
	a.respondText(w, http.StatusOK, jobID+":"+string(status))
}

// rerunMapTaskStrict handles GET /jobs/{jobid}/rerunmaptask/strict?id=N
func (a *API) rerunMapTaskStrict(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("jobid")
	mapIndex, err := intParam(r, "id")
	if err != nil {
		a.respondError(w, r, err)
		return
	}
	a.logger.Info("Strict rerun map task requested", "job_id", jobID, "map_index", mapIndex)

	if _, err := a.mutations.RerunMapTaskStrict(jobID, mapIndex); err != nil {
		a.respondError(w, r, err)
		return
	}
	a.respondText(w, http.StatusOK, jobID+":"+string(core.RetrySucceeded))
}

// setWorkBuilderPort handles GET /jobs/{jobid}/workbuilderport?port=N
func (a *API) setWorkBuilderPort(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("jobid")
	port, err := intParam(r, "port")
	if err != nil {
		a.respondError(w, r, err)
		return
	}
	a.logger.Info("Set work builder port requested", "job_id", jobID, "port", port)

	if _, err := a.mutations.SetCallbackPort(jobID, port); err != nil {
		a.respondError(w, r, err)
		return
	}
	a.respondText(w, http.StatusOK, succeeded)
}

func intParam(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, core.ErrMalformed.New("missing query parameter %s", name)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, core.ErrMalformed.New("invalid %s: %q", name, raw)
	}
	return v, nil
}
