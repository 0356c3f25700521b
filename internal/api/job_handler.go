package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/cleanconnect-api/internal/api/shared"
	"github.com/phrazzld/cleanconnect-api/internal/service"
	"github.com/phrazzld/cleanconnect-api/internal/store"
)

// JobHandler serves a provider's job requests.
type JobHandler struct {
	jobs   service.JobService
	logger *slog.Logger
}

// NewJobHandler creates a JobHandler.
func NewJobHandler(jobs service.JobService, logger *slog.Logger) *JobHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &JobHandler{
		jobs:   jobs,
		logger: logger.With(slog.String("component", "job_handler")),
	}
}

// ListJobs handles GET /api/providers/jobs.
func (h *JobHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	provider, err := currentProvider(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	jobs, err := h.jobs.ListJobs(r.Context(), provider.ID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to retrieve jobs")
		return
	}
	shared.RespondList(w, r, "Job list retrieved", jobs, len(jobs))
}

// GetJob handles GET /api/providers/jobs/{id}.
func (h *JobHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	provider, jobID, ok := h.target(w, r)
	if !ok {
		return
	}
	job, err := h.jobs.GetJob(r.Context(), provider, jobID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to retrieve job")
		return
	}
	shared.RespondSuccess(w, r, http.StatusOK, "Job details retrieved", job)
}

// AcceptJob handles PUT /api/providers/jobs/{id}/accept.
func (h *JobHandler) AcceptJob(w http.ResponseWriter, r *http.Request) {
	provider, jobID, ok := h.target(w, r)
	if !ok {
		return
	}
	job, err := h.jobs.AcceptJob(r.Context(), provider, jobID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to accept job")
		return
	}
	shared.RespondSuccess(w, r, http.StatusOK, "Job accepted", job)
}

// DeclineJob handles PUT /api/providers/jobs/{id}/decline.
func (h *JobHandler) DeclineJob(w http.ResponseWriter, r *http.Request) {
	provider, jobID, ok := h.target(w, r)
	if !ok {
		return
	}
	var req DeclineJobRequest
	if err := decodeOptional(r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	job, err := h.jobs.DeclineJob(r.Context(), provider, jobID, req.Reason)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to decline job")
		return
	}
	shared.RespondSuccess(w, r, http.StatusOK, "Job declined", job)
}

// CompleteJob handles PUT /api/providers/jobs/{id}/complete.
func (h *JobHandler) CompleteJob(w http.ResponseWriter, r *http.Request) {
	provider, jobID, ok := h.target(w, r)
	if !ok {
		return
	}
	var req CompleteJobRequest
	if err := decodeOptional(r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	job, err := h.jobs.CompleteJob(r.Context(), provider, jobID, req.CompletionNotes)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to complete job")
		return
	}
	shared.RespondSuccess(w, r, http.StatusOK, "Job completed", job)
}

// target extracts the authenticated provider and the job id, writing the
// error response when either is missing.
func (h *JobHandler) target(w http.ResponseWriter, r *http.Request) (providerID, jobID uuid.UUID, ok bool) {
	provider, err := currentProvider(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return uuid.Nil, uuid.Nil, false
	}
	jobID, err = getPathUUID(r, "id", store.ErrJobNotFound)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return uuid.Nil, uuid.Nil, false
	}
	return provider.ID, jobID, true
}
