package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	lexerrors "github.com/gcbaptista/lexidex/internal/errors"
	"github.com/gcbaptista/lexidex/model"
)

// GetJobHandler reports a tracked job's status and progress.
func (h *API) GetJobHandler(c *gin.Context) {
	jobID := c.Param("jobId")

	job, err := h.manager.Jobs().GetJob(jobID)
	if err != nil {
		if errors.Is(err, lexerrors.ErrJobNotFound) {
			SendJobNotFoundError(c, jobID)
			return
		}
		SendInternalError(c, "get job", err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// ListJobsHandler lists the jobs created for an index, optionally filtered
// by status via the "status" query parameter.
func (h *API) ListJobsHandler(c *gin.Context) {
	indexName := c.Param("indexName")

	var status *model.JobStatus
	if raw := c.Query("status"); raw != "" {
		s := model.JobStatus(raw)
		status = &s
	}

	jobs := h.manager.Jobs().ListJobs(indexName, status)
	c.JSON(http.StatusOK, gin.H{"jobs": jobs, "count": len(jobs)})
}
