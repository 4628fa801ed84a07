package v1

import (
	"net/http"

	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type ApplicationHandler struct {
	applicationUC domain.ApplicationUsecase
}

// NewApplicationHandler registers application lifecycle routes
func NewApplicationHandler(r *gin.RouterGroup, applicationUC domain.ApplicationUsecase) {
	handler := &ApplicationHandler{applicationUC: applicationUC}

	// Candidate routes
	candidates := r.Group("/candidates")
	{
		candidates.POST("/jobs/:jobId/apply", handler.ApplyToJob)
		candidates.GET("/applications", handler.GetMyApplications)
		candidates.POST("/applications/:id/withdraw", handler.WithdrawApplication)
	}

	// Employer routes
	employers := r.Group("/employers")
	{
		employers.GET("/jobs/:jobId/applications", handler.ListJobApplications)
		employers.PATCH("/applications/:id/status", handler.UpdateApplicationStatus)
	}

	// Shared
	r.GET("/applications/:id/history", handler.GetApplicationHistory)
}

// ApplyToJobRequest is the request payload for applying to a job
type ApplyToJobRequest struct {
	CoverLetter string `json:"cover_letter"`
}

// UpdateStatusRequest is the request payload for a bare status transition
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}

// WithdrawRequest carries the optional withdrawal note
type WithdrawRequest struct {
	Note string `json:"note"`
}

// ApplyToJob godoc
// @Summary      Apply to a job
// @Description  Submit an application for an open job (Candidate only)
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        jobId  path      string             true  "Job ID"
// @Param        body   body      ApplyToJobRequest  false "Application data"
// @Success      201    {object}  response.Response{data=domain.Application}
// @Failure      404    {object}  response.Response
// @Failure      409    {object}  response.Response
// @Router       /candidates/jobs/{jobId}/apply [post]
// @Security     BearerAuth
func (h *ApplicationHandler) ApplyToJob(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	role := c.GetString(string(domain.KeyUserRole))

	if role != domain.RoleCandidate {
		c.Error(apperror.Forbidden("Only candidates can apply to jobs"))
		return
	}

	jobID := c.Param("jobId")

	var req ApplyToJobRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	app, err := h.applicationUC.Submit(c.Request.Context(), userID, jobID, req.CoverLetter)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Application submitted successfully", app)
}

// GetMyApplications godoc
// @Summary      Get my applications
// @Description  List the current candidate's applications, optionally filtered by status
// @Tags         applications
// @Produce      json
// @Param        status  query     string  false  "Status filter"
// @Success      200     {object}  response.Response{data=[]domain.Application}
// @Failure      401     {object}  response.Response
// @Router       /candidates/applications [get]
// @Security     BearerAuth
func (h *ApplicationHandler) GetMyApplications(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	status := c.Query("status")

	applications, err := h.applicationUC.GetMyApplications(c.Request.Context(), userID, status)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Applications retrieved", applications)
}

// WithdrawApplication godoc
// @Summary      Withdraw an application
// @Description  Move the caller's own application to withdrawn (terminal)
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id    path      string           true   "Application ID"
// @Param        body  body      WithdrawRequest  false  "Withdrawal note"
// @Success      200   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /candidates/applications/{id}/withdraw [post]
// @Security     BearerAuth
func (h *ApplicationHandler) WithdrawApplication(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	applicationID := c.Param("id")

	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	if err := h.applicationUC.Withdraw(c.Request.Context(), userID, applicationID, req.Note); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Application withdrawn", nil)
}

// ListJobApplications godoc
// @Summary      List applications for a job
// @Description  Get all applications for a job the caller owns (Employer only)
// @Tags         applications
// @Produce      json
// @Param        jobId  path      string  true  "Job ID"
// @Success      200    {object}  response.Response{data=[]domain.Application}
// @Failure      403    {object}  response.Response
// @Router       /employers/jobs/{jobId}/applications [get]
// @Security     BearerAuth
func (h *ApplicationHandler) ListJobApplications(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	jobID := c.Param("jobId")

	applications, err := h.applicationUC.ListByJobID(c.Request.Context(), userID, jobID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Applications retrieved", applications)
}

// UpdateApplicationStatus godoc
// @Summary      Update application status
// @Description  Apply a direct lifecycle transition (viewed, shortlisted, rejected). Interview, offer and hired stages are driven by their own flows.
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id    path      string               true  "Application ID"
// @Param        body  body      UpdateStatusRequest  true  "Target status"
// @Success      200   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /employers/applications/{id}/status [patch]
// @Security     BearerAuth
func (h *ApplicationHandler) UpdateApplicationStatus(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	role := c.GetString(string(domain.KeyUserRole))
	applicationID := c.Param("id")

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	if err := h.applicationUC.Transition(c.Request.Context(), userID, role, applicationID, req.Status, req.Note); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Application status updated", nil)
}

// GetApplicationHistory godoc
// @Summary      Get application status history
// @Description  Return the append-only audit trail for an application visible to the caller
// @Tags         applications
// @Produce      json
// @Param        id   path      string  true  "Application ID"
// @Success      200  {object}  response.Response{data=[]domain.ApplicationStatusHistory}
// @Failure      403  {object}  response.Response
// @Router       /applications/{id}/history [get]
// @Security     BearerAuth
func (h *ApplicationHandler) GetApplicationHistory(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	role := c.GetString(string(domain.KeyUserRole))
	applicationID := c.Param("id")

	history, err := h.applicationUC.GetHistory(c.Request.Context(), userID, role, applicationID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "History retrieved", history)
}
