package v1

import (
	"net/http"
	"time"

	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type InterviewHandler struct {
	interviewUC domain.InterviewUsecase
}

// NewInterviewHandler registers interview routes
func NewInterviewHandler(r *gin.RouterGroup, interviewUC domain.InterviewUsecase) {
	handler := &InterviewHandler{interviewUC: interviewUC}

	interviews := r.Group("/interviews")
	{
		interviews.POST("", handler.Schedule)
		interviews.GET("", handler.GetInterviews)
		interviews.GET("/:id", handler.GetInterview)
		interviews.PATCH("/:id/reschedule", handler.Reschedule)
		interviews.POST("/:id/complete", handler.Complete)
		interviews.POST("/:id/cancel", handler.Cancel)
		interviews.POST("/:id/feedback", handler.SubmitFeedback)
	}
}

// RescheduleRequest is the payload for moving an interview to a new slot
type RescheduleRequest struct {
	ScheduledAt     time.Time `json:"scheduled_at" binding:"required"`
	DurationMinutes int       `json:"duration_minutes" binding:"required,gt=0"`
}

// CompleteInterviewRequest carries optional interviewer notes
type CompleteInterviewRequest struct {
	Notes string `json:"notes"`
}

// CancelInterviewRequest carries the optional cancellation reason
type CancelInterviewRequest struct {
	Reason string `json:"reason"`
}

// FeedbackRequest is the candidate's post-interview feedback
type FeedbackRequest struct {
	Feedback string `json:"feedback" binding:"required"`
}

// Schedule godoc
// @Summary      Schedule an interview
// @Description  Schedule an interview for a shortlisted candidate; moves the application to interview_scheduled in the same transaction (Employer only)
// @Tags         interviews
// @Accept       json
// @Produce      json
// @Param        body  body      domain.ScheduleInterviewInput  true  "Interview data"
// @Success      201   {object}  response.Response{data=domain.Interview}
// @Failure      403   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /interviews [post]
// @Security     BearerAuth
func (h *InterviewHandler) Schedule(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	role := c.GetString(string(domain.KeyUserRole))

	if role != domain.RoleEmployer {
		c.Error(apperror.Forbidden("Only employers can schedule interviews"))
		return
	}

	var in domain.ScheduleInterviewInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	iv, err := h.interviewUC.Schedule(c.Request.Context(), userID, in)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Interview scheduled", iv)
}

// GetInterviews godoc
// @Summary      List my interviews
// @Description  List interviews visible to the caller (own interviews for candidates, interviews on owned jobs for employers)
// @Tags         interviews
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Interview}
// @Failure      401  {object}  response.Response
// @Router       /interviews [get]
// @Security     BearerAuth
func (h *InterviewHandler) GetInterviews(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	role := c.GetString(string(domain.KeyUserRole))

	interviews, err := h.interviewUC.GetInterviews(c.Request.Context(), userID, role)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Interviews retrieved", interviews)
}

// GetInterview godoc
// @Summary      Get interview detail
// @Tags         interviews
// @Produce      json
// @Param        id   path      string  true  "Interview ID"
// @Success      200  {object}  response.Response{data=domain.Interview}
// @Failure      403  {object}  response.Response
// @Router       /interviews/{id} [get]
// @Security     BearerAuth
func (h *InterviewHandler) GetInterview(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	iv, err := h.interviewUC.GetByID(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Interview retrieved", iv)
}

// Reschedule godoc
// @Summary      Reschedule an interview
// @Tags         interviews
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "Interview ID"
// @Param        body  body      RescheduleRequest  true  "New slot"
// @Success      200   {object}  response.Response{data=domain.Interview}
// @Failure      409   {object}  response.Response
// @Router       /interviews/{id}/reschedule [patch]
// @Security     BearerAuth
func (h *InterviewHandler) Reschedule(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	iv, err := h.interviewUC.Reschedule(c.Request.Context(), userID, c.Param("id"), req.ScheduledAt, req.DurationMinutes)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Interview rescheduled", iv)
}

// Complete godoc
// @Summary      Complete an interview
// @Description  Mark an interview as completed with interviewer notes. The application stays at interview_scheduled; extend an offer to advance it.
// @Tags         interviews
// @Accept       json
// @Produce      json
// @Param        id    path      string                    true   "Interview ID"
// @Param        body  body      CompleteInterviewRequest  false  "Interviewer notes"
// @Success      200   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /interviews/{id}/complete [post]
// @Security     BearerAuth
func (h *InterviewHandler) Complete(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	var req CompleteInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	if err := h.interviewUC.Complete(c.Request.Context(), userID, c.Param("id"), req.Notes); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Interview completed", nil)
}

// Cancel godoc
// @Summary      Cancel an interview
// @Tags         interviews
// @Accept       json
// @Produce      json
// @Param        id    path      string                  true   "Interview ID"
// @Param        body  body      CancelInterviewRequest  false  "Cancellation reason"
// @Success      200   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /interviews/{id}/cancel [post]
// @Security     BearerAuth
func (h *InterviewHandler) Cancel(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	var req CancelInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	if err := h.interviewUC.Cancel(c.Request.Context(), userID, c.Param("id"), req.Reason); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Interview canceled", nil)
}

// SubmitFeedback godoc
// @Summary      Submit candidate feedback
// @Tags         interviews
// @Accept       json
// @Produce      json
// @Param        id    path      string           true  "Interview ID"
// @Param        body  body      FeedbackRequest  true  "Feedback"
// @Success      200   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Router       /interviews/{id}/feedback [post]
// @Security     BearerAuth
func (h *InterviewHandler) SubmitFeedback(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	if err := h.interviewUC.SubmitFeedback(c.Request.Context(), userID, c.Param("id"), req.Feedback); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Feedback submitted", nil)
}
