package v1

import (
	"net/http"

	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type OfferHandler struct {
	offerUC domain.OfferUsecase
}

// NewOfferHandler registers offer routes
func NewOfferHandler(r *gin.RouterGroup, offerUC domain.OfferUsecase) {
	handler := &OfferHandler{offerUC: offerUC}

	offers := r.Group("/offers")
	{
		offers.POST("", handler.Create)
		offers.POST("/:id/accept", handler.Accept)
		offers.POST("/:id/decline", handler.Decline)
		offers.POST("/:id/withdraw", handler.Withdraw)
	}

	r.GET("/applications/:id/offers", handler.GetByApplication)
}

// OfferResponseRequest carries the optional reason for declining or withdrawing
type OfferResponseRequest struct {
	Reason string `json:"reason"`
}

// Create godoc
// @Summary      Extend an offer
// @Description  Extend a formal offer on an interviewed application; moves the application to offered in the same transaction (Employer only)
// @Tags         offers
// @Accept       json
// @Produce      json
// @Param        body  body      domain.CreateOfferInput  true  "Offer data"
// @Success      201   {object}  response.Response{data=domain.Offer}
// @Failure      403   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /offers [post]
// @Security     BearerAuth
func (h *OfferHandler) Create(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	role := c.GetString(string(domain.KeyUserRole))

	if role != domain.RoleEmployer {
		c.Error(apperror.Forbidden("Only employers can extend offers"))
		return
	}

	var in domain.CreateOfferInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	offer, err := h.offerUC.Create(c.Request.Context(), userID, in)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Offer extended", offer)
}

// Accept godoc
// @Summary      Accept an offer
// @Description  Accept a pending offer; moves the application to hired in the same transaction (Candidate only)
// @Tags         offers
// @Produce      json
// @Param        id   path      string  true  "Offer ID"
// @Success      200  {object}  response.Response{data=domain.Offer}
// @Failure      403  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /offers/{id}/accept [post]
// @Security     BearerAuth
func (h *OfferHandler) Accept(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	offer, err := h.offerUC.Accept(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Offer accepted", offer)
}

// Decline godoc
// @Summary      Decline an offer
// @Description  Decline a pending offer; the application stays at offered for the employer to act on (Candidate only)
// @Tags         offers
// @Accept       json
// @Produce      json
// @Param        id    path      string                true   "Offer ID"
// @Param        body  body      OfferResponseRequest  false  "Decline reason"
// @Success      200   {object}  response.Response{data=domain.Offer}
// @Failure      409   {object}  response.Response
// @Router       /offers/{id}/decline [post]
// @Security     BearerAuth
func (h *OfferHandler) Decline(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	var req OfferResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	offer, err := h.offerUC.Decline(c.Request.Context(), userID, c.Param("id"), req.Reason)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Offer declined", offer)
}

// Withdraw godoc
// @Summary      Withdraw an offer
// @Description  Withdraw a pending offer before the candidate responds (Employer only)
// @Tags         offers
// @Accept       json
// @Produce      json
// @Param        id    path      string                true   "Offer ID"
// @Param        body  body      OfferResponseRequest  false  "Withdrawal reason"
// @Success      200   {object}  response.Response{data=domain.Offer}
// @Failure      403   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /offers/{id}/withdraw [post]
// @Security     BearerAuth
func (h *OfferHandler) Withdraw(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	role := c.GetString(string(domain.KeyUserRole))

	if role != domain.RoleEmployer {
		c.Error(apperror.Forbidden("Only employers can withdraw offers"))
		return
	}

	var req OfferResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	offer, err := h.offerUC.Withdraw(c.Request.Context(), userID, c.Param("id"), req.Reason)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Offer withdrawn", offer)
}

// GetByApplication godoc
// @Summary      List offers for an application
// @Tags         offers
// @Produce      json
// @Param        id   path      string  true  "Application ID"
// @Success      200  {object}  response.Response{data=[]domain.Offer}
// @Failure      403  {object}  response.Response
// @Router       /applications/{id}/offers [get]
// @Security     BearerAuth
func (h *OfferHandler) GetByApplication(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	role := c.GetString(string(domain.KeyUserRole))

	offers, err := h.offerUC.GetByApplication(c.Request.Context(), userID, role, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Offers retrieved", offers)
}
