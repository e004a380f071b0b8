package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/olagu/console/internal/common"
	"github.com/olagu/console/internal/domain"
	"github.com/olagu/console/internal/middleware"
	"github.com/olagu/console/internal/service"
)

// DonationHandler handles donation records
type DonationHandler struct {
	service service.DonationService
}

// NewDonationHandler creates a new DonationHandler
func NewDonationHandler(service service.DonationService) *DonationHandler {
	_ = RegisterValidators()
	return &DonationHandler{service: service}
}

// Record godoc
// @Summary      Record a donation
// @Tags         donations
// @Accept       json
// @Produce      json
// @Param        request  body      domain.CreateDonationRequest  true  "Donation"
// @Success      201  {object}  common.V2Response{data=domain.Donation}
// @Failure      400  {object}  common.V2Response
// @Failure      503  {object}  common.V2Response
// @Router       /donations [post]
func (h *DonationHandler) Record(c *gin.Context) {
	var req domain.CreateDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.V2ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	d, err := h.service.Record(c.Request.Context(), &req)
	middleware.RecordWorkflowEvent("donation", err)
	if err != nil {
		common.HandleError(c, err, "Failed to record donation")
		return
	}
	common.V2Created(c, d)
}

// List godoc
// @Summary      All donations, newest first
// @Tags         admin-donations
// @Produce      json
// @Success      200  {object}  common.V2Response{data=[]domain.Donation}
// @Router       /admin/donations [get]
func (h *DonationHandler) List(c *gin.Context) {
	list, err := h.service.ListAll(c.Request.Context(), middleware.GetSession(c))
	if err != nil {
		common.HandleError(c, err, "Failed to fetch donations")
		return
	}
	common.V2Success(c, list)
}

// Total godoc
// @Summary      Donation total
// @Tags         admin-donations
// @Produce      json
// @Success      200  {object}  common.V2Response{data=domain.DonationTotal}
// @Router       /admin/donations/total [get]
func (h *DonationHandler) Total(c *gin.Context) {
	total, err := h.service.Total(c.Request.Context(), middleware.GetSession(c))
	if err != nil {
		common.HandleError(c, err, "Failed to compute total")
		return
	}
	common.V2Success(c, total)
}
