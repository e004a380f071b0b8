package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/olagu/console/internal/common"
	"github.com/olagu/console/internal/domain"
	"github.com/olagu/console/internal/middleware"
	"github.com/olagu/console/internal/service"
	"github.com/olagu/console/pkg/ginutil"
)

// GiftCodeHandler manages gift codes
type GiftCodeHandler struct {
	service service.GiftCodeService
}

// NewGiftCodeHandler creates a new GiftCodeHandler
func NewGiftCodeHandler(service service.GiftCodeService) *GiftCodeHandler {
	return &GiftCodeHandler{service: service}
}

// pageMeta builds list metadata. A negative total means the remote service did
// not report one, so it is inferred from the page.
func pageMeta(page, pageSize, count, total int) *common.V2Meta {
	if total < 0 {
		total = (page-1)*pageSize + count
	}
	return common.NewV2Meta(page, pageSize, int64(total))
}

// List godoc
// @Summary      List gift codes
// @Tags         gift-codes
// @Produce      json
// @Param        page      query  int  false  "Page"       default(1)
// @Param        pageSize  query  int  false  "Page size"  default(10)
// @Success      200  {object}  common.V2Response{data=[]domain.GiftCodeView}
// @Router       /admin/gift-codes [get]
func (h *GiftCodeHandler) List(c *gin.Context) {
	page, pageSize := ginutil.Pagination(c, service.DefaultGiftCodePageSize, service.MaxGiftCodePageSize)

	views, total, err := h.service.ListPage(c.Request.Context(), middleware.GetSession(c), page, pageSize)
	if err != nil {
		common.HandleError(c, err, "Failed to fetch gift codes")
		return
	}
	common.V2SuccessWithMeta(c, views, pageMeta(page, pageSize, len(views), total))
}

// Get godoc
// @Summary      Gift code detail
// @Tags         gift-codes
// @Produce      json
// @Param        id  path  string  true  "Gift code ID"
// @Success      200  {object}  common.V2Response{data=domain.GiftCodeView}
// @Failure      404  {object}  common.V2Response
// @Router       /admin/gift-codes/{id} [get]
func (h *GiftCodeHandler) Get(c *gin.Context) {
	view, err := h.service.Get(c.Request.Context(), middleware.GetSession(c), c.Param("id"))
	if err != nil {
		common.HandleError(c, err, "Failed to fetch gift code")
		return
	}
	common.V2Success(c, view)
}

// Create godoc
// @Summary      Create gift code
// @Description  Specific codes take their accounts from specific_accounts or from accounts_text (one per line).
// @Tags         gift-codes
// @Accept       json
// @Produce      json
// @Param        request  body  domain.CreateGiftCodeRequest  true  "Gift code"
// @Success      201  {object}  common.V2Response{data=domain.GiftCode}
// @Failure      400  {object}  common.V2Response
// @Router       /admin/gift-codes [post]
func (h *GiftCodeHandler) Create(c *gin.Context) {
	var req domain.CreateGiftCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.V2ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	g, err := h.service.Create(c.Request.Context(), middleware.GetSession(c), &req)
	middleware.RecordWorkflowEvent("gift_code_create", err)
	if err != nil {
		common.HandleError(c, err, "Failed to create gift code")
		return
	}
	common.V2Created(c, g)
}

// Delete godoc
// @Summary      Delete gift code
// @Tags         gift-codes
// @Produce      json
// @Param        id  path  string  true  "Gift code ID"
// @Success      200  {object}  common.V2Response
// @Router       /admin/gift-codes/{id} [delete]
func (h *GiftCodeHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.service.Delete(c.Request.Context(), middleware.GetSession(c), id); err != nil {
		common.HandleError(c, err, "Failed to delete gift code")
		return
	}
	common.V2Success(c, gin.H{"id": id, "deleted": true})
}

// Extend godoc
// @Summary      Extend expiry
// @Description  The new expiry must be later than both now and the current expiry.
// @Tags         gift-codes
// @Accept       json
// @Produce      json
// @Param        id       path  string                        true  "Gift code ID"
// @Param        request  body  domain.ExtendGiftCodeRequest  true  "New expiry"
// @Success      200  {object}  common.V2Response{data=domain.GiftCode}
// @Router       /admin/gift-codes/{id}/extend [patch]
func (h *GiftCodeHandler) Extend(c *gin.Context) {
	var req domain.ExtendGiftCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.V2ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	g, err := h.service.ExtendExpiry(c.Request.Context(), middleware.GetSession(c), c.Param("id"), req.ExpiryDate)
	if err != nil {
		common.HandleError(c, err, "Failed to extend gift code")
		return
	}
	common.V2Success(c, g)
}

// AddAccounts godoc
// @Summary      Add accounts to a specific gift code
// @Tags         gift-codes
// @Accept       json
// @Produce      json
// @Param        id       path  string                     true  "Gift code ID"
// @Param        request  body  domain.AddAccountsRequest  true  "Accounts, one per line"
// @Success      200  {object}  common.V2Response{data=domain.AddAccountsResult}
// @Router       /admin/gift-codes/{id}/accounts [post]
func (h *GiftCodeHandler) AddAccounts(c *gin.Context) {
	var req domain.AddAccountsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.V2ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	res, err := h.service.AddAccounts(c.Request.Context(), middleware.GetSession(c), c.Param("id"), req.Accounts)
	if err != nil {
		common.HandleError(c, err, "Failed to add accounts")
		return
	}
	common.V2Success(c, res)
}

// RemoveAccount godoc
// @Summary      Remove an account from a specific gift code
// @Tags         gift-codes
// @Accept       json
// @Produce      json
// @Param        id       path  string                       true  "Gift code ID"
// @Param        request  body  domain.RemoveAccountRequest  true  "Account"
// @Success      200  {object}  common.V2Response{data=domain.GiftCode}
// @Router       /admin/gift-codes/{id}/accounts [delete]
func (h *GiftCodeHandler) RemoveAccount(c *gin.Context) {
	var req domain.RemoveAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.V2ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	g, err := h.service.RemoveAccount(c.Request.Context(), middleware.GetSession(c), c.Param("id"), req.Account)
	if err != nil {
		common.HandleError(c, err, "Failed to remove account")
		return
	}
	common.V2Success(c, g)
}

// Redemptions godoc
// @Summary      Redemption history
// @Tags         gift-codes
// @Produce      json
// @Param        id  path  string  true  "Gift code ID"
// @Success      200  {object}  common.V2Response
// @Router       /admin/gift-codes/{id}/redemptions [get]
func (h *GiftCodeHandler) Redemptions(c *gin.Context) {
	h.rawPage(c, h.service.Redemptions, "Failed to fetch redemptions")
}

// Logs godoc
// @Summary      Gift code activity log
// @Tags         gift-codes
// @Produce      json
// @Param        id  path  string  true  "Gift code ID"
// @Success      200  {object}  common.V2Response
// @Router       /admin/gift-codes/{id}/logs [get]
func (h *GiftCodeHandler) Logs(c *gin.Context) {
	h.rawPage(c, h.service.Logs, "Failed to fetch logs")
}

func (h *GiftCodeHandler) rawPage(
	c *gin.Context,
	fetch func(ctx context.Context, sess *domain.Session, id string, page, pageSize int) ([]json.RawMessage, int, error),
	fallback string,
) {
	page, pageSize := ginutil.Pagination(c, service.DefaultGiftCodePageSize, service.MaxGiftCodePageSize)

	items, total, err := fetch(c.Request.Context(), middleware.GetSession(c), c.Param("id"), page, pageSize)
	if err != nil {
		common.HandleError(c, err, fallback)
		return
	}
	common.V2SuccessWithMeta(c, items, pageMeta(page, pageSize, len(items), total))
}
