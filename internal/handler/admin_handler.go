package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/olagu/console/internal/common"
	"github.com/olagu/console/internal/domain"
	"github.com/olagu/console/internal/middleware"
	"github.com/olagu/console/internal/service"
)

// AdminHandler manages console administrators
type AdminHandler struct {
	service service.AdminService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(service service.AdminService) *AdminHandler {
	return &AdminHandler{service: service}
}

// List godoc
// @Summary      List admins
// @Tags         admins
// @Produce      json
// @Success      200  {object}  common.V2Response{data=[]domain.Admin}
// @Failure      403  {object}  common.V2Response
// @Router       /admin/admins [get]
func (h *AdminHandler) List(c *gin.Context) {
	admins, err := h.service.List(c.Request.Context(), middleware.GetSession(c))
	if err != nil {
		common.HandleError(c, err, "Failed to fetch admins")
		return
	}
	common.V2Success(c, admins)
}

// GetByUsername godoc
// @Summary      Find admin by username
// @Tags         admins
// @Produce      json
// @Param        username  path  string  true  "Username"
// @Success      200  {object}  common.V2Response{data=domain.Admin}
// @Failure      404  {object}  common.V2Response
// @Router       /admin/admins/by-username/{username} [get]
func (h *AdminHandler) GetByUsername(c *gin.Context) {
	admin, err := h.service.GetByUsername(c.Request.Context(), middleware.GetSession(c), c.Param("username"))
	if err != nil {
		common.HandleError(c, err, "Failed to fetch admin")
		return
	}
	common.V2Success(c, admin)
}

// Create godoc
// @Summary      Create admin
// @Tags         admins
// @Accept       json
// @Produce      json
// @Param        request  body  domain.CreateAdminRequest  true  "New admin"
// @Success      201  {object}  common.V2Response{data=domain.Admin}
// @Failure      409  {object}  common.V2Response
// @Router       /admin/admins [post]
func (h *AdminHandler) Create(c *gin.Context) {
	var req domain.CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.V2ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	admin, err := h.service.Create(c.Request.Context(), middleware.GetSession(c), &req)
	if err != nil {
		common.HandleError(c, err, "Failed to create admin")
		return
	}
	common.V2Created(c, admin)
}

// Update godoc
// @Summary      Update admin role or email
// @Tags         admins
// @Accept       json
// @Produce      json
// @Param        id       path  string                     true  "Admin ID"
// @Param        request  body  domain.UpdateAdminRequest  true  "Changes"
// @Success      200  {object}  common.V2Response{data=domain.Admin}
// @Router       /admin/admins/{id} [put]
func (h *AdminHandler) Update(c *gin.Context) {
	var req domain.UpdateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.V2ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	admin, err := h.service.Update(c.Request.Context(), middleware.GetSession(c), c.Param("id"), &req)
	if err != nil {
		common.HandleError(c, err, "Failed to update admin")
		return
	}
	common.V2Success(c, admin)
}

// Delete godoc
// @Summary      Delete admin
// @Tags         admins
// @Produce      json
// @Param        id  path  string  true  "Admin ID"
// @Success      200  {object}  common.V2Response
// @Router       /admin/admins/{id} [delete]
func (h *AdminHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.service.Delete(c.Request.Context(), middleware.GetSession(c), id); err != nil {
		common.HandleError(c, err, "Failed to delete admin")
		return
	}
	common.V2Success(c, gin.H{"id": id, "deleted": true})
}

// ChangePassword godoc
// @Summary      Change admin password
// @Description  Admins may change their own password; super admins may change anyone's.
// @Tags         admins
// @Accept       json
// @Produce      json
// @Param        id       path  string                        true  "Admin ID"
// @Param        request  body  domain.ChangePasswordRequest  true  "Passwords"
// @Success      200  {object}  common.V2Response
// @Router       /admin/admins/{id}/password [put]
func (h *AdminHandler) ChangePassword(c *gin.Context) {
	var req domain.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.V2ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), middleware.GetSession(c), c.Param("id"), &req); err != nil {
		common.HandleError(c, err, "Failed to change password")
		return
	}
	common.V2Success(c, gin.H{"changed": true})
}
