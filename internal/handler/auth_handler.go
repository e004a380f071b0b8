package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/olagu/console/internal/common"
	"github.com/olagu/console/internal/domain"
	"github.com/olagu/console/internal/middleware"
	"github.com/olagu/console/internal/service"
	"github.com/olagu/console/pkg/logger"
)

// AuthHandler handles admin login, logout and identity
type AuthHandler struct {
	service service.AuthService
	cookie  middleware.SessionConfig
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service service.AuthService, cookie middleware.SessionConfig) *AuthHandler {
	return &AuthHandler{service: service, cookie: cookie}
}

// LoginResponse is returned on a successful login. The session cookie is set as
// well; the token serves bearer clients.
type LoginResponse struct {
	Token string             `json:"token"`
	User  *domain.MeResponse `json:"user"`
}

func meFrom(s *domain.Session) *domain.MeResponse {
	return &domain.MeResponse{
		AdminID:      s.AdminID,
		Username:     s.Username,
		Role:         s.Role,
		IsSuperAdmin: s.IsSuperAdmin(),
		ExpiresAt:    s.ExpiresAt,
	}
}

// Login godoc
// @Summary      Admin login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      domain.LoginRequest  true  "Credentials"
// @Success      200  {object}  common.V2Response{data=LoginResponse}
// @Failure      401  {object}  common.V2Response
// @Failure      504  {object}  common.V2Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.V2ErrorResponse(c, http.StatusBadRequest, "username and password are required", nil)
		return
	}

	sess, err := h.service.Login(c.Request.Context(), req.Username, req.Password)
	middleware.RecordWorkflowEvent("login", err)
	if err != nil {
		common.HandleError(c, err, "Login failed")
		return
	}

	maxAge := int(time.Until(sess.ExpiresAt).Seconds())
	middleware.SetSessionCookie(c, h.cookie, sess.ID, maxAge)
	common.V2Success(c, LoginResponse{Token: sess.Token, User: meFrom(sess)})
}

// Logout godoc
// @Summary      Admin logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  common.V2Response
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	sid, _ := c.Cookie(h.cookie.CookieName)
	if err := h.service.Logout(c.Request.Context(), sid); err != nil {
		logger.GetLogger().Warn().Err(err).Msg("logout: failed to discard credential")
	}
	middleware.ClearSessionCookie(c, h.cookie)
	common.V2Success(c, gin.H{"logged_out": true})
}

// Me godoc
// @Summary      Current admin
// @Tags         auth
// @Produce      json
// @Success      200  {object}  common.V2Response{data=domain.MeResponse}
// @Failure      401  {object}  common.V2Response
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	sess := middleware.GetSession(c)
	if !sess.IsAdmin() {
		common.HandleError(c, common.ErrUnauthorized, "")
		return
	}
	common.V2Success(c, meFrom(sess))
}
