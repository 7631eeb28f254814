package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bayraktare/pmt/internal/service/auth"
	"github.com/bayraktare/pmt/pkg/logger"
)

type AuthHandler struct {
	auth   *auth.Service
	logger *zap.Logger
}

func NewAuthHandler(authService *auth.Service, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: authService, logger: logger}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	log := logger.WithTrace(c.Request.Context(), h.logger)

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, log, "Login", err)
		return
	}
	log.Info("Login request received",
		zap.String("username", req.Username),
		zap.String("client_ip", c.ClientIP()),
	)

	sess, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, log, "Login", err, zap.String("username", req.Username))
		return
	}

	log.Info("Login: success",
		zap.String("username", req.Username),
		zap.String("organization", sess.User.Organization),
	)
	c.JSON(http.StatusOK, sess)
}

// Logout POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	log := logger.WithTrace(c.Request.Context(), h.logger)
	u, ok := CurrentUser(c)
	if !ok {
		unauthenticated(c)
		return
	}

	if err := h.auth.Logout(c.Request.Context(), currentClaims(c)); err != nil {
		respondError(c, log, "Logout", err, zap.String("username", u.Username))
		return
	}

	log.Info("Logout: success", zap.String("username", u.Username))
	c.JSON(http.StatusOK, gin.H{"status": "logged_out"})
}

// Me GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	u, ok := CurrentUser(c)
	if !ok {
		unauthenticated(c)
		return
	}
	c.JSON(http.StatusOK, auth.ProfileOf(u))
}
