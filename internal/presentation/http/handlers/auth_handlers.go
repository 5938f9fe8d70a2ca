package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/studio-one/portfolio-api/internal/application/services"
	"github.com/studio-one/portfolio-api/internal/infrastructure/observability/logging"
	"github.com/studio-one/portfolio-api/internal/infrastructure/observability/performance"
)

// AuthHandlers contains the admin login handler
type AuthHandlers struct {
	authService *services.AuthService
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewAuthHandlers creates auth handlers with injected dependencies
func NewAuthHandlers(authService *services.AuthService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// LoginRequest represents the structure for login requests
type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// PostLogin handles POST /api/v1/auth/login - exchanges the admin password for a bearer token
func (h *AuthHandlers) PostLogin(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("post_login_request", "anonymous")
	defer marker.Complete()

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Auth().Error("Login request JSON binding failed", "error", err.Error())
		marker.SetError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result := h.authService.AuthenticateAdmin(req.Password)
	if !result.Success {
		marker.SetSuccess(false)
		h.logger.Perf().Info("Performance for PostLogin request", "duration", time.Since(start), "success", false)
		c.JSON(http.StatusUnauthorized, gin.H{"error": result.Error})
		return
	}

	h.logger.Perf().Info("Performance for PostLogin request", "duration", time.Since(start), "success", true)
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"token":     result.Token,
		"role":      result.Role,
		"expiresAt": result.ExpiresAt,
		"message":   "Login successful",
	})
}
