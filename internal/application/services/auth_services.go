// Package services provides application-level orchestration services
package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/studio-one/portfolio-api/internal/domain/user"
	"github.com/studio-one/portfolio-api/internal/infrastructure/observability/logging"
	"github.com/studio-one/portfolio-api/internal/infrastructure/security"
)

// AuthConfig holds the admin credentials and token settings.
type AuthConfig struct {
	JWTSecret     string
	AdminPassword string
	AdminUserID   string
	TokenTTL      time.Duration
	Policy        user.AccessPolicy
}

// AuthService handles admin login and bearer token resolution
type AuthService struct {
	config AuthConfig
	logger *logging.ChanneledLogger
}

// NewAuthService creates a new authentication service
func NewAuthService(config AuthConfig, logger *logging.ChanneledLogger) *AuthService {
	if config.TokenTTL <= 0 {
		config.TokenTTL = 24 * time.Hour
	}
	return &AuthService{
		config: config,
		logger: logger,
	}
}

// AuthResult holds authentication result data
type AuthResult struct {
	Token     string    `json:"token"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
	Success   bool      `json:"success"`
	Error     string    `json:"error,omitempty"`
}

// AuthenticateAdmin checks the admin password and issues a bearer token.
func (a *AuthService) AuthenticateAdmin(password string) *AuthResult {
	if !security.CheckPassword(a.config.AdminPassword, password) {
		a.logger.LogAuthOperation("admin_login", a.config.AdminUserID, false, nil)
		return &AuthResult{Success: false, Error: "Invalid credentials"}
	}

	identity := user.Identity{ID: a.config.AdminUserID, Role: "admin"}
	token, err := security.GenerateAdminToken(identity, a.config.JWTSecret, a.config.TokenTTL)
	if err != nil {
		a.logger.Auth().Error("Token generation failed", "error", err.Error())
		return &AuthResult{Success: false, Error: "Token generation failed"}
	}

	a.logger.LogAuthOperation("admin_login", identity.ID, true, map[string]any{"ttl": a.config.TokenTTL.String()})
	return &AuthResult{
		Token:     token,
		Role:      identity.Role,
		ExpiresAt: time.Now().Add(a.config.TokenTTL).UTC(),
		Success:   true,
	}
}

// ResolveIdentity turns an "Authorization: Bearer <token>" header value into
// an identity. Any other scheme, or no scheme at all, is rejected.
func (a *AuthService) ResolveIdentity(header string) (user.Identity, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return user.Identity{}, user.ErrUnauthorized
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Identity{}, user.ErrUnauthorized
	}

	claims, err := security.ValidateJWT(token, a.config.JWTSecret)
	if err != nil {
		return user.Identity{}, fmt.Errorf("%w: %w", user.ErrUnauthorized, err)
	}
	identity, err := security.IdentityFromClaims(claims)
	if err != nil {
		return user.Identity{}, fmt.Errorf("%w: %w", user.ErrUnauthorized, err)
	}
	return identity, nil
}

// AuthorizeAdmin resolves the caller and requires a privileged account.
func (a *AuthService) AuthorizeAdmin(header string) (user.Identity, error) {
	identity, err := a.ResolveIdentity(header)
	if err != nil {
		a.logger.LogAuthOperation("authorize_admin", "", false, map[string]any{"reason": err.Error()})
		return user.Identity{}, err
	}
	if !a.config.Policy.Privileged(identity) {
		a.logger.LogAuthOperation("authorize_admin", identity.ID, false, map[string]any{"role": identity.Role})
		return identity, user.ErrForbidden
	}
	return identity, nil
}
