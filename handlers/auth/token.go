package auth

import (
	"github.com/edumart/api/model"
	"github.com/edumart/api/utils/middleware"
	"github.com/edumart/api/utils/response"
	"github.com/gofiber/fiber/v2"
)

// RefreshRequest represents a token refresh request
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Refresh exchanges a valid refresh token for a new access token
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.RefreshToken == "" {
		return response.BadRequest(c, "Refresh token is required")
	}

	claims, err := h.jwtManager.ValidateToken(req.RefreshToken)
	if err != nil {
		return response.Unauthorized(c, "Invalid refresh token")
	}

	// The token version check catches refresh tokens issued before a
	// revoke-all
	var user model.User
	if err := h.db.First(&user, claims.UserID).Error; err != nil {
		return response.Unauthorized(c, "User not found")
	}
	if user.TokenVersion != claims.TokenVersion {
		return response.Unauthorized(c, "Token has been invalidated")
	}

	accessToken, _, err := h.jwtManager.RefreshAccessToken(req.RefreshToken, user.TokenVersion)
	if err != nil {
		return response.Unauthorized(c, "Invalid refresh token")
	}

	return response.Success(c, fiber.Map{
		"access_token": accessToken,
		"expires_in":   24 * 60 * 60,
	})
}

// Logout revokes the current access token
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	jti, ok := middleware.GetTokenJTI(c)
	if !ok {
		return response.Unauthorized(c, "Token not found in context")
	}

	claims, ok := middleware.GetClaims(c)
	if !ok || claims.ExpiresAt == nil {
		return response.Unauthorized(c, "Invalid token claims")
	}

	if err := h.blacklistService.RevokeToken(c.UserContext(), jti, userID, claims.ExpiresAt.Time, "logout"); err != nil {
		return response.InternalServerError(c, "Failed to revoke token")
	}

	return response.SuccessWithMessage(c, "Logged out successfully", nil)
}
