package auth

import (
	"github.com/edumart/api/utils/middleware"
	"github.com/edumart/api/utils/response"
	"github.com/edumart/api/utils/validation"
	"github.com/gofiber/fiber/v2"
)

// Profile returns the authenticated user's profile
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	return response.Success(c, toUserResponse(user))
}

// UpdateProfileRequest represents a profile update request
type UpdateProfileRequest struct {
	Name string `json:"name" validate:"omitempty,min=2,max=255"`
}

// UpdateProfile updates the authenticated user's profile
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	if req.Name != "" {
		user.Name = validation.SanitizeString(req.Name)
		if err := h.db.Save(user).Error; err != nil {
			return response.InternalServerError(c, "Failed to update profile")
		}
	}

	return response.Success(c, toUserResponse(user))
}
