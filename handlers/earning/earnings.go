package earning

import (
	"github.com/edumart/api/model"
	"github.com/edumart/api/services"
	"github.com/edumart/api/utils/middleware"
	"github.com/edumart/api/utils/response"
	"github.com/edumart/api/utils/validation"
	"github.com/gofiber/fiber/v2"
)

// EarningHandler handles creator earnings requests
type EarningHandler struct {
	settlement *services.SettlementService
	validator  *validation.Validator
}

// NewEarningHandler creates a new earnings handler
func NewEarningHandler(settlement *services.SettlementService) *EarningHandler {
	return &EarningHandler{
		settlement: settlement,
		validator:  validation.NewValidator(),
	}
}

// WithdrawRequest represents the request body for a withdrawal
type WithdrawRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

// GetEarnings handles GET /api/v1/earnings. A creator with no ledger yet
// gets an empty one rather than a 404.
func (h *EarningHandler) GetEarnings(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	earning, err := h.settlement.GetEarnings(c.UserContext(), userID)
	if err != nil {
		if err == services.ErrLedgerNotFound {
			return response.Success(c, model.Earning{CreatorID: userID})
		}
		return response.InternalServerError(c, "Failed to fetch earnings")
	}

	return response.Success(c, earning)
}

// Withdraw handles POST /api/v1/earnings/withdraw
func (h *EarningHandler) Withdraw(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req WithdrawRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	earning, err := h.settlement.RequestWithdrawal(c.UserContext(), userID, req.Amount)
	if err != nil {
		switch err {
		case services.ErrInvalidAmount:
			return response.BadRequest(c, "Withdrawal amount must be positive")
		case services.ErrLedgerNotFound:
			return response.NotFound(c, "No earnings recorded yet")
		case services.ErrInsufficientBalance:
			return response.UnprocessableEntity(c, "Withdrawal exceeds available balance", "INSUFFICIENT_BALANCE")
		default:
			return response.InternalServerError(c, "Failed to request withdrawal")
		}
	}

	return response.SuccessWithMessage(c, "Withdrawal requested", earning)
}
