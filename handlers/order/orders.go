package order

import (
	"strconv"

	"github.com/edumart/api/model"
	"github.com/edumart/api/services"
	"github.com/edumart/api/utils/middleware"
	"github.com/edumart/api/utils/response"
	"github.com/edumart/api/utils/validation"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// OrderHandler handles order requests
type OrderHandler struct {
	db         *gorm.DB
	settlement *services.SettlementService
	validator  *validation.Validator
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(db *gorm.DB, settlement *services.SettlementService) *OrderHandler {
	return &OrderHandler{
		db:         db,
		settlement: settlement,
		validator:  validation.NewValidator(),
	}
}

// CreateOrderRequest represents the request body for recording a purchase
type CreateOrderRequest struct {
	CourseID   int64   `json:"course_id" validate:"required,gt=0"`
	TotalPrice float64 `json:"total_price" validate:"gte=0"`
}

// CreateOrder handles POST /api/v1/orders. A successful response means the
// order row, the course purchase count, and the creator's earnings credit
// were all committed together.
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	order, err := h.settlement.SettlePurchase(c.UserContext(), req.CourseID, userID, req.TotalPrice)
	if err != nil {
		switch err {
		case services.ErrCourseNotFound:
			return response.NotFound(c, "Course not found")
		case services.ErrInvalidAmount:
			return response.BadRequest(c, "Order total cannot be negative")
		default:
			return response.InternalServerError(c, "Failed to record order")
		}
	}

	return response.Created(c, order)
}

// ListOrders handles GET /api/v1/orders. Learners see their own purchases,
// creators see sales of their courses, admins see everything.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))

	query := h.db.Model(&model.Order{})
	switch user.Role {
	case model.RoleAdmin:
		// no filter
	case model.RoleCreator:
		query = query.Where("creator_id = ?", user.ID)
	default:
		query = query.Where("learner_id = ?", user.ID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count orders")
	}

	offset := (page - 1) * limit
	pagination := response.CalculatePagination(page, limit, total)

	var orders []model.Order
	if err := query.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&orders).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch orders")
	}

	return response.Paginated(c, orders, pagination)
}

// GetOrder handles GET /api/v1/orders/:id
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	orderID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "Invalid order ID")
	}

	var order model.Order
	if err := h.db.Where("order_id = ?", orderID).First(&order).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Order not found")
		}
		return response.InternalServerError(c, "Failed to fetch order")
	}

	if user.Role != model.RoleAdmin && order.LearnerID != user.ID && order.CreatorID != user.ID {
		return response.Forbidden(c, "You cannot view this order")
	}

	return response.Success(c, order)
}
