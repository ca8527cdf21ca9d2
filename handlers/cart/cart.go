package cart

import (
	"github.com/edumart/api/services"
	"github.com/edumart/api/utils/middleware"
	"github.com/edumart/api/utils/response"
	"github.com/edumart/api/utils/validation"
	"github.com/gofiber/fiber/v2"
)

// CartHandler handles shopping cart requests
type CartHandler struct {
	carts     *services.CartService
	validator *validation.Validator
}

// NewCartHandler creates a new cart handler
func NewCartHandler(carts *services.CartService) *CartHandler {
	return &CartHandler{
		carts:     carts,
		validator: validation.NewValidator(),
	}
}

// AddToCartRequest represents the request body for adding a course to the cart
type AddToCartRequest struct {
	CourseID int64 `json:"course_id" validate:"required,gt=0"`
	Quantity int   `json:"quantity" validate:"omitempty,gte=1"`
}

// UpdateCartItemRequest represents the request body for changing a line quantity
type UpdateCartItemRequest struct {
	CourseID int64 `json:"course_id" validate:"required,gt=0"`
	Quantity int   `json:"quantity" validate:"required,gte=1"`
}

// UpdateTotalPriceRequest carries the total the client believes is current.
// The server re-derives the total from the stored lines and the claimed value
// is only used for discrepancy logging.
type UpdateTotalPriceRequest struct {
	TotalPrice float64 `json:"total_price" validate:"gte=0"`
}

// RemoveFromCartRequest represents the request body for removing a course line
type RemoveFromCartRequest struct {
	CourseID int64 `json:"course_id" validate:"required,gt=0"`
}

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	cart, err := h.carts.GetOrCreate(c.UserContext(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch cart")
	}

	return response.Success(c, cart)
}

// GetCartCount handles GET /api/v1/cart/count
func (h *CartHandler) GetCartCount(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	count, err := h.carts.Count(c.UserContext(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to count cart items")
	}

	return response.Success(c, fiber.Map{"count": count})
}

// AddToCart handles POST /api/v1/cart/add
func (h *CartHandler) AddToCart(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req AddToCartRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	if req.Quantity == 0 {
		req.Quantity = 1
	}

	cart, err := h.carts.AddItem(c.UserContext(), userID, req.CourseID, req.Quantity)
	if err != nil {
		switch err {
		case services.ErrCourseNotFound:
			return response.NotFound(c, "Course not found")
		case services.ErrInvalidQuantity:
			return response.BadRequest(c, "Quantity must be at least 1")
		default:
			return response.InternalServerError(c, "Failed to add course to cart")
		}
	}

	return response.SuccessWithMessage(c, "Course added to cart", cart)
}

// UpdateCartItem handles PUT /api/v1/cart/updatecartitem
func (h *CartHandler) UpdateCartItem(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req UpdateCartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	cart, err := h.carts.SetItemQuantity(c.UserContext(), userID, req.CourseID, req.Quantity)
	if err != nil {
		switch err {
		case services.ErrCartNotFound:
			return response.NotFound(c, "Cart not found")
		case services.ErrItemNotFound:
			return response.NotFound(c, "Course is not in the cart")
		case services.ErrInvalidQuantity:
			return response.BadRequest(c, "Quantity must be at least 1")
		default:
			return response.InternalServerError(c, "Failed to update cart item")
		}
	}

	return response.Success(c, cart)
}

// UpdateTotalPrice handles PUT /api/v1/cart/updatetotalprice
func (h *CartHandler) UpdateTotalPrice(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req UpdateTotalPriceRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	cart, err := h.carts.RecomputeTotal(c.UserContext(), userID, req.TotalPrice)
	if err != nil {
		if err == services.ErrCartNotFound {
			return response.NotFound(c, "Cart not found")
		}
		return response.InternalServerError(c, "Failed to update cart total")
	}

	return response.Success(c, cart)
}

// RemoveFromCart handles DELETE /api/v1/cart/removefromcart
func (h *CartHandler) RemoveFromCart(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req RemoveFromCartRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	cart, err := h.carts.RemoveItem(c.UserContext(), userID, req.CourseID)
	if err != nil {
		if err == services.ErrCartNotFound {
			return response.NotFound(c, "Cart not found")
		}
		return response.InternalServerError(c, "Failed to remove course from cart")
	}

	return response.SuccessWithMessage(c, "Course removed from cart", cart)
}

// ClearCart handles DELETE /api/v1/cart/clearcart
func (h *CartHandler) ClearCart(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	if err := h.carts.Clear(c.UserContext(), userID); err != nil {
		return response.InternalServerError(c, "Failed to clear cart")
	}

	return response.SuccessWithMessage(c, "Cart cleared", nil)
}
