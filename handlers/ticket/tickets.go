package ticket

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

// TicketHandler handles support ticket requests
type TicketHandler struct {
	db        *gorm.DB
	tickets   *services.TicketService
	validator *validation.Validator
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(db *gorm.DB, tickets *services.TicketService) *TicketHandler {
	return &TicketHandler{
		db:        db,
		tickets:   tickets,
		validator: validation.NewValidator(),
	}
}

// CreateTicketRequest represents the request body for opening a ticket
type CreateTicketRequest struct {
	Category string `json:"category" validate:"required,min=2,max=50"`
	Message  string `json:"message" validate:"required,min=10,max=5000"`
	Priority string `json:"priority" validate:"omitempty,oneof=Low Medium High"`
}

// UpdateTicketRequest represents the request body for updating a ticket
type UpdateTicketRequest struct {
	Status   string `json:"status" validate:"omitempty,oneof=Open 'In Progress' Closed"`
	Priority string `json:"priority" validate:"omitempty,oneof=Low Medium High"`
}

// CreateTicket handles POST /api/v1/tickets
func (h *TicketHandler) CreateTicket(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	ticket, err := h.tickets.CreateTicket(c.UserContext(), services.CreateTicketInput{
		UserID:   userID,
		Category: validation.SanitizeString(req.Category),
		Message:  validation.SanitizeString(req.Message),
		Priority: req.Priority,
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to create ticket")
	}

	return response.Created(c, ticket)
}

// ListTickets handles GET /api/v1/tickets. Requesters see their own tickets,
// support staff see every ticket.
func (h *TicketHandler) ListTickets(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	status := c.Query("status", "")

	query := h.db.Model(&model.Ticket{})
	if !user.IsSupportStaff() {
		query = query.Where("user_id = ?", user.ID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count tickets")
	}

	offset := (page - 1) * limit
	pagination := response.CalculatePagination(page, limit, total)

	var tickets []model.Ticket
	if err := query.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&tickets).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch tickets")
	}

	return response.Paginated(c, tickets, pagination)
}

// GetTicket handles GET /api/v1/tickets/:id
func (h *TicketHandler) GetTicket(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	ticketID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "Invalid ticket ID")
	}

	ticket, err := h.tickets.GetTicket(c.UserContext(), ticketID)
	if err != nil {
		if err == services.ErrTicketNotFound {
			return response.NotFound(c, "Ticket not found")
		}
		return response.InternalServerError(c, "Failed to fetch ticket")
	}

	if ticket.UserID != user.ID && !user.IsSupportStaff() {
		return response.Forbidden(c, "You cannot view this ticket")
	}

	return response.Success(c, ticket)
}

// UpdateTicket handles PUT /api/v1/tickets/:id. Only support staff may change
// status or priority.
func (h *TicketHandler) UpdateTicket(c *fiber.Ctx) error {
	ticketID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "Invalid ticket ID")
	}

	var req UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	ticket, err := h.tickets.UpdateTicket(c.UserContext(), ticketID, services.UpdateTicketInput{
		Status:   req.Status,
		Priority: req.Priority,
	})
	if err != nil {
		if err == services.ErrTicketNotFound {
			return response.NotFound(c, "Ticket not found")
		}
		return response.InternalServerError(c, "Failed to update ticket")
	}

	return response.Success(c, ticket)
}

// DeleteTicket handles DELETE /api/v1/tickets/:id
func (h *TicketHandler) DeleteTicket(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	ticketID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "Invalid ticket ID")
	}

	ticket, err := h.tickets.GetTicket(c.UserContext(), ticketID)
	if err != nil {
		if err == services.ErrTicketNotFound {
			return response.NotFound(c, "Ticket not found")
		}
		return response.InternalServerError(c, "Failed to fetch ticket")
	}

	if ticket.UserID != user.ID && !user.IsSupportStaff() {
		return response.Forbidden(c, "You cannot delete this ticket")
	}

	if err := h.tickets.DeleteTicket(c.UserContext(), ticketID); err != nil {
		return response.InternalServerError(c, "Failed to delete ticket")
	}

	return response.SuccessWithMessage(c, "Ticket deleted successfully", nil)
}
