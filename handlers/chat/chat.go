package chat

import (
	"context"
	"log"
	"strconv"

	"github.com/edumart/api/model"
	"github.com/edumart/api/services"
	"github.com/edumart/api/utils/auth"
	"github.com/edumart/api/utils/middleware"
	"github.com/edumart/api/utils/response"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// ChatHandler handles ticket chat, both the websocket relay and the REST
// history endpoint.
type ChatHandler struct {
	chat       *services.ChatService
	tickets    *services.TicketService
	jwtManager *auth.JWTManager
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chat *services.ChatService, tickets *services.TicketService, jwtManager *auth.JWTManager) *ChatHandler {
	return &ChatHandler{
		chat:       chat,
		tickets:    tickets,
		jwtManager: jwtManager,
	}
}

// ClientEvent is one inbound websocket frame
type ClientEvent struct {
	Event    string `json:"event"` // join_ticket, send_message
	TicketID int64  `json:"ticket_id"`
	Message  string `json:"message"`
}

// ServerEvent is one outbound websocket frame that is not a chat message
type ServerEvent struct {
	Event    string `json:"event"`
	TicketID int64  `json:"ticket_id,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Upgrade gates the websocket handshake. Browsers cannot set an Authorization
// header on websocket requests, so the token arrives as a query parameter.
func (h *ChatHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	token := c.Query("token")
	if token == "" {
		return response.Unauthorized(c, "Missing authentication token")
	}

	claims, err := h.jwtManager.ValidateToken(token)
	if err != nil || claims.TokenType != "access" {
		return response.Unauthorized(c, "Invalid or expired token")
	}

	c.Locals("ws_user_id", claims.UserID)
	c.Locals("ws_user_role", claims.Role)
	return c.Next()
}

// Serve is the websocket connection loop. A client joins one ticket room and
// sends messages into it; every persisted message is echoed back to the whole
// room, the sender included.
func (h *ChatHandler) Serve(conn *websocket.Conn) {
	userID, _ := conn.Locals("ws_user_id").(uint)
	role, _ := conn.Locals("ws_user_role").(string)
	registry := h.chat.Rooms()

	defer func() {
		registry.Leave(conn)
		conn.Close()
	}()

	for {
		var event ClientEvent
		if err := conn.ReadJSON(&event); err != nil {
			return
		}

		switch event.Event {
		case "join_ticket":
			if !h.canAccess(userID, role, event.TicketID) {
				h.sendError(conn, "You cannot join this ticket's chat")
				continue
			}
			registry.Join(services.TicketRoom(event.TicketID), conn)
			_ = conn.WriteJSON(ServerEvent{Event: "joined", TicketID: event.TicketID})

		case "send_message":
			if event.Message == "" {
				h.sendError(conn, "Message cannot be empty")
				continue
			}
			if !h.canAccess(userID, role, event.TicketID) {
				h.sendError(conn, "You cannot post to this ticket's chat")
				continue
			}

			senderRole := model.ChatRoleUser
			if role == model.RoleAdmin || role == model.RoleSupport {
				senderRole = model.ChatRoleAdmin
			}

			_, err := h.chat.SendMessage(context.Background(), services.SendMessageInput{
				TicketID:   event.TicketID,
				SenderID:   userID,
				SenderRole: senderRole,
				Message:    event.Message,
			})
			if err != nil {
				h.sendError(conn, "Failed to send message")
			}

		default:
			h.sendError(conn, "Unknown event")
		}
	}
}

// History handles GET /api/v1/tickets/:id/messages
func (h *ChatHandler) History(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	ticketID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "Invalid ticket ID")
	}

	if !h.canAccess(user.ID, user.Role, ticketID) {
		return response.Forbidden(c, "You cannot view this ticket's chat")
	}

	messages, err := h.chat.History(c.UserContext(), ticketID)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch chat history")
	}

	return response.Success(c, messages)
}

// canAccess reports whether the user may participate in the ticket's room:
// the requester who opened the ticket, or any support staff.
func (h *ChatHandler) canAccess(userID uint, role string, ticketID int64) bool {
	if role == model.RoleAdmin || role == model.RoleSupport {
		return true
	}

	ticket, err := h.tickets.GetTicket(context.Background(), ticketID)
	if err != nil {
		if err != services.ErrTicketNotFound {
			log.Printf("chat: ticket %d access check failed: %v", ticketID, err)
		}
		return false
	}
	return ticket.UserID == userID
}

func (h *ChatHandler) sendError(conn *websocket.Conn, msg string) {
	_ = conn.WriteJSON(ServerEvent{Event: "error", Error: msg})
}
