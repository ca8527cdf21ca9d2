package notification

import (
	"strconv"

	"github.com/edumart/api/model"
	"github.com/edumart/api/utils/middleware"
	"github.com/edumart/api/utils/response"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// NotificationHandler handles in-app notification requests
type NotificationHandler struct {
	db *gorm.DB
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(db *gorm.DB) *NotificationHandler {
	return &NotificationHandler{db: db}
}

// ListNotifications handles GET /api/v1/notifications
func (h *NotificationHandler) ListNotifications(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	unreadOnly := c.Query("unread", "") == "true"

	query := h.db.Model(&model.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count notifications")
	}

	offset := (page - 1) * limit
	pagination := response.CalculatePagination(page, limit, total)

	var notifications []model.Notification
	if err := query.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&notifications).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch notifications")
	}

	return response.Paginated(c, notifications, pagination)
}

// GetUnreadCount handles GET /api/v1/notifications/unread-count
func (h *NotificationHandler) GetUnreadCount(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var count int64
	if err := h.db.Model(&model.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error; err != nil {
		return response.InternalServerError(c, "Failed to count notifications")
	}

	return response.Success(c, fiber.Map{"count": count})
}

// MarkRead handles PUT /api/v1/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "Invalid notification ID")
	}

	result := h.db.Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true)
	if result.Error != nil {
		return response.InternalServerError(c, "Failed to update notification")
	}
	if result.RowsAffected == 0 {
		return response.NotFound(c, "Notification not found")
	}

	return response.SuccessWithMessage(c, "Notification marked as read", nil)
}

// MarkAllRead handles PUT /api/v1/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	if err := h.db.Model(&model.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error; err != nil {
		return response.InternalServerError(c, "Failed to update notifications")
	}

	return response.SuccessWithMessage(c, "All notifications marked as read", nil)
}

// DeleteNotification handles DELETE /api/v1/notifications/:id
func (h *NotificationHandler) DeleteNotification(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "Invalid notification ID")
	}

	result := h.db.Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Notification{})
	if result.Error != nil {
		return response.InternalServerError(c, "Failed to delete notification")
	}
	if result.RowsAffected == 0 {
		return response.NotFound(c, "Notification not found")
	}

	return response.SuccessWithMessage(c, "Notification deleted", nil)
}

// DeleteAllNotifications handles DELETE /api/v1/notifications
func (h *NotificationHandler) DeleteAllNotifications(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	if err := h.db.Where("user_id = ?", userID).
		Delete(&model.Notification{}).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete notifications")
	}

	return response.SuccessWithMessage(c, "All notifications deleted", nil)
}
