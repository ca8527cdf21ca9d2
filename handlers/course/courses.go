package course

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

// CourseHandler handles course-related requests
type CourseHandler struct {
	db        *gorm.DB
	sequence  *services.SequenceService
	validator *validation.Validator
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(db *gorm.DB, sequence *services.SequenceService) *CourseHandler {
	return &CourseHandler{
		db:        db,
		sequence:  sequence,
		validator: validation.NewValidator(),
	}
}

// CreateCourseRequest represents the request body for creating a course
type CreateCourseRequest struct {
	Title       string  `json:"title" validate:"required,min=3,max=255"`
	Description string  `json:"description" validate:"omitempty,max=5000"`
	Price       float64 `json:"price" validate:"gte=0"`
	Language    string  `json:"language" validate:"required,oneof=Sinhala Tamil English"`
	Category    string  `json:"category" validate:"required"`
}

// UpdateCourseRequest represents the request body for updating a course
type UpdateCourseRequest struct {
	Title       string   `json:"title" validate:"omitempty,min=3,max=255"`
	Description *string  `json:"description" validate:"omitempty,max=5000"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Language    string   `json:"language" validate:"omitempty,oneof=Sinhala Tamil English"`
	Category    string   `json:"category" validate:"omitempty"`
}

// SetStatusRequest represents the request body for a moderation decision
type SetStatusRequest struct {
	Status          string `json:"status" validate:"required,oneof=pending approved rejected"`
	RejectionReason string `json:"rejection_reason" validate:"omitempty,max=1000"`
}

// ListCourses handles GET /api/v1/courses
func (h *CourseHandler) ListCourses(c *fiber.Ctx) error {
	// Parse query parameters
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	search := c.Query("search", "")
	status := c.Query("status", "")
	category := c.Query("category", "")
	creatorID := c.Query("creator_id", "")

	// Build query
	query := h.db.Model(&model.Course{})

	// Apply filters
	if search != "" {
		query = query.Where("title ILIKE ? OR description ILIKE ?",
			"%"+search+"%", "%"+search+"%")
	}

	if status != "" {
		query = query.Where("status = ?", status)
	}

	if category != "" {
		query = query.Where("category = ?", category)
	}

	if creatorID != "" {
		query = query.Where("creator_id = ?", creatorID)
	}

	// Get total count
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count courses")
	}

	// Calculate pagination
	offset := (page - 1) * limit
	pagination := response.CalculatePagination(page, limit, total)

	// Get courses with pagination
	var courses []model.Course
	if err := query.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&courses).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch courses")
	}

	return response.Paginated(c, courses, pagination)
}

// GetCourse handles GET /api/v1/courses/:id
func (h *CourseHandler) GetCourse(c *fiber.Ctx) error {
	courseID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "Invalid course ID")
	}

	var course model.Course
	if err := h.db.Preload("Lessons", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC")
	}).Where("course_id = ?", courseID).First(&course).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Course not found")
		}
		return response.InternalServerError(c, "Failed to fetch course")
	}

	return response.Success(c, course)
}

// CreateCourse handles POST /api/v1/courses
func (h *CourseHandler) CreateCourse(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req CreateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	if !model.ValidCategory(req.Category) {
		return response.BadRequest(c, "Invalid course category")
	}

	// Sanitize inputs
	req.Title = validation.SanitizeString(req.Title)
	req.Description = validation.SanitizeString(req.Description)

	// Allocate the public ID only after every validation has passed
	courseID, err := h.sequence.Next(c.UserContext(), model.SequenceCourse)
	if err != nil {
		return response.InternalServerError(c, "Failed to allocate course ID")
	}

	course := model.Course{
		CourseID:    courseID,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Language:    req.Language,
		Category:    req.Category,
		CreatorID:   user.ID,
		Status:      model.CourseStatusPending,
	}

	if err := h.db.Create(&course).Error; err != nil {
		return response.InternalServerError(c, "Failed to create course")
	}

	return response.Created(c, course)
}

// UpdateCourse handles PUT /api/v1/courses/:id
func (h *CourseHandler) UpdateCourse(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	courseID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "Invalid course ID")
	}

	var course model.Course
	if err := h.db.Where("course_id = ?", courseID).First(&course).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Course not found")
		}
		return response.InternalServerError(c, "Failed to fetch course")
	}

	// Only the owning creator or an admin may edit content fields
	if course.CreatorID != user.ID && user.Role != model.RoleAdmin {
		return response.Forbidden(c, "You do not own this course")
	}

	var req UpdateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	if req.Category != "" && !model.ValidCategory(req.Category) {
		return response.BadRequest(c, "Invalid course category")
	}

	// The public course_id is immutable; only content fields can change
	if req.Title != "" {
		course.Title = validation.SanitizeString(req.Title)
	}
	if req.Description != nil {
		course.Description = validation.SanitizeString(*req.Description)
	}
	if req.Price != nil {
		course.Price = *req.Price
	}
	if req.Language != "" {
		course.Language = req.Language
	}
	if req.Category != "" {
		course.Category = req.Category
	}

	if err := h.db.Save(&course).Error; err != nil {
		return response.InternalServerError(c, "Failed to update course")
	}

	return response.Success(c, course)
}

// DeleteCourse handles DELETE /api/v1/courses/:id. Deleting a course removes
// that course's lessons and no others.
func (h *CourseHandler) DeleteCourse(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	courseID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "Invalid course ID")
	}

	var course model.Course
	if err := h.db.Where("course_id = ?", courseID).First(&course).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Course not found")
		}
		return response.InternalServerError(c, "Failed to fetch course")
	}

	if course.CreatorID != user.ID && user.Role != model.RoleAdmin {
		return response.Forbidden(c, "You do not own this course")
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_ref = ?", course.ID).Delete(&model.Lesson{}).Error; err != nil {
			return err
		}
		return tx.Delete(&course).Error
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to delete course")
	}

	return response.SuccessWithMessage(c, "Course deleted successfully", nil)
}

// SetStatus handles PATCH /api/v1/courses/:id/status. Any status may move to
// any other; moderation history lives in the rejection reason.
func (h *CourseHandler) SetStatus(c *fiber.Ctx) error {
	courseID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "Invalid course ID")
	}

	var req SetStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var course model.Course
	if err := h.db.Where("course_id = ?", courseID).First(&course).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Course not found")
		}
		return response.InternalServerError(c, "Failed to fetch course")
	}

	course.Status = req.Status
	if req.Status == model.CourseStatusRejected {
		course.RejectionReason = validation.SanitizeString(req.RejectionReason)
	} else {
		course.RejectionReason = ""
	}

	if err := h.db.Save(&course).Error; err != nil {
		return response.InternalServerError(c, "Failed to update course status")
	}

	return response.Success(c, course)
}
