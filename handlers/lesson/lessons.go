package lesson

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

// LessonHandler handles lesson-related requests
type LessonHandler struct {
	db        *gorm.DB
	sequence  *services.SequenceService
	validator *validation.Validator
}

// NewLessonHandler creates a new lesson handler
func NewLessonHandler(db *gorm.DB, sequence *services.SequenceService) *LessonHandler {
	return &LessonHandler{
		db:        db,
		sequence:  sequence,
		validator: validation.NewValidator(),
	}
}

// CreateLessonRequest represents the request body for adding a lesson
type CreateLessonRequest struct {
	Title     string `json:"title" validate:"required,min=3,max=255"`
	VideoURL  string `json:"video_url" validate:"omitempty,url"`
	Duration  int    `json:"duration" validate:"required,gt=0"`
	Order     int    `json:"order" validate:"gte=0"`
	IsPreview bool   `json:"is_preview"`
}

// UpdateLessonRequest represents the request body for updating a lesson
type UpdateLessonRequest struct {
	Title     string `json:"title" validate:"omitempty,min=3,max=255"`
	VideoURL  string `json:"video_url" validate:"omitempty,url"`
	Duration  *int   `json:"duration" validate:"omitempty,gt=0"`
	Order     *int   `json:"order" validate:"omitempty,gte=0"`
	IsPreview *bool  `json:"is_preview"`
}

func (h *LessonHandler) loadCourse(c *fiber.Ctx) (*model.Course, error) {
	courseID, err := strconv.ParseInt(c.Params("courseId"), 10, 64)
	if err != nil {
		return nil, response.BadRequest(c, "Invalid course ID")
	}

	var course model.Course
	if err := h.db.Where("course_id = ?", courseID).First(&course).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, response.NotFound(c, "Course not found")
		}
		return nil, response.InternalServerError(c, "Failed to fetch course")
	}
	return &course, nil
}

// ListLessons handles GET /api/v1/courses/:courseId/lessons
func (h *LessonHandler) ListLessons(c *fiber.Ctx) error {
	course, err := h.loadCourse(c)
	if course == nil {
		return err
	}

	var lessons []model.Lesson
	if err := h.db.Where("course_ref = ?", course.ID).
		Order("sort_order ASC, lesson_id ASC").
		Find(&lessons).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch lessons")
	}

	return response.Success(c, lessons)
}

// CreateLesson handles POST /api/v1/courses/:courseId/lessons
func (h *LessonHandler) CreateLesson(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	course, err := h.loadCourse(c)
	if course == nil {
		return err
	}

	if course.CreatorID != user.ID && user.Role != model.RoleAdmin {
		return response.Forbidden(c, "You do not own this course")
	}

	var req CreateLessonRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	if req.Duration > model.MaxLessonDurationSeconds {
		return response.BadRequest(c, "Lesson duration cannot exceed 90 minutes")
	}

	lesson := model.Lesson{
		Title:     validation.SanitizeString(req.Title),
		VideoURL:  req.VideoURL,
		Duration:  req.Duration,
		Order:     req.Order,
		IsPreview: req.IsPreview,
		CourseRef: course.ID,
	}

	// The public ID is allocated only after the cap check passes, inside the
	// same transaction, so a rejected lesson never consumes a sequence value
	capReached := false
	err = h.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Lesson{}).
			Where("course_ref = ?", course.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count >= model.MaxLessonsPerCourse {
			capReached = true
			return services.ErrTooManyLessons
		}

		lessonID, err := h.sequence.NextIn(c.UserContext(), tx, model.SequenceLesson)
		if err != nil {
			return err
		}
		lesson.LessonID = lessonID

		return tx.Create(&lesson).Error
	})
	if err != nil {
		if capReached {
			return response.BadRequest(c, "Course already has the maximum number of lessons")
		}
		return response.InternalServerError(c, "Failed to create lesson")
	}

	return response.Created(c, lesson)
}

// UpdateLesson handles PUT /api/v1/courses/:courseId/lessons/:id
func (h *LessonHandler) UpdateLesson(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	course, err := h.loadCourse(c)
	if course == nil {
		return err
	}

	if course.CreatorID != user.ID && user.Role != model.RoleAdmin {
		return response.Forbidden(c, "You do not own this course")
	}

	lessonID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "Invalid lesson ID")
	}

	var lesson model.Lesson
	if err := h.db.Where("lesson_id = ? AND course_ref = ?", lessonID, course.ID).
		First(&lesson).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Lesson not found")
		}
		return response.InternalServerError(c, "Failed to fetch lesson")
	}

	var req UpdateLessonRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	if req.Duration != nil && *req.Duration > model.MaxLessonDurationSeconds {
		return response.BadRequest(c, "Lesson duration cannot exceed 90 minutes")
	}

	if req.Title != "" {
		lesson.Title = validation.SanitizeString(req.Title)
	}
	if req.VideoURL != "" {
		lesson.VideoURL = req.VideoURL
	}
	if req.Duration != nil {
		lesson.Duration = *req.Duration
	}
	if req.Order != nil {
		lesson.Order = *req.Order
	}
	if req.IsPreview != nil {
		lesson.IsPreview = *req.IsPreview
	}

	if err := h.db.Save(&lesson).Error; err != nil {
		return response.InternalServerError(c, "Failed to update lesson")
	}

	return response.Success(c, lesson)
}

// DeleteLesson handles DELETE /api/v1/courses/:courseId/lessons/:id
func (h *LessonHandler) DeleteLesson(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	course, err := h.loadCourse(c)
	if course == nil {
		return err
	}

	if course.CreatorID != user.ID && user.Role != model.RoleAdmin {
		return response.Forbidden(c, "You do not own this course")
	}

	lessonID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "Invalid lesson ID")
	}

	result := h.db.Where("lesson_id = ? AND course_ref = ?", lessonID, course.ID).
		Delete(&model.Lesson{})
	if result.Error != nil {
		return response.InternalServerError(c, "Failed to delete lesson")
	}
	if result.RowsAffected == 0 {
		return response.NotFound(c, "Lesson not found")
	}

	return response.SuccessWithMessage(c, "Lesson deleted successfully", nil)
}
