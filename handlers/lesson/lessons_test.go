package lesson

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/edumart/api/model"
	"github.com/edumart/api/services"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupLessonApp(t *testing.T) (*fiber.App, *gorm.DB, *model.User) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.User{}, &model.SequenceCounter{}, &model.Course{}, &model.Lesson{},
	))

	creator := &model.User{
		Name:         "Creator",
		Email:        "creator@example.com",
		PasswordHash: "not-a-real-hash",
		Role:         model.RoleCreator,
	}
	require.NoError(t, db.Create(creator).Error)

	handler := NewLessonHandler(db, services.NewSequenceService(db))

	app := fiber.New()
	// Stand-in for the auth middleware
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", creator.ID)
		c.Locals("user_role", creator.Role)
		c.Locals("user", creator)
		return c.Next()
	})
	app.Get("/api/v1/courses/:courseId/lessons", handler.ListLessons)
	app.Post("/api/v1/courses/:courseId/lessons", handler.CreateLesson)
	app.Delete("/api/v1/courses/:courseId/lessons/:id", handler.DeleteLesson)

	return app, db, creator
}

func createLessonTestCourse(t *testing.T, db *gorm.DB, creatorID uint) *model.Course {
	t.Helper()

	course := &model.Course{
		CourseID:  101,
		Title:     "Test Course",
		Language:  model.LanguageEnglish,
		Category:  model.CategoryProgramming,
		CreatorID: creatorID,
		Status:    model.CourseStatusApproved,
	}
	require.NoError(t, db.Create(course).Error)
	return course
}

func postLesson(t *testing.T, app *fiber.App, courseID int64, body CreateLessonRequest) *http.Response {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost,
		fmt.Sprintf("/api/v1/courses/%d/lessons", courseID), bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestCreateLessonDurationBoundary(t *testing.T) {
	app, db, creator := setupLessonApp(t)
	course := createLessonTestCourse(t, db, creator.ID)

	resp := postLesson(t, app, course.CourseID, CreateLessonRequest{
		Title:    "Exactly ninety minutes",
		Duration: 5400,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postLesson(t, app, course.CourseID, CreateLessonRequest{
		Title:    "One second too long",
		Duration: 5401,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&model.Lesson{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateLessonEnforcesCourseCap(t *testing.T) {
	app, db, creator := setupLessonApp(t)
	course := createLessonTestCourse(t, db, creator.ID)

	for i := 1; i <= model.MaxLessonsPerCourse; i++ {
		resp := postLesson(t, app, course.CourseID, CreateLessonRequest{
			Title:    fmt.Sprintf("Lesson %d", i),
			Duration: 600,
			Order:    i,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := postLesson(t, app, course.CourseID, CreateLessonRequest{
		Title:    "One lesson too many",
		Duration: 600,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&model.Lesson{}).Count(&count).Error)
	assert.Equal(t, int64(model.MaxLessonsPerCourse), count)
}

func TestRejectedLessonDoesNotConsumeSequence(t *testing.T) {
	app, db, creator := setupLessonApp(t)
	course := createLessonTestCourse(t, db, creator.ID)
	seq := services.NewSequenceService(db)

	for i := 1; i <= model.MaxLessonsPerCourse; i++ {
		resp := postLesson(t, app, course.CourseID, CreateLessonRequest{
			Title:    fmt.Sprintf("Lesson %d", i),
			Duration: 600,
			Order:    i,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	before, err := seq.Current(context.Background(), model.SequenceLesson)
	require.NoError(t, err)
	require.Equal(t, int64(model.MaxLessonsPerCourse), before)

	resp := postLesson(t, app, course.CourseID, CreateLessonRequest{
		Title:    "One lesson too many",
		Duration: 600,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	after, err := seq.Current(context.Background(), model.SequenceLesson)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestCreateLessonMissingCourse(t *testing.T) {
	app, _, _ := setupLessonApp(t)

	resp := postLesson(t, app, 999, CreateLessonRequest{
		Title:    "Orphan lesson",
		Duration: 600,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteLessonScopedToCourse(t *testing.T) {
	app, db, creator := setupLessonApp(t)
	course := createLessonTestCourse(t, db, creator.ID)

	other := &model.Course{
		CourseID:  102,
		Title:     "Other Course",
		Language:  model.LanguageEnglish,
		Category:  model.CategoryDesign,
		CreatorID: creator.ID,
		Status:    model.CourseStatusApproved,
	}
	require.NoError(t, db.Create(other).Error)

	resp := postLesson(t, app, course.CourseID, CreateLessonRequest{
		Title:    "Only lesson",
		Duration: 600,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var lesson model.Lesson
	require.NoError(t, db.First(&lesson).Error)

	// Deleting through the wrong course does not touch the lesson
	req, err := http.NewRequest(http.MethodDelete,
		fmt.Sprintf("/api/v1/courses/%d/lessons/%d", other.CourseID, lesson.LessonID), nil)
	require.NoError(t, err)
	deleteResp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, deleteResp.StatusCode)

	req, err = http.NewRequest(http.MethodDelete,
		fmt.Sprintf("/api/v1/courses/%d/lessons/%d", course.CourseID, lesson.LessonID), nil)
	require.NoError(t, err)
	deleteResp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, deleteResp.StatusCode)
}
