package controllers

import (
	"eduverse/apperrors"
	"eduverse/enrollment"
	"eduverse/media"
	"eduverse/middleware"
	"eduverse/models/course"
	"eduverse/pricing"
	"eduverse/utils"
	courseValidator "eduverse/validators/course"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CourseController serves the catalog, teacher authoring and purchases.
type CourseController struct {
	DB          *gorm.DB
	Pricing     pricing.Config
	Media       media.Store
	Enrollments *enrollment.Engine
	now         func() time.Time
}

func New(db *gorm.DB, cfg pricing.Config, store media.Store, enrollments *enrollment.Engine) *CourseController {
	return &CourseController{DB: db, Pricing: cfg, Media: store, Enrollments: enrollments, now: time.Now}
}

func (h *CourseController) GetAllCourses(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedList").(*courseValidator.CourseListQuery)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	page, limit, offset := utils.Pagination(reqData.Page, reqData.Limit)

	q := h.DB.WithContext(c.UserContext()).
		Model(&course.Course{}).
		Where("status = ? AND is_deleted = ?", course.StatusActive, false)
	if reqData.Category != "" {
		q = q.Where("category = ?", reqData.Category)
	}
	if reqData.Search != "" {
		q = q.Where("LOWER(title) LIKE LOWER(?)", "%"+reqData.Search+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to count courses!", nil)
	}

	var courses []course.Course
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully.", fiber.Map{
		"courses": courses,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// GetCourseDetails returns an active course with its modules. Owners also
// see their drafts.
func (h *CourseController) GetCourseDetails(c *fiber.Ctx) error {
	userId, _ := c.Locals("userId").(uint)
	courseID := c.Locals("id").(uint)

	var crs course.Course
	err := h.DB.WithContext(c.UserContext()).
		Preload("Modules", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_deleted = ?", false).Order("order_index ASC, id ASC")
		}).
		Where("id = ? AND is_deleted = ?", courseID, false).
		First(&crs).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course!", nil)
	}
	if crs.Status != course.StatusActive && crs.TeacherID != userId {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully.", crs)
}

// loadOwnedCourse loads a live course and checks that teacherID owns it.
func loadOwnedCourse(tx *gorm.DB, teacherID, courseID uint) (*course.Course, error) {
	var crs course.Course
	err := tx.Where("id = ? AND is_deleted = ?", courseID, false).First(&crs).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("Course")
	}
	if err != nil {
		return nil, apperrors.TransactionFailed("load course", err)
	}
	if crs.TeacherID != teacherID {
		return nil, apperrors.Unauthorized("You do not own this course!")
	}
	return &crs, nil
}

// loadOwnedModule loads a live module of a course owned by teacherID.
func loadOwnedModule(tx *gorm.DB, teacherID, moduleID uint) (*course.Module, *course.Course, error) {
	var module course.Module
	err := tx.Where("id = ? AND is_deleted = ?", moduleID, false).First(&module).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, apperrors.NotFound("Module")
	}
	if err != nil {
		return nil, nil, apperrors.TransactionFailed("load module", err)
	}
	crs, err := loadOwnedCourse(tx, teacherID, module.CourseID)
	if err != nil {
		return nil, nil, err
	}
	return &module, crs, nil
}
