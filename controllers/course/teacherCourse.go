package controllers

import (
	"eduverse/middleware"
	"eduverse/models/course"
	"eduverse/utils"
	courseValidator "eduverse/validators/course"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func (h *CourseController) CreateCourse(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	reqData, ok := c.Locals("validatedCourse").(*courseValidator.CourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	status := reqData.Status
	if status == "" {
		status = course.StatusDraft
	}

	crs := course.Course{
		TeacherID:    userId,
		Title:        strings.TrimSpace(reqData.Title),
		Description:  reqData.Description,
		Category:     reqData.Category,
		ThumbnailURL: reqData.ThumbnailURL,
		Status:       status,
	}
	if err := h.DB.WithContext(c.UserContext()).Create(&crs).Error; err != nil {
		utils.LogError("creating course: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully.", crs)
}

func (h *CourseController) UpdateCourse(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	courseID := c.Locals("id").(uint)
	reqData, ok := c.Locals("validatedCourse").(*courseValidator.CourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var crs *course.Course
	err := h.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		var err error
		if crs, err = loadOwnedCourse(tx, userId, courseID); err != nil {
			return err
		}
		updates := map[string]interface{}{
			"title":         strings.TrimSpace(reqData.Title),
			"description":   reqData.Description,
			"category":      reqData.Category,
			"thumbnail_url": reqData.ThumbnailURL,
		}
		if reqData.Status != "" {
			updates["status"] = reqData.Status
		}
		if err := tx.Model(crs).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(crs, courseID).Error
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully.", crs)
}

// DeleteCourse hides a course from the catalog. Existing enrollments keep
// their access records.
func (h *CourseController) DeleteCourse(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	courseID := c.Locals("id").(uint)

	err := h.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		crs, err := loadOwnedCourse(tx, userId, courseID)
		if err != nil {
			return err
		}
		return tx.Model(crs).Updates(map[string]interface{}{
			"is_deleted": true,
			"status":     course.StatusInactive,
		}).Error
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully.", nil)
}

// GetTeacherCourses lists the caller's own courses, drafts included.
func (h *CourseController) GetTeacherCourses(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	var courses []course.Course
	if err := h.DB.WithContext(c.UserContext()).
		Where("teacher_id = ? AND is_deleted = ?", userId, false).
		Order("created_at DESC").
		Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully.", courses)
}
