package controllers

import (
	"eduverse/middleware"
	"eduverse/models"
	"eduverse/models/course"

	"github.com/gofiber/fiber/v2"
)

// GetModuleContent lists a module's content for students who bought it and
// for the course owner.
func (h *CourseController) GetModuleContent(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	role, _ := c.Locals("role").(string)
	courseID := c.Locals("course_id").(uint)
	moduleID := c.Locals("module_id").(uint)
	db := h.DB.WithContext(c.UserContext())

	var module course.Module
	if err := db.Where("id = ? AND course_id = ? AND is_deleted = ?", moduleID, courseID, false).First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	allowed := false
	if role == models.RoleTeacher {
		if _, err := loadOwnedCourse(db, userId, courseID); err == nil {
			allowed = true
		}
	} else {
		ok, err := h.Enrollments.HasModuleAccess(c.UserContext(), userId, courseID, moduleID)
		if err != nil {
			return middleware.ErrorResponse(c, err)
		}
		allowed = ok
	}
	if !allowed {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Purchase this module to access its content!", nil)
	}

	var contents []course.CourseContent
	if err := db.Where("module_id = ? AND is_deleted = ?", moduleID, false).
		Order("order_index ASC, id ASC").
		Find(&contents).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch content!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Content fetched successfully.", fiber.Map{
		"module":   module,
		"contents": contents,
	})
}
