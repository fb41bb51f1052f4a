package controllers

import (
	"eduverse/middleware"
	"eduverse/models/course"

	"github.com/gofiber/fiber/v2"
)

// GetCourseSales reports the sales windows of one of the caller's courses
// and of each of its modules.
func (h *CourseController) GetCourseSales(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	courseID := c.Locals("id").(uint)
	db := h.DB.WithContext(c.UserContext())

	crs, err := loadOwnedCourse(db, userId, courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	var modules []course.Module
	if err := db.Where("course_id = ?", courseID).Order("order_index ASC, id ASC").Find(&modules).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch modules!", nil)
	}

	type moduleSales struct {
		ModuleID uint   `json:"module_id"`
		Title    string `json:"title"`
		Deleted  bool   `json:"deleted"`
		course.SalesCounters
	}
	perModule := make([]moduleSales, 0, len(modules))
	for _, m := range modules {
		perModule = append(perModule, moduleSales{ModuleID: m.ID, Title: m.Title, Deleted: m.IsDeleted, SalesCounters: m.SalesCounters})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Sales fetched successfully.", fiber.Map{
		"course_id": crs.ID,
		"title":     crs.Title,
		"sales":     crs.SalesCounters,
		"modules":   perModule,
	})
}
