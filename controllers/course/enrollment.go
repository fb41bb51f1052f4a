package controllers

import (
	"eduverse/middleware"

	"github.com/gofiber/fiber/v2"
)

func (h *CourseController) PurchaseCourse(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	courseID := c.Locals("id").(uint)

	purchase, err := h.Enrollments.PurchaseCourse(c.UserContext(), userId, courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course purchased successfully.", purchase)
}

func (h *CourseController) PurchaseModule(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	courseID := c.Locals("course_id").(uint)
	moduleID := c.Locals("module_id").(uint)

	purchase, err := h.Enrollments.PurchaseModule(c.UserContext(), userId, courseID, moduleID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Module purchased successfully.", purchase)
}
