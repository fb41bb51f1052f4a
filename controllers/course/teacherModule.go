package controllers

import (
	"eduverse/apperrors"
	"eduverse/catalog"
	"eduverse/middleware"
	"eduverse/models/course"
	courseValidator "eduverse/validators/course"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CreateModule adds a module and reprices the course. The sell prices are
// always computed here, never taken from the request.
func (h *CourseController) CreateModule(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	courseID := c.Locals("id").(uint)
	reqData, ok := c.Locals("validatedModule").(*courseValidator.ModuleRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	if reqData.Price.IsNegative() {
		return middleware.ValidationErrorResponse(c, map[string]string{"price": "price must not be negative!"})
	}

	var module *course.Module
	err := h.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if _, err := loadOwnedCourse(tx, userId, courseID); err != nil {
			return err
		}
		m := course.Module{
			CourseID:    courseID,
			Title:       strings.TrimSpace(reqData.Title),
			Description: reqData.Description,
			OrderIndex:  reqData.OrderIndex,
			Price:       reqData.Price.Round(2),
		}
		if err := tx.Create(&m).Error; err != nil {
			return apperrors.TransactionFailed("create module", err)
		}
		var err error
		if module, err = catalog.RefreshModule(tx, h.Pricing, m.ID); err != nil {
			return err
		}
		_, err = catalog.RepriceCourse(tx, h.Pricing, courseID)
		return err
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Module created successfully.", module)
}

func (h *CourseController) UpdateModule(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	courseID := c.Locals("course_id").(uint)
	moduleID := c.Locals("module_id").(uint)
	reqData, ok := c.Locals("validatedModule").(*courseValidator.ModuleRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	if reqData.Price.IsNegative() {
		return middleware.ValidationErrorResponse(c, map[string]string{"price": "price must not be negative!"})
	}

	var module *course.Module
	err := h.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		m, _, err := loadOwnedModule(tx, userId, moduleID)
		if err != nil {
			return err
		}
		if m.CourseID != courseID {
			return apperrors.InvalidInput("Module does not belong to this course!")
		}
		if err := tx.Model(m).Updates(map[string]interface{}{
			"title":       strings.TrimSpace(reqData.Title),
			"description": reqData.Description,
			"order_index": reqData.OrderIndex,
			"price":       reqData.Price.Round(2),
		}).Error; err != nil {
			return apperrors.TransactionFailed("update module", err)
		}
		if module, err = catalog.RefreshModule(tx, h.Pricing, moduleID); err != nil {
			return err
		}
		_, err = catalog.RepriceCourse(tx, h.Pricing, courseID)
		return err
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module updated successfully.", module)
}

func (h *CourseController) DeleteModule(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	courseID := c.Locals("course_id").(uint)
	moduleID := c.Locals("module_id").(uint)

	var crs *course.Course
	err := h.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		m, _, err := loadOwnedModule(tx, userId, moduleID)
		if err != nil {
			return err
		}
		if m.CourseID != courseID {
			return apperrors.InvalidInput("Module does not belong to this course!")
		}
		if err := tx.Model(m).Update("is_deleted", true).Error; err != nil {
			return apperrors.TransactionFailed("delete module", err)
		}
		crs, err = catalog.RepriceCourse(tx, h.Pricing, courseID)
		return err
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module deleted successfully.", crs)
}
