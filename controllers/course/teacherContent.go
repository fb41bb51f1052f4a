package controllers

import (
	"eduverse/apperrors"
	"eduverse/catalog"
	"eduverse/media"
	"eduverse/middleware"
	"eduverse/models/course"
	courseValidator "eduverse/validators/course"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const maxUploadSize = 512 << 20

// UploadContent stores a piece of module content. Media types come as a
// multipart "file" part; TEXT content comes inline.
func (h *CourseController) UploadContent(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	moduleID := c.Locals("module_id").(uint)
	reqData, ok := c.Locals("validatedContent").(*courseValidator.ContentRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	ctx := c.UserContext()

	module, crs, err := loadOwnedModule(h.DB.WithContext(ctx), userId, moduleID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	content := course.CourseContent{
		CourseID:        crs.ID,
		ModuleID:        module.ID,
		Title:           strings.TrimSpace(reqData.Title),
		Description:     reqData.Description,
		ContentType:     reqData.ContentType,
		DurationSeconds: reqData.DurationSeconds,
		OrderIndex:      reqData.OrderIndex,
	}

	if reqData.ContentType == course.ContentText {
		if strings.TrimSpace(reqData.TextContent) == "" {
			return middleware.ValidationErrorResponse(c, map[string]string{"text_content": "text_content is required!"})
		}
		content.TextContent = reqData.TextContent
	} else {
		file, err := c.FormFile("file")
		if err != nil {
			return middleware.ValidationErrorResponse(c, map[string]string{"file": "file is required!"})
		}
		if file.Size > maxUploadSize {
			return middleware.ValidationErrorResponse(c, map[string]string{"file": "file is too large!"})
		}

		src, err := file.Open()
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Failed to read uploaded file!", nil)
		}
		defer src.Close()

		key := media.ObjectKey(fmt.Sprintf("courses/%d/modules/%d", crs.ID, module.ID), file.Filename, h.now())
		url, err := h.Media.Upload(ctx, key, src, media.ContentTypeFor(file.Filename, file.Header.Get("Content-Type")))
		if err != nil {
			return middleware.ErrorResponse(c, apperrors.TransactionFailed("upload content", err))
		}
		content.MediaURL = url
	}

	err = h.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&content).Error; err != nil {
			return apperrors.TransactionFailed("create content", err)
		}
		if _, err := catalog.RefreshModule(tx, h.Pricing, module.ID); err != nil {
			return err
		}
		_, err := catalog.RepriceCourse(tx, h.Pricing, crs.ID)
		return err
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Content uploaded successfully.", content)
}

func (h *CourseController) DeleteContent(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	contentID := c.Locals("content_id").(uint)

	err := h.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		var content course.CourseContent
		if err := tx.Where("id = ? AND is_deleted = ?", contentID, false).First(&content).Error; err != nil {
			return apperrors.NotFound("Content")
		}
		if _, _, err := loadOwnedModule(tx, userId, content.ModuleID); err != nil {
			return err
		}
		if err := tx.Model(&content).Update("is_deleted", true).Error; err != nil {
			return apperrors.TransactionFailed("delete content", err)
		}
		if _, err := catalog.RefreshModule(tx, h.Pricing, content.ModuleID); err != nil {
			return err
		}
		_, err := catalog.RepriceCourse(tx, h.Pricing, content.CourseID)
		return err
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Content deleted successfully.", nil)
}
