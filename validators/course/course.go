package courseValidator

import (
	"eduverse/validators"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type CourseRequest struct {
	Title        string `json:"title" validate:"required,min=3,max=200"`
	Description  string `json:"description" validate:"omitempty,max=5000"`
	Category     string `json:"category" validate:"omitempty,max=100"`
	ThumbnailURL string `json:"thumbnail_url" validate:"omitempty,url"`
	Status       string `json:"status" validate:"omitempty,oneof=DRAFT ACTIVE INACTIVE"`
}

// ModuleRequest has no sell price: it is always derived from Price.
type ModuleRequest struct {
	Title       string          `json:"title" validate:"required,min=3,max=200"`
	Description string          `json:"description" validate:"omitempty,max=5000"`
	OrderIndex  int             `json:"order_index" validate:"min=0"`
	Price       decimal.Decimal `json:"price"`
}

type ContentRequest struct {
	Title           string `json:"title" form:"title" validate:"required,min=3,max=200"`
	Description     string `json:"description" form:"description" validate:"omitempty,max=5000"`
	ContentType     string `json:"content_type" form:"content_type" validate:"required,oneof=VIDEO DOCUMENT TEXT IMAGE"`
	TextContent     string `json:"text_content" form:"text_content"`
	DurationSeconds int64  `json:"duration_seconds" form:"duration_seconds" validate:"min=0"`
	OrderIndex      int    `json:"order_index" form:"order_index" validate:"min=0"`
}

type CourseListQuery struct {
	validators.Pagination
	Category string `query:"category" json:"category"`
	Search   string `query:"search" json:"search" validate:"omitempty,max=100"`
}

func CreateCourse() fiber.Handler {
	return validators.Body[CourseRequest]("validatedCourse")
}

func CreateModule() fiber.Handler {
	return validators.Body[ModuleRequest]("validatedModule")
}

func CreateContent() fiber.Handler {
	return validators.Body[ContentRequest]("validatedContent")
}

func CourseList() fiber.Handler {
	return validators.Query[CourseListQuery]("validatedList")
}
