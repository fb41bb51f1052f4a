package courseRoutes

import (
	controllers "eduverse/controllers/course"
	"eduverse/middleware"
	"eduverse/models"
	"eduverse/validators"
	courseValidator "eduverse/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up the catalog and purchase routes
func SetupCourseRoutes(app fiber.Router, h *controllers.CourseController) {
	courseGroup := app.Group("/course", middleware.JWTMiddleware)
	student := middleware.RequireRole(models.RoleStudent)

	courseGroup.Get("/list", courseValidator.CourseList(), h.GetAllCourses)
	courseGroup.Get("/:id", validators.Params("id"), h.GetCourseDetails)

	courseGroup.Post("/:id/purchase", student, validators.Params("id"), h.PurchaseCourse)
	courseGroup.Post("/:course_id/module/:module_id/purchase", student, validators.Params("course_id", "module_id"), h.PurchaseModule)

	courseGroup.Get("/:course_id/module/:module_id/content",
		middleware.RequireRole(models.RoleStudent, models.RoleTeacher),
		validators.Params("course_id", "module_id"),
		h.GetModuleContent)
}
