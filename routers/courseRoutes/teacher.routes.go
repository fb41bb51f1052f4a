package courseRoutes

import (
	controllers "eduverse/controllers/course"
	"eduverse/middleware"
	"eduverse/models"
	"eduverse/validators"
	courseValidator "eduverse/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupTeacherCourseRoutes sets up course authoring for teachers
func SetupTeacherCourseRoutes(app fiber.Router, h *controllers.CourseController) {
	teacherGroup := app.Group("/teacher", middleware.JWTMiddleware, middleware.RequireRole(models.RoleTeacher))

	// Course CRUD
	teacherGroup.Get("/course/list", h.GetTeacherCourses)
	teacherGroup.Post("/course", courseValidator.CreateCourse(), h.CreateCourse)
	teacherGroup.Put("/course/:id", validators.Params("id"), courseValidator.CreateCourse(), h.UpdateCourse)
	teacherGroup.Delete("/course/:id", validators.Params("id"), h.DeleteCourse)
	teacherGroup.Get("/course/:id/sales", validators.Params("id"), h.GetCourseSales)

	// Module Management
	teacherGroup.Post("/course/:id/module", validators.Params("id"), courseValidator.CreateModule(), h.CreateModule)
	teacherGroup.Put("/course/:course_id/module/:module_id", validators.Params("course_id", "module_id"), courseValidator.CreateModule(), h.UpdateModule)
	teacherGroup.Delete("/course/:course_id/module/:module_id", validators.Params("course_id", "module_id"), h.DeleteModule)

	// Content Management
	teacherGroup.Post("/module/:module_id/content", validators.Params("module_id"), courseValidator.CreateContent(), h.UploadContent)
	teacherGroup.Delete("/content/:content_id", validators.Params("content_id"), h.DeleteContent)
}
