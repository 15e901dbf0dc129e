package courseRoutes

import (
	"github.com/gofiber/fiber/v2"

	controllers "trainr/controllers/course"
	"trainr/middleware"
	"trainr/models"
	validators "trainr/validators/course"
)

// SetupInstructorRoutes sets up course authoring routes
func SetupInstructorRoutes(app *fiber.App) {
	instructorGroup := app.Group("/instructor", middleware.JWTMiddleware, middleware.RequireRole(models.RoleInstructor, models.RoleAdmin))

	// Course CRUD
	instructorGroup.Post("/course", validators.CreateCourse(), controllers.CreateCourse)
	instructorGroup.Put("/course/:id", validators.CourseID(), validators.UpdateCourse(), controllers.UpdateCourse)
	instructorGroup.Delete("/course/:id", validators.CourseID(), controllers.DeleteCourse)
	instructorGroup.Post("/course/:id/publish", validators.CourseID(), controllers.PublishCourse)
	instructorGroup.Get("/course/:id/enrollments", validators.CourseID(), validators.EnrollmentList(), controllers.GetCourseEnrollments)

	// Module Management
	instructorGroup.Post("/course/:id/module", validators.CourseID(), validators.Module(), controllers.CreateModule)
	instructorGroup.Post("/course/:id/modules/reorder", validators.CourseID(), validators.Reorder(), controllers.ReorderModules)
	instructorGroup.Put("/module/:id", validators.ModuleID(), validators.Module(), controllers.UpdateModule)
	instructorGroup.Delete("/module/:id", validators.ModuleID(), controllers.DeleteModule)

	// Lesson Management
	instructorGroup.Post("/module/:id/lesson", validators.ModuleID(), validators.Lesson(), controllers.CreateLesson)
	instructorGroup.Post("/module/:id/lessons/reorder", validators.ModuleID(), validators.Reorder(), controllers.ReorderLessons)
	instructorGroup.Put("/lesson/:id", validators.LessonID(), validators.Lesson(), controllers.UpdateLesson)
	instructorGroup.Delete("/lesson/:id", validators.LessonID(), controllers.DeleteLesson)
}
