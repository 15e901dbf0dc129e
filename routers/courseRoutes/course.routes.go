package courseRoutes

import (
	"github.com/gofiber/fiber/v2"

	controllers "trainr/controllers/course"
	"trainr/middleware"
	validators "trainr/validators/course"
)

// SetupCourseRoutes sets up all student-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	userGroup := app.Group("/course", middleware.JWTMiddleware)

	userGroup.Get("/list", controllers.GetAllCourses)
	userGroup.Get("/:id/tree", validators.CourseID(), controllers.GetCourseTree)
	userGroup.Get("/:id/outline", validators.CourseID(), controllers.GetCourseOutline)

	// Enrollment
	userGroup.Post("/:id/enroll", validators.CourseID(), controllers.EnrollInCourse)

	// Progress tracking
	userGroup.Get("/:id/progress", validators.CourseID(), controllers.GetCourseProgress)

	// User enrollments
	userEnrollGroup := app.Group("/user", middleware.JWTMiddleware)
	userEnrollGroup.Get("/enrollments", validators.EnrollmentList(), controllers.GetMyEnrollments)

	lessonGroup := app.Group("/lesson", middleware.JWTMiddleware)
	lessonGroup.Put("/:id/progress", validators.LessonID(), validators.Progress(), controllers.UpdateLessonProgress)
}
