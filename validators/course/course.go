package courseValidator

import (
	"github.com/gofiber/fiber/v2"

	"trainr/validators"
)

type CourseRequest struct {
	Title        string `json:"title" validate:"required,notblank,min=3,max=200"`
	Description  string `json:"description" validate:"max=5000"`
	ThumbnailURL string `json:"thumbnail_url" validate:"omitempty,url"`
}

type ModuleRequest struct {
	Title       string `json:"title" validate:"required,notblank,max=200"`
	Description string `json:"description" validate:"max=5000"`
}

type LessonRequest struct {
	Title       string `json:"title" validate:"required,notblank,max=200"`
	VideoURL    string `json:"video_url" validate:"omitempty,video_ref"`
	Duration    int    `json:"duration" validate:"gte=0"`
	ResourceURL string `json:"resource_url" validate:"omitempty,url"`
	IsPreview   bool   `json:"is_preview"`
}

// ReorderRequest carries the complete new order of a course's modules or a module's lessons.
type ReorderRequest struct {
	IDs []uint `json:"ids" validate:"required,min=1,unique,dive,gt=0"`
}

type ProgressRequest struct {
	Completed bool `json:"completed"`
	WatchTime int  `json:"watch_time" validate:"gte=0"`
}

func CourseID() fiber.Handler { return validators.ID("id", "courseID") }
func ModuleID() fiber.Handler { return validators.ID("id", "moduleID") }
func LessonID() fiber.Handler { return validators.ID("id", "lessonID") }

func CreateCourse() fiber.Handler { return validators.Body("validatedCourse", &CourseRequest{}) }
func UpdateCourse() fiber.Handler { return validators.Body("validatedCourse", &CourseRequest{}) }
func Module() fiber.Handler       { return validators.Body("validatedModule", &ModuleRequest{}) }
func Lesson() fiber.Handler       { return validators.Body("validatedLesson", &LessonRequest{}) }
func Reorder() fiber.Handler      { return validators.Body("validatedReorder", &ReorderRequest{}) }
func Progress() fiber.Handler     { return validators.Body("validatedProgress", &ProgressRequest{}) }

type EnrollmentQuery struct {
	Page   int    `query:"page" json:"page" validate:"omitempty,min=1"`
	Limit  int    `query:"limit" json:"limit" validate:"omitempty,min=1,max=100"`
	Status string `query:"status" json:"status" validate:"omitempty,oneof=ENROLLED IN_PROGRESS COMPLETED"`
}

func EnrollmentList() fiber.Handler {
	return validators.Query("validatedEnrollmentQuery", &EnrollmentQuery{})
}
