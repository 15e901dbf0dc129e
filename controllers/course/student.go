package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"trainr/database"
	"trainr/logger"
	"trainr/middleware"
	courseModels "trainr/models/course"
	"trainr/outline"
	"trainr/utils"
	courseValidator "trainr/validators/course"
)

// GetAllCourses lists published courses.
func GetAllCourses(c *fiber.Ctx) error {
	var courses []courseModels.Course
	if err := database.Database.Db.
		Where("is_published = ? AND is_deleted = ?", true, false).
		Order("created_at desc").
		Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}
	for i := range courses {
		courses[i].Normalize()
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course list.", courses)
}

// visibleTree loads a course tree the caller may read: published courses, or drafts for their owner.
func visibleTree(c *fiber.Ctx, courseID uint) (*courseModels.Course, error) {
	userID, role, ok := currentUser(c)
	if !ok {
		return nil, middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	tree, err := database.LoadCourseTree(database.Database.Db, courseID)
	if errors.Is(err, database.ErrCourseNotFound) {
		return nil, middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}
	if err != nil {
		logger.Log.Error("loading course tree", "course_id", courseID, "error", err)
		return nil, middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load course!", nil)
	}
	if !tree.IsPublished && !canEdit(userID, role, tree) {
		return nil, middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}
	return &tree, nil
}

// GetCourseTree returns a course with its modules and lessons in display order.
func GetCourseTree(c *fiber.Ctx) error {
	tree, err := visibleTree(c, c.Locals("courseID").(uint))
	if tree == nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course details.", tree)
}

func EnrollInCourse(c *fiber.Ctx) error {
	userID, _, ok := currentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("courseID").(uint)

	db := database.Database.Db
	var crs courseModels.Course
	if err := db.Where("id = ? AND is_published = ? AND is_deleted = ?", courseID, true, false).First(&crs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var existing courseModels.Enrollment
	err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&existing).Error
	if err == nil {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Already enrolled.", existing)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll!", nil)
	}

	enrollment := courseModels.Enrollment{
		UserID:   userID,
		CourseID: courseID,
		Status:   courseModels.EnrollmentEnrolled,
	}
	if err := db.Create(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll!", nil)
	}
	// progress recorded on preview lessons before enrolling counts
	if err := utils.RefreshEnrollment(db, &enrollment); err != nil {
		logger.Log.Warn("refreshing new enrollment", "enrollment_id", enrollment.ID, "error", err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Enrolled successfully!", enrollment)
}

// GetCourseProgress returns the caller's progress records of a course keyed by lesson id.
func GetCourseProgress(c *fiber.Ctx) error {
	userID, _, ok := currentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("courseID").(uint)

	db := database.Database.Db
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&courseModels.Course{}).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	records, err := database.LoadProgress(db, userID, courseID)
	if err != nil {
		logger.Log.Error("loading progress", "user_id", userID, "course_id", courseID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course progress.", records)
}

// UpdateLessonProgress merges the caller's update into their record of a lesson. Completion is never
// undone and watch time never decreases. The stored record is returned.
func UpdateLessonProgress(c *fiber.Ctx) error {
	userID, role, ok := currentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	lessonID := c.Locals("lessonID").(uint)
	reqData, ok := c.Locals("validatedProgress").(*courseValidator.ProgressRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var lesson courseModels.Lesson
	if err := db.Where("id = ? AND is_deleted = ?", lessonID, false).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}
	var module courseModels.Module
	if err := db.Where("id = ? AND is_deleted = ?", lesson.ModuleID, false).First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}
	var crs courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ?", module.CourseID, false).First(&crs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	var enrollment courseModels.Enrollment
	enrolled := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, crs.ID, false).First(&enrollment).Error == nil
	preview := crs.IsPublished && lesson.IsPreview
	if !enrolled && !preview && !canEdit(userID, role, crs) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not enrolled in this course!", nil)
	}

	var record courseModels.ProgressRecord
	err := db.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&record).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress!", nil)
	}
	if record.ID == 0 {
		record = courseModels.ProgressRecord{UserID: userID, LessonID: lessonID}
	}
	record.CourseID = crs.ID

	merged := record.Progress().Merge(courseModels.Progress{Completed: reqData.Completed, WatchTime: reqData.WatchTime})
	if merged.Completed && !record.Completed {
		completedAt := time.Now()
		record.CompletedAt = &completedAt
	}
	record.Completed = merged.Completed
	record.WatchTime = merged.WatchTime

	if err := db.Save(&record).Error; err != nil {
		logger.Log.Error("saving progress", "user_id", userID, "lesson_id", lessonID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress!", nil)
	}

	if enrolled {
		if err := utils.RefreshEnrollment(db, &enrollment); err != nil {
			logger.Log.Warn("refreshing enrollment", "enrollment_id", enrollment.ID, "error", err)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress updated.", record.Progress())
}

// GetCourseOutline summarises a course for the caller: sections with completion flags, overall
// percentage and remaining duration.
func GetCourseOutline(c *fiber.Ctx) error {
	userID, _, ok := currentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	tree, err := visibleTree(c, c.Locals("courseID").(uint))
	if tree == nil {
		return err
	}

	records, err := database.LoadProgress(database.Database.Db, userID, tree.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
	}
	completed := func(id uint) bool { return records[id].Completed }

	seq := outline.Flatten(*tree)
	next := -1
	for i, e := range seq {
		if !completed(e.Lesson.ID) {
			next = i
			break
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course outline.", fiber.Map{
		"course_id":          tree.ID,
		"title":              tree.Title,
		"sections":           outline.Outline(*tree, completed),
		"total_lessons":      len(seq),
		"completed_lessons":  outline.CompletedCount(seq, completed),
		"percentage":         outline.ProgressPercentage(seq, completed),
		"total_duration":     outline.TotalDuration(seq),
		"remaining_duration": outline.RemainingDuration(seq, completed),
		"next_position":      next,
	})
}
