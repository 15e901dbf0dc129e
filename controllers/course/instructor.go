package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"trainr/database"
	"trainr/logger"
	"trainr/middleware"
	courseModels "trainr/models/course"
	courseValidator "trainr/validators/course"
)

// CreateCourse creates a draft course owned by the caller.
func CreateCourse(c *fiber.Ctx) error {
	userID, _, ok := currentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	reqData, ok := c.Locals("validatedCourse").(*courseValidator.CourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	crs := courseModels.Course{
		InstructorID: userID,
		Title:        strings.TrimSpace(reqData.Title),
		Description:  strings.TrimSpace(reqData.Description),
		ThumbnailURL: reqData.ThumbnailURL,
		Modules:      []courseModels.Module{},
	}
	if err := database.Database.Db.Create(&crs).Error; err != nil {
		logger.Log.Error("creating course", "user_id", userID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", crs)
}

func UpdateCourse(c *fiber.Ctx) error {
	crs, err := ownedCourse(c, c.Locals("courseID").(uint))
	if crs == nil {
		return err
	}
	reqData, ok := c.Locals("validatedCourse").(*courseValidator.CourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	crs.Title = strings.TrimSpace(reqData.Title)
	crs.Description = strings.TrimSpace(reqData.Description)
	crs.ThumbnailURL = reqData.ThumbnailURL
	if err := database.Database.Db.Save(crs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", crs)
}

// DeleteCourse soft deletes a course with all its modules and lessons.
func DeleteCourse(c *fiber.Ctx) error {
	crs, err := ownedCourse(c, c.Locals("courseID").(uint))
	if crs == nil {
		return err
	}

	tx := database.Database.Db.Begin()

	var moduleIDs []uint
	if err := tx.Model(&courseModels.Module{}).Where("course_id = ?", crs.ID).Pluck("id", &moduleIDs).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}
	if len(moduleIDs) > 0 {
		if err := tx.Model(&courseModels.Lesson{}).Where("module_id IN ?", moduleIDs).Update("is_deleted", true).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course lessons!", nil)
		}
		if err := tx.Model(&courseModels.Module{}).Where("course_id = ?", crs.ID).Update("is_deleted", true).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course modules!", nil)
		}
	}
	if err := tx.Model(crs).Update("is_deleted", true).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}
	if err := tx.Commit().Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully!", nil)
}

func PublishCourse(c *fiber.Ctx) error {
	crs, err := ownedCourse(c, c.Locals("courseID").(uint))
	if crs == nil {
		return err
	}

	if err := database.Database.Db.Model(crs).Update("is_published", true).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to publish course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course published successfully!", crs)
}

// CreateModule appends a module at the end of the course.
func CreateModule(c *fiber.Ctx) error {
	crs, err := ownedCourse(c, c.Locals("courseID").(uint))
	if crs == nil {
		return err
	}
	reqData, ok := c.Locals("validatedModule").(*courseValidator.ModuleRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db
	orderIndex, err := nextOrderIndex(db, &courseModels.Module{}, "course_id", crs.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create module!", nil)
	}

	module := courseModels.Module{
		CourseID:    crs.ID,
		Title:       strings.TrimSpace(reqData.Title),
		Description: strings.TrimSpace(reqData.Description),
		OrderIndex:  orderIndex,
		Lessons:     []courseModels.Lesson{},
	}
	if err := db.Create(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create module!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Module created successfully!", module)
}

func UpdateModule(c *fiber.Ctx) error {
	module, err := ownedModule(c, c.Locals("moduleID").(uint))
	if module == nil {
		return err
	}
	reqData, ok := c.Locals("validatedModule").(*courseValidator.ModuleRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	module.Title = strings.TrimSpace(reqData.Title)
	module.Description = strings.TrimSpace(reqData.Description)
	if err := database.Database.Db.Save(module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update module!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module updated successfully!", module)
}

// DeleteModule soft deletes a module and its lessons, then closes the gap in the course order.
func DeleteModule(c *fiber.Ctx) error {
	module, err := ownedModule(c, c.Locals("moduleID").(uint))
	if module == nil {
		return err
	}

	tx := database.Database.Db.Begin()

	if err := tx.Model(module).Update("is_deleted", true).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete module!", nil)
	}
	if err := tx.Model(&courseModels.Lesson{}).Where("module_id = ?", module.ID).Update("is_deleted", true).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete module lessons!", nil)
	}
	if err := compactOrder(tx, &courseModels.Module{}, "course_id", module.CourseID); err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reorder modules!", nil)
	}
	if err := tx.Commit().Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete module!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module deleted successfully!", nil)
}

// ReorderModules takes every active module id of the course in the new order.
func ReorderModules(c *fiber.Ctx) error {
	crs, err := ownedCourse(c, c.Locals("courseID").(uint))
	if crs == nil {
		return err
	}
	reqData, ok := c.Locals("validatedReorder").(*courseValidator.ReorderRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	tx := database.Database.Db.Begin()

	var current []uint
	if err := tx.Model(&courseModels.Module{}).Where("course_id = ? AND is_deleted = ?", crs.ID, false).Pluck("id", &current).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reorder modules!", nil)
	}
	if !sameIDs(current, reqData.IDs) {
		tx.Rollback()
		return middleware.ValidationErrorResponse(c, map[string]string{"ids": "ids must list every module of the course exactly once"})
	}
	if err := applyOrder(tx, &courseModels.Module{}, reqData.IDs); err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reorder modules!", nil)
	}
	if err := tx.Commit().Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reorder modules!", nil)
	}

	tree, err := database.LoadCourseTree(database.Database.Db, crs.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load course!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Modules reordered successfully!", tree)
}

// CreateLesson appends a lesson at the end of the module.
func CreateLesson(c *fiber.Ctx) error {
	module, err := ownedModule(c, c.Locals("moduleID").(uint))
	if module == nil {
		return err
	}
	reqData, ok := c.Locals("validatedLesson").(*courseValidator.LessonRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db
	orderIndex, err := nextOrderIndex(db, &courseModels.Lesson{}, "module_id", module.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create lesson!", nil)
	}

	lesson := courseModels.Lesson{
		ModuleID:    module.ID,
		Title:       strings.TrimSpace(reqData.Title),
		VideoURL:    strings.TrimSpace(reqData.VideoURL),
		Duration:    reqData.Duration,
		ResourceURL: reqData.ResourceURL,
		IsPreview:   reqData.IsPreview,
		OrderIndex:  orderIndex,
	}
	if err := db.Create(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Lesson created successfully!", lesson)
}

func UpdateLesson(c *fiber.Ctx) error {
	lesson, err := ownedLesson(c, c.Locals("lessonID").(uint))
	if lesson == nil {
		return err
	}
	reqData, ok := c.Locals("validatedLesson").(*courseValidator.LessonRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	lesson.Title = strings.TrimSpace(reqData.Title)
	lesson.VideoURL = strings.TrimSpace(reqData.VideoURL)
	lesson.Duration = reqData.Duration
	lesson.ResourceURL = reqData.ResourceURL
	lesson.IsPreview = reqData.IsPreview
	if err := database.Database.Db.Save(lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson updated successfully!", lesson)
}

func DeleteLesson(c *fiber.Ctx) error {
	lesson, err := ownedLesson(c, c.Locals("lessonID").(uint))
	if lesson == nil {
		return err
	}

	tx := database.Database.Db.Begin()

	if err := tx.Model(lesson).Update("is_deleted", true).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete lesson!", nil)
	}
	if err := compactOrder(tx, &courseModels.Lesson{}, "module_id", lesson.ModuleID); err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reorder lessons!", nil)
	}
	if err := tx.Commit().Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson deleted successfully!", nil)
}

// ReorderLessons takes every active lesson id of the module in the new order.
func ReorderLessons(c *fiber.Ctx) error {
	module, err := ownedModule(c, c.Locals("moduleID").(uint))
	if module == nil {
		return err
	}
	reqData, ok := c.Locals("validatedReorder").(*courseValidator.ReorderRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	tx := database.Database.Db.Begin()

	var current []uint
	if err := tx.Model(&courseModels.Lesson{}).Where("module_id = ? AND is_deleted = ?", module.ID, false).Pluck("id", &current).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reorder lessons!", nil)
	}
	if !sameIDs(current, reqData.IDs) {
		tx.Rollback()
		return middleware.ValidationErrorResponse(c, map[string]string{"ids": "ids must list every lesson of the module exactly once"})
	}
	if err := applyOrder(tx, &courseModels.Lesson{}, reqData.IDs); err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reorder lessons!", nil)
	}
	if err := tx.Commit().Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reorder lessons!", nil)
	}

	var lessons []courseModels.Lesson
	database.Database.Db.Where("module_id = ? AND is_deleted = ?", module.ID, false).Order("order_index asc").Find(&lessons)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lessons reordered successfully!", lessons)
}
