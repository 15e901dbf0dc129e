package controllers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"trainr/database"
	"trainr/middleware"
	"trainr/models"
	courseModels "trainr/models/course"
)

func currentUser(c *fiber.Ctx) (uint, string, bool) {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return 0, "", false
	}
	role, _ := c.Locals("role").(string)
	return userID, role, true
}

func canEdit(userID uint, role string, crs courseModels.Course) bool {
	return role == models.RoleAdmin || crs.InstructorID == userID
}

// ownedCourse loads a course the caller may edit. On failure the response is already written and
// the returned error is what the handler should return.
func ownedCourse(c *fiber.Ctx, courseID uint) (*courseModels.Course, error) {
	userID, role, ok := currentUser(c)
	if !ok {
		return nil, middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var crs courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&crs).Error; err != nil {
		return nil, middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}
	if !canEdit(userID, role, crs) {
		return nil, middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Course owner only.", nil)
	}
	return &crs, nil
}

func ownedModule(c *fiber.Ctx, moduleID uint) (*courseModels.Module, error) {
	var module courseModels.Module
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", moduleID, false).First(&module).Error; err != nil {
		return nil, middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}
	if _, err := ownedCourse(c, module.CourseID); err != nil {
		return nil, err
	}
	return &module, nil
}

func ownedLesson(c *fiber.Ctx, lessonID uint) (*courseModels.Lesson, error) {
	var lesson courseModels.Lesson
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", lessonID, false).First(&lesson).Error; err != nil {
		return nil, middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}
	if _, err := ownedModule(c, lesson.ModuleID); err != nil {
		return nil, err
	}
	return &lesson, nil
}

// nextOrderIndex returns max(order_index)+1 among the active rows of model matching column = id.
func nextOrderIndex(db *gorm.DB, model interface{}, column string, id uint) (int, error) {
	var maxOrder int
	err := db.Model(model).
		Where(column+" = ? AND is_deleted = ?", id, false).
		Select("COALESCE(MAX(order_index), -1)").
		Scan(&maxOrder).Error
	return maxOrder + 1, err
}

// compactOrder renumbers the active rows of model matching column = id to 0..n-1 keeping their order.
func compactOrder(tx *gorm.DB, model interface{}, column string, id uint) error {
	var ids []uint
	if err := tx.Model(model).
		Where(column+" = ? AND is_deleted = ?", id, false).
		Order("order_index asc").Order("id asc").
		Pluck("id", &ids).Error; err != nil {
		return err
	}
	return applyOrder(tx, model, ids)
}

func applyOrder(tx *gorm.DB, model interface{}, ids []uint) error {
	for i, id := range ids {
		if err := tx.Model(model).Where("id = ?", id).Update("order_index", i).Error; err != nil {
			return err
		}
	}
	return nil
}

// sameIDs reports whether got is a permutation of want.
func sameIDs(want, got []uint) bool {
	if len(want) != len(got) {
		return false
	}
	seen := make(map[uint]bool, len(want))
	for _, id := range want {
		seen[id] = true
	}
	for _, id := range got {
		if !seen[id] {
			return false
		}
		delete(seen, id)
	}
	return len(seen) == 0
}
