package controllers

import (
	"github.com/gofiber/fiber/v2"

	"trainr/database"
	"trainr/middleware"
	"trainr/models"
	courseModels "trainr/models/course"
	courseValidator "trainr/validators/course"
)

func pagination(c *fiber.Ctx) (page, limit, offset int, status string) {
	page, limit = 1, 10
	if reqData, ok := c.Locals("validatedEnrollmentQuery").(*courseValidator.EnrollmentQuery); ok {
		if reqData.Page > 0 {
			page = reqData.Page
		}
		if reqData.Limit > 0 {
			limit = reqData.Limit
		}
		status = reqData.Status
	}
	return page, limit, (page - 1) * limit, status
}

// GetMyEnrollments lists the caller's enrollments with their courses.
func GetMyEnrollments(c *fiber.Ctx) error {
	userID, _, ok := currentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	page, limit, offset, status := pagination(c)

	db := database.Database.Db.Model(&courseModels.Enrollment{}).Where("user_id = ? AND is_deleted = ?", userID, false)
	if status != "" {
		db = db.Where("status = ?", status)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	var enrollments []courseModels.Enrollment
	if err := db.Preload("Course").Offset(offset).Limit(limit).Order("created_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}
	for i := range enrollments {
		enrollments[i].Course.Normalize()
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"enrollments": enrollments,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// GetCourseEnrollments lists the students enrolled in one of the caller's courses.
func GetCourseEnrollments(c *fiber.Ctx) error {
	crs, err := ownedCourse(c, c.Locals("courseID").(uint))
	if crs == nil {
		return err
	}
	page, limit, offset, status := pagination(c)

	db := database.Database.Db.Model(&courseModels.Enrollment{}).Where("course_id = ? AND is_deleted = ?", crs.ID, false)
	if status != "" {
		db = db.Where("status = ?", status)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	var enrollments []courseModels.Enrollment
	if err := db.Offset(offset).Limit(limit).Order("progress desc").Order("id asc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	userIDs := make([]uint, len(enrollments))
	for i, e := range enrollments {
		userIDs[i] = e.UserID
	}
	var users []models.User
	if len(userIDs) > 0 {
		database.Database.Db.Where("id IN ?", userIDs).Find(&users)
	}
	byID := make(map[uint]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	type EnrollmentWithUser struct {
		courseModels.Enrollment
		UserName  string `json:"user_name"`
		UserEmail string `json:"user_email"`
	}
	result := make([]EnrollmentWithUser, len(enrollments))
	for i, e := range enrollments {
		e.Course = courseModels.Course{}
		result[i] = EnrollmentWithUser{
			Enrollment: e,
			UserName:   byID[e.UserID].Name,
			UserEmail:  byID[e.UserID].Email,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"enrollments": result,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}
