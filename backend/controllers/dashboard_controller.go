package controllers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"eduapp/backend/config"
	"eduapp/backend/middleware"
	"eduapp/backend/models"
)

type DashboardController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewDashboardController(db *gorm.DB, cfg *config.Config) *DashboardController {
	return &DashboardController{DB: db, Cfg: cfg}
}

// GetStudentDashboard returns the student's enrolled subjects with their
// topics and the approved assessments of each subject.
func (dc *DashboardController) GetStudentDashboard(c *fiber.Ctx) error {
	studentID := middleware.CallerID(c)

	var subjects []models.Subject
	err := dc.DB.
		Joins("JOIN enrollments ON enrollments.subject_id = subjects.id").
		Where("enrollments.student_id = ?", studentID).
		Find(&subjects).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	result := make([]fiber.Map, 0, len(subjects))
	for _, subject := range subjects {
		var topics []models.Topic
		if err := dc.DB.Where("subject_id = ?", subject.ID).
			Order("name").Find(&topics).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not query database",
			})
		}

		var assessments []models.Assessment
		err := dc.DB.Where("subject_id = ? AND approved = ?", subject.ID, true).
			Order("created_at DESC").
			Find(&assessments).Error
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not query database",
			})
		}

		result = append(result, fiber.Map{
			"id":          subject.ID,
			"name":        subject.Name,
			"grade":       subject.Grade,
			"topics":      topics,
			"assessments": assessments,
		})
	}

	return c.JSON(fiber.Map{
		"message":  "Student Dashboard Data",
		"subjects": result,
	})
}
