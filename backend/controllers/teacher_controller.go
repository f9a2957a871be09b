package controllers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"eduapp/backend/config"
	"eduapp/backend/middleware"
	"eduapp/backend/models"
)

type TeacherController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewTeacherController(db *gorm.DB, cfg *config.Config) *TeacherController {
	return &TeacherController{DB: db, Cfg: cfg}
}

// GetStats aggregates the workload counters for the teacher dashboard.
func (tc *TeacherController) GetStats(c *fiber.Ctx) error {
	teacherID := middleware.CallerID(c)

	var totalAssessments int64
	if err := tc.DB.Model(&models.Assessment{}).
		Where("created_by = ?", teacherID).
		Count(&totalAssessments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	var pendingApproval int64
	if err := tc.DB.Model(&models.Assessment{}).
		Where("created_by = ? AND approved = ?", teacherID, false).
		Count(&pendingApproval).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	// Students enrolled in any subject this teacher has assessed.
	var totalStudents int64
	err := tc.DB.Model(&models.Enrollment{}).
		Distinct("student_id").
		Where("subject_id IN (?)",
			tc.DB.Model(&models.Assessment{}).
				Distinct("subject_id").
				Where("created_by = ?", teacherID)).
		Count(&totalStudents).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	var pendingGrading int64
	err = tc.DB.Model(&models.Submission{}).
		Joins("JOIN assessments ON submissions.assessment_id = assessments.id").
		Where("assessments.created_by = ? AND submissions.graded_at IS NULL", teacherID).
		Count(&pendingGrading).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	return c.JSON(fiber.Map{
		"totalAssessments": totalAssessments,
		"pendingApproval":  pendingApproval,
		"totalStudents":    totalStudents,
		"pendingGrading":   pendingGrading,
	})
}

// GetAssessments lists the caller's assessments with submission counts.
func (tc *TeacherController) GetAssessments(c *fiber.Ctx) error {
	type teacherAssessmentRow struct {
		models.Assessment
		SubjectName     string `json:"subject_name"`
		SubmissionCount int64  `json:"submission_count"`
	}

	var rows []teacherAssessmentRow
	err := tc.DB.Model(&models.Assessment{}).
		Select("assessments.*, subjects.name AS subject_name, "+
			"(SELECT COUNT(*) FROM submissions WHERE submissions.assessment_id = assessments.id "+
			"AND submissions.deleted_at IS NULL) AS submission_count").
		Joins("LEFT JOIN subjects ON assessments.subject_id = subjects.id").
		Where("assessments.created_by = ?", middleware.CallerID(c)).
		Order("assessments.created_at DESC").
		Find(&rows).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	return c.JSON(rows)
}
