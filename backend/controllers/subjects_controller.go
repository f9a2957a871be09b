package controllers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"eduapp/backend/config"
	"eduapp/backend/middleware"
	"eduapp/backend/models"
)

type SubjectsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewSubjectsController(db *gorm.DB, cfg *config.Config) *SubjectsController {
	return &SubjectsController{DB: db, Cfg: cfg}
}

func (sc *SubjectsController) CreateSubject(c *fiber.Ctx) error {
	type SubjectInput struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Grade       string `json:"grade"`
	}
	var input SubjectInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Subject name is required",
		})
	}

	subject := models.Subject{
		Name:        input.Name,
		Description: input.Description,
		Grade:       input.Grade,
	}
	if err := sc.DB.Create(&subject).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create subject",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(subject)
}

func (sc *SubjectsController) GetSubjects(c *fiber.Ctx) error {
	var subjects []models.Subject
	if err := sc.DB.Order("name").Find(&subjects).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}
	return c.JSON(subjects)
}

func (sc *SubjectsController) UpdateSubject(c *fiber.Ctx) error {
	subjectID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid subject ID",
		})
	}

	type SubjectInput struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Grade       string `json:"grade"`
	}
	var input SubjectInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	var subject models.Subject
	if err := sc.DB.First(&subject, subjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Subject not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	if input.Name != "" {
		subject.Name = input.Name
	}
	if input.Description != "" {
		subject.Description = input.Description
	}
	if input.Grade != "" {
		subject.Grade = input.Grade
	}
	if err := sc.DB.Save(&subject).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update subject",
		})
	}

	return c.JSON(subject)
}

func (sc *SubjectsController) DeleteSubject(c *fiber.Ctx) error {
	subjectID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid subject ID",
		})
	}

	var subject models.Subject
	if err := sc.DB.First(&subject, subjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Subject not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	if err := sc.DB.Delete(&subject).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete subject",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Subject deleted",
	})
}

// EnrollSubject is idempotent: enrolling twice leaves a single row.
func (sc *SubjectsController) EnrollSubject(c *fiber.Ctx) error {
	type EnrollInput struct {
		SubjectID uint `json:"subject_id"`
	}
	var input EnrollInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if input.SubjectID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Subject ID is required",
		})
	}

	var subject models.Subject
	if err := sc.DB.First(&subject, input.SubjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Subject not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	enrollment := models.Enrollment{
		StudentID:  middleware.CallerID(c),
		SubjectID:  subject.ID,
		EnrolledAt: time.Now(),
	}
	result := sc.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}, {Name: "subject_id"}},
		DoNothing: true,
	}).Create(&enrollment)
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not enroll",
		})
	}
	if result.RowsAffected == 0 {
		return c.JSON(fiber.Map{
			"message": "Already enrolled in this subject",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Enrolled successfully",
		"enrollment": enrollment,
	})
}

func (sc *SubjectsController) UnenrollSubject(c *fiber.Ctx) error {
	subjectID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid subject ID",
		})
	}

	// Hard delete: a soft-deleted row would still occupy the composite
	// unique index and block re-enrollment.
	result := sc.DB.Unscoped().
		Where("student_id = ? AND subject_id = ?", middleware.CallerID(c), subjectID).
		Delete(&models.Enrollment{})
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not unenroll",
		})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Enrollment not found",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Successfully unenrolled from subject",
	})
}

func (sc *SubjectsController) GetMySubjects(c *fiber.Ctx) error {
	var subjects []models.Subject
	err := sc.DB.
		Joins("JOIN enrollments ON enrollments.subject_id = subjects.id").
		Where("enrollments.student_id = ?", middleware.CallerID(c)).
		Find(&subjects).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}
	return c.JSON(subjects)
}

func (sc *SubjectsController) GetAvailableSubjects(c *fiber.Ctx) error {
	var subjects []models.Subject
	err := sc.DB.
		Where("id NOT IN (?)",
			sc.DB.Model(&models.Enrollment{}).
				Select("subject_id").
				Where("student_id = ?", middleware.CallerID(c))).
		Order("name").
		Find(&subjects).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}
	return c.JSON(subjects)
}

// GetSubjectDetails returns the subject with its topics, resources and
// approved assessments. Only enrolled students may read it.
func (sc *SubjectsController) GetSubjectDetails(c *fiber.Ctx) error {
	subjectID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid subject ID",
		})
	}

	var enrollment models.Enrollment
	err = sc.DB.Where("student_id = ? AND subject_id = ?",
		middleware.CallerID(c), subjectID).
		First(&enrollment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "You are not enrolled in this subject",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	var subject models.Subject
	if err := sc.DB.First(&subject, subjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Subject not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	var topics []models.Topic
	if err := sc.DB.Preload("Resources").
		Where("subject_id = ?", subjectID).
		Order("name").
		Find(&topics).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	var assessments []models.Assessment
	err = sc.DB.Where("subject_id = ? AND approved = ?", subjectID, true).
		Order("created_at DESC").
		Find(&assessments).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	return c.JSON(fiber.Map{
		"subject":     subject,
		"topics":      topics,
		"assessments": assessments,
	})
}
