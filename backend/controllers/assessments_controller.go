package controllers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"eduapp/backend/config"
	"eduapp/backend/middleware"
	"eduapp/backend/models"
)

type AssessmentsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewAssessmentsController(db *gorm.DB, cfg *config.Config) *AssessmentsController {
	return &AssessmentsController{DB: db, Cfg: cfg}
}

type CreateAssessmentInput struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	SubjectID       uint   `json:"subject_id"`
	GroupID         uint   `json:"group_id"`
	DurationMinutes int    `json:"duration_minutes"`
}

func (ac *AssessmentsController) CreateAssessment(c *fiber.Ctx) error {
	var input CreateAssessmentInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" || input.SubjectID == 0 || input.GroupID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Title, subject_id and group_id are required",
		})
	}

	var subject models.Subject
	if err := ac.DB.First(&subject, input.SubjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Subject not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	var group models.Group
	if err := ac.DB.First(&group, input.GroupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Group not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	// Admin-created assessments go live immediately, teacher ones wait
	// for approval.
	isAdmin := middleware.CallerRole(c) == models.RoleAdmin
	assessment := models.Assessment{
		Title:           input.Title,
		Description:     input.Description,
		SubjectID:       input.SubjectID,
		GroupID:         input.GroupID,
		CreatedBy:       middleware.CallerID(c),
		DurationMinutes: input.DurationMinutes,
		Approved:        isAdmin,
		Status:          models.AssessmentStatusPending,
	}
	if isAdmin {
		assessment.Status = models.AssessmentStatusActive
	}

	if err := ac.DB.Create(&assessment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create assessment",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(assessment)
}

func (ac *AssessmentsController) GetAllAssessments(c *fiber.Ctx) error {
	type assessmentRow struct {
		models.Assessment
		SubjectName string `json:"subject_name"`
		GroupName   string `json:"group_name"`
	}

	query := ac.DB.Model(&models.Assessment{}).
		Select("assessments.*, subjects.name AS subject_name, groups.name AS group_name").
		Joins("LEFT JOIN subjects ON assessments.subject_id = subjects.id").
		Joins("LEFT JOIN groups ON assessments.group_id = groups.id")

	if subjectID := c.Query("subject_id"); subjectID != "" {
		query = query.Where("assessments.subject_id = ?", subjectID)
	}

	var rows []assessmentRow
	if err := query.Order("assessments.created_at DESC").Find(&rows).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	return c.JSON(rows)
}

func (ac *AssessmentsController) GetAssessment(c *fiber.Ctx) error {
	assessmentID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid assessment ID",
		})
	}

	var assessment models.Assessment
	if err := ac.DB.Preload("Questions.Options").First(&assessment, assessmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Assessment not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	totalMarks := 0
	for _, q := range assessment.Questions {
		totalMarks += q.Marks
	}

	return c.JSON(fiber.Map{
		"assessment":  assessment,
		"total_marks": totalMarks,
	})
}

func (ac *AssessmentsController) UpdateAssessment(c *fiber.Ctx) error {
	assessmentID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid assessment ID",
		})
	}

	type UpdateInput struct {
		Title string `json:"title"`
	}
	var input UpdateInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Title is required",
		})
	}

	var assessment models.Assessment
	if err := ac.DB.First(&assessment, assessmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Assessment not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	// Only the title is mutable here.
	assessment.Title = input.Title
	if err := ac.DB.Save(&assessment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update assessment",
		})
	}

	return c.JSON(assessment)
}

func (ac *AssessmentsController) DeleteAssessment(c *fiber.Ctx) error {
	assessmentID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid assessment ID",
		})
	}

	var assessment models.Assessment
	if err := ac.DB.First(&assessment, assessmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Assessment not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	// Dependent questions, options and submissions go with the assessment in
	// one transaction.
	err = ac.DB.Transaction(func(tx *gorm.DB) error {
		var questionIDs []uint
		if err := tx.Model(&models.Question{}).
			Where("assessment_id = ?", assessment.ID).
			Pluck("id", &questionIDs).Error; err != nil {
			return err
		}
		if len(questionIDs) > 0 {
			if err := tx.Where("question_id IN ?", questionIDs).
				Delete(&models.QuestionOption{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("assessment_id = ?", assessment.ID).
			Delete(&models.Question{}).Error; err != nil {
			return err
		}
		if err := tx.Where("assessment_id = ?", assessment.ID).
			Delete(&models.Submission{}).Error; err != nil {
			return err
		}
		return tx.Delete(&assessment).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete assessment",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Assessment deleted successfully",
	})
}

// SetApproval moves an assessment to an explicit target state instead of
// flipping whatever happens to be stored. An absent body approves.
func (ac *AssessmentsController) SetApproval(c *fiber.Ctx) error {
	assessmentID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid assessment ID",
		})
	}

	type ApprovalInput struct {
		Approved *bool `json:"approved"`
	}
	var input ApprovalInput
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Cannot parse JSON",
			})
		}
	}
	approved := true
	if input.Approved != nil {
		approved = *input.Approved
	}

	var assessment models.Assessment
	if err := ac.DB.First(&assessment, assessmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Assessment not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	assessment.Approved = approved
	assessment.Status = models.AssessmentStatusPending
	if approved {
		assessment.Status = models.AssessmentStatusActive
	}
	if err := ac.DB.Save(&assessment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update assessment",
		})
	}

	return c.JSON(assessment)
}

type AddQuestionInput struct {
	QuestionText string `json:"question_text"`
	QuestionType string `json:"question_type"`
	Marks        *int   `json:"marks"`
}

func (ac *AssessmentsController) AddQuestion(c *fiber.Ctx) error {
	assessmentID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid assessment ID",
		})
	}

	var input AddQuestionInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	input.QuestionText = strings.TrimSpace(input.QuestionText)
	if input.QuestionText == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Question text is required",
		})
	}

	marks := 1
	if input.Marks != nil {
		marks = *input.Marks
	}
	if marks < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Marks must be at least 1",
		})
	}

	questionType := input.QuestionType
	if questionType == "" {
		questionType = "multiple_choice"
	}

	var assessment models.Assessment
	if err := ac.DB.First(&assessment, assessmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Assessment not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	question := models.Question{
		AssessmentID: assessment.ID,
		QuestionText: input.QuestionText,
		QuestionType: questionType,
		Marks:        marks,
	}
	if err := ac.DB.Create(&question).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create question",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(question)
}

func (ac *AssessmentsController) DeleteQuestion(c *fiber.Ctx) error {
	questionID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid question ID",
		})
	}

	var question models.Question
	if err := ac.DB.First(&question, questionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Question not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	err = ac.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", question.ID).
			Delete(&models.QuestionOption{}).Error; err != nil {
			return err
		}
		return tx.Delete(&question).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete question",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Question deleted successfully",
	})
}

type AddOptionInput struct {
	OptionText string `json:"option_text"`
	IsCorrect  bool   `json:"is_correct"`
}

func (ac *AssessmentsController) AddOption(c *fiber.Ctx) error {
	assessmentID, err := strconv.Atoi(c.Params("assessmentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid assessment ID",
		})
	}
	questionID, err := strconv.Atoi(c.Params("questionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid question ID",
		})
	}

	var input AddOptionInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	input.OptionText = strings.TrimSpace(input.OptionText)
	if input.OptionText == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Option text is required",
		})
	}

	var question models.Question
	err = ac.DB.Where("id = ? AND assessment_id = ?", questionID, assessmentID).
		First(&question).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Question not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	option := models.QuestionOption{
		QuestionID: question.ID,
		OptionText: input.OptionText,
		IsCorrect:  input.IsCorrect,
	}

	// The clear-others write and the insert must land together so the
	// question never shows zero or two correct options.
	err = ac.DB.Transaction(func(tx *gorm.DB) error {
		if input.IsCorrect {
			if err := tx.Model(&models.QuestionOption{}).
				Where("question_id = ?", question.ID).
				Update("is_correct", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&option).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create option",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(option)
}

func (ac *AssessmentsController) DeleteOption(c *fiber.Ctx) error {
	optionID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid option ID",
		})
	}

	var option models.QuestionOption
	if err := ac.DB.First(&option, optionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Option not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	if err := ac.DB.Delete(&option).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete option",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Option deleted successfully",
	})
}
