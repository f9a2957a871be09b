package controllers

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"eduapp/backend/config"
	"eduapp/backend/middleware"
	"eduapp/backend/models"
)

type SubmissionsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewSubmissionsController(db *gorm.DB, cfg *config.Config) *SubmissionsController {
	return &SubmissionsController{DB: db, Cfg: cfg}
}

type AnswerInput struct {
	QuestionID       uint `json:"question_id"`
	SelectedOptionID uint `json:"selected_option_id"`
}

type SubmitInput struct {
	Answers []AnswerInput `json:"answers"`
}

func (sc *SubmissionsController) SubmitAssessment(c *fiber.Ctx) error {
	assessmentID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid assessment ID",
		})
	}

	var input SubmitInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if len(input.Answers) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Answers are required",
		})
	}

	// Approval gating is a visibility rule: an unapproved assessment looks
	// absent to students.
	var assessment models.Assessment
	err = sc.DB.Where("id = ? AND approved = ?", assessmentID, true).
		First(&assessment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Assessment not found or not approved",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	// One batch read covers every marks/correctness lookup the scoring
	// loop needs.
	var questions []models.Question
	err = sc.DB.Preload("Options").
		Where("assessment_id = ?", assessment.ID).
		Find(&questions).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	type questionKey struct {
		marks           int
		correctOptionID uint
	}
	byID := make(map[uint]questionKey, len(questions))
	for _, q := range questions {
		key := questionKey{marks: q.Marks}
		if key.marks < 1 {
			key.marks = 1
		}
		for _, opt := range q.Options {
			if opt.IsCorrect {
				key.correctOptionID = opt.ID
			}
		}
		byID[q.ID] = key
	}

	// Answers referencing questions outside this assessment are skipped:
	// they add nothing to the score or the total.
	score := 0
	totalMarks := 0
	for _, ans := range input.Answers {
		q, ok := byID[ans.QuestionID]
		if !ok {
			continue
		}
		totalMarks += q.marks
		if q.correctOptionID != 0 && ans.SelectedOptionID == q.correctOptionID {
			score += q.marks
		}
	}

	answersJSON, err := json.Marshal(input.Answers)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not encode answers",
		})
	}

	submission := models.Submission{
		StudentID:    middleware.CallerID(c),
		AssessmentID: assessment.ID,
		Answers:      answersJSON,
		Score:        score,
		SubmittedAt:  time.Now(),
	}

	// Resubmission replaces the stored record for this (student, assessment)
	// pair; graded_at resets so a manual regrade shows as pending again.
	err = sc.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "student_id"}, {Name: "assessment_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"answers", "score", "submitted_at", "graded_at", "updated_at",
		}),
	}).Create(&submission).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save submission",
		})
	}

	percentage := 0
	if totalMarks > 0 {
		percentage = int(math.Round(float64(score) / float64(totalMarks) * 100))
	}

	return c.JSON(fiber.Map{
		"message":    "Assessment submitted successfully",
		"submission": submission,
		"score":      score,
		"totalMarks": totalMarks,
		"percentage": percentage,
	})
}

func (sc *SubmissionsController) GetSubmissionResult(c *fiber.Ctx) error {
	assessmentID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid assessment ID",
		})
	}

	type resultRow struct {
		models.Submission
		Title       string `json:"title"`
		SubjectName string `json:"subject_name"`
	}

	var row resultRow
	err = sc.DB.Model(&models.Submission{}).
		Select("submissions.*, assessments.title AS title, subjects.name AS subject_name").
		Joins("JOIN assessments ON submissions.assessment_id = assessments.id").
		Joins("LEFT JOIN subjects ON assessments.subject_id = subjects.id").
		Where("submissions.student_id = ? AND submissions.assessment_id = ?",
			middleware.CallerID(c), assessmentID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "No submission found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	return c.JSON(row)
}

func (sc *SubmissionsController) GetCorrectAnswers(c *fiber.Ctx) error {
	assessmentID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid assessment ID",
		})
	}

	type correctAnswerRow struct {
		QuestionID   uint   `json:"question_id"`
		QuestionText string `json:"question_text"`
		OptionID     uint   `json:"option_id"`
		OptionText   string `json:"option_text"`
	}

	var rows []correctAnswerRow
	err = sc.DB.Model(&models.Question{}).
		Select("questions.id AS question_id, questions.question_text, "+
			"question_options.id AS option_id, question_options.option_text").
		Joins("JOIN question_options ON questions.id = question_options.question_id").
		Where("questions.assessment_id = ? AND question_options.is_correct = ?",
			assessmentID, true).
		Order("questions.id").
		Find(&rows).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	return c.JSON(fiber.Map{
		"correctAnswers": rows,
	})
}

func (sc *SubmissionsController) GetAllSubmissions(c *fiber.Ctx) error {
	assessmentID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid assessment ID",
		})
	}

	type submissionRow struct {
		models.Submission
		StudentName  string `json:"student_name"`
		StudentEmail string `json:"student_email"`
	}

	var rows []submissionRow
	err = sc.DB.Model(&models.Submission{}).
		Select("submissions.*, users.full_name AS student_name, users.email AS student_email").
		Joins("JOIN users ON submissions.student_id = users.id").
		Where("submissions.assessment_id = ?", assessmentID).
		Order("submissions.submitted_at DESC").
		Find(&rows).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	return c.JSON(fiber.Map{
		"submissions": rows,
	})
}

// GradeSubmission is a manual teacher override of the computed score.
func (sc *SubmissionsController) GradeSubmission(c *fiber.Ctx) error {
	submissionID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid submission ID",
		})
	}

	type GradeInput struct {
		Score *int `json:"score"`
	}
	var input GradeInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if input.Score == nil || *input.Score < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "A non-negative score is required",
		})
	}

	// Teachers only grade submissions of their own assessments; admins may
	// grade any.
	query := sc.DB.Model(&models.Submission{}).
		Select("submissions.*").
		Joins("JOIN assessments ON submissions.assessment_id = assessments.id").
		Where("submissions.id = ?", submissionID)
	if middleware.CallerRole(c) != models.RoleAdmin {
		query = query.Where("assessments.created_by = ?", middleware.CallerID(c))
	}

	var submission models.Submission
	if err := query.First(&submission).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Submission not found or access denied",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	now := time.Now()
	submission.Score = *input.Score
	submission.GradedAt = &now
	if err := sc.DB.Save(&submission).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not grade submission",
		})
	}

	return c.JSON(submission)
}
