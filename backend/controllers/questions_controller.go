package controllers

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"eduapp/backend/config"
	"eduapp/backend/middleware"
	"eduapp/backend/models"
)

// QuestionsController handles student-suggested questions: students propose
// a question with options, staff review the queue and either promote a
// suggestion into an assessment's question bank or reject it.
type QuestionsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewQuestionsController(db *gorm.DB, cfg *config.Config) *QuestionsController {
	return &QuestionsController{DB: db, Cfg: cfg}
}

type suggestedOption struct {
	OptionText string `json:"option_text"`
}

type SuggestQuestionInput struct {
	SubjectID     uint              `json:"subject_id"`
	QuestionText  string            `json:"question_text"`
	Options       []suggestedOption `json:"options"`
	CorrectOption int               `json:"correct_option"`
}

func (qc *QuestionsController) SuggestQuestion(c *fiber.Ctx) error {
	var input SuggestQuestionInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	input.QuestionText = strings.TrimSpace(input.QuestionText)
	if input.QuestionText == "" || input.SubjectID == 0 || len(input.Options) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "question_text, subject_id and options are required",
		})
	}
	for _, opt := range input.Options {
		if strings.TrimSpace(opt.OptionText) == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Option text is required",
			})
		}
	}
	if input.CorrectOption < 0 || input.CorrectOption >= len(input.Options) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "correct_option must index one of the options",
		})
	}

	var subject models.Subject
	if err := qc.DB.First(&subject, input.SubjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Subject not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	optionsJSON, err := json.Marshal(input.Options)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not encode options",
		})
	}

	suggestion := models.SuggestedQuestion{
		SubjectID:     input.SubjectID,
		QuestionText:  input.QuestionText,
		Options:       optionsJSON,
		CorrectOption: input.CorrectOption,
		SuggestedBy:   middleware.CallerID(c),
	}
	if err := qc.DB.Create(&suggestion).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save suggestion",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Question suggested",
		"suggestion": suggestion,
	})
}

func (qc *QuestionsController) GetSuggestedQuestions(c *fiber.Ctx) error {
	var suggestions []models.SuggestedQuestion
	if err := qc.DB.Order("id DESC").Find(&suggestions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}
	return c.JSON(suggestions)
}

// ApproveSuggestedQuestion promotes a suggestion into an assessment's
// question bank and consumes the suggestion. The target assessment must
// belong to the suggestion's subject.
func (qc *QuestionsController) ApproveSuggestedQuestion(c *fiber.Ctx) error {
	suggestionID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid suggestion ID",
		})
	}

	type ApproveInput struct {
		AssessmentID uint `json:"assessment_id"`
	}
	var input ApproveInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if input.AssessmentID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "assessment_id is required",
		})
	}

	var suggestion models.SuggestedQuestion
	if err := qc.DB.First(&suggestion, suggestionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Suggestion not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	var assessment models.Assessment
	if err := qc.DB.First(&assessment, input.AssessmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Assessment not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}
	if assessment.SubjectID != suggestion.SubjectID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Assessment does not belong to the suggestion's subject",
		})
	}

	var options []suggestedOption
	if err := json.Unmarshal(suggestion.Options, &options); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not decode suggestion options",
		})
	}

	question := models.Question{
		AssessmentID: assessment.ID,
		QuestionText: suggestion.QuestionText,
		QuestionType: "multiple_choice",
		Marks:        1,
	}

	// The question, its options and the suggestion removal land together.
	err = qc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&question).Error; err != nil {
			return err
		}
		for i, opt := range options {
			option := models.QuestionOption{
				QuestionID: question.ID,
				OptionText: opt.OptionText,
				IsCorrect:  i == suggestion.CorrectOption,
			}
			if err := tx.Create(&option).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&suggestion).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not approve suggestion",
		})
	}

	return c.JSON(fiber.Map{
		"message":  "Suggested question approved and added to the assessment",
		"question": question,
	})
}

func (qc *QuestionsController) DeleteSuggestedQuestion(c *fiber.Ctx) error {
	suggestionID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid suggestion ID",
		})
	}

	result := qc.DB.Delete(&models.SuggestedQuestion{}, suggestionID)
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete suggestion",
		})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Suggestion not found",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Suggested question deleted",
	})
}
