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

// ForumController serves the per-subject Q&A board.
type ForumController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewForumController(db *gorm.DB, cfg *config.Config) *ForumController {
	return &ForumController{DB: db, Cfg: cfg}
}

func (fc *ForumController) authorName(userID uint) string {
	var user models.User
	if err := fc.DB.Select("full_name").First(&user, userID).Error; err != nil {
		return ""
	}
	return user.FullName
}

func (fc *ForumController) GetQuestions(c *fiber.Ctx) error {
	subjectID := c.Query("subject_id")
	if subjectID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "subject_id is required",
		})
	}

	var questions []models.ForumQuestion
	err := fc.DB.
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_accepted DESC, votes DESC, created_at ASC")
		}).
		Preload("Answers.Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("subject_id = ?", subjectID).
		Order("created_at DESC").
		Find(&questions).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	return c.JSON(questions)
}

func (fc *ForumController) GetQuestion(c *fiber.Ctx) error {
	questionID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid question ID",
		})
	}

	var question models.ForumQuestion
	err = fc.DB.
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_accepted DESC, votes DESC, created_at ASC")
		}).
		Preload("Answers.Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&question, questionID).Error
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

	return c.JSON(fiber.Map{
		"question": question,
		"author":   fc.authorName(question.AuthorID),
	})
}

func (fc *ForumController) CreateQuestion(c *fiber.Ctx) error {
	type QuestionInput struct {
		Title     string `json:"title"`
		Body      string `json:"body"`
		SubjectID uint   `json:"subject_id"`
	}
	var input QuestionInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" || strings.TrimSpace(input.Body) == "" || input.SubjectID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "title, body and subject_id are required",
		})
	}

	question := models.ForumQuestion{
		Title:     input.Title,
		Body:      input.Body,
		AuthorID:  middleware.CallerID(c),
		SubjectID: input.SubjectID,
	}
	if err := fc.DB.Create(&question).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create question",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(question)
}

func (fc *ForumController) CreateAnswer(c *fiber.Ctx) error {
	questionID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid question ID",
		})
	}

	type AnswerInput struct {
		Body string `json:"body"`
	}
	var input AnswerInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if strings.TrimSpace(input.Body) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "body is required",
		})
	}

	var question models.ForumQuestion
	if err := fc.DB.First(&question, questionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Question not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	answer := models.ForumAnswer{
		QuestionID: question.ID,
		Body:       input.Body,
		AuthorID:   middleware.CallerID(c),
	}
	if err := fc.DB.Create(&answer).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not add answer",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(answer)
}

func (fc *ForumController) CreateComment(c *fiber.Ctx) error {
	answerID, err := strconv.Atoi(c.Params("answerId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid answer ID",
		})
	}

	type CommentInput struct {
		Body string `json:"body"`
	}
	var input CommentInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if strings.TrimSpace(input.Body) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "body is required",
		})
	}

	var answer models.ForumAnswer
	if err := fc.DB.First(&answer, answerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Answer not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	comment := models.ForumComment{
		AnswerID: answer.ID,
		Body:     input.Body,
		AuthorID: middleware.CallerID(c),
	}
	if err := fc.DB.Create(&comment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not add comment",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

func (fc *ForumController) AcceptAnswer(c *fiber.Ctx) error {
	answerID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid answer ID",
		})
	}

	var answer models.ForumAnswer
	if err := fc.DB.First(&answer, answerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Answer not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	// Only the question's author decides which answer solved it.
	var question models.ForumQuestion
	if err := fc.DB.First(&question, answer.QuestionID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}
	if question.AuthorID != middleware.CallerID(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Only the question author can accept an answer",
		})
	}

	answer.IsAccepted = true
	if err := fc.DB.Save(&answer).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not accept answer",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Answer accepted!",
	})
}

func (fc *ForumController) VoteAnswer(c *fiber.Ctx) error {
	answerID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid answer ID",
		})
	}

	type VoteInput struct {
		Vote int `json:"vote"`
	}
	var input VoteInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if input.Vote != 1 && input.Vote != -1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "vote must be 1 or -1",
		})
	}

	result := fc.DB.Model(&models.ForumAnswer{}).
		Where("id = ?", answerID).
		Update("votes", gorm.Expr("votes + ?", input.Vote))
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not record vote",
		})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Answer not found",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Vote recorded",
	})
}

func (fc *ForumController) GetUnreadCount(c *fiber.Ctx) error {
	subjectID, err := strconv.Atoi(c.Params("subjectId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid subject ID",
		})
	}

	var count int64
	err = fc.DB.Model(&models.ForumQuestion{}).
		Where("subject_id = ?", subjectID).
		Where("id NOT IN (?)",
			fc.DB.Model(&models.ForumQuestionView{}).
				Select("question_id").
				Where("user_id = ?", middleware.CallerID(c))).
		Count(&count).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	return c.JSON(fiber.Map{
		"unread_count": count,
	})
}

func (fc *ForumController) MarkQuestionRead(c *fiber.Ctx) error {
	questionID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid question ID",
		})
	}

	view := models.ForumQuestionView{
		QuestionID: uint(questionID),
		UserID:     middleware.CallerID(c),
		ViewedAt:   time.Now(),
	}
	err = fc.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "question_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"viewed_at", "updated_at"}),
	}).Create(&view).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not mark as read",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
	})
}
