package controllers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"eduapp/backend/config"
	"eduapp/backend/models"
)

type TopicsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewTopicsController(db *gorm.DB, cfg *config.Config) *TopicsController {
	return &TopicsController{DB: db, Cfg: cfg}
}

func (tc *TopicsController) CreateTopic(c *fiber.Ctx) error {
	type TopicInput struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		SubjectID   uint   `json:"subject_id"`
		GroupID     *uint  `json:"group_id"`
	}
	var input TopicInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" || input.SubjectID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Name and subject_id are required",
		})
	}

	var subject models.Subject
	if err := tc.DB.First(&subject, input.SubjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Subject not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	topic := models.Topic{
		Name:        input.Name,
		Description: input.Description,
		SubjectID:   subject.ID,
		GroupID:     input.GroupID,
	}
	if err := tc.DB.Create(&topic).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create topic",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(topic)
}

func (tc *TopicsController) GetAllTopics(c *fiber.Ctx) error {
	var topics []models.Topic
	if err := tc.DB.Order("name").Find(&topics).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}
	return c.JSON(topics)
}

func (tc *TopicsController) GetTopicsBySubject(c *fiber.Ctx) error {
	subjectID, err := strconv.Atoi(c.Params("subjectId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid subject ID",
		})
	}

	var topics []models.Topic
	if err := tc.DB.Where("subject_id = ?", subjectID).Order("name").Find(&topics).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}
	return c.JSON(topics)
}

func (tc *TopicsController) GetTopic(c *fiber.Ctx) error {
	topicID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid topic ID",
		})
	}

	var topic models.Topic
	if err := tc.DB.Preload("Resources").First(&topic, topicID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Topic not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}
	return c.JSON(topic)
}

func (tc *TopicsController) UpdateTopic(c *fiber.Ctx) error {
	topicID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid topic ID",
		})
	}

	type TopicInput struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		GroupID     *uint  `json:"group_id"`
	}
	var input TopicInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	var topic models.Topic
	if err := tc.DB.First(&topic, topicID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Topic not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	if input.Name != "" {
		topic.Name = input.Name
	}
	if input.Description != "" {
		topic.Description = input.Description
	}
	if input.GroupID != nil {
		topic.GroupID = input.GroupID
	}
	if err := tc.DB.Save(&topic).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update topic",
		})
	}

	return c.JSON(topic)
}

func (tc *TopicsController) DeleteTopic(c *fiber.Ctx) error {
	topicID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid topic ID",
		})
	}

	var topic models.Topic
	if err := tc.DB.First(&topic, topicID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Topic not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	err = tc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("topic_id = ?", topic.ID).Delete(&models.Resource{}).Error; err != nil {
			return err
		}
		return tx.Delete(&topic).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete topic",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Topic deleted",
	})
}
