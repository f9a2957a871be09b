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

// ResourcesController manages URL-backed learning materials. Binary file
// storage is intentionally not handled here.
type ResourcesController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewResourcesController(db *gorm.DB, cfg *config.Config) *ResourcesController {
	return &ResourcesController{DB: db, Cfg: cfg}
}

func (rc *ResourcesController) CreateResource(c *fiber.Ctx) error {
	type ResourceInput struct {
		TopicID uint   `json:"topic_id"`
		Type    string `json:"type"`
		Title   string `json:"title"`
		URL     string `json:"url"`
	}
	var input ResourceInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	input.Title = strings.TrimSpace(input.Title)
	if input.TopicID == 0 || input.Type == "" || input.Title == "" || input.URL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "topic_id, type, title and url are required",
		})
	}

	var topic models.Topic
	if err := rc.DB.First(&topic, input.TopicID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Topic not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	resource := models.Resource{
		TopicID: topic.ID,
		Type:    input.Type,
		Title:   input.Title,
		URL:     input.URL,
	}
	if err := rc.DB.Create(&resource).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create resource",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(resource)
}

func (rc *ResourcesController) GetResourcesByTopic(c *fiber.Ctx) error {
	topicID, err := strconv.Atoi(c.Params("topicId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid topic ID",
		})
	}

	var resources []models.Resource
	if err := rc.DB.Where("topic_id = ?", topicID).Order("title").Find(&resources).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}
	return c.JSON(resources)
}

func (rc *ResourcesController) DeleteResource(c *fiber.Ctx) error {
	resourceID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid resource ID",
		})
	}

	var resource models.Resource
	if err := rc.DB.First(&resource, resourceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Resource not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	if err := rc.DB.Delete(&resource).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete resource",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Resource deleted successfully",
	})
}
