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

type GroupsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewGroupsController(db *gorm.DB, cfg *config.Config) *GroupsController {
	return &GroupsController{DB: db, Cfg: cfg}
}

func (gc *GroupsController) CreateGroup(c *fiber.Ctx) error {
	type GroupInput struct {
		Name      string `json:"name"`
		SubjectID uint   `json:"subject_id"`
	}
	var input GroupInput
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
	if err := gc.DB.First(&subject, input.SubjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Subject not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	group := models.Group{Name: input.Name, SubjectID: subject.ID}
	if err := gc.DB.Create(&group).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create group",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(group)
}

func (gc *GroupsController) GetAllGroups(c *fiber.Ctx) error {
	var groups []models.Group
	if err := gc.DB.Order("name").Find(&groups).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}
	return c.JSON(groups)
}

func (gc *GroupsController) GetGroupsBySubject(c *fiber.Ctx) error {
	subjectID, err := strconv.Atoi(c.Params("subjectId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid subject ID",
		})
	}

	var groups []models.Group
	if err := gc.DB.Where("subject_id = ?", subjectID).Order("name").Find(&groups).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}
	return c.JSON(groups)
}

func (gc *GroupsController) UpdateGroup(c *fiber.Ctx) error {
	groupID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid group ID",
		})
	}

	type GroupInput struct {
		Name string `json:"name"`
	}
	var input GroupInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Name is required",
		})
	}

	var group models.Group
	if err := gc.DB.First(&group, groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Group not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	group.Name = input.Name
	if err := gc.DB.Save(&group).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update group",
		})
	}

	return c.JSON(group)
}

func (gc *GroupsController) DeleteGroup(c *fiber.Ctx) error {
	groupID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid group ID",
		})
	}

	var group models.Group
	if err := gc.DB.First(&group, groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Group not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	if err := gc.DB.Delete(&group).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete group",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Group deleted",
	})
}
