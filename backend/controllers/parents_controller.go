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

// ParentsController links parent accounts to their children's student
// accounts via the ParentID self-reference on users.
type ParentsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewParentsController(db *gorm.DB, cfg *config.Config) *ParentsController {
	return &ParentsController{DB: db, Cfg: cfg}
}

func (pc *ParentsController) LinkChild(c *fiber.Ctx) error {
	type LinkInput struct {
		StudentEmail string `json:"student_email"`
	}
	var input LinkInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if strings.TrimSpace(input.StudentEmail) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "student_email is required",
		})
	}

	parentID := middleware.CallerID(c)

	var student models.User
	err := pc.DB.Where("email = ? AND role = ?", input.StudentEmail, models.RoleStudent).
		First(&student).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "No student found with this email address",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	if student.ParentID != nil && *student.ParentID == parentID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "This student is already linked to your account",
		})
	}

	student.ParentID = &parentID
	if err := pc.DB.Save(&student).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not link student",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Student linked successfully",
		"student": fiber.Map{
			"id":        student.ID,
			"full_name": student.FullName,
			"email":     student.Email,
		},
	})
}

func (pc *ParentsController) UnlinkChild(c *fiber.Ctx) error {
	studentID, err := strconv.Atoi(c.Params("studentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid student ID",
		})
	}

	parentID := middleware.CallerID(c)

	var student models.User
	err = pc.DB.Where("id = ? AND parent_id = ?", studentID, parentID).
		First(&student).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Student not found or does not belong to this parent",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	if err := pc.DB.Model(&student).Update("parent_id", nil).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not unlink student",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Student unlinked successfully",
	})
}

func (pc *ParentsController) GetChildren(c *fiber.Ctx) error {
	var children []models.User
	err := pc.DB.
		Select("id, full_name, email, role, is_verified").
		Where("parent_id = ?", middleware.CallerID(c)).
		Order("full_name").
		Find(&children).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}
	return c.JSON(children)
}

// SearchStudents finds unlinked students by name or email fragment.
func (pc *ParentsController) SearchStudents(c *fiber.Ctx) error {
	query := c.Query("query")
	if len(query) < 2 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Search query must be at least 2 characters long",
		})
	}

	pattern := "%" + query + "%"
	var students []models.User
	err := pc.DB.
		Select("id, full_name, email").
		Where("role = ? AND parent_id IS NULL", models.RoleStudent).
		Where("email LIKE ? OR full_name LIKE ?", pattern, pattern).
		Order("full_name").
		Limit(10).
		Find(&students).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}
	return c.JSON(students)
}
