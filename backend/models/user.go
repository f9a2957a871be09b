package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleParent  = "parent"
	RoleAdmin   = "admin"
)

func ValidRole(role string) bool {
	switch role {
	case RoleStudent, RoleTeacher, RoleParent, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	gorm.Model
	FullName          string `gorm:"not null"`
	Email             string `gorm:"unique;not null"`
	PasswordHash      string
	Role              string `gorm:"default:student"` // student, teacher, parent, admin
	IsVerified        bool   `gorm:"default:false"`
	VerificationToken string
	ParentID          *uint `gorm:"index"` // set when a parent links this student
}

type PasswordResetToken struct {
	gorm.Model
	UserID    uint   `gorm:"uniqueIndex;not null"`
	Token     string `gorm:"index;not null"`
	ExpiresAt time.Time
}
