package models

import (
	"time"

	"gorm.io/gorm"
)

type Subject struct {
	gorm.Model
	Name        string `gorm:"not null"`
	Description string
	Grade       string
}

type Group struct {
	gorm.Model
	Name      string `gorm:"not null"`
	SubjectID uint   `gorm:"index;not null"`
}

type Topic struct {
	gorm.Model
	Name        string `gorm:"not null"`
	Description string
	SubjectID   uint `gorm:"index;not null"`
	GroupID     *uint
	Resources   []Resource `gorm:"constraint:OnDelete:CASCADE"`
}

// Resource is a URL-backed learning material attached to a topic.
type Resource struct {
	gorm.Model
	TopicID uint   `gorm:"index;not null"`
	Type    string `gorm:"not null"` // video, document, link
	Title   string `gorm:"not null"`
	URL     string `gorm:"not null"`
}

// Enrollment links a student to a subject. The composite unique index backs
// the ON CONFLICT DO NOTHING upsert used by the enroll endpoint.
type Enrollment struct {
	gorm.Model
	StudentID  uint `gorm:"uniqueIndex:idx_student_subject;not null"`
	SubjectID  uint `gorm:"uniqueIndex:idx_student_subject;not null"`
	EnrolledAt time.Time
}
