package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	AssessmentStatusPending = "pending"
	AssessmentStatusActive  = "active"
)

type Assessment struct {
	gorm.Model
	Title           string `gorm:"not null"`
	Description     string
	SubjectID       uint   `gorm:"index;not null"`
	GroupID         uint   `gorm:"index;not null"`
	CreatedBy       uint   `gorm:"index;not null"`
	Approved        bool   `gorm:"default:false"`
	Status          string `gorm:"default:pending"` // pending, active
	DurationMinutes int
	Questions       []Question `gorm:"constraint:OnDelete:CASCADE"`
}

type Question struct {
	gorm.Model
	AssessmentID uint             `gorm:"index;not null"`
	QuestionText string           `gorm:"not null"`
	QuestionType string           `gorm:"default:multiple_choice"`
	Marks        int              `gorm:"default:1"`
	Options      []QuestionOption `gorm:"constraint:OnDelete:CASCADE"`
}

// QuestionOption holds one answer choice. At most one option per question
// carries IsCorrect; the option controller enforces that inside a transaction.
type QuestionOption struct {
	gorm.Model
	QuestionID uint   `gorm:"index;not null"`
	OptionText string `gorm:"not null"`
	IsCorrect  bool   `gorm:"default:false"`
}

// SuggestedQuestion is a student-proposed question awaiting staff review.
// Options holds the proposed choices as JSON; CorrectOption indexes into it.
// Approval promotes the suggestion into Question/QuestionOption rows and
// removes it from this table.
type SuggestedQuestion struct {
	gorm.Model
	SubjectID     uint           `gorm:"index;not null"`
	QuestionText  string         `gorm:"not null"`
	Options       datatypes.JSON // [{option_text}]
	CorrectOption int
	SuggestedBy   uint `gorm:"index;not null"`
}

// Submission stores a student's answer set for one assessment. The composite
// unique index makes resubmission an upsert rather than an append.
type Submission struct {
	gorm.Model
	StudentID    uint           `gorm:"uniqueIndex:idx_student_assessment;not null"`
	AssessmentID uint           `gorm:"uniqueIndex:idx_student_assessment;not null"`
	Answers      datatypes.JSON // ordered [{question_id, selected_option_id}]
	Score        int
	SubmittedAt  time.Time
	GradedAt     *time.Time
}
