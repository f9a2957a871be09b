package models

import (
	"time"

	"gorm.io/gorm"
)

type ForumQuestion struct {
	gorm.Model
	Title     string        `gorm:"not null"`
	Body      string        `gorm:"not null"`
	AuthorID  uint          `gorm:"index;not null"`
	SubjectID uint          `gorm:"index;not null"`
	Answers   []ForumAnswer `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
}

type ForumAnswer struct {
	gorm.Model
	QuestionID uint           `gorm:"index;not null"`
	Body       string         `gorm:"not null"`
	AuthorID   uint           `gorm:"index;not null"`
	Votes      int            `gorm:"default:0"`
	IsAccepted bool           `gorm:"default:false"`
	Comments   []ForumComment `gorm:"foreignKey:AnswerID;constraint:OnDelete:CASCADE"`
}

type ForumComment struct {
	gorm.Model
	AnswerID uint   `gorm:"index;not null"`
	Body     string `gorm:"not null"`
	AuthorID uint   `gorm:"index;not null"`
}

// ForumQuestionView tracks which users have seen which questions, backing the
// per-subject unread counter.
type ForumQuestionView struct {
	gorm.Model
	QuestionID uint `gorm:"uniqueIndex:idx_question_viewer;not null"`
	UserID     uint `gorm:"uniqueIndex:idx_question_viewer;not null"`
	ViewedAt   time.Time
}
