package model

import (
	"time"
)

// Quiz is soft-deleted with an explicit flag instead of gorm.DeletedAt so that
// staff reads and attempt history stay queryable without Unscoped escapes.
// Every user-facing read path must filter on is_deleted itself.
type Quiz struct {
	ID               uint       `gorm:"primarykey" json:"id"`
	Title            string     `json:"title" gorm:"size:255;not null"`
	QuestionCount    uint       `json:"question_count" gorm:"not null;default:0"`
	IsRandomQuestion bool       `json:"is_random_question" gorm:"not null;default:false"`
	IsRandomChoice   bool       `json:"is_random_choice" gorm:"not null;default:false"`
	CreatedBy        uint       `json:"created_by" gorm:"not null;index"`
	IsDeleted        bool       `json:"is_deleted" gorm:"not null;default:false;index"`
	DeletedAt        *time.Time `json:"deleted_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
