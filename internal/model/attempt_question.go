package model

import (
	"time"
)

// AttemptQuestion snapshots one question as presented in one attempt.
// OrderIndex is assigned at attempt creation and never mutated; IsCorrect stays
// nil until the attempt is submitted.
type AttemptQuestion struct {
	ID         uint            `gorm:"primarykey" json:"id"`
	AttemptID  uint            `json:"attempt_id" gorm:"not null;uniqueIndex:idx_attempt_question"`
	Attempt    QuizAttempt     `json:"-" gorm:"foreignKey:AttemptID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	QuestionID uint            `json:"question_id" gorm:"not null;uniqueIndex:idx_attempt_question"`
	Question   Question        `json:"question,omitempty" gorm:"foreignKey:QuestionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	OrderIndex uint            `json:"order_index" gorm:"not null"`
	IsCorrect  *bool           `json:"is_correct,omitempty"`
	Choices    []AttemptChoice `json:"choices,omitempty" gorm:"foreignKey:AttemptQuestionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}
