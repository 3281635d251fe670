package model

import (
	"time"
)

// QuizAttempt is one user's single try at one quiz. The (user_id, quiz_id)
// unique index enforces one attempt per user per quiz even under concurrent
// duplicate requests.
type QuizAttempt struct {
	ID                   uint              `gorm:"primarykey" json:"id"`
	QuizID               uint              `json:"quiz_id" gorm:"not null;uniqueIndex:idx_user_quiz"`
	Quiz                 Quiz              `json:"quiz,omitempty" gorm:"foreignKey:QuizID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	UserID               uint              `json:"user_id" gorm:"not null;uniqueIndex:idx_user_quiz"`
	AttemptCode          string            `json:"attempt_code" gorm:"size:7;not null;uniqueIndex:idx_quiz_attempts_attempt_code"`
	AttemptQuestionCount uint              `json:"attempt_question_count" gorm:"not null;default:0"`
	CorrectCount         *uint             `json:"correct_count,omitempty"`
	StartedAt            time.Time         `json:"started_at" gorm:"autoCreateTime"`
	SubmittedAt          *time.Time        `json:"submitted_at,omitempty"`
	Questions            []AttemptQuestion `json:"questions,omitempty" gorm:"foreignKey:AttemptID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt            time.Time         `json:"created_at"`
	UpdatedAt            time.Time         `json:"updated_at"`
}
