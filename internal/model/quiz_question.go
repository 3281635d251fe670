package model

import (
	"time"
)

// QuizQuestion links a quiz to a catalog question. The composite unique index
// is what makes duplicate link requests fail at the storage layer.
type QuizQuestion struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	QuizID     uint      `json:"quiz_id" gorm:"not null;uniqueIndex:idx_quiz_question"`
	Quiz       Quiz      `json:"-" gorm:"foreignKey:QuizID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	QuestionID uint      `json:"question_id" gorm:"not null;uniqueIndex:idx_quiz_question"`
	Question   Question  `json:"question,omitempty" gorm:"foreignKey:QuestionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
