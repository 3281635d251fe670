package model

import (
	"time"
)

// AttemptChoice freezes one choice's presentation order inside an attempt
// question. Rows are created once (first persisted ordering) and afterwards
// only IsSelected flips; at most one row per attempt question is selected.
type AttemptChoice struct {
	ID                uint            `gorm:"primarykey" json:"id"`
	AttemptQuestionID uint            `json:"attempt_question_id" gorm:"not null;uniqueIndex:idx_attempt_choice"`
	AttemptQuestion   AttemptQuestion `json:"-" gorm:"foreignKey:AttemptQuestionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	ChoiceID          uint            `json:"choice_id" gorm:"not null;uniqueIndex:idx_attempt_choice"`
	Choice            Choice          `json:"choice,omitempty" gorm:"foreignKey:ChoiceID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	OrderIndex        uint            `json:"order_index" gorm:"not null"`
	IsSelected        bool            `json:"is_selected" gorm:"not null;default:false"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}
