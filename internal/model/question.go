package model

import (
	"time"
)

type Question struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Text      string    `json:"text" gorm:"type:text;not null"`
	Choices   []Choice  `json:"choices,omitempty" gorm:"foreignKey:QuestionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
