package dto

import "time"

// ChoiceCreateRequest carries one answer option on question authoring.
type ChoiceCreateRequest struct {
	Text      string `json:"text" binding:"required"`
	IsCorrect bool   `json:"is_correct"`
}

type QuestionCreateRequest struct {
	Text    string                `json:"text" binding:"required"`
	Choices []ChoiceCreateRequest `json:"choices" binding:"required,min=1,dive"`
}

// ChoiceStaffResponse is the authoring-side projection; it is the only choice
// view that carries is_correct.
type ChoiceStaffResponse struct {
	ID        uint   `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

type QuestionStaffResponse struct {
	ID        uint                  `json:"id"`
	Text      string                `json:"text"`
	Choices   []ChoiceStaffResponse `json:"choices"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// QuestionSummary is the user-facing projection: id and text only.
type QuestionSummary struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}
