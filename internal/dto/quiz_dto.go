package dto

import "time"

type QuizCreateRequest struct {
	Title            string `json:"title" binding:"required"`
	QuestionCount    uint   `json:"question_count"`
	IsRandomQuestion bool   `json:"is_random_question"`
	IsRandomChoice   bool   `json:"is_random_choice"`
}

// QuizUpdateRequest uses pointers so partial updates can tell "absent" from
// "zero value".
type QuizUpdateRequest struct {
	Title            *string `json:"title,omitempty"`
	QuestionCount    *uint   `json:"question_count,omitempty"`
	IsRandomQuestion *bool   `json:"is_random_question,omitempty"`
	IsRandomChoice   *bool   `json:"is_random_choice,omitempty"`
}

type QuizStaffSummary struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

type QuizStaffDetail struct {
	ID               uint       `json:"id"`
	Title            string     `json:"title"`
	QuestionCount    uint       `json:"question_count"`
	IsRandomQuestion bool       `json:"is_random_question"`
	IsRandomChoice   bool       `json:"is_random_choice"`
	IsDeleted        bool       `json:"is_deleted"`
	DeletedAt        *time.Time `json:"deleted_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// QuizUserSummary is what regular users see in listings.
type QuizUserSummary struct {
	ID           uint   `json:"id"`
	Title        string `json:"title"`
	HasAttempted bool   `json:"has_attempted"`
}

type QuizQuestionLinkRequest struct {
	QuestionIDs []uint `json:"question_ids" binding:"required,min=1"`
}

type QuizQuestionLinkResponse struct {
	QuizID          uint   `json:"quiz_id"`
	LinkedQuestions []uint `json:"linked_questions"`
}
