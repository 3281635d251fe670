package dto

import "time"

type AttemptCreateRequest struct {
	QuizID      uint   `json:"quiz_id" binding:"required"`
	QuestionIDs []uint `json:"question_ids" binding:"required,min=1"`
}

type AttemptResponse struct {
	ID                   uint      `json:"id"`
	QuizID               uint      `json:"quiz_id"`
	AttemptCode          string    `json:"attempt_code"`
	AttemptQuestionCount uint      `json:"attempt_question_count"`
	StartedAt            time.Time `json:"started_at"`
}

// PresentedChoice never carries is_correct; that field is write-only for the
// attempt read path.
type PresentedChoice struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

// PresentedQuestionResponse returns a question with its choices in the order
// the user should see them. IsOrdered reports whether that order has been
// frozen for the attempt; when false the client is expected to persist the
// ordering it received.
type PresentedQuestionResponse struct {
	ID        uint              `json:"id"`
	Text      string            `json:"text"`
	IsOrdered bool              `json:"is_ordered"`
	Choices   []PresentedChoice `json:"choices"`
}

type ChoiceOrderRequest struct {
	QuizID     uint   `json:"quiz_id" binding:"required"`
	QuestionID uint   `json:"question_id" binding:"required"`
	ChoiceIDs  []uint `json:"choice_ids" binding:"required,min=1"`
}

type SelectChoiceRequest struct {
	QuizID           uint `json:"quiz_id" binding:"required"`
	QuestionID       uint `json:"question_id" binding:"required"`
	SelectedChoiceID uint `json:"selected_choice_id" binding:"required"`
}

type SelectChoiceResponse struct {
	QuestionID       uint `json:"question_id"`
	SelectedChoiceID uint `json:"selected_choice_id"`
}

type SubmissionResponse struct {
	ID           uint       `json:"id"`
	AttemptCode  string     `json:"attempt_code"`
	CorrectCount *uint      `json:"correct_count,omitempty"`
	SubmittedAt  *time.Time `json:"submitted_at,omitempty"`
}
