package service

import (
	"github.com/jinzhu/copier"
	"github.com/leeminji/quizrally/internal/apperror"
	"github.com/leeminji/quizrally/internal/dto"
	"github.com/leeminji/quizrally/internal/model"
	"github.com/leeminji/quizrally/internal/repository"
	"github.com/rs/zerolog/log"
)

// QuestionService is the staff-only catalog authoring surface. Its responses
// are the only place choice correctness leaves the storage layer.
type QuestionService interface {
	CreateQuestion(req dto.QuestionCreateRequest) (*dto.QuestionStaffResponse, error)
	GetQuestion(id uint) (*dto.QuestionStaffResponse, error)
	GetAllQuestions() ([]dto.QuestionStaffResponse, error)
	UpdateQuestion(id uint, req dto.QuestionCreateRequest) (*dto.QuestionStaffResponse, error)
	DeleteQuestion(id uint) error
}

type questionService struct {
	repo repository.QuestionRepository
}

func NewQuestionService(repo repository.QuestionRepository) QuestionService {
	return &questionService{repo: repo}
}

func validateChoices(choices []dto.ChoiceCreateRequest) error {
	correctCount := 0
	for _, c := range choices {
		if c.IsCorrect {
			correctCount++
		}
	}
	if correctCount != 1 {
		return apperror.Validationf("a question must have exactly one correct choice, got %d", correctCount)
	}
	return nil
}

func (s *questionService) CreateQuestion(req dto.QuestionCreateRequest) (*dto.QuestionStaffResponse, error) {
	if err := validateChoices(req.Choices); err != nil {
		return nil, err
	}

	question := model.Question{Text: req.Text}
	for _, c := range req.Choices {
		question.Choices = append(question.Choices, model.Choice{Text: c.Text, IsCorrect: c.IsCorrect})
	}

	if err := s.repo.Create(&question); err != nil {
		log.Error().Err(err).Msg("Failed to create question")
		return nil, err
	}

	var resp dto.QuestionStaffResponse
	copier.Copy(&resp, &question)
	return &resp, nil
}

func (s *questionService) GetQuestion(id uint) (*dto.QuestionStaffResponse, error) {
	question, err := s.repo.FindByIDWithChoices(id)
	if err != nil {
		return nil, err
	}
	var resp dto.QuestionStaffResponse
	copier.Copy(&resp, question)
	return &resp, nil
}

func (s *questionService) GetAllQuestions() ([]dto.QuestionStaffResponse, error) {
	questions, err := s.repo.FindAll()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list questions")
		return nil, err
	}
	resp := make([]dto.QuestionStaffResponse, 0, len(questions))
	copier.Copy(&resp, &questions)
	return resp, nil
}

// UpdateQuestion replaces the question text and the whole choice set. Attempt
// snapshots referencing removed choices cascade away with them.
func (s *questionService) UpdateQuestion(id uint, req dto.QuestionCreateRequest) (*dto.QuestionStaffResponse, error) {
	if err := validateChoices(req.Choices); err != nil {
		return nil, err
	}

	question, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}

	question.Text = req.Text
	question.Choices = nil
	for _, c := range req.Choices {
		question.Choices = append(question.Choices, model.Choice{QuestionID: question.ID, Text: c.Text, IsCorrect: c.IsCorrect})
	}

	if err := s.repo.Update(question); err != nil {
		log.Error().Err(err).Uint("questionID", id).Msg("Failed to update question")
		return nil, err
	}

	var resp dto.QuestionStaffResponse
	copier.Copy(&resp, question)
	return &resp, nil
}

func (s *questionService) DeleteQuestion(id uint) error {
	// Cascades into quiz links and attempt snapshots referencing the question.
	return s.repo.Delete(id)
}
