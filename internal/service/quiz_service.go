package service

import (
	"time"

	"github.com/jinzhu/copier"
	"github.com/leeminji/quizrally/internal/apperror"
	"github.com/leeminji/quizrally/internal/dto"
	"github.com/leeminji/quizrally/internal/model"
	"github.com/leeminji/quizrally/internal/repository"
	"github.com/rs/zerolog/log"
)

// QuizService is the staff-only quiz composition surface.
type QuizService interface {
	CreateQuiz(userID uint, req dto.QuizCreateRequest) (*dto.QuizStaffDetail, error)
	UpdateQuiz(id uint, req dto.QuizUpdateRequest) (*dto.QuizStaffDetail, error)
	DeleteQuiz(id uint) error
	GetQuiz(id uint) (*dto.QuizStaffDetail, error)
	GetAllQuizzes() ([]dto.QuizStaffSummary, error)
	LinkQuestions(quizID uint, req dto.QuizQuestionLinkRequest) (*dto.QuizQuestionLinkResponse, error)
}

type quizService struct {
	quizRepo     repository.QuizRepository
	questionRepo repository.QuestionRepository
}

func NewQuizService(quizRepo repository.QuizRepository, questionRepo repository.QuestionRepository) QuizService {
	return &quizService{quizRepo: quizRepo, questionRepo: questionRepo}
}

func (s *quizService) CreateQuiz(userID uint, req dto.QuizCreateRequest) (*dto.QuizStaffDetail, error) {
	quiz := model.Quiz{
		Title:            req.Title,
		QuestionCount:    req.QuestionCount,
		IsRandomQuestion: req.IsRandomQuestion,
		IsRandomChoice:   req.IsRandomChoice,
		CreatedBy:        userID,
	}
	if err := s.quizRepo.Create(&quiz); err != nil {
		log.Error().Err(err).Msg("Failed to create quiz")
		return nil, err
	}
	var resp dto.QuizStaffDetail
	copier.Copy(&resp, &quiz)
	return &resp, nil
}

// UpdateQuiz applies a partial update. question_count is guarded here, at
// configuration time, so the selection draw never has to fail on it.
func (s *quizService) UpdateQuiz(id uint, req dto.QuizUpdateRequest) (*dto.QuizStaffDetail, error) {
	quiz, err := s.quizRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if quiz.IsDeleted {
		return nil, apperror.Conflictf("quiz %d is deleted", id)
	}

	if req.QuestionCount != nil {
		linked, err := s.quizRepo.LinkedQuestionCount(id)
		if err != nil {
			return nil, err
		}
		if int64(*req.QuestionCount) > linked {
			return nil, apperror.Validationf(
				"question_count cannot exceed the number of linked questions (%d)", linked)
		}
	}

	changed := false
	if req.Title != nil && *req.Title != quiz.Title {
		quiz.Title = *req.Title
		changed = true
	}
	if req.QuestionCount != nil && *req.QuestionCount != quiz.QuestionCount {
		quiz.QuestionCount = *req.QuestionCount
		changed = true
	}
	if req.IsRandomQuestion != nil && *req.IsRandomQuestion != quiz.IsRandomQuestion {
		quiz.IsRandomQuestion = *req.IsRandomQuestion
		changed = true
	}
	if req.IsRandomChoice != nil && *req.IsRandomChoice != quiz.IsRandomChoice {
		quiz.IsRandomChoice = *req.IsRandomChoice
		changed = true
	}

	if changed {
		if err := s.quizRepo.Update(quiz); err != nil {
			log.Error().Err(err).Uint("quizID", id).Msg("Failed to update quiz")
			return nil, err
		}
	}

	var resp dto.QuizStaffDetail
	copier.Copy(&resp, quiz)
	return &resp, nil
}

// DeleteQuiz is a soft delete; attempt history under the quiz is preserved.
func (s *quizService) DeleteQuiz(id uint) error {
	return s.quizRepo.SoftDelete(id, time.Now())
}

func (s *quizService) GetQuiz(id uint) (*dto.QuizStaffDetail, error) {
	// Staff reads resolve tombstones too.
	quiz, err := s.quizRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	var resp dto.QuizStaffDetail
	copier.Copy(&resp, quiz)
	return &resp, nil
}

func (s *quizService) GetAllQuizzes() ([]dto.QuizStaffSummary, error) {
	quizzes, err := s.quizRepo.FindAllForStaff()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list quizzes for staff")
		return nil, err
	}
	resp := make([]dto.QuizStaffSummary, 0, len(quizzes))
	copier.Copy(&resp, &quizzes)
	return resp, nil
}

func (s *quizService) LinkQuestions(quizID uint, req dto.QuizQuestionLinkRequest) (*dto.QuizQuestionLinkResponse, error) {
	quiz, err := s.quizRepo.FindByID(quizID)
	if err != nil {
		return nil, err
	}
	if quiz.IsDeleted {
		return nil, apperror.Conflictf("quiz %d is deleted", quizID)
	}

	seen := make(map[uint]bool, len(req.QuestionIDs))
	for _, id := range req.QuestionIDs {
		if seen[id] {
			return nil, apperror.Validationf("duplicate question id %d in request", id)
		}
		seen[id] = true
	}

	questions, err := s.questionRepo.FindByIDs(req.QuestionIDs)
	if err != nil {
		return nil, err
	}
	if len(questions) != len(req.QuestionIDs) {
		found := make(map[uint]bool, len(questions))
		for _, q := range questions {
			found[q.ID] = true
		}
		var unknown []uint
		for _, id := range req.QuestionIDs {
			if !found[id] {
				unknown = append(unknown, id)
			}
		}
		return nil, apperror.Validationf("unknown question ids: %v", unknown)
	}

	if err := s.quizRepo.LinkQuestions(quizID, req.QuestionIDs); err != nil {
		return nil, err
	}
	return &dto.QuizQuestionLinkResponse{QuizID: quizID, LinkedQuestions: req.QuestionIDs}, nil
}
