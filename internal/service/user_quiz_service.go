package service

import (
	"github.com/leeminji/quizrally/internal/apperror"
	"github.com/leeminji/quizrally/internal/dto"
	"github.com/leeminji/quizrally/internal/model"
	"github.com/leeminji/quizrally/internal/repository"
	"github.com/rs/zerolog/log"
)

// UserQuizService serves the regular-user quiz reads: listings and the
// question draw that precedes an attempt.
type UserQuizService interface {
	GetAllQuizzes(userID uint) ([]dto.QuizUserSummary, error)
	DrawQuestions(quizID uint) ([]dto.QuestionSummary, error)
}

type userQuizService struct {
	quizRepo    repository.QuizRepository
	attemptRepo repository.AttemptRepository
	newRand     RandFactory
}

func NewUserQuizService(quizRepo repository.QuizRepository, attemptRepo repository.AttemptRepository, newRand RandFactory) UserQuizService {
	return &userQuizService{quizRepo: quizRepo, attemptRepo: attemptRepo, newRand: newRand}
}

func (s *userQuizService) GetAllQuizzes(userID uint) ([]dto.QuizUserSummary, error) {
	quizzes, err := s.quizRepo.FindAllActive()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list quizzes")
		return nil, err
	}

	attemptedIDs, err := s.attemptRepo.FindAttemptedQuizIDs(userID)
	if err != nil {
		return nil, err
	}
	attempted := make(map[uint]bool, len(attemptedIDs))
	for _, id := range attemptedIDs {
		attempted[id] = true
	}

	resp := make([]dto.QuizUserSummary, 0, len(quizzes))
	for _, quiz := range quizzes {
		resp = append(resp, dto.QuizUserSummary{ID: quiz.ID, Title: quiz.Title, HasAttempted: attempted[quiz.ID]})
	}
	return resp, nil
}

// DrawQuestions samples question_count linked questions without replacement.
// The draw order is already random; is_random_question adds a second shuffle
// on top. Pure computation, re-run on every unattempted view; nothing is
// persisted until the attempt is created with the drawn order.
func (s *userQuizService) DrawQuestions(quizID uint) ([]dto.QuestionSummary, error) {
	quiz, err := s.quizRepo.FindByID(quizID)
	if err != nil {
		return nil, err
	}
	if quiz.IsDeleted {
		return nil, apperror.NotFoundf("quiz %d not found", quizID)
	}

	linked, err := s.quizRepo.FindLinkedQuestions(quizID)
	if err != nil {
		return nil, err
	}
	if int(quiz.QuestionCount) > len(linked) {
		// Should have been rejected at configuration time.
		return nil, apperror.Validationf(
			"quiz %d is misconfigured: question_count %d exceeds %d linked questions",
			quizID, quiz.QuestionCount, len(linked))
	}

	rng := s.newRand()
	sample := make([]model.Question, 0, quiz.QuestionCount)
	for _, idx := range rng.Perm(len(linked))[:quiz.QuestionCount] {
		sample = append(sample, linked[idx])
	}
	if quiz.IsRandomQuestion {
		rng.Shuffle(len(sample), func(i, j int) {
			sample[i], sample[j] = sample[j], sample[i]
		})
	}

	resp := make([]dto.QuestionSummary, 0, len(sample))
	for _, q := range sample {
		resp = append(resp, dto.QuestionSummary{ID: q.ID, Text: q.Text})
	}
	return resp, nil
}
