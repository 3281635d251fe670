package service

import (
	"errors"
	"time"

	"github.com/leeminji/quizrally/internal/apperror"
	"github.com/leeminji/quizrally/internal/dto"
	"github.com/leeminji/quizrally/internal/model"
	"github.com/leeminji/quizrally/internal/repository"
	"github.com/rs/zerolog/log"
)

// maxAttemptCodeRetries bounds regeneration when a freshly drawn attempt code
// collides with an existing one.
const maxAttemptCodeRetries = 3

// AttemptService is the attempt engine: it drives one user's try at one quiz
// from creation through question presentation and answer selection to the
// terminal submission. An attempt moves NonExistent -> Created -> Submitted
// and never leaves Submitted.
type AttemptService interface {
	CreateAttempt(userID uint, req dto.AttemptCreateRequest) (*dto.AttemptResponse, error)
	GetPresentedQuestion(userID, quizID, questionID uint) (*dto.PresentedQuestionResponse, error)
	SaveChoiceOrder(userID uint, req dto.ChoiceOrderRequest) (*dto.PresentedQuestionResponse, error)
	SelectChoice(userID uint, req dto.SelectChoiceRequest) (*dto.SelectChoiceResponse, error)
	Submit(userID, quizID uint) (*dto.SubmissionResponse, error)
	GetResult(userID, quizID uint) (*dto.SubmissionResponse, error)
}

type attemptService struct {
	quizRepo     repository.QuizRepository
	questionRepo repository.QuestionRepository
	attemptRepo  repository.AttemptRepository
	codes        CodeGenerator
	newRand      RandFactory
}

func NewAttemptService(
	quizRepo repository.QuizRepository,
	questionRepo repository.QuestionRepository,
	attemptRepo repository.AttemptRepository,
	codes CodeGenerator,
	newRand RandFactory,
) AttemptService {
	return &attemptService{
		quizRepo:     quizRepo,
		questionRepo: questionRepo,
		attemptRepo:  attemptRepo,
		codes:        codes,
		newRand:      newRand,
	}
}

// CreateAttempt snapshots the presented questions for (user, quiz). The
// supplied question order is stored exactly as given; the draw that produced
// it already happened upstream. The duplicate-attempt check here is a fast
// path only; the (user_id, quiz_id) unique index settles concurrent races.
func (s *attemptService) CreateAttempt(userID uint, req dto.AttemptCreateRequest) (*dto.AttemptResponse, error) {
	quiz, err := s.quizRepo.FindByID(req.QuizID)
	if err != nil {
		return nil, err
	}
	if quiz.IsDeleted {
		return nil, apperror.NotFoundf("quiz %d not found", req.QuizID)
	}

	attempted, err := s.attemptRepo.ExistsByUserAndQuiz(userID, req.QuizID)
	if err != nil {
		return nil, err
	}
	if attempted {
		return nil, apperror.Conflictf("quiz %d already attempted", req.QuizID)
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
		return nil, apperror.Validationf("request contains unknown question ids")
	}

	attempt := model.QuizAttempt{
		QuizID:               req.QuizID,
		UserID:               userID,
		AttemptQuestionCount: quiz.QuestionCount,
		StartedAt:            time.Now(),
	}
	for retry := 0; ; retry++ {
		attempt.AttemptCode = s.codes.Generate()
		err = s.attemptRepo.CreateWithQuestions(&attempt, req.QuestionIDs)
		if err == nil {
			break
		}
		if errors.Is(err, repository.ErrAttemptCodeTaken) && retry < maxAttemptCodeRetries {
			log.Warn().Str("attemptCode", attempt.AttemptCode).Msg("Attempt code collision, regenerating")
			continue
		}
		return nil, err
	}

	return &dto.AttemptResponse{
		ID:                   attempt.ID,
		QuizID:               attempt.QuizID,
		AttemptCode:          attempt.AttemptCode,
		AttemptQuestionCount: attempt.AttemptQuestionCount,
		StartedAt:            attempt.StartedAt,
	}, nil
}

// GetPresentedQuestion returns the question with its choices in a stable,
// attempt-scoped order. Once an ordering has been persisted it is returned
// verbatim (is_ordered=true); before that the catalog choices are served,
// shuffled per quiz configuration, and nothing is written (is_ordered=false).
// Choice correctness never appears in the response.
func (s *attemptService) GetPresentedQuestion(userID, quizID, questionID uint) (*dto.PresentedQuestionResponse, error) {
	attemptQuestion, err := s.attemptRepo.FindAttemptQuestion(userID, quizID, questionID)
	if err != nil {
		return nil, err
	}

	resp := dto.PresentedQuestionResponse{
		ID:   attemptQuestion.QuestionID,
		Text: attemptQuestion.Question.Text,
	}

	stored, err := s.attemptRepo.FindChoices(attemptQuestion.ID)
	if err != nil {
		return nil, err
	}
	if len(stored) > 0 {
		resp.IsOrdered = true
		for _, ac := range stored {
			resp.Choices = append(resp.Choices, dto.PresentedChoice{ID: ac.ChoiceID, Text: ac.Choice.Text})
		}
		return &resp, nil
	}

	quiz, err := s.quizRepo.FindByID(quizID)
	if err != nil {
		return nil, err
	}
	catalog, err := s.questionRepo.FindChoicesByQuestionID(questionID)
	if err != nil {
		return nil, err
	}
	if quiz.IsRandomChoice {
		rng := s.newRand()
		rng.Shuffle(len(catalog), func(i, j int) {
			catalog[i], catalog[j] = catalog[j], catalog[i]
		})
	}
	resp.IsOrdered = false
	for _, c := range catalog {
		resp.Choices = append(resp.Choices, dto.PresentedChoice{ID: c.ID, Text: c.Text})
	}
	return &resp, nil
}

// SaveChoiceOrder freezes the client-observed choice ordering for one attempt
// question. The first successful call persists the rows; every later call is
// a no-op returning the frozen order unchanged.
func (s *attemptService) SaveChoiceOrder(userID uint, req dto.ChoiceOrderRequest) (*dto.PresentedQuestionResponse, error) {
	attemptQuestion, err := s.attemptRepo.FindAttemptQuestion(userID, req.QuizID, req.QuestionID)
	if err != nil {
		return nil, err
	}
	if attemptQuestion.Attempt.SubmittedAt != nil {
		return nil, apperror.Conflictf("quiz %d already submitted", req.QuizID)
	}

	catalog, err := s.questionRepo.FindChoicesByQuestionID(req.QuestionID)
	if err != nil {
		return nil, err
	}
	textByID := make(map[uint]string, len(catalog))
	for _, c := range catalog {
		textByID[c.ID] = c.Text
	}

	seen := make(map[uint]bool, len(req.ChoiceIDs))
	var invalid []uint
	for _, id := range req.ChoiceIDs {
		if _, ok := textByID[id]; !ok {
			invalid = append(invalid, id)
		}
		if seen[id] {
			return nil, apperror.Validationf("duplicate choice id %d in request", id)
		}
		seen[id] = true
	}
	if len(invalid) > 0 {
		return nil, apperror.Validationf("invalid choice ids: %v", invalid)
	}

	rows, created, err := s.attemptRepo.CreateChoicesIfAbsent(attemptQuestion.ID, req.ChoiceIDs)
	if err != nil {
		return nil, err
	}
	if !created {
		log.Info().
			Uint("attemptQuestionID", attemptQuestion.ID).
			Msg("Choice order already persisted, returning frozen order")
	}

	resp := dto.PresentedQuestionResponse{
		ID:        attemptQuestion.QuestionID,
		Text:      attemptQuestion.Question.Text,
		IsOrdered: true,
	}
	for _, ac := range rows {
		resp.Choices = append(resp.Choices, dto.PresentedChoice{ID: ac.ChoiceID, Text: textByID[ac.ChoiceID]})
	}
	return &resp, nil
}

// SelectChoice records the user's current answer. Each call fully supersedes
// the previous one; at most one choice per attempt question is ever selected.
func (s *attemptService) SelectChoice(userID uint, req dto.SelectChoiceRequest) (*dto.SelectChoiceResponse, error) {
	attemptQuestion, err := s.attemptRepo.FindAttemptQuestion(userID, req.QuizID, req.QuestionID)
	if err != nil {
		return nil, err
	}
	if attemptQuestion.Attempt.SubmittedAt != nil {
		return nil, apperror.Conflictf("quiz %d already submitted", req.QuizID)
	}

	if err := s.attemptRepo.SelectChoice(attemptQuestion.ID, req.SelectedChoiceID); err != nil {
		return nil, err
	}
	return &dto.SelectChoiceResponse{
		QuestionID:       req.QuestionID,
		SelectedChoiceID: req.SelectedChoiceID,
	}, nil
}

// Submit finalizes the attempt exactly once. Every attempt question gets a
// persisted verdict; questions with no selected choice score as incorrect.
// Submission is deliberately not idempotent: scoring twice after catalog data
// may have changed would silently rewrite history.
func (s *attemptService) Submit(userID, quizID uint) (*dto.SubmissionResponse, error) {
	attempt, err := s.attemptRepo.FindByUserAndQuiz(userID, quizID)
	if err != nil {
		return nil, err
	}
	if attempt.SubmittedAt != nil {
		return nil, apperror.Conflictf("quiz %d already submitted", quizID)
	}

	attemptQuestions, err := s.attemptRepo.FindAttemptQuestionsWithChoices(attempt.ID)
	if err != nil {
		return nil, err
	}

	verdicts := make(map[uint]bool, len(attemptQuestions))
	var correctCount uint
	for _, aq := range attemptQuestions {
		verdict := false
		for _, ac := range aq.Choices {
			if ac.IsSelected {
				verdict = ac.Choice.IsCorrect
				break
			}
		}
		verdicts[aq.ID] = verdict
		if verdict {
			correctCount++
		}
	}

	submittedAt := time.Now()
	if err := s.attemptRepo.FinalizeSubmission(attempt.ID, verdicts, correctCount, submittedAt); err != nil {
		return nil, err
	}

	log.Info().
		Uint("attemptID", attempt.ID).
		Uint("correctCount", correctCount).
		Int("questionCount", len(attemptQuestions)).
		Msg("Quiz attempt submitted")

	return &dto.SubmissionResponse{
		ID:           attempt.ID,
		AttemptCode:  attempt.AttemptCode,
		CorrectCount: &correctCount,
		SubmittedAt:  &submittedAt,
	}, nil
}

// GetResult returns the attempt summary; correct_count and submitted_at stay
// empty until the attempt has been submitted.
func (s *attemptService) GetResult(userID, quizID uint) (*dto.SubmissionResponse, error) {
	attempt, err := s.attemptRepo.FindByUserAndQuiz(userID, quizID)
	if err != nil {
		return nil, err
	}
	return &dto.SubmissionResponse{
		ID:           attempt.ID,
		AttemptCode:  attempt.AttemptCode,
		CorrectCount: attempt.CorrectCount,
		SubmittedAt:  attempt.SubmittedAt,
	}, nil
}
