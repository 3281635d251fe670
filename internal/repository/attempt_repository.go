package repository

import (
	"errors"
	"time"

	"github.com/leeminji/quizrally/internal/apperror"
	"github.com/leeminji/quizrally/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrAttemptCodeTaken signals a collision on the attempt_code unique index.
// The service regenerates the code and retries; every other duplicate-key
// failure on attempt creation means the (user, quiz) pair already attempted.
var ErrAttemptCodeTaken = errors.New("attempt code already taken")

type AttemptRepository interface {
	CreateWithQuestions(attempt *model.QuizAttempt, questionIDs []uint) error
	FindByUserAndQuiz(userID, quizID uint) (*model.QuizAttempt, error)
	ExistsByUserAndQuiz(userID, quizID uint) (bool, error)
	FindAttemptedQuizIDs(userID uint) ([]uint, error)
	FindAttemptQuestion(userID, quizID, questionID uint) (*model.AttemptQuestion, error)
	FindAttemptQuestionsWithChoices(attemptID uint) ([]model.AttemptQuestion, error)
	FindChoices(attemptQuestionID uint) ([]model.AttemptChoice, error)
	CreateChoicesIfAbsent(attemptQuestionID uint, choiceIDs []uint) ([]model.AttemptChoice, bool, error)
	SelectChoice(attemptQuestionID, choiceID uint) error
	FinalizeSubmission(attemptID uint, verdicts map[uint]bool, correctCount uint, submittedAt time.Time) error
}

type attemptRepository struct {
	db *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) AttemptRepository {
	return &attemptRepository{db: db}
}

// CreateWithQuestions persists the attempt and its question snapshot as one
// all-or-nothing unit. OrderIndex follows the caller-supplied id order exactly,
// 1-based; whatever selection produced that order is trusted as given.
func (r *attemptRepository) CreateWithQuestions(attempt *model.QuizAttempt, questionIDs []uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(attempt).Error; err != nil {
			return err
		}
		questions := make([]model.AttemptQuestion, 0, len(questionIDs))
		for i, questionID := range questionIDs {
			questions = append(questions, model.AttemptQuestion{
				AttemptID:  attempt.ID,
				QuestionID: questionID,
				OrderIndex: uint(i + 1),
			})
		}
		return tx.Create(&questions).Error
	})
	if err != nil {
		if isDuplicateKey(err) {
			if constraintName(err) == "idx_quiz_attempts_attempt_code" {
				return ErrAttemptCodeTaken
			}
			return apperror.Conflictf("quiz %d already attempted", attempt.QuizID)
		}
		return err
	}
	return nil
}

func (r *attemptRepository) FindByUserAndQuiz(userID, quizID uint) (*model.QuizAttempt, error) {
	var attempt model.QuizAttempt
	err := r.db.Where("user_id = ? AND quiz_id = ?", userID, quizID).First(&attempt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFoundf("no attempt for quiz %d", quizID)
		}
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) ExistsByUserAndQuiz(userID, quizID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.QuizAttempt{}).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Count(&count).Error
	return count > 0, err
}

// FindAttemptedQuizIDs returns every quiz id the user has an attempt for, so
// listings resolve attempt status in one query.
func (r *attemptRepository) FindAttemptedQuizIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&model.QuizAttempt{}).
		Where("user_id = ?", userID).
		Pluck("quiz_id", &ids).Error
	return ids, err
}

// FindAttemptQuestion resolves the snapshot row for (user's attempt at quiz,
// question), with the owning attempt and the catalog question preloaded.
func (r *attemptRepository) FindAttemptQuestion(userID, quizID, questionID uint) (*model.AttemptQuestion, error) {
	var attemptQuestion model.AttemptQuestion
	err := r.db.
		Joins("JOIN quiz_attempts ON quiz_attempts.id = attempt_questions.attempt_id").
		Where("quiz_attempts.user_id = ? AND quiz_attempts.quiz_id = ? AND attempt_questions.question_id = ?",
			userID, quizID, questionID).
		Preload("Attempt").
		Preload("Question").
		First(&attemptQuestion).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFoundf("question %d is not part of your attempt at quiz %d", questionID, quizID)
		}
		return nil, err
	}
	return &attemptQuestion, nil
}

func (r *attemptRepository) FindAttemptQuestionsWithChoices(attemptID uint) ([]model.AttemptQuestion, error) {
	var questions []model.AttemptQuestion
	err := r.db.Where("attempt_id = ?", attemptID).
		Preload("Choices", func(db *gorm.DB) *gorm.DB {
			return db.Order("attempt_choices.order_index ASC")
		}).
		Preload("Choices.Choice").
		Order("attempt_questions.order_index ASC").
		Find(&questions).Error
	return questions, err
}

func (r *attemptRepository) FindChoices(attemptQuestionID uint) ([]model.AttemptChoice, error) {
	var choices []model.AttemptChoice
	err := r.db.Where("attempt_question_id = ?", attemptQuestionID).
		Preload("Choice").
		Order("attempt_choices.order_index ASC").
		Find(&choices).Error
	return choices, err
}

// CreateChoicesIfAbsent freezes a choice ordering exactly once. If rows already
// exist they are returned untouched; a concurrent first writer losing the
// unique-index race observes the winner's rows instead of failing. The second
// return value reports whether this call created the rows.
func (r *attemptRepository) CreateChoicesIfAbsent(attemptQuestionID uint, choiceIDs []uint) ([]model.AttemptChoice, bool, error) {
	var existing []model.AttemptChoice
	created := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("attempt_question_id = ?", attemptQuestionID).
			Order("order_index ASC").
			Find(&existing).Error; err != nil {
			return err
		}
		if len(existing) > 0 {
			return nil
		}
		rows := make([]model.AttemptChoice, 0, len(choiceIDs))
		for i, choiceID := range choiceIDs {
			rows = append(rows, model.AttemptChoice{
				AttemptQuestionID: attemptQuestionID,
				ChoiceID:          choiceID,
				OrderIndex:        uint(i + 1),
				IsSelected:        false,
			})
		}
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}
		existing = rows
		created = true
		return nil
	})
	if err != nil {
		if isDuplicateKey(err) {
			// Lost the race; the first writer's ordering is the frozen one.
			var winner []model.AttemptChoice
			if readErr := r.db.Where("attempt_question_id = ?", attemptQuestionID).
				Order("order_index ASC").
				Find(&winner).Error; readErr != nil {
				return nil, false, readErr
			}
			return winner, false, nil
		}
		return nil, false, err
	}
	return existing, created, nil
}

// SelectChoice clears every selection under the attempt question and marks the
// given choice, inside one transaction so no reader sees zero or two selected
// rows. The owning attempt row is locked and re-checked here; the service-level
// submitted check alone would let a select racing a concurrent submit mutate an
// already-scored attempt.
func (r *attemptRepository) SelectChoice(attemptQuestionID, choiceID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var attemptQuestion model.AttemptQuestion
		if err := tx.First(&attemptQuestion, attemptQuestionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFoundf("attempt question %d not found", attemptQuestionID)
			}
			return err
		}
		var attempt model.QuizAttempt
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&attempt, attemptQuestion.AttemptID).Error; err != nil {
			return err
		}
		if attempt.SubmittedAt != nil {
			return apperror.Conflictf("attempt %d already submitted", attempt.ID)
		}

		res := tx.Model(&model.AttemptChoice{}).
			Where("attempt_question_id = ? AND choice_id = ?", attemptQuestionID, choiceID).
			Update("is_selected", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperror.NotFoundf("choice %d is not among the attempt's choices", choiceID)
		}
		return tx.Model(&model.AttemptChoice{}).
			Where("attempt_question_id = ? AND choice_id <> ?", attemptQuestionID, choiceID).
			Update("is_selected", false).Error
	})
}

// FinalizeSubmission persists the per-question verdicts and stamps the attempt
// in one transaction. The submitted_at IS NULL guard makes a concurrent double
// submit fail instead of re-scoring.
func (r *attemptRepository) FinalizeSubmission(attemptID uint, verdicts map[uint]bool, correctCount uint, submittedAt time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for attemptQuestionID, isCorrect := range verdicts {
			if err := tx.Model(&model.AttemptQuestion{}).
				Where("id = ?", attemptQuestionID).
				Update("is_correct", isCorrect).Error; err != nil {
				return err
			}
		}
		res := tx.Model(&model.QuizAttempt{}).
			Where("id = ? AND submitted_at IS NULL", attemptID).
			Updates(map[string]interface{}{
				"correct_count": correctCount,
				"submitted_at":  submittedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperror.Conflictf("attempt %d already submitted", attemptID)
		}
		return nil
	})
}
