package repository

import (
	"errors"
	"time"

	"github.com/leeminji/quizrally/internal/apperror"
	"github.com/leeminji/quizrally/internal/model"
	"gorm.io/gorm"
)

type QuizRepository interface {
	Create(quiz *model.Quiz) error
	Update(quiz *model.Quiz) error
	FindByID(id uint) (*model.Quiz, error)
	FindAllForStaff() ([]model.Quiz, error)
	FindAllActive() ([]model.Quiz, error)
	SoftDelete(id uint, at time.Time) error
	LinkQuestions(quizID uint, questionIDs []uint) error
	LinkedQuestionCount(quizID uint) (int64, error)
	FindLinkedQuestions(quizID uint) ([]model.Question, error)
}

type quizRepository struct {
	db *gorm.DB
}

func NewQuizRepository(db *gorm.DB) QuizRepository {
	return &quizRepository{db: db}
}

func (r *quizRepository) Create(quiz *model.Quiz) error {
	return r.db.Create(quiz).Error
}

func (r *quizRepository) Update(quiz *model.Quiz) error {
	return r.db.Save(quiz).Error
}

// FindByID resolves deleted quizzes too; callers decide whether a tombstone is
// acceptable for their read path.
func (r *quizRepository) FindByID(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	if err := r.db.First(&quiz, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFoundf("quiz %d not found", id)
		}
		return nil, err
	}
	return &quiz, nil
}

func (r *quizRepository) FindAllForStaff() ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.db.Order("quizzes.created_at DESC").Find(&quizzes).Error
	return quizzes, err
}

func (r *quizRepository) FindAllActive() ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.db.Where("is_deleted = ?", false).Order("quizzes.created_at DESC").Find(&quizzes).Error
	return quizzes, err
}

// SoftDelete marks the tombstone. Deleting an already-deleted quiz is a no-op
// so client retries stay harmless; attempt history is preserved either way.
func (r *quizRepository) SoftDelete(id uint, at time.Time) error {
	res := r.db.Model(&model.Quiz{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]interface{}{"is_deleted": true, "deleted_at": at})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.Model(&model.Quiz{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return apperror.NotFoundf("quiz %d not found", id)
		}
	}
	return nil
}

// LinkQuestions inserts all links in one transaction; a duplicate pair aborts
// the whole batch via the composite unique index.
func (r *quizRepository) LinkQuestions(quizID uint, questionIDs []uint) error {
	links := make([]model.QuizQuestion, 0, len(questionIDs))
	for _, questionID := range questionIDs {
		links = append(links, model.QuizQuestion{QuizID: quizID, QuestionID: questionID})
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&links).Error
	})
	if err != nil {
		if isDuplicateKey(err) {
			return apperror.Conflictf("one or more questions are already linked to quiz %d", quizID)
		}
		return err
	}
	return nil
}

func (r *quizRepository) LinkedQuestionCount(quizID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.QuizQuestion{}).Where("quiz_id = ?", quizID).Count(&count).Error
	return count, err
}

// FindLinkedQuestions returns the quiz's catalog questions in link order.
func (r *quizRepository) FindLinkedQuestions(quizID uint) ([]model.Question, error) {
	var questions []model.Question
	err := r.db.Model(&model.Question{}).
		Joins("JOIN quiz_questions ON quiz_questions.question_id = questions.id").
		Where("quiz_questions.quiz_id = ?", quizID).
		Order("quiz_questions.id ASC").
		Find(&questions).Error
	return questions, err
}
