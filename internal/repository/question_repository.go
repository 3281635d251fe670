package repository

import (
	"errors"

	"github.com/leeminji/quizrally/internal/apperror"
	"github.com/leeminji/quizrally/internal/model"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	Create(question *model.Question) error
	Update(question *model.Question) error
	Delete(id uint) error
	FindByID(id uint) (*model.Question, error)
	FindByIDWithChoices(id uint) (*model.Question, error)
	FindByIDs(ids []uint) ([]model.Question, error)
	FindAll() ([]model.Question, error)
	FindChoicesByQuestionID(questionID uint) ([]model.Choice, error)
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(question *model.Question) error {
	// Creates the associated choices in the same insert.
	return r.db.Create(question).Error
}

// Update replaces the question text and its whole choice set atomically.
// Replacing choices cascades into any attempt snapshots referencing them;
// catalog edits after attempts exist are accepted data loss.
func (r *questionRepository) Update(question *model.Question) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", question.ID).Delete(&model.Choice{}).Error; err != nil {
			return err
		}
		return tx.Save(question).Error
	})
}

func (r *questionRepository) Delete(id uint) error {
	res := r.db.Delete(&model.Question{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NotFoundf("question %d not found", id)
	}
	return nil
}

func (r *questionRepository) FindByID(id uint) (*model.Question, error) {
	var question model.Question
	if err := r.db.First(&question, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFoundf("question %d not found", id)
		}
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) FindByIDWithChoices(id uint) (*model.Question, error) {
	var question model.Question
	err := r.db.Preload("Choices", func(db *gorm.DB) *gorm.DB {
		return db.Order("choices.id ASC")
	}).First(&question, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFoundf("question %d not found", id)
		}
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) FindByIDs(ids []uint) ([]model.Question, error) {
	var questions []model.Question
	err := r.db.Where("id IN ?", ids).Find(&questions).Error
	return questions, err
}

func (r *questionRepository) FindAll() ([]model.Question, error) {
	var questions []model.Question
	err := r.db.Preload("Choices", func(db *gorm.DB) *gorm.DB {
		return db.Order("choices.id ASC")
	}).Order("questions.id ASC").Find(&questions).Error
	return questions, err
}

// FindChoicesByQuestionID returns catalog choices in insertion order.
func (r *questionRepository) FindChoicesByQuestionID(questionID uint) ([]model.Choice, error) {
	var choices []model.Choice
	err := r.db.Where("question_id = ?", questionID).Order("id ASC").Find(&choices).Error
	return choices, err
}
