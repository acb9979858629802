package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/courseware-service/internal/models"
	"github.com/SAP-F-2025/courseware-service/internal/repositories"
	"gorm.io/gorm"
)

type QuizPostgreSQL struct {
	db *gorm.DB
}

func NewQuizPostgreSQL(db *gorm.DB) repositories.QuizRepository {
	return &QuizPostgreSQL{db: db}
}

func (r *QuizPostgreSQL) GetQuestions(ctx context.Context, quizID uint) ([]models.Question, error) {
	var questions []models.Question
	if err := r.db.WithContext(ctx).
		Where("quiz_id = ?", quizID).
		Order(`"order", id`).
		Find(&questions).Error; err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return questions, nil
}

func (r *QuizPostgreSQL) GetAnswerKey(ctx context.Context, quizID uint) ([]models.AnswerKeyEntry, error) {
	var entries []models.AnswerKeyEntry
	if err := r.db.WithContext(ctx).
		Where("quiz_id = ?", quizID).
		Order("question_id").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to load answer key: %w", err)
	}
	if len(entries) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return entries, nil
}

// repositoryManager implements repositories.Repository over one gorm handle.
type repositoryManager struct {
	courseware repositories.CoursewareRepository
	quiz       repositories.QuizRepository
}

func NewRepositoryManager(db *gorm.DB) repositories.Repository {
	return &repositoryManager{
		courseware: NewCoursewarePostgreSQL(db),
		quiz:       NewQuizPostgreSQL(db),
	}
}

func (m *repositoryManager) Courseware() repositories.CoursewareRepository { return m.courseware }
func (m *repositoryManager) Quiz() repositories.QuizRepository             { return m.quiz }
