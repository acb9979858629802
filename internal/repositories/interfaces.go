package repositories

import (
	"context"
	"errors"

	"github.com/SAP-F-2025/courseware-service/internal/models"
	"gorm.io/gorm"
)

// CoursewareRepository supplies the read-only model/texture records the
// interaction core consumes. Authoring CRUD lives in the courseware API and
// is out of scope here.
type CoursewareRepository interface {
	// GetModelSet returns the models attached to one chapter, keyed the way
	// the chapter references them ("main" for the primary model, free-form
	// keys for the rest). Textures are loaded in storage order.
	GetModelSet(ctx context.Context, chapterID uint) (map[string]*models.CourseModel, error)

	GetModel(ctx context.Context, modelID string) (*models.CourseModel, error)
}

// QuizRepository supplies questions and answer keys for grading.
type QuizRepository interface {
	GetQuestions(ctx context.Context, quizID uint) ([]models.Question, error)
	GetAnswerKey(ctx context.Context, quizID uint) ([]models.AnswerKeyEntry, error)
}

// Repository aggregates all repositories behind one handle.
type Repository interface {
	Courseware() CoursewareRepository
	Quiz() QuizRepository
}

// IsNotFoundError reports whether err means the requested record is absent.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
