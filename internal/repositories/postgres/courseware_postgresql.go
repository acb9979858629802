package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/courseware-service/internal/models"
	"github.com/SAP-F-2025/courseware-service/internal/repositories"
	"gorm.io/gorm"
)

type CoursewarePostgreSQL struct {
	db *gorm.DB
}

func NewCoursewarePostgreSQL(db *gorm.DB) repositories.CoursewareRepository {
	return &CoursewarePostgreSQL{db: db}
}

// chapterModelRef links a chapter to one of its models under a reference
// key. The same physical model may be attached under several keys; the
// area-map build collapses those.
type chapterModelRef struct {
	ChapterID uint   `gorm:"column:chapter_id"`
	RefKey    string `gorm:"column:ref_key"`
	ModelID   string `gorm:"column:model_id"`
}

func (chapterModelRef) TableName() string {
	return "chapter_model_refs"
}

func (r *CoursewarePostgreSQL) GetModelSet(ctx context.Context, chapterID uint) (map[string]*models.CourseModel, error) {
	var refs []chapterModelRef
	if err := r.db.WithContext(ctx).
		Where("chapter_id = ?", chapterID).
		Order("ref_key").
		Find(&refs).Error; err != nil {
		return nil, fmt.Errorf("failed to load chapter model refs: %w", err)
	}

	modelSet := make(map[string]*models.CourseModel, len(refs))
	for _, ref := range refs {
		model, err := r.GetModel(ctx, ref.ModelID)
		if err != nil {
			return nil, err
		}
		modelSet[ref.RefKey] = model
	}
	return modelSet, nil
}

func (r *CoursewarePostgreSQL) GetModel(ctx context.Context, modelID string) (*models.CourseModel, error) {
	var model models.CourseModel
	if err := r.db.WithContext(ctx).
		Preload("Textures", func(db *gorm.DB) *gorm.DB {
			return db.Order("textures.created_at")
		}).
		First(&model, "id = ?", modelID).Error; err != nil {
		return nil, err
	}
	return &model, nil
}
