package models

import (
	"time"

	"gorm.io/datatypes"
)

type QuestionType string

const (
	SingleChoice   QuestionType = "single_choice"
	MultipleChoice QuestionType = "multiple_choice"
	OpenText       QuestionType = "open_text"
	Matching       QuestionType = "matching"
	Ordering       QuestionType = "ordering"
	TextureClick   QuestionType = "texture_click"
)

// QuestionTypes lists every supported kind. The set is closed: adding a kind
// means extending this list, the content/key schemas and the grading switch
// together.
var QuestionTypes = []QuestionType{
	SingleChoice,
	MultipleChoice,
	OpenText,
	Matching,
	Ordering,
	TextureClick,
}

func (t QuestionType) Valid() bool {
	for _, qt := range QuestionTypes {
		if t == qt {
			return true
		}
	}
	return false
}

type Question struct {
	ID     uint         `json:"id" gorm:"primaryKey"`
	QuizID uint         `json:"quiz_id" gorm:"not null;index"`
	Type   QuestionType `json:"type" gorm:"not null;index" validate:"required,question_type"`
	Text   string       `json:"text" gorm:"type:text;not null" validate:"required"`
	Points int          `json:"points" gorm:"default:10" validate:"min=0,max=100"`
	Order  int          `json:"order" gorm:"default:0"`

	// Type-specific payload stored as JSONB for flexibility
	Content datatypes.JSON `json:"content" gorm:"type:jsonb"`

	CreatedBy string    `json:"created_by" gorm:"index;size:255"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Question) TableName() string {
	return "questions"
}

// ===== QUESTION CONTENT SCHEMAS =====

type SingleChoiceContent struct {
	Options          []string `json:"options" validate:"min=2,max=10"`
	RandomizeOptions bool     `json:"randomize_options"`
}

type MultipleChoiceContent struct {
	Options          []string `json:"options" validate:"min=2,max=10"`
	RandomizeOptions bool     `json:"randomize_options"`
}

type OpenTextContent struct {
	PlaceholderText *string `json:"placeholder_text"`
	MaxLength       int     `json:"max_length" validate:"min=1,max=500"`
}

type MatchingContent struct {
	LeftItems  []string `json:"left_items" validate:"min=2,max=10"`
	RightItems []string `json:"right_items" validate:"min=2,max=10"`
}

type OrderingContent struct {
	Items         []string `json:"items" validate:"min=2,max=10"`
	RandomizeInit bool     `json:"randomize_initial"`
}

type TextureClickContent struct {
	ModelID   string  `json:"model_id" validate:"required"`
	TextureID string  `json:"texture_id" validate:"required"`
	Prompt    *string `json:"prompt"`
}
