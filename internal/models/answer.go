package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// AnswerKeyEntry is the authoritative correct answer for one question. Type
// must match the question's type; grading treats a mismatch as a fatal
// configuration error.
type AnswerKeyEntry struct {
	ID         uint         `json:"id" gorm:"primaryKey"`
	QuizID     uint         `json:"quiz_id" gorm:"not null;index"`
	QuestionID uint         `json:"question_id" gorm:"not null;uniqueIndex"`
	Type       QuestionType `json:"type" gorm:"not null" validate:"required,question_type"`
	Points     int          `json:"points" gorm:"default:10" validate:"min=0,max=100"`

	// Kind-specific correct-answer payload, see the *Key schemas below
	Payload datatypes.JSON `json:"payload" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (AnswerKeyEntry) TableName() string {
	return "answer_key_entries"
}

// ===== ANSWER KEY PAYLOAD SCHEMAS =====

type SingleChoiceKey struct {
	CorrectIndex int `json:"correct_index" validate:"min=0"`
}

type MultipleChoiceKey struct {
	CorrectIndices []int `json:"correct_indices" validate:"min=1"`
}

type OpenTextKey struct {
	AcceptedAnswers []string `json:"accepted_answers" validate:"min=1"`
	ExactMatch      bool     `json:"exact_match"`
}

type MatchingKey struct {
	// left item index -> right item index
	Pairs map[int]int `json:"pairs" validate:"min=1"`
}

type OrderingKey struct {
	CorrectOrder []int `json:"correct_order" validate:"min=2"`
}

type TextureClickKey struct {
	ModelID   string `json:"model_id" validate:"required"`
	TextureID string `json:"texture_id" validate:"required"`
	HexColor  string `json:"hex_color" validate:"required"`
}

// ===== SUBMISSION =====

// Submission maps question IDs to raw submitted values. The decoded shape
// depends on the question type: int index, []int index set, string text,
// map[int]int pairs, []int sequence, or a hex color string.
type Submission map[uint]json.RawMessage
