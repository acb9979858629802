package validator

import (
	"encoding/json"
	"fmt"

	"github.com/SAP-F-2025/courseware-service/internal/models"
)

// QuestionValidator handles question-specific validation
type QuestionValidator struct{}

// NewQuestionValidator creates a new question validator
func NewQuestionValidator() *QuestionValidator {
	return &QuestionValidator{}
}

// ValidateContent validates question content based on question type
func (v *QuestionValidator) ValidateContent(questionType models.QuestionType, content interface{}) error {
	if content == nil {
		return fmt.Errorf("content cannot be nil")
	}

	contentBytes, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("failed to marshal content: %w", err)
	}

	switch questionType {
	case models.SingleChoice:
		return v.validateSingleChoiceContent(contentBytes)
	case models.MultipleChoice:
		return v.validateMultipleChoiceContent(contentBytes)
	case models.OpenText:
		return v.validateOpenTextContent(contentBytes)
	case models.Matching:
		return v.validateMatchingContent(contentBytes)
	case models.Ordering:
		return v.validateOrderingContent(contentBytes)
	case models.TextureClick:
		return v.validateTextureClickContent(contentBytes)
	default:
		return fmt.Errorf("unsupported question type: %s", questionType)
	}
}

// ValidateQuestion validates a complete question object
func (v *QuestionValidator) ValidateQuestion(question *models.Question) error {
	if question.Text == "" {
		return fmt.Errorf("question text is required")
	}

	if question.Points < 0 || question.Points > 100 {
		return fmt.Errorf("question points must be between 0 and 100")
	}

	return v.ValidateContent(question.Type, question.Content)
}

// ValidateAnswerKey checks one answer key entry against its question: the
// types must agree and the payload must decode into the kind's key shape
// with indices that exist in the question content.
func (v *QuestionValidator) ValidateAnswerKey(question *models.Question, entry *models.AnswerKeyEntry) error {
	if question.ID != entry.QuestionID {
		return fmt.Errorf("answer key question id %d does not match question %d", entry.QuestionID, question.ID)
	}
	if question.Type != entry.Type {
		return fmt.Errorf("answer key type %q does not match question type %q", entry.Type, question.Type)
	}

	switch entry.Type {
	case models.SingleChoice:
		return v.validateSingleChoiceKey(question, entry.Payload)
	case models.MultipleChoice:
		return v.validateMultipleChoiceKey(question, entry.Payload)
	case models.OpenText:
		return v.validateOpenTextKey(entry.Payload)
	case models.Matching:
		return v.validateMatchingKey(question, entry.Payload)
	case models.Ordering:
		return v.validateOrderingKey(question, entry.Payload)
	case models.TextureClick:
		return v.validateTextureClickKey(entry.Payload)
	default:
		return fmt.Errorf("unsupported question type: %s", entry.Type)
	}
}

// Private validation methods for each question type

func (v *QuestionValidator) validateSingleChoiceContent(contentBytes []byte) error {
	var content models.SingleChoiceContent
	if err := json.Unmarshal(contentBytes, &content); err != nil {
		return fmt.Errorf("invalid single choice content: %w", err)
	}
	return validateOptions(content.Options)
}

func (v *QuestionValidator) validateMultipleChoiceContent(contentBytes []byte) error {
	var content models.MultipleChoiceContent
	if err := json.Unmarshal(contentBytes, &content); err != nil {
		return fmt.Errorf("invalid multiple choice content: %w", err)
	}
	return validateOptions(content.Options)
}

func (v *QuestionValidator) validateOpenTextContent(contentBytes []byte) error {
	var content models.OpenTextContent
	if err := json.Unmarshal(contentBytes, &content); err != nil {
		return fmt.Errorf("invalid open text content: %w", err)
	}

	if content.MaxLength < 1 {
		return fmt.Errorf("max length must be at least 1")
	}
	if content.MaxLength > 500 {
		return fmt.Errorf("max length cannot exceed 500 characters")
	}
	return nil
}

func (v *QuestionValidator) validateMatchingContent(contentBytes []byte) error {
	var content models.MatchingContent
	if err := json.Unmarshal(contentBytes, &content); err != nil {
		return fmt.Errorf("invalid matching content: %w", err)
	}

	if len(content.LeftItems) < 2 {
		return fmt.Errorf("must have at least 2 left items")
	}
	if len(content.RightItems) < 2 {
		return fmt.Errorf("must have at least 2 right items")
	}
	if len(content.LeftItems) > 10 || len(content.RightItems) > 10 {
		return fmt.Errorf("cannot have more than 10 items on each side")
	}

	for i, item := range content.LeftItems {
		if item == "" {
			return fmt.Errorf("left item %d cannot be empty", i+1)
		}
	}
	for i, item := range content.RightItems {
		if item == "" {
			return fmt.Errorf("right item %d cannot be empty", i+1)
		}
	}
	return nil
}

func (v *QuestionValidator) validateOrderingContent(contentBytes []byte) error {
	var content models.OrderingContent
	if err := json.Unmarshal(contentBytes, &content); err != nil {
		return fmt.Errorf("invalid ordering content: %w", err)
	}

	if len(content.Items) < 2 {
		return fmt.Errorf("must have at least 2 items")
	}
	if len(content.Items) > 10 {
		return fmt.Errorf("cannot have more than 10 items")
	}
	for i, item := range content.Items {
		if item == "" {
			return fmt.Errorf("item %d cannot be empty", i+1)
		}
	}
	return nil
}

func (v *QuestionValidator) validateTextureClickContent(contentBytes []byte) error {
	var content models.TextureClickContent
	if err := json.Unmarshal(contentBytes, &content); err != nil {
		return fmt.Errorf("invalid texture click content: %w", err)
	}

	if content.ModelID == "" {
		return fmt.Errorf("model id is required")
	}
	if content.TextureID == "" {
		return fmt.Errorf("texture id is required")
	}
	return nil
}

func validateOptions(options []string) error {
	if len(options) < 2 {
		return fmt.Errorf("must have at least 2 options")
	}
	if len(options) > 10 {
		return fmt.Errorf("cannot have more than 10 options")
	}
	for i, option := range options {
		if option == "" {
			return fmt.Errorf("option %d cannot be empty", i+1)
		}
	}
	return nil
}

// Answer key payload checks

func (v *QuestionValidator) validateSingleChoiceKey(question *models.Question, payload []byte) error {
	var content models.SingleChoiceContent
	if err := json.Unmarshal(question.Content, &content); err != nil {
		return fmt.Errorf("invalid single choice content: %w", err)
	}
	var key models.SingleChoiceKey
	if err := json.Unmarshal(payload, &key); err != nil {
		return fmt.Errorf("invalid single choice answer key: %w", err)
	}

	if key.CorrectIndex < 0 || key.CorrectIndex >= len(content.Options) {
		return fmt.Errorf("correct index %d does not match any option", key.CorrectIndex)
	}
	return nil
}

func (v *QuestionValidator) validateMultipleChoiceKey(question *models.Question, payload []byte) error {
	var content models.MultipleChoiceContent
	if err := json.Unmarshal(question.Content, &content); err != nil {
		return fmt.Errorf("invalid multiple choice content: %w", err)
	}
	var key models.MultipleChoiceKey
	if err := json.Unmarshal(payload, &key); err != nil {
		return fmt.Errorf("invalid multiple choice answer key: %w", err)
	}

	if len(key.CorrectIndices) == 0 {
		return fmt.Errorf("must have at least 1 correct index")
	}
	seen := make(map[int]bool, len(key.CorrectIndices))
	for _, idx := range key.CorrectIndices {
		if idx < 0 || idx >= len(content.Options) {
			return fmt.Errorf("correct index %d does not match any option", idx)
		}
		if seen[idx] {
			return fmt.Errorf("correct index %d is duplicated", idx)
		}
		seen[idx] = true
	}
	return nil
}

func (v *QuestionValidator) validateOpenTextKey(payload []byte) error {
	var key models.OpenTextKey
	if err := json.Unmarshal(payload, &key); err != nil {
		return fmt.Errorf("invalid open text answer key: %w", err)
	}

	if len(key.AcceptedAnswers) == 0 {
		return fmt.Errorf("must have at least 1 accepted answer")
	}
	for i, answer := range key.AcceptedAnswers {
		if answer == "" {
			return fmt.Errorf("accepted answer %d cannot be empty", i+1)
		}
	}
	return nil
}

func (v *QuestionValidator) validateMatchingKey(question *models.Question, payload []byte) error {
	var content models.MatchingContent
	if err := json.Unmarshal(question.Content, &content); err != nil {
		return fmt.Errorf("invalid matching content: %w", err)
	}
	var key models.MatchingKey
	if err := json.Unmarshal(payload, &key); err != nil {
		return fmt.Errorf("invalid matching answer key: %w", err)
	}

	if len(key.Pairs) == 0 {
		return fmt.Errorf("must have at least 1 pair")
	}
	for left, right := range key.Pairs {
		if left < 0 || left >= len(content.LeftItems) {
			return fmt.Errorf("pair references non-existent left item %d", left)
		}
		if right < 0 || right >= len(content.RightItems) {
			return fmt.Errorf("pair references non-existent right item %d", right)
		}
	}
	return nil
}

func (v *QuestionValidator) validateOrderingKey(question *models.Question, payload []byte) error {
	var content models.OrderingContent
	if err := json.Unmarshal(question.Content, &content); err != nil {
		return fmt.Errorf("invalid ordering content: %w", err)
	}
	var key models.OrderingKey
	if err := json.Unmarshal(payload, &key); err != nil {
		return fmt.Errorf("invalid ordering answer key: %w", err)
	}

	if len(key.CorrectOrder) != len(content.Items) {
		return fmt.Errorf("correct order must include all items exactly once")
	}
	seen := make(map[int]bool, len(key.CorrectOrder))
	for _, idx := range key.CorrectOrder {
		if idx < 0 || idx >= len(content.Items) {
			return fmt.Errorf("correct order references non-existent item %d", idx)
		}
		if seen[idx] {
			return fmt.Errorf("correct order contains duplicate item %d", idx)
		}
		seen[idx] = true
	}
	return nil
}

func (v *QuestionValidator) validateTextureClickKey(payload []byte) error {
	var key models.TextureClickKey
	if err := json.Unmarshal(payload, &key); err != nil {
		return fmt.Errorf("invalid texture click answer key: %w", err)
	}

	if key.ModelID == "" || key.TextureID == "" {
		return fmt.Errorf("model id and texture id are required")
	}
	if !hexColorPattern.MatchString(key.HexColor) {
		return fmt.Errorf("expected hex color %q is not a valid color", key.HexColor)
	}
	return nil
}
