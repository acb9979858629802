package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the grading events emitted by the interaction core
type EventType string

const (
	EventSubmissionGraded EventType = "submission.graded"
	EventQuizPassed       EventType = "quiz.passed"
)

// GradingEvent is the base envelope for all grading events
type GradingEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// SubmissionGradedEvent is emitted after every grading call
type SubmissionGradedEvent struct {
	QuizID        uint      `json:"quiz_id"`
	StudentID     string    `json:"student_id"`
	TotalScore    int       `json:"total_score"`
	TotalPossible int       `json:"total_possible"`
	GradedAt      time.Time `json:"graded_at"`
}

func NewSubmissionGradedEvent(quizID uint, studentID string, totalScore, totalPossible int) *GradingEvent {
	return &GradingEvent{
		ID:        uuid.New().String(),
		Type:      EventSubmissionGraded,
		Timestamp: time.Now(),
		Source:    "courseware-service",
		Version:   "1.0",
		Data: SubmissionGradedEvent{
			QuizID:        quizID,
			StudentID:     studentID,
			TotalScore:    totalScore,
			TotalPossible: totalPossible,
			GradedAt:      time.Now(),
		},
	}
}
