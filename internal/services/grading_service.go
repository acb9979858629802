package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SAP-F-2025/courseware-service/internal/cache"
	"github.com/SAP-F-2025/courseware-service/internal/events"
	"github.com/SAP-F-2025/courseware-service/internal/models"
	"github.com/SAP-F-2025/courseware-service/internal/repositories"
	qvalidator "github.com/SAP-F-2025/courseware-service/internal/validator"
)

const answerKeyCacheTTL = 10 * time.Minute

// GradingService scores quiz submissions against their answer keys.
type GradingService interface {
	// Grade scores one submission. Pure apart from logging: no shared state,
	// safe to call concurrently for different submissions.
	Grade(submission models.Submission, key []models.AnswerKeyEntry, questions []models.Question) (*models.GradingResult, error)

	// GradeQuiz loads the quiz's questions and answer key, scores the
	// submission and publishes a graded event.
	GradeQuiz(ctx context.Context, quizID uint, studentID string, submission models.Submission) (*models.GradingResult, error)

	// GradeQuizWithQuestions behaves like GradeQuiz but also returns the
	// questions, for callers rendering a report.
	GradeQuizWithQuestions(ctx context.Context, quizID uint, studentID string, submission models.Submission) (*models.GradingResult, []models.Question, error)

	// ValidateQuizConfiguration checks a quiz's questions and answer key for
	// the problems Grade would later fail on, so authors catch them before
	// any learner submits.
	ValidateQuizConfiguration(ctx context.Context, quizID uint) error
}

type gradingService struct {
	repo      repositories.QuizRepository
	cache     cache.CacheService
	publisher events.EventPublisher
	validate  *qvalidator.Validator
	logger    *slog.Logger
}

func NewGradingService(repo repositories.QuizRepository, cacheService cache.CacheService, publisher events.EventPublisher, logger *slog.Logger) GradingService {
	return &gradingService{
		repo:      repo,
		cache:     cacheService,
		publisher: publisher,
		validate:  qvalidator.New(),
		logger:    logger,
	}
}

// Grade walks the answer key entry by entry. An entry whose type disagrees
// with its question fails the whole call; an unanswered question just scores
// zero. totalPossible accumulates every entry's points either way.
func (s *gradingService) Grade(submission models.Submission, key []models.AnswerKeyEntry, questions []models.Question) (*models.GradingResult, error) {
	questionsByID := make(map[uint]*models.Question, len(questions))
	for i := range questions {
		questionsByID[questions[i].ID] = &questions[i]
	}

	result := &models.GradingResult{
		PerQuestion: make(map[uint]models.QuestionResult, len(key)),
	}

	for _, entry := range key {
		question, ok := questionsByID[entry.QuestionID]
		if !ok {
			return nil, NewConfigurationError(entry.QuestionID, "answer key references unknown question", ErrAnswerKeyOrphaned)
		}
		if question.Type != entry.Type {
			return nil, NewConfigurationError(entry.QuestionID,
				fmt.Sprintf("answer key type %q does not match question type %q", entry.Type, question.Type),
				ErrAnswerKeyTypeMismatch)
		}

		result.TotalPossible += entry.Points

		raw, answered := submission[entry.QuestionID]
		if !answered {
			result.PerQuestion[entry.QuestionID] = models.QuestionResult{QuestionID: entry.QuestionID}
			continue
		}

		correct, err := scoreAnswer(entry, raw)
		if err != nil {
			return nil, err
		}

		qr := models.QuestionResult{QuestionID: entry.QuestionID, Correct: correct}
		if correct {
			qr.PointsAwarded = entry.Points
			result.TotalScore += entry.Points
		}
		result.PerQuestion[entry.QuestionID] = qr
	}

	return result, nil
}

func (s *gradingService) GradeQuiz(ctx context.Context, quizID uint, studentID string, submission models.Submission) (*models.GradingResult, error) {
	result, _, err := s.GradeQuizWithQuestions(ctx, quizID, studentID, submission)
	return result, err
}

func (s *gradingService) GradeQuizWithQuestions(ctx context.Context, quizID uint, studentID string, submission models.Submission) (*models.GradingResult, []models.Question, error) {
	questions, err := s.repo.GetQuestions(ctx, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, nil, ErrQuizNotFound
		}
		return nil, nil, fmt.Errorf("failed to load quiz questions: %w", err)
	}

	key, err := s.loadAnswerKey(ctx, quizID)
	if err != nil {
		return nil, nil, err
	}

	result, err := s.Grade(submission, key, questions)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("submission graded",
		"quiz_id", quizID,
		"student_id", studentID,
		"score", result.TotalScore,
		"possible", result.TotalPossible)

	if s.publisher != nil {
		event := events.NewSubmissionGradedEvent(quizID, studentID, result.TotalScore, result.TotalPossible)
		if err := s.publisher.PublishGradingEvent(ctx, event); err != nil {
			// Grading succeeded; event delivery is best effort.
			s.logger.Error("failed to publish graded event", "quiz_id", quizID, "error", err)
		}
	}

	return result, questions, nil
}

func (s *gradingService) ValidateQuizConfiguration(ctx context.Context, quizID uint) error {
	questions, err := s.repo.GetQuestions(ctx, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrQuizNotFound
		}
		return fmt.Errorf("failed to load quiz questions: %w", err)
	}

	// Authoring check reads around the cache: it must see the key as stored.
	key, err := s.repo.GetAnswerKey(ctx, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrQuizNotFound
		}
		return fmt.Errorf("failed to load answer key: %w", err)
	}

	entriesByQuestion := make(map[uint]*models.AnswerKeyEntry, len(key))
	for i := range key {
		entriesByQuestion[key[i].QuestionID] = &key[i]
	}

	var issues ValidationErrors
	for i := range questions {
		question := &questions[i]
		field := fmt.Sprintf("questions[%d]", question.ID)

		if err := s.validate.ValidateStruct(question); err != nil {
			issues = append(issues, qvalidator.ToValidationErrors(err)...)
		}
		if err := s.validate.Question().ValidateQuestion(question); err != nil {
			issues = append(issues, *NewValidationError(field, err.Error(), nil))
		}

		entry, ok := entriesByQuestion[question.ID]
		if !ok {
			issues = append(issues, *NewValidationError(field, "has no answer key entry", nil))
			continue
		}
		if err := s.validate.Question().ValidateAnswerKey(question, entry); err != nil {
			issues = append(issues, *NewValidationError(field, err.Error(), nil))
		}
	}

	questionIDs := make(map[uint]bool, len(questions))
	for i := range questions {
		questionIDs[questions[i].ID] = true
	}
	for i := range key {
		if !questionIDs[key[i].QuestionID] {
			issues = append(issues, *NewValidationError(
				fmt.Sprintf("answer_key[%d]", key[i].QuestionID),
				"references a question the quiz does not contain", nil))
		}
	}

	if len(issues) > 0 {
		return issues
	}
	return nil
}

// loadAnswerKey fetches the answer key through the cache. Keys change only
// on authoring, so a short TTL is enough to keep repeat grading cheap.
func (s *gradingService) loadAnswerKey(ctx context.Context, quizID uint) ([]models.AnswerKeyEntry, error) {
	cacheKey := fmt.Sprintf("answer_key:%d", quizID)

	var key []models.AnswerKeyEntry
	if s.cache != nil {
		if err := s.cache.Get(ctx, cacheKey, &key); err == nil && len(key) > 0 {
			return key, nil
		}
	}

	key, err := s.repo.GetAnswerKey(ctx, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to load answer key: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, key, answerKeyCacheTTL); err != nil {
			s.logger.Warn("failed to cache answer key", "quiz_id", quizID, "error", err)
		}
	}
	return key, nil
}

// ===== KIND-SPECIFIC SCORING =====

// scoreAnswer applies the all-or-nothing rule for one kind. A submitted
// value that does not decode into the kind's shape counts as incorrect,
// never as an error: submissions are learner input, not configuration.
func scoreAnswer(entry models.AnswerKeyEntry, raw json.RawMessage) (bool, error) {
	switch entry.Type {
	case models.SingleChoice:
		return scoreSingleChoice(entry, raw)
	case models.MultipleChoice:
		return scoreMultipleChoice(entry, raw)
	case models.OpenText:
		return scoreOpenText(entry, raw)
	case models.Matching:
		return scoreMatching(entry, raw)
	case models.Ordering:
		return scoreOrdering(entry, raw)
	case models.TextureClick:
		return scoreTextureClick(entry, raw)
	default:
		return false, NewConfigurationError(entry.QuestionID,
			fmt.Sprintf("unsupported question type %q", entry.Type), ErrUnsupportedKind)
	}
}

func scoreSingleChoice(entry models.AnswerKeyEntry, raw json.RawMessage) (bool, error) {
	var key models.SingleChoiceKey
	if err := json.Unmarshal(entry.Payload, &key); err != nil {
		return false, NewConfigurationError(entry.QuestionID, "invalid single choice answer key", err)
	}

	var submitted int
	if err := json.Unmarshal(raw, &submitted); err != nil {
		return false, nil
	}
	return submitted == key.CorrectIndex, nil
}

func scoreMultipleChoice(entry models.AnswerKeyEntry, raw json.RawMessage) (bool, error) {
	var key models.MultipleChoiceKey
	if err := json.Unmarshal(entry.Payload, &key); err != nil {
		return false, NewConfigurationError(entry.QuestionID, "invalid multiple choice answer key", err)
	}

	var submitted []int
	if err := json.Unmarshal(raw, &submitted); err != nil {
		return false, nil
	}

	// Exact set equality: order irrelevant, no credit for subsets or
	// supersets.
	if len(submitted) != len(key.CorrectIndices) {
		return false, nil
	}
	correct := make(map[int]bool, len(key.CorrectIndices))
	for _, idx := range key.CorrectIndices {
		correct[idx] = true
	}
	seen := make(map[int]bool, len(submitted))
	for _, idx := range submitted {
		if !correct[idx] || seen[idx] {
			return false, nil
		}
		seen[idx] = true
	}
	return len(seen) == len(correct), nil
}

func scoreOpenText(entry models.AnswerKeyEntry, raw json.RawMessage) (bool, error) {
	var key models.OpenTextKey
	if err := json.Unmarshal(entry.Payload, &key); err != nil {
		return false, NewConfigurationError(entry.QuestionID, "invalid open text answer key", err)
	}

	var submitted string
	if err := json.Unmarshal(raw, &submitted); err != nil {
		return false, nil
	}

	for _, accepted := range key.AcceptedAnswers {
		if key.ExactMatch {
			if submitted == accepted {
				return true, nil
			}
			continue
		}
		if strings.EqualFold(strings.TrimSpace(submitted), strings.TrimSpace(accepted)) {
			return true, nil
		}
	}
	return false, nil
}

func scoreMatching(entry models.AnswerKeyEntry, raw json.RawMessage) (bool, error) {
	var key models.MatchingKey
	if err := json.Unmarshal(entry.Payload, &key); err != nil {
		return false, NewConfigurationError(entry.QuestionID, "invalid matching answer key", err)
	}

	var submitted map[int]int
	if err := json.Unmarshal(raw, &submitted); err != nil {
		return false, nil
	}

	if len(submitted) != len(key.Pairs) {
		return false, nil
	}
	for left, right := range key.Pairs {
		got, ok := submitted[left]
		if !ok || got != right {
			return false, nil
		}
	}
	return true, nil
}

func scoreOrdering(entry models.AnswerKeyEntry, raw json.RawMessage) (bool, error) {
	var key models.OrderingKey
	if err := json.Unmarshal(entry.Payload, &key); err != nil {
		return false, NewConfigurationError(entry.QuestionID, "invalid ordering answer key", err)
	}

	var submitted []int
	if err := json.Unmarshal(raw, &submitted); err != nil {
		return false, nil
	}

	if len(submitted) != len(key.CorrectOrder) {
		return false, nil
	}
	for i, idx := range key.CorrectOrder {
		if submitted[i] != idx {
			return false, nil
		}
	}
	return true, nil
}

func scoreTextureClick(entry models.AnswerKeyEntry, raw json.RawMessage) (bool, error) {
	var key models.TextureClickKey
	if err := json.Unmarshal(entry.Payload, &key); err != nil {
		return false, NewConfigurationError(entry.QuestionID, "invalid texture click answer key", err)
	}

	var submitted string
	if err := json.Unmarshal(raw, &submitted); err != nil {
		return false, nil
	}
	return NormalizeHexColor(submitted) == NormalizeHexColor(key.HexColor), nil
}

// NormalizeHexColor strips a leading '#' and upper-cases the rest, so
// "#1a2b3c" and "1A2B3C" compare equal.
func NormalizeHexColor(color string) string {
	return strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(color), "#"))
}
