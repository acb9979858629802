package models

// QuestionResult is the graded outcome for one question.
type QuestionResult struct {
	QuestionID    uint `json:"question_id"`
	Correct       bool `json:"correct"`
	PointsAwarded int  `json:"points_awarded"`
}

// GradingResult carries the per-question outcomes plus the score totals for
// one submission. Built fresh per grading call and never mutated afterwards.
type GradingResult struct {
	PerQuestion   map[uint]QuestionResult `json:"per_question"`
	TotalScore    int                     `json:"total_score"`
	TotalPossible int                     `json:"total_possible"`
}

// Passed reports whether the result clears the given percentage threshold.
func (r *GradingResult) Passed(passingPercent int) bool {
	if r.TotalPossible == 0 {
		return false
	}
	return r.TotalScore*100 >= r.TotalPossible*passingPercent
}
