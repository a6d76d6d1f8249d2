package exam

import "math"

// QuestionResult is one question's scored outcome, emitted in test order
// for every question regardless of whether it was answered.
type QuestionResult struct {
	QuestionID   string `json:"questionId"`
	Correct      bool   `json:"correct"`
	Points       int    `json:"points"`
	EarnedPoints int    `json:"earnedPoints"`
}

// Result is the immutable outcome of one attempt.
type Result struct {
	TestID          uint             `json:"testId"`
	Completed       bool             `json:"completed"`
	Score           int              `json:"score"`
	TotalPoints     int              `json:"totalPoints"`
	EarnedPoints    int              `json:"earnedPoints"`
	Passed          bool             `json:"passed"`
	QuestionResults []QuestionResult `json:"questionResults"`
}

// Score grades submitted answers against a test definition. It is pure:
// no state is touched, so concurrent attempts may score in parallel.
//
// Correctness rules: mcq/code-mcq require an exact index match;
// multi-select requires set equality (all correct options selected and
// nothing else) with no partial credit. A missing or wrong-shaped answer
// counts as unanswered and scores zero, never an error. The percentage is
// rounded half away from zero (math.Round), which for the nonnegative
// domain is round-half-up; a zero-point test scores 0 by definition.
func Score(t *Test, answers map[string]Answer) (*Result, error) {
	if t == nil || len(t.Questions) == 0 {
		return nil, ErrNoQuestions
	}

	totalPoints := t.TotalPoints()
	earnedTotal := 0
	results := make([]QuestionResult, 0, len(t.Questions))

	for _, q := range t.Questions {
		correct := false
		if a, ok := answers[q.ID()]; ok && a != nil && ShapeMatches(q, a) {
			correct = isCorrect(q, a)
		}
		earned := 0
		if correct {
			earned = q.Points()
		}
		earnedTotal += earned
		results = append(results, QuestionResult{
			QuestionID:   q.ID(),
			Correct:      correct,
			Points:       q.Points(),
			EarnedPoints: earned,
		})
	}

	score := 0
	if totalPoints > 0 {
		score = int(math.Round(100 * float64(earnedTotal) / float64(totalPoints)))
	}

	return &Result{
		TestID:          t.ID,
		Completed:       true,
		Score:           score,
		TotalPoints:     totalPoints,
		EarnedPoints:    earnedTotal,
		Passed:          totalPoints > 0 && score >= t.PassingScore,
		QuestionResults: results,
	}, nil
}

func isCorrect(q Question, a Answer) bool {
	switch question := q.(type) {
	case MCQQuestion:
		ans := a.(SingleChoiceAnswer)
		return ans.Answered() && ans.Selected == question.CorrectOption
	case CodeMCQQuestion:
		ans := a.(SingleChoiceAnswer)
		return ans.Answered() && ans.Selected == question.CorrectOption
	case MultiSelectQuestion:
		ans := a.(MultiChoiceAnswer)
		return setEqual(ans.Selected, question.CorrectOptions)
	}
	return false
}

// setEqual compares two index slices as sets, tolerating duplicates and
// any ordering on either side.
func setEqual(a, b []int) bool {
	as := make(map[int]bool, len(a))
	for _, v := range a {
		as[v] = true
	}
	bs := make(map[int]bool, len(b))
	for _, v := range b {
		bs[v] = true
	}
	if len(as) != len(bs) {
		return false
	}
	for v := range as {
		if !bs[v] {
			return false
		}
	}
	return true
}
