package exam

import (
	"errors"
	"testing"
)

func sampleTest() *Test {
	return &Test{
		ID:               7,
		Title:            "Go Fundamentals",
		Language:         "go",
		Difficulty:       "intermediate",
		TimeLimitMinutes: 30,
		PassingScore:     63,
		Questions: []Question{
			MCQQuestion{
				QuestionID: "q1", Text: "Which keyword declares a constant?", PointValue: 10,
				Options: []string{"var", "const", "let", "def"}, CorrectOption: 1,
			},
			CodeMCQQuestion{
				MCQQuestion: MCQQuestion{
					QuestionID: "q2", Text: "What does this print?", PointValue: 15,
					Options: []string{"0", "1", "panics", "does not compile"}, CorrectOption: 3,
				},
				Code: "func main() { x := }", Language: "go",
			},
			MultiSelectQuestion{
				QuestionID: "q3", Text: "Which types are comparable?", PointValue: 15,
				Options: []string{"string", "map[int]int", "int", "[]byte"}, CorrectOptions: []int{0, 2},
			},
		},
	}
}

func TestScore_MultiSelectSetEquality(t *testing.T) {
	test := sampleTest()
	cases := []struct {
		name     string
		selected []int
		correct  bool
	}{
		{"exact match", []int{0, 2}, true},
		{"order irrelevant", []int{2, 0}, true},
		{"missing one", []int{0}, false},
		{"extra one", []int{0, 2, 1}, false},
		{"empty", nil, false},
		{"disjoint", []int{1, 3}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			answers := map[string]Answer{
				"q3": MultiChoiceAnswer{Selected: tc.selected},
			}
			result, err := Score(test, answers)
			if err != nil {
				t.Fatalf("Score: %v", err)
			}
			got := result.QuestionResults[2]
			if got.Correct != tc.correct {
				t.Errorf("correct = %v, want %v", got.Correct, tc.correct)
			}
			wantEarned := 0
			if tc.correct {
				wantEarned = 15
			}
			if got.EarnedPoints != wantEarned {
				t.Errorf("earnedPoints = %d, want %d", got.EarnedPoints, wantEarned)
			}
		})
	}
}

func TestScore_MCQExactMatch(t *testing.T) {
	test := sampleTest()
	cases := []struct {
		name     string
		selected int
		correct  bool
	}{
		{"correct index", 1, true},
		{"wrong index", 0, false},
		{"another wrong index", 3, false},
		{"unset", -1, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			answers := map[string]Answer{
				"q1": SingleChoiceAnswer{Selected: tc.selected},
			}
			result, err := Score(test, answers)
			if err != nil {
				t.Fatalf("Score: %v", err)
			}
			if got := result.QuestionResults[0].Correct; got != tc.correct {
				t.Errorf("correct = %v, want %v", got, tc.correct)
			}
		})
	}
}

func TestScore_MissingAnswersMarkedIncorrect(t *testing.T) {
	test := sampleTest()
	result, err := Score(test, map[string]Answer{
		"q1": SingleChoiceAnswer{Selected: 1},
	})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if len(result.QuestionResults) != 3 {
		t.Fatalf("questionResults length = %d, want one entry per question", len(result.QuestionResults))
	}
	for _, qr := range result.QuestionResults[1:] {
		if qr.Correct || qr.EarnedPoints != 0 {
			t.Errorf("unanswered %s: correct=%v earned=%d, want incorrect with 0", qr.QuestionID, qr.Correct, qr.EarnedPoints)
		}
	}
	if result.QuestionResults[0].QuestionID != "q1" || result.QuestionResults[1].QuestionID != "q2" {
		t.Errorf("questionResults not in test order: %+v", result.QuestionResults)
	}
}

func TestScore_WrongShapeTreatedAsUnanswered(t *testing.T) {
	test := sampleTest()
	result, err := Score(test, map[string]Answer{
		"q1": MultiChoiceAnswer{Selected: []int{1}}, // multi answer on an mcq
		"q3": SingleChoiceAnswer{Selected: 0},       // single answer on multi-select
	})
	if err != nil {
		t.Fatalf("Score must not fail on mismatched shapes: %v", err)
	}
	for _, qr := range result.QuestionResults {
		if qr.Correct {
			t.Errorf("%s scored correct from a mismatched answer shape", qr.QuestionID)
		}
	}
}

func TestScore_DeterministicRounding(t *testing.T) {
	// 10 + 15 = 25 of 40 points -> round(62.5) = 63.
	test := sampleTest()
	answers := map[string]Answer{
		"q1": SingleChoiceAnswer{Selected: 1},
		"q2": SingleChoiceAnswer{Selected: 3},
		"q3": MultiChoiceAnswer{Selected: []int{1}},
	}
	result, err := Score(test, answers)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if result.EarnedPoints != 25 {
		t.Errorf("earnedPoints = %d, want 25", result.EarnedPoints)
	}
	if result.TotalPoints != 40 {
		t.Errorf("totalPoints = %d, want 40", result.TotalPoints)
	}
	if result.Score != 63 {
		t.Errorf("score = %d, want 63", result.Score)
	}
}

func TestScore_PassFailBoundary(t *testing.T) {
	answers := map[string]Answer{
		"q1": SingleChoiceAnswer{Selected: 1},
		"q2": SingleChoiceAnswer{Selected: 3},
	}

	test := sampleTest()
	test.PassingScore = 63
	result, err := Score(test, answers)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if !result.Passed {
		t.Errorf("score %d with passingScore 63: passed = false, want true", result.Score)
	}

	test.PassingScore = 64
	result, err = Score(test, answers)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if result.Passed {
		t.Errorf("score %d with passingScore 64: passed = true, want false", result.Score)
	}
}

func TestScore_EmptyTestRejected(t *testing.T) {
	if _, err := Score(nil, nil); !errors.Is(err, ErrNoQuestions) {
		t.Errorf("nil test: err = %v, want ErrNoQuestions", err)
	}
	if _, err := Score(&Test{ID: 1}, nil); !errors.Is(err, ErrNoQuestions) {
		t.Errorf("empty questions: err = %v, want ErrNoQuestions", err)
	}
}

func TestScore_ZeroTotalPointsDegenerate(t *testing.T) {
	test := sampleTest()
	// Points are validated at creation, but the scorer itself must stay
	// well-defined if a zero-point test slips through.
	qs := make([]Question, 0, len(test.Questions))
	for _, q := range test.Questions {
		switch v := q.(type) {
		case MCQQuestion:
			v.PointValue = 0
			qs = append(qs, v)
		case CodeMCQQuestion:
			v.PointValue = 0
			qs = append(qs, v)
		case MultiSelectQuestion:
			v.PointValue = 0
			qs = append(qs, v)
		}
	}
	test.Questions = qs
	test.PassingScore = 0

	result, err := Score(test, map[string]Answer{"q1": SingleChoiceAnswer{Selected: 1}})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if result.Score != 0 || result.Passed {
		t.Errorf("zero-point test: score=%d passed=%v, want 0/false", result.Score, result.Passed)
	}
}

func TestDecodeAnswers_ShapeMismatchDropped(t *testing.T) {
	test := sampleTest()
	one := 1
	raw := map[string]RawAnswer{
		"q1":    {QuestionID: "q1", SelectedOption: &one},
		"q3":    {QuestionID: "q3", SelectedOption: &one}, // single shape on multi-select
		"ghost": {QuestionID: "ghost", SelectedOption: &one},
		"q2":    {QuestionID: "q2", SelectedOptions: []int{3}}, // multi shape on code-mcq
	}
	decoded := DecodeAnswers(test, raw)
	if len(decoded) != 1 {
		t.Fatalf("decoded %d answers, want 1 (only the well-shaped one)", len(decoded))
	}
	if _, ok := decoded["q1"].(SingleChoiceAnswer); !ok {
		t.Errorf("q1 decoded as %T, want SingleChoiceAnswer", decoded["q1"])
	}
}
