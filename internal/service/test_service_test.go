package service

import (
	"codementor_backend/internal/exam"
	"codementor_backend/internal/model"
	"encoding/json"
	"errors"
	"testing"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func TestQuestionRows(t *testing.T) {
	reqs := []TestQuestionReq{
		{
			Type:          string(exam.TypeMCQ),
			Question:      "Which keyword declares a constant?",
			Options:       []string{"var", "const"},
			CorrectAnswer: intPtr(1),
			Points:        10,
		},
		{
			ID:             "q-fixed",
			Type:           string(exam.TypeMultiSelect),
			Question:       "Which are comparable?",
			Options:        []string{"string", "map", "int"},
			CorrectAnswers: []int{0, 2},
			Points:         15,
		},
	}

	rows, err := questionRows(42, reqs)
	if err != nil {
		t.Fatalf("questionRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}

	if rows[0].ID == "" {
		t.Error("missing request id should be filled in")
	}
	if rows[1].ID != "q-fixed" {
		t.Errorf("explicit id overwritten: %q", rows[1].ID)
	}
	for i, row := range rows {
		if row.TestID != 42 {
			t.Errorf("row %d testID = %d, want 42", i, row.TestID)
		}
		if row.Order != i {
			t.Errorf("row %d order = %d, want %d", i, row.Order, i)
		}
	}

	var correct int
	if err := json.Unmarshal(rows[0].CorrectAnswer, &correct); err != nil || correct != 1 {
		t.Errorf("mcq correct answer stored as %s", rows[0].CorrectAnswer)
	}
	var correctSet []int
	if err := json.Unmarshal(rows[1].CorrectAnswer, &correctSet); err != nil || len(correctSet) != 2 {
		t.Errorf("multi-select correct answers stored as %s", rows[1].CorrectAnswer)
	}
}

func TestQuestionRows_Invalid(t *testing.T) {
	cases := []struct {
		name string
		req  TestQuestionReq
	}{
		{"mcq without answer", TestQuestionReq{
			Type: string(exam.TypeMCQ), Question: "q", Options: []string{"a", "b"}, Points: 5,
		}},
		{"multi-select without answers", TestQuestionReq{
			Type: string(exam.TypeMultiSelect), Question: "q", Options: []string{"a", "b"}, Points: 5,
		}},
		{"unknown type", TestQuestionReq{
			Type: "essay", Question: "q", Options: []string{"a", "b"}, CorrectAnswer: intPtr(0), Points: 5,
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := questionRows(1, []TestQuestionReq{tc.req})
			if !errors.Is(err, exam.ErrInvalidQuestion) {
				t.Errorf("got %v, want ErrInvalidQuestion", err)
			}
		})
	}
}

func sampleModelTest() *model.Test {
	mustJSON := func(v interface{}) json.RawMessage {
		b, _ := json.Marshal(v)
		return b
	}
	test := &model.Test{
		Title:        "Go Basics",
		Language:     "go",
		Difficulty:   "beginner",
		TimeLimit:    20,
		PassingScore: 70,
		Questions: []model.TestQuestion{
			{
				Type:          string(exam.TypeMCQ),
				Prompt:        "Which keyword declares a constant?",
				Options:       mustJSON([]string{"var", "const"}),
				CorrectAnswer: mustJSON(1),
				Points:        10,
				Explanation:   "const declares constants.",
			},
			{
				Type:          string(exam.TypeCodeMCQ),
				Prompt:        "What does this print?",
				Options:       mustJSON([]string{"0", "1"}),
				CorrectAnswer: mustJSON(0),
				Code:          "var x int\nfmt.Println(x)",
				Language:      "go",
				Points:        10,
			},
			{
				Type:          string(exam.TypeMultiSelect),
				Prompt:        "Which are builtin types?",
				Options:       mustJSON([]string{"int", "decimal", "rune"}),
				CorrectAnswer: mustJSON([]int{0, 2}),
				Points:        10,
			},
		},
	}
	test.ID = 7
	for i := range test.Questions {
		test.Questions[i].ID = model.GenerateUUID()
	}
	return test
}

func TestToExamTest(t *testing.T) {
	stored := sampleModelTest()
	examTest, err := ToExamTest(stored)
	if err != nil {
		t.Fatalf("ToExamTest: %v", err)
	}
	if examTest.ID != stored.ID || examTest.TimeLimitMinutes != 20 || examTest.PassingScore != 70 {
		t.Errorf("header not carried over: %+v", examTest)
	}
	if len(examTest.Questions) != 3 {
		t.Fatalf("got %d questions, want 3", len(examTest.Questions))
	}

	mcq, ok := examTest.Questions[0].(exam.MCQQuestion)
	if !ok {
		t.Fatalf("question 0 is %T, want MCQQuestion", examTest.Questions[0])
	}
	if mcq.CorrectOption != 1 || mcq.Explanation == "" {
		t.Errorf("mcq fields lost: %+v", mcq)
	}

	code, ok := examTest.Questions[1].(exam.CodeMCQQuestion)
	if !ok {
		t.Fatalf("question 1 is %T, want CodeMCQQuestion", examTest.Questions[1])
	}
	if code.Code == "" || code.Language != "go" {
		t.Errorf("code snippet lost: %+v", code)
	}

	multi, ok := examTest.Questions[2].(exam.MultiSelectQuestion)
	if !ok {
		t.Fatalf("question 2 is %T, want MultiSelectQuestion", examTest.Questions[2])
	}
	if len(multi.CorrectOptions) != 2 {
		t.Errorf("multi-select key lost: %+v", multi)
	}
}

func TestToExamTest_RejectsMalformedRows(t *testing.T) {
	stored := sampleModelTest()
	stored.Questions[0].CorrectAnswer = json.RawMessage(`"not a number"`)
	if _, err := ToExamTest(stored); !errors.Is(err, exam.ErrInvalidQuestion) {
		t.Errorf("got %v, want ErrInvalidQuestion", err)
	}

	stored = sampleModelTest()
	stored.Questions = nil
	if _, err := ToExamTest(stored); !errors.Is(err, exam.ErrNoQuestions) {
		t.Errorf("got %v, want ErrNoQuestions", err)
	}
}

func TestApplyTestReq_PartialUpdate(t *testing.T) {
	test := &model.Test{Title: "Old", TimeLimit: 30, PassingScore: 70}
	applyTestReq(test, TestReq{Title: strPtr("New"), PassingScore: intPtr(80)})

	if test.Title != "New" {
		t.Errorf("title = %q", test.Title)
	}
	if test.PassingScore != 80 {
		t.Errorf("passingScore = %d", test.PassingScore)
	}
	if test.TimeLimit != 30 {
		t.Errorf("timeLimit changed to %d, fields without a value must stay", test.TimeLimit)
	}
}

func TestHasPriorPass(t *testing.T) {
	attempts := []model.TestAttempt{
		{UUIDBase: model.UUIDBase{ID: "a1"}, Passed: false},
		{UUIDBase: model.UUIDBase{ID: "a2"}, Passed: true},
	}
	if !hasPriorPass(attempts, "a3") {
		t.Error("a2 passed earlier, expected true")
	}
	if hasPriorPass(attempts, "a2") {
		t.Error("the only pass is the excluded attempt, expected false")
	}
	if hasPriorPass(nil, "a1") {
		t.Error("no attempts, expected false")
	}
}
