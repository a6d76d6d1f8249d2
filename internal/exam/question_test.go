package exam

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestQuestionList_DiscriminatesOnType(t *testing.T) {
	payload := `[
		{"id":"a","type":"mcq","question":"Pick one","points":5,"options":["x","y"],"correctAnswer":0},
		{"id":"b","type":"code-mcq","question":"Output?","points":5,"options":["1","2"],"correctAnswer":1,"code":"print(2)","language":"python"},
		{"id":"c","type":"multi-select","question":"Pick many","points":5,"options":["x","y","z"],"correctAnswers":[0,2]}
	]`
	var qs QuestionList
	if err := json.Unmarshal([]byte(payload), &qs); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(qs) != 3 {
		t.Fatalf("len = %d, want 3", len(qs))
	}
	if _, ok := qs[0].(MCQQuestion); !ok {
		t.Errorf("qs[0] is %T, want MCQQuestion", qs[0])
	}
	code, ok := qs[1].(CodeMCQQuestion)
	if !ok {
		t.Fatalf("qs[1] is %T, want CodeMCQQuestion", qs[1])
	}
	if code.Code != "print(2)" || code.Language != "python" {
		t.Errorf("code-mcq lost code fields: %+v", code)
	}
	multi, ok := qs[2].(MultiSelectQuestion)
	if !ok {
		t.Fatalf("qs[2] is %T, want MultiSelectQuestion", qs[2])
	}
	if len(multi.CorrectOptions) != 2 {
		t.Errorf("multi-select correctOptions = %v", multi.CorrectOptions)
	}

	// Re-encoding keeps the discriminator so a round trip re-decodes.
	encoded, err := json.Marshal(qs)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var again QuestionList
	if err := json.Unmarshal(encoded, &again); err != nil {
		t.Fatalf("re-unmarshal: %v", err)
	}
	if again[1].Type() != TypeCodeMCQ {
		t.Errorf("type lost in round trip: %s", again[1].Type())
	}
}

func TestUnmarshalQuestion_RejectsUnknownType(t *testing.T) {
	_, err := UnmarshalQuestion([]byte(`{"id":"a","type":"essay","question":"?","points":1,"options":["x","y"]}`))
	if !errors.Is(err, ErrInvalidQuestion) {
		t.Errorf("err = %v, want ErrInvalidQuestion", err)
	}
}

func TestShapeMatches(t *testing.T) {
	mcq := MCQQuestion{QuestionID: "a", Options: []string{"x", "y"}, CorrectOption: 0, PointValue: 1}
	multi := MultiSelectQuestion{QuestionID: "b", Options: []string{"x", "y"}, CorrectOptions: []int{0}, PointValue: 1}

	if !ShapeMatches(mcq, SingleChoiceAnswer{Selected: 0}) {
		t.Errorf("single answer should match mcq")
	}
	if ShapeMatches(mcq, MultiChoiceAnswer{}) {
		t.Errorf("multi answer must not match mcq")
	}
	if !ShapeMatches(multi, MultiChoiceAnswer{}) {
		t.Errorf("multi answer should match multi-select")
	}
	if ShapeMatches(multi, SingleChoiceAnswer{Selected: 0}) {
		t.Errorf("single answer must not match multi-select")
	}
}

func TestValidateTest(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Test)
		wantErr bool
	}{
		{"valid", func(*Test) {}, false},
		{"no time limit", func(tt *Test) { tt.TimeLimitMinutes = 0 }, true},
		{"passing score above 100", func(tt *Test) { tt.PassingScore = 150 }, true},
		{"duplicate ids", func(tt *Test) {
			tt.Questions = append(tt.Questions, MCQQuestion{
				QuestionID: "q1", Text: "dup", PointValue: 1,
				Options: []string{"a", "b"}, CorrectOption: 0,
			})
		}, true},
		{"correct index out of range", func(tt *Test) {
			tt.Questions[0] = MCQQuestion{
				QuestionID: "q1", Text: "bad", PointValue: 1,
				Options: []string{"a", "b"}, CorrectOption: 5,
			}
		}, true},
		{"single option", func(tt *Test) {
			tt.Questions[0] = MCQQuestion{
				QuestionID: "q1", Text: "bad", PointValue: 1,
				Options: []string{"a"}, CorrectOption: 0,
			}
		}, true},
		{"zero points", func(tt *Test) {
			tt.Questions[0] = MCQQuestion{
				QuestionID: "q1", Text: "bad", PointValue: 0,
				Options: []string{"a", "b"}, CorrectOption: 0,
			}
		}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			test := sampleTest()
			tc.mutate(test)
			err := ValidateTest(test)
			if (err != nil) != tc.wantErr {
				t.Errorf("ValidateTest: err = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}
