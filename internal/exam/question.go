package exam

import (
	"encoding/json"
	"fmt"
)

// QuestionType discriminates the three supported question kinds.
type QuestionType string

const (
	TypeMCQ         QuestionType = "mcq"
	TypeCodeMCQ     QuestionType = "code-mcq"
	TypeMultiSelect QuestionType = "multi-select"
)

// Question is the closed sum of MCQQuestion, CodeMCQQuestion and
// MultiSelectQuestion. The isQuestion marker keeps the set closed so the
// scorer never has to handle an unknown variant.
type Question interface {
	ID() string
	Type() QuestionType
	Prompt() string
	Points() int
	OptionCount() int

	isQuestion()
}

// MCQQuestion is a single-answer multiple-choice question.
type MCQQuestion struct {
	QuestionID    string
	Text          string
	PointValue    int
	Options       []string
	CorrectOption int
	Explanation   string
}

func (q MCQQuestion) ID() string         { return q.QuestionID }
func (q MCQQuestion) Type() QuestionType { return TypeMCQ }
func (q MCQQuestion) Prompt() string     { return q.Text }
func (q MCQQuestion) Points() int        { return q.PointValue }
func (q MCQQuestion) OptionCount() int   { return len(q.Options) }
func (MCQQuestion) isQuestion()          {}

// CodeMCQQuestion is an MCQ with an attached code snippet. The snippet is
// display-only; the answer shape is identical to a plain MCQ.
type CodeMCQQuestion struct {
	MCQQuestion
	Code     string
	Language string
}

func (q CodeMCQQuestion) Type() QuestionType { return TypeCodeMCQ }
func (CodeMCQQuestion) isQuestion()          {}

// MultiSelectQuestion is scored by set equality over CorrectOptions.
type MultiSelectQuestion struct {
	QuestionID     string
	Text           string
	PointValue     int
	Options        []string
	CorrectOptions []int
	Explanation    string
}

func (q MultiSelectQuestion) ID() string         { return q.QuestionID }
func (q MultiSelectQuestion) Type() QuestionType { return TypeMultiSelect }
func (q MultiSelectQuestion) Prompt() string     { return q.Text }
func (q MultiSelectQuestion) Points() int        { return q.PointValue }
func (q MultiSelectQuestion) OptionCount() int   { return len(q.Options) }
func (MultiSelectQuestion) isQuestion()          {}

// Test is the immutable definition an attempt runs against. Questions keep
// their order; it drives navigation and the questionResults order.
type Test struct {
	ID               uint
	Title            string
	Description      string
	Language         string
	Difficulty       string
	TimeLimitMinutes int
	PassingScore     int
	Questions        []Question
}

// TotalPoints sums the point values of every question.
func (t *Test) TotalPoints() int {
	total := 0
	for _, q := range t.Questions {
		total += q.Points()
	}
	return total
}

// QuestionByID returns the question with the given id, or nil.
func (t *Test) QuestionByID(id string) Question {
	for _, q := range t.Questions {
		if q.ID() == id {
			return q
		}
	}
	return nil
}

// ValidateQuestion rejects questions a test must never contain: fewer than
// two options, non-positive points, or correct indices outside the option
// range.
func ValidateQuestion(q Question) error {
	if q.ID() == "" {
		return fmt.Errorf("%w: question id is empty", ErrInvalidQuestion)
	}
	if q.OptionCount() < 2 {
		return fmt.Errorf("%w: question %s has %d options, need at least 2", ErrInvalidQuestion, q.ID(), q.OptionCount())
	}
	if q.Points() <= 0 {
		return fmt.Errorf("%w: question %s has non-positive points", ErrInvalidQuestion, q.ID())
	}
	switch v := q.(type) {
	case MCQQuestion:
		if v.CorrectOption < 0 || v.CorrectOption >= len(v.Options) {
			return fmt.Errorf("%w: question %s correctAnswer out of range", ErrInvalidQuestion, q.ID())
		}
	case CodeMCQQuestion:
		if v.CorrectOption < 0 || v.CorrectOption >= len(v.Options) {
			return fmt.Errorf("%w: question %s correctAnswer out of range", ErrInvalidQuestion, q.ID())
		}
	case MultiSelectQuestion:
		for _, idx := range v.CorrectOptions {
			if idx < 0 || idx >= len(v.Options) {
				return fmt.Errorf("%w: question %s correctAnswers contain index %d out of range", ErrInvalidQuestion, q.ID(), idx)
			}
		}
	}
	return nil
}

// ValidateTest checks the test header and every question.
func ValidateTest(t *Test) error {
	if t == nil || len(t.Questions) == 0 {
		return ErrNoQuestions
	}
	if t.TimeLimitMinutes <= 0 {
		return fmt.Errorf("%w: timeLimit must be positive", ErrInvalidQuestion)
	}
	if t.PassingScore < 0 || t.PassingScore > 100 {
		return fmt.Errorf("%w: passingScore must be within 0-100", ErrInvalidQuestion)
	}
	seen := make(map[string]bool, len(t.Questions))
	for _, q := range t.Questions {
		if err := ValidateQuestion(q); err != nil {
			return err
		}
		if seen[q.ID()] {
			return fmt.Errorf("%w: duplicate question id %s", ErrInvalidQuestion, q.ID())
		}
		seen[q.ID()] = true
	}
	return nil
}

// questionJSON is the wire/storage shape shared by all three kinds.
type questionJSON struct {
	ID             string       `json:"id"`
	Type           QuestionType `json:"type"`
	Question       string       `json:"question"`
	Points         int          `json:"points"`
	Options        []string     `json:"options"`
	CorrectAnswer  *int         `json:"correctAnswer,omitempty"`
	CorrectAnswers []int        `json:"correctAnswers,omitempty"`
	Code           string       `json:"code,omitempty"`
	Language       string       `json:"language,omitempty"`
	Explanation    string       `json:"explanation,omitempty"`
}

// MarshalQuestion encodes any question with its type discriminator.
func MarshalQuestion(q Question) ([]byte, error) {
	var wire questionJSON
	switch v := q.(type) {
	case MCQQuestion:
		correct := v.CorrectOption
		wire = questionJSON{
			ID: v.QuestionID, Type: TypeMCQ, Question: v.Text, Points: v.PointValue,
			Options: v.Options, CorrectAnswer: &correct, Explanation: v.Explanation,
		}
	case CodeMCQQuestion:
		correct := v.CorrectOption
		wire = questionJSON{
			ID: v.QuestionID, Type: TypeCodeMCQ, Question: v.Text, Points: v.PointValue,
			Options: v.Options, CorrectAnswer: &correct, Explanation: v.Explanation,
			Code: v.Code, Language: v.Language,
		}
	case MultiSelectQuestion:
		wire = questionJSON{
			ID: v.QuestionID, Type: TypeMultiSelect, Question: v.Text, Points: v.PointValue,
			Options: v.Options, CorrectAnswers: v.CorrectOptions, Explanation: v.Explanation,
		}
	default:
		return nil, fmt.Errorf("%w: unknown question variant %T", ErrInvalidQuestion, q)
	}
	return json.Marshal(wire)
}

// UnmarshalQuestion decodes one question, discriminating on the type field.
func UnmarshalQuestion(data []byte) (Question, error) {
	var wire questionJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, err
	}
	return wire.toQuestion()
}

func (wire questionJSON) toQuestion() (Question, error) {
	switch wire.Type {
	case TypeMCQ:
		if wire.CorrectAnswer == nil {
			return nil, fmt.Errorf("%w: mcq question %s has no correctAnswer", ErrInvalidQuestion, wire.ID)
		}
		return MCQQuestion{
			QuestionID: wire.ID, Text: wire.Question, PointValue: wire.Points,
			Options: wire.Options, CorrectOption: *wire.CorrectAnswer, Explanation: wire.Explanation,
		}, nil
	case TypeCodeMCQ:
		if wire.CorrectAnswer == nil {
			return nil, fmt.Errorf("%w: code-mcq question %s has no correctAnswer", ErrInvalidQuestion, wire.ID)
		}
		return CodeMCQQuestion{
			MCQQuestion: MCQQuestion{
				QuestionID: wire.ID, Text: wire.Question, PointValue: wire.Points,
				Options: wire.Options, CorrectOption: *wire.CorrectAnswer, Explanation: wire.Explanation,
			},
			Code: wire.Code, Language: wire.Language,
		}, nil
	case TypeMultiSelect:
		return MultiSelectQuestion{
			QuestionID: wire.ID, Text: wire.Question, PointValue: wire.Points,
			Options: wire.Options, CorrectOptions: wire.CorrectAnswers, Explanation: wire.Explanation,
		}, nil
	default:
		return nil, fmt.Errorf("%w: unknown question type %q", ErrInvalidQuestion, wire.Type)
	}
}

// QuestionList marshals/unmarshals an ordered question slice, preserving
// each element's concrete type. Used for API payloads and AI-generated
// question sets.
type QuestionList []Question

func (l QuestionList) MarshalJSON() ([]byte, error) {
	parts := make([]json.RawMessage, 0, len(l))
	for _, q := range l {
		b, err := MarshalQuestion(q)
		if err != nil {
			return nil, err
		}
		parts = append(parts, b)
	}
	return json.Marshal(parts)
}

func (l *QuestionList) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}
	qs := make([]Question, 0, len(raws))
	for _, raw := range raws {
		q, err := UnmarshalQuestion(raw)
		if err != nil {
			return err
		}
		qs = append(qs, q)
	}
	*l = qs
	return nil
}
