package exam

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Answer is the closed sum of SingleChoiceAnswer and MultiChoiceAnswer.
// An answer's shape must always match its question's type; the sheet's
// mutation methods preserve that invariant.
type Answer interface {
	Answered() bool

	isAnswer()
}

// SingleChoiceAnswer holds the selection for mcq and code-mcq questions.
// Selected is -1 while unset; the last selection wins.
type SingleChoiceAnswer struct {
	Selected int
}

func (a SingleChoiceAnswer) Answered() bool { return a.Selected >= 0 }
func (SingleChoiceAnswer) isAnswer()        {}

// MultiChoiceAnswer holds the selection set for multi-select questions.
type MultiChoiceAnswer struct {
	Selected []int
}

func (a MultiChoiceAnswer) Answered() bool { return len(a.Selected) > 0 }
func (MultiChoiceAnswer) isAnswer()        {}

func (a MultiChoiceAnswer) contains(idx int) bool {
	for _, s := range a.Selected {
		if s == idx {
			return true
		}
	}
	return false
}

// ShapeMatches reports whether the answer's variant pairs with the
// question's type. Used defensively before scoring.
func ShapeMatches(q Question, a Answer) bool {
	switch q.Type() {
	case TypeMCQ, TypeCodeMCQ:
		_, ok := a.(SingleChoiceAnswer)
		return ok
	case TypeMultiSelect:
		_, ok := a.(MultiChoiceAnswer)
		return ok
	}
	return false
}

func emptyAnswerFor(q Question) Answer {
	if q.Type() == TypeMultiSelect {
		return MultiChoiceAnswer{}
	}
	return SingleChoiceAnswer{Selected: -1}
}

// AnswerSheet holds the current answer for every question of one attempt.
// It is built once per attempt; every question starts out unanswered.
type AnswerSheet struct {
	questions map[string]Question
	answers   map[string]Answer
}

// NewAnswerSheet pre-populates one empty answer per question.
func NewAnswerSheet(t *Test) (*AnswerSheet, error) {
	if t == nil || len(t.Questions) == 0 {
		return nil, ErrNoQuestions
	}
	s := &AnswerSheet{
		questions: make(map[string]Question, len(t.Questions)),
		answers:   make(map[string]Answer, len(t.Questions)),
	}
	for _, q := range t.Questions {
		s.questions[q.ID()] = q
		s.answers[q.ID()] = emptyAnswerFor(q)
	}
	return s, nil
}

// SelectSingle records the selection for an mcq/code-mcq question,
// replacing any prior choice. Rejected operations leave the sheet
// untouched.
func (s *AnswerSheet) SelectSingle(questionID string, optionIndex int) error {
	q, ok := s.questions[questionID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownQuestion, questionID)
	}
	if q.Type() == TypeMultiSelect {
		return fmt.Errorf("%w: %s is multi-select", ErrWrongKind, questionID)
	}
	if optionIndex < 0 || optionIndex >= q.OptionCount() {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrOptionOutOfRange, optionIndex, q.OptionCount())
	}
	s.answers[questionID] = SingleChoiceAnswer{Selected: optionIndex}
	return nil
}

// ToggleMulti flips membership of optionIndex in a multi-select answer.
func (s *AnswerSheet) ToggleMulti(questionID string, optionIndex int) error {
	q, ok := s.questions[questionID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownQuestion, questionID)
	}
	if q.Type() != TypeMultiSelect {
		return fmt.Errorf("%w: %s is single-choice", ErrWrongKind, questionID)
	}
	if optionIndex < 0 || optionIndex >= q.OptionCount() {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrOptionOutOfRange, optionIndex, q.OptionCount())
	}
	cur := s.answers[questionID].(MultiChoiceAnswer)
	if cur.contains(optionIndex) {
		next := make([]int, 0, len(cur.Selected)-1)
		for _, idx := range cur.Selected {
			if idx != optionIndex {
				next = append(next, idx)
			}
		}
		s.answers[questionID] = MultiChoiceAnswer{Selected: next}
	} else {
		next := append(append([]int(nil), cur.Selected...), optionIndex)
		sort.Ints(next)
		s.answers[questionID] = MultiChoiceAnswer{Selected: next}
	}
	return nil
}

// IsAnswered reports coverage, not correctness: a wrong selection still
// counts as answered.
func (s *AnswerSheet) IsAnswered(questionID string) bool {
	a, ok := s.answers[questionID]
	return ok && a.Answered()
}

// AnsweredCount returns how many questions currently hold a selection.
func (s *AnswerSheet) AnsweredCount() int {
	n := 0
	for _, a := range s.answers {
		if a.Answered() {
			n++
		}
	}
	return n
}

// Answer returns the current answer for a question, or nil if unknown.
func (s *AnswerSheet) Answer(questionID string) Answer {
	return s.answers[questionID]
}

// Snapshot copies the current answers, detached from further mutation.
func (s *AnswerSheet) Snapshot() map[string]Answer {
	out := make(map[string]Answer, len(s.answers))
	for id, a := range s.answers {
		if m, ok := a.(MultiChoiceAnswer); ok {
			out[id] = MultiChoiceAnswer{Selected: append([]int(nil), m.Selected...)}
			continue
		}
		out[id] = a
	}
	return out
}

// RawAnswer is the submitted-answer wire shape. Either SelectedOption or
// SelectedOptions is set depending on the question type; mismatches
// degrade to unanswered instead of failing the submission.
type RawAnswer struct {
	QuestionID      string `json:"questionId"`
	SelectedOption  *int   `json:"selectedOption"`
	SelectedOptions []int  `json:"selectedOptions"`
}

// DecodeAnswers coerces raw submitted answers into typed answers keyed by
// question id. Unknown questions and wrong-shaped answers are dropped:
// scoring treats them as unanswered rather than rejecting the submission.
func DecodeAnswers(t *Test, raw map[string]RawAnswer) map[string]Answer {
	out := make(map[string]Answer, len(raw))
	for id, ra := range raw {
		q := t.QuestionByID(id)
		if q == nil {
			continue
		}
		switch q.Type() {
		case TypeMCQ, TypeCodeMCQ:
			if ra.SelectedOption == nil {
				continue
			}
			out[id] = SingleChoiceAnswer{Selected: *ra.SelectedOption}
		case TypeMultiSelect:
			if ra.SelectedOptions == nil {
				continue
			}
			out[id] = MultiChoiceAnswer{Selected: ra.SelectedOptions}
		}
	}
	return out
}

// MarshalAnswers renders typed answers back into the wire shape, for
// persisting an attempt's submitted answers.
func MarshalAnswers(answers map[string]Answer) ([]byte, error) {
	raw := make(map[string]RawAnswer, len(answers))
	for id, a := range answers {
		switch v := a.(type) {
		case SingleChoiceAnswer:
			entry := RawAnswer{QuestionID: id}
			if v.Selected >= 0 {
				sel := v.Selected
				entry.SelectedOption = &sel
			}
			raw[id] = entry
		case MultiChoiceAnswer:
			raw[id] = RawAnswer{QuestionID: id, SelectedOptions: append([]int{}, v.Selected...)}
		}
	}
	return json.Marshal(raw)
}
