package exam

import (
	"fmt"
	"sync"
	"time"
)

// Phase is the attempt lifecycle. Submitted is terminal; a retake is a
// brand-new session, never a reused one.
type Phase string

const (
	PhaseNotStarted Phase = "not-started"
	PhaseInProgress Phase = "in-progress"
	PhaseSubmitted  Phase = "submitted"
)

// Session drives one user's pass through one test: navigation, flags, the
// countdown, and submission. A session has a single logical writer, but a
// mutex still guards it because the countdown goroutine and the caller
// race at expiry.
type Session struct {
	mu sync.Mutex

	test    *Test
	sheet   *AnswerSheet
	phase   Phase
	current int
	flagged map[string]bool

	remaining int // seconds
	tick      time.Duration
	stop      chan struct{}

	result *Result

	// onAutoSubmit fires after a timer-driven submit, outside the lock.
	onAutoSubmit func(*Result)
}

// SessionOption configures a Session at construction time.
type SessionOption func(*Session)

// WithTickInterval overrides the 1s countdown tick. Tests use a short
// interval so expiry is observable without waiting out the time limit.
func WithTickInterval(d time.Duration) SessionOption {
	return func(s *Session) { s.tick = d }
}

// WithAutoSubmitHook registers a callback invoked once when the timer
// expires and forces submission.
func WithAutoSubmitHook(fn func(*Result)) SessionOption {
	return func(s *Session) { s.onAutoSubmit = fn }
}

// NewSession validates the test and returns a session in NotStarted.
func NewSession(t *Test, opts ...SessionOption) (*Session, error) {
	if err := ValidateTest(t); err != nil {
		return nil, err
	}
	s := &Session{
		test:    t,
		phase:   PhaseNotStarted,
		flagged: make(map[string]bool),
		tick:    time.Second,
		stop:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Start transitions NotStarted → InProgress: the sheet is initialized with
// one empty answer per question, the index resets, and the countdown is
// armed with the test's time limit.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseNotStarted {
		return fmt.Errorf("%w: phase is %s", ErrAlreadyStarted, s.phase)
	}
	sheet, err := NewAnswerSheet(s.test)
	if err != nil {
		return err
	}
	s.sheet = sheet
	s.current = 0
	s.flagged = make(map[string]bool)
	s.remaining = s.test.TimeLimitMinutes * 60
	s.stop = make(chan struct{})
	s.phase = PhaseInProgress
	go s.countdown()
	return nil
}

// countdown decrements once per tick and forces submission at zero. The
// submit path is guarded, so a user submit racing the final tick leaves
// exactly one result.
func (s *Session) countdown() {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.mu.Lock()
			if s.phase != PhaseInProgress {
				s.mu.Unlock()
				return
			}
			s.remaining--
			if s.remaining > 0 {
				s.mu.Unlock()
				continue
			}
			s.remaining = 0
			result, err := s.submitLocked()
			hook := s.onAutoSubmit
			s.mu.Unlock()
			if err == nil && hook != nil {
				hook(result)
			}
			return
		}
	}
}

// Test returns the immutable definition this session runs against.
func (s *Session) Test() *Test { return s.test }

// Phase returns the current lifecycle phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// CurrentIndex returns the zero-based index of the question in view.
func (s *Session) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// CurrentQuestion returns the question at the current index, nil before
// Start.
func (s *Session) CurrentQuestion() Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseNotStarted {
		return nil
	}
	return s.test.Questions[s.current]
}

// GoTo jumps to any question while in progress. Out-of-range indices are
// rejected with ErrIndexOutOfRange (an explicit error rather than a silent
// no-op, so API callers get a 400). Skipping ahead is allowed; answering
// is never a precondition for navigation.
func (s *Session) GoTo(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseInProgress {
		return fmt.Errorf("%w: phase is %s", ErrNotStarted, s.phase)
	}
	if index < 0 || index >= len(s.test.Questions) {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrIndexOutOfRange, index, len(s.test.Questions))
	}
	s.current = index
	return nil
}

// Next advances one question, silently staying put at the last one.
func (s *Session) Next() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseInProgress && s.current < len(s.test.Questions)-1 {
		s.current++
	}
}

// Previous steps back one question, silently staying put at the first one.
func (s *Session) Previous() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseInProgress && s.current > 0 {
		s.current--
	}
}

// SelectSingle answers the given mcq/code-mcq question.
func (s *Session) SelectSingle(questionID string, optionIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseInProgress {
		return fmt.Errorf("%w: phase is %s", ErrNotStarted, s.phase)
	}
	return s.sheet.SelectSingle(questionID, optionIndex)
}

// ToggleMulti toggles one option of the given multi-select question.
func (s *Session) ToggleMulti(questionID string, optionIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseInProgress {
		return fmt.Errorf("%w: phase is %s", ErrNotStarted, s.phase)
	}
	return s.sheet.ToggleMulti(questionID, optionIndex)
}

// ToggleFlag flips the advisory review marker on the current question.
// Flags never gate submission and never affect scoring.
func (s *Session) ToggleFlag() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseInProgress {
		return fmt.Errorf("%w: phase is %s", ErrNotStarted, s.phase)
	}
	id := s.test.Questions[s.current].ID()
	if s.flagged[id] {
		delete(s.flagged, id)
	} else {
		s.flagged[id] = true
	}
	return nil
}

// Flagged returns the ids of all currently flagged questions.
func (s *Session) Flagged() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.flagged))
	for id := range s.flagged {
		out = append(out, id)
	}
	return out
}

// IsFlagged reports whether one question carries the review marker.
func (s *Session) IsFlagged(questionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flagged[questionID]
}

// Progress returns the answered percentage, recomputed on demand.
func (s *Session) Progress() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sheet == nil {
		return 0
	}
	return 100 * float64(s.sheet.AnsweredCount()) / float64(len(s.test.Questions))
}

// AllAnswered reports whether every question holds a selection. Callers
// use it to warn before an incomplete submit; it is never a hard gate.
func (s *Session) AllAnswered() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sheet != nil && s.sheet.AnsweredCount() == len(s.test.Questions)
}

// IsAnswered reports coverage for a single question.
func (s *Session) IsAnswered(questionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sheet != nil && s.sheet.IsAnswered(questionID)
}

// RemainingSeconds returns the countdown's current value.
func (s *Session) RemainingSeconds() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remaining
}

// RemainingClock formats the countdown as MM:SS for display.
func (s *Session) RemainingClock() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("%02d:%02d", s.remaining/60, s.remaining%60)
}

// Answers returns a detached snapshot of the current answers.
func (s *Session) Answers() map[string]Answer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sheet == nil {
		return nil
	}
	return s.sheet.Snapshot()
}

// Submit transitions InProgress → Submitted, scoring the current answers
// exactly once. Calling it again returns the stored result, which also
// resolves the race between a user submit and the expiring timer.
func (s *Session) Submit() (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitLocked()
}

func (s *Session) submitLocked() (*Result, error) {
	switch s.phase {
	case PhaseSubmitted:
		return s.result, nil
	case PhaseNotStarted:
		return nil, ErrNotStarted
	}
	result, err := Score(s.test, s.sheet.Snapshot())
	if err != nil {
		return nil, err
	}
	s.result = result
	s.phase = PhaseSubmitted
	close(s.stop)
	return result, nil
}

// Result returns the scored outcome once submitted, nil before that.
func (s *Session) Result() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Discard abandons an in-progress attempt: the countdown goroutine is
// cancelled and nothing is scored. Safe to call in any phase.
func (s *Session) Discard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseInProgress {
		close(s.stop)
		s.phase = PhaseNotStarted
		s.sheet = nil
		s.result = nil
	}
}
