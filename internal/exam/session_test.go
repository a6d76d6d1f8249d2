package exam

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func startedSession(t *testing.T, opts ...SessionOption) *Session {
	t.Helper()
	s, err := NewSession(sampleTest(), opts...)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return s
}

func TestSession_StartInitializesAttempt(t *testing.T) {
	s := startedSession(t)
	defer s.Discard()

	if s.Phase() != PhaseInProgress {
		t.Fatalf("phase = %s, want in-progress", s.Phase())
	}
	if s.CurrentIndex() != 0 {
		t.Errorf("currentIndex = %d, want 0", s.CurrentIndex())
	}
	if got := s.RemainingSeconds(); got != 30*60 {
		t.Errorf("remainingSeconds = %d, want %d", got, 30*60)
	}
	if got := s.RemainingClock(); got != "30:00" {
		t.Errorf("remainingClock = %q, want 30:00", got)
	}
	if s.Progress() != 0 || s.AllAnswered() {
		t.Errorf("fresh attempt should have no answers")
	}
	if err := s.Start(); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second Start: err = %v, want ErrAlreadyStarted", err)
	}
}

func TestSession_NavigationRoundTrip(t *testing.T) {
	s := startedSession(t)
	defer s.Discard()

	before := s.Answers()
	for i := 0; i < 2; i++ {
		s.Next()
	}
	for i := 0; i < 2; i++ {
		s.Previous()
	}
	if s.CurrentIndex() != 0 {
		t.Errorf("index after next*2 previous*2 = %d, want 0", s.CurrentIndex())
	}

	// Boundaries are silent no-ops.
	s.Previous()
	if s.CurrentIndex() != 0 {
		t.Errorf("previous at first question moved to %d", s.CurrentIndex())
	}
	for i := 0; i < 10; i++ {
		s.Next()
	}
	if s.CurrentIndex() != 2 {
		t.Errorf("next past last question moved to %d, want 2", s.CurrentIndex())
	}

	after := s.Answers()
	for id, a := range before {
		if after[id].Answered() != a.Answered() {
			t.Errorf("navigation mutated answer for %s", id)
		}
	}

	if err := s.GoTo(99); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("GoTo(99): err = %v, want ErrIndexOutOfRange", err)
	}
	if err := s.GoTo(1); err != nil {
		t.Errorf("GoTo(1): %v", err)
	}
}

func TestSession_AnswerMutationRules(t *testing.T) {
	s := startedSession(t)
	defer s.Discard()

	if err := s.SelectSingle("q1", 0); err != nil {
		t.Fatalf("SelectSingle: %v", err)
	}
	// Last write wins.
	if err := s.SelectSingle("q1", 2); err != nil {
		t.Fatalf("SelectSingle replace: %v", err)
	}
	if got := s.Answers()["q1"].(SingleChoiceAnswer).Selected; got != 2 {
		t.Errorf("q1 selected = %d, want 2", got)
	}

	if err := s.SelectSingle("q1", 9); !errors.Is(err, ErrOptionOutOfRange) {
		t.Errorf("out-of-range select: err = %v, want ErrOptionOutOfRange", err)
	}
	if err := s.SelectSingle("q3", 0); !errors.Is(err, ErrWrongKind) {
		t.Errorf("single select on multi-select: err = %v, want ErrWrongKind", err)
	}
	if err := s.ToggleMulti("q1", 0); !errors.Is(err, ErrWrongKind) {
		t.Errorf("toggle on mcq: err = %v, want ErrWrongKind", err)
	}
	if err := s.ToggleMulti("nope", 0); !errors.Is(err, ErrUnknownQuestion) {
		t.Errorf("toggle on unknown id: err = %v, want ErrUnknownQuestion", err)
	}

	// Toggle adds then removes.
	if err := s.ToggleMulti("q3", 1); err != nil {
		t.Fatalf("ToggleMulti: %v", err)
	}
	if !s.IsAnswered("q3") {
		t.Errorf("q3 should be answered after toggle on")
	}
	if err := s.ToggleMulti("q3", 1); err != nil {
		t.Fatalf("ToggleMulti off: %v", err)
	}
	if s.IsAnswered("q3") {
		t.Errorf("q3 should be unanswered after toggle off")
	}

	// Rejected operations must not corrupt prior state.
	if got := s.Answers()["q1"].(SingleChoiceAnswer).Selected; got != 2 {
		t.Errorf("q1 selected changed to %d after rejected operations", got)
	}
}

func TestSession_ProgressIndependentOfCorrectness(t *testing.T) {
	s := startedSession(t)
	defer s.Discard()

	// All answers deliberately wrong.
	if err := s.SelectSingle("q1", 0); err != nil {
		t.Fatal(err)
	}
	if err := s.SelectSingle("q2", 0); err != nil {
		t.Fatal(err)
	}
	if err := s.ToggleMulti("q3", 1); err != nil {
		t.Fatal(err)
	}

	if !s.AllAnswered() {
		t.Errorf("allAnswered = false with every question selected")
	}
	if got := s.Progress(); got != 100 {
		t.Errorf("progress = %v, want 100", got)
	}

	result, err := s.Submit()
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if result.Score != 0 {
		t.Errorf("score = %d, want 0 for all-wrong answers", result.Score)
	}
}

func TestSession_SubmitIdempotent(t *testing.T) {
	s := startedSession(t)

	if err := s.SelectSingle("q1", 1); err != nil {
		t.Fatal(err)
	}

	first, err := s.Submit()
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	second, err := s.Submit()
	if err != nil {
		t.Fatalf("second Submit: %v", err)
	}
	if first != second {
		t.Errorf("second Submit produced a new result")
	}
	if s.Phase() != PhaseSubmitted {
		t.Errorf("phase = %s, want submitted", s.Phase())
	}

	// Mutations after submission are rejected.
	if err := s.SelectSingle("q1", 0); !errors.Is(err, ErrNotStarted) {
		t.Errorf("select after submit: err = %v, want phase error", err)
	}
	if err := s.GoTo(1); !errors.Is(err, ErrNotStarted) {
		t.Errorf("goTo after submit: err = %v, want phase error", err)
	}
}

func TestSession_FlagsNeverAffectScore(t *testing.T) {
	plain := startedSession(t)
	flagged := startedSession(t)

	for _, s := range []*Session{plain, flagged} {
		if err := s.SelectSingle("q1", 1); err != nil {
			t.Fatal(err)
		}
		if err := s.ToggleMulti("q3", 0); err != nil {
			t.Fatal(err)
		}
		if err := s.ToggleMulti("q3", 2); err != nil {
			t.Fatal(err)
		}
	}

	if err := flagged.ToggleFlag(); err != nil {
		t.Fatal(err)
	}
	flagged.Next()
	if err := flagged.ToggleFlag(); err != nil {
		t.Fatal(err)
	}
	if got := len(flagged.Flagged()); got != 2 {
		t.Fatalf("flagged count = %d, want 2", got)
	}
	// Unflag one again.
	if err := flagged.ToggleFlag(); err != nil {
		t.Fatal(err)
	}
	if got := len(flagged.Flagged()); got != 1 {
		t.Fatalf("flagged count after unflag = %d, want 1", got)
	}

	a, err := plain.Submit()
	if err != nil {
		t.Fatal(err)
	}
	b, err := flagged.Submit()
	if err != nil {
		t.Fatal(err)
	}
	if a.Score != b.Score || a.Passed != b.Passed {
		t.Errorf("flags changed the outcome: %d/%v vs %d/%v", a.Score, a.Passed, b.Score, b.Passed)
	}
	for i := range a.QuestionResults {
		if a.QuestionResults[i] != b.QuestionResults[i] {
			t.Errorf("questionResults[%d] differ: %+v vs %+v", i, a.QuestionResults[i], b.QuestionResults[i])
		}
	}
}

func TestSession_AutoSubmitOnExpiry(t *testing.T) {
	test := sampleTest()
	test.TimeLimitMinutes = 1

	var mu sync.Mutex
	autoSubmits := 0
	var autoResult *Result

	s, err := NewSession(test,
		// 1 simulated second per millisecond so the minute elapses fast.
		WithTickInterval(time.Millisecond),
		WithAutoSubmitHook(func(r *Result) {
			mu.Lock()
			defer mu.Unlock()
			autoSubmits++
			autoResult = r
		}),
	)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.SelectSingle("q1", 1); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(5 * time.Second)
	for s.Phase() != PhaseSubmitted {
		select {
		case <-deadline:
			t.Fatalf("session never auto-submitted; remaining=%d", s.RemainingSeconds())
		case <-time.After(5 * time.Millisecond):
		}
	}

	// Give the hook a moment, then verify it fired exactly once.
	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if autoSubmits != 1 {
		t.Errorf("auto-submit fired %d times, want exactly once", autoSubmits)
	}
	if autoResult == nil {
		t.Fatalf("auto-submit hook saw no result")
	}
	if autoResult.EarnedPoints != 10 {
		t.Errorf("earnedPoints at expiry = %d, want 10 (answers as they stood)", autoResult.EarnedPoints)
	}
	if s.RemainingSeconds() != 0 {
		t.Errorf("remainingSeconds = %d after expiry, want 0", s.RemainingSeconds())
	}

	// A late user submit observes the same result, not a rescore.
	r, err := s.Submit()
	if err != nil {
		t.Fatalf("Submit after expiry: %v", err)
	}
	if r != autoResult {
		t.Errorf("user submit after expiry produced a different result")
	}
}

func TestSession_DiscardCancelsCountdown(t *testing.T) {
	test := sampleTest()
	test.TimeLimitMinutes = 1
	s, err := NewSession(test,
		WithTickInterval(time.Millisecond),
		WithAutoSubmitHook(func(*Result) {
			t.Errorf("auto-submit fired after Discard")
		}),
	)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	s.Discard()
	if s.Phase() != PhaseNotStarted {
		t.Errorf("phase after discard = %s, want not-started", s.Phase())
	}
	// Long enough that a leaked countdown would have burned through the
	// one-minute limit at 1ms per tick.
	time.Sleep(150 * time.Millisecond)
	if s.Result() != nil {
		t.Errorf("discarded session produced a result")
	}
}
