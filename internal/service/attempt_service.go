package service

import (
	"codementor_backend/internal/exam"
	"codementor_backend/internal/model"
	"codementor_backend/internal/util"
	"codementor_backend/pkg/logger"
	"codementor_backend/pkg/monitoring"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

// AttemptService hosts live test sessions in memory, one per attempt id.
// A session exists from start until submit or abandon; the persisted
// TestAttempt row is written only at the end, by us or by the countdown.
type AttemptService struct {
	TestSvc *TestService

	mu       sync.Mutex
	sessions map[string]*liveAttempt
}

type liveAttempt struct {
	session   *exam.Session
	test      *model.Test
	userID    uint
	startedAt time.Time
}

func NewAttemptService(testSvc *TestService) *AttemptService {
	return &AttemptService{
		TestSvc:  testSvc,
		sessions: make(map[string]*liveAttempt),
	}
}

// AttemptState is the client view of a live session. Correct answers are
// never included.
type AttemptState struct {
	AttemptID        string          `json:"attemptId"`
	TestID           uint            `json:"testId"`
	Phase            exam.Phase      `json:"phase"`
	CurrentIndex     int             `json:"currentIndex"`
	QuestionCount    int             `json:"questionCount"`
	RemainingSeconds int             `json:"remainingSeconds"`
	RemainingClock   string          `json:"remainingClock"`
	Progress         float64         `json:"progress"`
	AllAnswered      bool            `json:"allAnswered"`
	Flagged          []string        `json:"flagged"`
	Answers          json.RawMessage `json:"answers"`
}

// Start opens a session against a published test and returns its attempt id.
func (s *AttemptService) Start(userID, testID uint) (string, *AttemptState, error) {
	test, err := s.TestSvc.GetPublishedTest(testID)
	if err != nil {
		return "", nil, err
	}
	examTest, err := ToExamTest(test)
	if err != nil {
		return "", nil, err
	}

	attemptID := model.GenerateUUID()
	startedAt := time.Now()

	session, err := exam.NewSession(examTest,
		exam.WithAutoSubmitHook(func(result *exam.Result) {
			s.onExpiry(attemptID, result)
		}),
	)
	if err != nil {
		return "", nil, err
	}
	if err := session.Start(); err != nil {
		return "", nil, err
	}

	live := &liveAttempt{
		session:   session,
		test:      test,
		userID:    userID,
		startedAt: startedAt,
	}

	s.mu.Lock()
	s.sessions[attemptID] = live
	s.mu.Unlock()
	monitoring.ActiveTestSessions.Inc()

	return attemptID, s.stateOf(attemptID, live), nil
}

// onExpiry persists the countdown's forced submission. The session is
// already submitted when this runs; here we only record the outcome.
func (s *AttemptService) onExpiry(attemptID string, result *exam.Result) {
	s.mu.Lock()
	live, ok := s.sessions[attemptID]
	if ok {
		delete(s.sessions, attemptID)
	}
	s.mu.Unlock()
	if !ok {
		return
	}
	monitoring.ActiveTestSessions.Dec()
	monitoring.ObserveSubmission("timer", result.Passed)

	if _, err := s.TestSvc.PersistResult(live.userID, live.test, result, model.AttemptExpired, live.startedAt); err != nil {
		logger.Log.Error("failed to persist expired attempt",
			zap.String("attempt", attemptID), zap.Error(err))
	}
	logger.Log.Info("attempt auto-submitted on expiry",
		zap.String("attempt", attemptID),
		zap.Int("score", result.Score),
		zap.Bool("passed", result.Passed))
}

func (s *AttemptService) get(userID uint, attemptID string) (*liveAttempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	live, ok := s.sessions[attemptID]
	if !ok {
		return nil, util.ErrAttemptNotFound
	}
	if live.userID != userID {
		return nil, util.ErrAttemptNotYours
	}
	return live, nil
}

func (s *AttemptService) State(userID uint, attemptID string) (*AttemptState, error) {
	live, err := s.get(userID, attemptID)
	if err != nil {
		return nil, err
	}
	return s.stateOf(attemptID, live), nil
}

func (s *AttemptService) stateOf(attemptID string, live *liveAttempt) *AttemptState {
	session := live.session
	answers, err := exam.MarshalAnswers(session.Answers())
	if err != nil {
		logger.Log.Warn("failed to marshal answers", zap.String("attempt", attemptID), zap.Error(err))
	}
	return &AttemptState{
		AttemptID:        attemptID,
		TestID:           live.test.ID,
		Phase:            session.Phase(),
		CurrentIndex:     session.CurrentIndex(),
		QuestionCount:    len(session.Test().Questions),
		RemainingSeconds: session.RemainingSeconds(),
		RemainingClock:   session.RemainingClock(),
		Progress:         session.Progress(),
		AllAnswered:      session.AllAnswered(),
		Flagged:          session.Flagged(),
		Answers:          answers,
	}
}

func (s *AttemptService) SelectSingle(userID uint, attemptID, questionID string, option int) error {
	live, err := s.get(userID, attemptID)
	if err != nil {
		return err
	}
	return live.session.SelectSingle(questionID, option)
}

func (s *AttemptService) ToggleMulti(userID uint, attemptID, questionID string, option int) error {
	live, err := s.get(userID, attemptID)
	if err != nil {
		return err
	}
	return live.session.ToggleMulti(questionID, option)
}

func (s *AttemptService) GoTo(userID uint, attemptID string, index int) error {
	live, err := s.get(userID, attemptID)
	if err != nil {
		return err
	}
	return live.session.GoTo(index)
}

func (s *AttemptService) Next(userID uint, attemptID string) error {
	live, err := s.get(userID, attemptID)
	if err != nil {
		return err
	}
	live.session.Next()
	return nil
}

func (s *AttemptService) Previous(userID uint, attemptID string) error {
	live, err := s.get(userID, attemptID)
	if err != nil {
		return err
	}
	live.session.Previous()
	return nil
}

func (s *AttemptService) ToggleFlag(userID uint, attemptID string) error {
	live, err := s.get(userID, attemptID)
	if err != nil {
		return err
	}
	return live.session.ToggleFlag()
}

// Submit scores the session and persists the attempt. If the countdown won
// the race and already submitted, the stored result is returned and the
// expiry path has persisted the row.
func (s *AttemptService) Submit(userID uint, attemptID string) (*exam.Result, error) {
	live, err := s.get(userID, attemptID)
	if err != nil {
		return nil, err
	}

	result, err := live.session.Submit()
	if err != nil {
		return nil, err
	}

	// The map entry is the persistence claim: whoever removes it writes
	// the attempt row. This settles the race with the expiring countdown.
	s.mu.Lock()
	_, claimed := s.sessions[attemptID]
	if claimed {
		delete(s.sessions, attemptID)
	}
	s.mu.Unlock()
	if !claimed {
		return result, nil
	}
	monitoring.ActiveTestSessions.Dec()
	monitoring.ObserveSubmission("user", result.Passed)

	if _, err := s.TestSvc.PersistResult(userID, live.test, result, model.AttemptSubmitted, live.startedAt); err != nil {
		return nil, err
	}
	return result, nil
}

// Abandon discards a session without scoring it.
func (s *AttemptService) Abandon(userID uint, attemptID string) error {
	live, err := s.get(userID, attemptID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if _, ok := s.sessions[attemptID]; ok {
		delete(s.sessions, attemptID)
		monitoring.ActiveTestSessions.Dec()
	}
	s.mu.Unlock()

	live.session.Discard()
	logger.Log.Info("attempt abandoned", zap.String("attempt", attemptID))
	return nil
}
