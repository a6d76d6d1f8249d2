package service

import (
	"codementor_backend/internal/exam"
	"codementor_backend/internal/model"
	"codementor_backend/internal/repository"
	"codementor_backend/internal/util"
	"codementor_backend/pkg/logger"
	"codementor_backend/pkg/monitoring"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	publishedTestsCacheKey = "tests:published"
	publishedTestsCacheTTL = 5 * time.Minute
)

type TestService struct {
	Repo        *repository.TestRepository
	AttemptRepo *repository.TestAttemptRepository
	UserRepo    *repository.UserRepository
	Redis       *redis.Client
}

func NewTestService(repo *repository.TestRepository, attemptRepo *repository.TestAttemptRepository, userRepo *repository.UserRepository, rdb *redis.Client) *TestService {
	return &TestService{
		Repo:        repo,
		AttemptRepo: attemptRepo,
		UserRepo:    userRepo,
		Redis:       rdb,
	}
}

type TestQuestionReq struct {
	ID             string   `json:"id"`
	Type           string   `json:"type" binding:"required"`
	Question       string   `json:"question" binding:"required"`
	Options        []string `json:"options" binding:"required"`
	CorrectAnswer  *int     `json:"correctAnswer,omitempty"`
	CorrectAnswers []int    `json:"correctAnswers,omitempty"`
	Code           string   `json:"code,omitempty"`
	Language       string   `json:"language,omitempty"`
	Points         int      `json:"points"`
	Explanation    string   `json:"explanation,omitempty"`
}

type TestReq struct {
	Title        *string            `json:"title"`
	Description  *string            `json:"description"`
	Language     *string            `json:"language"`
	Difficulty   *string            `json:"difficulty"`
	TimeLimit    *int               `json:"timeLimit"`
	PassingScore *int               `json:"passingScore"`
	XPReward     *int               `json:"xpReward"`
	Published    *bool              `json:"published"`
	Questions    *[]TestQuestionReq `json:"questions"`
}

// CreateTest validates the assembled definition with the exam rules before
// anything is written, so a malformed test never reaches the table.
func (s *TestService) CreateTest(authorID uint, req TestReq) (*model.Test, error) {
	if req.Title == nil || *req.Title == "" {
		return nil, fmt.Errorf("%w: title is required", exam.ErrInvalidQuestion)
	}

	test := &model.Test{
		Title:        *req.Title,
		AuthorID:     authorID,
		TimeLimit:    30,
		PassingScore: 70,
		XPReward:     50,
	}
	applyTestReq(test, req)

	if req.Questions != nil {
		rows, err := questionRows(0, *req.Questions)
		if err != nil {
			return nil, err
		}
		test.Questions = rows
	}

	if _, err := ToExamTest(test); err != nil {
		return nil, err
	}

	if err := s.Repo.Create(test); err != nil {
		return nil, err
	}
	s.invalidateCache()
	return test, nil
}

func (s *TestService) UpdateTest(testID uint, req TestReq) (*model.Test, error) {
	test, err := s.Repo.FindByID(testID)
	if err != nil {
		return nil, err
	}
	applyTestReq(test, req)

	if req.Questions != nil {
		rows, err := questionRows(test.ID, *req.Questions)
		if err != nil {
			return nil, err
		}
		test.Questions = rows
	}

	if _, err := ToExamTest(test); err != nil {
		return nil, err
	}

	if err := s.Repo.Update(test); err != nil {
		return nil, err
	}
	s.invalidateCache()
	return test, nil
}

func applyTestReq(test *model.Test, req TestReq) {
	if req.Title != nil {
		test.Title = *req.Title
	}
	if req.Description != nil {
		test.Description = *req.Description
	}
	if req.Language != nil {
		test.Language = *req.Language
	}
	if req.Difficulty != nil {
		test.Difficulty = *req.Difficulty
	}
	if req.TimeLimit != nil {
		test.TimeLimit = *req.TimeLimit
	}
	if req.PassingScore != nil {
		test.PassingScore = *req.PassingScore
	}
	if req.XPReward != nil {
		test.XPReward = *req.XPReward
	}
	if req.Published != nil {
		test.Published = *req.Published
	}
}

func questionRows(testID uint, reqs []TestQuestionReq) ([]model.TestQuestion, error) {
	rows := make([]model.TestQuestion, 0, len(reqs))
	for i, q := range reqs {
		options, err := json.Marshal(q.Options)
		if err != nil {
			return nil, err
		}
		var correct json.RawMessage
		switch q.Type {
		case string(exam.TypeMCQ), string(exam.TypeCodeMCQ):
			if q.CorrectAnswer == nil {
				return nil, fmt.Errorf("%w: question %d has no correctAnswer", exam.ErrInvalidQuestion, i)
			}
			correct, _ = json.Marshal(*q.CorrectAnswer)
		case string(exam.TypeMultiSelect):
			if len(q.CorrectAnswers) == 0 {
				return nil, fmt.Errorf("%w: question %d has no correctAnswers", exam.ErrInvalidQuestion, i)
			}
			correct, _ = json.Marshal(q.CorrectAnswers)
		default:
			return nil, fmt.Errorf("%w: unknown type %q", exam.ErrInvalidQuestion, q.Type)
		}

		row := model.TestQuestion{
			TestID:        testID,
			Type:          q.Type,
			Prompt:        q.Question,
			Options:       options,
			CorrectAnswer: correct,
			Code:          q.Code,
			Language:      q.Language,
			Points:        q.Points,
			Explanation:   q.Explanation,
			Order:         i,
		}
		row.ID = q.ID
		if row.ID == "" {
			// assign here so validation sees a complete question
			row.ID = model.GenerateUUID()
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *TestService) DeleteTest(testID uint) error {
	if err := s.Repo.Delete(testID); err != nil {
		return err
	}
	s.invalidateCache()
	return nil
}

func (s *TestService) Publish(testID uint, published bool) error {
	if published {
		// Publishing re-checks validity; drafts may be saved half-built.
		test, err := s.Repo.FindByID(testID)
		if err != nil {
			return err
		}
		if _, err := ToExamTest(test); err != nil {
			return err
		}
	}
	if err := s.Repo.SetPublished(testID, published); err != nil {
		return err
	}
	s.invalidateCache()
	return nil
}

func (s *TestService) GetTest(testID uint) (*model.Test, error) {
	return s.Repo.FindByID(testID)
}

// GetPublishedTest is the student-facing read: unpublished tests 404 and
// answer keys never leave the server (CorrectAnswer is json:"-").
func (s *TestService) GetPublishedTest(testID uint) (*model.Test, error) {
	test, err := s.Repo.FindByID(testID)
	if err != nil {
		return nil, err
	}
	if !test.Published {
		return nil, util.ErrTestNotPublished
	}
	return test, nil
}

// ListPublished serves the catalogue from redis when the default page is
// requested, falling back to the database on any cache miss or error.
func (s *TestService) ListPublished(ctx context.Context, language, difficulty string, page, limit int) ([]model.Test, int64, error) {
	cacheable := language == "" && difficulty == "" && page == 1 && limit == 20
	if cacheable && s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, publishedTestsCacheKey).Bytes(); err == nil {
			var entry cachedTestPage
			if json.Unmarshal(cached, &entry) == nil {
				return entry.Tests, entry.Total, nil
			}
		}
	}

	tests, total, err := s.Repo.FindPublished(language, difficulty, page, limit)
	if err != nil {
		return nil, 0, err
	}

	if cacheable && s.Redis != nil {
		if payload, err := json.Marshal(cachedTestPage{Tests: tests, Total: total}); err == nil {
			s.Redis.Set(ctx, publishedTestsCacheKey, payload, publishedTestsCacheTTL)
		}
	}
	return tests, total, nil
}

type cachedTestPage struct {
	Tests []model.Test `json:"tests"`
	Total int64        `json:"total"`
}

func (s *TestService) invalidateCache() {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(context.Background(), publishedTestsCacheKey).Err(); err != nil {
		logger.Log.Warn("failed to invalidate test cache", zap.Error(err))
	}
}

// SubmitTest is the stateless grading path: the client sends every answer
// in one request and the server scores it without a live session. Missing
// or malformed answers count as unanswered rather than failing the call.
func (s *TestService) SubmitTest(userID, testID uint, raw []exam.RawAnswer) (*exam.Result, *model.TestAttempt, error) {
	test, err := s.GetPublishedTest(testID)
	if err != nil {
		return nil, nil, err
	}
	examTest, err := ToExamTest(test)
	if err != nil {
		return nil, nil, err
	}

	byID := make(map[string]exam.RawAnswer, len(raw))
	for _, a := range raw {
		byID[a.QuestionID] = a
	}
	answers := exam.DecodeAnswers(examTest, byID)

	result, err := exam.Score(examTest, answers)
	if err != nil {
		return nil, nil, err
	}

	attempt, err := s.PersistResult(userID, test, result, model.AttemptSubmitted, time.Now())
	if err != nil {
		return nil, nil, err
	}
	monitoring.ObserveSubmission("user", result.Passed)
	return result, attempt, nil
}

// PersistResult writes the attempt row and awards XP on a pass. Shared by
// the stateless submit and the session-driven one.
func (s *TestService) PersistResult(userID uint, test *model.Test, result *exam.Result, status model.AttemptStatus, startedAt time.Time) (*model.TestAttempt, error) {
	breakdown, err := json.Marshal(result.QuestionResults)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	attempt := &model.TestAttempt{
		TestID:          test.ID,
		UserID:          userID,
		Status:          status,
		Score:           result.Score,
		TotalPoints:     result.TotalPoints,
		EarnedPoints:    result.EarnedPoints,
		Passed:          result.Passed,
		QuestionResults: breakdown,
		StartedAt:       startedAt,
		CompletedAt:     &now,
	}
	if err := s.AttemptRepo.Create(attempt); err != nil {
		return nil, err
	}

	if result.Passed && test.XPReward > 0 {
		// XP only on the first pass of a test.
		prior, err := s.AttemptRepo.FindByUserAndTest(userID, test.ID)
		if err == nil && !hasPriorPass(prior, attempt.ID) {
			if err := s.UserRepo.AddXP(userID, test.XPReward); err != nil {
				logger.Log.Warn("failed to award xp", zap.Uint("user", userID), zap.Error(err))
			}
		}
	}
	return attempt, nil
}

func hasPriorPass(attempts []model.TestAttempt, excludeID string) bool {
	for _, a := range attempts {
		if a.ID != excludeID && a.Passed {
			return true
		}
	}
	return false
}

func (s *TestService) ListAttempts(userID uint, page, limit int) ([]model.TestAttempt, int64, error) {
	return s.AttemptRepo.FindByUser(userID, page, limit)
}

func (s *TestService) GetAttempt(userID uint, attemptID string) (*model.TestAttempt, error) {
	attempt, err := s.AttemptRepo.FindByID(attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.UserID != userID {
		return nil, util.ErrAttemptNotYours
	}
	return attempt, nil
}

// ToExamTest converts stored rows into the in-memory definition the exam
// package validates and scores.
func ToExamTest(test *model.Test) (*exam.Test, error) {
	questions := make([]exam.Question, 0, len(test.Questions))
	for _, row := range test.Questions {
		q, err := toExamQuestion(row)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	examTest := &exam.Test{
		ID:               test.ID,
		Title:            test.Title,
		Description:      test.Description,
		Language:         test.Language,
		Difficulty:       test.Difficulty,
		TimeLimitMinutes: test.TimeLimit,
		PassingScore:     test.PassingScore,
		Questions:        questions,
	}
	if err := exam.ValidateTest(examTest); err != nil {
		return nil, err
	}
	return examTest, nil
}

func toExamQuestion(row model.TestQuestion) (exam.Question, error) {
	var options []string
	if err := json.Unmarshal(row.Options, &options); err != nil {
		return nil, fmt.Errorf("%w: question %s options: %v", exam.ErrInvalidQuestion, row.ID, err)
	}

	switch exam.QuestionType(row.Type) {
	case exam.TypeMCQ, exam.TypeCodeMCQ:
		var correct int
		if err := json.Unmarshal(row.CorrectAnswer, &correct); err != nil {
			return nil, fmt.Errorf("%w: question %s correctAnswer: %v", exam.ErrInvalidQuestion, row.ID, err)
		}
		mcq := exam.MCQQuestion{
			QuestionID:    row.ID,
			Text:          row.Prompt,
			PointValue:    row.Points,
			Options:       options,
			CorrectOption: correct,
			Explanation:   row.Explanation,
		}
		if exam.QuestionType(row.Type) == exam.TypeCodeMCQ {
			return exam.CodeMCQQuestion{MCQQuestion: mcq, Code: row.Code, Language: row.Language}, nil
		}
		return mcq, nil
	case exam.TypeMultiSelect:
		var correct []int
		if err := json.Unmarshal(row.CorrectAnswer, &correct); err != nil {
			return nil, fmt.Errorf("%w: question %s correctAnswers: %v", exam.ErrInvalidQuestion, row.ID, err)
		}
		return exam.MultiSelectQuestion{
			QuestionID:     row.ID,
			Text:           row.Prompt,
			PointValue:     row.Points,
			Options:        options,
			CorrectOptions: correct,
			Explanation:    row.Explanation,
		}, nil
	default:
		return nil, fmt.Errorf("%w: unknown type %q", exam.ErrInvalidQuestion, row.Type)
	}
}
