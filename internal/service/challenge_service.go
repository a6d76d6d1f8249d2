package service

import (
	"codementor_backend/internal/model"
	"codementor_backend/internal/repository"
	"context"
	"encoding/json"
	"errors"
)

type ChallengeService struct {
	Repo        *repository.ChallengeRepository
	ProgressSvc *ProgressService
	Executor    *CodeExecutionService
}

func NewChallengeService(repo *repository.ChallengeRepository, progressSvc *ProgressService, executor *CodeExecutionService) *ChallengeService {
	return &ChallengeService{
		Repo:        repo,
		ProgressSvc: progressSvc,
		Executor:    executor,
	}
}

type ChallengeReq struct {
	Title        *string          `json:"title"`
	Description  *string          `json:"description"`
	Language     *string          `json:"language"`
	Difficulty   *string          `json:"difficulty"`
	StarterCode  *string          `json:"starterCode"`
	SolutionCode *string          `json:"solutionCode"`
	TestCases    *json.RawMessage `json:"testCases"`
	Hints        *json.RawMessage `json:"hints"`
	XPReward     *int             `json:"xpReward"`
	Published    *bool            `json:"published"`
	LessonID     *uint            `json:"lessonId"`
}

func (s *ChallengeService) CreateChallenge(req ChallengeReq) (*model.Challenge, error) {
	if req.Title == nil || *req.Title == "" {
		return nil, errors.New("title is required")
	}
	if req.Language == nil || *req.Language == "" {
		return nil, errors.New("language is required")
	}
	challenge := &model.Challenge{
		Title:      *req.Title,
		Language:   *req.Language,
		Difficulty: "beginner",
		XPReward:   25,
	}
	applyChallengeReq(challenge, req)
	if err := s.Repo.Create(challenge); err != nil {
		return nil, err
	}
	return challenge, nil
}

func (s *ChallengeService) UpdateChallenge(challengeID uint, req ChallengeReq) (*model.Challenge, error) {
	challenge, err := s.Repo.FindByID(challengeID)
	if err != nil {
		return nil, err
	}
	applyChallengeReq(challenge, req)
	if err := s.Repo.Update(challenge); err != nil {
		return nil, err
	}
	return challenge, nil
}

func applyChallengeReq(challenge *model.Challenge, req ChallengeReq) {
	if req.Title != nil {
		challenge.Title = *req.Title
	}
	if req.Description != nil {
		challenge.Description = *req.Description
	}
	if req.Language != nil {
		challenge.Language = *req.Language
	}
	if req.Difficulty != nil {
		challenge.Difficulty = *req.Difficulty
	}
	if req.StarterCode != nil {
		challenge.StarterCode = *req.StarterCode
	}
	if req.SolutionCode != nil {
		challenge.SolutionCode = *req.SolutionCode
	}
	if req.TestCases != nil {
		challenge.TestCases = *req.TestCases
	}
	if req.Hints != nil {
		challenge.Hints = *req.Hints
	}
	if req.XPReward != nil {
		challenge.XPReward = *req.XPReward
	}
	if req.Published != nil {
		challenge.Published = *req.Published
	}
	if req.LessonID != nil {
		challenge.LessonID = req.LessonID
	}
}

func (s *ChallengeService) GetChallenge(challengeID uint) (*model.Challenge, error) {
	return s.Repo.FindByID(challengeID)
}

func (s *ChallengeService) ListPublished(language, difficulty string, page, limit int) ([]model.Challenge, int64, error) {
	return s.Repo.FindPublished(language, difficulty, page, limit)
}

func (s *ChallengeService) DeleteChallenge(challengeID uint) error {
	return s.Repo.Delete(challengeID)
}

// SubmitSolution runs the code against the challenge's test cases and
// records completion (with XP) the first time every case passes.
func (s *ChallengeService) SubmitSolution(ctx context.Context, userID, challengeID uint, sourceCode string) (*ChallengeRunResult, error) {
	challenge, err := s.Repo.FindByID(challengeID)
	if err != nil {
		return nil, err
	}

	run, err := s.Executor.RunChallenge(ctx, challenge, sourceCode)
	if err != nil {
		return nil, err
	}

	if run.Passed {
		if _, err := s.ProgressSvc.MarkCompleted(userID, "challenge", challenge.ID, challenge.XPReward); err != nil {
			return nil, err
		}
	}
	return run, nil
}
