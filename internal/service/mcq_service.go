package service

import (
	"codementor_backend/internal/model"
	"codementor_backend/internal/repository"
	"encoding/json"
	"errors"
	"fmt"
)

type MCQService struct {
	Repo        *repository.MCQRepository
	ProgressSvc *ProgressService
}

func NewMCQService(repo *repository.MCQRepository, progressSvc *ProgressService) *MCQService {
	return &MCQService{Repo: repo, ProgressSvc: progressSvc}
}

type MCQReq struct {
	Question    *string   `json:"question"`
	Options     *[]string `json:"options"`
	Answer      *int      `json:"answer"`
	Explanation *string   `json:"explanation"`
	Language    *string   `json:"language"`
	Difficulty  *string   `json:"difficulty"`
	LessonID    *uint     `json:"lessonId"`
	XPReward    *int      `json:"xpReward"`
}

func (s *MCQService) CreateMCQ(req MCQReq) (*model.MCQ, error) {
	if req.Question == nil || *req.Question == "" {
		return nil, errors.New("question is required")
	}
	if req.Options == nil || len(*req.Options) < 2 {
		return nil, errors.New("at least two options are required")
	}
	if req.Answer == nil || *req.Answer < 0 || *req.Answer >= len(*req.Options) {
		return nil, errors.New("answer must index an option")
	}

	options, err := json.Marshal(*req.Options)
	if err != nil {
		return nil, err
	}
	mcq := &model.MCQ{
		Question:   *req.Question,
		Options:    options,
		Answer:     *req.Answer,
		Difficulty: "beginner",
		XPReward:   5,
	}
	if req.Explanation != nil {
		mcq.Explanation = *req.Explanation
	}
	if req.Language != nil {
		mcq.Language = *req.Language
	}
	if req.Difficulty != nil {
		mcq.Difficulty = *req.Difficulty
	}
	if req.LessonID != nil {
		mcq.LessonID = req.LessonID
	}
	if req.XPReward != nil {
		mcq.XPReward = *req.XPReward
	}
	if err := s.Repo.Create(mcq); err != nil {
		return nil, err
	}
	return mcq, nil
}

func (s *MCQService) GetMCQ(id uint) (*model.MCQ, error) {
	return s.Repo.FindByID(id)
}

func (s *MCQService) GetPracticeSet(language, difficulty string, count int) ([]model.MCQ, error) {
	if count <= 0 || count > 50 {
		count = 10
	}
	return s.Repo.FindRandom(language, difficulty, count)
}

func (s *MCQService) GetByLesson(lessonID uint) ([]model.MCQ, error) {
	return s.Repo.FindByLesson(lessonID)
}

type MCQCheckResult struct {
	Correct     bool   `json:"correct"`
	Answer      int    `json:"answer"`
	Explanation string `json:"explanation"`
	XPEarned    int    `json:"xpEarned"`
}

// CheckAnswer grades a single practice question. The key is revealed only
// after an answer is submitted, and XP is granted on first correct answer.
func (s *MCQService) CheckAnswer(userID, mcqID uint, selected int) (*MCQCheckResult, error) {
	mcq, err := s.Repo.FindByID(mcqID)
	if err != nil {
		return nil, err
	}

	var options []string
	if err := json.Unmarshal(mcq.Options, &options); err != nil {
		return nil, fmt.Errorf("mcq %d has malformed options: %w", mcqID, err)
	}
	if selected < 0 || selected >= len(options) {
		return nil, errors.New("selected option out of range")
	}

	result := &MCQCheckResult{
		Correct:     selected == mcq.Answer,
		Answer:      mcq.Answer,
		Explanation: mcq.Explanation,
	}
	if result.Correct {
		awarded, err := s.ProgressSvc.MarkCompleted(userID, "mcq", mcq.ID, mcq.XPReward)
		if err == nil && awarded {
			result.XPEarned = mcq.XPReward
		}
	}
	return result, nil
}

func (s *MCQService) DeleteMCQ(id uint) error {
	return s.Repo.Delete(id)
}
