package service

import (
	"codementor_backend/internal/model"
	"codementor_backend/internal/repository"
)

type UserService struct {
	Repo         *repository.UserRepository
	ProgressRepo *repository.ProgressRepository
	AttemptRepo  *repository.TestAttemptRepository
}

func NewUserService(repo *repository.UserRepository, progressRepo *repository.ProgressRepository, attemptRepo *repository.TestAttemptRepository) *UserService {
	return &UserService{
		Repo:         repo,
		ProgressRepo: progressRepo,
		AttemptRepo:  attemptRepo,
	}
}

func (s *UserService) GetProfile(userID uint) (*model.User, error) {
	return s.Repo.FindByID(userID)
}

type ProfileUpdate struct {
	Name     *string `json:"name"`
	Language *string `json:"language"`
	Avatar   *string `json:"avatar"`
}

func (s *UserService) UpdateProfile(userID uint, update ProfileUpdate) (*model.User, error) {
	user, err := s.Repo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Language != nil {
		user.Language = *update.Language
	}
	if update.Avatar != nil {
		user.Avatar = *update.Avatar
	}
	if err := s.Repo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

type UserStats struct {
	XP                  int   `json:"xp"`
	LessonsCompleted    int64 `json:"lessonsCompleted"`
	ChallengesCompleted int64 `json:"challengesCompleted"`
	TestsTaken          int64 `json:"testsTaken"`
}

func (s *UserService) GetStats(userID uint) (*UserStats, error) {
	user, err := s.Repo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	lessons, err := s.ProgressRepo.CountCompleted(userID, "lesson")
	if err != nil {
		return nil, err
	}
	challenges, err := s.ProgressRepo.CountCompleted(userID, "challenge")
	if err != nil {
		return nil, err
	}
	_, testsTaken, err := s.AttemptRepo.FindByUser(userID, 1, 1)
	if err != nil {
		return nil, err
	}
	return &UserStats{
		XP:                  user.XP,
		LessonsCompleted:    lessons,
		ChallengesCompleted: challenges,
		TestsTaken:          testsTaken,
	}, nil
}

func (s *UserService) Leaderboard(limit int) ([]model.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	return s.Repo.FindTopByXP(limit)
}

func (s *UserService) ListUsers(page, limit int) ([]model.User, int64, error) {
	return s.Repo.List(page, limit)
}

func (s *UserService) SetDisabled(userID uint, disabled bool) error {
	user, err := s.Repo.FindByID(userID)
	if err != nil {
		return err
	}
	user.Disabled = disabled
	return s.Repo.Update(user)
}
