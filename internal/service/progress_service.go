package service

import (
	"codementor_backend/internal/model"
	"codementor_backend/internal/repository"
	"codementor_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
)

type ProgressService struct {
	Repo     *repository.ProgressRepository
	UserRepo *repository.UserRepository
}

func NewProgressService(repo *repository.ProgressRepository, userRepo *repository.UserRepository) *ProgressService {
	return &ProgressService{Repo: repo, UserRepo: userRepo}
}

// MarkCompleted records a completion and awards XP exactly once per
// (user, item): re-completing is a no-op. Returns whether this call was
// the first completion.
func (s *ProgressService) MarkCompleted(userID uint, itemType string, itemID uint, xp int) (bool, error) {
	progress := &model.UserProgress{
		UserID:      userID,
		ItemType:    itemType,
		ItemID:      itemID,
		Completed:   true,
		XPEarned:    xp,
		CompletedAt: time.Now(),
	}
	created, err := s.Repo.Upsert(progress)
	if err != nil {
		return false, err
	}
	if !created {
		return false, nil
	}
	if xp > 0 {
		if err := s.UserRepo.AddXP(userID, xp); err != nil {
			logger.Log.Warn("failed to award xp",
				zap.Uint("user", userID),
				zap.String("itemType", itemType),
				zap.Uint("item", itemID),
				zap.Error(err))
		}
	}
	return true, nil
}

func (s *ProgressService) GetUserProgress(userID uint) ([]model.UserProgress, error) {
	return s.Repo.FindByUser(userID)
}

func (s *ProgressService) GetUserProgressByType(userID uint, itemType string) ([]model.UserProgress, error) {
	return s.Repo.FindByUserAndType(userID, itemType)
}
