package service

import (
	"codementor_backend/internal/model"
	"codementor_backend/internal/repository"
	"encoding/json"
	"errors"
)

type LearningPathService struct {
	Repo       *repository.LearningPathRepository
	CourseRepo *repository.CourseRepository
}

func NewLearningPathService(repo *repository.LearningPathRepository, courseRepo *repository.CourseRepository) *LearningPathService {
	return &LearningPathService{Repo: repo, CourseRepo: courseRepo}
}

type LearningPathReq struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Language    *string `json:"language"`
	Difficulty  *string `json:"difficulty"`
	CourseIDs   *[]uint `json:"courseIds"`
	Published   *bool   `json:"published"`
}

func (s *LearningPathService) CreatePath(req LearningPathReq) (*model.LearningPath, error) {
	if req.Title == nil || *req.Title == "" {
		return nil, errors.New("title is required")
	}
	path := &model.LearningPath{
		Title:      *req.Title,
		Difficulty: "beginner",
	}
	if err := s.applyReq(path, req); err != nil {
		return nil, err
	}
	if err := s.Repo.Create(path); err != nil {
		return nil, err
	}
	return path, nil
}

func (s *LearningPathService) UpdatePath(pathID uint, req LearningPathReq) (*model.LearningPath, error) {
	path, err := s.Repo.FindByID(pathID)
	if err != nil {
		return nil, err
	}
	if err := s.applyReq(path, req); err != nil {
		return nil, err
	}
	if err := s.Repo.Update(path); err != nil {
		return nil, err
	}
	return path, nil
}

func (s *LearningPathService) applyReq(path *model.LearningPath, req LearningPathReq) error {
	if req.Title != nil {
		path.Title = *req.Title
	}
	if req.Description != nil {
		path.Description = *req.Description
	}
	if req.Language != nil {
		path.Language = *req.Language
	}
	if req.Difficulty != nil {
		path.Difficulty = *req.Difficulty
	}
	if req.Published != nil {
		path.Published = *req.Published
	}
	if req.CourseIDs != nil {
		// Every referenced course must exist.
		for _, id := range *req.CourseIDs {
			if _, err := s.CourseRepo.FindByID(id); err != nil {
				return err
			}
		}
		ids, err := json.Marshal(*req.CourseIDs)
		if err != nil {
			return err
		}
		path.CourseIDs = ids
	}
	return nil
}

func (s *LearningPathService) GetPath(pathID uint) (*model.LearningPath, error) {
	return s.Repo.FindByID(pathID)
}

// PathWithCourses resolves the ordered course list of one path.
type PathWithCourses struct {
	model.LearningPath
	Courses []model.Course `json:"courses"`
}

func (s *LearningPathService) GetPathWithCourses(pathID uint) (*PathWithCourses, error) {
	path, err := s.Repo.FindByID(pathID)
	if err != nil {
		return nil, err
	}
	out := &PathWithCourses{LearningPath: *path}
	if len(path.CourseIDs) == 0 {
		return out, nil
	}
	var ids []uint
	if err := json.Unmarshal(path.CourseIDs, &ids); err != nil {
		return nil, err
	}
	for _, id := range ids {
		course, err := s.CourseRepo.FindByID(id)
		if err != nil {
			continue // deleted courses drop out of the path view
		}
		out.Courses = append(out.Courses, *course)
	}
	return out, nil
}

func (s *LearningPathService) ListPublished(language string) ([]model.LearningPath, error) {
	return s.Repo.FindPublished(language)
}

func (s *LearningPathService) DeletePath(pathID uint) error {
	return s.Repo.Delete(pathID)
}
