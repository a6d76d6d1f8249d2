package service

import (
	"codementor_backend/internal/model"
	"codementor_backend/internal/repository"
	"errors"
)

type CourseService struct {
	Repo *repository.CourseRepository
}

func NewCourseService(repo *repository.CourseRepository) *CourseService {
	return &CourseService{Repo: repo}
}

type CourseReq struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Language    *string `json:"language"`
	Difficulty  *string `json:"difficulty"`
	ImageURL    *string `json:"imageUrl"`
	Published   *bool   `json:"published"`
	Order       *int    `json:"order"`
}

func (s *CourseService) CreateCourse(authorID uint, req CourseReq) (*model.Course, error) {
	if req.Title == nil || *req.Title == "" {
		return nil, errors.New("title is required")
	}
	course := &model.Course{
		Title:      *req.Title,
		AuthorID:   authorID,
		Difficulty: "beginner",
	}
	applyCourseReq(course, req)
	if err := s.Repo.Create(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) UpdateCourse(courseID uint, req CourseReq) (*model.Course, error) {
	course, err := s.Repo.FindByID(courseID)
	if err != nil {
		return nil, err
	}
	applyCourseReq(course, req)
	if err := s.Repo.Update(course); err != nil {
		return nil, err
	}
	return course, nil
}

func applyCourseReq(course *model.Course, req CourseReq) {
	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Language != nil {
		course.Language = *req.Language
	}
	if req.Difficulty != nil {
		course.Difficulty = *req.Difficulty
	}
	if req.ImageURL != nil {
		course.ImageURL = *req.ImageURL
	}
	if req.Published != nil {
		course.Published = *req.Published
	}
	if req.Order != nil {
		course.Order = *req.Order
	}
}

func (s *CourseService) GetCourse(courseID uint) (*model.Course, error) {
	return s.Repo.FindByID(courseID)
}

func (s *CourseService) ListPublished(language string, page, limit int) ([]model.Course, int64, error) {
	return s.Repo.FindPublished(language, page, limit)
}

func (s *CourseService) DeleteCourse(courseID uint) error {
	return s.Repo.Delete(courseID)
}

type LessonReq struct {
	Title       *string `json:"title"`
	Content     *string `json:"content"`
	VideoURL    *string `json:"videoUrl"`
	Duration    *int    `json:"duration"`
	Order       *int    `json:"order"`
	XPReward    *int    `json:"xpReward"`
	IsPublished *bool   `json:"isPublished"`
}

func (s *CourseService) AddLesson(courseID uint, req LessonReq) (*model.Lesson, error) {
	if _, err := s.Repo.FindByID(courseID); err != nil {
		return nil, err
	}
	if req.Title == nil || *req.Title == "" {
		return nil, errors.New("title is required")
	}
	lesson := &model.Lesson{
		CourseID: courseID,
		Title:    *req.Title,
		XPReward: 10,
	}
	applyLessonReq(lesson, req)
	if err := s.Repo.CreateLesson(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *CourseService) UpdateLesson(lessonID uint, req LessonReq) (*model.Lesson, error) {
	lesson, err := s.Repo.FindLessonByID(lessonID)
	if err != nil {
		return nil, err
	}
	applyLessonReq(lesson, req)
	if err := s.Repo.UpdateLesson(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func applyLessonReq(lesson *model.Lesson, req LessonReq) {
	if req.Title != nil {
		lesson.Title = *req.Title
	}
	if req.Content != nil {
		lesson.Content = *req.Content
	}
	if req.VideoURL != nil {
		lesson.VideoURL = *req.VideoURL
	}
	if req.Duration != nil {
		lesson.Duration = *req.Duration
	}
	if req.Order != nil {
		lesson.Order = *req.Order
	}
	if req.XPReward != nil {
		lesson.XPReward = *req.XPReward
	}
	if req.IsPublished != nil {
		lesson.IsPublished = *req.IsPublished
	}
}

func (s *CourseService) GetLesson(lessonID uint) (*model.Lesson, error) {
	return s.Repo.FindLessonByID(lessonID)
}

func (s *CourseService) DeleteLesson(lessonID uint) error {
	return s.Repo.DeleteLesson(lessonID)
}
