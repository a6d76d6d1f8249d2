package util

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailRegistered      = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrCourseNotFound       = errors.New("course not found")
	ErrLessonNotFound       = errors.New("lesson not found")
	ErrChallengeNotFound    = errors.New("challenge not found")
	ErrTestNotFound         = errors.New("test not found")
	ErrTestNotPublished     = errors.New("test not published or not accessible")
	ErrAttemptNotFound      = errors.New("attempt not found")
	ErrAttemptNotYours      = errors.New("attempt belongs to another user")
	ErrTestAlreadySubmitted = errors.New("test already submitted")
	ErrPathNotFound         = errors.New("learning path not found")
)
