package exam

import "errors"

var (
	ErrNoQuestions      = errors.New("test has no questions")
	ErrInvalidQuestion  = errors.New("invalid question")
	ErrUnknownQuestion  = errors.New("unknown question id")
	ErrOptionOutOfRange = errors.New("option index out of range")
	ErrWrongKind        = errors.New("operation does not match question type")
	ErrNotStarted       = errors.New("attempt not started")
	ErrAlreadyStarted   = errors.New("attempt already started")
	ErrIndexOutOfRange  = errors.New("question index out of range")
)
