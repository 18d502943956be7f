package util

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailRegistered    = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrPermissionDenied   = errors.New("permission denied")

	ErrCourseNotFound     = errors.New("course not found")
	ErrUnitNotFound       = errors.New("unit not found")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrNotEnrolled        = errors.New("you are not enrolled in this course")
	ErrAlreadyEnrolled    = errors.New("already enrolled")
	ErrCourseNotFree      = errors.New("this course requires payment")
	ErrCourseFree         = errors.New("this course is free, use direct enrollment")
	ErrPaymentFailed      = errors.New("payment verification failed")

	ErrExamLocked        = errors.New("exam is locked until the rest of the course is completed")
	ErrInvalidContent    = errors.New("invalid assessment content")
	ErrInvalidAnswers    = errors.New("invalid answer payload")
	ErrNotDirectComplete = errors.New("this unit type must be completed through a submission")
)
