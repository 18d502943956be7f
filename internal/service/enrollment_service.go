package service

import (
	"errors"

	"colpy_backend/internal/model"
	"colpy_backend/internal/repository"
	"colpy_backend/internal/util"

	"gorm.io/gorm"
)

type EnrollmentService struct {
	EnrollmentRepo *repository.EnrollmentRepository
	CourseRepo     *repository.CourseRepository
	Progress       *ProgressService
}

func NewEnrollmentService(
	enrollmentRepo *repository.EnrollmentRepository,
	courseRepo *repository.CourseRepository,
	progress *ProgressService,
) *EnrollmentService {
	return &EnrollmentService{
		EnrollmentRepo: enrollmentRepo,
		CourseRepo:     courseRepo,
		Progress:       progress,
	}
}

// Enroll 免费课程直接报名；付费课程必须走 Paystack 验证通道
func (s *EnrollmentService) Enroll(userID uint, courseID string) (*model.Enrollment, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	if course.Price > 0 {
		return nil, util.ErrCourseNotFree
	}

	enrolled, err := s.EnrollmentRepo.IsEnrolled(userID, courseID)
	if err != nil {
		return nil, err
	}
	if enrolled {
		return nil, util.ErrAlreadyEnrolled
	}

	enrollment := &model.Enrollment{
		UserID:   userID,
		CourseID: courseID,
		Status:   model.EnrollmentActive,
	}
	if err := s.EnrollmentRepo.Create(enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

func (s *EnrollmentService) IsEnrolled(userID uint, courseID string) (bool, error) {
	return s.EnrollmentRepo.IsEnrolled(userID, courseID)
}

// EnrollmentWithProgress 我的课程列表项，带完成度百分比
type EnrollmentWithProgress struct {
	model.Enrollment
	Progress int `json:"progress"`
}

func (s *EnrollmentService) MyEnrollments(userID uint) ([]EnrollmentWithProgress, error) {
	enrollments, err := s.EnrollmentRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	result := make([]EnrollmentWithProgress, 0, len(enrollments))
	for _, e := range enrollments {
		pct, err := s.Progress.CoursePercentage(userID, e.CourseID)
		if err != nil {
			return nil, err
		}
		result = append(result, EnrollmentWithProgress{Enrollment: e, Progress: pct})
	}
	return result, nil
}
