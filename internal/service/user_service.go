package service

import (
	"errors"

	"colpy_backend/internal/model"
	"colpy_backend/internal/repository"
	"colpy_backend/internal/util"

	"gorm.io/gorm"
)

type UserService struct {
	UserRepo       *repository.UserRepository
	EnrollmentRepo *repository.EnrollmentRepository
	Progress       *ProgressService
}

func NewUserService(
	userRepo *repository.UserRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	progress *ProgressService,
) *UserService {
	return &UserService{
		UserRepo:       userRepo,
		EnrollmentRepo: enrollmentRepo,
		Progress:       progress,
	}
}

type ProfileInput struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Title  string `json:"title"`
	Bio    string `json:"bio"`
}

func (s *UserService) UpdateProfile(userID uint, in *ProfileInput) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	if in.Name != "" {
		user.Name = in.Name
	}
	user.Avatar = in.Avatar
	user.Title = in.Title
	user.Bio = in.Bio

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Facilitator 公开导师资料：最早注册的管理员
func (s *UserService) Facilitator() (*model.User, error) {
	user, err := s.UserRepo.FirstAdmin()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// StudentOverview 管理端学生名册条目
type StudentOverview struct {
	ID      uint            `json:"id"`
	Name    string          `json:"name"`
	Email   string          `json:"email"`
	Courses []StudentCourse `json:"courses"`
}

type StudentCourse struct {
	CourseID string `json:"courseId"`
	Title    string `json:"title"`
	Progress int    `json:"progress"`
}

// ListStudents 学生名册，每门已报名课程带完成度
func (s *UserService) ListStudents() ([]StudentOverview, error) {
	students, err := s.UserRepo.ListByRole(model.Student)
	if err != nil {
		return nil, err
	}

	result := make([]StudentOverview, 0, len(students))
	for _, student := range students {
		enrollments, err := s.EnrollmentRepo.ListByUser(student.ID)
		if err != nil {
			return nil, err
		}

		courses := make([]StudentCourse, 0, len(enrollments))
		for _, e := range enrollments {
			pct, err := s.Progress.CoursePercentage(student.ID, e.CourseID)
			if err != nil {
				return nil, err
			}
			title := ""
			if e.Course != nil {
				title = e.Course.Title
			}
			courses = append(courses, StudentCourse{
				CourseID: e.CourseID,
				Title:    title,
				Progress: pct,
			})
		}

		result = append(result, StudentOverview{
			ID:      student.ID,
			Name:    student.Name,
			Email:   student.Email,
			Courses: courses,
		})
	}
	return result, nil
}
