package repository

import (
	"errors"

	"colpy_backend/internal/model"

	"gorm.io/gorm"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

func (r *EnrollmentRepository) Create(enrollment *model.Enrollment) error {
	return r.DB.Create(enrollment).Error
}

func (r *EnrollmentRepository) Find(userID uint, courseID string) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error
	return &enrollment, err
}

// IsEnrolled 是否存在 ACTIVE 报名记录
func (r *EnrollmentRepository) IsEnrolled(userID uint, courseID string) (bool, error) {
	_, err := r.Find(userID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *EnrollmentRepository) ListByUser(userID uint) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.DB.Preload("Course").Where("user_id = ?", userID).
		Order("created_at desc").Find(&enrollments).Error
	return enrollments, err
}

func (r *EnrollmentRepository) ListByCourse(courseID string) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.DB.Preload("Course").Where("course_id = ?", courseID).Find(&enrollments).Error
	return enrollments, err
}
