package repository

import (
	"colpy_backend/internal/model"

	"gorm.io/gorm"
)

type SubmissionRepository struct {
	DB *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

func (r *SubmissionRepository) Create(sub *model.Submission) error {
	return r.DB.Create(sub).Error
}

func (r *SubmissionRepository) FindByID(id string) (*model.Submission, error) {
	var sub model.Submission
	err := r.DB.Preload("User").Preload("Unit").First(&sub, "id = ?", id).Error
	return &sub, err
}

func (r *SubmissionRepository) Update(sub *model.Submission) error {
	return r.DB.Save(sub).Error
}

// ListByUserAndUnit 某用户在某单元的全部作答，新在前
func (r *SubmissionRepository) ListByUserAndUnit(userID uint, unitID string) ([]model.Submission, error) {
	var subs []model.Submission
	err := r.DB.Where("user_id = ? AND unit_id = ?", userID, unitID).
		Order("created_at desc").Find(&subs).Error
	return subs, err
}

func (r *SubmissionRepository) ListByUnit(unitID string) ([]model.Submission, error) {
	var subs []model.Submission
	err := r.DB.Preload("User").Where("unit_id = ?", unitID).
		Order("created_at desc").Find(&subs).Error
	return subs, err
}

// ListPending 管理端人工评分队列
func (r *SubmissionRepository) ListPending() ([]model.Submission, error) {
	var subs []model.Submission
	err := r.DB.Preload("User").Preload("Unit").
		Where("status = ?", model.SubmissionPending).
		Order("created_at desc").Find(&subs).Error
	return subs, err
}
