package repository

import (
	"colpy_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// MarkCompleted 幂等 upsert：重复的完成信号收敛到 isCompleted=true
func (r *ProgressRepository) MarkCompleted(db *gorm.DB, userID uint, unitID string) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "unit_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"is_completed": true}),
	}).Create(&model.Progress{
		UserID:      userID,
		UnitID:      unitID,
		IsCompleted: true,
	}).Error
}

// CompletedUnitIDs 用户在给定单元集合内已完成的单元
func (r *ProgressRepository) CompletedUnitIDs(userID uint, unitIDs []string) ([]string, error) {
	if len(unitIDs) == 0 {
		return nil, nil
	}
	var ids []string
	err := r.DB.Model(&model.Progress{}).
		Where("user_id = ? AND is_completed = ? AND unit_id IN ?", userID, true, unitIDs).
		Pluck("unit_id", &ids).Error
	return ids, err
}

func (r *ProgressRepository) CountCompleted(userID uint, unitIDs []string) (int64, error) {
	if len(unitIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := r.DB.Model(&model.Progress{}).
		Where("user_id = ? AND is_completed = ? AND unit_id IN ?", userID, true, unitIDs).
		Count(&count).Error
	return count, err
}
