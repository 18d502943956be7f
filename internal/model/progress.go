package model

import "time"

// Progress 用户-单元完成标记，仅作 upsert，不存在即未完成
// swagger:model Progress
type Progress struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint      `gorm:"uniqueIndex:idx_progress_user_unit;type:bigint unsigned;not null" json:"userId"`
	UnitID      string    `gorm:"uniqueIndex:idx_progress_user_unit;type:varchar(36);not null" json:"unitId"`
	IsCompleted bool      `gorm:"default:false" json:"isCompleted"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Progress) TableName() string {
	return "progress"
}
