package model

import "encoding/json"

type SubmissionStatus string

const (
	SubmissionPending   SubmissionStatus = "PENDING"
	SubmissionCompleted SubmissionStatus = "COMPLETED"
)

// Submission 一次作答记录；历史记录按 createdAt 排列构成尝试次数
// score 在 PENDING（待人工评分）时为空，COMPLETED 后不再改动
// swagger:model Submission
type Submission struct {
	UUIDBase
	UserID   uint             `gorm:"index:idx_sub_user_unit;type:bigint unsigned;not null" json:"userId"`
	User     *User            `gorm:"foreignKey:UserID" json:"user,omitempty"`
	UnitID   string           `gorm:"index:idx_sub_user_unit;type:varchar(36);not null" json:"unitId"`
	Unit     *Unit            `gorm:"foreignKey:UnitID" json:"unit,omitempty"`
	Content  json.RawMessage  `gorm:"type:json" json:"content"`
	Score    *int             `json:"score"`
	Status   SubmissionStatus `gorm:"size:20;default:'PENDING'" json:"status"`
	Feedback string           `gorm:"type:text" json:"feedback"`
}

func (Submission) TableName() string {
	return "submissions"
}
