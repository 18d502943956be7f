package model

type EnrollmentStatus string

const (
	EnrollmentActive EnrollmentStatus = "ACTIVE"
)

// swagger:model Enrollment
type Enrollment struct {
	UUIDBase
	UserID   uint             `gorm:"uniqueIndex:idx_enroll_user_course;type:bigint unsigned;not null" json:"userId"`
	CourseID string           `gorm:"uniqueIndex:idx_enroll_user_course;type:varchar(36);not null" json:"courseId"`
	Course   *Course          `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	Status   EnrollmentStatus `gorm:"size:20;default:'ACTIVE'" json:"status"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
