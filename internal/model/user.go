package model

import "time"

type UserRole string

const (
	Admin   UserRole = "ADMIN"
	Student UserRole = "STUDENT"
)

// swagger:model User
type User struct {
	BaseModel
	Name              string     `gorm:"size:100;not null" json:"name"`
	Email             string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password          string     `gorm:"size:255;not null" json:"-"`
	Role              UserRole   `gorm:"size:20;default:'STUDENT'" json:"role"`
	Avatar            string     `gorm:"size:512" json:"avatar"`
	Title             string     `gorm:"size:100" json:"title"`
	Bio               string     `gorm:"type:text" json:"bio"`
	IsVerified        bool       `gorm:"default:false" json:"isVerified"`
	VerificationToken *string    `gorm:"size:64;index" json:"-"`
	ResetToken        *string    `gorm:"size:64;index" json:"-"`
	ResetTokenExpiry  *time.Time `json:"-"`
}

func (User) TableName() string {
	return "users"
}
