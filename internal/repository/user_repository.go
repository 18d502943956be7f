package repository

import (
	"time"

	"colpy_backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *UserRepository) FindByVerificationToken(token string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("verification_token = ?", token).First(&user).Error
	return &user, err
}

func (r *UserRepository) FindByResetToken(token string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("reset_token = ? AND reset_token_expiry > ?", token, time.Now()).First(&user).Error
	return &user, err
}

func (r *UserRepository) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

func (r *UserRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.User{}).Count(&count).Error
	return count, err
}

func (r *UserRepository) ListByRole(role model.UserRole) ([]model.User, error) {
	var users []model.User
	err := r.DB.Where("role = ?", role).Order("created_at desc").Find(&users).Error
	return users, err
}

// FirstAdmin 平台导师资料页使用：取最早注册的管理员
func (r *UserRepository) FirstAdmin() (*model.User, error) {
	var user model.User
	err := r.DB.Where("role = ?", model.Admin).Order("created_at asc").First(&user).Error
	return &user, err
}
