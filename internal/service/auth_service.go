package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"colpy_backend/internal/config"
	"colpy_backend/internal/model"
	"colpy_backend/internal/repository"
	"colpy_backend/internal/util"
	"colpy_backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	UserRepo *repository.UserRepository
	Email    EmailSender
	Cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, email EmailSender, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Email:    email,
		Cfg:      cfg,
	}
}

type AuthResult struct {
	ID    uint           `json:"id"`
	Name  string         `json:"name"`
	Email string         `json:"email"`
	Role  model.UserRole `json:"role"`
	Token string         `json:"token"`
}

// Register 注册并直接登录。平台首个用户自动成为管理员。
func (s *AuthService) Register(name, email, password string) (*AuthResult, error) {
	_, err := s.UserRepo.FindByEmail(email)
	if err == nil {
		return nil, util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	count, err := s.UserRepo.Count()
	if err != nil {
		return nil, err
	}
	role := model.Student
	if count == 0 {
		role = model.Admin
	}

	user := &model.User{
		Name:       name,
		Email:      email,
		Password:   string(hashedPassword),
		Role:       role,
		IsVerified: true,
	}
	if err := s.UserRepo.Create(user); err != nil {
		return nil, err
	}

	go func() {
		if err := s.Email.SendWelcome(user.Email, user.Name); err != nil {
			logger.Log.Warn("welcome email failed", zap.String("email", user.Email), zap.Error(err))
		}
	}()

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
		Token: token,
	}, nil
}

func (s *AuthService) Login(email, password string) (*AuthResult, error) {
	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		return nil, util.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, util.ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
		Token: token,
	}, nil
}

func (s *AuthService) GetProfile(userID uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// VerifyEmail 邮箱验证回调。注册默认已验证，该入口保留给重新开启验证时用。
func (s *AuthService) VerifyEmail(token string) error {
	user, err := s.UserRepo.FindByVerificationToken(token)
	if err != nil {
		return util.ErrInvalidToken
	}

	user.IsVerified = true
	user.VerificationToken = nil
	return s.UserRepo.Update(user)
}

// ForgotPassword 生成一次性重置 token（1小时有效）并发邮件。
// 邮箱不存在时静默成功，避免账号枚举。
func (s *AuthService) ForgotPassword(email string) error {
	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	token, err := randomToken()
	if err != nil {
		return err
	}
	expiry := time.Now().Add(time.Hour)
	user.ResetToken = &token
	user.ResetTokenExpiry = &expiry
	if err := s.UserRepo.Update(user); err != nil {
		return err
	}

	go func() {
		if err := s.Email.SendPasswordReset(user.Email, user.Name, token); err != nil {
			logger.Log.Warn("reset email failed", zap.String("email", user.Email), zap.Error(err))
		}
	}()

	return nil
}

func (s *AuthService) ResetPassword(token, newPassword string) error {
	user, err := s.UserRepo.FindByResetToken(token)
	if err != nil {
		return util.ErrInvalidToken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.Password = string(hashedPassword)
	user.ResetToken = nil
	user.ResetTokenExpiry = nil
	return s.UserRepo.Update(user)
}

func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
