package service

import (
	"errors"
	"fmt"

	"colpy_backend/internal/config"
	"colpy_backend/internal/model"
	"colpy_backend/internal/repository"
	"colpy_backend/internal/util"
	"colpy_backend/pkg/logger"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PaymentService struct {
	TxnRepo        *repository.TransactionRepository
	EnrollmentRepo *repository.EnrollmentRepository
	CourseRepo     *repository.CourseRepository
	Cfg            *config.PaystackConfig
	client         *resty.Client
}

func NewPaymentService(
	txnRepo *repository.TransactionRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	courseRepo *repository.CourseRepository,
	cfg *config.PaystackConfig,
) *PaymentService {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetAuthToken(cfg.SecretKey).
		SetHeader("Content-Type", "application/json")

	return &PaymentService{
		TxnRepo:        txnRepo,
		EnrollmentRepo: enrollmentRepo,
		CourseRepo:     courseRepo,
		Cfg:            cfg,
		client:         client,
	}
}

type paystackInitRequest struct {
	Email       string `json:"email"`
	Amount      int64  `json:"amount"`
	Reference   string `json:"reference"`
	CallbackURL string `json:"callback_url,omitempty"`
}

type paystackInitResponse struct {
	Status bool   `json:"status"`
	Msg    string `json:"message"`
	Data   struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

type paystackVerifyResponse struct {
	Status bool   `json:"status"`
	Msg    string `json:"message"`
	Data   struct {
		Status    string `json:"status"`
		Reference string `json:"reference"`
		Amount    int64  `json:"amount"`
	} `json:"data"`
}

// InitResult 支付初始化返回：前端跳转 authorizationUrl 完成付款
type InitResult struct {
	AuthorizationURL string `json:"authorizationUrl"`
	Reference        string `json:"reference"`
}

// InitializePayment 创建 PENDING 交易并向 Paystack 申请支付链接。
// 金额以 kobo 计（x100）。
func (s *PaymentService) InitializePayment(userID uint, email, courseID string) (*InitResult, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	if course.Price <= 0 {
		return nil, util.ErrCourseFree
	}

	enrolled, err := s.EnrollmentRepo.IsEnrolled(userID, courseID)
	if err != nil {
		return nil, err
	}
	if enrolled {
		return nil, util.ErrAlreadyEnrolled
	}

	reference := "colpy-" + uuid.New().String()
	txn := &model.PaymentTransaction{
		UserID:    userID,
		CourseID:  courseID,
		Amount:    course.Price,
		Reference: reference,
		Status:    model.PaymentPending,
	}
	if err := s.TxnRepo.Create(txn); err != nil {
		return nil, err
	}

	var out paystackInitResponse
	resp, err := s.client.R().
		SetBody(paystackInitRequest{
			Email:       email,
			Amount:      int64(course.Price * 100),
			Reference:   reference,
			CallbackURL: s.Cfg.CallbackURL,
		}).
		SetResult(&out).
		Post("/transaction/initialize")
	if err != nil {
		return nil, err
	}
	if resp.IsError() || !out.Status {
		logger.Log.Error("paystack initialize failed",
			zap.Int("status", resp.StatusCode()),
			zap.String("message", out.Msg))
		return nil, util.ErrPaymentFailed
	}

	return &InitResult{
		AuthorizationURL: out.Data.AuthorizationURL,
		Reference:        out.Data.Reference,
	}, nil
}

// VerifyPayment 向 Paystack 核实交易；成功则落 SUCCESSFUL 并解锁报名。
// 重复核实已成功的 reference 幂等返回既有报名。
func (s *PaymentService) VerifyPayment(reference string) (*model.Enrollment, error) {
	txn, err := s.TxnRepo.FindByReference(reference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPaymentFailed
		}
		return nil, err
	}

	if txn.Status == model.PaymentSuccessful {
		enrollment, err := s.EnrollmentRepo.Find(txn.UserID, txn.CourseID)
		if err == nil {
			return enrollment, nil
		}
	}

	var out paystackVerifyResponse
	resp, err := s.client.R().
		SetResult(&out).
		Get(fmt.Sprintf("/transaction/verify/%s", reference))
	if err != nil {
		return nil, err
	}
	if resp.IsError() || !out.Status || out.Data.Status != "success" {
		if err := s.TxnRepo.UpdateStatus(reference, model.PaymentFailed); err != nil {
			logger.Log.Error("transaction status update failed", zap.String("reference", reference), zap.Error(err))
		}
		return nil, util.ErrPaymentFailed
	}

	if err := s.TxnRepo.UpdateStatus(reference, model.PaymentSuccessful); err != nil {
		return nil, err
	}

	enrolled, err := s.EnrollmentRepo.IsEnrolled(txn.UserID, txn.CourseID)
	if err != nil {
		return nil, err
	}
	if enrolled {
		return s.EnrollmentRepo.Find(txn.UserID, txn.CourseID)
	}

	enrollment := &model.Enrollment{
		UserID:   txn.UserID,
		CourseID: txn.CourseID,
		Status:   model.EnrollmentActive,
	}
	if err := s.EnrollmentRepo.Create(enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}
