package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"colpy_backend/internal/assessment"
	"colpy_backend/internal/model"
	"colpy_backend/internal/repository"
	"colpy_backend/internal/util"
	"colpy_backend/pkg/logger"
	"colpy_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubmissionService struct {
	SubRepo        *repository.SubmissionRepository
	UnitRepo       *repository.UnitRepository
	UserRepo       *repository.UserRepository
	EnrollmentRepo *repository.EnrollmentRepository
	ProgressRepo   *repository.ProgressRepository
	Progress       *ProgressService
	Email          EmailSender
	DB             *gorm.DB
}

func NewSubmissionService(
	subRepo *repository.SubmissionRepository,
	unitRepo *repository.UnitRepository,
	userRepo *repository.UserRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	progressRepo *repository.ProgressRepository,
	progress *ProgressService,
	email EmailSender,
	db *gorm.DB,
) *SubmissionService {
	return &SubmissionService{
		SubRepo:        subRepo,
		UnitRepo:       unitRepo,
		UserRepo:       userRepo,
		EnrollmentRepo: enrollmentRepo,
		ProgressRepo:   progressRepo,
		Progress:       progress,
		Email:          email,
		DB:             db,
	}
}

// SubmitResult 提交后的返回，submission 字段平铺加派生字段
type SubmitResult struct {
	model.Submission
	AttemptsUsed  int    `json:"attemptsUsed"`
	MaxAttempts   int    `json:"maxAttempts"`
	PassThreshold int    `json:"passThreshold"`
	Message       string `json:"message"`
}

// SubmitWork 提交作答：资格检查 → 自动评分 → 落库 → 更新完成记录。
// 步骤 1-4 在同一事务内，插入后复查次数以抵御并发重复提交。
func (s *SubmissionService) SubmitWork(userID uint, role model.UserRole, unitID string, rawContent json.RawMessage) (*SubmitResult, error) {
	unit, err := s.UnitRepo.FindByID(unitID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUnitNotFound
		}
		return nil, err
	}

	// 作答载荷校验只针对评分类单元；解析失败属于请求错误，不落库
	var answers *assessment.Answers
	if unit.Type.IsGradable() && len(rawContent) > 0 {
		answers, err = assessment.ParseAnswers(rawContent)
		if err != nil {
			return nil, util.ErrInvalidAnswers
		}
	}

	// 报名门槛：管理员预览豁免
	if role != model.Admin {
		courseID, err := s.UnitRepo.CourseID(unitID)
		if err != nil {
			return nil, err
		}
		enrolled, err := s.EnrollmentRepo.IsEnrolled(userID, courseID)
		if err != nil {
			return nil, err
		}
		if !enrolled {
			return nil, util.ErrNotEnrolled
		}
	}

	// EXAM 解锁：其余单元全部完成才能开考（服务端兜底，客户端同样拦截）
	if unit.Type == model.UnitExam {
		unlocked, err := s.Progress.ExamUnlocked(userID, unit)
		if err != nil {
			return nil, err
		}
		if !unlocked {
			return nil, util.ErrExamLocked
		}
	}

	policy, gated := assessment.PolicyFor(unit.Type)
	display := assessment.DisplayPolicy(unit.Type)

	var result *SubmitResult
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		// 历史读在 MySQL 上带 FOR UPDATE：InnoDB 对 idx_sub_user_unit 的
		// next-key 锁把同一 (user, unit) 的并发提交串成先后，后到的事务
		// 读到前者已提交的插入，在次数检查处被拒
		var prior []model.Submission
		if err := historyLock(tx).Where("user_id = ? AND unit_id = ?", userID, unitID).
			Order("created_at desc").Find(&prior).Error; err != nil {
			return err
		}

		if err := assessment.CanAttempt(unit.Type, prior); err != nil {
			return err
		}

		// 自动评分；ASSIGNMENT 直接转人工
		var graded assessment.Result
		if unit.Type.IsGradable() {
			graded = assessment.GradeRaw([]byte(unit.Content), answers)
		} else if unit.Type == model.UnitAssignment {
			graded = assessment.Result{NeedsManual: true}
		}

		status := model.SubmissionCompleted
		if graded.NeedsManual {
			status = model.SubmissionPending
		}

		sub := model.Submission{
			UserID:  userID,
			UnitID:  unitID,
			Content: rawContent,
			Score:   graded.AutoScore,
			Status:  status,
		}
		if err := tx.Create(&sub).Error; err != nil {
			return err
		}

		// 并发复查：两个请求同时越过上面的次数检查时，超限的一方回滚
		if gated {
			var count int64
			if err := tx.Model(&model.Submission{}).
				Where("user_id = ? AND unit_id = ?", userID, unitID).
				Count(&count).Error; err != nil {
				return err
			}
			if count > int64(policy.MaxAttempts) {
				return &assessment.AttemptError{
					Reason: fmt.Sprintf("Maximum attempts reached (%d/%d).", policy.MaxAttempts, policy.MaxAttempts),
				}
			}
		}

		passed := graded.AutoScore != nil && gated && *graded.AutoScore >= policy.PassThreshold

		// 唯一的自动完成路径：非人工评分且（被动单元或达线）
		if !graded.NeedsManual && (unit.Type == model.UnitText || unit.Type == model.UnitVideo || passed) {
			if err := s.ProgressRepo.MarkCompleted(tx, userID, unitID); err != nil {
				return err
			}
		}

		result = &SubmitResult{
			Submission:    sub,
			AttemptsUsed:  len(prior) + 1,
			MaxAttempts:   display.MaxAttempts,
			PassThreshold: display.PassThreshold,
			Message:       submitMessage(unit.Type, graded, policy, len(prior)+1, passed),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	monitoring.SubmissionCounter.WithLabelValues(string(unit.Type), string(result.Status)).Inc()
	return result, nil
}

// historyLock MySQL 上把历史读升级为 FOR UPDATE；sqlite 单写者，保持普通读
func historyLock(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "mysql" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

func submitMessage(t model.UnitType, graded assessment.Result, policy assessment.Policy, attempt int, passed bool) string {
	switch {
	case graded.NeedsManual:
		return "Submission received. Review of short-answers pending."
	case passed || !t.IsGradable():
		if graded.AutoScore != nil {
			return fmt.Sprintf("Success! Your score: %d%% (Min: %d%%)", *graded.AutoScore, policy.PassThreshold)
		}
		return "Unit completed."
	default:
		score := 0
		if graded.AutoScore != nil {
			score = *graded.AutoScore
		}
		return fmt.Sprintf("Attempt %d/%d complete. Score: %d%% (Min: %d%%). Try again?",
			attempt, policy.MaxAttempts, score, policy.PassThreshold)
	}
}

// GradeWork 管理员人工评分：写入分数与评语并置为 COMPLETED，无条件
// 标记单元完成（与自动评分的达线门槛不同，人工评分视为老师放行）。
// 重复调用只覆盖相同字段，不破坏状态。
func (s *SubmissionService) GradeWork(submissionID string, score int, feedback string) (*model.Submission, error) {
	sub, err := s.SubRepo.FindByID(submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSubmissionNotFound
		}
		return nil, err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Submission{}).Where("id = ?", sub.ID).
			Updates(map[string]interface{}{
				"score":    score,
				"feedback": feedback,
				"status":   model.SubmissionCompleted,
			}).Error; err != nil {
			return err
		}
		return s.ProgressRepo.MarkCompleted(tx, sub.UserID, sub.UnitID)
	})
	if err != nil {
		return nil, err
	}

	sub.Score = &score
	sub.Feedback = feedback
	sub.Status = model.SubmissionCompleted

	if sub.User != nil && sub.Unit != nil {
		user, unitTitle := sub.User, sub.Unit.Title
		go func() {
			if err := s.Email.SendSubmissionGraded(user.Email, user.Name, unitTitle, score); err != nil {
				logger.Log.Warn("graded email failed", zap.String("email", user.Email), zap.Error(err))
			}
		}()
	}

	return sub, nil
}

// MySubmissionResult 学生端最近一次作答投影，纯由历史和策略表推导
type MySubmissionResult struct {
	*model.Submission
	AttemptCount  int  `json:"attemptCount"`
	HasPassed     bool `json:"hasPassed"`
	MaxAttempts   int  `json:"maxAttempts"`
	PassThreshold int  `json:"passThreshold"`
}

func (s *SubmissionService) GetMySubmission(userID uint, unitID string) (*MySubmissionResult, error) {
	unit, err := s.UnitRepo.FindByID(unitID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUnitNotFound
		}
		return nil, err
	}

	subs, err := s.SubRepo.ListByUserAndUnit(userID, unitID)
	if err != nil {
		return nil, err
	}

	policy := assessment.DisplayPolicy(unit.Type)

	result := &MySubmissionResult{
		AttemptCount:  len(subs),
		HasPassed:     assessment.HasPassed(policy, subs),
		MaxAttempts:   policy.MaxAttempts,
		PassThreshold: policy.PassThreshold,
	}
	if len(subs) > 0 {
		result.Submission = &subs[0]
	}
	return result, nil
}

func (s *SubmissionService) GetSubmissionByID(id string) (*model.Submission, error) {
	sub, err := s.SubRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSubmissionNotFound
		}
		return nil, err
	}
	return sub, nil
}

func (s *SubmissionService) GetSubmissionsByUnit(unitID string) ([]model.Submission, error) {
	return s.SubRepo.ListByUnit(unitID)
}

func (s *SubmissionService) GetPendingSubmissions() ([]model.Submission, error) {
	return s.SubRepo.ListPending()
}
