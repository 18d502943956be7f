package assessment

import (
	"fmt"
	"strings"

	"colpy_backend/internal/model"
)

// Policy 按单元类型固定的通过线与尝试上限
type Policy struct {
	PassThreshold int `json:"passThreshold"`
	MaxAttempts   int `json:"maxAttempts"`
}

var policies = map[model.UnitType]Policy{
	model.UnitQuiz: {PassThreshold: 70, MaxAttempts: 2},
	model.UnitTest: {PassThreshold: 75, MaxAttempts: 2},
	model.UnitExam: {PassThreshold: 80, MaxAttempts: 1},
}

// PolicyFor 返回类型对应的策略；TEXT/VIDEO/ASSIGNMENT 不受策略约束，ok 为 false
func PolicyFor(t model.UnitType) (Policy, bool) {
	p, ok := policies[t]
	return p, ok
}

// DisplayPolicy 给客户端投影用的策略：不受约束的类型兜底到 QUIZ 的 70/2，
// 只影响展示字段，不参与资格检查
func DisplayPolicy(t model.UnitType) Policy {
	if p, ok := policies[t]; ok {
		return p
	}
	return policies[model.UnitQuiz]
}

// AttemptError 策略拒绝，Reason 直接展示给学生
type AttemptError struct {
	Reason string
}

func (e *AttemptError) Error() string {
	return e.Reason
}

// HasPassed 历史记录中是否已有达线成绩
func HasPassed(p Policy, prior []model.Submission) bool {
	for _, s := range prior {
		if s.Score != nil && *s.Score >= p.PassThreshold {
			return true
		}
	}
	return false
}

// CanAttempt 提交前的资格检查：已通过不允许重考（即使次数未用完），
// 次数用尽拒绝。非评分类型一律放行（ASSIGNMENT 不限次数）。
func CanAttempt(t model.UnitType, prior []model.Submission) error {
	p, ok := PolicyFor(t)
	if !ok {
		return nil
	}

	if HasPassed(p, prior) {
		return &AttemptError{
			Reason: fmt.Sprintf("You have already passed this %s and cannot retake it.", strings.ToLower(string(t))),
		}
	}
	if len(prior) >= p.MaxAttempts {
		return &AttemptError{
			Reason: fmt.Sprintf("Maximum attempts reached (%d/%d).", p.MaxAttempts, p.MaxAttempts),
		}
	}
	return nil
}
