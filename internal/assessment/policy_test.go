package assessment

import (
	"testing"

	"colpy_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestPolicyTable(t *testing.T) {
	tests := []struct {
		unitType  model.UnitType
		threshold int
		attempts  int
	}{
		{model.UnitQuiz, 70, 2},
		{model.UnitTest, 75, 2},
		{model.UnitExam, 80, 1},
	}

	for _, tt := range tests {
		t.Run(string(tt.unitType), func(t *testing.T) {
			p, ok := PolicyFor(tt.unitType)
			require.True(t, ok)
			assert.Equal(t, tt.threshold, p.PassThreshold)
			assert.Equal(t, tt.attempts, p.MaxAttempts)
		})
	}
}

func TestPolicyForUngatedTypes(t *testing.T) {
	for _, typ := range []model.UnitType{model.UnitText, model.UnitVideo, model.UnitAssignment} {
		_, ok := PolicyFor(typ)
		assert.False(t, ok, "type %s should not carry a policy", typ)
	}
}

func TestDisplayPolicyFallsBackToQuizDefaults(t *testing.T) {
	for _, typ := range []model.UnitType{model.UnitText, model.UnitVideo, model.UnitAssignment} {
		p := DisplayPolicy(typ)
		assert.Equal(t, 70, p.PassThreshold, "type %s", typ)
		assert.Equal(t, 2, p.MaxAttempts, "type %s", typ)
	}

	p := DisplayPolicy(model.UnitExam)
	assert.Equal(t, 80, p.PassThreshold)
}

func TestCanAttemptFirstTry(t *testing.T) {
	assert.NoError(t, CanAttempt(model.UnitQuiz, nil))
}

func TestCanAttemptAlreadyPassed(t *testing.T) {
	prior := []model.Submission{
		{Score: intPtr(85), Status: model.SubmissionCompleted},
	}

	err := CanAttempt(model.UnitQuiz, prior)
	require.Error(t, err)

	var attemptErr *AttemptError
	require.ErrorAs(t, err, &attemptErr)
	assert.Equal(t, "You have already passed this quiz and cannot retake it.", attemptErr.Reason)
}

// 已通过优先于次数用尽：即使还剩次数也不允许刷分
func TestCanAttemptPassedBeatsRemainingAttempts(t *testing.T) {
	prior := []model.Submission{
		{Score: intPtr(75), Status: model.SubmissionCompleted},
	}

	err := CanAttempt(model.UnitQuiz, prior)
	var attemptErr *AttemptError
	require.ErrorAs(t, err, &attemptErr)
	assert.Contains(t, attemptErr.Reason, "already passed")
}

func TestCanAttemptMaxAttemptsReached(t *testing.T) {
	prior := []model.Submission{
		{Score: intPtr(40), Status: model.SubmissionCompleted},
		{Score: intPtr(55), Status: model.SubmissionCompleted},
	}

	err := CanAttempt(model.UnitQuiz, prior)
	require.Error(t, err)

	var attemptErr *AttemptError
	require.ErrorAs(t, err, &attemptErr)
	assert.Equal(t, "Maximum attempts reached (2/2).", attemptErr.Reason)
}

func TestCanAttemptExamSingleShot(t *testing.T) {
	prior := []model.Submission{
		{Score: intPtr(10), Status: model.SubmissionCompleted},
	}

	err := CanAttempt(model.UnitExam, prior)
	var attemptErr *AttemptError
	require.ErrorAs(t, err, &attemptErr)
	assert.Equal(t, "Maximum attempts reached (1/1).", attemptErr.Reason)
}

// 通过线是 >=：正好达线算通过
func TestHasPassedBoundary(t *testing.T) {
	p, _ := PolicyFor(model.UnitTest)

	assert.True(t, HasPassed(p, []model.Submission{{Score: intPtr(75)}}))
	assert.False(t, HasPassed(p, []model.Submission{{Score: intPtr(74)}}))
}

// PENDING 记录（score 为空）不算通过，但占用尝试次数
func TestCanAttemptPendingCountsAsAttempt(t *testing.T) {
	prior := []model.Submission{
		{Score: nil, Status: model.SubmissionPending},
		{Score: nil, Status: model.SubmissionPending},
	}

	err := CanAttempt(model.UnitQuiz, prior)
	var attemptErr *AttemptError
	require.ErrorAs(t, err, &attemptErr)
	assert.Contains(t, attemptErr.Reason, "Maximum attempts")
}

func TestCanAttemptAssignmentUnlimited(t *testing.T) {
	prior := make([]model.Submission, 10)
	assert.NoError(t, CanAttempt(model.UnitAssignment, prior))
}
