package service

import (
	"testing"

	"colpy_backend/internal/assessment"
	"colpy_backend/internal/model"
	"colpy_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func TestSubmitQuizPassFirstTry(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedStudent(t)
	course, mod := env.seedCourse(t, 0)
	unit := env.seedUnit(t, mod.ID, model.UnitQuiz, twoChoiceQuiz)
	env.enroll(t, user.ID, course.ID)

	res, err := env.submission.SubmitWork(user.ID, user.Role, unit.ID,
		answersJSON(map[string]int{"q1": 0, "q2": 1}))
	require.NoError(t, err)

	require.NotNil(t, res.Score)
	assert.Equal(t, 100, *res.Score)
	assert.Equal(t, model.SubmissionCompleted, res.Status)
	assert.Equal(t, 1, res.AttemptsUsed)
	assert.Equal(t, 2, res.MaxAttempts)
	assert.Equal(t, 70, res.PassThreshold)
	assert.Equal(t, "Success! Your score: 100% (Min: 70%)", res.Message)

	completed, err := env.progress.CourseProgress(user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{unit.ID}, completed)
}

func TestSubmitQuizFailThenPass(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedStudent(t)
	course, mod := env.seedCourse(t, 0)
	unit := env.seedUnit(t, mod.ID, model.UnitQuiz, twoChoiceQuiz)
	env.enroll(t, user.ID, course.ID)

	res, err := env.submission.SubmitWork(user.ID, user.Role, unit.ID,
		answersJSON(map[string]int{"q1": 1, "q2": 0}))
	require.NoError(t, err)
	require.NotNil(t, res.Score)
	assert.Equal(t, 0, *res.Score)
	assert.Equal(t, "Attempt 1/2 complete. Score: 0% (Min: 70%). Try again?", res.Message)

	// 未达线不计完成
	completed, err := env.progress.CourseProgress(user.ID, course.ID)
	require.NoError(t, err)
	assert.Empty(t, completed)

	res, err = env.submission.SubmitWork(user.ID, user.Role, unit.ID,
		answersJSON(map[string]int{"q1": 0, "q2": 1}))
	require.NoError(t, err)
	assert.Equal(t, 2, res.AttemptsUsed)
	assert.Equal(t, "Success! Your score: 100% (Min: 70%)", res.Message)

	completed, err = env.progress.CourseProgress(user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{unit.ID}, completed)
}

func TestSubmitQuizAttemptsExhausted(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedStudent(t)
	course, mod := env.seedCourse(t, 0)
	unit := env.seedUnit(t, mod.ID, model.UnitQuiz, twoChoiceQuiz)
	env.enroll(t, user.ID, course.ID)

	wrong := answersJSON(map[string]int{"q1": 1, "q2": 0})
	for i := 0; i < 2; i++ {
		_, err := env.submission.SubmitWork(user.ID, user.Role, unit.ID, wrong)
		require.NoError(t, err)
	}

	_, err := env.submission.SubmitWork(user.ID, user.Role, unit.ID, wrong)
	var attemptErr *assessment.AttemptError
	require.ErrorAs(t, err, &attemptErr)
	assert.Equal(t, "Maximum attempts reached (2/2).", attemptErr.Reason)

	// 被拒的提交不落库
	subs, err := env.subRepo.ListByUserAndUnit(user.ID, unit.ID)
	require.NoError(t, err)
	assert.Len(t, subs, 2)
}

func TestSubmitQuizNoRetakeAfterPass(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedStudent(t)
	course, mod := env.seedCourse(t, 0)
	unit := env.seedUnit(t, mod.ID, model.UnitQuiz, twoChoiceQuiz)
	env.enroll(t, user.ID, course.ID)

	_, err := env.submission.SubmitWork(user.ID, user.Role, unit.ID,
		answersJSON(map[string]int{"q1": 0, "q2": 1}))
	require.NoError(t, err)

	_, err = env.submission.SubmitWork(user.ID, user.Role, unit.ID,
		answersJSON(map[string]int{"q1": 0, "q2": 1}))
	var attemptErr *assessment.AttemptError
	require.ErrorAs(t, err, &attemptErr)
	assert.Equal(t, "You have already passed this quiz and cannot retake it.", attemptErr.Reason)
}

func TestSubmitRequiresEnrollment(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedStudent(t)
	_, mod := env.seedCourse(t, 0)
	unit := env.seedUnit(t, mod.ID, model.UnitQuiz, twoChoiceQuiz)

	_, err := env.submission.SubmitWork(user.ID, user.Role, unit.ID,
		answersJSON(map[string]int{"q1": 0, "q2": 1}))
	assert.ErrorIs(t, err, util.ErrNotEnrolled)
}

// 管理员预览不需要报名
func TestSubmitAdminBypassesEnrollment(t *testing.T) {
	env := newTestEnv(t)
	admin := &model.User{Name: "Root", Email: "root@example.com", Password: "hash", Role: model.Admin}
	require.NoError(t, env.userRepo.Create(admin))
	_, mod := env.seedCourse(t, 0)
	unit := env.seedUnit(t, mod.ID, model.UnitQuiz, twoChoiceQuiz)

	_, err := env.submission.SubmitWork(admin.ID, admin.Role, unit.ID,
		answersJSON(map[string]int{"q1": 0, "q2": 1}))
	assert.NoError(t, err)
}

func TestSubmitUnknownUnit(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedStudent(t)

	_, err := env.submission.SubmitWork(user.ID, user.Role, "missing-id", answersJSON(nil))
	assert.ErrorIs(t, err, util.ErrUnitNotFound)
}

func TestSubmitWithSectionCGoesPending(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedStudent(t)
	course, mod := env.seedCourse(t, 0)
	unit := env.seedUnit(t, mod.ID, model.UnitQuiz, manualQuiz)
	env.enroll(t, user.ID, course.ID)

	res, err := env.submission.SubmitWork(user.ID, user.Role, unit.ID,
		[]byte(`{"section_a": {"q1": 0}, "section_c": {"q9": "parameterized queries"}}`))
	require.NoError(t, err)

	assert.Equal(t, model.SubmissionPending, res.Status)
	assert.Equal(t, "Submission received. Review of short-answers pending.", res.Message)

	// 人工评分前不计完成
	completed, err := env.progress.CourseProgress(user.ID, course.ID)
	require.NoError(t, err)
	assert.Empty(t, completed)
}

// 内容损坏时保住作答：转人工而不是报错
func TestSubmitCorruptContentFailsSafeToManual(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedStudent(t)
	course, mod := env.seedCourse(t, 0)
	unit := env.seedUnit(t, mod.ID, model.UnitQuiz, "{broken")
	env.enroll(t, user.ID, course.ID)

	res, err := env.submission.SubmitWork(user.ID, user.Role, unit.ID,
		answersJSON(map[string]int{"q1": 0}))
	require.NoError(t, err)
	assert.Equal(t, model.SubmissionPending, res.Status)
	assert.Nil(t, res.Score)
}

func TestGradeWorkCompletesUnitEvenBelowThreshold(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedStudent(t)
	course, mod := env.seedCourse(t, 0)
	unit := env.seedUnit(t, mod.ID, model.UnitQuiz, manualQuiz)
	env.enroll(t, user.ID, course.ID)

	res, err := env.submission.SubmitWork(user.ID, user.Role, unit.ID,
		[]byte(`{"section_c": {"q9": "short answer"}}`))
	require.NoError(t, err)

	graded, err := env.submission.GradeWork(res.ID, 50, "needs more depth")
	require.NoError(t, err)
	require.NotNil(t, graded.Score)
	assert.Equal(t, 50, *graded.Score)
	assert.Equal(t, model.SubmissionCompleted, graded.Status)
	assert.Equal(t, "needs more depth", graded.Feedback)

	// 老师给分即放行，低于线也计完成
	completed, err := env.progress.CourseProgress(user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{unit.ID}, completed)
}

func TestGradeWorkUnknownSubmission(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.submission.GradeWork("missing", 80, "")
	assert.ErrorIs(t, err, util.ErrSubmissionNotFound)
}

func TestSubmitExamLockedUntilCourseComplete(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedStudent(t)
	course, mod := env.seedCourse(t, 0)
	text := env.seedUnit(t, mod.ID, model.UnitText, "intro")
	exam := env.seedUnit(t, mod.ID, model.UnitExam, twoChoiceQuiz)
	env.enroll(t, user.ID, course.ID)

	answers := answersJSON(map[string]int{"q1": 0, "q2": 1})

	_, err := env.submission.SubmitWork(user.ID, user.Role, exam.ID, answers)
	assert.ErrorIs(t, err, util.ErrExamLocked)

	require.NoError(t, env.progress.MarkUnitComplete(user.ID, text.ID))

	res, err := env.submission.SubmitWork(user.ID, user.Role, exam.ID, answers)
	require.NoError(t, err)
	assert.Equal(t, 80, res.PassThreshold)
	assert.Equal(t, 1, res.MaxAttempts)
}

func TestSubmitAssignmentAlwaysManual(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedStudent(t)
	course, mod := env.seedCourse(t, 0)
	unit := env.seedUnit(t, mod.ID, model.UnitAssignment, "")
	env.enroll(t, user.ID, course.ID)

	// 不限次数
	for i := 0; i < 3; i++ {
		res, err := env.submission.SubmitWork(user.ID, user.Role, unit.ID,
			[]byte(`{"text": "my essay"}`))
		require.NoError(t, err)
		assert.Equal(t, model.SubmissionPending, res.Status)
		assert.Nil(t, res.Score)
	}
}

func TestSubmitInvalidAnswerPayload(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedStudent(t)
	course, mod := env.seedCourse(t, 0)
	unit := env.seedUnit(t, mod.ID, model.UnitQuiz, twoChoiceQuiz)
	env.enroll(t, user.ID, course.ID)

	_, err := env.submission.SubmitWork(user.ID, user.Role, unit.ID, []byte(`{"section_a": "oops"}`))
	assert.ErrorIs(t, err, util.ErrInvalidAnswers)
}

func TestGetMySubmission(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedStudent(t)
	course, mod := env.seedCourse(t, 0)
	unit := env.seedUnit(t, mod.ID, model.UnitQuiz, twoChoiceQuiz)
	env.enroll(t, user.ID, course.ID)

	// 无作答时返回空投影
	my, err := env.submission.GetMySubmission(user.ID, unit.ID)
	require.NoError(t, err)
	assert.Nil(t, my.Submission)
	assert.Equal(t, 0, my.AttemptCount)
	assert.False(t, my.HasPassed)
	assert.Equal(t, 70, my.PassThreshold)

	_, err = env.submission.SubmitWork(user.ID, user.Role, unit.ID,
		answersJSON(map[string]int{"q1": 0, "q2": 1}))
	require.NoError(t, err)

	my, err = env.submission.GetMySubmission(user.ID, unit.ID)
	require.NoError(t, err)
	require.NotNil(t, my.Submission)
	assert.Equal(t, 1, my.AttemptCount)
	assert.True(t, my.HasPassed)
}

func TestPendingQueue(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedStudent(t)
	course, mod := env.seedCourse(t, 0)
	unit := env.seedUnit(t, mod.ID, model.UnitAssignment, "")
	env.enroll(t, user.ID, course.ID)

	res, err := env.submission.SubmitWork(user.ID, user.Role, unit.ID, []byte(`{"text": "draft"}`))
	require.NoError(t, err)

	pending, err := env.submission.GetPendingSubmissions()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, res.ID, pending[0].ID)

	_, err = env.submission.GradeWork(res.ID, 90, "solid work")
	require.NoError(t, err)

	pending, err = env.submission.GetPendingSubmissions()
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestUngatedTypesReportQuizDefaults(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedStudent(t)
	course, mod := env.seedCourse(t, 0)
	assignment := env.seedUnit(t, mod.ID, model.UnitAssignment, "")
	reading := env.seedUnit(t, mod.ID, model.UnitText, "intro text")
	env.enroll(t, user.ID, course.ID)

	// 不受策略约束的类型在投影里兜底到 QUIZ 的 70/2，而不是零值
	res, err := env.submission.SubmitWork(user.ID, user.Role, assignment.ID, []byte(`{"text": "essay"}`))
	require.NoError(t, err)
	assert.Equal(t, 2, res.MaxAttempts)
	assert.Equal(t, 70, res.PassThreshold)

	my, err := env.submission.GetMySubmission(user.ID, reading.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, my.MaxAttempts)
	assert.Equal(t, 70, my.PassThreshold)
}

// MySQL 上提交事务的历史读必须带 FOR UPDATE，否则 REPEATABLE READ 的
// 一致性快照会让两个并发提交都数不到对方，双双越过次数上限
func TestSubmitHistoryReadLocksRowsOnMySQL(t *testing.T) {
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "colpy:colpy@tcp(127.0.0.1:3306)/colpy",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)

	var prior []model.Submission
	stmt := historyLock(db).Where("user_id = ? AND unit_id = ?", 1, "u1").
		Order("created_at desc").Find(&prior).Statement
	assert.Contains(t, stmt.SQL.String(), "FOR UPDATE")

	// sqlite 单写者，保持普通读
	lite := newTestEnv(t).db.Session(&gorm.Session{DryRun: true})
	stmt = historyLock(lite).Where("user_id = ? AND unit_id = ?", 1, "u1").
		Order("created_at desc").Find(&prior).Statement
	assert.NotContains(t, stmt.SQL.String(), "FOR UPDATE")
}
