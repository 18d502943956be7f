package service

import (
	"testing"

	"colpy_backend/internal/model"
	"colpy_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0, Percentage(0, 0))
	assert.Equal(t, 0, Percentage(0, 3))
	assert.Equal(t, 33, Percentage(1, 3))
	assert.Equal(t, 67, Percentage(2, 3))
	assert.Equal(t, 100, Percentage(3, 3))
	// 越界输入收敛到 [0,100]
	assert.Equal(t, 100, Percentage(5, 3))
}

func TestMarkUnitCompleteIdempotent(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedStudent(t)
	course, mod := env.seedCourse(t, 0)
	unit := env.seedUnit(t, mod.ID, model.UnitText, "reading")
	env.enroll(t, user.ID, course.ID)

	require.NoError(t, env.progress.MarkUnitComplete(user.ID, unit.ID))
	require.NoError(t, env.progress.MarkUnitComplete(user.ID, unit.ID))

	completed, err := env.progress.CourseProgress(user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{unit.ID}, completed)

	pct, err := env.progress.CoursePercentage(user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, pct)
}

func TestMarkUnitCompleteRejectsGradableTypes(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedStudent(t)
	course, mod := env.seedCourse(t, 0)
	env.enroll(t, user.ID, course.ID)

	for _, typ := range []model.UnitType{model.UnitQuiz, model.UnitTest, model.UnitExam, model.UnitAssignment} {
		unit := env.seedUnit(t, mod.ID, typ, twoChoiceQuiz)
		err := env.progress.MarkUnitComplete(user.ID, unit.ID)
		assert.ErrorIs(t, err, util.ErrNotDirectComplete, "type %s", typ)
	}
}

func TestMarkUnitCompleteRequiresEnrollment(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedStudent(t)
	_, mod := env.seedCourse(t, 0)
	unit := env.seedUnit(t, mod.ID, model.UnitVideo, "")

	err := env.progress.MarkUnitComplete(user.ID, unit.ID)
	assert.ErrorIs(t, err, util.ErrNotEnrolled)
}

func TestCourseProgressUnknownCourse(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedStudent(t)

	_, err := env.progress.CourseProgress(user.ID, "missing")
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestCourseProgressEmptyNotNil(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedStudent(t)
	course, mod := env.seedCourse(t, 0)
	env.seedUnit(t, mod.ID, model.UnitText, "")

	completed, err := env.progress.CourseProgress(user.ID, course.ID)
	require.NoError(t, err)
	assert.NotNil(t, completed)
	assert.Empty(t, completed)
}

func TestExamUnlocked(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedStudent(t)
	course, mod := env.seedCourse(t, 0)
	text := env.seedUnit(t, mod.ID, model.UnitText, "")
	video := env.seedUnit(t, mod.ID, model.UnitVideo, "")
	exam := env.seedUnit(t, mod.ID, model.UnitExam, twoChoiceQuiz)
	env.enroll(t, user.ID, course.ID)

	unlocked, err := env.progress.ExamUnlocked(user.ID, exam)
	require.NoError(t, err)
	assert.False(t, unlocked)

	require.NoError(t, env.progress.MarkUnitComplete(user.ID, text.ID))
	unlocked, err = env.progress.ExamUnlocked(user.ID, exam)
	require.NoError(t, err)
	assert.False(t, unlocked)

	require.NoError(t, env.progress.MarkUnitComplete(user.ID, video.ID))
	unlocked, err = env.progress.ExamUnlocked(user.ID, exam)
	require.NoError(t, err)
	assert.True(t, unlocked)
}

// 课程里只有考试：直接解锁
func TestExamUnlockedSoleUnit(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedStudent(t)
	_, mod := env.seedCourse(t, 0)
	exam := env.seedUnit(t, mod.ID, model.UnitExam, twoChoiceQuiz)

	unlocked, err := env.progress.ExamUnlocked(user.ID, exam)
	require.NoError(t, err)
	assert.True(t, unlocked)
}

func TestEnrollFreeCourse(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedStudent(t)
	course, _ := env.seedCourse(t, 0)

	enrollment, err := env.enrollment.Enroll(user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EnrollmentActive, enrollment.Status)

	_, err = env.enrollment.Enroll(user.ID, course.ID)
	assert.ErrorIs(t, err, util.ErrAlreadyEnrolled)
}

func TestEnrollPaidCourseRejected(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedStudent(t)
	course, _ := env.seedCourse(t, 49.99)

	_, err := env.enrollment.Enroll(user.ID, course.ID)
	assert.ErrorIs(t, err, util.ErrCourseNotFree)
}

func TestMyEnrollmentsWithProgress(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedStudent(t)
	course, mod := env.seedCourse(t, 0)
	text := env.seedUnit(t, mod.ID, model.UnitText, "")
	env.seedUnit(t, mod.ID, model.UnitVideo, "")

	_, err := env.enrollment.Enroll(user.ID, course.ID)
	require.NoError(t, err)
	require.NoError(t, env.progress.MarkUnitComplete(user.ID, text.ID))

	list, err := env.enrollment.MyEnrollments(user.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, course.ID, list[0].CourseID)
	assert.Equal(t, 50, list[0].Progress)
}
