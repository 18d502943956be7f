package service

import (
	"fmt"
	"testing"

	"colpy_backend/internal/model"
	"colpy_backend/internal/repository"
	"colpy_backend/pkg/database"
	"colpy_backend/pkg/logger"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	logger.Log = zap.NewNop()
}

// testEnv 内存 sqlite 上的完整服务栈
type testEnv struct {
	db         *gorm.DB
	userRepo   *repository.UserRepository
	courseRepo *repository.CourseRepository
	unitRepo   *repository.UnitRepository
	subRepo    *repository.SubmissionRepository
	progRepo   *repository.ProgressRepository
	enrollRepo *repository.EnrollmentRepository

	progress   *ProgressService
	submission *SubmissionService
	enrollment *EnrollmentService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	env := &testEnv{
		db:         db,
		userRepo:   repository.NewUserRepository(db),
		courseRepo: repository.NewCourseRepository(db),
		unitRepo:   repository.NewUnitRepository(db),
		subRepo:    repository.NewSubmissionRepository(db),
		progRepo:   repository.NewProgressRepository(db),
		enrollRepo: repository.NewEnrollmentRepository(db),
	}

	env.progress = NewProgressService(env.progRepo, env.courseRepo, env.unitRepo, env.enrollRepo)
	env.submission = NewSubmissionService(
		env.subRepo, env.unitRepo, env.userRepo, env.enrollRepo, env.progRepo,
		env.progress, &ConsoleEmailService{}, db,
	)
	env.enrollment = NewEnrollmentService(env.enrollRepo, env.courseRepo, env.progress)

	return env
}

func (e *testEnv) seedStudent(t *testing.T) *model.User {
	t.Helper()
	user := &model.User{
		Name:       "Ada",
		Email:      fmt.Sprintf("ada-%s@example.com", t.Name()),
		Password:   "hash",
		Role:       model.Student,
		IsVerified: true,
	}
	require.NoError(t, e.userRepo.Create(user))
	return user
}

// seedCourse 一个课程 + 一个模块，返回课程与模块
func (e *testEnv) seedCourse(t *testing.T, price float64) (*model.Course, *model.CourseModule) {
	t.Helper()
	course := &model.Course{Title: "Network Defense", Price: price, IsPublished: true}
	require.NoError(t, e.courseRepo.Create(course))

	mod := &model.CourseModule{CourseID: course.ID, Title: "Basics", Order: 1}
	require.NoError(t, e.courseRepo.CreateModule(mod))
	return course, mod
}

func (e *testEnv) seedUnit(t *testing.T, moduleID string, typ model.UnitType, content string) *model.Unit {
	t.Helper()
	unit := &model.Unit{
		ModuleID: moduleID,
		Title:    fmt.Sprintf("%s unit", typ),
		Type:     typ,
		Content:  content,
	}
	require.NoError(t, e.unitRepo.Create(unit))
	return unit
}

func (e *testEnv) enroll(t *testing.T, userID uint, courseID string) {
	t.Helper()
	require.NoError(t, e.enrollRepo.Create(&model.Enrollment{
		UserID:   userID,
		CourseID: courseID,
		Status:   model.EnrollmentActive,
	}))
}

// 两道单选题的测验，q1 正确答案 0，q2 正确答案 1
const twoChoiceQuiz = `{
	"section_a": {"questions": [
		{"id": "q1", "question": "A?", "options": ["yes", "no"], "answer": 0},
		{"id": "q2", "question": "B?", "options": ["yes", "no"], "answer": 1}
	]}
}`

const manualQuiz = `{
	"section_a": {"questions": [
		{"id": "q1", "question": "A?", "options": ["yes", "no"], "answer": 0}
	]},
	"section_c": {"questions": [{"id": "q9", "question": "Explain SQLi"}]}
}`

func answersJSON(a map[string]int) []byte {
	out := `{"section_a": {`
	first := true
	for k, v := range a {
		if !first {
			out += ","
		}
		out += fmt.Sprintf("%q: %d", k, v)
		first = false
	}
	out += `}}`
	return []byte(out)
}
