package service

import (
	"errors"
	"math"

	"colpy_backend/internal/model"
	"colpy_backend/internal/repository"
	"colpy_backend/internal/util"

	"gorm.io/gorm"
)

type ProgressService struct {
	ProgressRepo   *repository.ProgressRepository
	CourseRepo     *repository.CourseRepository
	UnitRepo       *repository.UnitRepository
	EnrollmentRepo *repository.EnrollmentRepository
}

func NewProgressService(
	progressRepo *repository.ProgressRepository,
	courseRepo *repository.CourseRepository,
	unitRepo *repository.UnitRepository,
	enrollmentRepo *repository.EnrollmentRepository,
) *ProgressService {
	return &ProgressService{
		ProgressRepo:   progressRepo,
		CourseRepo:     courseRepo,
		UnitRepo:       unitRepo,
		EnrollmentRepo: enrollmentRepo,
	}
}

// CourseProgress 课程内已完成的单元 id 集合
func (s *ProgressService) CourseProgress(userID uint, courseID string) ([]string, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	unitIDs, err := s.CourseRepo.UnitIDs(courseID)
	if err != nil {
		return nil, err
	}

	completed, err := s.ProgressRepo.CompletedUnitIDs(userID, unitIDs)
	if err != nil {
		return nil, err
	}
	if completed == nil {
		completed = []string{}
	}
	return completed, nil
}

// CoursePercentage 完成度百分比，四舍五入并夹在 [0,100]
func (s *ProgressService) CoursePercentage(userID uint, courseID string) (int, error) {
	unitIDs, err := s.CourseRepo.UnitIDs(courseID)
	if err != nil {
		return 0, err
	}
	completed, err := s.ProgressRepo.CountCompleted(userID, unitIDs)
	if err != nil {
		return 0, err
	}
	return Percentage(int(completed), len(unitIDs)), nil
}

// MarkUnitComplete 直接标记完成，仅限 TEXT/VIDEO（"标记完成"按钮）。
// 评分类单元必须走提交流程，ASSIGNMENT 经人工评分完成。
func (s *ProgressService) MarkUnitComplete(userID uint, unitID string) error {
	unit, err := s.UnitRepo.FindByID(unitID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrUnitNotFound
		}
		return err
	}

	if unit.Type != model.UnitText && unit.Type != model.UnitVideo {
		return util.ErrNotDirectComplete
	}

	courseID, err := s.UnitRepo.CourseID(unitID)
	if err != nil {
		return err
	}
	enrolled, err := s.EnrollmentRepo.IsEnrolled(userID, courseID)
	if err != nil {
		return err
	}
	if !enrolled {
		return util.ErrNotEnrolled
	}

	return s.ProgressRepo.MarkCompleted(s.ProgressRepo.DB, userID, unitID)
}

// ExamUnlocked EXAM 解锁条件：本课程除该考试外的全部单元均已完成
func (s *ProgressService) ExamUnlocked(userID uint, unit *model.Unit) (bool, error) {
	courseID, err := s.UnitRepo.CourseID(unit.ID)
	if err != nil {
		return false, err
	}

	unitIDs, err := s.CourseRepo.UnitIDs(courseID)
	if err != nil {
		return false, err
	}

	others := make([]string, 0, len(unitIDs))
	for _, id := range unitIDs {
		if id != unit.ID {
			others = append(others, id)
		}
	}
	if len(others) == 0 {
		return true, nil
	}

	completed, err := s.ProgressRepo.CountCompleted(userID, others)
	if err != nil {
		return false, err
	}
	return int(completed) == len(others), nil
}

// Percentage round(completed/total*100)，total 为 0 时返回 0
func Percentage(completed, total int) int {
	if total == 0 {
		return 0
	}
	p := int(math.Round(float64(completed) / float64(total) * 100))
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	return p
}
