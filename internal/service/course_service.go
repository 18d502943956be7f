package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"colpy_backend/internal/assessment"
	"colpy_backend/internal/model"
	"colpy_backend/internal/repository"
	"colpy_backend/internal/util"
	"colpy_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	catalogCacheKey = "colpy:courses:catalog"
	catalogCacheTTL = 5 * time.Minute
)

type CourseService struct {
	CourseRepo *repository.CourseRepository
	UnitRepo   *repository.UnitRepository
	Redis      *redis.Client
}

func NewCourseService(courseRepo *repository.CourseRepository, unitRepo *repository.UnitRepository, rdb *redis.Client) *CourseService {
	return &CourseService{
		CourseRepo: courseRepo,
		UnitRepo:   unitRepo,
		Redis:      rdb,
	}
}

type CourseInput struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Level       string  `json:"level"`
	IsPublished bool    `json:"isPublished"`
}

func (s *CourseService) CreateCourse(in *CourseInput) (*model.Course, error) {
	course := &model.Course{
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		Level:       in.Level,
		IsPublished: in.IsPublished,
	}
	if err := s.CourseRepo.Create(course); err != nil {
		return nil, err
	}
	s.invalidateCatalog()
	return course, nil
}

func (s *CourseService) UpdateCourse(id string, in *CourseInput) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	course.Title = in.Title
	course.Description = in.Description
	course.Price = in.Price
	course.Level = in.Level
	course.IsPublished = in.IsPublished
	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	s.invalidateCatalog()
	return course, nil
}

// DeleteCourse 级联删除模块与单元
func (s *CourseService) DeleteCourse(id string) error {
	if _, err := s.CourseRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrCourseNotFound
		}
		return err
	}
	if err := s.CourseRepo.Delete(id); err != nil {
		return err
	}
	s.invalidateCatalog()
	return nil
}

// ListCourses 课程目录。学生端只看已发布课程，结果走 redis 缓存
func (s *CourseService) ListCourses(publishedOnly bool) ([]model.Course, error) {
	if publishedOnly && s.Redis != nil {
		if data, err := s.Redis.Get(context.Background(), catalogCacheKey).Bytes(); err == nil {
			var cached []model.Course
			if json.Unmarshal(data, &cached) == nil {
				return cached, nil
			}
		}
	}

	courses, err := s.CourseRepo.List(publishedOnly)
	if err != nil {
		return nil, err
	}

	if publishedOnly && s.Redis != nil {
		if data, err := json.Marshal(courses); err == nil {
			if err := s.Redis.Set(context.Background(), catalogCacheKey, data, catalogCacheTTL).Err(); err != nil {
				logger.Log.Warn("catalog cache write failed", zap.Error(err))
			}
		}
	}
	return courses, nil
}

// GetCourse 课程详情，模块和单元按 order 升序
func (s *CourseService) GetCourse(id string) (*model.Course, error) {
	course, err := s.CourseRepo.FindByIDWithContent(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

type ModuleInput struct {
	Title string `json:"title" binding:"required"`
	Order int    `json:"order"`
}

func (s *CourseService) CreateModule(courseID string, in *ModuleInput) (*model.CourseModule, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	mod := &model.CourseModule{
		CourseID: courseID,
		Title:    in.Title,
		Order:    in.Order,
	}
	if err := s.CourseRepo.CreateModule(mod); err != nil {
		return nil, err
	}
	return mod, nil
}

type UnitInput struct {
	Title    string          `json:"title" binding:"required"`
	Type     model.UnitType  `json:"type" binding:"required"`
	Content  json.RawMessage `json:"content"`
	AssetURL string          `json:"assetUrl"`
	Order    int             `json:"order"`
}

// CreateUnit 新建单元；评分类单元的 content 必须是合法的测验结构
func (s *CourseService) CreateUnit(moduleID string, in *UnitInput) (*model.Unit, error) {
	if _, err := s.CourseRepo.FindModuleByID(moduleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	if err := validateUnitContent(in.Type, in.Content); err != nil {
		return nil, err
	}

	unit := &model.Unit{
		ModuleID: moduleID,
		Title:    in.Title,
		Type:     in.Type,
		Content:  string(in.Content),
		AssetURL: in.AssetURL,
		Order:    in.Order,
	}
	if err := s.UnitRepo.Create(unit); err != nil {
		return nil, err
	}
	return unit, nil
}

func (s *CourseService) UpdateUnit(id string, in *UnitInput) (*model.Unit, error) {
	unit, err := s.UnitRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUnitNotFound
		}
		return nil, err
	}

	if err := validateUnitContent(in.Type, in.Content); err != nil {
		return nil, err
	}

	unit.Title = in.Title
	unit.Type = in.Type
	unit.Content = string(in.Content)
	unit.AssetURL = in.AssetURL
	unit.Order = in.Order
	if err := s.UnitRepo.Update(unit); err != nil {
		return nil, err
	}
	return unit, nil
}

func (s *CourseService) DeleteUnit(id string) error {
	if _, err := s.UnitRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrUnitNotFound
		}
		return err
	}
	return s.UnitRepo.Delete(id)
}

func (s *CourseService) GetUnit(id string) (*model.Unit, error) {
	unit, err := s.UnitRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUnitNotFound
		}
		return nil, err
	}
	return unit, nil
}

// validateUnitContent 评分类单元落库前校验测验结构，
// 避免学生提交时才发现内容坏掉、全部转人工
func validateUnitContent(t model.UnitType, raw json.RawMessage) error {
	if !t.IsGradable() || len(raw) == 0 {
		return nil
	}
	content, err := assessment.ParseContent(raw)
	if err != nil {
		return util.ErrInvalidContent
	}
	if err := content.Validate(); err != nil {
		return util.ErrInvalidContent
	}
	return nil
}

func (s *CourseService) invalidateCatalog() {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(context.Background(), catalogCacheKey).Err(); err != nil {
		logger.Log.Warn("catalog cache invalidation failed", zap.Error(err))
	}
}
