package repository

import (
	"colpy_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) FindByID(id string) (*model.Course, error) {
	var course model.Course
	err := r.DB.First(&course, "id = ?", id).Error
	return &course, err
}

// FindByIDWithContent 课程详情，模块和单元按 order 排序
func (r *CourseRepository) FindByIDWithContent(id string) (*model.Course, error) {
	var course model.Course
	err := r.DB.
		Preload("Modules", func(db *gorm.DB) *gorm.DB {
			return db.Order("course_modules.`order` asc")
		}).
		Preload("Modules.Units", func(db *gorm.DB) *gorm.DB {
			return db.Order("units.`order` asc")
		}).
		First(&course, "id = ?", id).Error
	return &course, err
}

func (r *CourseRepository) Update(course *model.Course) error {
	return r.DB.Save(course).Error
}

func (r *CourseRepository) Delete(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var moduleIDs []string
		if err := tx.Model(&model.CourseModule{}).Where("course_id = ?", id).Pluck("id", &moduleIDs).Error; err != nil {
			return err
		}
		if len(moduleIDs) > 0 {
			if err := tx.Where("module_id IN ?", moduleIDs).Delete(&model.Unit{}).Error; err != nil {
				return err
			}
			if err := tx.Where("course_id = ?", id).Delete(&model.CourseModule{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&model.Course{}, "id = ?", id).Error
	})
}

func (r *CourseRepository) List(publishedOnly bool) ([]model.Course, error) {
	var courses []model.Course
	query := r.DB.Model(&model.Course{})
	if publishedOnly {
		query = query.Where("is_published = ?", true)
	}
	err := query.Order("created_at desc").Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) CreateModule(mod *model.CourseModule) error {
	return r.DB.Create(mod).Error
}

func (r *CourseRepository) FindModuleByID(id string) (*model.CourseModule, error) {
	var mod model.CourseModule
	err := r.DB.First(&mod, "id = ?", id).Error
	return &mod, err
}

// UnitIDs 课程下全部单元 id（跨模块）
func (r *CourseRepository) UnitIDs(courseID string) ([]string, error) {
	var ids []string
	err := r.DB.Model(&model.Unit{}).
		Joins("JOIN course_modules ON course_modules.id = units.module_id").
		Where("course_modules.course_id = ? AND course_modules.deleted_at IS NULL", courseID).
		Pluck("units.id", &ids).Error
	return ids, err
}

func (r *CourseRepository) ModuleCount(courseID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.CourseModule{}).Where("course_id = ?", courseID).Count(&count).Error
	return count, err
}
