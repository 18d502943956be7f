package repository

import (
	"colpy_backend/internal/model"

	"gorm.io/gorm"
)

type UnitRepository struct {
	DB *gorm.DB
}

func NewUnitRepository(db *gorm.DB) *UnitRepository {
	return &UnitRepository{DB: db}
}

func (r *UnitRepository) Create(unit *model.Unit) error {
	return r.DB.Create(unit).Error
}

func (r *UnitRepository) FindByID(id string) (*model.Unit, error) {
	var unit model.Unit
	err := r.DB.First(&unit, "id = ?", id).Error
	return &unit, err
}

func (r *UnitRepository) Update(unit *model.Unit) error {
	return r.DB.Save(unit).Error
}

func (r *UnitRepository) Delete(id string) error {
	return r.DB.Delete(&model.Unit{}, "id = ?", id).Error
}

// CourseID 由单元回溯所属课程
func (r *UnitRepository) CourseID(unitID string) (string, error) {
	var courseID string
	err := r.DB.Model(&model.Unit{}).
		Select("course_modules.course_id").
		Joins("JOIN course_modules ON course_modules.id = units.module_id").
		Where("units.id = ?", unitID).
		Scan(&courseID).Error
	return courseID, err
}
