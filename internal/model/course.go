package model

type UnitType string

const (
	UnitText       UnitType = "TEXT"
	UnitVideo      UnitType = "VIDEO"
	UnitQuiz       UnitType = "QUIZ"
	UnitTest       UnitType = "TEST"
	UnitExam       UnitType = "EXAM"
	UnitAssignment UnitType = "ASSIGNMENT"
)

// IsGradable 是否为自动评分类型（受通过线和次数限制约束）
func (t UnitType) IsGradable() bool {
	return t == UnitQuiz || t == UnitTest || t == UnitExam
}

// swagger:model Course
type Course struct {
	UUIDBase
	Title       string         `gorm:"size:255;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Price       float64        `gorm:"default:0" json:"price"`
	Level       string         `gorm:"size:50" json:"level"`
	IsPublished bool           `gorm:"default:false" json:"isPublished"`
	Modules     []CourseModule `gorm:"foreignKey:CourseID" json:"modules,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// swagger:model CourseModule
type CourseModule struct {
	UUIDBase
	CourseID string `gorm:"index;type:varchar(36);not null" json:"courseId"`
	Title    string `gorm:"size:255;not null" json:"title"`
	Order    int    `gorm:"default:0" json:"order"`
	Units    []Unit `gorm:"foreignKey:ModuleID" json:"units,omitempty"`
}

func (CourseModule) TableName() string {
	return "course_modules"
}

// Unit 课程最小学习单元，content 为正文或测验 JSON
// swagger:model Unit
type Unit struct {
	UUIDBase
	ModuleID string   `gorm:"index;type:varchar(36);not null" json:"moduleId"`
	Title    string   `gorm:"size:255;not null" json:"title"`
	Type     UnitType `gorm:"size:20;not null" json:"type"`
	Content  string   `gorm:"type:longtext" json:"content"`
	AssetURL string   `gorm:"size:512" json:"assetUrl"`
	Order    int      `gorm:"default:0" json:"order"`
}

func (Unit) TableName() string {
	return "units"
}
