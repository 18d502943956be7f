package controller

import (
	"errors"

	"colpy_backend/internal/model"
	"colpy_backend/internal/service"
	"colpy_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService *service.CourseService
}

func NewCourseController(courseService *service.CourseService) *CourseController {
	return &CourseController{CourseService: courseService}
}

// List godoc
// @Summary 课程目录
// @Description 学生端只返回已发布课程；管理员可带 ?all=true 查看全部
// @Tags 课程
// @Produce  json
// @Param   all query bool false "包含未发布课程（仅管理员）"
// @Success 200 {object} util.Response{data=[]model.Course} "成功"
// @Router /api/courses [get]
func (c *CourseController) List(ctx *gin.Context) {
	publishedOnly := true
	if ctx.Query("all") == "true" {
		claims := util.GetUserFromContext(ctx)
		if claims != nil && claims.Role == model.Admin {
			publishedOnly = false
		}
	}

	courses, err := c.CourseService.ListCourses(publishedOnly)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// Get godoc
// @Summary 课程详情
// @Description 含模块和单元，按 order 升序
// @Tags 课程
// @Produce  json
// @Param   id path string true "课程 ID"
// @Success 200 {object} util.Response{data=model.Course} "成功"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/courses/{id} [get]
func (c *CourseController) Get(ctx *gin.Context) {
	course, err := c.CourseService.GetCourse(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, course)
}

// Create godoc
// @Summary 新建课程
// @Tags 课程
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.CourseInput true "课程信息"
// @Success 201 {object} util.Response{data=model.Course} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/courses [post]
func (c *CourseController) Create(ctx *gin.Context) {
	var in service.CourseInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.CreateCourse(&in)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, course)
}

// Update godoc
// @Summary 更新课程
// @Tags 课程
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "课程 ID"
// @Param   body body service.CourseInput true "课程信息"
// @Success 200 {object} util.Response{data=model.Course} "成功"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/courses/{id} [put]
func (c *CourseController) Update(ctx *gin.Context) {
	var in service.CourseInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.UpdateCourse(ctx.Param("id"), &in)
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, course)
}

// Delete godoc
// @Summary 删除课程（级联删除模块与单元）
// @Tags 课程
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "课程 ID"
// @Success 200 {object} util.Response "删除成功"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/courses/{id} [delete]
func (c *CourseController) Delete(ctx *gin.Context) {
	if err := c.CourseService.DeleteCourse(ctx.Param("id")); err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}

// CreateModule godoc
// @Summary 在课程下新建模块
// @Tags 课程
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "课程 ID"
// @Param   body body service.ModuleInput true "模块信息"
// @Success 201 {object} util.Response{data=model.CourseModule} "创建成功"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/courses/{id}/modules [post]
func (c *CourseController) CreateModule(ctx *gin.Context) {
	var in service.ModuleInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	mod, err := c.CourseService.CreateModule(ctx.Param("id"), &in)
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, mod)
}

// CreateUnit godoc
// @Summary 在模块下新建单元
// @Description 评分类单元（QUIZ/TEST/EXAM）的 content 必须是合法测验结构
// @Tags 课程
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   moduleId path string true "模块 ID"
// @Param   body body service.UnitInput true "单元信息"
// @Success 201 {object} util.Response{data=model.Unit} "创建成功"
// @Failure 400 {object} util.Response "测验内容非法"
// @Failure 404 {object} util.Response "模块不存在"
// @Router /api/modules/{moduleId}/units [post]
func (c *CourseController) CreateUnit(ctx *gin.Context) {
	var in service.UnitInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	unit, err := c.CourseService.CreateUnit(ctx.Param("moduleId"), &in)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrCourseNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrInvalidContent):
			util.BadRequest(ctx, "测验内容结构非法")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, unit)
}

// GetUnit godoc
// @Summary 单元详情
// @Tags 课程
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "单元 ID"
// @Success 200 {object} util.Response{data=model.Unit} "成功"
// @Failure 404 {object} util.Response "单元不存在"
// @Router /api/units/{id} [get]
func (c *CourseController) GetUnit(ctx *gin.Context) {
	unit, err := c.CourseService.GetUnit(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrUnitNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, unit)
}

// UpdateUnit godoc
// @Summary 更新单元
// @Tags 课程
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "单元 ID"
// @Param   body body service.UnitInput true "单元信息"
// @Success 200 {object} util.Response{data=model.Unit} "成功"
// @Failure 400 {object} util.Response "测验内容非法"
// @Failure 404 {object} util.Response "单元不存在"
// @Router /api/units/{id} [put]
func (c *CourseController) UpdateUnit(ctx *gin.Context) {
	var in service.UnitInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	unit, err := c.CourseService.UpdateUnit(ctx.Param("id"), &in)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrUnitNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrInvalidContent):
			util.BadRequest(ctx, "测验内容结构非法")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, unit)
}

// DeleteUnit godoc
// @Summary 删除单元
// @Tags 课程
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "单元 ID"
// @Success 200 {object} util.Response "删除成功"
// @Failure 404 {object} util.Response "单元不存在"
// @Router /api/units/{id} [delete]
func (c *CourseController) DeleteUnit(ctx *gin.Context) {
	if err := c.CourseService.DeleteUnit(ctx.Param("id")); err != nil {
		if errors.Is(err, util.ErrUnitNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}
