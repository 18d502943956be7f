package controller

import (
	"errors"

	"colpy_backend/internal/service"
	"colpy_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type EnrollmentController struct {
	EnrollmentService *service.EnrollmentService
}

func NewEnrollmentController(enrollmentService *service.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{EnrollmentService: enrollmentService}
}

// EnrollRequest 报名请求
type EnrollRequest struct {
	CourseID string `json:"courseId" binding:"required"`
}

// Enroll godoc
// @Summary 报名免费课程
// @Description 付费课程必须走支付通道
// @Tags 报名
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body EnrollRequest true "课程"
// @Success 201 {object} util.Response{data=model.Enrollment} "报名成功"
// @Failure 400 {object} util.Response "付费课程 / 已报名"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/enrollments [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req EnrollRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	enrollment, err := c.EnrollmentService.Enroll(claims.UserID, req.CourseID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrCourseNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrCourseNotFree):
			util.BadRequest(ctx, "该课程需付费，请通过支付通道报名")
		case errors.Is(err, util.ErrAlreadyEnrolled):
			util.BadRequest(ctx, "已报名该课程")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, enrollment)
}

// Check godoc
// @Summary 查询是否已报名某课程
// @Tags 报名
// @Produce  json
// @Security BearerAuth
// @Param   courseId path string true "课程 ID"
// @Success 200 {object} util.Response{data=object} "成功"
// @Router /api/enrollments/check/{courseId} [get]
func (c *EnrollmentController) Check(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	enrolled, err := c.EnrollmentService.IsEnrolled(claims.UserID, ctx.Param("courseId"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"enrolled": enrolled})
}

// MyEnrollments godoc
// @Summary 我的课程
// @Description 每条记录带完成度百分比
// @Tags 报名
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]service.EnrollmentWithProgress} "成功"
// @Router /api/enrollments/my [get]
func (c *EnrollmentController) MyEnrollments(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	enrollments, err := c.EnrollmentService.MyEnrollments(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, enrollments)
}
