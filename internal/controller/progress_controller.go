package controller

import (
	"errors"

	"colpy_backend/internal/service"
	"colpy_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// GetCourseProgress godoc
// @Summary 我在某课程的完成情况
// @Description 返回已完成单元 id 列表和完成度百分比
// @Tags 进度
// @Produce  json
// @Security BearerAuth
// @Param   courseId path string true "课程 ID"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/progress/{courseId} [get]
func (c *ProgressController) GetCourseProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID := ctx.Param("courseId")
	completed, err := c.ProgressService.CourseProgress(claims.UserID, courseID)
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	pct, err := c.ProgressService.CoursePercentage(claims.UserID, courseID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"completedUnits": completed,
		"percentage":     pct,
	})
}

// MarkCompleteRequest 直接标记完成请求
type MarkCompleteRequest struct {
	UnitID string `json:"unitId" binding:"required"`
}

// MarkComplete godoc
// @Summary 标记单元完成
// @Description 仅限 TEXT/VIDEO 单元；评分类单元必须走提交流程
// @Tags 进度
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body MarkCompleteRequest true "单元"
// @Success 200 {object} util.Response "成功（幂等）"
// @Failure 400 {object} util.Response "该类型单元不能直接标记"
// @Failure 403 {object} util.Response "未报名"
// @Failure 404 {object} util.Response "单元不存在"
// @Router /api/progress/complete [post]
func (c *ProgressController) MarkComplete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req MarkCompleteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.ProgressService.MarkUnitComplete(claims.UserID, req.UnitID); err != nil {
		switch {
		case errors.Is(err, util.ErrUnitNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrNotDirectComplete):
			util.BadRequest(ctx, "该类型单元需通过提交作答完成")
		case errors.Is(err, util.ErrNotEnrolled):
			util.Error(ctx, 403, "请先报名该课程")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"completed": true})
}
