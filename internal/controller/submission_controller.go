package controller

import (
	"encoding/json"
	"errors"

	"colpy_backend/internal/assessment"
	"colpy_backend/internal/service"
	"colpy_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SubmissionController struct {
	SubmissionService *service.SubmissionService
}

func NewSubmissionController(submissionService *service.SubmissionService) *SubmissionController {
	return &SubmissionController{SubmissionService: submissionService}
}

// SubmitRequest 作答提交请求；content 为各分区作答的 JSON
// swagger:model SubmitRequest
type SubmitRequest struct {
	UnitID  string          `json:"unitId" binding:"required"`
	Content json.RawMessage `json:"content"`
}

// Submit godoc
// @Summary 提交作答
// @Description 自动评分（QUIZ/TEST/EXAM），简答和作业转人工评审
// @Tags 作答
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body SubmitRequest true "作答内容"
// @Success 201 {object} util.Response{data=service.SubmitResult} "提交成功"
// @Failure 400 {object} util.Response "已通过 / 次数用尽 / 载荷非法"
// @Failure 403 {object} util.Response "未报名或考试未解锁"
// @Failure 404 {object} util.Response "单元不存在"
// @Router /api/submissions [post]
func (c *SubmissionController) Submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.SubmissionService.SubmitWork(claims.UserID, claims.Role, req.UnitID, req.Content)
	if err != nil {
		var attemptErr *assessment.AttemptError
		switch {
		case errors.As(err, &attemptErr):
			util.BadRequest(ctx, attemptErr.Reason)
		case errors.Is(err, util.ErrUnitNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrInvalidAnswers):
			util.BadRequest(ctx, "作答载荷格式错误")
		case errors.Is(err, util.ErrNotEnrolled):
			util.Error(ctx, 403, "请先报名该课程")
		case errors.Is(err, util.ErrExamLocked):
			util.Error(ctx, 403, "完成课程其余单元后方可参加考试")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, result)
}

// GetMySubmission godoc
// @Summary 我在某单元的最近作答
// @Description 返回最近一次作答及尝试次数、是否已通过等派生信息
// @Tags 作答
// @Produce  json
// @Security BearerAuth
// @Param   unitId path string true "单元 ID"
// @Success 200 {object} util.Response{data=service.MySubmissionResult} "成功"
// @Failure 404 {object} util.Response "单元不存在"
// @Router /api/submissions/my/{unitId} [get]
func (c *SubmissionController) GetMySubmission(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	result, err := c.SubmissionService.GetMySubmission(claims.UserID, ctx.Param("unitId"))
	if err != nil {
		if errors.Is(err, util.ErrUnitNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, result)
}

// GetPending godoc
// @Summary 待人工评审队列
// @Tags 作答
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Submission} "成功"
// @Router /api/submissions/pending [get]
func (c *SubmissionController) GetPending(ctx *gin.Context) {
	subs, err := c.SubmissionService.GetPendingSubmissions()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, subs)
}

// GetByID godoc
// @Summary 作答详情（管理端）
// @Tags 作答
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "作答 ID"
// @Success 200 {object} util.Response{data=model.Submission} "成功"
// @Failure 404 {object} util.Response "作答不存在"
// @Router /api/submissions/{id} [get]
func (c *SubmissionController) GetByID(ctx *gin.Context) {
	sub, err := c.SubmissionService.GetSubmissionByID(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrSubmissionNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, sub)
}

// GetByUnit godoc
// @Summary 某单元全部作答（管理端）
// @Tags 作答
// @Produce  json
// @Security BearerAuth
// @Param   unitId path string true "单元 ID"
// @Success 200 {object} util.Response{data=[]model.Submission} "成功"
// @Router /api/submissions/unit/{unitId} [get]
func (c *SubmissionController) GetByUnit(ctx *gin.Context) {
	subs, err := c.SubmissionService.GetSubmissionsByUnit(ctx.Param("unitId"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, subs)
}

// GradeRequest 人工评分请求
// swagger:model GradeRequest
type GradeRequest struct {
	Score    *int   `json:"score" binding:"required"`
	Feedback string `json:"feedback"`
}

// Grade godoc
// @Summary 人工评分
// @Description 写入分数与评语，置为 COMPLETED 并标记单元完成
// @Tags 作答
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "作答 ID"
// @Param   body body GradeRequest true "评分"
// @Success 200 {object} util.Response{data=model.Submission} "成功"
// @Failure 400 {object} util.Response "分数越界"
// @Failure 404 {object} util.Response "作答不存在"
// @Router /api/submissions/{id}/grade [put]
func (c *SubmissionController) Grade(ctx *gin.Context) {
	var req GradeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if *req.Score < 0 || *req.Score > 100 {
		util.BadRequest(ctx, "分数必须在 0-100 之间")
		return
	}

	sub, err := c.SubmissionService.GradeWork(ctx.Param("id"), *req.Score, req.Feedback)
	if err != nil {
		if errors.Is(err, util.ErrSubmissionNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, sub)
}
