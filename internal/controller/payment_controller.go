package controller

import (
	"errors"

	"colpy_backend/internal/service"
	"colpy_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PaymentController struct {
	PaymentService *service.PaymentService
}

func NewPaymentController(paymentService *service.PaymentService) *PaymentController {
	return &PaymentController{PaymentService: paymentService}
}

// InitPaymentRequest 支付初始化请求
type InitPaymentRequest struct {
	CourseID string `json:"courseId" binding:"required"`
}

// Initialize godoc
// @Summary 发起课程支付
// @Description 创建 PENDING 交易并返回 Paystack 支付链接
// @Tags 支付
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body InitPaymentRequest true "课程"
// @Success 200 {object} util.Response{data=service.InitResult} "成功"
// @Failure 400 {object} util.Response "已报名"
// @Failure 404 {object} util.Response "课程不存在"
// @Failure 502 {object} util.Response "支付网关错误"
// @Router /api/payments/initialize [post]
func (c *PaymentController) Initialize(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req InitPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.PaymentService.InitializePayment(claims.UserID, claims.Email, req.CourseID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrCourseNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrCourseFree):
			util.BadRequest(ctx, "免费课程请直接报名")
		case errors.Is(err, util.ErrAlreadyEnrolled):
			util.BadRequest(ctx, "已报名该课程")
		case errors.Is(err, util.ErrPaymentFailed):
			util.Error(ctx, 502, "支付网关暂不可用")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, result)
}

// Verify godoc
// @Summary 核实支付并解锁课程
// @Description 向 Paystack 核实 reference；成功则创建报名记录（幂等）
// @Tags 支付
// @Produce  json
// @Security BearerAuth
// @Param   reference path string true "交易 reference"
// @Success 200 {object} util.Response{data=model.Enrollment} "成功"
// @Failure 400 {object} util.Response "核实失败"
// @Router /api/payments/verify/{reference} [get]
func (c *PaymentController) Verify(ctx *gin.Context) {
	enrollment, err := c.PaymentService.VerifyPayment(ctx.Param("reference"))
	if err != nil {
		if errors.Is(err, util.ErrPaymentFailed) {
			util.BadRequest(ctx, "支付核实失败")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, enrollment)
}
