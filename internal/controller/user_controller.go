package controller

import (
	"errors"

	"colpy_backend/internal/service"
	"colpy_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

// UpdateProfile godoc
// @Summary 更新个人资料
// @Tags 用户
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.ProfileInput true "资料"
// @Success 200 {object} util.Response{data=model.User} "成功"
// @Router /api/users/me [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var in service.ProfileInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.UpdateProfile(claims.UserID, &in)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, user)
}

// GetFacilitator godoc
// @Summary 平台导师公开资料
// @Description 返回最早注册的管理员（无需登录）
// @Tags 用户
// @Produce  json
// @Success 200 {object} util.Response{data=model.User} "成功"
// @Failure 404 {object} util.Response "暂无导师"
// @Router /api/users/facilitator [get]
func (c *UserController) GetFacilitator(ctx *gin.Context) {
	user, err := c.UserService.Facilitator()
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, user)
}

// ListStudents godoc
// @Summary 学生名册（管理端）
// @Description 每名学生带已报名课程和完成度
// @Tags 用户
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]service.StudentOverview} "成功"
// @Router /api/users/students [get]
func (c *UserController) ListStudents(ctx *gin.Context) {
	students, err := c.UserService.ListStudents()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, students)
}
