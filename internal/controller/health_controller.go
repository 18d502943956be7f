package controller

import (
	"context"
	"time"

	"colpy_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type HealthController struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewHealthController(db *gorm.DB, rdb *redis.Client) *HealthController {
	return &HealthController{DB: db, Redis: rdb}
}

// Health godoc
// @Summary 健康检查
// @Description 检查数据库和 Redis 连通性
// @Tags 系统
// @Produce  json
// @Success 200 {object} util.Response{data=object} "正常"
// @Failure 503 {object} util.Response "依赖不可用"
// @Router /api/health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	status := gin.H{"database": "up", "redis": "up"}
	healthy := true

	if sqlDB, err := c.DB.DB(); err != nil || sqlDB.PingContext(checkCtx) != nil {
		status["database"] = "down"
		healthy = false
	}

	if c.Redis != nil {
		if err := c.Redis.Ping(checkCtx).Err(); err != nil {
			status["redis"] = "down"
			healthy = false
		}
	} else {
		status["redis"] = "disabled"
	}

	if !healthy {
		util.Error(ctx, 503, "service degraded")
		return
	}
	util.Success(ctx, status)
}
