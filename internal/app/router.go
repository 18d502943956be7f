package app

import (
	"colpy_backend/docs"
	"colpy_backend/internal/config"
	"colpy_backend/internal/middleware"
	"colpy_backend/internal/model"
	"colpy_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由（无需登录）
	public := router.Group("/api")
	{
		public.GET("/health", c.health.Health)
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)
		public.GET("/auth/verify/:token", c.auth.VerifyEmail)
		public.POST("/auth/forgot-password", c.auth.ForgotPassword)
		public.POST("/auth/reset-password", c.auth.ResetPassword)
		public.GET("/users/facilitator", c.user.GetFacilitator)
		public.GET("/courses", c.course.List)
		public.GET("/courses/:id", c.course.Get)
	}

	// 需要登录的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/auth/me", c.auth.GetProfile)
		authGroup.PUT("/users/me", c.user.UpdateProfile)

		authGroup.GET("/units/:id", c.course.GetUnit)

		authGroup.POST("/enrollments", c.enrollment.Enroll)
		authGroup.GET("/enrollments/my", c.enrollment.MyEnrollments)
		authGroup.GET("/enrollments/check/:courseId", c.enrollment.Check)

		authGroup.POST("/payments/initialize", c.payment.Initialize)
		authGroup.GET("/payments/verify/:reference", c.payment.Verify)

		authGroup.POST("/submissions", c.submission.Submit)
		authGroup.GET("/submissions/my/:unitId", c.submission.GetMySubmission)

		authGroup.GET("/progress/:courseId", c.progress.GetCourseProgress)
		authGroup.POST("/progress/complete", c.progress.MarkComplete)
	}

	// 管理端路由
	admin := router.Group("/api")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		admin.POST("/courses", c.course.Create)
		admin.PUT("/courses/:id", c.course.Update)
		admin.DELETE("/courses/:id", c.course.Delete)
		admin.POST("/courses/:id/modules", c.course.CreateModule)
		admin.POST("/modules/:moduleId/units", c.course.CreateUnit)
		admin.PUT("/units/:id", c.course.UpdateUnit)
		admin.DELETE("/units/:id", c.course.DeleteUnit)

		admin.GET("/submissions/pending", c.submission.GetPending)
		admin.GET("/submissions/:id", c.submission.GetByID)
		admin.GET("/submissions/unit/:unitId", c.submission.GetByUnit)
		admin.PUT("/submissions/:id/grade", c.submission.Grade)

		admin.GET("/users/students", c.user.ListStudents)

		admin.POST("/upload", c.upload.Upload)
	}
}
