package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/daily_report_end/controllers"
	"github.com/BerniceZTT/daily_report_end/middleware"
)

func RegisterDashboardStatsRoutes(router *gin.Engine) {
	statsRoutes := router.Group("/api/dashboard")
	statsRoutes.Use(middleware.AuthMiddleware())

	// 工作台统计
	statsRoutes.GET("/stats", controllers.GetDashboardStats)
}
