package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/daily_report_end/controllers"
	"github.com/BerniceZTT/daily_report_end/middleware"
)

func RegisterSalespersonRoutes(router *gin.Engine) {
	// 职位列表公开，注册页面需要
	router.GET("/api/positions", controllers.GetPositions)

	spRoutes := router.Group("/api/salespersons")
	spRoutes.Use(middleware.AuthMiddleware())

	// 获取在职销售人员列表
	spRoutes.GET("", controllers.GetSalespersons)

	// 获取当前用户的直属下级
	spRoutes.GET("/subordinates", controllers.GetSubordinates)
}
