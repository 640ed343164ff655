package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/daily_report_end/controllers"
	"github.com/BerniceZTT/daily_report_end/middleware"
)

func RegisterReportRoutes(router *gin.Engine) {
	// 所有路由都需要认证
	reportRoutes := router.Group("/api/reports")
	reportRoutes.Use(middleware.AuthMiddleware())

	// 创建日报草稿
	reportRoutes.POST("", controllers.CreateReport)

	// 获取自己的日报列表
	reportRoutes.GET("", controllers.GetMyReports)

	// 获取日报详情
	reportRoutes.GET("/:id", controllers.GetReportDetail)

	// 编辑日报
	reportRoutes.PUT("/:id", controllers.UpdateReport)

	// 删除草稿日报
	reportRoutes.DELETE("/:id", controllers.DeleteReport)

	// 提交日报进入审批
	reportRoutes.POST("/:id/submit", controllers.SubmitReport)

	// 撤回已提交的日报
	reportRoutes.POST("/:id/withdraw", controllers.WithdrawReport)

	// 日报评论
	reportRoutes.POST("/:id/comments", controllers.AddComment)
	reportRoutes.GET("/:id/comments", controllers.GetComments)

	// 审批历史
	reportRoutes.GET("/:id/approval-history", controllers.GetApprovalHistory)

	// 拜访记录
	reportRoutes.POST("/:id/visits", controllers.CreateVisit)
	reportRoutes.GET("/:id/visits", controllers.GetVisits)
}
