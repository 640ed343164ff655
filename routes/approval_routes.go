package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/daily_report_end/controllers"
	"github.com/BerniceZTT/daily_report_end/middleware"
	"github.com/BerniceZTT/daily_report_end/models"
)

func RegisterApprovalRoutes(router *gin.Engine) {
	// 审批路由仅经理及以上可访问
	approvalRoutes := router.Group("/api/approvals")
	approvalRoutes.Use(middleware.AuthMiddleware())
	approvalRoutes.Use(middleware.RequireLevel(models.PositionLevelManager))

	// 获取待审批队列
	approvalRoutes.GET("/queue", controllers.GetApprovalQueue)

	// 审批通过
	approvalRoutes.POST("/:id/approve", controllers.ApproveReport)

	// 驳回
	approvalRoutes.POST("/:id/reject", controllers.RejectReport)
}
