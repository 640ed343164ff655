package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/daily_report_end/controllers"
	"github.com/BerniceZTT/daily_report_end/middleware"
)

func RegisterVisitRoutes(router *gin.Engine) {
	visitRoutes := router.Group("/api/visits")
	visitRoutes.Use(middleware.AuthMiddleware())

	// 编辑拜访记录
	visitRoutes.PUT("/:visitId", controllers.UpdateVisit)

	// 删除拜访记录
	visitRoutes.DELETE("/:visitId", controllers.DeleteVisit)

	// 为拜访记录上传附件
	visitRoutes.POST("/:visitId/attachments", controllers.UploadAttachment)

	// 删除附件
	attachmentRoutes := router.Group("/api/attachments")
	attachmentRoutes.Use(middleware.AuthMiddleware())
	attachmentRoutes.DELETE("/:attachmentId", controllers.DeleteAttachment)
}
