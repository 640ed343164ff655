package controllers

import (
	"github.com/BerniceZTT/daily_report_end/models"
	"github.com/BerniceZTT/daily_report_end/utils"

	"github.com/gin-gonic/gin"
)

// GetDashboardStats 获取工作台统计数据：
// 自己各状态的日报数量，以及审批人的待办队列长度。
func GetDashboardStats(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	counts, err := reportService.CountMyReportsByStatus(c.Request.Context(), actor)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	stats := gin.H{
		"myReports": counts,
	}

	if actor.Level >= models.PositionLevelManager {
		pending, err := reportService.PendingQueueSize(c.Request.Context(), actor)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		stats["pendingApprovals"] = pending
	}

	utils.SuccessResponse(c, stats, "")
}
