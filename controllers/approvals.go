package controllers

import (
	"net/http"

	"github.com/BerniceZTT/daily_report_end/models"
	"github.com/BerniceZTT/daily_report_end/utils"

	"github.com/gin-gonic/gin"
)

// ApproveReport 审批通过。经理审批进入待总监审批，总监审批进入最终通过。
func ApproveReport(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req models.ApprovalDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// 通过时评论可选，允许空请求体
		req = models.ApprovalDecisionRequest{}
	}

	report, err := reportService.ApproveReport(c.Request.Context(), actor, c.Param("id"), req.Comment)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.Logger.Info().
		Str("reportId", report.ID.Hex()).
		Str("status", string(report.Status)).
		Str("approver", actor.Name).
		Int("approverLevel", actor.Level).
		Msg("审批通过")
	utils.SuccessResponse(c, gin.H{"report": report}, "审批成功")
}

// RejectReport 驳回日报，必须填写驳回原因
func RejectReport(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req models.ApprovalDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, "无效的请求参数: "+err.Error(), http.StatusBadRequest)
		return
	}

	report, err := reportService.RejectReport(c.Request.Context(), actor, c.Param("id"), req.Comment)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.Logger.Info().
		Str("reportId", report.ID.Hex()).
		Str("approver", actor.Name).
		Msg("驳回日报")
	utils.SuccessResponse(c, gin.H{"report": report}, "已驳回")
}

// GetApprovalQueue 获取待审批队列。
// 经理看到直属下级已提交的日报，总监看到所有经理已通过的日报。
func GetApprovalQueue(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	page, limit := pageParams(c)
	reports, total, err := reportService.ListApprovalQueue(c.Request.Context(), actor, page, limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.PaginatedResponse(c, gin.H{"reports": reports}, total, page, limit)
}

// GetApprovalHistory 获取日报的审批历史（按时间正序）
func GetApprovalHistory(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	history, err := reportService.ListApprovalHistory(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"history": history}, "")
}
