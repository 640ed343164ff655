package controllers

import (
	"net/http"

	"github.com/BerniceZTT/daily_report_end/models"
	"github.com/BerniceZTT/daily_report_end/service"
	"github.com/BerniceZTT/daily_report_end/utils"

	"github.com/gin-gonic/gin"
)

// CreateReport 创建日报草稿
func CreateReport(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req models.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, "无效的请求参数: "+err.Error(), http.StatusBadRequest)
		return
	}

	report, err := reportService.CreateReport(c.Request.Context(), actor, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.Logger.Info().
		Str("reportId", report.ID.Hex()).
		Str("reportDate", report.ReportDate).
		Str("operator", actor.Name).
		Msg("创建日报成功")
	utils.SuccessResponse(c, gin.H{"report": report}, "创建成功", http.StatusCreated)
}

// GetReportDetail 获取日报详情（含拜访记录、附件、审批历史、评论）
func GetReportDetail(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	detail, err := reportService.GetReportDetail(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, detail, "")
}

// GetMyReports 获取自己的日报列表
func GetMyReports(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	page, limit := pageParams(c)
	filter := service.ReportFilter{
		Status:    models.ReportStatus(c.Query("status")),
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
		Page:      page,
		Limit:     limit,
	}

	reports, total, err := reportService.ListMyReports(c.Request.Context(), actor, filter)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.PaginatedResponse(c, gin.H{"reports": reports}, total, page, limit)
}

// UpdateReport 编辑日报（仅草稿或被驳回状态可编辑）
func UpdateReport(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req models.UpdateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, "无效的请求参数: "+err.Error(), http.StatusBadRequest)
		return
	}

	report, err := reportService.UpdateReport(c.Request.Context(), actor, c.Param("id"), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"report": report}, "更新成功")
}

// DeleteReport 删除草稿日报
func DeleteReport(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	if err := reportService.DeleteReport(c.Request.Context(), actor, c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}

	utils.Logger.Info().Str("reportId", c.Param("id")).Str("operator", actor.Name).Msg("删除日报成功")
	utils.SuccessResponse(c, nil, "删除成功")
}

// SubmitReport 提交日报进入审批流程
func SubmitReport(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	report, err := reportService.SubmitReport(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.Logger.Info().
		Str("reportId", report.ID.Hex()).
		Str("operator", actor.Name).
		Msg("提交日报成功")
	utils.SuccessResponse(c, gin.H{"report": report}, "提交成功")
}

// WithdrawReport 撤回已提交但尚未审批的日报
func WithdrawReport(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	report, err := reportService.WithdrawReport(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"report": report}, "撤回成功")
}

// AddComment 在日报下添加评论
func AddComment(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req models.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, "无效的请求参数: "+err.Error(), http.StatusBadRequest)
		return
	}

	comment, err := reportService.AddComment(c.Request.Context(), actor, c.Param("id"), req.Content)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"comment": comment}, "评论成功", http.StatusCreated)
}

// GetComments 获取日报评论列表
func GetComments(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	comments, err := reportService.ListComments(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"comments": comments}, "")
}
