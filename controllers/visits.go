package controllers

import (
	"net/http"

	"github.com/BerniceZTT/daily_report_end/models"
	"github.com/BerniceZTT/daily_report_end/utils"

	"github.com/gin-gonic/gin"
)

// CreateVisit 为日报添加拜访记录
func CreateVisit(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req models.CreateVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, "无效的请求参数: "+err.Error(), http.StatusBadRequest)
		return
	}

	visit, err := reportService.CreateVisit(c.Request.Context(), actor, c.Param("id"), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.Logger.Info().
		Str("visitId", visit.ID.Hex()).
		Str("customerName", visit.CustomerName).
		Str("operator", actor.Name).
		Msg("添加拜访记录成功")
	utils.SuccessResponse(c, gin.H{"visit": visit}, "添加成功", http.StatusCreated)
}

// GetVisits 获取日报的拜访记录列表
func GetVisits(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	visits, err := reportService.ListVisits(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"visits": visits}, "")
}

// UpdateVisit 编辑拜访记录
func UpdateVisit(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req models.UpdateVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, "无效的请求参数: "+err.Error(), http.StatusBadRequest)
		return
	}

	visit, err := reportService.UpdateVisit(c.Request.Context(), actor, c.Param("visitId"), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"visit": visit}, "更新成功")
}

// DeleteVisit 删除拜访记录（连带其附件）
func DeleteVisit(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	if err := reportService.DeleteVisit(c.Request.Context(), actor, c.Param("visitId")); err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, nil, "删除成功")
}

// UploadAttachment 为拜访记录上传附件
func UploadAttachment(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req models.UploadAttachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, "无效的请求参数: "+err.Error(), http.StatusBadRequest)
		return
	}

	attachment, err := reportService.AddAttachment(c.Request.Context(), actor, c.Param("visitId"), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.Logger.Info().
		Str("attachmentId", attachment.ID.Hex()).
		Str("fileName", attachment.FileName).
		Int64("fileSize", attachment.FileSize).
		Msg("上传附件成功")
	utils.SuccessResponse(c, gin.H{"attachment": attachment}, "上传成功", http.StatusCreated)
}

// DeleteAttachment 删除附件
func DeleteAttachment(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	if err := reportService.DeleteAttachment(c.Request.Context(), actor, c.Param("attachmentId")); err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, nil, "删除成功")
}
