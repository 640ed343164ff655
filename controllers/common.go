package controllers

import (
	"net/http"
	"strconv"

	"github.com/BerniceZTT/daily_report_end/service"
	"github.com/BerniceZTT/daily_report_end/utils"

	"github.com/gin-gonic/gin"
)

// reportService 日报核心服务，main启动时注入
var reportService *service.ReportService

// InitReportService 注入日报服务
func InitReportService(s *service.ReportService) {
	reportService = s
}

// currentActor 从上下文解析当前操作人，失败时直接写401响应
func currentActor(c *gin.Context) (service.Actor, bool) {
	user, err := utils.GetUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": err.Error()})
		return service.Actor{}, false
	}
	return service.Actor{ID: user.ID, Name: user.Name, Level: user.Level}, true
}

// handleServiceError 把核心引擎的业务错误类别映射为HTTP响应。
// 人不对(Forbidden)和状态不对(InvalidStatus)必须给前端可区分的错误码。
func handleServiceError(c *gin.Context, err error) {
	kind := service.KindOf(err)

	switch kind {
	case service.KindNotFound:
		utils.ErrorResponseWithCode(c, err.Error(), http.StatusNotFound, string(kind))
	case service.KindForbidden:
		utils.ErrorResponseWithCode(c, err.Error(), http.StatusForbidden, string(kind))
	case service.KindInvalidStatus:
		utils.ErrorResponseWithCode(c, err.Error(), http.StatusConflict, string(kind))
	case service.KindValidation:
		utils.ErrorResponseWithCode(c, err.Error(), http.StatusBadRequest, string(kind))
	case service.KindConflict:
		utils.ErrorResponseWithCode(c, err.Error(), http.StatusConflict, string(kind))
	case service.KindUncertain:
		utils.ErrorResponseWithCode(c, err.Error(), http.StatusInternalServerError, string(kind))
	default:
		// 存储等内部错误不向前端暴露细节
		utils.Logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("内部错误")
		utils.ErrorResponseWithCode(c, "服务器内部错误", http.StatusInternalServerError, string(service.KindInternal))
	}
}

// pageParams 解析分页查询参数
func pageParams(c *gin.Context) (int64, int64) {
	page, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)
	return page, limit
}
