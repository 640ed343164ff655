package service

import (
	"context"
	"time"

	"github.com/BerniceZTT/daily_report_end/models"
	"github.com/BerniceZTT/daily_report_end/utils"
)

// ScheduleDailyTaskAt 每天指定时间执行任务
func ScheduleDailyTaskAt(hour, min, sec int, task func()) {
	go func() {
		for {
			now := time.Now()
			next := time.Date(now.Year(), now.Month(), now.Day(), hour, min, sec, 0, now.Location())
			if now.After(next) {
				next = next.Add(24 * time.Hour)
			}
			time.Sleep(next.Sub(now))
			task()
		}
	}()
}

// CheckMissingReports 每日提醒任务：检查前一天没有提交日报的在职销售员并记录日志。
// 只读检查，不改任何状态。
func (s *ReportService) CheckMissingReports(ctx context.Context) {
	yesterday := s.now().AddDate(0, 0, -1).Format("2006-01-02")
	utils.Logger.Info().Str("reportDate", yesterday).Msg("开始执行每日日报提交检查任务")

	salespersons, err := s.store.ListActiveSalespersons(ctx)
	if err != nil {
		utils.Logger.Error().Err(err).Msg("查询销售人员失败，跳过本次检查")
		return
	}

	missing := 0
	for _, sp := range salespersons {
		// 只提醒需要写日报的销售员，经理和总监不在提醒范围
		if sp.Level != models.PositionLevelStaff {
			continue
		}

		report, err := s.store.GetReportByDate(ctx, sp.ID.Hex(), yesterday)
		if err != nil && !IsKind(err, KindNotFound) {
			utils.Logger.Error().Err(err).Str("salespersonId", sp.ID.Hex()).Msg("查询日报失败")
			continue
		}

		if report == nil || report.SubmittedAt == nil {
			missing++
			utils.Logger.Warn().
				Str("salespersonId", sp.ID.Hex()).
				Str("name", sp.Name).
				Str("reportDate", yesterday).
				Msg("销售员未提交日报")
		}
	}

	utils.Logger.Info().
		Int("checked", len(salespersons)).
		Int("missing", missing).
		Msg("每日日报提交检查任务完成")
}
