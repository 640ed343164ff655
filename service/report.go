package service

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/BerniceZTT/daily_report_end/models"
	"github.com/BerniceZTT/daily_report_end/utils"

	"github.com/google/uuid"
)

// 附件大小限制（20MB）
const maxAttachmentSize = 20 * 1024 * 1024

// ReportService 日报生命周期服务。所有修改操作先过授权检查，
// 状态变更统一走状态机，审批历史与状态变更在同一原子单元写入。
type ReportService struct {
	store ReportStore
	now   func() time.Time
}

// NewReportService 创建日报服务，存储由调用方注入
func NewReportService(store ReportStore) *ReportService {
	return &ReportService{
		store: store,
		now:   time.Now,
	}
}

// CreateReport 创建日报，无论请求内容如何，新日报一律从草稿状态开始
func (s *ReportService) CreateReport(ctx context.Context, actor Actor, req *models.CreateReportRequest) (*models.DailyReport, error) {
	if _, err := time.Parse("2006-01-02", req.ReportDate); err != nil {
		return nil, NewValidationError("无效的日报日期格式，应为YYYY-MM-DD")
	}

	// 每人每天只能有一份日报，先查重（唯一索引兜底并发场景）
	existing, err := s.store.GetReportByDate(ctx, actor.ID, req.ReportDate)
	if err != nil && !IsKind(err, KindNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, NewConflictError("当天的日报已存在")
	}

	now := s.now()
	report := &models.DailyReport{
		SalespersonID:   actor.ID,
		SalespersonName: actor.Name,
		ReportDate:      req.ReportDate,
		Problem:         req.Problem,
		Plan:            req.Plan,
		Status:          models.ReportStatusDraft,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	id, err := s.store.CreateReport(ctx, report)
	if err != nil {
		return nil, err
	}

	utils.Logger.Info().
		Str("reportId", id).
		Str("salespersonId", actor.ID).
		Str("reportDate", req.ReportDate).
		Msg("日报创建成功")

	return s.store.GetReport(ctx, id)
}

// GetReportDetail 获取日报详情（含拜访记录、附件、审批历史、评论）
func (s *ReportService) GetReportDetail(ctx context.Context, actor Actor, reportID string) (*models.ReportDetail, error) {
	report, owner, err := s.loadReportWithOwner(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if aerr := CanPerform(actor, owner, report, ActionView); aerr != nil {
		return nil, aerr
	}

	visits, err := s.store.ListVisits(ctx, reportID)
	if err != nil {
		return nil, err
	}
	attachments, err := s.store.ListAttachmentsByReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	history, err := s.store.ListApprovalHistory(ctx, reportID)
	if err != nil {
		return nil, err
	}
	comments, err := s.store.ListComments(ctx, reportID)
	if err != nil {
		return nil, err
	}

	return &models.ReportDetail{
		Report:          *report,
		Visits:          visits,
		Attachments:     attachments,
		ApprovalHistory: history,
		Comments:        comments,
		RejectionReason: latestRejectionReason(history),
		CanEdit:         CanPerform(actor, owner, report, ActionEdit) == nil,
	}, nil
}

// latestRejectionReason 从审批历史中取最近一次驳回的意见作为驳回原因
func latestRejectionReason(history []models.ApprovalHistory) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Action == models.ApprovalActionRejected {
			return history[i].Comment
		}
	}
	return ""
}

// ListMyReports 获取本人日报列表
func (s *ReportService) ListMyReports(ctx context.Context, actor Actor, filter ReportFilter) ([]models.DailyReport, int64, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, NewValidationError("无效的日报状态: " + string(filter.Status))
	}
	filter.SalespersonID = actor.ID
	return s.store.ListReports(ctx, filter)
}

// UpdateReport 更新日报的问题/计划字段。
// 被驳回的日报可以编辑，但状态保持rejected，直到重新提交才变化。
func (s *ReportService) UpdateReport(ctx context.Context, actor Actor, reportID string, req *models.UpdateReportRequest) (*models.DailyReport, error) {
	report, err := s.store.GetReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if aerr := CanPerform(actor, nil, report, ActionEdit); aerr != nil {
		return nil, aerr
	}
	if req.Problem == nil && req.Plan == nil {
		return nil, NewValidationError("没有需要更新的字段")
	}
	if err := s.store.UpdateReportContent(ctx, reportID, req.Problem, req.Plan); err != nil {
		return nil, err
	}
	return s.store.GetReport(ctx, reportID)
}

// DeleteReport 删除日报，仅限本人的草稿
func (s *ReportService) DeleteReport(ctx context.Context, actor Actor, reportID string) error {
	report, err := s.store.GetReport(ctx, reportID)
	if err != nil {
		return err
	}
	if aerr := CanPerform(actor, nil, report, ActionDelete); aerr != nil {
		return aerr
	}
	return s.store.DeleteReport(ctx, reportID)
}

// SubmitReport 提交日报进入审批流。要求至少有一条拜访记录，
// 该检查在提交时执行，草稿可以零拜访记录保存。
func (s *ReportService) SubmitReport(ctx context.Context, actor Actor, reportID string) (*models.DailyReport, error) {
	report, err := s.store.GetReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if aerr := CanPerform(actor, nil, report, ActionSubmit); aerr != nil {
		return nil, aerr
	}

	result, terr := Transition(report.Status, ActionSubmit)
	if terr != nil {
		return nil, terr
	}

	visitCount, err := s.store.CountVisits(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if visitCount == 0 {
		return nil, NewValidationError("日报至少需要一条拜访记录才能提交")
	}

	now := s.now()
	stamp := TransitionStamp{SubmittedAt: &now}
	if err := s.store.TransitionStatus(ctx, reportID, report.Status, result.To, stamp, nil); err != nil {
		return nil, err
	}

	utils.Logger.Info().
		Str("reportId", reportID).
		Str("from", string(report.Status)).
		Str("to", string(result.To)).
		Msg("日报提交成功")

	return s.store.GetReport(ctx, reportID)
}

// WithdrawReport 撤回已提交但尚未被审批的日报
func (s *ReportService) WithdrawReport(ctx context.Context, actor Actor, reportID string) (*models.DailyReport, error) {
	report, err := s.store.GetReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if aerr := CanPerform(actor, nil, report, ActionWithdraw); aerr != nil {
		return nil, aerr
	}

	result, terr := Transition(report.Status, ActionWithdraw)
	if terr != nil {
		return nil, terr
	}

	stamp := TransitionStamp{ClearSubmittedAt: true}
	if err := s.store.TransitionStatus(ctx, reportID, report.Status, result.To, stamp, nil); err != nil {
		return nil, err
	}

	utils.Logger.Info().Str("reportId", reportID).Msg("日报撤回成功")
	return s.store.GetReport(ctx, reportID)
}

// ApproveReport 审批通过。经理审批submitted的日报，总监审批manager_approved的日报，
// 审批历史与状态变更在同一原子单元写入。
func (s *ReportService) ApproveReport(ctx context.Context, actor Actor, reportID string, comment string) (*models.DailyReport, error) {
	return s.decide(ctx, actor, reportID, ActionApprove, comment)
}

// RejectReport 审批驳回，必须填写驳回意见
func (s *ReportService) RejectReport(ctx context.Context, actor Actor, reportID string, comment string) (*models.DailyReport, error) {
	return s.decide(ctx, actor, reportID, ActionReject, comment)
}

// decide 审批决定的公共路径
func (s *ReportService) decide(ctx context.Context, actor Actor, reportID string, action Action, comment string) (*models.DailyReport, error) {
	if action == ActionReject && comment == "" {
		return nil, NewValidationError("驳回时必须填写驳回意见")
	}
	if len([]rune(comment)) > MaxCommentLength {
		return nil, NewValidationError(fmt.Sprintf("审批意见不能超过%d字", MaxCommentLength))
	}

	report, owner, err := s.loadReportWithOwner(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if aerr := CanPerform(actor, owner, report, action); aerr != nil {
		return nil, aerr
	}

	result, terr := Transition(report.Status, action)
	if terr != nil {
		return nil, terr
	}

	now := s.now()
	stamp := TransitionStamp{}
	if result.SetManagerApprovedAt {
		stamp.ManagerApprovedAt = &now
	}
	if result.SetDirectorApprovedAt {
		stamp.DirectorApprovedAt = &now
	}

	historyAction := models.ApprovalActionApproved
	if action == ActionReject {
		historyAction = models.ApprovalActionRejected
	}
	history := &models.ApprovalHistory{
		DailyReportID: reportID,
		ApproverID:    actor.ID,
		ApproverName:  actor.Name,
		Action:        historyAction,
		Comment:       comment,
		ApprovalLevel: result.HistoryLevel,
		CreatedAt:     now,
	}

	if err := s.store.TransitionStatus(ctx, reportID, report.Status, result.To, stamp, history); err != nil {
		return nil, err
	}

	utils.Logger.Info().
		Str("reportId", reportID).
		Str("approverId", actor.ID).
		Str("action", string(historyAction)).
		Str("level", string(result.HistoryLevel)).
		Str("to", string(result.To)).
		Msg("日报审批完成")

	return s.store.GetReport(ctx, reportID)
}

// ListApprovalQueue 审批队列：经理看到直属下级已提交的日报，
// 总监看到所有经理已审批的日报
func (s *ReportService) ListApprovalQueue(ctx context.Context, actor Actor, page, limit int64) ([]models.DailyReport, int64, error) {
	switch actor.Level {
	case models.PositionLevelManager:
		return s.store.ListApprovalQueue(ctx, models.ReportStatusSubmitted, actor.ID, page, limit)
	case models.PositionLevelDirector:
		return s.store.ListApprovalQueue(ctx, models.ReportStatusManagerApproved, "", page, limit)
	}
	return nil, 0, NewForbiddenError("销售员无审批队列")
}

// ListApprovalHistory 获取日报的审批历史（按时间升序）
func (s *ReportService) ListApprovalHistory(ctx context.Context, actor Actor, reportID string) ([]models.ApprovalHistory, error) {
	report, owner, err := s.loadReportWithOwner(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if aerr := CanPerform(actor, owner, report, ActionView); aerr != nil {
		return nil, aerr
	}
	return s.store.ListApprovalHistory(ctx, reportID)
}

// CreateVisit 添加拜访记录，仅在日报可编辑时允许
func (s *ReportService) CreateVisit(ctx context.Context, actor Actor, reportID string, req *models.CreateVisitRequest) (*models.VisitRecord, error) {
	report, err := s.store.GetReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if aerr := CanPerform(actor, nil, report, ActionEdit); aerr != nil {
		return nil, aerr
	}

	now := s.now()
	visit := &models.VisitRecord{
		DailyReportID: reportID,
		CustomerID:    req.CustomerID,
		CustomerName:  req.CustomerName,
		VisitTime:     req.VisitTime,
		Content:       req.Content,
		Result:        req.Result,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	id, err := s.store.CreateVisit(ctx, visit)
	if err != nil {
		return nil, err
	}
	return s.store.GetVisit(ctx, id)
}

// UpdateVisit 更新拜访记录，通过父日报的锁定判定控制
func (s *ReportService) UpdateVisit(ctx context.Context, actor Actor, visitID string, req *models.UpdateVisitRequest) (*models.VisitRecord, error) {
	visit, err := s.store.GetVisit(ctx, visitID)
	if err != nil {
		return nil, err
	}
	report, err := s.store.GetReport(ctx, visit.DailyReportID)
	if err != nil {
		return nil, err
	}
	if aerr := CanPerform(actor, nil, report, ActionEdit); aerr != nil {
		return nil, aerr
	}
	if req.Content != nil && *req.Content == "" {
		return nil, NewValidationError("拜访内容不能为空")
	}
	if err := s.store.UpdateVisit(ctx, visitID, req); err != nil {
		return nil, err
	}
	return s.store.GetVisit(ctx, visitID)
}

// DeleteVisit 删除拜访记录
func (s *ReportService) DeleteVisit(ctx context.Context, actor Actor, visitID string) error {
	visit, err := s.store.GetVisit(ctx, visitID)
	if err != nil {
		return err
	}
	report, err := s.store.GetReport(ctx, visit.DailyReportID)
	if err != nil {
		return err
	}
	if aerr := CanPerform(actor, nil, report, ActionEdit); aerr != nil {
		return aerr
	}
	return s.store.DeleteVisit(ctx, visitID)
}

// ListVisits 获取日报的拜访记录列表
func (s *ReportService) ListVisits(ctx context.Context, actor Actor, reportID string) ([]models.VisitRecord, error) {
	report, owner, err := s.loadReportWithOwner(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if aerr := CanPerform(actor, owner, report, ActionView); aerr != nil {
		return nil, aerr
	}
	return s.store.ListVisits(ctx, reportID)
}

// AddAttachment 给拜访记录添加附件元数据。
// 附件随父日报一起锁定：日报提交后不能增删附件。
func (s *ReportService) AddAttachment(ctx context.Context, actor Actor, visitID string, req *models.UploadAttachmentRequest) (*models.Attachment, error) {
	if req.FileSize > maxAttachmentSize {
		return nil, NewValidationError(fmt.Sprintf("文件大小超出限制，最大支持 %dMB", maxAttachmentSize/1024/1024))
	}

	visit, err := s.store.GetVisit(ctx, visitID)
	if err != nil {
		return nil, err
	}
	report, err := s.store.GetReport(ctx, visit.DailyReportID)
	if err != nil {
		return nil, err
	}
	if aerr := CanPerform(actor, nil, report, ActionEdit); aerr != nil {
		return nil, aerr
	}

	// 生成存储路径，文件内容本身由外部存储负责
	storagePath := fmt.Sprintf("uploads/%s%s", uuid.New().String(), filepath.Ext(req.FileName))

	attachment := &models.Attachment{
		VisitRecordID: visitID,
		DailyReportID: visit.DailyReportID,
		FileName:      req.FileName,
		FilePath:      storagePath,
		ContentType:   req.ContentType,
		FileSize:      req.FileSize,
		UploaderID:    actor.ID,
		CreatedAt:     s.now(),
	}
	id, err := s.store.CreateAttachment(ctx, attachment)
	if err != nil {
		return nil, err
	}
	return s.store.GetAttachment(ctx, id)
}

// DeleteAttachment 删除附件元数据
func (s *ReportService) DeleteAttachment(ctx context.Context, actor Actor, attachmentID string) error {
	attachment, err := s.store.GetAttachment(ctx, attachmentID)
	if err != nil {
		return err
	}
	report, err := s.store.GetReport(ctx, attachment.DailyReportID)
	if err != nil {
		return err
	}
	if aerr := CanPerform(actor, nil, report, ActionEdit); aerr != nil {
		return aerr
	}
	return s.store.DeleteAttachment(ctx, attachmentID)
}

// AddComment 追加日报评论，有查看权限即可评论
func (s *ReportService) AddComment(ctx context.Context, actor Actor, reportID string, content string) (*models.ReportComment, error) {
	report, owner, err := s.loadReportWithOwner(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if aerr := CanPerform(actor, owner, report, ActionView); aerr != nil {
		return nil, aerr
	}

	comment := &models.ReportComment{
		DailyReportID: reportID,
		AuthorID:      actor.ID,
		AuthorName:    actor.Name,
		Content:       content,
		CreatedAt:     s.now(),
	}
	if _, err := s.store.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// ListComments 获取日报评论列表
func (s *ReportService) ListComments(ctx context.Context, actor Actor, reportID string) ([]models.ReportComment, error) {
	report, owner, err := s.loadReportWithOwner(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if aerr := CanPerform(actor, owner, report, ActionView); aerr != nil {
		return nil, aerr
	}
	return s.store.ListComments(ctx, reportID)
}

// CanEdit 判断操作人当前能否编辑该日报
func (s *ReportService) CanEdit(actor Actor, report *models.DailyReport) bool {
	return CanPerform(actor, nil, report, ActionEdit) == nil
}

// CanView 判断操作人能否查看该日报
func (s *ReportService) CanView(ctx context.Context, actor Actor, report *models.DailyReport) bool {
	owner, err := s.store.GetSalesperson(ctx, report.SalespersonID)
	if err != nil {
		owner = nil
	}
	return CanPerform(actor, owner, report, ActionView) == nil
}

// CountMyReportsByStatus 本人日报状态统计
func (s *ReportService) CountMyReportsByStatus(ctx context.Context, actor Actor) (*models.ReportStatusCounts, error) {
	return s.store.CountReportsByStatus(ctx, actor.ID)
}

// PendingQueueSize 当前操作人的待审批数量，销售员恒为0
func (s *ReportService) PendingQueueSize(ctx context.Context, actor Actor) (int64, error) {
	if actor.Level < models.PositionLevelManager {
		return 0, nil
	}
	_, total, err := s.ListApprovalQueue(ctx, actor, 1, 1)
	if err != nil {
		return 0, err
	}
	return total, nil
}

// loadReportWithOwner 加载日报及其所有者
func (s *ReportService) loadReportWithOwner(ctx context.Context, reportID string) (*models.DailyReport, *models.Salesperson, error) {
	report, err := s.store.GetReport(ctx, reportID)
	if err != nil {
		return nil, nil, err
	}
	owner, err := s.store.GetSalesperson(ctx, report.SalespersonID)
	if err != nil {
		if IsKind(err, KindNotFound) {
			// 所有者记录缺失时仍可按无主日报处理，授权检查会自然拒绝经理操作
			return report, nil, nil
		}
		return nil, nil, err
	}
	return report, owner, nil
}
