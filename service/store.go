package service

import (
	"context"
	"time"

	"github.com/BerniceZTT/daily_report_end/models"
)

// TransitionStamp 状态转换时需要写入/清除的时间戳
type TransitionStamp struct {
	SubmittedAt        *time.Time
	ClearSubmittedAt   bool
	ManagerApprovedAt  *time.Time
	DirectorApprovedAt *time.Time
}

// ReportFilter 日报列表过滤条件
type ReportFilter struct {
	SalespersonID string
	Status        models.ReportStatus
	StartDate     string // YYYY-MM-DD，含
	EndDate       string // YYYY-MM-DD，含
	Page          int64
	Limit         int64
}

// ReportStore 日报存储接口。核心引擎只依赖这个接口，
// 由构造函数显式注入，便于测试时换成内存实现。
// 所有方法失败时返回 *Error（NotFound/Conflict/Internal等）。
type ReportStore interface {
	// 销售人员
	GetSalesperson(ctx context.Context, id string) (*models.Salesperson, error)
	ListActiveSalespersons(ctx context.Context) ([]models.Salesperson, error)

	// 日报
	GetReport(ctx context.Context, id string) (*models.DailyReport, error)
	GetReportByDate(ctx context.Context, salespersonID, reportDate string) (*models.DailyReport, error)
	CreateReport(ctx context.Context, report *models.DailyReport) (string, error)
	UpdateReportContent(ctx context.Context, id string, problem, plan *string) error
	DeleteReport(ctx context.Context, id string) error
	ListReports(ctx context.Context, filter ReportFilter) ([]models.DailyReport, int64, error)
	// ListApprovalQueue 审批队列：managerID为空时不限定日报所有者的直属经理
	ListApprovalQueue(ctx context.Context, status models.ReportStatus, managerID string, page, limit int64) ([]models.DailyReport, int64, error)
	CountReportsByStatus(ctx context.Context, salespersonID string) (*models.ReportStatusCounts, error)

	// TransitionStatus 原子状态转换：只有当前状态等于 from 时才更新为 to，
	// 并在同一原子单元内追加审批历史（history 可为 nil）。
	// 并发竞争输掉的一方必须得到 InvalidStatus。
	TransitionStatus(ctx context.Context, id string, from, to models.ReportStatus, stamp TransitionStamp, history *models.ApprovalHistory) error

	// 拜访记录
	GetVisit(ctx context.Context, id string) (*models.VisitRecord, error)
	ListVisits(ctx context.Context, reportID string) ([]models.VisitRecord, error)
	CountVisits(ctx context.Context, reportID string) (int64, error)
	CreateVisit(ctx context.Context, visit *models.VisitRecord) (string, error)
	UpdateVisit(ctx context.Context, id string, update *models.UpdateVisitRequest) error
	DeleteVisit(ctx context.Context, id string) error

	// 附件（仅元数据）
	GetAttachment(ctx context.Context, id string) (*models.Attachment, error)
	ListAttachmentsByReport(ctx context.Context, reportID string) ([]models.Attachment, error)
	CreateAttachment(ctx context.Context, attachment *models.Attachment) (string, error)
	DeleteAttachment(ctx context.Context, id string) error

	// 审批历史（只追加，按createdAt升序读取）
	ListApprovalHistory(ctx context.Context, reportID string) ([]models.ApprovalHistory, error)

	// 评论
	CreateComment(ctx context.Context, comment *models.ReportComment) (string, error)
	ListComments(ctx context.Context, reportID string) ([]models.ReportComment, error)
}
