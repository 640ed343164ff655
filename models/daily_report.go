package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReportStatus 日报状态枚举
type ReportStatus string

const (
	ReportStatusDraft           ReportStatus = "draft"            // 草稿
	ReportStatusSubmitted       ReportStatus = "submitted"        // 已提交
	ReportStatusManagerApproved ReportStatus = "manager_approved" // 经理已审批
	ReportStatusApproved        ReportStatus = "approved"         // 审批完成
	ReportStatusRejected        ReportStatus = "rejected"         // 已驳回
)

// Valid 验证状态值是否有效
func (s ReportStatus) Valid() bool {
	switch s {
	case ReportStatusDraft, ReportStatusSubmitted, ReportStatusManagerApproved,
		ReportStatusApproved, ReportStatusRejected:
		return true
	}
	return false
}

// Editable 锁定判定：只有草稿和已驳回状态允许编辑内容
func (s ReportStatus) Editable() bool {
	return s == ReportStatusDraft || s == ReportStatusRejected
}

// ApprovalAction 审批动作枚举
type ApprovalAction string

const (
	ApprovalActionApproved ApprovalAction = "approved"
	ApprovalActionRejected ApprovalAction = "rejected"
)

// ApprovalLevel 审批级别枚举
type ApprovalLevel string

const (
	ApprovalLevelManager  ApprovalLevel = "manager"
	ApprovalLevelDirector ApprovalLevel = "director"
)

// DailyReport 销售日报（聚合根）
type DailyReport struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	SalespersonID      string             `bson:"salespersonId" json:"salespersonId"`
	SalespersonName    string             `bson:"salespersonName" json:"salespersonName"`
	ReportDate         string             `bson:"reportDate" json:"reportDate"` // YYYY-MM-DD，每人每天一份
	Problem            string             `bson:"problem,omitempty" json:"problem,omitempty"`
	Plan               string             `bson:"plan,omitempty" json:"plan,omitempty"`
	Status             ReportStatus       `bson:"status" json:"status"`
	SubmittedAt        *time.Time         `bson:"submittedAt,omitempty" json:"submittedAt,omitempty"`
	ManagerApprovedAt  *time.Time         `bson:"managerApprovedAt,omitempty" json:"managerApprovedAt,omitempty"`
	DirectorApprovedAt *time.Time         `bson:"directorApprovedAt,omitempty" json:"directorApprovedAt,omitempty"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// VisitRecord 客户拜访记录，归属于某份日报
type VisitRecord struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	DailyReportID string             `bson:"dailyReportId" json:"dailyReportId"`
	CustomerID    string             `bson:"customerId" json:"customerId"`
	CustomerName  string             `bson:"customerName" json:"customerName"`
	VisitTime     *time.Time         `bson:"visitTime,omitempty" json:"visitTime,omitempty"`
	Content       string             `bson:"content" json:"content"`
	Result        string             `bson:"result,omitempty" json:"result,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Attachment 拜访记录附件（只保存元数据，文件内容由外部存储负责）
type Attachment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	VisitRecordID string             `bson:"visitRecordId" json:"visitRecordId"`
	DailyReportID string             `bson:"dailyReportId" json:"dailyReportId"`
	FileName      string             `bson:"fileName" json:"fileName"`
	FilePath      string             `bson:"filePath" json:"filePath"`
	ContentType   string             `bson:"contentType" json:"contentType"`
	FileSize      int64              `bson:"fileSize" json:"fileSize"`
	UploaderID    string             `bson:"uploaderId" json:"uploaderId"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

// ApprovalHistory 审批历史记录，只追加，不更新不删除
type ApprovalHistory struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	DailyReportID string             `bson:"dailyReportId" json:"dailyReportId"`
	ApproverID    string             `bson:"approverId" json:"approverId"`
	ApproverName  string             `bson:"approverName" json:"approverName"`
	Action        ApprovalAction     `bson:"action" json:"action"`
	Comment       string             `bson:"comment,omitempty" json:"comment,omitempty"`
	ApprovalLevel ApprovalLevel      `bson:"approvalLevel" json:"approvalLevel"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

// ReportComment 日报评论（简单追加日志）
type ReportComment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	DailyReportID string             `bson:"dailyReportId" json:"dailyReportId"`
	AuthorID      string             `bson:"authorId" json:"authorId"`
	AuthorName    string             `bson:"authorName" json:"authorName"`
	Content       string             `bson:"content" json:"content"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

// 日报相关请求结构
type (
	// CreateReportRequest 创建日报请求
	CreateReportRequest struct {
		ReportDate string `json:"reportDate" binding:"required"`
		Problem    string `json:"problem"`
		Plan       string `json:"plan"`
	}

	// UpdateReportRequest 更新日报内容请求（nil 表示不修改）
	UpdateReportRequest struct {
		Problem *string `json:"problem"`
		Plan    *string `json:"plan"`
	}

	// ApprovalDecisionRequest 审批请求
	ApprovalDecisionRequest struct {
		Comment string `json:"comment"`
	}

	// CreateVisitRequest 创建拜访记录请求
	CreateVisitRequest struct {
		CustomerID   string     `json:"customerId" binding:"required"`
		CustomerName string     `json:"customerName"`
		VisitTime    *time.Time `json:"visitTime"`
		Content      string     `json:"content" binding:"required"`
		Result       string     `json:"result"`
	}

	// UpdateVisitRequest 更新拜访记录请求（nil 表示不修改）
	UpdateVisitRequest struct {
		CustomerID   *string    `json:"customerId"`
		CustomerName *string    `json:"customerName"`
		VisitTime    *time.Time `json:"visitTime"`
		Content      *string    `json:"content"`
		Result       *string    `json:"result"`
	}

	// UploadAttachmentRequest 上传附件请求（base64 方式，与前端表单对应）
	UploadAttachmentRequest struct {
		FileData    string `json:"fileData"`
		FileName    string `json:"fileName" binding:"required"`
		FileSize    int64  `json:"fileSize"`
		ContentType string `json:"contentType"`
	}

	// CreateCommentRequest 创建评论请求
	CreateCommentRequest struct {
		Content string `json:"content" binding:"required"`
	}
)

// ReportDetail 日报详情（聚合返回给前端）
type ReportDetail struct {
	Report          DailyReport       `json:"report"`
	Visits          []VisitRecord     `json:"visits"`
	Attachments     []Attachment      `json:"attachments"`
	ApprovalHistory []ApprovalHistory `json:"approvalHistory"`
	Comments        []ReportComment   `json:"comments"`
	RejectionReason string            `json:"rejectionReason,omitempty"` // 最近一次驳回原因
	CanEdit         bool              `json:"canEdit"`
}

// ReportStatusCounts 日报状态统计
type ReportStatusCounts struct {
	Draft           int64 `json:"draft"`
	Submitted       int64 `json:"submitted"`
	ManagerApproved int64 `json:"managerApproved"`
	Approved        int64 `json:"approved"`
	Rejected        int64 `json:"rejected"`
}
