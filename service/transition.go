package service

import (
	"github.com/BerniceZTT/daily_report_end/models"
)

// Action 日报操作枚举
type Action string

const (
	ActionEdit     Action = "edit"
	ActionDelete   Action = "delete"
	ActionView     Action = "view"
	ActionSubmit   Action = "submit"
	ActionWithdraw Action = "withdraw"
	ActionApprove  Action = "approve"
	ActionReject   Action = "reject"
)

// 审批意见长度上限
const MaxCommentLength = 2000

// TransitionResult 状态机计算结果：目标状态、需要盖的时间戳、审批级别
type TransitionResult struct {
	To                    models.ReportStatus
	SetSubmittedAt        bool
	ClearSubmittedAt      bool
	SetManagerApprovedAt  bool
	SetDirectorApprovedAt bool
	HistoryLevel          models.ApprovalLevel // 仅approve/reject时非空
}

// Transition 日报状态机。给定当前状态和动作，返回目标状态与副作用；
// 不在转换表内的组合一律返回 InvalidStatus。
// 谁有权触发由授权检查(authorization.go)负责，这里只管状态合法性。
func Transition(from models.ReportStatus, action Action) (*TransitionResult, *Error) {
	switch action {
	case ActionSubmit:
		// 草稿和已驳回都可以提交，驳回状态直接变为已提交，不经过草稿
		if from == models.ReportStatusDraft || from == models.ReportStatusRejected {
			return &TransitionResult{
				To:             models.ReportStatusSubmitted,
				SetSubmittedAt: true,
			}, nil
		}
		return nil, NewInvalidStatusError("当前状态不允许提交")

	case ActionWithdraw:
		if from == models.ReportStatusSubmitted {
			return &TransitionResult{
				To:               models.ReportStatusDraft,
				ClearSubmittedAt: true,
			}, nil
		}
		return nil, NewInvalidStatusError("只有已提交的日报可以撤回")

	case ActionApprove:
		switch from {
		case models.ReportStatusSubmitted:
			return &TransitionResult{
				To:                   models.ReportStatusManagerApproved,
				SetManagerApprovedAt: true,
				HistoryLevel:         models.ApprovalLevelManager,
			}, nil
		case models.ReportStatusManagerApproved:
			return &TransitionResult{
				To:                    models.ReportStatusApproved,
				SetDirectorApprovedAt: true,
				HistoryLevel:          models.ApprovalLevelDirector,
			}, nil
		}
		return nil, NewInvalidStatusError("当前状态不允许审批")

	case ActionReject:
		switch from {
		case models.ReportStatusSubmitted:
			return &TransitionResult{
				To:           models.ReportStatusRejected,
				HistoryLevel: models.ApprovalLevelManager,
			}, nil
		case models.ReportStatusManagerApproved:
			return &TransitionResult{
				To:           models.ReportStatusRejected,
				HistoryLevel: models.ApprovalLevelDirector,
			}, nil
		}
		return nil, NewInvalidStatusError("当前状态不允许驳回")
	}

	return nil, NewInvalidStatusError("不支持的状态转换")
}
