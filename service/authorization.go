package service

import (
	"github.com/BerniceZTT/daily_report_end/models"
)

// Actor 已认证的操作人，由认证中间件解析后传入
type Actor struct {
	ID    string
	Name  string
	Level int
}

// CanPerform 授权检查：判断操作人能否对指定日报执行某动作。
// 关系不对返回 Forbidden，状态不对返回 InvalidStatus，允许则返回 nil。
// 上下级关系通过 managerId 外键直接比较ID，不做对象图遍历。
func CanPerform(actor Actor, owner *models.Salesperson, report *models.DailyReport, action Action) *Error {
	isOwner := actor.ID == report.SalespersonID

	switch action {
	case ActionEdit:
		// 内容编辑（problem/plan/拜访记录/附件）：仅限本人，且处于可编辑状态
		if !isOwner {
			return NewForbiddenError("只能编辑自己的日报")
		}
		if !report.Status.Editable() {
			return NewInvalidStatusError("日报已提交，不允许编辑")
		}
		return nil

	case ActionDelete:
		if !isOwner {
			return NewForbiddenError("只能删除自己的日报")
		}
		if report.Status != models.ReportStatusDraft {
			return NewInvalidStatusError("只有草稿状态的日报可以删除")
		}
		return nil

	case ActionSubmit, ActionWithdraw:
		// 状态合法性由状态机判断，这里只检查归属
		if !isOwner {
			return NewForbiddenError("只能操作自己的日报")
		}
		return nil

	case ActionView:
		// 本人、总监（全局可见）、或日报所有者的直属经理可见
		if isOwner || actor.Level >= models.PositionLevelDirector {
			return nil
		}
		if actor.Level == models.PositionLevelManager && owner != nil && owner.ManagerID == actor.ID {
			return nil
		}
		return NewForbiddenError("无权查看该日报")

	case ActionApprove, ActionReject:
		switch actor.Level {
		case models.PositionLevelManager:
			// 经理只能审批直属下级，先判关系再判状态：
			// 重复点击审批的第二次调用应观察到 InvalidStatus 而不是 Forbidden
			if owner == nil || owner.ManagerID != actor.ID {
				return NewForbiddenError("只能审批直属下级的日报")
			}
			if report.Status != models.ReportStatusSubmitted {
				return NewInvalidStatusError("日报不在待经理审批状态")
			}
			return nil
		case models.PositionLevelDirector:
			// 总监审批范围为全局，不限定指定的directorId
			if report.Status != models.ReportStatusManagerApproved {
				return NewInvalidStatusError("日报不在待总监审批状态")
			}
			return nil
		}
		return NewForbiddenError("销售员无审批权限")
	}

	return NewForbiddenError("未知操作")
}
