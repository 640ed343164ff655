package service

import (
	"testing"

	"github.com/BerniceZTT/daily_report_end/models"

	"github.com/stretchr/testify/assert"
)

func newReport(ownerID string, status models.ReportStatus) *models.DailyReport {
	return &models.DailyReport{
		SalespersonID: ownerID,
		Status:        status,
	}
}

func newOwner(id, managerID string) *models.Salesperson {
	return &models.Salesperson{
		Name:      "张三",
		Level:     models.PositionLevelStaff,
		ManagerID: managerID,
	}
}

func TestCanPerformEdit(t *testing.T) {
	staff := Actor{ID: "s1", Name: "张三", Level: models.PositionLevelStaff}
	other := Actor{ID: "s2", Name: "李四", Level: models.PositionLevelStaff}

	// 本人编辑草稿
	assert.Nil(t, CanPerform(staff, nil, newReport("s1", models.ReportStatusDraft), ActionEdit))

	// 驳回后仍可编辑
	assert.Nil(t, CanPerform(staff, nil, newReport("s1", models.ReportStatusRejected), ActionEdit))

	// 提交后锁定
	err := CanPerform(staff, nil, newReport("s1", models.ReportStatusSubmitted), ActionEdit)
	assert.NotNil(t, err)
	assert.Equal(t, KindInvalidStatus, err.Kind)

	// 他人不能编辑，即使是草稿
	err = CanPerform(other, nil, newReport("s1", models.ReportStatusDraft), ActionEdit)
	assert.NotNil(t, err)
	assert.Equal(t, KindForbidden, err.Kind)

	// 经理也不能编辑下属的日报
	manager := Actor{ID: "m1", Level: models.PositionLevelManager}
	err = CanPerform(manager, nil, newReport("s1", models.ReportStatusDraft), ActionEdit)
	assert.NotNil(t, err)
	assert.Equal(t, KindForbidden, err.Kind)
}

func TestCanPerformDelete(t *testing.T) {
	staff := Actor{ID: "s1", Level: models.PositionLevelStaff}

	assert.Nil(t, CanPerform(staff, nil, newReport("s1", models.ReportStatusDraft), ActionDelete))

	// 驳回状态可编辑但不可删除
	err := CanPerform(staff, nil, newReport("s1", models.ReportStatusRejected), ActionDelete)
	assert.NotNil(t, err)
	assert.Equal(t, KindInvalidStatus, err.Kind)

	err = CanPerform(Actor{ID: "s2"}, nil, newReport("s1", models.ReportStatusDraft), ActionDelete)
	assert.NotNil(t, err)
	assert.Equal(t, KindForbidden, err.Kind)
}

func TestCanPerformView(t *testing.T) {
	owner := newOwner("s1", "m1")
	report := newReport("s1", models.ReportStatusSubmitted)

	// 本人可见
	assert.Nil(t, CanPerform(Actor{ID: "s1", Level: models.PositionLevelStaff}, owner, report, ActionView))

	// 直属经理可见
	assert.Nil(t, CanPerform(Actor{ID: "m1", Level: models.PositionLevelManager}, owner, report, ActionView))

	// 非直属经理不可见
	err := CanPerform(Actor{ID: "m2", Level: models.PositionLevelManager}, owner, report, ActionView)
	assert.NotNil(t, err)
	assert.Equal(t, KindForbidden, err.Kind)

	// 总监全局可见，不要求directorId关联
	assert.Nil(t, CanPerform(Actor{ID: "d9", Level: models.PositionLevelDirector}, owner, report, ActionView))

	// 无关销售员不可见
	err = CanPerform(Actor{ID: "s2", Level: models.PositionLevelStaff}, owner, report, ActionView)
	assert.NotNil(t, err)
	assert.Equal(t, KindForbidden, err.Kind)
}

func TestCanPerformApprove(t *testing.T) {
	owner := newOwner("s1", "m1")

	directManager := Actor{ID: "m1", Level: models.PositionLevelManager}
	otherManager := Actor{ID: "m2", Level: models.PositionLevelManager}
	director := Actor{ID: "d1", Level: models.PositionLevelDirector}
	staff := Actor{ID: "s1", Level: models.PositionLevelStaff}

	submitted := newReport("s1", models.ReportStatusSubmitted)
	managerApproved := newReport("s1", models.ReportStatusManagerApproved)

	// 直属经理审批已提交的日报
	assert.Nil(t, CanPerform(directManager, owner, submitted, ActionApprove))

	// 非直属经理：人不对，Forbidden
	err := CanPerform(otherManager, owner, submitted, ActionApprove)
	assert.NotNil(t, err)
	assert.Equal(t, KindForbidden, err.Kind)

	// 直属经理对已审批过的日报再点审批：状态不对，InvalidStatus
	err = CanPerform(directManager, owner, managerApproved, ActionApprove)
	assert.NotNil(t, err)
	assert.Equal(t, KindInvalidStatus, err.Kind)

	// 总监审批经理已通过的日报，全局范围
	assert.Nil(t, CanPerform(director, owner, managerApproved, ActionApprove))

	// 总监不能越过经理直接审批submitted
	err = CanPerform(director, owner, submitted, ActionApprove)
	assert.NotNil(t, err)
	assert.Equal(t, KindInvalidStatus, err.Kind)

	// 销售员永远无审批权限，无论状态
	for _, report := range []*models.DailyReport{submitted, managerApproved} {
		err = CanPerform(staff, owner, report, ActionApprove)
		assert.NotNil(t, err)
		assert.Equal(t, KindForbidden, err.Kind)
	}

	// 所有者记录缺失时经理无法确认关系，Forbidden
	err = CanPerform(directManager, nil, submitted, ActionApprove)
	assert.NotNil(t, err)
	assert.Equal(t, KindForbidden, err.Kind)
}

func TestCanPerformReject(t *testing.T) {
	owner := newOwner("s1", "m1")
	directManager := Actor{ID: "m1", Level: models.PositionLevelManager}
	director := Actor{ID: "d1", Level: models.PositionLevelDirector}

	assert.Nil(t, CanPerform(directManager, owner, newReport("s1", models.ReportStatusSubmitted), ActionReject))
	assert.Nil(t, CanPerform(director, owner, newReport("s1", models.ReportStatusManagerApproved), ActionReject))

	// 已是终态不可驳回
	err := CanPerform(director, owner, newReport("s1", models.ReportStatusApproved), ActionReject)
	assert.NotNil(t, err)
	assert.Equal(t, KindInvalidStatus, err.Kind)
}

func TestCanPerformSubmitOwnership(t *testing.T) {
	err := CanPerform(Actor{ID: "s2"}, nil, newReport("s1", models.ReportStatusDraft), ActionSubmit)
	assert.NotNil(t, err)
	assert.Equal(t, KindForbidden, err.Kind)

	assert.Nil(t, CanPerform(Actor{ID: "s1"}, nil, newReport("s1", models.ReportStatusDraft), ActionSubmit))
}
