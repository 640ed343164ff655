package service

import (
	"testing"

	"github.com/BerniceZTT/daily_report_end/models"

	"github.com/stretchr/testify/assert"
)

func TestTransitionSubmit(t *testing.T) {
	tests := []struct {
		name string
		from models.ReportStatus
		ok   bool
	}{
		{"草稿可提交", models.ReportStatusDraft, true},
		{"驳回后可重新提交", models.ReportStatusRejected, true},
		{"已提交不可重复提交", models.ReportStatusSubmitted, false},
		{"经理已审批不可提交", models.ReportStatusManagerApproved, false},
		{"审批完成不可提交", models.ReportStatusApproved, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Transition(tt.from, ActionSubmit)
			if !tt.ok {
				assert.NotNil(t, err)
				assert.Equal(t, KindInvalidStatus, err.Kind)
				return
			}
			assert.Nil(t, err)
			assert.Equal(t, models.ReportStatusSubmitted, result.To)
			assert.True(t, result.SetSubmittedAt)
		})
	}
}

func TestTransitionWithdraw(t *testing.T) {
	result, err := Transition(models.ReportStatusSubmitted, ActionWithdraw)
	assert.Nil(t, err)
	assert.Equal(t, models.ReportStatusDraft, result.To)
	assert.True(t, result.ClearSubmittedAt)

	for _, from := range []models.ReportStatus{
		models.ReportStatusDraft,
		models.ReportStatusManagerApproved,
		models.ReportStatusApproved,
		models.ReportStatusRejected,
	} {
		_, err := Transition(from, ActionWithdraw)
		assert.NotNil(t, err, "状态 %s 不应允许撤回", from)
		assert.Equal(t, KindInvalidStatus, err.Kind)
	}
}

func TestTransitionApprove(t *testing.T) {
	// 经理审批：submitted -> manager_approved
	result, err := Transition(models.ReportStatusSubmitted, ActionApprove)
	assert.Nil(t, err)
	assert.Equal(t, models.ReportStatusManagerApproved, result.To)
	assert.True(t, result.SetManagerApprovedAt)
	assert.False(t, result.SetDirectorApprovedAt)
	assert.Equal(t, models.ApprovalLevelManager, result.HistoryLevel)

	// 总监审批：manager_approved -> approved
	result, err = Transition(models.ReportStatusManagerApproved, ActionApprove)
	assert.Nil(t, err)
	assert.Equal(t, models.ReportStatusApproved, result.To)
	assert.True(t, result.SetDirectorApprovedAt)
	assert.Equal(t, models.ApprovalLevelDirector, result.HistoryLevel)

	// 终态和草稿不可审批
	for _, from := range []models.ReportStatus{
		models.ReportStatusDraft,
		models.ReportStatusApproved,
		models.ReportStatusRejected,
	} {
		_, err := Transition(from, ActionApprove)
		assert.NotNil(t, err, "状态 %s 不应允许审批", from)
		assert.Equal(t, KindInvalidStatus, err.Kind)
	}
}

func TestTransitionReject(t *testing.T) {
	// 经理驳回
	result, err := Transition(models.ReportStatusSubmitted, ActionReject)
	assert.Nil(t, err)
	assert.Equal(t, models.ReportStatusRejected, result.To)
	assert.Equal(t, models.ApprovalLevelManager, result.HistoryLevel)

	// 总监驳回
	result, err = Transition(models.ReportStatusManagerApproved, ActionReject)
	assert.Nil(t, err)
	assert.Equal(t, models.ReportStatusRejected, result.To)
	assert.Equal(t, models.ApprovalLevelDirector, result.HistoryLevel)

	for _, from := range []models.ReportStatus{
		models.ReportStatusDraft,
		models.ReportStatusApproved,
		models.ReportStatusRejected,
	} {
		_, err := Transition(from, ActionReject)
		assert.NotNil(t, err, "状态 %s 不应允许驳回", from)
		assert.Equal(t, KindInvalidStatus, err.Kind)
	}
}

func TestStatusEditable(t *testing.T) {
	assert.True(t, models.ReportStatusDraft.Editable())
	assert.True(t, models.ReportStatusRejected.Editable())
	assert.False(t, models.ReportStatusSubmitted.Editable())
	assert.False(t, models.ReportStatusManagerApproved.Editable())
	assert.False(t, models.ReportStatusApproved.Editable())
}

func TestStatusValid(t *testing.T) {
	assert.True(t, models.ReportStatusDraft.Valid())
	assert.True(t, models.ReportStatusApproved.Valid())
	assert.False(t, models.ReportStatus("pending").Valid())
	assert.False(t, models.ReportStatus("").Valid())
}
