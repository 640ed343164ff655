package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/BerniceZTT/daily_report_end/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memoryStore 内存版ReportStore，状态转换带CAS语义，行为与mongo实现保持一致。
// 各map以ObjectID的十六进制形式为键，与mongo实现返回的ID一致。
type memoryStore struct {
	mu          sync.Mutex
	salespeople map[string]*models.Salesperson
	reports     map[string]*models.DailyReport
	visits      map[string]*models.VisitRecord
	attachments map[string]*models.Attachment
	history     []models.ApprovalHistory
	comments    []models.ReportComment
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		salespeople: make(map[string]*models.Salesperson),
		reports:     make(map[string]*models.DailyReport),
		visits:      make(map[string]*models.VisitRecord),
		attachments: make(map[string]*models.Attachment),
	}
}

func (m *memoryStore) addSalesperson(id string, level int, managerID string) {
	m.salespeople[id] = &models.Salesperson{
		Name:      "user-" + id,
		Level:     level,
		ManagerID: managerID,
		IsActive:  true,
	}
}

func (m *memoryStore) GetSalesperson(ctx context.Context, id string) (*models.Salesperson, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sp, ok := m.salespeople[id]
	if !ok {
		return nil, NewNotFoundError("销售人员")
	}
	cp := *sp
	return &cp, nil
}

func (m *memoryStore) ListActiveSalespersons(ctx context.Context) ([]models.Salesperson, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Salesperson
	for _, sp := range m.salespeople {
		if sp.IsActive {
			out = append(out, *sp)
		}
	}
	return out, nil
}

func (m *memoryStore) GetReport(ctx context.Context, id string) (*models.DailyReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reports[id]
	if !ok {
		return nil, NewNotFoundError("日报")
	}
	cp := *r
	return &cp, nil
}

func (m *memoryStore) GetReportByDate(ctx context.Context, salespersonID, reportDate string) (*models.DailyReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reports {
		if r.SalespersonID == salespersonID && r.ReportDate == reportDate {
			cp := *r
			return &cp, nil
		}
	}
	return nil, NewNotFoundError("日报")
}

func (m *memoryStore) CreateReport(ctx context.Context, report *models.DailyReport) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reports {
		if r.SalespersonID == report.SalespersonID && r.ReportDate == report.ReportDate {
			return "", NewConflictError("当天的日报已存在")
		}
	}
	cp := *report
	cp.ID = primitive.NewObjectID()
	m.reports[cp.ID.Hex()] = &cp
	return cp.ID.Hex(), nil
}

func (m *memoryStore) UpdateReportContent(ctx context.Context, id string, problem, plan *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reports[id]
	if !ok {
		return NewNotFoundError("日报")
	}
	if problem != nil {
		r.Problem = *problem
	}
	if plan != nil {
		r.Plan = *plan
	}
	r.UpdatedAt = time.Now()
	return nil
}

func (m *memoryStore) DeleteReport(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reports[id]; !ok {
		return NewNotFoundError("日报")
	}
	delete(m.reports, id)
	for vid, v := range m.visits {
		if v.DailyReportID == id {
			delete(m.visits, vid)
		}
	}
	return nil
}

func (m *memoryStore) ListReports(ctx context.Context, filter ReportFilter) ([]models.DailyReport, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.DailyReport
	for _, r := range m.reports {
		if filter.SalespersonID != "" && r.SalespersonID != filter.SalespersonID {
			continue
		}
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		if filter.StartDate != "" && r.ReportDate < filter.StartDate {
			continue
		}
		if filter.EndDate != "" && r.ReportDate > filter.EndDate {
			continue
		}
		out = append(out, *r)
	}
	return out, int64(len(out)), nil
}

func (m *memoryStore) ListApprovalQueue(ctx context.Context, status models.ReportStatus, managerID string, page, limit int64) ([]models.DailyReport, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.DailyReport
	for _, r := range m.reports {
		if r.Status != status {
			continue
		}
		if managerID != "" {
			owner, ok := m.salespeople[r.SalespersonID]
			if !ok || owner.ManagerID != managerID {
				continue
			}
		}
		out = append(out, *r)
	}
	return out, int64(len(out)), nil
}

func (m *memoryStore) CountReportsByStatus(ctx context.Context, salespersonID string) (*models.ReportStatusCounts, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := &models.ReportStatusCounts{}
	for _, r := range m.reports {
		if r.SalespersonID != salespersonID {
			continue
		}
		switch r.Status {
		case models.ReportStatusDraft:
			counts.Draft++
		case models.ReportStatusSubmitted:
			counts.Submitted++
		case models.ReportStatusManagerApproved:
			counts.ManagerApproved++
		case models.ReportStatusApproved:
			counts.Approved++
		case models.ReportStatusRejected:
			counts.Rejected++
		}
	}
	return counts, nil
}

func (m *memoryStore) TransitionStatus(ctx context.Context, id string, from, to models.ReportStatus, stamp TransitionStamp, history *models.ApprovalHistory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reports[id]
	if !ok {
		return NewNotFoundError("日报")
	}
	// CAS: 当前状态必须等于from，竞争输掉的一方拿到InvalidStatus
	if r.Status != from {
		return NewInvalidStatusError("日报状态已变化，请刷新后重试")
	}
	r.Status = to
	r.UpdatedAt = time.Now()
	if stamp.SubmittedAt != nil {
		r.SubmittedAt = stamp.SubmittedAt
	}
	if stamp.ClearSubmittedAt {
		r.SubmittedAt = nil
	}
	if stamp.ManagerApprovedAt != nil {
		r.ManagerApprovedAt = stamp.ManagerApprovedAt
	}
	if stamp.DirectorApprovedAt != nil {
		r.DirectorApprovedAt = stamp.DirectorApprovedAt
	}
	if history != nil {
		m.history = append(m.history, *history)
	}
	return nil
}

func (m *memoryStore) GetVisit(ctx context.Context, id string) (*models.VisitRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.visits[id]
	if !ok {
		return nil, NewNotFoundError("拜访记录")
	}
	cp := *v
	return &cp, nil
}

func (m *memoryStore) ListVisits(ctx context.Context, reportID string) ([]models.VisitRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.VisitRecord
	for _, v := range m.visits {
		if v.DailyReportID == reportID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (m *memoryStore) CountVisits(ctx context.Context, reportID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, v := range m.visits {
		if v.DailyReportID == reportID {
			n++
		}
	}
	return n, nil
}

func (m *memoryStore) CreateVisit(ctx context.Context, visit *models.VisitRecord) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *visit
	cp.ID = primitive.NewObjectID()
	m.visits[cp.ID.Hex()] = &cp
	return cp.ID.Hex(), nil
}

func (m *memoryStore) UpdateVisit(ctx context.Context, id string, update *models.UpdateVisitRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.visits[id]
	if !ok {
		return NewNotFoundError("拜访记录")
	}
	if update.CustomerName != nil {
		v.CustomerName = *update.CustomerName
	}
	if update.Content != nil {
		v.Content = *update.Content
	}
	if update.Result != nil {
		v.Result = *update.Result
	}
	v.UpdatedAt = time.Now()
	return nil
}

func (m *memoryStore) DeleteVisit(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.visits[id]; !ok {
		return NewNotFoundError("拜访记录")
	}
	delete(m.visits, id)
	return nil
}

func (m *memoryStore) GetAttachment(ctx context.Context, id string) (*models.Attachment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.attachments[id]
	if !ok {
		return nil, NewNotFoundError("附件")
	}
	cp := *a
	return &cp, nil
}

func (m *memoryStore) ListAttachmentsByReport(ctx context.Context, reportID string) ([]models.Attachment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Attachment
	for _, a := range m.attachments {
		if a.DailyReportID == reportID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *memoryStore) CreateAttachment(ctx context.Context, attachment *models.Attachment) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *attachment
	cp.ID = primitive.NewObjectID()
	m.attachments[cp.ID.Hex()] = &cp
	return cp.ID.Hex(), nil
}

func (m *memoryStore) DeleteAttachment(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.attachments[id]; !ok {
		return NewNotFoundError("附件")
	}
	delete(m.attachments, id)
	return nil
}

func (m *memoryStore) ListApprovalHistory(ctx context.Context, reportID string) ([]models.ApprovalHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ApprovalHistory
	for _, h := range m.history {
		if h.DailyReportID == reportID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (m *memoryStore) CreateComment(ctx context.Context, comment *models.ReportComment) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *comment
	cp.ID = primitive.NewObjectID()
	m.comments = append(m.comments, cp)
	return cp.ID.Hex(), nil
}

func (m *memoryStore) ListComments(ctx context.Context, reportID string) ([]models.ReportComment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ReportComment
	for _, c := range m.comments {
		if c.DailyReportID == reportID {
			out = append(out, c)
		}
	}
	return out, nil
}

// 测试用固定人员关系：s1是销售员，直属经理m1；m2是另一个经理；d1是总监
var (
	staffActor        = Actor{ID: "s1", Name: "张三", Level: models.PositionLevelStaff}
	otherStaffActor   = Actor{ID: "s2", Name: "李四", Level: models.PositionLevelStaff}
	managerActor      = Actor{ID: "m1", Name: "王经理", Level: models.PositionLevelManager}
	otherManagerActor = Actor{ID: "m2", Name: "赵经理", Level: models.PositionLevelManager}
	directorActor     = Actor{ID: "d1", Name: "陈总监", Level: models.PositionLevelDirector}
)

func newTestService(t *testing.T) (*ReportService, *memoryStore) {
	t.Helper()
	store := newMemoryStore()
	store.addSalesperson("s1", models.PositionLevelStaff, "m1")
	store.addSalesperson("s2", models.PositionLevelStaff, "m2")
	store.addSalesperson("m1", models.PositionLevelManager, "")
	store.addSalesperson("m2", models.PositionLevelManager, "")
	store.addSalesperson("d1", models.PositionLevelDirector, "")
	return NewReportService(store), store
}

// createDraftWithVisit 建一份带一条拜访记录的草稿日报
func createDraftWithVisit(t *testing.T, svc *ReportService, date string) string {
	t.Helper()
	ctx := context.Background()
	report, err := svc.CreateReport(ctx, staffActor, &models.CreateReportRequest{
		ReportDate: date,
		Problem:    "竞品压价",
		Plan:       "明天继续跟进",
	})
	require.NoError(t, err)
	require.Equal(t, models.ReportStatusDraft, report.Status)

	_, err = svc.CreateVisit(ctx, staffActor, report.ID.Hex(), &models.CreateVisitRequest{
		CustomerName: "华东电子",
		Content:      "介绍新品",
	})
	require.NoError(t, err)
	return report.ID.Hex()
}

func TestCreateReportDuplicateDate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateReport(ctx, staffActor, &models.CreateReportRequest{ReportDate: "2026-08-28"})
	require.NoError(t, err)

	_, err = svc.CreateReport(ctx, staffActor, &models.CreateReportRequest{ReportDate: "2026-08-28"})
	assert.True(t, IsKind(err, KindConflict))

	// 不同的人同一天不冲突
	_, err = svc.CreateReport(ctx, otherStaffActor, &models.CreateReportRequest{ReportDate: "2026-08-28"})
	assert.NoError(t, err)
}

func TestCreateReportInvalidDate(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.CreateReport(context.Background(), staffActor, &models.CreateReportRequest{ReportDate: "08/28/2026"})
	assert.True(t, IsKind(err, KindValidation))
}

func TestSubmitRequiresVisit(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	report, err := svc.CreateReport(ctx, staffActor, &models.CreateReportRequest{ReportDate: "2026-08-28"})
	require.NoError(t, err)

	// 零拜访记录不允许提交
	_, err = svc.SubmitReport(ctx, staffActor, report.ID.Hex())
	assert.True(t, IsKind(err, KindValidation))

	// 补一条拜访记录后可以提交
	_, err = svc.CreateVisit(ctx, staffActor, report.ID.Hex(), &models.CreateVisitRequest{
		CustomerName: "华东电子",
		Content:      "介绍新品",
	})
	require.NoError(t, err)

	submitted, err := svc.SubmitReport(ctx, staffActor, report.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusSubmitted, submitted.Status)
	assert.NotNil(t, submitted.SubmittedAt)
}

func TestFullApprovalFlow(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	reportID := createDraftWithVisit(t, svc, "2026-08-28")
	_, err := svc.SubmitReport(ctx, staffActor, reportID)
	require.NoError(t, err)

	// 经理审批通过
	report, err := svc.ApproveReport(ctx, managerActor, reportID, "做得不错")
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusManagerApproved, report.Status)
	assert.NotNil(t, report.ManagerApprovedAt)
	assert.Nil(t, report.DirectorApprovedAt)

	// 总监审批通过
	report, err = svc.ApproveReport(ctx, directorActor, reportID, "")
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusApproved, report.Status)
	assert.NotNil(t, report.DirectorApprovedAt)

	// 每次审批恰好产生一条历史记录
	history, err := store.ListApprovalHistory(ctx, reportID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, models.ApprovalLevelManager, history[0].ApprovalLevel)
	assert.Equal(t, "m1", history[0].ApproverID)
	assert.Equal(t, models.ApprovalLevelDirector, history[1].ApprovalLevel)
	assert.Equal(t, "d1", history[1].ApproverID)

	// 终态不可再操作
	_, err = svc.ApproveReport(ctx, directorActor, reportID, "")
	assert.True(t, IsKind(err, KindInvalidStatus))
	_, err = svc.SubmitReport(ctx, staffActor, reportID)
	assert.True(t, IsKind(err, KindInvalidStatus))
}

func TestApproveWrongManager(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	reportID := createDraftWithVisit(t, svc, "2026-08-28")
	_, err := svc.SubmitReport(ctx, staffActor, reportID)
	require.NoError(t, err)

	// 非直属经理：人不对
	_, err = svc.ApproveReport(ctx, otherManagerActor, reportID, "")
	assert.True(t, IsKind(err, KindForbidden))

	// 销售员：永远无权
	_, err = svc.ApproveReport(ctx, staffActor, reportID, "")
	assert.True(t, IsKind(err, KindForbidden))
}

func TestDoubleApprove(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	reportID := createDraftWithVisit(t, svc, "2026-08-28")
	_, err := svc.SubmitReport(ctx, staffActor, reportID)
	require.NoError(t, err)

	_, err = svc.ApproveReport(ctx, managerActor, reportID, "")
	require.NoError(t, err)

	// 同一经理重复点审批：状态不对，不是权限问题
	_, err = svc.ApproveReport(ctx, managerActor, reportID, "")
	assert.True(t, IsKind(err, KindInvalidStatus))
}

func TestRejectRequiresComment(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	reportID := createDraftWithVisit(t, svc, "2026-08-28")
	_, err := svc.SubmitReport(ctx, staffActor, reportID)
	require.NoError(t, err)

	_, err = svc.RejectReport(ctx, managerActor, reportID, "")
	assert.True(t, IsKind(err, KindValidation))

	// 超长意见同样被拒
	_, err = svc.RejectReport(ctx, managerActor, reportID, strings.Repeat("长", MaxCommentLength+1))
	assert.True(t, IsKind(err, KindValidation))

	report, err := svc.RejectReport(ctx, managerActor, reportID, "拜访内容太简略")
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusRejected, report.Status)
}

func TestRejectedEditResubmitCycle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	reportID := createDraftWithVisit(t, svc, "2026-08-28")
	_, err := svc.SubmitReport(ctx, staffActor, reportID)
	require.NoError(t, err)
	_, err = svc.RejectReport(ctx, managerActor, reportID, "拜访内容太简略")
	require.NoError(t, err)

	// 驳回原因可以从详情取到
	detail, err := svc.GetReportDetail(ctx, staffActor, reportID)
	require.NoError(t, err)
	assert.Equal(t, "拜访内容太简略", detail.RejectionReason)
	assert.True(t, detail.CanEdit)

	// 驳回后编辑，状态保持rejected不变
	newPlan := "补充拜访细节后重新提交"
	report, err := svc.UpdateReport(ctx, staffActor, reportID, &models.UpdateReportRequest{Plan: &newPlan})
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusRejected, report.Status)
	assert.Equal(t, newPlan, report.Plan)

	// 重新提交：rejected直接变submitted，不经过draft
	report, err = svc.SubmitReport(ctx, staffActor, reportID)
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusSubmitted, report.Status)
}

func TestEditLockedAfterSubmit(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	reportID := createDraftWithVisit(t, svc, "2026-08-28")
	_, err := svc.SubmitReport(ctx, staffActor, reportID)
	require.NoError(t, err)

	problem := "改个问题"
	_, err = svc.UpdateReport(ctx, staffActor, reportID, &models.UpdateReportRequest{Problem: &problem})
	assert.True(t, IsKind(err, KindInvalidStatus))

	// 拜访记录和附件随日报一起锁定
	_, err = svc.CreateVisit(ctx, staffActor, reportID, &models.CreateVisitRequest{
		CustomerName: "新客户",
		Content:      "首次拜访",
	})
	assert.True(t, IsKind(err, KindInvalidStatus))
}

func TestWithdraw(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	reportID := createDraftWithVisit(t, svc, "2026-08-28")
	submitted, err := svc.SubmitReport(ctx, staffActor, reportID)
	require.NoError(t, err)
	require.NotNil(t, submitted.SubmittedAt)

	report, err := svc.WithdrawReport(ctx, staffActor, reportID)
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusDraft, report.Status)
	assert.Nil(t, report.SubmittedAt)

	// 经理审批后不能再撤回
	_, err = svc.SubmitReport(ctx, staffActor, reportID)
	require.NoError(t, err)
	_, err = svc.ApproveReport(ctx, managerActor, reportID, "")
	require.NoError(t, err)
	_, err = svc.WithdrawReport(ctx, staffActor, reportID)
	assert.True(t, IsKind(err, KindInvalidStatus))
}

func TestDeleteOnlyDraft(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	reportID := createDraftWithVisit(t, svc, "2026-08-28")
	_, err := svc.SubmitReport(ctx, staffActor, reportID)
	require.NoError(t, err)

	err = svc.DeleteReport(ctx, staffActor, reportID)
	assert.True(t, IsKind(err, KindInvalidStatus))

	_, err = svc.WithdrawReport(ctx, staffActor, reportID)
	require.NoError(t, err)
	assert.NoError(t, svc.DeleteReport(ctx, staffActor, reportID))

	_, err = svc.GetReportDetail(ctx, staffActor, reportID)
	assert.True(t, IsKind(err, KindNotFound))
}

func TestConcurrentApproveOnlyOneWins(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	reportID := createDraftWithVisit(t, svc, "2026-08-28")
	_, err := svc.SubmitReport(ctx, staffActor, reportID)
	require.NoError(t, err)

	// 经理的审批和驳回并发到达，CAS保证只有一个成功
	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = svc.ApproveReport(ctx, managerActor, reportID, "")
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = svc.RejectReport(ctx, managerActor, reportID, "需要补充")
	}()
	wg.Wait()

	var okCount, invalidCount int
	for _, e := range errs {
		if e == nil {
			okCount++
		} else if IsKind(e, KindInvalidStatus) {
			invalidCount++
		}
	}
	assert.Equal(t, 1, okCount, "恰好一个操作成功")
	assert.Equal(t, 1, invalidCount, "输掉的一方拿到InvalidStatus")

	history, err := store.ListApprovalHistory(ctx, reportID)
	require.NoError(t, err)
	assert.Len(t, history, 1, "只产生一条审批历史")
}

func TestApprovalQueueScopes(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	// s1(经理m1)提交一份，s2(经理m2)提交一份
	r1 := createDraftWithVisit(t, svc, "2026-08-28")
	_, err := svc.SubmitReport(ctx, staffActor, r1)
	require.NoError(t, err)

	r2, err := svc.CreateReport(ctx, otherStaffActor, &models.CreateReportRequest{ReportDate: "2026-08-28"})
	require.NoError(t, err)
	_, err = svc.CreateVisit(ctx, otherStaffActor, r2.ID.Hex(), &models.CreateVisitRequest{
		CustomerName: "华南仪器",
		Content:      "报价",
	})
	require.NoError(t, err)
	_, err = svc.SubmitReport(ctx, otherStaffActor, r2.ID.Hex())
	require.NoError(t, err)

	// m1只看到s1的
	queue, total, err := svc.ListApprovalQueue(ctx, managerActor, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, queue, 1)
	assert.Equal(t, "s1", queue[0].SalespersonID)

	// 总监队列此时为空
	_, total, err = svc.ListApprovalQueue(ctx, directorActor, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)

	// m2审批s2的之后进入总监队列，总监看到全局
	_, err = svc.ApproveReport(ctx, otherManagerActor, r2.ID.Hex(), "")
	require.NoError(t, err)
	queue, total, err = svc.ListApprovalQueue(ctx, directorActor, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "s2", queue[0].SalespersonID)

	// 销售员没有审批队列
	_, _, err = svc.ListApprovalQueue(ctx, staffActor, 1, 20)
	assert.True(t, IsKind(err, KindForbidden))
}

func TestAttachmentLifecycle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	reportID := createDraftWithVisit(t, svc, "2026-08-28")
	visits, err := svc.ListVisits(ctx, staffActor, reportID)
	require.NoError(t, err)
	require.Len(t, visits, 1)
	visitID := visits[0].ID.Hex()

	// 超过大小限制
	_, err = svc.AddAttachment(ctx, staffActor, visitID, &models.UploadAttachmentRequest{
		FileName: "huge.pdf",
		FileSize: maxAttachmentSize + 1,
	})
	assert.True(t, IsKind(err, KindValidation))

	attachment, err := svc.AddAttachment(ctx, staffActor, visitID, &models.UploadAttachmentRequest{
		FileName:    "合同.pdf",
		FileSize:    1024,
		ContentType: "application/pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, "合同.pdf", attachment.FileName)
	assert.Contains(t, attachment.FilePath, "uploads/")
	assert.Equal(t, "s1", attachment.UploaderID)

	// 提交后附件随日报锁定，不能再增删
	_, err = svc.SubmitReport(ctx, staffActor, reportID)
	require.NoError(t, err)
	_, err = svc.AddAttachment(ctx, staffActor, visitID, &models.UploadAttachmentRequest{
		FileName: "补充.pdf",
		FileSize: 1,
	})
	assert.True(t, IsKind(err, KindInvalidStatus))
	err = svc.DeleteAttachment(ctx, staffActor, attachment.ID.Hex())
	assert.True(t, IsKind(err, KindInvalidStatus))
}

func TestViewPermissions(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	reportID := createDraftWithVisit(t, svc, "2026-08-28")

	// 本人、直属经理、总监可见
	_, err := svc.GetReportDetail(ctx, staffActor, reportID)
	assert.NoError(t, err)
	_, err = svc.GetReportDetail(ctx, managerActor, reportID)
	assert.NoError(t, err)
	_, err = svc.GetReportDetail(ctx, directorActor, reportID)
	assert.NoError(t, err)

	// 非直属经理和其他销售员不可见
	_, err = svc.GetReportDetail(ctx, otherManagerActor, reportID)
	assert.True(t, IsKind(err, KindForbidden))
	_, err = svc.GetReportDetail(ctx, otherStaffActor, reportID)
	assert.True(t, IsKind(err, KindForbidden))
}

func TestComments(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	reportID := createDraftWithVisit(t, svc, "2026-08-28")

	_, err := svc.AddComment(ctx, managerActor, reportID, "下次附上客户反馈")
	require.NoError(t, err)

	// 无查看权限的人不能评论
	_, err = svc.AddComment(ctx, otherStaffActor, reportID, "围观")
	assert.True(t, IsKind(err, KindForbidden))

	comments, err := svc.ListComments(ctx, staffActor, reportID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "m1", comments[0].AuthorID)
}

func TestDashboardCounts(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	r1 := createDraftWithVisit(t, svc, "2026-08-27")
	createDraftWithVisit(t, svc, "2026-08-28")
	_, err := svc.SubmitReport(ctx, staffActor, r1)
	require.NoError(t, err)

	counts, err := svc.CountMyReportsByStatus(ctx, staffActor)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts.Draft)
	assert.Equal(t, int64(1), counts.Submitted)

	// 经理的待办队列
	pending, err := svc.PendingQueueSize(ctx, managerActor)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending)

	// 销售员恒为0
	pending, err = svc.PendingQueueSize(ctx, staffActor)
	require.NoError(t, err)
	assert.Equal(t, int64(0), pending)
}
