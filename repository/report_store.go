package repository

import (
	"context"
	"time"

	"github.com/BerniceZTT/daily_report_end/models"
	"github.com/BerniceZTT/daily_report_end/service"
	"github.com/BerniceZTT/daily_report_end/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoReportStore service.ReportStore 的MongoDB实现
type mongoReportStore struct{}

// NewReportStore 创建日报存储，注入给核心引擎使用
func NewReportStore() service.ReportStore {
	return &mongoReportStore{}
}

// parseID 解析对象ID
func parseID(id string) (primitive.ObjectID, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, service.NewValidationError("无效的ID格式")
	}
	return objID, nil
}

// wrapErr 把存储错误包装为业务错误类别
func wrapErr(err error, resource string) error {
	if err == mongo.ErrNoDocuments {
		return service.NewNotFoundError(resource)
	}
	if mongo.IsDuplicateKeyError(err) {
		return service.NewConflictError(resource + "已存在")
	}
	return service.NewInternalError(err)
}

func (s *mongoReportStore) GetSalesperson(ctx context.Context, id string) (*models.Salesperson, error) {
	objID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var sp models.Salesperson
	if err := Collection(SalespersonsCollection).FindOne(ctx, bson.M{"_id": objID}).Decode(&sp); err != nil {
		return nil, wrapErr(err, "销售人员")
	}
	return &sp, nil
}

func (s *mongoReportStore) ListActiveSalespersons(ctx context.Context) ([]models.Salesperson, error) {
	cursor, err := Collection(SalespersonsCollection).Find(ctx, bson.M{"isActive": true})
	if err != nil {
		return nil, service.NewInternalError(err)
	}
	defer cursor.Close(ctx)

	var salespersons []models.Salesperson
	if err := cursor.All(ctx, &salespersons); err != nil {
		return nil, service.NewInternalError(err)
	}
	return salespersons, nil
}

func (s *mongoReportStore) GetReport(ctx context.Context, id string) (*models.DailyReport, error) {
	objID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var report models.DailyReport
	if err := Collection(DailyReportsCollection).FindOne(ctx, bson.M{"_id": objID}).Decode(&report); err != nil {
		return nil, wrapErr(err, "日报")
	}
	return &report, nil
}

func (s *mongoReportStore) GetReportByDate(ctx context.Context, salespersonID, reportDate string) (*models.DailyReport, error) {
	filter := bson.M{"salespersonId": salespersonID, "reportDate": reportDate}

	var report models.DailyReport
	if err := Collection(DailyReportsCollection).FindOne(ctx, filter).Decode(&report); err != nil {
		return nil, wrapErr(err, "日报")
	}
	return &report, nil
}

func (s *mongoReportStore) CreateReport(ctx context.Context, report *models.DailyReport) (string, error) {
	result, err := Collection(DailyReportsCollection).InsertOne(ctx, report)
	if err != nil {
		// 唯一索引兜底同一天重复创建
		return "", wrapErr(err, "当天的日报")
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", service.NewInternalError(mongo.ErrNilDocument)
	}
	return insertedID.Hex(), nil
}

func (s *mongoReportStore) UpdateReportContent(ctx context.Context, id string, problem, plan *string) error {
	objID, err := parseID(id)
	if err != nil {
		return err
	}

	updateData := bson.M{"updatedAt": time.Now()}
	if problem != nil {
		updateData["problem"] = *problem
	}
	if plan != nil {
		updateData["plan"] = *plan
	}

	result, err := Collection(DailyReportsCollection).UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": updateData})
	if err != nil {
		return service.NewInternalError(err)
	}
	if result.MatchedCount == 0 {
		return service.NewNotFoundError("日报")
	}
	return nil
}

func (s *mongoReportStore) DeleteReport(ctx context.Context, id string) error {
	objID, err := parseID(id)
	if err != nil {
		return err
	}

	result, err := Collection(DailyReportsCollection).DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return service.NewInternalError(err)
	}
	if result.DeletedCount == 0 {
		return service.NewNotFoundError("日报")
	}

	// 级联删除子集合记录
	if _, err := Collection(VisitRecordsCollection).DeleteMany(ctx, bson.M{"dailyReportId": id}); err != nil {
		utils.Logger.Error().Err(err).Str("reportId", id).Msg("级联删除拜访记录失败")
	}
	if _, err := Collection(AttachmentsCollection).DeleteMany(ctx, bson.M{"dailyReportId": id}); err != nil {
		utils.Logger.Error().Err(err).Str("reportId", id).Msg("级联删除附件失败")
	}
	if _, err := Collection(ReportCommentsCollection).DeleteMany(ctx, bson.M{"dailyReportId": id}); err != nil {
		utils.Logger.Error().Err(err).Str("reportId", id).Msg("级联删除评论失败")
	}
	return nil
}

func (s *mongoReportStore) ListReports(ctx context.Context, filter service.ReportFilter) ([]models.DailyReport, int64, error) {
	query := bson.M{}
	if filter.SalespersonID != "" {
		query["salespersonId"] = filter.SalespersonID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	// 日期为YYYY-MM-DD字符串，可直接按字典序比较
	dateRange := bson.M{}
	if filter.StartDate != "" {
		dateRange["$gte"] = filter.StartDate
	}
	if filter.EndDate != "" {
		dateRange["$lte"] = filter.EndDate
	}
	if len(dateRange) > 0 {
		query["reportDate"] = dateRange
	}

	collection := Collection(DailyReportsCollection)

	total, err := collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, service.NewInternalError(err)
	}

	page, limit := normalizePage(filter.Page, filter.Limit)
	findOptions := options.Find().
		SetSort(bson.M{"reportDate": -1}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, 0, service.NewInternalError(err)
	}
	defer cursor.Close(ctx)

	var reports []models.DailyReport
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, 0, service.NewInternalError(err)
	}
	return reports, total, nil
}

func (s *mongoReportStore) ListApprovalQueue(ctx context.Context, status models.ReportStatus, managerID string, page, limit int64) ([]models.DailyReport, int64, error) {
	query := bson.M{"status": status}

	// 经理队列限定直属下级
	if managerID != "" {
		cursor, err := Collection(SalespersonsCollection).Find(ctx, bson.M{"managerId": managerID})
		if err != nil {
			return nil, 0, service.NewInternalError(err)
		}

		var subordinates []models.Salesperson
		if err := cursor.All(ctx, &subordinates); err != nil {
			cursor.Close(ctx)
			return nil, 0, service.NewInternalError(err)
		}
		cursor.Close(ctx)

		if len(subordinates) == 0 {
			return []models.DailyReport{}, 0, nil
		}

		ids := make([]string, 0, len(subordinates))
		for _, sp := range subordinates {
			ids = append(ids, sp.ID.Hex())
		}
		query["salespersonId"] = bson.M{"$in": ids}
	}

	collection := Collection(DailyReportsCollection)

	total, err := collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, service.NewInternalError(err)
	}

	page, limit = normalizePage(page, limit)
	findOptions := options.Find().
		SetSort(bson.M{"submittedAt": 1}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, 0, service.NewInternalError(err)
	}
	defer cursor.Close(ctx)

	var reports []models.DailyReport
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, 0, service.NewInternalError(err)
	}
	return reports, total, nil
}

func (s *mongoReportStore) CountReportsByStatus(ctx context.Context, salespersonID string) (*models.ReportStatusCounts, error) {
	collection := Collection(DailyReportsCollection)
	counts := &models.ReportStatusCounts{}

	targets := []struct {
		status models.ReportStatus
		dest   *int64
	}{
		{models.ReportStatusDraft, &counts.Draft},
		{models.ReportStatusSubmitted, &counts.Submitted},
		{models.ReportStatusManagerApproved, &counts.ManagerApproved},
		{models.ReportStatusApproved, &counts.Approved},
		{models.ReportStatusRejected, &counts.Rejected},
	}

	for _, t := range targets {
		n, err := collection.CountDocuments(ctx, bson.M{"salespersonId": salespersonID, "status": t.status})
		if err != nil {
			return nil, service.NewInternalError(err)
		}
		*t.dest = n
	}
	return counts, nil
}

// TransitionStatus 原子状态转换。更新条件带上期望的当前状态，
// 并发竞争时只有一个写入者能匹配成功，输掉的一方得到 InvalidStatus。
func (s *mongoReportStore) TransitionStatus(ctx context.Context, id string, from, to models.ReportStatus, stamp service.TransitionStamp, history *models.ApprovalHistory) error {
	objID, err := parseID(id)
	if err != nil {
		return err
	}

	collection := Collection(DailyReportsCollection)

	set := bson.M{"status": to, "updatedAt": time.Now()}
	unset := bson.M{}
	if stamp.SubmittedAt != nil {
		set["submittedAt"] = *stamp.SubmittedAt
	}
	if stamp.ClearSubmittedAt {
		unset["submittedAt"] = ""
	}
	if stamp.ManagerApprovedAt != nil {
		set["managerApprovedAt"] = *stamp.ManagerApprovedAt
	}
	if stamp.DirectorApprovedAt != nil {
		set["directorApprovedAt"] = *stamp.DirectorApprovedAt
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	result, err := collection.UpdateOne(ctx, bson.M{"_id": objID, "status": from}, update)
	if err != nil {
		return service.NewInternalError(err)
	}

	if result.MatchedCount == 0 {
		// 区分日报不存在和状态已被并发修改
		count, cerr := collection.CountDocuments(ctx, bson.M{"_id": objID})
		if cerr != nil {
			return service.NewInternalError(cerr)
		}
		if count == 0 {
			return service.NewNotFoundError("日报")
		}
		return service.NewInvalidStatusError("日报状态已变化，请刷新后重试")
	}

	if history == nil {
		return nil
	}

	// 审批历史与状态变更必须一致：历史写入失败时回滚状态
	if _, err := Collection(ApprovalHistoryCollection).InsertOne(ctx, history); err != nil {
		utils.Logger.Error().Err(err).Str("reportId", id).Msg("审批历史写入失败，回滚状态")

		rollback := bson.M{"$set": bson.M{"status": from, "updatedAt": time.Now()}}
		if _, rerr := collection.UpdateOne(ctx, bson.M{"_id": objID, "status": to}, rollback); rerr != nil {
			return service.NewUncertainError(rerr)
		}
		return service.NewInternalError(err)
	}

	return nil
}

func (s *mongoReportStore) GetVisit(ctx context.Context, id string) (*models.VisitRecord, error) {
	objID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var visit models.VisitRecord
	if err := Collection(VisitRecordsCollection).FindOne(ctx, bson.M{"_id": objID}).Decode(&visit); err != nil {
		return nil, wrapErr(err, "拜访记录")
	}
	return &visit, nil
}

func (s *mongoReportStore) ListVisits(ctx context.Context, reportID string) ([]models.VisitRecord, error) {
	// 按创建时间升序，保持拜访顺序
	findOptions := options.Find().SetSort(bson.M{"createdAt": 1})
	cursor, err := Collection(VisitRecordsCollection).Find(ctx, bson.M{"dailyReportId": reportID}, findOptions)
	if err != nil {
		return nil, service.NewInternalError(err)
	}
	defer cursor.Close(ctx)

	var visits []models.VisitRecord
	if err := cursor.All(ctx, &visits); err != nil {
		return nil, service.NewInternalError(err)
	}
	return visits, nil
}

func (s *mongoReportStore) CountVisits(ctx context.Context, reportID string) (int64, error) {
	count, err := Collection(VisitRecordsCollection).CountDocuments(ctx, bson.M{"dailyReportId": reportID})
	if err != nil {
		return 0, service.NewInternalError(err)
	}
	return count, nil
}

func (s *mongoReportStore) CreateVisit(ctx context.Context, visit *models.VisitRecord) (string, error) {
	result, err := Collection(VisitRecordsCollection).InsertOne(ctx, visit)
	if err != nil {
		return "", service.NewInternalError(err)
	}
	return result.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (s *mongoReportStore) UpdateVisit(ctx context.Context, id string, update *models.UpdateVisitRequest) error {
	objID, err := parseID(id)
	if err != nil {
		return err
	}

	updateData := bson.M{"updatedAt": time.Now()}
	if update.CustomerID != nil {
		updateData["customerId"] = *update.CustomerID
	}
	if update.CustomerName != nil {
		updateData["customerName"] = *update.CustomerName
	}
	if update.VisitTime != nil {
		updateData["visitTime"] = *update.VisitTime
	}
	if update.Content != nil {
		updateData["content"] = *update.Content
	}
	if update.Result != nil {
		updateData["result"] = *update.Result
	}

	result, err := Collection(VisitRecordsCollection).UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": updateData})
	if err != nil {
		return service.NewInternalError(err)
	}
	if result.MatchedCount == 0 {
		return service.NewNotFoundError("拜访记录")
	}
	return nil
}

func (s *mongoReportStore) DeleteVisit(ctx context.Context, id string) error {
	objID, err := parseID(id)
	if err != nil {
		return err
	}

	result, err := Collection(VisitRecordsCollection).DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return service.NewInternalError(err)
	}
	if result.DeletedCount == 0 {
		return service.NewNotFoundError("拜访记录")
	}

	// 附件随拜访记录一起删除
	if _, err := Collection(AttachmentsCollection).DeleteMany(ctx, bson.M{"visitRecordId": id}); err != nil {
		utils.Logger.Error().Err(err).Str("visitId", id).Msg("级联删除附件失败")
	}
	return nil
}

func (s *mongoReportStore) GetAttachment(ctx context.Context, id string) (*models.Attachment, error) {
	objID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var attachment models.Attachment
	if err := Collection(AttachmentsCollection).FindOne(ctx, bson.M{"_id": objID}).Decode(&attachment); err != nil {
		return nil, wrapErr(err, "附件")
	}
	return &attachment, nil
}

func (s *mongoReportStore) ListAttachmentsByReport(ctx context.Context, reportID string) ([]models.Attachment, error) {
	findOptions := options.Find().SetSort(bson.M{"createdAt": 1})
	cursor, err := Collection(AttachmentsCollection).Find(ctx, bson.M{"dailyReportId": reportID}, findOptions)
	if err != nil {
		return nil, service.NewInternalError(err)
	}
	defer cursor.Close(ctx)

	var attachments []models.Attachment
	if err := cursor.All(ctx, &attachments); err != nil {
		return nil, service.NewInternalError(err)
	}
	return attachments, nil
}

func (s *mongoReportStore) CreateAttachment(ctx context.Context, attachment *models.Attachment) (string, error) {
	result, err := Collection(AttachmentsCollection).InsertOne(ctx, attachment)
	if err != nil {
		return "", service.NewInternalError(err)
	}
	return result.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (s *mongoReportStore) DeleteAttachment(ctx context.Context, id string) error {
	objID, err := parseID(id)
	if err != nil {
		return err
	}

	result, err := Collection(AttachmentsCollection).DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return service.NewInternalError(err)
	}
	if result.DeletedCount == 0 {
		return service.NewNotFoundError("附件")
	}
	return nil
}

func (s *mongoReportStore) ListApprovalHistory(ctx context.Context, reportID string) ([]models.ApprovalHistory, error) {
	// 审批历史按时间升序，构成完整审计链
	findOptions := options.Find().SetSort(bson.M{"createdAt": 1})
	cursor, err := Collection(ApprovalHistoryCollection).Find(ctx, bson.M{"dailyReportId": reportID}, findOptions)
	if err != nil {
		return nil, service.NewInternalError(err)
	}
	defer cursor.Close(ctx)

	var history []models.ApprovalHistory
	if err := cursor.All(ctx, &history); err != nil {
		return nil, service.NewInternalError(err)
	}
	return history, nil
}

func (s *mongoReportStore) CreateComment(ctx context.Context, comment *models.ReportComment) (string, error) {
	result, err := Collection(ReportCommentsCollection).InsertOne(ctx, comment)
	if err != nil {
		return "", service.NewInternalError(err)
	}
	return result.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (s *mongoReportStore) ListComments(ctx context.Context, reportID string) ([]models.ReportComment, error) {
	findOptions := options.Find().SetSort(bson.M{"createdAt": 1})
	cursor, err := Collection(ReportCommentsCollection).Find(ctx, bson.M{"dailyReportId": reportID}, findOptions)
	if err != nil {
		return nil, service.NewInternalError(err)
	}
	defer cursor.Close(ctx)

	var comments []models.ReportComment
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, service.NewInternalError(err)
	}
	return comments, nil
}

// normalizePage 规范化分页参数
func normalizePage(page, limit int64) (int64, int64) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
