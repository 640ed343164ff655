package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/BerniceZTT/daily_report_end/models"
	"github.com/BerniceZTT/daily_report_end/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	// 集合名
	SalespersonsCollection    = "salespersons"
	PositionsCollection       = "positions"
	DailyReportsCollection    = "dailyReports"
	VisitRecordsCollection    = "visitRecords"
	AttachmentsCollection     = "attachments"
	ApprovalHistoryCollection = "approvalHistory"
	ReportCommentsCollection  = "reportComments"
	ApiOperationLogsCollection = "apiOperationLogs"
)

var (
	client *mongo.Client
	db     *mongo.Database
	ctx    = context.Background()
)

// InitMongoDB 初始化MongoDB连接
func InitMongoDB(uri, dbName string) error {
	// 设置连接超时
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// 创建客户端
	var err error
	clientOptions := options.Client().ApplyURI(uri)
	client, err = mongo.Connect(connectCtx, clientOptions)
	if err != nil {
		return fmt.Errorf("连接MongoDB失败: %w", err)
	}

	// 检查连接
	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return fmt.Errorf("ping MongoDB失败: %w", err)
	}

	// 选择数据库
	db = client.Database(dbName)
	utils.Logger.Info().Str("database", dbName).Msg("已连接到MongoDB")

	return nil
}

// CloseMongoDB 关闭MongoDB连接
func CloseMongoDB() {
	if client != nil {
		if err := client.Disconnect(ctx); err != nil {
			utils.Logger.Error().Err(err).Msg("断开MongoDB连接失败")
			return
		}
		utils.Logger.Info().Msg("已断开MongoDB连接")
	}
}

// GetContext 返回MongoDB操作的上下文
func GetContext() context.Context {
	return ctx
}

// Collection 返回指定名称的集合
func Collection(name string) *mongo.Collection {
	return db.Collection(name)
}

// InitializeCollections 初始化数据库集合和索引
func InitializeCollections() error {
	collections := []string{
		SalespersonsCollection,
		PositionsCollection,
		DailyReportsCollection,
		VisitRecordsCollection,
		AttachmentsCollection,
		ApprovalHistoryCollection,
		ReportCommentsCollection,
		ApiOperationLogsCollection,
	}

	for _, collName := range collections {
		collExists, err := collectionExists(collName)
		if err != nil {
			return fmt.Errorf("检查集合失败: %w", err)
		}

		// 如果不存在则创建
		if !collExists {
			if err := db.CreateCollection(ctx, collName); err != nil {
				return fmt.Errorf("创建集合失败: %w", err)
			}
			utils.Logger.Info().Str("collection", collName).Msg("创建集合成功")
		}
	}

	// 每人每天一份日报的唯一索引
	_, err := db.Collection(DailyReportsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "salespersonId", Value: 1}, {Key: "reportDate", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("创建日报唯一索引失败: %w", err)
	}

	// 常用查询索引
	_, err = db.Collection(ApprovalHistoryCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "dailyReportId", Value: 1}, {Key: "createdAt", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("创建审批历史索引失败: %w", err)
	}

	_, err = db.Collection(SalespersonsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("创建邮箱唯一索引失败: %w", err)
	}

	return nil
}

// InitializePositions 初始化职位参照数据
func InitializePositions() error {
	positions := []models.Position{
		{ID: "staff", Name: "销售员", Level: models.PositionLevelStaff},
		{ID: "manager", Name: "销售经理", Level: models.PositionLevelManager},
		{ID: "director", Name: "销售总监", Level: models.PositionLevelDirector},
	}

	collection := db.Collection(PositionsCollection)
	for _, p := range positions {
		filter := bson.M{"_id": p.ID}
		update := bson.M{"$set": bson.M{"name": p.Name, "level": p.Level}}
		_, err := collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
		if err != nil {
			return fmt.Errorf("初始化职位数据失败: %w", err)
		}
	}

	utils.Logger.Info().Int("count", len(positions)).Msg("职位参照数据初始化完成")
	return nil
}

// InitializeDirectorAccount 初始化默认总监账户
func InitializeDirectorAccount() error {
	collection := db.Collection(SalespersonsCollection)

	count, err := collection.CountDocuments(ctx, bson.M{"level": models.PositionLevelDirector})
	if err != nil {
		return fmt.Errorf("检查总监账户失败: %w", err)
	}

	// 如果已存在，则不创建
	if count > 0 {
		utils.Logger.Info().Msg("总监账户已存在，跳过创建")
		return nil
	}

	now := time.Now()
	director := models.Salesperson{
		Name:       "admin",
		Email:      "admin@example.com",
		Password:   utils.HashPassword("admin123"),
		PositionID: "director",
		Level:      models.PositionLevelDirector,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := collection.InsertOne(ctx, director); err != nil {
		return fmt.Errorf("创建总监账户失败: %w", err)
	}

	utils.Logger.Info().Msg("已创建默认总监账户")
	return nil
}

// GetDatabaseStatus 获取数据库状态
func GetDatabaseStatus() (map[string]interface{}, error) {
	collections := []string{
		SalespersonsCollection,
		PositionsCollection,
		DailyReportsCollection,
		VisitRecordsCollection,
		AttachmentsCollection,
		ApprovalHistoryCollection,
		ReportCommentsCollection,
		ApiOperationLogsCollection,
	}

	result := make(map[string]interface{})

	for _, collName := range collections {
		coll := db.Collection(collName)
		count, err := coll.CountDocuments(ctx, bson.M{})
		if err != nil {
			utils.Logger.Error().Err(err).Str("collection", collName).Msg("获取集合计数失败")
			result[collName] = map[string]interface{}{
				"count": 0,
				"error": err.Error(),
			}
			continue
		}
		result[collName] = map[string]interface{}{
			"count": count,
		}
	}

	return result, nil
}

// collectionExists 检查集合是否存在
func collectionExists(collName string) (bool, error) {
	collections, err := db.ListCollectionNames(ctx, bson.M{"name": collName})
	if err != nil {
		return false, err
	}

	for _, name := range collections {
		if name == collName {
			return true, nil
		}
	}

	return false, nil
}
