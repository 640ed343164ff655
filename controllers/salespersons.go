package controllers

import (
	"net/http"

	"github.com/BerniceZTT/daily_report_end/models"
	"github.com/BerniceZTT/daily_report_end/repository"
	"github.com/BerniceZTT/daily_report_end/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetPositions 获取职位列表
func GetPositions(c *gin.Context) {
	ctx := repository.GetContext()
	collection := repository.Collection(repository.PositionsCollection)

	cursor, err := collection.Find(ctx, bson.M{},
		options.Find().SetSort(bson.M{"level": 1}))
	if err != nil {
		utils.Logger.Error().Err(err).Msg("查询职位列表失败")
		utils.ErrorResponse(c, "获取职位列表失败", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	positions := []models.Position{}
	if err := cursor.All(ctx, &positions); err != nil {
		utils.ErrorResponse(c, "解析职位列表失败", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(c, gin.H{"positions": positions}, "")
}

// GetSalespersons 获取在职销售人员列表（用于注册时选择上级）
func GetSalespersons(c *gin.Context) {
	ctx := repository.GetContext()
	collection := repository.Collection(repository.SalespersonsCollection)

	filter := bson.M{"isActive": true}
	if levelStr := c.Query("minLevel"); levelStr != "" {
		// minLevel=2 时只返回经理及以上
		switch levelStr {
		case "2":
			filter["level"] = bson.M{"$gte": models.PositionLevelManager}
		case "3":
			filter["level"] = models.PositionLevelDirector
		}
	}

	cursor, err := collection.Find(ctx, filter,
		options.Find().SetSort(bson.M{"name": 1}).SetProjection(bson.M{"password": 0}))
	if err != nil {
		utils.Logger.Error().Err(err).Msg("查询销售人员列表失败")
		utils.ErrorResponse(c, "获取销售人员列表失败", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	salespersons := []models.Salesperson{}
	if err := cursor.All(ctx, &salespersons); err != nil {
		utils.ErrorResponse(c, "解析销售人员列表失败", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(c, gin.H{"salespersons": salespersons}, "")
}

// GetSubordinates 获取当前用户的直属下级
func GetSubordinates(c *gin.Context) {
	user, ok := currentActor(c)
	if !ok {
		return
	}

	ctx := repository.GetContext()
	collection := repository.Collection(repository.SalespersonsCollection)

	var filter bson.M
	switch user.Level {
	case models.PositionLevelManager:
		filter = bson.M{"managerId": user.ID, "isActive": true}
	case models.PositionLevelDirector:
		// 总监可以查看所有在职人员
		filter = bson.M{"isActive": true}
	default:
		utils.SuccessResponse(c, gin.H{"subordinates": []models.Salesperson{}}, "")
		return
	}

	cursor, err := collection.Find(ctx, filter,
		options.Find().SetSort(bson.M{"name": 1}).SetProjection(bson.M{"password": 0}))
	if err != nil {
		utils.Logger.Error().Err(err).Msg("查询下级人员失败")
		utils.ErrorResponse(c, "获取下级人员失败", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	subordinates := []models.Salesperson{}
	if err := cursor.All(ctx, &subordinates); err != nil {
		utils.ErrorResponse(c, "解析下级人员失败", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(c, gin.H{"subordinates": subordinates}, "")
}

// GetProfile 获取当前登录用户信息
func GetProfile(c *gin.Context) {
	user, ok := currentActor(c)
	if !ok {
		return
	}

	objID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		utils.ErrorResponse(c, "无效的用户ID", http.StatusBadRequest)
		return
	}

	var sp models.Salesperson
	err = repository.Collection(repository.SalespersonsCollection).
		FindOne(repository.GetContext(), bson.M{"_id": objID}).Decode(&sp)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.ErrorResponse(c, "用户不存在", http.StatusNotFound)
			return
		}
		utils.ErrorResponse(c, "获取用户信息失败", http.StatusInternalServerError)
		return
	}

	sp.Password = ""
	utils.SuccessResponse(c, gin.H{"user": sp}, "")
}
