package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/BerniceZTT/daily_report_end/models"
	"github.com/BerniceZTT/daily_report_end/repository"
	"github.com/BerniceZTT/daily_report_end/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Login 销售人员登录
func Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, "无效的请求参数: "+err.Error(), http.StatusBadRequest)
		return
	}

	utils.Logger.Info().Str("email", req.Email).Msg("登录尝试")

	collection := repository.Collection(repository.SalespersonsCollection)

	var sp models.Salesperson
	err := collection.FindOne(repository.GetContext(), bson.M{"email": req.Email}).Decode(&sp)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.Logger.Info().Str("email", req.Email).Msg("登录失败: 邮箱不存在")
			utils.ErrorResponse(c, "邮箱或密码错误", http.StatusUnauthorized)
			return
		}
		utils.Logger.Error().Err(err).Msg("查询销售人员出错")
		utils.ErrorResponse(c, "登录失败: 数据库错误", http.StatusInternalServerError)
		return
	}

	// 停用账户不允许登录
	if !sp.IsActive {
		utils.Logger.Info().Str("email", req.Email).Msg("登录失败: 账户已停用")
		utils.ErrorResponse(c, "账户已停用，请联系管理员", http.StatusForbidden)
		return
	}

	// 验证密码
	if !utils.VerifyPassword(req.Password, sp.Password) {
		utils.Logger.Info().Str("email", req.Email).Msg("登录失败: 密码错误")
		utils.ErrorResponse(c, "邮箱或密码错误", http.StatusUnauthorized)
		return
	}

	// 生成JWT令牌
	token, err := utils.GenerateToken(sp)
	if err != nil {
		utils.Logger.Error().Err(err).Msg("生成token失败")
		utils.ErrorResponse(c, "生成登录令牌失败，请重试", http.StatusInternalServerError)
		return
	}

	sp.Password = ""
	utils.Logger.Info().Str("name", sp.Name).Int("level", sp.Level).Msg("登录成功")
	utils.SuccessResponse(c, gin.H{
		"token": token,
		"user":  sp,
	}, "")
}

// Register 注册销售人员。
// 上级引用的职位级别在这里校验：managerId必须指向经理及以上，directorId必须指向总监。
func Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, "无效的请求参数: "+err.Error(), http.StatusBadRequest)
		return
	}

	utils.Logger.Info().
		Str("email", req.Email).
		Str("positionId", req.PositionID).
		Msg("处理注册请求")

	ctx := repository.GetContext()
	collection := repository.Collection(repository.SalespersonsCollection)

	// 检查邮箱是否已存在
	var existing models.Salesperson
	err := collection.FindOne(ctx, bson.M{"email": req.Email}).Decode(&existing)
	if err == nil {
		utils.ErrorResponse(c, "邮箱已被注册", http.StatusBadRequest)
		return
	} else if err != mongo.ErrNoDocuments {
		utils.Logger.Error().Err(err).Msg("检查邮箱时发生错误")
		utils.ErrorResponse(c, "注册失败: "+err.Error(), http.StatusInternalServerError)
		return
	}

	// 查询职位确定级别
	var position models.Position
	err = repository.Collection(repository.PositionsCollection).
		FindOne(ctx, bson.M{"_id": req.PositionID}).Decode(&position)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.ErrorResponse(c, "职位不存在", http.StatusBadRequest)
			return
		}
		utils.ErrorResponse(c, "注册失败: "+err.Error(), http.StatusInternalServerError)
		return
	}

	// 校验上级引用
	if req.ManagerID != "" {
		manager, err := findSalespersonByHex(ctx, req.ManagerID)
		if err != nil || manager.Level < models.PositionLevelManager {
			utils.ErrorResponse(c, "managerId必须指向销售经理或销售总监", http.StatusBadRequest)
			return
		}
	}
	if req.DirectorID != "" {
		director, err := findSalespersonByHex(ctx, req.DirectorID)
		if err != nil || director.Level != models.PositionLevelDirector {
			utils.ErrorResponse(c, "directorId必须指向销售总监", http.StatusBadRequest)
			return
		}
	}

	now := time.Now()
	sp := models.Salesperson{
		Name:       req.Name,
		Email:      req.Email,
		Password:   utils.HashPassword(req.Password),
		PositionID: position.ID,
		Level:      position.Level,
		ManagerID:  req.ManagerID,
		DirectorID: req.DirectorID,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	result, err := collection.InsertOne(ctx, sp)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			utils.ErrorResponse(c, "邮箱已被注册", http.StatusBadRequest)
			return
		}
		utils.Logger.Error().Err(err).Msg("插入销售人员失败")
		utils.ErrorResponse(c, "注册失败: "+err.Error(), http.StatusInternalServerError)
		return
	}

	sp.ID = result.InsertedID.(primitive.ObjectID)
	sp.Password = ""

	utils.Logger.Info().Str("id", sp.ID.Hex()).Str("name", sp.Name).Msg("注册成功")
	utils.SuccessResponse(c, gin.H{"user": sp}, "注册成功", http.StatusCreated)
}

// findSalespersonByHex 按十六进制ID查找销售人员
func findSalespersonByHex(ctx context.Context, id string) (*models.Salesperson, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var sp models.Salesperson
	err = repository.Collection(repository.SalespersonsCollection).
		FindOne(ctx, bson.M{"_id": objID}).Decode(&sp)
	if err != nil {
		return nil, err
	}
	return &sp, nil
}
