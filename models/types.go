package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// 职位级别常量
const (
	PositionLevelStaff    = 1 // 销售员
	PositionLevelManager  = 2 // 销售经理
	PositionLevelDirector = 3 // 销售总监
)

// Position 职位（静态参照数据，核心逻辑只读不改）
type Position struct {
	ID    string `bson:"_id" json:"_id"`
	Name  string `bson:"name" json:"name"`
	Level int    `bson:"level" json:"level"`
}

// Salesperson 销售人员
type Salesperson struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name       string             `bson:"name" json:"name"`
	Email      string             `bson:"email" json:"email"`
	Password   string             `bson:"password" json:"-"` // 不返回密码
	PositionID string             `bson:"positionId" json:"positionId"`
	Level      int                `bson:"level" json:"level"`
	ManagerID  string             `bson:"managerId,omitempty" json:"managerId,omitempty"`
	DirectorID string             `bson:"directorId,omitempty" json:"directorId,omitempty"`
	IsActive   bool               `bson:"isActive" json:"isActive"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// 各种请求和响应结构
type (
	// LoginRequest 登录请求
	LoginRequest struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	// LoginResponse 登录响应
	LoginResponse struct {
		Token string      `json:"token"`
		User  interface{} `json:"user"`
	}

	// RegisterRequest 注册请求
	RegisterRequest struct {
		Name       string `json:"name" binding:"required,min=2"`
		Email      string `json:"email" binding:"required,email"`
		Password   string `json:"password" binding:"required,min=6"`
		PositionID string `json:"positionId" binding:"required"`
		ManagerID  string `json:"managerId"`
		DirectorID string `json:"directorId"`
	}
)
