package utils

import (
	"testing"

	"github.com/BerniceZTT/daily_report_end/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hashed := HashPassword("secret123")
	assert.NotEqual(t, "secret123", hashed)
	assert.True(t, VerifyPassword("secret123", hashed))
	assert.False(t, VerifyPassword("wrong", hashed))

	// 哈希是确定性的
	assert.Equal(t, hashed, HashPassword("secret123"))
}

func TestGenerateAndParseToken(t *testing.T) {
	sp := models.Salesperson{
		ID:         primitive.NewObjectID(),
		Name:       "王经理",
		Level:      models.PositionLevelManager,
		PositionID: "manager",
	}

	token, err := GenerateToken(sp)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, sp.ID.Hex(), claims["id"])
	assert.Equal(t, "王经理", claims["name"])
	// JWT数字解析为float64
	assert.Equal(t, float64(models.PositionLevelManager), claims["level"])
	assert.Equal(t, "manager", claims["positionId"])
}

func TestParseTokenInvalid(t *testing.T) {
	_, err := ParseToken("not-a-token")
	assert.Error(t, err)

	// 被篡改的token签名校验失败
	sp := models.Salesperson{ID: primitive.NewObjectID(), Name: "张三", Level: models.PositionLevelStaff}
	token, err := GenerateToken(sp)
	require.NoError(t, err)
	_, err = ParseToken(token + "x")
	assert.Error(t, err)
}
