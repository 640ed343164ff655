package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BerniceZTT/daily_report_end/models"
	"github.com/BerniceZTT/daily_report_end/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func protectedRouter(minLevel int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	group := router.Group("/api/test")
	group.Use(AuthMiddleware())
	if minLevel > 0 {
		group.Use(RequireLevel(minLevel))
	}
	group.GET("", func(c *gin.Context) {
		user, err := utils.GetUser(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": user.ID, "level": user.Level})
	})
	return router
}

func doGet(router *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	router := protectedRouter(0)

	// 无token
	w := doGet(router, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// 非法token
	w = doGet(router, "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// 合法token
	sp := models.Salesperson{
		ID:    primitive.NewObjectID(),
		Name:  "张三",
		Level: models.PositionLevelStaff,
	}
	token, err := utils.GenerateToken(sp)
	require.NoError(t, err)

	w = doGet(router, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), sp.ID.Hex())
}

func TestRequireLevel(t *testing.T) {
	router := protectedRouter(models.PositionLevelManager)

	staffToken, err := utils.GenerateToken(models.Salesperson{
		ID: primitive.NewObjectID(), Name: "张三", Level: models.PositionLevelStaff,
	})
	require.NoError(t, err)
	managerToken, err := utils.GenerateToken(models.Salesperson{
		ID: primitive.NewObjectID(), Name: "王经理", Level: models.PositionLevelManager,
	})
	require.NoError(t, err)

	// 销售员被拒
	w := doGet(router, staffToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 经理放行
	w = doGet(router, managerToken)
	assert.Equal(t, http.StatusOK, w.Code)
}
