package testutil

import (
	"context"
	"net/http"
	"testing"

	"github.com/adspace/backoffice/internal/infrastructure/persistence"
	"github.com/adspace/backoffice/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFixture_StoresReferenceRows(t *testing.T) {
	f := NewFixture(t)
	ctx := context.Background()

	mgr, err := persistence.NewGormUserRepository(f.DB).FindByID(ctx, f.Manager.ID)
	require.NoError(t, err)
	require.NotNil(t, mgr)
	assert.Equal(t, "Борис", mgr.Name)

	c := f.ContractWithMonthly(t, "Д-1", Day(2025, 1, 1), Day(2025, 3, 31), 1000)
	loaded, err := persistence.NewGormContractRepository(f.DB).FindByID(ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Len(t, loaded.Specifications, 1)
	assert.Len(t, loaded.Specifications[0].Services, 1)
}

func TestDoAndDecodeData(t *testing.T) {
	engine := gin.New()
	engine.POST("/echo", func(c *gin.Context) {
		var body map[string]string
		_ = c.ShouldBindJSON(&body)
		c.JSON(http.StatusCreated, dto.NewSuccessResponse(body))
	})
	engine.GET("/fail", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.ErrCodeNotFound, "missing"))
	})

	w := Do(t, engine, http.MethodPost, "/echo", map[string]string{"key": "value"})
	assert.Equal(t, http.StatusCreated, w.Code)
	data, resp := DecodeData[map[string]string](t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, "value", data["key"])

	w = Do(t, engine, http.MethodGet, "/fail", nil)
	_, resp = DecodeData[map[string]string](t, w)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
}
