package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"sumerplus/internal/model"
	"sumerplus/internal/store"
)

var errStoreUnavailable = errors.New("driver config store unavailable")

// GetDriverConfig 按车号查询司机配置
// GET /api/driver-config?unit=N
func (h *Handler) GetDriverConfig(c *gin.Context) {
	raw := strings.TrimSpace(c.Query("unit"))
	if raw == "" {
		fail(c, http.StatusBadRequest, errors.New("unit required"))
		return
	}
	unit, err := strconv.Atoi(raw)
	if err != nil || unit <= 0 {
		fail(c, http.StatusBadRequest, fmt.Errorf("invalid unit %q", raw))
		return
	}
	if h.store == nil {
		fail(c, http.StatusServiceUnavailable, errStoreUnavailable)
		return
	}

	cfg, err := h.store.GetDriverConfig(c.Request.Context(), unit)
	if err != nil {
		if errors.Is(err, store.ErrDriverConfigNotFound) {
			c.JSON(http.StatusOK, gin.H{"ok": true, "data": nil})
			return
		}
		fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": cfg})
}

// SaveDriverConfig 新增或更新司机配置
// POST /api/driver-config
func (h *Handler) SaveDriverConfig(c *gin.Context) {
	var cfg model.DriverConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		fail(c, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if h.store == nil {
		fail(c, http.StatusServiceUnavailable, errStoreUnavailable)
		return
	}

	if err := h.store.UpsertDriverConfig(c.Request.Context(), cfg); err != nil {
		if errors.Is(err, store.ErrInvalidDriverConfig) {
			fail(c, http.StatusBadRequest, err)
			return
		}
		fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": cfg})
}

// ListGenerationLogs 最近的生成记录
// GET /api/generation-logs?limit=20
func (h *Handler) ListGenerationLogs(c *gin.Context) {
	if h.store == nil {
		fail(c, http.StatusServiceUnavailable, errStoreUnavailable)
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	logs, err := h.store.ListGenerationLogs(c.Request.Context(), limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": logs})
}
