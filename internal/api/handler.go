package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"

	"sumerplus/internal/generator"
	"sumerplus/internal/store"
)

// Handler 结算单 API 处理器
type Handler struct {
	store   *store.Store
	gen     *generator.Generator
	batch   generator.BatchOptions
	metrics *Metrics
}

// NewHandler 创建 API 处理器；batch 为本地批处理（run-statements）的输入与输出
func NewHandler(st *store.Store, gen *generator.Generator, batch generator.BatchOptions, metrics *Metrics) *Handler {
	if gen == nil {
		gen = generator.New()
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	return &Handler{
		store:   st,
		gen:     gen,
		batch:   batch,
		metrics: metrics,
	}
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/health", h.Health)

	// 结算单
	router.POST("/statements", h.Statements)
	router.GET("/run-statements", h.RunStatements)

	// 司机配置
	router.GET("/driver-config", h.GetDriverConfig)
	router.POST("/driver-config", h.SaveDriverConfig)

	// 生成日志
	router.GET("/generation-logs", h.ListGenerationLogs)
}

// Metrics 指标
func (h *Handler) Metrics() *Metrics {
	return h.metrics
}

// Health 健康检查
// GET /api/health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// fail 失败响应：{ok:false, error, trace}
func fail(c *gin.Context, status int, err error) {
	body := gin.H{"ok": false, "error": err.Error()}
	if status >= http.StatusInternalServerError {
		body["trace"] = errorTrace(err)
	}
	c.JSON(status, body)
}

// errorTrace 错误链逐层展开
func errorTrace(err error) string {
	var lines []string
	for e := err; e != nil; e = errors.Unwrap(e) {
		lines = append(lines, fmt.Sprintf("%T: %v", e, e))
	}
	return strings.Join(lines, "\n")
}

// Recovery panic 时返回 500 与调用栈
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Printf("[api] panic: %v", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"ok":    false,
			"error": fmt.Sprint(recovered),
			"trace": string(debug.Stack()),
		})
	})
}

// track 记录生成日志；store 不可用时只打印
func (h *Handler) track(ctx context.Context, flow, source string, run func() (*generator.Result, error)) (*generator.Result, error) {
	var logID int64
	if h.store != nil {
		id, err := h.store.CreateGenerationLog(ctx, flow, source)
		if err != nil {
			log.Printf("[api] generation log unavailable: %v", err)
		} else {
			logID = id
		}
	}

	res, err := run()

	status := store.StatusSuccess
	msg := ""
	if err != nil {
		status = store.StatusFailed
		msg = err.Error()
	}
	trucks, files := 0, 0
	sheet, label := "", ""
	if res != nil {
		trucks, files = res.Trucks, len(res.Files)
		sheet, label = res.Sheet, res.PeriodLabel
		h.metrics.ObserveBatch(flow, status, res.Trucks, res.Files)
	} else {
		h.metrics.ObserveBatch(flow, status, 0, nil)
	}

	if logID > 0 {
		batchID := ""
		if res != nil {
			batchID = res.BatchID
		}
		if err := h.store.CompleteGenerationLog(ctx, logID, batchID, sheet, label, trucks, files, status, msg); err != nil {
			log.Printf("[api] %v", err)
		}
	}
	return res, err
}
