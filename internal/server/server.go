package server

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"sumerplus/internal/api"
	"sumerplus/internal/config"
	"sumerplus/internal/generator"
	"sumerplus/internal/store"
)

// Server HTTP服务器
type Server struct {
	router *gin.Engine
	store  *store.Store
	api    *api.Handler
}

// NewServer 创建服务器
func NewServer(cfg *config.AppConfig) (*Server, error) {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化 SQLite Store
	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		dataDir = cfg.Data.DataDir
	}
	sqliteStore, err := store.New(config.DatabasePath(dataDir))
	if err != nil {
		return nil, err
	}
	if v, err := sqliteStore.SchemaVersion(); err == nil {
		log.Printf("[server] settlement db %s (schema v%d)", config.DatabasePath(dataDir), v)
	}

	gen := generator.New(
		generator.WithPayConfig(cfg.Pay.Calculator()),
		generator.WithTitle(cfg.Pay.CompanyTitle),
	)
	batch := generator.BatchOptions{
		InputPath: cfg.Data.InputExcel,
		OutputDir: cfg.Data.OutputDir,
		Summary:   true,
	}

	return New(sqliteStore, api.NewHandler(sqliteStore, gen, batch, api.NewMetrics())), nil
}

// New 以现成的存储与处理器组装服务器
func New(st *store.Store, h *api.Handler) *Server {
	router := gin.New()
	router.Use(gin.Logger(), api.Recovery())

	s := &Server{
		router: router,
		store:  st,
		api:    h,
	}
	s.setupRoutes()
	return s
}

// setupRoutes 设置路由
func (s *Server) setupRoutes() {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})
	s.router.Use(s.api.Metrics().Middleware())

	apiGroup := s.router.Group("/api")
	{
		s.api.RegisterRoutes(apiGroup)
	}
	s.router.GET("/metrics", s.api.Metrics().Handler())

	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "not found"})
	})
}

// Handler 用于测试的 http.Handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run 启动服务器
func (s *Server) Run(addr string) error {
	log.Printf("[server] listening on %s", addr)
	return s.router.Run(addr)
}

// Close 关闭存储
func (s *Server) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}
