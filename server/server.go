package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"

	"github.com/MladenSU/color-mtr/internal/service/report"
	"github.com/MladenSU/color-mtr/pkg/tools/logger"

	"github.com/gin-gonic/gin"
)

// Prober runs mtr and returns the parsed report
type Prober interface {
	Invoke(ctx context.Context, userArgs []string) (*report.Report, error)
}

// Server HTTP服务器
type Server struct {
	engine        *gin.Engine
	reportService *ReportService
	host          string
	port          int
}

// NewServer 创建HTTP服务器
func NewServer(host string, port int, prober Prober, classifier report.Classifier) *Server {
	gin.SetMode(gin.ReleaseMode)

	server := &Server{
		engine:        gin.New(),
		reportService: NewReportService(prober, classifier),
		host:          host,
		port:          port,
	}
	server.engine.Use(gin.Recovery(), requestLogger())

	server.setupRoutes()
	return server
}

// setupRoutes 设置路由
func (s *Server) setupRoutes() {
	api := s.engine.Group("/api")
	{
		api.GET("/report", s.reportService.GetReport) // 运行 mtr 并返回分级结果
	}

	// 健康检查
	s.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, Success(gin.H{"status": "ok"}))
	})
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Addr 监听地址
func (s *Server) Addr() string {
	return net.JoinHostPort(s.host, strconv.Itoa(s.port))
}

// Start 启动服务器
func (s *Server) Start() error {
	addr := s.Addr()
	logger.WithComponent("server").Info("HTTP server starting", "addr", addr)
	fmt.Printf("HTTP Server starting on http://%s\n", addr)
	fmt.Println("API Endpoints:")
	fmt.Println("  GET    /health")
	fmt.Println("  GET    /api/report?target=HOST[&count=N][&arg=...]")
	return s.engine.Run(addr)
}
