package api

import (
	"net/http"

	"github.com/fyerfyer/resume-analyzer/api/handler"
	"github.com/fyerfyer/resume-analyzer/api/middleware"
	"github.com/gin-gonic/gin"
)

// SetupRouter 配置API路由
func SetupRouter(
	analyzeHandler *handler.AnalyzeHandler,
	resumeHandler *handler.ResumeHandler,
	matchHandler *handler.MatchHandler,
) *gin.Engine {
	r := gin.New()

	// 全局中间件
	r.Use(middleware.Logger())
	r.Use(middleware.SetTraceID())
	r.Use(middleware.ErrorMiddleware())
	r.Use(middleware.RequestBodyLog())
	r.Use(Cors())

	// 健康检查
	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	// API路由组
	api := r.Group("/api")
	{
		// 简历文本分析
		api.POST("/analyze", analyzeHandler.AnalyzeText)

		// 简历文件管理
		resumes := api.Group("/resumes")
		{
			resumes.POST("", resumeHandler.Upload)
			resumes.GET("", resumeHandler.List)
			resumes.GET("/:id", resumeHandler.Get)
			resumes.GET("/:id/status", resumeHandler.Status)
			resumes.DELETE("/:id", resumeHandler.Delete)
		}

		// 职位匹配
		api.POST("/match", matchHandler.Match)
	}

	return r
}

// Cors 跨域请求中间件
func Cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Trace-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
