package router

import (
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"

	"delicious-moments/pkg/common/config"
	"delicious-moments/pkg/web/handler"
	"delicious-moments/pkg/web/middleware"
)

// Handlers 由启动流程构造后注入，路由层不持有全局状态
type Handlers struct {
	User   *handler.UserHandler
	Health *handler.HealthCheckHandler
}

// RegisterAPIs 注册所有API路由
func RegisterAPIs(h *server.Hertz, cfg *config.Config, handlers Handlers) {
	// 注册全局中间件（按执行顺序）
	h.Use(
		middleware.RecoveryMiddleware(cfg),
		middleware.RequestIDMiddleware(),
		middleware.LoggerMiddleware(),
		middleware.ErrorHandlerMiddleware(),
		middleware.TimeoutMiddleware(cfg.Middleware.Timeout.RequestTimeout),
		middleware.CORSMiddleware(cfg.Middleware.CORS),
		middleware.RateLimitMiddleware(cfg.Middleware.RateLimit),
	)

	// 基础接口组
	healthGroup := h.Group("/health")
	{
		healthGroup.GET("", handlers.Health.Health)
		healthGroup.GET("/info", handlers.Health.Info)
	}

	// 业务接口组
	userGroup := h.Group("/users")
	{
		userGroup.POST("/login", handlers.User.Login)

		// 资料接口按配置决定是否需要身份认证
		var profileChain []app.HandlerFunc
		if cfg.Middleware.JWT.Enabled {
			profileChain = append(profileChain, middleware.JWTAuthMiddleware(cfg.Middleware.JWT, handler.IdentityKey))
		}
		profileGroup := userGroup.Group("/profile", profileChain...)
		profileGroup.GET("", handlers.User.GetProfile)
		profileGroup.PUT("", handlers.User.UpdateProfile)
		profileGroup.DELETE("", handlers.User.DeleteProfile)
	}
}
