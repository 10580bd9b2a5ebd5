package main

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"

	"delicious-moments/pkg/common/config"
	"delicious-moments/pkg/common/logging"
	dao "delicious-moments/pkg/core/user/repository/dao/impl"
	"delicious-moments/pkg/core/user/service"
	"delicious-moments/pkg/web/handler"
	"delicious-moments/pkg/web/router"
)

func main() {
	// 初始化配置
	cfg := config.Load()

	// 初始化日志
	logger := logging.Init(cfg.Log)
	defer logger.Sync()

	// 初始化数据库连接
	db, err := cfg.InitDB()
	if err != nil {
		hlog.Fatalf("Failed to initialize database: %v", err)
	}

	// 显式组装依赖
	userRepo := dao.NewGormUserRepository(db)
	userService := service.NewUserService(userRepo)
	handlers := router.Handlers{
		User:   handler.NewUserHandler(userService, cfg.Middleware.JWT),
		Health: handler.NewHealthCheckHandler(db),
	}

	// 创建Hertz实例
	h := server.Default(
		server.WithHostPorts(cfg.Server.Address),
		server.WithHandleMethodNotAllowed(true),
		server.WithMaxRequestBodySize(cfg.Middleware.Security.MaxBodySize),
	)

	// 关闭时释放数据库连接
	h.OnShutdown = append(h.OnShutdown, func(ctx context.Context) {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	// 注册路由
	router.RegisterAPIs(h, cfg, handlers)

	// 启动服务
	h.Spin()
}
