package handler

import (
	"context"
	"runtime"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"gorm.io/gorm"

	bizerrors "delicious-moments/pkg/common/errors"
	"delicious-moments/pkg/web/model"
)

const (
	applicationName = "delicious-moments-api"
	appVersion      = "1.0.0"
)

type HealthCheckHandler struct {
	db *gorm.DB
}

// NewHealthCheckHandler db 为空时跳过数据库检查
func NewHealthCheckHandler(db *gorm.DB) *HealthCheckHandler {
	return &HealthCheckHandler{db: db}
}

type HealthStatus struct {
	Status      string            `json:"status"`
	Application string            `json:"application"`
	Version     string            `json:"version"`
	Timestamp   time.Time         `json:"timestamp"`
	Components  []ComponentStatus `json:"components,omitempty"`
}

type ComponentStatus struct {
	Name    string        `json:"name"`
	Status  string        `json:"status"`
	IsCore  bool          `json:"is_core"` // 核心组件异常时整体降级
	Latency time.Duration `json:"latency,omitempty"`
	Error   string        `json:"error,omitempty"`
}

var startupTime = time.Now()

// Health 健康检查
func (h *HealthCheckHandler) Health(ctx context.Context, c *app.RequestContext) {
	status := HealthStatus{
		Status:      "UP",
		Application: applicationName,
		Version:     appVersion,
		Timestamp:   time.Now().UTC(),
	}
	if h.db != nil {
		status.Components = append(status.Components, h.checkDatabase(ctx))
	}

	if hasCriticalErrors(status.Components) {
		status.Status = "DEGRADED"
		result := model.FailWithCode(bizerrors.SystemError)
		result.Data = status
		c.JSON(503, result)
		return
	}

	c.JSON(200, model.Success(status))
}

// Info 系统信息
func (h *HealthCheckHandler) Info(ctx context.Context, c *app.RequestContext) {
	c.JSON(200, model.Success(map[string]interface{}{
		"name":        "食光集 API",
		"description": "家庭膳食管理系统后端服务",
		"version":     appVersion,
		"goVersion":   runtime.Version(),
		"osName":      runtime.GOOS,
		"uptime":      time.Since(startupTime).Round(time.Second).String(),
	}))
}

func (h *HealthCheckHandler) checkDatabase(ctx context.Context) ComponentStatus {
	comp := ComponentStatus{Name: "database", IsCore: true}
	start := time.Now()

	sqlDB, err := h.db.DB()
	if err == nil {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		err = sqlDB.PingContext(pingCtx)
	}
	comp.Latency = time.Since(start)

	if err != nil {
		comp.Status = "critical"
		comp.Error = err.Error()
		return comp
	}
	comp.Status = "ok"
	return comp
}

func hasCriticalErrors(components []ComponentStatus) bool {
	for _, comp := range components {
		// 核心组件状态异常或任意组件发生严重错误
		if (comp.IsCore && comp.Status != "ok") || comp.Status == "critical" {
			return true
		}
	}
	return false
}
