package middleware

import (
	"context"
	"fmt"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/google/uuid"
	"github.com/hertz-contrib/cors"
	"golang.org/x/time/rate"

	"delicious-moments/pkg/common/config"
	bizerrors "delicious-moments/pkg/common/errors"
	"delicious-moments/pkg/web/model"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

type requestIDCtxKey struct{}

// RequestIDFrom 取出请求ID，供日志关联
func RequestIDFrom(c context.Context) string {
	if v, ok := c.Value(requestIDCtxKey{}).(string); ok {
		return v
	}
	return ""
}

// RequestIDMiddleware 透传或生成请求ID
func RequestIDMiddleware() app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		id := string(ctx.GetHeader(RequestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		ctx.Set(requestIDKey, id)
		ctx.Response.Header.Set(RequestIDHeader, id)
		ctx.Next(context.WithValue(c, requestIDCtxKey{}, id))
	}
}

// LoggerMiddleware 结构化的请求日志记录
func LoggerMiddleware() app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		start := time.Now()
		ctx.Next(c) // 放行到后续处理器
		latency := time.Since(start)

		hlog.CtxInfof(c, "| %3d | %13v | %15s | %-7s | %s | rid=%s",
			ctx.Response.StatusCode(),
			latency,
			ctx.ClientIP(),
			ctx.Method(),
			ctx.Path(),
			ctx.GetString(requestIDKey),
		)
	}
}

/*
	启动时指定环境变量
	export APP_ENV=production
	go run ./cmd/web
*/

// RecoveryMiddleware 异常捕获，生产环境隐藏堆栈
func RecoveryMiddleware(cfg *config.Config) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		defer func() {
			if err := recover(); err != nil {
				stack := string(debug.Stack())

				hlog.CtxErrorf(c, "[PANIC RECOVERED] rid=%s %v\n%s", ctx.GetString(requestIDKey), err, stack)

				result := model.FailWithCode(bizerrors.SystemError)
				if !cfg.IsProd() {
					result.Data = map[string]interface{}{
						"error": fmt.Sprintf("%v", err),
						"stack": strings.Split(stack, "\n"),
					}
				}
				ctx.AbortWithStatusJSON(500, result)
			}
		}()
		ctx.Next(c)
	}
}

// ErrorHandlerMiddleware 将处理器登记的错误翻译为统一响应
func ErrorHandlerMiddleware() app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		ctx.Next(c)

		last := ctx.Errors.Last()
		if last == nil {
			return
		}

		var bizErr *bizerrors.BizError
		if bizerrors.As(last.Err, &bizErr) {
			hlog.CtxWarnf(c, "业务异常: path=%s rid=%s %v", ctx.Path(), ctx.GetString(requestIDKey), bizErr)
			ctx.JSON(200, model.Fail(bizErr.Code, bizErr.Message))
			return
		}

		hlog.CtxErrorf(c, "系统异常: path=%s rid=%s %v", ctx.Path(), ctx.GetString(requestIDKey), last.Err)
		ctx.JSON(200, model.FailWithCode(bizerrors.SystemError))
	}
}

// CORSMiddleware 安全的跨域配置
func CORSMiddleware(corsConfig config.CORSConfig) app.HandlerFunc {
	return cors.New(
		cors.Config{
			AllowOrigins:     corsConfig.AllowOrigins,
			AllowMethods:     corsConfig.AllowMethods,
			AllowHeaders:     corsConfig.AllowHeaders,
			ExposeHeaders:    corsConfig.ExposeHeaders,
			AllowCredentials: corsConfig.AllowCredentials,
			MaxAge:           corsConfig.MaxAge,
			// 动态校验来源
			AllowOriginFunc: func(origin string) bool {
				for _, allowed := range corsConfig.AllowOrigins {
					if origin == allowed {
						return true
					}
				}
				for _, domain := range corsConfig.TrustedDomains {
					if strings.HasSuffix(origin, domain) {
						return true
					}
				}
				return false
			},
		},
	)
}

// TimeoutMiddleware 为后续处理器附加截止时间，由存储层在阻塞调用上感知
func TimeoutMiddleware(seconds int) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		if seconds <= 0 {
			ctx.Next(c)
			return
		}
		timeoutCtx, cancel := context.WithTimeout(c, time.Duration(seconds)*time.Second)
		defer cancel()

		ctx.Next(timeoutCtx)

		if timeoutCtx.Err() == context.DeadlineExceeded {
			hlog.CtxWarnf(c, "request timeout path=%s rid=%s", ctx.Path(), ctx.GetString(requestIDKey))
		}
	}
}

// RateLimitMiddleware 令牌桶限流，全局共享一个桶
func RateLimitMiddleware(cfg config.RateLimitConfig) app.HandlerFunc {
	if cfg.Rate <= 0 {
		return func(c context.Context, ctx *app.RequestContext) { ctx.Next(c) }
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = int(cfg.Rate) + 1
	}
	limiter := rate.NewLimiter(rate.Limit(cfg.Rate), burst)

	return func(c context.Context, ctx *app.RequestContext) {
		if !limiter.Allow() {
			hlog.CtxInfof(c, "[RATE LIMIT] path=%s", ctx.Path())
			ctx.AbortWithStatusJSON(429, model.FailWithCode(bizerrors.TooManyRequests))
			return
		}
		ctx.Next(c)
	}
}

// userIDFromQuery 解析资料接口上的 userId，失败返回 0
func userIDFromQuery(ctx *app.RequestContext) int64 {
	id, err := strconv.ParseInt(ctx.Query("userId"), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
