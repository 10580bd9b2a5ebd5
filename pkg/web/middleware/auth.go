package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	jwth "github.com/hertz-contrib/jwt"

	"delicious-moments/pkg/common/config"
	bizerrors "delicious-moments/pkg/common/errors"
	"delicious-moments/pkg/web/model"
)

// JWTAuthMiddleware 校验令牌，并要求令牌身份与查询参数 userId 一致
func JWTAuthMiddleware(cfg config.JWTAuthConfig, identityKey string) app.HandlerFunc {
	authMiddleware, err := jwth.New(&jwth.HertzJWTMiddleware{
		Realm:            cfg.Realm,
		SigningAlgorithm: cfg.SigningMethod,
		Key:              []byte(cfg.Secret),
		Timeout:          cfg.ExpireDuration,
		IdentityKey:      identityKey,
		TokenLookup:      "header: Authorization",
		TokenHeadName:    "Bearer",
		TimeFunc:         time.Now,
		IdentityHandler: func(ctx context.Context, c *app.RequestContext) interface{} {
			claims := jwth.ExtractClaims(ctx, c)
			return claims[identityKey]
		},
		Authorizator: func(data interface{}, ctx context.Context, c *app.RequestContext) bool {
			// JSON 数字解码为 float64
			id, ok := data.(float64)
			return ok && int64(id) == userIDFromQuery(c)
		},
		Unauthorized: handleJWTError,
	})
	if err != nil {
		panic(fmt.Sprintf("JWT 中间件初始化失败: %v", err))
	}
	return authMiddleware.MiddlewareFunc()
}

func handleJWTError(ctx context.Context, c *app.RequestContext, code int, message string) {
	hlog.CtxWarnf(ctx, "JWT Error (code=%d) path=%s: %s", code, c.Path(), message)

	result := model.FailWithCode(bizerrors.TokenInvalid)
	switch {
	case code == 403:
		result = model.FailWithCode(bizerrors.Forbidden)
	case message == jwth.ErrExpiredToken.Error():
		result = model.FailWithCode(bizerrors.TokenExpired)
	}
	c.AbortWithStatusJSON(code, result)
}
