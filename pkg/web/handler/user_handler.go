// ----------- pkg/web/handler/user_handler.go -----------
package handler

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/golang-jwt/jwt/v5"

	"delicious-moments/pkg/common/config"
	bizerrors "delicious-moments/pkg/common/errors"
	"delicious-moments/pkg/core/user/domain"
	"delicious-moments/pkg/core/user/service"
	"delicious-moments/pkg/web/model"
)

// UserService 处理器依赖的应用服务能力
type UserService interface {
	GetUserProfile(ctx context.Context, userID int64) (*service.UserProfile, error)
	UpdateUserProfile(ctx context.Context, userID int64, patch domain.ProfilePatch) error
	GetOrCreateUser(ctx context.Context, openID, nickname, avatarURL string) (*domain.User, error)
	DeleteUser(ctx context.Context, userID int64) error
}

type UserHandler struct {
	svc UserService
	jwt config.JWTAuthConfig
}

func NewUserHandler(svc UserService, jwtCfg config.JWTAuthConfig) *UserHandler {
	return &UserHandler{svc: svc, jwt: jwtCfg}
}

// GetProfile GET /users/profile?userId=
func (h *UserHandler) GetProfile(ctx context.Context, c *app.RequestContext) {
	userID, err := queryUserID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	profile, err := h.svc.GetUserProfile(ctx, userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(200, model.Success(model.NewUserRes(profile.UserID, profile.Nickname, profile.AvatarURL, profile.Phone)))
}

// UpdateProfile PUT /users/profile?userId=
func (h *UserHandler) UpdateProfile(ctx context.Context, c *app.RequestContext) {
	userID, err := queryUserID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	// 空请求体视为不修改任何字段
	var req model.UpdateProfileReq
	if len(c.Request.Body()) > 0 {
		if err := bindAndValidate(c, &req); err != nil {
			_ = c.Error(err)
			return
		}
	}

	patch := domain.ProfilePatch{
		Nickname:  req.Nickname,
		AvatarURL: req.AvatarURL,
		Phone:     req.Phone,
	}
	if err := h.svc.UpdateUserProfile(ctx, userID, patch); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(200, model.Success(nil))
}

// DeleteProfile DELETE /users/profile?userId=
func (h *UserHandler) DeleteProfile(ctx context.Context, c *app.RequestContext) {
	userID, err := queryUserID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.svc.DeleteUser(ctx, userID); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(200, model.Success(nil))
}

// Login POST /users/login，首次登录自动建号
func (h *UserHandler) Login(ctx context.Context, c *app.RequestContext) {
	var req model.LoginReq
	if err := bindAndValidate(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	user, err := h.svc.GetOrCreateUser(ctx, req.OpenID, req.Nickname, req.AvatarURL)
	if err != nil {
		_ = c.Error(err)
		return
	}

	token, expireAt, err := h.signToken(user)
	if err != nil {
		_ = c.Error(fmt.Errorf("sign token for user %s: %w", user.ID, err))
		return
	}

	c.JSON(200, model.Success(model.LoginRes{
		Token:    token,
		ExpireAt: expireAt.UnixMilli(),
		User:     model.NewUserRes(user.ID.Value(), user.Nickname, user.AvatarURL, user.Phone),
	}))
}

// signToken 生成 JWT，声明字段与鉴权中间件约定一致
func (h *UserHandler) signToken(user *domain.User) (string, time.Time, error) {
	method := jwt.GetSigningMethod(h.jwt.SigningMethod)
	if method == nil {
		method = jwt.SigningMethodHS256
	}

	now := time.Now()
	expireAt := now.Add(h.jwt.ExpireDuration)
	token := jwt.NewWithClaims(method, jwt.MapClaims{
		IdentityKey: user.ID.Value(),
		"open_id":   user.OpenID,
		"exp":       expireAt.Unix(), // 过期时间
		"orig_iat":  now.Unix(),
		"iss":       h.jwt.Issuer, // 签发方
	})

	signed, err := token.SignedString([]byte(h.jwt.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expireAt, nil
}

// IdentityKey 令牌中用户ID的声明名
const IdentityKey = "user_id"

func queryUserID(c *app.RequestContext) (int64, error) {
	raw := c.Query("userId")
	if raw == "" {
		return 0, bizerrors.InvalidArgument("userId不能为空")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, bizerrors.New(bizerrors.ParamError)
	}
	return id, nil
}

// bindAndValidate 先绑定再执行 vd 规则；绑定失败统一提示，规则失败透出标签中的 msg
func bindAndValidate(c *app.RequestContext, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return bizerrors.InvalidArgument("参数校验失败").WithCause(err)
	}
	if err := c.Validate(req); err != nil {
		return bizerrors.InvalidArgument(err.Error())
	}
	return nil
}
