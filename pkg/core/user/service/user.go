package service

import (
	"context"
	"fmt"

	"github.com/cloudwego/hertz/pkg/common/hlog"

	bizerrors "delicious-moments/pkg/common/errors"
	"delicious-moments/pkg/core/user/domain"
	"delicious-moments/pkg/core/user/repository/dao"
)

// UserProfile 对外暴露的用户资料，不包含版本号与时间戳
type UserProfile struct {
	UserID    int64
	Nickname  string
	AvatarURL string
	Phone     string
}

// UserService 用户应用服务
type UserService struct {
	repo dao.UserRepository
}

// NewUserService 创建用户应用服务
func NewUserService(repo dao.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// GetUserProfile 获取用户信息
func (s *UserService) GetUserProfile(ctx context.Context, rawID int64) (*UserProfile, error) {
	id, err := domain.NewUserID(rawID)
	if err != nil {
		return nil, err
	}

	user, err := s.mustFind(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	return toProfile(user), nil
}

// UpdateUserProfile 更新用户资料，读取-修改-写入在同一事务内
func (s *UserService) UpdateUserProfile(ctx context.Context, rawID int64, patch domain.ProfilePatch) error {
	id, err := domain.NewUserID(rawID)
	if err != nil {
		return err
	}

	err = s.repo.Transaction(ctx, func(repo dao.UserRepository) error {
		user, err := s.mustFind(ctx, repo, id)
		if err != nil {
			return err
		}

		user.UpdateProfile(patch)
		return repo.Save(ctx, user)
	})
	if err != nil {
		return translate(err)
	}

	hlog.CtxInfof(ctx, "用户资料更新成功: userId=%d", rawID)
	return nil
}

// GetOrCreateUser 根据OpenID获取或创建用户
//
// 并发的首次登录可能同时判定不存在，后插入者命中唯一约束时回读先插入者的记录。
func (s *UserService) GetOrCreateUser(ctx context.Context, openID, nickname, avatarURL string) (*domain.User, error) {
	if openID == "" {
		return nil, bizerrors.InvalidArgument("openId不能为空")
	}

	user, err := s.repo.FindByOpenID(ctx, openID)
	if err != nil {
		return nil, translate(err)
	}
	if user != nil {
		return user, nil
	}

	user = domain.NewUser(openID, nickname, avatarURL)
	err = s.repo.Save(ctx, user)
	switch {
	case err == nil:
		hlog.CtxInfof(ctx, "创建新用户: openId=%s userId=%s", openID, user.ID)
		return user, nil
	case bizerrors.Is(err, bizerrors.ErrDuplicateEntry):
		hlog.CtxWarnf(ctx, "并发创建用户，回读已存在记录: openId=%s", openID)
		existing, findErr := s.repo.FindByOpenID(ctx, openID)
		if findErr != nil {
			return nil, translate(findErr)
		}
		if existing == nil {
			return nil, fmt.Errorf("user %s vanished after duplicate insert: %w", openID, err)
		}
		return existing, nil
	default:
		return nil, translate(err)
	}
}

// DeleteUser 软删除账号，资料保留
func (s *UserService) DeleteUser(ctx context.Context, rawID int64) error {
	id, err := domain.NewUserID(rawID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return translate(err)
	}
	hlog.CtxInfof(ctx, "用户已删除: userId=%d", rawID)
	return nil
}

func (s *UserService) mustFind(ctx context.Context, repo dao.UserRepository, id domain.UserID) (*domain.User, error) {
	user, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, bizerrors.New(bizerrors.UserNotFound)
	}
	return user, nil
}

// translate 存储层错误转为业务错误，未识别的原样返回由边界层降级为系统错误
func translate(err error) error {
	var bizErr *bizerrors.BizError
	switch {
	case bizerrors.As(err, &bizErr):
		return err
	case bizerrors.Is(err, bizerrors.ErrRecordNotFound):
		return bizerrors.Wrap(bizerrors.UserNotFound, err)
	case bizerrors.Is(err, bizerrors.ErrVersionConflict):
		return bizerrors.Wrap(bizerrors.Conflict, err)
	default:
		return err
	}
}

func toProfile(user *domain.User) *UserProfile {
	return &UserProfile{
		UserID:    user.ID.Value(),
		Nickname:  user.Nickname,
		AvatarURL: user.AvatarURL,
		Phone:     user.Phone,
	}
}
