package dao

import (
	"context"

	"delicious-moments/pkg/core/user/domain"
)

// UserRepository 用户聚合仓储，负责账号表与资料表的组合读写
type UserRepository interface {
	// FindByID 账号不存在时返回 (nil, nil)
	FindByID(ctx context.Context, id domain.UserID) (*domain.User, error)
	// FindByOpenID 账号不存在时返回 (nil, nil)
	FindByOpenID(ctx context.Context, openID string) (*domain.User, error)
	// Save 无ID走新增，有ID走带版本校验的更新；两次写入在同一事务内
	Save(ctx context.Context, user *domain.User) error
	ExistsByOpenID(ctx context.Context, openID string) (bool, error)
	// Delete 软删除账号，资料行保留
	Delete(ctx context.Context, id domain.UserID) error
	// Transaction 在同一事务内执行 fn，fn 收到绑定该事务的仓储
	Transaction(ctx context.Context, fn func(repo UserRepository) error) error
}
