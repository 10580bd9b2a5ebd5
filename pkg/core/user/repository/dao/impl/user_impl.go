package dao

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	bizerrors "delicious-moments/pkg/common/errors"
	"delicious-moments/pkg/core/user/domain"
	"delicious-moments/pkg/core/user/model"
	"delicious-moments/pkg/core/user/repository/dao"
)

type GormUserRepository struct {
	db *gorm.DB
	// 非空表示处于 Transaction 内，内存状态的推进延后到最外层提交之后
	onCommit *[]func()
}

// NewGormUserRepository 构造仓储，db 生命周期由调用方管理
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// WithTx 绑定事务
func (r *GormUserRepository) WithTx(tx *gorm.DB) *GormUserRepository {
	if tx == nil {
		return r
	}
	return &GormUserRepository{db: tx}
}

func (r *GormUserRepository) Transaction(ctx context.Context, fn func(repo dao.UserRepository) error) error {
	var hooks []func()
	if r.onCommit != nil {
		// 保存点回滚时丢弃其中登记的回调
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(&GormUserRepository{db: tx, onCommit: &hooks})
		})
		if err == nil {
			*r.onCommit = append(*r.onCommit, hooks...)
		}
		return err
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormUserRepository{db: tx, onCommit: &hooks})
	})
	if err != nil {
		return err
	}
	for _, hook := range hooks {
		hook()
	}
	return nil
}

// afterCommit 事务外立即执行
func (r *GormUserRepository) afterCommit(fn func()) {
	if r.onCommit == nil {
		fn()
		return
	}
	*r.onCommit = append(*r.onCommit, fn)
}

func (r *GormUserRepository) FindByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	var account model.AccountRecord
	err := r.db.WithContext(ctx).
		Where("id = ?", id.Value()).
		Take(&account).Error
	return r.loadAggregate(ctx, &account, err)
}

func (r *GormUserRepository) FindByOpenID(ctx context.Context, openID string) (*domain.User, error) {
	var account model.AccountRecord
	err := r.db.WithContext(ctx).
		Where("openid = ?", openID).
		Take(&account).Error
	return r.loadAggregate(ctx, &account, err)
}

// loadAggregate 补齐资料行；资料缺失属于数据异常，不阻断读取
func (r *GormUserRepository) loadAggregate(ctx context.Context, account *model.AccountRecord, err error) (*domain.User, error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("%w: account query failed", bizerrors.WrapGormError(err))
	}

	profile, err := r.findProfile(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	return toDomain(account, profile), nil
}

func (r *GormUserRepository) findProfile(ctx context.Context, userID int64) (*model.ProfileRecord, error) {
	var profile model.ProfileRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Take(&profile).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("%w: profile query failed", bizerrors.WrapGormError(err))
	default:
		return &profile, nil
	}
}

func (r *GormUserRepository) Save(ctx context.Context, user *domain.User) error {
	if user.IsPersisted() {
		return r.update(ctx, user)
	}
	return r.insert(ctx, user)
}

// insert 账号与资料同事务写入，资料失败时账号一并回滚
func (r *GormUserRepository) insert(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		account := toAccountRecord(user)
		if err := tx.Create(account).Error; err != nil {
			return fmt.Errorf("%w: account creation failed", bizerrors.WrapGormError(err))
		}

		profile := toProfileRecord(user, account.ID)
		if err := tx.Create(profile).Error; err != nil {
			return fmt.Errorf("%w: profile creation failed", bizerrors.WrapGormError(err))
		}

		user.ID = domain.MustUserID(account.ID)
		user.CreatedAt = account.CreatedAt
		user.UpdatedAt = account.UpdatedAt
		return nil
	})
}

// update 以读取时的版本号作为写条件，未命中即视为并发冲突
func (r *GormUserRepository) update(ctx context.Context, user *domain.User) error {
	now := time.Now()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.AccountRecord{}).
			Where("id = ? AND version = ?", user.ID.Value(), user.Version).
			Updates(map[string]interface{}{
				"union_id":   nullableString(user.UnionID),
				"version":    gorm.Expr("version + 1"),
				"updated_at": now,
			})
		if result.Error != nil {
			return fmt.Errorf("%w: account update failed", bizerrors.WrapGormError(result.Error))
		}
		if result.RowsAffected == 0 {
			return r.classifyMissedUpdate(tx, user.ID)
		}

		result = tx.Model(&model.ProfileRecord{}).
			Where("user_id = ?", user.ID.Value()).
			Updates(map[string]interface{}{
				"nickname":   user.Nickname,
				"avatar_url": user.AvatarURL,
				"phone":      nullableString(user.Phone),
				"updated_at": now,
			})
		if result.Error != nil {
			return fmt.Errorf("%w: profile update failed", bizerrors.WrapGormError(result.Error))
		}
		if result.RowsAffected > 0 {
			return nil
		}

		// MySQL 默认返回实际变更行数，需确认资料行是否真的缺失
		var count int64
		if err := tx.Model(&model.ProfileRecord{}).Where("user_id = ?", user.ID.Value()).Count(&count).Error; err != nil {
			return fmt.Errorf("%w: profile lookup failed", bizerrors.WrapGormError(err))
		}
		if count > 0 {
			return nil
		}
		if err := tx.Create(toProfileRecord(user, user.ID.Value())).Error; err != nil {
			return fmt.Errorf("%w: profile repair failed", bizerrors.WrapGormError(err))
		}
		return nil
	})
	if err != nil {
		return err
	}

	// 外层事务回滚时聚合保持读取时的版本号，可按原版本重试
	r.afterCommit(func() {
		user.Version++
		user.UpdatedAt = now
	})
	return nil
}

// classifyMissedUpdate 区分账号已不存在与版本号过期
func (r *GormUserRepository) classifyMissedUpdate(tx *gorm.DB, id domain.UserID) error {
	var count int64
	if err := tx.Model(&model.AccountRecord{}).Where("id = ?", id.Value()).Count(&count).Error; err != nil {
		return fmt.Errorf("%w: account lookup failed", bizerrors.WrapGormError(err))
	}
	if count == 0 {
		return bizerrors.ErrRecordNotFound
	}
	return bizerrors.ErrVersionConflict
}

func (r *GormUserRepository) ExistsByOpenID(ctx context.Context, openID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.AccountRecord{}).
		Where("openid = ?", openID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("%w: failed to check openid", bizerrors.WrapGormError(err))
	}
	return count > 0, nil
}

func (r *GormUserRepository) Delete(ctx context.Context, id domain.UserID) error {
	result := r.db.WithContext(ctx).Delete(&model.AccountRecord{}, id.Value())
	if result.Error != nil {
		return fmt.Errorf("%w: account delete failed", bizerrors.WrapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return bizerrors.ErrRecordNotFound
	}
	return nil
}

var _ dao.UserRepository = (*GormUserRepository)(nil)
