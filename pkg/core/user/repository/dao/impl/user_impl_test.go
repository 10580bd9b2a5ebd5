package dao

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	bizerrors "delicious-moments/pkg/common/errors"
	"delicious-moments/pkg/common/testdb"
	"delicious-moments/pkg/core/user/domain"
	"delicious-moments/pkg/core/user/model"
	"delicious-moments/pkg/core/user/repository/dao"
)

func setupUserRepositoryTest(t *testing.T) (*GormUserRepository, *gorm.DB) {
	t.Helper()
	db := testdb.Open(t)
	return NewGormUserRepository(db), db
}

func strPtr(v string) *string { return &v }

func TestUserRepositorySaveInsertThenFindByOpenID(t *testing.T) {
	repo, _ := setupUserRepositoryTest(t)
	ctx := context.Background()

	user := domain.NewUser("wx_openid_2", "Bob", "")
	if err := repo.Save(ctx, user); err != nil {
		t.Fatalf("save user failed: %v", err)
	}
	if user.ID.Value() <= 0 {
		t.Fatalf("expected assigned positive id, got %d", user.ID.Value())
	}

	found, err := repo.FindByOpenID(ctx, "wx_openid_2")
	if err != nil {
		t.Fatalf("find by openid failed: %v", err)
	}
	if found == nil {
		t.Fatalf("expected user, got nil")
	}
	if found.ID != user.ID || found.OpenID != "wx_openid_2" || found.Nickname != "Bob" || found.AvatarURL != "" {
		t.Fatalf("unexpected user: %+v", found)
	}
	if found.Version != 0 {
		t.Fatalf("expected version 0, got %d", found.Version)
	}
}

func TestUserRepositoryFindByIDMissingReturnsNil(t *testing.T) {
	repo, _ := setupUserRepositoryTest(t)

	found, err := repo.FindByID(context.Background(), domain.MustUserID(404))
	if err != nil {
		t.Fatalf("find by id failed: %v", err)
	}
	if found != nil {
		t.Fatalf("expected nil, got %+v", found)
	}
}

func TestUserRepositoryFindByIDWithoutProfileRow(t *testing.T) {
	repo, db := setupUserRepositoryTest(t)
	ctx := context.Background()

	account := &model.AccountRecord{OpenID: "orphan"}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("create account failed: %v", err)
	}

	found, err := repo.FindByID(ctx, domain.MustUserID(account.ID))
	if err != nil {
		t.Fatalf("find by id failed: %v", err)
	}
	if found == nil {
		t.Fatalf("expected user without profile, got nil")
	}
	if found.OpenID != "orphan" || found.Nickname != "" || found.Phone != "" {
		t.Fatalf("unexpected user: %+v", found)
	}
}

func TestUserRepositoryUpdateBumpsVersionAndKeepsExtraColumns(t *testing.T) {
	repo, db := setupUserRepositoryTest(t)
	ctx := context.Background()

	user := domain.NewUser("wx_update", "A", "http://a/a.png")
	if err := repo.Save(ctx, user); err != nil {
		t.Fatalf("save user failed: %v", err)
	}
	if err := db.Model(&model.ProfileRecord{}).Where("user_id = ?", user.ID.Value()).
		Update("gender", model.GenderFemale).Error; err != nil {
		t.Fatalf("set gender failed: %v", err)
	}

	user.UpdateProfile(domain.ProfilePatch{Phone: strPtr("13800000000")})
	if err := repo.Save(ctx, user); err != nil {
		t.Fatalf("update user failed: %v", err)
	}
	if user.Version != 1 {
		t.Fatalf("expected in-memory version 1, got %d", user.Version)
	}

	found, err := repo.FindByID(ctx, user.ID)
	if err != nil || found == nil {
		t.Fatalf("reload user failed: %v", err)
	}
	if found.Version != 1 || found.Phone != "13800000000" || found.Nickname != "A" {
		t.Fatalf("unexpected user after update: %+v", found)
	}

	var profile model.ProfileRecord
	if err := db.Where("user_id = ?", user.ID.Value()).Take(&profile).Error; err != nil {
		t.Fatalf("load profile failed: %v", err)
	}
	if profile.Gender != model.GenderFemale {
		t.Fatalf("gender should be untouched, got %d", profile.Gender)
	}
}

func TestUserRepositoryUpdateStaleVersionConflicts(t *testing.T) {
	repo, _ := setupUserRepositoryTest(t)
	ctx := context.Background()

	user := domain.NewUser("wx_conflict", "A", "")
	if err := repo.Save(ctx, user); err != nil {
		t.Fatalf("save user failed: %v", err)
	}

	first, _ := repo.FindByID(ctx, user.ID)
	second, _ := repo.FindByID(ctx, user.ID)

	first.UpdateProfile(domain.ProfilePatch{Nickname: strPtr("first")})
	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("first update failed: %v", err)
	}

	second.UpdateProfile(domain.ProfilePatch{Nickname: strPtr("second")})
	err := repo.Save(ctx, second)
	if !errors.Is(err, bizerrors.ErrVersionConflict) {
		t.Fatalf("expected version conflict, got %v", err)
	}

	found, _ := repo.FindByID(ctx, user.ID)
	if found.Nickname != "first" {
		t.Fatalf("stale write must not land, got nickname %q", found.Nickname)
	}
}

func TestUserRepositoryUpdateRepairsMissingProfile(t *testing.T) {
	repo, db := setupUserRepositoryTest(t)
	ctx := context.Background()

	account := &model.AccountRecord{OpenID: "repair"}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("create account failed: %v", err)
	}

	user, _ := repo.FindByID(ctx, domain.MustUserID(account.ID))
	user.UpdateProfile(domain.ProfilePatch{Nickname: strPtr("fixed")})
	if err := repo.Save(ctx, user); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	var count int64
	db.Model(&model.ProfileRecord{}).Where("user_id = ?", account.ID).Count(&count)
	if count != 1 {
		t.Fatalf("expected profile row to be created, got %d", count)
	}
}

func TestUserRepositoryInsertRollsBackWhenProfileFails(t *testing.T) {
	repo, db := setupUserRepositoryTest(t)

	injected := errors.New("injected profile failure")
	err := db.Callback().Create().Before("gorm:create").Register("test:fail_profile", func(tx *gorm.DB) {
		if tx.Statement.Schema != nil && tx.Statement.Schema.Table == "user_profile" {
			_ = tx.AddError(injected)
		}
	})
	if err != nil {
		t.Fatalf("register callback failed: %v", err)
	}

	user := domain.NewUser("wx_atomic", "Carol", "")
	if err := repo.Save(context.Background(), user); err == nil {
		t.Fatalf("expected save to fail")
	}
	if user.IsPersisted() {
		t.Fatalf("failed insert must not assign an id")
	}

	var count int64
	if err := db.Unscoped().Model(&model.AccountRecord{}).Count(&count).Error; err != nil {
		t.Fatalf("count accounts failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no orphan account row, got %d", count)
	}
}

func TestUserRepositoryDuplicateOpenID(t *testing.T) {
	repo, _ := setupUserRepositoryTest(t)
	ctx := context.Background()

	if err := repo.Save(ctx, domain.NewUser("wx_dup", "A", "")); err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	err := repo.Save(ctx, domain.NewUser("wx_dup", "B", ""))
	if !errors.Is(err, bizerrors.ErrDuplicateEntry) {
		t.Fatalf("expected duplicate entry, got %v", err)
	}
}

func TestUserRepositoryExistsAndDelete(t *testing.T) {
	repo, db := setupUserRepositoryTest(t)
	ctx := context.Background()

	user := domain.NewUser("wx_delete", "D", "")
	if err := repo.Save(ctx, user); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	exists, err := repo.ExistsByOpenID(ctx, "wx_delete")
	if err != nil || !exists {
		t.Fatalf("expected exists, got %v %v", exists, err)
	}

	if err := repo.Delete(ctx, user.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	exists, _ = repo.ExistsByOpenID(ctx, "wx_delete")
	if exists {
		t.Fatalf("soft-deleted account should not be visible")
	}
	found, _ := repo.FindByID(ctx, user.ID)
	if found != nil {
		t.Fatalf("soft-deleted account should not load, got %+v", found)
	}

	var profiles int64
	db.Model(&model.ProfileRecord{}).Where("user_id = ?", user.ID.Value()).Count(&profiles)
	if profiles != 1 {
		t.Fatalf("profile row should be retained, got %d", profiles)
	}

	if err := repo.Delete(ctx, user.ID); !errors.Is(err, bizerrors.ErrRecordNotFound) {
		t.Fatalf("second delete should report not found, got %v", err)
	}
}

func TestUserRepositoryTransactionRollsBackAll(t *testing.T) {
	repo, db := setupUserRepositoryTest(t)
	ctx := context.Background()

	sentinel := errors.New("abort")
	err := repo.Transaction(ctx, func(txRepo dao.UserRepository) error {
		if err := txRepo.Save(ctx, domain.NewUser("wx_tx", "T", "")); err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got %v", err)
	}

	var count int64
	db.Unscoped().Model(&model.AccountRecord{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected rollback, got %d accounts", count)
	}
}

func TestUserRepositoryVersionAdvancesOnlyAfterOuterCommit(t *testing.T) {
	repo, _ := setupUserRepositoryTest(t)
	ctx := context.Background()

	user := domain.NewUser("wx_tx_version", "A", "")
	if err := repo.Save(ctx, user); err != nil {
		t.Fatalf("save user failed: %v", err)
	}

	sentinel := errors.New("abort")
	err := repo.Transaction(ctx, func(txRepo dao.UserRepository) error {
		user.UpdateProfile(domain.ProfilePatch{Nickname: strPtr("B")})
		if err := txRepo.Save(ctx, user); err != nil {
			return err
		}
		if user.Version != 0 {
			t.Errorf("version must not advance before commit, got %d", user.Version)
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got %v", err)
	}
	if user.Version != 0 {
		t.Fatalf("rolled back update must keep version 0, got %d", user.Version)
	}

	// 回滚后按原版本号重试可以成功
	err = repo.Transaction(ctx, func(txRepo dao.UserRepository) error {
		return txRepo.Save(ctx, user)
	})
	if err != nil {
		t.Fatalf("retry after rollback failed: %v", err)
	}
	if user.Version != 1 {
		t.Fatalf("expected version 1 after commit, got %d", user.Version)
	}

	found, err := repo.FindByID(ctx, user.ID)
	if err != nil || found == nil {
		t.Fatalf("reload user failed: %v", err)
	}
	if found.Version != 1 || found.Nickname != "B" {
		t.Fatalf("unexpected stored user: %+v", found)
	}
}
