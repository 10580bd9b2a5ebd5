package dao

import (
	"delicious-moments/pkg/core/user/domain"
	"delicious-moments/pkg/core/user/model"
)

func toDomain(account *model.AccountRecord, profile *model.ProfileRecord) *domain.User {
	user := &domain.User{
		ID:        domain.MustUserID(account.ID),
		OpenID:    account.OpenID,
		UnionID:   derefString(account.UnionID),
		Version:   account.Version,
		CreatedAt: account.CreatedAt,
		UpdatedAt: account.UpdatedAt,
	}
	if profile != nil {
		user.Nickname = profile.Nickname
		user.AvatarURL = profile.AvatarURL
		user.Phone = derefString(profile.Phone)
	}
	return user
}

func toAccountRecord(user *domain.User) *model.AccountRecord {
	rec := &model.AccountRecord{
		OpenID:    user.OpenID,
		UnionID:   nullableString(user.UnionID),
		Version:   user.Version,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
	if user.IsPersisted() {
		rec.ID = user.ID.Value()
	}
	return rec
}

func toProfileRecord(user *domain.User, userID int64) *model.ProfileRecord {
	return &model.ProfileRecord{
		UserID:    userID,
		Nickname:  user.Nickname,
		AvatarURL: user.AvatarURL,
		Phone:     nullableString(user.Phone),
		Gender:    model.GenderUnknown,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func nullableString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
