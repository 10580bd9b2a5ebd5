package domain

import "time"

// User 用户聚合根：账号与资料合并后的内存视图，仅在一次请求内有效
type User struct {
	ID        UserID
	OpenID    string
	UnionID   string
	Nickname  string
	AvatarURL string
	Phone     string
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProfilePatch 资料的部分更新，nil 字段保持原值
type ProfilePatch struct {
	Nickname  *string
	AvatarURL *string
	Phone     *string
}

// NewUser 创建新用户，ID 在持久化后回填
func NewUser(openID, nickname, avatarURL string) *User {
	now := time.Now()
	return &User{
		OpenID:    openID,
		Nickname:  nickname,
		AvatarURL: avatarURL,
		Version:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsPersisted 是否已分配ID
func (u *User) IsPersisted() bool {
	return !u.ID.IsZero()
}

// UpdateProfile 只覆盖调用方提供的字段；校验在边界层完成
func (u *User) UpdateProfile(patch ProfilePatch) {
	if patch.Nickname != nil {
		u.Nickname = *patch.Nickname
	}
	if patch.AvatarURL != nil {
		u.AvatarURL = *patch.AvatarURL
	}
	if patch.Phone != nil {
		u.Phone = *patch.Phone
	}
	u.UpdatedAt = time.Now()
}
