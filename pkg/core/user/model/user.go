package model

import (
	"time"

	"gorm.io/gorm"
)

// 性别编码
const (
	GenderUnknown int8 = 0
	GenderMale    int8 = 1
	GenderFemale  int8 = 2
)

// AccountRecord 用户账号表，保存身份信息
type AccountRecord struct {
	ID        int64          `gorm:"primaryKey;autoIncrement"`
	OpenID    string         `gorm:"column:openid;type:varchar(64);uniqueIndex;not null"`
	UnionID   *string        `gorm:"type:varchar(64);index"`
	Version   int            `gorm:"default:0;not null"` // 乐观锁
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"` // 软删除标记
}

// TableName 定义映射表名
func (AccountRecord) TableName() string {
	return "user_aggregate"
}

// ProfileRecord 用户资料表，与账号一对一
type ProfileRecord struct {
	ID        int64      `gorm:"primaryKey;autoIncrement"`
	UserID    int64      `gorm:"uniqueIndex;not null"`
	Nickname  string     `gorm:"type:varchar(50)"`
	AvatarURL string     `gorm:"column:avatar_url;type:varchar(512)"`
	Phone     *string    `gorm:"type:varchar(20)"`
	Gender    int8       `gorm:"type:tinyint;default:0;not null"`
	Birthday  *time.Time `gorm:"type:date"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
}

func (ProfileRecord) TableName() string {
	return "user_profile"
}

// AutoMigrate 建表；表注释只在 MySQL 下附加
func AutoMigrate(db *gorm.DB) error {
	withComment := func(comment string) *gorm.DB {
		if db.Dialector.Name() != "mysql" {
			return db
		}
		return db.Set("gorm:table_options", "COMMENT='"+comment+"'")
	}
	if err := withComment("用户账号表").AutoMigrate(&AccountRecord{}); err != nil {
		return err
	}
	return withComment("用户资料表").AutoMigrate(&ProfileRecord{})
}
