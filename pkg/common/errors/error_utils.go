package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// 存储层错误，由仓储返回、由应用服务翻译为业务错误
var (
	ErrRecordNotFound   = errors.New("record not found")
	ErrDuplicateEntry   = errors.New("duplicate entry")
	ErrVersionConflict  = errors.New("optimistic lock version conflict")
	ErrDatabaseInternal = errors.New("database internal error")
)

// region 错误处理工具函数

// WrapGormError 将底层数据库错误转变为业务可识别错误
// 参数说明：
//   - rawErr: 原始GORM错误
//
// 返回值：
//   - error: 标准化错误类型，保留原始错误信息
func WrapGormError(rawErr error) error {
	if rawErr == nil {
		return nil
	}

	switch {
	case errors.Is(rawErr, ErrRecordNotFound),
		errors.Is(rawErr, ErrDuplicateEntry),
		errors.Is(rawErr, ErrVersionConflict),
		errors.Is(rawErr, ErrDatabaseInternal):
		return rawErr
	case errors.Is(rawErr, gorm.ErrRecordNotFound):
		return ErrRecordNotFound
	case IsDuplicateError(rawErr):
		return fmt.Errorf("%w: %v", ErrDuplicateEntry, rawErr)
	}

	// 处理MySQL驱动错误
	var mysqlErr *mysql.MySQLError
	if errors.As(rawErr, &mysqlErr) {
		switch mysqlErr.Number {
		case 1045, 1049, 1146: // 数据库连接、表不存在等错误
			return fmt.Errorf("%w: %s", ErrDatabaseInternal, mysqlErr.Message)
		}
	}

	// 兜底处理：附加原始错误信息
	return fmt.Errorf("%w: %v", ErrDatabaseInternal, rawErr)
}

// IsDuplicateError 判断是否为唯一约束冲突
func IsDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDuplicateEntry) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return true
	}
	// sqlite 驱动未开启错误翻译时的兜底
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// endregion
