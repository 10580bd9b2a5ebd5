package domain

import (
	"strconv"

	bizerrors "delicious-moments/pkg/common/errors"
)

// UserID 用户ID值对象，构造后不可变
type UserID struct {
	value int64
}

// NewUserID 校验并构造用户ID，非正数返回参数错误
func NewUserID(id int64) (UserID, error) {
	if id <= 0 {
		return UserID{}, bizerrors.InvalidArgument("用户ID不能为空或小于等于0")
	}
	return UserID{value: id}, nil
}

// MustUserID 仅用于已由存储层分配的ID，非法值视为程序缺陷
func MustUserID(id int64) UserID {
	uid, err := NewUserID(id)
	if err != nil {
		panic(err)
	}
	return uid
}

func (id UserID) Value() int64 {
	return id.value
}

// IsZero 尚未持久化的聚合没有ID
func (id UserID) IsZero() bool {
	return id.value == 0
}

func (id UserID) String() string {
	return strconv.FormatInt(id.value, 10)
}
