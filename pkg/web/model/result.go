package model

import (
	"time"

	bizerrors "delicious-moments/pkg/common/errors"
)

// Result 统一响应结构
type Result struct {
	Code      int         `json:"code"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data"`
	Timestamp int64       `json:"timestamp"`
}

func Success(data interface{}) Result {
	return Result{
		Code:      bizerrors.Success.Code,
		Message:   bizerrors.Success.Message,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	}
}

func Fail(code int, message string) Result {
	return Result{
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UnixMilli(),
	}
}

func FailWithCode(code bizerrors.ErrorCode) Result {
	return Fail(code.Code, code.Message)
}
