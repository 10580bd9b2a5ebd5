// pkg/common/errors/biz_error.go

/*
  - 使用示例
    // 业务层抛出:
    return errors.New(errors.UserNotFound)

    // 边界层识别:
    var bizErr *errors.BizError
    if errors.As(err, &bizErr) {
    // 使用 bizErr.Code / bizErr.Message 组装响应
    }
*/
package errors

import (
	"errors"
	"fmt"
)

// BizError 可直接展示给调用方的业务错误
type BizError struct {
	Code    int
	Message string
	cause   error
}

func (e *BizError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

func (e *BizError) Unwrap() error {
	return e.cause
}

// New 使用错误码默认文案
func New(code ErrorCode) *BizError {
	return &BizError{Code: code.Code, Message: code.Message}
}

// Newf 使用自定义文案（如参数校验的首条失败信息）
func Newf(code ErrorCode, format string, args ...interface{}) *BizError {
	return &BizError{Code: code.Code, Message: fmt.Sprintf(format, args...)}
}

// Wrap 保留底层原因，便于日志排查；响应中只暴露错误码文案
func Wrap(code ErrorCode, cause error) *BizError {
	return &BizError{Code: code.Code, Message: code.Message, cause: cause}
}

// InvalidArgument 参数错误（1001）
func InvalidArgument(msg string) *BizError {
	return &BizError{Code: ParamError.Code, Message: msg}
}

// WithCause 附加底层原因，只进日志
func (e *BizError) WithCause(cause error) *BizError {
	return &BizError{Code: e.Code, Message: e.Message, cause: cause}
}

// As 是标准库 errors.As 的透传，避免调用方同时引入两个 errors 包
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Is 是标准库 errors.Is 的透传
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// IsCode 判断错误链中是否包含指定错误码
func IsCode(err error, code ErrorCode) bool {
	var bizErr *BizError
	if errors.As(err, &bizErr) {
		return bizErr.Code == code.Code
	}
	return false
}
