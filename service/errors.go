package service

import "errors"

// ErrorKind 业务错误类别，调用方按类别映射HTTP状态码
type ErrorKind string

const (
	KindNotFound      ErrorKind = "NOT_FOUND"
	KindForbidden     ErrorKind = "FORBIDDEN"
	KindInvalidStatus ErrorKind = "INVALID_STATUS"
	KindValidation    ErrorKind = "VALIDATION_ERROR"
	KindConflict      ErrorKind = "CONFLICT"
	KindUncertain     ErrorKind = "UNCERTAIN_OPERATION"
	KindInternal      ErrorKind = "INTERNAL"
)

// Error 带类别的业务错误，作为返回值传递，不做panic
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// Error 实现error接口
func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap 返回底层错误
func (e *Error) Unwrap() error {
	return e.Err
}

// NewNotFoundError 资源不存在
func NewNotFoundError(resource string) *Error {
	return &Error{Kind: KindNotFound, Message: resource + "不存在"}
}

// NewForbiddenError 无操作权限（人不对）
func NewForbiddenError(message string) *Error {
	if message == "" {
		message = "无权执行该操作"
	}
	return &Error{Kind: KindForbidden, Message: message}
}

// NewInvalidStatusError 当前状态不允许该操作（状态不对）
func NewInvalidStatusError(message string) *Error {
	if message == "" {
		message = "当前状态不允许该操作"
	}
	return &Error{Kind: KindInvalidStatus, Message: message}
}

// NewValidationError 参数校验失败
func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// NewConflictError 数据冲突（如同一天重复创建日报）
func NewConflictError(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// NewUncertainError 操作结果不确定，需要刷新确认
func NewUncertainError(err error) *Error {
	return &Error{Kind: KindUncertain, Message: "操作状态不确定，请刷新页面查看最新状态", Err: err}
}

// NewInternalError 存储等基础设施错误，与业务拒绝严格区分
func NewInternalError(err error) *Error {
	return &Error{Kind: KindInternal, Message: "内部错误", Err: err}
}

// KindOf 提取错误类别，非业务错误一律视为内部错误
func KindOf(err error) ErrorKind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

// IsKind 判断错误是否属于指定类别
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}
