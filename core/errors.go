package core

import "errors"

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message），可选包装底层错误（Err）
//   - 支持错误检查函数（IsXXX），基于 errors.As，因此可以被 %w 包装
//
// 使用场景：
//   - 请求错误：INVALID_REQUEST（未提供任何类型或导演）
//   - 数据错误：DATA_UNAVAILABLE（数据集缺失/缺列/不可读）
//   - Store 错误：NOT_FOUND, NOT_SUPPORTED
type DomainError struct {
	Code    string // 错误代码（如 "INVALID_REQUEST", "NOT_FOUND"）
	Message string // 错误消息
	Module  string // 模块名称（如 "store", "dataset", "recommend"）
	Err     error  // 底层错误（可选）
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// IsDomainError 检查错误链中是否存在 DomainError
func IsDomainError(err error) bool {
	return GetDomainError(err) != nil
}

// GetDomainError 获取错误链中的 DomainError，如果不存在则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// 错误代码常量
const (
	ErrorCodeNotFound        = "NOT_FOUND"        // 资源不存在
	ErrorCodeNotSupported    = "NOT_SUPPORTED"    // 操作不支持
	ErrorCodeInvalidRequest  = "INVALID_REQUEST"  // 请求无效
	ErrorCodeDataUnavailable = "DATA_UNAVAILABLE" // 数据集不可用
)

// 模块名称常量
const (
	ModuleStore     = "store"
	ModuleDataset   = "dataset"
	ModuleRecommend = "recommend"
)

// ErrInvalidRequest 表示既没有提供类型也没有提供导演
var ErrInvalidRequest = NewDomainError(ModuleRecommend, ErrorCodeInvalidRequest, "at least one genre or director is required")

// NewInvalidRequest 创建带自定义消息的请求错误。
func NewInvalidRequest(message string) *DomainError {
	return NewDomainError(ModuleRecommend, ErrorCodeInvalidRequest, message)
}

// NewDataUnavailable 创建数据集不可用错误，cause 为底层错误（可为 nil）。
func NewDataUnavailable(message string, cause error) *DomainError {
	return &DomainError{
		Module:  ModuleDataset,
		Code:    ErrorCodeDataUnavailable,
		Message: message,
		Err:     cause,
	}
}

func hasCode(err error, code string) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == code
	}
	return false
}

// IsInvalidRequest 检查错误是否为 INVALID_REQUEST
func IsInvalidRequest(err error) bool {
	return hasCode(err, ErrorCodeInvalidRequest)
}

// IsDataUnavailable 检查错误是否为 DATA_UNAVAILABLE
func IsDataUnavailable(err error) bool {
	return hasCode(err, ErrorCodeDataUnavailable)
}

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool {
	return hasCode(err, ErrorCodeNotFound)
}

// IsNotSupported 检查错误是否为 NOT_SUPPORTED
func IsNotSupported(err error) bool {
	return hasCode(err, ErrorCodeNotSupported)
}
