package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError 自定义应用错误
// 设计说明：
// 1. Code用于客户端判断错误类型（HTTP状态码由Code推导，见HTTPStatus）
// 2. Message是用户友好的提示信息
// 3. Err是内部错误，仅记录到日志，不返回给客户端（防止泄露敏感信息）
type AppError struct {
	Code    int    `json:"code"`    // 业务错误码
	Message string `json:"message"` // 用户友好的错误提示
	Err     error  `json:"-"`       // 内部错误（不序列化）
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装系统错误（如网络错误）
// 用途：将底层错误转换为业务错误，隐藏实现细节
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// WithCause 以预定义错误为模板附加内部原因,返回新的AppError(预定义错误本身不变)
func (e *AppError) WithCause(err error) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Err:     err,
	}
}

// WrapStore 包装存储层错误（连接断开、查询语法错误、约束冲突等）
// 仓储实现中除"记录不存在"以外的所有失败都应通过它返回
func WrapStore(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeDatabaseError,
		Message: message,
		Err:     err,
	}
}

// =========================================
// 错误码定义
// =========================================
// 规范：
// - 4xxxx: 客户端错误（参数错误、资源不存在）
// - 5xxxx: 服务端错误（数据库异常、消息队列异常）

const (
	// 系统级错误码（50000-50099）
	ErrCodeInternal      = 50000 // 内部错误
	ErrCodeDatabaseError = 50001 // 数据库错误
	ErrCodeMQError       = 50002 // 消息队列错误

	// 资源错误（40400-40499）
	ErrCodeNotFound             = 40400 // 资源不存在(通用)
	ErrCodeAuthorNotFound       = 40401 // 作者不存在
	ErrCodeBookNotFound         = 40402 // 图书不存在
	ErrCodeGenreNotFound        = 40403 // 分类不存在
	ErrCodeBookInstanceNotFound = 40404 // 馆藏副本不存在

	// 业务规则错误（40000-40099）
	ErrCodeGenreDuplicate = 40003 // 分类名称已存在

	// 参数错误（40900-40999）
	ErrCodeInvalidParams = 40900 // 参数错误
	ErrCodeBindError     = 40901 // 参数绑定失败
)

// =========================================
// 预定义错误（避免每次都New）
// =========================================

// 使用时通过WithCause附加内部原因
var (
	ErrMQError   = New(ErrCodeMQError, "消息发布失败")
	ErrBindError = New(ErrCodeBindError, "参数格式错误")
)

// =========================================
// 辅助函数
// =========================================

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "系统内部错误")
}

// IsNotFound 判断是否为"资源不存在"类错误（404xx）
func IsNotFound(err error) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Code/100 == ErrCodeNotFound/100
}

// HTTPStatus 业务错误码 → HTTP状态码
// 404xx → 404，其余4xxxx → 400（409xx是参数类错误，不是HTTP 409），其他一律500
func HTTPStatus(code int) int {
	status := code / 100
	switch {
	case status == http.StatusNotFound:
		return http.StatusNotFound
	case status >= 400 && status < 500:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
