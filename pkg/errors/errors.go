// Package errors 提供统一的错误处理框架
package errors

import (
	"errors"
	"fmt"
)

// Code 错误码
type Code string

const (
	// 通用错误码
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL_ERROR"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeNotFound     Code = "NOT_FOUND"
	CodeTimeout      Code = "TIMEOUT"

	// 求解器相关
	CodeMalformedScenario  Code = "MALFORMED_SCENARIO"
	CodeMalformedHistory   Code = "MALFORMED_HISTORY"
	CodeMalformedWeekData  Code = "MALFORMED_WEEK_DATA"
	CodeInfeasible         Code = "INFEASIBLE"
	CodeConstructFailed    Code = "CONSTRUCT_FAILED"
	CodeObjValueMismatch   Code = "OBJ_VALUE_MISMATCH"
	CodeInvalidConfig      Code = "INVALID_CONFIG"

	// 数据相关
	CodeDatabaseError Code = "DATABASE_ERROR"
	CodeSheetError    Code = "SHEET_ERROR"
)

// AppError 应用错误
type AppError struct {
	Code    Code                   `json:"code"`
	Message string                 `json:"message"`
	Details string                 `json:"details,omitempty"`
	Cause   error                  `json:"-"`
	Fields  map[string]interface{} `json:"fields,omitempty"`
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap 返回底层错误
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetails 添加详细信息
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// WithCause 添加原因
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithField 添加字段
func (e *AppError) WithField(key string, value interface{}) *AppError {
	if e.Fields == nil {
		e.Fields = make(map[string]interface{})
	}
	e.Fields[key] = value
	return e
}

// New 创建新错误
func New(code Code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap 包装错误
func Wrap(err error, code Code, message string) *AppError {
	return &AppError{Code: code, Message: message, Cause: err}
}

// Is 检查错误是否为特定类型
func Is(err error, code Code) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// GetCode 获取错误码
func GetCode(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// ExitCode 错误码转进程退出码
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch GetCode(err) {
	case CodeInvalidInput, CodeInvalidConfig:
		return 2
	case CodeMalformedScenario, CodeMalformedHistory, CodeMalformedWeekData, CodeNotFound:
		return 3
	case CodeInfeasible, CodeConstructFailed:
		return 4
	case CodeObjValueMismatch:
		return 5
	case CodeTimeout:
		return 6
	default:
		return 1
	}
}

// 预定义错误
var (
	ErrNotFound        = New(CodeNotFound, "资源不存在")
	ErrInvalidInput    = New(CodeInvalidInput, "输入参数无效")
	ErrInternal        = New(CodeInternal, "内部错误")
	ErrTimeout         = New(CodeTimeout, "操作超时")
	ErrInfeasible      = New(CodeInfeasible, "无可行解")
	ErrConstructFailed = New(CodeConstructFailed, "初始解构造失败")
)

// InvalidInput 创建输入无效错误
func InvalidInput(field, reason string) *AppError {
	return New(CodeInvalidInput, fmt.Sprintf("字段 '%s' 无效: %s", field, reason))
}

// MalformedFile 创建输入文件格式错误
func MalformedFile(code Code, path string, cause error) *AppError {
	return Wrap(cause, code, fmt.Sprintf("文件 '%s' 解析失败", path))
}

// Infeasible 创建无可行解错误
func Infeasible(reason string) *AppError {
	return New(CodeInfeasible, reason)
}
