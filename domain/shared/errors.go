/*
Package shared - 领域层共享错误定义

设计原则:
1. 领域层定义哨兵错误(sentinel errors)，调用方用 errors.Is() 判断类别
2. DomainError 在创建时捕获堆栈，打印日志时才格式化
3. 领域错误不包含 HTTP 状态码等传输层概念
*/
package shared

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// ============================================================================
// 哨兵错误 (Sentinel Errors)
// ============================================================================

var (
	// ErrNotFound 资源未找到
	ErrNotFound = errors.New("not found")

	// ErrConflict 资源冲突（唯一约束、并发修改）
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput 参数校验失败
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized 未认证
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden 已认证但无权限
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidTransition 状态机不允许的迁移
	ErrInvalidTransition = errors.New("invalid state transition")
)

// ============================================================================
// 领域错误结构体 (Domain Error)
// ============================================================================

// DomainError 携带业务上下文和堆栈的结构化错误
type DomainError struct {
	// Err 底层哨兵错误
	Err error

	// Entity 发生错误的实体名称（如 "order", "product"）
	Entity string

	// Message 人类可读的错误描述
	Message string

	// Field 可选：校验失败的字段名
	Field string

	stack []uintptr
}

func (e *DomainError) Error() string {
	return e.Message
}

// Unwrap 支持 errors.Is() 和 errors.As()
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Stack 按需格式化堆栈
func (e *DomainError) Stack() []string {
	return FormatStack(e.stack)
}

// CaptureStack 捕获当前调用栈
// skip 通常为 3：Callers, CaptureStack, NewXxxError
func CaptureStack(skip int) []uintptr {
	var pcs [32]uintptr
	n := runtime.Callers(skip, pcs[:])
	return pcs[:n]
}

// FormatStack 过滤 runtime 帧，最多返回 10 帧
func FormatStack(stack []uintptr) []string {
	if len(stack) == 0 {
		return nil
	}

	frames := runtime.CallersFrames(stack)
	var result []string
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			result = append(result, fmt.Sprintf("%s:%d %s", frame.File, frame.Line, frame.Function))
		}
		if !more || len(result) >= 10 {
			break
		}
	}
	return result
}

// ============================================================================
// 领域错误构造函数
// ============================================================================

// NewNotFoundError 创建"未找到"错误，key 为查找所用的标识
func NewNotFoundError(entity, key string) error {
	msg := entity + " not found"
	if key != "" {
		msg += ": " + key
	}
	return &DomainError{
		Err:     ErrNotFound,
		Entity:  entity,
		Message: msg,
		stack:   CaptureStack(3),
	}
}

func NewConflictError(entity, message string) error {
	return &DomainError{
		Err:     ErrConflict,
		Entity:  entity,
		Message: message,
		stack:   CaptureStack(3),
	}
}

// NewValidationError 创建"校验失败"错误
func NewValidationError(entity, field, reason string) error {
	return &DomainError{
		Err:     ErrInvalidInput,
		Entity:  entity,
		Field:   field,
		Message: reason,
		stack:   CaptureStack(3),
	}
}

func NewForbiddenError(entity, reason string) error {
	return &DomainError{
		Err:     ErrForbidden,
		Entity:  entity,
		Message: reason,
		stack:   CaptureStack(3),
	}
}

func NewUnauthorizedError(reason string) error {
	return &DomainError{
		Err:     ErrUnauthorized,
		Entity:  "identity",
		Message: reason,
		stack:   CaptureStack(3),
	}
}

// NewInvalidTransitionError 创建"非法状态迁移"错误
func NewInvalidTransitionError(entity, from, to string) error {
	return &DomainError{
		Err:     ErrInvalidTransition,
		Entity:  entity,
		Field:   "status",
		Message: fmt.Sprintf("cannot transition %s from %s to %s", entity, from, to),
		stack:   CaptureStack(3),
	}
}

// Stacker 可提供堆栈的错误接口，API 层统一用它提取堆栈
type Stacker interface {
	Stack() []string
}
