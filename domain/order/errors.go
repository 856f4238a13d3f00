/*
Package order - 订单领域错误定义

每个订单错误同时解包为订单哨兵（ErrOrderNotFound 等）和 shared 分类哨兵
（shared.ErrNotFound 等），API 层按分类映射状态码，业务代码按具体哨兵判断。

堆栈捕获: 构造函数内调用 shared.CaptureStack(3)，堆栈从调用方开始。
*/
package order

import (
	"errors"
	"fmt"
	"strings"

	"storefront/domain/shared"
)

// ============================================================================
// 订单领域哨兵错误
// ============================================================================

var (
	// ErrOrderNotFound 订单未找到
	ErrOrderNotFound = errors.New("order not found")

	// ErrConcurrentModification 乐观锁冲突，调用方应重新读取后重试
	ErrConcurrentModification = errors.New("order was modified by another transaction, please retry")

	// ErrDuplicateCode 订单编号已被占用（唯一索引拒绝），创建流程重新抽取编号
	ErrDuplicateCode = errors.New("order code already exists")

	// ErrEmptyOrderItems 订单项为空
	ErrEmptyOrderItems = errors.New("order must have at least one item")

	// ErrInvalidQuantity 订单项数量必须在 [1, MaxItemQuantity] 内
	ErrInvalidQuantity = errors.New("quantity out of range")

	// ErrInvalidOrderStateTransition 无效的订单状态转换
	ErrInvalidOrderStateTransition = errors.New("invalid order state transition")

	// ErrInvalidOrder 订单字段或更新请求不合法
	ErrInvalidOrder = errors.New("invalid order")

	// ErrUpdateForbidden 非管理员更新订单
	ErrUpdateForbidden = errors.New("only administrators may update orders")
)

// ============================================================================
// 订单领域错误构造函数
// ============================================================================

// NewOrderNotFoundError 按订单编号查找失败
func NewOrderNotFoundError(code string) error {
	return &orderDomainError{
		sentinel: ErrOrderNotFound,
		category: shared.ErrNotFound,
		field:    "code",
		message:  "order not found: " + code,
		stack:    shared.CaptureStack(3),
	}
}

// NewConcurrentModificationError 创建并发修改错误
func NewConcurrentModificationError(orderID string) error {
	return &orderDomainError{
		sentinel: ErrConcurrentModification,
		category: shared.ErrConflict,
		message:  "order " + orderID + " was modified by another transaction, please retry",
		stack:    shared.CaptureStack(3),
	}
}

// NewDuplicateCodeError 唯一索引拒绝了订单编号
func NewDuplicateCodeError(code string) error {
	return &orderDomainError{
		sentinel: ErrDuplicateCode,
		category: shared.ErrConflict,
		field:    "code",
		message:  "order code " + code + " already exists",
		stack:    shared.CaptureStack(3),
	}
}

// NewEmptyOrderItemsError 创建订单项为空错误
func NewEmptyOrderItemsError() error {
	return &orderDomainError{
		sentinel: ErrEmptyOrderItems,
		category: shared.ErrInvalidInput,
		field:    "items",
		message:  "order must have at least one item",
		stack:    shared.CaptureStack(3),
	}
}

func NewInvalidQuantityError(index, quantity int) error {
	return &orderDomainError{
		sentinel: ErrInvalidQuantity,
		category: shared.ErrInvalidInput,
		field:    fmt.Sprintf("items[%d].quantity", index),
		message:  fmt.Sprintf("quantity must be between 1 and %d, got %d", MaxItemQuantity, quantity),
		stack:    shared.CaptureStack(3),
	}
}

// NewInvalidTransitionError from/to 为当前状态和目标状态
func NewInvalidTransitionError(from, to Status) error {
	return &orderDomainError{
		sentinel: ErrInvalidOrderStateTransition,
		category: shared.ErrInvalidTransition,
		field:    "status",
		message:  fmt.Sprintf("cannot transition order from %s to %s", from, to),
		stack:    shared.CaptureStack(3),
	}
}

// NewValidationError 订单字段校验失败
func NewValidationError(field, reason string) error {
	return &orderDomainError{
		sentinel: ErrInvalidOrder,
		category: shared.ErrInvalidInput,
		field:    field,
		message:  reason,
		stack:    shared.CaptureStack(3),
	}
}

func NewUnknownFieldsError(keys []string) error {
	return &orderDomainError{
		sentinel: ErrInvalidOrder,
		category: shared.ErrInvalidInput,
		field:    keys[0],
		message:  "only status and cancel_reason may be updated, got: " + strings.Join(keys, ", "),
		stack:    shared.CaptureStack(3),
	}
}

func NewUpdateForbiddenError() error {
	return &orderDomainError{
		sentinel: ErrUpdateForbidden,
		category: shared.ErrForbidden,
		message:  "only administrators may update orders",
		stack:    shared.CaptureStack(3),
	}
}

// ============================================================================
// 订单领域错误结构体（内部使用）
// ============================================================================

type orderDomainError struct {
	sentinel error // 订单哨兵
	category error // shared 分类哨兵
	field    string
	message  string
	stack    []uintptr
}

func (e *orderDomainError) Error() string {
	return e.message
}

func (e *orderDomainError) Unwrap() []error {
	return []error{e.sentinel, e.category}
}

// Field 出错字段，可能为空
func (e *orderDomainError) Field() string {
	return e.field
}

// Stack 实现 shared.Stacker 接口
func (e *orderDomainError) Stack() []string {
	return shared.FormatStack(e.stack)
}
