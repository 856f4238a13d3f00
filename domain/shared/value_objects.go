package shared

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrNegativeMoney 金额不能为负
var ErrNegativeMoney = errors.New("money amount must not be negative")

// Money 值对象 - 表示非负金额
// 使用 decimal 存储，避免浮点误差；价格按两位小数持久化
type Money struct {
	amount decimal.Decimal
}

// Zero 零金额
func Zero() Money {
	return Money{amount: decimal.Zero}
}

// NewMoney 创建新的Money值对象，负数返回 ErrNegativeMoney
func NewMoney(amount decimal.Decimal) (Money, error) {
	if amount.IsNegative() {
		return Money{}, ErrNegativeMoney
	}
	return Money{amount: amount}, nil
}

// MustMoney 用于常量和测试
func MustMoney(s string) Money {
	m, err := NewMoney(decimal.RequireFromString(s))
	if err != nil {
		panic(err)
	}
	return m
}

// Amount 获取金额数量
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Add 金额相加，返回新的Money值对象
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// Multiply 乘以数量，数量必须为正
func (m Money) Multiply(quantity int) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(quantity)))}
}

// Equals 比较两个Money值对象是否相等（数值比较，1.50 == 1.5）
func (m Money) Equals(other Money) bool {
	return m.amount.Equal(other.amount)
}

// GreaterThan 数值比较
func (m Money) GreaterThan(other Money) bool {
	return m.amount.GreaterThan(other.amount)
}

// String 固定两位小数
func (m Money) String() string {
	return m.amount.StringFixed(2)
}
