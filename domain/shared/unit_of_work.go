package shared

import "context"

// UnitOfWork 管理事务边界。
// Execute 内的仓储调用共享同一个事务；fn 返回错误时整体回滚。
// 实现可以对可重试错误（乐观锁冲突、死锁）重新执行整个 fn，
// 因此 fn 必须在每次执行时重新读取所需的聚合。
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
}
