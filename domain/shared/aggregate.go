package shared

// AggregateRoot 聚合根接口
// 聚合根是聚合的入口点，维护聚合的一致性边界，所有修改必须通过聚合根进行
type AggregateRoot interface {
	// ID 返回聚合根的全局唯一标识
	ID() string

	// Version 返回当前版本号，用于乐观锁并发控制
	Version() int
}
