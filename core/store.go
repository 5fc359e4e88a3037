package core

import "context"

// Store 是 KV 存储的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（store）实现
//   - 领域层定义接口，基础设施层实现接口，避免循环依赖
//
// 使用场景：
//   - 目录数据：内容条目、标签倒排
//   - 用户历史：交互记录
//
// 实现：
//   - store.MemoryStore
//   - store.RedisStore
type Store interface {
	// Name 返回存储后端名称（用于日志/监控）
	Name() string

	// Get 读取单个 key 的值，不存在时返回 ErrStoreNotFound
	Get(ctx context.Context, key string) ([]byte, error)

	// Set 写入单个 key-value，ttl 单位为秒
	Set(ctx context.Context, key string, value []byte, ttl ...int) error

	// Delete 删除单个 key
	Delete(ctx context.Context, key string) error

	// BatchGet 批量读取，不存在的 key 不出现在结果中
	BatchGet(ctx context.Context, keys []string) (map[string][]byte, error)

	// BatchSet 批量写入
	BatchSet(ctx context.Context, kvs map[string][]byte, ttl ...int) error

	// Close 关闭连接/释放资源
	Close() error
}

// ErrStoreNotFound 表示 key 不存在
var ErrStoreNotFound = NewDomainError(ModuleStore, ErrorCodeNotFound, "store: key not found")

// IsStoreNotFound 检查错误是否为 key 不存在
func IsStoreNotFound(err error) bool {
	domainErr := GetDomainError(err)
	return domainErr != nil && domainErr.Module == ModuleStore && domainErr.Code == ErrorCodeNotFound
}

// KeyValueStore 在 Store 之上增加集合操作，目录的标签倒排依赖它。
//
// 实现：
//   - store.MemoryStore
//   - store.RedisStore
type KeyValueStore interface {
	Store

	// SAdd 向集合添加成员
	SAdd(ctx context.Context, key string, members ...string) error

	// SRem 从集合移除成员，成员不存在时忽略
	SRem(ctx context.Context, key string, members ...string) error

	// SMembers 返回集合全部成员，集合不存在时返回空
	SMembers(ctx context.Context, key string) ([]string, error)

	// SUnion 返回多个集合的并集（去重）
	SUnion(ctx context.Context, keys ...string) ([]string, error)
}
