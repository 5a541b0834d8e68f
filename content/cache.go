package content

import (
	"context"
	"sync"

	"github.com/rushteam/movierec/core"
)

// EnsureResult 标识 EnsureReady 走过的路径。
type EnsureResult int

const (
	// EnsureAlready 产物已驻留内存
	EnsureAlready EnsureResult = iota
	// EnsureLoaded 从持久化存储加载成功
	EnsureLoaded
	// EnsureBuilt 产物缺失，现场构建并持久化
	EnsureBuilt
)

func (r EnsureResult) String() string {
	switch r {
	case EnsureAlready:
		return "already"
	case EnsureLoaded:
		return "loaded"
	case EnsureBuilt:
		return "built"
	default:
		return "unknown"
	}
}

// Cache 是内容向量产物的进程内驻留缓存。
//
// 构建代价高，整个 check-load-build 关键区由互斥锁保护：抢到锁的请求
// 先复查"产物是否已就绪"（双重检查），等锁的并发请求不会重复构建。
// 片库变化没有自动失效检测，Rebuild 是唯一的刷新路径。
// Cache 由调用方显式构造和持有，不是包级单例。
type Cache struct {
	builder *Builder

	mu   sync.Mutex
	arts *Artifacts
}

// NewCache 创建产物缓存。
func NewCache(builder *Builder) *Cache {
	return &Cache{builder: builder}
}

// EnsureReady 确保产物可用并返回走过的路径。
//
// 顺序：内存驻留 → 持久化存储加载 → （rebuildIfMissing 时）构建。
// 加载失败且禁止重建时返回 ARTIFACTS_MISSING。
func (c *Cache) EnsureReady(ctx context.Context, rebuildIfMissing bool) (EnsureResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.arts != nil {
		return EnsureAlready, nil
	}

	arts, err := loadArtifacts(ctx, c.builder.Store)
	if err == nil {
		c.arts = arts
		return EnsureLoaded, nil
	}
	if !core.IsArtifactsMissing(err) {
		return EnsureAlready, err
	}
	if !rebuildIfMissing {
		return EnsureAlready, err
	}

	arts, err = c.builder.BuildAndPersist(ctx)
	if err != nil {
		return EnsureAlready, err
	}
	c.arts = arts
	return EnsureBuilt, nil
}

// Rebuild 强制重建产物并替换驻留快照（片库变更后的唯一刷新路径）。
func (c *Cache) Rebuild(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	arts, err := c.builder.BuildAndPersist(ctx)
	if err != nil {
		return err
	}
	c.arts = arts
	return nil
}

// Artifacts 返回就绪的产物（必要时构建）。
func (c *Cache) Artifacts(ctx context.Context) (*Artifacts, error) {
	if _, err := c.EnsureReady(ctx, true); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.arts, nil
}
