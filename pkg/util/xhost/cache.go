package xhost

import (
	"context"
	"net/netip"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

// Cache 是跨 Host 实例共享的名字解析缓存。
//   - expirable LRU 提供容量上限和 TTL 过期
//   - singleflight 把同一名字的并发解析合并为一次名字服务调用
//
// 所有方法并发安全。缓存键为小写主机名。
type Cache struct {
	lru *expirable.LRU[string, []netip.Addr]
	sf  singleflight.Group
}

// NewCache 创建共享解析缓存。
// size 必须大于 0；ttl 为 0 表示条目永不过期，不允许负值。
func NewCache(size int, ttl time.Duration) (*Cache, error) {
	if size <= 0 {
		return nil, ErrInvalidCacheSize
	}
	if ttl < 0 {
		return nil, ErrInvalidCacheTTL
	}
	return &Cache{
		lru: expirable.NewLRU[string, []netip.Addr](size, nil, ttl),
	}, nil
}

// getOrLookup 返回 name 的解析结果，未命中时通过 lk 查询并回填。
// 查询失败不缓存，错误原样返回（由 Host 层吞掉并记日志）。
func (c *Cache) getOrLookup(ctx context.Context, name string, lk Lookuper) ([]netip.Addr, error) {
	key := strings.ToLower(name)

	if addrs, ok := c.lru.Get(key); ok {
		return addrs, nil
	}

	result, err, _ := c.sf.Do(key, func() (any, error) {
		// double-check：并发等待者可能已经回填
		if addrs, ok := c.lru.Get(key); ok {
			return addrs, nil
		}
		addrs, err := lk.LookupNetIP(ctx, "ip", name)
		if err != nil {
			return nil, err
		}
		c.lru.Add(key, addrs)
		return addrs, nil
	})
	if err != nil {
		return nil, err
	}
	addrs, ok := result.([]netip.Addr)
	if !ok {
		return nil, nil
	}
	return addrs, nil
}

// Len 返回当前缓存条目数（可能包含已过期未清理的条目）。
func (c *Cache) Len() int {
	return c.lru.Len()
}

// Purge 清空所有缓存条目。
func (c *Cache) Purge() {
	c.lru.Purge()
}
