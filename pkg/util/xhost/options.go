package xhost

import (
	"context"
	"log/slog"
	"net"
	"net/netip"
	"time"
)

// DefaultTTL 解析结果的默认缓存时间。
// 超过该时间后的下一次访问会同步重新解析。
const DefaultTTL = 30 * time.Minute

// Lookuper 名字解析接口。*net.Resolver 原生满足。
type Lookuper interface {
	// LookupNetIP 解析主机名，network 取 "ip"、"ip4" 或 "ip6"。
	LookupNetIP(ctx context.Context, network, host string) ([]netip.Addr, error)
}

// Options 定义 Host 的可选配置。
type Options struct {
	// Lookuper 名字解析器。不设置时使用 net.DefaultResolver。
	Lookuper Lookuper

	// Logger 日志记录器。不设置时使用 slog.Default()。
	// 解析失败只记日志不向调用方传播。
	Logger *slog.Logger

	// Cache 共享解析缓存。nil 时每个 Host 只用自身的实例级缓存。
	Cache *Cache

	// TTL 实例级解析缓存的有效期。默认 DefaultTTL。
	TTL time.Duration
}

// Option 定义配置 Host 的函数类型。
type Option func(*Options)

// defaultOptions 返回默认的 Options。
func defaultOptions() *Options {
	return &Options{
		Lookuper: net.DefaultResolver,
		Logger:   slog.Default(),
		TTL:      DefaultTTL,
	}
}

// applyOptions 应用所有 Option。
func applyOptions(opts []Option) *Options {
	options := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(options)
		}
	}
	return options
}

// WithLookuper 设置名字解析器。传入 nil 时保留默认值。
func WithLookuper(lk Lookuper) Option {
	return func(o *Options) {
		if lk != nil {
			o.Lookuper = lk
		}
	}
}

// WithLogger 设置日志记录器。传入 nil 时保留默认值。
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		if logger != nil {
			o.Logger = logger
		}
	}
}

// WithCache 设置共享解析缓存。
// 多个 Host 共享同一 Cache 时，相同名字的并发解析会被合并为一次查询。
func WithCache(cache *Cache) Option {
	return func(o *Options) {
		o.Cache = cache
	}
}

// WithTTL 设置实例级缓存有效期。非正值被忽略。
func WithTTL(ttl time.Duration) Option {
	return func(o *Options) {
		if ttl > 0 {
			o.TTL = ttl
		}
	}
}
