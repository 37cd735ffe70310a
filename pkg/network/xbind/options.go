package xbind

import (
	"log/slog"

	"github.com/omeyang/netbind/pkg/util/xhost"
)

// defaultVirtualPrefixes 默认的虚拟适配器名字前缀。
var defaultVirtualPrefixes = []string{"vEthernet"}

// Options 定义 Resolver 的可选配置。
type Options struct {
	// Logger 日志记录器。不设置时使用 slog.Default()。
	Logger *slog.Logger

	// VirtualAdapterPrefixes 虚拟适配器名字前缀（大小写不敏感匹配）。
	// 默认 ["vEthernet"]。
	VirtualAdapterPrefixes []string

	// HostOptions 透传给集合解析创建的 xhost.Host
	// （名字解析器、共享缓存等）。
	HostOptions []xhost.Option
}

// Option 定义配置 Resolver 的函数类型。
type Option func(*Options)

// defaultOptions 返回默认的 Options。
func defaultOptions() *Options {
	return &Options{
		Logger:                 slog.Default(),
		VirtualAdapterPrefixes: defaultVirtualPrefixes,
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

// WithLogger 设置日志记录器。传入 nil 时保留默认值。
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		if logger != nil {
			o.Logger = logger
		}
	}
}

// WithVirtualAdapterPrefixes 覆盖虚拟适配器名字前缀列表。
// 传入空列表表示不过滤任何适配器。
func WithVirtualAdapterPrefixes(prefixes []string) Option {
	return func(o *Options) {
		o.VirtualAdapterPrefixes = prefixes
	}
}

// WithHostOptions 设置透传给 xhost 的选项。
func WithHostOptions(hostOpts ...xhost.Option) Option {
	return func(o *Options) {
		o.HostOptions = hostOpts
	}
}
