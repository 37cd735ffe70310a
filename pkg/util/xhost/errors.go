package xhost

import "errors"

var (
	// ErrInvalidCacheSize 表示共享缓存容量非法（<= 0）。
	ErrInvalidCacheSize = errors.New("xhost: invalid cache size")

	// ErrInvalidCacheTTL 表示共享缓存 TTL 非法（< 0）。
	ErrInvalidCacheTTL = errors.New("xhost: invalid cache TTL")
)
