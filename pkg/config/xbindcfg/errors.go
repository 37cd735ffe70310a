package xbindcfg

import "errors"

var (
	// ErrEmptyPath 表示配置文件路径为空。
	ErrEmptyPath = errors.New("xbindcfg: empty config path")

	// ErrUnsupportedFormat 表示不支持的配置格式。
	ErrUnsupportedFormat = errors.New("xbindcfg: unsupported format")

	// ErrLoadFailed 表示配置文件读取失败。
	ErrLoadFailed = errors.New("xbindcfg: load failed")

	// ErrParseFailed 表示配置内容解析失败。
	ErrParseFailed = errors.New("xbindcfg: parse failed")
)
