package xaddr

import "errors"

var (
	// ErrInvalidSubnet 表示无法解析的子网/地址字符串。
	ErrInvalidSubnet = errors.New("xaddr: invalid subnet")

	// ErrInvalidMask 表示非法的点分掩码（非 IPv4 或掩码不连续）。
	ErrInvalidMask = errors.New("xaddr: invalid mask")
)
