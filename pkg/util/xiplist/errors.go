package xiplist

import "errors"

// ErrBuildSet 表示 IPSet 编译失败。
var ErrBuildSet = errors.New("xiplist: build IP set")
