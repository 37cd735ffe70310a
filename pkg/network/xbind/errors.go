package xbind

import "errors"

// ErrBuildSnapshot 表示派生状态快照重建失败。
var ErrBuildSnapshot = errors.New("xbind: build snapshot")
