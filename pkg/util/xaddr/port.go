package xaddr

import "strconv"

// ParsePort 解析十进制端口号（0..65535），不接受符号与空白。
// 子网解析丢弃端口前仍须校验其合法性，xhost 解析 host:port 时同样使用。
func ParsePort(s string) (uint16, bool) {
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, false
	}
	return uint16(n), true
}
