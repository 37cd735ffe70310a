package xbind

import (
	"net/netip"
	"strings"

	"github.com/omeyang/netbind/pkg/util/xaddr"
)

// Interface 是宿主环境投喂的接口描述符。
// 核心从不直接查询操作系统；枚举由调用方在启动和网络变更时提供，
// 这让解析器可以用固定接口列表做测试。
type Interface struct {
	// Subnet 接口地址及其所在网段的前缀。
	Subnet xaddr.Subnet
	// Index 外部赋予的整数索引，仅用于确定性排序，无其他语义。
	Index int
	// Name 适配器名（如 "eth0"、"vEthernet (Default Switch)"）。
	Name string
}

// Addr 返回接口地址。
func (i Interface) Addr() netip.Addr {
	return i.Subnet.Addr()
}

// isVirtual 报告接口名是否命中虚拟适配器前缀（大小写不敏感）。
// 虚拟交换机适配器不代表真实出口，永远不能被选为绑定接口。
func isVirtual(name string, prefixes []string) bool {
	for _, p := range prefixes {
		if len(name) >= len(p) && strings.EqualFold(name[:len(p)], p) {
			return true
		}
	}
	return false
}

// matchesToken 报告接口是否命中绑定 token：
// 接口名大小写不敏感相等，或 token 是与接口地址相等的字面量。
func (i Interface) matchesToken(token string) bool {
	if strings.EqualFold(i.Name, token) {
		return true
	}
	if sub, err := xaddr.Parse(token); err == nil {
		return sub.Addr() == i.Addr()
	}
	return false
}
