package xiplist

import (
	"net/netip"

	"github.com/omeyang/netbind/pkg/util/xaddr"
	"github.com/omeyang/netbind/pkg/util/xhost"
)

// Entry 是集合条目的公共能力：包含判断、网络投影、排除标记、
// 规范化字符串（同时作为集合运算的成员键）。
//
// 设计决策: 子网与主机的多态用接口 + 两个薄包装表达，
// 而非类型层级——两种变体的行为都已完全确定，不需要继承扩展点。
type Entry interface {
	// Contains 报告 addr 是否命中该条目。
	// 主机条目只匹配已解析的地址，不触发解析。
	Contains(addr netip.Addr) bool

	// Network 返回网络投影：子网映射到其网络地址，主机映射到自身。
	Network() Entry

	// Excluded 报告条目是否带排除标记。
	Excluded() bool

	// String 返回规范化字符串，即集合运算的成员键。
	String() string
}

// SubnetEntry 把 [xaddr.Subnet] 适配为 [Entry]。
type SubnetEntry struct {
	xaddr.Subnet
}

// Network 返回网络地址条目。
func (e SubnetEntry) Network() Entry {
	return SubnetEntry{e.Subnet.Network()}
}

// HostEntry 把 [*xhost.Host] 适配为 [Entry]。
// 排除标记由集合解析层持有（Host 自身没有排除语义）。
type HostEntry struct {
	*xhost.Host

	excluded bool
}

// NewHostEntry 构造主机条目。
func NewHostEntry(h *xhost.Host, excluded bool) HostEntry {
	return HostEntry{Host: h, excluded: excluded}
}

// Network 返回条目自身：主机的网络投影就是主机本身。
func (e HostEntry) Network() Entry {
	return e
}

// Excluded 报告条目是否带排除标记。
func (e HostEntry) Excluded() bool {
	return e.excluded
}
