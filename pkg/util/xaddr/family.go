package xaddr

import "net/netip"

// Family 表示启用的地址族标志位。
// 可按位组合：FamilyIPv4 | FamilyIPv6。
type Family uint8

const (
	// FamilyNone 表示无效或未知的地址族。
	FamilyNone Family = 0
	// FamilyIPv4 表示 IPv4。
	FamilyIPv4 Family = 1 << 0
	// FamilyIPv6 表示 IPv6。
	FamilyIPv6 Family = 1 << 1
	// FamilyAll 表示 IPv4 和 IPv6 均启用。
	FamilyAll = FamilyIPv4 | FamilyIPv6
)

// Has 报告 f 是否包含 other 中的所有标志位。
func (f Family) Has(other Family) bool {
	return other != FamilyNone && f&other == other
}

// String 返回地址族的字符串表示。
func (f Family) String() string {
	switch f {
	case FamilyIPv4:
		return "IPv4"
	case FamilyIPv6:
		return "IPv6"
	case FamilyAll:
		return "IPv4+IPv6"
	default:
		return "none"
	}
}

// AddrFamily 返回 addr 所属的地址族。
// IPv4-mapped IPv6 地址（如 ::ffff:192.168.1.1）视为 IPv4。
// 无效地址返回 FamilyNone。
func AddrFamily(addr netip.Addr) Family {
	if addr.Is4() || addr.Is4In6() {
		return FamilyIPv4
	}
	if addr.IsValid() {
		return FamilyIPv6
	}
	return FamilyNone
}
