package xaddr

import (
	"encoding/binary"
	"fmt"
	"math/bits"
	"net/netip"
	"strconv"
	"strings"
)

// Subnet 表示一个带前缀长度的地址值。
// 地址部分保留解析输入的原始主机位（不自动掩码），
// 前缀长度仅在包含判断和 [Subnet.Network] 推导时生效。
// 零值是"无值"哨兵，[Subnet.IsValid] 返回 false。
//
// Subnet 构造后不可变，所有变换方法返回新值。
type Subnet struct {
	prefix   netip.Prefix
	excluded bool
}

// Parse 从字符串解析 Subnet。支持的格式见包文档。
//
// 解析规则：
//   - 输入自动去除首尾空白；前导 "!" 设置排除标记
//   - 无前缀后缀时默认为主机路由（全宽前缀）
//   - IPv6 zone 后缀被接受并剥离：zone 绑定具体接口，
//     对配置层的子网运算没有意义，保留会破坏规范化字符串的集合键语义
//   - 方括号形式的端口（"[fd00::1]:123"）在子网语义下被忽略
//   - IPv4-mapped IPv6 地址统一转为纯 IPv4
//
// 格式错误（多余八位组、前缀越界、尾部杂字符等）返回 [ErrInvalidSubnet]，
// 不做任何静默截断。
func Parse(s string) (Subnet, error) {
	s = strings.TrimSpace(s)

	excluded := false
	if strings.HasPrefix(s, "!") {
		excluded = true
		s = strings.TrimSpace(s[1:])
	}
	if s == "" {
		return Subnet{}, fmt.Errorf("%w: empty input", ErrInvalidSubnet)
	}

	// 方括号 IPv6：提取括号内地址，括号后仅允许 ":port" 或 "/prefix"
	if strings.HasPrefix(s, "[") {
		end := strings.Index(s, "]")
		if end < 0 {
			return Subnet{}, fmt.Errorf("%w: unterminated bracket: %s", ErrInvalidSubnet, s)
		}
		rest := s[end+1:]
		inner := s[1:end]
		switch {
		case rest == "":
		case strings.HasPrefix(rest, "/"):
			inner += rest
		case strings.HasPrefix(rest, ":"):
			// 端口对子网语义无意义，校验合法后丢弃
			if _, ok := ParsePort(rest[1:]); !ok {
				return Subnet{}, fmt.Errorf("%w: invalid port suffix: %s", ErrInvalidSubnet, s)
			}
		default:
			return Subnet{}, fmt.Errorf("%w: trailing garbage after bracket: %s", ErrInvalidSubnet, s)
		}
		s = inner
	}

	addrStr := s
	suffix := ""
	if idx := strings.Index(s, "/"); idx >= 0 {
		addrStr = strings.TrimSpace(s[:idx])
		suffix = strings.TrimSpace(s[idx+1:])
		if suffix == "" {
			return Subnet{}, fmt.Errorf("%w: empty prefix: %s", ErrInvalidSubnet, s)
		}
	}

	addr, err := parseAddr(addrStr)
	if err != nil {
		return Subnet{}, err
	}

	bitCount := addr.BitLen()
	if suffix != "" {
		if strings.Contains(suffix, ".") {
			bitCount, err = maskToBits(addr, suffix)
			if err != nil {
				return Subnet{}, err
			}
		} else {
			n, err := strconv.Atoi(suffix)
			if err != nil || n < 0 || n > addr.BitLen() {
				return Subnet{}, fmt.Errorf("%w: invalid prefix length %q", ErrInvalidSubnet, suffix)
			}
			bitCount = n
		}
	}

	return Subnet{prefix: netip.PrefixFrom(addr, bitCount), excluded: excluded}, nil
}

// MustParse 与 [Parse] 相同，但失败时 panic。仅用于测试和常量初始化。
func MustParse(s string) Subnet {
	sub, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return sub
}

// FromAddr 从已解析的地址创建主机路由 Subnet（全宽前缀）。
// 无效地址返回零值。
func FromAddr(addr netip.Addr) Subnet {
	if !addr.IsValid() {
		return Subnet{}
	}
	addr = NormalizeAddr(addr)
	return Subnet{prefix: netip.PrefixFrom(addr, addr.BitLen())}
}

// FromPrefix 从 [netip.Prefix] 创建 Subnet。
// 无效前缀返回零值。
func FromPrefix(p netip.Prefix) Subnet {
	if !p.IsValid() {
		return Subnet{}
	}
	addr := NormalizeAddr(p.Addr())
	b := p.Bits()
	if b > addr.BitLen() {
		// IPv4-mapped 前缀去映射后位宽收窄（/128 → /32）
		b -= 96
		if b < 0 {
			b = 0
		}
	}
	return Subnet{prefix: netip.PrefixFrom(addr, b)}
}

// parseAddr 解析单个地址：剥离 zone，统一去映射 IPv4-mapped IPv6。
func parseAddr(s string) (netip.Addr, error) {
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("%w: %v", ErrInvalidSubnet, err)
	}
	return NormalizeAddr(addr), nil
}

// NormalizeAddr 返回规范化地址：剥离 zone 并去映射 IPv4-mapped IPv6。
// netbind 内所有进入集合运算的地址都先经过该规范化，
// 保证字符串键和地址族判断的一致性。
func NormalizeAddr(addr netip.Addr) netip.Addr {
	if addr.Zone() != "" {
		addr = addr.WithZone("")
	}
	if addr.Is4In6() {
		addr = addr.Unmap()
	}
	return addr
}

// maskToBits 将点分掩码转换为前缀长度（仅 IPv4），要求掩码连续。
func maskToBits(addr netip.Addr, maskStr string) (int, error) {
	mask, err := netip.ParseAddr(maskStr)
	if err != nil {
		return 0, fmt.Errorf("%w: %w: %v", ErrInvalidSubnet, ErrInvalidMask, err)
	}
	if mask.Is4In6() {
		mask = mask.Unmap()
	}
	if !addr.Is4() || !mask.Is4() {
		return 0, fmt.Errorf("%w: %w: mask notation only supports IPv4", ErrInvalidSubnet, ErrInvalidMask)
	}

	maskB := mask.As4()
	maskUint := binary.BigEndian.Uint32(maskB[:])

	// 合法掩码为前缀全 1 后缀全 0
	inverted := ^maskUint
	if inverted&(inverted+1) != 0 {
		return 0, fmt.Errorf("%w: %w: non-contiguous mask: %s", ErrInvalidSubnet, ErrInvalidMask, maskStr)
	}
	return bits.OnesCount32(maskUint), nil
}

// IsValid 报告 s 是否持有可用的地址值。
// 零值 Subnet 返回 false。
func (s Subnet) IsValid() bool {
	return s.prefix.IsValid()
}

// Addr 返回地址部分（未掩码）。
func (s Subnet) Addr() netip.Addr {
	return s.prefix.Addr()
}

// Bits 返回前缀长度。无效值返回 -1。
func (s Subnet) Bits() int {
	if !s.IsValid() {
		return -1
	}
	return s.prefix.Bits()
}

// Prefix 返回底层的 [netip.Prefix]。
func (s Subnet) Prefix() netip.Prefix {
	return s.prefix
}

// Excluded 报告该值是否带排除标记（解析自 "!" 前缀）。
func (s Subnet) Excluded() bool {
	return s.excluded
}

// WithExcluded 返回排除标记为 excluded 的副本。
func (s Subnet) WithExcluded(excluded bool) Subnet {
	s.excluded = excluded
	return s
}

// Family 返回地址族。无效值返回 FamilyNone。
func (s Subnet) Family() Family {
	return AddrFamily(s.prefix.Addr())
}

// IsHostRoute 报告前缀是否为全宽（单主机语义）。
func (s Subnet) IsHostRoute() bool {
	return s.IsValid() && s.prefix.Bits() == s.prefix.Addr().BitLen()
}

// Contains 报告 addr 掩码到 s 的前缀长度后是否落在 s 的网络内。
// 地址族不匹配返回 false，从不报错。
// 全宽前缀退化为单主机相等判断。
func (s Subnet) Contains(addr netip.Addr) bool {
	if !s.IsValid() || !addr.IsValid() {
		return false
	}
	addr = NormalizeAddr(addr)
	return s.prefix.Contains(addr)
}

// ContainsSubnet 报告 other 的地址是否落在 s 的网络内。
// 只比较 other 的地址部分，不要求 other 整段被覆盖。
func (s Subnet) ContainsSubnet(other Subnet) bool {
	return other.IsValid() && s.Contains(other.prefix.Addr())
}

// Network 返回网络地址：前缀长度之外的所有位清零，前缀长度保留。
// 幂等：Network().Network() == Network()。
func (s Subnet) Network() Subnet {
	if !s.IsValid() {
		return Subnet{}
	}
	return Subnet{prefix: s.prefix.Masked(), excluded: s.excluded}
}

// Equal 报告两个 Subnet 是否相等：同地址族、同原始地址、同前缀长度。
// 相等比较不做掩码（掩码语义属于 Contains），也不比较排除标记。
func (s Subnet) Equal(other Subnet) bool {
	return s.prefix == other.prefix
}

// String 返回规范化字符串：
// 全宽前缀只输出地址（"10.0.0.1"），否则输出 "addr/bits"（地址保留主机位）。
// 无效值返回空字符串。该形式同时是集合运算的成员键。
func (s Subnet) String() string {
	if !s.IsValid() {
		return ""
	}
	if s.IsHostRoute() {
		return s.prefix.Addr().String()
	}
	return s.prefix.String()
}

// StringWithMask 返回点分掩码形式（仅 IPv4，如 "10.0.0.0/255.0.0.0"）。
// IPv6 或无效值回退到 [Subnet.String]。
func (s Subnet) StringWithMask() string {
	if !s.IsValid() || !s.prefix.Addr().Is4() {
		return s.String()
	}
	maskUint := ^uint32(0)
	if b := s.prefix.Bits(); b < 32 {
		// b == 0 时移位 32 位，无符号移位结果为 0，即全零掩码
		maskUint <<= uint(32 - b)
	}
	var maskB [4]byte
	binary.BigEndian.PutUint32(maskB[:], maskUint)
	return s.prefix.Addr().String() + "/" + netip.AddrFrom4(maskB).String()
}
