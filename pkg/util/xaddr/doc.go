// Package xaddr 提供带前缀长度的子网值类型 [Subnet]。
//
// xaddr 基于 Go 标准库 [net/netip] 构建，是 netbind 的最底层值类型：
// 一个 Subnet 表示"地址 + 前缀长度 + 排除标记"的不可变组合，
// 支持解析、包含判断、网络地址推导和规范化字符串表示。
//
// # 核心功能
//
//   - subnet.go: [Subnet] 值类型及 [Parse] / [MustParse] 解析入口
//   - family.go: 地址族标志位 [Family]（IPv4/IPv6 启用过滤）
//
// # 支持的文本格式
//
//   - 裸 IPv4: "10.0.0.1"（主机路由，前缀 32）
//   - CIDR: "10.0.0.0/8"
//   - 点分掩码: "10.0.0.0/255.0.0.0"（仅 IPv4，要求掩码连续）
//   - 裸/CIDR IPv6: "fd00::1/64"
//   - 方括号 IPv6: "[fd00::1]" 或 "[fd00::1]:123"（端口在子网语义下被忽略）
//   - zone 后缀: "fe80::1%eth0"（zone 被接受并剥离）
//   - 排除前缀: "!10.0.0.5"（设置排除标记）
//
// # 快速示例
//
//	s, _ := xaddr.Parse("192.168.1.2/24")
//	fmt.Println(s.Contains(netip.MustParseAddr("192.168.1.100")))  // true
//	fmt.Println(s.Network())                                        // 192.168.1.0/24
//	fmt.Println(s.String())                                         // 192.168.1.2/24
//
// 解析是严格的：格式错误返回 [ErrInvalidSubnet] 而非静默截断。
// 批量容错解析由上层 xiplist 负责。
package xaddr
