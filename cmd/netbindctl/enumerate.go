package main

import (
	"fmt"
	"net"
	"net/netip"

	"github.com/omeyang/netbind/pkg/network/xbind"
	"github.com/omeyang/netbind/pkg/util/xaddr"
)

// enumerateInterfaces 枚举操作系统的网络接口，转换为解析核心的输入。
// 核心自身从不查询操作系统，这里是唯一的查询点。
// 跳过未启用与环回接口；同一物理接口的多个地址各生成一条记录。
func enumerateInterfaces() ([]xbind.Interface, error) {
	sysIfaces, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("netbindctl: enumerate interfaces: %w", err)
	}

	var out []xbind.Interface
	for _, si := range sysIfaces {
		if si.Flags&net.FlagUp == 0 || si.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := si.Addrs()
		if err != nil {
			// 单个接口查不到地址不应让整次枚举失败
			continue
		}
		for _, a := range addrs {
			ipnet, ok := a.(*net.IPNet)
			if !ok {
				continue
			}
			pfx, ok := toPrefix(ipnet)
			if !ok {
				continue
			}
			out = append(out, xbind.Interface{
				Subnet: xaddr.FromPrefix(pfx),
				Index:  si.Index,
				Name:   si.Name,
			})
		}
	}
	return out, nil
}

// toPrefix 把 *net.IPNet 转换为 netip.Prefix，保留接口地址的主机位。
func toPrefix(n *net.IPNet) (netip.Prefix, bool) {
	addr, ok := netip.AddrFromSlice(n.IP)
	if !ok {
		return netip.Prefix{}, false
	}
	addr = addr.Unmap()
	ones, bits := n.Mask.Size()
	if bits != addr.BitLen() {
		return netip.Prefix{}, false
	}
	return netip.PrefixFrom(addr, ones), true
}
