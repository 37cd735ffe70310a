package xbind

import (
	"log/slog"
	"strings"

	"github.com/omeyang/netbind/pkg/util/xaddr"
)

// Config 是解析器的进程级配置，可整体重载。
// 字段与配置文件键一一对应（koanf 标签），见 pkg/config/xbindcfg。
type Config struct {
	// LocalSubnets 声明 LAN 子网的 token 列表。
	// 支持 xiplist 文法（CIDR、点分掩码、主机名、"!" 排除等）。
	// 为空时回退到"私有/环回地址即本地"的启发式分类。
	LocalSubnets []string `koanf:"local_subnets"`

	// BindAddresses 限定候选接口的 token 列表：
	// 接口名（大小写不敏感）或接口地址字面量。为空时所有接口都是候选。
	BindAddresses []string `koanf:"bind_addresses"`

	// EnableIPv4 / EnableIPv6 地址族开关。
	EnableIPv4 bool `koanf:"enable_ipv4"`
	EnableIPv6 bool `koanf:"enable_ipv6"`

	// PublishedServerURIs 按子网覆写公布值的 "subnet=value" 列表。
	// 子网 token 恰为 "0.0.0.0" 时是通配标记。
	PublishedServerURIs []string `koanf:"published_server_uris"`
}

// Families 返回启用的地址族标志位。
// 两个开关都关闭时按全部启用处理——解析器必须始终能给出某个结果。
func (c Config) Families() xaddr.Family {
	var f xaddr.Family
	if c.EnableIPv4 {
		f |= xaddr.FamilyIPv4
	}
	if c.EnableIPv6 {
		f |= xaddr.FamilyIPv6
	}
	if f == xaddr.FamilyNone {
		f = xaddr.FamilyAll
	}
	return f
}

// Override 是一条按子网的覆写：来源子网命中（或通配）时，
// 选中的接口地址被替换为 Value。
type Override struct {
	// Subnet 匹配子网。Wildcard 为 true 时不参与匹配。
	Subnet xaddr.Subnet
	// Wildcard 报告该条是否为 "0.0.0.0" 通配标记。
	Wildcard bool
	// Value 替换值（主机名或地址，原样返回给调用方）。
	Value string
}

// wildcardToken 覆写表的通配子网标记。
const wildcardToken = "0.0.0.0"

// parseOverrides 解析 "subnet=value" 覆写对：按第一个 "=" 切分，
// 两侧去除空白。坏条目丢弃并记日志，不影响其余条目。
// 返回结果保持声明顺序——覆写匹配是首个命中生效。
func parseOverrides(pairs []string, logger *slog.Logger) []Override {
	var out []Override
	for _, pair := range pairs {
		subnetTok, value, found := strings.Cut(pair, "=")
		if !found {
			logger.Warn("xbind: override pair missing '='", slog.String("pair", pair))
			continue
		}
		subnetTok = strings.TrimSpace(subnetTok)
		value = strings.TrimSpace(value)
		if value == "" {
			logger.Warn("xbind: override pair has empty value", slog.String("pair", pair))
			continue
		}

		if subnetTok == wildcardToken {
			out = append(out, Override{Wildcard: true, Value: value})
			continue
		}

		sub, err := xaddr.Parse(subnetTok)
		if err != nil {
			logger.Warn("xbind: override pair has bad subnet",
				slog.String("pair", pair),
				slog.String("error", err.Error()))
			continue
		}
		out = append(out, Override{Subnet: sub, Value: value})
	}
	return out
}
