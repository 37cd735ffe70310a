package xhost

import (
	"context"
	"log/slog"
	"net/netip"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/omeyang/netbind/pkg/util/xaddr"
)

// maxHostNameLen DNS 名字的总长度上限。
const maxHostNameLen = 255

// maxLabelLen 单个 DNS 标签的长度上限。
const maxLabelLen = 63

// Host 表示一个命名端点：主机名或字面地址，外加可选端口。
// 字面地址构造的 Host 是预解析别名，不会发起名字服务调用。
// 命名 Host 的解析按需触发并带 TTL 缓存，见 [Host.Resolve]。
type Host struct {
	name    string
	port    uint16
	hasPort bool
	literal bool

	opts *Options

	mu           sync.Mutex
	addrs        []netip.Addr
	resolved     bool
	lastResolved time.Time
}

// TryParse 尝试从文本解析 Host。支持的格式见包文档。
// 无法识别的文本返回 (nil, false)，不产生错误——
// 调用方（批量解析）需要的是"能不能当主机用"的判断，而非失败原因。
func TryParse(text string, opts ...Option) (*Host, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, false
	}

	options := applyOptions(opts)

	// "[fd00::1]" / "[fd00::1]:port"
	if strings.HasPrefix(text, "[") {
		end := strings.Index(text, "]")
		if end < 0 {
			return nil, false
		}
		addr, err := netip.ParseAddr(text[1:end])
		if err != nil || !addr.Is6() {
			return nil, false
		}
		rest := text[end+1:]
		if rest == "" {
			return newLiteral(addr, 0, false, options), true
		}
		if !strings.HasPrefix(rest, ":") {
			return nil, false
		}
		port, ok := xaddr.ParsePort(rest[1:])
		if !ok {
			return nil, false
		}
		return newLiteral(addr, port, true, options), true
	}

	switch strings.Count(text, ":") {
	case 0:
		// 裸 IPv4 或 DNS 名字
		if addr, err := netip.ParseAddr(text); err == nil {
			return newLiteral(addr, 0, false, options), true
		}
		if isValidHostName(text) {
			return &Host{name: text, opts: options}, true
		}
		return nil, false
	case 1:
		// "ipv4:port"——主机名带端口不在文法内，左侧必须是 IPv4 字面量
		hostPart, portPart, _ := strings.Cut(text, ":")
		addr, err := netip.ParseAddr(hostPart)
		if err != nil || !(addr.Is4() || addr.Is4In6()) {
			return nil, false
		}
		port, ok := xaddr.ParsePort(portPart)
		if !ok {
			return nil, false
		}
		return newLiteral(addr, port, true, options), true
	default:
		// 多个冒号：裸 IPv6 字面量
		addr, err := netip.ParseAddr(text)
		if err != nil {
			return nil, false
		}
		return newLiteral(addr, 0, false, options), true
	}
}

// newLiteral 构造预解析的字面地址 Host。
func newLiteral(addr netip.Addr, port uint16, hasPort bool, options *Options) *Host {
	addr = xaddr.NormalizeAddr(addr)
	return &Host{
		name:         addr.String(),
		port:         port,
		hasPort:      hasPort,
		literal:      true,
		opts:         options,
		addrs:        []netip.Addr{addr},
		resolved:     true,
		lastResolved: time.Now(),
	}
}

// isValidHostName 校验受限的 DNS 名字文法：
// 标签由字母/数字/连字符组成、不以连字符开头结尾、单标签 ≤63 字符，
// 总长 ≤255。末尾的 FQDN 点被接受。
//
// 设计决策: 不使用操作系统层的主机名校验——它并不完全符合标准
// （接受下划线等非法字符），配置里混入这类名字会在解析阶段才暴露。
func isValidHostName(s string) bool {
	s = strings.TrimSuffix(s, ".")
	if s == "" || len(s) > maxHostNameLen {
		return false
	}
	for _, label := range strings.Split(s, ".") {
		if len(label) == 0 || len(label) > maxLabelLen {
			return false
		}
		for i := 0; i < len(label); i++ {
			c := label[i]
			switch {
			case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			case c == '-':
				if i == 0 || i == len(label)-1 {
					return false
				}
			default:
				return false
			}
		}
	}
	return true
}

// Name 返回主机名（字面地址 Host 返回规范化地址字符串）。
func (h *Host) Name() string {
	return h.name
}

// Port 返回端口号，未携带端口时为 0。
func (h *Host) Port() uint16 {
	return h.port
}

// HasPort 报告文本是否携带了显式端口。
func (h *Host) HasPort() bool {
	return h.hasPort
}

// IsLiteral 报告 Host 是否由字面地址构造（预解析别名）。
func (h *Host) IsLiteral() bool {
	return h.literal
}

// Resolve 返回主机的地址列表，必要时触发名字解析。
//
// 解析只在两种情况下发起：从未解析过，或缓存年龄超过 TTL。
// "localhost" 短路为环回地址，不发起名字服务调用。
// 解析服务错误被吞掉（记日志）：失败后地址列表为空但 resolved
// 标记置位，避免每次访问都热循环重试。
//
// 该调用在 TTL 过期时会阻塞在名字服务上；
// 需要超时控制的调用方应传入带 deadline 的 ctx。
func (h *Host) Resolve(ctx context.Context) []netip.Addr {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.resolved && time.Since(h.lastResolved) < h.opts.TTL {
		return slices.Clone(h.addrs)
	}

	h.addrs = h.lookupLocked(ctx)
	h.resolved = true
	h.lastResolved = time.Now()
	return slices.Clone(h.addrs)
}

// lookupLocked 执行一次名字解析，持有 h.mu 调用。
func (h *Host) lookupLocked(ctx context.Context) []netip.Addr {
	if strings.EqualFold(h.name, "localhost") {
		return []netip.Addr{
			netip.AddrFrom4([4]byte{127, 0, 0, 1}),
			netip.IPv6Loopback(),
		}
	}

	var addrs []netip.Addr
	var err error
	if c := h.opts.Cache; c != nil {
		addrs, err = c.getOrLookup(ctx, h.name, h.opts.Lookuper)
	} else {
		addrs, err = h.opts.Lookuper.LookupNetIP(ctx, "ip", h.name)
	}
	if err != nil {
		h.opts.Logger.Warn("xhost: name resolution failed",
			slog.String("host", h.name),
			slog.String("error", err.Error()))
		return nil
	}

	out := make([]netip.Addr, 0, len(addrs))
	for _, a := range addrs {
		out = append(out, xaddr.NormalizeAddr(a))
	}
	return out
}

// Addresses 返回当前缓存的地址快照，不触发解析。
func (h *Host) Addresses() []netip.Addr {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.addrs)
}

// Resolved 报告是否已做过至少一次解析尝试（含失败）。
func (h *Host) Resolved() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.resolved
}

// Contains 报告 addr 是否命中已解析的地址之一。
// 不触发解析：未解析的 Host 对任何地址返回 false。
func (h *Host) Contains(addr netip.Addr) bool {
	if h == nil || !addr.IsValid() {
		return false
	}
	addr = xaddr.NormalizeAddr(addr)
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Contains(h.addrs, addr)
}

// Equal 报告两个 Host 是否指向同一端点：
// 主机名大小写不敏感相等，或双方都已解析且存在共同地址。
// 比较从不触发解析——相等判断必须廉价且无副作用。
func (h *Host) Equal(other *Host) bool {
	if h == nil || other == nil {
		return h == other
	}
	if strings.EqualFold(h.name, other.name) {
		return true
	}

	mine, myResolved := h.snapshot()
	theirs, theirResolved := other.snapshot()
	if !myResolved || !theirResolved {
		return false
	}
	for _, a := range mine {
		if slices.Contains(theirs, a) {
			return true
		}
	}
	return false
}

// snapshot 返回 (地址副本, resolved)，避免 Equal 同时持有两把锁。
func (h *Host) snapshot() ([]netip.Addr, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.addrs), h.resolved
}

// String 返回规范化字符串：主机名（或字面地址），携带端口时附加端口。
// IPv6 字面量带端口时使用方括号形式。
func (h *Host) String() string {
	if h == nil {
		return ""
	}
	if !h.hasPort {
		return h.name
	}
	port := strconv.FormatUint(uint64(h.port), 10)
	if h.literal && strings.Contains(h.name, ":") {
		return "[" + h.name + "]:" + port
	}
	return h.name + ":" + port
}
