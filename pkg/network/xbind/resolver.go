package xbind

import (
	"cmp"
	"context"
	"fmt"
	"net/netip"
	"slices"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"go4.org/netipx"

	"github.com/omeyang/netbind/pkg/util/xaddr"
	"github.com/omeyang/netbind/pkg/util/xhost"
	"github.com/omeyang/netbind/pkg/util/xiplist"
)

// Resolver 解析多宿主主机的绑定/公布地址。
// 所有查询操作走不可变快照，更新操作整体重建快照后原子换入。
type Resolver struct {
	opts *Options

	// mu 串行化更新；查询不取锁。
	mu      sync.Mutex
	cfg     Config
	ifaces  []Interface
	ifaceFP uint64

	snap atomic.Pointer[snapshot]
}

// snapshot 是一次配置/接口组合的全部派生状态。
// 构建后只读，读取方通过 atomic.Pointer 取到的永远是完整的一份。
type snapshot struct {
	families xaddr.Family

	// LAN 子网条目编译为 IPSet；主机条目留在列表里延迟解析，
	// 保持 TTL 语义（编译进集合会把解析结果冻结到快照生命周期）。
	includeSet   *netipx.IPSet
	excludeSet   *netipx.IPSet
	includeHosts []xiplist.HostEntry
	excludeHosts []xiplist.HostEntry

	// heuristic 报告 LAN 列表没有任何包含条目，
	// 分类回退到"私有/环回/链路本地即本地"。
	heuristic bool

	// interfaces 族过滤后的全部接口，candidates 再经
	// 绑定 token 限定与虚拟适配器剔除，按索引升序。
	interfaces []Interface
	candidates []Interface

	overrides []Override

	// localSubnets LAN 条目的规范化字符串（排除条目带 "!"），仅供诊断。
	localSubnets []string
}

// New 构造 Resolver 并建立首个快照。
// ifaces 由宿主环境枚举提供，核心不查询操作系统。
func New(ctx context.Context, cfg Config, ifaces []Interface, opts ...Option) (*Resolver, error) {
	r := &Resolver{
		opts:    applyOptions(opts),
		cfg:     cfg,
		ifaces:  slices.Clone(ifaces),
		ifaceFP: interfaceFingerprint(ifaces),
	}
	snap, err := r.buildSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	r.snap.Store(snap)
	return r, nil
}

// UpdateConfig 替换配置并重建快照。
// 重建失败时旧快照保持生效，并发读取方不受影响。
func (r *Resolver) UpdateConfig(ctx context.Context, cfg Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	old := r.cfg
	r.cfg = cfg
	snap, err := r.buildSnapshot(ctx)
	if err != nil {
		r.cfg = old
		return err
	}
	r.snap.Store(snap)
	r.opts.Logger.Debug("xbind: config updated",
		"local_subnets", len(cfg.LocalSubnets),
		"bind_addresses", len(cfg.BindAddresses),
		"overrides", len(cfg.PublishedServerURIs))
	return nil
}

// UpdateInterfaces 替换接口枚举并重建快照。
// 枚举内容未变化时（指纹一致）跳过重建——网络变更通知常常是抖动。
func (r *Resolver) UpdateInterfaces(ctx context.Context, ifaces []Interface) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	fp := interfaceFingerprint(ifaces)
	if fp == r.ifaceFP {
		r.opts.Logger.Debug("xbind: interface enumeration unchanged, skipping rebuild")
		return nil
	}

	oldIfaces, oldFP := r.ifaces, r.ifaceFP
	r.ifaces = slices.Clone(ifaces)
	r.ifaceFP = fp
	snap, err := r.buildSnapshot(ctx)
	if err != nil {
		r.ifaces, r.ifaceFP = oldIfaces, oldFP
		return err
	}
	r.snap.Store(snap)
	r.opts.Logger.Debug("xbind: interfaces updated", "count", len(ifaces))
	return nil
}

// buildSnapshot 由当前 cfg 与 ifaces 重建派生状态。调用方持有 mu（或尚未发布 r）。
func (r *Resolver) buildSnapshot(ctx context.Context) (*snapshot, error) {
	families := r.cfg.Families()
	include := xiplist.Parse(r.cfg.LocalSubnets, false, families, r.opts.HostOptions...)
	exclude := xiplist.Parse(r.cfg.LocalSubnets, true, families, r.opts.HostOptions...)

	includeSet, includeHosts, err := compileEntries(include)
	if err != nil {
		return nil, err
	}
	excludeSet, excludeHosts, err := compileEntries(exclude)
	if err != nil {
		return nil, err
	}

	// 预热主机解析，让首批查询不必阻塞在名字服务上；
	// 之后的刷新仍由 TTL 驱动、在查询线程上同步发生。
	for _, h := range includeHosts {
		h.Resolve(ctx)
	}
	for _, h := range excludeHosts {
		h.Resolve(ctx)
	}

	var interfaces, candidates []Interface
	for _, it := range r.ifaces {
		if !families.Has(it.Subnet.Family()) {
			continue
		}
		interfaces = append(interfaces, it)
		if isVirtual(it.Name, r.opts.VirtualAdapterPrefixes) {
			continue
		}
		if len(r.cfg.BindAddresses) > 0 && !matchesAnyToken(it, r.cfg.BindAddresses) {
			continue
		}
		candidates = append(candidates, it)
	}
	slices.SortStableFunc(candidates, func(a, b Interface) int {
		return cmp.Compare(a.Index, b.Index)
	})

	var subnetStrs []string
	for _, e := range include.Entries() {
		subnetStrs = append(subnetStrs, e.String())
	}
	for _, e := range exclude.Entries() {
		subnetStrs = append(subnetStrs, "!"+e.String())
	}

	return &snapshot{
		families:     families,
		includeSet:   includeSet,
		excludeSet:   excludeSet,
		includeHosts: includeHosts,
		excludeHosts: excludeHosts,
		heuristic:    include.Len() == 0,
		interfaces:   interfaces,
		candidates:   candidates,
		overrides:    parseOverrides(r.cfg.PublishedServerURIs, r.opts.Logger),
		localSubnets: subnetStrs,
	}, nil
}

// compileEntries 把列表的子网条目编译为 IPSet，主机条目原样带出。
func compileEntries(l xiplist.List) (*netipx.IPSet, []xiplist.HostEntry, error) {
	var b netipx.IPSetBuilder
	var hosts []xiplist.HostEntry
	for _, e := range l.Entries() {
		switch v := e.(type) {
		case xiplist.SubnetEntry:
			b.AddPrefix(v.Network().(xiplist.SubnetEntry).Prefix())
		case xiplist.HostEntry:
			hosts = append(hosts, v)
		}
	}
	set, err := b.IPSet()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrBuildSnapshot, err)
	}
	return set, hosts, nil
}

// matchesAnyToken 报告接口是否命中任一绑定 token。
func matchesAnyToken(it Interface, tokens []string) bool {
	for _, tok := range tokens {
		if it.matchesToken(strings.TrimSpace(tok)) {
			return true
		}
	}
	return false
}

// interfaceFingerprint 返回接口枚举的内容指纹，与枚举顺序无关。
func interfaceFingerprint(ifaces []Interface) uint64 {
	keys := make([]string, 0, len(ifaces))
	for _, it := range ifaces {
		keys = append(keys, fmt.Sprintf("%s|%d|%s", it.Name, it.Index, it.Subnet))
	}
	sort.Strings(keys)

	d := xxhash.New()
	for _, k := range keys {
		_, _ = d.WriteString(k)
		_, _ = d.Write([]byte{'\n'})
	}
	return d.Sum64()
}

// SnapshotInfo 是当前快照的只读诊断视图。
type SnapshotInfo struct {
	// Families 启用的地址族。
	Families xaddr.Family
	// LocalSubnets LAN 条目的规范化字符串，排除条目带 "!" 前缀。
	LocalSubnets []string
	// InterfaceCount 族过滤后的接口数，CandidateCount 可入选的候选数。
	InterfaceCount int
	CandidateCount int
	// OverrideCount 解析成功的覆写条数。
	OverrideCount int
}

// Snapshot 返回当前快照的诊断视图，供 CLI 与日志展示。
func (r *Resolver) Snapshot() SnapshotInfo {
	snap := r.snap.Load()
	return SnapshotInfo{
		Families:       snap.families,
		LocalSubnets:   slices.Clone(snap.localSubnets),
		InterfaceCount: len(snap.interfaces),
		CandidateCount: len(snap.candidates),
		OverrideCount:  len(snap.overrides),
	}
}

// IsInLocalNetwork 报告 s（地址、子网或主机名）是否属于本地网络。
// 空串与无法解析的输入返回 false——这是一个判定谓词，不做保守默认
// （GetBindInterface 的"未知来源按内部处理"在其自身步骤里实现）。
func (r *Resolver) IsInLocalNetwork(ctx context.Context, s string) bool {
	snap := r.snap.Load()
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}

	if sub, err := xaddr.Parse(s); err == nil {
		return snap.containsLocal(ctx, sub.Addr())
	}
	if h, ok := xhost.TryParse(s, r.opts.HostOptions...); ok {
		return snap.hostIsLocal(ctx, h)
	}
	return false
}

// containsLocal 实现分类核心：排除压过包含，与条目的具体程度无关。
func (s *snapshot) containsLocal(ctx context.Context, addr netip.Addr) bool {
	addr = xaddr.NormalizeAddr(addr)
	if !addr.IsValid() {
		return false
	}

	for _, h := range s.excludeHosts {
		if slices.Contains(h.Resolve(ctx), addr) {
			return false
		}
	}
	if s.excludeSet.Contains(addr) {
		return false
	}

	if s.heuristic {
		return addr.IsPrivate() || addr.IsLoopback() || addr.IsLinkLocalUnicast()
	}

	if s.includeSet.Contains(addr) {
		return true
	}
	for _, h := range s.includeHosts {
		if slices.Contains(h.Resolve(ctx), addr) {
			return true
		}
	}
	return false
}

// hostIsLocal 报告主机的任一解析地址属于本地网络。
func (s *snapshot) hostIsLocal(ctx context.Context, h *xhost.Host) bool {
	for _, addr := range h.Resolve(ctx) {
		if s.containsLocal(ctx, addr) {
			return true
		}
	}
	return false
}

// CreateIPCollection 用启用的地址族解析 token 序列为集合。
func (r *Resolver) CreateIPCollection(tokens []string, excludeFilter bool) xiplist.List {
	snap := r.snap.Load()
	return xiplist.Parse(tokens, excludeFilter, snap.families, r.opts.HostOptions...)
}

// ParseInterfaceToken 把配置里的接口名 token 解析为对应接口的地址集合。
// 未知 token 返回 (空集合, false) 而非错误——token 是运维手填的，
// 引用的硬件在某台主机上可能就是不存在。
func (r *Resolver) ParseInterfaceToken(name string) (xiplist.List, bool) {
	snap := r.snap.Load()
	name = strings.TrimSpace(name)
	if name == "" {
		return xiplist.List{}, false
	}

	var entries []xiplist.Entry
	for _, it := range snap.interfaces {
		if strings.EqualFold(it.Name, name) {
			entries = append(entries, xiplist.SubnetEntry{Subnet: xaddr.FromAddr(it.Addr())})
		}
	}
	if len(entries) == 0 {
		return xiplist.List{}, false
	}
	return xiplist.Of(entries...), true
}

// GetBindInterface 为给定来源选出应当公布/绑定的地址。
//
// 步骤：来源内外分类（空或无法解析按内部处理）→ 候选接口按来源类别
// 筛选（选空时回退另一类）→ 按索引升序取最小 → 套用覆写表（声明序
// 首个命中生效）。完全没有候选时回退环回地址。
// 返回值与来源携带的显式端口（未携带时为 0）。
func (r *Resolver) GetBindInterface(ctx context.Context, source string) (string, int) {
	snap := r.snap.Load()
	source = strings.TrimSpace(source)

	port := 0
	internal := true
	if source != "" {
		if h, ok := xhost.TryParse(source, r.opts.HostOptions...); ok {
			if h.HasPort() {
				port = int(h.Port())
			}
			internal = snap.hostIsLocal(ctx, h)
		}
		// 无法解析的来源保持内部分类（保守默认）
	}

	chosen, found := snap.pickInterface(ctx, internal)

	var addr netip.Addr
	var value string
	if found {
		addr = chosen.Addr()
		value = addr.String()
	} else {
		addr = loopbackFor(snap.families)
		value = addr.String()
		r.opts.Logger.Warn("xbind: no usable interface, falling back to loopback",
			"source", source, "internal", internal)
	}

	for _, ov := range snap.overrides {
		if ov.Wildcard || ov.Subnet.Contains(addr) {
			value = ov.Value
			break
		}
	}
	return value, port
}

// pickInterface 在候选集中按来源类别选择接口。
// 候选集已经剔除虚拟适配器并按索引升序，所以这里首个命中即最小索引；
// 类别选空时回退整个候选集的首个——宁可给错类别也不给空结果。
func (s *snapshot) pickInterface(ctx context.Context, internal bool) (Interface, bool) {
	for _, it := range s.candidates {
		if s.containsLocal(ctx, it.Addr()) == internal {
			return it, true
		}
	}
	if len(s.candidates) > 0 {
		return s.candidates[0], true
	}
	return Interface{}, false
}

// loopbackFor 返回与启用地址族匹配的环回地址。
func loopbackFor(families xaddr.Family) netip.Addr {
	if families.Has(xaddr.FamilyIPv4) {
		return netip.AddrFrom4([4]byte{127, 0, 0, 1})
	}
	return netip.IPv6Loopback()
}
