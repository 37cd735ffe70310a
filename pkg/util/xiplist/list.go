package xiplist

import (
	"context"
	"fmt"
	"net/netip"
	"slices"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go4.org/netipx"

	"github.com/omeyang/netbind/pkg/util/xaddr"
	"github.com/omeyang/netbind/pkg/util/xhost"
)

// List 是有序的地址集合。零值是空集合，可直接使用。
// List 不可变：所有运算返回新值。
type List struct {
	entries []Entry
}

// Of 从现成条目构造 List。
func Of(entries ...Entry) List {
	return List{entries: slices.Clone(entries)}
}

// Parse 从 token 序列容错构造 List。
//
// 每个 token 先去除首尾空白，前导 "!" 标记排除。
// excludeFilter 为 false 时结果只含解析成功、地址族启用且未被排除的条目；
// 为 true 时只含排除条目。无法解析为子网也无法解析为主机的 token
// 被静默丢弃——运维人员手工编辑的列表里混入杂字符不应让整次解析失败。
//
// hostOpts 透传给为主机 token 创建的 [xhost.Host]。
func Parse(tokens []string, excludeFilter bool, families xaddr.Family, hostOpts ...xhost.Option) List {
	var entries []Entry
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		excluded := strings.HasPrefix(token, "!")
		if excluded != excludeFilter {
			continue
		}

		if sub, err := xaddr.Parse(token); err == nil {
			if families.Has(sub.Family()) {
				entries = append(entries, SubnetEntry{sub})
			}
			continue
		}

		// 主机 token 的排除前缀由这里剥离（xhost 不识别 "!"）
		hostToken := token
		if excluded {
			hostToken = strings.TrimSpace(hostToken[1:])
		}
		if h, ok := xhost.TryParse(hostToken, hostOpts...); ok {
			// 主机的地址族在解析前未知，不做族过滤
			entries = append(entries, NewHostEntry(h, excluded))
		}
		// 解析失败：丢弃并继续
	}
	return List{entries: entries}
}

// Len 返回条目数。
func (l List) Len() int {
	return len(l.entries)
}

// Entries 返回条目快照。
func (l List) Entries() []Entry {
	return slices.Clone(l.entries)
}

// Append 返回追加条目后的新 List。
func (l List) Append(entries ...Entry) List {
	out := make([]Entry, 0, len(l.entries)+len(entries))
	out = append(out, l.entries...)
	out = append(out, entries...)
	return List{entries: out}
}

// Contains 报告 addr 是否命中任一条目。
// 不考虑排除标记，纯粹的成员判断；排除语义见 [List.IPSet]。
func (l List) Contains(addr netip.Addr) bool {
	for _, e := range l.entries {
		if e.Contains(addr) {
			return true
		}
	}
	return false
}

// Networks 返回网络投影：每个条目映射到其网络地址，
// 按规范化字符串去重，保持首次出现的顺序。
func (l List) Networks() List {
	seen := make(map[string]struct{}, len(l.entries))
	var out []Entry
	for _, e := range l.entries {
		n := e.Network()
		key := n.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, n)
	}
	return List{entries: out}
}

// Union 返回集合并集：先按原顺序保留 l 的条目，
// 再追加 other 中成员键尚未出现的条目。
// 同一掩码表示下的地址与网络视为同一条目。
func (l List) Union(other List) List {
	seen := make(map[string]struct{}, len(l.entries))
	out := make([]Entry, 0, len(l.entries)+len(other.entries))
	for _, e := range l.entries {
		key := e.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, e)
	}
	for _, e := range other.entries {
		key := e.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, e)
	}
	return List{entries: out}
}

// Compare 报告两个集合是否包含相同的成员键集，忽略顺序与重复。
func (l List) Compare(other List) bool {
	return newKeySet(l.entries).equal(newKeySet(other.entries))
}

// String 返回单行、无逗号、方括号包围的条目列表，
// 供对外诊断与测试比较使用。
func (l List) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, e := range l.entries {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(e.String())
	}
	b.WriteByte(']')
	return b.String()
}

// Fingerprint 返回集合内容的 xxhash 指纹：成员键排序去重后哈希。
// 顺序不同、内容相同的集合指纹一致，供配置重载时廉价判断变化。
func (l List) Fingerprint() uint64 {
	keys := make([]string, 0, len(l.entries))
	seen := make(map[string]struct{}, len(l.entries))
	for _, e := range l.entries {
		key := e.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	d := xxhash.New()
	for _, key := range keys {
		_, _ = d.WriteString(key)
		_, _ = d.Write([]byte{'\n'})
	}
	return d.Sum64()
}

// IPSet 把集合编译为 [*netipx.IPSet]：
// 先并入全部非排除条目，再移除全部排除条目，
// 因此排除永远压过包含，与条目的具体程度无关。
// 主机条目在此触发解析（阻塞，受 ctx 控制），解析失败表现为空贡献。
func (l List) IPSet(ctx context.Context) (*netipx.IPSet, error) {
	var b netipx.IPSetBuilder
	for _, e := range l.entries {
		if e.Excluded() {
			continue
		}
		addEntry(ctx, &b, e, false)
	}
	for _, e := range l.entries {
		if !e.Excluded() {
			continue
		}
		addEntry(ctx, &b, e, true)
	}
	set, err := b.IPSet()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildSet, err)
	}
	return set, nil
}

// addEntry 把单个条目并入或移出 builder。
func addEntry(ctx context.Context, b *netipx.IPSetBuilder, e Entry, remove bool) {
	switch v := e.(type) {
	case SubnetEntry:
		p := v.Network().(SubnetEntry).Prefix()
		if remove {
			b.RemovePrefix(p)
		} else {
			b.AddPrefix(p)
		}
	case HostEntry:
		for _, addr := range v.Resolve(ctx) {
			if remove {
				b.Remove(addr)
			} else {
				b.Add(addr)
			}
		}
	}
}

// keySet 成员键集合。
type keySet map[string]struct{}

func newKeySet(entries []Entry) keySet {
	s := make(keySet, len(entries))
	for _, e := range entries {
		s[e.String()] = struct{}{}
	}
	return s
}

func (s keySet) equal(other keySet) bool {
	if len(s) != len(other) {
		return false
	}
	for k := range s {
		if _, ok := other[k]; !ok {
			return false
		}
	}
	return true
}
