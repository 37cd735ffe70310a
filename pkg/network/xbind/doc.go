// Package xbind 为多宿主主机解析"对某个客户端应当公布/绑定哪个本地地址"。
//
// [Resolver] 持有一份不可变的派生状态快照（LAN 子网集合、启用的地址族、
// 接口枚举、按子网的覆写表），通过 atomic.Pointer 整体替换：
// 配置或接口更新时重建整个快照再原子换入，
// 并发读取方永远不会看到"新子网配旧接口"之类的半更新组合。
//
// # 核心操作
//
//   - [Resolver.IsInLocalNetwork]: 本地/远端分类。
//     地址命中任一非排除的 LAN 条目、且不命中任何排除条目时为本地；
//     排除永远压过包含，与条目的具体程度无关。
//   - [Resolver.GetBindInterface]: 公布地址选择。
//     按来源的内外分类挑选接口（外配外、内配内，选空时回退另一类），
//     虚拟交换机适配器（名字前缀 "vEthernet"，大小写不敏感）从不入选，
//     剩余候选按接口索引升序取最小者，最后套用覆写表（声明序首个命中生效，
//     0.0.0.0 为通配标记）。完全没有可用接口时回退环回地址——
//     调用方是正在运行的服务器，必须拿到某个绑定目标而不是错误。
//   - [Resolver.CreateIPCollection] / [Resolver.ParseInterfaceToken]:
//     面向配置文本的集合构造与接口名 token 解析。
//
// # 失败语义
//
// 配置里的坏子网在批量解析时被丢弃（见 xiplist），不会让更新失败；
// 未知接口 token 返回"未找到"而非错误——绑定 token 是运维手填的，
// 引用的硬件在某台主机上可能就是不存在。
package xbind
