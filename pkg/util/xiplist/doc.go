// Package xiplist 提供子网与主机混合的有序地址集合 [List]。
//
// List 的条目是 [Entry]：要么是 xaddr 的子网值，要么是 xhost 的
// 惰性解析主机，每个条目可带排除标记。条目保持解析顺序；
// 集合运算（并集、比较、网络投影去重）以条目的规范化字符串为成员键。
//
// # 容错解析
//
// [Parse] 面向运维人员手工编辑的子网列表：逐个 token 解析，
// 无法识别的 token 被静默丢弃而不使整次解析失败，
// 前导 "!" 标记排除条目，excludeFilter 参数选择保留包含集还是排除集，
// 地址族过滤用于按 IPv4/IPv6 开关裁剪配置。
//
// # 集合编译
//
// [List.IPSet] 把集合编译为 [go4.org/netipx] 的 IPSet：
// 先并入全部非排除条目（主机条目此时触发解析），再移除全部排除条目，
// 得到"排除永远压过包含"语义下的 O(log n) 成员查询结构。
// [List.Fingerprint] 基于排序后的成员键计算 xxhash 指纹，
// 供配置重载时廉价判断派生状态是否变化。
package xiplist
