// Package util 提供地址与主机表示相关的子包。
//
// 子包列表：
//   - xaddr: 子网值类型，CIDR/点分掩码/方括号形式解析、包含判断、规范化输出
//   - xhost: 带 TTL 解析缓存的主机值，字面量与 DNS 名字的统一表示
//   - xiplist: 地址集合，子网与主机条目的多态容器及集合运算
package util
