// Package xhost 提供惰性解析的主机端点类型 [Host]。
//
// 一个 Host 表示"主机名或字面地址 + 可选端口"的端点，
// 名字解析按需触发并带 TTL 缓存：只有从未解析过、或缓存超过
// [DefaultTTL]（30 分钟）时才会发起名字服务调用。
// 解析失败被吞掉（记录日志），调用方总是得到一个可能为空的地址列表，
// 而不会收到错误。
//
// # 支持的文本格式
//
//   - "[fd00::1]:8096" — 方括号 IPv6 + 端口
//   - "10.0.0.1:8096" — IPv4 + 端口
//   - "fd00::1" / "10.0.0.1" — 裸字面地址（预解析别名）
//   - "myhost.example" — DNS 名字（字母/数字/连字符/点，
//     单标签 ≤63 字符，总长 ≤255，受限模式校验——不信任
//     操作系统层的主机名检查，它并不完全符合标准）
//
// # 解析与缓存
//
// "localhost" 短路为环回地址，不发起名字服务调用。
// 名字解析通过 [Lookuper] 接口注入（*net.Resolver 原生满足），
// 便于测试时替换。可选的共享 [Cache]（expirable LRU + singleflight）
// 让多个 Host 实例复用解析结果并合并并发查询。
//
// # 并发
//
// Host 的解析缓存字段由内部互斥锁保护，可跨 goroutine 共享；
// 解析本身是阻塞调用，需要非阻塞行为的调用方应自行卸载到后台。
package xhost
