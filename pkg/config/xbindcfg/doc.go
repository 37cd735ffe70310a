// Package xbindcfg 加载与热重载 [xbind.Config]。
//
// 配置文件支持 YAML 与 JSON，格式按扩展名自动检测；
// 键名与 [xbind.Config] 的 koanf 标签一一对应：
//
//	local_subnets:
//	  - "192.168.1.0/24"
//	  - "!192.168.1.5"
//	bind_addresses:
//	  - "eth0"
//	enable_ipv4: true
//	enable_ipv6: false
//	published_server_uris:
//	  - "192.168.1.0/24=internal.example"
//
// [Watch] 监视配置文件变更（监视所在目录而非文件本身，
// 兼容编辑器的原子写入），防抖后重新解析并把新配置交给回调；
// 回调方拿到解析结果后通常调用 [xbind.Resolver.UpdateConfig] 换入。
package xbindcfg
