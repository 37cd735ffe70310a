package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/netbind/pkg/config/xbindcfg"
	"github.com/omeyang/netbind/pkg/network/xbind"
)

// exitError 表示需要非零退出码但已完成输出的场景。
type exitError struct {
	code int
}

func (e *exitError) Error() string { return "" }

// usageError 表示参数错误，退出码 2。
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

// createCommands 创建所有子命令。
func createCommands() []*cli.Command {
	return []*cli.Command{
		createClassifyCommand(),
		createResolveCommand(),
		createInterfacesCommand(),
		createWatchCommand(),
	}
}

// createClassifyCommand 创建 classify 子命令。
func createClassifyCommand() *cli.Command {
	return &cli.Command{
		Name:      "classify",
		Usage:     "判断地址/主机是否属于本地网络",
		ArgsUsage: "<addr-or-host>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return &usageError{msg: "classify 需要一个地址或主机名参数"}
			}
			return cmdClassify(ctx, os.Stdout, cmd.String("config"), cmd.Args().First())
		},
	}
}

// createResolveCommand 创建 resolve 子命令。
func createResolveCommand() *cli.Command {
	return &cli.Command{
		Name:      "resolve",
		Usage:     "解析对给定来源应公布/绑定的地址",
		ArgsUsage: "<source>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			// 来源可以为空（按内部来源处理），多于一个参数才是错误
			if cmd.Args().Len() > 1 {
				return &usageError{msg: "resolve 最多接受一个来源参数"}
			}
			return cmdResolve(ctx, os.Stdout, cmd.String("config"), cmd.Args().First())
		},
	}
}

// createInterfacesCommand 创建 interfaces 子命令。
func createInterfacesCommand() *cli.Command {
	return &cli.Command{
		Name:  "interfaces",
		Usage: "列出枚举到的网络接口及其分类",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cmdInterfaces(ctx, os.Stdout, cmd.String("config"))
		},
	}
}

// createWatchCommand 创建 watch 子命令。
func createWatchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "监视配置文件变更并打印重载结果（Ctrl-C 退出）",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cmdWatch(ctx, os.Stdout, cmd.String("config"))
		},
	}
}

// buildResolver 从配置文件与操作系统枚举构造解析器。
// 这是整个程序里唯一触碰操作系统接口查询的路径（见 enumerate.go）。
func buildResolver(ctx context.Context, configPath string) (*xbind.Resolver, error) {
	cfg, err := xbindcfg.Load(configPath)
	if err != nil {
		return nil, err
	}
	ifaces, err := enumerateInterfaces()
	if err != nil {
		return nil, err
	}
	return xbind.New(ctx, cfg, ifaces)
}

// cmdClassify 执行本地网络分类。地址属于本地网络时退出码 0，否则 1。
func cmdClassify(ctx context.Context, out io.Writer, configPath, target string) error {
	r, err := buildResolver(ctx, configPath)
	if err != nil {
		return err
	}

	if r.IsInLocalNetwork(ctx, target) {
		fmt.Fprintf(out, "%s: local\n", target)
		return nil
	}
	fmt.Fprintf(out, "%s: remote\n", target)
	return &exitError{code: 1}
}

// cmdResolve 执行绑定地址解析并打印结果。
func cmdResolve(ctx context.Context, out io.Writer, configPath, source string) error {
	r, err := buildResolver(ctx, configPath)
	if err != nil {
		return err
	}

	value, port := r.GetBindInterface(ctx, source)
	fmt.Fprintln(out, formatBindResult(value, port))
	return nil
}

// formatBindResult 拼装解析结果：来源携带端口时输出 host:port 形式
// （IPv6 字面量自动加方括号）。
func formatBindResult(value string, port int) string {
	if port == 0 {
		return value
	}
	return net.JoinHostPort(value, strconv.Itoa(port))
}

// cmdInterfaces 列出枚举到的接口及各自的本地/远端分类。
func cmdInterfaces(ctx context.Context, out io.Writer, configPath string) error {
	r, err := buildResolver(ctx, configPath)
	if err != nil {
		return err
	}
	ifaces, err := enumerateInterfaces()
	if err != nil {
		return err
	}

	info := r.Snapshot()
	fmt.Fprintf(out, "local_subnets=%v candidates=%d/%d overrides=%d\n",
		info.LocalSubnets, info.CandidateCount, info.InterfaceCount, info.OverrideCount)

	if len(ifaces) == 0 {
		fmt.Fprintln(out, "未枚举到可用接口")
		return nil
	}
	for _, it := range ifaces {
		category := "remote"
		if r.IsInLocalNetwork(ctx, it.Addr().String()) {
			category = "local"
		}
		fmt.Fprintf(out, "%-16s index=%-4d %-24s %s\n",
			it.Name, it.Index, it.Subnet.String(), category)
	}
	return nil
}

// cmdWatch 监视配置文件直到收到退出信号。
func cmdWatch(ctx context.Context, out io.Writer, configPath string) error {
	// 先做一次完整加载，尽早暴露路径/格式问题
	cfg, err := xbindcfg.Load(configPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "监视 %s (local_subnets=%d overrides=%d)\n",
		configPath, len(cfg.LocalSubnets), len(cfg.PublishedServerURIs))

	w, err := xbindcfg.Watch(configPath, func(cfg xbind.Config, err error) {
		if err != nil {
			fmt.Fprintf(out, "重载失败: %v\n", err)
			return
		}
		fmt.Fprintf(out, "配置已重载 (local_subnets=%d bind_addresses=%d overrides=%d)\n",
			len(cfg.LocalSubnets), len(cfg.BindAddresses), len(cfg.PublishedServerURIs))
	})
	if err != nil {
		return err
	}
	w.StartAsync()

	<-ctx.Done()
	return w.Stop()
}
