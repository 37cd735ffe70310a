// netbindctl 是 netbind 解析核心的命令行工具。
//
// 用法:
//
//	netbindctl [全局选项] <命令> [命令参数]
//
// 全局选项:
//
//	-c, --config   配置文件路径 (YAML/JSON，默认: /etc/netbind/netbind.yaml)
//
// 命令:
//
//	classify <addr>      判断地址/主机是否属于本地网络
//	resolve <source>     解析对给定来源应公布/绑定的地址
//	interfaces           列出枚举到的网络接口及其候选状态
//	watch                监视配置文件变更并打印重载结果
//	help                 显示帮助信息
//
// 退出码:
//
//	0: 命令执行成功（classify 命令: 地址属于本地网络）
//	1: 命令执行失败（classify 命令: 地址不属于本地网络）
//	2: 参数错误（缺少参数、未知命令等）
//
// 示例:
//
//	netbindctl classify 192.168.1.50
//	netbindctl resolve 8.8.8.8:443
//	netbindctl -c ./netbind.yaml interfaces
//	netbindctl watch
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
)

// defaultConfigPath 默认配置文件路径。
const defaultConfigPath = "/etc/netbind/netbind.yaml"

// 版本信息（可通过 -ldflags 注入）。
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func main() {
	os.Exit(run())
}

// createApp 创建 CLI 应用。
func createApp() *cli.Command {
	return &cli.Command{
		Name:    "netbindctl",
		Usage:   "多宿主主机绑定地址解析工具",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "配置文件路径 (YAML/JSON)",
				Value:   defaultConfigPath,
			},
		},
		Commands:       createCommands(),
		DefaultCommand: "help",
		ExitErrHandler: func(_ context.Context, _ *cli.Command, err error) {
			// 退出码映射统一在 run() 处理，此处只负责输出消息
			if _, ok := err.(cli.ExitCoder); ok {
				fmt.Fprintln(os.Stderr, err)
			}
		},
	}
}

func run() int {
	app := createApp()

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			return exitErr.code
		}
		var usageErr *usageError
		if errors.As(err, &usageErr) {
			fmt.Fprintf(os.Stderr, "参数错误: %v\n", usageErr)
			return 2
		}
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		return 1
	}
	return 0
}
