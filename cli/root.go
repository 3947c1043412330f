// Package cli 实现 folio 命令行：render 输出文档，plan 预览分页结果。
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	// 注册渲染后端
	_ "github.com/ByLCY/folio/renderer/canvas"
	_ "github.com/ByLCY/folio/renderer/fpdf"
)

// Version 在构建时通过 -ldflags 覆盖。
var Version = "dev"

// NewRootCommand 创建根命令，输出写到 stdout，日志写到 stderr。
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:           "folio",
		Short:         "把表格数据分页排版为可打印的文档",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "输出分页调试日志")

	newLogger := func() *log.Logger {
		logger := log.NewWithOptions(stderr, log.Options{Prefix: "folio"})
		if verbose {
			logger.SetLevel(log.DebugLevel)
		}
		return logger
	}

	root.AddCommand(
		newRenderCommand(newLogger),
		newPlanCommand(newLogger),
		newVersionCommand(),
	)
	return root
}

// Execute 运行命令行并返回进程退出码。
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCommand(os.Stdout, os.Stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		log.Error("执行失败", "error", err)
		return 1
	}
	return 0
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "打印版本号",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "folio %s\n", Version)
			return err
		},
	}
}
