package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ByLCY/folio/layout"
	"github.com/ByLCY/folio/renderer"
)

type renderParams struct {
	inputParams
	backend string
	format  string
	out     string
	debug   string
	watch   bool
}

// pageWriter 由支持逐页输出的后端实现（canvas 的 svg/png）。
type pageWriter interface {
	PageCount() int
	WritePage(i int, w io.Writer) error
}

func newRenderCommand(newLogger func() *log.Logger) *cobra.Command {
	var params renderParams
	cmd := &cobra.Command{
		Use:   "render",
		Short: "分页排版并输出 PDF、SVG 或 PNG",
		Example: `  folio render --profile invoices.folio --csv invoices.csv --out output/invoices.pdf
  folio render --sqlite shop.db --query "select * from orders" --backend fpdf --out orders.pdf`,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return checkEnvironmentVariables(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger()
			ctx := cmd.Context()
			if err := runRender(ctx, params, logger); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "已生成：%s\n", params.out)
			if !params.watch {
				return nil
			}
			return watch(ctx, params.watchPaths(), logger, func() error {
				return runRender(ctx, params, logger)
			})
		},
	}
	fs := cmd.Flags()
	addInputFlags(fs, &params.inputParams)
	fs.StringVarP(&params.backend, "backend", "b", "canvas", fmt.Sprintf("渲染后端 %v", renderer.Backends()))
	fs.StringVarP(&params.format, "format", "f", "", "输出格式 pdf|svg|png，为空时按 --out 的扩展名")
	fs.StringVarP(&params.out, "out", "o", "output/table.pdf", "输出路径")
	fs.StringVar(&params.debug, "debug", "", "分页结果调试输出路径（.json / .yaml）")
	fs.BoolVarP(&params.watch, "watch", "w", false, "输入文件变化时重新输出")
	return cmd
}

// runRender 串联读取、排版与输出。任何一步失败都不会写出输出文件。
func runRender(ctx context.Context, params renderParams, logger *log.Logger) error {
	j, err := params.load(ctx)
	if err != nil {
		return err
	}
	dev, err := renderer.New(params.backend, renderer.Options{
		PageWidth:  j.profile.PageWidth,
		PageHeight: j.profile.PageHeight,
		Format:     outputFormat(params.format, params.out),
		BaseDir:    j.baseDir,
		Title:      j.profile.Title,
		Author:     j.profile.Author,
		Creator:    "folio " + Version,
	})
	if err != nil {
		return err
	}

	printer, err := j.printer(dev, logger)
	if err != nil {
		return err
	}
	if params.debug != "" {
		plan, err := printer.Plan(j.grid, j.stretch(), j.headers())
		if err != nil {
			return fmt.Errorf("布局计算失败: %w", err)
		}
		if err := writePlanFile(plan, params.debug); err != nil {
			return err
		}
	}
	if err := printer.Render(j.grid, j.stretch(), j.headers()); err != nil {
		return fmt.Errorf("排版失败: %w", err)
	}
	return writeOutput(dev, outputFormat(params.format, params.out), params.out)
}

// printer 创建带页眉页脚装饰器的 Printer。
func (j *job) printer(s layout.Surface, logger *log.Logger) (*layout.Printer, error) {
	var dec layout.PageDecorator
	running, err := j.decorator()
	if err != nil {
		return nil, err
	}
	if running != nil {
		dec = running
	}
	return layout.NewPrinter(s, layout.WithConfig(j.configFor(dec, logger))), nil
}

func outputFormat(format, out string) string {
	if format != "" {
		return strings.ToLower(format)
	}
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(out), ".")); ext {
	case "svg", "png":
		return ext
	default:
		return "pdf"
	}
}

// writeOutput 写出文档；非 PDF 的多页输出拆成 name-1.ext、name-2.ext ……
func writeOutput(dev renderer.Renderer, format, out string) error {
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	if pw, ok := dev.(pageWriter); ok && format != "pdf" && pw.PageCount() > 1 {
		ext := filepath.Ext(out)
		stem := strings.TrimSuffix(out, ext)
		for i := range pw.PageCount() {
			if err := writeFile(fmt.Sprintf("%s-%d%s", stem, i+1, ext), func(w io.Writer) error {
				return pw.WritePage(i, w)
			}); err != nil {
				return err
			}
		}
		return nil
	}
	return writeFile(out, dev.Finish)
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建输出文件失败: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("写入输出文件失败: %w", err)
	}
	return nil
}

func writePlanFile(plan *layout.Plan, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WritePlan(plan, path); err != nil {
		return fmt.Errorf("输出调试文件失败: %w", err)
	}
	return nil
}
