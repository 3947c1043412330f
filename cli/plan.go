package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/ByLCY/folio/layout"
	"github.com/ByLCY/folio/renderer"
)

type planParams struct {
	inputParams
	backend string
	out     string
}

func newPlanCommand(newLogger func() *log.Logger) *cobra.Command {
	var params planParams
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "只计算分页，打印列宽与每页放置的行",
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return checkEnvironmentVariables(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlan(cmd.Context(), params, newLogger(), cmd.OutOrStdout())
		},
	}
	fs := cmd.Flags()
	addInputFlags(fs, &params.inputParams)
	fs.StringVarP(&params.backend, "backend", "b", "canvas", "用于测量文字的渲染后端")
	fs.StringVarP(&params.out, "out", "o", "", "同时把分页结果写入文件（.json / .yaml）")
	return cmd
}

func runPlan(ctx context.Context, params planParams, logger *log.Logger, w io.Writer) error {
	j, err := params.load(ctx)
	if err != nil {
		return err
	}
	dev, err := renderer.New(params.backend, renderer.Options{
		PageWidth:  j.profile.PageWidth,
		PageHeight: j.profile.PageHeight,
		BaseDir:    j.baseDir,
	})
	if err != nil {
		return err
	}
	printer, err := j.printer(dev, logger)
	if err != nil {
		return err
	}
	plan, err := printer.Plan(j.grid, j.stretch(), j.headers())
	if err != nil {
		return fmt.Errorf("布局计算失败: %w", err)
	}
	if params.out != "" {
		if err := writePlanFile(plan, params.out); err != nil {
			return err
		}
	}

	headers := j.headers()
	columnTable(w, plan, j.stretch(), func(col int) string {
		if headers != nil {
			return headers[col]
		}
		return j.grid.HeaderText(col)
	}).Render()
	fmt.Fprintln(w)
	pageTable(w, plan).Render()
	return nil
}

func columnTable(w io.Writer, plan *layout.Plan, stretch []int, header func(int) string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Header", "Stretch", "Width (mm)"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)
	for i, width := range plan.ColumnWidths {
		table.Append([]string{
			strconv.Itoa(i + 1),
			header(i),
			strconv.Itoa(stretch[i]),
			formatMM(width),
		})
	}
	table.SetFooter([]string{"", "", "", formatMM(plan.TableWidth)})
	return table
}

func pageTable(w io.Writer, plan *layout.Plan) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Page", "Header", "Rows", "Top (mm)", "Bottom (mm)"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, page := range plan.Pages {
		header := "no"
		if len(page.Rows) > 0 && page.Rows[0].IsHeader {
			header = "yes"
		}
		table.Append([]string{
			strconv.Itoa(page.Number),
			header,
			rowRange(page.BodyRows()),
			formatMM(page.Top),
			formatMM(page.Bottom),
		})
	}
	return table
}

// rowRange 把源行号显示为从 1 开始的闭区间。
func rowRange(rows []int) string {
	switch len(rows) {
	case 0:
		return "-"
	case 1:
		return strconv.Itoa(rows[0] + 1)
	default:
		return fmt.Sprintf("%d-%d", rows[0]+1, rows[len(rows)-1]+1)
	}
}

func formatMM(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
