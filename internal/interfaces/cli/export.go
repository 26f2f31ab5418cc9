package cli

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/fra-monitor/internal/app"
	"github.com/turtacn/fra-monitor/internal/application/reporting"
)

// exportResult describes a written report file.
type exportResult struct {
	Path     string   `json:"path"`
	Format   string   `json:"format"`
	Records  int      `json:"records"`
	Size     int64    `json:"size"`
	Warnings []string `json:"warnings,omitempty"`
}

func (e exportResult) TableHeaders() []string {
	return []string{"File", "Format", "Records", "Bytes", "Warnings"}
}

func (e exportResult) TableRows() [][]string {
	return [][]string{{
		e.Path, e.Format, strconv.Itoa(e.Records), strconv.FormatInt(e.Size, 10), strings.Join(e.Warnings, "; "),
	}}
}

func newExportCmd() *cobra.Command {
	var (
		ff    filterFlags
		out   string
		title string
	)

	cmd := &cobra.Command{
		Use:   "export [xlsx|csv|html|trend.png|states.png]",
		Short: "Write the filtered records to a report file",
		Example: "  fractl export xlsx --year 2025\n" +
			"  fractl export csv --state kerala --out kerala.csv",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := string(reporting.FormatXLSX)
			if len(args) == 1 {
				name = args[0]
			}
			format, err := reporting.ParseFormat(name)
			if err != nil {
				return err
			}
			return writeReport(cmd, &reporting.Request{Filter: ff.filter(), Format: format, Title: title}, out)
		},
	}

	ff.register(cmd)
	cmd.Flags().StringVar(&out, "out", "", "output path (default: generated file name in the current directory)")
	cmd.Flags().StringVar(&title, "title", "", "report title (html only)")
	return cmd
}

func newChartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Render dashboard charts as PNG",
	}

	sub := func(use, short string, format reporting.Format) *cobra.Command {
		var (
			ff  filterFlags
			out string
		)
		c := &cobra.Command{
			Use:   use,
			Short: short,
			RunE: func(cmd *cobra.Command, args []string) error {
				return writeReport(cmd, &reporting.Request{Filter: ff.filter(), Format: format}, out)
			},
		}
		ff.register(c)
		c.Flags().StringVar(&out, "out", "", "output path (default: generated file name)")
		return c
	}

	cmd.AddCommand(
		sub("trend", "Monthly claims and titles trend", reporting.FormatTrendPNG),
		sub("states", "Top states by total claims", reporting.FormatStatesPNG),
	)
	return cmd
}

func writeReport(cmd *cobra.Command, req *reporting.Request, out string) error {
	return withContainer(cmd, func(ctx context.Context, cliCtx *CLIContext, c *app.Container) error {
		rep, err := c.Reporting.Generate(ctx, req)
		if err != nil {
			return err
		}
		path := out
		if path == "" {
			path = rep.FileName
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		if err := os.WriteFile(path, rep.Content, 0o644); err != nil {
			return err
		}
		if rep.Records == 0 && !req.Filter.IsIdentity() {
			cliCtx.Logger.Warn("filter matched no records")
		}
		return PrintResult(cmd, exportResult{
			Path:     path,
			Format:   string(req.Format),
			Records:  rep.Records,
			Size:     rep.Size,
			Warnings: rep.Warnings,
		})
	})
}

//Personal.AI order the ending
