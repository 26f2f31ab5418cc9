package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/turtacn/fra-monitor/internal/app"
	"github.com/turtacn/fra-monitor/internal/application/dashboard"
	"github.com/turtacn/fra-monitor/internal/domain/fra"
)

// filterFlags binds --state, --year and --month.
type filterFlags struct {
	state, year, month string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.state, "state", fra.All, "state name or slug")
	cmd.Flags().StringVar(&f.year, "year", fra.All, "report year")
	cmd.Flags().StringVar(&f.month, "month", fra.All, "report month")
}

func (f *filterFlags) filter() fra.FilterState {
	return fra.NewFilterState(f.state, f.year, f.month)
}

// statsView is the printable result of "stats".
type statsView struct {
	Filter     fra.FilterState           `json:"filter"`
	Statistics *dashboard.Statistics     `json:"statistics"`
	States     []dashboard.StateProgress `json:"states,omitempty"`
}

func newStatsCmd() *cobra.Command {
	var (
		ff      filterFlags
		byState bool
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print claim and title statistics",
		Example: "  fractl stats\n" +
			"  fractl stats --state odisha --by-state\n" +
			"  fractl stats --year 2025 --month june -o json",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, func(ctx context.Context, cliCtx *CLIContext, c *app.Container) error {
				view, err := collectStats(ctx, c, ff.filter(), byState)
				if err != nil {
					return err
				}
				if strings.EqualFold(cliCtx.OutputFormat, "json") {
					return printJSON(cmd.OutOrStdout(), view)
				}
				return writeStats(cmd.OutOrStdout(), view)
			})
		},
	}

	ff.register(cmd)
	cmd.Flags().BoolVar(&byState, "by-state", false, "add a per-state progress table")
	return cmd
}

func collectStats(ctx context.Context, c *app.Container, filter fra.FilterState, byState bool) (*statsView, error) {
	st, err := c.Dashboard.Statistics(ctx, filter)
	if err != nil {
		return nil, err
	}
	view := &statsView{Filter: filter, Statistics: st}
	if byState {
		ov, err := c.Dashboard.Overview(ctx, filter)
		if err != nil {
			return nil, err
		}
		view.States = ov.StateProgress
	}
	return view, nil
}

func writeStats(w io.Writer, v *statsView) error {
	fmt.Fprintf(w, "\n=== FRA statistics (state: %s, year: %s, month: %s) ===\n\n", v.Filter.State, v.Filter.Year, v.Filter.Month)

	st := v.Statistics
	rows := [][]string{
		{"Claims received", groupThousands(st.TotalClaimsReceived)},
		{"Titles distributed", groupThousands(st.TotalTitlesDistributed)},
		{"Claims disposed", groupThousands(st.TotalDisposed)},
		{"Claims rejected", groupThousands(st.TotalRejected)},
		{"Disposal rate", colorRate(st.DisposalRate)},
		{"Forest land (ha)", strconv.FormatFloat(st.TotalForestLand, 'f', 2, 64)},
		{"States", strconv.Itoa(st.StateCount)},
	}
	if err := renderTable(w, []string{"Metric", "Value"}, rows); err != nil {
		return err
	}

	if len(v.States) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	stateRows := make([][]string, 0, len(v.States))
	for _, p := range v.States {
		rate := 0.0
		if p.Received > 0 {
			rate = float64(p.Distributed) / float64(p.Received) * 100
		}
		stateRows = append(stateRows, []string{
			p.State,
			groupThousands(p.Received),
			groupThousands(p.Distributed),
			groupThousands(p.Pending),
			colorRate(rate),
		})
	}
	return renderTable(w, []string{"State", "Received", "Distributed", "Pending", "Titled %"}, stateRows)
}

// colorRate shows a percentage green from 60%, yellow from 30%, red below.
func colorRate(rate float64) string {
	s := strconv.FormatFloat(rate, 'f', 2, 64) + "%"
	switch {
	case rate >= 60:
		return color.GreenString(s)
	case rate >= 30:
		return color.YellowString(s)
	default:
		return color.RedString(s)
	}
}

// groupThousands renders 4401000 as 4,401,000.
func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

//Personal.AI order the ending
