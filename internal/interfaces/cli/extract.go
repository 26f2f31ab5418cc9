package cli

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/turtacn/fra-monitor/internal/app"
	"github.com/turtacn/fra-monitor/internal/application/extraction"
	"github.com/turtacn/fra-monitor/internal/infrastructure/monitoring/logging"
)

// jobTable renders queue results.
type jobTable []extraction.JobResult

func (t jobTable) TableHeaders() []string {
	return []string{"File", "Status", "Records", "States", "Error"}
}

func (t jobTable) TableRows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, r := range t {
		rows = append(rows, []string{
			r.FileName,
			colorStatus(r.Status),
			strconv.Itoa(r.RecordsCount),
			strings.Join(r.States, ", "),
			r.Error,
		})
	}
	return rows
}

func newExtractCmd() *cobra.Command {
	var summary string

	cmd := &cobra.Command{
		Use:   "extract <pdf>...",
		Short: "Extract state tables from progress report PDFs",
		Long: "extract sends each PDF to the extraction model one at a time and saves\n" +
			"the returned state rows.  A file that fails does not stop the others.",
		Example: "  fractl extract reports/*.pdf --summary extraction.csv",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, func(ctx context.Context, cliCtx *CLIContext, c *app.Container) error {
				uploads := readUploads(args, cliCtx.Logger)
				queue := extraction.NewQueue(c.Extraction, c.AppMetrics, cliCtx.Logger.Named("queue"))

				progress := func(r extraction.JobResult) {
					if r.Status == extraction.JobPending {
						return
					}
					fmt.Fprintf(cmd.ErrOrStderr(), "%-10s %s\n", colorStatus(r.Status), r.FileName)
				}
				results := queue.Run(ctx, uploads, progress)

				if summary != "" {
					if err := writeSummary(summary, results, time.Now()); err != nil {
						return err
					}
					cliCtx.Logger.Info("summary written", logging.String("path", summary))
				}
				if err := PrintResult(cmd, jobTable(results)); err != nil {
					return err
				}

				failed := 0
				for _, r := range results {
					if r.Status == extraction.JobError {
						failed++
					}
				}
				if failed > 0 {
					return fmt.Errorf("%d of %d file(s) failed", failed, len(results))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&summary, "summary", "", "write a per-file summary (.csv or .xlsx)")
	return cmd
}

// readUploads loads every path.  An unreadable file becomes an empty upload,
// which the queue reports as a missing document.
func readUploads(paths []string, log logging.Logger) []*extraction.Upload {
	uploads := make([]*extraction.Upload, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			log.Warn("cannot read file", logging.String("path", p), logging.Err(err))
		}
		uploads = append(uploads, &extraction.Upload{
			FileName:    filepath.Base(p),
			ContentType: mime.TypeByExtension(strings.ToLower(filepath.Ext(p))),
			Data:        data,
			Source:      extraction.SourceCLI,
		})
	}
	return uploads
}

func writeSummary(path string, results []extraction.JobResult, now time.Time) error {
	var (
		content []byte
		err     error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		content, err = extraction.SummaryXLSX(results)
	case ".csv":
		var buf bytes.Buffer
		err = extraction.WriteSummaryCSV(&buf, results, now)
		content = buf.Bytes()
	default:
		return fmt.Errorf("summary must end in .csv or .xlsx: %s", path)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, content, 0o644)
}

func colorStatus(s extraction.JobStatus) string {
	switch s {
	case extraction.JobCompleted:
		return color.GreenString(string(s))
	case extraction.JobError:
		return color.RedString(string(s))
	case extraction.JobProcessing:
		return color.YellowString(string(s))
	default:
		return string(s)
	}
}

//Personal.AI order the ending
