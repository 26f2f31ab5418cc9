package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/fra-monitor/internal/app"
	"github.com/turtacn/fra-monitor/internal/application/extraction"
	"github.com/turtacn/fra-monitor/internal/config"
	"github.com/turtacn/fra-monitor/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/fra-monitor/internal/intelligence/fraextract"
	"github.com/turtacn/fra-monitor/internal/testutil"
)

// isolate keeps the host's config files and keys out of the test and seeds
// the in-memory store on every container build.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("FRA_STORAGE_SEED", "true")
	t.Setenv("FRA_LOG_LEVEL", "error")
}

func runCLI(t *testing.T, factory ContainerFactory, args ...string) (string, string, error) {
	t.Helper()
	if factory == nil {
		factory = app.New
	}
	cmd := newRootCommand(factory)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--no-color"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestNewRootCommand_Structure(t *testing.T) {
	cmd := NewRootCommand()

	assert.Equal(t, "fractl", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
	assert.Contains(t, cmd.Version, Version)

	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"serve", "migrate", "seed", "stats", "export", "chart", "extract", "version"} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}
}

func TestNewRootCommand_GlobalFlags(t *testing.T) {
	cmd := NewRootCommand()
	pf := cmd.PersistentFlags()

	for _, name := range []string{"config", "log-level", "output", "verbose", "no-color", "timeout"} {
		assert.NotNil(t, pf.Lookup(name), "missing flag %q", name)
	}
	assert.Equal(t, "v", pf.Lookup("verbose").Shorthand)
	assert.Equal(t, "table", pf.Lookup("output").DefValue)
}

func TestVersionCmd_SkipsConfig(t *testing.T) {
	out, _, err := runCLI(t, nil, "--config", "/does/not/exist.yaml", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "fractl "+Version)
	assert.Contains(t, out, "commit: "+GitCommit)
}

func TestRoot_UnknownSubcommand(t *testing.T) {
	_, _, err := runCLI(t, nil, "nonsense")
	assert.Error(t, err)
}

func TestRoot_MissingConfigFile(t *testing.T) {
	isolate(t)
	_, _, err := runCLI(t, nil, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "stats")
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrConfigFileNotFound)
}

func TestGetCLIContext_Missing(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	_, err := GetCLIContext(cmd)
	assert.Error(t, err)
}

// ─────────────────────────────────────────────────────────────────────────────
// Output helpers
// ─────────────────────────────────────────────────────────────────────────────

type pair struct{ k, v string }

func (p pair) TableHeaders() []string { return []string{"Key", "Value"} }
func (p pair) TableRows() [][]string  { return [][]string{{p.k, p.v}} }

func TestPrintResult_Formats(t *testing.T) {
	for _, tc := range []struct {
		format string
		want   string
	}{
		{"json", `"Key"`},
		{"text", "region\tnorth"},
		{"table", "REGION"},
	} {
		t.Run(tc.format, func(t *testing.T) {
			cmd := &cobra.Command{}
			var out bytes.Buffer
			cmd.SetOut(&out)
			cmd.SetContext(context.WithValue(context.Background(), cliContextKey{}, &CLIContext{OutputFormat: tc.format}))

			var data interface{} = pair{"region", "north"}
			if tc.format == "json" {
				data = map[string]string{"Key": "region"}
			}
			require.NoError(t, PrintResult(cmd, data))
			if tc.format == "table" {
				assert.Contains(t, strings.ToUpper(out.String()), tc.want)
				assert.Contains(t, out.String(), "north")
				return
			}
			assert.Contains(t, out.String(), tc.want)
		})
	}
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderTable(&buf, []string{"State", "Claims"}, [][]string{{"Odisha", "701,000"}, {"Goa", "12"}}))
	out := buf.String()
	assert.Contains(t, out, "Odisha")
	assert.Contains(t, out, "701,000")
	assert.Contains(t, out, "Goa")
}

func TestGroupThousands(t *testing.T) {
	assert.Equal(t, "0", groupThousands(0))
	assert.Equal(t, "999", groupThousands(999))
	assert.Equal(t, "1,000", groupThousands(1000))
	assert.Equal(t, "3,043,000", groupThousands(3043000))
	assert.Equal(t, "-12,345", groupThousands(-12345))
}

// ─────────────────────────────────────────────────────────────────────────────
// stats
// ─────────────────────────────────────────────────────────────────────────────

func TestStats_JSON(t *testing.T) {
	isolate(t)
	out, _, err := runCLI(t, nil, "stats", "-o", "json")
	require.NoError(t, err)

	var view struct {
		Statistics map[string]interface{} `json:"statistics"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &view), out)
	assert.EqualValues(t, 3043000, view.Statistics["totalClaimsReceived"])
	assert.EqualValues(t, 5, view.Statistics["stateCount"])
}

func TestStats_MonthFilter(t *testing.T) {
	isolate(t)
	out, _, err := runCLI(t, nil, "stats", "--month", "june", "-o", "json")
	require.NoError(t, err)

	var view struct {
		Statistics map[string]interface{} `json:"statistics"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.EqualValues(t, 2243000, view.Statistics["totalClaimsReceived"])
}

func TestStats_TableByState(t *testing.T) {
	isolate(t)
	out, _, err := runCLI(t, nil, "stats", "--by-state")
	require.NoError(t, err)

	assert.Contains(t, out, "3,043,000")
	assert.Contains(t, out, "Chhattisgarh")
	assert.Contains(t, out, "Jharkhand")
	assert.Contains(t, out, "%")
}

// ─────────────────────────────────────────────────────────────────────────────
// seed, export, chart
// ─────────────────────────────────────────────────────────────────────────────

func TestSeed_PopulatedStore(t *testing.T) {
	isolate(t)
	out, _, err := runCLI(t, nil, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "already populated")
}

func TestSeed_EmptyStore(t *testing.T) {
	isolate(t)
	t.Setenv("FRA_STORAGE_SEED", "false")
	out, _, err := runCLI(t, nil, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "seeded 5 sample records")
}

func TestExport_CSV(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "out", "june.csv")
	out, _, err := runCLI(t, nil, "export", "csv", "--month", "June", "--out", path, "-o", "json")
	require.NoError(t, err)

	var res exportResult
	require.NoError(t, json.Unmarshal([]byte(out), &res), out)
	assert.Equal(t, path, res.Path)
	assert.Equal(t, 3, res.Records)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "Date,Year,Month,State"))
}

func TestExport_DefaultsToXLSX(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "all.xlsx")
	_, _, err := runCLI(t, nil, "export", "--out", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("PK")))
}

func TestExport_BadFormat(t *testing.T) {
	isolate(t)
	_, _, err := runCLI(t, nil, "export", "docx")
	assert.Error(t, err)
}

func TestChart_Trend(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "trend.png")
	_, _, err := runCLI(t, nil, "chart", "trend", "--out", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
}

// ─────────────────────────────────────────────────────────────────────────────
// extract
// ─────────────────────────────────────────────────────────────────────────────

// withExtractor swaps the container's model client for ex.
func withExtractor(ex fraextract.Extractor) ContainerFactory {
	return func(ctx context.Context, cfg *config.Config, log logging.Logger) (*app.Container, error) {
		c, err := app.New(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		svc, err := extraction.NewService(extraction.Dependencies{Extractor: ex, Records: c.Records, Logger: log})
		if err != nil {
			return nil, err
		}
		c.Extraction = svc
		return c, nil
	}
}

func TestExtract_QueueAndSummary(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	pdf := filepath.Join(dir, "june.pdf")
	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(pdf, testutil.MinimalPDF, 0o644))
	require.NoError(t, os.WriteFile(txt, []byte("not a report"), 0o644))
	summary := filepath.Join(dir, "summary.csv")

	ex := testutil.NewStubExtractor(1000, "Goa", "Kerala")
	out, stderr, err := runCLI(t, withExtractor(ex), "extract", pdf, txt, "--summary", summary)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 file(s) failed")
	assert.Contains(t, out, "june.pdf")
	assert.Contains(t, out, "completed")
	assert.Contains(t, out, "notes.txt")
	assert.Contains(t, stderr, "processing")

	data, err := os.ReadFile(summary)
	require.NoError(t, err)
	s := string(data)
	assert.Contains(t, s, "# Files: 2")
	assert.Contains(t, s, "# Total States: 2")
	assert.Contains(t, s, "june.pdf,completed,2,Goa; Kerala")
	assert.Equal(t, 1, ex.CallCount(), "the text file never reaches the model")
}

func TestExtract_AllSucceed(t *testing.T) {
	isolate(t)
	pdf := filepath.Join(t.TempDir(), "may.pdf")
	require.NoError(t, os.WriteFile(pdf, testutil.MinimalPDF, 0o644))

	out, _, err := runCLI(t, withExtractor(testutil.NewStubExtractor(5, "Assam")), "extract", pdf, "-o", "json")
	require.NoError(t, err)

	var results []extraction.JobResult
	require.NoError(t, json.Unmarshal([]byte(out), &results), out)
	require.Len(t, results, 1)
	assert.Equal(t, extraction.JobCompleted, results[0].Status)
	assert.Equal(t, []string{"Assam"}, results[0].States)
}

func TestExtract_BadSummaryExtension(t *testing.T) {
	isolate(t)
	pdf := filepath.Join(t.TempDir(), "may.pdf")
	require.NoError(t, os.WriteFile(pdf, testutil.MinimalPDF, 0o644))

	_, _, err := runCLI(t, withExtractor(testutil.NewStubExtractor(1, "Goa")), "extract", pdf, "--summary", "out.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".csv or .xlsx")
}

// ─────────────────────────────────────────────────────────────────────────────
// migrate
// ─────────────────────────────────────────────────────────────────────────────

func TestMigrateDown_RejectsZeroSteps(t *testing.T) {
	isolate(t)
	_, _, err := runCLI(t, nil, "migrate", "down", "--steps", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "steps must be greater than 0")
}

func TestMigrateForce_InvalidVersion(t *testing.T) {
	isolate(t)
	_, _, err := runCLI(t, nil, "migrate", "force", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid version")
}

func TestMigrationState_Table(t *testing.T) {
	m := migrationState{Database: "fra", Version: 2, Dirty: false}
	assert.Equal(t, [][]string{{"fra", "2", "false"}}, m.TableRows())
}

//Personal.AI order the ending
