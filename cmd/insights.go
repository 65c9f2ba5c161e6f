package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/datavista-cli/internal/analysis"
	"github.com/KaramelBytes/datavista-cli/internal/render"
)

var (
	insWorkspace string
	insFormat    string
	insOutput    string
	insTable     bool
	insHeadlines int
)

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Report statistics, trends, outliers and patterns for the filtered view",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(insWorkspace)
		if err != nil {
			return err
		}
		rep, err := s.Insights()
		if err != nil {
			return err
		}
		if insHeadlines > 0 {
			for _, line := range rep.Headlines(insHeadlines) {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		}
		return writeReport(cmd, rep, insFormat, insOutput, insTable)
	},
}

// writeReport renders rep to --output or stdout. Report warnings also go to
// stderr so they are seen when stdout is redirected.
func writeReport(cmd *cobra.Command, rep *analysis.InsightReport, format, outPath string, table bool) error {
	if format == "" {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		format = c.OutputFormat
	}
	for _, w := range rep.Warnings {
		warnf("%s", w)
	}
	var buf bytes.Buffer
	if table {
		if err := render.StatsTable(&buf, rep); err != nil {
			return err
		}
	} else if err := render.Report(&buf, rep, format); err != nil {
		return err
	}
	if outPath != "" {
		if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		okf(cmd, "Wrote insights to %s", outPath)
		return nil
	}
	_, err := cmd.OutOrStdout().Write(buf.Bytes())
	return err
}

func addReportFlags(cmd *cobra.Command, format, output *string, table *bool) {
	cmd.Flags().StringVar(format, "format", "", "output format: markdown | json | yaml (default from config)")
	cmd.Flags().StringVarP(output, "output", "o", "", "write the report to a file instead of stdout")
	cmd.Flags().BoolVar(table, "table", false, "print a statistics table instead of the full report")
}

func init() {
	rootCmd.AddCommand(insightsCmd)
	insightsCmd.Flags().StringVarP(&insWorkspace, "workspace", "w", "", "workspace name (default: enclosing workspace directory)")
	addReportFlags(insightsCmd, &insFormat, &insOutput, &insTable)
	insightsCmd.Flags().IntVar(&insHeadlines, "headlines", 0, "print only the first N insight lines")
}
