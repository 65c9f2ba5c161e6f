package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KaramelBytes/datavista-cli/internal/analysis"
	"github.com/KaramelBytes/datavista-cli/internal/parser"
	"github.com/KaramelBytes/datavista-cli/internal/render"
	"github.com/KaramelBytes/datavista-cli/internal/workspace"
)

var (
	anaOutputPath string
	anaFormat     string
	anaTable      bool
	anaChart      bool
	anaDelimiter  string
	anaSheetName  string
	anaSheetIndex int
	anaRanges     []string
	anaSelects    []string
	anaDates      []string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze a dataset without a workspace and print the insight report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		popt, err := parserOptions(anaDelimiter, anaSheetName, anaSheetIndex)
		if err != nil {
			return err
		}
		specs, err := parseFilterFlags(anaRanges, anaSelects, anaDates)
		if err != nil {
			return err
		}
		opt, err := analysisOptions()
		if err != nil {
			return err
		}
		res, err := analyzeFile(path, popt, specs, opt)
		if err != nil {
			return err
		}
		rep := res.report
		if anaChart {
			c, err := requireConfig()
			if err != nil {
				return err
			}
			labels, series := analysis.ChartData(res.view, res.types)
			title := fmt.Sprintf("%s: %d of %d rows", rep.Name, rep.Rows, rep.TotalRows)
			if err := render.Chart(cmd.OutOrStdout(), title, labels, series, c.SparklineWidth); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout())
		}
		return writeReport(cmd, rep, anaFormat, anaOutputPath, anaTable)
	},
}

type fileAnalysis struct {
	report *analysis.InsightReport
	view   *analysis.Table
	types  analysis.TypeMap
}

// analyzeFile parses path, applies specs and reports on the filtered rows.
func analyzeFile(path string, popt parser.Options, specs map[string]analysis.FilterSpec, opt analysis.Options) (*fileAnalysis, error) {
	t, err := parser.ParseFile(path, popt)
	if err != nil {
		return nil, err
	}
	types, err := analysis.InferTypes(t)
	if err != nil {
		return nil, err
	}
	for col, spec := range specs {
		if err := checkFilterColumn(types, col, spec); err != nil {
			return nil, err
		}
	}
	rows, err := analysis.Apply(t, types, specs, opt)
	if err != nil {
		return nil, err
	}
	view, err := analysis.Project(t, rows)
	if err != nil {
		return nil, err
	}
	logger.Debug("filtered dataset",
		zap.String("file", filepath.Base(path)),
		zap.Int("rows", len(rows)),
		zap.Int("total", t.Len()))
	rep, err := analysis.Analyze(view, types, opt)
	if err != nil {
		return nil, err
	}
	rep.Name = filepath.Base(path)
	rep.TotalRows = t.Len()
	rep.Filters = workspace.DescribeFilters(specs)
	return &fileAnalysis{report: rep, view: view, types: types}, nil
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	addReportFlags(analyzeCmd, &anaFormat, &anaOutputPath, &anaTable)
	analyzeCmd.Flags().BoolVar(&anaChart, "chart", false, "draw sparklines before the report")
	addParserFlags(analyzeCmd, &anaDelimiter, &anaSheetName, &anaSheetIndex)
	addFilterFlags(analyzeCmd, &anaRanges, &anaSelects, &anaDates)
}
