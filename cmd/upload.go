package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/datavista-cli/internal/analysis"
	"github.com/KaramelBytes/datavista-cli/internal/parser"
)

var (
	upWorkspace  string
	upDelimiter  string
	upSheetName  string
	upSheetIndex int
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Load a CSV/TSV/XLSX/JSON dataset as the workspace's active table",
	Long: `Upload replaces the workspace's table with the parsed file. Column types are
inferred again and every filter is cleared.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if !parser.Supported(path) {
			return fmt.Errorf("%w: %s (use .csv, .tsv, .xlsx or .json)", parser.ErrUnsupported, path)
		}
		popt, err := parserOptions(upDelimiter, upSheetName, upSheetIndex)
		if err != nil {
			return err
		}
		s, err := openSession(upWorkspace)
		if err != nil {
			return err
		}
		if err := s.Upload(path, popt); err != nil {
			return err
		}
		t, types := s.Table(), s.Types()
		okf(cmd, "Loaded %s into '%s': %d rows, %d columns", s.Workspace().Dataset.Name, s.Workspace().Name, t.Len(), len(t.Headers))
		out := cmd.OutOrStdout()
		for _, h := range t.Headers[1:] {
			fmt.Fprintf(out, "  %s: %s\n", h, types[h])
		}
		if len(analysis.NumericSeriesNames(t, types)) == 0 {
			warnf("no numeric columns; insights and charts will be empty")
		}
		return nil
	},
}

// parserOptions resolves the delimiter flag, falling back to the configured
// csv_delimiter.
func parserOptions(delim, sheet string, sheetIndex int) (parser.Options, error) {
	opt := parser.Options{Sheet: sheet, SheetIndex: sheetIndex}
	switch strings.ToLower(delim) {
	case "":
		c, err := requireConfig()
		if err != nil {
			return opt, err
		}
		opt.Delimiter = c.Delimiter()
	case ",", "comma":
		opt.Delimiter = ','
	case ";", "semicolon":
		opt.Delimiter = ';'
	case "\t", `\t`, "tab":
		opt.Delimiter = '\t'
	case "|", "pipe":
		opt.Delimiter = '|'
	default:
		return opt, fmt.Errorf("unsupported --delimiter: %s (use ',' | ';' | 'tab' | '|')", delim)
	}
	return opt, nil
}

func addParserFlags(cmd *cobra.Command, delim, sheet *string, sheetIndex *int) {
	cmd.Flags().StringVar(delim, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' | '|' (default from extension)")
	cmd.Flags().StringVar(sheet, "sheet-name", "", "XLSX: sheet name to load")
	cmd.Flags().IntVar(sheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
}

func init() {
	rootCmd.AddCommand(uploadCmd)
	uploadCmd.Flags().StringVarP(&upWorkspace, "workspace", "w", "", "workspace name (default: enclosing workspace directory)")
	addParserFlags(uploadCmd, &upDelimiter, &upSheetName, &upSheetIndex)
}
