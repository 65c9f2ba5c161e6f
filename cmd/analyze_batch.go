package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/datavista-cli/internal/render"
	"github.com/KaramelBytes/datavista-cli/internal/utils"
)

var (
	abOutDir     string
	abFormat     string
	abDelimiter  string
	abSheetName  string
	abSheetIndex int
	abRanges     []string
	abSelects    []string
	abDates      []string
	abQuiet      bool
)

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <files...>",
	Short: "Analyze multiple datasets with progress, optionally writing one report per file",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := expandInputs(args)
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		popt, err := parserOptions(abDelimiter, abSheetName, abSheetIndex)
		if err != nil {
			return err
		}
		specs, err := parseFilterFlags(abRanges, abSelects, abDates)
		if err != nil {
			return err
		}
		opt, err := analysisOptions()
		if err != nil {
			return err
		}
		format := abFormat
		if format == "" {
			format = cfg.OutputFormat
		}
		if abOutDir != "" {
			if err := utils.EnsureDir(abOutDir); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
		}

		out := cmd.OutOrStdout()
		total := len(files)
		for i, path := range files {
			if !abQuiet {
				fmt.Fprintf(out, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			res, err := analyzeFile(path, popt, specs, opt)
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := render.Report(&buf, res.report, format); err != nil {
				return err
			}
			if abOutDir == "" {
				if !abQuiet {
					fmt.Fprintln(out, buf.String())
				}
				continue
			}
			outFile, err := reportPath(abOutDir, path, format)
			if err != nil {
				return err
			}
			if err := os.WriteFile(outFile, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			if !abQuiet {
				okf(cmd, "Wrote %s", outFile)
			}
		}
		return nil
	},
}

// expandInputs resolves globs and literal paths, dropping duplicates.
func expandInputs(args []string) []string {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files
}

// reportPath names the report for src inside dir, adding a numeric suffix
// rather than overwriting an earlier report with the same base name.
func reportPath(dir, src, format string) (string, error) {
	ext := map[string]string{"json": ".json", "yaml": ".yaml"}[format]
	if ext == "" {
		ext = ".md"
	}
	base := filepath.Base(src)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	out := filepath.Join(dir, base+".insights"+ext)
	for idx := 2; ; idx++ {
		_, err := os.Stat(out)
		if errors.Is(err, os.ErrNotExist) {
			return out, nil
		}
		if err != nil {
			return "", fmt.Errorf("stat %s: %w", out, err)
		}
		out = filepath.Join(dir, fmt.Sprintf("%s__%d.insights%s", base, idx, ext))
	}
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	analyzeBatchCmd.Flags().StringVar(&abOutDir, "out-dir", "", "write one report per input into this directory")
	analyzeBatchCmd.Flags().StringVar(&abFormat, "format", "", "output format: markdown | json | yaml (default from config)")
	analyzeBatchCmd.Flags().BoolVar(&abQuiet, "quiet", false, "suppress progress and non-essential output")
	addParserFlags(analyzeBatchCmd, &abDelimiter, &abSheetName, &abSheetIndex)
	addFilterFlags(analyzeBatchCmd, &abRanges, &abSelects, &abDates)
}
