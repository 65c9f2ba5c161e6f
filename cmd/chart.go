package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/datavista-cli/internal/render"
)

var (
	chartWorkspace string
	chartWidth     int
	chartSeries    []string
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Draw the filtered numeric series as terminal sparklines",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(chartWorkspace)
		if err != nil {
			return err
		}
		v, err := s.View()
		if err != nil {
			return err
		}
		width := chartWidth
		if width <= 0 {
			c, err := requireConfig()
			if err != nil {
				return err
			}
			width = c.SparklineWidth
		}
		series := v.Series
		if len(chartSeries) > 0 {
			keep := make(map[string]bool, len(chartSeries))
			for _, n := range chartSeries {
				keep[n] = true
			}
			series = series[:0:0]
			for _, cs := range v.Series {
				if keep[cs.Label] {
					series = append(series, cs)
				}
			}
		}
		if len(v.Rows) == 0 {
			warnf("no rows match the active filters")
		}
		title := fmt.Sprintf("%s: %d of %d rows", s.Workspace().Dataset.Name, len(v.Rows), v.TotalRows)
		return render.Chart(cmd.OutOrStdout(), title, v.Labels, series, width)
	},
}

func init() {
	rootCmd.AddCommand(chartCmd)
	chartCmd.Flags().StringVarP(&chartWorkspace, "workspace", "w", "", "workspace name (default: enclosing workspace directory)")
	chartCmd.Flags().IntVar(&chartWidth, "width", 0, "sparkline width in columns (default from config)")
	chartCmd.Flags().StringSliceVar(&chartSeries, "series", nil, "only draw these series (comma-separated)")
}
