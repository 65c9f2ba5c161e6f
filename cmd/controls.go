package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/datavista-cli/internal/render"
)

var (
	ctlWorkspace string
	ctlJSON      bool
)

var controlsCmd = &cobra.Command{
	Use:   "controls",
	Short: "Show the filter control available for each column",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(ctlWorkspace)
		if err != nil {
			return err
		}
		controls, err := s.Controls()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if ctlJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(controls)
		}
		if err := render.ControlsTable(out, controls); err != nil {
			return err
		}
		if lines := s.Workspace().FilterDescriptions(); len(lines) > 0 {
			fmt.Fprintln(out, "Active filters:")
			for _, l := range lines {
				fmt.Fprintf(out, "  %s\n", l)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(controlsCmd)
	controlsCmd.Flags().StringVarP(&ctlWorkspace, "workspace", "w", "", "workspace name (default: enclosing workspace directory)")
	controlsCmd.Flags().BoolVar(&ctlJSON, "json", false, "print controls as JSON")
}
