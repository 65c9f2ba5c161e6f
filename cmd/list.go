package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/datavista-cli/internal/workspace"
)

var listVerbose bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List workspaces",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := defaultWorkspacesDir()
		if err != nil {
			return err
		}
		names, err := workspace.List(root)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(names) == 0 {
			fmt.Fprintln(out, "(no workspaces)")
			return nil
		}
		for _, name := range names {
			if !listVerbose {
				fmt.Fprintf(out, "- %s\n", name)
				continue
			}
			dir, err := resolveWorkspaceDirByName(name)
			if err != nil {
				return err
			}
			ws, err := workspace.Load(dir)
			if err != nil {
				warnf("skipping %s: %v", name, err)
				continue
			}
			if ws.Dataset == nil {
				fmt.Fprintf(out, "- %s: (no dataset)\n", name)
				continue
			}
			fmt.Fprintf(out, "- %s: %s (%d rows, %d filters)\n", name, ws.Dataset.Name, ws.Dataset.Rows, len(ws.Filters))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVarP(&listVerbose, "verbose", "v", false, "show dataset and filter counts")
}
