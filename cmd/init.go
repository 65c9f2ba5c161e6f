package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/datavista-cli/internal/analysis"
	"github.com/KaramelBytes/datavista-cli/internal/utils"
	"github.com/KaramelBytes/datavista-cli/internal/workspace"
)

var (
	initDescription string
)

var initCmd = &cobra.Command{
	Use:   "init <workspace-name>",
	Short: "Initialize a new DataVista workspace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		wsDir, err := resolveWorkspaceDirByName(name)
		if err != nil {
			return err
		}
		// Refuse to overwrite an existing workspace.
		if info, err := os.Stat(wsDir); err == nil && info.IsDir() {
			if _, err := os.Stat(filepath.Join(wsDir, workspace.FileName)); err == nil {
				return fmt.Errorf("workspace already exists at %s", wsDir)
			}
			entries, err := os.ReadDir(wsDir)
			if err != nil {
				return fmt.Errorf("inspect workspace directory: %w", err)
			}
			if len(entries) > 0 {
				return fmt.Errorf("directory %s already exists and is not empty; refusing to initialize workspace", wsDir)
			}
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("stat workspace directory: %w", err)
		}
		ws := workspace.New(name, initDescription, wsDir)
		if err := ws.Save(); err != nil {
			return err
		}
		okf(cmd, "Workspace initialized: %s", wsDir)
		return nil
	},
}

func defaultWorkspacesDir() (string, error) {
	c, err := requireConfig()
	if err != nil {
		return "", err
	}
	dir, err := utils.ExpandHome(c.WorkspacesDir)
	if err != nil {
		return "", err
	}
	if err := utils.EnsureDir(dir); err != nil {
		return "", fmt.Errorf("create workspaces dir: %w", err)
	}
	return dir, nil
}

func resolveWorkspaceDirByName(name string) (string, error) {
	if name == "" {
		return "", errors.New("workspace name is required")
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("invalid workspace name %q", name)
	}
	root, err := defaultWorkspacesDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, name), nil
}

// resolveWorkspaceDir picks the named workspace, or the one enclosing the
// current directory when name is empty.
func resolveWorkspaceDir(name string) (string, error) {
	if name != "" {
		return resolveWorkspaceDirByName(name)
	}
	dir, err := utils.FindRoot("", workspace.FileName)
	if err != nil {
		return "", errors.New("--workspace is required outside a workspace directory")
	}
	return dir, nil
}

// openSession loads a workspace and attaches a session configured from the
// global settings.
func openSession(name string) (*workspace.Session, error) {
	dir, err := resolveWorkspaceDir(name)
	if err != nil {
		return nil, err
	}
	ws, err := workspace.Load(dir)
	if err != nil {
		return nil, err
	}
	opt, err := analysisOptions()
	if err != nil {
		return nil, err
	}
	return workspace.Open(ws, opt)
}

func analysisOptions() (analysis.Options, error) {
	c, err := requireConfig()
	if err != nil {
		return analysis.Options{}, err
	}
	opt := c.AnalysisOptions()
	opt.Logger = logger
	return opt, nil
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVarP(&initDescription, "desc", "d", "", "workspace description")
}
