package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/domainlog/internal/hook"
	"github.com/fakeyudi/domainlog/internal/logging"
)

var hookDir string

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Manage the must-use plugin that feeds the journal from the host",
}

var hookInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Write the hook plugin into the must-use plugin directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore("")
		if err != nil {
			return err
		}
		path, err := hook.Install(hookTarget(), store.Path())
		if err != nil {
			return err
		}
		logging.Log.WithField("plugin", path).Info("hook installed")
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "\n  ✓ Hook written to %s\n", path)
		fmt.Fprintf(out, "\n  It appends to %s while a session is active.\n", store.Path())
		fmt.Fprintln(out, "  Run 'domainlog start', load a page, then 'domainlog stop'.")
		fmt.Fprintln(out)
		return nil
	},
}

var hookUninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the hook plugin",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := hookTarget()
		if !hook.IsInstalled(dir) {
			cmd.Println("hook not installed")
			return nil
		}
		if err := hook.Uninstall(dir); err != nil {
			return err
		}
		cmd.Printf("Removed %s\n", hook.Path(dir))
		return nil
	},
}

// hookTarget returns --dir, or the configured must-use plugin directory.
func hookTarget() string {
	if hookDir != "" {
		return hookDir
	}
	return GetConfig().Dirs.MuPluginDir
}

func init() {
	hookCmd.PersistentFlags().StringVar(&hookDir, "dir", "", "must-use plugin directory (default from config)")
	hookCmd.AddCommand(hookInstallCmd, hookUninstallCmd)
	rootCmd.AddCommand(hookCmd)
}
