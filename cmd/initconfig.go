package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nikogura/covergen/pkg/config"
)

//nolint:gochecknoglobals // Cobra boilerplate
var initConfigCmd = &cobra.Command{
	Use:   "init-config",
	Short: "Write a starter configuration file",
	Long: `Write a starter configuration file to the --config path, or to
$HOME/.covergen/config.yaml. An existing file is never overwritten.`,
	Args: cobra.NoArgs,
	RunE: runInitConfig,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(initConfigCmd)
}

func runInitConfig(cmd *cobra.Command, args []string) (err error) {
	var path string
	path, err = config.InitConfig(getConfigFile())
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("✓ Config written to ")+pathStyle.Render(path))
	fmt.Fprintln(cmd.OutOrStdout(), "Edit sender details and cv_path, then store an API key with 'covergen secrets set <provider>'.")
	return err
}
