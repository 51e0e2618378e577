package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/nikogura/covergen/pkg/config"
)

//nolint:gochecknoglobals // Cobra boilerplate
var secretsCmd = &cobra.Command{
	Use:   "secrets",
	Short: "Manage provider API keys in the OS keyring",
	Long: fmt.Sprintf(`Store or remove provider API keys in the OS keyring.

Keys in the config file or environment take precedence over the keyring.
Providers: %s`, strings.Join(config.Providers(), ", ")),
}

//nolint:gochecknoglobals // Cobra boilerplate
var secretsSetCmd = &cobra.Command{
	Use:   "set <provider>",
	Short: "Store an API key read from standard input",
	Example: `  covergen secrets set openrouter
  echo "$OPENAI_API_KEY" | covergen secrets set openai`,
	Args: cobra.ExactArgs(1),
	RunE: runSecretsSet,
}

//nolint:gochecknoglobals // Cobra boilerplate
var secretsDeleteCmd = &cobra.Command{
	Use:   "delete <provider>",
	Short: "Remove a stored API key",
	Args:  cobra.ExactArgs(1),
	RunE:  runSecretsDelete,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(secretsCmd)
	secretsCmd.AddCommand(secretsSetCmd)
	secretsCmd.AddCommand(secretsDeleteCmd)
}

func runSecretsSet(cmd *cobra.Command, args []string) (err error) {
	provider := strings.ToLower(strings.TrimSpace(args[0]))

	fmt.Fprintf(cmd.ErrOrStderr(), "Enter %s API key: ", provider)

	scanner := bufio.NewScanner(cmd.InOrStdin())
	if !scanner.Scan() {
		err = scanner.Err()
		if err == nil {
			err = errors.New("no API key provided")
		}
		return err
	}
	fmt.Fprintln(cmd.ErrOrStderr())

	err = config.StoreAPIKey(provider, scanner.Text())
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("✓ Stored %s API key in keyring", provider)))
	return err
}

func runSecretsDelete(cmd *cobra.Command, args []string) (err error) {
	provider := strings.ToLower(strings.TrimSpace(args[0]))

	err = config.DeleteAPIKey(provider)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("✓ Removed %s API key from keyring", provider)))
	return err
}
