package cmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nikogura/covergen/pkg/config"
)

//nolint:gochecknoglobals // Cobra boilerplate
var showSettingsCmd = &cobra.Command{
	Use:   "show-settings",
	Short: "Show the effective configuration",
	Long: `Show the configuration after the config file, .env and environment variables
have been applied. API keys are masked.`,
	Args: cobra.NoArgs,
	RunE: runShowSettings,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(showSettingsCmd)
}

func runShowSettings(cmd *cobra.Command, args []string) (err error) {
	var cfg config.Config
	cfg, err = loadConfig()
	if err != nil {
		return err
	}

	out := maskedConfig(cfg)

	var data []byte
	data, err = yaml.Marshal(out)
	if err != nil {
		err = errors.Wrap(err, "failed to marshal settings")
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), string(data))

	// Report where the active provider's key would come from
	key, keyErr := cfg.APIKey(cfg.Provider)
	status := successStyle.Render(config.MaskSecret(key))
	if keyErr != nil {
		status = warningStyle.Render("missing")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\n%s %s\n", labelStyle.Render(cfg.Provider+" credential:"), status)
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", labelStyle.Render("effective model:"), cfg.ModelFor(cfg.Provider))

	return err
}

// maskedConfig returns a copy of cfg with every credential masked.
func maskedConfig(cfg config.Config) (out config.Config) {
	out = cfg
	for _, key := range []*string{&out.OpenAIAPIKey, &out.TogetherAPIKey, &out.OpenRouterAPIKey, &out.AnthropicAPIKey} {
		if *key != "" {
			*key = config.MaskSecret(*key)
		}
	}
	return out
}
