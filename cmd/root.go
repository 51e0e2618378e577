package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/nikogura/covergen/pkg/config"
)

// Exit codes.
const (
	exitFailure = 1
	exitUsage   = 2
)

//nolint:gochecknoglobals // Cobra boilerplate
var verbose bool

//nolint:gochecknoglobals // Cobra boilerplate
var configFile string

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "covergen",
	Short: "Generate tailored LaTeX cover letters",
	Long: `covergen turns a job posting and your CV into a tailored cover letter.

The posting is fetched from a URL or read from a file, a language model writes the letter
body, and the result is rendered into a LaTeX letter and compiled to PDF.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// exitError carries a specific process exit code.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() (msg string) {
	msg = e.err.Error()
	return msg
}

func (e *exitError) Unwrap() (err error) {
	err = e.err
	return err
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, failureStyle.Render("Error: ")+err.Error())

		var ee *exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		os.Exit(exitFailure)
	}
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is $HOME/.covergen/config.yaml)")
}

// getVerbose returns the verbose flag value.
func getVerbose() (result bool) {
	result = verbose
	return result
}

// getConfigFile returns the config file path.
func getConfigFile() (result string) {
	result = configFile
	return result
}

// newLogger returns a text logger on stderr, at debug level when verbose.
func newLogger() (logger *slog.Logger) {
	level := slog.LevelInfo
	if getVerbose() {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return logger
}

// loadConfig loads the configuration selected by --config.
func loadConfig() (cfg config.Config, err error) {
	cfg, err = config.Load(getConfigFile())
	if err != nil {
		err = errors.Wrap(err, "failed to load config")
		return cfg, err
	}
	return cfg, err
}
