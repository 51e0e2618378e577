package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/nikogura/covergen/pkg/config"
	"github.com/nikogura/covergen/pkg/jd"
	"github.com/nikogura/covergen/pkg/llm"
	"github.com/nikogura/covergen/pkg/pipeline"
	"github.com/nikogura/covergen/pkg/renderer"
)

// compileLogTail is how much compiler output is echoed after a failed compilation.
const compileLogTail = 2000

//nolint:gochecknoglobals // Cobra boilerplate
var role string

//nolint:gochecknoglobals // Cobra boilerplate
var company string

//nolint:gochecknoglobals // Cobra boilerplate
var tone string

//nolint:gochecknoglobals // Cobra boilerplate
var instructions string

//nolint:gochecknoglobals // Cobra boilerplate
var senderName string

//nolint:gochecknoglobals // Cobra boilerplate
var senderAddress []string

//nolint:gochecknoglobals // Cobra boilerplate
var recipientName string

//nolint:gochecknoglobals // Cobra boilerplate
var recipientCompany string

//nolint:gochecknoglobals // Cobra boilerplate
var recipientAddress []string

//nolint:gochecknoglobals // Cobra boilerplate
var opening string

//nolint:gochecknoglobals // Cobra boilerplate
var closing string

//nolint:gochecknoglobals // Cobra boilerplate
var outputStem string

//nolint:gochecknoglobals // Cobra boilerplate
var outputDir string

//nolint:gochecknoglobals // Cobra boilerplate
var skipPDF bool

//nolint:gochecknoglobals // Cobra boilerplate
var generateCmd = &cobra.Command{
	Use:   "generate <job-source>",
	Short: "Generate a tailored cover letter",
	Long: `Generate a tailored cover letter for a job posting.

The job posting can be provided as:
- A URL (e.g., https://boards.greenhouse.io/acme/jobs/123)
- A file path (e.g., jobs/acme.txt)
- "-" to paste the posting on standard input (for pages that need JavaScript)

Company and recipient are derived from the posting when not given.

Example:
  covergen generate https://boards.greenhouse.io/acme/jobs/123
  covergen generate jobs/acme.txt --role "Staff Engineer" --tone enthusiastic
  pbpaste | covergen generate - --company "Acme" --output-stem acme-staff --skip-pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVar(&role, "role", "", "Target role title")
	generateCmd.Flags().StringVar(&company, "company", "", "Company name (derived from the posting if not provided)")
	generateCmd.Flags().StringVar(&tone, "tone", "", "Desired tone (default from config)")
	generateCmd.Flags().StringVar(&instructions, "instructions", "", "Additional guidance for the model")
	generateCmd.Flags().StringVar(&senderName, "sender-name", "", "Sender name (default from config)")
	generateCmd.Flags().StringArrayVar(&senderAddress, "sender-address", nil, "Sender address line (repeatable)")
	generateCmd.Flags().StringVar(&recipientName, "recipient-name", "", "Recipient name (derived from the posting if not provided)")
	generateCmd.Flags().StringVar(&recipientCompany, "recipient-company", "", "Company shown in the recipient block (same as --company)")
	generateCmd.Flags().StringArrayVar(&recipientAddress, "recipient-address", nil, "Recipient address line (repeatable)")
	generateCmd.Flags().StringVar(&opening, "opening", "", "Salutation (default from config)")
	generateCmd.Flags().StringVar(&closing, "closing", "", "Complimentary close (default from config)")
	generateCmd.Flags().StringVar(&outputStem, "output-stem", "", "Basename for output files (derived from the job source if not provided)")
	generateCmd.Flags().StringVar(&outputDir, "output-dir", "", "Output directory (default from config)")
	generateCmd.Flags().BoolVar(&skipPDF, "skip-pdf", false, "Write the .tex file without compiling it")
}

func runGenerate(cmd *cobra.Command, args []string) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	source := args[0]

	var cfg config.Config
	cfg, err = loadConfig()
	if err != nil {
		return err
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}

	overrides := buildOverrides()
	if strings.TrimSpace(overrides.SenderName) == "" && strings.TrimSpace(cfg.Sender.Name) == "" {
		err = &exitError{
			code: exitUsage,
			err:  errors.New("no sender name configured (set sender.name, DEFAULT_SENDER_NAME or pass --sender-name)"),
		}
		return err
	}
	if !hasLine(overrides.SenderAddress) && !hasLine(cfg.Sender.Address) {
		err = &exitError{
			code: exitUsage,
			err:  errors.New("no sender address configured (set sender.address, DEFAULT_SENDER_ADDRESS or pass --sender-address)"),
		}
		return err
	}

	if source == jd.StdinSource {
		fmt.Fprintln(os.Stderr, "Paste the job description, then press Ctrl+D (Unix/Mac) or Ctrl+Z then Enter (Windows):")
	}

	var p *pipeline.Pipeline
	p, err = pipeline.New(cfg, pipeline.WithLogger(newLogger()))
	if err != nil {
		return err
	}

	var result pipeline.Result
	result, err = p.Run(ctx, pipeline.Input{
		Source:      source,
		Overrides:   overrides,
		SkipCompile: skipPDF,
	})
	if err != nil {
		printRunFailure(result, err)
		return err
	}

	printRunSuccess(cmd, result)
	return err
}

// buildOverrides collects the per-invocation flags. --company and --recipient-company name the
// same field; --company wins when both are set.
func buildOverrides() (o llm.Overrides) {
	companyName := company
	if strings.TrimSpace(companyName) == "" {
		companyName = recipientCompany
	}

	o = llm.Overrides{
		Role:              role,
		Company:           companyName,
		Tone:              tone,
		ExtraInstructions: instructions,
		Opening:           opening,
		Closing:           closing,
		SenderName:        senderName,
		SenderAddress:     senderAddress,
		RecipientName:     recipientName,
		RecipientAddress:  recipientAddress,
		OutputStem:        outputStem,
	}
	return o
}

func printRunSuccess(cmd *cobra.Command, result pipeline.Result) {
	fmt.Println(successStyle.Render("✓ Cover letter generated") + labelStyle.Render(fmt.Sprintf(" (%s/%s)", result.Provider, result.Model)))
	printArtifact("Company", result.Request.Company)
	printArtifact("Recipient", result.Request.RecipientName)
	printArtifact("Job", result.JobPath)
	printArtifact("LaTeX", result.TexPath)
	printArtifact("PDF", result.PDFPath)
	printArtifact("Log", result.LogPath)

	if result.PDFPath == "" {
		fmt.Println(warningStyle.Render("PDF compilation skipped (--skip-pdf)"))
	}

	if len(result.Review.Violations) > 0 {
		fmt.Printf("\nReview score: %d/100\n", result.Review.Score)
		for _, v := range result.Review.Violations {
			fmt.Println(warningStyle.Render(fmt.Sprintf("  ⚠️  %s (%s): %s", v.Rule, v.Severity, v.Detail)))
		}
		if !result.Review.Passed() {
			fmt.Println(warningStyle.Render("  Review the letter before sending it"))
		}
	}
	if getVerbose() {
		fmt.Fprintf(cmd.ErrOrStderr(), "run id: %s\n", result.RunID)
	}
}

func printRunFailure(result pipeline.Result, err error) {
	var stageErr *pipeline.StageError
	if errors.As(err, &stageErr) {
		fmt.Fprintln(os.Stderr, failureStyle.Render(fmt.Sprintf("✗ %s stage failed", stageErr.Stage)))
	}

	var compileErr *renderer.CompileError
	if errors.As(err, &compileErr) {
		if result.TexPath != "" {
			fmt.Fprintf(os.Stderr, "LaTeX source: %s\n", pathStyle.Render(result.TexPath))
		}
		if result.LogPath != "" {
			fmt.Fprintf(os.Stderr, "Compiler log: %s\n", pathStyle.Render(result.LogPath))
		}
		if compileErr.Log != "" {
			fmt.Fprintln(os.Stderr, labelStyle.Render("--- compiler output (tail) ---"))
			fmt.Fprintln(os.Stderr, tail(compileErr.Log, compileLogTail))
		}
	}
}

// hasLine reports whether lines holds at least one non-blank entry.
func hasLine(lines []string) (ok bool) {
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			ok = true
			break
		}
	}
	return ok
}
