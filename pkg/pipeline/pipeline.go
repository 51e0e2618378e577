package pipeline

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/nikogura/covergen/pkg/config"
	"github.com/nikogura/covergen/pkg/cv"
	"github.com/nikogura/covergen/pkg/jd"
	"github.com/nikogura/covergen/pkg/llm"
	"github.com/nikogura/covergen/pkg/renderer"
	"github.com/nikogura/covergen/pkg/scorer"
)

// Output permissions.
const (
	fileMode = 0644
	dirMode  = 0750
)

// Fetcher resolves a job source to a posting.
type Fetcher interface {
	Fetch(ctx context.Context, source string) (posting jd.Posting, err error)
}

// Input is a single generation request from the caller.
type Input struct {
	Source      string
	Overrides   llm.Overrides
	SkipCompile bool
}

// Result lists the artifacts a run actually wrote. Paths of artifacts that were not written
// are empty.
type Result struct {
	RunID    string
	Stem     string
	JobPath  string
	TexPath  string
	PDFPath  string
	LogPath  string
	Provider string
	Model    string
	Request  llm.GenerationRequest
	Review   scorer.Report
}

// Pipeline chains fetch, prompt, completion, rendering and compilation for one letter.
type Pipeline struct {
	cfg       config.Config
	fetcher   Fetcher
	cvLoader  cv.Loader
	completer llm.Completer
	compiler  renderer.Compiler
	template  *renderer.Template
	logger    *slog.Logger
}

// Option customises a Pipeline.
type Option func(p *Pipeline)

// WithFetcher replaces the job fetcher.
func WithFetcher(f Fetcher) (opt Option) {
	opt = func(p *Pipeline) { p.fetcher = f }
	return opt
}

// WithCVLoader replaces the CV loader.
func WithCVLoader(l cv.Loader) (opt Option) {
	opt = func(p *Pipeline) { p.cvLoader = l }
	return opt
}

// WithCompleter replaces the configured provider binding.
func WithCompleter(c llm.Completer) (opt Option) {
	opt = func(p *Pipeline) { p.completer = c }
	return opt
}

// WithCompiler replaces the LaTeX compiler.
func WithCompiler(c renderer.Compiler) (opt Option) {
	opt = func(p *Pipeline) { p.compiler = c }
	return opt
}

// WithTemplate replaces the configured letter template.
func WithTemplate(t *renderer.Template) (opt Option) {
	opt = func(p *Pipeline) { p.template = t }
	return opt
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) (opt Option) {
	opt = func(p *Pipeline) { p.logger = l }
	return opt
}

// New builds a Pipeline from cfg. Collaborators not supplied through options are built from
// the configuration, so a missing credential or template is reported here, before any work.
func New(cfg config.Config, opts ...Option) (p *Pipeline, err error) {
	p = &Pipeline{cfg: cfg}
	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}
	if p.fetcher == nil {
		p.fetcher = jd.NewFetcher(cfg.FetchTimeout)
	}
	if p.cvLoader == nil {
		p.cvLoader = cv.FileLoader{}
	}
	if p.compiler == nil {
		p.compiler = renderer.LatexCompiler{Engine: cfg.LatexEngine, Timeout: cfg.CompileTimeout}
	}
	if p.template == nil {
		p.template, err = renderer.LoadTemplate(cfg.TemplatePath)
		if err != nil {
			return p, err
		}
	}
	if p.completer == nil {
		p.completer, err = llm.FromConfig(cfg, p.logger)
		if err != nil {
			return p, err
		}
	}

	return p, err
}

// Run generates one cover letter. Any stage failure aborts the run with a *StageError; the
// returned Result still lists whatever was written before the failure.
func (p *Pipeline) Run(ctx context.Context, in Input) (result Result, err error) {
	result.RunID = uuid.NewString()
	logger := p.logger.With("run_id", result.RunID)
	outDir := p.cfg.OutputDir

	// Fetch
	logger.Info("fetching job posting", "stage", StageFetch, "source", in.Source)
	var posting jd.Posting
	posting, err = p.fetcher.Fetch(ctx, in.Source)
	if err != nil {
		err = &StageError{Stage: StageFetch, Err: err}
		return result, err
	}

	result.Stem = llm.ResolveStem(in.Overrides, posting)
	logger = logger.With("stem", result.Stem)
	logger.Debug("job posting fetched",
		"stage", StageFetch,
		"chars", len(posting.Text),
		"company", posting.Company,
		"recipient", posting.Recipient,
	)

	// Job snapshot
	err = os.MkdirAll(outDir, dirMode)
	if err != nil {
		err = &StageError{Stage: StageSnapshot, Err: errors.Wrapf(err, "failed to create output directory %s", outDir)}
		return result, err
	}

	jobPath := artifactPath(outDir, result.Stem, ".job.txt")
	err = writeArtifact(jobPath, []byte(posting.Text))
	if err != nil {
		err = &StageError{Stage: StageSnapshot, Err: err}
		return result, err
	}
	result.JobPath = jobPath

	// Artifacts of an earlier run with this stem must not outlive a failure of this one
	texPath := artifactPath(outDir, result.Stem, ".tex")
	pdfPath := artifactPath(outDir, result.Stem, ".pdf")
	logPath := artifactPath(outDir, result.Stem, ".log")
	err = removeStale(texPath, pdfPath, logPath)
	if err != nil {
		err = &StageError{Stage: StageSnapshot, Err: err}
		return result, err
	}

	// CV
	logger.Info("loading CV", "stage", StageLoadCV, "path", p.cfg.CVPath)
	var cvText string
	cvText, err = p.cvLoader.Load(p.cfg.CVPath)
	if err != nil {
		err = &StageError{Stage: StageLoadCV, Err: err}
		return result, err
	}

	// Prompt
	req := llm.BuildRequest(posting, cvText, in.Overrides, p.defaults())
	result.Request = req
	logger.Debug("prompt built",
		"stage", StageBuildPrompt,
		"company", req.Company,
		"recipient", req.RecipientName,
		"prompt_chars", len(req.Prompt),
	)

	// Completion
	model := p.cfg.ModelFor(p.cfg.Provider)
	logger.Info("requesting letter body", "stage", StageComplete, "provider", p.cfg.Provider, "model", model)
	var body llm.GeneratedBody
	body, err = p.completer.Complete(ctx, req.Prompt, model, p.cfg.Temperature)
	if err != nil {
		err = &StageError{Stage: StageComplete, Err: err}
		return result, err
	}
	result.Provider = body.Provider
	result.Model = body.Model

	if p.cfg.ShouldTidyBody() {
		body.Text = llm.Tidy(body.Text, req.Opening, req.Closing, req.SenderName)
	}
	if strings.TrimSpace(body.Text) == "" {
		err = &StageError{Stage: StageComplete, Err: &llm.LLMError{
			Kind:     llm.KindInvalidResponse,
			Provider: body.Provider,
			Message:  "completion produced an empty letter body",
		}}
		return result, err
	}

	// Review
	result.Review = p.review(req, body)
	for _, v := range result.Review.Violations {
		logger.Warn("letter body review", "rule", v.Rule, "severity", v.Severity, "detail", v.Detail)
	}

	// Render
	logger.Info("rendering letter", "stage", StageRender, "template", p.template.Name())
	var doc renderer.Document
	doc, err = renderer.Render(req, body, p.template)
	if err != nil {
		err = &StageError{Stage: StageRender, Err: err}
		return result, err
	}

	err = writeArtifact(texPath, []byte(doc.Source))
	if err != nil {
		err = &StageError{Stage: StagePersist, Err: err}
		return result, err
	}
	result.TexPath = texPath

	if in.SkipCompile {
		logger.Info("skipping compilation", "stage", StageCompile)
		return result, err
	}

	// Compile
	err = p.compile(ctx, logger, doc, pdfPath, logPath, &result)
	return result, err
}

// compile runs the compiler in a scratch directory and copies the log and PDF into the output
// directory. The log is persisted whether or not compilation succeeded.
func (p *Pipeline) compile(ctx context.Context, logger *slog.Logger, doc renderer.Document, pdfPath string, logPath string, result *Result) (err error) {
	var workdir string
	workdir, err = os.MkdirTemp("", "covergen-")
	if err != nil {
		err = &StageError{Stage: StageCompile, Err: errors.Wrap(err, "failed to create compile directory")}
		return err
	}
	defer os.RemoveAll(workdir)

	logger.Info("compiling letter", "stage", StageCompile)
	artifact, compileErr := p.compiler.Compile(ctx, doc, workdir)

	compileLog := artifact.Log
	if compileLog == "" && compileErr != nil {
		compileLog = compileErr.Error() + "\n"
	}
	err = writeArtifact(logPath, []byte(compileLog))
	if err != nil {
		err = &StageError{Stage: StagePersist, Err: err}
		return err
	}
	result.LogPath = logPath

	if compileErr != nil || !artifact.Success {
		if compileErr == nil {
			compileErr = &renderer.CompileError{Kind: renderer.KindMissingOutput, Engine: p.cfg.LatexEngine}
		}
		err = &StageError{Stage: StageCompile, Err: compileErr}
		return err
	}

	err = writeArtifact(pdfPath, artifact.PDF)
	if err != nil {
		err = &StageError{Stage: StagePersist, Err: err}
		return err
	}
	result.PDFPath = pdfPath

	logger.Info("letter compiled", "stage", StageCompile, "pdf", pdfPath)
	return err
}

// review runs the deterministic body checks. The fallback company name is not something the
// body is expected to mention.
func (p *Pipeline) review(req llm.GenerationRequest, body llm.GeneratedBody) (report scorer.Report) {
	company := req.Company
	if company == llm.FallbackCompany {
		company = ""
	}
	report = scorer.NewScorer().Score(scorer.Input{
		Body:    body.Text,
		CVText:  req.CVText,
		JobText: req.JobText,
		Company: company,
	})
	return report
}

// defaults maps the configuration onto the prompt builder's defaults.
func (p *Pipeline) defaults() (d llm.Defaults) {
	d = llm.Defaults{
		Tone:             p.cfg.Tone,
		Opening:          p.cfg.Opening,
		Closing:          p.cfg.Closing,
		SenderName:       p.cfg.Sender.Name,
		SenderAddress:    p.cfg.Sender.Address,
		RecipientName:    p.cfg.Recipient.Name,
		Company:          p.cfg.Recipient.Company,
		RecipientAddress: p.cfg.Recipient.Address,
	}
	return d
}

func artifactPath(dir string, stem string, suffix string) (path string) {
	path = filepath.Join(dir, stem+suffix)
	return path
}

func writeArtifact(path string, data []byte) (err error) {
	err = os.WriteFile(path, data, fileMode)
	if err != nil {
		err = errors.Wrapf(err, "failed to write %s", path)
	}
	return err
}

// removeStale deletes artifacts left by an earlier run of the same stem.
func removeStale(paths ...string) (err error) {
	for _, path := range paths {
		err = os.Remove(path)
		if err != nil && !os.IsNotExist(err) {
			err = errors.Wrapf(err, "failed to remove stale %s", path)
			return err
		}
	}
	err = nil
	return err
}
