package app

import (
	"context"
	"fmt"
	"io"

	owners "github.com/multimediallc/hunkowners/internal/config"
	"github.com/multimediallc/hunkowners/internal/engine"
	"github.com/multimediallc/hunkowners/internal/git"
	gh "github.com/multimediallc/hunkowners/internal/github"
	"github.com/multimediallc/hunkowners/pkg/attribution"
	"github.com/multimediallc/hunkowners/pkg/coverage"
	f "github.com/multimediallc/hunkowners/pkg/functional"
)

// OutputData holds the data that will be written to GITHUB_OUTPUT
type OutputData struct {
	HunkMap       attribution.HunkMap `json:"hunkmap"`
	Coverage      map[string]string   `json:"coverage"`
	Reviewers     []string            `json:"reviewers"`
	ExcludedFiles []string            `json:"excluded_files"`
	Errors        []string            `json:"errors"`
	Success       bool                `json:"success"`
	Message       string              `json:"message"`
}

func NewOutputData(review attribution.Review, result *engine.Result) *OutputData {
	excluded := f.Map(result.Big, func(s attribution.StatItem) string { return s.FilePath })
	return &OutputData{
		HunkMap:       attribution.NewHunkMap(review, result.Hunk),
		ExcludedFiles: excluded,
		Errors:        []string{},
	}
}

func (od *OutputData) UpdateOutputData(success bool, message string, recorded error) {
	od.Success = success
	od.Message = message
	if recorded != nil {
		od.Errors = append(od.Errors, recorded.Error())
	}
}

// Config holds the application configuration
type Config struct {
	EventName     string
	EventPayload  []byte
	RepoDir       string
	Verbose       bool
	Quiet         bool
	Sync          engine.SyncFunc
	InfoBuffer    io.Writer
	WarningBuffer io.Writer
}

// App represents the application with its dependencies
type App struct {
	Conf   *owners.Config
	config *Config
	review attribution.Review
	repos  *git.Registry
}

// New creates a new App instance for the pull request described by the event payload
func New(cfg Config) (*App, error) {
	review, err := gh.ParseEvent(cfg.EventName, cfg.EventPayload, cfg.RepoDir)
	if err != nil {
		return nil, fmt.Errorf("ParseEvent Error: %w", err)
	}
	if cfg.InfoBuffer == nil {
		cfg.InfoBuffer = io.Discard
	}
	if cfg.WarningBuffer == nil {
		cfg.WarningBuffer = io.Discard
	}
	return &App{
		config: &cfg,
		review: review,
		repos:  git.NewRegistry(),
	}, nil
}

func (a *App) Review() attribution.Review {
	return a.review
}

func (a *App) printDebug(format string, args ...interface{}) {
	if a.config.Verbose {
		_, _ = fmt.Fprintf(a.config.InfoBuffer, format, args...)
	}
}

func (a *App) printWarn(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(a.config.WarningBuffer, format, args...)
}

// Run executes the application logic
func (a *App) Run(ctx context.Context) (*OutputData, error) {
	a.printDebug("PR: %s (%s..%s)\n", a.review.ID, a.review.BaseCommit, a.review.HeadCommit)
	repo := a.repos.Get(a.review.CloneDir)

	// The sync hook may be what brings the base commit, and with it the config
	syncer := engine.New(a.repos, engine.Options{
		Sync:          a.config.Sync,
		Verbose:       a.config.Verbose,
		InfoBuffer:    a.config.InfoBuffer,
		WarningBuffer: a.config.WarningBuffer,
	})
	if err := syncer.EnsureCommits(ctx, repo.Dir(), a.review.BaseCommit, a.review.HeadCommit); err != nil {
		return &OutputData{}, fmt.Errorf("Attribution Error: %w", err)
	}

	// Settings are taken from the base commit so the PR cannot change them
	conf, err := owners.ReadConfig(repo.Dir(), git.NewRefFileReader(ctx, repo, a.review.BaseCommit))
	if err != nil {
		a.printWarn("WARNING: Error reading %s: %v - using default config\n", owners.FileName, err)
	}
	a.Conf = conf

	if timeout := conf.TimeoutDuration(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	eng := engine.New(a.repos, engine.Options{
		LineThreshold: conf.LineThreshold,
		Workers:       conf.Workers,
		Ignore:        conf.Ignore,
		Sync:          a.config.Sync,
		Verbose:       a.config.Verbose,
		InfoBuffer:    a.config.InfoBuffer,
		WarningBuffer: a.config.WarningBuffer,
	})
	result, err := eng.Run(ctx, a.review)
	if err != nil {
		return &OutputData{}, fmt.Errorf("Attribution Error: %w", err)
	}
	for _, big := range result.Big {
		a.printWarn("WARNING: Excluded large file: %s\n", big.FilePath)
	}

	outputData := NewOutputData(a.review, result)
	shares := coverage.Percentages(result.Hunk.BlameItems, conf.Aliases)
	outputData.Coverage = coverage.Calculate(result.Hunk, conf.Aliases)
	outputData.Reviewers = coverage.SuggestReviewers(shares, a.review.Author, conf.MaxReviewers)
	if a.config.Verbose {
		a.printCoverage(shares)
	}

	if len(result.Hunk.BlameItems) == 0 {
		outputData.UpdateOutputData(true, "No attributable lines in this PR", result.Err())
		return outputData, nil
	}
	outputData.UpdateOutputData(true, fmt.Sprintf("Attributed %d hunks", len(result.Hunk.BlameItems)), result.Err())
	return outputData, nil
}

func (a *App) printCoverage(shares map[string]float64) {
	a.printDebug("Coverage:\n")
	for _, share := range coverage.Ranked(shares) {
		a.printDebug("- %s: %.2f%%\n", share.Author, share.Percent)
	}
}
