package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/boyter/gocodewalker"
	owners "github.com/multimediallc/hunkowners/internal/config"
	"github.com/multimediallc/hunkowners/internal/engine"
	"github.com/multimediallc/hunkowners/internal/git"
	"github.com/multimediallc/hunkowners/pkg/attribution"
	"github.com/multimediallc/hunkowners/pkg/coverage"
	f "github.com/multimediallc/hunkowners/pkg/functional"
	"github.com/urfave/cli/v2"
)

func stripRoot(root string, path string) string {
	if root == "." {
		return path
	}
	return strings.TrimPrefix(path, root+"/")
}

func repoFlags(repo *string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "root",
			Aliases:     []string{"r", "repo"},
			Value:       "./",
			Usage:       "Path to local Git repo",
			Destination: repo,
		},
		&cli.StringFlag{
			Name:    "base",
			Aliases: []string{"b"},
			Value:   "HEAD~1",
			Usage:   "Base ref of the change set",
		},
		&cli.StringFlag{
			Name:  "head",
			Value: "HEAD",
			Usage: "Head ref of the change set",
		},
		&cli.IntFlag{
			Name:    "threshold",
			Aliases: []string{"t"},
			Value:   0,
			Usage:   "Line threshold for large files (defaults to the hunkowners.toml value)",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Value:   "default",
			Usage:   "Output format.  Allowed values are: default, one-line, and json",
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Value: false,
			Usage: "Print debug output to stderr",
		},
	}
}

// targetsFromArgs returns the cleaned file arguments, or the paths piped to stdin
func targetsFromArgs(cCtx *cli.Context) ([]string, error) {
	targets := cleanTargets(cCtx.Args().Slice())
	if len(targets) == 0 && isStdinPiped() {
		return scanStdin()
	}
	return targets, nil
}

func main() {
	var repo string
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"v"},
		Usage:   "Print version",
	}
	cli.VersionPrinter = func(cCtx *cli.Context) {
		fmt.Println(cCtx.App.Version)
	}
	app := &cli.App{
		Name:        "hunkowners-cli",
		Usage:       "CLI tool for attributing changed lines to their authors",
		Version:     "v0.1.0.dev",
		Description: "",
		Commands: []*cli.Command{
			{
				Name:        "stat",
				Aliases:     []string{"s"},
				Usage:       "Show which changed files are small enough to attribute",
				UsageText:   "hunkowners-cli stat [options]",
				Description: "Partition the files changed between base and head into attributable and large files.",
				Flags:       repoFlags(&repo),
				Action: func(cCtx *cli.Context) error {
					format, err := validateFormat(cCtx.String("format"))
					if err != nil {
						return err
					}
					opts := newRunOptions(cCtx, repo)
					return statFiles(cCtx.Context, os.Stdout, opts, format)
				},
			},
			{
				Name:        "hunks",
				Aliases:     []string{"h"},
				Usage:       "Attribute the changed regions of files",
				UsageText:   "hunkowners-cli hunks [options] [file1] [file2]...",
				Description: "Blame the base-side changed regions of the given files, or of every attributable file if none are given. Files can also be piped to stdin.",
				Flags:       repoFlags(&repo),
				Action: func(cCtx *cli.Context) error {
					format, err := validateFormat(cCtx.String("format"))
					if err != nil {
						return err
					}
					targets, err := targetsFromArgs(cCtx)
					if err != nil {
						return err
					}
					opts := newRunOptions(cCtx, repo)
					return attributeHunks(cCtx.Context, os.Stdout, opts, targets, format)
				},
			},
			{
				Name:        "coverage",
				Aliases:     []string{"c"},
				Usage:       "Show each author's share of the changed lines",
				UsageText:   "hunkowners-cli coverage [options] [file1] [file2]...",
				Description: "Aggregate the attributed hunks of the given files, or of every attributable file if none are given, into per-author percentages.",
				Flags:       repoFlags(&repo),
				Action: func(cCtx *cli.Context) error {
					format, err := validateFormat(cCtx.String("format"))
					if err != nil {
						return err
					}
					targets, err := targetsFromArgs(cCtx)
					if err != nil {
						return err
					}
					opts := newRunOptions(cCtx, repo)
					return authorCoverage(cCtx.Context, os.Stdout, opts, targets, format)
				},
			},
			{
				Name:        "verify",
				Aliases:     []string{"vf"},
				Usage:       "Verify the hunkowners.toml file",
				UsageText:   "hunkowners-cli verify [options]",
				Description: "Verify the hunkowners.toml file in the root of the repo. Ignore patterns must be valid and match at least one file.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "root",
						Aliases:     []string{"r", "repo"},
						Value:       "./",
						Usage:       "Path to local Git repo",
						Destination: &repo,
					},
				},
				Action: func(cCtx *cli.Context) error {
					return verifyConfig(repo)
				},
			},
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

type runOptions struct {
	repo      string
	base      string
	head      string
	threshold int
	verbose   bool
}

func newRunOptions(cCtx *cli.Context, repo string) runOptions {
	return runOptions{
		repo:      repo,
		base:      cCtx.String("base"),
		head:      cCtx.String("head"),
		threshold: cCtx.Int("threshold"),
		verbose:   cCtx.Bool("verbose"),
	}
}

func validateRepo(repo string) error {
	if repoStat, err := os.Lstat(repo); err != nil || !repoStat.IsDir() {
		return fmt.Errorf("root is not a directory: %s", repo)
	}
	if gitStat, err := os.Stat(filepath.Join(repo, ".git")); err != nil || !gitStat.IsDir() {
		return fmt.Errorf("root is not a Git repository: %s", repo)
	}
	return nil
}

func newEngine(opts runOptions) (*engine.Engine, *owners.Config, error) {
	if err := validateRepo(opts.repo); err != nil {
		return nil, nil, err
	}
	conf, err := owners.ReadConfig(opts.repo, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("error reading %s: %s", owners.FileName, err)
	}
	if opts.threshold > 0 {
		conf.LineThreshold = opts.threshold
	}
	eng := engine.New(git.NewRegistry(), engine.Options{
		LineThreshold: conf.LineThreshold,
		Workers:       conf.Workers,
		Ignore:        conf.Ignore,
		Verbose:       opts.verbose,
		InfoBuffer:    os.Stderr,
		WarningBuffer: os.Stderr,
	})
	return eng, conf, nil
}

func statFiles(ctx context.Context, w io.Writer, opts runOptions, format OutputFormat) error {
	eng, _, err := newEngine(opts)
	if err != nil {
		return err
	}
	result, err := eng.Partition(ctx, opts.repo, opts.base, opts.head)
	if err != nil {
		return fmt.Errorf("error reading diff stat: %s", err)
	}
	return printStat(w, result, format)
}

// selectPaths keeps the attributable files, narrowed to targets when any are given.
// targets must already be cleaned.
func selectPaths(result *engine.Result, targets []string) []string {
	paths := f.Map(f.Filtered(result.Small, func(s attribution.StatItem) bool {
		return s.Deletions > 0
	}), func(s attribution.StatItem) string { return s.FilePath })
	if len(targets) == 0 {
		return paths
	}
	wanted := f.NewSet[string]()
	for _, target := range targets {
		wanted.Add(target)
	}
	return f.Filtered(paths, wanted.Contains)
}

func attributed(ctx context.Context, opts runOptions, targets []string) (*engine.Result, []string, *owners.Config, error) {
	eng, conf, err := newEngine(opts)
	if err != nil {
		return nil, nil, nil, err
	}
	stat, err := eng.Partition(ctx, opts.repo, opts.base, opts.head)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("error reading diff stat: %s", err)
	}
	paths := selectPaths(stat, targets)
	result := eng.Attribute(ctx, opts.repo, opts.base, opts.head, paths)
	if err := result.Err(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "WARNING: %s\n", err)
	}
	return result, paths, conf, nil
}

func attributeHunks(ctx context.Context, w io.Writer, opts runOptions, targets []string, format OutputFormat) error {
	result, paths, _, err := attributed(ctx, opts, targets)
	if err != nil {
		return err
	}
	return printHunks(w, result.Items, paths, format)
}

func authorCoverage(ctx context.Context, w io.Writer, opts runOptions, targets []string, format OutputFormat) error {
	result, _, conf, err := attributed(ctx, opts, targets)
	if err != nil {
		return err
	}
	return printCoverage(w, coverage.Percentages(result.Items, conf.Aliases), format)
}

func verifyConfig(repo string) error {
	if err := validateRepo(repo); err != nil {
		return err
	}
	if configStat, err := os.Stat(filepath.Join(repo, owners.FileName)); err != nil || configStat.IsDir() {
		return fmt.Errorf("root does not contain a %s file: %s", owners.FileName, repo)
	}
	conf, err := owners.ReadConfig(repo, nil)
	if err != nil {
		return fmt.Errorf("error reading %s: %s", owners.FileName, err)
	}
	warningBuffer := bytes.NewBuffer([]byte{})

	patterns := f.Filtered(conf.Ignore, func(pattern string) bool {
		if !doublestar.ValidatePattern(pattern) {
			_, _ = fmt.Fprintf(warningBuffer, "Invalid ignore pattern: %s\n", pattern)
			return false
		}
		return true
	})
	for identity, alias := range conf.Aliases {
		if strings.TrimSpace(alias) == "" {
			_, _ = fmt.Fprintf(warningBuffer, "Alias for %s is empty\n", identity)
		}
	}

	files, err := repoFiles(repo)
	if err != nil {
		return err
	}
	for _, pattern := range patterns {
		if !slices.ContainsFunc(files, func(file string) bool { return engine.Ignored([]string{pattern}, file) }) {
			_, _ = fmt.Fprintf(warningBuffer, "Ignore pattern matches no files: %s\n", pattern)
		}
	}

	if warningBuffer.Len() > 0 {
		return fmt.Errorf("\n%s", warningBuffer.String())
	}
	return nil
}

func repoFiles(repo string) ([]string, error) {
	fileListQueue := make(chan *gocodewalker.File, 100)

	walker := gocodewalker.NewFileWalker(repo, fileListQueue)
	walker.IncludeHidden = true
	walker.ExcludeDirectory = []string{".git"}

	errChan := make(chan error)

	go func() {
		err := walker.Start()
		errChan <- err
		close(errChan)
	}()

	files := make([]string, 0)
	for file := range fileListQueue {
		files = append(files, filepath.ToSlash(stripRoot(repo, file.Location)))
	}

	if err := <-errChan; err != nil {
		return nil, fmt.Errorf("error walking repo: %s", err)
	}
	return files, nil
}
