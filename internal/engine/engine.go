package engine

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hashicorp/go-multierror"
	"github.com/multimediallc/hunkowners/internal/git"
	"github.com/multimediallc/hunkowners/pkg/attribution"
	f "github.com/multimediallc/hunkowners/pkg/functional"
	"golang.org/x/sync/errgroup"
)

// SyncFunc brings the checkout in dir up to date, e.g. with a fetch or pull.
// It runs while the repository is held exclusively.
type SyncFunc func(ctx context.Context, dir string) error

type Options struct {
	LineThreshold int
	Workers       int
	Ignore        []string
	Sync          SyncFunc
	Verbose       bool
	InfoBuffer    io.Writer
	WarningBuffer io.Writer
}

type Engine struct {
	repos *git.Registry
	opts  Options
	logMu sync.Mutex
}

func New(repos *git.Registry, opts Options) *Engine {
	if opts.LineThreshold <= 0 {
		opts.LineThreshold = git.DefaultLineThreshold
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.InfoBuffer == nil {
		opts.InfoBuffer = io.Discard
	}
	if opts.WarningBuffer == nil {
		opts.WarningBuffer = io.Discard
	}
	return &Engine{repos: repos, opts: opts}
}

// Result of one attribution run. Errors recorded for individual files or
// ranges do not invalidate Items.
type Result struct {
	Hunk     attribution.PrHunkItem
	Big      []attribution.StatItem
	Small    []attribution.StatItem
	Ignored  []attribution.StatItem
	Items    []attribution.BlameItem
	mu       sync.Mutex
	recorded *multierror.Error
}

func (r *Result) record(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recorded = multierror.Append(r.recorded, err)
}

// Err returns every error recorded during the run, or nil
func (r *Result) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recorded.ErrorOrNil()
}

func (e *Engine) printDebug(format string, args ...interface{}) {
	if e.opts.Verbose {
		e.logMu.Lock()
		defer e.logMu.Unlock()
		_, _ = fmt.Fprintf(e.opts.InfoBuffer, format, args...)
	}
}

func (e *Engine) printWarn(format string, args ...interface{}) {
	e.logMu.Lock()
	defer e.logMu.Unlock()
	_, _ = fmt.Fprintf(e.opts.WarningBuffer, format, args...)
}

// Run attributes the changed lines of a pull request. The returned error is
// only set when the change set itself could not be computed.
func (e *Engine) Run(ctx context.Context, review attribution.Review) (*Result, error) {
	repo := e.repos.Get(review.CloneDir)
	if err := e.ensureCommits(ctx, repo, review.BaseCommit, review.HeadCommit); err != nil {
		return nil, err
	}

	repo.RLock()
	defer repo.RUnlock()

	result := &Result{}
	e.printDebug("Getting diff stat for %s..%s\n", review.BaseCommit, review.HeadCommit)
	if err := e.partition(ctx, repo, review.BaseCommit, review.HeadCommit, result); err != nil {
		return nil, err
	}

	// files without deleted lines have nothing to blame at the base side
	paths := f.Map(f.Filtered(result.Small, func(s attribution.StatItem) bool {
		return s.Deletions > 0
	}), func(s attribution.StatItem) string { return s.FilePath })

	result.Items = e.attribute(ctx, repo, review.BaseCommit, review.HeadCommit, paths, result)
	result.Hunk = attribution.NewPrHunkItem(review.ID, review.Author, result.Items)
	return result, nil
}

// Partition runs only the change-set filter
func (e *Engine) Partition(ctx context.Context, dir, base, head string) (*Result, error) {
	repo := e.repos.Get(dir)
	repo.RLock()
	defer repo.RUnlock()

	result := &Result{}
	if err := e.partition(ctx, repo, base, head, result); err != nil {
		return nil, err
	}
	return result, nil
}

// Attribute blames the base-side changed regions of the given files
func (e *Engine) Attribute(ctx context.Context, dir, base, head string, paths []string) *Result {
	repo := e.repos.Get(dir)
	repo.RLock()
	defer repo.RUnlock()

	result := &Result{}
	result.Items = e.attribute(ctx, repo, base, head, paths, result)
	return result
}

// EnsureCommits checks that every ref resolves in the checkout at dir, running
// the sync hook once if any is missing
func (e *Engine) EnsureCommits(ctx context.Context, dir string, refs ...string) error {
	return e.ensureCommits(ctx, e.repos.Get(dir), refs...)
}

func (e *Engine) ensureCommits(ctx context.Context, repo *git.Repository, refs ...string) error {
	missing := func() []string {
		repo.RLock()
		defer repo.RUnlock()
		return f.Filtered(refs, func(ref string) bool { return !repo.CommitExists(ctx, ref) })
	}
	if len(missing()) == 0 {
		return nil
	}
	if e.opts.Sync != nil {
		e.printDebug("Syncing repository %s for commit history\n", repo.Dir())
		if err := repo.Update(ctx, e.opts.Sync); err != nil {
			e.printWarn("WARNING: Unable to sync %s: %v\n", repo.Dir(), err)
		}
	}
	if m := missing(); len(m) > 0 {
		return fmt.Errorf("%w: %s", git.ErrCommitNotFound, strings.Join(m, ", "))
	}
	return nil
}

func (e *Engine) partition(ctx context.Context, repo *git.Repository, base, head string, result *Result) error {
	stats, err := repo.DiffStat(ctx, base, head, e.opts.WarningBuffer)
	if err != nil {
		return err
	}
	result.Ignored, stats = f.Partition(stats, func(s attribution.StatItem) bool {
		return e.isIgnored(s.FilePath)
	})
	result.Big, result.Small = git.Partition(stats, e.opts.LineThreshold)
	for _, s := range result.Big {
		e.printDebug("Excluding large file %s (+%d -%d)\n", s.FilePath, s.Additions, s.Deletions)
	}
	return nil
}

func (e *Engine) isIgnored(path string) bool {
	return Ignored(e.opts.Ignore, path)
}

// Ignored reports whether path falls under one of the patterns, either as a
// directory prefix or as a doublestar glob
func Ignored(patterns []string, path string) bool {
	for _, pattern := range patterns {
		dir := strings.TrimSuffix(pattern, "/")
		if path == dir || strings.HasPrefix(path, dir+"/") {
			return true
		}
		if ok, err := doublestar.Match(pattern, path); err == nil && ok {
			return true
		}
	}
	return false
}

func (e *Engine) attribute(ctx context.Context, repo *git.Repository, base, head string, paths []string, result *Result) []attribution.BlameItem {
	paths = f.RemoveDuplicates(f.Map(paths, repo.NormalizePath))
	if len(paths) == 0 {
		return []attribution.BlameItem{}
	}

	regions := make([][]attribution.LineRange, len(paths))
	g := new(errgroup.Group)
	g.SetLimit(e.opts.Workers)
	for i, path := range paths {
		g.Go(func() error {
			if !repo.PathExists(ctx, base, path) || !repo.PathExists(ctx, head, path) {
				e.printDebug("Skipping %s: not present at both refs\n", path)
				return nil
			}
			ranges, err := repo.Regions(ctx, base, head, path)
			if err != nil {
				e.printWarn("WARNING: %v\n", err)
				result.record(err)
				return nil
			}
			regions[i] = ranges
			return nil
		})
	}
	_ = g.Wait()

	ranges := make([]attribution.LineRange, 0)
	for _, r := range regions {
		ranges = append(ranges, r...)
	}
	e.printDebug("Blaming %d ranges in %d files\n", len(ranges), len(paths))

	blamed := make([][]attribution.BlameItem, len(ranges))
	g = new(errgroup.Group)
	g.SetLimit(e.opts.Workers)
	for i, lr := range ranges {
		g.Go(func() error {
			lines, err := repo.Blame(ctx, head, lr)
			if err != nil {
				e.printWarn("WARNING: %v\n", err)
				result.record(err)
				return nil
			}
			blamed[i] = attribution.Collapse(lr.FilePath, lines)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		result.record(err)
	}

	items := make([]attribution.BlameItem, 0)
	for _, b := range blamed {
		items = append(items, b...)
	}
	return items
}
