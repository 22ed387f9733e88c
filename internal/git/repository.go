package git

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"
)

var (
	ErrCommitNotFound = errors.New("commit not found")
	ErrInvalidUTF8    = errors.New("git output is not valid UTF-8")
)

// Repository is a local checkout. Reads (diff, blame) share the lock; anything
// that moves HEAD or fetches must go through Update.
type Repository struct {
	dir      string
	executor Executor
	mu       sync.RWMutex
}

func NewRepository(dir string) *Repository {
	return NewRepositoryWithExecutor(dir, newRealGitExecutor(dir))
}

func NewRepositoryWithExecutor(dir string, executor Executor) *Repository {
	return &Repository{dir: dir, executor: executor}
}

func (r *Repository) Dir() string {
	return r.dir
}

func (r *Repository) RLock() {
	r.mu.RLock()
}

func (r *Repository) RUnlock() {
	r.mu.RUnlock()
}

// Update runs fn while holding the repository exclusively
func (r *Repository) Update(ctx context.Context, fn func(ctx context.Context, dir string) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx, r.dir)
}

// CommitExists checks that ref resolves to a commit in the checkout
func (r *Repository) CommitExists(ctx context.Context, ref string) bool {
	_, err := r.executor.Execute(ctx, "cat-file", "-e", ref+"^{commit}")
	return err == nil
}

// PathExists checks if a file exists at ref
func (r *Repository) PathExists(ctx context.Context, ref string, path string) bool {
	_, err := r.executor.Execute(ctx, "cat-file", "-e", fmt.Sprintf("%s:%s", ref, r.NormalizePath(path)))
	return err == nil
}

// NormalizePath makes path relative to the repository root
func (r *Repository) NormalizePath(path string) string {
	if filepath.IsAbs(path) {
		dir := filepath.Clean(r.dir)
		if rel, err := filepath.Rel(dir, path); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}
	path = strings.TrimPrefix(filepath.ToSlash(filepath.Clean(path)), "/")
	return strings.TrimPrefix(path, "./")
}

func (r *Repository) run(ctx context.Context, args ...string) (string, error) {
	output, err := r.executor.Execute(ctx, args...)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(output) {
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), ErrInvalidUTF8)
	}
	return string(output), nil
}

// Registry hands out one Repository per checkout directory so that every
// caller working on the same checkout shares its lock
type Registry struct {
	mu          sync.Mutex
	repos       map[string]*Repository
	newExecutor func(dir string) Executor
}

func NewRegistry() *Registry {
	return NewRegistryWithExecutor(func(dir string) Executor { return newRealGitExecutor(dir) })
}

func NewRegistryWithExecutor(newExecutor func(dir string) Executor) *Registry {
	return &Registry{repos: make(map[string]*Repository), newExecutor: newExecutor}
}

func (reg *Registry) Get(dir string) *Repository {
	key := filepath.Clean(dir)
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if repo, ok := reg.repos[key]; ok {
		return repo
	}
	repo := NewRepositoryWithExecutor(key, reg.newExecutor(key))
	reg.repos[key] = repo
	return repo
}
