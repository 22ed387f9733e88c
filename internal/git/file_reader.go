package git

import (
	"context"
	"fmt"
)

// RefFileReader reads files from a specific git ref, so a pull request
// cannot change the settings it is evaluated with
type RefFileReader struct {
	ctx  context.Context
	ref  string
	repo *Repository
}

func NewRefFileReader(ctx context.Context, repo *Repository, ref string) *RefFileReader {
	return &RefFileReader{ctx: ctx, ref: ref, repo: repo}
}

func (r *RefFileReader) ReadFile(path string) ([]byte, error) {
	path = r.repo.NormalizePath(path)
	output, err := r.repo.executor.Execute(r.ctx, "show", fmt.Sprintf("%s:%s", r.ref, path))
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s from ref %s: %w", path, r.ref, err)
	}
	return output, nil
}

func (r *RefFileReader) PathExists(path string) bool {
	return r.repo.PathExists(r.ctx, r.ref, path)
}
