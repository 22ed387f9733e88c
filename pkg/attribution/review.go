package attribution

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidReview = errors.New("invalid review")

// Review is the validated request for one pull request attribution run
type Review struct {
	BaseCommit string `json:"base_head_commit"`
	HeadCommit string `json:"pr_head_commit"`
	ID         string `json:"id"`
	RepoName   string `json:"repo_name"`
	RepoOwner  string `json:"repo_owner"`
	Provider   string `json:"provider"`
	CloneDir   string `json:"clone_dir"`
	CloneURL   string `json:"clone_url"`
	Author     string `json:"author"`
}

// NewReview returns the review if all fields needed for attribution are set
func NewReview(r Review) (Review, error) {
	missing := make([]string, 0)
	check := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	check("base commit", r.BaseCommit)
	check("head commit", r.HeadCommit)
	check("id", r.ID)
	check("repo name", r.RepoName)
	check("repo owner", r.RepoOwner)
	check("provider", r.Provider)
	check("clone dir", r.CloneDir)
	if len(missing) > 0 {
		return Review{}, fmt.Errorf("%w: missing %s", ErrInvalidReview, strings.Join(missing, ", "))
	}
	return r, nil
}

func (r Review) DBKey() string {
	return strings.Join([]string{r.Provider, r.RepoOwner, r.RepoName, r.ID}, "/")
}
