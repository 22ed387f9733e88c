package gh

import (
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/google/go-github/v63/github"
	"github.com/multimediallc/hunkowners/pkg/attribution"
)

const Provider = "github"

var ErrIgnoredEvent = errors.New("event does not require attribution")

// Actions that change the commits of a pull request
var attributedActions = []string{"opened", "reopened", "synchronize", "ready_for_review"}

type NotPullRequestEventError struct {
	EventType string
}

func (e NotPullRequestEventError) Error() string {
	return fmt.Sprintf("unsupported event type: %s", e.EventType)
}

// ParseEvent decodes a webhook payload into a validated Review. cloneDir is
// the local checkout of the event's repository.
func ParseEvent(eventType string, payload []byte, cloneDir string) (attribution.Review, error) {
	event, err := github.ParseWebHook(eventType, payload)
	if err != nil {
		return attribution.Review{}, fmt.Errorf("parse %s payload: %w", eventType, err)
	}
	prEvent, ok := event.(*github.PullRequestEvent)
	if !ok {
		return attribution.Review{}, NotPullRequestEventError{EventType: eventType}
	}
	if !slices.Contains(attributedActions, prEvent.GetAction()) {
		return attribution.Review{}, fmt.Errorf("%w: action %q", ErrIgnoredEvent, prEvent.GetAction())
	}
	return ReviewFromPullRequest(prEvent.GetRepo(), prEvent.GetPullRequest(), cloneDir)
}

func ReviewFromPullRequest(repo *github.Repository, pr *github.PullRequest, cloneDir string) (attribution.Review, error) {
	if pr == nil || repo == nil {
		return attribution.Review{}, fmt.Errorf("%w: missing pull request or repository", attribution.ErrInvalidReview)
	}
	id := ""
	if pr.GetNumber() > 0 {
		id = strconv.Itoa(pr.GetNumber())
	}
	return attribution.NewReview(attribution.Review{
		BaseCommit: pr.GetBase().GetSHA(),
		HeadCommit: pr.GetHead().GetSHA(),
		ID:         id,
		RepoName:   repo.GetName(),
		RepoOwner:  repo.GetOwner().GetLogin(),
		Provider:   Provider,
		CloneDir:   cloneDir,
		CloneURL:   repo.GetCloneURL(),
		Author:     pr.GetUser().GetLogin(),
	})
}
