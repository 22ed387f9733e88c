package attribution

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// StatItem is one row of `git diff --numstat` output
type StatItem struct {
	FilePath  string `json:"filepath"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
}

func (s StatItem) Total() int {
	return s.Additions + s.Deletions
}

// LineRange is an inclusive range of lines in a single file
type LineRange struct {
	FilePath string
	Start    int
	End      int
}

// Token renders the range in the "start,end" form accepted by `git blame -L`
func (r LineRange) Token() string {
	return fmt.Sprintf("%d,%d", r.Start, r.End)
}

func (r LineRange) Len() int {
	return r.End - r.Start + 1
}

type LineAttribution struct {
	Line      int
	Author    string
	Timestamp string
}

// LineMap is keyed by absolute line number within the file at head
type LineMap map[int]LineAttribution

type BlameItem struct {
	Author       string `json:"author"`
	Timestamp    string `json:"timestamp"`
	LineStart    int    `json:"line_start"`
	LineEnd      int    `json:"line_end"`
	FilePathHash string `json:"filepath"`
}

func (b BlameItem) Lines() int {
	return b.LineEnd - b.LineStart + 1
}

type PrHunkItem struct {
	PRNumber   string      `json:"pr_number"`
	Author     string      `json:"author"`
	BlameItems []BlameItem `json:"blamevec"`
}

func NewPrHunkItem(prNumber string, author string, items []BlameItem) PrHunkItem {
	if items == nil {
		items = []BlameItem{}
	}
	return PrHunkItem{PRNumber: prNumber, Author: author, BlameItems: items}
}

// HunkMap is the record handed to the persistence layer for one repository
type HunkMap struct {
	Provider string       `json:"repo_provider"`
	Owner    string       `json:"repo_owner"`
	Repo     string       `json:"repo_name"`
	PRHunks  []PrHunkItem `json:"prhunkvec"`
	DBKey    string       `json:"db_key"`
}

func NewHunkMap(review Review, hunks ...PrHunkItem) HunkMap {
	return HunkMap{
		Provider: review.Provider,
		Owner:    review.RepoOwner,
		Repo:     review.RepoName,
		PRHunks:  hunks,
		DBKey:    review.DBKey() + "/hunkmap",
	}
}

// HashPath hides the raw file path behind its sha256 hex digest
func HashPath(path string) string {
	sum := sha256.Sum256([]byte(path))
	return hex.EncodeToString(sum[:])
}
