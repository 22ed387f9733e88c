package git

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/multimediallc/hunkowners/pkg/attribution"
)

func TestParseNumstat(t *testing.T) {
	tt := []struct {
		name         string
		output       string
		expected     []attribution.StatItem
		expectedWarn bool
	}{
		{
			name:   "regular rows",
			output: "10\t2\tsrc/main.go\n0\t5\tREADME.md\n",
			expected: []attribution.StatItem{
				{FilePath: "src/main.go", Additions: 10, Deletions: 2},
				{FilePath: "README.md", Additions: 0, Deletions: 5},
			},
		},
		{
			name:   "binary file degrades to zero",
			output: "-\t-\tassets/logo.png\n3\t1\ta.go",
			expected: []attribution.StatItem{
				{FilePath: "assets/logo.png", Additions: 0, Deletions: 0},
				{FilePath: "a.go", Additions: 3, Deletions: 1},
			},
			expectedWarn: true,
		},
		{
			name:   "short lines are dropped",
			output: "garbage\n1\t2\n\n4\t4\tb.go\n",
			expected: []attribution.StatItem{
				{FilePath: "b.go", Additions: 4, Deletions: 4},
			},
		},
		{
			name:     "empty output",
			output:   "",
			expected: []attribution.StatItem{},
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			warn := bytes.NewBuffer([]byte{})
			got := ParseNumstat(tc.output, warn)
			if !reflect.DeepEqual(got, tc.expected) {
				t.Errorf("expected %+v, got %+v", tc.expected, got)
			}
			if tc.expectedWarn != (warn.Len() > 0) {
				t.Errorf("expected warning %v, got %q", tc.expectedWarn, warn.String())
			}
		})
	}
}

func TestPartition(t *testing.T) {
	tt := []struct {
		name    string
		item    attribution.StatItem
		isLarge bool
	}{
		{name: "exactly threshold additions", item: attribution.StatItem{FilePath: "a", Additions: 500}, isLarge: false},
		{name: "one over threshold additions", item: attribution.StatItem{FilePath: "a", Additions: 501}, isLarge: true},
		{name: "one over threshold deletions", item: attribution.StatItem{FilePath: "a", Deletions: 501}, isLarge: true},
		{name: "sum over threshold", item: attribution.StatItem{FilePath: "a", Additions: 300, Deletions: 201}, isLarge: true},
		{name: "sum at threshold", item: attribution.StatItem{FilePath: "a", Additions: 300, Deletions: 200}, isLarge: false},
		{name: "empty change", item: attribution.StatItem{FilePath: "a"}, isLarge: false},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			big, small := Partition([]attribution.StatItem{tc.item}, DefaultLineThreshold)
			if tc.isLarge && (len(big) != 1 || len(small) != 0) {
				t.Errorf("expected %+v to be large", tc.item)
			}
			if !tc.isLarge && (len(big) != 0 || len(small) != 1) {
				t.Errorf("expected %+v to be small", tc.item)
			}
		})
	}
}

func TestRepository_DiffStat(t *testing.T) {
	exec := newMockGitExecutor(
		map[string]string{"diff --numstat --no-renames base head": "1\t1\ta.go\n"},
		map[string]error{"diff --numstat --no-renames base bad": errors.New("exit status 128")},
	)
	repo := NewRepositoryWithExecutor("/repo", exec)

	items, err := repo.DiffStat(context.Background(), "base", "head", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].FilePath != "a.go" {
		t.Errorf("unexpected items: %+v", items)
	}

	_, err = repo.DiffStat(context.Background(), "base", "bad", nil)
	if err == nil || !strings.Contains(err.Error(), "base..bad") {
		t.Errorf("expected wrapped diff stat error, got %v", err)
	}
}
